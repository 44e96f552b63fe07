package client

import (
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/sys/unix"

	"github.com/christianrauch/weston-clients/internal/wl"
)

// Modifier masks, matching the usual X mapping.
const (
	ModShift   uint32 = 0x01
	ModLock    uint32 = 0x02
	ModControl uint32 = 0x04
	ModAlt     uint32 = 0x08
)

// Evdev keycodes for the modifier keys tracked without a keymap.
const (
	keyLeftCtrl   = 29
	keyLeftShift  = 42
	keyRightShift = 54
	keyLeftAlt    = 56
	keyRightCtrl  = 97
	keyRightAlt   = 100
)

func modifierForKey(key uint32) uint32 {
	switch key {
	case keyLeftShift, keyRightShift:
		return ModShift
	case keyLeftCtrl, keyRightCtrl:
		return ModControl
	case keyLeftAlt, keyRightAlt:
		return ModAlt
	default:
		return 0
	}
}

// Input is one seat: a pointer, a keyboard and the selection that
// travels with keyboard focus.
type Input struct {
	display    *Display
	globalName uint32
	seat       *wl.Seat
	pointer    *wl.Pointer
	keyboard   *wl.Keyboard
	dataDevice *wl.DataDevice

	caps uint32

	pointerFocus  *Window
	keyboardFocus *Window

	x, y          int
	enterSerial   uint32
	buttonSerial  uint32
	modifiers     uint32
	currentCursor Cursor

	selection    *Offer
	pendingOffer *Offer
}

func newInput(d *Display, name, version uint32) *Input {
	in := &Input{display: d, globalName: name, currentCursor: cursorUnset}
	if d.registry != nil {
		in.seat = d.registry.BindSeat(name, version)
		in.seat.OnCapabilities = in.handleCapabilities
	}
	in.ensureDataDevice()
	d.inputs = append(d.inputs, in)
	return in
}

func (in *Input) destroy() {
	d := in.display
	for i, x := range d.inputs {
		if x == in {
			d.inputs = append(d.inputs[:i], d.inputs[i+1:]...)
			break
		}
	}
	for _, w := range d.windows {
		if w.keyboardIn == in {
			w.keyboardIn = nil
		}
	}
	if in.selection != nil {
		in.selection.destroy()
		in.selection = nil
	}
	in.pointerFocus = nil
	in.keyboardFocus = nil
	in.pointer = nil
	in.keyboard = nil
}

func (in *Input) handleCapabilities(caps uint32) {
	in.caps = caps
	if caps&wl.SeatPointer != 0 && in.pointer == nil {
		p := in.seat.GetPointer()
		p.OnEnter = in.pointerEnter
		p.OnLeave = in.pointerLeave
		p.OnMotion = in.pointerMotion
		p.OnButton = in.pointerButton
		in.pointer = p
	} else if caps&wl.SeatPointer == 0 && in.pointer != nil {
		in.display.log.Debug("seat lost pointer capability")
		in.pointer = nil
	}
	if caps&wl.SeatKeyboard != 0 && in.keyboard == nil {
		k := in.seat.GetKeyboard()
		k.OnKeymap = in.keyboardKeymap
		k.OnEnter = in.keyboardEnter
		k.OnLeave = in.keyboardLeave
		k.OnKey = in.keyboardKey
		k.OnModifiers = in.keyboardModifiers
		in.keyboard = k
	} else if caps&wl.SeatKeyboard == 0 && in.keyboard != nil {
		in.display.log.Debug("seat lost keyboard capability")
		in.keyboard = nil
	}
}

// HasPointer reports whether the seat advertises a pointer.
func (in *Input) HasPointer() bool { return in.caps&wl.SeatPointer != 0 }

// HasKeyboard reports whether the seat advertises a keyboard.
func (in *Input) HasKeyboard() bool { return in.caps&wl.SeatKeyboard != 0 }

// GlobalName reports the registry name the seat was announced under.
func (in *Input) GlobalName() uint32 { return in.globalName }

// Position returns the pointer position in surface coordinates.
func (in *Input) Position() (x, y int) { return in.x, in.y }

// ContentPosition returns the pointer position relative to the content
// rectangle of the focused window.
func (in *Input) ContentPosition() (x, y int) {
	if in.pointerFocus == nil {
		return in.x, in.y
	}
	c := in.pointerFocus.ChildAllocation()
	return in.x - c.X, in.y - c.Y
}

// Modifiers returns the currently held modifier mask.
func (in *Input) Modifiers() uint32 { return in.modifiers }

// PointerFocus returns the window under the pointer, or nil.
func (in *Input) PointerFocus() *Window { return in.pointerFocus }

// KeyboardFocus returns the window holding keyboard focus, or nil.
func (in *Input) KeyboardFocus() *Window { return in.keyboardFocus }

func windowFromSurface(s *wl.Surface) *Window {
	if s == nil {
		return nil
	}
	w, _ := s.UserData.(*Window)
	return w
}

// cursorFor picks the cursor for a frame location. clientCursor is the
// application's choice for the content area.
func (in *Input) cursorFor(loc Location, clientCursor Cursor) Cursor {
	switch {
	case loc.isResizing():
		return cursorForResize(loc)
	case loc == LocationExterior || loc == LocationTitlebar:
		return CursorDefault
	default:
		return clientCursor
	}
}

func (in *Input) pointerEnter(serial uint32, s *wl.Surface, sx, sy wl.Fixed) {
	in.enterSerial = serial
	in.currentCursor = cursorUnset
	in.x, in.y = sx.Int(), sy.Int()
	w := windowFromSurface(s)
	in.pointerFocus = w
	if w == nil {
		return
	}
	cur := CursorLeftPtr
	if w.caps.enter != nil {
		cur = w.caps.enter.Enter(w, in, in.x, in.y)
	}
	in.SetPointerImage(in.cursorFor(w.locate(in.x, in.y), cur))
}

func (in *Input) pointerLeave(serial uint32, s *wl.Surface) {
	w := in.pointerFocus
	in.pointerFocus = nil
	in.currentCursor = cursorUnset
	if w != nil && w.caps.leave != nil {
		w.caps.leave.Leave(w, in)
	}
}

func (in *Input) pointerMotion(time uint32, sx, sy wl.Fixed) {
	in.x, in.y = sx.Int(), sy.Int()
	w := in.pointerFocus
	if w == nil {
		return
	}
	w.handleMotion(in, time, in.x, in.y)
}

func (in *Input) pointerButton(serial, time, button, state uint32) {
	if state == wl.StatePressed {
		in.buttonSerial = serial
	}
	w := in.pointerFocus
	if w == nil {
		return
	}
	w.handleButton(in, time, button, state)
}

// handleMotion updates item focus, consults the motion handler over the
// content area and keeps the cursor in step with the frame location.
func (w *Window) handleMotion(in *Input, time uint32, x, y int) {
	loc := w.locate(x, y)
	if w.grabButton == 0 {
		w.setItemFocus(w.findItem(x, y))
	}
	cur := CursorLeftPtr
	if loc == LocationClientArea && w.caps.motion != nil {
		cur = w.caps.motion.Motion(w, in, time, x, y)
	}
	in.SetPointerImage(in.cursorFor(loc, cur))
}

// handleButton starts a move or resize grab on the frame; anything else
// goes to the button handler exactly once, bracketed by the item grab
// bookkeeping.
func (w *Window) handleButton(in *Input, time, button, state uint32) {
	loc := w.locate(in.x, in.y)

	if button == wl.BtnLeft && state == wl.StatePressed {
		switch {
		case loc == LocationTitlebar:
			w.Move(in)
			return
		case loc.isResizing():
			w.beginResize(in, uint32(loc))
			return
		}
	}

	if state == wl.StatePressed && w.focusItem != nil && w.grabButton == 0 {
		w.grabButton = button
	}
	if w.caps.button != nil {
		w.caps.button.Button(w, in, time, button, state)
	}
	if state == wl.StateReleased && w.grabButton == button && w.grabButton != 0 {
		w.grabButton = 0
		w.setItemFocus(w.findItem(in.x, in.y))
	}
}

func (in *Input) keyboardKeymap(format uint32, fd int, size uint32) {
	unix.Close(fd)
	in.display.log.Debug("keyboard keymap", "format", format, "size", size)
}

// keyboardEnter rebuilds the modifier mask from the keys already held
// when focus arrives.
func (in *Input) keyboardEnter(serial uint32, s *wl.Surface, keys []uint32) {
	in.modifiers = 0
	for _, k := range keys {
		in.modifiers |= modifierForKey(k)
	}
	w := windowFromSurface(s)
	in.keyboardFocus = w
	if w == nil {
		return
	}
	w.keyboardIn = in
	w.ScheduleRedraw()
	if w.caps.keyboardFocus != nil {
		w.caps.keyboardFocus.KeyboardFocus(w, in, true)
	}
}

func (in *Input) keyboardLeave(serial uint32, s *wl.Surface) {
	w := in.keyboardFocus
	in.keyboardFocus = nil
	if w == nil {
		return
	}
	if w.keyboardIn == in {
		w.keyboardIn = nil
		w.ScheduleRedraw()
	}
	if w.caps.keyboardFocus != nil {
		w.caps.keyboardFocus.KeyboardFocus(w, in, false)
	}
}

func (in *Input) keyboardKey(serial, time, key, state uint32) {
	if m := modifierForKey(key); m != 0 {
		if state == wl.StatePressed {
			in.modifiers |= m
		} else {
			in.modifiers &^= m
		}
	}
	w := in.keyboardFocus
	if w == nil {
		return
	}
	if w.caps.key != nil {
		w.caps.key.Key(w, in, time, key, state)
	}
}

func (in *Input) keyboardModifiers(serial, depressed, latched, locked, group uint32) {
	in.modifiers = depressed & (ModShift | ModLock | ModControl | ModAlt)
}

// SetPointerImage selects the cursor shown while this seat's pointer is
// over one of our surfaces. Reselecting the current image is a no-op;
// an out-of-range value is rejected with a warning.
func (in *Input) SetPointerImage(c Cursor) {
	if c != CursorDefault && (c < 0 || c >= cursorCount) {
		in.display.log.Warn("invalid cursor", "cursor", int(c))
		return
	}
	if c == in.currentCursor {
		return
	}
	in.currentCursor = c
	if in.pointer == nil {
		return
	}
	if c == CursorDefault {
		in.pointer.SetCursor(in.enterSerial, nil, 0, 0)
		return
	}
	cs := in.display.cursors[c]
	if cs == nil {
		return
	}
	in.pointer.SetCursor(in.enterSerial, cs.surface, int32(cs.hotX), int32(cs.hotY))
}

// Offer is the set of mime types another client advertises for a data
// source.
type Offer struct {
	offer     *wl.DataOffer
	types     []string
	destroyed bool
}

// Types returns the advertised mime types.
func (o *Offer) Types() []string { return o.types }

// Offers reports whether the offer carries the given mime type.
func (o *Offer) Offers(mime string) bool {
	for _, t := range o.types {
		if t == mime {
			return true
		}
	}
	return false
}

func (o *Offer) destroy() {
	if o.destroyed {
		return
	}
	o.destroyed = true
	if o.offer != nil {
		o.offer.Destroy()
	}
}

func (in *Input) ensureDataDevice() {
	d := in.display
	if in.dataDevice != nil || d.ddm == nil || in.seat == nil {
		return
	}
	dd := d.ddm.GetDataDevice(in.seat)
	dd.OnDataOffer = in.handleDataOffer
	dd.OnSelection = in.handleSelection
	in.dataDevice = dd
}

func (in *Input) handleDataOffer(o *wl.DataOffer) {
	off := &Offer{offer: o}
	o.OnOffer = func(mime string) { off.types = append(off.types, mime) }
	in.pendingOffer = off
}

// handleSelection replaces the seat's selection. The old offer is
// destroyed exactly once; a nil offer clears the selection.
func (in *Input) handleSelection(o *wl.DataOffer) {
	if in.selection != nil {
		in.selection.destroy()
		in.selection = nil
	}
	if o == nil {
		in.pendingOffer = nil
		return
	}
	if in.pendingOffer != nil && in.pendingOffer.offer == o {
		in.selection = in.pendingOffer
	} else {
		in.selection = &Offer{offer: o}
	}
	in.pendingOffer = nil
}

// Selection returns the current selection offer, or nil.
func (in *Input) Selection() *Offer { return in.selection }

// ReceiveSelection asks the selection owner to write the given mime
// type into a pipe and returns the read end.
func (in *Input) ReceiveSelection(mime string) (io.ReadCloser, error) {
	if in.selection == nil {
		return nil, errors.New("no selection present")
	}
	if !in.selection.Offers(mime) {
		return nil, fmt.Errorf("selection does not offer %q", mime)
	}
	r, pw, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create pipe: %w", err)
	}
	in.selection.offer.Receive(mime, int(pw.Fd()))
	pw.Close()
	if in.display.conn != nil {
		in.display.conn.Flush()
	}
	return r, nil
}
