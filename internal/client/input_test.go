package client

import (
	"testing"

	"github.com/christianrauch/weston-clients/internal/wl"
)

func newTestInput(d *Display) *Input {
	in := &Input{display: d, currentCursor: cursorUnset}
	d.inputs = append(d.inputs, in)
	return in
}

func TestModifierForKey(t *testing.T) {
	tests := []struct {
		key  uint32
		want uint32
	}{
		{keyLeftShift, ModShift},
		{keyRightShift, ModShift},
		{keyLeftCtrl, ModControl},
		{keyRightCtrl, ModControl},
		{keyLeftAlt, ModAlt},
		{keyRightAlt, ModAlt},
		{30, 0}, // KEY_A
	}
	for _, tt := range tests {
		if got := modifierForKey(tt.key); got != tt.want {
			t.Errorf("modifierForKey(%d) = %#x, want %#x", tt.key, got, tt.want)
		}
	}
}

func TestKeyboardEnterReplaysHeldModifiers(t *testing.T) {
	d := newTestDisplay()
	in := newTestInput(d)

	in.keyboardEnter(1, nil, []uint32{keyLeftShift, keyRightCtrl, 30})
	if in.Modifiers() != ModShift|ModControl {
		t.Fatalf("Modifiers() = %#x, want shift|control", in.Modifiers())
	}

	in.keyboardKey(2, 0, keyLeftShift, wl.StateReleased)
	if in.Modifiers() != ModControl {
		t.Errorf("Modifiers() = %#x after shift release, want control", in.Modifiers())
	}

	in.keyboardKey(3, 0, keyLeftAlt, wl.StatePressed)
	if in.Modifiers() != ModControl|ModAlt {
		t.Errorf("Modifiers() = %#x, want control|alt", in.Modifiers())
	}

	// A fresh enter replaces the mask entirely.
	in.keyboardEnter(4, nil, nil)
	if in.Modifiers() != 0 {
		t.Errorf("Modifiers() = %#x after empty enter, want 0", in.Modifiers())
	}
}

func TestKeyboardModifiersEventOverridesMask(t *testing.T) {
	d := newTestDisplay()
	in := newTestInput(d)

	in.keyboardModifiers(1, ModShift|ModLock, 0, 0, 0)
	if in.Modifiers() != ModShift|ModLock {
		t.Errorf("Modifiers() = %#x, want shift|lock", in.Modifiers())
	}
}

func TestPointerMotionSelectsCursor(t *testing.T) {
	d := newTestDisplay()
	w := newTestWindow(d, 500, 400)
	in := newTestInput(d)
	in.pointerFocus = w

	tests := []struct {
		name string
		x, y int
		want Cursor
	}{
		{"left grip", 20, 200, CursorLeft},
		{"top grip", 250, 20, CursorTop},
		{"bottom right grip", 480, 380, CursorBottomRight},
		{"titlebar", 250, 40, CursorDefault},
		{"client area", 250, 100, CursorLeftPtr},
		{"exterior", 2, 2, CursorDefault},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in.pointerMotion(0, wl.FixedInt(tt.x), wl.FixedInt(tt.y))
			if in.currentCursor != tt.want {
				t.Errorf("cursor = %v, want %v", in.currentCursor, tt.want)
			}
		})
	}
}

type ibeamHandler struct{ motions int }

func (h *ibeamHandler) Motion(w *Window, in *Input, time uint32, x, y int) Cursor {
	h.motions++
	return CursorIBeam
}

func TestMotionHandlerPicksClientCursor(t *testing.T) {
	d := newTestDisplay()
	w := newTestWindow(d, 500, 400)
	h := &ibeamHandler{}
	w.SetHandler(h)
	in := newTestInput(d)
	in.pointerFocus = w

	// Over the content area the handler decides.
	in.pointerMotion(0, wl.FixedInt(250), wl.FixedInt(100))
	if in.currentCursor != CursorIBeam {
		t.Fatalf("cursor = %v, want xterm", in.currentCursor)
	}
	if h.motions != 1 {
		t.Fatalf("motions = %d, want 1", h.motions)
	}

	// Over the frame it does not even run.
	in.pointerMotion(0, wl.FixedInt(250), wl.FixedInt(40))
	if h.motions != 1 {
		t.Errorf("motion handler ran over the titlebar")
	}
	if in.currentCursor != CursorDefault {
		t.Errorf("cursor = %v over the titlebar, want default", in.currentCursor)
	}
}

func TestSetPointerImage(t *testing.T) {
	d := newTestDisplay()
	in := newTestInput(d)

	in.SetPointerImage(CursorHand)
	if in.currentCursor != CursorHand {
		t.Fatalf("currentCursor = %v, want hand1", in.currentCursor)
	}

	// Out-of-range values are rejected without disturbing the state.
	in.SetPointerImage(Cursor(99))
	if in.currentCursor != CursorHand {
		t.Errorf("currentCursor = %v after invalid set, want hand1", in.currentCursor)
	}
	in.SetPointerImage(Cursor(-2))
	if in.currentCursor != CursorHand {
		t.Errorf("currentCursor = %v after negative set, want hand1", in.currentCursor)
	}

	in.SetPointerImage(CursorDefault)
	if in.currentCursor != CursorDefault {
		t.Errorf("currentCursor = %v, want default", in.currentCursor)
	}
}

func TestButtonDispatchesToHandlerOnce(t *testing.T) {
	d := newTestDisplay()
	w := newTestWindow(d, 500, 400)
	h := &recordingHandler{}
	w.SetHandler(h)
	in := newTestInput(d)
	in.pointerFocus = w

	// Content area press reaches the handler exactly once.
	in.x, in.y = 250, 100
	in.pointerButton(7, 0, wl.BtnLeft, wl.StatePressed)
	if len(h.buttons) != 1 {
		t.Fatalf("handler saw %d button events, want 1", len(h.buttons))
	}
	if in.buttonSerial != 7 {
		t.Errorf("buttonSerial = %d, want 7", in.buttonSerial)
	}

	// Left press on the titlebar turns into a move grab instead.
	in.x, in.y = 250, 40
	in.pointerButton(8, 0, wl.BtnLeft, wl.StatePressed)
	if len(h.buttons) != 1 {
		t.Errorf("titlebar press leaked to the handler")
	}

	// A resize grip press is consumed too.
	in.x, in.y = 20, 200
	in.pointerButton(9, 0, wl.BtnLeft, wl.StatePressed)
	if len(h.buttons) != 1 {
		t.Errorf("resize press leaked to the handler")
	}

	// Non-left buttons on the frame still reach the handler.
	in.x, in.y = 250, 40
	in.pointerButton(10, 0, wl.BtnRight, wl.StatePressed)
	if len(h.buttons) != 2 {
		t.Errorf("handler saw %d button events, want 2", len(h.buttons))
	}
}

func TestItemGrabHoldsFocus(t *testing.T) {
	d := newTestDisplay()
	w := newTestWindow(d, 500, 400)
	h := &recordingHandler{}
	w.SetHandler(h)
	in := newTestInput(d)
	in.pointerFocus = w

	it := w.AddItem("swatch")
	it.SetAllocation(Rect{X: 200, Y: 100, Width: 50, Height: 50})

	in.pointerMotion(0, wl.FixedInt(210), wl.FixedInt(110))
	if w.FocusItem() != it {
		t.Fatal("item under the pointer should take focus")
	}

	in.pointerButton(1, 0, wl.BtnLeft, wl.StatePressed)
	if w.grabButton != wl.BtnLeft {
		t.Fatal("press over an item should start a grab")
	}

	// While grabbed, moving off the item keeps its focus.
	in.pointerMotion(0, wl.FixedInt(300), wl.FixedInt(200))
	if w.FocusItem() != it {
		t.Error("grab must hold item focus during motion")
	}

	in.pointerButton(2, 0, wl.BtnLeft, wl.StateReleased)
	if w.grabButton != 0 {
		t.Error("release must end the grab")
	}
	if w.FocusItem() != nil {
		t.Error("focus should move to the item under the pointer, which is none")
	}

	// The handler observed: focus in, focus out.
	if len(h.itemFocus) != 2 || h.itemFocus[0] != it || h.itemFocus[1] != nil {
		t.Errorf("itemFocus transitions = %v", h.itemFocus)
	}
}

func TestSelectionOfferLifecycle(t *testing.T) {
	d := newTestDisplay()
	in := newTestInput(d)

	o1 := &wl.DataOffer{}
	in.handleDataOffer(o1)
	o1.OnOffer("text/plain;charset=utf-8")
	o1.OnOffer("text/html")

	in.handleSelection(o1)
	sel := in.Selection()
	if sel == nil {
		t.Fatal("selection should be present")
	}
	if got := sel.Types(); len(got) != 2 || got[0] != "text/plain;charset=utf-8" {
		t.Fatalf("Types() = %v", got)
	}
	if !sel.Offers("text/html") {
		t.Error("offers(text/html) = false")
	}
	if sel.Offers("image/png") {
		t.Error("offers(image/png) = true")
	}

	// A replacement destroys the old offer exactly once.
	o2 := &wl.DataOffer{}
	in.handleDataOffer(o2)
	o2.OnOffer("text/plain")
	in.handleSelection(o2)
	if !sel.destroyed {
		t.Error("replaced offer must be destroyed")
	}
	if in.Selection() == sel {
		t.Error("selection still points at the replaced offer")
	}

	// Clearing leaves no selection behind.
	in.handleSelection(nil)
	if in.Selection() != nil {
		t.Error("selection should be cleared")
	}

	if _, err := in.ReceiveSelection("text/plain"); err == nil {
		t.Error("ReceiveSelection should fail with no selection present")
	}
}

func TestKeyboardFocusHandlerSeesTransitions(t *testing.T) {
	d := newTestDisplay()
	w := newTestWindow(d, 500, 400)
	h := &recordingHandler{}
	w.SetHandler(h)
	in := newTestInput(d)

	surf := &wl.Surface{UserData: w}
	in.keyboardEnter(1, surf, nil)
	if in.KeyboardFocus() != w {
		t.Fatal("keyboard focus should be the window")
	}
	if w.keyboardIn != in {
		t.Error("window should know its focusing seat")
	}

	in.keyboardKey(2, 0, 30, wl.StatePressed)
	if len(h.keys) != 1 || h.keys[0] != 30 {
		t.Errorf("keys = %v, want [30]", h.keys)
	}

	in.keyboardLeave(3, surf)
	if in.KeyboardFocus() != nil || w.keyboardIn != nil {
		t.Error("keyboard focus must clear on leave")
	}
	want := []bool{true, false}
	if len(h.focusGains) != 2 || h.focusGains[0] != want[0] || h.focusGains[1] != want[1] {
		t.Errorf("focus transitions = %v, want %v", h.focusGains, want)
	}
}
