package client

import (
	"github.com/christianrauch/weston-clients/internal/task"
	"github.com/christianrauch/weston-clients/internal/wl"
)

// WindowType is the shell role the window currently holds.
type WindowType int

const (
	TypeNone WindowType = iota
	TypeToplevel
	TypeTransient
	TypeFullscreen
	// TypeCustom marks a surface the application manages itself; no
	// shell role is requested for it.
	TypeCustom
)

func (t WindowType) String() string {
	switch t {
	case TypeToplevel:
		return "toplevel"
	case TypeTransient:
		return "transient"
	case TypeFullscreen:
		return "fullscreen"
	case TypeCustom:
		return "custom"
	default:
		return "none"
	}
}

// BufferType selects how window pixels reach the compositor.
type BufferType int

const (
	// BufferDeviceWindow renders through a swappable device surface.
	BufferDeviceWindow BufferType = iota
	// BufferDeviceImage renders into a device image wrapped in a buffer.
	BufferDeviceImage
	// BufferShm renders into shared memory.
	BufferShm
)

func (t BufferType) String() string {
	switch t {
	case BufferDeviceWindow:
		return "device-window"
	case BufferDeviceImage:
		return "device-image"
	default:
		return "shm"
	}
}

// Window is a toplevel or transient surface with optional client-side
// decorations.
type Window struct {
	display      *Display
	parent       *Window
	surface      *wl.Surface
	shellSurface *wl.ShellSurface

	title       string
	windowType  WindowType
	bufferType  BufferType
	decoration  bool
	transparent bool

	alloc       Rect
	savedAlloc  Rect
	serverAlloc Rect
	resizeEdges uint32
	margin      int

	current backing
	pending backing

	redrawScheduled bool

	handler  any
	caps     handlerCaps
	userData any

	keyboardIn *Input

	items      []*Item
	focusItem  *Item
	grabButton uint32
}

// NewWindow creates a toplevel window of the given size.
func (d *Display) NewWindow(width, height int) *Window {
	w := d.newWindow(width, height)
	w.windowType = TypeToplevel
	if w.shellSurface != nil {
		w.shellSurface.SetToplevel()
	}
	return w
}

// NewTransientWindow creates a window positioned relative to a parent.
func (d *Display) NewTransientWindow(parent *Window, x, y, width, height int) *Window {
	w := d.newWindow(width, height)
	w.parent = parent
	w.windowType = TypeTransient
	if w.shellSurface != nil && parent != nil && parent.surface != nil {
		w.shellSurface.SetTransient(parent.surface, int32(x), int32(y), 0)
	}
	return w
}

func (d *Display) newWindow(width, height int) *Window {
	w := &Window{
		display:     d,
		alloc:       Rect{Width: width, Height: height},
		margin:      defaultMargin,
		decoration:  true,
		transparent: true,
		bufferType:  BufferShm,
	}
	if d.device != nil {
		w.bufferType = BufferDeviceWindow
	}
	if d.compositor != nil {
		w.surface = d.compositor.CreateSurface()
		w.surface.UserData = w
	}
	if d.shell != nil && w.surface != nil {
		ss := d.shell.GetShellSurface(w.surface)
		ss.OnPing = func(serial uint32) { ss.Pong(serial) }
		ss.OnConfigure = w.handleConfigure
		w.shellSurface = ss
	} else if w.surface != nil {
		d.log.Warn("compositor has no shell, window cannot take a role")
	}
	d.windows = append(d.windows, w)
	return w
}

// Destroy releases the window's buffers and surface and detaches it
// from any seat focus.
func (w *Window) Destroy() {
	d := w.display
	for i, win := range d.windows {
		if win == w {
			d.windows = append(d.windows[:i], d.windows[i+1:]...)
			break
		}
	}
	for _, in := range d.inputs {
		if in.pointerFocus == w {
			in.pointerFocus = nil
		}
		if in.keyboardFocus == w {
			in.keyboardFocus = nil
		}
	}
	if w.current != nil {
		w.current.destroy(d)
		w.current = nil
	}
	if w.pending != nil {
		w.pending.destroy(d)
		w.pending = nil
	}
	if w.surface != nil {
		w.surface.UserData = nil
		w.surface.Destroy()
		w.surface = nil
	}
	w.shellSurface = nil
}

// handleConfigure reacts to a compositor size proposal. Degenerate
// sizes are dropped. With a resize handler installed the decision is
// the application's; otherwise the size is applied as-is.
func (w *Window) handleConfigure(edges uint32, width, height int32) {
	if width <= 0 || height <= 0 {
		return
	}
	w.resizeEdges = edges
	if w.caps.resize != nil {
		cw, ch := w.childSizeFor(int(width), int(height))
		w.caps.resize.Resize(w, cw, ch)
		return
	}
	w.alloc.Width = int(width)
	w.alloc.Height = int(height)
	w.ScheduleRedraw()
}

// SetFullscreen toggles the fullscreen role. Entering saves the current
// allocation and takes the screen size; leaving restores the saved
// allocation exactly. Repeated calls in the same direction do nothing.
func (w *Window) SetFullscreen(fullscreen bool) {
	if fullscreen == (w.windowType == TypeFullscreen) {
		return
	}
	if fullscreen {
		w.savedAlloc = w.alloc
		w.windowType = TypeFullscreen
		w.alloc = w.display.screen
		if w.shellSurface != nil {
			w.shellSurface.SetFullscreen(wl.FullscreenDefault, 0, nil)
		}
	} else {
		w.windowType = TypeToplevel
		w.alloc = w.savedAlloc
		if w.shellSurface != nil {
			w.shellSurface.SetToplevel()
		}
	}
	cw, ch := w.childSizeFor(w.alloc.Width, w.alloc.Height)
	if w.caps.resize != nil {
		w.caps.resize.Resize(w, cw, ch)
	} else {
		w.ScheduleRedraw()
	}
}

// Fullscreen reports whether the window currently holds the fullscreen
// role.
func (w *Window) Fullscreen() bool { return w.windowType == TypeFullscreen }

// ScheduleRedraw queues one redraw on the deferred queue. Further calls
// before the redraw runs are absorbed.
func (w *Window) ScheduleRedraw() {
	if w.redrawScheduled {
		return
	}
	w.redrawScheduled = true
	w.display.Defer(task.Func(func(uint32) {
		w.redrawScheduled = false
		w.redraw()
	}))
}

func (w *Window) redraw() {
	if err := w.ensureSurface(); err != nil {
		w.display.log.Warn("failed to create window surface",
			"window", w.title, "error", err)
		return
	}
	if w.decorated() {
		w.drawDecorations()
	}
	if w.caps.redraw != nil {
		w.caps.redraw.Redraw(w)
	}
	w.flush()
}

// flush hands the drawn buffer to the compositor. Device window
// surfaces present directly; everything else goes through attach.
func (w *Window) flush() {
	if w.current == nil {
		return
	}
	if dw, ok := w.current.(*deviceWindowBacking); ok {
		if err := dw.surf.SwapBuffers(); err != nil {
			w.display.log.Warn("failed to present window surface", "error", err)
		}
		w.serverAlloc = w.alloc
		return
	}
	w.attach()
}

// attachOffsets computes how the surface must shift so a resize
// anchored on a left or top edge keeps the opposite edge in place. The
// edges are consumed.
func (w *Window) attachOffsets() (dx, dy int) {
	if w.resizeEdges&uint32(LocationResizingLeft) != 0 {
		dx = w.serverAlloc.Width - w.alloc.Width
	}
	if w.resizeEdges&uint32(LocationResizingTop) != 0 {
		dy = w.serverAlloc.Height - w.alloc.Height
	}
	w.resizeEdges = 0
	return dx, dy
}

// attach sends the current buffer, or parks it while an earlier attach
// is still in flight. At most one buffer is pending and one parked.
func (w *Window) attach() {
	if w.pending != nil {
		return
	}
	w.pending = w.current
	w.current = nil

	dx, dy := w.attachOffsets()
	if w.surface != nil {
		w.surface.Attach(w.pending.buffer(), int32(dx), int32(dy))
		w.surface.Damage(0, 0, int32(w.alloc.Width), int32(w.alloc.Height))
		w.surface.Commit()
		w.display.Sync(w.releasePending)
	}
	w.serverAlloc = w.alloc
}

// releasePending drops the buffer the server has taken over and sends
// out a parked one, if any.
func (w *Window) releasePending() {
	if w.pending == nil {
		return
	}
	w.pending.destroy(w.display)
	w.pending = nil
	if w.current != nil {
		w.attach()
	}
}

// Damage marks a region as changed. It takes effect on the next flush.
func (w *Window) Damage(x, y, width, height int) {
	if w.surface != nil {
		w.surface.Damage(int32(x), int32(y), int32(width), int32(height))
	}
}

// Move asks the compositor to start an interactive move driven by the
// given seat's pointer.
func (w *Window) Move(in *Input) {
	if w.shellSurface == nil || in == nil || in.seat == nil {
		return
	}
	w.shellSurface.Move(in.seat, in.buttonSerial)
}

func (w *Window) beginResize(in *Input, edges uint32) {
	if w.shellSurface == nil || in == nil || in.seat == nil {
		return
	}
	w.savedAlloc = w.alloc
	w.shellSurface.Resize(in.seat, in.buttonSerial, edges)
}

// SetTitle sets the titlebar text and forwards it to the shell.
func (w *Window) SetTitle(title string) {
	w.title = title
	if w.shellSurface != nil {
		w.shellSurface.SetTitle(title)
	}
}

// Title returns the titlebar text.
func (w *Window) Title() string { return w.title }

// SetDecoration enables or disables the client-side frame.
func (w *Window) SetDecoration(enable bool) { w.decoration = enable }

// Decoration reports whether the client-side frame is enabled. The
// frame may still be suppressed while the window is fullscreen.
func (w *Window) Decoration() bool { return w.decoration }

// SetTransparent declares whether the content uses the alpha channel.
// Opaque windows get the cheaper pixel format.
func (w *Window) SetTransparent(transparent bool) { w.transparent = transparent }

// SetBufferType overrides the backend selected at creation. Device
// backends need a device; without one the window stays on shm.
func (w *Window) SetBufferType(t BufferType) {
	if t != BufferShm && w.display.device == nil {
		w.display.log.Warn("no render device, keeping shm buffers", "requested", t)
		return
	}
	w.bufferType = t
}

// SetCustom removes the window from shell management. The application
// takes over role assignment for the surface.
func (w *Window) SetCustom() { w.windowType = TypeCustom }

// BufferType returns the backend in use.
func (w *Window) BufferType() BufferType { return w.bufferType }

// Type returns the current shell role.
func (w *Window) Type() WindowType { return w.windowType }

// Allocation returns the full window rectangle including decorations.
func (w *Window) Allocation() Rect { return w.alloc }

// SetUserData attaches an application value to the window.
func (w *Window) SetUserData(data any) { w.userData = data }

// UserData returns the value set with SetUserData.
func (w *Window) UserData() any { return w.userData }

// Display returns the display the window belongs to.
func (w *Window) Display() *Display { return w.display }
