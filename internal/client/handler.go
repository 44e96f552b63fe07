package client

// A window has one handler object. The handler advertises the events it
// cares about by implementing the interfaces below; anything it does not
// implement falls back to the built-in behavior.

// ResizeHandler is told the new content size when the compositor
// configures the window. Implementations usually call SetChildSize and
// schedule a redraw.
type ResizeHandler interface {
	Resize(w *Window, width, height int)
}

// RedrawHandler paints the content area. It runs from the deferred
// queue, after decorations are drawn and before the surface is flushed.
type RedrawHandler interface {
	Redraw(w *Window)
}

// KeyHandler receives keyboard keys while the window holds keyboard
// focus. Codes are evdev keycodes.
type KeyHandler interface {
	Key(w *Window, in *Input, time, key, state uint32)
}

// ButtonHandler receives pointer buttons that the frame did not consume
// for a move or resize grab.
type ButtonHandler interface {
	Button(w *Window, in *Input, time, button, state uint32)
}

// MotionHandler receives pointer motion over the content area and picks
// the cursor to show there.
type MotionHandler interface {
	Motion(w *Window, in *Input, time uint32, x, y int) Cursor
}

// EnterHandler is told when a pointer enters the window and picks the
// initial cursor for the content area.
type EnterHandler interface {
	Enter(w *Window, in *Input, x, y int) Cursor
}

// LeaveHandler is told when a pointer leaves the window.
type LeaveHandler interface {
	Leave(w *Window, in *Input)
}

// KeyboardFocusHandler is told when the window gains or loses keyboard
// focus. in is the seat involved; focused distinguishes gain from loss.
type KeyboardFocusHandler interface {
	KeyboardFocus(w *Window, in *Input, focused bool)
}

// ItemFocusHandler is told when the focused item changes. item may be
// nil when the pointer rests over no item.
type ItemFocusHandler interface {
	ItemFocus(w *Window, item *Item)
}

// handlerCaps caches the type assertions so the hot paths do not repeat
// them per event.
type handlerCaps struct {
	resize        ResizeHandler
	redraw        RedrawHandler
	key           KeyHandler
	button        ButtonHandler
	motion        MotionHandler
	enter         EnterHandler
	leave         LeaveHandler
	keyboardFocus KeyboardFocusHandler
	itemFocus     ItemFocusHandler
}

// SetHandler installs the window's handler object. Passing nil removes
// the handler.
func (w *Window) SetHandler(h any) {
	w.handler = h
	w.caps = handlerCaps{}
	if h == nil {
		return
	}
	if v, ok := h.(ResizeHandler); ok {
		w.caps.resize = v
	}
	if v, ok := h.(RedrawHandler); ok {
		w.caps.redraw = v
	}
	if v, ok := h.(KeyHandler); ok {
		w.caps.key = v
	}
	if v, ok := h.(ButtonHandler); ok {
		w.caps.button = v
	}
	if v, ok := h.(MotionHandler); ok {
		w.caps.motion = v
	}
	if v, ok := h.(EnterHandler); ok {
		w.caps.enter = v
	}
	if v, ok := h.(LeaveHandler); ok {
		w.caps.leave = v
	}
	if v, ok := h.(KeyboardFocusHandler); ok {
		w.caps.keyboardFocus = v
	}
	if v, ok := h.(ItemFocusHandler); ok {
		w.caps.itemFocus = v
	}
}

// Handler returns the installed handler object.
func (w *Window) Handler() any { return w.handler }
