package wl

// Resize edge masks, combinable for corners, as carried by configure
// events and resize requests.
const (
	EdgeNone        uint32 = 0
	EdgeTop         uint32 = 1
	EdgeBottom      uint32 = 2
	EdgeLeft        uint32 = 4
	EdgeTopLeft     uint32 = 5
	EdgeBottomLeft  uint32 = 6
	EdgeRight       uint32 = 8
	EdgeTopRight    uint32 = 9
	EdgeBottomRight uint32 = 10
)

// Fullscreen methods for SetFullscreen.
const (
	FullscreenDefault uint32 = 0
	FullscreenScale   uint32 = 1
	FullscreenDriver  uint32 = 2
	FullscreenFill    uint32 = 3
)

// Transient flags.
const TransientInactive uint32 = 0x1

// Shell hands out per-surface window roles.
type Shell struct {
	proxy
}

// GetShellSurface wraps a surface in a shell role object.
func (s *Shell) GetShellSurface(surf *Surface) *ShellSurface {
	ss := &ShellSurface{proxy: proxy{id: s.conn.newID(), conn: s.conn}}
	s.conn.register(ss.id, ss)
	s.conn.request(s.id, 0, ss.id, surf.id)
	return ss
}

func (s *Shell) dispatch(opcode uint16, r *reader) {
	// wl_shell has no events.
}

// ShellSurface carries the window role: toplevel, transient or
// fullscreen, plus interactive move/resize.
type ShellSurface struct {
	proxy

	OnPing func(serial uint32)
	// OnConfigure suggests a new size. edges names which edges the user
	// is dragging, so the client can keep the far edge anchored.
	OnConfigure func(edges uint32, width, height int32)
	OnPopupDone func()
}

// Pong answers a ping; unanswered pings mark the client unresponsive.
func (ss *ShellSurface) Pong(serial uint32) {
	ss.conn.request(ss.id, 0, serial)
}

// Move starts an interactive move driven by the seat's pointer grab.
func (ss *ShellSurface) Move(seat *Seat, serial uint32) {
	ss.conn.request(ss.id, 1, seat.id, serial)
}

// Resize starts an interactive resize from the given edges.
func (ss *ShellSurface) Resize(seat *Seat, serial uint32, edges uint32) {
	ss.conn.request(ss.id, 2, seat.id, serial, edges)
}

// SetToplevel makes the surface an ordinary top-level window.
func (ss *ShellSurface) SetToplevel() {
	ss.conn.request(ss.id, 3)
}

// SetTransient places the surface relative to a parent surface.
func (ss *ShellSurface) SetTransient(parent *Surface, x, y int32, flags uint32) {
	ss.conn.request(ss.id, 4, parent.id, x, y, flags)
}

// SetFullscreen asks the compositor to fill an output with the surface.
// A nil output lets the compositor choose.
func (ss *ShellSurface) SetFullscreen(method uint32, framerate uint32, output *Output) {
	var outID uint32
	if output != nil {
		outID = output.id
	}
	ss.conn.request(ss.id, 5, method, framerate, outID)
}

// SetTitle sets the window title.
func (ss *ShellSurface) SetTitle(title string) {
	ss.conn.request(ss.id, 8, title)
}

// SetClass sets the window class used to group windows.
func (ss *ShellSurface) SetClass(class string) {
	ss.conn.request(ss.id, 9, class)
}

func (ss *ShellSurface) dispatch(opcode uint16, r *reader) {
	switch opcode {
	case 0:
		serial := r.Uint32()
		if r.err == nil && ss.OnPing != nil {
			ss.OnPing(serial)
		}
	case 1:
		edges := r.Uint32()
		width := r.Int32()
		height := r.Int32()
		if r.err == nil && ss.OnConfigure != nil {
			ss.OnConfigure(edges, width, height)
		}
	case 2:
		if ss.OnPopupDone != nil {
			ss.OnPopupDone()
		}
	}
}
