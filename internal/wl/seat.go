package wl

// Seat capability bits.
const (
	SeatPointer  uint32 = 1
	SeatKeyboard uint32 = 2
	SeatTouch    uint32 = 4
)

// Pointer button and key states.
const (
	StateReleased uint32 = 0
	StatePressed  uint32 = 1
)

// Pointer buttons (Linux input event codes).
const (
	BtnLeft   uint32 = 0x110
	BtnRight  uint32 = 0x111
	BtnMiddle uint32 = 0x112
)

// Keymap formats delivered with wl_keyboard.keymap.
const (
	KeymapNone  uint32 = 0
	KeymapXKBv1 uint32 = 1
)

// Seat is one user's input devices.
type Seat struct {
	proxy

	OnCapabilities func(caps uint32)
	OnName         func(name string)
}

// GetPointer acquires the pointer device. Only valid while the pointer
// capability is advertised.
func (s *Seat) GetPointer() *Pointer {
	p := &Pointer{proxy: proxy{id: s.conn.newID(), conn: s.conn}}
	s.conn.register(p.id, p)
	s.conn.request(s.id, 0, p.id)
	return p
}

// GetKeyboard acquires the keyboard device.
func (s *Seat) GetKeyboard() *Keyboard {
	k := &Keyboard{proxy: proxy{id: s.conn.newID(), conn: s.conn}}
	s.conn.register(k.id, k)
	s.conn.request(s.id, 1, k.id)
	return k
}

func (s *Seat) dispatch(opcode uint16, r *reader) {
	switch opcode {
	case 0:
		caps := r.Uint32()
		if r.err == nil && s.OnCapabilities != nil {
			s.OnCapabilities(caps)
		}
	case 1:
		name := r.String()
		if r.err == nil && s.OnName != nil {
			s.OnName(name)
		}
	}
}

// surfaceArg resolves a surface id from an event. Events racing a
// client-side destroy legitimately name gone surfaces; those resolve to
// nil.
func surfaceArg(c *Conn, id uint32) *Surface {
	if id == 0 {
		return nil
	}
	s, _ := c.lookup(id).(*Surface)
	return s
}

// Pointer delivers pointer events in surface-local coordinates.
type Pointer struct {
	proxy

	OnEnter  func(serial uint32, surface *Surface, sx, sy Fixed)
	OnLeave  func(serial uint32, surface *Surface)
	OnMotion func(time uint32, sx, sy Fixed)
	OnButton func(serial, time, button, state uint32)
	OnAxis   func(time uint32, axis uint32, value Fixed)
}

// SetCursor sets the cursor image for this pointer. serial must be the
// latest enter serial; a nil surface hides the cursor and reverts to
// whatever the server shows by default.
func (p *Pointer) SetCursor(serial uint32, s *Surface, hotspotX, hotspotY int32) {
	var surfID uint32
	if s != nil {
		surfID = s.id
	}
	p.conn.request(p.id, 0, serial, surfID, hotspotX, hotspotY)
}

func (p *Pointer) dispatch(opcode uint16, r *reader) {
	switch opcode {
	case 0:
		serial := r.Uint32()
		surface := surfaceArg(p.conn, r.Uint32())
		sx := r.Fixed()
		sy := r.Fixed()
		if r.err == nil && p.OnEnter != nil {
			p.OnEnter(serial, surface, sx, sy)
		}
	case 1:
		serial := r.Uint32()
		surface := surfaceArg(p.conn, r.Uint32())
		if r.err == nil && p.OnLeave != nil {
			p.OnLeave(serial, surface)
		}
	case 2:
		time := r.Uint32()
		sx := r.Fixed()
		sy := r.Fixed()
		if r.err == nil && p.OnMotion != nil {
			p.OnMotion(time, sx, sy)
		}
	case 3:
		serial := r.Uint32()
		time := r.Uint32()
		button := r.Uint32()
		state := r.Uint32()
		if r.err == nil && p.OnButton != nil {
			p.OnButton(serial, time, button, state)
		}
	case 4:
		time := r.Uint32()
		axis := r.Uint32()
		value := r.Fixed()
		if r.err == nil && p.OnAxis != nil {
			p.OnAxis(time, axis, value)
		}
	}
}

// Keyboard delivers key events and focus transitions.
type Keyboard struct {
	proxy

	// OnKeymap hands over an fd describing the layout; the receiver owns
	// the fd.
	OnKeymap    func(format uint32, fd int, size uint32)
	OnEnter     func(serial uint32, surface *Surface, keys []uint32)
	OnLeave     func(serial uint32, surface *Surface)
	OnKey       func(serial, time, key, state uint32)
	OnModifiers func(serial, depressed, latched, locked, group uint32)
}

func (k *Keyboard) dispatch(opcode uint16, r *reader) {
	switch opcode {
	case 0:
		format := r.Uint32()
		fd := r.FD()
		size := r.Uint32()
		if r.err == nil && k.OnKeymap != nil {
			k.OnKeymap(format, fd, size)
		}
	case 1:
		serial := r.Uint32()
		surface := surfaceArg(k.conn, r.Uint32())
		keys := r.Uint32Array()
		if r.err == nil && k.OnEnter != nil {
			k.OnEnter(serial, surface, keys)
		}
	case 2:
		serial := r.Uint32()
		surface := surfaceArg(k.conn, r.Uint32())
		if r.err == nil && k.OnLeave != nil {
			k.OnLeave(serial, surface)
		}
	case 3:
		serial := r.Uint32()
		time := r.Uint32()
		key := r.Uint32()
		state := r.Uint32()
		if r.err == nil && k.OnKey != nil {
			k.OnKey(serial, time, key, state)
		}
	case 4:
		serial := r.Uint32()
		depressed := r.Uint32()
		latched := r.Uint32()
		locked := r.Uint32()
		group := r.Uint32()
		if r.err == nil && k.OnModifiers != nil {
			k.OnModifiers(serial, depressed, latched, locked, group)
		}
	}
}
