package wl

// Compositor creates surfaces.
type Compositor struct {
	proxy
}

// CreateSurface allocates a new surface.
func (c *Compositor) CreateSurface() *Surface {
	s := &Surface{proxy: proxy{id: c.conn.newID(), conn: c.conn}}
	c.conn.register(s.id, s)
	c.conn.request(c.id, 0, s.id)
	return s
}

func (c *Compositor) dispatch(opcode uint16, r *reader) {
	// wl_compositor has no events.
}

// Surface is a rectangle of pixels the compositor composites.
type Surface struct {
	proxy

	// UserData carries the toolkit object owning this surface, so input
	// events can be routed without a side table.
	UserData any
}

// Destroy removes the surface.
func (s *Surface) Destroy() {
	s.conn.request(s.id, 0)
	s.conn.unregister(s.id)
}

// Attach sets the buffer shown on the next commit. A nil buffer detaches
// the content. x and y displace the surface relative to its previous
// content, which is how interactive resizes keep the opposite edge
// anchored.
func (s *Surface) Attach(b *Buffer, x, y int32) {
	var bufID uint32
	if b != nil {
		bufID = b.id
	}
	s.conn.request(s.id, 1, bufID, x, y)
}

// Damage marks a region as needing repaint.
func (s *Surface) Damage(x, y, width, height int32) {
	s.conn.request(s.id, 2, x, y, width, height)
}

// Frame requests a callback for when the compositor wants the next frame.
func (s *Surface) Frame() *Callback {
	cb := &Callback{proxy: proxy{id: s.conn.newID(), conn: s.conn}}
	s.conn.register(cb.id, cb)
	s.conn.request(s.id, 3, cb.id)
	return cb
}

// Commit atomically applies the pending state.
func (s *Surface) Commit() {
	s.conn.request(s.id, 6)
}

func (s *Surface) dispatch(opcode uint16, r *reader) {
	switch opcode {
	case 0, 1: // enter, leave: output tracking is not used
		_ = r.Uint32()
	}
}
