package wl

// Pixel formats. The two 32-bit formats are the only ones the toolkit
// produces; the server may advertise many more.
const (
	FormatARGB8888 uint32 = 0 // premultiplied alpha
	FormatXRGB8888 uint32 = 1 // alpha ignored
)

// Shm is the shared-memory global.
type Shm struct {
	proxy

	// OnFormat announces one supported pixel format per event.
	OnFormat func(format uint32)
}

// CreatePool shares size bytes of the file behind fd with the server.
// The fd is duplicated for the transfer; the caller keeps its copy.
func (s *Shm) CreatePool(fd int, size int32) *ShmPool {
	p := &ShmPool{proxy: proxy{id: s.conn.newID(), conn: s.conn}}
	s.conn.register(p.id, p)
	s.conn.request(s.id, 0, p.id, FD(fd), size)
	return p
}

func (s *Shm) dispatch(opcode uint16, r *reader) {
	if opcode != 0 {
		return
	}
	format := r.Uint32()
	if r.err == nil && s.OnFormat != nil {
		s.OnFormat(format)
	}
}

// ShmPool is a server mapping of client memory.
type ShmPool struct {
	proxy
}

// CreateBuffer carves a buffer out of the pool.
func (p *ShmPool) CreateBuffer(offset, width, height, stride int32, format uint32) *Buffer {
	b := &Buffer{proxy: proxy{id: p.conn.newID(), conn: p.conn}}
	p.conn.register(b.id, b)
	p.conn.request(p.id, 0, b.id, offset, width, height, stride, format)
	return b
}

// Destroy releases the pool. Buffers created from it stay valid.
func (p *ShmPool) Destroy() {
	p.conn.request(p.id, 1)
	p.conn.unregister(p.id)
}

// Resize grows the mapping.
func (p *ShmPool) Resize(size int32) {
	p.conn.request(p.id, 2, size)
}

func (p *ShmPool) dispatch(opcode uint16, r *reader) {
	// wl_shm_pool has no events.
}

// Buffer is attachable surface content.
type Buffer struct {
	proxy

	// OnRelease fires when the server is done reading the buffer.
	OnRelease func()
}

// Destroy releases the buffer.
func (b *Buffer) Destroy() {
	b.conn.request(b.id, 0)
	b.conn.unregister(b.id)
}

func (b *Buffer) dispatch(opcode uint16, r *reader) {
	if opcode != 0 {
		return
	}
	if b.OnRelease != nil {
		b.OnRelease()
	}
}
