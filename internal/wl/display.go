package wl

import "fmt"

// Display is the protocol core object, always id 1.
type Display struct {
	proxy
}

// Sync asks the server to answer with a done event once every request
// sent before this one has been processed.
func (d *Display) Sync() *Callback {
	cb := &Callback{proxy: proxy{id: d.conn.newID(), conn: d.conn}}
	d.conn.register(cb.id, cb)
	d.conn.request(d.id, 0, cb.id)
	return cb
}

// GetRegistry creates the global registry object.
func (d *Display) GetRegistry() *Registry {
	r := &Registry{proxy: proxy{id: d.conn.newID(), conn: d.conn}}
	d.conn.register(r.id, r)
	d.conn.request(d.id, 1, r.id)
	return r
}

func (d *Display) dispatch(opcode uint16, r *reader) {
	switch opcode {
	case 0: // error
		objectID := r.Uint32()
		code := r.Uint32()
		message := r.String()
		if r.err == nil {
			d.conn.fail(fmt.Errorf("server error on object %d (code %d): %s", objectID, code, message))
		}
	case 1: // delete_id
		d.conn.unregister(r.Uint32())
	}
}

// Callback is a one-shot wl_callback.
type Callback struct {
	proxy

	// OnDone fires once with server-defined data (for sync callbacks,
	// the event serial).
	OnDone func(data uint32)
}

func (cb *Callback) dispatch(opcode uint16, r *reader) {
	if opcode != 0 {
		return
	}
	data := r.Uint32()
	cb.conn.unregister(cb.id)
	if cb.OnDone != nil {
		cb.OnDone(data)
	}
}

// Registry announces and binds globals.
type Registry struct {
	proxy

	// OnGlobal fires for every global the server advertises; OnGlobalRemove
	// when one goes away. Names are server-scoped handles, not strings.
	OnGlobal       func(name uint32, iface string, version uint32)
	OnGlobalRemove func(name uint32)
}

func (r *Registry) dispatch(opcode uint16, rd *reader) {
	switch opcode {
	case 0:
		name := rd.Uint32()
		iface := rd.String()
		version := rd.Uint32()
		if rd.err == nil && r.OnGlobal != nil {
			r.OnGlobal(name, iface, version)
		}
	case 1:
		name := rd.Uint32()
		if rd.err == nil && r.OnGlobalRemove != nil {
			r.OnGlobalRemove(name)
		}
	}
}

// bind allocates the client id and sends the bind request. The caller
// registers the typed proxy under the returned id.
func (r *Registry) bind(name uint32, iface string, version uint32) uint32 {
	id := r.conn.newID()
	r.conn.request(r.id, 0, name, iface, version, id)
	return id
}

func clampVersion(advertised, supported uint32) uint32 {
	if advertised < supported {
		return advertised
	}
	return supported
}

// BindCompositor binds a wl_compositor global.
func (r *Registry) BindCompositor(name, version uint32) *Compositor {
	c := &Compositor{}
	c.id = r.bind(name, CompositorInterface, clampVersion(version, compositorVersion))
	c.conn = r.conn
	r.conn.register(c.id, c)
	return c
}

// BindShm binds a wl_shm global.
func (r *Registry) BindShm(name, version uint32) *Shm {
	s := &Shm{}
	s.id = r.bind(name, ShmInterface, clampVersion(version, shmVersion))
	s.conn = r.conn
	r.conn.register(s.id, s)
	return s
}

// BindOutput binds a wl_output global.
func (r *Registry) BindOutput(name, version uint32) *Output {
	o := &Output{}
	o.id = r.bind(name, OutputInterface, clampVersion(version, outputVersion))
	o.conn = r.conn
	r.conn.register(o.id, o)
	return o
}

// BindSeat binds a wl_seat global.
func (r *Registry) BindSeat(name, version uint32) *Seat {
	s := &Seat{}
	s.id = r.bind(name, SeatInterface, clampVersion(version, seatVersion))
	s.conn = r.conn
	r.conn.register(s.id, s)
	return s
}

// BindShell binds a wl_shell global.
func (r *Registry) BindShell(name, version uint32) *Shell {
	s := &Shell{}
	s.id = r.bind(name, ShellInterface, clampVersion(version, shellVersion))
	s.conn = r.conn
	r.conn.register(s.id, s)
	return s
}

// BindDataDeviceManager binds a wl_data_device_manager global.
func (r *Registry) BindDataDeviceManager(name, version uint32) *DataDeviceManager {
	m := &DataDeviceManager{}
	m.id = r.bind(name, DataDeviceManagerInterface, clampVersion(version, dataDeviceManagerVersion))
	m.conn = r.conn
	r.conn.register(m.id, m)
	return m
}
