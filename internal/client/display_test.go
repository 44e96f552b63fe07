package client

import (
	"encoding/binary"
	"io"
	"log/slog"
	"strings"
	"testing"

	"golang.org/x/sys/unix"

	"github.com/christianrauch/weston-clients/internal/wl"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeServer speaks just enough of the server side of the protocol to
// walk a client through connect. It runs on its own goroutine, so
// failures are reported with Errorf and the socket is closed to unstick
// the client.
type fakeServer struct {
	t  *testing.T
	fd int
}

func (s *fakeServer) fail(format string, args ...any) {
	s.t.Errorf(format, args...)
	unix.Close(s.fd)
}

func (s *fakeServer) readFull(buf []byte) bool {
	off := 0
	for off < len(buf) {
		n, err := unix.Read(s.fd, buf[off:])
		if err == unix.EINTR {
			continue
		}
		if err != nil || n == 0 {
			s.fail("server read: n=%d err=%v", n, err)
			return false
		}
		off += n
	}
	return true
}

func (s *fakeServer) read() (id uint32, opcode uint16, body []byte, ok bool) {
	var hdr [8]byte
	if !s.readFull(hdr[:]) {
		return 0, 0, nil, false
	}
	id = binary.LittleEndian.Uint32(hdr[:4])
	sizeOp := binary.LittleEndian.Uint32(hdr[4:])
	size := int(sizeOp >> 16)
	opcode = uint16(sizeOp & 0xffff)
	if size < 8 {
		s.fail("request with size %d", size)
		return 0, 0, nil, false
	}
	body = make([]byte, size-8)
	if !s.readFull(body) {
		return 0, 0, nil, false
	}
	return id, opcode, body, true
}

func (s *fakeServer) event(id uint32, opcode uint16, args ...any) {
	b := s.encodeEvent(id, opcode, args...)
	if b == nil {
		return
	}
	if _, err := unix.Write(s.fd, b); err != nil {
		s.t.Errorf("server write: %v", err)
	}
}

// encodeEvent renders one event, or nil after reporting an unsupported
// argument type.
func (s *fakeServer) encodeEvent(id uint32, opcode uint16, args ...any) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint32(b, id)
	for _, a := range args {
		switch v := a.(type) {
		case uint32:
			b = appendLE(b, v)
		case int32:
			b = appendLE(b, uint32(v))
		case string:
			b = appendLE(b, uint32(len(v)+1))
			b = append(b, v...)
			b = append(b, 0)
			for len(b)%4 != 0 {
				b = append(b, 0)
			}
		default:
			s.fail("unsupported event arg %T", a)
			return nil
		}
	}
	binary.LittleEndian.PutUint32(b[4:], uint32(len(b))<<16|uint32(opcode))
	return b
}

// eventBatch writes pre-encoded events with a single syscall, for
// script tails where the client hangs up by design after the first
// event: separate writes could race the close and die on EPIPE.
func (s *fakeServer) eventBatch(events ...[]byte) {
	var b []byte
	for _, e := range events {
		if e == nil {
			return
		}
		b = append(b, e...)
	}
	if _, err := unix.Write(s.fd, b); err != nil {
		s.t.Errorf("server write: %v", err)
	}
}

func appendLE(b []byte, v uint32) []byte {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	return append(b, tmp[:]...)
}

// parseBind pulls the interface name and client-chosen id out of a
// registry bind request.
func parseBind(body []byte) (iface string, newID uint32) {
	slen := binary.LittleEndian.Uint32(body[4:])
	iface = string(body[8 : 8+slen-1])
	off := 8 + int(slen+3)/4*4
	newID = binary.LittleEndian.Uint32(body[off+4:])
	return iface, newID
}

func testConnPair(t *testing.T) (*wl.Conn, *fakeServer) {
	t.Helper()
	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		t.Fatalf("socketpair: %v", err)
	}
	if err := unix.SetNonblock(fds[0], true); err != nil {
		t.Fatalf("set nonblock: %v", err)
	}
	return wl.NewConn(fds[0], testLogger()), &fakeServer{t: t, fd: fds[1]}
}

type testGlobal struct {
	name    uint32
	iface   string
	version uint32
}

// serveConnect walks the handshake: registry, the advertised globals,
// then the settle events for whatever the client bound.
func (s *fakeServer) serveConnect(globals []testGlobal) {
	id, op, body, ok := s.read()
	if !ok {
		return
	}
	if id != 1 || op != 1 {
		s.fail("first request = object %d opcode %d, want get_registry", id, op)
		return
	}
	registry := binary.LittleEndian.Uint32(body)

	id, op, body, ok = s.read()
	if !ok {
		return
	}
	if id != 1 || op != 0 {
		s.fail("second request = object %d opcode %d, want sync", id, op)
		return
	}
	cb := binary.LittleEndian.Uint32(body)

	for _, g := range globals {
		s.event(registry, 0, g.name, g.iface, g.version)
	}
	s.event(cb, 0, uint32(1))
	s.event(1, 1, cb)

	// Binds stream in now, terminated by the second roundtrip's sync.
	ids := map[string]uint32{}
	for {
		id, op, body, ok = s.read()
		if !ok {
			return
		}
		if id == 1 && op == 0 {
			cb = binary.LittleEndian.Uint32(body)
			break
		}
		if id == registry && op == 0 {
			iface, nid := parseBind(body)
			ids[iface] = nid
		}
	}

	if shm := ids["wl_shm"]; shm != 0 {
		s.event(shm, 0, uint32(wl.FormatARGB8888))
		s.event(shm, 0, uint32(wl.FormatXRGB8888))
	}
	if out := ids["wl_output"]; out != 0 {
		s.event(out, 0, int32(0), int32(0), int32(520), int32(320), int32(0), "ACME", "HD-1", int32(0))
		s.event(out, 1, uint32(wl.ModeCurrent|wl.ModePreferred), int32(1920), int32(1080), int32(60000))
		s.event(out, 3, int32(1))
		s.event(out, 2)
	}
	if seat := ids["wl_seat"]; seat != 0 {
		s.event(seat, 0, uint32(wl.SeatPointer|wl.SeatKeyboard))
	}
	s.event(cb, 0, uint32(2))
	s.event(1, 1, cb)
}

func TestConnectBindsGlobals(t *testing.T) {
	conn, srv := testConnPair(t)
	defer unix.Close(srv.fd)

	done := make(chan struct{})
	go func() {
		defer close(done)
		srv.serveConnect([]testGlobal{
			{1, "wl_compositor", 1},
			{2, "wl_shm", 1},
			{3, "wl_output", 2},
			{4, "wl_seat", 1},
			{5, "wl_shell", 1},
			{6, "wl_data_device_manager", 1},
		})
	}()

	d, err := connect(conn, &Options{CursorTheme: "default", CursorSize: 24}, testLogger())
	<-done
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer d.Close()

	if d.compositor == nil || d.shm == nil || d.shell == nil || d.ddm == nil {
		t.Error("core globals missing after connect")
	}
	if got := d.Screen(); got != (Rect{0, 0, 1920, 1080}) {
		t.Errorf("Screen() = %+v, want {0 0 1920 1080}", got)
	}

	out := d.Output()
	if out.Maker != "ACME" || out.Model != "HD-1" {
		t.Errorf("output = %q %q, want ACME HD-1", out.Maker, out.Model)
	}
	if len(out.Modes) != 1 || out.Modes[0].Refresh != 60000 {
		t.Errorf("modes = %+v", out.Modes)
	}
	if out.Scale != 1 {
		t.Errorf("scale = %d, want 1", out.Scale)
	}

	formats := d.ShmFormats()
	if len(formats) != 2 {
		t.Errorf("shm formats = %v, want two entries", formats)
	}

	if len(d.Inputs()) != 1 {
		t.Fatalf("inputs = %d, want 1", len(d.Inputs()))
	}
	in := d.Inputs()[0]
	if !in.HasPointer() || !in.HasKeyboard() {
		t.Error("seat capabilities not picked up")
	}
	if in.dataDevice == nil {
		t.Error("data device not created for the seat")
	}

	var seen []string
	d.SetGlobalHandler(func(name uint32, iface string, version uint32) {
		seen = append(seen, iface)
	})
	if len(seen) != 6 {
		t.Errorf("replayed %d globals, want 6: %v", len(seen), seen)
	}
}

func TestConnectRequiresCompositor(t *testing.T) {
	conn, srv := testConnPair(t)
	defer unix.Close(srv.fd)

	// Only wl_shm is advertised; the client gives up after the first
	// roundtrip, so no binds are expected here.
	done := make(chan struct{})
	go func() {
		defer close(done)
		id, op, body, ok := srv.read()
		if !ok {
			return
		}
		if id != 1 || op != 1 {
			srv.fail("first request = object %d opcode %d, want get_registry", id, op)
			return
		}
		registry := binary.LittleEndian.Uint32(body)
		if _, _, body, ok = srv.read(); !ok {
			return
		}
		cb := binary.LittleEndian.Uint32(body)
		// The client tears the connection down as soon as the sync
		// fires, so the whole tail of the script goes out in one write.
		srv.eventBatch(
			srv.encodeEvent(registry, 0, uint32(1), "wl_shm", uint32(1)),
			srv.encodeEvent(cb, 0, uint32(1)),
			srv.encodeEvent(1, 1, cb),
		)
	}()

	_, err := connect(conn, &Options{CursorTheme: "default", CursorSize: 24}, testLogger())
	if err == nil {
		t.Fatal("connect should fail without wl_compositor")
	}
	if !strings.Contains(err.Error(), "wl_compositor") {
		t.Errorf("err = %v, want it to name wl_compositor", err)
	}
	<-done
}
