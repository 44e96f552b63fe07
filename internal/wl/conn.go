package wl

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// SocketPath resolves the compositor socket. An absolute WAYLAND_DISPLAY
// is used as-is; otherwise the name (default wayland-0) is looked up
// under the runtime directory. Priority for the runtime directory:
// 1) XDG_RUNTIME_DIR (if set)
// 2) /run/user/<uid> (if present)
func SocketPath() (string, error) {
	name := os.Getenv("WAYLAND_DISPLAY")
	if name == "" {
		name = "wayland-0"
	}
	if filepath.IsAbs(name) {
		return name, nil
	}

	if runtimeDir := os.Getenv("XDG_RUNTIME_DIR"); runtimeDir != "" {
		return filepath.Join(runtimeDir, name), nil
	}

	runUserDir := fmt.Sprintf("/run/user/%d", os.Getuid())
	if info, err := os.Stat(runUserDir); err == nil && info.IsDir() {
		return filepath.Join(runUserDir, name), nil
	}

	return "", fmt.Errorf("XDG_RUNTIME_DIR is not set and %s does not exist", runUserDir)
}

// Conn is one client connection. It owns the socket, the outbound and
// inbound buffers, and the object table. Not safe for concurrent use.
type Conn struct {
	fd   int
	log  *slog.Logger
	disp *Display

	out    []byte
	outFds []int

	in      []byte
	inFds   []int
	readBuf [4096]byte
	oobBuf  [256]byte

	objects map[uint32]dispatcher
	nextID  uint32
	err     error
}

// Connect dials the compositor socket and sets up the wl_display proxy.
func Connect(log *slog.Logger) (*Conn, error) {
	path, err := SocketPath()
	if err != nil {
		return nil, fmt.Errorf("locate display socket: %w", err)
	}

	fd, err := unix.Socket(unix.AF_UNIX, unix.SOCK_STREAM|unix.SOCK_CLOEXEC|unix.SOCK_NONBLOCK, 0)
	if err != nil {
		return nil, fmt.Errorf("socket: %w", err)
	}
	if err := unix.Connect(fd, &unix.SockaddrUnix{Name: path}); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("connect %s: %w", path, err)
	}
	log.Debug("connected to display", "socket", path)

	return NewConn(fd, log), nil
}

// NewConn wraps an already-connected non-blocking socket. Tests hand in
// one end of a socketpair.
func NewConn(fd int, log *slog.Logger) *Conn {
	c := &Conn{
		fd:      fd,
		log:     log,
		objects: make(map[uint32]dispatcher),
		nextID:  2,
	}
	c.disp = &Display{proxy: proxy{id: 1, conn: c}}
	c.objects[1] = c.disp
	return c
}

// Display returns the wl_display proxy (object id 1).
func (c *Conn) Display() *Display { return c.disp }

// Fd exposes the socket for the caller's poller.
func (c *Conn) Fd() int { return c.fd }

// Err returns the sticky connection error, if any.
func (c *Conn) Err() error { return c.err }

func (c *Conn) newID() uint32 {
	id := c.nextID
	c.nextID++
	return id
}

func (c *Conn) register(id uint32, d dispatcher) {
	c.objects[id] = d
}

func (c *Conn) unregister(id uint32) {
	if c == nil {
		return
	}
	delete(c.objects, id)
}

// lookup resolves an object id carried in an event. Ids of objects the
// client already destroyed resolve to nil.
func (c *Conn) lookup(id uint32) dispatcher {
	return c.objects[id]
}

func (c *Conn) fail(err error) {
	if c.err != nil {
		return
	}
	c.err = err
	c.log.Error("display connection failed", "err", err)
}

// request queues one message. Accepted argument types: uint32, int32,
// Fixed, string, []byte and FD. File descriptors are duplicated so the
// caller may close its copy immediately.
func (c *Conn) request(id uint32, opcode uint16, args ...any) {
	if c == nil || c.err != nil {
		return
	}
	start := len(c.out)
	c.out = appendUint32(c.out, id)
	c.out = appendUint32(c.out, 0) // size patched below
	for _, a := range args {
		switch v := a.(type) {
		case uint32:
			c.out = appendUint32(c.out, v)
		case int32:
			c.out = appendInt32(c.out, v)
		case Fixed:
			c.out = appendInt32(c.out, int32(v))
		case string:
			c.out = appendString(c.out, v)
		case []byte:
			c.out = appendArray(c.out, v)
		case FD:
			dup, err := unix.FcntlInt(uintptr(v), unix.F_DUPFD_CLOEXEC, 0)
			if err != nil {
				c.out = c.out[:start]
				c.fail(fmt.Errorf("dup fd for request: %w", err))
				return
			}
			c.outFds = append(c.outFds, dup)
		default:
			c.out = c.out[:start]
			c.fail(fmt.Errorf("unsupported request argument type %T", a))
			return
		}
	}
	size := len(c.out) - start
	binary.LittleEndian.PutUint32(c.out[start+4:], uint32(size)<<16|uint32(opcode))
}

// Flush writes buffered requests. It returns true when the socket could
// not take everything, in which case the caller should wait for
// writability and flush again.
func (c *Conn) Flush() (wantWrite bool, err error) {
	if c.err != nil {
		return false, c.err
	}
	for len(c.out) > 0 {
		var oob []byte
		if len(c.outFds) > 0 {
			oob = unix.UnixRights(c.outFds...)
		}
		n, err := unix.SendmsgN(c.fd, c.out, oob, nil, 0)
		if err == unix.EINTR {
			continue
		}
		if err == unix.EAGAIN {
			return true, nil
		}
		if err != nil {
			c.fail(fmt.Errorf("write: %w", err))
			return false, c.err
		}
		// Control data rides with the first byte; the dups are spent.
		for _, fd := range c.outFds {
			unix.Close(fd)
		}
		c.outFds = c.outFds[:0]
		c.out = c.out[n:]
	}
	c.out = c.out[:0]
	return false, nil
}

// Dispatch drains the socket without blocking and delivers every complete
// event to its object. Events for ids not in the table (already
// destroyed) are skipped.
func (c *Conn) Dispatch() error {
	if c.err != nil {
		return c.err
	}
	for {
		n, oobn, _, _, err := unix.Recvmsg(c.fd, c.readBuf[:], c.oobBuf[:], unix.MSG_CMSG_CLOEXEC|unix.MSG_DONTWAIT)
		if err == unix.EINTR {
			continue
		}
		if err == unix.EAGAIN {
			break
		}
		if err != nil {
			c.fail(fmt.Errorf("read: %w", err))
			return c.err
		}
		if n == 0 {
			c.fail(ErrClosed)
			return c.err
		}
		c.in = append(c.in, c.readBuf[:n]...)
		if oobn > 0 {
			c.collectFds(c.oobBuf[:oobn])
		}
	}
	return c.deliver()
}

func (c *Conn) collectFds(oob []byte) {
	msgs, err := unix.ParseSocketControlMessage(oob)
	if err != nil {
		c.fail(fmt.Errorf("parse control message: %w", err))
		return
	}
	for _, m := range msgs {
		fds, err := unix.ParseUnixRights(&m)
		if err != nil {
			continue
		}
		c.inFds = append(c.inFds, fds...)
	}
}

func (c *Conn) deliver() error {
	for c.err == nil && len(c.in) >= headerSize {
		id := binary.LittleEndian.Uint32(c.in)
		sizeOp := binary.LittleEndian.Uint32(c.in[4:])
		size := int(sizeOp >> 16)
		opcode := uint16(sizeOp & 0xffff)
		if size < headerSize {
			c.fail(fmt.Errorf("event with impossible size %d on object %d", size, id))
			break
		}
		if len(c.in) < size {
			break
		}
		body := c.in[headerSize:size]
		c.in = c.in[size:]

		obj := c.lookup(id)
		if obj == nil {
			continue
		}
		r := reader{data: body, conn: c}
		obj.dispatch(opcode, &r)
		if r.err != nil {
			c.fail(fmt.Errorf("decoding opcode %d on object %d: %w", opcode, id, r.err))
		}
	}
	if len(c.in) == 0 {
		c.in = c.in[:0]
	}
	return c.err
}

// Roundtrip flushes, then pumps events until the server has processed
// everything sent so far.
func (c *Conn) Roundtrip() error {
	done := false
	cb := c.disp.Sync()
	cb.OnDone = func(uint32) { done = true }

	for !done && c.err == nil {
		wantWrite, err := c.Flush()
		if err != nil {
			return err
		}
		events := int16(unix.POLLIN)
		if wantWrite {
			events |= unix.POLLOUT
		}
		pfd := []unix.PollFd{{Fd: int32(c.fd), Events: events}}
		if _, err := unix.Poll(pfd, -1); err != nil && err != unix.EINTR {
			c.fail(fmt.Errorf("poll: %w", err))
			return c.err
		}
		if err := c.Dispatch(); err != nil {
			return err
		}
	}
	return c.err
}

// Close tears down the socket and any file descriptors still queued.
func (c *Conn) Close() error {
	for _, fd := range c.inFds {
		unix.Close(fd)
	}
	for _, fd := range c.outFds {
		unix.Close(fd)
	}
	c.inFds, c.outFds = nil, nil
	if c.err == nil {
		c.err = ErrClosed
	}
	return unix.Close(c.fd)
}
