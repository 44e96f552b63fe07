// Package wl is a pure-Go client for the Wayland wire protocol, covering
// exactly the interfaces the toolkit consumes. Proxies are plain structs
// with request methods and OnXxx event callback fields; a nil callback
// drops the event. Everything runs on the caller's goroutine: events fire
// from inside Dispatch, never concurrently.
package wl

import "errors"

var (
	// ErrClosed reports that the server hung up or Close was called.
	ErrClosed = errors.New("wl: connection closed")

	errShortEvent = errors.New("wl: truncated event")
	errNoFd       = errors.New("wl: event references a file descriptor that never arrived")
)

// Interface names as they appear in registry global announcements.
const (
	CompositorInterface        = "wl_compositor"
	ShmInterface               = "wl_shm"
	OutputInterface            = "wl_output"
	SeatInterface              = "wl_seat"
	ShellInterface             = "wl_shell"
	DataDeviceManagerInterface = "wl_data_device_manager"
)

// Highest protocol versions this client speaks. Bind helpers clamp the
// advertised version to these.
const (
	compositorVersion        = 1
	shmVersion               = 1
	outputVersion            = 2
	seatVersion              = 1
	shellVersion             = 1
	dataDeviceManagerVersion = 1
)

// Fixed is the protocol's 24.8 signed fixed-point number.
type Fixed int32

// FixedInt converts an integer to fixed point.
func FixedInt(i int) Fixed { return Fixed(i << 8) }

// Int truncates toward negative infinity, matching the server's view.
func (f Fixed) Int() int { return int(f >> 8) }

// Float64 returns the exact floating-point value.
func (f Fixed) Float64() float64 { return float64(f) / 256 }

// FD marks a request argument as a file descriptor to pass out-of-band.
// The connection duplicates it at queue time; the caller keeps ownership
// of the original.
type FD int

// proxy is the common part of every protocol object.
type proxy struct {
	id   uint32
	conn *Conn
}

// ID returns the protocol object id.
func (p *proxy) ID() uint32 { return p.id }

// dispatcher is implemented by every proxy type: decode one event and
// invoke its callback.
type dispatcher interface {
	dispatch(opcode uint16, r *reader)
}
