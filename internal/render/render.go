// Package render abstracts the GPU side of buffer management. The
// toolkit only depends on the Device interface and the With bracket;
// whether anything real sits behind them is a build-time concern. This
// tree links no GPU stack, so Open reports ErrNoDevice and windows fall
// back to shared-memory buffers.
package render

import (
	"errors"
	"image/draw"

	"github.com/christianrauch/weston-clients/internal/wl"
)

// ErrNoDevice reports that no rendering device is available on this
// display connection.
var ErrNoDevice = errors.New("render: no device available")

// Device is a rendering context tied to the display connection. All
// calls happen on the toolkit goroutine; Acquire/Release bracket the
// calls that touch device objects.
type Device interface {
	Acquire() error
	Release()

	// CreateWindowSurface binds a drawing surface directly to a protocol
	// surface; its flush path is a swap, not an attach.
	CreateWindowSurface(s *wl.Surface, width, height int, opaque bool) (WindowSurface, error)

	// CreateImage allocates an offscreen image with an attachable
	// protocol buffer.
	CreateImage(width, height int, opaque bool) (ImageSurface, error)

	Close() error
}

// WindowSurface is device-managed window content.
type WindowSurface interface {
	Canvas() draw.Image
	// SwapBuffers presents the canvas; the device talks to the surface
	// itself, no buffer attach happens client-side.
	SwapBuffers() error
	// Resize changes the backing size; dx/dy displace the surface so a
	// left- or top-edge resize keeps the far edge anchored.
	Resize(width, height, dx, dy int)
	Destroy()
}

// ImageSurface is device-managed offscreen content. Destroy must run
// inside a With bracket: it deletes device objects.
type ImageSurface interface {
	Canvas() draw.Image
	Buffer() *wl.Buffer
	Destroy() error
}

// Open connects a device to the display. Overridden in builds that
// carry a real GPU stack; the default has none.
var Open = func(conn *wl.Conn) (Device, error) {
	return nil, ErrNoDevice
}

// With runs f with the device context held. Release runs on every exit
// path, including panics, so teardown can never leak the context.
func With(d Device, f func() error) error {
	if err := d.Acquire(); err != nil {
		return err
	}
	defer d.Release()
	return f()
}
