package client

import (
	"fmt"
	"image/draw"

	"golang.org/x/sys/unix"

	"github.com/christianrauch/weston-clients/internal/bgra"
	"github.com/christianrauch/weston-clients/internal/render"
	"github.com/christianrauch/weston-clients/internal/wl"
)

// memfdCreate is a hook so tests can observe or fail fd creation.
var memfdCreate = func(name string) (int, error) {
	return unix.MemfdCreate(name, unix.MFD_CLOEXEC|unix.MFD_ALLOW_SEALING)
}

// backing is one frame's worth of pixels, in whatever backend the
// window uses.
type backing interface {
	canvas() draw.Image
	buffer() *wl.Buffer
	width() int
	height() int
	destroy(d *Display)
}

// shmBuffer is a wl_buffer over an anonymous shared memory file.
type shmBuffer struct {
	data []byte
	img  *bgra.Image
	buf  *wl.Buffer
}

// newShmBuffer creates the file, maps it and wraps it in a pool and
// buffer. The size is validated before any file descriptor exists. The
// pool and the fd are not needed once the buffer is created.
func newShmBuffer(shm *wl.Shm, width, height int, format uint32) (*shmBuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid buffer size %dx%d", width, height)
	}
	if shm == nil {
		return nil, fmt.Errorf("no wl_shm global")
	}
	stride := bgra.Stride(width)
	size := stride * height

	fd, err := memfdCreate("weston-shm")
	if err != nil {
		return nil, fmt.Errorf("failed to create shm file: %w", err)
	}
	if err := unix.Ftruncate(fd, int64(size)); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("failed to size shm file: %w", err)
	}
	data, err := unix.Mmap(fd, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("failed to map shm file: %w", err)
	}

	pool := shm.CreatePool(fd, int32(size))
	buf := pool.CreateBuffer(0, int32(width), int32(height), int32(stride), format)
	pool.Destroy()
	unix.Close(fd)

	return &shmBuffer{data: data, img: bgra.FromBytes(data, width, height), buf: buf}, nil
}

func (b *shmBuffer) canvas() draw.Image { return b.img }
func (b *shmBuffer) buffer() *wl.Buffer { return b.buf }
func (b *shmBuffer) width() int         { return b.img.Rect.Dx() }
func (b *shmBuffer) height() int        { return b.img.Rect.Dy() }

func (b *shmBuffer) destroy(*Display) { b.release() }

func (b *shmBuffer) release() {
	if b.buf != nil {
		b.buf.Destroy()
		b.buf = nil
	}
	if b.data != nil {
		unix.Munmap(b.data)
		b.data = nil
	}
}

// deviceWindowBacking presents through a swappable device surface. It
// is reused across frames and resized in place.
type deviceWindowBacking struct {
	surf render.WindowSurface
	w, h int
}

func newDeviceWindow(d *Display, s *wl.Surface, width, height int, opaque bool) (backing, error) {
	if d.device == nil {
		return nil, render.ErrNoDevice
	}
	var surf render.WindowSurface
	err := render.With(d.device, func() error {
		var err error
		surf, err = d.device.CreateWindowSurface(s, width, height, opaque)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create device window surface: %w", err)
	}
	return &deviceWindowBacking{surf: surf, w: width, h: height}, nil
}

func (b *deviceWindowBacking) canvas() draw.Image { return b.surf.Canvas() }
func (b *deviceWindowBacking) buffer() *wl.Buffer { return nil }
func (b *deviceWindowBacking) width() int         { return b.w }
func (b *deviceWindowBacking) height() int        { return b.h }

func (b *deviceWindowBacking) destroy(*Display) { b.surf.Destroy() }

// deviceImageBacking renders into a device image that carries its own
// wl_buffer, so it flows through the same attach path as shm.
type deviceImageBacking struct {
	img  render.ImageSurface
	w, h int
}

func newDeviceImage(d *Display, width, height int, opaque bool) (backing, error) {
	if d.device == nil {
		return nil, render.ErrNoDevice
	}
	var img render.ImageSurface
	err := render.With(d.device, func() error {
		var err error
		img, err = d.device.CreateImage(width, height, opaque)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create device image: %w", err)
	}
	return &deviceImageBacking{img: img, w: width, h: height}, nil
}

func (b *deviceImageBacking) canvas() draw.Image { return b.img.Canvas() }
func (b *deviceImageBacking) buffer() *wl.Buffer { return b.img.Buffer() }
func (b *deviceImageBacking) width() int         { return b.w }
func (b *deviceImageBacking) height() int        { return b.h }

func (b *deviceImageBacking) destroy(d *Display) {
	err := render.With(d.device, func() error {
		return b.img.Destroy()
	})
	if err != nil {
		d.log.Warn("failed to destroy device image", "error", err)
	}
}

// ensureSurface makes sure the current backing matches the allocation.
// Device window surfaces are resized in place, applying the resize edge
// offsets; other backends are recreated.
func (w *Window) ensureSurface() error {
	width, height := w.alloc.Width, w.alloc.Height
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid window size %dx%d", width, height)
	}
	if w.current != nil {
		if w.current.width() == width && w.current.height() == height {
			return nil
		}
		if dw, ok := w.current.(*deviceWindowBacking); ok {
			var dx, dy int
			if w.resizeEdges&uint32(LocationResizingLeft) != 0 {
				dx = dw.w - width
			}
			if w.resizeEdges&uint32(LocationResizingTop) != 0 {
				dy = dw.h - height
			}
			w.resizeEdges = 0
			dw.surf.Resize(width, height, dx, dy)
			dw.w, dw.h = width, height
			return nil
		}
		w.current.destroy(w.display)
		w.current = nil
	}

	var (
		b   backing
		err error
	)
	switch w.bufferType {
	case BufferDeviceWindow:
		b, err = newDeviceWindow(w.display, w.surface, width, height, !w.transparent)
	case BufferDeviceImage:
		b, err = newDeviceImage(w.display, width, height, !w.transparent)
	default:
		format := uint32(wl.FormatARGB8888)
		if !w.transparent {
			format = wl.FormatXRGB8888
		}
		b, err = newShmBuffer(w.display.shm, width, height, format)
	}
	if err != nil {
		return err
	}
	w.current = b
	return nil
}

// Surface returns the canvas for the frame being drawn, creating the
// backing if needed. It returns nil when no backing can be created.
func (w *Window) Surface() draw.Image {
	if err := w.ensureSurface(); err != nil {
		w.display.log.Warn("failed to create window surface",
			"window", w.title, "error", err)
		return nil
	}
	return w.current.canvas()
}
