package render

import (
	"errors"
	"image/draw"

	"github.com/christianrauch/weston-clients/internal/bgra"
	"github.com/christianrauch/weston-clients/internal/wl"
)

// Fake is an in-memory Device for tests: plain heap canvases, balanced
// acquire/release accounting, no protocol traffic.
type Fake struct {
	Held     int // current acquire depth
	Acquires int
	Releases int
	FailNext bool // next Acquire returns an error
}

func (f *Fake) Acquire() error {
	if f.FailNext {
		f.FailNext = false
		return errors.New("render: fake acquire failure")
	}
	f.Held++
	f.Acquires++
	return nil
}

func (f *Fake) Release() {
	f.Held--
	f.Releases++
}

func (f *Fake) CreateWindowSurface(s *wl.Surface, width, height int, opaque bool) (WindowSurface, error) {
	return &fakeWindowSurface{img: bgra.New(width, height)}, nil
}

func (f *Fake) CreateImage(width, height int, opaque bool) (ImageSurface, error) {
	return &fakeImageSurface{dev: f, img: bgra.New(width, height)}, nil
}

func (f *Fake) Close() error { return nil }

type fakeWindowSurface struct {
	img     *bgra.Image
	swapped int
}

func (s *fakeWindowSurface) Canvas() draw.Image { return s.img }

func (s *fakeWindowSurface) SwapBuffers() error {
	s.swapped++
	return nil
}

func (s *fakeWindowSurface) Resize(width, height, dx, dy int) {
	s.img = bgra.New(width, height)
}

func (s *fakeWindowSurface) Destroy() {}

type fakeImageSurface struct {
	dev *Fake
	img *bgra.Image
}

func (s *fakeImageSurface) Canvas() draw.Image { return s.img }

func (s *fakeImageSurface) Buffer() *wl.Buffer { return nil }

// Destroy checks the device context is actually held, the invariant the
// real device would crash on.
func (s *fakeImageSurface) Destroy() error {
	if s.dev.Held <= 0 {
		return errors.New("render: image destroyed outside an acquire bracket")
	}
	return nil
}
