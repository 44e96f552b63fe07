// Command flower draws a procedural flower on a transparent,
// undecorated surface. Dragging it with the left button exercises the
// interactive move path of the shell surface.
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"math"
	"math/rand"
	"os"

	"github.com/christianrauch/weston-clients/internal/client"
	"github.com/christianrauch/weston-clients/internal/config"
	"github.com/christianrauch/weston-clients/internal/wl"
)

type flower struct {
	petals int
	tint   float64
}

func (f *flower) Redraw(w *client.Window) {
	canvas := w.Surface()
	if canvas == nil {
		return
	}
	b := canvas.Bounds()
	cx := float64(b.Dx()) / 2
	cy := float64(b.Dy()) / 2
	outer := math.Min(cx, cy) * 0.95
	core := outer * 0.22

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			dx := float64(x-b.Min.X) - cx
			dy := float64(y-b.Min.Y) - cy
			r := math.Hypot(dx, dy)
			theta := math.Atan2(dy, dx)
			edge := outer * (0.55 + 0.45*math.Abs(math.Cos(float64(f.petals)*theta/2)))

			var c color.RGBA
			switch {
			case r < core:
				c = color.RGBA{R: 0xe6, G: 0xc3, B: 0x2e, A: 0xff}
			case r < edge:
				// Fade the petal toward its rim.
				t := (edge - r) / edge
				c = color.RGBA{
					R: uint8(0x40 + t*(0xb0+f.tint*0x40)),
					G: uint8(0x20 + t*0x50),
					B: uint8(0x50 + t*0x90),
					A: 0xff,
				}
			default:
				// Fully transparent outside the petals.
			}
			canvas.Set(x, y, c)
		}
	}
}

func (f *flower) Button(w *client.Window, in *client.Input, time, button, state uint32) {
	if button == wl.BtnLeft && state == wl.StatePressed {
		w.Move(in)
	}
}

func (f *flower) Motion(w *client.Window, in *client.Input, time uint32, x, y int) client.Cursor {
	return client.CursorHand
}

func (f *flower) Enter(w *client.Window, in *client.Input, x, y int) client.Cursor {
	return client.CursorHand
}

func main() {
	size := flag.Int("size", 200, "flower diameter in pixels")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: flower [options]\n\n")
		fmt.Fprintf(os.Stderr, "Draw a flower. Drag it around with the left mouse button.\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := cfg.Logger(os.Stderr)

	d, err := client.Connect(&client.Options{
		Logger:      logger,
		CursorTheme: cfg.Cursor.Theme,
		CursorSize:  cfg.Cursor.Size,
	})
	if err != nil {
		log.Fatalf("Failed to connect to display: %v", err)
	}
	defer d.Close()

	w := d.NewWindow(*size, *size)
	w.SetTitle("flower")
	w.SetDecoration(false)
	w.SetBufferType(client.BufferShm)
	w.SetHandler(&flower{
		petals: 3 + rand.Intn(9),
		tint:   rand.Float64(),
	})
	w.ScheduleRedraw()

	if err := d.Run(); err != nil {
		log.Fatalf("Display loop failed: %v", err)
	}
}
