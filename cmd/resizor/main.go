// Command resizor animates its own height with a damped spring. The up
// and down arrow keys move the target; frames are driven by a timerfd
// watched on the display's event loop, so the animation shares the
// single toolkit goroutine.
package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log"
	"log/slog"
	"math"
	"os"

	"golang.org/x/sys/unix"

	"github.com/christianrauch/weston-clients/internal/client"
	"github.com/christianrauch/weston-clients/internal/config"
	"github.com/christianrauch/weston-clients/internal/task"
	"github.com/christianrauch/weston-clients/internal/wl"
)

const (
	keyEsc  = 1
	keyUp   = 103
	keyDown = 108

	minHeight  = 200
	maxHeight  = 1000
	heightStep = 100

	frameInterval = 16 * 1e6 // nanoseconds

	stiffness = 0.09
	friction  = 0.92
)

// spring integrates a damped spring toward target with verlet steps.
type spring struct {
	current  float64
	previous float64
	target   float64
}

func (s *spring) update() {
	v := (s.current - s.previous) * friction
	s.previous = s.current
	s.current += v + (s.target-s.current)*stiffness
}

func (s *spring) settled() bool {
	return math.Abs(s.current-s.target) < 0.1 &&
		math.Abs(s.current-s.previous) < 0.1
}

type resizor struct {
	log    *slog.Logger
	window *client.Window

	width   int
	height  spring
	timerFd int
	armed   bool
}

func (r *resizor) Resize(w *client.Window, width, height int) {
	// A compositor-driven resize wins over the animation; snap the
	// spring so it does not fight the user's grip.
	r.width = width
	r.height.current = float64(height)
	r.height.previous = r.height.current
	r.height.target = r.height.current
	w.SetChildSize(width, height)
	w.ScheduleRedraw()
}

func (r *resizor) Redraw(w *client.Window) {
	canvas := w.Surface()
	if canvas == nil {
		return
	}
	bg := image.NewUniform(color.RGBA{R: 0x6b, G: 0x3a, B: 0x52, A: 0xff})
	draw.Draw(canvas, w.ChildAllocation().Image(), bg, image.Point{}, draw.Src)
}

func (r *resizor) Key(w *client.Window, in *client.Input, time, key, state uint32) {
	if state != wl.StatePressed {
		return
	}
	switch key {
	case keyUp:
		r.retarget(r.height.target + heightStep)
	case keyDown:
		r.retarget(r.height.target - heightStep)
	case keyEsc:
		w.Display().Exit()
	}
}

func (r *resizor) retarget(target float64) {
	r.height.target = math.Max(minHeight, math.Min(maxHeight, target))
	r.arm()
}

func (r *resizor) arm() {
	if r.armed {
		return
	}
	spec := unix.ItimerSpec{
		Interval: unix.Timespec{Nsec: frameInterval},
		Value:    unix.Timespec{Nsec: frameInterval},
	}
	if err := unix.TimerfdSettime(r.timerFd, 0, &spec, nil); err != nil {
		r.log.Warn("arming frame timer failed", "error", err)
		return
	}
	r.armed = true
}

func (r *resizor) disarm() {
	if !r.armed {
		return
	}
	if err := unix.TimerfdSettime(r.timerFd, 0, &unix.ItimerSpec{}, nil); err != nil {
		r.log.Warn("disarming frame timer failed", "error", err)
	}
	r.armed = false
}

// tick runs once per timer expiry on the display's event loop.
func (r *resizor) tick(events uint32) {
	var buf [8]byte
	if _, err := unix.Read(r.timerFd, buf[:]); err != nil {
		return
	}
	if n := binary.NativeEndian.Uint64(buf[:]); n > 1 {
		r.log.Debug("frame timer overrun", "missed", n-1)
	}

	r.height.update()
	if r.height.settled() {
		r.height.current = r.height.target
		r.disarm()
	}
	r.window.SetChildSize(r.width, int(r.height.current+0.5))
	r.window.ScheduleRedraw()
}

func main() {
	width := flag.Int("width", 300, "window width in pixels")
	height := flag.Int("height", 400, "initial window height in pixels")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: resizor [options]\n\n")
		fmt.Fprintf(os.Stderr, "Grow and shrink the window with the up and down arrow keys.\n\n")
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

	fd, err := unix.TimerfdCreate(unix.CLOCK_MONOTONIC, unix.TFD_CLOEXEC|unix.TFD_NONBLOCK)
	if err != nil {
		log.Fatalf("Failed to create frame timer: %v", err)
	}
	defer unix.Close(fd)

	r := &resizor{
		log:     logger,
		width:   *width,
		timerFd: fd,
	}
	r.height.current = float64(*height)
	r.height.previous = r.height.current
	r.height.target = r.height.current

	w := d.NewWindow(*width, *height)
	w.SetTitle("resizor")
	w.SetChildSize(*width, *height)
	w.SetHandler(r)
	r.window = w

	if err := d.WatchFD(fd, task.Readable, task.Func(r.tick)); err != nil {
		log.Fatalf("Failed to watch frame timer: %v", err)
	}
	defer d.UnwatchFD(fd)

	w.ScheduleRedraw()

	if err := d.Run(); err != nil {
		log.Fatalf("Display loop failed: %v", err)
	}
}
