// Command eventdemo opens a decorated window and logs every toolkit
// event it receives. It is the quickest way to check that a compositor
// delivers input and configure events the way the client library
// expects.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log"
	"log/slog"
	"os"

	"github.com/christianrauch/weston-clients/internal/client"
	"github.com/christianrauch/weston-clients/internal/config"
	"github.com/christianrauch/weston-clients/internal/wl"
)

const keyEsc = 1

type eventHandler struct {
	log       *slog.Logger
	logRedraw bool
	logMotion bool
}

func (h *eventHandler) Resize(w *client.Window, width, height int) {
	h.log.Info("resize", "width", width, "height", height)
	w.SetChildSize(width, height)
	w.ScheduleRedraw()
}

func (h *eventHandler) Redraw(w *client.Window) {
	if h.logRedraw {
		h.log.Info("redraw", "allocation", w.Allocation())
	}
	canvas := w.Surface()
	if canvas == nil {
		return
	}
	bg := image.NewUniform(color.RGBA{R: 0x3a, G: 0x52, B: 0x6b, A: 0xff})
	draw.Draw(canvas, w.ChildAllocation().Image(), bg, image.Point{}, draw.Src)
}

func (h *eventHandler) Key(w *client.Window, in *client.Input, time, key, state uint32) {
	h.log.Info("key", "key", key, "state", state, "modifiers", in.Modifiers())
	if key == keyEsc && state == wl.StatePressed {
		w.Display().Exit()
	}
}

func (h *eventHandler) Button(w *client.Window, in *client.Input, time, button, state uint32) {
	x, y := in.ContentPosition()
	h.log.Info("button", "button", button, "state", state, "x", x, "y", y)
}

func (h *eventHandler) Motion(w *client.Window, in *client.Input, time uint32, x, y int) client.Cursor {
	if h.logMotion {
		h.log.Info("motion", "x", x, "y", y)
	}
	return client.CursorLeftPtr
}

func (h *eventHandler) Enter(w *client.Window, in *client.Input, x, y int) client.Cursor {
	h.log.Info("pointer enter", "x", x, "y", y)
	return client.CursorLeftPtr
}

func (h *eventHandler) Leave(w *client.Window, in *client.Input) {
	h.log.Info("pointer leave")
}

func (h *eventHandler) KeyboardFocus(w *client.Window, in *client.Input, focused bool) {
	h.log.Info("keyboard focus", "focused", focused)
}

func main() {
	width := flag.Int("width", 500, "window width in pixels")
	height := flag.Int("height", 400, "window height in pixels")
	noBorder := flag.Bool("no-border", false, "disable window decorations")
	fullscreen := flag.Bool("fullscreen", false, "start fullscreen")
	logRedraw := flag.Bool("log-redraw", false, "log redraw events")
	logMotion := flag.Bool("log-motion", false, "log pointer motion events")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: eventdemo [options]\n\n")
		fmt.Fprintf(os.Stderr, "Open a window and log the events it receives. Press Escape to exit.\n\n")
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

	w := d.NewWindow(*width, *height)
	w.SetTitle("eventdemo")
	if *noBorder {
		w.SetDecoration(false)
	}
	w.SetHandler(&eventHandler{log: logger, logRedraw: *logRedraw, logMotion: *logMotion})
	if *fullscreen {
		w.SetFullscreen(true)
	}
	w.ScheduleRedraw()

	if err := d.Run(); err != nil {
		log.Fatalf("Display loop failed: %v", err)
	}
}
