// Package client is a small windowing toolkit for Wayland compositors.
// A Display owns the connection and the event loop; Windows draw
// themselves into shm or render-device buffers and carry optional
// client-side decorations; Inputs route seat events to window handlers.
package client

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/christianrauch/weston-clients/internal/cursor"
	"github.com/christianrauch/weston-clients/internal/render"
	"github.com/christianrauch/weston-clients/internal/task"
	"github.com/christianrauch/weston-clients/internal/wl"
)

// Options tune the display connection. The zero value is usable: the
// logger defaults to slog.Default and cursor settings are detected from
// the environment.
type Options struct {
	Logger      *slog.Logger
	CursorTheme string
	CursorSize  int
}

type globalEntry struct {
	name    uint32
	iface   string
	version uint32
}

// Mode is one advertised output mode. Refresh is in mHz.
type Mode struct {
	Width, Height int
	Refresh       int
	Flags         uint32
}

// OutputInfo collects what the first output advertises about itself.
type OutputInfo struct {
	X, Y           int
	PhysicalWidth  int
	PhysicalHeight int
	Maker, Model   string
	Scale          int
	Modes          []Mode
}

// cursorSurface is a pointer image uploaded once and pointed at with
// wl_pointer.set_cursor.
type cursorSurface struct {
	surface    *wl.Surface
	buf        *shmBuffer
	hotX, hotY int
}

// Display owns the compositor connection, the bound globals and the
// event loop all windows of the process share.
type Display struct {
	conn *wl.Conn
	log  *slog.Logger

	registry   *wl.Registry
	compositor *wl.Compositor
	shm        *wl.Shm
	shell      *wl.Shell
	ddm        *wl.DataDeviceManager
	output     *wl.Output

	globals    []globalEntry
	globalHook func(name uint32, iface string, version uint32)

	screen     Rect
	outputInfo OutputInfo
	shmFormats []uint32

	device render.Device

	poller     *task.Poller
	deferred   task.Queue
	connEvents uint32
	connErr    error
	running    bool

	windows []*Window
	inputs  []*Input

	cursors     [cursorCount]*cursorSurface
	cursorTheme string
	cursorSize  int
}

// Connect dials the compositor named by the environment and binds the
// globals the toolkit needs. Missing wl_compositor or wl_shm is fatal;
// everything else degrades.
func Connect(opts *Options) (*Display, error) {
	var o Options
	if opts != nil {
		o = *opts
	}
	log := o.Logger
	if log == nil {
		log = slog.Default()
	}
	conn, err := wl.Connect(log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to compositor: %w", err)
	}
	return connect(conn, &o, log)
}

func connect(conn *wl.Conn, o *Options, log *slog.Logger) (*Display, error) {
	d := &Display{
		conn:        conn,
		log:         log,
		cursorTheme: o.CursorTheme,
		cursorSize:  o.CursorSize,
	}
	poller, err := task.NewPoller()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create poller: %w", err)
	}
	d.poller = poller

	d.registry = conn.Display().GetRegistry()
	d.registry.OnGlobal = d.handleGlobal
	d.registry.OnGlobalRemove = d.handleGlobalRemove

	if err := conn.Roundtrip(); err != nil {
		d.Close()
		return nil, fmt.Errorf("failed to fetch globals: %w", err)
	}
	if d.compositor == nil || d.shm == nil {
		d.Close()
		return nil, errors.New("compositor lacks wl_compositor or wl_shm")
	}
	// Second pass settles the events triggered by the binds above:
	// output modes, seat capabilities and shm formats.
	if err := conn.Roundtrip(); err != nil {
		d.Close()
		return nil, fmt.Errorf("failed to settle globals: %w", err)
	}

	if dev, err := render.Open(conn); err != nil {
		if errors.Is(err, render.ErrNoDevice) {
			log.Debug("no render device, windows use shm buffers")
		} else {
			log.Warn("failed to open render device, windows use shm buffers",
				"error", err)
		}
	} else {
		d.device = dev
	}

	d.loadCursors()

	if err := poller.Add(conn.Fd(), task.Readable, task.Func(d.handleConn)); err != nil {
		d.Close()
		return nil, fmt.Errorf("failed to watch connection: %w", err)
	}
	d.connEvents = task.Readable
	return d, nil
}

func (d *Display) handleGlobal(name uint32, iface string, version uint32) {
	d.globals = append(d.globals, globalEntry{name, iface, version})
	switch iface {
	case wl.CompositorInterface:
		d.compositor = d.registry.BindCompositor(name, version)
	case wl.ShmInterface:
		d.shm = d.registry.BindShm(name, version)
		d.shm.OnFormat = func(format uint32) {
			d.shmFormats = append(d.shmFormats, format)
		}
	case wl.OutputInterface:
		if d.output == nil {
			d.output = d.registry.BindOutput(name, version)
			d.output.OnGeometry = d.handleOutputGeometry
			d.output.OnMode = d.handleOutputMode
			d.output.OnScale = func(factor int32) {
				d.outputInfo.Scale = int(factor)
			}
		}
	case wl.SeatInterface:
		newInput(d, name, version)
	case wl.ShellInterface:
		d.shell = d.registry.BindShell(name, version)
	case wl.DataDeviceManagerInterface:
		d.ddm = d.registry.BindDataDeviceManager(name, version)
		for _, in := range d.inputs {
			in.ensureDataDevice()
		}
	}
	if d.globalHook != nil {
		d.globalHook(name, iface, version)
	}
}

func (d *Display) handleGlobalRemove(name uint32) {
	for i, g := range d.globals {
		if g.name == name {
			d.globals = append(d.globals[:i], d.globals[i+1:]...)
			break
		}
	}
	for _, in := range d.inputs {
		if in.globalName == name {
			in.destroy()
			break
		}
	}
}

func (d *Display) handleOutputGeometry(x, y, physW, physH, subpixel int32, maker, model string, transform int32) {
	d.screen.X, d.screen.Y = int(x), int(y)
	d.outputInfo.X, d.outputInfo.Y = int(x), int(y)
	d.outputInfo.PhysicalWidth = int(physW)
	d.outputInfo.PhysicalHeight = int(physH)
	d.outputInfo.Maker = maker
	d.outputInfo.Model = model
}

func (d *Display) handleOutputMode(flags uint32, width, height, refresh int32) {
	d.outputInfo.Modes = append(d.outputInfo.Modes, Mode{
		Width:   int(width),
		Height:  int(height),
		Refresh: int(refresh),
		Flags:   flags,
	})
	if flags&wl.ModeCurrent != 0 {
		d.screen.Width = int(width)
		d.screen.Height = int(height)
	}
}

// handleConn dispatches incoming events when the connection wakes the
// poller. Dispatch never blocks, so a wake for writability or a hangup
// is safe; a hangup surfaces as a read error here. Outgoing data is
// flushed at the top of the run loop.
func (d *Display) handleConn(events uint32) {
	if err := d.conn.Dispatch(); err != nil {
		d.connErr = err
		d.running = false
	}
}

// Run drives the event loop until Exit is called or the connection
// fails. Each pass drains the deferred queue, flushes requests and
// blocks for events; write interest is armed only while the outgoing
// buffer could not be flushed completely.
func (d *Display) Run() error {
	d.running = true
	for d.running {
		d.deferred.Drain()
		if !d.running {
			break
		}

		wantWrite, err := d.conn.Flush()
		if err != nil {
			return fmt.Errorf("failed to flush connection: %w", err)
		}
		events := uint32(task.Readable)
		if wantWrite {
			events |= task.Writable
		}
		if events != d.connEvents {
			if err := d.poller.Modify(d.conn.Fd(), events); err != nil {
				return fmt.Errorf("failed to adjust connection events: %w", err)
			}
			d.connEvents = events
		}

		if err := d.poller.Wait(); err != nil {
			return fmt.Errorf("failed to poll: %w", err)
		}
		if d.connErr != nil {
			return d.connErr
		}
	}
	return nil
}

// Exit makes Run return after the current batch of work.
func (d *Display) Exit() { d.running = false }

// Defer queues a task to run on the display thread after event
// dispatch.
func (d *Display) Defer(t task.Task) { d.deferred.Schedule(t) }

// Sync invokes f once the server has processed everything sent so far.
// f runs from the deferred queue like any other task.
func (d *Display) Sync(f func()) {
	if d.conn == nil {
		d.Defer(task.Func(func(uint32) { f() }))
		return
	}
	cb := d.conn.Display().Sync()
	cb.OnDone = func(uint32) {
		d.Defer(task.Func(func(uint32) { f() }))
	}
}

// WatchFD adds a file descriptor to the event loop. The task runs with
// the ready events whenever the poller reports them.
func (d *Display) WatchFD(fd int, events uint32, t task.Task) error {
	return d.poller.Add(fd, events, t)
}

// UnwatchFD removes a file descriptor added with WatchFD.
func (d *Display) UnwatchFD(fd int) error { return d.poller.Delete(fd) }

// Flush pushes buffered requests out, for callers outside Run.
func (d *Display) Flush() error {
	if d.conn == nil {
		return nil
	}
	_, err := d.conn.Flush()
	return err
}

// Roundtrip blocks until the server has processed everything sent so
// far, dispatching events as they arrive.
func (d *Display) Roundtrip() error {
	if d.conn == nil {
		return nil
	}
	return d.conn.Roundtrip()
}

// SetGlobalHandler installs a hook observing registry globals. Globals
// already seen are replayed immediately.
func (d *Display) SetGlobalHandler(h func(name uint32, iface string, version uint32)) {
	d.globalHook = h
	if h == nil {
		return
	}
	for _, g := range d.globals {
		h(g.name, g.iface, g.version)
	}
}

// Screen returns the geometry of the first output.
func (d *Display) Screen() Rect { return d.screen }

// Output returns what the first output advertised.
func (d *Display) Output() OutputInfo { return d.outputInfo }

// ShmFormats returns the pixel formats the compositor accepts for shm
// buffers.
func (d *Display) ShmFormats() []uint32 { return d.shmFormats }

// Inputs returns the currently known seats.
func (d *Display) Inputs() []*Input { return d.inputs }

// loadCursors uploads the pointer images from the configured theme.
// Missing images degrade to an absent cursor with a warning.
func (d *Display) loadCursors() {
	theme, size := d.cursorTheme, d.cursorSize
	if theme == "" || size <= 0 {
		dt, ds := cursor.DetectSettings()
		if theme == "" {
			theme = dt
		}
		if size <= 0 {
			size = ds
		}
	}
	for c := Cursor(0); c < cursorCount; c++ {
		img, err := cursor.LoadImage(theme, cursorNames[c], size)
		if err != nil && theme != cursor.FallbackTheme {
			img, err = cursor.LoadImage(cursor.FallbackTheme, cursorNames[c], size)
		}
		if err != nil {
			d.log.Warn("cursor image not found",
				"cursor", cursorNames[c], "theme", theme, "error", err)
			continue
		}
		d.cursors[c] = d.createCursorSurface(img)
	}
}

func (d *Display) createCursorSurface(img *cursor.Image) *cursorSurface {
	buf, err := newShmBuffer(d.shm, img.Width, img.Height, wl.FormatARGB8888)
	if err != nil {
		d.log.Warn("failed to create cursor buffer", "error", err)
		return nil
	}
	copy(buf.data, img.Pixels)
	s := d.compositor.CreateSurface()
	s.Attach(buf.buf, 0, 0)
	s.Damage(0, 0, int32(img.Width), int32(img.Height))
	s.Commit()
	return &cursorSurface{surface: s, buf: buf, hotX: img.HotX, hotY: img.HotY}
}

// Close tears down windows, cursor surfaces, the render device and the
// connection.
func (d *Display) Close() error {
	for len(d.windows) > 0 {
		d.windows[0].Destroy()
	}
	for i, cs := range d.cursors {
		if cs == nil {
			continue
		}
		cs.surface.Destroy()
		cs.buf.release()
		d.cursors[i] = nil
	}
	var firstErr error
	if d.device != nil {
		if err := d.device.Close(); err != nil {
			firstErr = err
		}
		d.device = nil
	}
	if d.poller != nil {
		if err := d.poller.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		d.poller = nil
	}
	if d.conn != nil {
		if err := d.conn.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		d.conn = nil
	}
	return firstErr
}
