// Command wsinfo connects to the compositor, dumps the advertised
// globals, output geometry and modes, shm formats and seats, and exits.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"golang.org/x/term"

	"github.com/christianrauch/weston-clients/internal/client"
	"github.com/christianrauch/weston-clients/internal/config"
	"github.com/christianrauch/weston-clients/internal/wl"
)

type styles struct {
	header lipgloss.Style
	name   lipgloss.Style
	dim    lipgloss.Style
	rule   string
}

func newStyles() styles {
	width := 60
	if cols, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && cols > 0 && cols < width {
		width = cols
	}
	s := styles{rule: strings.Repeat("─", width)}
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		s.rule = strings.Repeat("-", width)
		return s
	}
	s.header = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	s.name = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	s.dim = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	return s
}

func (s styles) section(title string) {
	fmt.Println(s.header.Render(title))
	fmt.Println(s.dim.Render(s.rule))
}

func formatName(f uint32) string {
	switch f {
	case wl.FormatARGB8888:
		return "ARGB8888"
	case wl.FormatXRGB8888:
		return "XRGB8888"
	default:
		return fmt.Sprintf("0x%08x", f)
	}
}

func modeFlags(flags uint32) string {
	var parts []string
	if flags&wl.ModeCurrent != 0 {
		parts = append(parts, "current")
	}
	if flags&wl.ModePreferred != 0 {
		parts = append(parts, "preferred")
	}
	return strings.Join(parts, " ")
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: wsinfo\n\n")
		fmt.Fprintf(os.Stderr, "Print the compositor's globals, outputs, formats and seats.\n")
	}
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	logger := cfg.Logger(os.Stderr)

	d, err := client.Connect(&client.Options{
		Logger:      logger,
		CursorTheme: cfg.Cursor.Theme,
		CursorSize:  cfg.Cursor.Size,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to display: %v\n", err)
		os.Exit(1)
	}
	defer d.Close()

	s := newStyles()

	s.section("globals")
	d.SetGlobalHandler(func(name uint32, iface string, version uint32) {
		fmt.Printf("  %s %s %s\n",
			s.dim.Render(fmt.Sprintf("%4d", name)),
			s.name.Render(fmt.Sprintf("%-32s", iface)),
			fmt.Sprintf("v%d", version))
	})
	d.SetGlobalHandler(nil)

	info := d.Output()
	fmt.Println()
	s.section("output")
	fmt.Printf("  maker: %s  model: %s\n", s.name.Render(info.Maker), s.name.Render(info.Model))
	fmt.Printf("  position: %d,%d  physical: %dx%d mm  scale: %d\n",
		info.X, info.Y, info.PhysicalWidth, info.PhysicalHeight, info.Scale)
	for _, m := range info.Modes {
		line := fmt.Sprintf("  mode: %dx%d @ %.1f Hz  (%s pixels)",
			m.Width, m.Height, float64(m.Refresh)/1000,
			humanize.Comma(int64(m.Width)*int64(m.Height)))
		if f := modeFlags(m.Flags); f != "" {
			line += "  " + s.dim.Render(f)
		}
		fmt.Println(line)
	}

	fmt.Println()
	s.section("shm formats")
	var formats []string
	for _, f := range d.ShmFormats() {
		formats = append(formats, formatName(f))
	}
	fmt.Printf("  %s\n", strings.Join(formats, ", "))

	fmt.Println()
	s.section("seats")
	for _, in := range d.Inputs() {
		var caps []string
		if in.HasPointer() {
			caps = append(caps, "pointer")
		}
		if in.HasKeyboard() {
			caps = append(caps, "keyboard")
		}
		if len(caps) == 0 {
			caps = append(caps, "none")
		}
		fmt.Printf("  seat %s: %s\n",
			s.dim.Render(fmt.Sprintf("%d", in.GlobalName())),
			s.name.Render(strings.Join(caps, " ")))
	}
}
