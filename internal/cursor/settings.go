package cursor

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/godbus/dbus/v5"
)

// DefaultSize is used when nothing configures a cursor size.
const DefaultSize = 24

const (
	portalName      = "org.freedesktop.portal.Desktop"
	portalPath      = "/org/freedesktop/portal/desktop"
	portalRead      = "org.freedesktop.portal.Settings.Read"
	portalNamespace = "org.gnome.desktop.interface"
	portalTimeout   = 250 * time.Millisecond
)

// DetectSettings resolves the session's cursor theme and size:
// XCURSOR_THEME/XCURSOR_SIZE first, then the desktop portal, then the
// compiled defaults. Portal lookups are best-effort with a short
// timeout; a session without a portal just gets the defaults.
func DetectSettings() (theme string, size int) {
	theme = os.Getenv("XCURSOR_THEME")
	if env := os.Getenv("XCURSOR_SIZE"); env != "" {
		if n, err := strconv.Atoi(env); err == nil && n > 0 {
			size = n
		}
	}
	if theme == "" {
		theme = portalString("cursor-theme")
	}
	if size == 0 {
		size = portalInt("cursor-size")
	}
	if theme == "" {
		theme = FallbackTheme
	}
	if size <= 0 {
		size = DefaultSize
	}
	return theme, size
}

func portalRead1(key string) (dbus.Variant, bool) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return dbus.Variant{}, false
	}
	ctx, cancel := context.WithTimeout(context.Background(), portalTimeout)
	defer cancel()

	var out dbus.Variant
	call := conn.Object(portalName, portalPath).CallWithContext(ctx, portalRead, 0, portalNamespace, key)
	if call.Err != nil || call.Store(&out) != nil {
		return dbus.Variant{}, false
	}
	// Read wraps the value in a variant of a variant.
	if inner, ok := out.Value().(dbus.Variant); ok {
		return inner, true
	}
	return out, true
}

func portalString(key string) string {
	v, ok := portalRead1(key)
	if !ok {
		return ""
	}
	s, _ := v.Value().(string)
	return s
}

func portalInt(key string) int {
	v, ok := portalRead1(key)
	if !ok {
		return 0
	}
	switch n := v.Value().(type) {
	case int32:
		return int(n)
	case uint32:
		return int(n)
	case int64:
		return int(n)
	}
	return 0
}
