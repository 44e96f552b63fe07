package cursor

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

type testFrame struct {
	nominal, w, h, hotX, hotY int
	pixel                     uint32
}

// xcursorFile builds a minimal valid Xcursor file from frames.
func xcursorFile(frames []testFrame) []byte {
	n := len(frames)
	var out []byte
	le := binary.LittleEndian
	out = le.AppendUint32(out, xcursorMagic)
	out = le.AppendUint32(out, 16)
	out = le.AppendUint32(out, 1)
	out = le.AppendUint32(out, uint32(n))

	pos := 16 + 12*n
	for _, f := range frames {
		out = le.AppendUint32(out, xcursorImageType)
		out = le.AppendUint32(out, uint32(f.nominal))
		out = le.AppendUint32(out, uint32(pos))
		pos += 36 + f.w*f.h*4
	}
	for _, f := range frames {
		out = le.AppendUint32(out, 36)
		out = le.AppendUint32(out, xcursorImageType)
		out = le.AppendUint32(out, uint32(f.nominal))
		out = le.AppendUint32(out, 1)
		out = le.AppendUint32(out, uint32(f.w))
		out = le.AppendUint32(out, uint32(f.h))
		out = le.AppendUint32(out, uint32(f.hotX))
		out = le.AppendUint32(out, uint32(f.hotY))
		out = le.AppendUint32(out, 0) // delay
		for i := 0; i < f.w*f.h; i++ {
			out = le.AppendUint32(out, f.pixel)
		}
	}
	return out
}

func TestParsePicksClosestNominalSize(t *testing.T) {
	data := xcursorFile([]testFrame{
		{nominal: 24, w: 24, h: 24, hotX: 4, hotY: 5, pixel: 0xff112233},
		{nominal: 48, w: 48, h: 48, hotX: 8, hotY: 10, pixel: 0xff445566},
	})

	tests := []struct {
		request   int
		wantWidth int
	}{
		{24, 24},
		{32, 24}, // ties and near misses round down to the closer entry
		{40, 48},
		{96, 48},
	}
	for _, tt := range tests {
		img, err := parseXcursor(data, tt.request)
		if err != nil {
			t.Fatalf("parse at size %d: %v", tt.request, err)
		}
		if img.Width != tt.wantWidth {
			t.Errorf("size %d picked %dpx frame, want %dpx", tt.request, img.Width, tt.wantWidth)
		}
	}
}

func TestParseHotspotAndPixels(t *testing.T) {
	data := xcursorFile([]testFrame{{nominal: 24, w: 2, h: 2, hotX: 1, hotY: 2, pixel: 0xffaabbcc}})
	img, err := parseXcursor(data, 24)
	if err != nil {
		t.Fatal(err)
	}
	if img.HotX != 1 || img.HotY != 2 {
		t.Errorf("hotspot = (%d,%d), want (1,2)", img.HotX, img.HotY)
	}
	if len(img.Pixels) != 16 {
		t.Fatalf("pixel bytes = %d, want 16", len(img.Pixels))
	}
	// Stored little endian: BB GG RR AA of 0xffaabbcc.
	if img.Pixels[0] != 0xcc || img.Pixels[1] != 0xbb || img.Pixels[2] != 0xaa || img.Pixels[3] != 0xff {
		t.Errorf("pixel bytes = % x", img.Pixels[:4])
	}
}

func TestParseRejectsBadFiles(t *testing.T) {
	cases := map[string][]byte{
		"empty":     nil,
		"bad magic": []byte("NOPE0000000000000000"),
		"truncated": xcursorFile([]testFrame{{nominal: 24, w: 8, h: 8}})[:40],
	}
	for name, data := range cases {
		if _, err := parseXcursor(data, 24); err == nil {
			t.Errorf("%s accepted", name)
		}
	}
}

func writeTheme(t *testing.T, root, theme, name string, data []byte) {
	t.Helper()
	dir := filepath.Join(root, theme, "cursors")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadImageFromSearchPath(t *testing.T) {
	root := t.TempDir()
	t.Setenv("XCURSOR_PATH", root)
	writeTheme(t, root, "plain", "left_ptr", xcursorFile([]testFrame{{nominal: 24, w: 24, h: 24, hotX: 10, hotY: 5}}))

	img, err := LoadImage("plain", "left_ptr", 24)
	if err != nil {
		t.Fatal(err)
	}
	if img.HotX != 10 || img.HotY != 5 {
		t.Errorf("hotspot = (%d,%d)", img.HotX, img.HotY)
	}

	if _, err := LoadImage("plain", "no_such_cursor", 24); err == nil {
		t.Error("missing cursor name did not error")
	}
	if _, err := LoadImage("absent-theme", "left_ptr", 24); err == nil {
		t.Error("missing theme did not error")
	}
}

func TestLoadImageFollowsInherits(t *testing.T) {
	root := t.TempDir()
	t.Setenv("XCURSOR_PATH", root)
	writeTheme(t, root, "parent", "xterm", xcursorFile([]testFrame{{nominal: 24, w: 24, h: 24, hotX: 15, hotY: 15}}))

	childDir := filepath.Join(root, "child")
	if err := os.MkdirAll(childDir, 0o755); err != nil {
		t.Fatal(err)
	}
	index := "[Icon Theme]\nName=Child\nInherits=parent\n"
	if err := os.WriteFile(filepath.Join(childDir, "index.theme"), []byte(index), 0o644); err != nil {
		t.Fatal(err)
	}

	img, err := LoadImage("child", "xterm", 24)
	if err != nil {
		t.Fatal(err)
	}
	if img.HotX != 15 {
		t.Errorf("inherited image hotspot = %d, want 15", img.HotX)
	}
}

func TestInheritsCycleTerminates(t *testing.T) {
	root := t.TempDir()
	t.Setenv("XCURSOR_PATH", root)
	for _, pair := range [][2]string{{"a", "b"}, {"b", "a"}} {
		dir := filepath.Join(root, pair[0])
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, "index.theme"), []byte("Inherits="+pair[1]+"\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := LoadImage("a", "left_ptr", 24); err == nil {
		t.Error("cyclic inheritance found a cursor out of thin air")
	}
}

func TestDetectSettingsEnvOverride(t *testing.T) {
	t.Setenv("XCURSOR_THEME", "Adwaita")
	t.Setenv("XCURSOR_SIZE", "48")
	theme, size := DetectSettings()
	if theme != "Adwaita" || size != 48 {
		t.Errorf("settings = (%q, %d), want (Adwaita, 48)", theme, size)
	}
}
