package cursor

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FallbackTheme is tried when the configured theme misses a cursor.
const FallbackTheme = "default"

// searchDirs returns the theme search path. XCURSOR_PATH overrides
// completely; otherwise the conventional user and system directories.
func searchDirs() []string {
	if path := os.Getenv("XCURSOR_PATH"); path != "" {
		return filepath.SplitList(path)
	}
	var dirs []string
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".icons"))
	}
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		dirs = append(dirs, filepath.Join(dataHome, "icons"))
	} else if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".local", "share", "icons"))
	}
	return append(dirs, "/usr/share/icons", "/usr/share/pixmaps")
}

// LoadImage finds name in theme (or a theme it inherits) and decodes the
// frame nearest to size.
func LoadImage(theme, name string, size int) (*Image, error) {
	img := loadFromTheme(theme, name, size, map[string]bool{})
	if img == nil {
		return nil, fmt.Errorf("cursor %q not found in theme %q", name, theme)
	}
	return img, nil
}

func loadFromTheme(theme, name string, size int, visited map[string]bool) *Image {
	if visited[theme] {
		return nil
	}
	visited[theme] = true

	var inherits []string
	for _, dir := range searchDirs() {
		themeDir := filepath.Join(dir, theme)
		data, err := os.ReadFile(filepath.Join(themeDir, "cursors", name))
		if err == nil {
			if img, err := parseXcursor(data, size); err == nil {
				return img
			}
			continue
		}
		inherits = append(inherits, readInherits(filepath.Join(themeDir, "index.theme"))...)
	}
	for _, parent := range inherits {
		if img := loadFromTheme(parent, name, size, visited); img != nil {
			return img
		}
	}
	return nil
}

// readInherits pulls the Inherits list out of an index.theme file.
func readInherits(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var parents []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "Inherits") {
			continue
		}
		_, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		for _, field := range strings.FieldsFunc(value, func(r rune) bool {
			return r == ',' || r == ';' || r == ' ' || r == '\t' || r == '"'
		}) {
			parents = append(parents, field)
		}
	}
	return parents
}
