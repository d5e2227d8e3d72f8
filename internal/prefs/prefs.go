// Package prefs handles diptych user preferences persistence.
// Preferences are stored in ~/.config/diptych/prefs.toml.
package prefs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Prefs holds user preferences for diptych.
type Prefs struct {
	Theme        string `toml:"theme"`
	ColumnsLeft  int    `toml:"columns_left"`
	ColumnsRight int    `toml:"columns_right"`
	ShowDates    bool   `toml:"show_dates"`
	ViewMode     string `toml:"view_mode"`
}

const (
	defaultPrefsPath = "~/.config/diptych/prefs.toml"
	defaultTheme     = "Nightfox"
	defaultColumns   = 4
	maxColumns       = 12
	defaultViewMode  = "both"
)

// Default returns the built-in preferences.
func Default() Prefs {
	return Prefs{
		Theme:        defaultTheme,
		ColumnsLeft:  defaultColumns,
		ColumnsRight: defaultColumns,
		ViewMode:     defaultViewMode,
	}
}

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Load reads preferences from the given path, falling back to defaults if missing.
func Load(path string) (Prefs, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Default(), nil
	}

	prefs := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return prefs, nil
		}
		return prefs, nil // Graceful degradation
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return prefs, nil // Graceful degradation
	}

	if err := toml.Unmarshal(bytes, &prefs); err != nil {
		return Default(), nil // Graceful degradation
	}

	return prefs.normalized(), nil
}

func (p Prefs) normalized() Prefs {
	if strings.TrimSpace(p.Theme) == "" {
		p.Theme = defaultTheme
	}
	p.ColumnsLeft = normalizeColumns(p.ColumnsLeft)
	p.ColumnsRight = normalizeColumns(p.ColumnsRight)
	switch strings.ToLower(strings.TrimSpace(p.ViewMode)) {
	case "left", "right", "both":
		p.ViewMode = strings.ToLower(strings.TrimSpace(p.ViewMode))
	default:
		p.ViewMode = defaultViewMode
	}
	return p
}

func normalizeColumns(n int) int {
	if n <= 0 {
		return defaultColumns
	}
	return min(n, maxColumns)
}

// Save writes preferences to the given path, creating directories as needed.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	bytes, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	if err := os.WriteFile(resolved, bytes, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}

	return nil
}

// ResolvePath expands path, or the default location when blank.
func ResolvePath(path string) (string, error) {
	return resolvePath(path)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultPrefsPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
