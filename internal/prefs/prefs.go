// Package prefs remembers what the settings screen last showed: the colour
// theme, the chosen account and the chosen printer. The file lives at
// ~/.config/gcpsettings/prefs.toml unless a caller names another path.
package prefs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Prefs is the on-disk record.
type Prefs struct {
	Theme       string `toml:"theme"`
	LastAccount string `toml:"last_account"`
	LastPrinter string `toml:"last_printer"`
}

const (
	defaultPrefsPath = "~/.config/gcpsettings/prefs.toml"
	DefaultTheme     = "Nightfox"
)

func DefaultPath() string { return defaultPrefsPath }

func defaults() Prefs { return Prefs{Theme: DefaultTheme} }

// Load never fails: an absent, unreadable or malformed file yields the
// defaults, since remembered selections are only a convenience.
func Load(path string) (Prefs, error) {
	location, err := locate(path)
	if err != nil {
		return defaults(), nil
	}
	data, err := os.ReadFile(location)
	if err != nil {
		return defaults(), nil
	}

	p := defaults()
	if toml.Unmarshal(data, &p) != nil {
		return defaults(), nil
	}
	p.normalize()
	return p, nil
}

func (p *Prefs) normalize() {
	p.Theme = strings.TrimSpace(p.Theme)
	if p.Theme == "" {
		p.Theme = DefaultTheme
	}
	p.LastAccount = strings.TrimSpace(p.LastAccount)
	p.LastPrinter = strings.TrimSpace(p.LastPrinter)
}

// Update is a read-modify-write of the file at path.
func Update(path string, fn func(*Prefs)) error {
	p, _ := Load(path)
	fn(&p)
	return Save(path, p)
}

// Save writes p to path with owner-only permissions; missing parent
// directories are created.
func Save(path string, p Prefs) error {
	location, err := locate(path)
	if err != nil {
		return fmt.Errorf("locate prefs: %w", err)
	}
	p.normalize()

	data, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode prefs: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(location), 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}
	if err := os.WriteFile(location, data, 0o600); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	return nil
}

// locate maps a blank path to the default file and expands a leading ~.
func locate(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		path = defaultPrefsPath
	}
	if rest, ok := strings.CutPrefix(path, "~"); ok {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("home dir: %w", err)
		}
		path = filepath.Join(home, rest)
	}
	return filepath.Abs(path)
}
