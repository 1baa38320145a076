package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/gcpsettings/internal/auth"
	"github.com/five82/gcpsettings/internal/cloudprint"
)

// Config captures everything the settings screen needs at startup.
type Config struct {
	APIBase        string
	ClientID       string
	ClientSecret   string
	TokenURL       string
	EventLog       string
	RequestTimeout time.Duration
	Copies         []int
	Accounts       []Account
}

// Account is a configured identity plus its stored grant.
type Account struct {
	Name         string
	Type         string
	RefreshToken string
	AccessToken  string
}

const (
	defaultConfigPath     = "~/.config/gcpsettings/config.toml"
	defaultEventLog       = "~/.local/share/gcpsettings/events.log"
	defaultRequestTimeout = 10 * time.Second
	maxCopies             = 99
)

var defaultCopies = []int{1, 2, 3, 4, 5}

// Load locates and parses the config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := defaults()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIBase        string `toml:"api_base"`
		ClientID       string `toml:"client_id"`
		ClientSecret   string `toml:"client_secret"`
		TokenURL       string `toml:"token_url"`
		EventLog       string `toml:"event_log"`
		RequestTimeout string `toml:"request_timeout"`
		Copies         []int  `toml:"copies"`
		Accounts       []struct {
			Name         string `toml:"name"`
			Type         string `toml:"type"`
			RefreshToken string `toml:"refresh_token"`
			AccessToken  string `toml:"access_token"`
		} `toml:"accounts"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if base := strings.TrimSpace(raw.APIBase); base != "" {
		cfg.APIBase = base
	}
	cfg.ClientID = strings.TrimSpace(raw.ClientID)
	cfg.ClientSecret = strings.TrimSpace(raw.ClientSecret)
	cfg.TokenURL = strings.TrimSpace(raw.TokenURL)

	if logPath := strings.TrimSpace(raw.EventLog); logPath != "" {
		cfg.EventLog = mustExpand(logPath)
	}

	if timeout := strings.TrimSpace(raw.RequestTimeout); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("parse config: invalid request_timeout %q", raw.RequestTimeout)
		}
		cfg.RequestTimeout = d
	}

	if copies := normalizeCopies(raw.Copies); len(copies) > 0 {
		cfg.Copies = copies
	}

	for _, a := range raw.Accounts {
		name := strings.TrimSpace(a.Name)
		if name == "" {
			continue
		}
		acctType := strings.TrimSpace(a.Type)
		if acctType == "" {
			acctType = auth.GoogleAccountType
		}
		cfg.Accounts = append(cfg.Accounts, Account{
			Name:         name,
			Type:         acctType,
			RefreshToken: strings.TrimSpace(a.RefreshToken),
			AccessToken:  strings.TrimSpace(a.AccessToken),
		})
	}

	return cfg, nil
}

// AuthAccounts returns the accounts in the form the account selector takes.
func (c Config) AuthAccounts() []auth.Account {
	out := make([]auth.Account, 0, len(c.Accounts))
	for _, a := range c.Accounts {
		out = append(out, auth.Account{Name: a.Name, Type: a.Type})
	}
	return out
}

// Credentials returns the stored grants keyed by account name.
func (c Config) Credentials() map[string]auth.Credentials {
	out := make(map[string]auth.Credentials, len(c.Accounts))
	for _, a := range c.Accounts {
		out[a.Name] = auth.Credentials{RefreshToken: a.RefreshToken, AccessToken: a.AccessToken}
	}
	return out
}

func defaults() Config {
	copies := make([]int, len(defaultCopies))
	copy(copies, defaultCopies)
	return Config{
		APIBase:        cloudprint.DefaultBaseURL,
		EventLog:       mustExpand(defaultEventLog),
		RequestTimeout: defaultRequestTimeout,
		Copies:         copies,
	}
}

// normalizeCopies drops out-of-range and duplicate values, keeping order.
func normalizeCopies(values []int) []int {
	seen := make(map[int]bool, len(values))
	out := make([]int, 0, len(values))
	for _, v := range values {
		if v < 1 || v > maxCopies || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
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
