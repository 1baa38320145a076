package app

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/five82/gcpsettings/internal/auth"
	"github.com/five82/gcpsettings/internal/capability"
	"github.com/five82/gcpsettings/internal/cloudprint"
	"github.com/five82/gcpsettings/internal/config"
	"github.com/five82/gcpsettings/internal/eventlog"
	"github.com/five82/gcpsettings/internal/prefs"
	"github.com/five82/gcpsettings/internal/state"
	"github.com/five82/gcpsettings/internal/ui"
)

// Options configure the settings screen.
type Options struct {
	ConfigPath string // empty uses ~/.config/gcpsettings/config.toml
	PrefsPath  string // empty uses ~/.config/gcpsettings/prefs.toml
}

// runUI is swapped in tests.
var runUI = ui.Run

// Run shows the settings screen until the user links a printer or cancels.
func Run(ctx context.Context, opts Options) (state.Result, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return state.Result{}, fmt.Errorf("load config: %w", err)
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	userPrefs, _ := prefs.Load(prefsPath)

	directory, err := cloudprint.NewClient(cfg.APIBase, cfg.RequestTimeout)
	if err != nil {
		return state.Result{}, fmt.Errorf("init cloud print client: %w", err)
	}

	authenticator := auth.NewOAuth(auth.OAuthOptions{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
		HTTPClient:   &http.Client{Timeout: cfg.RequestTimeout},
		Credentials:  cfg.Credentials(),
	})

	events, closeEvents := openEventLog(cfg.EventLog)
	defer closeEvents()

	accounts := cfg.AuthAccounts()
	if auth.IndexOf(auth.FilterAccounts(accounts, []string{auth.GoogleAccountType}), userPrefs.LastAccount) >= 0 {
		warmCtx, cancelWarm := context.WithCancel(ctx)
		done := warmToken(warmCtx, authenticator, userPrefs.LastAccount, cfg.RequestTimeout)
		// Runs before closeEvents so the prewarm never logs into a closed file.
		defer func() {
			cancelWarm()
			waitWarm(done, warmDrainTimeout)
		}()
	}

	return runUI(ui.Options{
		Context:        ctx,
		Authenticator:  authenticator,
		Directory:      directory,
		Parser:         capability.NewParser(capability.DefaultAPI()),
		EventLog:       events,
		Accounts:       accounts,
		PermittedTypes: []string{auth.GoogleAccountType},
		Copies:         cfg.Copies,
		RequestTimeout: cfg.RequestTimeout,
		ThemeName:      userPrefs.Theme,
		PrefsPath:      prefsPath,
		LastAccount:    userPrefs.LastAccount,
		LastPrinter:    userPrefs.LastPrinter,
	})
}

// openEventLog opens the event log and points the standard logger at it for
// the lifetime of the screen. Failure degrades to a no-op event log.
func openEventLog(path string) (eventlog.Logger, func()) {
	f, err := eventlog.Open(path)
	if err != nil {
		log.Printf("event log disabled: %v", err)
		prev := log.Writer()
		log.SetOutput(io.Discard)
		return eventlog.Nop{}, func() { log.SetOutput(prev) }
	}
	restore := f.RedirectStdLog()
	return f, func() {
		restore()
		if err := f.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "gcpsettings: close event log: %v\n", err)
		}
	}
}

const (
	defaultWarmTimeout = 10 * time.Second
	warmDrainTimeout   = time.Second
)

// RecentEvents returns the last n event log lines, optionally only those for
// one event name.
func RecentEvents(configPath string, n int, event string) ([]string, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return eventlog.Tail(cfg.EventLog, n, event)
}
