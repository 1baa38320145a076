package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	jsoniter "github.com/json-iterator/go"

	"github.com/five82/gcpsettings/internal/app"
	"github.com/five82/gcpsettings/internal/state"
)

const (
	exitOK        = 0
	exitError     = 1
	exitCancelled = 2
)

// payloadJSON sorts map keys so the output is stable for callers diffing it.
var payloadJSON = jsoniter.Config{
	EscapeHTML:  true,
	SortMapKeys: true,
}.Froze()

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "override config path (optional)")
	prefsPath := flag.String("prefs", "", "override prefs path (optional)")
	recent := flag.Int("events", 0, "print the last N event log lines and exit")
	eventName := flag.String("event", "", "with -events, only show this event name")
	flag.Parse()

	if *recent > 0 {
		lines, err := app.RecentEvents(*configPath, *recent, *eventName)
		if err != nil {
			fmt.Fprintf(os.Stderr, "gcpsettings: %v\n", err)
			return exitError
		}
		for _, line := range lines {
			fmt.Println(line)
		}
		return exitOK
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	result, err := app.Run(ctx, app.Options{ConfigPath: *configPath, PrefsPath: *prefsPath})
	if err != nil {
		fmt.Fprintf(os.Stderr, "gcpsettings: %v\n", err)
		return exitError
	}

	if err := writeResult(os.Stdout, result); err != nil {
		fmt.Fprintf(os.Stderr, "gcpsettings: write result: %v\n", err)
		return exitError
	}
	return exitCode(result)
}

func writeResult(w io.Writer, result state.Result) error {
	data, err := payloadJSON.Marshal(result.Payload())
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func exitCode(result state.Result) int {
	if result.Outcome == state.OutcomeOK {
		return exitOK
	}
	return exitCancelled
}
