// Package eventlog records screen events (name plus flat string parameters)
// as JSON lines in an append-only file so the terminal stays free for the UI.
package eventlog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger accepts an event name plus a flat string-keyed parameter map.
type Logger interface {
	Log(event string, params map[string]string)
}

// Keys used on every line.
const (
	EventKey   = "event"
	SessionKey = "session"
	TimeKey    = "ts"
)

// File writes one JSON line per event, tagged with a per-process session id.
type File struct {
	mu     sync.Mutex
	logger *zap.Logger
	closer io.Closer
	closed bool
}

// Open creates (or appends to) the log at path.
func Open(path string) (*File, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("event log path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create event log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("open event log: %w", err)
	}
	l := New(f)
	l.closer = f
	return l, nil
}

// New writes events to w.
func New(w io.Writer) *File {
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig()),
		zapcore.Lock(zapcore.AddSync(w)),
		zap.InfoLevel,
	)
	return &File{
		logger: zap.New(core).With(zap.String(SessionKey, uuid.NewString())),
	}
}

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = TimeKey
	cfg.MessageKey = EventKey
	cfg.LevelKey = zapcore.OmitKey
	cfg.CallerKey = zapcore.OmitKey
	cfg.StacktraceKey = zapcore.OmitKey
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg
}

// Log implements Logger. Params are written in key order. Events logged
// after Close are dropped.
func (f *File) Log(event string, params map[string]string) {
	if f == nil {
		return
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fields := make([]zap.Field, 0, len(keys))
	for _, k := range keys {
		fields = append(fields, zap.String(k, params[k]))
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.logger.Info(event, fields...)
}

// RedirectStdLog routes the standard library logger into the file, under
// the "stdlog" logger name, until the returned func is called.
func (f *File) RedirectStdLog() func() {
	return zap.RedirectStdLog(f.logger.Named("stdlog"))
}

// Close flushes and releases the underlying file, if any.
func (f *File) Close() error {
	if f == nil {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil
	}
	f.closed = true
	_ = f.logger.Sync()
	if f.closer == nil {
		return nil
	}
	return f.closer.Close()
}

// Nop discards every event.
type Nop struct{}

// Log implements Logger.
func (Nop) Log(string, map[string]string) {}

// Entry is one event captured by Memory.
type Entry struct {
	Event  string
	Params map[string]string
}

// Memory keeps events in memory; handy for tests and previews.
type Memory struct {
	mu      sync.Mutex
	entries []Entry
}

// Log implements Logger.
func (m *Memory) Log(event string, params map[string]string) {
	dup := make(map[string]string, len(params))
	for k, v := range params {
		dup[k] = v
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, Entry{Event: event, Params: dup})
}

// Entries returns a copy of the recorded events.
func (m *Memory) Entries() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Last returns the most recent event named event.
func (m *Memory) Last(event string) (Entry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.entries) - 1; i >= 0; i-- {
		if m.entries[i].Event == event {
			return m.entries[i], true
		}
	}
	return Entry{}, false
}
