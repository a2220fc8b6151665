// SPDX-License-Identifier: GPL-3.0-or-later

package logger

import (
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

// Logger is the console logger shared by the CLI and the result runner.
// All instances point at the same zerolog logger so output changes made
// after New was called still apply.
type Logger struct {
	zl *zerolog.Logger
}

type settings struct {
	out       io.Writer
	caller    bool
	timestamp bool
}

var (
	logger  Logger
	current settings
	mux     sync.Mutex
)

func init() {
	Reset()
}

// New returns the shared console logger
func New() Logger {
	return logger
}

// rebuild replaces the shared zerolog logger in place. Must be called
// with mux held.
func rebuild() {
	zl := zerolog.New(current.out)

	ctx := zl.With()

	if current.timestamp {
		ctx = ctx.Timestamp()
	}

	if current.caller {
		ctx = ctx.Caller()
	}

	*logger.zl = ctx.Logger()
}

// SetGlobalLevel sets the level for every logger. Debug level also turns
// on caller and timestamp fields.
func SetGlobalLevel(level zerolog.Level) {
	if level == zerolog.DebugLevel {
		SetWithCaller()
		SetWithTimestamp()
	}

	zerolog.SetGlobalLevel(level)
}

// SetWithCaller adds the caller to every event
func SetWithCaller() {
	mux.Lock()
	defer mux.Unlock()

	current.caller = true
	rebuild()
}

// SetWithTimestamp adds a timestamp to every event
func SetWithTimestamp() {
	mux.Lock()
	defer mux.Unlock()

	current.timestamp = true
	rebuild()
}

// SetOutput writes raw json events to w instead of the console
func SetOutput(w io.Writer) {
	mux.Lock()
	defer mux.Unlock()

	current.out = w
	rebuild()
}

// Reset restores timestamped console output on stderr
func Reset() {
	mux.Lock()
	defer mux.Unlock()

	current = settings{
		out:       zerolog.ConsoleWriter{Out: os.Stderr},
		timestamp: true,
	}

	if logger.zl == nil {
		logger = Logger{zl: &zerolog.Logger{}}
	}

	rebuild()
}

// Info wrapper around zerolog Info
func (l Logger) Info() *zerolog.Event {
	return l.zl.Info()
}

// Debug wrapper around zerolog Debug
func (l Logger) Debug() *zerolog.Event {
	return l.zl.Debug()
}

// Warn wrapper around zerolog Warn
func (l Logger) Warn() *zerolog.Event {
	return l.zl.Warn()
}

// Error wrapper around zerolog Error
func (l Logger) Error() *zerolog.Event {
	return l.zl.Error()
}

// Fatal wrapper around zerolog Fatal
func (l Logger) Fatal() *zerolog.Event {
	return l.zl.Fatal()
}
