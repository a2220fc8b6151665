// SPDX-License-Identifier: GPL-3.0-or-later

package logger

import (
	"io"

	"github.com/rs/zerolog"
)

var debugLogger DebugLogger

func init() {
	// initialize a disabled logger
	// builds with the "debug" tag will enable logging
	// see enable-debug.go

	consoleWriter := zerolog.ConsoleWriter{Out: io.Discard}

	zl := zerolog.New(consoleWriter).
		Level(zerolog.Disabled).
		With().
		Timestamp().
		Caller().
		Logger()

	debugLogger = DebugLogger{
		zl: &zl,
	}
}

// DebugLogger represents a Logger implementation that is only turned on
// when built with the "debug" tag
type DebugLogger struct {
	zl        *zerolog.Logger
	component string
}

// NewDebugLogger returns a instance of DebugLogger
func NewDebugLogger() DebugLogger {
	return debugLogger
}

// Component returns a copy of the debug logger that tags every event
// with the provided component name
func (l DebugLogger) Component(name string) DebugLogger {
	return DebugLogger{zl: l.zl, component: name}
}

func (l DebugLogger) tag(evt *zerolog.Event) *zerolog.Event {
	if l.component == "" {
		return evt
	}

	return evt.Str("component", l.component)
}

// Info wrapper around zerolog Info
func (l DebugLogger) Info() *zerolog.Event {
	return l.tag(l.zl.Info())
}

// Debug wrapper around zerolog Debug
func (l DebugLogger) Debug() *zerolog.Event {
	return l.tag(l.zl.Debug())
}

// Warn wrapper around zerolog Warn
func (l DebugLogger) Warn() *zerolog.Event {
	return l.tag(l.zl.Warn())
}

// Error wrapper around zerolog Error
func (l DebugLogger) Error() *zerolog.Event {
	return l.tag(l.zl.Error())
}
