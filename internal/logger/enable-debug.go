// SPDX-License-Identifier: GPL-3.0-or-later

//go:build debug

package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// DebugLogFileEnv names a file that receives json debug events instead of
// the console, useful while the progress tracker owns the terminal
const DebugLogFileEnv = "NETSWEEP_DEBUG_LOG"

func init() {
	var out io.Writer = zerolog.ConsoleWriter{Out: os.Stderr}

	if path := os.Getenv(DebugLogFileEnv); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)

		if err == nil {
			out = f
		}
	}

	zl := zerolog.New(out).
		Level(zerolog.DebugLevel).
		With().
		Timestamp().
		Caller().
		Logger()

	*debugLogger.zl = zl
}
