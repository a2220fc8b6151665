// SPDX-License-Identifier: GPL-3.0-or-later

package logger_test

import (
	"bytes"
	"testing"

	"github.com/robgonnella/go-netsweep/internal/logger"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestLogger(t *testing.T) {
	restore := func() {
		logger.SetGlobalLevel(zerolog.InfoLevel)
		logger.Reset()
	}

	defer restore()

	t.Run("sets global log level", func(st *testing.T) {
		defer restore()

		buf := &bytes.Buffer{}

		logger.SetOutput(buf)
		logger.SetGlobalLevel(zerolog.ErrorLevel)

		log := logger.New()

		log.Debug().Msg("debug message")
		log.Info().Msg("info message")
		log.Warn().Msg("warn message")
		log.Error().Msg("error message")

		output := buf.String()

		assert.NotContains(st, output, "debug message")
		assert.NotContains(st, output, "info message")
		assert.NotContains(st, output, "warn message")
		assert.Contains(st, output, "error message")
	})

	t.Run("applies output to previously returned loggers", func(st *testing.T) {
		defer restore()

		log := logger.New()

		buf := &bytes.Buffer{}

		logger.SetOutput(buf)

		log.Info().Str("address", "192.168.1.2").Msg("host found")

		assert.Contains(st, buf.String(), "\"address\":\"192.168.1.2\"")
	})

	t.Run("includes timestamp by default", func(st *testing.T) {
		defer restore()

		buf := &bytes.Buffer{}

		logger.SetOutput(buf)
		logger.New().Info().Msg("scan complete")

		assert.Contains(st, buf.String(), "\"time\":")
	})

	t.Run("debug level adds caller", func(st *testing.T) {
		defer restore()

		buf := &bytes.Buffer{}

		logger.SetOutput(buf)
		logger.SetGlobalLevel(zerolog.DebugLevel)

		logger.New().Debug().Msg("probing")

		output := buf.String()

		assert.Contains(st, output, "probing")
		assert.Contains(st, output, "logger_test.go")
	})

	t.Run("reset drops caller", func(st *testing.T) {
		defer restore()

		logger.SetWithCaller()
		logger.Reset()

		buf := &bytes.Buffer{}

		logger.SetOutput(buf)
		logger.New().Info().Msg("after reset")

		assert.NotContains(st, buf.String(), "logger_test.go")
	})
}
