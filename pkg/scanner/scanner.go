// SPDX-License-Identifier: GPL-3.0-or-later

package scanner

import (
	"context"
	"sync"
)

// Scanner discovers hosts satisfying a probe, either on one fixed network
// or on every qualifying local interface
type Scanner[H, M any] struct {
	probe   Probe[H, M]
	conf    *config
	confMux sync.RWMutex
}

// New returns a new instance of Scanner. Without WithNetwork the scanner
// runs in local interfaces mode.
func New[H, M any](probe Probe[H, M], options ...Option) *Scanner[H, M] {
	conf := defaultConfig()

	for _, o := range options {
		o(conf)
	}

	return &Scanner[H, M]{
		probe: probe,
		conf:  conf,
	}
}

// Scan returns a Stream for a new scan. Nothing runs until the first call
// to Stream.Next. Cancelling ctx cancels the scan.
func (s *Scanner[H, M]) Scan(ctx context.Context) *Stream[H, M] {
	s.confMux.RLock()
	conf := *s.conf
	s.confMux.RUnlock()

	return newStream(func() *campaign[H, M] {
		return newCampaign(ctx, s.probe, &conf)
	})
}

// SetRequestNotifications sets the callback invoked as segment scans and
// probes are started. Applies to streams returned by subsequent calls to
// Scan.
func (s *Scanner[H, M]) SetRequestNotifications(cb func(r *Request)) {
	s.confMux.Lock()
	defer s.confMux.Unlock()

	WithRequestNotifications(cb)(s.conf)
}

// ReportsMisses returns true if Miss outcomes are included in streams
func (s *Scanner[H, M]) ReportsMisses() bool {
	s.confMux.RLock()
	defer s.confMux.RUnlock()

	return s.conf.reportMisses
}

// Continuous returns true if streams from this scanner only end through
// cancellation or failure
func (s *Scanner[H, M]) Continuous() bool {
	s.confMux.RLock()
	defer s.confMux.RUnlock()

	return s.conf.segment == nil && !s.conf.oneFullScanOnly
}
