// SPDX-License-Identifier: GPL-3.0-or-later

package scanner

import (
	"math"

	"github.com/robgonnella/go-netsweep/pkg/network"
)

// Unbounded concurrency limit used when no limit is configured
const Unbounded = math.MaxInt64

type config struct {
	interfaceFilter  func(s network.Snapshot) bool
	oneFullScanOnly  bool
	reportMisses     bool
	concurrencyLimit int64
	segment          *network.Segment
	source           network.InterfaceSource
	requestNotifier  func(r *Request)
}

func defaultConfig() *config {
	return &config{
		interfaceFilter:  network.ExcludeLoopback,
		concurrencyLimit: Unbounded,
	}
}

// Option represents an option that can be passed to New
type Option = func(c *config)

// WithInterfaceFilter sets the predicate selecting which local interfaces
// participate in local scanning. Defaults to excluding loopback.
func WithInterfaceFilter(filter func(s network.Snapshot) bool) Option {
	return func(c *config) {
		if filter != nil {
			c.interfaceFilter = filter
		}
	}
}

// WithOneFullScanOnly stops local scanning after the first full pass
// instead of reacting to interface changes forever
func WithOneFullScanOnly(v bool) Option {
	return func(c *config) {
		c.oneFullScanOnly = v
	}
}

// WithReportMisses includes Miss outcomes in the stream
func WithReportMisses(v bool) Option {
	return func(c *config) {
		c.reportMisses = v
	}
}

// WithConcurrencyLimit sets the upper bound on outstanding probes for a
// scan. Values below 1 are treated as 1.
func WithConcurrencyLimit(limit int) Option {
	return func(c *config) {
		c.concurrencyLimit = int64(max(1, limit))
	}
}

// WithNetwork scans a single explicit segment once instead of local
// interfaces. The segment's base address is never probed, so
// 192.168.1.5/24 skips 192.168.1.5 while 192.168.1.0/24 probes every
// usable host.
func WithNetwork(segment network.Segment) Option {
	return func(c *config) {
		c.segment = &segment
	}
}

// WithInterfaceSource sets the source used to enumerate and watch local
// interfaces. Defaults to network.NewSystemInterfaces().
func WithInterfaceSource(source network.InterfaceSource) Option {
	return func(c *config) {
		c.source = source
	}
}

// WithRequestNotifications sets a callback invoked as segment scans and
// probes are started
func WithRequestNotifications(cb func(r *Request)) Option {
	return func(c *config) {
		c.requestNotifier = cb
	}
}
