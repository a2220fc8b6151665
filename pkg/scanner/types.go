// SPDX-License-Identifier: GPL-3.0-or-later

package scanner

import (
	"context"

	"github.com/robgonnella/go-netsweep/pkg/network"
)

// Empty unit payload for probes that only report hit or miss
type Empty = struct{}

// Conclusion represents the result of probing a single address: either a
// Hit carrying H or a Miss carrying M
type Conclusion[H, M any] struct {
	hit      bool
	hitData  H
	missData M
}

// Hit returns a hit Conclusion
func Hit[H, M any](data H) Conclusion[H, M] {
	return Conclusion[H, M]{hit: true, hitData: data}
}

// Miss returns a miss Conclusion
func Miss[H, M any](data M) Conclusion[H, M] {
	return Conclusion[H, M]{missData: data}
}

// IsHit returns true if this conclusion is a hit
func (c Conclusion[H, M]) IsHit() bool {
	return c.hit
}

// HitData returns the hit payload. The second return value is false for
// misses.
func (c Conclusion[H, M]) HitData() (H, bool) {
	return c.hitData, c.hit
}

// MissData returns the miss payload. The second return value is false for
// hits.
func (c Conclusion[H, M]) MissData() (M, bool) {
	return c.missData, !c.hit
}

// Probe classifies one address as a Hit or Miss. Returning an error is
// fatal to the entire scan; unreachable or non-matching hosts must be
// reported as a Miss.
type Probe[H, M any] func(ctx context.Context, address string) (Conclusion[H, M], error)

// BoolProbe adapts a simple true / false test into a Probe
func BoolProbe(f func(ctx context.Context, address string) (bool, error)) Probe[Empty, Empty] {
	return func(ctx context.Context, address string) (Conclusion[Empty, Empty], error) {
		ok, err := f(ctx, address)

		if err != nil {
			return Conclusion[Empty, Empty]{}, err
		}

		if ok {
			return Hit[Empty, Empty](Empty{}), nil
		}

		return Miss[Empty, Empty](Empty{}), nil
	}
}

// Outcome represents a single probe result delivered on a Stream
type Outcome[H, M any] struct {
	Address string
	// Interface name of the local interface whose segment was scanned.
	// Empty when scanning a fixed network.
	Interface  string
	Conclusion Conclusion[H, M]
}

// RequestType represents the kind of request notification
type RequestType string

const (
	// SegmentRequest sent when scanning of a segment begins
	SegmentRequest RequestType = "SEGMENT"
	// ProbeRequest sent each time a probe is launched
	ProbeRequest RequestType = "PROBE"
)

// Request represents a notification about work the scanner has started
type Request struct {
	Type      RequestType
	Interface string
	Segment   network.Segment
	// Address set for ProbeRequest
	Address string
	// Total candidate count, set for SegmentRequest
	Total int
}
