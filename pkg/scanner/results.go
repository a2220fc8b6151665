// SPDX-License-Identifier: GPL-3.0-or-later

package scanner

import (
	"context"
	"sync"
)

// resultChannel carries outcomes from many concurrent writers to a single
// reader, followed by one terminal signal: finished (nil error) or failed
type resultChannel[H, M any] struct {
	values chan Outcome[H, M]
	done   chan struct{}
	err    error
	once   sync.Once
}

func newResultChannel[H, M any]() *resultChannel[H, M] {
	return &resultChannel[H, M]{
		values: make(chan Outcome[H, M]),
		done:   make(chan struct{}),
	}
}

// write blocks until the reader takes the outcome. Returns false if ctx is
// cancelled first, in which case the outcome is dropped.
func (r *resultChannel[H, M]) write(ctx context.Context, o Outcome[H, M]) bool {
	if ctx.Err() != nil {
		return false
	}

	select {
	case <-ctx.Done():
		return false
	case r.values <- o:
		return true
	}
}

// close signals that no more values will arrive. Must only be called once
// every writer has returned. Subsequent calls are no-ops.
func (r *resultChannel[H, M]) close(err error) {
	r.once.Do(func() {
		r.err = err
		close(r.done)
	})
}

// read blocks until a value, the terminal signal or abandoned is
// available. ok is false once the channel is closed or abandoned, in which
// case err holds the failure, if any. Abandoning never reports a failure.
func (r *resultChannel[H, M]) read(abandoned <-chan struct{}) (o Outcome[H, M], ok bool, err error) {
	select {
	case o = <-r.values:
		return o, true, nil
	case <-r.done:
		return o, false, r.err
	case <-abandoned:
		return o, false, nil
	}
}
