// SPDX-License-Identifier: GPL-3.0-or-later

package scanner

import (
	"io"
	"iter"
	"sync"
)

// Stream is a pull based sequence of outcomes for a single scan. A Stream
// has exactly one consumer and must be closed, either explicitly or by
// ranging over All, so background work is released.
type Stream[H, M any] struct {
	newCampaign func() *campaign[H, M]
	campaign    *campaign[H, M]
	finished    chan struct{}
	exhausted   bool
	closed      bool
	mux         sync.Mutex
}

func newStream[H, M any](newCampaign func() *campaign[H, M]) *Stream[H, M] {
	return &Stream[H, M]{
		newCampaign: newCampaign,
		finished:    make(chan struct{}),
	}
}

// Next blocks until the next outcome is available. Returns io.EOF when the
// scan ends normally or the scan context is cancelled; cancellation
// unblocks Next without waiting for in-flight probes, use Close to wait
// for them. A fatal scan error is returned once, after every probe has
// returned, after which Next returns io.EOF.
func (s *Stream[H, M]) Next() (Outcome[H, M], error) {
	var zero Outcome[H, M]

	c := s.start()

	if c == nil || s.isExhausted() {
		return zero, io.EOF
	}

	o, ok, err := c.results.read(c.abandoned)

	if ok {
		return o, nil
	}

	s.mux.Lock()
	defer s.mux.Unlock()

	if s.exhausted || err == nil {
		s.exhausted = true
		return zero, io.EOF
	}

	s.exhausted = true

	return zero, err
}

func (s *Stream[H, M]) isExhausted() bool {
	s.mux.Lock()
	defer s.mux.Unlock()

	return s.exhausted
}

// Close cancels the scan and waits for all background work to stop. Safe
// to call multiple times and before Next was ever called.
func (s *Stream[H, M]) Close() error {
	s.mux.Lock()

	if s.closed {
		s.mux.Unlock()
		<-s.finished
		return nil
	}

	s.closed = true
	c := s.campaign
	s.mux.Unlock()

	if c == nil {
		close(s.finished)
		return nil
	}

	c.cancel()
	<-c.results.done
	close(s.finished)

	return nil
}

// All returns an iterator over the remaining outcomes. The stream is
// closed when the loop exits, including on break. A fatal error is
// yielded once as the final element.
func (s *Stream[H, M]) All() iter.Seq2[Outcome[H, M], error] {
	return func(yield func(Outcome[H, M], error) bool) {
		defer s.Close()

		for {
			o, err := s.Next()

			if err == io.EOF {
				return
			}

			if !yield(o, err) || err != nil {
				return
			}
		}
	}
}

// start lazily launches the campaign on first use. Returns nil if the
// stream was closed before it started.
func (s *Stream[H, M]) start() *campaign[H, M] {
	s.mux.Lock()
	defer s.mux.Unlock()

	if s.campaign != nil {
		return s.campaign
	}

	if s.closed {
		return nil
	}

	s.campaign = s.newCampaign()

	go s.campaign.run()

	return s.campaign
}
