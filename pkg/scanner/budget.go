// SPDX-License-Identifier: GPL-3.0-or-later

package scanner

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// budget bounds the number of outstanding probes for one campaign
type budget struct {
	sem *semaphore.Weighted
}

func newBudget(limit int64) *budget {
	return &budget{sem: semaphore.NewWeighted(max(1, limit))}
}

// acquire blocks until a token is free. Returns false without taking a
// token if ctx is cancelled first.
func (b *budget) acquire(ctx context.Context) bool {
	if ctx.Err() != nil {
		return false
	}

	return b.sem.Acquire(ctx, 1) == nil
}

func (b *budget) release() {
	b.sem.Release(1)
}
