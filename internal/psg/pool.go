// Copyright (c) The cs244b-project37m Authors. All rights reserved.
// Licensed under the MIT License.

package psg

import (
	"sync/atomic"
)

// A Pool limits how many of a job's tasks may run at once. A Pool must be
// bound to a [Job] by [NewJob] before tasks can be scattered into it.
type Pool struct {
	limit       int
	job         *Job
	inFlight    atomic.Int64
	maxInFlight atomic.Int64
}

// NewPool creates a pool that runs at most limit tasks at a time. A negative
// limit means no limit. A zero limit panics, since no task could ever run.
func NewPool(limit int) *Pool {
	if limit == 0 {
		panic("pool limit must be non-zero")
	}
	return &Pool{limit: limit}
}

// Limit returns the pool's concurrency limit.
func (p *Pool) Limit() int {
	return p.limit
}

// MaxInFlight returns the highest number of tasks observed running at once.
func (p *Pool) MaxInFlight() int {
	return int(p.maxInFlight.Load())
}

func (p *Pool) tryAcquire() bool {
	for {
		n := p.inFlight.Load()
		if p.limit > 0 && n >= int64(p.limit) {
			return false
		}
		if p.inFlight.CompareAndSwap(n, n+1) {
			for {
				peak := p.maxInFlight.Load()
				if n+1 <= peak || p.maxInFlight.CompareAndSwap(peak, n+1) {
					return true
				}
			}
		}
	}
}

func (p *Pool) release() {
	p.inFlight.Add(-1)
}
