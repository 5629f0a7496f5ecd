// Copyright (c) The cs244b-project37m Authors. All rights reserved.
// Licensed under the MIT License.

package psg

import (
	"context"
	"slices"
	"sync"
)

// Job is a single-threaded scatter-gather environment. Scatter, GatherOne and
// GatherAll must all be called from the same goroutine.
type Job struct {
	ctx           context.Context
	cancelFunc    context.CancelFunc
	pools         []*Pool
	inFlight      int
	gatherChannel chan boundGatherFunc
	wg            sync.WaitGroup
}

// NewJob binds the given pools to a new job. The context is the parent of the
// context passed to every task function. Each NewJob should be followed by a
// deferred call to [Job.CancelAndWait].
func NewJob(ctx context.Context, pools ...*Pool) *Job {
	ctx, cancelFunc := context.WithCancel(ctx)
	j := &Job{
		cancelFunc:    cancelFunc,
		pools:         slices.Clone(pools),
		gatherChannel: make(chan boundGatherFunc),
	}
	j.ctx = context.WithValue(ctx, taskContextKey{}, j)
	for _, p := range j.pools {
		if p.job != nil {
			panic("pool was already registered")
		}
		p.job = j
	}
	return j
}

type taskContextKey struct{}

func (j *Job) isTaskContext(ctx context.Context) bool {
	return ctx.Value(taskContextKey{}) == j
}

// Cancel cancels the context of every running task and forfeits ungathered
// results. It is thread-safe and idempotent.
func (j *Job) Cancel() {
	j.cancelFunc()
}

// CancelAndWait cancels the job and waits for every task goroutine to exit.
func (j *Job) CancelAndWait() {
	j.cancelFunc()
	j.wg.Wait()
}

// InFlight returns the number of scattered tasks that have not yet been
// gathered.
func (j *Job) InFlight() int {
	return j.inFlight
}

// GatherOne waits for one task to complete and calls its gather function. It
// returns false, nil if no tasks are in flight, and false with the context's
// error if either ctx or the job is canceled first.
func (j *Job) GatherOne(ctx context.Context) (bool, error) {
	if j.inFlight == 0 {
		return false, nil
	}
	select {
	case gather := <-j.gatherChannel:
		// Decrement only after the gather so that a gather function that
		// scatters never observes an empty job.
		defer func() { j.inFlight-- }()
		return true, gather(ctx)
	case <-ctx.Done():
		return false, ctx.Err()
	case <-j.ctx.Done():
		return false, j.ctx.Err()
	}
}

// GatherAll gathers until no tasks remain in flight or an error occurs.
func (j *Job) GatherAll(ctx context.Context) error {
	for {
		ok, err := j.GatherOne(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}
}
