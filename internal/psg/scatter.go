// Copyright (c) The cs244b-project37m Authors. All rights reserved.
// Licensed under the MIT License.

package psg

import (
	"context"
)

// Scatter launches taskFunc in a new goroutine within pool and arranges for
// gatherFunc to receive its result. If the pool is full, Scatter gathers
// completed tasks of the same job until a slot is free; the first gather error
// is returned without launching. Scatter also fails without launching if ctx
// or the job has been canceled.
func Scatter[T any](
	ctx context.Context,
	pool *Pool,
	taskFunc TaskFunc[T],
	gatherFunc GatherFunc[T],
) error {
	if taskFunc == nil {
		panic("task function must be non-nil")
	}
	if gatherFunc == nil {
		panic("gather function must be non-nil")
	}
	j := pool.job
	if j == nil {
		panic("pool not bound to a job")
	}
	if j.isTaskContext(ctx) {
		panic("Scatter called from within TaskFunc; move call to GatherFunc instead")
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := j.ctx.Err(); err != nil {
			return err
		}
		if pool.tryAcquire() {
			break
		}
		// The pool's own tasks are in flight, so this cannot report an empty
		// job.
		if _, err := j.GatherOne(ctx); err != nil {
			return err
		}
	}

	j.inFlight++
	j.wg.Add(1)
	go func() {
		defer j.wg.Done()
		var value T
		var err error
		if err = j.ctx.Err(); err == nil {
			value, err = taskFunc(j.ctx)
		}
		// Release before posting so that the gather function can scatter
		// into the same pool.
		pool.release()
		gather := func(ctx context.Context) error {
			return gatherFunc(ctx, value, err)
		}
		select {
		case j.gatherChannel <- gather:
		case <-j.ctx.Done():
		}
	}()
	return nil
}
