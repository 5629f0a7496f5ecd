// Copyright (c) The cs244b-project37m Authors. All rights reserved.
// Licensed under the MIT License.

package psg

import (
	"context"
)

// A TaskFunc is executed in its own goroutine and must therefore be
// thread-safe, including its access to captured variables. The context is
// canceled when the owning job is canceled.
//
// A TaskFunc must not call [Scatter] on its own job, since it would deadlock
// once the pool limit is reached. Scatter from the associated [GatherFunc]
// instead.
type TaskFunc[T any] = func(context.Context) (T, error)

// A GatherFunc receives the result of a [TaskFunc]. Gather functions for a
// job are called one at a time on the gathering goroutine. A non-nil return
// stops the gathering call that invoked it and is passed through to its
// caller.
type GatherFunc[T any] = func(context.Context, T, error) error

type boundGatherFunc = func(ctx context.Context) error
