// Copyright (c) The cs244b-project37m Authors. All rights reserved.
// Licensed under the MIT License.

package stmsim

import (
	"fmt"

	"github.com/jeffhu1/cs244b-project37m/graph"
)

type constError string

func (e constError) Error() string {
	return string(e)
}

const ErrInvalidParallelism = constError("parallelism must be positive")
const ErrNoProgress = constError("simulation made no progress")
const ErrInvalidDuration = constError("execution time policy returned an invalid duration")

// ParallelismError reports a non-positive slot count.
type ParallelismError struct {
	Parallelism int
}

func (e *ParallelismError) Error() string {
	return fmt.Sprintf("%v: got %d", ErrInvalidParallelism, e.Parallelism)
}

func (e *ParallelismError) Unwrap() error {
	return ErrInvalidParallelism
}

// StallError reports a run that could not continue even though nodes remain,
// which happens when the graph has a cycle or a selection policy breaks its
// contract.
type StallError struct {
	Timestep  float64
	Remaining int
	Reason    string
}

func (e *StallError) Error() string {
	return fmt.Sprintf("%v at t=%g with %d nodes remaining: %s", ErrNoProgress, e.Timestep, e.Remaining, e.Reason)
}

func (e *StallError) Unwrap() error {
	return ErrNoProgress
}

// DurationError reports the offending duration and node.
type DurationError struct {
	Node     graph.NodeID
	Duration float64
}

func (e *DurationError) Error() string {
	return fmt.Sprintf("%v: %g for node %s", ErrInvalidDuration, e.Duration, e.Node)
}

func (e *DurationError) Unwrap() error {
	return ErrInvalidDuration
}
