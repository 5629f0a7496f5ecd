// Copyright (c) The cs244b-project37m Authors. All rights reserved.
// Licensed under the MIT License.

package stmsim

import (
	"math"

	"github.com/jeffhu1/cs244b-project37m/graph"
	"go.uber.org/zap"
)

// DefaultRollbackPenalty is how long a slot is held after a failed
// speculative execution.
const DefaultRollbackPenalty = 0.50

// Simulator runs simulations over a single dependency graph. A Simulator holds
// no per-run state, so concurrent runs on the same Simulator are safe as long
// as each uses its own policy values.
type Simulator struct {
	graph           *graph.Graph
	rollbackPenalty float64
	logger          *zap.Logger
}

type Option func(*Simulator)

// WithRollbackPenalty sets how long a failed speculative execution holds its
// slot. The penalty must be finite and not negative.
func WithRollbackPenalty(penalty float64) Option {
	return func(s *Simulator) {
		s.rollbackPenalty = penalty
	}
}

// WithLogger routes the per-step trace to logger at debug level.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Simulator) {
		s.logger = logger
	}
}

func NewSimulator(g *graph.Graph, opts ...Option) *Simulator {
	if g == nil {
		panic("graph must be non-nil")
	}
	s := &Simulator{
		graph:           g,
		rollbackPenalty: DefaultRollbackPenalty,
		logger:          zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rollbackPenalty < 0 || math.IsNaN(s.rollbackPenalty) || math.IsInf(s.rollbackPenalty, 0) {
		panic("rollback penalty must be finite and not negative")
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

// Graph returns the graph being simulated.
func (s *Simulator) Graph() *graph.Graph {
	return s.graph
}

// RollbackPenalty returns the configured rollback penalty.
func (s *Simulator) RollbackPenalty() float64 {
	return s.rollbackPenalty
}

// Simulate runs the whole graph to completion with the given number of slots
// and returns the simulated completion time. An empty graph completes at zero.
func (s *Simulator) Simulate(parallelism int, sel NodeSelectionPolicy, tp ExecutionTimePolicy) (float64, error) {
	run, err := s.Start(parallelism, sel, tp)
	if err != nil {
		return 0, err
	}
	return run.Finish()
}

// Start prepares a run that can be advanced one event at a time with
// [Run.Step].
func (s *Simulator) Start(parallelism int, sel NodeSelectionPolicy, tp ExecutionTimePolicy) (*Run, error) {
	if parallelism <= 0 {
		return nil, &ParallelismError{Parallelism: parallelism}
	}
	if sel == nil {
		panic("node selection policy must be non-nil")
	}
	if tp == nil {
		panic("execution time policy must be non-nil")
	}
	r := &Run{
		sim:       s,
		view:      s.graph.NewView(),
		selection: sel,
		timing:    tp,
		slots:     make([]*workSlot, parallelism),
		excluded:  make(NodeSet),
		invalid:   make(NodeSet),
		logger: s.logger.With(
			zap.Int("parallelism", parallelism),
			zap.Stringer("selection", sel.Kind()),
			zap.Stringer("timing", tp.Kind()),
		),
	}
	for i := range r.slots {
		r.slots[i] = &workSlot{Slot: Slot{Index: i}}
	}
	return r, nil
}
