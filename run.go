// Copyright (c) The cs244b-project37m Authors. All rights reserved.
// Licensed under the MIT License.

package stmsim

import (
	"fmt"
	"math"

	"github.com/addrummond/heap"
	"github.com/jeffhu1/cs244b-project37m/graph"
	"go.uber.org/zap"
)

// Stats counts what happened during a run.
type Stats struct {
	Steps       int
	Completions int
	Rollbacks   int
	// Largest number of simultaneously busy slots.
	MaxBusy int
}

// Run is a single simulation in progress. It is not safe for concurrent use.
type Run struct {
	sim       *Simulator
	view      *graph.View
	selection NodeSelectionPolicy
	timing    ExecutionTimePolicy
	slots     []*workSlot
	busy      heap.Heap[slotEvent, heap.Min]
	busyCount int
	// Nodes held by a busy slot plus the invalid nodes; the two never overlap.
	excluded NodeSet
	invalid  NodeSet
	timestep float64
	done     bool
	err      error
	stats    Stats
	logger   *zap.Logger
}

// Step processes the events at the current timestep and advances the clock
// to the next one. Completed slots are freed first, then every free slot is
// offered a node in slot order. Step reports true once every node has
// completed; after that, and after an error, it has no further effect.
func (r *Run) Step() (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	if r.done {
		return true, nil
	}
	r.stats.Steps++
	freed := r.complete()
	dispatched, err := r.dispatch()
	if err != nil {
		return false, r.fail(err)
	}
	r.stats.MaxBusy = max(r.stats.MaxBusy, r.busyCount)
	r.trace()

	next, ok := heap.Peek(&r.busy)
	if !ok {
		if r.view.Len() > 0 {
			return false, r.fail(r.stall("every slot is idle"))
		}
		r.done = true
		return true, nil
	}
	if freed == 0 && dispatched == 0 && next.At <= r.timestep {
		return false, r.fail(r.stall("step neither freed nor filled a slot"))
	}
	r.timestep = next.At
	return false, nil
}

// Finish steps the run to completion and returns the simulated completion
// time.
func (r *Run) Finish() (float64, error) {
	for {
		done, err := r.Step()
		if err != nil {
			return r.timestep, err
		}
		if done {
			return r.timestep, nil
		}
	}
}

func (r *Run) complete() int {
	freed := 0
	completed := false
	for {
		event, ok := heap.Peek(&r.busy)
		if !ok || event.At > r.timestep {
			break
		}
		_, _ = heap.PopOrderable(&r.busy)
		r.busyCount--
		s := event.Slot
		if !s.Rollback {
			r.view.Remove(s.Node)
			r.excluded.Delete(s.Node)
			r.stats.Completions++
			completed = true
		}
		s.release()
		freed++
	}
	// A completion may have made any invalid node ready.
	if completed {
		for id := range r.invalid {
			r.excluded.Delete(id)
		}
		clear(r.invalid)
	}
	return freed
}

// A policy that has no candidate is not asked again until the next event,
// since neither the view nor the exclusions change in between.
func (r *Run) dispatch() (int, error) {
	dispatched := 0
	for _, s := range r.slots {
		if s.Busy {
			continue
		}
		node, ok := r.selection.Select(r.view, r.excluded)
		if !ok {
			break
		}
		if r.excluded.Has(node) || !r.view.Has(node) {
			return dispatched, r.stall(fmt.Sprintf("%v selected unavailable node %q", r.selection.Kind(), node))
		}
		if r.view.InDegree(node) == 0 {
			d := r.timing.Duration(node)
			if !(d > 0) || math.IsInf(d, 1) {
				return dispatched, &DurationError{Node: node, Duration: d}
			}
			s.occupy(node, r.timestep+d)
		} else {
			s.rollback(r.timestep + r.sim.rollbackPenalty)
			r.invalid.Add(node)
			r.stats.Rollbacks++
			r.logger.Debug("speculative execution failed",
				zap.String("node", string(node)),
				zap.Int("slot", s.Index),
				zap.Float64("timestep", r.timestep),
			)
		}
		r.excluded.Add(node)
		heap.PushOrderable(&r.busy, slotEvent{At: s.CompletesAt, Slot: s})
		r.busyCount++
		dispatched++
	}
	return dispatched, nil
}

func (r *Run) trace() {
	if ce := r.logger.Check(zap.DebugLevel, "step"); ce != nil {
		ce.Write(
			zap.Float64("timestep", r.timestep),
			zap.Int("nodes_left", r.view.Len()),
			zap.Int("edges_left", r.view.EdgeCount()),
			zap.Int("busy_slots", r.busyCount),
			zap.Int("invalid", len(r.invalid)),
		)
	}
}

func (r *Run) stall(reason string) error {
	return &StallError{
		Timestep:  r.timestep,
		Remaining: r.view.Len(),
		Reason:    reason,
	}
}

func (r *Run) fail(err error) error {
	r.err = err
	r.logger.Warn("simulation stopped",
		zap.Float64("timestep", r.timestep),
		zap.Int("nodes_left", r.view.Len()),
		zap.Error(err),
	)
	return err
}

// Timestep returns the current simulated time.
func (r *Run) Timestep() float64 {
	return r.timestep
}

// Done reports whether every node has completed.
func (r *Run) Done() bool {
	return r.done
}

// Remaining returns the number of nodes that have not completed.
func (r *Run) Remaining() int {
	return r.view.Len()
}

// Slots returns a snapshot of every slot in index order.
func (r *Run) Slots() []Slot {
	out := make([]Slot, len(r.slots))
	for i, s := range r.slots {
		out[i] = s.Slot
	}
	return out
}

// InvalidNodes returns, in ascending order, the nodes that failed speculative
// execution since the last completion.
func (r *Run) InvalidNodes() []graph.NodeID {
	return r.invalid.Sorted()
}

func (r *Run) Stats() Stats {
	return r.stats
}
