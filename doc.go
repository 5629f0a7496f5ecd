// Copyright (c) The cs244b-project37m Authors. All rights reserved.
// Licensed under the MIT License.

// Package stmsim estimates how the wall-clock time of a block of dependent
// transactions scales with the number of execution slots available to an
// optimistic, Block-STM style executor.
//
// A [Simulator] replays a dependency graph in simulated time. Whenever a slot
// is free it asks a [NodeSelectionPolicy] for a node to run. If the chosen node
// still has unfinished dependencies the slot speculates anyway, fails, and is
// held for a fixed rollback penalty before it can be reused; otherwise the slot
// is held for the duration reported by an [ExecutionTimePolicy]. The run ends
// when every node has completed, and the simulated completion time is the
// result.
//
// Runs are single-threaded and synchronous. Sweeps over many policy and
// parallelism combinations are driven by the sweep package, which runs
// independent simulations concurrently.
package stmsim

//go:generate go run -C internal/cmd/chartgen . -out ../../../charts ../../../simulations
