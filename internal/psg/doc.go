// Copyright (c) The cs244b-project37m Authors. All rights reserved.
// Licensed under the MIT License.

// Package psg runs independent tasks concurrently while keeping the
// aggregation of their results on a single goroutine. A [Job] tracks the tasks
// launched with [Scatter] into its [Pool] instances, and gather functions
// handed to Scatter run on whichever goroutine calls [Job.GatherOne] or
// [Job.GatherAll] (or Scatter itself when a pool is full), so they may touch
// the caller's local state without locking.
//
// Pools bound the number of tasks that may run at the same time. When a pool
// is full, Scatter gathers completed results until a slot frees up, which
// throttles the scattering loop to the pace of the pool.
package psg
