// Copyright (c) The cs244b-project37m Authors. All rights reserved.
// Licensed under the MIT License.

// Package sweep runs a grid of simulations over one dependency graph: every
// combination of execution-time policy, node selection policy, parallelism
// and trial. Runs execute concurrently while their results are collected on
// the calling goroutine, and the collected results are written as one CSV file
// per policy combination.
//
// Sweeps are traced and metered through the global OpenTelemetry providers
// under the instrumentation name "stmsim/sweep". Both are no-ops unless the
// program installs providers.
package sweep
