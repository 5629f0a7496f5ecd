// Copyright (c) The cs244b-project37m Authors. All rights reserved.
// Licensed under the MIT License.

// Package gen builds dependency graphs for tests: fixed shapes such as chains
// and cycles, and rapid generators for arbitrary acyclic and layered graphs.
//
// Generated node identifiers are zero-padded decimals, so identifier order
// matches creation order. Every edge produced by [DAG] and [Layered] points
// from a smaller identifier to a larger one.
package gen
