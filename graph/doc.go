// Copyright (c) The cs244b-project37m Authors. All rights reserved.
// Licensed under the MIT License.

// Package graph models the dependency graph consumed by the simulator. A
// [Graph] is a directed graph of task identifiers whose edges mean "source must
// complete before destination may start". It is built once, typically from an
// adjacency list (see [ReadAdjList]), and is safe for concurrent reads once
// built.
//
// Simulation runs operate on a [View], a live subset of a graph's nodes that
// only ever shrinks. Views maintain in-degrees incrementally so that readiness
// checks stay cheap as nodes complete, and they provide the structural queries
// the selection policies need: weakly-connected components, induced
// subgraphs, depth-first spanning trees and topological generations.
package graph
