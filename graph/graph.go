// Copyright (c) The cs244b-project37m Authors. All rights reserved.
// Licensed under the MIT License.

package graph

import (
	"slices"
)

// NodeID identifies a task. Identifiers are ordered byte-wise, so zero-padded
// numeric identifiers sort numerically.
type NodeID string

// Graph is a directed dependency graph. An edge u→v means u must complete
// before v may start. Parallel edges are collapsed; self-loops are kept and
// make their node permanently unready.
//
// A Graph must not be modified once views have been created from it. Reads
// are safe for concurrent use.
type Graph struct {
	order    []NodeID
	vertices map[NodeID]*vertex
	edges    int
}

type vertex struct {
	succ []NodeID
	pred []NodeID
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		vertices: make(map[NodeID]*vertex),
	}
}

// AddNode adds id to the graph if it is not already present.
func (g *Graph) AddNode(id NodeID) {
	g.vertex(id)
}

// AddEdge adds the dependency from→to, adding either endpoint if needed.
// Adding an edge that already exists is a no-op.
func (g *Graph) AddEdge(from, to NodeID) {
	src := g.vertex(from)
	dst := g.vertex(to)
	var added bool
	src.succ, added = insertSorted(src.succ, to)
	if !added {
		return
	}
	dst.pred, _ = insertSorted(dst.pred, from)
	g.edges++
}

func (g *Graph) vertex(id NodeID) *vertex {
	if v, ok := g.vertices[id]; ok {
		return v
	}
	v := &vertex{}
	g.vertices[id] = v
	g.order, _ = insertSorted(g.order, id)
	return v
}

// Appends are the common case when identifiers arrive in ascending order.
func insertSorted(ids []NodeID, id NodeID) ([]NodeID, bool) {
	i, found := slices.BinarySearch(ids, id)
	if found {
		return ids, false
	}
	return slices.Insert(ids, i, id), true
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.order)
}

// EdgeCount returns the number of distinct edges.
func (g *Graph) EdgeCount() int {
	return g.edges
}

// Has reports whether id is a node of the graph.
func (g *Graph) Has(id NodeID) bool {
	_, ok := g.vertices[id]
	return ok
}

// HasEdge reports whether the edge from→to exists.
func (g *Graph) HasEdge(from, to NodeID) bool {
	v, ok := g.vertices[from]
	if !ok {
		return false
	}
	_, found := slices.BinarySearch(v.succ, to)
	return found
}

// Nodes returns all node identifiers in ascending order. The caller must not
// modify the returned slice.
func (g *Graph) Nodes() []NodeID {
	return g.order
}

// Successors returns the direct dependents of id in ascending order. The
// caller must not modify the returned slice.
func (g *Graph) Successors(id NodeID) []NodeID {
	if v, ok := g.vertices[id]; ok {
		return v.succ
	}
	return nil
}

// Predecessors returns the direct dependencies of id in ascending order. The
// caller must not modify the returned slice.
func (g *Graph) Predecessors(id NodeID) []NodeID {
	if v, ok := g.vertices[id]; ok {
		return v.pred
	}
	return nil
}

// NewView returns a view containing every node of the graph.
func (g *Graph) NewView() *View {
	v := &View{
		graph:    g,
		live:     make(map[NodeID]struct{}, len(g.order)),
		inDegree: make(map[NodeID]int, len(g.order)),
		edges:    g.edges,
	}
	for _, id := range g.order {
		v.live[id] = struct{}{}
		v.inDegree[id] = len(g.vertices[id].pred)
	}
	return v
}
