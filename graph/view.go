// Copyright (c) The cs244b-project37m Authors. All rights reserved.
// Licensed under the MIT License.

package graph

import (
	"maps"
	"slices"

	"github.com/gammazero/deque"
)

// View is a live subset of a graph's nodes together with the edges between
// them. Removing a node from a view never affects the underlying graph or
// other views. In-degrees are maintained incrementally and count only edges
// whose source is still live.
//
// A View is not safe for concurrent use.
type View struct {
	graph    *Graph
	live     map[NodeID]struct{}
	inDegree map[NodeID]int
	edges    int
}

// Graph returns the graph the view was derived from.
func (v *View) Graph() *Graph {
	return v.graph
}

// Len returns the number of live nodes.
func (v *View) Len() int {
	return len(v.live)
}

// EdgeCount returns the number of edges between live nodes.
func (v *View) EdgeCount() int {
	return v.edges
}

// Has reports whether id is live in the view.
func (v *View) Has(id NodeID) bool {
	_, ok := v.live[id]
	return ok
}

// Nodes returns the live nodes in ascending order.
func (v *View) Nodes() []NodeID {
	return slices.Sorted(maps.Keys(v.live))
}

// InDegree returns the number of live predecessors of id, or zero if id is
// not live.
func (v *View) InDegree(id NodeID) int {
	return v.inDegree[id]
}

// Successors returns the live successors of id in ascending order.
func (v *View) Successors(id NodeID) []NodeID {
	if !v.Has(id) {
		return nil
	}
	return v.filter(v.graph.Successors(id))
}

// Predecessors returns the live predecessors of id in ascending order.
func (v *View) Predecessors(id NodeID) []NodeID {
	if !v.Has(id) {
		return nil
	}
	return v.filter(v.graph.Predecessors(id))
}

func (v *View) filter(ids []NodeID) []NodeID {
	var out []NodeID
	for _, id := range ids {
		if v.Has(id) {
			out = append(out, id)
		}
	}
	return out
}

// Remove deletes id from the view and decrements the in-degree of its live
// successors. It reports whether id was live.
func (v *View) Remove(id NodeID) bool {
	if !v.Has(id) {
		return false
	}
	v.edges -= v.inDegree[id]
	delete(v.live, id)
	delete(v.inDegree, id)
	for _, succ := range v.graph.Successors(id) {
		if v.Has(succ) {
			v.inDegree[succ]--
			v.edges--
		}
	}
	return true
}

// Clone returns an independent copy of the view.
func (v *View) Clone() *View {
	return &View{
		graph:    v.graph,
		live:     maps.Clone(v.live),
		inDegree: maps.Clone(v.inDegree),
		edges:    v.edges,
	}
}

// Subgraph returns the view induced by the given nodes. Nodes that are not
// live in v are ignored.
func (v *View) Subgraph(nodes []NodeID) *View {
	sub := &View{
		graph:    v.graph,
		live:     make(map[NodeID]struct{}, len(nodes)),
		inDegree: make(map[NodeID]int, len(nodes)),
	}
	for _, id := range nodes {
		if v.Has(id) {
			sub.live[id] = struct{}{}
			sub.inDegree[id] = 0
		}
	}
	for id := range sub.live {
		for _, pred := range v.graph.Predecessors(id) {
			if sub.Has(pred) {
				sub.inDegree[id]++
				sub.edges++
			}
		}
	}
	return sub
}

// Sources returns the live nodes with no live predecessors, in ascending
// order.
func (v *View) Sources() []NodeID {
	var out []NodeID
	for _, id := range v.Nodes() {
		if v.inDegree[id] == 0 {
			out = append(out, id)
		}
	}
	return out
}

// Components returns the weakly-connected components of the view. Each
// component lists its nodes in ascending order, and components are ordered by
// their smallest node.
func (v *View) Components() [][]NodeID {
	seen := make(map[NodeID]struct{}, len(v.live))
	var components [][]NodeID
	var queue deque.Deque[NodeID]
	for _, start := range v.Nodes() {
		if _, ok := seen[start]; ok {
			continue
		}
		seen[start] = struct{}{}
		queue.PushBack(start)
		var component []NodeID
		for queue.Len() > 0 {
			id := queue.PopFront()
			component = append(component, id)
			visit := func(neighbor NodeID) {
				if !v.Has(neighbor) {
					return
				}
				if _, ok := seen[neighbor]; ok {
					return
				}
				seen[neighbor] = struct{}{}
				queue.PushBack(neighbor)
			}
			for _, succ := range v.graph.Successors(id) {
				visit(succ)
			}
			for _, pred := range v.graph.Predecessors(id) {
				visit(pred)
			}
		}
		slices.Sort(component)
		components = append(components, component)
	}
	return components
}

// Generations groups the live nodes into topological generations: the first
// holds the sources, and each following generation holds the nodes whose
// predecessors all appear in earlier generations. Each generation is in
// ascending order. ErrCycle is returned if the view is not acyclic.
func (v *View) Generations() ([][]NodeID, error) {
	remaining := maps.Clone(v.inDegree)
	current := v.Sources()
	var generations [][]NodeID
	visited := 0
	for len(current) > 0 {
		generations = append(generations, current)
		visited += len(current)
		var next []NodeID
		for _, id := range current {
			for _, succ := range v.graph.Successors(id) {
				if !v.Has(succ) {
					continue
				}
				remaining[succ]--
				if remaining[succ] == 0 {
					next = append(next, succ)
				}
			}
		}
		slices.Sort(next)
		current = next
	}
	if visited != len(v.live) {
		return nil, ErrCycle
	}
	return generations, nil
}

// LongestChain returns the number of nodes on a longest directed path through
// the view, which is also the number of topological generations.
func (v *View) LongestChain() (int, error) {
	generations, err := v.Generations()
	if err != nil {
		return 0, err
	}
	return len(generations), nil
}
