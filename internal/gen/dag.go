// Copyright (c) The cs244b-project37m Authors. All rights reserved.
// Licensed under the MIT License.

package gen

import (
	"fmt"

	"github.com/jeffhu1/cs244b-project37m/graph"
	"pgregory.net/rapid"
)

// ID returns the identifier of the i-th generated node.
func ID(i int) graph.NodeID {
	return graph.NodeID(fmt.Sprintf("%04d", i))
}

// Chain returns the graph 0000→0001→…→n-1.
func Chain(n int) *graph.Graph {
	g := graph.New()
	for i := range n {
		g.AddNode(ID(i))
		if i > 0 {
			g.AddEdge(ID(i-1), ID(i))
		}
	}
	return g
}

// Singletons returns n nodes with no edges.
func Singletons(n int) *graph.Graph {
	g := graph.New()
	for i := range n {
		g.AddNode(ID(i))
	}
	return g
}

// Cycle returns a directed ring of n nodes. A ring of one node is a
// self-loop.
func Cycle(n int) *graph.Graph {
	g := Chain(n)
	if n > 0 {
		g.AddEdge(ID(n-1), ID(0))
	}
	return g
}

// DAG draws an acyclic graph. Edges point from smaller to larger identifiers
// unless config.Shuffle is set, in which case identifiers are assigned to the
// topological order at random.
func DAG(t *rapid.T, config *DAGConfig) *graph.Graph {
	n := config.Nodes.Draw(t, "nodes")
	labels := make([]graph.NodeID, n)
	for i := range labels {
		labels[i] = ID(i)
	}
	if config.Shuffle && n > 1 {
		labels = rapid.Permutation(labels).Draw(t, "labels")
	}
	g := graph.New()
	for _, id := range labels {
		g.AddNode(id)
	}
	for i := range n {
		later := n - i - 1
		if later == 0 || !BiasedBool(config.EdgeDensity).Draw(t, "hasSuccessors") {
			continue
		}
		fanout := rapid.IntRange(1, min(config.MaxFanout, later)).Draw(t, "fanout")
		succs := rapid.SliceOfNDistinct(rapid.IntRange(i+1, n-1), fanout, fanout, rapid.ID[int]).
			Draw(t, "successors")
		for _, j := range succs {
			g.AddEdge(labels[i], labels[j])
		}
	}
	return g
}

// Layered draws a graph of consecutive levels with every node of one level
// depending on every node of the previous level. It also returns the width of
// each level.
func Layered(t *rapid.T, config *LayeredConfig) (*graph.Graph, []int) {
	levels := config.Levels.Draw(t, "levels")
	widths := make([]int, levels)
	g := graph.New()
	next := 0
	var previous []graph.NodeID
	for l := range levels {
		widths[l] = config.Width.Draw(t, "width")
		current := make([]graph.NodeID, widths[l])
		for i := range current {
			current[i] = ID(next)
			next++
			g.AddNode(current[i])
			for _, pred := range previous {
				g.AddEdge(pred, current[i])
			}
		}
		previous = current
	}
	return g, widths
}
