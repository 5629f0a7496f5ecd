// Copyright (c) The cs244b-project37m Authors. All rights reserved.
// Licensed under the MIT License.

package graph_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/jeffhu1/cs244b-project37m/graph"
	"github.com/jeffhu1/cs244b-project37m/internal/gen"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestViewRemove(t *testing.T) {
	chk := require.New(t)
	g := diamond()
	v := g.NewView()
	chk.Equal(4, v.Len())
	chk.Equal(4, v.EdgeCount())
	chk.Equal(2, v.InDegree("D"))
	chk.Equal(ids("A"), v.Sources())

	chk.True(v.Remove("A"))
	chk.False(v.Remove("A"))
	chk.False(v.Has("A"))
	chk.Equal(2, v.EdgeCount())
	chk.Equal(ids("B", "C"), v.Sources())
	chk.Empty(v.Predecessors("B"))

	chk.True(v.Remove("C"))
	chk.Equal(1, v.InDegree("D"))
	chk.Equal(ids("B"), v.Predecessors("D"))
	chk.Equal(ids("D"), v.Successors("B"))
	chk.Equal(ids("B", "D"), v.Nodes())

	// The graph itself is untouched.
	chk.Equal(4, g.Len())
	chk.Equal(ids("B", "C"), g.Predecessors("D"))
	chk.Equal(2, g.NewView().InDegree("D"))
}

func TestViewClone(t *testing.T) {
	chk := require.New(t)
	v := diamond().NewView()
	c := v.Clone()
	c.Remove("A")
	chk.True(v.Has("A"))
	chk.Equal(1, v.InDegree("B"))
	chk.Equal(0, c.InDegree("B"))
	chk.Equal(4, v.EdgeCount())
	chk.Equal(2, c.EdgeCount())
}

func TestViewComponents(t *testing.T) {
	g := build(
		[2]string{"E", "F"},
		[2]string{"A", "B"},
		[2]string{"C", "B"},
		[2]string{"D", ""},
	)
	v := g.NewView()
	want := [][]graph.NodeID{ids("A", "B", "C"), ids("D"), ids("E", "F")}
	if diff := cmp.Diff(want, v.Components()); diff != "" {
		t.Errorf("unexpected components (-want +got):\n%s", diff)
	}

	// Removing the shared successor splits the first component.
	v.Remove("B")
	want = [][]graph.NodeID{ids("A"), ids("C"), ids("D"), ids("E", "F")}
	if diff := cmp.Diff(want, v.Components()); diff != "" {
		t.Errorf("unexpected components after removal (-want +got):\n%s", diff)
	}
}

func TestViewSubgraph(t *testing.T) {
	chk := require.New(t)
	v := diamond().NewView()
	sub := v.Subgraph(ids("A", "B", "D", "missing"))
	chk.Equal(3, sub.Len())
	chk.Equal(2, sub.EdgeCount())
	chk.Equal(1, sub.InDegree("D"))
	chk.Equal(ids("A"), sub.Sources())
	chk.False(sub.Has("C"))

	v.Remove("A")
	chk.True(sub.Has("A"), "subgraphs are independent of their parent")
	chk.Equal(2, v.Subgraph(v.Nodes()).EdgeCount())
}

func TestViewGenerations(t *testing.T) {
	chk := require.New(t)
	v := diamond().NewView()
	generations, err := v.Generations()
	chk.NoError(err)
	want := [][]graph.NodeID{ids("A"), ids("B", "C"), ids("D")}
	if diff := cmp.Diff(want, generations); diff != "" {
		t.Errorf("unexpected generations (-want +got):\n%s", diff)
	}
	n, err := v.LongestChain()
	chk.NoError(err)
	chk.Equal(3, n)

	empty, err := graph.New().NewView().LongestChain()
	chk.NoError(err)
	chk.Zero(empty)

	cyclic := build([2]string{"A", "B"}, [2]string{"B", "C"}, [2]string{"C", "B"})
	_, err = cyclic.NewView().LongestChain()
	chk.ErrorIs(err, graph.ErrCycle)
}

func TestDFSTree(t *testing.T) {
	chk := require.New(t)
	tree := diamond().NewView().DFSTree("A")
	chk.Equal(graph.NodeID("A"), tree.Root())
	chk.Equal(4, tree.Len())
	chk.Equal(2, tree.Depth())
	chk.Equal(2, tree.Width())

	// B is discovered directly from A before C is explored, so the tree is
	// shallower than the longest path A→C→B.
	g := build([2]string{"A", "B"}, [2]string{"A", "C"}, [2]string{"C", "B"})
	v := g.NewView()
	tree = v.DFSTree("A")
	chk.Equal(1, tree.Depth())
	chk.Equal(2, tree.Width())
	if diff := cmp.Diff([][]graph.NodeID{ids("A"), ids("B", "C")}, tree.Generations()); diff != "" {
		t.Errorf("unexpected tree generations (-want +got):\n%s", diff)
	}
	longest, err := v.LongestChain()
	chk.NoError(err)
	chk.Equal(3, longest)

	lone := g.NewView().DFSTree("B")
	chk.Equal(1, lone.Len())
	chk.Zero(lone.Depth())
	chk.Equal(1, lone.Width())

	v.Remove("A")
	chk.Zero(v.DFSTree("A").Len())
	chk.Zero(v.DFSTree("A").Width())
}

func TestViewInvariants(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		g := gen.DAG(t, &gen.DefaultConfig.DAG)
		v := g.NewView()
		check := func() {
			edges := 0
			for _, id := range v.Nodes() {
				preds := v.Predecessors(id)
				if v.InDegree(id) != len(preds) {
					t.Fatalf("in-degree of %s is %d but it has %d live predecessors", id, v.InDegree(id), len(preds))
				}
				edges += len(preds)
			}
			if edges != v.EdgeCount() {
				t.Fatalf("edge count %d, counted %d", v.EdgeCount(), edges)
			}
			total := 0
			for _, component := range v.Components() {
				sub := v.Subgraph(component)
				for _, id := range component {
					if sub.InDegree(id) != v.InDegree(id) {
						t.Fatalf("component in-degree of %s differs from view", id)
					}
				}
				total += sub.Len()
			}
			if total != v.Len() {
				t.Fatalf("components cover %d of %d nodes", total, v.Len())
			}
		}
		check()
		for v.Len() > 0 {
			sources := v.Sources()
			if len(sources) == 0 {
				t.Fatalf("acyclic view with %d nodes has no sources", v.Len())
			}
			v.Remove(rapid.SampledFrom(sources).Draw(t, "remove"))
			check()
		}
	})
}
