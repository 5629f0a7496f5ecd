// Copyright (c) The cs244b-project37m Authors. All rights reserved.
// Licensed under the MIT License.

package stmsim

import (
	"cmp"
	"math/rand/v2"

	"github.com/addrummond/heap"
	"github.com/jeffhu1/cs244b-project37m/graph"
)

// NextID picks the smallest identifier that is not excluded, whether or not
// it is ready. With identifiers assigned in block order this replays the
// block's transactions in order.
type NextID struct{}

func (NextID) Select(view *graph.View, exclude NodeSet) (graph.NodeID, bool) {
	for _, id := range view.Nodes() {
		if !exclude.Has(id) {
			return id, true
		}
	}
	return "", false
}

func (NextID) Kind() SelectionPolicyKind {
	return SelectNextID
}

// RandomNode picks uniformly among the nodes that are not excluded, whether
// or not they are ready. It is not safe for concurrent use.
type RandomNode struct {
	rng *rand.Rand
}

func NewRandomNode(seed uint64) *RandomNode {
	return &RandomNode{rng: newRand(seed)}
}

func (p *RandomNode) Select(view *graph.View, exclude NodeSet) (graph.NodeID, bool) {
	var candidates []graph.NodeID
	for _, id := range view.Nodes() {
		if !exclude.Has(id) {
			candidates = append(candidates, id)
		}
	}
	if len(candidates) == 0 {
		return "", false
	}
	return candidates[p.rng.IntN(len(candidates))], true
}

func (*RandomNode) Kind() SelectionPolicyKind {
	return SelectRandom
}

// GreedyMaxDepthWidth only ever picks ready nodes. Among the ready nodes of
// every weakly-connected component it prefers the one whose depth-first
// spanning tree is deepest, then widest, then the smallest identifier.
type GreedyMaxDepthWidth struct{}

type candidate struct {
	node  graph.NodeID
	depth int
	width int
}

// Orders the best candidate first.
func (a *candidate) Cmp(b *candidate) int {
	if c := cmp.Compare(b.depth, a.depth); c != 0 {
		return c
	}
	if c := cmp.Compare(b.width, a.width); c != 0 {
		return c
	}
	return cmp.Compare(a.node, b.node)
}

func (GreedyMaxDepthWidth) Select(view *graph.View, exclude NodeSet) (graph.NodeID, bool) {
	var ranking heap.Heap[candidate, heap.Min]
	for _, component := range view.Components() {
		sub := view.Subgraph(component)
		for _, node := range sub.Sources() {
			if exclude.Has(node) {
				continue
			}
			tree := sub.DFSTree(node)
			heap.PushOrderable(&ranking, candidate{
				node:  node,
				depth: tree.Depth(),
				width: tree.Width(),
			})
		}
	}
	best, ok := heap.PopOrderable(&ranking)
	if !ok {
		return "", false
	}
	return best.node, true
}

func (GreedyMaxDepthWidth) Kind() SelectionPolicyKind {
	return SelectGreedyMaxDepthWidth
}
