// Copyright (c) The cs244b-project37m Authors. All rights reserved.
// Licensed under the MIT License.

package graph

import (
	"slices"

	"github.com/gammazero/deque"
)

// Tree is a depth-first spanning tree rooted at a node of a view. It contains
// every node reachable from the root, each attached below the node from which
// the search first discovered it.
type Tree struct {
	root   NodeID
	levels [][]NodeID
	size   int
}

type dfsFrame struct {
	id    NodeID
	succ  []NodeID
	next  int
	level int
}

// DFSTree returns the depth-first spanning tree of the live nodes reachable
// from root. Successors are explored in ascending order. If root is not live
// the tree is empty.
func (v *View) DFSTree(root NodeID) *Tree {
	t := &Tree{root: root}
	if !v.Has(root) {
		return t
	}
	visited := map[NodeID]struct{}{root: {}}
	t.add(root, 0)

	var stack deque.Deque[*dfsFrame]
	stack.PushBack(&dfsFrame{id: root, succ: v.graph.Successors(root)})
	for stack.Len() > 0 {
		top := stack.Back()
		if top.next == len(top.succ) {
			stack.PopBack()
			continue
		}
		child := top.succ[top.next]
		top.next++
		if !v.Has(child) {
			continue
		}
		if _, ok := visited[child]; ok {
			continue
		}
		visited[child] = struct{}{}
		t.add(child, top.level+1)
		stack.PushBack(&dfsFrame{
			id:    child,
			succ:  v.graph.Successors(child),
			level: top.level + 1,
		})
	}
	for _, level := range t.levels {
		slices.Sort(level)
	}
	return t
}

func (t *Tree) add(id NodeID, level int) {
	if level == len(t.levels) {
		t.levels = append(t.levels, nil)
	}
	t.levels[level] = append(t.levels[level], id)
	t.size++
}

// Root returns the node the tree was grown from.
func (t *Tree) Root() NodeID {
	return t.root
}

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int {
	return t.size
}

// Depth returns the number of edges on the longest root-to-leaf path. An empty
// tree and a lone root both have depth zero.
func (t *Tree) Depth() int {
	if len(t.levels) == 0 {
		return 0
	}
	return len(t.levels) - 1
}

// Width returns the size of the largest generation.
func (t *Tree) Width() int {
	width := 0
	for _, level := range t.levels {
		width = max(width, len(level))
	}
	return width
}

// Generations returns the tree's nodes grouped by distance from the root, each
// generation in ascending order.
func (t *Tree) Generations() [][]NodeID {
	return t.levels
}
