// Copyright (c) The cs244b-project37m Authors. All rights reserved.
// Licensed under the MIT License.

package stmsim

import (
	"maps"
	"slices"

	"github.com/jeffhu1/cs244b-project37m/graph"
)

// NodeSet is a set of node identifiers. A nil NodeSet is empty and may be
// read but not added to.
type NodeSet map[graph.NodeID]struct{}

// NewNodeSet returns a set holding ids.
func NewNodeSet(ids ...graph.NodeID) NodeSet {
	s := make(NodeSet, len(ids))
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

func (s NodeSet) Has(id graph.NodeID) bool {
	_, ok := s[id]
	return ok
}

func (s NodeSet) Add(id graph.NodeID) {
	s[id] = struct{}{}
}

func (s NodeSet) Delete(id graph.NodeID) {
	delete(s, id)
}

// Sorted returns the members in ascending order.
func (s NodeSet) Sorted() []graph.NodeID {
	return slices.Sorted(maps.Keys(s))
}
