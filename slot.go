// Copyright (c) The cs244b-project37m Authors. All rights reserved.
// Licensed under the MIT License.

package stmsim

import (
	"cmp"

	"github.com/jeffhu1/cs244b-project37m/graph"
)

// Slot is a snapshot of one execution slot. A busy slot either runs Node until
// CompletesAt or, if Rollback is set, is serving the penalty for a failed
// speculative execution and holds no node.
type Slot struct {
	Index       int
	Node        graph.NodeID
	Rollback    bool
	CompletesAt float64
	Busy        bool
}

type workSlot struct {
	Slot
}

func (s *workSlot) occupy(node graph.NodeID, completesAt float64) {
	s.Node = node
	s.Rollback = false
	s.CompletesAt = completesAt
	s.Busy = true
}

func (s *workSlot) rollback(completesAt float64) {
	s.Node = ""
	s.Rollback = true
	s.CompletesAt = completesAt
	s.Busy = true
}

func (s *workSlot) release() {
	s.Slot = Slot{Index: s.Index}
}

// slotEvent is the scheduled release of a busy slot.
type slotEvent struct {
	At   float64
	Slot *workSlot
}

// Slots free in time order, and in index order at equal times.
func (a *slotEvent) Cmp(b *slotEvent) int {
	if c := cmp.Compare(a.At, b.At); c != 0 {
		return c
	}
	return cmp.Compare(a.Slot.Index, b.Slot.Index)
}
