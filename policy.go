// Copyright (c) The cs244b-project37m Authors. All rights reserved.
// Licensed under the MIT License.

package stmsim

import (
	"fmt"
	"math/rand/v2"

	"github.com/jeffhu1/cs244b-project37m/graph"
)

// ExecutionTimePolicy decides how long a ready node occupies its slot.
// Durations must be positive and finite. Implementations must not modify any
// graph.
type ExecutionTimePolicy interface {
	Duration(node graph.NodeID) float64
	Kind() TimePolicyKind
}

// NodeSelectionPolicy picks the next node for a free slot. It must return a
// live node of view that is not in exclude, or false if it has no candidate.
// The chosen node need not be ready: picking a node with unfinished
// dependencies is how speculation is modeled. Implementations must not modify
// the view.
type NodeSelectionPolicy interface {
	Select(view *graph.View, exclude NodeSet) (graph.NodeID, bool)
	Kind() SelectionPolicyKind
}

type TimePolicyKind int

const (
	TimeConstant TimePolicyKind = iota
	TimeGas
	TimeRandom
)

var timePolicyNames = [...]string{
	TimeConstant: "constant_estimate",
	TimeGas:      "gas_estimate",
	TimeRandom:   "random_estimate",
}

func (k TimePolicyKind) String() string {
	if k < 0 || int(k) >= len(timePolicyNames) {
		return fmt.Sprintf("TimePolicyKind(%d)", int(k))
	}
	return timePolicyNames[k]
}

// TimePolicyKinds returns every execution-time policy kind.
func TimePolicyKinds() []TimePolicyKind {
	return []TimePolicyKind{TimeConstant, TimeGas, TimeRandom}
}

// ParseTimePolicyKind is the inverse of TimePolicyKind.String.
func ParseTimePolicyKind(name string) (TimePolicyKind, error) {
	for k, n := range timePolicyNames {
		if n == name {
			return TimePolicyKind(k), nil
		}
	}
	return 0, fmt.Errorf("unknown execution time policy %q", name)
}

type SelectionPolicyKind int

const (
	SelectNextID SelectionPolicyKind = iota
	SelectRandom
	SelectGreedyMaxDepthWidth
)

var selectionPolicyNames = [...]string{
	SelectNextID:              "next_txn_id_node",
	SelectRandom:              "random_node",
	SelectGreedyMaxDepthWidth: "greedy_max_depth_width",
}

func (k SelectionPolicyKind) String() string {
	if k < 0 || int(k) >= len(selectionPolicyNames) {
		return fmt.Sprintf("SelectionPolicyKind(%d)", int(k))
	}
	return selectionPolicyNames[k]
}

// SelectionPolicyKinds returns every node selection policy kind.
func SelectionPolicyKinds() []SelectionPolicyKind {
	return []SelectionPolicyKind{SelectNextID, SelectRandom, SelectGreedyMaxDepthWidth}
}

// ParseSelectionPolicyKind is the inverse of SelectionPolicyKind.String.
func ParseSelectionPolicyKind(name string) (SelectionPolicyKind, error) {
	for k, n := range selectionPolicyNames {
		if n == name {
			return SelectionPolicyKind(k), nil
		}
	}
	return 0, fmt.Errorf("unknown node selection policy %q", name)
}

// RunName labels the results of a policy combination, for instance
// "constant_estimate-greedy_max_depth_width".
func RunName(t TimePolicyKind, s SelectionPolicyKind) string {
	return t.String() + "-" + s.String()
}

// NewTimePolicy returns the execution-time policy of the given kind. The seed
// is used only by randomized policies.
func NewTimePolicy(kind TimePolicyKind, seed uint64) ExecutionTimePolicy {
	switch kind {
	case TimeConstant:
		return NewConstantTime()
	case TimeGas:
		return GasTime{}
	case TimeRandom:
		return NewRandomTime(seed)
	default:
		panic(fmt.Sprint("unknown execution time policy kind: ", kind))
	}
}

// NewSelectionPolicy returns the node selection policy of the given kind. The
// seed is used only by randomized policies.
func NewSelectionPolicy(kind SelectionPolicyKind, seed uint64) NodeSelectionPolicy {
	switch kind {
	case SelectNextID:
		return NextID{}
	case SelectRandom:
		return NewRandomNode(seed)
	case SelectGreedyMaxDepthWidth:
		return GreedyMaxDepthWidth{}
	default:
		panic(fmt.Sprint("unknown node selection policy kind: ", kind))
	}
}

// Randomized policies draw from a PCG stream keyed by the caller's seed.
const seedStream = 0x5851f42d4c957f2d

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seedStream))
}
