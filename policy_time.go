// Copyright (c) The cs244b-project37m Authors. All rights reserved.
// Licensed under the MIT License.

package stmsim

import (
	"math/rand/v2"

	"github.com/jeffhu1/cs244b-project37m/graph"
)

// The reference block took 125 time units to execute its 195 transactions
// serially.
const (
	ReferenceTotalTime = 125.0
	ReferenceNodeCount = 195

	DefaultConstantDuration = ReferenceTotalTime / ReferenceNodeCount
)

// Bounds of the RandomTime distribution.
const (
	RandomTimeMin = 0.50
	RandomTimeMax = 2.00
)

// ConstantTime gives every node the same duration.
type ConstantTime struct {
	Value float64
}

// NewConstantTime returns the policy calibrated so that the reference block
// executed serially takes ReferenceTotalTime.
func NewConstantTime() ConstantTime {
	return ConstantTime{Value: DefaultConstantDuration}
}

func (p ConstantTime) Duration(graph.NodeID) float64 {
	return p.Value
}

func (ConstantTime) Kind() TimePolicyKind {
	return TimeConstant
}

// GasTime stands in for a duration derived from each transaction's gas usage.
// No gas data is modeled, so every node takes one time unit.
type GasTime struct{}

func (GasTime) Duration(graph.NodeID) float64 {
	return 1.0
}

func (GasTime) Kind() TimePolicyKind {
	return TimeGas
}

// RandomTime draws each duration uniformly from [RandomTimeMin,
// RandomTimeMax). It is not safe for concurrent use.
type RandomTime struct {
	rng *rand.Rand
}

func NewRandomTime(seed uint64) *RandomTime {
	return &RandomTime{rng: newRand(seed)}
}

func (p *RandomTime) Duration(graph.NodeID) float64 {
	return RandomTimeMin + p.rng.Float64()*(RandomTimeMax-RandomTimeMin)
}

func (*RandomTime) Kind() TimePolicyKind {
	return TimeRandom
}
