// Copyright (c) The cs244b-project37m Authors. All rights reserved.
// Licensed under the MIT License.

package gen

var DefaultConfig = Config{
	DAG: DAGConfig{
		Nodes:       BiasedIntConfig{Min: 0, Med: 8, Max: 40},
		MaxFanout:   4,
		EdgeDensity: 0.5,
	},
	Layered: LayeredConfig{
		Levels: BiasedIntConfig{Min: 1, Med: 3, Max: 6},
		Width:  BiasedIntConfig{Min: 1, Med: 3, Max: 8},
	},
}

type Config struct {
	DAG     DAGConfig
	Layered LayeredConfig
}

type DAGConfig struct {
	Nodes BiasedIntConfig
	// Upper bound on the number of successors drawn per node.
	MaxFanout int
	// Probability that a node draws any successors at all.
	EdgeDensity float64
	// Assign identifiers in random order so that edges may also point from
	// larger to smaller identifiers.
	Shuffle bool
}

type LayeredConfig struct {
	Levels BiasedIntConfig
	Width  BiasedIntConfig
}
