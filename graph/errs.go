// Copyright (c) The cs244b-project37m Authors. All rights reserved.
// Licensed under the MIT License.

package graph

type constError string

func (e constError) Error() string {
	return string(e)
}

// ErrCycle is returned by topological queries on a view that contains a
// directed cycle.
const ErrCycle = constError("graph contains a cycle")
