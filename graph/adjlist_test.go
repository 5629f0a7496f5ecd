// Copyright (c) The cs244b-project37m Authors. All rights reserved.
// Licensed under the MIT License.

package graph_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jeffhu1/cs244b-project37m/graph"
	"github.com/stretchr/testify/require"
)

const sampleAdjList = `# block 17 dependency graph
0001 0003 0004
0002 0004   # shares 0004 with 0001

0003
0004 0005
0006
`

func TestReadAdjList(t *testing.T) {
	chk := require.New(t)
	g, err := graph.ReadAdjList(strings.NewReader(sampleAdjList))
	chk.NoError(err)
	chk.Equal(ids("0001", "0002", "0003", "0004", "0005", "0006"), g.Nodes())
	chk.Equal(4, g.EdgeCount())
	chk.Equal(ids("0001", "0002"), g.Predecessors("0004"))
	chk.Equal(ids("0005"), g.Successors("0004"))
	chk.Empty(g.Successors("0006"))
}

func TestWriteAdjListRoundTrip(t *testing.T) {
	chk := require.New(t)
	g, err := graph.ReadAdjList(strings.NewReader(sampleAdjList))
	chk.NoError(err)

	var buf bytes.Buffer
	chk.NoError(graph.WriteAdjList(&buf, g))
	chk.Equal("0001 0003 0004\n0002 0004\n0003\n0004 0005\n0005\n0006\n", buf.String())

	path := filepath.Join(t.TempDir(), "graph.adjlist")
	chk.NoError(os.WriteFile(path, buf.Bytes(), 0o644))
	loaded, err := graph.LoadAdjList(path)
	chk.NoError(err)
	chk.Equal(g.Nodes(), loaded.Nodes())
	for _, id := range g.Nodes() {
		chk.Equal(g.Successors(id), loaded.Successors(id))
	}
}

func TestLoadAdjListMissing(t *testing.T) {
	_, err := graph.LoadAdjList(filepath.Join(t.TempDir(), "absent.adjlist"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
