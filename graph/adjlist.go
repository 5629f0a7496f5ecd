// Copyright (c) The cs244b-project37m Authors. All rights reserved.
// Licensed under the MIT License.

package graph

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// maxLineBytes bounds a single adjacency-list line. Hub nodes of large
// transaction graphs can list many thousands of successors.
const maxLineBytes = 16 << 20

// ReadAdjList parses a graph in adjacency-list form. Each line names a node
// followed by its successors, separated by whitespace. A '#' starts a comment
// that runs to the end of the line, and blank lines are ignored.
func ReadAdjList(r io.Reader) (*Graph, error) {
	g := New()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}
		source := NodeID(fields[0])
		g.AddNode(source)
		for _, field := range fields[1:] {
			g.AddEdge(source, NodeID(field))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading adjacency list after line %d: %w", line, err)
	}
	return g, nil
}

// LoadAdjList reads the adjacency-list file at path.
func LoadAdjList(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	g, err := ReadAdjList(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// WriteAdjList writes g in the form read by ReadAdjList, one line per node in
// ascending order.
func WriteAdjList(w io.Writer, g *Graph) error {
	bw := bufio.NewWriter(w)
	for _, id := range g.Nodes() {
		bw.WriteString(string(id))
		for _, succ := range g.Successors(id) {
			bw.WriteByte(' ')
			bw.WriteString(string(succ))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
