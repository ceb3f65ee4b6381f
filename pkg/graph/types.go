package graph

import (
	"encoding/json"
	"fmt"
	"io"
)

// Graph levels accepted by the CLI and the HTTP server.
const (
	LevelModule = "module"
	LevelFile   = "file"
)

// Graph is the node-link serialization of an [EdgeSet].
// Nodes and edges are sorted for deterministic output.
type Graph struct {
	Level string     `json:"level" yaml:"level"`
	Nodes []NodeJSON `json:"nodes" yaml:"nodes"`
	Edges []EdgeJSON `json:"edges" yaml:"edges"`
}

// NodeJSON is a serialized node.
type NodeJSON struct {
	ID     string `json:"id" yaml:"id"`
	Barrel bool   `json:"barrel,omitempty" yaml:"barrel,omitempty"`
}

// EdgeJSON is a serialized directed edge.
type EdgeJSON struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}

// FromEdgeSet converts s to its serialization format.
// isBarrel may be nil; when set it flags barrel nodes.
func FromEdgeSet[F, T Node](level string, s *EdgeSet[F, T], isBarrel func(id string) bool) Graph {
	ids := s.Nodes()
	out := Graph{
		Level: level,
		Nodes: make([]NodeJSON, len(ids)),
		Edges: make([]EdgeJSON, 0, s.Len()),
	}
	for i, id := range ids {
		out.Nodes[i] = NodeJSON{ID: id}
		if isBarrel != nil {
			out.Nodes[i].Barrel = isBarrel(id)
		}
	}
	for _, e := range s.Sorted() {
		k := e.Key()
		out.Edges = append(out.Edges, EdgeJSON{From: k.From, To: k.To})
	}
	return out
}

// WriteJSON writes g as indented JSON.
func WriteJSON(g Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(g); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
