package graph

import (
	"bytes"
	"encoding/json"
	"slices"
	"testing"

	"github.com/matzehuels/modcheck/pkg/source"
)

type label struct {
	id   int
	name string
}

func (l label) String() string { return l.name }

func mod(s string) source.Module { return source.Module(s) }

func TestEdge_Render(t *testing.T) {
	e := ModuleEdge{From: mod("billing"), To: mod("core")}
	if got, want := e.String(), "billing > core"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if got, want := e.DOT(), `"billing" -> "core";`; got != want {
		t.Errorf("DOT() = %q, want %q", got, want)
	}
	if e.IsInternal() {
		t.Error("IsInternal() = true, want false")
	}
	if !(ModuleEdge{From: mod("a"), To: mod("a")}).IsInternal() {
		t.Error("IsInternal() = false for self edge, want true")
	}
}

func TestEdgeSet_DedupByRendering(t *testing.T) {
	s := NewEdgeSet[label, label]()
	if !s.Add(Edge[label, label]{From: label{1, "a"}, To: label{2, "b"}}) {
		t.Error("Add() first = false, want true")
	}
	// Different values, same rendering: same node.
	if s.Add(Edge[label, label]{From: label{3, "a"}, To: label{4, "b"}}) {
		t.Error("Add() duplicate rendering = true, want false")
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
	if !s.Contains("a", "b") || s.Contains("b", "a") {
		t.Error("Contains() mismatch")
	}
}

func TestEdgeSet_Views(t *testing.T) {
	s := NewEdgeSet(
		ModuleEdge{From: mod("c"), To: mod("a")},
		ModuleEdge{From: mod("a"), To: mod("c")},
		ModuleEdge{From: mod("a"), To: mod("b")},
		ModuleEdge{From: mod("a"), To: mod("b")},
	)

	var got []string
	for _, e := range s.Sorted() {
		got = append(got, e.String())
	}
	if want := []string{"a > b", "a > c", "c > a"}; !slices.Equal(got, want) {
		t.Errorf("Sorted() = %v, want %v", got, want)
	}

	adj := s.GroupByFrom()
	if want := []string{"b", "c"}; !slices.Equal(adj["a"], want) {
		t.Errorf("GroupByFrom()[a] = %v, want %v", adj["a"], want)
	}
	if _, ok := adj["b"]; ok {
		t.Error("GroupByFrom() has entry for sink b")
	}

	if want := []string{"a", "b", "c"}; !slices.Equal(s.Nodes(), want) {
		t.Errorf("Nodes() = %v, want %v", s.Nodes(), want)
	}

	fromA := s.Filter(func(e ModuleEdge) bool { return e.From == "a" })
	if fromA.Len() != 2 {
		t.Errorf("Filter().Len() = %d, want 2", fromA.Len())
	}

	other := NewEdgeSet(ModuleEdge{From: mod("d"), To: mod("a")}, ModuleEdge{From: mod("a"), To: mod("b")})
	s.Merge(other)
	if s.Len() != 4 {
		t.Errorf("Merge() Len() = %d, want 4", s.Len())
	}
}

func TestFromEdgeSet(t *testing.T) {
	s := NewEdgeSet(
		ModuleEdge{From: mod("b"), To: mod("a")},
		ModuleEdge{From: mod("a"), To: mod("c")},
	)
	g := FromEdgeSet(LevelModule, s, func(id string) bool { return id == "c" })

	var buf bytes.Buffer
	if err := WriteJSON(g, &buf); err != nil {
		t.Fatalf("WriteJSON() error: %v", err)
	}
	var decoded Graph
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if decoded.Level != LevelModule {
		t.Errorf("Level = %q, want %q", decoded.Level, LevelModule)
	}
	if len(decoded.Nodes) != 3 || decoded.Nodes[0].ID != "a" || !decoded.Nodes[2].Barrel {
		t.Errorf("Nodes = %+v", decoded.Nodes)
	}
	want := []EdgeJSON{{From: "a", To: "c"}, {From: "b", To: "a"}}
	if !slices.Equal(decoded.Edges, want) {
		t.Errorf("Edges = %+v, want %+v", decoded.Edges, want)
	}
}
