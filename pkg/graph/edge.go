package graph

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/matzehuels/modcheck/pkg/source"
)

// Node is anything that can be rendered as a graph node id.
type Node interface {
	fmt.Stringer
}

// Key identifies an edge by its rendered endpoints.
type Key struct {
	From string
	To   string
}

// Edge is a directed dependency between two nodes.
type Edge[F, T Node] struct {
	From F
	To   T
}

// Key returns the rendered endpoints used for equality and hashing.
func (e Edge[F, T]) Key() Key {
	return Key{From: e.From.String(), To: e.To.String()}
}

// IsInternal reports whether both endpoints render identically.
func (e Edge[F, T]) IsInternal() bool {
	return e.From.String() == e.To.String()
}

// String renders the edge as "<from> > <to>".
func (e Edge[F, T]) String() string {
	return e.From.String() + " > " + e.To.String()
}

// DOT renders the edge as a Graphviz statement.
func (e Edge[F, T]) DOT() string {
	return fmt.Sprintf("%q -> %q;", e.From.String(), e.To.String())
}

// FileEdge is an import between two files.
type FileEdge = Edge[source.ChildPath, source.ChildPath]

// ModuleEdge is a dependency between two modules.
type ModuleEdge = Edge[source.Module, source.Module]

// ForeignEdge is an import from a file into another module.
type ForeignEdge = Edge[source.ChildPath, source.Module]

// EdgeSet is a set of edges deduplicated by [Edge.Key].
// The zero value is not usable; create sets with [NewEdgeSet].
// An EdgeSet is not safe for concurrent mutation.
type EdgeSet[F, T Node] struct {
	edges map[Key]Edge[F, T]
}

// NewEdgeSet returns a set containing edges.
func NewEdgeSet[F, T Node](edges ...Edge[F, T]) *EdgeSet[F, T] {
	s := &EdgeSet[F, T]{edges: make(map[Key]Edge[F, T], len(edges))}
	for _, e := range edges {
		s.Add(e)
	}
	return s
}

// Add inserts e. It reports whether e was not already present.
func (s *EdgeSet[F, T]) Add(e Edge[F, T]) bool {
	k := e.Key()
	if _, ok := s.edges[k]; ok {
		return false
	}
	s.edges[k] = e
	return true
}

// Merge adds every edge of other.
func (s *EdgeSet[F, T]) Merge(other *EdgeSet[F, T]) {
	for k, e := range other.edges {
		s.edges[k] = e
	}
}

// Len returns the number of edges.
func (s *EdgeSet[F, T]) Len() int { return len(s.edges) }

// Contains reports whether an edge with the given rendered endpoints exists.
func (s *EdgeSet[F, T]) Contains(from, to string) bool {
	_, ok := s.edges[Key{From: from, To: to}]
	return ok
}

// Edges returns the edges in no particular order.
func (s *EdgeSet[F, T]) Edges() []Edge[F, T] {
	return slices.Collect(maps.Values(s.edges))
}

// Sorted returns the edges ordered by rendered from, then rendered to.
func (s *EdgeSet[F, T]) Sorted() []Edge[F, T] {
	out := s.Edges()
	slices.SortFunc(out, func(a, b Edge[F, T]) int {
		ka, kb := a.Key(), b.Key()
		return cmp.Or(strings.Compare(ka.From, kb.From), strings.Compare(ka.To, kb.To))
	})
	return out
}

// GroupByFrom returns the adjacency list keyed by rendered source node.
// Successors are sorted. Nodes with no outgoing edges are absent.
func (s *EdgeSet[F, T]) GroupByFrom() map[string][]string {
	adj := make(map[string][]string)
	for k := range s.edges {
		adj[k.From] = append(adj[k.From], k.To)
	}
	for _, succ := range adj {
		slices.Sort(succ)
	}
	return adj
}

// Nodes returns the sorted, distinct rendered endpoints.
func (s *EdgeSet[F, T]) Nodes() []string {
	seen := make(map[string]struct{}, 2*len(s.edges))
	for k := range s.edges {
		seen[k.From] = struct{}{}
		seen[k.To] = struct{}{}
	}
	return slices.Sorted(maps.Keys(seen))
}

// Filter returns a new set with the edges for which keep returns true.
func (s *EdgeSet[F, T]) Filter(keep func(Edge[F, T]) bool) *EdgeSet[F, T] {
	out := NewEdgeSet[F, T]()
	for k, e := range s.edges {
		if keep(e) {
			out.edges[k] = e
		}
	}
	return out
}
