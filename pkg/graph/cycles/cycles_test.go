package cycles

import (
	"slices"
	"testing"
)

func keys(chains []Chain) []string {
	out := make([]string, len(chains))
	for i, c := range chains {
		out[i] = c.String()
	}
	return out
}

func TestFind(t *testing.T) {
	tests := []struct {
		name string
		adj  map[string][]string
		want []string
	}{
		{
			name: "empty",
			adj:  map[string][]string{},
			want: []string{},
		},
		{
			name: "dag",
			adj: map[string][]string{
				"a": {"b", "c"},
				"b": {"d"},
				"c": {"d"},
			},
			want: []string{},
		},
		{
			name: "self loop",
			adj:  map[string][]string{"a": {"a"}},
			want: []string{"a > a"},
		},
		{
			name: "two node",
			adj:  map[string][]string{"b": {"a"}, "a": {"b"}},
			want: []string{"a > b > a"},
		},
		{
			name: "three node",
			adj:  map[string][]string{"a": {"b"}, "b": {"c"}, "c": {"a"}},
			want: []string{"a > b > c > a"},
		},
		{
			name: "rotation entered elsewhere",
			adj:  map[string][]string{"0": {"b"}, "b": {"c"}, "c": {"a"}, "a": {"b"}},
			want: []string{"a > b > c > a"},
		},
		{
			name: "disconnected components",
			adj: map[string][]string{
				"a": {"b"},
				"b": {"a"},
				"x": {"y"},
				"y": {"z"},
				"z": {"x"},
			},
			want: []string{"a > b > a", "x > y > z > x"},
		},
		{
			name: "cycle reached from acyclic prefix",
			adj: map[string][]string{
				"app":  {"core"},
				"core": {"util"},
				"util": {"core"},
			},
			want: []string{"core > util > core"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := keys(Find(tt.adj))
			if !slices.Equal(got, tt.want) {
				t.Errorf("Find() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFind_StartOrderIndependent(t *testing.T) {
	// The same cycle traversed from every entry point collapses to one chain.
	for _, entry := range []string{"a", "b", "c"} {
		adj := map[string][]string{
			"a":           {"b"},
			"b":           {"c"},
			"c":           {"a"},
			"0-" + entry: {entry},
		}
		got := keys(Find(adj))
		if want := []string{"a > b > c > a"}; !slices.Equal(got, want) {
			t.Errorf("Find() entering at %s = %v, want %v", entry, got, want)
		}
	}
}

func TestChain_Canonical(t *testing.T) {
	tests := []struct {
		in   Chain
		want string
	}{
		{Chain{Nodes: []string{"b", "c", "a", "b"}, Circular: true}, "a > b > c > a"},
		{Chain{Nodes: []string{"c", "a", "b", "c"}, Circular: true}, "a > b > c > a"},
		{Chain{Nodes: []string{"a", "a"}, Circular: true}, "a > a"},
		{Chain{Nodes: []string{"b", "a"}, Circular: false}, "b > a"},
	}
	for _, tt := range tests {
		t.Run(tt.in.String(), func(t *testing.T) {
			if got := tt.in.Canonical().String(); got != tt.want {
				t.Errorf("Canonical() = %q, want %q", got, tt.want)
			}
			if got := tt.in.Key(); got != tt.want {
				t.Errorf("Key() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDetector_SingleUse(t *testing.T) {
	d := New(map[string][]string{"a": {"a"}})
	if got := d.Find(); len(got) != 1 {
		t.Fatalf("Find() = %v, want one chain", got)
	}
	if got := d.Find(); got != nil {
		t.Errorf("second Find() = %v, want nil", got)
	}
}
