package treedot

import (
	"strings"
	"testing"

	"github.com/matzehuels/bagtree/pkg/decomposition"
	"github.com/matzehuels/bagtree/pkg/hypergraph"
)

func tree() *decomposition.Tree {
	t := decomposition.NewTree()
	r, _ := t.AddRoot([]hypergraph.Vertex{1, 2})
	c, _ := t.AddChild(r, []hypergraph.Vertex{2, 3})
	_ = t.SetLabel("critical", r, true)
	_ = t.SetLabel("critical", c, false)
	_ = t.SetLabel("bag_size", c, 2)
	return t
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(tree(), Options{})
	for _, want := range []string{
		"graph T {",
		`n1 [label="{1, 2}"];`,
		`n2 [label="{2, 3}"];`,
		"n1 -- n2;",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
}

func TestToDOT_Detailed(t *testing.T) {
	dot := ToDOT(tree(), Options{Detailed: true, Highlight: "critical"})
	if !strings.Contains(dot, `label="{2, 3}\nbag_size: 2\ncritical: false"`) {
		t.Errorf("detailed label missing:\n%s", dot)
	}
	if strings.Count(dot, "fillcolor=\"#ffe08a\"") != 1 {
		t.Errorf("want exactly one highlighted node:\n%s", dot)
	}
}

func TestFormatBag(t *testing.T) {
	tests := []struct {
		bag  []hypergraph.Vertex
		want string
	}{
		{nil, "{}"},
		{[]hypergraph.Vertex{4}, "{4}"},
		{[]hypergraph.Vertex{1, 2, 10}, "{1, 2, 10}"},
	}
	for _, tt := range tests {
		if got := FormatBag(tt.bag); got != tt.want {
			t.Errorf("FormatBag(%v) = %q, want %q", tt.bag, got, tt.want)
		}
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.HasPrefix(out, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.00 50.00" width="100" height="50">`) {
		t.Errorf("normalizeViewBox = %s", out)
	}
	if got := normalizeViewBox([]byte("<svg>")); string(got) != "<svg>" {
		t.Errorf("without viewBox got %s", got)
	}
}
