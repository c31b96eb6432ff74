package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/bagtree/pkg/decomposition"
	"github.com/matzehuels/bagtree/pkg/hypergraph"
)

func inspectTree() *decomposition.Tree {
	t := decomposition.NewTree()
	r, _ := t.AddRoot([]hypergraph.Vertex{1, 2})
	a, _ := t.AddChild(r, []hypergraph.Vertex{2, 3, 4})
	_, _ = t.AddChild(a, []hypergraph.Vertex{4})
	_, _ = t.AddChild(r, []hypergraph.Vertex{1})
	_ = t.SetLabel("bag_size", a, 3)
	return t
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewNodeListModel(t *testing.T) {
	m := NewNodeListModel(inspectTree())
	if len(m.Rows) != 4 || m.Width != 2 {
		t.Fatalf("rows = %d, width = %d", len(m.Rows), m.Width)
	}
	wantParents := []int{-1, 0, 1, 0}
	wantDepths := []int{0, 1, 2, 1}
	for i, r := range m.Rows {
		if r.Parent != wantParents[i] || r.Depth != wantDepths[i] {
			t.Errorf("row %d: parent %d depth %d", i, r.Parent, r.Depth)
		}
	}
	if m.Rows[1].Bag != "{2, 3, 4}" || m.Rows[1].Labels != "bag_size=3" {
		t.Errorf("row 1 = %+v", m.Rows[1])
	}
}

func TestNodeListModel_Navigation(t *testing.T) {
	var model tea.Model = NewNodeListModel(inspectTree())

	steps := []struct {
		key  string
		want int
	}{
		{"k", 0}, // clamped at the top
		{"j", 1},
		{"j", 2},
		{"p", 1},
		{"p", 0},
		{"G", 3},
		{"j", 3}, // clamped at the bottom
		{"g", 0},
	}
	for _, s := range steps {
		model, _ = model.Update(key(s.key))
		if got := model.(NodeListModel).Cursor; got != s.want {
			t.Fatalf("after %q cursor = %d, want %d", s.key, got, s.want)
		}
	}

	_, cmd := model.Update(key("q"))
	if cmd == nil {
		t.Error("q should quit")
	}
}

func TestNodeListModel_Scroll(t *testing.T) {
	m := NewNodeListModel(inspectTree())
	m.Height = 2
	var model tea.Model = m
	for range 3 {
		model, _ = model.Update(key("j"))
	}
	m = model.(NodeListModel)
	if m.Offset != 2 {
		t.Errorf("offset = %d, want 2", m.Offset)
	}
	view := m.View()
	if !strings.Contains(view, "[4/4]") || !strings.Contains(view, "width 2") {
		t.Errorf("view:\n%s", view)
	}
}
