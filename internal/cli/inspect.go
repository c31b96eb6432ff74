package cli

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/bagtree/pkg/decomposition"
	"github.com/matzehuels/bagtree/pkg/render/treedot"
)

var (
	listDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	listHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	listWidestStyle = lipgloss.NewStyle().Foreground(colorAmber)
)

func (c *CLI) inspectCommand() *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "inspect [tree.json]",
		Short: "Browse the bags of a saved decomposition",
		Long: `Browse a decomposition node by node. Bags of maximum size are highlighted.

Keys: ↑/↓ or j/k move, p jumps to the parent, g/G jump to the first/last
node, q quits. With --plain the table is printed without the browser.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := loadTree(args[0])
			if err != nil {
				return err
			}
			m := NewNodeListModel(t)
			if plain {
				m.Height = len(m.Rows)
				_, err := fmt.Fprintln(c.Out, m.Table())
				return err
			}
			_, err = tea.NewProgram(m, tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print the node table and exit")
	return cmd
}

// =============================================================================
// NodeListModel - Interactive node browser
// =============================================================================

// NodeRow is one decomposition node in pre-order.
type NodeRow struct {
	ID     decomposition.NodeID
	Parent int // row index of the parent, -1 for the root
	Depth  int
	Bag    string
	Size   int
	Labels string
}

// NodeListModel is the bubbletea model for browsing a decomposition.
type NodeListModel struct {
	Rows   []NodeRow
	Width  int // decomposition width
	Cursor int
	Height int
	Offset int
}

// NewNodeListModel flattens t in pre-order.
func NewNodeListModel(t *decomposition.Tree) NodeListModel {
	ids := t.Nodes()
	index := make(map[decomposition.NodeID]int, len(ids))
	rows := make([]NodeRow, len(ids))
	for i, id := range ids {
		index[id] = i
		row := NodeRow{ID: id, Parent: -1, Bag: treedot.FormatBag(t.Bag(id)), Size: len(t.Bag(id))}
		if p := t.Parent(id); p != decomposition.NoNode {
			row.Parent = index[p]
			row.Depth = rows[row.Parent].Depth + 1
		}
		row.Labels = formatLabels(t.ExportLabels(id))
		rows[i] = row
	}
	return NodeListModel{Rows: rows, Width: t.Width(), Height: 15}
}

func formatLabels(labels decomposition.Labels) string {
	if len(labels) == 0 {
		return ""
	}
	names := make([]string, 0, len(labels))
	for name := range labels {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s=%v", name, labels[name])
	}
	return strings.Join(parts, " ")
}

func (m NodeListModel) Init() tea.Cmd {
	return nil
}

func (m NodeListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.moveTo(m.Cursor - 1)
		case "down", "j":
			m.moveTo(m.Cursor + 1)
		case "g", "home":
			m.moveTo(0)
		case "G", "end":
			m.moveTo(len(m.Rows) - 1)
		case "p":
			if len(m.Rows) > 0 && m.Rows[m.Cursor].Parent >= 0 {
				m.moveTo(m.Rows[m.Cursor].Parent)
			}
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
		m.moveTo(m.Cursor)
	}
	return m, nil
}

// moveTo places the cursor on row i, clamped, and scrolls it into view.
func (m *NodeListModel) moveTo(i int) {
	if len(m.Rows) == 0 {
		return
	}
	m.Cursor = min(max(i, 0), len(m.Rows)-1)
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m NodeListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Decomposition"))
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d bags · width %d", len(m.Rows), m.Width)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  p parent  q quit"))
	b.WriteString("\n\n")
	b.WriteString(m.Table())
	b.WriteString("\n\n")
	if len(m.Rows) > 0 {
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Rows))))
	}
	return b.String()
}

// Table renders the visible rows.
func (m NodeListModel) Table() string {
	end := min(m.Offset+m.Height, len(m.Rows))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		r := m.Rows[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		parent := "-"
		if r.Parent >= 0 {
			parent = itoa(r.Parent + 1)
		}
		rows = append(rows, []string{cursor, strings.Repeat("  ", r.Depth) + itoa(i+1), parent, itoa(r.Size), r.Bag, r.Labels})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Node", "Parent", "Size", "Bag", "Labels").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return listHeaderStyle
			}
			idx := m.Offset + row
			if idx >= len(m.Rows) {
				return lipgloss.NewStyle()
			}
			base := lipgloss.NewStyle()
			if m.Rows[idx].Size == m.Width+1 && (col == 3 || col == 4) {
				base = listWidestStyle
			}
			if idx == m.Cursor {
				return base.Bold(true).Foreground(colorCyan)
			}
			return base
		}).
		Render()
}
