package cli

import (
	"fmt"
	"path"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/modcheck/pkg/graph"
	"github.com/matzehuels/modcheck/pkg/source"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// moduleImport is one import from a file of a module into another module.
type moduleImport struct {
	File   string
	Target string
}

// moduleEntry groups the foreign imports of one module.
type moduleEntry struct {
	Name    string
	Imports []moduleImport
	Targets []string // distinct target modules, sorted
}

// groupByModule groups foreign edges by the module of the importing file.
func groupByModule(g *graph.EdgeSet[source.ChildPath, source.Module]) []moduleEntry {
	byName := make(map[string]*moduleEntry)
	var names []string
	for _, e := range g.Sorted() {
		from, err := e.From.Module()
		if err != nil {
			continue
		}
		name := from.String()
		m, ok := byName[name]
		if !ok {
			m = &moduleEntry{Name: name}
			byName[name] = m
			names = append(names, name)
		}
		m.Imports = append(m.Imports, moduleImport{File: e.From.String(), Target: e.To.String()})
		if !slices.Contains(m.Targets, e.To.String()) {
			m.Targets = append(m.Targets, e.To.String())
		}
	}
	slices.Sort(names)
	out := make([]moduleEntry, 0, len(names))
	for _, n := range names {
		m := byName[n]
		slices.Sort(m.Targets)
		out = append(out, *m)
	}
	return out
}

// =============================================================================
// ModuleBrowserModel - Interactive module browser
// =============================================================================

// ModuleBrowserModel is the bubbletea model behind inspect --interactive.
// The list view shows one row per module; enter opens a scrollable view of
// its imports.
type ModuleBrowserModel struct {
	Modules []moduleEntry
	Layout  source.Layout
	Cursor  int
	Offset  int
	Width   int
	Height  int
	Open    bool // detail view of Modules[Cursor]

	detail viewport.Model
}

func newModuleBrowser(g *graph.EdgeSet[source.ChildPath, source.Module], layout source.Layout) ModuleBrowserModel {
	return ModuleBrowserModel{
		Modules: groupByModule(g),
		Layout:  layout,
		Width:   80,
		Height:  15,
	}
}

func (m ModuleBrowserModel) Init() tea.Cmd {
	return nil
}

func (m ModuleBrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		key := msg.String()
		if key == "q" || key == "ctrl+c" {
			return m, tea.Quit
		}
		if m.Open {
			switch key {
			case "esc", "backspace", "left", "h":
				m.Open = false
				return m, nil
			}
			var cmd tea.Cmd
			m.detail, cmd = m.detail.Update(msg)
			return m, cmd
		}
		switch key {
		case "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Modules)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter", "right", "l":
			if len(m.Modules) > 0 {
				m.Open = true
				m.detail = viewport.New(m.Width, m.Height)
				m.detail.SetContent(m.detailContent())
			}
		}
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = max(msg.Height-6, 5)
		if m.Open {
			m.detail.Width = m.Width
			m.detail.Height = m.Height
		}
	}
	return m, nil
}

func (m ModuleBrowserModel) View() string {
	if len(m.Modules) == 0 {
		return StyleTitle.Render("Modules") + "\n\n" + listDimStyle.Render("No imports cross module boundaries. q quit") + "\n"
	}
	if m.Open {
		return m.detailView()
	}
	return m.listView()
}

func (m ModuleBrowserModel) listView() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Modules"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ open  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Modules))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		mod := m.Modules[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{
			cursor,
			mod.Name,
			strconv.Itoa(mod.files()),
			strconv.Itoa(len(mod.Imports)),
			strings.Join(mod.Targets, ", "),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Module", "Files", "Imports", "Depends on").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.Offset + row
			if idx >= len(m.Modules) {
				return lipgloss.NewStyle()
			}
			if idx == m.Cursor {
				return listSelectedStyle
			}
			if col == 4 {
				return listDimStyle
			}
			return listNormalStyle
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Modules))))

	return b.String()
}

func (m ModuleBrowserModel) detailView() string {
	mod := m.Modules[m.Cursor]
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Module " + mod.Name))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ scroll  ← back  q quit"))
	b.WriteString("\n\n")
	b.WriteString(m.detail.View())
	b.WriteString("\n")
	return b.String()
}

// detailContent lists the imports of the selected module, barrel files
// highlighted.
func (m ModuleBrowserModel) detailContent() string {
	mod := m.Modules[m.Cursor]
	lines := make([]string, 0, len(mod.Imports))
	for _, imp := range mod.Imports {
		line := fmt.Sprintf("  %s %s %s", imp.File, iconArrow, imp.Target)
		if m.Layout.IsBarrel(path.Base(imp.File)) {
			lines = append(lines, listNormalStyle.Render(line))
		} else {
			lines = append(lines, listDimStyle.Render(line))
		}
	}
	return strings.Join(lines, "\n")
}

// files counts the distinct files making the imports.
func (e moduleEntry) files() int {
	n := 0
	for i, imp := range e.Imports {
		if i == 0 || e.Imports[i-1].File != imp.File {
			n++
		}
	}
	return n
}
