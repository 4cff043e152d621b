package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/scipopt/stairheur/pkg/detection"
	"github.com/scipopt/stairheur/pkg/model"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// browseModel is the bubbletea model for stepping through the decomposition
// records of one detection run.
type browseModel struct {
	problem *model.Problem
	decs    []*detection.Decomposition
	cursor  int
}

// newBrowseModel creates a browser over the decompositions of res.
func newBrowseModel(p *model.Problem, res *detection.Result) browseModel {
	return browseModel{problem: p, decs: res.Decompositions}
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc", "enter":
			return m, tea.Quit
		case "up", "k", "left", "h":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j", "right", "l":
			if m.cursor < len(m.decs)-1 {
				m.cursor++
			}
		}
	}
	return m, nil
}

func (m browseModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(fmt.Sprintf("Decompositions of %s", m.problem.Name())))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  q quit"))
	b.WriteString("\n\n")

	for i, dec := range m.decs {
		cursor := "  "
		style := listNormalStyle
		if i == m.cursor {
			cursor = "▸ "
			style = listSelectedStyle
		}
		line := fmt.Sprintf("%s%-8s %2d blocks  %2d linking", cursor, dec.Strategy, dec.NBlocks, len(dec.LinkingVars))
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.viewDetail(m.decs[m.cursor]))
	return b.String()
}

// viewDetail renders the block table of the selected record.
func (m browseModel) viewDetail(dec *detection.Decomposition) string {
	var b strings.Builder

	b.WriteString(styleTableHeader.Render(fmt.Sprintf("  %-7s %8s %8s", "block", "conss", "vars")))
	b.WriteString("\n")
	for k, blk := range dec.Blocks {
		b.WriteString(fmt.Sprintf("  %-7d %8d %8d\n", k+1, len(blk.Conss), len(blk.Vars)))
	}

	if len(dec.LinkingVars) > 0 {
		names := make([]string, 0, len(dec.LinkingVars))
		for _, v := range dec.LinkingVars {
			if name, err := m.problem.VarName(v); err == nil {
				names = append(names, name)
			}
		}
		b.WriteString(listDimStyle.Render("  linking: " + strings.Join(names, ", ")))
		b.WriteString("\n")
	}
	return b.String()
}

// browseDecompositions runs the interactive browser until the user quits.
func browseDecompositions(p *model.Problem, res *detection.Result) error {
	if len(res.Decompositions) == 0 {
		return nil
	}
	_, err := tea.NewProgram(newBrowseModel(p, res)).Run()
	return err
}
