package panels

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/macrolab/macrosim/internal/scenario"
	"github.com/macrolab/macrosim/tui/styles"
)

// ScenariosPanel lists the generated investment scenarios.
type ScenariosPanel struct {
	scenarios     []scenario.Scenario
	selectedIndex int
	focused       bool
	width         int
	height        int
}

// NewScenariosPanel creates the panel.
func NewScenariosPanel() *ScenariosPanel {
	return &ScenariosPanel{}
}

// Init initializes the panel.
func (p *ScenariosPanel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the panel.
func (p *ScenariosPanel) Update(msg tea.Msg) (*ScenariosPanel, tea.Cmd) {
	if !p.focused {
		return p, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}

	switch {
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("up", "k"))):
		if p.selectedIndex > 0 {
			p.selectedIndex--
		}
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("down", "j"))):
		if p.selectedIndex < len(p.scenarios)-1 {
			p.selectedIndex++
		}
	}
	return p, nil
}

// View renders the panel.
func (p *ScenariosPanel) View() string {
	var content strings.Builder

	if len(p.scenarios) == 0 {
		content.WriteString(styles.MutedStyle.Render("No scenarios yet · press r to simulate"))
	} else {
		for i, sc := range p.scenarios {
			line := fmt.Sprintf("%s %s  %s",
				renderRisk(sc.Risk),
				styles.ValueStyle.Render(fmt.Sprintf("%+.1f%%", sc.ProjectedProfit)),
				styles.LabelStyle.Render(truncate(sc.Strategy, p.width-18)))
			if p.focused && i == p.selectedIndex {
				line = styles.SelectedRowStyle.Render(line)
			}
			content.WriteString(line)
			content.WriteString("\n")
		}

		if p.focused && p.selectedIndex < len(p.scenarios) {
			content.WriteString("\n")
			content.WriteString(styles.MutedStyle.Render(wrap(p.scenarios[p.selectedIndex].Description, p.width-6)))
		}
	}

	panelStyle := styles.PanelStyle
	if p.focused {
		panelStyle = styles.FocusedPanelStyle
	}

	title := styles.RenderTitle("📈 Scenarios", p.focused)
	panel := lipgloss.JoinVertical(lipgloss.Left, title, content.String())
	return panelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}

func renderRisk(r scenario.Risk) string {
	switch r {
	case scenario.RiskLow:
		return styles.UpStyle.Render("LOW ")
	case scenario.RiskHigh:
		return styles.DownStyle.Render("HIGH")
	default:
		return styles.ImportantStyle.Render("MED ")
	}
}

func truncate(s string, max int) string {
	if max < 4 {
		max = 4
	}
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

// SetFocus sets the focus state of the panel.
func (p *ScenariosPanel) SetFocus(focused bool) {
	p.focused = focused
}

// SetSize sets the panel dimensions.
func (p *ScenariosPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetScenarios replaces the displayed batch.
func (p *ScenariosPanel) SetScenarios(list []scenario.Scenario) {
	p.scenarios = list
	if p.selectedIndex >= len(list) {
		p.selectedIndex = 0
	}
}
