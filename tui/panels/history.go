package panels

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/macrolab/macrosim/internal/history"
	"github.com/macrolab/macrosim/tui/styles"
)

// HistoryPanel shows the ranked historical comparison.
type HistoryPanel struct {
	response      *history.Response
	selectedIndex int
	focused       bool
	width         int
	height        int
}

// NewHistoryPanel creates the panel.
func NewHistoryPanel() *HistoryPanel {
	return &HistoryPanel{}
}

// Init initializes the panel.
func (p *HistoryPanel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the panel.
func (p *HistoryPanel) Update(msg tea.Msg) (*HistoryPanel, tea.Cmd) {
	if !p.focused || p.response == nil {
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
		if p.selectedIndex < len(p.response.Scenarios)-1 {
			p.selectedIndex++
		}
	}
	return p, nil
}

// View renders the panel.
func (p *HistoryPanel) View() string {
	var content strings.Builder

	if p.response == nil {
		content.WriteString(styles.MutedStyle.Render("No comparison yet · press c to compare"))
	} else {
		if cond := p.response.Conditions; cond != nil {
			content.WriteString(styles.LabelStyle.Render(fmt.Sprintf(
				"Now: %s · vol %.1f · %s", cond.Trend, cond.Volatility, cond.Sentiment)))
			content.WriteString("\n\n")
		}

		for i, sc := range p.response.Scenarios {
			simStyle := styles.MutedStyle
			if sc.Similarity >= 70 {
				simStyle = styles.DownStyle // a close crisis match is a warning
			} else if sc.Similarity >= 40 {
				simStyle = styles.ImportantStyle
			}
			line := fmt.Sprintf("%s %s",
				simStyle.Render(fmt.Sprintf("%3d%%", sc.Similarity)),
				styles.RowStyle.Render(truncate(sc.Period, p.width-12)))
			if p.focused && i == p.selectedIndex {
				line = styles.SelectedRowStyle.Render(line)
			}
			content.WriteString(line)
			content.WriteString("\n")
		}

		if p.focused && p.selectedIndex < len(p.response.Scenarios) {
			sel := p.response.Scenarios[p.selectedIndex]
			content.WriteString("\n")
			content.WriteString(styles.MutedStyle.Render(wrap(sel.Description, p.width-6)))
		}
	}

	panelStyle := styles.PanelStyle
	if p.focused {
		panelStyle = styles.FocusedPanelStyle
	}

	title := styles.RenderTitle("🕰 Historical Parallels", p.focused)
	panel := lipgloss.JoinVertical(lipgloss.Left, title, content.String())
	return panelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}

// SetFocus sets the focus state of the panel.
func (p *HistoryPanel) SetFocus(focused bool) {
	p.focused = focused
}

// SetSize sets the panel dimensions.
func (p *HistoryPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetResponse replaces the displayed comparison.
func (p *HistoryPanel) SetResponse(resp *history.Response) {
	p.response = resp
	if resp != nil && p.selectedIndex >= len(resp.Scenarios) {
		p.selectedIndex = 0
	}
}
