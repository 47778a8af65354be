package panels

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/macrolab/macrosim/internal/session/core"
	"github.com/macrolab/macrosim/tui/styles"
)

// PortfolioPanel shows the session state: countdown, portfolio value, scores.
type PortfolioPanel struct {
	snap    core.Snapshot
	focused bool
	width   int
	height  int
}

// NewPortfolioPanel creates the panel.
func NewPortfolioPanel() *PortfolioPanel {
	return &PortfolioPanel{}
}

// Init initializes the panel.
func (p *PortfolioPanel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the panel.
func (p *PortfolioPanel) Update(msg tea.Msg) (*PortfolioPanel, tea.Cmd) {
	return p, nil
}

// View renders the panel.
func (p *PortfolioPanel) View() string {
	var content strings.Builder

	switch p.snap.State {
	case core.StateIdle:
		content.WriteString(styles.MutedStyle.Render("Press s to start a session"))
	case core.StateFinished:
		content.WriteString(p.renderValue())
		content.WriteString("\n\n")
		perf := p.snap.Portfolio.Performance()
		perfStyle := styles.UpStyle
		if perf < 0 {
			perfStyle = styles.DownStyle
		}
		content.WriteString(styles.LabelStyle.Render("Final: ") + perfStyle.Render(styles.FormatPct(perf)))
		content.WriteString("\n")
		content.WriteString(styles.MutedStyle.Render("Session finished · s to restart"))
	default:
		content.WriteString(p.renderValue())
		content.WriteString("\n\n")
		content.WriteString(fmt.Sprintf("%s %s",
			styles.LabelStyle.Render("Time left:"),
			styles.ValueStyle.Render(formatCountdown(p.snap.Remaining))))
		content.WriteString("\n")
		content.WriteString(fmt.Sprintf("%s %s",
			styles.LabelStyle.Render("State:"),
			styles.ValueStyle.Render(p.snap.State.String())))
		content.WriteString("\n\n")
		content.WriteString(p.renderScores())
	}

	panelStyle := styles.PanelStyle
	if p.focused {
		panelStyle = styles.FocusedPanelStyle
	}

	title := styles.RenderTitle("💰 Portfolio", p.focused)
	panel := lipgloss.JoinVertical(lipgloss.Left, title, content.String())
	return panelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}

func (p *PortfolioPanel) renderValue() string {
	perf := p.snap.Portfolio.Performance()
	perfStyle := styles.UpStyle
	if perf < 0 {
		perfStyle = styles.DownStyle
	}
	return fmt.Sprintf("%s  %s",
		styles.ValueStyle.Render(styles.FormatMoney(p.snap.Portfolio.Current)),
		perfStyle.Render(styles.FormatPct(perf)))
}

func (p *PortfolioPanel) renderScores() string {
	s := p.snap.Scores
	return strings.Join([]string{
		renderScore("Wealth", s.Wealth),
		renderScore("Stability", s.Stability),
		renderScore("Innovation", s.Innovation),
	}, "\n")
}

func renderScore(label string, v float64) string {
	const width = 10
	filled := int(v / 100 * width)
	if filled > width {
		filled = width
	}
	bar := strings.Repeat("■", filled) + strings.Repeat("·", width-filled)
	return fmt.Sprintf("%-11s %s %3.0f", styles.LabelStyle.Render(label), bar, v)
}

func formatCountdown(ticks int) string {
	if ticks < 0 {
		ticks = 0
	}
	return fmt.Sprintf("%d:%02d", ticks/60, ticks%60)
}

// SetFocus sets the focus state of the panel.
func (p *PortfolioPanel) SetFocus(focused bool) {
	p.focused = focused
}

// SetSize sets the panel dimensions.
func (p *PortfolioPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetSnapshot sets the session snapshot to display.
func (p *PortfolioPanel) SetSnapshot(snap core.Snapshot) {
	p.snap = snap
}
