package panels

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/macrolab/macrosim/internal/econ"
	"github.com/macrolab/macrosim/tui/styles"
)

// ParamStep is the slider increment per keypress, in percentage points.
const ParamStep = 0.5

type paramField int

const (
	fieldInflation paramField = iota
	fieldFedRate
	fieldGDPGrowth
	paramFieldCount
)

var paramLabels = [paramFieldCount]string{"Inflation", "Fed Rate", "GDP Growth"}

// ParamsPanel edits the economic parameter sliders.
type ParamsPanel struct {
	params  econ.Params
	field   paramField
	focused bool
	width   int
	height  int
}

// NewParamsPanel creates the panel with default parameters.
func NewParamsPanel() *ParamsPanel {
	return &ParamsPanel{params: econ.DefaultParams()}
}

// Init initializes the panel.
func (p *ParamsPanel) Init() tea.Cmd {
	return nil
}

// ParamChangedMsg reports a slider adjustment to apply.
type ParamChangedMsg struct {
	Update econ.Partial
}

// Update handles messages for the panel.
func (p *ParamsPanel) Update(msg tea.Msg) (*ParamsPanel, tea.Cmd) {
	if !p.focused {
		return p, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}

	switch {
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("up", "k"))):
		if p.field > 0 {
			p.field--
		}
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("down", "j"))):
		if p.field < paramFieldCount-1 {
			p.field++
		}
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("left", "h"))):
		return p, p.adjust(-ParamStep)
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("right", "l"))):
		return p, p.adjust(ParamStep)
	}
	return p, nil
}

func (p *ParamsPanel) adjust(delta float64) tea.Cmd {
	var u econ.Partial
	switch p.field {
	case fieldInflation:
		v := econ.Clamp(p.params.Inflation + delta)
		p.params.Inflation = v
		u.Inflation = &v
	case fieldFedRate:
		v := econ.Clamp(p.params.FedRate + delta)
		p.params.FedRate = v
		u.FedRate = &v
	case fieldGDPGrowth:
		v := econ.Clamp(p.params.GDPGrowth + delta)
		p.params.GDPGrowth = v
		u.GDPGrowth = &v
	}
	return func() tea.Msg { return ParamChangedMsg{Update: u} }
}

// View renders the panel.
func (p *ParamsPanel) View() string {
	var content strings.Builder

	values := [paramFieldCount]float64{p.params.Inflation, p.params.FedRate, p.params.GDPGrowth}
	for f := paramField(0); f < paramFieldCount; f++ {
		line := fmt.Sprintf("%-11s %s %5.1f%%",
			styles.LabelStyle.Render(paramLabels[f]),
			renderSlider(values[f]),
			values[f])
		if p.focused && f == p.field {
			line = styles.SelectedRowStyle.Render(line)
		}
		content.WriteString(line)
		content.WriteString("\n")
	}

	content.WriteString("\n")
	content.WriteString(styles.MutedStyle.Render("←/→ adjust · r run simulation"))

	panelStyle := styles.PanelStyle
	if p.focused {
		panelStyle = styles.FocusedPanelStyle
	}

	title := styles.RenderTitle("⚙ Parameters", p.focused)
	panel := lipgloss.JoinVertical(lipgloss.Left, title, content.String())
	return panelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}

// renderSlider draws a [0,10] value as a fixed-width bar.
func renderSlider(v float64) string {
	const width = 20
	filled := int(v / econ.RateMax * width)
	if filled > width {
		filled = width
	}
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
}

// SetFocus sets the focus state of the panel.
func (p *ParamsPanel) SetFocus(focused bool) {
	p.focused = focused
}

// SetSize sets the panel dimensions.
func (p *ParamsPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetParams replaces the displayed values (drift moves them between edits).
func (p *ParamsPanel) SetParams(params econ.Params) {
	p.params = params
}
