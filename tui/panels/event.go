package panels

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/macrolab/macrosim/internal/simevent"
	"github.com/macrolab/macrosim/tui/styles"
)

// EventPanel shows the pending market event and its choices.
type EventPanel struct {
	event         *simevent.Event
	selectedIndex int
	focused       bool
	width         int
	height        int
}

// NewEventPanel creates the panel.
func NewEventPanel() *EventPanel {
	return &EventPanel{}
}

// Init initializes the panel.
func (p *EventPanel) Init() tea.Cmd {
	return nil
}

// ChoiceSelectedMsg reports the user's response to the pending event.
type ChoiceSelectedMsg struct {
	ChoiceID string
}

// Update handles messages for the panel.
func (p *EventPanel) Update(msg tea.Msg) (*EventPanel, tea.Cmd) {
	if !p.focused || p.event == nil {
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
		if p.selectedIndex < len(p.event.Choices)-1 {
			p.selectedIndex++
		}
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("enter"))):
		choice := p.event.Choices[p.selectedIndex]
		return p, func() tea.Msg { return ChoiceSelectedMsg{ChoiceID: choice.ID} }
	}
	return p, nil
}

// View renders the panel.
func (p *EventPanel) View() string {
	var content strings.Builder

	if p.event == nil {
		content.WriteString(styles.MutedStyle.Render("No pending event"))
	} else {
		content.WriteString(styles.ImportantStyle.Render(p.event.Title))
		content.WriteString("\n")
		content.WriteString(styles.LabelStyle.Render(wrap(p.event.Description, p.width-6)))
		content.WriteString("\n\n")

		for i, c := range p.event.Choices {
			line := fmt.Sprintf("%d. %s", i+1, c.Text)
			if p.focused && i == p.selectedIndex {
				line = styles.SelectedRowStyle.Render(line)
			} else {
				line = styles.RowStyle.Render(line)
			}
			content.WriteString(line)
			content.WriteString("\n")
		}
		content.WriteString("\n")
		content.WriteString(styles.MutedStyle.Render("enter to decide"))
	}

	panelStyle := styles.PanelStyle
	if p.focused {
		panelStyle = styles.FocusedPanelStyle
	}

	title := styles.RenderTitle("⚡ Market Event", p.focused)
	panel := lipgloss.JoinVertical(lipgloss.Left, title, content.String())
	return panelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}

// wrap breaks text at word boundaries to fit the given width.
func wrap(text string, width int) string {
	if width < 10 {
		width = 10
	}
	words := strings.Fields(text)
	var lines []string
	line := ""
	for _, w := range words {
		if line == "" {
			line = w
		} else if len(line)+1+len(w) <= width {
			line += " " + w
		} else {
			lines = append(lines, line)
			line = w
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// SetFocus sets the focus state of the panel.
func (p *EventPanel) SetFocus(focused bool) {
	p.focused = focused
}

// SetSize sets the panel dimensions.
func (p *EventPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetEvent replaces the displayed event; nil clears the panel.
func (p *EventPanel) SetEvent(ev *simevent.Event) {
	if ev == nil {
		p.event = nil
		p.selectedIndex = 0
		return
	}
	if p.event == nil || p.event.ID != ev.ID {
		p.selectedIndex = 0
	}
	p.event = ev
}
