// Package tui renders the interactive simulator: session state, parameter
// sliders, pending events, scenarios, and historical parallels.
package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/macrolab/macrosim/internal/client"
	"github.com/macrolab/macrosim/internal/history"
	"github.com/macrolab/macrosim/internal/notify"
	"github.com/macrolab/macrosim/internal/session"
	"github.com/macrolab/macrosim/internal/session/core"
	"github.com/macrolab/macrosim/tui/panels"
	"github.com/macrolab/macrosim/tui/styles"
)

// PanelFocus represents which panel is currently focused.
type PanelFocus int

const (
	FocusPortfolio PanelFocus = 0
	FocusEvent     PanelFocus = 1
	FocusScenarios PanelFocus = 2
	FocusHistory   PanelFocus = 3
	FocusParams    PanelFocus = 4
)

const refreshInterval = 200 * time.Millisecond

// Model is the main TUI application model.
type Model struct {
	session *session.Service
	collab  *client.Client // nil: historical comparison unavailable

	portfolioPanel *panels.PortfolioPanel
	eventPanel     *panels.EventPanel
	scenariosPanel *panels.ScenariosPanel
	historyPanel   *panels.HistoryPanel
	paramsPanel    *panels.ParamsPanel

	notifications []notify.Notification

	focusedPanel PanelFocus

	width  int
	height int

	statusMsg string
	ready     bool
}

// NewModel creates the TUI model. collab may be nil when running without a
// collaborator server.
func NewModel(svc *session.Service, collab *client.Client) *Model {
	return &Model{
		session:        svc,
		collab:         collab,
		portfolioPanel: panels.NewPortfolioPanel(),
		eventPanel:     panels.NewEventPanel(),
		scenariosPanel: panels.NewScenariosPanel(),
		historyPanel:   panels.NewHistoryPanel(),
		paramsPanel:    panels.NewParamsPanel(),
		focusedPanel:   FocusParams,
	}
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.portfolioPanel.Init(),
		m.eventPanel.Init(),
		m.scenariosPanel.Init(),
		m.historyPanel.Init(),
		m.paramsPanel.Init(),
		m.tickRefresh(),
	)
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "tab":
			m.focusedPanel = (m.focusedPanel + 1) % 5

		case "shift+tab":
			m.focusedPanel--
			if m.focusedPanel < 0 {
				m.focusedPanel = 4
			}

		case "f1":
			m.focusedPanel = FocusPortfolio
		case "f2":
			m.focusedPanel = FocusEvent
		case "f3":
			m.focusedPanel = FocusScenarios
		case "f4":
			m.focusedPanel = FocusHistory
		case "f5":
			m.focusedPanel = FocusParams

		case "s":
			m.session.Start()
			m.statusMsg = "Session started"

		case "r":
			m.session.RunSimulation()
			m.statusMsg = "Simulation requested"

		case "c":
			cmds = append(cmds, m.fetchHistory())
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case panels.ParamChangedMsg:
		m.session.SetParams(msg.Update)

	case panels.ChoiceSelectedMsg:
		cmds = append(cmds, m.respond(msg.ChoiceID))

	case respondResultMsg:
		m.statusMsg = msg.message

	case historyResultMsg:
		if msg.err != nil {
			m.statusMsg = "Comparison failed: " + msg.err.Error()
		} else {
			m.historyPanel.SetResponse(msg.response)
			m.statusMsg = "Historical comparison updated"
		}

	case tickMsg:
		m.refreshFromSession()
		cmds = append(cmds, m.tickRefresh())
	}

	m.updateFocusedPanel(msg, &cmds)

	return m, tea.Batch(cmds...)
}

func (m *Model) updateFocusedPanel(msg tea.Msg, cmds *[]tea.Cmd) {
	var cmd tea.Cmd

	switch m.focusedPanel {
	case FocusPortfolio:
		m.portfolioPanel, cmd = m.portfolioPanel.Update(msg)
	case FocusEvent:
		m.eventPanel, cmd = m.eventPanel.Update(msg)
	case FocusScenarios:
		m.scenariosPanel, cmd = m.scenariosPanel.Update(msg)
	case FocusHistory:
		m.historyPanel, cmd = m.historyPanel.Update(msg)
	case FocusParams:
		m.paramsPanel, cmd = m.paramsPanel.Update(msg)
	}

	if cmd != nil {
		*cmds = append(*cmds, cmd)
	}
}

func (m *Model) refreshFromSession() {
	ctx, cancel := context.WithTimeout(context.Background(), refreshInterval)
	defer cancel()

	snap, err := m.session.Snapshot(ctx)
	if err != nil {
		return
	}

	m.portfolioPanel.SetSnapshot(snap)
	m.eventPanel.SetEvent(snap.Pending)
	m.scenariosPanel.SetScenarios(snap.Scenarios)
	if snap.State == core.StateCountdown || snap.State == core.StateEventPending {
		m.paramsPanel.SetParams(snap.Params)
	}
	m.notifications = m.session.Notifications()

	// Jump focus to a freshly arrived event so enter works immediately.
	if snap.Pending != nil && m.focusedPanel != FocusEvent {
		m.focusedPanel = FocusEvent
	}
}

// View renders the UI.
func (m *Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	m.portfolioPanel.SetFocus(m.focusedPanel == FocusPortfolio)
	m.eventPanel.SetFocus(m.focusedPanel == FocusEvent)
	m.scenariosPanel.SetFocus(m.focusedPanel == FocusScenarios)
	m.historyPanel.SetFocus(m.focusedPanel == FocusHistory)
	m.paramsPanel.SetFocus(m.focusedPanel == FocusParams)

	// Layout:
	// ┌─────────────┬──────────────┬──────────────┐
	// │  Portfolio  │ Market Event │  Scenarios   │
	// ├─────────────┴─────┬────────┴──────────────┤
	// │ Historical        │      Parameters       │
	// └───────────────────┴───────────────────────┘

	leftWidth := m.width / 3
	middleWidth := m.width / 3
	rightWidth := m.width - leftWidth - middleWidth

	topHeight := (m.height - 3) * 3 / 5
	bottomHeight := m.height - topHeight - 3

	m.portfolioPanel.SetSize(leftWidth, topHeight)
	m.eventPanel.SetSize(middleWidth, topHeight)
	m.scenariosPanel.SetSize(rightWidth, topHeight)

	topRow := lipgloss.JoinHorizontal(lipgloss.Top,
		m.portfolioPanel.View(),
		m.eventPanel.View(),
		m.scenariosPanel.View(),
	)

	m.historyPanel.SetSize(leftWidth, bottomHeight)
	m.paramsPanel.SetSize(m.width-leftWidth, bottomHeight)

	bottomRow := lipgloss.JoinHorizontal(lipgloss.Top,
		m.historyPanel.View(),
		m.paramsPanel.View(),
	)

	statusBar := m.renderStatusBar()

	return lipgloss.JoinVertical(lipgloss.Left, topRow, bottomRow, statusBar)
}

func (m *Model) renderStatusBar() string {
	help := []string{
		styles.StatusBarKeyStyle.Render("s") + styles.StatusBarDescStyle.Render(" start"),
		styles.StatusBarKeyStyle.Render("r") + styles.StatusBarDescStyle.Render(" simulate"),
		styles.StatusBarKeyStyle.Render("c") + styles.StatusBarDescStyle.Render(" compare"),
		styles.StatusBarKeyStyle.Render("tab") + styles.StatusBarDescStyle.Render(" panels"),
		styles.StatusBarKeyStyle.Render("q") + styles.StatusBarDescStyle.Render(" quit"),
	}
	helpStr := lipgloss.JoinHorizontal(lipgloss.Center,
		help[0], " │ ", help[1], " │ ", help[2], " │ ", help[3], " │ ", help[4])

	// Most recent notification wins the limited status space.
	status := m.statusMsg
	if n := len(m.notifications); n > 0 {
		latest := m.notifications[n-1]
		status = renderNotification(latest)
	}
	if status != "" {
		status = " │ " + status
	}

	return styles.StatusBarStyle.Width(m.width).Render(helpStr + status)
}

func renderNotification(n notify.Notification) string {
	switch n.Kind {
	case notify.KindSuccess:
		return styles.NotifySuccessStyle.Render(n.Message)
	case notify.KindWarning:
		return styles.NotifyWarningStyle.Render(n.Message)
	default:
		return styles.NotifyInfoStyle.Render(n.Message)
	}
}

func (m *Model) respond(choiceID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		choice, err := m.session.RespondToEvent(ctx, choiceID)
		if err != nil {
			return respondResultMsg{message: "Response failed: " + err.Error()}
		}
		return respondResultMsg{message: choice.Impact}
	}
}

func (m *Model) fetchHistory() tea.Cmd {
	if m.collab == nil {
		return func() tea.Msg {
			return respondResultMsg{message: "No collaborator configured"}
		}
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		resp, err := m.collab.HistoricalScenarios(ctx, nil)
		if err != nil {
			return historyResultMsg{err: err}
		}
		return historyResultMsg{response: &resp}
	}
}

// tickMsg is sent periodically to refresh data.
type tickMsg struct{}

func (m *Model) tickRefresh() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg{}
	})
}

// respondResultMsg is sent after an event response is processed.
type respondResultMsg struct {
	message string
}

// historyResultMsg carries a fetched historical comparison.
type historyResultMsg struct {
	response *history.Response
	err      error
}
