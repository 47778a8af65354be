package styles

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	PrimaryColor = lipgloss.Color("#7C3AED") // Purple
	AccentColor  = lipgloss.Color("#F59E0B") // Amber

	UpColor      = lipgloss.Color("#10B981") // Green
	DownColor    = lipgloss.Color("#EF4444") // Red
	NeutralColor = lipgloss.Color("#6B7280") // Gray

	BackgroundColor  = lipgloss.Color("#1F2937")
	BorderColor      = lipgloss.Color("#374151")
	FocusBorderColor = lipgloss.Color("#7C3AED")

	TextColor          = lipgloss.Color("#F9FAFB")
	TextSecondaryColor = lipgloss.Color("#9CA3AF")
	TextMutedColor     = lipgloss.Color("#6B7280")
)

// Panel styles
var (
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderColor).
			Padding(0, 1)

	FocusedPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(FocusBorderColor).
				Padding(0, 1)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor).
			Padding(0, 1)

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(TextSecondaryColor)

	RowStyle = lipgloss.NewStyle().
			Foreground(TextColor)

	SelectedRowStyle = lipgloss.NewStyle().
				Foreground(TextColor).
				Background(lipgloss.Color("#374151"))
)

// Text styles
var (
	UpStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(UpColor)

	DownStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(DownColor)

	ValueStyle = lipgloss.NewStyle().
			Foreground(TextColor)

	LabelStyle = lipgloss.NewStyle().
			Foreground(TextSecondaryColor)

	MutedStyle = lipgloss.NewStyle().
			Foreground(TextMutedColor)

	TimeStyle = lipgloss.NewStyle().
			Foreground(TextMutedColor)

	ImportantStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(AccentColor)
)

// Status bar styles
var (
	StatusBarStyle = lipgloss.NewStyle().
			Background(BackgroundColor).
			Foreground(TextSecondaryColor).
			Padding(0, 1)

	StatusBarKeyStyle = lipgloss.NewStyle().
				Foreground(PrimaryColor).
				Bold(true)

	StatusBarDescStyle = lipgloss.NewStyle().
				Foreground(TextSecondaryColor)

	NotifySuccessStyle = lipgloss.NewStyle().
				Foreground(UpColor)

	NotifyWarningStyle = lipgloss.NewStyle().
				Foreground(AccentColor)

	NotifyInfoStyle = lipgloss.NewStyle().
			Foreground(TextSecondaryColor)
)

// Helper function to render a title bar for a panel
func RenderTitle(title string, focused bool) string {
	style := TitleStyle
	if focused {
		style = style.Foreground(FocusBorderColor)
	}
	return style.Render(title)
}

// FormatMoney renders a portfolio value with thousands separators.
func FormatMoney(v float64) string {
	whole := int64(v)
	frac := int64((v - float64(whole)) * 100)
	if frac < 0 {
		frac = -frac
	}

	s := fmt.Sprintf("%d", whole)
	if whole < 0 {
		s = s[1:]
	}
	out := ""
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			out += ","
		}
		out += string(r)
	}
	if whole < 0 {
		out = "-" + out
	}
	return fmt.Sprintf("$%s.%02d", out, frac)
}

// FormatPct renders a signed percentage.
func FormatPct(v float64) string {
	return fmt.Sprintf("%+.2f%%", v)
}
