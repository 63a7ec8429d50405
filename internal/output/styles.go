package output

import "github.com/charmbracelet/lipgloss"

// Colors used across the text renderer's styles.
var (
	ColorSafe    = lipgloss.Color("#04B575")
	ColorWarning = lipgloss.Color("#FFB800")
	ColorDanger  = lipgloss.Color("#FF4040")
	ColorInfo    = lipgloss.Color("#00BFFF")
	ColorMuted   = lipgloss.Color("#666666")
	ColorLabel   = lipgloss.Color("#AAAAAA")
)

var (
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorInfo).
			Padding(0, 1)

	WarningBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorWarning).
			Padding(0, 1)

	DangerBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorDanger).
			Padding(0, 1)
)

var (
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorInfo)
	LabelStyle = lipgloss.NewStyle().Foreground(ColorLabel).Width(18)
	SafeText   = lipgloss.NewStyle().Foreground(ColorSafe).Bold(true)
	DangerText = lipgloss.NewStyle().Foreground(ColorDanger).Bold(true)
	MutedText  = lipgloss.NewStyle().Foreground(ColorMuted)
)

const (
	IconSafe    = "✅"
	IconWarning = "⚠"
	IconDanger  = "❌"
)
