package styles

import "github.com/charmbracelet/lipgloss"

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			Background(lipgloss.Color("235")).
			Padding(0, 1)

	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62"))

	PanelFocusedStyle = PanelStyle.
				BorderForeground(lipgloss.Color("205"))

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("235")).
			Padding(0, 1)

	ButtonStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("252"))

	ButtonActiveStyle = ButtonStyle.
				Background(lipgloss.Color("62")).
				Foreground(lipgloss.Color("230"))

	KeyStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	ListItemStyle = lipgloss.NewStyle().
			PaddingLeft(1)

	ListItemSelectedStyle = lipgloss.NewStyle().
				PaddingLeft(1).
				Bold(true).
				Foreground(lipgloss.Color("205"))

	// Task status glyphs.
	StatusRunningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	StatusSuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	StatusFailureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	DimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)
