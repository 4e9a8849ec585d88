package components

import (
	"github.com/bryantinsley/tandem/pkg/ui/styles"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Button is a clickable key hint in the status bar, e.g. "m mouse".
type Button struct {
	Rect
	Shortcut string
	Label    string
	OnClick  func() tea.Cmd
	// Active highlights toggles that are currently on.
	Active bool
}

// NewButtonWithShortcut creates a new button with a shortcut and label
func NewButtonWithShortcut(shortcut, label string, onClick func() tea.Cmd) *Button {
	return &Button{
		Shortcut: shortcut,
		Label:    label,
		OnClick:  onClick,
	}
}

// HandleClick processes a click at the given position
func (b *Button) HandleClick(x, y int) tea.Cmd {
	if b.OnClick != nil {
		return b.OnClick()
	}
	return nil
}

// Render renders the button and records its width; the caller places it
// with SetBounds.
func (b *Button) Render() string {
	style := styles.ButtonStyle
	if b.Active {
		style = styles.ButtonActiveStyle
	}

	content := b.Label
	if b.Shortcut != "" {
		content = styles.KeyStyle.Render(b.Shortcut) + " " + b.Label
	}

	rendered := style.Render(content)
	b.Width = lipgloss.Width(rendered)
	b.Height = 1
	return rendered
}

var _ Clickable = (*Button)(nil)
