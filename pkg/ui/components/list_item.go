package components

import (
	"github.com/bryantinsley/tandem/pkg/ui/styles"
	tea "github.com/charmbracelet/bubbletea"
)

// ListItem is a one-line selectable row.
type ListItem struct {
	Rect
	Label    string
	OnSelect func() tea.Cmd

	selected bool
}

// NewListItem creates a new list item
func NewListItem(label string, onSelect func() tea.Cmd) *ListItem {
	return &ListItem{
		Label:    label,
		OnSelect: onSelect,
	}
}

// SetSelected sets the selected state
func (l *ListItem) SetSelected(selected bool) {
	l.selected = selected
}

// Selected reports the selected state.
func (l *ListItem) Selected() bool {
	return l.selected
}

// HandleClick selects the item.
func (l *ListItem) HandleClick(x, y int) tea.Cmd {
	if l.OnSelect != nil {
		return l.OnSelect()
	}
	return nil
}

// Render renders the item truncated to width cells; width <= 0 means no
// limit.
func (l *ListItem) Render(width int) string {
	style := styles.ListItemStyle
	if l.selected {
		style = styles.ListItemSelectedStyle
	}
	if width > 0 {
		style = style.MaxWidth(width)
	}
	return style.Render(l.Label)
}

var _ Clickable = (*ListItem)(nil)
