package tasklist

import (
	"fmt"
	"strings"

	"github.com/bryantinsley/tandem/pkg/ui/components"
	tea "github.com/charmbracelet/bubbletea"
)

// SelectMsg is emitted when a row is clicked.
type SelectMsg struct {
	Index int
}

// Row is one task in the list.
type Row struct {
	*components.ListItem
	Index   int
	Command string
}

// List renders one row per task, a status glyph in front of each command,
// and scrolls to keep the selected row visible.
type List struct {
	Rows       []*Row
	Dispatcher *components.ClickDispatcher

	x, y          int
	width, height int
	offset        int
}

// New creates a list with one row per command.
func New(commands []string) *List {
	l := &List{Dispatcher: components.NewClickDispatcher()}
	for i, c := range commands {
		index := i
		row := &Row{
			ListItem: components.NewListItem(c, func() tea.Cmd {
				return func() tea.Msg { return SelectMsg{Index: index} }
			}),
			Index:   i,
			Command: c,
		}
		l.Rows = append(l.Rows, row)
		l.Dispatcher.Register(row)
	}
	return l
}

// SetOrigin sets the screen position of the first visible row, used for
// click hit-testing.
func (l *List) SetOrigin(x, y int) {
	l.x, l.y = x, y
}

// SetSize sets the area available to the rows.
func (l *List) SetSize(width, height int) {
	l.width, l.height = width, height
}

// Width returns the row width set by SetSize.
func (l *List) Width() int {
	return l.width
}

// Update routes mouse clicks to rows.
func (l *List) Update(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.MouseMsg); ok {
		return l.Dispatcher.HandleMouse(msg)
	}
	return nil
}

// View renders the visible rows. glyph returns the status glyph of row i.
func (l *List) View(selected int, glyph func(i int) string) string {
	if len(l.Rows) == 0 {
		return "No tasks"
	}

	visible := len(l.Rows)
	if l.height > 0 && l.height < visible {
		visible = l.height
	}
	if selected < l.offset {
		l.offset = selected
	}
	if selected >= l.offset+visible {
		l.offset = selected - visible + 1
	}
	if l.offset > len(l.Rows)-visible {
		l.offset = len(l.Rows) - visible
	}

	lines := make([]string, 0, visible)
	for i, row := range l.Rows {
		if i < l.offset || i >= l.offset+visible {
			// Hidden rows must not catch clicks.
			row.SetBounds(0, 0, 0, 0)
			continue
		}
		row.SetSelected(i == selected)
		row.Label = fmt.Sprintf("%s %s", glyph(i), row.Command)
		lines = append(lines, row.Render(l.width))
		row.SetBounds(l.x, l.y+i-l.offset, l.width, 1)
	}
	return strings.Join(lines, "\n")
}

// Offset returns the index of the first visible row.
func (l *List) Offset() int {
	return l.offset
}
