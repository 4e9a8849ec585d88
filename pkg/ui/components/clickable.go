package components

import tea "github.com/charmbracelet/bubbletea"

// Clickable is implemented by every component that reacts to mouse clicks.
type Clickable interface {
	Contains(x, y int) bool
	HandleClick(x, y int) tea.Cmd
	SetBounds(x, y, width, height int)
}

// Rect is the screen area a component was last laid out at. Components
// embed it to satisfy the geometry half of Clickable.
type Rect struct {
	X, Y          int
	Width, Height int
}

// Contains returns true if the point is within the rectangle.
func (r *Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// SetBounds records where the component was drawn.
func (r *Rect) SetBounds(x, y, width, height int) {
	r.X, r.Y, r.Width, r.Height = x, y, width, height
}

// ClickDispatcher routes left-button releases to the component under the
// pointer.
type ClickDispatcher struct {
	components []Clickable
}

// NewClickDispatcher creates a dispatcher with the given components
func NewClickDispatcher(components ...Clickable) *ClickDispatcher {
	return &ClickDispatcher{components: components}
}

// Register adds a component. Later registrations win when bounds overlap.
func (d *ClickDispatcher) Register(c Clickable) {
	d.components = append(d.components, c)
}

// Clear removes all registered components
func (d *ClickDispatcher) Clear() {
	d.components = nil
}

// HandleMouse returns the command of the topmost component hit by a left
// click, or nil.
func (d *ClickDispatcher) HandleMouse(msg tea.MouseMsg) tea.Cmd {
	if msg.Action != tea.MouseActionRelease {
		return nil
	}
	// X10 encoding reports releases without a button.
	if msg.Button != tea.MouseButtonLeft && msg.Button != tea.MouseButtonNone {
		return nil
	}
	for i := len(d.components) - 1; i >= 0; i-- {
		c := d.components[i]
		if c.Contains(msg.X, msg.Y) {
			return c.HandleClick(msg.X, msg.Y)
		}
	}
	return nil
}
