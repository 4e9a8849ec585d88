package components

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestButton_Click(t *testing.T) {
	clicked := false
	btn := NewButtonWithShortcut("m", "mouse", func() tea.Cmd {
		clicked = true
		return nil
	})

	btn.SetBounds(10, 10, 20, 1)

	if !btn.Contains(15, 10) {
		t.Error("Button should contain point inside bounds")
	}
	btn.HandleClick(15, 10)
	if !clicked {
		t.Error("Button should have been clicked")
	}
	if btn.Contains(15, 11) || btn.Contains(5, 10) {
		t.Error("Button should not contain point outside bounds")
	}
}

func TestButton_Render(t *testing.T) {
	btn := NewButtonWithShortcut("m", "mouse", nil)
	out := btn.Render()
	if !strings.Contains(out, "m") || !strings.Contains(out, "mouse") {
		t.Errorf("Expected shortcut and label in %q", out)
	}
	if btn.Width <= len("m mouse")-1 {
		t.Errorf("Expected width to be recorded, got %d", btn.Width)
	}
}

func TestListItem_Click(t *testing.T) {
	selected := false
	item := NewListItem("Item 1", func() tea.Cmd {
		selected = true
		return nil
	})

	item.SetBounds(0, 5, 20, 1)

	if !item.Contains(10, 5) {
		t.Error("ListItem should contain point inside bounds")
	}
	item.HandleClick(10, 5)
	if !selected {
		t.Error("ListItem should have been selected")
	}
}

func TestListItem_RenderTruncates(t *testing.T) {
	item := NewListItem(strings.Repeat("x", 50), nil)
	if got := item.Render(10); len(got) > 10 {
		t.Errorf("Expected at most 10 cells, got %q", got)
	}
	item.SetSelected(true)
	if !item.Selected() {
		t.Error("Expected item to be selected")
	}
}

func TestClickDispatcher(t *testing.T) {
	btnClicked := false
	btn := NewButtonWithShortcut("q", "quit", func() tea.Cmd {
		btnClicked = true
		return nil
	})
	btn.SetBounds(10, 10, 10, 1)

	listClicked := false
	list := NewListItem("List", func() tea.Cmd {
		listClicked = true
		return nil
	})
	list.SetBounds(0, 0, 10, 1)

	dispatcher := NewClickDispatcher(btn, list)

	dispatcher.HandleMouse(tea.MouseMsg{X: 15, Y: 10, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	if !btnClicked || listClicked {
		t.Errorf("Expected only the button to be clicked, got button=%v list=%v", btnClicked, listClicked)
	}

	btnClicked = false
	dispatcher.HandleMouse(tea.MouseMsg{X: 5, Y: 0, Action: tea.MouseActionRelease})
	if btnClicked || !listClicked {
		t.Errorf("Expected only the list item to be clicked, got button=%v list=%v", btnClicked, listClicked)
	}

	listClicked = false
	dispatcher.HandleMouse(tea.MouseMsg{X: 5, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	dispatcher.HandleMouse(tea.MouseMsg{X: 5, Y: 0, Action: tea.MouseActionRelease, Button: tea.MouseButtonRight})
	dispatcher.HandleMouse(tea.MouseMsg{X: 100, Y: 100, Action: tea.MouseActionRelease})
	if btnClicked || listClicked {
		t.Error("Nothing should have been clicked")
	}

	dispatcher.Clear()
	dispatcher.HandleMouse(tea.MouseMsg{X: 5, Y: 0, Action: tea.MouseActionRelease})
	if listClicked {
		t.Error("Cleared dispatcher should not route clicks")
	}
}
