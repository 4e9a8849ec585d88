package orchestrator

import (
	"fmt"

	"github.com/bryantinsley/tandem/pkg/ui/components"
	"github.com/bryantinsley/tandem/pkg/ui/styles"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	minListWidth = 20
	// title bar plus status bar
	chromeHeight = 2
	// rounded border on each side
	borderSize = 2
)

// logPane shows the log of the selected task.
type logPane struct {
	viewport.Model
	task    int
	content string
}

func newLogPane() *logPane {
	vp := viewport.New(80, 20)
	vp.MouseWheelEnabled = true
	return &logPane{Model: vp, task: -1}
}

func (p *logPane) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	p.Model, cmd = p.Model.Update(msg)
	return cmd
}

// show replaces the pane with the given task's log. follow keeps the view
// pinned to the newest line.
func (p *logPane) show(task int, content string, follow bool) {
	p.task = task
	p.content = content
	p.SetContent(displayText(content))
	if follow {
		p.GotoBottom()
	}
}

// layout sizes the list and the pane to the terminal and tells running
// tasks about the new pane size.
func (m *model) layout() {
	listWidth := m.width / 4
	if listWidth < minListWidth {
		listWidth = minListWidth
	}
	panelHeight := m.height - chromeHeight
	if panelHeight < borderSize+1 {
		panelHeight = borderSize + 1
	}
	paneWidth := m.width - listWidth - 2*borderSize
	if paneWidth < 1 {
		paneWidth = 1
	}
	innerHeight := panelHeight - borderSize

	m.list.SetSize(listWidth, innerHeight)
	m.list.SetOrigin(1, 2)
	m.pane.Width = paneWidth
	m.pane.Height = innerHeight
	m.launcher.Resize(innerHeight, paneWidth)
}

// selectTask moves the selection and shows that task's full log.
func (m *model) selectTask(i int) {
	prev := m.registry.Selected()
	i = m.registry.SetSelection(i)
	if i != prev {
		m.log.Debug("selected task", "task", i)
	}
	m.showSelected()
}

func (m *model) showSelected() {
	t := m.registry.SelectedTask()
	if t == nil {
		m.pane.show(-1, "", false)
		return
	}
	m.onData(t.Index)
}

// onData refreshes the pane when the selected task grew. A user who
// scrolled up keeps their position.
func (m *model) onData(index int) {
	if index != m.registry.Selected() {
		return
	}
	t := m.registry.Get(index)
	follow := m.pane.task != index || m.pane.AtBottom()
	m.pane.show(index, t.Content(), follow)
}

// glyph is the status marker in front of a task in the list.
func (m *model) glyph(i int) string {
	t := m.registry.Get(i)
	if t == nil {
		return " "
	}
	code, exited := t.ExitCode()
	switch {
	case !exited:
		return m.spinners.frame(i)
	case code == 0:
		return styles.StatusSuccessStyle.Render("✔")
	default:
		return styles.StatusFailureStyle.Render("✖")
	}
}

func (m model) View() string {
	title := m.renderTitle()

	listPanel := styles.PanelStyle.
		Width(m.list.Width()).
		Height(m.pane.Height).
		Render(m.list.View(m.registry.Selected(), m.glyph))

	logTitle := ""
	if t := m.registry.SelectedTask(); t != nil {
		logTitle = t.Command
	}
	logPanel := styles.PanelFocusedStyle.
		Width(m.pane.Width).
		Height(m.pane.Height).
		Render(m.pane.View())

	panels := lipgloss.JoinHorizontal(lipgloss.Top, listPanel, logPanel)
	statusBar := m.renderStatusBar(logTitle)

	return lipgloss.JoinVertical(lipgloss.Left, title, panels, statusBar)
}

func (m model) renderTitle() string {
	running := len(m.registry.Running())
	exited := m.registry.Len() - running
	return styles.TitleStyle.Render(fmt.Sprintf("tandem  %d running  %d exited", running, exited))
}

func (m model) renderStatusBar(command string) string {
	m.mouseButton.Active = m.mouseEnabled

	var rendered []string
	x := 1 // status bar padding
	for _, btn := range []*components.Button{m.mouseButton, m.quitButton} {
		out := btn.Render()
		w := lipgloss.Width(out)
		btn.SetBounds(x, m.height-1, w, 1)
		rendered = append(rendered, out)
		x += w
	}

	hint := styles.DimStyle.Render(" ↑/↓ select  pgup/pgdn scroll")
	if command != "" {
		hint += styles.DimStyle.Render("  " + command)
	}
	rendered = append(rendered, hint)

	return styles.StatusBarStyle.
		Width(m.width).
		MaxHeight(1).
		Render(lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
}
