package orchestrator

import (
	"time"

	"github.com/bryantinsley/tandem/pkg/launcher"
	"github.com/bryantinsley/tandem/pkg/logger"
	"github.com/bryantinsley/tandem/pkg/tasks"
	"github.com/bryantinsley/tandem/pkg/ui/components"
	"github.com/bryantinsley/tandem/pkg/ui/tasklist"
	tea "github.com/charmbracelet/bubbletea"
)

// DefaultSpinnerInterval is the spinner cadence when Options leaves it unset.
const DefaultSpinnerInterval = 100 * time.Millisecond

// Options configures a supervisor run.
type Options struct {
	Commands        []string
	Policy          KillPolicy
	SpinnerInterval time.Duration
	Spawner         launcher.Spawner
	Logger          logger.Logger
	// Headless disables input and mouse capture and quits once every task
	// has exited.
	Headless bool
}

// Messages
type quitRequestMsg struct{}
type toggleMouseMsg struct{}

type model struct {
	registry *tasks.Registry
	launcher *launcher.Launcher
	spinners *spinnerScheduler
	policy   KillPolicy
	log      logger.Logger

	pane        *logPane
	list        *tasklist.List
	mouseButton *components.Button
	quitButton  *components.Button
	statusClick *components.ClickDispatcher

	width        int
	height       int
	mouseEnabled bool
	headless     bool
	quitting     bool
}

func newModel(opts Options) model {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	interval := opts.SpinnerInterval
	if interval <= 0 {
		interval = DefaultSpinnerInterval
	}

	m := model{
		registry:     tasks.NewRegistry(opts.Commands),
		launcher:     launcher.New(opts.Spawner, log),
		spinners:     newSpinnerScheduler(len(opts.Commands), interval),
		policy:       opts.Policy,
		log:          log.With("component", "orchestrator"),
		pane:         newLogPane(),
		list:         tasklist.New(opts.Commands),
		width:        120,
		height:       30,
		mouseEnabled: !opts.Headless,
		headless:     opts.Headless,
	}
	m.mouseButton = components.NewButtonWithShortcut("m", "mouse", func() tea.Cmd {
		return func() tea.Msg { return toggleMouseMsg{} }
	})
	m.quitButton = components.NewButtonWithShortcut("q", "quit", func() tea.Cmd {
		return func() tea.Msg { return quitRequestMsg{} }
	})
	m.statusClick = components.NewClickDispatcher(m.mouseButton, m.quitButton)
	m.layout()
	return m
}

// Init launches every task and starts the spinners.
func (m model) Init() tea.Cmd {
	for _, t := range m.registry.All() {
		if err := m.launcher.Launch(t.Index, t.Command); err != nil {
			m.failSpawn(t.Index, err)
		}
	}
	m.showSelected()

	cmds := []tea.Cmd{waitForEvent(m.launcher.Events()), m.spinners.start()}
	if m.headless && len(m.registry.Running()) == 0 {
		cmds = append(cmds, m.shutdown())
	}
	return tea.Batch(cmds...)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.showSelected()

	case launcher.DataMsg:
		if m.appendOutput(msg.Task, msg.Chunk, msg.Stderr) {
			m.onData(msg.Task)
		}
		cmds = append(cmds, waitForEvent(m.launcher.Events()))

	case launcher.ExitMsg:
		cmds = append(cmds, m.handleExit(msg), waitForEvent(m.launcher.Events()))

	case spinnerTick:
		cmds = append(cmds, m.spinners.update(msg, m.registry))

	case tasklist.SelectMsg:
		m.selectTask(msg.Index)

	case toggleMouseMsg:
		cmds = append(cmds, m.toggleMouse())

	case quitRequestMsg:
		return m, m.shutdown()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, m.shutdown()
		case "up", "k":
			m.selectTask(m.registry.Selected() - 1)
		case "down", "j":
			m.selectTask(m.registry.Selected() + 1)
		case "m":
			cmds = append(cmds, m.toggleMouse())
		case "home":
			m.pane.GotoTop()
		case "end":
			m.pane.GotoBottom()
		case "pgup", "pgdown":
			cmds = append(cmds, m.pane.update(msg))
		}

	case tea.MouseMsg:
		if !m.mouseEnabled {
			break
		}
		if msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown {
			cmds = append(cmds, m.pane.update(msg))
			break
		}
		if cmd := m.list.Update(msg); cmd != nil {
			cmds = append(cmds, cmd)
		} else if cmd := m.statusClick.HandleMouse(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

func (m *model) toggleMouse() tea.Cmd {
	if m.headless {
		return nil
	}
	m.mouseEnabled = !m.mouseEnabled
	m.log.Debug("mouse capture toggled", "enabled", m.mouseEnabled)
	if m.mouseEnabled {
		return tea.EnableMouseCellMotion
	}
	return tea.DisableMouse
}

// waitForEvent delivers the next launcher event to the loop. Exactly one
// waiter is outstanding at a time, so events are handled in send order.
func waitForEvent(ch <-chan launcher.Event) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}
