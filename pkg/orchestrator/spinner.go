package orchestrator

import (
	"time"

	"github.com/bryantinsley/tandem/pkg/tasks"
	"github.com/bryantinsley/tandem/pkg/ui/styles"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

type spinnerTick = spinner.TickMsg

// spinnerScheduler runs one spinner per task. Each spinner has its own ID
// and timer chain; a tick for an exited task is dropped, which ends that
// chain and freezes the frame.
type spinnerScheduler struct {
	spinners []spinner.Model
	byID     map[int]int
	stopped  bool
}

func newSpinnerScheduler(n int, interval time.Duration) *spinnerScheduler {
	s := &spinnerScheduler{
		spinners: make([]spinner.Model, n),
		byID:     make(map[int]int, n),
	}
	frames := spinner.Spinner{Frames: spinner.MiniDot.Frames, FPS: interval}
	for i := range s.spinners {
		s.spinners[i] = spinner.New(
			spinner.WithSpinner(frames),
			spinner.WithStyle(styles.StatusRunningStyle),
		)
		s.byID[s.spinners[i].ID()] = i
	}
	return s
}

// start arms the first tick of every spinner.
func (s *spinnerScheduler) start() tea.Cmd {
	cmds := make([]tea.Cmd, len(s.spinners))
	for i := range s.spinners {
		cmds[i] = s.spinners[i].Tick
	}
	return tea.Batch(cmds...)
}

// update advances the spinner the tick belongs to, if its task is still
// running, and returns the next tick.
func (s *spinnerScheduler) update(msg spinnerTick, registry *tasks.Registry) tea.Cmd {
	if s.stopped {
		return nil
	}
	i, ok := s.byID[msg.ID]
	if !ok {
		return nil
	}
	if t := registry.Get(i); t == nil || !t.Running() {
		return nil
	}
	var cmd tea.Cmd
	s.spinners[i], cmd = s.spinners[i].Update(msg)
	return cmd
}

// frame returns the current glyph of spinner i.
func (s *spinnerScheduler) frame(i int) string {
	if i < 0 || i >= len(s.spinners) {
		return ""
	}
	return s.spinners[i].View()
}

// stop drops every later tick so no timer re-arms.
func (s *spinnerScheduler) stop() {
	s.stopped = true
}
