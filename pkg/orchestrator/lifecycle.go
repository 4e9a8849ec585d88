package orchestrator

import (
	"github.com/bryantinsley/tandem/pkg/launcher"
	"github.com/bryantinsley/tandem/pkg/tasks"
	tea "github.com/charmbracelet/bubbletea"
)

// KillPolicy decides which tasks to terminate when another one exits.
type KillPolicy struct {
	// KillOthers kills the remaining tasks when any task exits with 0.
	KillOthers bool
	// KillOthersOnFail kills the remaining tasks when any task exits non-zero.
	KillOthersOnFail bool
}

// Targets returns the tasks to kill after task exited has exited. It only
// reads current states, so evaluating it again for a later exit yields the
// tasks still running at that point; the launcher turns repeat kills into
// no-ops.
func (p KillPolicy) Targets(registry *tasks.Registry, exited int) []int {
	t := registry.Get(exited)
	if t == nil {
		return nil
	}
	code, ok := t.ExitCode()
	if !ok {
		return nil
	}
	if !(p.KillOthers && code == 0) && !(p.KillOthersOnFail && code != 0) {
		return nil
	}
	var targets []int
	for _, other := range registry.Running() {
		if other.Index != exited {
			targets = append(targets, other.Index)
		}
	}
	return targets
}

// handleExit moves a task to Exited and applies the kill policy.
func (m *model) handleExit(msg launcher.ExitMsg) tea.Cmd {
	if !m.registry.MarkExited(msg.Task, msg.Code) {
		return nil
	}
	m.log.Info("task finished", "task", msg.Task, "code", msg.Code)

	// The status glyph is derived from the task state on every render.
	if msg.Task == m.registry.Selected() {
		m.showSelected()
	}

	for _, i := range m.policy.Targets(m.registry, msg.Task) {
		if m.launcher.Kill(i) {
			m.log.Info("killing task", "task", i, "because", msg.Task, "code", msg.Code)
		}
	}

	if m.headless && len(m.registry.Running()) == 0 {
		return m.shutdown()
	}
	return nil
}

// failSpawn records a task whose command could not be started. Other tasks
// are not affected, so the kill policy is not evaluated.
func (m *model) failSpawn(index int, err error) {
	if m.registry.Fail(index, launcher.SpawnFailedCode, err.Error()) {
		m.log.Error("task failed to start", "task", index, "error", err)
	}
}

// shutdown stops the spinners, signals every task still running, and quits.
func (m *model) shutdown() tea.Cmd {
	if !m.quitting {
		m.quitting = true
		m.spinners.stop()
		killed := 0
		for _, t := range m.registry.Running() {
			if m.launcher.Kill(t.Index) {
				killed++
			}
		}
		m.log.Info("shutting down", "killed", killed)
	}
	return tea.Quit
}
