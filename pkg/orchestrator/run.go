package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// ErrNoCommands is returned when Run is given nothing to supervise.
var ErrNoCommands = errors.New("at least one command is required")

// Result summarises a finished run.
type Result struct {
	// ExitCodes holds each task's exit code in input order. Tasks still
	// running when the supervisor stopped are reported as -1.
	ExitCodes []int
	// WorstExitCode is the largest exit code, with negative codes counted
	// as 1.
	WorstExitCode int
}

// Run launches every command, shows the supervisor UI until the user quits
// (or, headless, until every task has exited) and makes sure no task
// outlives it.
func Run(ctx context.Context, opts Options) (Result, error) {
	if len(opts.Commands) == 0 {
		return Result{}, ErrNoCommands
	}
	if opts.Spawner == nil {
		return Result{}, errors.New("no spawner configured")
	}

	m := newModel(opts)
	m.log.Info("starting", "tasks", len(opts.Commands), "headless", opts.Headless,
		"kill_others", opts.Policy.KillOthers, "kill_others_on_fail", opts.Policy.KillOthersOnFail)

	progOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if opts.Headless {
		progOpts = append(progOpts, tea.WithInput(strings.NewReader("")), tea.WithOutput(os.Stderr))
	} else {
		progOpts = append(progOpts, tea.WithAltScreen(), tea.WithMouseCellMotion())
		if tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0); err == nil {
			tty.Close()
			progOpts = append(progOpts, tea.WithInputTTY())
		}
	}

	p := tea.NewProgram(m, progOpts...)
	_, runErr := p.Run()

	// Quitting through the UI already signalled every task; this covers
	// interrupts and a cancelled context.
	if n := m.launcher.KillAll(); n > 0 {
		m.log.Warn("killed tasks left running", "count", n)
	}
	m.launcher.Stop()

	res := result(m)
	m.log.Info("stopped", "worst_exit_code", res.WorstExitCode)
	if runErr != nil {
		return res, fmt.Errorf("supervisor stopped: %w", runErr)
	}
	return res, nil
}

func result(m model) Result {
	res := Result{WorstExitCode: m.registry.WorstExitCode()}
	for _, t := range m.registry.All() {
		code, ok := t.ExitCode()
		if !ok {
			code = -1
		}
		res.ExitCodes = append(res.ExitCodes, code)
	}
	return res
}
