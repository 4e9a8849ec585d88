package tasks

import (
	"fmt"
	"strings"
)

// State is the lifecycle state of a task. Running -> Exited is one-way.
type State int

const (
	StateRunning State = iota
	StateExited
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateExited:
		return "exited"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Task is one user-supplied command and its run state.
type Task struct {
	Index   int
	Command string

	state    State
	exitCode int
	chunks   []string
	content  strings.Builder
}

// State returns the current lifecycle state.
func (t *Task) State() State {
	return t.state
}

// Running reports whether the task has not exited yet.
func (t *Task) Running() bool {
	return t.state == StateRunning
}

// ExitCode returns the exit code and whether the task has exited.
func (t *Task) ExitCode() (int, bool) {
	return t.exitCode, t.state == StateExited
}

// Chunks returns a copy of the log chunks in arrival order.
func (t *Task) Chunks() []string {
	out := make([]string, len(t.chunks))
	copy(out, t.chunks)
	return out
}

// Content returns the full log accumulated so far.
func (t *Task) Content() string {
	return t.content.String()
}

func (t *Task) append(chunk string) {
	t.chunks = append(t.chunks, chunk)
	t.content.WriteString(chunk)
}

// ExitMarker is the terminal line appended when a task exits.
func ExitMarker(code int) string {
	return fmt.Sprintf("\nProcess exited with code %d\n", code)
}

// Registry is the fixed, ordered set of tasks plus the current selection.
// It is not safe for concurrent use; the supervisor loop owns it.
type Registry struct {
	tasks    []*Task
	selected int
}

// NewRegistry creates one Running task per command, in order.
func NewRegistry(commands []string) *Registry {
	r := &Registry{tasks: make([]*Task, len(commands))}
	for i, c := range commands {
		r.tasks[i] = &Task{Index: i, Command: c, state: StateRunning}
	}
	return r
}

// Len returns the number of tasks.
func (r *Registry) Len() int {
	return len(r.tasks)
}

// Get returns task i, or nil when i is out of range.
func (r *Registry) Get(i int) *Task {
	if i < 0 || i >= len(r.tasks) {
		return nil
	}
	return r.tasks[i]
}

// All returns the tasks in index order.
func (r *Registry) All() []*Task {
	out := make([]*Task, len(r.tasks))
	copy(out, r.tasks)
	return out
}

// Running returns the tasks that have not exited, in index order.
func (r *Registry) Running() []*Task {
	var out []*Task
	for _, t := range r.tasks {
		if t.Running() {
			out = append(out, t)
		}
	}
	return out
}

// SetSelection stores i clamped to [0, Len()-1] and returns the stored value.
func (r *Registry) SetSelection(i int) int {
	if i >= len(r.tasks) {
		i = len(r.tasks) - 1
	}
	if i < 0 {
		i = 0
	}
	r.selected = i
	return i
}

// Selected returns the selected index.
func (r *Registry) Selected() int {
	return r.selected
}

// SelectedTask returns the selected task, or nil for an empty registry.
func (r *Registry) SelectedTask() *Task {
	return r.Get(r.selected)
}

// Append adds chunk to the log of task i. Logs of exited tasks are
// immutable, so the call reports false for them.
func (r *Registry) Append(i int, chunk string) bool {
	t := r.Get(i)
	if t == nil || !t.Running() {
		return false
	}
	t.append(chunk)
	return true
}

// MarkExited moves task i to Exited with code and appends the exit marker.
// It reports false when the task was already exited.
func (r *Registry) MarkExited(i int, code int) bool {
	t := r.Get(i)
	if t == nil || !t.Running() {
		return false
	}
	t.append(ExitMarker(code))
	t.state = StateExited
	t.exitCode = code
	return true
}

// Fail moves task i to Exited with code, logging reason instead of output.
// Used when the command could not be started at all.
func (r *Registry) Fail(i int, code int, reason string) bool {
	t := r.Get(i)
	if t == nil || !t.Running() {
		return false
	}
	t.append(reason + "\n")
	t.state = StateExited
	t.exitCode = code
	return true
}

// WorstExitCode returns the highest non-zero exit code among exited tasks,
// counting negative sentinel codes as 1. It returns 0 when all exited
// tasks succeeded.
func (r *Registry) WorstExitCode() int {
	worst := 0
	for _, t := range r.tasks {
		code, exited := t.ExitCode()
		if !exited || code == 0 {
			continue
		}
		if code < 0 {
			code = 1
		}
		if code > worst {
			worst = code
		}
	}
	return worst
}
