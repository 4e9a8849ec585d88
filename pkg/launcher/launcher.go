package launcher

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/bryantinsley/tandem/pkg/logger"
)

// SpawnFailedCode is the exit code recorded for a command that never started.
const SpawnFailedCode = -1

// Event is a message produced by a running task's handle.
type Event interface {
	TaskIndex() int
}

// DataMsg carries one chunk of output, in arrival order for its stream.
type DataMsg struct {
	Task   int
	Chunk  string
	Stderr bool
}

// ExitMsg is sent exactly once per launched task, after all its DataMsgs.
type ExitMsg struct {
	Task int
	Code int
}

func (m DataMsg) TaskIndex() int { return m.Task }
func (m ExitMsg) TaskIndex() int { return m.Task }

// Handle is one running process.
type Handle interface {
	// Wait streams output to emit until the process is gone and returns its
	// exit code. The chunk passed to emit is only valid during the call.
	Wait(emit func(chunk []byte, stderr bool)) int
	// Kill sends a termination signal. It does not wait.
	Kill() error
	Pid() int
}

// Resizer is implemented by handles attached to a pseudo-terminal.
type Resizer interface {
	Resize(rows, cols int) error
}

// Spawner starts a command.
type Spawner interface {
	Spawn(command string) (Handle, error)
}

type process struct {
	handle   Handle
	signaled atomic.Bool
	done     atomic.Bool
}

// Launcher owns the process handles of all tasks and funnels their output
// and exit into a single channel.
type Launcher struct {
	spawner Spawner
	events  chan Event
	stop    chan struct{}
	stopped sync.Once
	log     logger.Logger

	mu    sync.Mutex
	procs map[int]*process
}

// New creates a launcher. The events channel is buffered; producers block
// when the consumer falls behind.
func New(spawner Spawner, log logger.Logger) *Launcher {
	if log == nil {
		log = logger.Nop()
	}
	return &Launcher{
		spawner: spawner,
		events:  make(chan Event, 256),
		stop:    make(chan struct{}),
		log:     log.With("component", "launcher"),
		procs:   make(map[int]*process),
	}
}

// Events is the channel every DataMsg and ExitMsg is delivered on.
func (l *Launcher) Events() <-chan Event {
	return l.events
}

// Launch spawns command for task index and starts pumping its output.
// A spawn failure is returned and no events are sent for the task.
func (l *Launcher) Launch(index int, command string) error {
	h, err := l.spawner.Spawn(command)
	if err != nil {
		l.log.Warn("spawn failed", "task", index, "command", command, "error", err)
		return fmt.Errorf("failed to start %q: %w", command, err)
	}

	p := &process{handle: h}
	l.mu.Lock()
	l.procs[index] = p
	l.mu.Unlock()

	l.log.Info("task started", "task", index, "pid", h.Pid(), "command", command)

	go func() {
		code := h.Wait(func(chunk []byte, stderr bool) {
			l.send(DataMsg{Task: index, Chunk: string(chunk), Stderr: stderr})
		})
		p.done.Store(true)
		l.log.Info("task exited", "task", index, "code", code)
		l.send(ExitMsg{Task: index, Code: code})
	}()
	return nil
}

func (l *Launcher) send(ev Event) {
	select {
	case l.events <- ev:
	case <-l.stop:
	}
}

// Stop discards every later event so readers can drain their processes
// after the consumer has gone away. Call it once nothing reads Events.
func (l *Launcher) Stop() {
	l.stopped.Do(func() { close(l.stop) })
}

// Kill signals task index. It is a no-op returning false when the task was
// never launched, has already exited, or has already been signaled.
func (l *Launcher) Kill(index int) bool {
	l.mu.Lock()
	p, ok := l.procs[index]
	l.mu.Unlock()
	if !ok || p.done.Load() {
		return false
	}
	if !p.signaled.CompareAndSwap(false, true) {
		return false
	}
	if err := p.handle.Kill(); err != nil {
		l.log.Debug("kill failed", "task", index, "error", err)
	} else {
		l.log.Info("kill issued", "task", index)
	}
	return true
}

// KillAll signals every live, not yet signaled task and returns how many
// signals were sent.
func (l *Launcher) KillAll() int {
	l.mu.Lock()
	indices := make([]int, 0, len(l.procs))
	for i := range l.procs {
		indices = append(indices, i)
	}
	l.mu.Unlock()

	n := 0
	for _, i := range indices {
		if l.Kill(i) {
			n++
		}
	}
	return n
}

// Resize applies a terminal size to every live pseudo-terminal.
func (l *Launcher) Resize(rows, cols int) {
	if rows <= 0 || cols <= 0 {
		return
	}
	if r, ok := l.spawner.(Resizer); ok {
		_ = r.Resize(rows, cols)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	for i, p := range l.procs {
		if p.done.Load() {
			continue
		}
		r, ok := p.handle.(Resizer)
		if !ok {
			continue
		}
		if err := r.Resize(rows, cols); err != nil {
			l.log.Debug("resize failed", "task", i, "error", err)
		}
	}
}
