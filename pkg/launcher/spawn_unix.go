//go:build unix

package launcher

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"syscall"

	"github.com/creack/pty"

	"github.com/bryantinsley/tandem/pkg/logger"
)

var errNoPTY = errors.New("pseudo-terminal unavailable")

const (
	defaultRows = 24
	defaultCols = 80
)

// ShellSpawner runs each command with `<shell> -c`, on a pseudo-terminal
// when possible and on plain pipes otherwise.
type ShellSpawner struct {
	Shell string
	NoPTY bool
	Log   logger.Logger

	mu         sync.Mutex
	rows, cols int
}

func NewShellSpawner(shell string, noPTY bool, log logger.Logger) *ShellSpawner {
	if log == nil {
		log = logger.Nop()
	}
	return &ShellSpawner{
		Shell: shell,
		NoPTY: noPTY,
		Log:   log.With("component", "spawner"),
		rows:  defaultRows,
		cols:  defaultCols,
	}
}

// Resize sets the size used for pseudo-terminals spawned from now on.
func (s *ShellSpawner) Resize(rows, cols int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows, s.cols = rows, cols
	return nil
}

func (s *ShellSpawner) Spawn(command string) (Handle, error) {
	if !s.NoPTY {
		h, err := s.spawnPTY(command)
		if err == nil {
			return h, nil
		}
		if !errors.Is(err, errNoPTY) {
			return nil, err
		}
		s.Log.Warn("falling back to pipes", "error", err)
	}
	return s.spawnPipes(command)
}

func (s *ShellSpawner) command(command string) *exec.Cmd {
	cmd := exec.Command(s.Shell, "-c", command)
	cmd.Env = Environ(os.Environ())
	return cmd
}

func (s *ShellSpawner) spawnPTY(command string) (Handle, error) {
	ptmx, tty, err := pty.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errNoPTY, err)
	}
	defer tty.Close()

	s.mu.Lock()
	size := &pty.Winsize{Rows: uint16(s.rows), Cols: uint16(s.cols)}
	s.mu.Unlock()
	if err := pty.Setsize(ptmx, size); err != nil {
		s.Log.Debug("setsize failed", "error", err)
	}

	cmd := s.command(command)
	cmd.Stdin, cmd.Stdout, cmd.Stderr = tty, tty, tty
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true, Setctty: true}
	if err := cmd.Start(); err != nil {
		ptmx.Close()
		return nil, err
	}
	return &ptyHandle{cmd: cmd, ptmx: ptmx}, nil
}

func (s *ShellSpawner) spawnPipes(command string) (Handle, error) {
	cmd := s.command(command)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return &pipeHandle{cmd: cmd, stdout: stdout, stderr: stderr}, nil
}

type ptyHandle struct {
	cmd  *exec.Cmd
	ptmx *os.File
}

func (h *ptyHandle) Wait(emit func([]byte, bool)) int {
	buf := make([]byte, 32*1024)
	for {
		n, err := h.ptmx.Read(buf)
		if n > 0 {
			emit(buf[:n], false)
		}
		// EIO once the child side is closed.
		if err != nil {
			break
		}
	}
	code := exitCode(h.cmd.Wait())
	h.ptmx.Close()
	return code
}

func (h *ptyHandle) Kill() error { return killGroup(h.cmd.Process) }

func (h *ptyHandle) Pid() int { return h.cmd.Process.Pid }

func (h *ptyHandle) Resize(rows, cols int) error {
	return pty.Setsize(h.ptmx, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)})
}

type pipeHandle struct {
	cmd    *exec.Cmd
	stdout io.Reader
	stderr io.Reader
}

func (h *pipeHandle) Wait(emit func([]byte, bool)) int {
	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	read := func(r io.Reader, stderr bool) {
		defer wg.Done()
		buf := make([]byte, 32*1024)
		for {
			n, err := r.Read(buf)
			if n > 0 {
				mu.Lock()
				emit(buf[:n], stderr)
				mu.Unlock()
			}
			if err != nil {
				return
			}
		}
	}
	wg.Add(2)
	go read(h.stdout, false)
	go read(h.stderr, true)
	// Both pipes must be drained before Wait closes them.
	wg.Wait()
	return exitCode(h.cmd.Wait())
}

func (h *pipeHandle) Kill() error { return killGroup(h.cmd.Process) }

func (h *pipeHandle) Pid() int { return h.cmd.Process.Pid }

// killGroup sends SIGTERM to the process group led by p, so shells and the
// commands they started go down together.
func killGroup(p *os.Process) error {
	if err := syscall.Kill(-p.Pid, syscall.SIGTERM); err != nil {
		return p.Signal(syscall.SIGTERM)
	}
	return nil
}

// exitCode maps a Wait error to a shell-style exit code: 128+signal for
// signaled processes, -1 when the status is unknown.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
			return 128 + int(ws.Signal())
		}
		return exitErr.ExitCode()
	}
	return -1
}
