package launcher

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrShellNotFound is returned by CheckShell when the shell cannot be run.
var ErrShellNotFound = errors.New("shell not found")

// forcedColor makes common tools emit color even though their output is
// captured.
var forcedColor = []string{"FORCE_COLOR=1", "CLICOLOR_FORCE=1"}

// Environ returns base plus the forced-color indicators, and a TERM value
// when base has none.
func Environ(base []string) []string {
	env := make([]string, 0, len(base)+len(forcedColor)+1)
	hasTerm := false
	for _, kv := range base {
		if strings.HasPrefix(kv, "TERM=") && kv != "TERM=" {
			hasTerm = true
		}
		env = append(env, kv)
	}
	env = append(env, forcedColor...)
	if !hasTerm {
		env = append(env, "TERM=xterm-256color")
	}
	return env
}

// CheckShell verifies that shell resolves to an executable before any task
// is started.
func CheckShell(shell string) error {
	if shell == "" {
		return fmt.Errorf("%w: empty shell", ErrShellNotFound)
	}
	if _, err := exec.LookPath(shell); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrShellNotFound, shell, err)
	}
	return nil
}
