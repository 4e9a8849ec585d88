package e2e

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

type binaries struct {
	tandem   string
	fakeTask string
	dataDir  string
}

func setup(t *testing.T) binaries {
	t.Helper()
	if testing.Short() {
		t.Skip("e2e tests build binaries")
	}
	if _, err := exec.LookPath("go"); err != nil {
		t.Skip("go toolchain not available")
	}

	// Find project root
	root, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	for {
		if _, err := os.Stat(filepath.Join(root, "go.mod")); err == nil {
			break
		}
		parent := filepath.Dir(root)
		if parent == root {
			t.Fatal("could not find project root")
		}
		root = parent
	}

	binDir := t.TempDir()
	b := binaries{
		tandem:   filepath.Join(binDir, "tandem"),
		fakeTask: filepath.Join(binDir, "fake-task"),
		dataDir:  t.TempDir(),
	}
	buildBin(t, root, "./cmd/tandem", b.tandem)
	buildBin(t, root, "./tools/fake-task", b.fakeTask)
	return b
}

func buildBin(t *testing.T, root, pkg, dest string) {
	t.Helper()
	t.Logf("Building %s...", pkg)
	cmd := exec.Command("go", "build", "-o", dest, pkg)
	cmd.Dir = root
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("go build %s failed: %v\nOutput: %s", pkg, err, string(out))
	}
}

// run starts tandem and returns its exit code and combined output.
func (b binaries) run(t *testing.T, env []string, args ...string) (int, string) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, b.tandem, args...)
	cmd.Env = append(os.Environ(),
		"TANDEM_DIR="+b.dataDir,
		"TANDEM_SHELL=/bin/sh",
		"TANDEM_LOG_LEVEL=debug",
		"PATH="+filepath.Dir(b.fakeTask)+string(os.PathListSeparator)+os.Getenv("PATH"),
	)
	cmd.Env = append(cmd.Env, env...)
	out, err := cmd.CombinedOutput()
	if ctx.Err() != nil {
		t.Fatalf("tandem did not finish in time\nOutput: %s", out)
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return 0, string(out)
	case errors.As(err, &exitErr):
		return exitErr.ExitCode(), string(out)
	default:
		t.Fatalf("failed to run tandem: %v", err)
		return -1, ""
	}
}

func (b binaries) log(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(b.dataDir, "logs", "tandem.log"))
	if err != nil {
		t.Fatalf("failed to read diagnostic log: %v", err)
	}
	return string(data)
}

func TestTandemE2E(t *testing.T) {
	b := setup(t)

	t.Run("no commands", func(t *testing.T) {
		code, out := b.run(t, nil)
		if code == 0 {
			t.Errorf("Expected non-zero exit without commands, output: %s", out)
		}
		if !strings.Contains(out, "requires at least 1 arg") {
			t.Errorf("Expected usage error, got: %s", out)
		}
	})

	t.Run("help", func(t *testing.T) {
		code, out := b.run(t, nil, "--help")
		if code != 0 || !strings.Contains(out, "--kill-others") {
			t.Errorf("Unexpected help output (exit %d): %s", code, out)
		}
	})

	for _, mode := range []struct {
		name string
		env  []string
	}{
		{"pty", nil},
		{"pipes", []string{"TANDEM_NO_PTY=true"}},
	} {
		t.Run("headless mirrors worst exit code/"+mode.name, func(t *testing.T) {
			code, out := b.run(t, mode.env, "--headless", "--mirror-exit-code",
				"fake-task --name ok",
				"fake-task --name bad --stderr 1 --exit 3")
			if code != 3 {
				t.Errorf("Expected exit code 3, got %d\nOutput: %s", code, out)
			}
			if log := b.log(t); !strings.Contains(log, "task finished") {
				t.Errorf("Expected task exits in diagnostic log, got:\n%s", log)
			}
		})
	}

	t.Run("headless exits 0 without mirroring", func(t *testing.T) {
		code, out := b.run(t, nil, "--headless", "fake-task --exit 5")
		if code != 0 {
			t.Errorf("Expected exit code 0, got %d\nOutput: %s", code, out)
		}
	})

	t.Run("kill others stops a hanging task", func(t *testing.T) {
		start := time.Now()
		code, out := b.run(t, nil, "--headless", "--mirror-exit-code", "-k",
			"fake-task --name server --hang",
			"fake-task --name build --lines 1 --interval 200ms")
		if code != 143 {
			t.Errorf("Expected the killed task's 143 to be mirrored, got %d\nOutput: %s", code, out)
		}
		if elapsed := time.Since(start); elapsed > 20*time.Second {
			t.Errorf("Hanging task was not killed promptly (%s)", elapsed)
		}
		if log := b.log(t); !strings.Contains(log, "killing task") {
			t.Errorf("Expected kill propagation in diagnostic log, got:\n%s", log)
		}
	})

	t.Run("kill others on fail", func(t *testing.T) {
		code, out := b.run(t, nil, "--headless", "--mirror-exit-code", "--kill-others-on-fail",
			"fake-task --name server --hang",
			"fake-task --name check --lines 1 --interval 200ms --exit 2")
		if code != 143 {
			t.Errorf("Expected worst code 143 from the killed task, got %d\nOutput: %s", code, out)
		}
	})

	t.Run("missing shell", func(t *testing.T) {
		code, out := b.run(t, []string{"TANDEM_SHELL=/nonexistent/sh"}, "--headless", "true")
		if code != 1 || !strings.Contains(out, "shell not found") {
			t.Errorf("Expected shell error, got exit %d: %s", code, out)
		}
	})
}
