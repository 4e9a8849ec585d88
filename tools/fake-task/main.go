// fake-task is a scriptable child process for exercising tandem: it prints
// lines on stdout and stderr, draws a carriage-return progress bar, and exits
// with a chosen code or hangs until signaled.
package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/pflag"
)

func main() {
	os.Exit(run(os.Stdout, os.Stderr, os.Getenv, os.Args[1:], waitForSignal))
}

func waitForSignal() string {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGTERM, syscall.SIGINT)
	return (<-sig).String()
}

func run(stdout, stderr io.Writer, getEnv func(string) string, args []string, wait func() string) int {
	fs := pflag.NewFlagSet("fake-task", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	name := fs.String("name", "fake-task", "prefix for every line")
	lines := fs.Int("lines", 3, "number of stdout lines")
	errLines := fs.Int("stderr", 0, "number of stderr lines")
	interval := fs.Duration("interval", 0, "pause between lines")
	progress := fs.Bool("progress", false, "draw a progress bar with carriage returns")
	color := fs.Bool("color", false, "color stdout when FORCE_COLOR is set")
	exitCode := fs.Int("exit", 0, "exit code")
	hang := fs.Bool("hang", false, "keep running until terminated")
	version := fs.Bool("version", false, "show version")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *version {
		fmt.Fprintln(stdout, "fake-task v0.1.0")
		return 0
	}

	switch strings.ToLower(getEnv("FAKE_TASK_MODE")) {
	case "fail":
		*exitCode = 1
	case "hang":
		*hang = true
	}

	colored := *color && getEnv("FORCE_COLOR") != ""
	for i := 1; i <= *lines; i++ {
		line := fmt.Sprintf("%s: line %d", *name, i)
		if colored {
			line = "\x1b[32m" + line + "\x1b[0m"
		}
		fmt.Fprintln(stdout, line)
		pause(*interval)
	}
	for i := 1; i <= *errLines; i++ {
		fmt.Fprintf(stderr, "%s: warning %d\n", *name, i)
		pause(*interval)
	}
	if *progress {
		for pct := 0; pct <= 100; pct += 25 {
			fmt.Fprintf(stdout, "\r%s: %3d%%", *name, pct)
			pause(*interval)
		}
		fmt.Fprintln(stdout)
	}

	if *hang {
		fmt.Fprintf(stdout, "%s: waiting\n", *name)
		fmt.Fprintf(stdout, "%s: got %s\n", *name, wait())
		return 143
	}
	return *exitCode
}

func pause(d time.Duration) {
	if d > 0 {
		time.Sleep(d)
	}
}
