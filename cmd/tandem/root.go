package main

import (
	"fmt"
	"io"

	"github.com/bryantinsley/tandem/pkg/config"
	"github.com/bryantinsley/tandem/pkg/launcher"
	"github.com/bryantinsley/tandem/pkg/logger"
	"github.com/bryantinsley/tandem/pkg/orchestrator"
	"github.com/spf13/cobra"
)

type flags struct {
	killOthers       bool
	killOthersOnFail bool
	mirrorExitCode   bool
	headless         bool
	logLevel         string
}

// exitCode carries a non-zero process status out of RunE without printing
// an error.
type exitCode int

func (e exitCode) Error() string {
	return fmt.Sprintf("exit status %d", int(e))
}

// runFunc is swapped out in tests.
var runFunc = orchestrator.Run

func newRootCmd() *cobra.Command {
	f := &flags{}
	cmd := &cobra.Command{
		Use:   "tandem [flags] <command> [command...]",
		Short: "Run several shell commands side by side",
		Long: `tandem starts every command at once and shows them in a terminal UI:
a task list with live status on the left, the selected task's output on the
right. Optionally, the remaining tasks are stopped when one finishes.`,
		Example: `  tandem "npm run dev" "go run ./cmd/api"
  tandem -k "make test" "docker compose up"`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, f, args)
		},
	}

	fs := cmd.Flags()
	fs.BoolVarP(&f.killOthers, "kill-others", "k", false, "kill the other tasks when one exits with code 0")
	fs.BoolVar(&f.killOthersOnFail, "kill-others-on-fail", false, "kill the other tasks when one exits with a non-zero code")
	fs.BoolVar(&f.mirrorExitCode, "mirror-exit-code", false, "exit with the worst exit code of the tasks")
	fs.BoolVar(&f.headless, "headless", false, "no keyboard input, quit once every task has exited")
	fs.StringVar(&f.logLevel, "log-level", "", "diagnostic log level (debug, info, warn, error)")
	return cmd
}

func run(cmd *cobra.Command, f *flags, commands []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if f.logLevel != "" {
		switch logger.LogLevel(f.logLevel) {
		case logger.DebugLevel, logger.InfoLevel, logger.WarnLevel, logger.ErrorLevel:
			cfg.Log.Level = f.logLevel
		default:
			return fmt.Errorf("invalid log level %q", f.logLevel)
		}
	}

	log, closeLog := openLogger(cfg, cmd.ErrOrStderr())
	defer closeLog()

	if err := launcher.CheckShell(cfg.Shell); err != nil {
		return err
	}

	res, err := runFunc(cmd.Context(), orchestrator.Options{
		Commands: commands,
		Policy: orchestrator.KillPolicy{
			KillOthers:       f.killOthers,
			KillOthersOnFail: f.killOthersOnFail,
		},
		SpinnerInterval: cfg.SpinnerInterval,
		Spawner:         launcher.NewShellSpawner(cfg.Shell, cfg.NoPTY, log),
		Logger:          log,
		Headless:        f.headless,
	})
	if err != nil {
		return err
	}
	if f.mirrorExitCode && res.WorstExitCode != 0 {
		return exitCode(res.WorstExitCode)
	}
	return nil
}

// openLogger writes diagnostics to the log file under the config dir. When
// the file cannot be opened the run continues without diagnostics.
func openLogger(cfg *config.Config, stderr io.Writer) (logger.Logger, func()) {
	file, err := logger.OpenFile(cfg.LogPath())
	if err != nil {
		fmt.Fprintf(stderr, "warning: logging disabled: %v\n", err)
		return logger.Nop(), func() {}
	}
	log := logger.NewLogger(&logger.Config{
		Level:      logger.LogLevel(cfg.Log.Level),
		Output:     file,
		JSON:       cfg.Log.JSON,
		TimeFormat: "2006-01-02 15:04:05",
	})
	return log, func() { file.Close() }
}
