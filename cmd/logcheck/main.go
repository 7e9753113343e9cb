package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"logcheck/internal/rules"
	"logcheck/internal/runner"
	"logcheck/internal/watch"
)

var (
	// Global flags
	verbose   bool
	rulesPath string
	testName  string

	// Batch flags
	jobs int

	// Logger
	logger *zap.Logger

	// Report destination, overridable in tests
	out io.Writer = os.Stdout
)

// rootCmd validates a single captured test log.
var rootCmd = &cobra.Command{
	Use:   "logcheck [test-output-file]",
	Short: "Validate captured test output against domain invariants",
	Long: `logcheck scans the captured textual output of a test run and checks
that the simulator's invariants hold across every occurrence found in
the text:

  - used_memory + free_memory equals the configured total
  - every hit_ratio lies in [0, 1]
  - virtual and physical offsets survive address translation unchanged
  - allocation sizes are powers of two
  - every [EXPECTED] value equals its [ACTUAL] counterpart

Which invariant checks run is selected by category labels embedded in
the test name (PhysicalMemory, Cache, VirtualMemory, Buddy); the
expected/actual comparison always runs. The test name is derived from
the log file's base name unless --test-name overrides it.

Exits 0 when every applicable check passes and 1 otherwise.`,
	Example: `  logcheck logs/PhysicalMemoryTest.log
  logcheck --rules rules.yaml --test-name CacheStress logs/run42.log`,
	Args:          cobra.ExactArgs(1),
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: validateLog,
}

// batchCmd validates several logs in one invocation.
var batchCmd = &cobra.Command{
	Use:   "batch [test-output-files...]",
	Short: "Validate several test logs and report how many failed",
	Long: `Validates each given log file as an independent run, printing the
reports in argument order. Runs execute concurrently up to --jobs, but
each individual log is still scanned single-threaded.

Exits 0 when every log passes and 1 when any log fails.`,
	Example: `  logcheck batch logs/*.log
  logcheck batch --jobs 4 logs/PhysicalMemoryTest.log logs/CacheTest.log`,
	Args: cobra.MinimumNArgs(1),
	RunE: validateBatch,
}

// watchCmd re-validates a log whenever it changes.
var watchCmd = &cobra.Command{
	Use:   "watch [test-output-file]",
	Short: "Re-validate a test log every time it changes on disk",
	Long: `Validates the log once, then watches it and re-runs the validation
after every write. Useful while iterating on the simulator: keep the
watcher in one terminal and re-run the tests in another.

Runs until interrupted; the exit status does not reflect verdicts.`,
	Args: cobra.ExactArgs(1),
	RunE: watchLog,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&rulesPath, "rules", "", "YAML rules file overriding the built-in expectations")
	rootCmd.PersistentFlags().StringVar(&testName, "test-name", "", "Test name override (default: log file base name)")

	batchCmd.Flags().IntVar(&jobs, "jobs", 4, "Maximum logs validated concurrently")

	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(watchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, runner.ErrChecksFailed) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

// newRunner resolves the rule set and builds a Runner for the commands.
func newRunner() (*runner.Runner, error) {
	set := rules.Default()
	if rulesPath != "" {
		var err error
		set, err = rules.Load(rulesPath)
		if err != nil {
			return nil, err
		}
		logger.Debug("loaded rules file", zap.String("path", rulesPath))
	}
	return &runner.Runner{
		Rules:        set,
		Out:          out,
		Logger:       logger,
		NameOverride: testName,
	}, nil
}

func validateLog(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	r, err := newRunner()
	if err != nil {
		return err
	}
	ok, err := r.RunFile(args[0])
	if err != nil {
		return err
	}
	if !ok {
		return runner.ErrChecksFailed
	}
	return nil
}

func validateBatch(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	r, err := newRunner()
	if err != nil {
		return err
	}
	failed, err := r.RunAll(cmd.Context(), args, jobs)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\n%d of %d logs passed validation\n", len(args)-failed, len(args))
	if failed > 0 {
		return runner.ErrChecksFailed
	}
	return nil
}

func watchLog(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	r, err := newRunner()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("Received shutdown signal")
		cancel()
	}()

	revalidate := func() {
		ok, err := r.RunFile(args[0])
		if err != nil {
			logger.Warn("validation run failed", zap.Error(err))
			return
		}
		logger.Debug("revalidated on change", zap.Bool("passed", ok))
	}
	revalidate()

	w, err := watch.New(args[0], revalidate)
	if err != nil {
		return err
	}
	logger.Info("watching log file", zap.String("path", args[0]))
	return w.Run(ctx)
}
