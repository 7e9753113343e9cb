// Package runner loads captured test logs from disk and drives the
// validator over them, one run per file.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"logcheck/internal/report"
	"logcheck/internal/rules"
	"logcheck/internal/validator"
)

// ErrChecksFailed is returned when a log was read and validated but at
// least one check did not pass. Callers map it to exit status 1 without
// printing anything further; the report already explains the failure.
var ErrChecksFailed = errors.New("validation checks failed")

// Runner validates log files against one rule set.
type Runner struct {
	Rules  rules.Set
	Out    io.Writer
	Logger *zap.Logger

	// NameOverride replaces the test name derived from the file name.
	NameOverride string
}

// TestName derives the test name from a log path: the base name up to
// the first dot. Category labels embedded in it select which checks run.
func TestName(path string) string {
	name, _, _ := strings.Cut(filepath.Base(path), ".")
	return name
}

// RunFile reads one log file, validates it, prints the report and final
// banner, and returns the verdict. Read failures propagate as errors.
func (r *Runner) RunFile(path string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("failed to read log file: %w", err)
	}

	name := r.NameOverride
	if name == "" {
		name = TestName(path)
	}

	v := validator.New(r.Rules, r.Out)
	start := time.Now()
	ok := v.Validate(name, string(data))

	r.Logger.Debug("validation run complete",
		zap.String("log", path),
		zap.String("test", name),
		zap.Int("bytes", len(data)),
		zap.Bool("passed", ok),
		zap.Duration("elapsed", time.Since(start)))
	for _, check := range v.Vacuous() {
		r.Logger.Debug("check passed without evidence",
			zap.String("log", path),
			zap.String("check", check))
	}

	report.Banner(r.Out, ok)
	return ok, nil
}

// RunAll validates several log files, at most jobs at a time. Each run
// writes into its own buffer so reports never interleave; they are
// flushed to r.Out in input order. Returns the number of files whose
// verdict was false. A read error on any file aborts the batch.
func (r *Runner) RunAll(ctx context.Context, paths []string, jobs int) (int, error) {
	if jobs < 1 {
		jobs = 1
	}

	bufs := make([]*bytes.Buffer, len(paths))
	verdicts := make([]bool, len(paths))

	eg, _ := errgroup.WithContext(ctx)
	eg.SetLimit(jobs)
	for i, path := range paths {
		eg.Go(func() error {
			buf := &bytes.Buffer{}
			bufs[i] = buf
			sub := Runner{Rules: r.Rules, Out: buf, Logger: r.Logger}
			ok, err := sub.RunFile(path)
			if err != nil {
				return err
			}
			verdicts[i] = ok
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return 0, err
	}

	failed := 0
	for i := range paths {
		if _, err := io.Copy(r.Out, bufs[i]); err != nil {
			return 0, fmt.Errorf("failed to flush report: %w", err)
		}
		if !verdicts[i] {
			failed++
		}
	}
	return failed, nil
}
