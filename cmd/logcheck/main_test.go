package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logcheck/internal/runner"
)

// runCLI executes the root command with the given args, capturing the
// report output. Global flag state is reset so cases stay independent.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var buf bytes.Buffer
	prev := out
	out = &buf
	t.Cleanup(func() { out = prev })

	verbose = false
	rulesPath = ""
	testName = ""
	jobs = 4

	if args == nil {
		// SetArgs(nil) falls back to os.Args; force "no arguments".
		args = []string{}
	}
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func writeLog(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRootPassingLog(t *testing.T) {
	path := writeLog(t, "PhysicalMemoryTest.log", "used_memory = 600\nfree_memory = 424\n")

	output, err := runCLI(t, path)

	require.NoError(t, err)
	assert.Contains(t, output, "✓ ALL VALIDATIONS PASSED")
}

func TestRootFailingLog(t *testing.T) {
	path := writeLog(t, "PhysicalMemoryTest.log", "used_memory = 600\nfree_memory = 400\n")

	output, err := runCLI(t, path)

	assert.True(t, errors.Is(err, runner.ErrChecksFailed))
	assert.Contains(t, output, "✗ SOME VALIDATIONS FAILED")
}

func TestRootMissingArgument(t *testing.T) {
	_, err := runCLI(t)
	assert.Error(t, err)
}

func TestRootMissingFile(t *testing.T) {
	_, err := runCLI(t, filepath.Join(t.TempDir(), "absent.log"))

	require.Error(t, err)
	assert.False(t, errors.Is(err, runner.ErrChecksFailed),
		"I/O errors are not check failures")
}

func TestRootTestNameOverride(t *testing.T) {
	path := writeLog(t, "run42.log", "hit_ratio = 1.5\n")

	output, err := runCLI(t, "--test-name", "CacheStress", path)

	assert.True(t, errors.Is(err, runner.ErrChecksFailed))
	assert.Contains(t, output, "Validating: CacheStress")
}

func TestRootRulesOverride(t *testing.T) {
	rules := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(rules, []byte("expected_total_memory: 2048\n"), 0644))
	path := writeLog(t, "PhysicalMemoryTest.log", "used_memory = 1024\nfree_memory = 1024\n")

	output, err := runCLI(t, "--rules", rules, path)

	require.NoError(t, err)
	assert.Contains(t, output, "Memory invariant holds: used + free = 2048")
}

func TestBatchMixedVerdicts(t *testing.T) {
	good := writeLog(t, "PhysicalMemoryTest.log", "used_memory = 600\nfree_memory = 424\n")
	bad := writeLog(t, "CacheTest.log", "hit_ratio = 1.5\n")

	output, err := runCLI(t, "batch", good, bad)

	assert.True(t, errors.Is(err, runner.ErrChecksFailed))
	assert.Contains(t, output, "1 of 2 logs passed validation")
}

func TestBatchAllPassing(t *testing.T) {
	a := writeLog(t, "PhysicalMemoryTest.log", "used_memory = 512\nfree_memory = 512\n")
	b := writeLog(t, "BuddyTest.log", "allocated_size = 64\n")

	output, err := runCLI(t, "batch", a, b)

	require.NoError(t, err)
	assert.Contains(t, output, "2 of 2 logs passed validation")
}
