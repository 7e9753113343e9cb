package runner

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"logcheck/internal/rules"
)

func writeLog(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestTestName(t *testing.T) {
	assert.Equal(t, "PhysicalMemoryTest", TestName("logs/PhysicalMemoryTest.log"))
	assert.Equal(t, "CacheTest", TestName("/var/tmp/CacheTest.run1.log"))
	assert.Equal(t, "plain", TestName("plain"))
}

func TestRunFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("passing log", func(t *testing.T) {
		path := writeLog(t, dir, "PhysicalMemoryTest.log",
			"used_memory = 600\nfree_memory = 424\n")
		var buf bytes.Buffer
		r := &Runner{Rules: rules.Default(), Out: &buf, Logger: zap.NewNop()}

		ok, err := r.RunFile(path)

		require.NoError(t, err)
		assert.True(t, ok)
		assert.Contains(t, buf.String(), "✓ ALL VALIDATIONS PASSED")
	})

	t.Run("failing log", func(t *testing.T) {
		path := writeLog(t, dir, "PhysicalMemoryTest2.log",
			"used_memory = 600\nfree_memory = 400\n")
		var buf bytes.Buffer
		r := &Runner{Rules: rules.Default(), Out: &buf, Logger: zap.NewNop(),
			NameOverride: "PhysicalMemoryTest"}

		ok, err := r.RunFile(path)

		require.NoError(t, err)
		assert.False(t, ok)
		assert.Contains(t, buf.String(), "✗ SOME VALIDATIONS FAILED")
	})

	t.Run("name override selects checks", func(t *testing.T) {
		path := writeLog(t, dir, "run42.log", "hit_ratio = 1.5\n")
		var buf bytes.Buffer
		r := &Runner{Rules: rules.Default(), Out: &buf, Logger: zap.NewNop(),
			NameOverride: "CacheStress"}

		ok, err := r.RunFile(path)

		require.NoError(t, err)
		assert.False(t, ok)
		assert.Contains(t, buf.String(), "Validating: CacheStress")
	})

	t.Run("missing file propagates error", func(t *testing.T) {
		r := &Runner{Rules: rules.Default(), Out: &bytes.Buffer{}, Logger: zap.NewNop()}

		_, err := r.RunFile(filepath.Join(dir, "absent.log"))

		assert.Error(t, err)
	})
}

func TestRunAll(t *testing.T) {
	dir := t.TempDir()
	good := writeLog(t, dir, "PhysicalMemoryTest.log",
		"used_memory = 600\nfree_memory = 424\n")
	bad := writeLog(t, dir, "CacheTest.log", "hit_ratio = 1.5\n")
	neutral := writeLog(t, dir, "PageTableTest.log", "nothing to check\n")

	t.Run("counts failures", func(t *testing.T) {
		var buf bytes.Buffer
		r := &Runner{Rules: rules.Default(), Out: &buf, Logger: zap.NewNop()}

		failed, err := r.RunAll(context.Background(), []string{good, bad, neutral}, 2)

		require.NoError(t, err)
		assert.Equal(t, 1, failed)
	})

	t.Run("reports appear in input order", func(t *testing.T) {
		var buf bytes.Buffer
		r := &Runner{Rules: rules.Default(), Out: &buf, Logger: zap.NewNop()}

		_, err := r.RunAll(context.Background(), []string{bad, good}, 4)

		require.NoError(t, err)
		out := buf.String()
		first := strings.Index(out, "Validating: CacheTest")
		second := strings.Index(out, "Validating: PhysicalMemoryTest")
		require.NotEqual(t, -1, first)
		require.NotEqual(t, -1, second)
		assert.Less(t, first, second)
	})

	t.Run("read error aborts the batch", func(t *testing.T) {
		r := &Runner{Rules: rules.Default(), Out: &bytes.Buffer{}, Logger: zap.NewNop()}

		_, err := r.RunAll(context.Background(), []string{good, filepath.Join(dir, "gone.log")}, 1)

		assert.Error(t, err)
	})
}
