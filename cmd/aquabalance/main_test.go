package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TobiasBrasser/aquabalance/internal/models"
	"github.com/TobiasBrasser/aquabalance/internal/tracker"
)

// setupWorkspace points the CLI at a fresh SQLite database.
func setupWorkspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("AQUABALANCE_CONFIG", "")
	t.Setenv("AQUABALANCE_STORAGE", "sqlite")
	t.Setenv("AQUABALANCE_DB_PATH", filepath.Join(dir, "aquabalance.db"))
	t.Setenv("LOG_LEVEL", "error")
	return dir
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), args, &stdout, &stderr)
	return stdout.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := runCLI(t, args...)
	require.NoError(t, err, "aquabalance %s", strings.Join(args, " "))
	return out
}

func TestCLI_ProfileAndLogging(t *testing.T) {
	setupWorkspace(t)

	out := mustRun(t, "profile", "show")
	assert.Contains(t, out, "No profile saved yet")

	out = mustRun(t, "profile", "set", "--weight", "70", "--activity", "0.4", "--climate", "0,2")
	assert.Contains(t, out, "Daily target: 2.40 L")
	assert.Contains(t, out, "Reference:    3.70 L")
	assert.Contains(t, out, "0.00 / 2.40 L")

	out = mustRun(t, "profile", "show")
	assert.Contains(t, out, "Weight:    70 kg")
	assert.Contains(t, out, "Gender:    male")

	out = mustRun(t, "log", "2")
	assert.Contains(t, out, "2.00 / 2.40 L")
	assert.NotContains(t, out, "Daily goal reached")

	out = mustRun(t, "log", "1000ml")
	assert.Contains(t, out, "2.40 / 2.40 L (100%)")
	assert.Contains(t, out, "Daily goal reached!")

	out = mustRun(t, "status")
	assert.Contains(t, out, "[####################]")

	out = mustRun(t, "history", "list")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3, "reset from profile set plus two entries")
	assert.Contains(t, lines[0], "reset")

	out = mustRun(t, "history", "summary")
	assert.Contains(t, out, "Total:         2.40 L")
	assert.Contains(t, out, "Entries:       2")

	out = mustRun(t, "reset")
	assert.Contains(t, out, "0.00 / 2.40 L")
}

func TestCLI_Errors(t *testing.T) {
	setupWorkspace(t)

	_, err := runCLI(t, "profile", "set", "--weight", "20")
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = runCLI(t, "profile", "set")
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = runCLI(t, "log", "abc")
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = runCLI(t, "log", "-0.5")
	assert.Error(t, err)

	out := mustRun(t, "edit")
	assert.Contains(t, out, "Editing")

	_, err = runCLI(t, "log", "0.1")
	assert.ErrorIs(t, err, tracker.ErrNotLogging)

	_, err = runCLI(t, "history", "export", "--format", "pdf")
	assert.Error(t, err)
}

func TestCLI_Export(t *testing.T) {
	dir := setupWorkspace(t)

	mustRun(t, "log", "0.5")
	mustRun(t, "log", "0.25")

	out := mustRun(t, "history", "export")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "ID,"))
	assert.True(t, strings.HasSuffix(lines[2], ",0.75,0.25"))

	path := filepath.Join(dir, "history.xlsx")
	mustRun(t, "history", "export", "--format", "xlsx", "-o", path)
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}
