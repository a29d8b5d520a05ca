package log

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func testRegistry(stdout *bytes.Buffer) *Registry {
	registry := NewRegistry()
	registry.stdout = stdout
	return registry
}

func TestGetCreatesLoggerAndWritesToFile(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "tool.log")
	registry := testRegistry(&bytes.Buffer{})

	logger, err := registry.Get("tool", Options{File: file, Level: "debug"})
	require.NoError(t, err)
	logger.Info("port picked", "port", 2049)

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	require.Contains(t, string(data), "port picked")
	require.Contains(t, string(data), "port=2049")
}

func TestGetReturnsSameLoggerForSameName(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "tool.log")
	registry := testRegistry(&bytes.Buffer{})

	first, err := registry.Get("tool", Options{File: file})
	require.NoError(t, err)
	// Second Get's options are ignored; the name is already configured.
	second, err := registry.Get("tool", Options{File: filepath.Join(t.TempDir(), "other.log"), Level: "error"})
	require.NoError(t, err)
	require.Same(t, first, second)
}

func TestLevelFiltersRecords(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "tool.log")
	registry := testRegistry(&bytes.Buffer{})

	logger, err := registry.Get("tool", Options{File: file, Level: "warn"})
	require.NoError(t, err)
	logger.Info("quiet")
	logger.Warn("loud")

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	require.NotContains(t, string(data), "quiet")
	require.Contains(t, string(data), "loud")
}

func TestEnableConsoleMirrorsToStdout(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "tool.log")
	var stdout bytes.Buffer
	registry := testRegistry(&stdout)

	logger, err := registry.Get("tool", Options{File: file})
	require.NoError(t, err)
	logger.Info("before console")
	require.NotContains(t, stdout.String(), "before console")

	require.NoError(t, registry.EnableConsole("tool"))
	logger.Info("after console")
	require.Contains(t, stdout.String(), "after console")

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	require.Contains(t, string(data), "after console")
}

func TestEnableConsoleUnknownNameFails(t *testing.T) {
	t.Parallel()

	registry := testRegistry(&bytes.Buffer{})
	err := registry.EnableConsole("nope")
	require.Error(t, err)
	require.Contains(t, err.Error(), `"nope"`)
}

func TestConsoleOptInViaLaterGet(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "tool.log")
	var stdout bytes.Buffer
	registry := testRegistry(&stdout)

	logger, err := registry.Get("tool", Options{File: file})
	require.NoError(t, err)

	_, err = registry.Get("tool", Options{Console: true})
	require.NoError(t, err)
	logger.Info("mirrored")
	require.Contains(t, stdout.String(), "mirrored")
}

func TestGetRejectsBadLevel(t *testing.T) {
	t.Parallel()

	registry := testRegistry(&bytes.Buffer{})
	_, err := registry.Get("tool", Options{File: filepath.Join(t.TempDir(), "x.log"), Level: "verbose"})
	require.Error(t, err)
	require.Contains(t, err.Error(), `"verbose"`)
}

func TestParseLevelAliases(t *testing.T) {
	t.Parallel()

	for _, alias := range []string{"warn", "warning", "WARNING"} {
		level, err := ParseLevel(alias)
		require.NoError(t, err)
		require.Equal(t, slog.LevelWarn, level)
	}
	critical, err := ParseLevel("critical")
	require.NoError(t, err)
	fatal, err2 := ParseLevel("fatal")
	require.NoError(t, err2)
	require.Equal(t, critical, fatal)
}
