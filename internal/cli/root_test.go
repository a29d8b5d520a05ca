package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dcsteve24/go-utilities/internal/ports"
	"github.com/dcsteve24/go-utilities/internal/remote"
)

func testBuildInfo() BuildInfo {
	return BuildInfo{Version: "1.2.3", Commit: "abc123", BuildTime: "2026-08-29T00:00:00Z"}
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCommand(&out, testBuildInfo())
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func exitCode(err error) int {
	var withExit interface{ ExitCode() int }
	if errors.As(err, &withExit) {
		return withExit.ExitCode()
	}
	return ExitCodeGeneric
}

func TestVersionCommandOutputsBuildInfo(t *testing.T) {
	t.Parallel()

	out, err := runCLI(t, "version")
	require.NoError(t, err)
	require.Contains(t, out, "version=1.2.3")
	require.Contains(t, out, "commit=abc123")
}

func TestVersionCommandOutputsJSON(t *testing.T) {
	t.Parallel()

	out, err := runCLI(t, "version", "--json")
	require.NoError(t, err)

	var payload BuildInfo
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	require.Equal(t, "1.2.3", payload.Version)
	require.Equal(t, "abc123", payload.Commit)
}

func TestRootHasTopLevelCommands(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	cmd := NewRootCommand(&out, testBuildInfo())

	for _, name := range []string{"remote", "port", "convert", "parse-time", "doctor", "version"} {
		_, _, err := cmd.Find([]string{name})
		require.NoErrorf(t, err, "expected command %q", name)
	}
}

func TestRootHasGlobalFlags(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	cmd := NewRootCommand(&out, testBuildInfo())

	for _, name := range []string{"config", "log-level", "console"} {
		require.NotNilf(t, cmd.PersistentFlags().Lookup(name), "missing flag %q", name)
	}
}

func TestConvertCommandAppliesOperation(t *testing.T) {
	t.Parallel()

	out, err := runCLI(t, "convert", "hex_to_decimal", "ff")
	require.NoError(t, err)
	require.Equal(t, "255\n", out)
}

func TestConvertCommandRejectsUnknownOperation(t *testing.T) {
	t.Parallel()

	_, err := runCLI(t, "convert", "rot13", "abc")
	require.Error(t, err)
	require.Equal(t, ExitCodeGeneric, exitCode(err))
}

func TestConvertListPrintsOperations(t *testing.T) {
	t.Parallel()

	out, err := runCLI(t, "convert", "list")
	require.NoError(t, err)
	require.Contains(t, out, "binary_to_hex")
	require.Contains(t, out, "mhz_to_hz")
}

func TestParseTimeCommand(t *testing.T) {
	t.Parallel()

	out, err := runCLI(t, "parse-time", "2021-09-04 12:30:45")
	require.NoError(t, err)
	require.Contains(t, out, "2021-09-04T12:30:45Z")
}

func TestParseTimeCommandRejectsUnknownFormat(t *testing.T) {
	t.Parallel()

	_, err := runCLI(t, "parse-time", "yesterday")
	require.Error(t, err)
	require.Contains(t, err.Error(), "yesterday")
}

func TestRemoteRunRequiresHost(t *testing.T) {
	t.Parallel()

	_, err := runCLI(t, "remote", "run", "uptime")
	require.Error(t, err)
	require.Equal(t, ExitCodeUsage, exitCode(err))
}

func TestRemoteRunRequiresCommands(t *testing.T) {
	t.Parallel()

	_, err := runCLI(t, "remote", "run", "--host", "node1")
	require.Error(t, err)
	require.Equal(t, ExitCodeUsage, exitCode(err))
}

func TestPortPickRejectsPositionalArgs(t *testing.T) {
	t.Parallel()

	_, err := runCLI(t, "port", "pick", "8080")
	require.Error(t, err)
	require.Equal(t, ExitCodeUsage, exitCode(err))
}

func TestDoctorReportsToolPaths(t *testing.T) {
	origCheck := checkSSHBinary
	origLook := lookPath
	t.Cleanup(func() {
		checkSSHBinary = origCheck
		lookPath = origLook
	})
	checkSSHBinary = func(remote.BinaryCheckDeps) (*remote.BinaryInfo, error) {
		return &remote.BinaryInfo{Path: "/usr/bin/ssh", Version: "OpenSSH_9.6p1"}, nil
	}
	lookPath = func(string) (string, error) { return "/usr/bin/netstat", nil }

	out, err := runCLI(t, "doctor")
	require.NoError(t, err)
	require.Contains(t, out, "ssh: /usr/bin/ssh (OpenSSH_9.6p1)")
	require.Contains(t, out, "netstat: /usr/bin/netstat")
}

func TestDoctorWritesBundle(t *testing.T) {
	origCheck := checkSSHBinary
	origLook := lookPath
	t.Cleanup(func() {
		checkSSHBinary = origCheck
		lookPath = origLook
	})
	checkSSHBinary = func(remote.BinaryCheckDeps) (*remote.BinaryInfo, error) {
		return &remote.BinaryInfo{Path: "/usr/bin/ssh", Version: "OpenSSH_9.6p1"}, nil
	}
	lookPath = func(string) (string, error) { return "", errors.New("not found") }

	bundlePath := filepath.Join(t.TempDir(), "bundle.json")
	out, err := runCLI(t, "doctor", "--bundle", bundlePath)
	require.NoError(t, err)
	require.Contains(t, out, "wrote debug bundle")

	raw, err := os.ReadFile(bundlePath)
	require.NoError(t, err)
	require.Contains(t, string(raw), `"ssh"`)
	require.Contains(t, string(raw), `"1.2.3"`)
}

func TestDoctorFailsWithDependencyExitCodeWhenSSHMissing(t *testing.T) {
	origCheck := checkSSHBinary
	t.Cleanup(func() { checkSSHBinary = origCheck })
	checkSSHBinary = func(remote.BinaryCheckDeps) (*remote.BinaryInfo, error) {
		return nil, &remote.ExitError{
			Code:    remote.ExitCodeDependencyUnavailable,
			Message: "OpenSSH client not found; install OpenSSH and retry",
			Err:     remote.ErrDependencyUnavailable,
		}
	}

	_, err := runCLI(t, "doctor")
	require.Error(t, err)
	require.Equal(t, ExitCodeDependencyMissing, exitCode(err))
}

func TestMapCommandErrorTranslatesCommandNotFound(t *testing.T) {
	t.Parallel()

	err := mapCommandError(&ports.CommandNotFoundError{Host: "node1"})
	require.Equal(t, ExitCodeDependencyMissing, exitCode(err))
}
