package remote

import (
	"fmt"
	"os/exec"
	"strings"
)

type BinaryInfo struct {
	Path    string
	Version string
}

type BinaryCheckDeps struct {
	LookPath   func(file string) (string, error)
	GetVersion func(path string) (string, error)
}

// CheckBinary verifies an OpenSSH client is on PATH and reports where it
// lives and what it identifies as. Every remote operation here rides on
// that client, so this runs as a preflight rather than failing mid-session.
func CheckBinary(deps BinaryCheckDeps) (*BinaryInfo, error) {
	lookPath := deps.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	getVersion := deps.GetVersion
	if getVersion == nil {
		getVersion = defaultVersionReader
	}

	path, err := lookPath("ssh")
	if err != nil {
		return nil, &ExitError{
			Code:    ExitCodeDependencyUnavailable,
			Message: "OpenSSH client not found; install OpenSSH and retry",
			Err:     ErrDependencyUnavailable,
		}
	}
	version, err := getVersion(path)
	if err != nil {
		return nil, fmt.Errorf("check ssh binary version: %w", err)
	}

	return &BinaryInfo{
		Path:    path,
		Version: version,
	}, nil
}

func defaultVersionReader(path string) (string, error) {
	cmd := exec.Command(path, "-V")
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("run %s -V: %w", path, err)
	}
	return strings.TrimSpace(string(output)), nil
}
