package cli

import (
	"fmt"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/dcsteve24/go-utilities/internal/debug"
	"github.com/dcsteve24/go-utilities/internal/remote"
)

// swapped in tests
var (
	checkSSHBinary = remote.CheckBinary
	lookPath       = exec.LookPath
)

func newDoctorCommand(deps commandDeps, build BuildInfo) *cobra.Command {
	var bundlePath string

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check that the external tools the helpers ride on are present",
		RunE: func(cmd *cobra.Command, args []string) error {
			bundle := debug.NewBundle()
			bundle.Version = map[string]any{
				"version":    build.Version,
				"commit":     build.Commit,
				"build_time": build.BuildTime,
			}

			info, sshErr := checkSSHBinary(remote.BinaryCheckDeps{})
			if sshErr != nil {
				bundle.AddCheck("ssh", false, sshErr.Error())
			} else {
				bundle.AddCheck("ssh", true, fmt.Sprintf("%s (%s)", info.Path, info.Version))
				fmt.Fprintf(deps.out, "ssh: %s (%s)\n", info.Path, info.Version)
			}

			if path, err := lookPath("netstat"); err == nil {
				bundle.AddCheck("netstat", true, path)
				fmt.Fprintf(deps.out, "netstat: %s\n", path)
			} else {
				// Only local port picks need it on this machine; remote
				// picks need it on the target instead.
				bundle.AddCheck("netstat", false, "not found")
				fmt.Fprintln(deps.out, "netstat: not found (port pick against the local host will fail)")
			}

			if bundlePath != "" {
				if err := debug.WriteBundle(bundlePath, bundle); err != nil {
					return mapCommandError(err)
				}
				fmt.Fprintf(deps.out, "wrote debug bundle to %s\n", bundlePath)
			}
			if sshErr != nil {
				return mapCommandError(sshErr)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&bundlePath, "bundle", "", "Also write a JSON debug bundle to this path")
	return cmd
}
