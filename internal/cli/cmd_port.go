package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dcsteve24/go-utilities/internal/ports"
	"github.com/dcsteve24/go-utilities/internal/remote"
)

func newPortCommand(deps commandDeps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "port",
		Short: "Inspect listener ports on a host",
	}
	cmd.AddCommand(newPortPickCommand(deps))
	return cmd
}

func newPortPickCommand(deps commandDeps) *cobra.Command {
	var (
		host    string
		sshPort int
		min     int
		max     int
		exact   bool
	)

	cmd := &cobra.Command{
		Use:   "pick",
		Short: "Print the first port in a range not currently listening on a host",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 {
				return usageErrorf("port pick does not accept positional arguments")
			}

			cfg, logger, err := setup(deps)
			if err != nil {
				return mapCommandError(err)
			}
			if sshPort == 0 {
				sshPort = cfg.SSH.Port
			}
			if min == 0 {
				min = cfg.Ports.Min
			}
			if max == 0 {
				max = cfg.Ports.Max
			}

			if exact && !ports.IsLocalHost(host) {
				return usageErrorf("port pick --exact only works against the local host")
			}

			runner := remote.NewRunner()
			runner.Logger = logger
			picker := ports.NewPicker(runner)
			picker.Logger = logger

			var (
				port int
				ok   bool
			)
			if exact {
				port, ok, err = picker.PickExact(cmd.Context(), min, max)
			} else {
				port, ok, err = picker.Pick(cmd.Context(), ports.Request{
					Host:    host,
					SSHPort: sshPort,
					Min:     min,
					Max:     max,
				})
			}
			if err != nil {
				return mapCommandError(err)
			}
			if !ok {
				// The picker itself treats an exhausted range as a plain
				// no-result; the CLI still wants a distinct exit code for
				// scripting.
				return &ExitError{
					Code: ExitCodeNotFound,
					Err:  fmt.Errorf("no unused port in [%d, %d) on %s", min, max, hostOrLocal(host)),
				}
			}
			_, err = fmt.Fprintln(deps.out, port)
			return err
		},
	}

	cmd.Flags().StringVar(&host, "host", "local", "Host to inspect; \"local\" inspects this machine")
	cmd.Flags().IntVar(&sshPort, "ssh-port", 0, "SSH port (defaults to the configured port)")
	cmd.Flags().IntVar(&min, "min", 0, "Lowest candidate port, inclusive (defaults to configured range)")
	cmd.Flags().IntVar(&max, "max", 0, "Highest candidate port, exclusive (defaults to configured range)")
	cmd.Flags().BoolVar(&exact, "exact", false, "Use exact listener enumeration instead of the netstat scrape (local host only)")
	return cmd
}

func hostOrLocal(host string) string {
	if host == "" {
		return "local"
	}
	return host
}
