package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dcsteve24/go-utilities/internal/remote"
)

func newRemoteCommand(deps commandDeps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remote",
		Short: "Run commands on a remote Linux host over SSH",
	}
	cmd.AddCommand(newRemoteRunCommand(deps))
	return cmd
}

func newRemoteRunCommand(deps commandDeps) *cobra.Command {
	var (
		host          string
		sshPort       int
		tty           bool
		noCatchErrors bool
		bannerSize    int
	)

	cmd := &cobra.Command{
		Use:   "run [flags] COMMAND...",
		Short: "Run shell commands in order on a remote host and print the output",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return usageErrorf("remote run requires at least one command")
			}
			if strings.TrimSpace(host) == "" {
				return usageErrorf("remote run requires --host")
			}

			cfg, logger, err := setup(deps)
			if err != nil {
				return mapCommandError(err)
			}
			if sshPort == 0 {
				sshPort = cfg.SSH.Port
			}

			runner := remote.NewRunner()
			runner.Logger = logger
			lines, err := runner.Run(cmd.Context(), remote.Request{
				Host:        host,
				Port:        sshPort,
				Commands:    args,
				TTY:         tty,
				CatchErrors: !noCatchErrors,
				BannerSize:  bannerSize,
			})
			if err != nil {
				return mapCommandError(err)
			}
			for _, line := range lines {
				if _, err := fmt.Fprintln(deps.out, line); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "Hostname or IP to SSH into")
	cmd.Flags().IntVar(&sshPort, "ssh-port", 0, "SSH port (defaults to the configured port)")
	cmd.Flags().BoolVar(&tty, "tty", false, "Request a pseudo-terminal (needed for sudo and friends)")
	cmd.Flags().BoolVar(&noCatchErrors, "no-catch-errors", false, "Do not fail on stderr output; inspect the output yourself")
	cmd.Flags().IntVar(&bannerSize, "banner-size", 0, "Leading stderr lines to discard as login banner")
	return cmd
}
