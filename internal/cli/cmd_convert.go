package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dcsteve24/go-utilities/internal/convert"
)

func newConvertCommand(deps commandDeps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert OPERATION VALUE",
		Short: "Convert a string value and print the converted string value",
		Long: "Convert a string value and print the converted string value.\n" +
			"Run \"goutil convert list\" for the available operations.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := convert.Apply(args[0], args[1])
			if err != nil {
				return mapCommandError(err)
			}
			_, err = fmt.Fprintln(deps.out, result)
			return err
		},
	}
	cmd.AddCommand(newConvertListCommand(deps))
	return cmd
}

func newConvertListCommand(deps commandDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the available conversion operations",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range convert.Names() {
				if _, err := fmt.Fprintln(deps.out, name); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newParseTimeCommand(deps commandDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "parse-time VALUE",
		Short: "Parse a timestamp string against the known formats",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := convert.ParseTimestamp(args[0])
			if err != nil {
				return mapCommandError(err)
			}
			_, err = fmt.Fprintln(deps.out, parsed.Format(time.RFC3339Nano))
			return err
		},
	}
}
