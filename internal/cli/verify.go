// Package cli: verify.go implements the "intervalset verify" command.
//
// The verify command runs scripts like apply, then compares the resulting
// set with a brute-force replay of the operations on every boundary value
// and its immediate neighbours. Any disagreement, or any broken structural
// invariant, exits with ExitVerifyFailed.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/shinji-kodama/intervalset/internal/model"
)

// NewVerifyCommand creates the "verify" cobra command.
func NewVerifyCommand() *cobra.Command {
	flags := &setFlags{}

	cmd := &cobra.Command{
		Use:   "verify <script>...",
		Short: "Check scripts against a brute-force reference evaluator",
		Long: `Run one or more scripts and compare the resulting set against a
reference that replays every operation for each sampled value.

Samples are every interval endpoint and point in the script, the values
immediately next to them, and the script's probe values.

Examples:
  intervalset verify testdata/*.yaml
  intervalset verify --backend slice --kind float random.yaml`,

		Args: cobra.MinimumNArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(true)
			if err != nil {
				return err
			}
			return runScripts(cmd, args, opts, model.ExitVerifyFailed)
		},
	}
	flags.register(cmd)

	return cmd
}
