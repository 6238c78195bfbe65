// Package cli: eval.go implements the "intervalset eval" command.
//
// The eval command applies operations written in compact form on the
// command line and prints the resulting set. It is the quickest way to
// try out how unions and removals interact.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/shinji-kodama/intervalset/internal/model"
	"github.com/shinji-kodama/intervalset/internal/script"
)

// evalFlags holds the flag values for the eval command.
type evalFlags struct {
	setFlags
	probes []string // --probe: values to classify
	expect string   // --expect: expected render
	verify bool     // --verify: compare with the reference evaluator
}

// NewEvalCommand creates the "eval" cobra command.
func NewEvalCommand() *cobra.Command {
	flags := &evalFlags{}

	cmd := &cobra.Command{
		Use:   "eval [flags] -- <op>...",
		Short: "Apply compact operations and print the set",
		Long: `Apply operations in compact form to an empty set and print the result.

  +[1,10)   add the interval 1 <= x < 10
  +(1,10]   add the interval 1 < x <= 10
  +7        add the point 7
  -5        remove the point 5

Operations starting with "-" look like flags, so put "--" before them.

Examples:
  intervalset eval -- +[1,10] -5
  intervalset eval --kind float --probe 0.5 -- +[0,1] -0.5
  intervalset eval --expect '[1,20],' -- '+[1,10]' '+(10,20]'`,

		Args: cobra.MinimumNArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(cmd, args, flags)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringArrayVar(&flags.probes, "probe", nil, "Value to classify after the operations (repeatable)")
	cmd.Flags().StringVar(&flags.expect, "expect", "", "Expected canonical render")
	cmd.Flags().BoolVar(&flags.verify, "verify", false, "Compare the set against the reference evaluator")

	return cmd
}

// runEval builds an in-memory script from the arguments and runs it.
func runEval(cmd *cobra.Command, args []string, flags *evalFlags) error {
	s := &script.Script{Name: "eval"}
	for _, arg := range args {
		op, err := script.ParseOperation(arg)
		if err != nil {
			return model.WrapCLIError(model.ExitInvalidScript, "invalid operation", err)
		}
		s.Operations = append(s.Operations, op)
	}
	for _, p := range flags.probes {
		s.Probes = append(s.Probes, script.Value(p))
	}
	if cmd.Flags().Changed("expect") {
		render := flags.expect
		s.Expect = &script.Expectation{Render: &render}
	}

	opts, err := flags.options(flags.verify)
	if err != nil {
		return err
	}
	res, err := script.Run(s, opts)
	if err != nil {
		return err
	}
	VerboseLog("Applied %d operations", len(s.Operations))

	out := cmd.OutOrStdout()
	if IsJSONOutput() {
		if err := printJSON(out, res); err != nil {
			return err
		}
	} else {
		printResultText(out, res)
	}

	if !res.Passed() {
		return model.NewCLIError(model.ExitExpectationFailed, "expectation failed")
	}
	if res.Verification != nil && !res.Verification.OK() {
		return model.NewCLIError(model.ExitVerifyFailed, "set disagrees with the reference evaluator")
	}
	return nil
}
