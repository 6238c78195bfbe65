// Package cli: apply.go implements the "intervalset apply" command.
//
// The apply command loads one or more operation scripts, runs each against
// an empty set, and reports the canonical render, probe statuses and
// expectation results. It exits with ExitExpectationFailed when any
// script's expectations do not hold.
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/intervalset/internal/model"
	"github.com/shinji-kodama/intervalset/internal/ordered"
	"github.com/shinji-kodama/intervalset/internal/script"
)

// setFlags holds the flags shared by every command that builds a set.
type setFlags struct {
	kind    string // --kind: value kind when the script names none
	backend string // --backend: ordered index implementation
	degree  int    // --degree: B-tree degree
}

func (f *setFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.kind, "kind", "",
		"Value kind: int, float, decimal, string (default from config)")
	cmd.Flags().StringVar(&f.backend, "backend", "",
		"Index backend: btree, slice (default from config)")
	cmd.Flags().IntVar(&f.degree, "degree", 0, "B-tree degree (default from config)")
}

// options merges the flags over the loaded configuration.
func (f *setFlags) options(verify bool) (script.Options, error) {
	opts := script.Options{
		Kind:    settings.ValueKind(),
		Backend: settings.IndexBackend(),
		Degree:  settings.BTreeDegree,
		Verify:  verify,
	}
	if f.kind != "" {
		kind, err := model.ParseValueKind(f.kind)
		if err != nil {
			return script.Options{}, model.WrapCLIError(model.ExitInvalidValue, "invalid --kind", err)
		}
		opts.Kind = kind
	}
	if f.backend != "" {
		backend, err := ordered.ParseBackend(f.backend)
		if err != nil {
			return script.Options{}, model.WrapCLIError(model.ExitGeneralError, "invalid --backend", err)
		}
		opts.Backend = backend
	}
	if f.degree != 0 {
		opts.Degree = f.degree
	}
	return opts, nil
}

// NewApplyCommand creates the "apply" cobra command.
func NewApplyCommand() *cobra.Command {
	flags := &setFlags{}

	cmd := &cobra.Command{
		Use:   "apply <script>...",
		Short: "Run operation scripts and check their expectations",
		Long: `Run one or more YAML or JSONC operation scripts.

Each script starts from an empty set, applies its operations in order,
and reports the canonical form, the status of every probe value, and any
expectation that did not hold.

Examples:
  intervalset apply testdata/split.yaml
  intervalset apply --kind decimal prices.jsonc
  intervalset apply --json a.yaml b.yaml`,

		Args: cobra.MinimumNArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(false)
			if err != nil {
				return err
			}
			return runScripts(cmd, args, opts, model.ExitExpectationFailed)
		},
	}
	flags.register(cmd)

	return cmd
}

// runScripts loads, validates and runs each script, prints the results,
// and returns a CLIError with failCode when any script did not pass.
func runScripts(cmd *cobra.Command, paths []string, opts script.Options, failCode model.ExitCode) error {
	results := make([]*script.Result, 0, len(paths))
	var failed []string

	for _, path := range paths {
		VerboseLog("Loading script %s", path)
		s, err := script.Load(path)
		if err != nil {
			return err
		}

		if errs := ValidationMessages(script.ValidateScript(s)); len(errs) > 0 {
			return model.NewCLIError(model.ExitInvalidScript,
				fmt.Sprintf("invalid script %s:\n  %s", path, strings.Join(errs, "\n  ")))
		}

		res, err := script.Run(s, opts)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		VerboseLog("Ran %d operations from %s: %d intervals, %d markers",
			len(s.Operations), path, res.Intervals, res.Markers)

		results = append(results, res)
		if !res.Passed() || (res.Verification != nil && !res.Verification.OK()) {
			failed = append(failed, res.Name)
		}
	}

	out := cmd.OutOrStdout()
	if IsJSONOutput() {
		if err := printJSON(out, map[string]interface{}{"results": results}); err != nil {
			return err
		}
	} else {
		for _, res := range results {
			printResultText(out, res)
		}
	}

	if len(failed) > 0 {
		return model.NewCLIError(failCode,
			fmt.Sprintf("%d of %d scripts failed: %s", len(failed), len(results), strings.Join(failed, ", ")))
	}
	return nil
}

// ValidationMessages converts validation errors to display strings.
func ValidationMessages(errs []script.ValidationError) []string {
	out := make([]string, 0, len(errs))
	for i := range errs {
		out = append(out, errs[i].Error())
	}
	return out
}
