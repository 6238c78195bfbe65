// Package cli implements the cobra-based CLI commands for intervalset.
//
// Each subcommand (apply, eval, verify, ports) is defined in its own file
// within this package. This file defines the root command that serves as
// the parent for all subcommands and handles global flags, configuration
// loading and error reporting.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/shinji-kodama/intervalset/internal/config"
	"github.com/shinji-kodama/intervalset/internal/domain"
	"github.com/shinji-kodama/intervalset/internal/model"
	"github.com/shinji-kodama/intervalset/internal/script"
)

// Global flag variables shared across all subcommands.
// These are bound to cobra persistent flags on the root command,
// which makes them available to every subcommand automatically.
var (
	// jsonOutput controls whether command output is formatted as JSON.
	jsonOutput bool

	// verbose enables debug logging on stderr.
	verbose bool

	// configPath overrides the configuration file location.
	configPath string

	// noColor disables coloured text output regardless of configuration.
	noColor bool
)

// settings is the configuration loaded before any subcommand runs.
var settings config.Config

// logger writes verbose diagnostics to stderr. Its level is raised to
// debug by --verbose.
var logger = logrus.New()

// version, commit, and date are set at build time via ldflags.
// They are injected from the main package to display version information.
var (
	// Version is the semantic version of the binary (e.g., "1.0.0").
	Version = "dev"

	// Commit is the Git commit hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// NewRootCommand creates and configures the root cobra command.
// This is the entry point for the entire CLI application.
//
// The root command itself does not perform any action; it only provides
// help text and global flags. Actual functionality is provided by
// subcommands (apply, eval, verify, ports).
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "intervalset",
		Short: "Ordered sets of points and intervals",
		Long: `intervalset maintains subsets of an ordered value domain as canonical
intervals with open or closed bounds, plus single-value overrides.

Run operation scripts, evaluate operations from the command line, verify
the set against a brute-force reference, or manage port reservations
stored as interval sets.`,

		// SilenceUsage prevents cobra from printing usage on every error.
		SilenceUsage: true,

		// SilenceErrors prevents cobra from printing errors automatically.
		// We format errors ourselves (text or JSON based on --json flag).
		SilenceErrors: true,

		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),

		// PersistentPreRunE loads configuration once for every subcommand.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup(cmd.ErrOrStderr())
		},
	}

	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Config file (default: $INTERVALSET_CONFIG or ~/.config/intervalset/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable coloured output")

	rootCmd.AddCommand(NewApplyCommand())
	rootCmd.AddCommand(NewEvalCommand())
	rootCmd.AddCommand(NewVerifyCommand())
	rootCmd.AddCommand(NewPortsCommand())

	return rootCmd
}

// setup configures logging, loads configuration and applies the colour
// preference.
func setup(stderr io.Writer) error {
	logger.SetOutput(stderr)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.WarnLevel)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to load configuration", err)
	}
	settings = cfg
	VerboseLog("Loaded configuration: kind=%s backend=%s degree=%d",
		cfg.Kind, cfg.Backend, cfg.BTreeDegree)

	switch {
	case noColor || cfg.Color == "never":
		color.NoColor = true
	case cfg.Color == "always":
		color.NoColor = false
	}
	return nil
}

// Execute runs the root command and handles exit codes.
// This is the main entry point called from main.go.
//
// It inspects errors returned by cobra commands and translates them
// into appropriate OS exit codes. CLIError types carry their own
// exit codes; other errors are classified by toCLIError.
func Execute(rootCmd *cobra.Command) {
	if err := rootCmd.Execute(); err != nil {
		cliErr := toCLIError(err)
		printError(rootCmd.ErrOrStderr(), cliErr.Message, cliErr.Err)
		os.Exit(int(cliErr.Code))
	}
}

// toCLIError attaches an exit code to err. Errors that already are (or
// wrap) a CLIError keep theirs; value and operation errors get
// ExitInvalidValue and ExitInvalidScript; anything else is a general error.
func toCLIError(err error) *model.CLIError {
	var cliErr *model.CLIError
	if errors.As(err, &cliErr) {
		return cliErr
	}
	switch {
	case domain.IsValueError(err):
		return model.WrapCLIError(model.ExitInvalidValue, "invalid value", err)
	case domain.Is(err, script.ErrInvalidOperation, script.ErrUnsupportedFormat, domain.ErrUnknownKind):
		return model.WrapCLIError(model.ExitInvalidScript, "invalid script", err)
	default:
		return model.NewCLIError(model.ExitGeneralError, err.Error())
	}
}

// printError outputs an error message in the appropriate format
// (JSON or text) based on the --json global flag.
func printError(w io.Writer, message string, underlying error) {
	if jsonOutput {
		errObj := map[string]interface{}{
			"error": map[string]interface{}{
				"message": message,
			},
		}
		if underlying != nil {
			if errMap, ok := errObj["error"].(map[string]interface{}); ok {
				errMap["detail"] = underlying.Error()
			}
		}
		// Errors go to stderr even in JSON mode, because stdout is reserved
		// for successful command output.
		data, _ := json.MarshalIndent(errObj, "", "  ")
		fmt.Fprintln(w, string(data))
		return
	}

	if underlying != nil {
		fmt.Fprintf(w, "%s %s: %v\n", color.RedString("Error:"), message, underlying)
	} else {
		fmt.Fprintf(w, "%s %s\n", color.RedString("Error:"), message)
	}
}

// VerboseLog writes a debug message to stderr; it is only shown when
// verbose mode is enabled.
func VerboseLog(format string, args ...interface{}) {
	logger.Debugf(format, args...)
}

// IsJSONOutput returns whether the --json flag is set.
// Subcommands use this to decide their output format.
func IsJSONOutput() bool {
	return jsonOutput
}
