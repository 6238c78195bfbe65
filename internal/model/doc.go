// Package model defines the value types shared across the intervalset CLI.
//
// This package contains pure data structures with no external dependencies:
// the value kinds a set can be built over (ValueKind), the operation names
// used by scripts (OperationKind), port pool requests and results
// (PortSpec, PortAllocation), and the exit codes (ExitCode) plus the
// custom error type (CLIError) used for process exit handling.
package model
