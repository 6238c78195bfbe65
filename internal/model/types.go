// Package model defines the shared value types for the intervalset CLI.
//
// These types are used for passing data between the script runner, the
// port pool and the CLI commands. None of them carry behaviour beyond
// parsing, validation and formatting.
package model

import (
	"fmt"
	"strings"
)

// ValueKind names the value domain a set is built over. The kind decides
// how operation arguments are parsed, ordered and printed.
type ValueKind string

const (
	// KindInt is the 64-bit signed integer domain.
	KindInt ValueKind = "int"

	// KindFloat is the float64 domain. NaN is rejected at parse time
	// because it is not equal to itself and therefore has no position in
	// the order.
	KindFloat ValueKind = "float"

	// KindDecimal is the arbitrary precision decimal domain.
	// Example: "0.1" is stored exactly, unlike the float64 0.1.
	KindDecimal ValueKind = "decimal"

	// KindString is the byte-wise lexicographic string domain.
	KindString ValueKind = "string"
)

// String returns the string representation of ValueKind.
func (k ValueKind) String() string {
	return string(k)
}

// IsValid checks whether the ValueKind value is one of the predefined kinds.
func (k ValueKind) IsValid() bool {
	switch k {
	case KindInt, KindFloat, KindDecimal, KindString:
		return true
	default:
		return false
	}
}

// ParseValueKind converts a string to a ValueKind.
// Returns an error if the string does not match any valid kind.
func ParseValueKind(s string) (ValueKind, error) {
	kind := ValueKind(strings.ToLower(strings.TrimSpace(s)))
	if !kind.IsValid() {
		return "", fmt.Errorf("invalid value kind: %q (valid: int, float, decimal, string)", s)
	}
	return kind, nil
}

// OperationKind names a set mutation.
type OperationKind string

const (
	// OpAdd unions a point or an interval into the set.
	OpAdd OperationKind = "add"

	// OpRemove subtracts a single point from the set.
	OpRemove OperationKind = "remove"
)

// String returns the string representation of OperationKind.
func (o OperationKind) String() string {
	return string(o)
}

// IsValid checks whether the OperationKind value is one of the predefined
// operations.
func (o OperationKind) IsValid() bool {
	return o == OpAdd || o == OpRemove
}

// ParseOperationKind converts a string to an OperationKind. The symbols
// "+" and "-" are accepted as aliases.
func ParseOperationKind(s string) (OperationKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "add", "+":
		return OpAdd, nil
	case "remove", "-":
		return OpRemove, nil
	default:
		return "", fmt.Errorf("invalid operation: %q (valid: add, remove)", s)
	}
}

// PortAllocation represents a single host port handed out by the port pool.
type PortAllocation struct {
	// ServiceName identifies who asked for the port.
	ServiceName string `json:"serviceName"`

	// RequestedPort is the preferred port. The allocator starts searching
	// here and moves upward.
	RequestedPort int `json:"requestedPort"`

	// HostPort is the port number actually assigned (1-65535).
	HostPort int `json:"hostPort"`

	// Protocol is the network protocol. Defaults to "tcp". Also supports "udp".
	Protocol string `json:"protocol"`

	// Label is an optional human-readable description for this port.
	Label string `json:"label,omitempty"`
}

// Validate checks whether the PortAllocation has valid field values.
// It verifies port number ranges and protocol values.
func (p *PortAllocation) Validate() error {
	if p.ServiceName == "" {
		return fmt.Errorf("port allocation: service name must not be empty")
	}
	if p.HostPort < 1 || p.HostPort > 65535 {
		return fmt.Errorf("port allocation: host port %d out of range (1-65535)", p.HostPort)
	}
	if p.Protocol == "" {
		p.Protocol = "tcp"
	}
	if err := ValidateProtocol(p.Protocol); err != nil {
		return fmt.Errorf("port allocation: %w", err)
	}
	return nil
}

// String returns a human-readable representation of the port allocation.
// Format: "service → hostPort/protocol"
func (p *PortAllocation) String() string {
	proto := p.Protocol
	if proto == "" {
		proto = "tcp"
	}
	return fmt.Sprintf("%s → %d/%s", p.ServiceName, p.HostPort, proto)
}

// ValidatePortAllocations checks a slice of PortAllocations for
// individual validity and cross-allocation host port uniqueness.
func ValidatePortAllocations(allocations []PortAllocation) error {
	// Key: "hostPort/protocol", Value: service name that owns it.
	seen := make(map[string]string)

	for i := range allocations {
		if err := allocations[i].Validate(); err != nil {
			return err
		}

		// Different protocols on the same port are allowed (e.g., 3000/tcp and 3000/udp).
		key := fmt.Sprintf("%d/%s", allocations[i].HostPort, allocations[i].Protocol)
		if existingService, exists := seen[key]; exists {
			return fmt.Errorf("port allocation: host port %s is used by both %q and %q",
				key, existingService, allocations[i].ServiceName)
		}
		seen[key] = allocations[i].ServiceName
	}
	return nil
}

// PortSpec is a request for one port from the pool.
type PortSpec struct {
	// ServiceName identifies the requester.
	ServiceName string `json:"serviceName" yaml:"service"`

	// Port is the preferred port. Zero means "anywhere in the pool".
	Port int `json:"port" yaml:"port"`

	// Protocol is the network protocol (tcp/udp). Defaults to "tcp".
	Protocol string `json:"protocol" yaml:"protocol"`

	// Label is an optional description.
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
}

// ValidateProtocol accepts "tcp" and "udp".
func ValidateProtocol(protocol string) error {
	if protocol != "tcp" && protocol != "udp" {
		return fmt.Errorf("invalid protocol %q (valid: tcp, udp)", protocol)
	}
	return nil
}

// ExitCode defines standard CLI exit codes. These codes allow scripts and
// CI systems to programmatically determine the outcome of a command.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitScriptNotFound indicates the operation script file does not exist.
	ExitScriptNotFound ExitCode = 2

	// ExitInvalidScript indicates the script could not be parsed or failed
	// validation.
	ExitInvalidScript ExitCode = 3

	// ExitPortAllocationFailed indicates a port could not be allocated
	// without conflicting with reserved or busy ports.
	ExitPortAllocationFailed ExitCode = 4

	// ExitInvalidValue indicates a value could not be parsed for the chosen
	// kind, or is not comparable to itself (NaN).
	ExitInvalidValue ExitCode = 5

	// ExitExpectationFailed indicates a script's expected render or probe
	// results did not match.
	ExitExpectationFailed ExitCode = 6

	// ExitVerifyFailed indicates the set disagreed with the reference
	// evaluation or broke a structural invariant.
	ExitVerifyFailed ExitCode = 7
)

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}
