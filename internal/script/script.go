package script

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/shinji-kodama/intervalset/internal/model"
)

// Script is a parsed operation script.
type Script struct {
	// Name is a display name. Defaults to the file name without extension.
	Name string `json:"name" yaml:"name"`

	// Kind selects the value domain. Empty means the caller's default.
	Kind model.ValueKind `json:"kind,omitempty" yaml:"kind,omitempty"`

	// Operations are applied in order to an empty set.
	Operations []Operation `json:"operations" yaml:"operations"`

	// Probes are values whose status is reported after the operations.
	Probes []Value `json:"probes,omitempty" yaml:"probes,omitempty"`

	// Expect holds optional assertions about the final set.
	Expect *Expectation `json:"expect,omitempty" yaml:"expect,omitempty"`
}

// Expectation lists assertions checked after a script runs.
type Expectation struct {
	// Render is the expected canonical text. A nil pointer skips the check;
	// an empty string expects the empty set.
	Render *string `json:"render,omitempty" yaml:"render,omitempty"`

	// Contains lists values that must be members.
	Contains []Value `json:"contains,omitempty" yaml:"contains,omitempty"`

	// Excludes lists values that must not be members.
	Excludes []Value `json:"excludes,omitempty" yaml:"excludes,omitempty"`
}

// Format identifies the encoding of a script file.
type Format string

const (
	// FormatYAML is a YAML document.
	FormatYAML Format = "yaml"

	// FormatJSONC is JSON, optionally with comments and trailing commas.
	FormatJSONC Format = "jsonc"
)

// FormatOf picks the script format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json", ".jsonc":
		return FormatJSONC, nil
	default:
		return "", ErrUnsupportedFormat.New(filepath.Ext(path))
	}
}

// Load reads and parses a script file. The format follows the file
// extension.
//
// Returns a CLIError with ExitScriptNotFound if the file does not exist and
// ExitInvalidScript if it cannot be parsed.
func Load(path string) (*Script, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitInvalidScript, err.Error(), err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, model.WrapCLIError(
				model.ExitScriptNotFound,
				fmt.Sprintf("script not found: %s", path),
				err,
			)
		}
		return nil, fmt.Errorf("failed to read script: %w", err)
	}

	s, err := Parse(data, format)
	if err != nil {
		return nil, model.WrapCLIError(
			model.ExitInvalidScript,
			fmt.Sprintf("failed to parse script %s", path),
			err,
		)
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return s, nil
}

// Parse decodes a script from data in the given format. Unknown fields are
// rejected so that typos in a script do not silently skip checks.
func Parse(data []byte, format Format) (*Script, error) {
	var s Script
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&s); err != nil {
			return nil, fmt.Errorf("invalid YAML: %w", err)
		}
	case FormatJSONC:
		dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&s); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
	default:
		return nil, ErrUnsupportedFormat.New(string(format))
	}
	return &s, nil
}
