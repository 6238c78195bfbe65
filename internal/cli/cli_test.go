// Package cli: cli_test.go runs the commands end to end through the root
// command and covers the output and error helpers.
package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/intervalset/internal/domain"
	"github.com/shinji-kodama/intervalset/internal/model"
	"github.com/shinji-kodama/intervalset/internal/script"
)

// execute runs the root command with args in an isolated environment and
// returns stdout and the command error.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("INTERVALSET_CONFIG", "")
	color.NoColor = true

	var stdout, stderr bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--no-color"}, args...))
	err := root.Execute()
	return stdout.String(), err
}

func exitCode(err error) model.ExitCode {
	if err == nil {
		return model.ExitSuccess
	}
	return toCLIError(err).Code
}

func fixture(name string) string {
	return filepath.Join("..", "script", "testdata", name)
}

func TestEval(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		contains []string
		code     model.ExitCode
	}{
		{
			name:     "union and removal",
			args:     []string{"eval", "--", "+[1,10]", "-5", "+0"},
			contains: []string{"eval (int, btree): ≠0,[1,5),(5,10],", "PASS"},
		},
		{
			name:     "probes",
			args:     []string{"eval", "--probe", "5", "--probe", "7", "--", "+[1,10]", "-5"},
			contains: []string{"probe 5: excluded", "probe 7: inside"},
		},
		{
			name:     "empty set",
			args:     []string{"eval", "--", "+3", "-3"},
			contains: []string{"eval (int, btree): ∅"},
		},
		{
			name:     "float kind on slice backend",
			args:     []string{"eval", "--kind", "float", "--backend", "slice", "--", "+(0,1)", "+0.5"},
			contains: []string{"eval (float, slice): (0,1),"},
		},
		{
			name:     "expectation holds",
			args:     []string{"eval", "--expect", "[1,20],", "--", "+[1,10]", "+(10,20]"},
			contains: []string{"[1,20],", "PASS"},
		},
		{
			name:     "expectation fails",
			args:     []string{"eval", "--expect", "[1,10),", "--", "+[1,10]"},
			contains: []string{"FAIL"},
			code:     model.ExitExpectationFailed,
		},
		{
			name:     "verify",
			args:     []string{"eval", "--verify", "--", "+[1,10]", "-5", "+[5,6]"},
			contains: []string{"verified", "PASS"},
		},
		{
			name: "malformed operation",
			args: []string{"eval", "--", "*[1,2]"},
			code: model.ExitInvalidScript,
		},
		{
			name: "unparsable value",
			args: []string{"eval", "--", "+[1,ten]"},
			code: model.ExitInvalidValue,
		},
		{
			name: "unknown kind",
			args: []string{"eval", "--kind", "complex", "--", "+1"},
			code: model.ExitInvalidValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			assert.Equal(t, tt.code, exitCode(err), "error: %v", err)
			for _, want := range tt.contains {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestEval_JSON(t *testing.T) {
	out, err := execute(t, "eval", "--json", "--probe", "0", "--", "+[1,10]", "-5", "+0")
	require.NoError(t, err)

	var res script.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "≠0,[1,5),(5,10],", res.Render)
	assert.Equal(t, []string{"≠0", "[1,5)", "(5,10]"}, res.Segments)
	assert.Equal(t, 1, res.Intervals)
	assert.Equal(t, 2, res.Markers)
	require.Len(t, res.Probes, 1)
	assert.Equal(t, "included", res.Probes[0].Status)
	assert.True(t, res.Probes[0].Member)
}

func TestApply(t *testing.T) {
	out, err := execute(t, "apply", fixture("split.yaml"), fixture("merge.jsonc"))
	require.NoError(t, err)
	assert.Contains(t, out, "split (int, btree): ≠0,[1,5),(5,10],")
	assert.Contains(t, out, "≠0,[1,20),[30,40],")
	assert.NotContains(t, out, "FAIL")
}

func TestApply_Failures(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code model.ExitCode
	}{
		{"failed expectation", []string{"apply", fixture("failing.yaml")}, model.ExitExpectationFailed},
		{"missing script", []string{"apply", fixture("missing.yaml")}, model.ExitScriptNotFound},
		{"unknown field", []string{"apply", fixture("unknown-field.yaml")}, model.ExitInvalidScript},
		{"bad value", []string{"apply", fixture("bad-value.yaml")}, model.ExitInvalidValue},
		{"bad backend", []string{"apply", "--backend", "skiplist", fixture("split.yaml")}, model.ExitGeneralError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.code, exitCode(err), "error: %v", err)
		})
	}
}

func TestApply_JSON(t *testing.T) {
	out, err := execute(t, "apply", "--json", fixture("split.yaml"))
	require.NoError(t, err)

	var payload struct {
		Results []script.Result `json:"results"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	require.Len(t, payload.Results, 1)
	assert.Equal(t, "split", payload.Results[0].Name)
	assert.Equal(t, "≠0,[1,5),(5,10],", payload.Results[0].Render)
}

func TestVerify(t *testing.T) {
	for _, backend := range []string{"btree", "slice"} {
		t.Run(backend, func(t *testing.T) {
			out, err := execute(t, "verify", "--backend", backend,
				fixture("split.yaml"), fixture("merge.jsonc"), fixture("decimal.yaml"), fixture("open.yaml"))
			require.NoError(t, err)
			assert.Contains(t, out, "verified")
			assert.NotContains(t, out, "mismatch:")
		})
	}
}

func TestPorts(t *testing.T) {
	out, err := execute(t, "ports", "--start", "9000", "--end", "9010",
		"--reserve", "9000-9002", "--reserve", "9005-9008", "--release", "9006",
		"--allocate", "web:9000")
	require.NoError(t, err)
	assert.Contains(t, out, "pool 9000-9010")
	assert.Contains(t, out, "tcp reserved (7 ports): [9000,9002],≠9003,[9005,9006),(9006,9008],")
	assert.Contains(t, out, "web → 9003/tcp")
}

func TestPorts_JSON(t *testing.T) {
	out, err := execute(t, "ports", "--json", "--start", "9000", "--end", "9010",
		"--reserve", "9001", "--allocate", "dns:9001/udp")
	require.NoError(t, err)

	var res portsResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "≠9001,", res.Reserved["tcp"])
	assert.Equal(t, "≠9001,", res.Reserved["udp"])
	assert.Equal(t, 1, res.Counts["udp"])
	require.Len(t, res.Allocations, 1)
	assert.Equal(t, 9001, res.Allocations[0].HostPort)
}

func TestPorts_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code model.ExitCode
	}{
		{"invalid range", []string{"ports", "--end", "70000"}, model.ExitPortAllocationFailed},
		{"bad reservation", []string{"ports", "--reserve", "80x"}, model.ExitInvalidValue},
		{"bad release", []string{"ports", "--release", "http"}, model.ExitInvalidValue},
		{"bad request", []string{"ports", "--allocate", "web:abc"}, model.ExitInvalidValue},
		{
			name: "exhausted",
			args: []string{"ports", "--start", "9000", "--end", "9001", "--allocate", "a", "--allocate", "b", "--allocate", "c"},
			code: model.ExitPortAllocationFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.code, exitCode(err), "error: %v", err)
		})
	}
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := "kind: float\nports:\n  start: 9000\n  end: 9100\n  reserved: [\"9000-9004\"]\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	out, err := execute(t, "--config", path, "eval", "--", "+(0,0.5]")
	require.NoError(t, err)
	assert.Contains(t, out, "eval (float, btree): (0,0.5],")

	out, err = execute(t, "--config", path, "ports")
	require.NoError(t, err)
	assert.Contains(t, out, "pool 9000-9100")
	assert.Contains(t, out, "tcp reserved (5 ports): [9000,9004],")

	_, err = execute(t, "--config", filepath.Join(dir, "missing.yaml"), "eval", "--", "+1")
	require.Error(t, err)
	assert.Equal(t, model.ExitGeneralError, exitCode(err))
}

func TestToCLIError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want model.ExitCode
	}{
		{"cli error", model.NewCLIError(model.ExitVerifyFailed, "x"), model.ExitVerifyFailed},
		{"wrapped cli error", fmt.Errorf("ctx: %w", model.NewCLIError(model.ExitScriptNotFound, "x")), model.ExitScriptNotFound},
		{"value error", fmt.Errorf("left: %w", domain.ErrUnparsable.New("x", "int")), model.ExitInvalidValue},
		{"operation error", script.ErrInvalidOperation.New("?", "bad prefix"), model.ExitInvalidScript},
		{"plain error", errors.New("boom"), model.ExitGeneralError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, toCLIError(tt.err).Code)
		})
	}
}

func TestColorizeSegments(t *testing.T) {
	color.NoColor = true

	assert.Equal(t, "∅", ColorizeSegments(nil))
	assert.Equal(t, "≠0,[1,5),(5,10],", ColorizeSegments([]string{"≠0", "[1,5)", "(5,10]"}))
}

func TestPlural(t *testing.T) {
	assert.Equal(t, "0 ports", plural(0, "port"))
	assert.Equal(t, "1 marker", plural(1, "marker"))
	assert.Equal(t, "12,000 ports", plural(12000, "port"))
}

func TestPrintError(t *testing.T) {
	color.NoColor = true
	jsonOutput = false
	t.Cleanup(func() { jsonOutput = false })

	var buf bytes.Buffer
	printError(&buf, "invalid value", errors.New("not a number"))
	assert.Equal(t, "Error: invalid value: not a number\n", buf.String())

	buf.Reset()
	jsonOutput = true
	printError(&buf, "invalid value", errors.New("not a number"))

	var payload map[string]map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &payload))
	assert.Equal(t, "invalid value", payload["error"]["message"])
	assert.Equal(t, "not a number", payload["error"]["detail"])
}
