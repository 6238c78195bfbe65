// Package script loads, validates and runs interval set operation scripts.
//
// A script names a value kind, lists operations to apply to an empty set,
// and optionally lists probe values and expectations about the result.
// Scripts are YAML or JSONC files; JSONC comments are stripped with
// github.com/tidwall/jsonc before the standard encoding/json decoder runs.
//
//	name: split
//	kind: int
//	operations:
//	  - "+[1,10]"
//	  - "-5"
//	probes: [4, 5, 6]
//	expect:
//	  render: "[1,5),(5,10],"
//
// Run can also replay the operations through a brute-force reference
// evaluator and compare membership on values sampled around every
// boundary (see Verify).
package script
