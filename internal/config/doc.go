// Package config loads intervalset CLI settings from defaults, an optional
// YAML file and INTERVALSET_* environment variables, in increasing order of
// precedence. Command-line flags are applied on top by the CLI.
//
// The file lives at $INTERVALSET_CONFIG or ~/.config/intervalset/config.yaml:
//
//	kind: decimal
//	backend: btree
//	btree_degree: 32
//	color: auto
//	ports:
//	  start: 20000
//	  end: 29999
//	  protocol: tcp
//	  reserved: ["20000-20099"]
package config
