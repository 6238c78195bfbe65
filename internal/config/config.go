package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/shinji-kodama/intervalset/internal/model"
	"github.com/shinji-kodama/intervalset/internal/ordered"
)

// EnvPrefix prefixes every environment override, e.g. INTERVALSET_KIND or
// INTERVALSET_PORTS_START.
const EnvPrefix = "INTERVALSET"

// Config holds application configuration.
type Config struct {
	// Kind is the value kind used when a script or command names none.
	Kind string `mapstructure:"kind"`

	// Backend selects the ordered index: btree or slice.
	Backend string `mapstructure:"backend"`

	// BTreeDegree is the B-tree node degree.
	BTreeDegree int `mapstructure:"btree_degree"`

	// Color is auto, always or never.
	Color string `mapstructure:"color"`

	Ports PortsConfig `mapstructure:"ports"`
}

// PortsConfig holds the port pool settings.
type PortsConfig struct {
	// Start and End bound the range Allocate searches, inclusive.
	Start int `mapstructure:"start"`
	End   int `mapstructure:"end"`

	// Protocol is the default protocol for reservations.
	Protocol string `mapstructure:"protocol"`

	// Reserved lists ports and port ranges ("8000-8010") that are never
	// handed out.
	Reserved []string `mapstructure:"reserved"`
}

// DefaultPath returns ~/.config/intervalset/config.yaml.
func DefaultPath() string {
	return filepath.Join(os.Getenv("HOME"), ".config", "intervalset", "config.yaml")
}

// Load reads configuration from file and env. The file is path if given,
// else $INTERVALSET_CONFIG, else DefaultPath. Only an explicitly named file
// must exist.
func Load(path string) (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("kind", string(model.KindInt))
	v.SetDefault("backend", string(ordered.BackendBTree))
	v.SetDefault("btree_degree", ordered.DefaultDegree)
	v.SetDefault("color", "auto")
	v.SetDefault("ports.start", 20000)
	v.SetDefault("ports.end", 29999)
	v.SetDefault("ports.protocol", "tcp")
	v.SetDefault("ports.reserved", []string{})

	v.SetConfigType("yaml")

	explicit := true
	if path == "" {
		path = os.Getenv(EnvPrefix + "_CONFIG")
	}
	if path == "" {
		path = DefaultPath()
		explicit = false
	}
	v.SetConfigFile(path)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks every setting and returns the first problem found.
func (c Config) Validate() error {
	if _, err := model.ParseValueKind(c.Kind); err != nil {
		return fmt.Errorf("config kind: %w", err)
	}
	if _, err := ordered.ParseBackend(c.Backend); err != nil {
		return fmt.Errorf("config backend: %w", err)
	}
	switch c.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("config color: invalid value %q (valid: auto, always, never)", c.Color)
	}
	if c.Ports.Start < 1 || c.Ports.End > 65535 || c.Ports.Start > c.Ports.End {
		return fmt.Errorf("config ports: invalid range %d-%d", c.Ports.Start, c.Ports.End)
	}
	if err := model.ValidateProtocol(c.Ports.Protocol); err != nil {
		return fmt.Errorf("config ports.protocol: %w", err)
	}
	return nil
}

// ValueKind returns Kind parsed. Only valid after Validate succeeded.
func (c Config) ValueKind() model.ValueKind {
	kind, _ := model.ParseValueKind(c.Kind)
	return kind
}

// IndexBackend returns Backend parsed. Only valid after Validate succeeded.
func (c Config) IndexBackend() ordered.Backend {
	backend, _ := ordered.ParseBackend(c.Backend)
	return backend
}
