package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Annotators []Annotator
	Audit      AuditConfig
	Prep       PrepConfig
}

// Annotator maps a login secret to one worklist file.
type Annotator struct {
	Name     string
	Secret   string
	Worklist string
}

// AuditConfig holds event-log settings.
type AuditConfig struct {
	Path       string
	Migrations string
}

// PrepConfig holds data-preparation settings shared with prepdata.
type PrepConfig struct {
	LeafName string `mapstructure:"leaf_name"`
}

// Load reads configuration from file and env. Env var overrides use
// prefix ANNOTATUI_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("audit.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "annotatui", "audit.db"))
	v.SetDefault("audit.migrations", "internal/audit/migrations")
	v.SetDefault("prep.leaf_name", "task_description.txt")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("ANNOTATUI_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "annotatui"))
		v.AddConfigPath(".")
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("ANNOTATUI")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Validate checks that the annotator table is usable: secrets must be
// unique and every entry must name a worklist.
func Validate(c Config) error {
	seen := make(map[string]string, len(c.Annotators))
	for _, a := range c.Annotators {
		if a.Secret == "" {
			return fmt.Errorf("annotator %q has no secret", a.Name)
		}
		if a.Worklist == "" {
			return fmt.Errorf("annotator %q has no worklist", a.Name)
		}
		if other, dup := seen[a.Secret]; dup {
			return fmt.Errorf("annotators %q and %q share a secret", other, a.Name)
		}
		seen[a.Secret] = a.Name
	}
	return nil
}
