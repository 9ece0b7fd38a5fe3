// Package config holds the explicit pipeline configuration. Values are
// passed into stage constructors instead of living in process-wide globals.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultDumpURL is the fixed location of the GND authority dump. The query
// parameters are part of the published open data endpoint.
const DefaultDumpURL = "http://datendienst.dnb.de/cgi-bin/mabit.pl?cmd=fetch&userID=opendata&pass=opendata&mabheft=GND.rdf.gz"

// DefaultTag groups all artifacts of this pipeline under one directory.
const DefaultTag = "gndzero"

// Config describes where the pipeline reads and writes.
type Config struct {
	// BaseDir is the root of the canonical artifact tree.
	BaseDir string `yaml:"base-dir"`

	// TempDir holds scratch files while a stage is running.
	TempDir string `yaml:"temp-dir"`

	// Tag is the source id under which artifacts are filed.
	Tag string `yaml:"tag"`

	// DumpURL is the remote location of the compressed dump.
	DumpURL string `yaml:"dump-url"`
}

// Default returns a configuration rooted in the user's home directory.
func Default() *Config {
	base := "/tmp/gndzero"
	if home, err := os.UserHomeDir(); err == nil {
		base = filepath.Join(home, ".gndzero")
	}
	return &Config{
		BaseDir: filepath.Join(base, "data"),
		TempDir: os.TempDir(),
		Tag:     DefaultTag,
		DumpURL: DefaultDumpURL,
	}
}

// Load reads a YAML configuration file and fills unset fields with defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	cfg.applyDefaults()

	return cfg, nil
}

func (c *Config) applyDefaults() {
	def := Default()
	if c.BaseDir == "" {
		c.BaseDir = def.BaseDir
	}
	if c.TempDir == "" {
		c.TempDir = def.TempDir
	}
	if c.Tag == "" {
		c.Tag = def.Tag
	}
	if c.DumpURL == "" {
		c.DumpURL = def.DumpURL
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.BaseDir == "" {
		return fmt.Errorf("base-dir must not be empty")
	}
	if c.TempDir == "" {
		return fmt.Errorf("temp-dir must not be empty")
	}
	if c.Tag == "" {
		return fmt.Errorf("tag must not be empty")
	}
	return nil
}
