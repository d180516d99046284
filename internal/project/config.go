// Package project handles the fluent.toml project manifest used by the
// build and init commands.
package project

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// ConfigFileName is the manifest file name looked up in the project root.
const ConfigFileName = "fluent.toml"

// Config is the project manifest.
type Config struct {
	Package PackageInfo `toml:"package"`
	Build   BuildInfo   `toml:"build"`
}

// PackageInfo identifies the project.
type PackageInfo struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

// BuildInfo controls where the build command writes generated Python.
type BuildInfo struct {
	// OutDir is the output directory, relative to the project root.
	OutDir string `toml:"out_dir"`
	// SourceExt is the extension of source files picked up by build.
	SourceExt string `toml:"source_ext"`
}

// Load reads and parses a manifest file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// Save writes the manifest to path.
func (c *Config) Save(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Build.OutDir == "" {
		c.Build.OutDir = "out"
	}
	if c.Build.SourceExt == "" {
		c.Build.SourceExt = ".is"
	}
}

// Default returns a fresh manifest for a project in dir, deriving the
// package name from the directory name.
func Default(dir string) *Config {
	base := filepath.Base(dir)
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = "fluent-app"
	}
	cfg := &Config{
		Package: PackageInfo{
			Name:    sanitizeName(base),
			Version: "0.1.0",
		},
	}
	cfg.applyDefaults()
	return cfg
}

// sanitizeName lowercases the name and strips characters that do not
// belong in a package name.
func sanitizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, " ", "-")
	name = strings.ReplaceAll(name, "_", "-")

	var sb strings.Builder
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '.' {
			sb.WriteRune(r)
		}
	}
	if sb.Len() == 0 {
		return "fluent-app"
	}
	return sb.String()
}

// Find walks from startPath upwards looking for a manifest file. It returns
// the manifest's full path, or "" when no manifest exists on the way to the
// filesystem root.
func Find(startPath string) string {
	info, err := os.Stat(startPath)
	if err != nil {
		return ""
	}

	dir := startPath
	if !info.IsDir() {
		dir = filepath.Dir(startPath)
	}
	dir, err = filepath.Abs(dir)
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
