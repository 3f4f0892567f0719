// Package config loads and validates cplscan's TOML configuration.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Logging contains configuration for diagnostic output.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Output contains configuration for rendered playlist output.
type Output struct {
	// Indent is the JSON indentation string; two spaces when unset.
	Indent string `toml:"indent"`
}

// Catalog contains configuration for the track-fingerprint catalog.
type Catalog struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Config encapsulates all configuration values for cplscan.
type Config struct {
	Logging Logging `toml:"logging"`
	Output  Output  `toml:"output"`
	Catalog Catalog `toml:"catalog"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Logging: Logging{Level: "info", Format: "console"},
		Output:  Output{Indent: "  "},
		Catalog: Catalog{Enabled: true, Path: "~/.local/share/cplscan/catalog.db"},
	}
}

// DefaultConfigPath returns the absolute path of the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return ExpandPath("~/.config/cplscan/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// bool reports whether a file was actually found; when it was not, defaults
// apply. Path fields come back expanded and absolute.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		if err := toml.NewDecoder(file).Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := ExpandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("cplscan.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

func (c *Config) normalize() error {
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Output.Indent == "" {
		c.Output.Indent = "  "
	}
	if strings.TrimSpace(c.Catalog.Path) != "" {
		expanded, err := ExpandPath(c.Catalog.Path)
		if err != nil {
			return err
		}
		c.Catalog.Path = expanded
	}
	return nil
}

// Validate checks the configuration for values that cannot be acted on.
func (c *Config) Validate() error {
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	if strings.Trim(c.Output.Indent, " \t") != "" {
		return fmt.Errorf("output.indent: must contain only spaces or tabs")
	}
	if c.Catalog.Enabled && strings.TrimSpace(c.Catalog.Path) == "" {
		return errors.New("catalog.path: required when the catalog is enabled")
	}
	return nil
}

// EnsureDirectories creates the directories the catalog needs.
func (c *Config) EnsureDirectories() error {
	if !c.Catalog.Enabled || c.Catalog.Path == "" {
		return nil
	}
	dir := filepath.Dir(c.Catalog.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create catalog directory %q: %w", dir, err)
	}
	return nil
}

// CreateSample writes a sample configuration file to path.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// ExpandPath resolves a leading ~ and returns a cleaned absolute path.
func ExpandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}
