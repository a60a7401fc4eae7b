package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the hdrgraph.yaml configuration.
type Config struct {
	Root             string             `yaml:"root"`
	Extensions       []string           `yaml:"extensions"`
	Ignore           []string           `yaml:"ignore"`
	RespectGitignore bool               `yaml:"respect_gitignore"`
	MaxFileBytes     int64              `yaml:"max_file_bytes"`
	CacheSize        int                `yaml:"cache_size"`
	Namespace        string             `yaml:"namespace"`
	Builtins         BuiltinsConfig     `yaml:"builtins"`
	Dependencies     DependenciesConfig `yaml:"dependencies"`
	Output           OutputConfig       `yaml:"output"`
}

// BuiltinsConfig extends the allow-list of types that are never reported
// as dependencies.
type BuiltinsConfig struct {
	Extra []string `yaml:"extra"`
}

// DependenciesConfig controls dependency computation.
type DependenciesConfig struct {
	PublicOnly bool `yaml:"public_only"`
}

// OutputConfig controls how query results are printed.
type OutputConfig struct {
	Format string `yaml:"format"`
}

const (
	defaultMaxFileBytes = 4 << 20
	defaultCacheSize    = 256
	defaultFormat       = "text"
)

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Root:       ".",
		Extensions: []string{".h", ".hpp", ".hh", ".hxx", ".cpp", ".cc", ".cxx"},
		Ignore: []string{
			"build/**",
			"cmake-build-*/**",
			"third_party/**",
			".git/**",
		},
		RespectGitignore: true,
		MaxFileBytes:     defaultMaxFileBytes,
		CacheSize:        defaultCacheSize,
		Output: OutputConfig{
			Format: defaultFormat,
		},
	}
}

// Load reads a configuration file from the given path.
// Missing fields are filled with defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.Root == "" {
		cfg.Root = "."
	}
	if cfg.MaxFileBytes <= 0 {
		cfg.MaxFileBytes = defaultMaxFileBytes
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = defaultCacheSize
	}
	if cfg.Output.Format == "" {
		cfg.Output.Format = defaultFormat
	}
	for i, ext := range cfg.Extensions {
		if !strings.HasPrefix(ext, ".") {
			cfg.Extensions[i] = "." + ext
		}
	}

	return cfg, nil
}

// IsExtension returns true if files with the given extension belong to the
// corpus. The comparison ignores case.
func (c *Config) IsExtension(ext string) bool {
	for _, e := range c.Extensions {
		if strings.EqualFold(e, ext) {
			return true
		}
	}
	return false
}
