package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/masmgr/dephistory-go/internal/manifest"
)

// DefaultMaxManifestBytes caps the size of a manifest snapshot (8 MiB).
const DefaultMaxManifestBytes int64 = 8 << 20

// configFileNames are searched in the working directory, then in the home directory.
var configFileNames = []string{".dephistory.json", ".dephistory.yaml", ".dephistory.yml"}

// Config is the root configuration structure.
type Config struct {
	Analysis  AnalysisConfig  `json:"analysis" yaml:"analysis"`
	Discovery DiscoveryConfig `json:"discovery" yaml:"discovery"`
	Clone     CloneConfig     `json:"clone" yaml:"clone"`
	Logging   LoggingConfig   `json:"logging" yaml:"logging"`
}

// AnalysisConfig holds options of the history walk.
type AnalysisConfig struct {
	Ref                 string `json:"ref" yaml:"ref"`                                 // Default: HEAD
	IgnoreParsingErrors bool   `json:"ignoreParsingErrors" yaml:"ignoreParsingErrors"` // Default: true
	Concurrency         int    `json:"concurrency" yaml:"concurrency"`                 // 0 means one worker per CPU
	MaxManifestBytes    int64  `json:"maxManifestBytes" yaml:"maxManifestBytes"`       // 0 disables the limit
	// Categories restricts the timeline to these dependency categories, by role name
	// ("dev", "peer") or manifest key ("devDependencies"). Empty keeps all five.
	Categories []string `json:"categories" yaml:"categories"`
}

// CategoryFilter parses Categories. A nil result keeps every category.
func (a AnalysisConfig) CategoryFilter() ([]manifest.Category, error) {
	if len(a.Categories) == 0 {
		return nil, nil
	}
	cats := make([]manifest.Category, 0, len(a.Categories))
	for _, name := range a.Categories {
		c, err := manifest.ParseCategory(name)
		if err != nil {
			return nil, fmt.Errorf("analysis.categories: %w", err)
		}
		cats = append(cats, c)
	}
	return cats, nil
}

// DiscoveryConfig holds manifest discovery options.
type DiscoveryConfig struct {
	Patterns                []string `json:"patterns" yaml:"patterns"`
	ModuleDirectories       []string `json:"moduleDirectories" yaml:"moduleDirectories"`
	IgnoreModuleDirectories bool     `json:"ignoreModuleDirectories" yaml:"ignoreModuleDirectories"`
	Include                 []string `json:"include" yaml:"include"`
	Exclude                 []string `json:"exclude" yaml:"exclude"`
}

// CloneConfig holds options for repositories that have to be cloned.
type CloneConfig struct {
	TmpDir string `json:"tmpDir" yaml:"tmpDir"` // Default: system temp dir
	Keep   bool   `json:"keep" yaml:"keep"`
}

// LoggingConfig holds diagnostic logging options.
type LoggingConfig struct {
	Level  string `json:"level" yaml:"level"`   // Default: warn
	Format string `json:"format" yaml:"format"` // text or json
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			Ref:                 "HEAD",
			IgnoreParsingErrors: true,
			MaxManifestBytes:    DefaultMaxManifestBytes,
			Categories:          []string{},
		},
		Discovery: DiscoveryConfig{
			Patterns:                []string{"**/package.json", "**/bower.json"},
			ModuleDirectories:       []string{"node_modules", "bower_components", "bower_modules"},
			IgnoreModuleDirectories: true,
			Include:                 []string{},
			Exclude:                 []string{},
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// LoadConfig loads configuration from a file, merging with defaults.
// JSON and YAML are both accepted; the format follows the file extension.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = findConfigFile()
	}

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if isYAML(path) {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	} else if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func findConfigFile() string {
	dirs := []string{"."}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		dirs = append(dirs, home)
	} else if envHome := os.Getenv("HOME"); envHome != "" {
		dirs = append(dirs, envHome)
	}
	for _, dir := range dirs {
		for _, name := range configFileNames {
			p := filepath.Join(dir, name)
			if _, err := os.Stat(p); err == nil {
				return p
			}
		}
	}
	return ""
}

// Validate reports settings that cannot be used.
func (c *Config) Validate() error {
	if c.Analysis.Concurrency < 0 {
		return fmt.Errorf("analysis.concurrency must not be negative, got %d", c.Analysis.Concurrency)
	}
	if c.Analysis.MaxManifestBytes < 0 {
		return fmt.Errorf("analysis.maxManifestBytes must not be negative, got %d", c.Analysis.MaxManifestBytes)
	}
	if _, err := c.Analysis.CategoryFilter(); err != nil {
		return err
	}
	return nil
}

// SaveConfig saves configuration to a file, as YAML for .yaml/.yml paths and JSON otherwise.
func SaveConfig(cfg *Config, path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(cfg)
	} else {
		data, err = json.MarshalIndent(cfg, "", "  ")
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
