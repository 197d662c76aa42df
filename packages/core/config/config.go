package config

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/abdul-hamid-achik/hitdoc/packages/document"
	"gopkg.in/yaml.v3"
)

// Config represents the hitdoc configuration
type Config struct {
	Host            string            `json:"host,omitempty" yaml:"host,omitempty"`
	BaseURL         string            `json:"baseURL,omitempty" yaml:"baseURL,omitempty"` // send requests over the network instead of to App
	Headers         map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"` // Default headers for all requests
	Filter          []string          `json:"filter,omitempty" yaml:"filter,omitempty"`
	ExclusionFilter []string          `json:"exclusionFilter,omitempty" yaml:"exclusionFilter,omitempty"`
	FormBodies      *bool             `json:"formBodies,omitempty" yaml:"formBodies,omitempty"`
	OutputDir       string            `json:"outputDir,omitempty" yaml:"outputDir,omitempty"`
	RecordsFile     string            `json:"recordsFile,omitempty" yaml:"recordsFile,omitempty"`
	Format          string            `json:"format,omitempty" yaml:"format,omitempty"`
	Title           string            `json:"title,omitempty" yaml:"title,omitempty"`
	APIVersion      string            `json:"apiVersion,omitempty" yaml:"apiVersion,omitempty"`
	Timeout         int               `json:"timeout,omitempty" yaml:"timeout,omitempty"` // milliseconds
	FollowRedirects *bool             `json:"followRedirects,omitempty" yaml:"followRedirects,omitempty"`
	MaxRedirects    int               `json:"maxRedirects,omitempty" yaml:"maxRedirects,omitempty"`
	Proxy           string            `json:"proxy,omitempty" yaml:"proxy,omitempty"` // HTTP proxy for BaseURL requests
	ValidateSSL     *bool             `json:"validateSSL,omitempty" yaml:"validateSSL,omitempty"`
	Verbose         *bool             `json:"verbose,omitempty" yaml:"verbose,omitempty"`
	NoColor         *bool             `json:"noColor,omitempty" yaml:"noColor,omitempty"`

	// App is the in-process application documented requests are served by.
	App http.Handler `json:"-" yaml:"-"`
}

// BoolPtr returns a pointer to b
func BoolPtr(b bool) *bool {
	return &b
}

// getBool returns the value of a bool pointer, or the default if nil
func getBool(b *bool, defaultVal bool) bool {
	if b == nil {
		return defaultVal
	}
	return *b
}

// GetFormBodies returns the form bodies setting, defaulting to false
func (c *Config) GetFormBodies() bool {
	return getBool(c.FormBodies, false)
}

// GetFollowRedirects returns the follow redirects setting, defaulting to true
func (c *Config) GetFollowRedirects() bool {
	return getBool(c.FollowRedirects, true)
}

// GetValidateSSL returns the validate SSL setting, defaulting to true
func (c *Config) GetValidateSSL() bool {
	return getBool(c.ValidateSSL, true)
}

// GetVerbose returns the verbose setting, defaulting to false
func (c *Config) GetVerbose() bool {
	return getBool(c.Verbose, false)
}

// GetNoColor returns the no color setting, defaulting to false
func (c *Config) GetNoColor() bool {
	return getBool(c.NoColor, false)
}

func (c *Config) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Millisecond
}

// Filters returns the documentation filters. An empty filter means all.
func (c *Config) Filters() document.Filters {
	include := document.All()
	if len(c.Filter) > 0 {
		include = document.ParseFilter(c.Filter)
	}
	return document.Filters{
		Include: include,
		Exclude: document.ParseFilter(c.ExclusionFilter),
	}
}

// RecordsPath is where a run writes its example records.
func (c *Config) RecordsPath() string {
	return filepath.Join(c.OutputDir, c.RecordsFile)
}

// ConfigFilenames contains the possible config file names
var ConfigFilenames = []string{
	".hitdoc.config.json",
	"hitdoc.config.json",
	"hitdoc.yaml",
	"hitdoc.yml",
	".hitdocrc",
}

// LoadConfig loads configuration from the specified path or searches for config files
func LoadConfig(path string) (*Config, error) {
	if path != "" {
		return loadConfigFromFile(path)
	}

	// Search for config file in current directory
	return FindAndLoadConfig(".")
}

// FindAndLoadConfig searches for a config file in the given directory
func FindAndLoadConfig(dir string) (*Config, error) {
	for _, filename := range ConfigFilenames {
		configPath := filepath.Join(dir, filename)
		if _, err := os.Stat(configPath); err == nil {
			return loadConfigFromFile(configPath)
		}
	}

	// Return defaults if no config file found
	return DefaultConfig(), nil
}

// loadConfigFromFile loads configuration from a specific file
func loadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, config)
	default:
		err = json.Unmarshal(data, config)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return config, nil
}

// Merge merges another config into this one, with other taking precedence
func (c *Config) Merge(other *Config) *Config {
	if other == nil {
		return c
	}

	result := *c // Copy

	if other.Host != "" {
		result.Host = other.Host
	}
	if other.BaseURL != "" {
		result.BaseURL = other.BaseURL
	}
	if other.OutputDir != "" {
		result.OutputDir = other.OutputDir
	}
	if other.RecordsFile != "" {
		result.RecordsFile = other.RecordsFile
	}
	if other.Format != "" {
		result.Format = other.Format
	}
	if other.Title != "" {
		result.Title = other.Title
	}
	if other.APIVersion != "" {
		result.APIVersion = other.APIVersion
	}
	if other.Timeout > 0 {
		result.Timeout = other.Timeout
	}
	if other.MaxRedirects > 0 {
		result.MaxRedirects = other.MaxRedirects
	}
	if other.Proxy != "" {
		result.Proxy = other.Proxy
	}
	if len(other.Filter) > 0 {
		result.Filter = other.Filter
	}
	if len(other.ExclusionFilter) > 0 {
		result.ExclusionFilter = other.ExclusionFilter
	}
	if other.App != nil {
		result.App = other.App
	}

	// Boolean flags - only override if explicitly set in other config
	if other.FormBodies != nil {
		result.FormBodies = other.FormBodies
	}
	if other.FollowRedirects != nil {
		result.FollowRedirects = other.FollowRedirects
	}
	if other.ValidateSSL != nil {
		result.ValidateSSL = other.ValidateSSL
	}
	if other.Verbose != nil {
		result.Verbose = other.Verbose
	}
	if other.NoColor != nil {
		result.NoColor = other.NoColor
	}

	// Merge headers
	if len(other.Headers) > 0 {
		headers := make(map[string]string, len(result.Headers)+len(other.Headers))
		for k, v := range result.Headers {
			headers[k] = v
		}
		for k, v := range other.Headers {
			headers[k] = v
		}
		result.Headers = headers
	}

	return &result
}

// SaveConfig saves the configuration to a file
func (c *Config) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

var (
	defaultOnce   sync.Once
	defaultConfig *Config
)

// Default returns the process-wide configuration, created on first use.
func Default() *Config {
	defaultOnce.Do(func() {
		if defaultConfig == nil {
			defaultConfig = DefaultConfig()
		}
	})
	return defaultConfig
}

// SetDefault replaces the process-wide configuration.
func SetDefault(c *Config) {
	defaultOnce.Do(func() {})
	defaultConfig = c
}
