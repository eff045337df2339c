// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	// Default settings
	Defaults Defaults `yaml:"defaults"`

	// Recognizer settings
	Recognizers Recognizers `yaml:"recognizers"`

	// Profiles for different scanning scenarios
	Profiles map[string]Profile `yaml:"profiles"`
}

// Defaults holds the settings used when no flag or profile overrides them
type Defaults struct {
	Format    string   `yaml:"format"`
	Entities  []string `yaml:"entities"`
	MinScore  float64  `yaml:"min_score"`
	Verbose   bool     `yaml:"verbose"`
	Debug     bool     `yaml:"debug"`
	Strict    bool     `yaml:"strict"` // panic on invalid span offsets, for tests
	NoColor   bool     `yaml:"no_color"`
	ShowMatch bool     `yaml:"show_match"`
}

// Recognizers selects and tunes the recognizers composed into the engine
type Recognizers struct {
	Patterns struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"patterns"`

	Tabular struct {
		Enabled bool   `yaml:"enabled"`
		Anchor  string `yaml:"anchor"` // line or first_occurrence
	} `yaml:"tabular"`

	Literal struct {
		Names []string `yaml:"names"`
		Score float64  `yaml:"score"`
	} `yaml:"literal"`

	Prose struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"prose"`

	NER NERConfig `yaml:"ner"`
}

// NERConfig configures the external entity-recognition sidecar
type NERConfig struct {
	Enabled    bool          `yaml:"enabled"`
	URL        string        `yaml:"url"`
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries"`
	Entities   []string      `yaml:"entities"`

	// RateLimit caps sidecar requests per second; 0 means unlimited
	RateLimit float64 `yaml:"rate_limit"`
}

// Profile represents a named set of overrides
type Profile struct {
	Description string   `yaml:"description"`
	Format      string   `yaml:"format"`
	Entities    []string `yaml:"entities"`
	MinScore    float64  `yaml:"min_score"`
	Verbose     bool     `yaml:"verbose"`
	NoColor     bool     `yaml:"no_color"`
	ShowMatch   bool     `yaml:"show_match"`

	// Recognizer toggles; unset fields keep the configured value
	Recognizers struct {
		Patterns *bool    `yaml:"patterns"`
		Tabular  *bool    `yaml:"tabular"`
		Prose    *bool    `yaml:"prose"`
		NER      *bool    `yaml:"ner"`
		Anchor   string   `yaml:"anchor"`
		Names    []string `yaml:"names"`
	} `yaml:"recognizers"`
}

const (
	defaultLiteralScore  = 0.9
	defaultNERTimeout    = 10 * time.Second
	defaultNERMaxRetries = 2
)

var (
	supportedFormats = []string{"csv", "json", "text", "yaml"}
	anchorModes      = []string{"line", "first_occurrence"}
)

// Default returns the built-in configuration
func Default() *Config {
	config := &Config{
		Profiles: make(map[string]Profile),
	}

	config.Defaults.Format = "text"

	config.Recognizers.Patterns.Enabled = true
	config.Recognizers.Tabular.Enabled = true
	config.Recognizers.Tabular.Anchor = "line"
	config.Recognizers.Literal.Score = defaultLiteralScore
	config.Recognizers.NER.Timeout = defaultNERTimeout
	config.Recognizers.NER.MaxRetries = defaultNERMaxRetries

	strict := Profile{
		Description: "Only high-confidence PERSON spans, no matched text in output",
		Entities:    []string{"PERSON"},
		MinScore:    0.8,
	}
	config.Profiles["strict"] = strict

	return config
}

// LoadConfig loads configuration from the specified file path
func LoadConfig(configPath string) (*Config, error) {
	config := Default()

	// If no config file specified, return default config
	if configPath == "" {
		return config, nil
	}

	cleanPath := filepath.Clean(configPath)
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	builtinProfiles := config.Profiles

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	// YAML leaves absent bools false; restore the defaults that are true
	if !containsField(data, "recognizers", "patterns", "enabled") {
		config.Recognizers.Patterns.Enabled = true
	}
	if !containsField(data, "recognizers", "tabular", "enabled") {
		config.Recognizers.Tabular.Enabled = true
	}

	if config.Profiles == nil {
		config.Profiles = make(map[string]Profile)
	}
	for name, profile := range builtinProfiles {
		if _, exists := config.Profiles[name]; !exists {
			config.Profiles[name] = profile
		}
	}

	if err := ValidateConfig(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// FindConfigFile looks for a configuration file in standard locations
func FindConfigFile() string {
	for _, name := range []string{"namescan.yaml", "namescan.yml", ".namescan.yaml", ".namescan.yml"} {
		if fileExists(name) {
			return name
		}
	}

	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		xdgConfig = filepath.Join(home, ".config")
	}
	for _, name := range []string{"config.yaml", "config.yml"} {
		candidate := filepath.Join(xdgConfig, "namescan", name)
		if fileExists(candidate) {
			return candidate
		}
	}

	return ""
}

// fileExists checks if a file exists and is not a directory
func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// ListProfiles returns the available profile names in sorted order
func (c *Config) ListProfiles() []string {
	profiles := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		profiles = append(profiles, name)
	}
	sort.Strings(profiles)
	return profiles
}

// GetProfile returns a profile by name, or nil if not found
func (c *Config) GetProfile(name string) *Profile {
	if profile, exists := c.Profiles[name]; exists {
		return &profile
	}
	return nil
}

// ApplyProfile merges the named profile into the defaults and recognizer
// settings. Empty profile fields leave the configured values alone.
func (c *Config) ApplyProfile(name string) error {
	profile := c.GetProfile(name)
	if profile == nil {
		return fmt.Errorf("profile '%s' not found (available: %s)", name, strings.Join(c.ListProfiles(), ", "))
	}

	if profile.Format != "" {
		c.Defaults.Format = profile.Format
	}
	if len(profile.Entities) > 0 {
		c.Defaults.Entities = profile.Entities
	}
	if profile.MinScore > 0 {
		c.Defaults.MinScore = profile.MinScore
	}
	c.Defaults.Verbose = c.Defaults.Verbose || profile.Verbose
	c.Defaults.NoColor = c.Defaults.NoColor || profile.NoColor
	c.Defaults.ShowMatch = c.Defaults.ShowMatch || profile.ShowMatch

	toggles := profile.Recognizers
	if toggles.Patterns != nil {
		c.Recognizers.Patterns.Enabled = *toggles.Patterns
	}
	if toggles.Tabular != nil {
		c.Recognizers.Tabular.Enabled = *toggles.Tabular
	}
	if toggles.Prose != nil {
		c.Recognizers.Prose.Enabled = *toggles.Prose
	}
	if toggles.NER != nil {
		c.Recognizers.NER.Enabled = *toggles.NER
	}
	if toggles.Anchor != "" {
		c.Recognizers.Tabular.Anchor = toggles.Anchor
	}
	c.Recognizers.Literal.Names = append(c.Recognizers.Literal.Names, toggles.Names...)

	return ValidateConfig(c)
}

// containsField checks if a nested field exists in the YAML data
func containsField(data []byte, path ...string) bool {
	var yamlData map[string]interface{}
	err := yaml.Unmarshal(data, &yamlData)
	if err != nil {
		return false
	}

	current := yamlData
	for i, key := range path {
		if i == len(path)-1 {
			_, exists := current[key]
			return exists
		}
		if next, ok := current[key].(map[string]interface{}); ok {
			current = next
		} else {
			return false
		}
	}
	return false
}

// ValidateConfig checks value ranges and enumerations
func ValidateConfig(config *Config) error {
	if config == nil {
		return fmt.Errorf("configuration cannot be nil")
	}

	var errs []error

	if !contains(supportedFormats, config.Defaults.Format) {
		errs = append(errs, fmt.Errorf("unsupported format '%s' (supported: %s)", config.Defaults.Format, strings.Join(supportedFormats, ", ")))
	}
	if config.Defaults.MinScore < 0 || config.Defaults.MinScore > 1 {
		errs = append(errs, fmt.Errorf("min_score must be within [0,1], got %v", config.Defaults.MinScore))
	}
	if score := config.Recognizers.Literal.Score; score < 0 || score > 1 {
		errs = append(errs, fmt.Errorf("literal score must be within [0,1], got %v", score))
	}
	if anchor := config.Recognizers.Tabular.Anchor; anchor != "" && !contains(anchorModes, anchor) {
		errs = append(errs, fmt.Errorf("unknown tabular anchor '%s' (supported: %s)", anchor, strings.Join(anchorModes, ", ")))
	}
	if ner := config.Recognizers.NER; ner.Enabled && strings.TrimSpace(ner.URL) == "" {
		errs = append(errs, errors.New("ner is enabled but no url is configured"))
	}
	if config.Recognizers.NER.RateLimit < 0 {
		errs = append(errs, fmt.Errorf("ner rate_limit must not be negative, got %v", config.Recognizers.NER.RateLimit))
	}
	if config.Recognizers.NER.MaxRetries < 0 {
		errs = append(errs, fmt.Errorf("ner max_retries must not be negative, got %d", config.Recognizers.NER.MaxRetries))
	}

	for name, profile := range config.Profiles {
		if profile.Format != "" && !contains(supportedFormats, profile.Format) {
			errs = append(errs, fmt.Errorf("profile '%s': unsupported format '%s'", name, profile.Format))
		}
		if profile.MinScore < 0 || profile.MinScore > 1 {
			errs = append(errs, fmt.Errorf("profile '%s': min_score must be within [0,1]", name))
		}
	}

	return errors.Join(errs...)
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// Environment resolves NAMESCAN_* settings from the process environment,
// falling back to values read from a .env file.
type Environment struct {
	dotenv map[string]string
	lookup func(string) (string, bool)
}

// LoadEnvironment reads dotenvPath if it exists. A missing or unreadable
// file yields an environment backed by the process environment only.
func LoadEnvironment(dotenvPath string) Environment {
	env := Environment{lookup: os.LookupEnv}
	if dotenvPath == "" {
		return env
	}
	if values, err := godotenv.Read(dotenvPath); err == nil {
		env.dotenv = values
	}
	return env
}

// Get returns the value of key, preferring the process environment
func (e Environment) Get(key string) string {
	if e.lookup != nil {
		if v, ok := e.lookup(key); ok {
			return v
		}
	}
	return e.dotenv[key]
}

// ApplyEnvironment overrides file settings with NAMESCAN_NER_URL,
// NAMESCAN_NER_ENABLED and NAMESCAN_FORMAT.
func ApplyEnvironment(config *Config, env Environment) error {
	if url := env.Get("NAMESCAN_NER_URL"); url != "" {
		config.Recognizers.NER.URL = url
		config.Recognizers.NER.Enabled = true
	}
	if raw := env.Get("NAMESCAN_NER_ENABLED"); raw != "" {
		enabled, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("NAMESCAN_NER_ENABLED: %w", err)
		}
		config.Recognizers.NER.Enabled = enabled
	}
	if format := env.Get("NAMESCAN_FORMAT"); format != "" {
		config.Defaults.Format = strings.ToLower(format)
	}
	return ValidateConfig(config)
}

// LoadConfigOrDefault loads configuration from configFile (or searches standard locations
// when configFile is empty). If loading fails, it returns a default configuration.
func LoadConfigOrDefault(configFile string) *Config {
	configPath := configFile
	if configPath == "" {
		configPath = FindConfigFile()
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		return Default()
	}
	return cfg
}
