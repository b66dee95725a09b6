// Package config loads peertriage settings from YAML with environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dshills/peertriage/internal/enhance"
	"github.com/dshills/peertriage/internal/llm"
)

const (
	EnvProvider = "PEERTRIAGE_PROVIDER"
	EnvBaseURL  = "PEERTRIAGE_BASE_URL"
	EnvModel    = "PEERTRIAGE_MODEL"
	EnvTimeout  = "PEERTRIAGE_TIMEOUT"
	EnvLogLevel = "PEERTRIAGE_LOG_LEVEL"
)

const (
	defaultProvider    = "ollama"
	defaultModel       = "llama2"
	defaultConcurrency = 4
	defaultLogLevel    = "info"
)

// Config holds peertriage configuration.
type Config struct {
	Provider ProviderConfig `yaml:"provider"`
	Timeout  time.Duration  `yaml:"timeout"`
	Sampling SamplingConfig `yaml:"sampling"`
	Enhance  EnhanceConfig  `yaml:"enhance"`
	Batch    BatchConfig    `yaml:"batch"`
	Outreach OutreachConfig `yaml:"outreach"`
	Log      LogConfig      `yaml:"log"`
}

type ProviderConfig struct {
	Name    string `yaml:"name"`     // ollama | anthropic | openai | google
	BaseURL string `yaml:"base_url"` // e.g. "http://localhost:11434"
	Model   string `yaml:"model"`
}

// SamplingConfig zero values select the defaults from llm.DefaultSampling.
type SamplingConfig struct {
	Temperature float64 `yaml:"temperature"`
	TopP        float64 `yaml:"top_p"`
	MaxTokens   int     `yaml:"max_tokens"`
}

type EnhanceConfig struct {
	GroupSuffix string `yaml:"group_suffix"`
}

type BatchConfig struct {
	Concurrency int `yaml:"concurrency"`
}

type OutreachConfig struct {
	Disabled bool `yaml:"disabled"`
}

type LogConfig struct {
	Level string `yaml:"level"` // debug | info | warn | error
}

// Load reads configuration from a YAML file. An empty path or a missing file
// yields the defaults. Environment overrides take precedence over the file.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("config: decode %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	applyDefaults(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Provider.Name == "" {
		cfg.Provider.Name = defaultProvider
	}
	if cfg.Provider.Model == "" {
		cfg.Provider.Model = defaultModel
	}
	if cfg.Provider.BaseURL == "" && cfg.Provider.Name == defaultProvider {
		cfg.Provider.BaseURL = llm.DefaultOllamaURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = llm.DefaultTimeout
	}

	def := llm.DefaultSampling()
	if cfg.Sampling.Temperature == 0 {
		cfg.Sampling.Temperature = def.Temperature
	}
	if cfg.Sampling.TopP == 0 {
		cfg.Sampling.TopP = def.TopP
	}
	if cfg.Sampling.MaxTokens == 0 {
		cfg.Sampling.MaxTokens = def.MaxTokens
	}

	if cfg.Enhance.GroupSuffix == "" {
		cfg.Enhance.GroupSuffix = enhance.DefaultGroupSuffix
	}
	if cfg.Batch.Concurrency == 0 {
		cfg.Batch.Concurrency = defaultConcurrency
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaultLogLevel
	}
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv(EnvProvider); v != "" {
		cfg.Provider.Name = v
	}
	if v := os.Getenv(EnvBaseURL); v != "" {
		cfg.Provider.BaseURL = v
	}
	if v := os.Getenv(EnvModel); v != "" {
		cfg.Provider.Model = v
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		d, err := parseTimeout(v)
		if err != nil {
			return fmt.Errorf("config: %s: %w", EnvTimeout, err)
		}
		cfg.Timeout = d
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}
	return nil
}

// parseTimeout accepts a Go duration ("45s") or a bare number of seconds.
func parseTimeout(v string) (time.Duration, error) {
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	return time.ParseDuration(v)
}

// Validate checks the loaded config for required fields and safe values.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("config: nil config")
	}
	switch strings.ToLower(cfg.Provider.Name) {
	case "ollama", "anthropic", "openai", "google":
	default:
		return fmt.Errorf("config: provider.name %q is not supported", cfg.Provider.Name)
	}
	if strings.TrimSpace(cfg.Provider.Model) == "" {
		return errors.New("config: provider.model must be set")
	}
	if cfg.Provider.BaseURL != "" {
		u, err := url.Parse(cfg.Provider.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("config: provider.base_url %q is not an absolute URL", cfg.Provider.BaseURL)
		}
	}
	if cfg.Timeout < 0 {
		return errors.New("config: timeout must not be negative")
	}
	if cfg.Sampling.Temperature < 0 || cfg.Sampling.Temperature > 2 {
		return fmt.Errorf("config: sampling.temperature %v out of range [0, 2]", cfg.Sampling.Temperature)
	}
	if cfg.Sampling.TopP < 0 || cfg.Sampling.TopP > 1 {
		return fmt.Errorf("config: sampling.top_p %v out of range [0, 1]", cfg.Sampling.TopP)
	}
	if cfg.Sampling.MaxTokens < 0 {
		return errors.New("config: sampling.max_tokens must not be negative")
	}
	if cfg.Batch.Concurrency < 1 {
		return errors.New("config: batch.concurrency must be at least 1")
	}
	switch strings.ToLower(cfg.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is not supported", cfg.Log.Level)
	}
	return nil
}

// LLMProvider maps the provider section onto llm.ProviderConfig.
func (c *Config) LLMProvider() llm.ProviderConfig {
	return llm.ProviderConfig{
		Name:    c.Provider.Name,
		BaseURL: c.Provider.BaseURL,
		Model:   c.Provider.Model,
		Timeout: c.Timeout,
	}
}

// LLMSampling maps the sampling section onto llm.Sampling.
func (c *Config) LLMSampling() llm.Sampling {
	return llm.Sampling{
		Temperature: c.Sampling.Temperature,
		TopP:        c.Sampling.TopP,
		MaxTokens:   c.Sampling.MaxTokens,
	}
}
