package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultHost           = "0.0.0.0"
	defaultPort           = "5000"
	defaultRateLimitRPS   = 25.0
	defaultRateLimitBurst = 50
)

// Config aggregates runtime configuration resolved from multiple sources.
// Precedence: CLI flags > Environment variables > YAML config > Profile defaults
type Config struct {
	Profile

	Host                 string
	Port                 string
	ShutdownGracePeriod  time.Duration
	ReadHeaderTimeout    time.Duration
	WriteTimeout         time.Duration
	IdleTimeout          time.Duration
	EnableRequestLogging bool
	RateLimitRPS         float64
	RateLimitBurst       int
}

// Addr returns the listen address built from Host and Port.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// yamlConfig represents the YAML configuration file structure.
type yamlConfig struct {
	Environment          string        `yaml:"environment"`
	Host                 string        `yaml:"host"`
	Port                 string        `yaml:"port"`
	ShutdownGracePeriod  string        `yaml:"shutdown_grace_period"`
	ReadHeaderTimeout    string        `yaml:"read_header_timeout"`
	WriteTimeout         string        `yaml:"write_timeout"`
	IdleTimeout          string        `yaml:"idle_timeout"`
	EnableRequestLogging *bool         `yaml:"enable_request_logging"`
	RateLimit            yamlRateLimit `yaml:"rate_limit"`
	Logging              yamlLogging   `yaml:"logging"`
}

// yamlRateLimit represents the rate limit section in YAML.
type yamlRateLimit struct {
	RPS   *float64 `yaml:"rps"`
	Burst *int     `yaml:"burst"`
}

type yamlLogging struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// envConfig lists the recognised environment variables. Empty means unset.
type envConfig struct {
	Environment       string `env:"APP_ENV"`
	LegacyEnvironment string `env:"FLASK_ENV"`
	SecretKey   string `env:"SECRET_KEY"`

	CustomGPTAPIKey     string `env:"CUSTOMGPT_API_KEY"`
	CustomGPTProjectID  string `env:"CUSTOMGPT_PROJECT_ID"`
	CustomGPTProjectKey string `env:"CUSTOMGPT_PROJECT_KEY"`
	CustomGPTBaseURL    string `env:"CUSTOMGPT_BASE_URL"`
	CustomGPTEmbedURL   string `env:"CUSTOMGPT_EMBED_URL"`

	CRMAPIURL string `env:"CRM_API_URL"`
	CRMAPIKey string `env:"CRM_API_KEY"`

	DatabaseURL string `env:"DATABASE_URL"`
	RedisURL    string `env:"REDIS_URL"`

	LogLevel string `env:"LOG_LEVEL"`
	LogFile  string `env:"LOG_FILE"`

	Host           string `env:"HOST"`
	Port           string `env:"PORT"`
	RateLimitRPS   string `env:"RATE_LIMIT_RPS"`
	RateLimitBurst string `env:"RATE_LIMIT_BURST"`
}

// CLIOverrides holds command-line flag overrides.
type CLIOverrides struct {
	ConfigFile     string
	EnvFile        string
	Environment    *string
	Host           *string
	Port           *string
	RateLimitRPS   *float64
	RateLimitBurst *int
}

// Load extracts configuration from multiple sources with precedence:
// CLI flags > Environment variables > YAML config > Profile defaults
func Load(overrides *CLIOverrides) (Config, error) {
	if overrides == nil {
		overrides = &CLIOverrides{}
	}

	if err := loadDotEnv(overrides.EnvFile); err != nil {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}

	var envCfg envConfig
	if err := env.Parse(&envCfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}

	var yamlCfg *yamlConfig
	if overrides.ConfigFile != "" {
		loaded, err := loadFromFile(overrides.ConfigFile)
		if err != nil {
			return Config{}, fmt.Errorf("load YAML config: %w", err)
		}
		yamlCfg = loaded
	}

	cfg := defaultConfig(Resolve(environmentName(yamlCfg, envCfg, overrides)))

	if yamlCfg != nil {
		applyYAMLConfig(&cfg, yamlCfg)
	}
	applyEnvConfig(&cfg, envCfg)
	applyCLIOverrides(&cfg, overrides)

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// defaultConfig returns a Config built on the given profile.
func defaultConfig(profile Profile) Config {
	return Config{
		Profile:              profile,
		Host:                 defaultHost,
		Port:                 defaultPort,
		ShutdownGracePeriod:  10 * time.Second,
		ReadHeaderTimeout:    5 * time.Second,
		WriteTimeout:         15 * time.Second,
		IdleTimeout:          60 * time.Second,
		EnableRequestLogging: true,
		RateLimitRPS:         defaultRateLimitRPS,
		RateLimitBurst:       defaultRateLimitBurst,
	}
}

// environmentName picks the profile selector; absent everywhere means development.
// FLASK_ENV is honoured when APP_ENV is unset.
func environmentName(yamlCfg *yamlConfig, envCfg envConfig, overrides *CLIOverrides) string {
	name := EnvDevelopment
	if yamlCfg != nil && yamlCfg.Environment != "" {
		name = yamlCfg.Environment
	}
	if envCfg.LegacyEnvironment != "" {
		name = envCfg.LegacyEnvironment
	}
	if envCfg.Environment != "" {
		name = envCfg.Environment
	}
	if overrides.Environment != nil && *overrides.Environment != "" {
		name = *overrides.Environment
	}
	return name
}

// loadDotEnv populates unset environment variables from path when the file exists.
func loadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(path string) (*yamlConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	return &yamlCfg, nil
}

// applyYAMLConfig applies YAML configuration to the Config struct.
func applyYAMLConfig(cfg *Config, yamlCfg *yamlConfig) {
	if yamlCfg.Host != "" {
		cfg.Host = yamlCfg.Host
	}

	if yamlCfg.Port != "" {
		cfg.Port = yamlCfg.Port
	}

	applyDuration(&cfg.ShutdownGracePeriod, yamlCfg.ShutdownGracePeriod)
	applyDuration(&cfg.ReadHeaderTimeout, yamlCfg.ReadHeaderTimeout)
	applyDuration(&cfg.WriteTimeout, yamlCfg.WriteTimeout)
	applyDuration(&cfg.IdleTimeout, yamlCfg.IdleTimeout)

	if yamlCfg.EnableRequestLogging != nil {
		cfg.EnableRequestLogging = *yamlCfg.EnableRequestLogging
	}

	if yamlCfg.RateLimit.RPS != nil && *yamlCfg.RateLimit.RPS >= 0 {
		cfg.RateLimitRPS = *yamlCfg.RateLimit.RPS
	}

	if yamlCfg.RateLimit.Burst != nil && *yamlCfg.RateLimit.Burst >= 0 {
		cfg.RateLimitBurst = *yamlCfg.RateLimit.Burst
	}

	if yamlCfg.Logging.Level != "" {
		cfg.LogLevel = yamlCfg.Logging.Level
	}

	if yamlCfg.Logging.File != "" {
		cfg.LogFile = yamlCfg.Logging.File
	}
}

func applyDuration(dst *time.Duration, raw string) {
	if raw == "" {
		return
	}
	if d, err := time.ParseDuration(raw); err == nil {
		*dst = d
	}
}

// applyEnvConfig applies environment variable configuration.
func applyEnvConfig(cfg *Config, envCfg envConfig) {
	setIfPresent(&cfg.SecretKey, envCfg.SecretKey)

	setIfPresent(&cfg.CustomGPT.APIKey, envCfg.CustomGPTAPIKey)
	setIfPresent(&cfg.CustomGPT.ProjectID, envCfg.CustomGPTProjectID)
	setIfPresent(&cfg.CustomGPT.ProjectKey, envCfg.CustomGPTProjectKey)
	setIfPresent(&cfg.CustomGPT.BaseURL, envCfg.CustomGPTBaseURL)
	setIfPresent(&cfg.CustomGPT.EmbedURL, envCfg.CustomGPTEmbedURL)

	setIfPresent(&cfg.CRM.APIURL, envCfg.CRMAPIURL)
	setIfPresent(&cfg.CRM.APIKey, envCfg.CRMAPIKey)

	// testing always runs against the in-memory database
	if cfg.Name != EnvTesting {
		setIfPresent(&cfg.DatabaseURL, envCfg.DatabaseURL)
	}
	setIfPresent(&cfg.RedisURL, envCfg.RedisURL)

	setIfPresent(&cfg.LogLevel, envCfg.LogLevel)
	setIfPresent(&cfg.LogFile, envCfg.LogFile)

	setIfPresent(&cfg.Host, envCfg.Host)
	setIfPresent(&cfg.Port, envCfg.Port)

	if rps := strings.TrimSpace(envCfg.RateLimitRPS); rps != "" {
		if value, err := strconv.ParseFloat(rps, 64); err == nil && value >= 0 {
			cfg.RateLimitRPS = value
		}
	}

	if burst := strings.TrimSpace(envCfg.RateLimitBurst); burst != "" {
		if value, err := strconv.Atoi(burst); err == nil && value >= 0 {
			cfg.RateLimitBurst = value
		}
	}
}

func setIfPresent(dst *string, value string) {
	if value = strings.TrimSpace(value); value != "" {
		*dst = value
	}
}

// applyCLIOverrides applies command-line flag overrides.
func applyCLIOverrides(cfg *Config, overrides *CLIOverrides) {
	if overrides.Host != nil && *overrides.Host != "" {
		cfg.Host = *overrides.Host
	}

	if overrides.Port != nil && *overrides.Port != "" {
		cfg.Port = *overrides.Port
	}

	if overrides.RateLimitRPS != nil && *overrides.RateLimitRPS >= 0 {
		cfg.RateLimitRPS = *overrides.RateLimitRPS
	}

	if overrides.RateLimitBurst != nil && *overrides.RateLimitBurst >= 0 {
		cfg.RateLimitBurst = *overrides.RateLimitBurst
	}
}

// validateConfig validates the final configuration.
func validateConfig(cfg Config) error {
	port, err := strconv.Atoi(cfg.Port)
	if err != nil || port < 0 || port > 65535 {
		return fmt.Errorf("PORT must be an integer between 0 and 65535, got %q", cfg.Port)
	}
	if cfg.RateLimitRPS < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must be >= 0")
	}
	if cfg.RateLimitBurst < 0 {
		return fmt.Errorf("RATE_LIMIT_BURST must be >= 0")
	}
	if cfg.MaxContentLength <= 0 {
		return fmt.Errorf("max content length must be positive")
	}
	return nil
}
