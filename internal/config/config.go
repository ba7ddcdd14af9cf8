// Package config loads the client configuration from viper.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds the configuration for the chat client
type Config struct {
	Endpoint       string `toml:"endpoint" mapstructure:"endpoint"`               // Backend chat URL
	SessionParam   string `toml:"session_param" mapstructure:"session_param"`     // Query parameter carrying the session token
	RequestTimeout string `toml:"request_timeout" mapstructure:"request_timeout"` // Duration string, "0s" waits forever
	RenderMarkdown bool   `toml:"render_markdown" mapstructure:"render_markdown"`
	LogLevel       string `toml:"log_level" mapstructure:"log_level"`
	LogFile        string `toml:"log_file" mapstructure:"log_file"` // Empty logs to stderr

	timeout time.Duration
}

// GetEndpoint returns the backend URL
func (c *Config) GetEndpoint() string {
	return c.Endpoint
}

// GetSessionParam returns the name of the session query parameter
func (c *Config) GetSessionParam() string {
	return c.SessionParam
}

// GetRequestTimeout returns the parsed request timeout
func (c *Config) GetRequestTimeout() time.Duration {
	return c.timeout
}

// NewDefaultConfig returns a new Config with default values
func NewDefaultConfig() *Config {
	return &Config{
		Endpoint:       "http://127.0.0.1:8000/chat",
		SessionParam:   "session_id",
		RequestTimeout: "0s", // no timeout
		RenderMarkdown: true,
		LogLevel:       "warn",
		LogFile:        "",
	}
}

// SetDefaults registers the default values with viper
func SetDefaults(v *viper.Viper) {
	d := NewDefaultConfig()
	v.SetDefault("endpoint", d.Endpoint)
	v.SetDefault("session_param", d.SessionParam)
	v.SetDefault("request_timeout", d.RequestTimeout)
	v.SetDefault("render_markdown", d.RenderMarkdown)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_file", d.LogFile)
}

// LoadConfig loads configuration from the global viper instance
func LoadConfig() (*Config, error) {
	return Load(viper.GetViper())
}

// Load unmarshals, expands and validates the configuration held by v
func Load(v *viper.Viper) (*Config, error) {
	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	config.Endpoint = expandEnvVar(config.Endpoint)
	config.SessionParam = expandEnvVar(config.SessionParam)

	if _, err := ParseEndpoint(config.Endpoint); err != nil {
		return nil, err
	}
	if config.SessionParam == "" {
		return nil, fmt.Errorf("session_param cannot be empty")
	}

	timeout, err := ParseTimeout(config.RequestTimeout)
	if err != nil {
		return nil, err
	}
	config.timeout = timeout

	if config.LogFile != "" {
		logFile, err := ResolvePath(v, config.LogFile)
		if err != nil {
			return nil, fmt.Errorf("error resolving log file path '%s': %w", config.LogFile, err)
		}
		config.LogFile = logFile
	}

	return config, nil
}

// ParseTimeout parses a request timeout. Empty and "0" mean no timeout.
func ParseTimeout(value string) (time.Duration, error) {
	if value == "" || value == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid request_timeout %q: %w", value, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("request_timeout cannot be negative: %s", value)
	}
	return d, nil
}
