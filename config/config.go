package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the assistant
type Config struct {
	General   GeneralConfig   `mapstructure:"general"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Tools     ToolsConfig     `mapstructure:"tools"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Server    ServerConfig    `mapstructure:"server"`
}

// GeneralConfig contains general application settings
type GeneralConfig struct {
	Debug          bool          `mapstructure:"debug"`
	LogLevel       string        `mapstructure:"log_level"`
	DefaultTimeout time.Duration `mapstructure:"default_timeout"`
}

// LLMConfig contains the language model provider settings
type LLMConfig struct {
	Provider    string        `mapstructure:"provider"` // groq, openai, etc.
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"`
	Model       string        `mapstructure:"model"`
	Temperature float64       `mapstructure:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// ToolsConfig contains external tool adapter settings
type ToolsConfig struct {
	GitHub  GitHubConfig  `mapstructure:"github"`
	NewsAPI NewsAPIConfig `mapstructure:"newsapi"`
}

// GitHubConfig contains GitHub search API settings
type GitHubConfig struct {
	Token      string        `mapstructure:"token"` // optional, raises rate limits
	Endpoint   string        `mapstructure:"endpoint"`
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxResults int           `mapstructure:"max_results"`
}

// NewsAPIConfig contains NewsAPI settings
type NewsAPIConfig struct {
	APIKey     string        `mapstructure:"api_key"`
	Endpoint   string        `mapstructure:"endpoint"`
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxResults int           `mapstructure:"max_results"`
}

// TelemetryConfig contains telemetry and monitoring settings
type TelemetryConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// ServerConfig contains HTTP shell settings
type ServerConfig struct {
	Listen   string `mapstructure:"listen"`
	WebUIDir string `mapstructure:"webui_dir"`
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	} else {
		viper.SetConfigName("scout_config")
		viper.SetConfigType("json")
		viper.AddConfigPath("./config")
		viper.AddConfigPath(".")
	}

	viper.SetEnvPrefix("SCOUT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	// Config file is optional - defaults plus env overrides are enough
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	overrideFromEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	viper.SetDefault("general.debug", false)
	viper.SetDefault("general.log_level", "info")
	viper.SetDefault("general.default_timeout", "60s")

	viper.SetDefault("llm.provider", "groq")
	viper.SetDefault("llm.base_url", "https://api.groq.com/openai/v1/chat/completions")
	viper.SetDefault("llm.model", "llama-3.3-70b-versatile")
	viper.SetDefault("llm.temperature", 0.1)
	viper.SetDefault("llm.max_tokens", 2048)
	viper.SetDefault("llm.timeout", "60s")

	viper.SetDefault("tools.github.endpoint", "https://api.github.com")
	viper.SetDefault("tools.github.timeout", "10s")
	viper.SetDefault("tools.github.max_results", 100)

	viper.SetDefault("tools.newsapi.endpoint", "https://newsapi.org/v2")
	viper.SetDefault("tools.newsapi.timeout", "10s")
	viper.SetDefault("tools.newsapi.max_results", 100)

	viper.SetDefault("telemetry.enabled", true)

	viper.SetDefault("server.listen", ":8080")
	viper.SetDefault("server.webui_dir", "webui")
}

// overrideFromEnv overrides configuration with environment variables for secrets
func overrideFromEnv() {
	if apiKey := os.Getenv("GROQ_API_KEY"); apiKey != "" {
		viper.Set("llm.api_key", apiKey)
	}
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		viper.Set("tools.github.token", token)
	}
	if apiKey := os.Getenv("NEWS_API_KEY"); apiKey != "" {
		viper.Set("tools.newsapi.api_key", apiKey)
	}
}

// validateConfig validates the configuration
func validateConfig(config *Config) error {
	if config.LLM.APIKey == "" {
		return fmt.Errorf("llm api key is required (set GROQ_API_KEY)")
	}
	if config.Tools.NewsAPI.APIKey == "" {
		return fmt.Errorf("newsapi api key is required (set NEWS_API_KEY)")
	}
	// GitHub token is optional: absent just means default rate limits
	return nil
}
