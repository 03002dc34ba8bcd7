package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App        App        `mapstructure:"app"`
	AI         AI         `mapstructure:"ai"`
	Enrich     Enrich     `mapstructure:"enrich"`
	Newsletter Newsletter `mapstructure:"newsletter"`
	Output     Output     `mapstructure:"output"`
	Email      Email      `mapstructure:"email"`
}

// App holds general application configuration
type App struct {
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
	DataDir  string `mapstructure:"data_dir"`
}

// AI holds AI/LLM configuration
type AI struct {
	Gemini GeminiConfig `mapstructure:"gemini"`
}

// GeminiConfig holds Google Gemini configuration
type GeminiConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	Timeout string `mapstructure:"timeout"`
}

// Enrich holds the extraction pipeline configuration
type Enrich struct {
	MaxPromptChars  int    `mapstructure:"max_prompt_chars"`
	SummaryMaxChars int    `mapstructure:"summary_max_chars"`
	MaxConcurrency  int    `mapstructure:"max_concurrency"`
	RequestTimeout  string `mapstructure:"request_timeout"`
}

// Newsletter holds issue-level configuration
type Newsletter struct {
	IssueNumber string `mapstructure:"issue_number"`
	IssueDate   string `mapstructure:"issue_date"`
	Name        string `mapstructure:"name"`
	Limit       int    `mapstructure:"limit"`
}

// Output holds output configuration
type Output struct {
	Directory string `mapstructure:"directory"`
}

// Email holds email delivery configuration
type Email struct {
	Enabled        bool   `mapstructure:"enabled"`
	ResendAPIKey   string `mapstructure:"resend_api_key"`
	FromAddress    string `mapstructure:"from_address"`
	FromName       string `mapstructure:"from_name"`
	RecipientsFile string `mapstructure:"recipients_file"`
	SendDelay      string `mapstructure:"send_delay"`
}

var globalConfig *Config

// Load loads the configuration from .env, config file, environment and defaults.
func Load(configFile string) (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	// Load .env file if it exists
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			fmt.Printf("Warning: Error loading .env file: %v\n", err)
		}
	}

	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
		viper.SetConfigName(".dealwire")
		viper.SetConfigType("yaml")
	}

	setDefaults()
	bindEnvironmentVariables()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, err
	}

	globalConfig = config
	return config, nil
}

// Get returns the global configuration, loading it if necessary
func Get() *Config {
	if globalConfig == nil {
		config, err := Load("")
		if err != nil {
			panic(fmt.Sprintf("Failed to load configuration: %v", err))
		}
		return config
	}
	return globalConfig
}

// setDefaults sets default configuration values
func setDefaults() {
	viper.SetDefault("app.debug", false)
	viper.SetDefault("app.log_level", "info")
	viper.SetDefault("app.data_dir", ".dealwire-cache")

	viper.SetDefault("ai.gemini.model", "gemini-flash-lite-latest")
	viper.SetDefault("ai.gemini.timeout", "120s")

	viper.SetDefault("enrich.max_prompt_chars", 2000)
	viper.SetDefault("enrich.summary_max_chars", 400)
	viper.SetDefault("enrich.max_concurrency", 1)
	viper.SetDefault("enrich.request_timeout", "120s")

	viper.SetDefault("newsletter.issue_number", "0001")
	viper.SetDefault("newsletter.name", "The M&A Letter")
	viper.SetDefault("newsletter.limit", 0)

	viper.SetDefault("output.directory", "issues")

	viper.SetDefault("email.enabled", false)
	viper.SetDefault("email.from_address", "newsletter@yourdomain.com")
	viper.SetDefault("email.from_name", "The M&A Letter")
	viper.SetDefault("email.recipients_file", "emails.txt")
	viper.SetDefault("email.send_delay", "500ms")
}

// bindEnvironmentVariables sets up flexible environment variable binding
func bindEnvironmentVariables() {
	bindEnvKeys("ai.gemini.api_key", []string{
		"GEMINI_API_KEY",
		"GOOGLE_GEMINI_API_KEY",
		"GOOGLE_AI_API_KEY",
	})

	bindEnvKeys("email.resend_api_key", []string{
		"RESEND_API_KEY",
	})

	bindEnvKeys("email.from_address", []string{
		"SENDER_EMAIL",
	})
}

// bindEnvKeys binds the first set environment variable from the list to a config key
func bindEnvKeys(configKey string, envKeys []string) {
	for _, envKey := range envKeys {
		if value := os.Getenv(envKey); value != "" {
			viper.Set(configKey, value)
			return
		}
	}
}

// validateConfig checks values that would otherwise fail deep inside the pipeline
func validateConfig(config *Config) error {
	if config.Enrich.MaxPromptChars <= 0 {
		return fmt.Errorf("enrich.max_prompt_chars must be positive, got %d", config.Enrich.MaxPromptChars)
	}
	if config.Enrich.SummaryMaxChars <= 0 {
		return fmt.Errorf("enrich.summary_max_chars must be positive, got %d", config.Enrich.SummaryMaxChars)
	}
	if config.Enrich.MaxConcurrency < 1 {
		return fmt.Errorf("enrich.max_concurrency must be at least 1, got %d", config.Enrich.MaxConcurrency)
	}
	if _, err := time.ParseDuration(config.Enrich.RequestTimeout); err != nil {
		return fmt.Errorf("invalid enrich.request_timeout %q: %w", config.Enrich.RequestTimeout, err)
	}
	if config.Email.Enabled {
		if config.Email.ResendAPIKey == "" {
			return fmt.Errorf("email.enabled is true but no Resend API key is set (RESEND_API_KEY)")
		}
		if _, err := time.ParseDuration(config.Email.SendDelay); err != nil {
			return fmt.Errorf("invalid email.send_delay %q: %w", config.Email.SendDelay, err)
		}
	}
	return nil
}

// RequestTimeoutDuration returns the parsed per-call LLM timeout.
func (e Enrich) RequestTimeoutDuration() time.Duration {
	d, err := time.ParseDuration(e.RequestTimeout)
	if err != nil {
		return 120 * time.Second
	}
	return d
}

// SendDelayDuration returns the parsed delay between recipient sends.
func (e Email) SendDelayDuration() time.Duration {
	d, err := time.ParseDuration(e.SendDelay)
	if err != nil {
		return 500 * time.Millisecond
	}
	return d
}
