package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const defaultMetricsJob = "seat_allocator"

// SMSConfig controls applicant text messages sent through AWS SNS
type SMSConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Region   string `yaml:"region,omitempty" validate:"required_if=Enabled true"`
	SenderID string `yaml:"senderID,omitempty" validate:"omitempty,alphanum,max=11"`
}

// EmailConfig controls the officer allocation summary sent through Gmail
type EmailConfig struct {
	OfficerEmail string `yaml:"officerEmail,omitempty" validate:"omitempty,email"`
	GmailUserID  string `yaml:"gmailUserID,omitempty"`
	GmailSender  string `yaml:"gmailSender,omitempty"`
}

// Enabled reports whether an officer address is configured
func (e EmailConfig) Enabled() bool {
	return e.OfficerEmail != ""
}

// MetricsConfig points at an optional Prometheus Pushgateway
type MetricsConfig struct {
	PushgatewayURL string `yaml:"pushgatewayURL,omitempty" validate:"omitempty,url"`
	Job            string `yaml:"job,omitempty"`
}

// Config represents the application configuration
type Config struct {
	DatabaseURL string        `yaml:"databaseURL" validate:"required"`
	SMS         SMSConfig     `yaml:"sms"`
	Email       EmailConfig   `yaml:"email"`
	Metrics     MetricsConfig `yaml:"metrics"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// LoadWithEnv loads seat_allocator_config.<env>.yaml after loading secrets from .env.<env>
func LoadWithEnv(env string) (*Config, error) {
	if err := loadDotEnv(env); err != nil {
		return nil, err
	}

	configPath, err := findFile(fmt.Sprintf("seat_allocator_config.%s.yaml", env))
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path.
// ${VAR} references are expanded from the environment before parsing.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.Metrics.Job == "" {
		cfg.Metrics.Job = defaultMetricsJob
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration struct
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// loadDotEnv loads .env.<env> from the working directory if it exists.
// Variables already set in the environment win.
func loadDotEnv(env string) error {
	name := ".env." + env
	if _, err := os.Stat(name); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(name); err != nil {
		return fmt.Errorf("failed to load %s: %w", name, err)
	}
	return nil
}

// findFile looks for name in the current directory, then in the user's home directory
func findFile(name string) (string, error) {
	if _, err := os.Stat(name); err == nil {
		return name, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homePath := filepath.Join(homeDir, name)
	if _, err := os.Stat(homePath); err == nil {
		return homePath, nil
	}

	return "", fmt.Errorf("%s not found in current directory or home directory", name)
}
