package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Config is layered: defaults, then config.yaml from the config dir, then the environment.
type Config struct {
	Client   ClientConfig   `yaml:"client"`
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	SMTP     SMTPConfig     `yaml:"smtp"`
	IMAP     IMAPConfig     `yaml:"imap"`
	Relay    RelayConfig    `yaml:"relay"`
}

type ClientConfig struct {
	APIURL  string        `yaml:"api_url" envconfig:"SNAILMAIL_API_URL"`
	Sender  string        `yaml:"sender" envconfig:"SNAILMAIL_SENDER"`
	Timeout time.Duration `yaml:"timeout" envconfig:"SNAILMAIL_TIMEOUT"`
	LogFile string        `yaml:"log_file" envconfig:"SNAILMAIL_LOG_FILE"`
}

type ServerConfig struct {
	Addr     string `yaml:"addr" envconfig:"SNAILMAIL_HTTP_ADDR"`
	Seed     bool   `yaml:"seed" envconfig:"SNAILMAIL_SEED"`
	Username string `yaml:"username" envconfig:"SNAILMAIL_USERNAME"`
	Email    string `yaml:"email" envconfig:"SNAILMAIL_EMAIL"`
	LogLevel string `yaml:"log_level" envconfig:"SNAILMAIL_LOG_LEVEL"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver" envconfig:"SNAILMAIL_DB_DRIVER"` // sqlite or postgres
	DSN    string `yaml:"dsn" envconfig:"SNAILMAIL_DB_DSN"`
}

// SMTPConfig configures the inbound listener. Empty Addr disables it.
type SMTPConfig struct {
	Addr   string `yaml:"addr" envconfig:"SNAILMAIL_SMTP_ADDR"`
	Domain string `yaml:"domain" envconfig:"SNAILMAIL_SMTP_DOMAIN"`
}

// IMAPConfig configures the scheduled INBOX import. Empty Server disables it.
type IMAPConfig struct {
	Server   string        `yaml:"server" envconfig:"SNAILMAIL_IMAP_SERVER"`
	Port     int           `yaml:"port" envconfig:"SNAILMAIL_IMAP_PORT"`
	Username string        `yaml:"username" envconfig:"SNAILMAIL_IMAP_USERNAME"`
	Password string        `yaml:"-" envconfig:"SNAILMAIL_IMAP_PASSWORD"`
	Folder   string        `yaml:"folder" envconfig:"SNAILMAIL_IMAP_FOLDER"`
	Interval time.Duration `yaml:"interval" envconfig:"SNAILMAIL_IMAP_INTERVAL"`
	Limit    int           `yaml:"limit" envconfig:"SNAILMAIL_IMAP_LIMIT"`
}

// RelayConfig configures outbound delivery of sent mail. Empty Host disables it.
type RelayConfig struct {
	Host          string        `yaml:"host" envconfig:"SNAILMAIL_RELAY_HOST"`
	Port          int           `yaml:"port" envconfig:"SNAILMAIL_RELAY_PORT"`
	Username      string        `yaml:"username" envconfig:"SNAILMAIL_RELAY_USERNAME"`
	Password      string        `yaml:"-" envconfig:"SNAILMAIL_RELAY_PASSWORD"`
	RatePerMinute float64       `yaml:"rate_per_minute" envconfig:"SNAILMAIL_RELAY_RATE"`
	Timeout       time.Duration `yaml:"timeout" envconfig:"SNAILMAIL_RELAY_TIMEOUT"`
}

func Default() *Config {
	return &Config{
		Client: ClientConfig{
			APIURL:  "http://localhost:8080",
			Sender:  "me@snailmail.com",
			Timeout: 10 * time.Second,
		},
		Server: ServerConfig{
			Addr:     ":8080",
			Seed:     true,
			Username: "SnailMailGuy123",
			Email:    "me@snailmail.com",
			LogLevel: "info",
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
		},
		SMTP: SMTPConfig{
			Domain: "snailmail.com",
		},
		IMAP: IMAPConfig{
			Port:     993,
			Folder:   "INBOX",
			Interval: 5 * time.Minute,
			Limit:    25,
		},
		Relay: RelayConfig{
			Port:          587,
			RatePerMinute: 60,
			Timeout:       30 * time.Second,
		},
	}
}

func GetConfigDir() (string, error) {
	var configDir string

	if homeDir, err := os.UserHomeDir(); err == nil {
		if _, err := os.Stat(filepath.Join(homeDir, "Library/Application Support")); err == nil {
			configDir = filepath.Join(homeDir, "Library/Application Support", "snailmail")
		} else {
			configDir = filepath.Join(homeDir, ".config", "snailmail")
		}
	} else {
		return "", err
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return "", err
	}

	return configDir, nil
}

// Load reads .env, config.yaml in the config dir and the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	configDir, err := GetConfigDir()
	if err != nil {
		return nil, errors.Wrap(err, "config dir")
	}

	cfg, err := LoadFile(filepath.Join(configDir, "config.yaml"))
	if err != nil {
		return nil, err
	}

	if cfg.Database.Driver == "sqlite" && cfg.Database.DSN == "" {
		cfg.Database.DSN = filepath.Join(configDir, "db.sqlite")
	}
	if cfg.Client.LogFile == "" {
		cfg.Client.LogFile = filepath.Join(configDir, "snailmail.log")
	}

	return cfg, nil
}

// LoadFile applies path over the defaults and then the environment over that.
// A missing file is not an error.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrapf(err, "parse %s", path)
		}
	case !os.IsNotExist(err):
		return nil, errors.Wrapf(err, "read %s", path)
	}

	if err := envconfig.Process("", cfg); err != nil {
		return nil, errors.Wrap(err, "environment")
	}

	return cfg, nil
}
