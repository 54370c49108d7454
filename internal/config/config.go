package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "config/config.yaml"

type QueueConfig struct {
	Driver  string   `yaml:"driver"`
	Name    string   `yaml:"name"`
	Brokers []string `yaml:"brokers"`
}

type SmsConfig struct {
	DryRun         bool   `yaml:"dry_run"`
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type Config struct {
	Server struct {
		Port                   int `yaml:"port"`
		ShutdownTimeoutSeconds int `yaml:"shutdown_timeout_seconds"`
	} `yaml:"server"`
	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Queue QueueConfig `yaml:"queue"`
	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUser     string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
	} `yaml:"email"`
	Templates struct {
		Dir string `yaml:"dir"`
	} `yaml:"templates"`
	Otp struct {
		ExpiryMinutes int `yaml:"expiry_minutes"`
		CodeHashCost  int `yaml:"code_hash_cost"`
	} `yaml:"otp"`
	PasswordReset struct {
		ExpiryMinutes int `yaml:"expiry_minutes"`
	} `yaml:"password_reset"`
	NotificationParams struct {
		CacheTTLMinutes int `yaml:"cache_ttl_minutes"`
	} `yaml:"notification_params"`
	Sms  SmsConfig `yaml:"sms"`
	Auth struct {
		JWTSecret string `yaml:"jwt_secret"`
	} `yaml:"auth"`
	Log struct {
		Level       string `yaml:"level"`
		Development bool   `yaml:"development"`
	} `yaml:"log"`
}

// LoadConfig reads the yaml file at path (NOTIFY_CONFIG or DefaultPath when
// empty), then applies .env and NOTIFY_* overrides and fills defaults.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	if path == "" {
		path = os.Getenv("NOTIFY_CONFIG")
	}
	if path == "" {
		path = DefaultPath
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config %s: %w", path, err)
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() {
	override := func(dst *string, key string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	override(&c.Database.DSN, "NOTIFY_DATABASE_URL")
	override(&c.Redis.Addr, "NOTIFY_REDIS_ADDR")
	override(&c.Email.SMTPPassword, "NOTIFY_SMTP_PASSWORD")
	override(&c.Auth.JWTSecret, "NOTIFY_JWT_SECRET")
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ShutdownTimeoutSeconds <= 0 {
		c.Server.ShutdownTimeoutSeconds = 10
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = "localhost:6379"
	}
	c.Queue.Driver = strings.ToLower(strings.TrimSpace(c.Queue.Driver))
	if c.Queue.Driver == "" {
		c.Queue.Driver = "redis"
	}
	if c.Queue.Name == "" {
		c.Queue.Name = "notifications"
	}
	if c.Templates.Dir == "" {
		c.Templates.Dir = "./templates"
	}
	if c.Otp.ExpiryMinutes <= 0 {
		c.Otp.ExpiryMinutes = 60
	}
	if c.PasswordReset.ExpiryMinutes <= 0 {
		c.PasswordReset.ExpiryMinutes = 60
	}
	if c.NotificationParams.CacheTTLMinutes <= 0 {
		c.NotificationParams.CacheTTLMinutes = 15
	}
	if c.Sms.TimeoutSeconds <= 0 {
		c.Sms.TimeoutSeconds = 10
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

func (c *Config) Validate() error {
	switch c.Queue.Driver {
	case "redis":
	case "kafka":
		if len(c.Queue.Brokers) == 0 {
			return errors.New("config: queue.brokers is required for the kafka driver")
		}
	default:
		return fmt.Errorf("config: unknown queue.driver %q", c.Queue.Driver)
	}
	return nil
}

func (c *Config) OtpTTL() time.Duration {
	return time.Duration(c.Otp.ExpiryMinutes) * time.Minute
}

func (c *Config) PasswordResetTTL() time.Duration {
	return time.Duration(c.PasswordReset.ExpiryMinutes) * time.Minute
}

func (c *Config) ParamsCacheTTL() time.Duration {
	return time.Duration(c.NotificationParams.CacheTTLMinutes) * time.Minute
}

func (c *Config) SmsTimeout() time.Duration {
	return time.Duration(c.Sms.TimeoutSeconds) * time.Second
}

func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.Server.ShutdownTimeoutSeconds) * time.Second
}
