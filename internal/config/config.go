package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	Port    int    `yaml:"port"`
	GinMode string `yaml:"gin_mode"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type TokensConfig struct {
	AccessSecret  string `yaml:"access_secret"`
	RefreshSecret string `yaml:"refresh_secret"`
	Issuer        string `yaml:"issuer"`
	AccessTTL     string `yaml:"access_ttl"`
	RefreshTTL    string `yaml:"refresh_ttl"`
}

type SessionsConfig struct {
	Backend       string `yaml:"backend"`
	MaxPerAccount int    `yaml:"max_per_account"`
}

type ResetConfig struct {
	CodeTTL string `yaml:"code_ttl"`
}

type AuditConfig struct {
	Enabled bool   `yaml:"enabled"`
	Brokers string `yaml:"brokers"`
	Topic   string `yaml:"topic"`
}

type TwilioConfig struct {
	AccountSID string `yaml:"account_sid"`
	AuthToken  string `yaml:"auth_token"`
	FromNumber string `yaml:"from_number"`
}

type EmailConfig struct {
	SMTPAddr string `yaml:"smtp_addr"`
	From     string `yaml:"from"`
}

type ConfigFile struct {
	App      AppConfig      `yaml:"app"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Tokens   TokensConfig   `yaml:"tokens"`
	Sessions SessionsConfig `yaml:"sessions"`
	Reset    ResetConfig    `yaml:"reset"`
	Audit    AuditConfig    `yaml:"audit"`
	Twilio   TwilioConfig   `yaml:"twilio"`
	Email    EmailConfig    `yaml:"email"`
}

// Session store backends selectable via sessions.backend.
const (
	SessionBackendDatabase = "database"
	SessionBackendRedis    = "redis"
)

// Defaults applied when the file leaves a field unset.
const (
	DefaultSessionsPerAccount = 10
	DefaultResetCodeTTL       = 15 * time.Minute
)

type Config struct {
	Port    string
	GinMode string

	DSN           string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	AccessSecret  string
	RefreshSecret string
	TokenIssuer   string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration

	SessionBackend     string
	SessionsPerAccount int

	ResetCodeTTL time.Duration

	AuditEnabled bool
	AuditBrokers []string
	AuditTopic   string

	TwilioSID   string
	TwilioToken string
	TwilioFrom  string

	SMTPAddr  string
	EmailFrom string
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// Load reads the config file named by CONFIG_PATH, falling back to the
// conventional location. Secrets and connection strings may be overridden
// through environment variables so the file can stay checked in.
func Load() (*Config, error) {
	return LoadFrom(env("CONFIG_PATH", "config/config.yml"))
}

func LoadFrom(path string) (*Config, error) {
	configFile, err := loadConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	accTTL, err := time.ParseDuration(configFile.Tokens.AccessTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid access token TTL: %w", err)
	}

	refTTL, err := time.ParseDuration(configFile.Tokens.RefreshTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token TTL: %w", err)
	}

	resetTTL := DefaultResetCodeTTL
	if configFile.Reset.CodeTTL != "" {
		resetTTL, err = time.ParseDuration(configFile.Reset.CodeTTL)
		if err != nil {
			return nil, fmt.Errorf("invalid reset code TTL: %w", err)
		}
	}

	backend := env("SESSION_BACKEND", configFile.Sessions.Backend)
	if backend == "" {
		backend = SessionBackendDatabase
	}
	if backend != SessionBackendDatabase && backend != SessionBackendRedis {
		return nil, fmt.Errorf("unknown session backend %q", backend)
	}

	maxSessions := configFile.Sessions.MaxPerAccount
	if maxSessions <= 0 {
		maxSessions = DefaultSessionsPerAccount
	}

	var brokers []string
	for _, b := range strings.Split(env("KAFKA_BROKERS", configFile.Audit.Brokers), ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}

	return &Config{
		Port:    fmt.Sprintf("%d", configFile.App.Port),
		GinMode: configFile.App.GinMode,

		DSN:           env("DATABASE_DSN", configFile.Database.DSN),
		RedisAddr:     env("REDIS_ADDR", configFile.Redis.Addr),
		RedisPassword: env("REDIS_PASSWORD", configFile.Redis.Password),
		RedisDB:       configFile.Redis.DB,

		AccessSecret:  env("ACCESS_TOKEN_SECRET", configFile.Tokens.AccessSecret),
		RefreshSecret: env("REFRESH_TOKEN_SECRET", configFile.Tokens.RefreshSecret),
		TokenIssuer:   configFile.Tokens.Issuer,
		AccessTTL:     accTTL,
		RefreshTTL:    refTTL,

		SessionBackend:     backend,
		SessionsPerAccount: maxSessions,

		ResetCodeTTL: resetTTL,

		AuditEnabled: configFile.Audit.Enabled,
		AuditBrokers: brokers,
		AuditTopic:   configFile.Audit.Topic,

		TwilioSID:   env("TWILIO_ACCOUNT_SID", configFile.Twilio.AccountSID),
		TwilioToken: env("TWILIO_AUTH_TOKEN", configFile.Twilio.AuthToken),
		TwilioFrom:  env("TWILIO_FROM_NUMBER", configFile.Twilio.FromNumber),

		SMTPAddr:  env("SMTP_ADDR", configFile.Email.SMTPAddr),
		EmailFrom: env("EMAIL_FROM", configFile.Email.From),
	}, nil
}

func loadConfigFile(path string) (*ConfigFile, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	var config ConfigFile
	if err := yaml.Unmarshal(bytes, &config); err != nil {
		return nil, fmt.Errorf("could not parse config yaml: %w", err)
	}

	return &config, nil
}
