package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	Env         string        `mapstructure:"env" validate:"required,oneof=dev test prod"`
	HTTPPort    string        `mapstructure:"http_port" validate:"required,numeric"`
	LogLevel    string        `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	DatabaseURL string        `mapstructure:"database_url" validate:"required"`
	Migrate     bool          `mapstructure:"migrate"`
	JWTSecret   string        `mapstructure:"jwt_secret" validate:"required,min=16"`
	JWTIssuer   string        `mapstructure:"jwt_issuer"`
	TokenTTL    time.Duration `mapstructure:"token_ttl" validate:"gte=0"`
	RateRPS     int           `mapstructure:"rate_rps" validate:"gte=0"`
	Workers     int           `mapstructure:"workers" validate:"gt=0"`
	Mail        MailConfig    `mapstructure:"mail"`
}

// MailConfig holds the SMTP relay credentials used for account e-mails.
type MailConfig struct {
	Host     string `mapstructure:"host" validate:"required"`
	Port     int    `mapstructure:"port" validate:"gt=0,lt=65536"`
	Username string `mapstructure:"username" validate:"required"`
	Password string `mapstructure:"password" validate:"required"`
	From     string `mapstructure:"from" validate:"required,email"`
}

// env var -> config key
var bindings = map[string]string{
	"env":           "APP_ENV",
	"http_port":     "HTTP_PORT",
	"log_level":     "LOG_LEVEL",
	"database_url":  "DATABASE_URL",
	"migrate":       "APP_MIGRATE",
	"jwt_secret":    "JWT_SECRET",
	"jwt_issuer":    "JWT_ISSUER",
	"token_ttl":     "TOKEN_TTL",
	"rate_rps":      "RATE_RPS",
	"workers":       "WORKERS",
	"mail.host":     "MAIL_HOST",
	"mail.port":     "MAIL_PORT",
	"mail.username": "MAIL_USERNAME",
	"mail.password": "MAIL_PASSWORD",
	"mail.from":     "MAIL_FROM",
}

// Load reads the configuration from the environment. Missing required
// settings are reported together so startup fails once with the full list.
func Load() (Config, error) {
	v := viper.New()
	v.SetDefault("env", "dev")
	v.SetDefault("http_port", "8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("migrate", false)
	v.SetDefault("jwt_issuer", "task-manager")
	v.SetDefault("token_ttl", "0s")
	v.SetDefault("rate_rps", 100)
	v.SetDefault("workers", 4)
	v.SetDefault("mail.port", 587)

	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return Config{}, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", describe(err))
	}
	return cfg, nil
}

func describe(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	reverse := make(map[string]string, len(bindings))
	for key, env := range bindings {
		reverse[key] = env
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		key := fieldKey(fe.Namespace())
		name := reverse[key]
		if name == "" {
			name = key
		}
		parts = append(parts, fmt.Sprintf("%s (%s)", name, fe.Tag()))
	}
	return fmt.Errorf("%s", strings.Join(parts, ", "))
}

// fieldKey turns "Config.Mail.From" into "mail.from".
func fieldKey(ns string) string {
	ns = strings.TrimPrefix(ns, "Config.")
	switch ns {
	case "Env":
		return "env"
	case "HTTPPort":
		return "http_port"
	case "LogLevel":
		return "log_level"
	case "DatabaseURL":
		return "database_url"
	case "JWTSecret":
		return "jwt_secret"
	case "TokenTTL":
		return "token_ttl"
	case "RateRPS":
		return "rate_rps"
	case "Workers":
		return "workers"
	}
	return strings.ToLower(ns)
}

// IsMemoryStore reports whether the database URL selects the in-process store.
func (c Config) IsMemoryStore() bool {
	return strings.HasPrefix(c.DatabaseURL, "memory://")
}
