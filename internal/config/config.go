package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
)

// Config holds the full server configuration, parsed from environment
// variables at startup.
type Config struct {
	ServerHost  string `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	ServerPort  int    `env:"SERVER_PORT" envDefault:"3000"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`

	MongoURI      string `env:"MONGO_URI"`
	MongoDatabase string `env:"MONGO_DATABASE" envDefault:"masal"`

	Token      TokenConfig
	OpenRouter OpenRouterConfig
	SMTP       SMTPConfig

	// AppPasswordResetURL is the frontend page the reset link points at.
	AppPasswordResetURL string `env:"APP_PASSWORD_RESET_URL" envDefault:"http://localhost:5173/resetpassword"`

	// ConsulAddr, when set, enables service registration with a Consul agent.
	ConsulAddr string `env:"CONSUL_ADDR"`
}

// TokenConfig holds session and password reset token settings.
type TokenConfig struct {
	Secret                      string        `env:"JWT_SECRET"`
	Issuer                      string        `env:"JWT_ISSUER" envDefault:"masal-api"`
	ExpiresIn                   time.Duration `env:"JWT_EXPIRES_IN" envDefault:"720h"`
	PasswordResetTokenExpiresIn time.Duration `env:"PASSWORD_RESET_TOKEN_EXPIRES_IN" envDefault:"10m"`
}

// OpenRouterConfig holds settings for the hosted text generation API.
type OpenRouterConfig struct {
	APIKey string `env:"OPENROUTER_API_KEY"`
	Model  string `env:"OPENROUTER_MODEL" envDefault:"mistralai/mistral-7b-instruct:free"`
}

// SMTPConfig holds mail delivery settings. When Host is empty no mail is
// sent; outside production the raw reset token is logged instead.
type SMTPConfig struct {
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT" envDefault:"587"`
	Username string `env:"SMTP_USERNAME"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"SMTP_FROM"`
}

// New parses the configuration from environment variables. Missing required
// secrets are fatal: the process must not come up without them.
func New(logger *zerolog.Logger) *Config {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to parse environment variables")
	}

	if err := cfg.validate(); err != nil {
		logger.Fatal().Err(err).Msg("failed to validate configuration")
	}

	return &cfg
}

func (c *Config) validate() error {
	if c.MongoURI == "" {
		return fmt.Errorf("missing MONGO_URI environment variable")
	}
	if c.Token.Secret == "" {
		return fmt.Errorf("missing JWT_SECRET environment variable")
	}

	return nil
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Configured reports whether SMTP delivery is set up.
func (c *SMTPConfig) Configured() bool {
	return c.Host != ""
}
