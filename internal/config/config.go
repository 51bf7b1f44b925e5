package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/codingconcepts/env"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config is read once from the environment at startup.
type Config struct {
	AppPort  uint16 `env:"APP_PORT" default:"3000"`
	LogLevel string `env:"LOG_LEVEL" default:"info"`

	SessionSecret       string `env:"SESSION_SECRET" required:"true" validate:"min=32"`
	SessionSecureCookie bool   `env:"SESSION_SECURE_COOKIE" default:"false"`

	// StoreHost is passed to the dialer as-is; names like "my_redis" are valid.
	StoreHost     string `env:"STORE_HOST" required:"true" validate:"required"`
	StorePort     uint16 `env:"STORE_PORT" default:"6379" validate:"min=1"`
	StorePassword string `env:"STORE_PASSWORD"`
	StoreDB       int    `env:"STORE_DB" default:"0" validate:"min=0"`

	OAuthClientID     string `env:"OAUTH_CLIENT_ID" required:"true"`
	OAuthClientSecret string `env:"OAUTH_CLIENT_SECRET" required:"true"`
	OAuthIssuer       string `env:"OAUTH_ISSUER" default:"https://accounts.google.com" validate:"url"`
	OAuthExtraScopes  string `env:"OAUTH_EXTRA_SCOPES" default:"https://www.googleapis.com/auth/spreadsheets"`
	OAuthFetchProfile bool   `env:"OAUTH_FETCH_PROFILE" default:"true"`

	// CallbackURL must exactly match the redirect URI registered with the provider.
	CallbackURL string `env:"CALLBACK_URL" required:"true" validate:"url"`

	NotificationURL     string        `env:"NOTIFICATION_URL" required:"true" validate:"url"`
	NotificationTimeout time.Duration `env:"NOTIFICATION_TIMEOUT" default:"5s" validate:"min=1s,max=30s"`
}

// Error reports configuration that is missing or invalid. The process must
// not start serving traffic when Load returns one.
type Error struct {
	Err error
}

func (e *Error) Error() string {
	return "config: " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, &Error{Err: fmt.Errorf("failed to load .env file: %w", err)}
	}
	return FromEnv()
}

// FromEnv reads and validates the configuration from environment variables only.
func FromEnv() (Config, error) {
	var cfg Config
	if err := env.Set(&cfg); err != nil {
		return Config{}, &Error{Err: err}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks value constraints that the env tags cannot express.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag()))
			}
			return &Error{Err: fmt.Errorf("invalid configuration: %s", strings.Join(fields, ", "))}
		}
		return &Error{Err: err}
	}
	return nil
}

// StoreAddr is the host:port of the credential store.
func (c Config) StoreAddr() string {
	return c.StoreHost + ":" + strconv.Itoa(int(c.StorePort))
}

// ListenAddr is the address the HTTP server binds to.
func (c Config) ListenAddr() string {
	return ":" + strconv.Itoa(int(c.AppPort))
}

// ExtraScopes splits OAUTH_EXTRA_SCOPES on whitespace.
func (c Config) ExtraScopes() []string {
	return strings.Fields(c.OAuthExtraScopes)
}
