package config

import (
	"errors"
	"io/fs"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	auth "github.com/goliatone/go-admin-auth"
	goerrors "github.com/goliatone/go-errors"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"golang.org/x/crypto/bcrypt"
)

// EnvPrefix namespaces every variable, e.g. ADMIN_AUTH_SIGNING_KEY
const EnvPrefix = "ADMIN"

type Config struct {
	Debug bool `envconfig:"DEBUG" default:"false"`

	Auth AuthConfig `envconfig:"AUTH"`
	HTTP HTTPConfig `envconfig:"HTTP"`
	GRPC GRPCConfig `envconfig:"GRPC"`
	DB   DBConfig   `envconfig:"DB"`
}

type AuthConfig struct {
	SigningKey         string `envconfig:"SIGNING_KEY"`
	PreviousSigningKey string `envconfig:"PREVIOUS_SIGNING_KEY"`
	TokenTTLHours      int    `envconfig:"TOKEN_TTL_HOURS" default:"24"`
	Issuer             string `envconfig:"ISSUER" default:"go-admin-auth"`
	BcryptCost         int    `envconfig:"BCRYPT_COST" default:"10"`
	PhoneRegion        string `envconfig:"PHONE_REGION" default:"US"`
	ContextKey         string `envconfig:"CONTEXT_KEY" default:"user"`
	TokenLookup        string `envconfig:"TOKEN_LOOKUP" default:"header:Authorization"`
	AuthScheme         string `envconfig:"AUTH_SCHEME" default:"Bearer"`
}

type HTTPConfig struct {
	Address         string        `envconfig:"ADDRESS" default:":8080"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
	MetricsPath     string        `envconfig:"METRICS_PATH" default:"/metrics"`
}

type GRPCConfig struct {
	Address string `envconfig:"ADDRESS" default:":50051"`
}

type DBConfig struct {
	DSN string `envconfig:"DSN" default:"file:admin.db?cache=shared"`
}

var _ auth.Config = (*Config)(nil)

// Load reads the optional dotenv files and then the environment. Missing
// dotenv files are skipped.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}

	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load env file").
				WithMetadata(map[string]any{"file": file})
		}
	}

	cfg := &Config{}
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "failed to read environment")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate fails fast on values the service cannot start with
func (c *Config) Validate() error {
	verr := goerrors.ValidateWithOzzo(func() error {
		return validation.Errors{
			"auth.signing_key":     validation.Validate(c.Auth.SigningKey, validation.Required),
			"auth.token_ttl_hours": validation.Validate(c.Auth.TokenTTLHours, validation.Required, validation.Min(1)),
			"auth.bcrypt_cost":     validation.Validate(c.Auth.BcryptCost, validation.Min(bcrypt.MinCost), validation.Max(bcrypt.MaxCost)),
			"auth.context_key":     validation.Validate(c.Auth.ContextKey, validation.Required),
			"http.address":         validation.Validate(c.HTTP.Address, validation.Required),
			"grpc.address":         validation.Validate(c.GRPC.Address, validation.Required),
			"db.dsn":               validation.Validate(c.DB.DSN, validation.Required),
		}.Filter()
	}, "invalid configuration")
	if verr != nil {
		return verr
	}
	return nil
}

func (c *Config) GetSigningKey() string {
	return c.Auth.SigningKey
}

func (c *Config) GetPreviousSigningKey() string {
	return c.Auth.PreviousSigningKey
}

func (c *Config) GetContextKey() string {
	return c.Auth.ContextKey
}

// GetTokenExpiration returns the token lifetime in hours
func (c *Config) GetTokenExpiration() int {
	return c.Auth.TokenTTLHours
}

func (c *Config) GetTokenLookup() string {
	return c.Auth.TokenLookup
}

func (c *Config) GetAuthScheme() string {
	return c.Auth.AuthScheme
}

func (c *Config) GetIssuer() string {
	return c.Auth.Issuer
}

func (c *Config) GetBcryptCost() int {
	return c.Auth.BcryptCost
}

func (c *Config) GetPhoneRegion() string {
	return c.Auth.PhoneRegion
}
