// Package config loads the service configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

const (
	GatewayRazorpay    = "razorpay"
	GatewayMercadoPago = "mercadopago"
	GatewayMock        = "mock"

	AuthModeJWT      = "jwt"
	AuthModeSupabase = "supabase"

	LedgerDynamoDB = "dynamodb"
	LedgerMemory   = "memory"
)

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	AWS         AWS
	Tables      Tables
	Gateway     Gateway
	Auth        Auth
	RateLimit   RateLimit
	Ledger      Ledger

	Razorpay    Razorpay    `envPrefix:"RAZORPAY_"`
	MercadoPago MercadoPago `envPrefix:"MERCADOPAGO_"`
	Supabase    Supabase    `envPrefix:"SUPABASE_"`
	Redis       Redis       `envPrefix:"REDIS_"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

func (e Environment) IsDevelopment() bool {
	return strings.EqualFold(e.Name, "development")
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host            string        `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port            string        `env:"PORT" envDefault:"8080"`
	AllowedOrigins  []string      `env:"HTTP_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"15s"`
}

func (h HTTPServer) Addr() string {
	return h.Host + ":" + h.Port
}

// AWS defaults target a local DynamoDB, which does not validate credentials.
type AWS struct {
	Region           string `env:"AWS_REGION" envDefault:"us-east-1"`
	AccessKeyID      string `env:"AWS_ACCESS_KEY_ID" envDefault:"local"`
	SecretAccessKey  string `env:"AWS_SECRET_ACCESS_KEY" envDefault:"local"`
	DynamoDBEndpoint string `env:"DYNAMODB_ENDPOINT"`
}

type Tables struct {
	Profiles         string `env:"PROFILES_TABLE" envDefault:"profiles"`
	Transactions     string `env:"PAYMENT_TRANSACTIONS_TABLE" envDefault:"payment_transactions"`
	TransactionsUser string `env:"PAYMENT_TRANSACTIONS_USER_INDEX" envDefault:"user_id-index"`
}

type Gateway struct {
	Provider string        `env:"PAYMENT_GATEWAY" envDefault:"razorpay"`
	Mock     string        `env:"PAYMENT_GATEWAY_MOCK"`
	Timeout  time.Duration `env:"PAYMENT_GATEWAY_TIMEOUT" envDefault:"15s"`
	// MockSecret signs mock checkouts. It is only read in mock mode.
	MockSecret string `env:"PAYMENT_GATEWAY_MOCK_SECRET" envDefault:"mock_secret"`
}

// MockEnabled accepts the same truthy spellings operators already use.
func (g Gateway) MockEnabled() bool {
	switch strings.ToLower(strings.TrimSpace(g.Mock)) {
	case "1", "true", "yes", "on", "mock":
		return true
	}
	return strings.EqualFold(strings.TrimSpace(g.Provider), GatewayMock)
}

type Razorpay struct {
	KeyID     string `env:"KEY_ID"`
	KeySecret string `env:"KEY_SECRET"`
}

type MercadoPago struct {
	AccessToken string `env:"ACCESS_TOKEN"`
}

type Auth struct {
	Mode        string `env:"AUTH_MODE" envDefault:"jwt"`
	JWTSecret   string `env:"SUPABASE_JWT_SECRET"`
	JWTIssuer   string `env:"AUTH_JWT_ISSUER"`
	JWTAudience string `env:"AUTH_JWT_AUDIENCE" envDefault:"authenticated"`
}

type Supabase struct {
	URL     string        `env:"URL"`
	AnonKey string        `env:"ANON_KEY"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"10s"`
}

type Redis struct {
	Addr     string `env:"ADDR"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`
}

type RateLimit struct {
	Requests int           `env:"RATE_LIMIT_REQUESTS" envDefault:"30"`
	Window   time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`
}

type Ledger struct {
	Backend     string   `env:"LEDGER_BACKEND" envDefault:"dynamodb"`
	MaxAttempts int      `env:"SETTLEMENT_MAX_ATTEMPTS" envDefault:"5"`
	// MemoryUsers are profiles created at boot when Backend is memory.
	MemoryUsers []string `env:"LEDGER_MEMORY_USERS" envSeparator:","`
}

// Load parses the process environment.
func Load() (Config, error) {
	return parse(env.Options{})
}

// LoadFrom parses an explicit environment map instead of the process one.
func LoadFrom(environ map[string]string) (Config, error) {
	return parse(env.Options{Environment: environ})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) normalize() {
	c.Gateway.Provider = strings.ToLower(strings.TrimSpace(c.Gateway.Provider))
	c.Auth.Mode = strings.ToLower(strings.TrimSpace(c.Auth.Mode))
	c.Ledger.Backend = strings.ToLower(strings.TrimSpace(c.Ledger.Backend))
	c.Supabase.URL = strings.TrimRight(strings.TrimSpace(c.Supabase.URL), "/")
}

// Validate rejects settings the service cannot start with. Missing gateway
// credentials are not fatal: the payment routes answer 503 until they are set.
func (c Config) Validate() error {
	var errs []error
	switch c.Gateway.Provider {
	case GatewayRazorpay, GatewayMercadoPago, GatewayMock:
	default:
		errs = append(errs, fmt.Errorf("PAYMENT_GATEWAY: unsupported provider %q", c.Gateway.Provider))
	}
	switch c.Auth.Mode {
	case AuthModeJWT:
		if c.Auth.JWTSecret == "" {
			errs = append(errs, errors.New("SUPABASE_JWT_SECRET is required when AUTH_MODE=jwt"))
		}
	case AuthModeSupabase:
		if c.Supabase.URL == "" || c.Supabase.AnonKey == "" {
			errs = append(errs, errors.New("SUPABASE_URL and SUPABASE_ANON_KEY are required when AUTH_MODE=supabase"))
		}
	default:
		errs = append(errs, fmt.Errorf("AUTH_MODE: unsupported mode %q", c.Auth.Mode))
	}
	switch c.Ledger.Backend {
	case LedgerDynamoDB, LedgerMemory:
	default:
		errs = append(errs, fmt.Errorf("LEDGER_BACKEND: unsupported backend %q", c.Ledger.Backend))
	}
	if c.Ledger.MaxAttempts < 1 {
		errs = append(errs, errors.New("SETTLEMENT_MAX_ATTEMPTS must be at least 1"))
	}
	if c.RateLimit.Requests < 1 || c.RateLimit.Window <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_REQUESTS and RATE_LIMIT_WINDOW must be positive"))
	}
	return errors.Join(errs...)
}

// SignatureSecret is the HMAC key checkout signatures are verified with for
// the active gateway. Mercado Pago has none: its payments are confirmed with
// the provider instead.
func (c Config) SignatureSecret() string {
	if c.Gateway.MockEnabled() {
		return c.Gateway.MockSecret
	}
	switch c.Gateway.Provider {
	case GatewayMercadoPago:
		return ""
	default:
		return c.Razorpay.KeySecret
	}
}
