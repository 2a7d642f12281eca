package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	DefaultPort          = 3318
	DefaultSessionTTL    = 7 * 24 * time.Hour
	DefaultBcryptCost    = 10
	DefaultAuthRateLimit = 10

	// DevAllowedOrigins lets a local frontend on any port call the API in
	// development.
	DevAllowedOrigins = "http://localhost:*,http://127.0.0.1:*"
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string

	// Session signing
	JWTSecret  string
	SessionTTL time.Duration

	Environment   string
	BcryptCost    int
	AuthRateLimit int // login/register attempts per minute per client IP

	// TrustProxy makes the client IP come from X-Forwarded-For/X-Real-IP.
	// Only enable it behind a proxy that overwrites those headers.
	TrustProxy bool

	// AllowedOrigins lists the origins allowed credentialed CORS requests.
	// An entry ending in ":*" matches any port.
	AllowedOrigins []string
}

// SecureCookies reports whether session cookies carry the Secure attribute.
func (c Config) SecureCookies() bool {
	return c.Environment != EnvDevelopment
}

// ParseFlags validates flags and fills missing values from the environment
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var sessionTTL, trustProxy, origins string

	fs := flag.NewFlagSet("quickly-poll", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", "", "Session signing secret (prefer env)")

	fs.StringVar(&cfg.Environment, "env", "", "Runtime environment (development or production)")
	fs.StringVar(&sessionTTL, "session-ttl", "", "Session lifetime, e.g. 168h")
	fs.IntVar(&cfg.BcryptCost, "bcrypt-cost", 0, "bcrypt work factor")
	fs.IntVar(&cfg.AuthRateLimit, "auth-rate", 0, "Login/register attempts per minute per IP")
	fs.StringVar(&trustProxy, "trust-proxy", "", "Trust X-Forwarded-For for client IPs (true or false)")
	fs.StringVar(&origins, "cors-origins", "", "Comma-separated origins allowed cross-origin requests")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		port, err := envInt("PORT", DefaultPort)
		if err != nil {
			return Config{}, err
		}
		cfg.Port = port
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}

	// Secret - MUST be provided
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = os.Getenv("JWT_SECRET")
	}
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET required")
	}

	if cfg.Environment == "" {
		cfg.Environment = os.Getenv("APP_ENV")
		if cfg.Environment == "" {
			cfg.Environment = EnvDevelopment
		}
	}
	if cfg.Environment != EnvDevelopment && cfg.Environment != EnvProduction {
		return Config{}, fmt.Errorf("unknown environment %q", cfg.Environment)
	}

	if sessionTTL == "" {
		sessionTTL = os.Getenv("SESSION_TTL")
	}
	cfg.SessionTTL = DefaultSessionTTL
	if sessionTTL != "" {
		ttl, err := time.ParseDuration(sessionTTL)
		if err != nil || ttl <= 0 {
			return Config{}, errors.New("invalid session TTL")
		}
		cfg.SessionTTL = ttl
	}

	if cfg.BcryptCost == 0 {
		cost, err := envInt("BCRYPT_COST", DefaultBcryptCost)
		if err != nil {
			return Config{}, err
		}
		cfg.BcryptCost = cost
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		return Config{}, errors.New("bcrypt cost must be between 4 and 31")
	}

	if cfg.AuthRateLimit == 0 {
		limit, err := envInt("AUTH_RATE_LIMIT", DefaultAuthRateLimit)
		if err != nil {
			return Config{}, err
		}
		cfg.AuthRateLimit = limit
	}
	if cfg.AuthRateLimit <= 0 {
		return Config{}, errors.New("auth rate limit must be positive")
	}

	if trustProxy == "" {
		trustProxy = os.Getenv("TRUST_PROXY")
	}
	if trustProxy != "" {
		v, err := strconv.ParseBool(trustProxy)
		if err != nil {
			return Config{}, errors.New("invalid trust proxy setting")
		}
		cfg.TrustProxy = v
	}

	if origins == "" {
		origins = os.Getenv("CORS_ORIGINS")
	}
	if origins == "" && cfg.Environment == EnvDevelopment {
		origins = DevAllowedOrigins
	}
	cfg.AllowedOrigins = splitList(origins)

	return cfg, nil
}

func envInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s env variable", key)
	}
	return n, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
