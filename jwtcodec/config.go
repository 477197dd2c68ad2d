package jwtcodec

import (
	"fmt"
	"log/slog"
	"time"
)

// Config holds immutable configuration for encoding and decoding
type Config struct {
	algorithms       map[Algorithm]bool // nil means every supported algorithm
	leeway           time.Duration
	now              func() time.Time
	minSecretLength  int
	issuer           string
	audience         string
	subject          string
	validateIssuedAt bool
	requiredClaims   []string
	errorDetail      bool
	cookieName       string
	logger           *slog.Logger
}

// ConfigOption is a functional option for configuring the codec
type ConfigOption func(*Config) error

// NewConfig creates a new immutable configuration with the given options
func NewConfig(opts ...ConfigOption) (*Config, error) {
	cfg := &Config{
		now: time.Now,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, NewCodecError(ErrConfigError, fmt.Sprintf("configuration error: %v", err), err)
		}
	}

	if cfg.algorithms != nil && len(cfg.algorithms) == 0 {
		return nil, NewCodecError(ErrConfigError, "at least one algorithm must be allowed", nil)
	}

	return cfg, nil
}

// WithAlgorithms restricts the algorithms Encode and Decode accept.
// The "none" algorithm is never accepted.
func WithAlgorithms(algs ...Algorithm) ConfigOption {
	return func(c *Config) error {
		if c.algorithms == nil {
			c.algorithms = make(map[Algorithm]bool, len(algs))
		}
		for _, alg := range algs {
			if !alg.Valid() {
				return fmt.Errorf("unsupported algorithm %q", string(alg))
			}
			c.algorithms[alg] = true
		}
		return nil
	}
}

// WithLeeway sets the clock skew tolerance for exp/nbf/iat validation
func WithLeeway(leeway time.Duration) ConfigOption {
	return func(c *Config) error {
		if leeway < 0 {
			return fmt.Errorf("leeway must be non-negative, got %v", leeway)
		}
		c.leeway = leeway
		return nil
	}
}

// WithClock replaces time.Now for time-based validation
func WithClock(now func() time.Time) ConfigOption {
	return func(c *Config) error {
		if now == nil {
			return fmt.Errorf("clock cannot be nil")
		}
		c.now = now
		return nil
	}
}

// WithMinSecretLength rejects HMAC secrets shorter than n bytes
func WithMinSecretLength(n int) ConfigOption {
	return func(c *Config) error {
		if n < 0 {
			return fmt.Errorf("minimum secret length must be non-negative, got %d", n)
		}
		c.minSecretLength = n
		return nil
	}
}

// WithExpectedIssuer requires decoded tokens to carry this iss claim
func WithExpectedIssuer(iss string) ConfigOption {
	return func(c *Config) error {
		c.issuer = iss
		return nil
	}
}

// WithExpectedAudience requires decoded tokens to carry this aud claim
func WithExpectedAudience(aud string) ConfigOption {
	return func(c *Config) error {
		c.audience = aud
		return nil
	}
}

// WithExpectedSubject requires decoded tokens to carry this sub claim
func WithExpectedSubject(sub string) ConfigOption {
	return func(c *Config) error {
		c.subject = sub
		return nil
	}
}

// WithIssuedAtValidation rejects decoded tokens issued in the future
func WithIssuedAtValidation() ConfigOption {
	return func(c *Config) error {
		c.validateIssuedAt = true
		return nil
	}
}

// WithRequiredClaims specifies claim names that must be present in decoded tokens
func WithRequiredClaims(claims ...string) ConfigOption {
	return func(c *Config) error {
		for _, name := range claims {
			switch name {
			case ClaimExpiresAt, ClaimIssuedAt, ClaimNotBefore, ClaimIssuer, ClaimSubject, ClaimAudience:
			default:
				return fmt.Errorf("unknown claim %q", name)
			}
		}
		c.requiredClaims = append(c.requiredClaims, claims...)
		return nil
	}
}

// WithErrorDetail exposes the specific failure cause in boundary responses
// instead of the opaque encode/decode messages
func WithErrorDetail() ConfigOption {
	return func(c *Config) error {
		c.errorDetail = true
		return nil
	}
}

// WithCookie enables token extraction from a cookie in the HTTP middleware
func WithCookie(cookieName string) ConfigOption {
	return func(c *Config) error {
		c.cookieName = cookieName
		return nil
	}
}

// WithLogger sets a structured logger for security events
func WithLogger(logger *slog.Logger) ConfigOption {
	return func(c *Config) error {
		c.logger = logger
		return nil
	}
}

// allowed reports whether alg may be used with a key of the given family
func (c *Config) allowed(alg Algorithm, family KeyFamily) bool {
	if !alg.Valid() || alg.Family() != family {
		return false
	}
	return c.algorithms == nil || c.algorithms[alg]
}

// AllowedAlgorithms returns the sorted algorithms accepted for a key family
func (c *Config) AllowedAlgorithms(family KeyFamily) []Algorithm {
	return algorithmsWhere(func(a Algorithm) bool { return c.allowed(a, family) })
}

func (c *Config) Leeway() time.Duration {
	return c.leeway
}

func (c *Config) RequiredClaims() []string {
	return c.requiredClaims
}

func (c *Config) CookieName() string {
	return c.cookieName
}

func (c *Config) Logger() *slog.Logger {
	return c.logger
}
