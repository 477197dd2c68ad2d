package jwtcodec

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Registered claim names carried by Claims
const (
	ClaimExpiresAt = "exp"
	ClaimIssuedAt  = "iat"
	ClaimNotBefore = "nbf"
	ClaimIssuer    = "iss"
	ClaimSubject   = "sub"
	ClaimAudience  = "aud"
)

// Claims is an immutable set of registered JWT claims plus the algorithm
// chosen for signing. It never carries key material.
type Claims struct {
	expiresAt uint64
	issuedAt  *uint64
	notBefore *uint64
	issuer    *string
	subject   *string
	audience  *string

	algorithm       Algorithm
	algorithmSource AlgorithmSource
	warnings        []Warning
}

// Warning describes an input value that was dropped or replaced by a default
type Warning struct {
	Field  string
	Reason string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Field, w.Reason)
}

// ClaimOption sets an optional claim on NewClaims
type ClaimOption func(*Claims)

// NewClaims creates claims expiring at exp (seconds since epoch)
func NewClaims(exp uint64, opts ...ClaimOption) *Claims {
	c := &Claims{
		expiresAt: exp,
		algorithm: DefaultAlgorithm,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func WithIssuedAt(iat uint64) ClaimOption {
	return func(c *Claims) { c.issuedAt = &iat }
}

func WithNotBefore(nbf uint64) ClaimOption {
	return func(c *Claims) { c.notBefore = &nbf }
}

func WithIssuer(iss string) ClaimOption {
	return func(c *Claims) { c.issuer = &iss }
}

func WithSubject(sub string) ClaimOption {
	return func(c *Claims) { c.subject = &sub }
}

func WithAudience(aud string) ClaimOption {
	return func(c *Claims) { c.audience = &aud }
}

// WithAlgorithm selects the signing algorithm. An unsupported value falls
// back to DefaultAlgorithm and records a warning.
func WithAlgorithm(alg Algorithm) ClaimOption {
	return func(c *Claims) {
		if !alg.Valid() {
			c.algorithm = DefaultAlgorithm
			c.algorithmSource = AlgorithmFallback
			c.warnings = append(c.warnings, Warning{Field: "algorithm", Reason: fmt.Sprintf("unrecognized algorithm %q, using %s", string(alg), DefaultAlgorithm)})
			return
		}
		c.algorithm = alg
		c.algorithmSource = AlgorithmExplicit
	}
}

// ExpiresAt returns the exp claim
func (c *Claims) ExpiresAt() uint64 { return c.expiresAt }

// IssuedAt returns the iat claim, if set
func (c *Claims) IssuedAt() (uint64, bool) { return optional(c.issuedAt) }

// NotBefore returns the nbf claim, if set
func (c *Claims) NotBefore() (uint64, bool) { return optional(c.notBefore) }

// Issuer returns the iss claim, if set
func (c *Claims) Issuer() (string, bool) { return optional(c.issuer) }

// Subject returns the sub claim, if set
func (c *Claims) Subject() (string, bool) { return optional(c.subject) }

// Audience returns the aud claim, if set
func (c *Claims) Audience() (string, bool) { return optional(c.audience) }

// Algorithm returns the signing algorithm, always a supported value
func (c *Claims) Algorithm() Algorithm { return c.algorithm }

// AlgorithmSource reports whether the algorithm was explicit or a default
func (c *Claims) AlgorithmSource() AlgorithmSource { return c.algorithmSource }

// Warnings returns the inputs that were dropped or defaulted during construction
func (c *Claims) Warnings() []Warning {
	if len(c.warnings) == 0 {
		return nil
	}
	out := make([]Warning, len(c.warnings))
	copy(out, c.warnings)
	return out
}

// Equal reports whether both claim sets carry the same claims and algorithm.
// Warnings and the algorithm source are not compared.
func (c *Claims) Equal(other *Claims) bool {
	if c == nil || other == nil {
		return c == other
	}
	return c.expiresAt == other.expiresAt &&
		equalPtr(c.issuedAt, other.issuedAt) &&
		equalPtr(c.notBefore, other.notBefore) &&
		equalPtr(c.issuer, other.issuer) &&
		equalPtr(c.subject, other.subject) &&
		equalPtr(c.audience, other.audience) &&
		c.algorithm == other.algorithm
}

// payload builds the signed claim set. Only present claims are included;
// the algorithm travels in the header instead.
func (c *Claims) payload() jwt.MapClaims {
	p := jwt.MapClaims{ClaimExpiresAt: c.expiresAt}
	if c.issuedAt != nil {
		p[ClaimIssuedAt] = *c.issuedAt
	}
	if c.notBefore != nil {
		p[ClaimNotBefore] = *c.notBefore
	}
	if c.issuer != nil {
		p[ClaimIssuer] = *c.issuer
	}
	if c.subject != nil {
		p[ClaimSubject] = *c.subject
	}
	if c.audience != nil {
		p[ClaimAudience] = *c.audience
	}
	return p
}

// checkTimestamps rejects numeric claims above MaxTimestamp
func (c *Claims) checkTimestamps() error {
	if c.expiresAt > MaxTimestamp {
		return invalidType(ClaimExpiresAt, errOutOfRange)
	}
	if c.issuedAt != nil && *c.issuedAt > MaxTimestamp {
		return invalidType(ClaimIssuedAt, errOutOfRange)
	}
	if c.notBefore != nil && *c.notBefore > MaxTimestamp {
		return invalidType(ClaimNotBefore, errOutOfRange)
	}
	return nil
}

func optional[T any](p *T) (T, bool) {
	if p == nil {
		var zero T
		return zero, false
	}
	return *p, true
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
