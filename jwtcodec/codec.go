package jwtcodec

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Codec encodes Claims into signed tokens and decodes tokens back into
// Claims. It holds only immutable configuration and is safe for concurrent use.
type Codec struct {
	cfg *Config
}

// NewCodec creates a codec with the given options
func NewCodec(opts ...ConfigOption) (*Codec, error) {
	cfg, err := NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	return &Codec{cfg: cfg}, nil
}

// Config returns the codec configuration
func (c *Codec) Config() *Config {
	return c.cfg
}

// Encode signs claims with key using claims.Algorithm()
func (c *Codec) Encode(claims *Claims, key SigningKey) (string, error) {
	return c.EncodeContext(context.Background(), claims, key)
}

// EncodeContext is Encode with a request ID taken from ctx for logging
func (c *Codec) EncodeContext(ctx context.Context, claims *Claims, key SigningKey) (string, error) {
	startTime := time.Now()
	requestID, _ := GetRequestID(ctx)

	logClaimWarnings(c.cfg.logger, requestID, claims)

	token, err := c.encode(claims, key)

	alg := ""
	if claims != nil {
		alg = string(claims.Algorithm())
	}
	logSecurityEvent(c.cfg.logger, newSecurityEvent("encode", requestID, token, claims, alg, err, time.Since(startTime)))

	return token, err
}

func (c *Codec) encode(claims *Claims, key SigningKey) (string, error) {
	if claims == nil {
		return "", missingRequired(ClaimExpiresAt)
	}
	if err := claims.checkTimestamps(); err != nil {
		return "", err
	}

	alg := claims.Algorithm()
	if c.cfg.algorithms != nil && !c.cfg.algorithms[alg] {
		return "", NewCodecError(ErrUnsupportedAlg, fmt.Sprintf("algorithm %s is not allowed", alg), nil)
	}

	material, err := key.forAlgorithm(alg, c.cfg.minSecretLength)
	if err != nil {
		return "", err
	}

	token := jwt.NewWithClaims(alg.signingMethod(), claims.payload())
	signed, err := token.SignedString(material)
	if err != nil {
		return "", NewCodecError(ErrEncodeFailed, encodeFailedMessage, err)
	}

	return signed, nil
}

// Decode verifies token with key and returns its claims. Signature, exp and
// nbf are always checked; every failure is a *CodecError whose code is one of
// the decode failure variants, except MISSING_SECRET for an empty key.
func (c *Codec) Decode(token string, key VerificationKey) (*Claims, error) {
	return c.DecodeContext(context.Background(), token, key)
}

// DecodeContext is Decode with a request ID taken from ctx for logging
func (c *Codec) DecodeContext(ctx context.Context, token string, key VerificationKey) (*Claims, error) {
	startTime := time.Now()
	requestID, _ := GetRequestID(ctx)

	claims, err := c.decode(token, key)

	logSecurityEvent(c.cfg.logger, newSecurityEvent("decode", requestID, token, claims, extractAlgorithmFromToken(token), err, time.Since(startTime)))

	return claims, err
}

func (c *Codec) decode(tokenString string, key VerificationKey) (*Claims, error) {
	if key.material == nil {
		return nil, NewCodecError(ErrMissingSecret, "secret is required", nil)
	}

	parser := jwt.NewParser(c.parserOptions()...)
	token, err := parser.ParseWithClaims(tokenString, jwt.MapClaims{}, func(token *jwt.Token) (interface{}, error) {
		return c.verificationKey(token, key)
	})
	if err != nil {
		return nil, classifyParseError(err)
	}

	if !token.Valid {
		return nil, NewCodecError(ErrInvalidSignature, "token is invalid", nil)
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, NewCodecError(ErrMalformed, "invalid claims format", nil)
	}

	if err := c.validateRequiredClaims(mapClaims); err != nil {
		return nil, err
	}

	claims, err := claimsFromMap(mapClaims, false)
	if err != nil {
		return nil, NewCodecError(ErrMalformed, "invalid claims: "+err.Error(), err)
	}
	claims.algorithm = Algorithm(token.Method.Alg())
	claims.algorithmSource = AlgorithmExplicit

	return claims, nil
}

func (c *Codec) parserOptions() []jwt.ParserOption {
	// The verifier rejects now >= exp+leeway; the extra nanosecond keeps
	// exp itself valid so a token only expires once the clock passes it.
	opts := []jwt.ParserOption{
		jwt.WithExpirationRequired(),
		jwt.WithJSONNumber(),
		jwt.WithTimeFunc(c.cfg.now),
		jwt.WithLeeway(c.cfg.leeway + time.Nanosecond),
	}
	if c.cfg.validateIssuedAt {
		opts = append(opts, jwt.WithIssuedAt())
	}
	if c.cfg.issuer != "" {
		opts = append(opts, jwt.WithIssuer(c.cfg.issuer))
	}
	if c.cfg.audience != "" {
		opts = append(opts, jwt.WithAudience(c.cfg.audience))
	}
	if c.cfg.subject != "" {
		opts = append(opts, jwt.WithSubject(c.cfg.subject))
	}
	return opts
}

// verificationKey ensures the token uses an accepted algorithm for the key
// family and returns the key material. Checking the family here prevents
// algorithm confusion such as an RS256 public key used as an HS256 secret.
func (c *Codec) verificationKey(token *jwt.Token, key VerificationKey) (interface{}, error) {
	alg := Algorithm(token.Method.Alg())
	if !c.cfg.allowed(alg, key.Family()) {
		return nil, NewCodecError(
			ErrAlgorithmMismatch,
			fmt.Sprintf("algorithm %s not accepted (available: %s)", string(alg), joinAlgorithms(c.cfg.AllowedAlgorithms(key.Family()))),
			nil,
		)
	}
	return key.forAlgorithm(alg, c.cfg.minSecretLength)
}

// classifyParseError maps jwt library errors onto decode failure variants
func classifyParseError(err error) *CodecError {
	var codecErr *CodecError
	if errors.As(err, &codecErr) {
		return codecErr
	}

	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return NewCodecError(ErrMalformed, "malformed token", err)
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		return NewCodecError(ErrAlgorithmMismatch, "signing algorithm unavailable", err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return NewCodecError(ErrInvalidSignature, "invalid signature", err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return NewCodecError(ErrExpired, "token has expired", err)
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return NewCodecError(ErrNotYetValid, "token is not valid yet", err)
	case errors.Is(err, jwt.ErrTokenUsedBeforeIssued):
		return NewCodecError(ErrNotYetValid, "token used before issued", err)
	case errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
		return NewCodecError(ErrMalformed, "required claim missing", err)
	case errors.Is(err, jwt.ErrTokenInvalidIssuer),
		errors.Is(err, jwt.ErrTokenInvalidAudience),
		errors.Is(err, jwt.ErrTokenInvalidSubject):
		return NewCodecError(ErrClaimMismatch, "claim mismatch", err)
	}

	return NewCodecError(ErrMalformed, "invalid claims", err)
}

// validateRequiredClaims ensures all required claims are present
func (c *Codec) validateRequiredClaims(mapClaims jwt.MapClaims) error {
	for _, claimName := range c.cfg.RequiredClaims() {
		if _, ok := mapClaims[claimName]; !ok {
			return NewCodecError(
				ErrMalformed,
				fmt.Sprintf("required claim missing: %s", claimName),
				nil,
			)
		}
	}
	return nil
}

func joinAlgorithms(algs []Algorithm) string {
	names := make([]string, len(algs))
	for i, alg := range algs {
		names[i] = string(alg)
	}
	return strings.Join(names, ", ")
}
