package jwtcodec

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
)

// Input keys recognized by FromInput besides the registered claim names
const (
	InputSecret    = "secret"
	InputAlgorithm = "algorithm"
)

// MaxTimestamp is the largest exp, iat or nbf a token can carry. Verified
// payloads are read back as float64 seconds, so larger values lose precision
// or overflow the verifier's time arithmetic.
const MaxTimestamp uint64 = 1<<53 - 1

var (
	errNotNumber   = errors.New("value is not a number")
	errNotUnsigned = errors.New("value is not an unsigned integer")
	errOutOfRange  = fmt.Errorf("value exceeds the maximum timestamp %d", MaxTimestamp)
)

// Input is an untyped encode request split into its signing secret and claim set
type Input struct {
	Claims *Claims
	secret *string
}

// Secret returns the signing secret, if one was supplied
func (in *Input) Secret() (string, bool) {
	return optional(in.secret)
}

// SigningKey returns an HMAC key built from the secret
func (in *Input) SigningKey() (SigningKey, error) {
	secret, ok := in.Secret()
	if !ok || secret == "" {
		return SigningKey{}, NewCodecError(ErrMissingSecret, "secret is required", nil)
	}
	return HMACSigningKey([]byte(secret)), nil
}

type inputOptions struct {
	strict bool
}

// InputOption configures FromInput
type InputOption func(*inputOptions)

// WithStrictTypes makes a malformed iat or nbf a construction error instead
// of silently dropping it
func WithStrictTypes() InputOption {
	return func(o *inputOptions) { o.strict = true }
}

// FromInput builds claims from an untyped key/value structure.
//
// Optional strings of the wrong type are dropped. A malformed iat or nbf is
// dropped unless WithStrictTypes is given. A missing exp is a MISSING_REQUIRED
// error and a malformed exp is an INVALID_TYPE error. An absent, non-string or
// unrecognized algorithm resolves to DefaultAlgorithm. Every dropped or
// defaulted value is recorded in Claims.Warnings.
func FromInput(raw map[string]any, opts ...InputOption) (*Input, error) {
	var o inputOptions
	for _, opt := range opts {
		opt(&o)
	}

	claims, err := claimsFromMap(raw, o.strict)
	if err != nil {
		return nil, err
	}

	in := &Input{Claims: claims}
	in.secret = readString(raw, InputSecret, claims)
	readAlgorithm(raw, claims)
	return in, nil
}

// claimsFromMap reads the registered claims shared by caller input and
// verified token payloads
func claimsFromMap(raw map[string]any, strict bool) (*Claims, error) {
	c := &Claims{algorithm: DefaultAlgorithm}

	exp, present, err := readNumber(raw, ClaimExpiresAt)
	if !present {
		return nil, missingRequired(ClaimExpiresAt)
	}
	if err != nil {
		return nil, err
	}
	c.expiresAt = *exp

	for _, field := range []struct {
		name string
		dst  **uint64
	}{
		{ClaimIssuedAt, &c.issuedAt},
		{ClaimNotBefore, &c.notBefore},
	} {
		v, _, err := readNumber(raw, field.name)
		if err != nil {
			if strict {
				return nil, err
			}
			c.warnings = append(c.warnings, Warning{Field: field.name, Reason: "dropped: " + errors.Unwrap(err).Error()})
			continue
		}
		*field.dst = v
	}

	c.issuer = readString(raw, ClaimIssuer, c)
	c.subject = readString(raw, ClaimSubject, c)
	c.audience = readString(raw, ClaimAudience, c)
	return c, nil
}

func readString(raw map[string]any, key string, c *Claims) *string {
	v, present := raw[key]
	if !present {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		c.warnings = append(c.warnings, Warning{Field: key, Reason: fmt.Sprintf("dropped: expected string, got %T", v)})
		return nil
	}
	return &s
}

func readAlgorithm(raw map[string]any, c *Claims) {
	v, present := raw[InputAlgorithm]
	if !present {
		return
	}
	name, ok := v.(string)
	if !ok {
		c.warnings = append(c.warnings, Warning{Field: InputAlgorithm, Reason: fmt.Sprintf("ignored: expected string, got %T", v)})
		return
	}
	WithAlgorithm(Algorithm(name))(c)
}

// readNumber returns the unsigned value at key. present is false when the
// key is missing; a present key that fails to convert yields INVALID_TYPE.
func readNumber(raw map[string]any, key string) (value *uint64, present bool, err error) {
	v, ok := raw[key]
	if !ok {
		return nil, false, nil
	}
	n, convErr := toUint64(v)
	if convErr != nil {
		return nil, true, invalidType(key, convErr)
	}
	if n > MaxTimestamp {
		return nil, true, invalidType(key, errOutOfRange)
	}
	return &n, true, nil
}

func toUint64(v any) (uint64, error) {
	switch n := v.(type) {
	case int:
		return signedToUint64(int64(n))
	case int8:
		return signedToUint64(int64(n))
	case int16:
		return signedToUint64(int64(n))
	case int32:
		return signedToUint64(int64(n))
	case int64:
		return signedToUint64(n)
	case uint:
		return uint64(n), nil
	case uint8:
		return uint64(n), nil
	case uint16:
		return uint64(n), nil
	case uint32:
		return uint64(n), nil
	case uint64:
		return n, nil
	case float32:
		return floatToUint64(float64(n))
	case float64:
		return floatToUint64(n)
	case json.Number:
		if u, err := strconv.ParseUint(string(n), 10, 64); err == nil {
			return u, nil
		}
		f, err := n.Float64()
		if err != nil {
			return 0, errNotNumber
		}
		return floatToUint64(f)
	default:
		return 0, errNotNumber
	}
}

func signedToUint64(n int64) (uint64, error) {
	if n < 0 {
		return 0, errNotUnsigned
	}
	return uint64(n), nil
}

func floatToUint64(f float64) (uint64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 || f != math.Trunc(f) || f >= math.Exp2(64) {
		return 0, errNotUnsigned
	}
	return uint64(f), nil
}
