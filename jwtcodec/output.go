package jwtcodec

import (
	"bytes"
	"encoding/json"
)

// OutputKeys is the fixed key set of an Output, in emission order
var OutputKeys = []string{
	InputSecret,
	ClaimAudience,
	InputAlgorithm,
	ClaimSubject,
	ClaimIssuer,
	ClaimIssuedAt,
	ClaimNotBefore,
	ClaimExpiresAt,
}

// OutputField is a single key/value pair of an Output
type OutputField struct {
	Key   string
	Value any
}

// Output is the ordered, fixed-shape rendering of Claims handed to callers.
// Every key in OutputKeys is present; missing values are nil.
type Output []OutputField

// Output renders the claims. The secret key is always nil since Claims never
// hold key material. A defaulted algorithm renders as nil, a fallback one as
// its substituted name.
func (c *Claims) Output() Output {
	var algorithm any
	if c.algorithmSource != AlgorithmDefaulted {
		algorithm = c.algorithm.String()
	}
	return Output{
		{InputSecret, nil},
		{ClaimAudience, nullable(c.audience)},
		{InputAlgorithm, algorithm},
		{ClaimSubject, nullable(c.subject)},
		{ClaimIssuer, nullable(c.issuer)},
		{ClaimIssuedAt, nullable(c.issuedAt)},
		{ClaimNotBefore, nullable(c.notBefore)},
		{ClaimExpiresAt, c.expiresAt},
	}
}

// Get returns the value stored under key
func (o Output) Get(key string) (any, bool) {
	for _, f := range o {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Map returns the output as an unordered map
func (o Output) Map() map[string]any {
	m := make(map[string]any, len(o))
	for _, f := range o {
		m[f.Key] = f.Value
	}
	return m
}

// MarshalJSON encodes the output as a JSON object preserving key order
func (o Output) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func nullable[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
