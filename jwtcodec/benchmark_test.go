package jwtcodec

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
)

// BenchmarkEncodeHS256 measures HS256 token signing
func BenchmarkEncodeHS256(b *testing.B) {
	codec := newTestCodec(b)
	claims := NewClaims(inOneHour(), WithSubject("user123"), WithIssuer("bench"))
	key := HMACSigningKey(testSecret)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if _, err := codec.Encode(claims, key); err != nil {
			b.Fatalf("Encode failed: %v", err)
		}
	}
}

// BenchmarkDecodeHS256 measures full HS256 token verification
func BenchmarkDecodeHS256(b *testing.B) {
	codec := newTestCodec(b)
	token, _ := codec.Encode(NewClaims(inOneHour(), WithSubject("user123")), HMACSigningKey(testSecret))
	key := HMACVerificationKey(testSecret)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if _, err := codec.Decode(token, key); err != nil {
			b.Fatalf("Decode failed: %v", err)
		}
	}
}

// BenchmarkDecodeRS256 measures full RS256 token verification
func BenchmarkDecodeRS256(b *testing.B) {
	privateKey, _ := rsa.GenerateKey(rand.Reader, 2048)
	codec := newTestCodec(b)
	token, err := codec.Encode(NewClaims(inOneHour(), WithAlgorithm(RS256)), RSASigningKey(privateKey))
	if err != nil {
		b.Fatalf("Encode failed: %v", err)
	}
	key := RSAVerificationKey(&privateKey.PublicKey)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if _, err := codec.Decode(token, key); err != nil {
			b.Fatalf("Decode failed: %v", err)
		}
	}
}

// BenchmarkDecodeInput measures the boundary decode including output rendering
func BenchmarkDecodeInput(b *testing.B) {
	codec := newTestCodec(b)
	resp := codec.EncodeInput(map[string]any{"secret": "s3cret", "exp": inOneHour(), "sub": "user123"})

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if out := codec.DecodeInput(resp.Token, "s3cret"); out.Error {
			b.Fatalf("DecodeInput failed: %s", out.Message)
		}
	}
}
