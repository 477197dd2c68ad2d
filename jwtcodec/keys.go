package jwtcodec

import (
	"crypto/ecdsa"
	"crypto/rsa"
	"fmt"
)

// SigningKey holds key material used by Encode
type SigningKey struct {
	material interface{} // []byte, *rsa.PrivateKey or *ecdsa.PrivateKey
	family   KeyFamily
}

// VerificationKey holds key material used by Decode
type VerificationKey struct {
	material interface{} // []byte, *rsa.PublicKey or *ecdsa.PublicKey
	family   KeyFamily
}

// HMACSigningKey builds a key for HS* signing. The bytes are copied.
func HMACSigningKey(secret []byte) SigningKey {
	b := copySecret(secret)
	if b == nil {
		return SigningKey{}
	}
	return SigningKey{material: b, family: FamilyHMAC}
}

// HMACVerificationKey builds a key for HS* verification. The bytes are copied.
func HMACVerificationKey(secret []byte) VerificationKey {
	b := copySecret(secret)
	if b == nil {
		return VerificationKey{}
	}
	return VerificationKey{material: b, family: FamilyHMAC}
}

func copySecret(secret []byte) []byte {
	if len(secret) == 0 {
		return nil
	}
	b := make([]byte, len(secret))
	copy(b, secret)
	return b
}

// RSASigningKey builds a key for RS* and PS* signing
func RSASigningKey(key *rsa.PrivateKey) SigningKey {
	if key == nil {
		return SigningKey{}
	}
	return SigningKey{material: key, family: FamilyRSA}
}

// RSAVerificationKey builds a key for RS* and PS* verification
func RSAVerificationKey(key *rsa.PublicKey) VerificationKey {
	if key == nil {
		return VerificationKey{}
	}
	return VerificationKey{material: key, family: FamilyRSA}
}

// ECDSASigningKey builds a key for ES* signing
func ECDSASigningKey(key *ecdsa.PrivateKey) SigningKey {
	if key == nil {
		return SigningKey{}
	}
	return SigningKey{material: key, family: FamilyECDSA}
}

// ECDSAVerificationKey builds a key for ES* verification
func ECDSAVerificationKey(key *ecdsa.PublicKey) VerificationKey {
	if key == nil {
		return VerificationKey{}
	}
	return VerificationKey{material: key, family: FamilyECDSA}
}

// Family returns the key family, or "" for an empty key
func (k SigningKey) Family() KeyFamily { return k.family }

// Family returns the key family, or "" for an empty key
func (k VerificationKey) Family() KeyFamily { return k.family }

// forAlgorithm returns the key material to sign alg with
func (k SigningKey) forAlgorithm(alg Algorithm, minSecret int) (interface{}, error) {
	if k.material == nil {
		return nil, NewCodecError(ErrMissingSecret, "secret is required", nil)
	}
	if err := checkFamily(k.family, alg, minSecret, k.material); err != nil {
		return nil, err
	}
	return k.material, nil
}

// forAlgorithm returns the key material to verify alg with
func (k VerificationKey) forAlgorithm(alg Algorithm, minSecret int) (interface{}, error) {
	if k.material == nil {
		return nil, NewCodecError(ErrMissingSecret, "secret is required", nil)
	}
	if err := checkFamily(k.family, alg, minSecret, k.material); err != nil {
		return nil, err
	}
	return k.material, nil
}

func checkFamily(family KeyFamily, alg Algorithm, minSecret int, material interface{}) error {
	if alg.Family() != family {
		return NewCodecError(
			ErrKeyMismatch,
			fmt.Sprintf("algorithm %s requires a %s key, got %s", alg, alg.Family(), family),
			nil,
		)
	}
	if secret, ok := material.([]byte); ok && len(secret) < minSecret {
		return NewCodecError(
			ErrMissingSecret,
			fmt.Sprintf("secret must be at least %d bytes, got %d bytes", minSecret, len(secret)),
			nil,
		)
	}
	return nil
}
