package jwtcodec

import (
	"sort"

	"github.com/golang-jwt/jwt/v5"
)

// Algorithm is a JWS signing algorithm name as it appears in the token header
type Algorithm string

const (
	HS256 Algorithm = "HS256"
	HS384 Algorithm = "HS384"
	HS512 Algorithm = "HS512"
	ES256 Algorithm = "ES256"
	ES384 Algorithm = "ES384"
	RS256 Algorithm = "RS256"
	RS384 Algorithm = "RS384"
	RS512 Algorithm = "RS512"
	PS256 Algorithm = "PS256"
	PS384 Algorithm = "PS384"
	PS512 Algorithm = "PS512"
)

// DefaultAlgorithm is applied whenever the caller does not name a recognized algorithm
const DefaultAlgorithm = HS256

// AlgorithmSource records how a Claims value ended up with its algorithm
type AlgorithmSource int

const (
	// AlgorithmDefaulted means no algorithm was given (absent or not a string)
	AlgorithmDefaulted AlgorithmSource = iota
	// AlgorithmExplicit means the caller named a recognized algorithm
	AlgorithmExplicit
	// AlgorithmFallback means the caller named an unrecognized algorithm and
	// DefaultAlgorithm was substituted
	AlgorithmFallback
)

func (s AlgorithmSource) String() string {
	switch s {
	case AlgorithmExplicit:
		return "explicit"
	case AlgorithmFallback:
		return "fallback"
	default:
		return "defaulted"
	}
}

// KeyFamily groups algorithms that share a key type
type KeyFamily string

const (
	FamilyHMAC  KeyFamily = "HMAC"
	FamilyRSA   KeyFamily = "RSA"
	FamilyECDSA KeyFamily = "ECDSA"
)

type algorithmSpec struct {
	family KeyFamily
	method jwt.SigningMethod
}

var algorithms = map[Algorithm]algorithmSpec{
	HS256: {FamilyHMAC, jwt.SigningMethodHS256},
	HS384: {FamilyHMAC, jwt.SigningMethodHS384},
	HS512: {FamilyHMAC, jwt.SigningMethodHS512},
	ES256: {FamilyECDSA, jwt.SigningMethodES256},
	ES384: {FamilyECDSA, jwt.SigningMethodES384},
	RS256: {FamilyRSA, jwt.SigningMethodRS256},
	RS384: {FamilyRSA, jwt.SigningMethodRS384},
	RS512: {FamilyRSA, jwt.SigningMethodRS512},
	PS256: {FamilyRSA, jwt.SigningMethodPS256},
	PS384: {FamilyRSA, jwt.SigningMethodPS384},
	PS512: {FamilyRSA, jwt.SigningMethodPS512},
}

// ParseAlgorithm maps a canonical algorithm name to its Algorithm.
// Matching is case-sensitive; "hs256" is not recognized.
func ParseAlgorithm(name string) (Algorithm, bool) {
	alg := Algorithm(name)
	if _, ok := algorithms[alg]; !ok {
		return "", false
	}
	return alg, true
}

// Valid reports whether a is one of the supported algorithms
func (a Algorithm) Valid() bool {
	_, ok := algorithms[a]
	return ok
}

// Family returns the key family of a, or "" for an unsupported algorithm
func (a Algorithm) Family() KeyFamily {
	return algorithms[a].family
}

func (a Algorithm) String() string {
	if !a.Valid() {
		return string(DefaultAlgorithm)
	}
	return string(a)
}

func (a Algorithm) signingMethod() jwt.SigningMethod {
	return algorithms[a].method
}

// Algorithms returns every supported algorithm in sorted order
func Algorithms() []Algorithm {
	return algorithmsWhere(func(Algorithm) bool { return true })
}

// FamilyAlgorithms returns the sorted algorithms belonging to family
func FamilyAlgorithms(family KeyFamily) []Algorithm {
	return algorithmsWhere(func(a Algorithm) bool { return a.Family() == family })
}

func algorithmsWhere(keep func(Algorithm) bool) []Algorithm {
	algs := make([]Algorithm, 0, len(algorithms))
	for alg := range algorithms {
		if keep(alg) {
			algs = append(algs, alg)
		}
	}
	sort.Slice(algs, func(i, j int) bool { return algs[i] < algs[j] })
	return algs
}
