package jwtcodec

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"

	"google.golang.org/grpc/metadata"
)

// extractTokenFromHeader extracts JWT token from Authorization header
// Expected format: "Authorization: Bearer <token>"
func extractTokenFromHeader(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", NewCodecError(ErrMalformed, "authorization header not found", nil)
	}
	return parseBearer(authHeader)
}

// extractTokenFromCookie extracts JWT token from a cookie
func extractTokenFromCookie(r *http.Request, cookieName string) (string, error) {
	cookie, err := r.Cookie(cookieName)
	if err != nil {
		return "", NewCodecError(ErrMalformed, "cookie not found", err)
	}

	token := strings.TrimSpace(cookie.Value)
	if token == "" {
		return "", NewCodecError(ErrMalformed, "cookie value is empty", nil)
	}

	return token, nil
}

// extractToken extracts JWT token from HTTP request
// Checks Authorization header first, then falls back to cookie if configured
func extractToken(r *http.Request, cfg *Config) (string, error) {
	token, err := extractTokenFromHeader(r)
	if err == nil {
		return token, nil
	}

	if cfg.CookieName() != "" {
		token, cookieErr := extractTokenFromCookie(r, cfg.CookieName())
		if cookieErr == nil {
			return token, nil
		}
	}

	return "", err
}

// extractTokenFromMetadata extracts JWT token from gRPC metadata
func extractTokenFromMetadata(md metadata.MD) (string, error) {
	values := md.Get("authorization")
	if len(values) == 0 {
		return "", NewCodecError(ErrMalformed, "authorization metadata not found", nil)
	}
	return parseBearer(values[0])
}

func parseBearer(authHeader string) (string, error) {
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", NewCodecError(ErrMalformed, "invalid authorization format, expected 'Bearer <token>'", nil)
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", NewCodecError(ErrMalformed, "token is empty", nil)
	}

	return token, nil
}

// extractAlgorithmFromToken reads the alg header without verifying anything.
// Returns "MALFORMED" if the header cannot be read; used only for logging.
func extractAlgorithmFromToken(token string) string {
	parts := strings.Split(token, ".")
	if len(parts) < 2 {
		return "MALFORMED"
	}

	headerBytes, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return "MALFORMED"
	}

	var header map[string]interface{}
	if err := json.Unmarshal(headerBytes, &header); err != nil {
		return "MALFORMED"
	}

	if alg, ok := header["alg"].(string); ok {
		return alg
	}

	return "MALFORMED"
}
