package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/Wang-tianhao/vibrant-jwt-codec-go/jwtcodec"
)

func main() {
	var (
		secret  = flag.String("secret", "", "HMAC secret (required)")
		subject = flag.String("sub", "", "Subject (sub claim)")
		issuer  = flag.String("iss", "", "Issuer (iss claim)")
		aud     = flag.String("aud", "", "Audience (aud claim)")
		alg     = flag.String("alg", "HS256", "Signing algorithm; only HS256, HS384 and HS512 work with -secret, other names fail with KEY_MISMATCH")
		ttl     = flag.Duration("ttl", time.Hour, "Token validity")
		nbf     = flag.Duration("nbf", 0, "Delay before the token becomes valid")
		decode  = flag.String("decode", "", "Verify this token instead of generating one")
		verbose = flag.Bool("v", false, "Log security events to stderr")
	)

	flag.Parse()

	if *secret == "" {
		log.Fatal("-secret is required")
	}

	opts := []jwtcodec.ConfigOption{jwtcodec.WithErrorDetail()}
	if *verbose {
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
		opts = append(opts, jwtcodec.WithLogger(logger))
	}
	codec, err := jwtcodec.NewCodec(opts...)
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	if *decode != "" {
		printResponse(codec.DecodeInput(*decode, *secret))
		return
	}

	now := time.Now()
	input := map[string]any{
		"secret":    *secret,
		"algorithm": *alg,
		"exp":       now.Add(*ttl).Unix(),
		"iat":       now.Unix(),
	}
	if *nbf > 0 {
		input["nbf"] = now.Add(*nbf).Unix()
	}
	if *subject != "" {
		input["sub"] = *subject
	}
	if *issuer != "" {
		input["iss"] = *issuer
	}
	if *aud != "" {
		input["aud"] = *aud
	}

	resp := codec.EncodeInput(input)
	if resp.Error {
		printResponse(resp)
		return
	}

	fmt.Println("\n=== JWT Token Generated ===")
	fmt.Printf("\nToken: %s\n\n", resp.Token)
	fmt.Printf("  Algorithm: %s\n", *alg)
	fmt.Printf("  Expires:   %s\n\n", now.Add(*ttl).Format(time.RFC3339))
	fmt.Println("Usage:")
	fmt.Printf("  tokengen -secret '%s' -decode %s\n", *secret, resp.Token)
	fmt.Printf("  curl -H 'Authorization: Bearer %s' http://localhost:8080/api/profile\n\n", resp.Token)
}

func printResponse(resp jwtcodec.Response) {
	out, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		log.Fatalf("Failed to render response: %v", err)
	}
	fmt.Println(string(out))
	if resp.Error {
		os.Exit(1)
	}
}
