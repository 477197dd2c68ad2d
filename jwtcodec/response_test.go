package jwtcodec

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

// TestEncodeInputResponses tests the encode boundary record
func TestEncodeInputResponses(t *testing.T) {
	codec := newTestCodec(t)
	exp := inOneHour()

	tests := []struct {
		name        string
		raw         map[string]any
		wantError   bool
		wantMessage string
		wantCode    ErrorCode
	}{
		{
			name:        "success",
			raw:         map[string]any{"secret": "s3cret", "exp": exp, "sub": "user1"},
			wantMessage: SuccessMessage,
		},
		{
			name:        "missing exp",
			raw:         map[string]any{"secret": "s3cret"},
			wantError:   true,
			wantMessage: "[MISSING_REQUIRED] exp is required",
			wantCode:    ErrMissingRequired,
		},
		{
			name:        "malformed exp",
			raw:         map[string]any{"secret": "s3cret", "exp": "soon"},
			wantError:   true,
			wantMessage: "[INVALID_TYPE] exp type error",
			wantCode:    ErrInvalidType,
		},
		{
			name:        "missing secret",
			raw:         map[string]any{"exp": exp},
			wantError:   true,
			wantMessage: "[MISSING_SECRET] secret is required",
			wantCode:    ErrMissingSecret,
		},
		{
			name:        "nil input",
			raw:         nil,
			wantError:   true,
			wantMessage: "[MISSING_REQUIRED] exp is required",
			wantCode:    ErrMissingRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := codec.EncodeInput(tt.raw)

			if resp.Error != tt.wantError {
				t.Fatalf("expected error=%v, got %v (%s)", tt.wantError, resp.Error, resp.Message)
			}
			if resp.Message != tt.wantMessage {
				t.Errorf("expected message %q, got %q", tt.wantMessage, resp.Message)
			}
			if resp.Data != nil {
				t.Error("encode responses never carry data")
			}
			if tt.wantError {
				if resp.Token != "" {
					t.Errorf("expected empty token, got %q", resp.Token)
				}
				if resp.Code != tt.wantCode {
					t.Errorf("expected code %s, got %s", tt.wantCode, resp.Code)
				}
				return
			}
			if strings.Count(resp.Token, ".") != 2 {
				t.Errorf("expected a compact JWS, got %q", resp.Token)
			}
		})
	}
}

// TestDecodeInputResponses tests the decode boundary record
func TestDecodeInputResponses(t *testing.T) {
	codec := newTestCodec(t)
	exp := inOneHour()

	encoded := codec.EncodeInput(map[string]any{"secret": "s3cret", "exp": exp, "sub": "user1", "algorithm": "HS384"})
	if encoded.Error {
		t.Fatalf("encode failed: %s", encoded.Message)
	}

	t.Run("success", func(t *testing.T) {
		resp := codec.DecodeInput(encoded.Token, "s3cret")
		if resp.Error {
			t.Fatalf("decode failed: %s", resp.Message)
		}
		if resp.Message != SuccessMessage || resp.Token != "" {
			t.Errorf("unexpected response %+v", resp)
		}
		if resp.Data == nil {
			t.Fatal("expected data")
		}
		data := resp.Data.Map()
		for _, key := range OutputKeys {
			if _, ok := data[key]; !ok {
				t.Errorf("data missing key %s", key)
			}
		}
		if data["sub"] != "user1" || data["exp"] != exp || data["algorithm"] != "HS384" {
			t.Errorf("unexpected data %v", data)
		}
		if data["secret"] != nil || data["iat"] != nil || data["aud"] != nil {
			t.Errorf("expected explicit nulls, got %v", data)
		}
	})

	t.Run("wrong secret is opaque", func(t *testing.T) {
		resp := codec.DecodeInput(encoded.Token, "wrong")
		if !resp.Error || resp.Data != nil {
			t.Fatalf("expected failure without data, got %+v", resp)
		}
		if resp.Message != "[DECODE_FAILED] jwt decode error" {
			t.Errorf("unexpected message %q", resp.Message)
		}
		if resp.Code != ErrInvalidSignature {
			t.Errorf("expected code %s, got %s", ErrInvalidSignature, resp.Code)
		}
	})

	t.Run("detail exposes cause", func(t *testing.T) {
		detailed := newTestCodec(t, WithErrorDetail())
		expired := detailed.EncodeInput(map[string]any{"secret": "s3cret", "exp": uint64(time.Now().Add(-time.Hour).Unix())})
		resp := detailed.DecodeInput(expired.Token, "s3cret")
		if !resp.Error || !strings.HasPrefix(resp.Message, "[EXPIRED]") {
			t.Errorf("expected EXPIRED message, got %q", resp.Message)
		}
	})

	t.Run("empty secret", func(t *testing.T) {
		resp := codec.DecodeInput(encoded.Token, "")
		if !resp.Error || resp.Code != ErrDecodeFailed {
			t.Errorf("expected DECODE_FAILED, got %+v", resp)
		}
		if resp.Message != "[DECODE_FAILED] jwt decode error" {
			t.Errorf("unexpected message %q", resp.Message)
		}
		if resp.Data != nil {
			t.Error("expected no data on failure")
		}
	})
}

// TestResponseJSON tests the serialized shape of boundary records
func TestResponseJSON(t *testing.T) {
	codec := newTestCodec(t)
	encoded := codec.EncodeInput(map[string]any{"secret": "s3cret", "exp": inOneHour()})

	failure, err := json.Marshal(codec.DecodeInput("bad", "s3cret"))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if strings.Contains(string(failure), `"data"`) {
		t.Errorf("failure response must omit data: %s", failure)
	}

	success, err := json.Marshal(codec.DecodeInput(encoded.Token, "s3cret"))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(success, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	for _, key := range []string{"error", "token", "message", "data"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("response JSON missing %s: %s", key, success)
		}
	}
	if strings.Contains(string(success), "Code") {
		t.Errorf("code must not be serialized: %s", success)
	}
}
