package jwtcodec

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func newBufferLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return logger, &buf
}

func logLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var lines []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("Failed to parse log line %q: %v", line, err)
		}
		lines = append(lines, entry)
	}
	return lines
}

// TestSecurityEventLogging tests encode/decode success and failure events
func TestSecurityEventLogging(t *testing.T) {
	logger, buf := newBufferLogger()
	codec := newTestCodec(t, WithLogger(logger))

	token, err := codec.Encode(NewClaims(inOneHour(), WithSubject("user1"), WithAlgorithm(HS384)), HMACSigningKey(testSecret))
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if _, err := codec.Decode(token, HMACVerificationKey(testSecret)); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if _, err := codec.Decode(token, HMACVerificationKey([]byte("wrong"))); err == nil {
		t.Fatal("expected decode failure")
	}

	lines := logLines(t, buf)
	if len(lines) != 3 {
		t.Fatalf("expected 3 log lines, got %d: %s", len(lines), buf.String())
	}

	expected := []struct {
		level, operation, outcome, reason string
	}{
		{"INFO", "encode", "success", ""},
		{"INFO", "decode", "success", ""},
		{"WARN", "decode", "failure", string(ErrInvalidSignature)},
	}
	for i, want := range expected {
		entry := lines[i]
		event, ok := entry["jwt_event"].(map[string]any)
		if !ok {
			t.Fatalf("line %d: missing jwt_event group: %v", i, entry)
		}
		if entry["level"] != want.level {
			t.Errorf("line %d: expected level %s, got %v", i, want.level, entry["level"])
		}
		if event["operation"] != want.operation || event["outcome"] != want.outcome {
			t.Errorf("line %d: unexpected event %v", i, event)
		}
		if event["failure_reason"] != want.reason {
			t.Errorf("line %d: expected reason %q, got %v", i, want.reason, event["failure_reason"])
		}
		if event["algorithm"] != "HS384" {
			t.Errorf("line %d: expected algorithm HS384, got %v", i, event["algorithm"])
		}
		if tok, _ := event["token"].(string); strings.Contains(tok, token[9:]) {
			t.Errorf("line %d: token not redacted: %q", i, tok)
		}
	}
	if lines[0]["jwt_event"].(map[string]any)["subject"] != "user1" {
		t.Errorf("expected subject user1 in encode event")
	}
}

// TestClaimWarningsLogged tests that defaulted inputs are reported
func TestClaimWarningsLogged(t *testing.T) {
	logger, buf := newBufferLogger()
	codec := newTestCodec(t, WithLogger(logger))

	resp := codec.EncodeInput(map[string]any{"secret": "s3cret", "exp": inOneHour(), "algorithm": "HS257", "iat": "now"})
	if resp.Error {
		t.Fatalf("encode failed: %s", resp.Message)
	}

	fields := map[string]bool{}
	for _, entry := range logLines(t, buf) {
		if entry["msg"] == "jwt claim input adjusted" {
			fields[entry["field"].(string)] = true
		}
	}
	if !fields["algorithm"] || !fields["iat"] {
		t.Errorf("expected warnings for algorithm and iat, got %v", fields)
	}
}

// TestNilLoggerDisablesLogging tests that no logger means no output and no panic
func TestNilLoggerDisablesLogging(t *testing.T) {
	codec := newTestCodec(t)
	resp := codec.EncodeInput(map[string]any{"secret": "s3cret", "exp": inOneHour(), "algorithm": "bogus"})
	if resp.Error {
		t.Fatalf("encode failed: %s", resp.Message)
	}
}

// TestRedactToken tests token redaction in log values
func TestRedactToken(t *testing.T) {
	tests := []struct {
		token, want string
	}{
		{"", ""},
		{"short", "***"},
		{"eyJhbGciOiJIUzI1NiJ9.payload.sig", "eyJhbGci..."},
	}
	for _, tt := range tests {
		if got := redactToken(tt.token); got != tt.want {
			t.Errorf("redactToken(%q) = %q, want %q", tt.token, got, tt.want)
		}
	}
}

// TestSecurityEventLogValue tests the structured group emitted for an event
func TestSecurityEventLogValue(t *testing.T) {
	event := SecurityEvent{
		Operation: "decode",
		Outcome:   "failure",
		Timestamp: time.Now(),
		RequestID: "req-1",
		Algorithm: "HS256",
		Latency:   time.Millisecond,
	}
	value := event.LogValue()
	if value.Kind() != slog.KindGroup {
		t.Fatalf("expected group value, got %s", value.Kind())
	}

	attrs := map[string]slog.Value{}
	for _, attr := range value.Group() {
		attrs[attr.Key] = attr.Value
	}
	if attrs["request_id"].String() != "req-1" || attrs["operation"].String() != "decode" {
		t.Errorf("unexpected attributes %v", attrs)
	}
}
