package jwtcodec

import (
	"log/slog"
	"time"
)

// SecurityEvent represents a structured log entry for one encode or decode
type SecurityEvent struct {
	Operation     string        // "encode" or "decode"
	Outcome       string        // "success" or "failure"
	Timestamp     time.Time     // Event timestamp
	RequestID     string        // Correlation ID, if the caller supplied one
	Subject       string        // sub claim (empty on failure or when unset)
	Algorithm     string        // Algorithm used or attempted
	FailureReason string        // Error code (on failure)
	TokenPreview  string        // Redacted token preview
	Latency       time.Duration // Operation latency
}

// LogValue implements slog.LogValuer for structured logging with redaction
func (e SecurityEvent) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("operation", e.Operation),
		slog.String("outcome", e.Outcome),
		slog.Time("timestamp", e.Timestamp),
		slog.String("request_id", e.RequestID),
		slog.String("subject", e.Subject),
		slog.String("algorithm", e.Algorithm),
		slog.String("failure_reason", e.FailureReason),
		slog.String("token", redactToken(e.TokenPreview)),
		slog.Duration("latency", e.Latency),
	)
}

// redactToken redacts sensitive token data
func redactToken(token string) string {
	if len(token) == 0 {
		return ""
	}
	if len(token) <= 8 {
		return "***"
	}
	return token[:8] + "..."
}

// logSecurityEvent emits a security event via the configured logger
func logSecurityEvent(logger *slog.Logger, event SecurityEvent) {
	if logger == nil {
		return
	}

	if event.Outcome == "failure" {
		logger.Warn("jwt "+event.Operation+" failed", "jwt_event", event)
	} else {
		logger.Info("jwt "+event.Operation+" succeeded", "jwt_event", event)
	}
}

// logClaimWarnings reports every input value that was dropped or defaulted
func logClaimWarnings(logger *slog.Logger, requestID string, claims *Claims) {
	if logger == nil || claims == nil {
		return
	}
	for _, w := range claims.warnings {
		logger.Warn("jwt claim input adjusted",
			slog.String("request_id", requestID),
			slog.String("field", w.Field),
			slog.String("reason", w.Reason),
		)
	}
}

func newSecurityEvent(operation, requestID, token string, claims *Claims, alg string, err error, latency time.Duration) SecurityEvent {
	event := SecurityEvent{
		Operation:    operation,
		Outcome:      "success",
		Timestamp:    time.Now(),
		RequestID:    requestID,
		Algorithm:    alg,
		TokenPreview: token,
		Latency:      latency,
	}
	if err != nil {
		event.Outcome = "failure"
		event.FailureReason = string(CodeOf(err))
		return event
	}
	if claims != nil {
		event.Subject, _ = claims.Subject()
	}
	return event
}
