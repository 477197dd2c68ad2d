package jwtcodec

import (
	"errors"
	"fmt"
)

// ErrorCode represents a codec error code
type ErrorCode string

const (
	ErrConfigError     ErrorCode = "CONFIG_ERROR"
	ErrMissingRequired ErrorCode = "MISSING_REQUIRED"
	ErrInvalidType     ErrorCode = "INVALID_TYPE"
	ErrMissingSecret   ErrorCode = "MISSING_SECRET"
	ErrKeyMismatch     ErrorCode = "KEY_MISMATCH"
	ErrUnsupportedAlg  ErrorCode = "UNSUPPORTED_ALGORITHM"
	ErrEncodeFailed    ErrorCode = "ENCODE_FAILED"

	// ErrDecodeFailed is the opaque code reported at the boundary for every
	// decode failure below unless detailed errors are enabled
	ErrDecodeFailed      ErrorCode = "DECODE_FAILED"
	ErrInvalidSignature  ErrorCode = "INVALID_SIGNATURE"
	ErrExpired           ErrorCode = "EXPIRED"
	ErrNotYetValid       ErrorCode = "NOT_YET_VALID"
	ErrMalformed         ErrorCode = "MALFORMED"
	ErrAlgorithmMismatch ErrorCode = "ALGORITHM_MISMATCH"
	ErrClaimMismatch     ErrorCode = "CLAIM_MISMATCH"
)

const (
	decodeFailedMessage = "jwt decode error"
	encodeFailedMessage = "jwt encode error"
)

// IsDecodeFailure reports whether code is one of the decode failure variants
func (c ErrorCode) IsDecodeFailure() bool {
	switch c {
	case ErrDecodeFailed, ErrInvalidSignature, ErrExpired, ErrNotYetValid,
		ErrMalformed, ErrAlgorithmMismatch, ErrClaimMismatch:
		return true
	}
	return false
}

// CodecError represents a claims, encode or decode error with a code and message
type CodecError struct {
	Code     ErrorCode
	Field    string // claim name for MISSING_REQUIRED and INVALID_TYPE
	Message  string
	Internal error
}

// Error implements the error interface
func (e *CodecError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the error unwrapping interface
func (e *CodecError) Unwrap() error {
	return e.Internal
}

// Is matches another *CodecError by code. A target with code DECODE_FAILED
// matches every decode failure variant.
func (e *CodecError) Is(target error) bool {
	t, ok := target.(*CodecError)
	if !ok {
		return false
	}
	if t.Code == ErrDecodeFailed {
		return e.Code.IsDecodeFailure()
	}
	return t.Code == e.Code && (t.Field == "" || t.Field == e.Field)
}

// NewCodecError creates a new codec error
func NewCodecError(code ErrorCode, message string, internal error) *CodecError {
	return &CodecError{
		Code:     code,
		Message:  message,
		Internal: internal,
	}
}

func missingRequired(field string) *CodecError {
	return &CodecError{Code: ErrMissingRequired, Field: field, Message: field + " is required"}
}

func invalidType(field string, internal error) *CodecError {
	return &CodecError{Code: ErrInvalidType, Field: field, Message: field + " type error", Internal: internal}
}

// CodeOf extracts the error code from err, or "UNKNOWN"
func CodeOf(err error) ErrorCode {
	var codecErr *CodecError
	if errors.As(err, &codecErr) {
		return codecErr.Code
	}
	return "UNKNOWN"
}

// IsDecodeFailure reports whether err is any decode failure variant
func IsDecodeFailure(err error) bool {
	return CodeOf(err).IsDecodeFailure()
}

// publicMessage renders err for the boundary response. Without detail the
// encode and decode failures collapse to fixed messages.
func publicMessage(err error, detail bool) string {
	var codecErr *CodecError
	if !errors.As(err, &codecErr) {
		if detail {
			return err.Error()
		}
		return "[UNKNOWN] internal error"
	}
	if detail {
		return codecErr.Error()
	}
	switch {
	case codecErr.Code.IsDecodeFailure():
		return NewCodecError(ErrDecodeFailed, decodeFailedMessage, nil).Error()
	case codecErr.Code == ErrEncodeFailed:
		return NewCodecError(ErrEncodeFailed, encodeFailedMessage, nil).Error()
	}
	return codecErr.Error()
}
