package billing

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCredentials is returned when shop id or secret key is missing.
	ErrInvalidCredentials = errors.New("billing: invalid or missing credentials")

	// ErrPaymentNotFound is returned by the mock when a payment does not exist.
	ErrPaymentNotFound = errors.New("billing: payment not found")

	// ErrRefundNotFound is returned by the mock when a refund does not exist.
	ErrRefundNotFound = errors.New("billing: refund not found")
)

// ErrorKind classifies a gateway failure so callers can tell
// "retry later" from "this request is invalid".
type ErrorKind int

const (
	// KindRejected is a well-formed non-200 answer from the gateway.
	KindRejected ErrorKind = iota + 1

	// KindUnavailable covers transport failures, timeouts and 5xx answers.
	// The request may still have been processed.
	KindUnavailable

	// KindMalformed is a 200 answer whose body could not be decoded.
	KindMalformed
)

func (k ErrorKind) String() string {
	switch k {
	case KindRejected:
		return "rejected"
	case KindUnavailable:
		return "unavailable"
	case KindMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// GatewayError wraps a payment gateway failure with additional context.
type GatewayError struct {
	Kind       ErrorKind
	Op         string // e.g. "payments.create"
	Code       string // Provider error code (e.g., "invalid_request")
	Message    string // Provider description or transport failure text
	StatusCode int    // HTTP status, 0 for transport failures
	Err        error  // Underlying error, if any
}

func (e *GatewayError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("yookassa: %s: %s (code: %s, status: %d)", e.Op, e.Message, e.Code, e.StatusCode)
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("yookassa: %s: %s (status: %d)", e.Op, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("yookassa: %s: %s", e.Op, e.Message)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// IsTemporary returns true if the failure is likely transient.
func (e *GatewayError) IsTemporary() bool {
	return e.Kind == KindUnavailable || e.StatusCode == 429
}

// IsRetryable reports whether err is a gateway failure worth retrying later.
// A retry of a payment creation must reuse the same idempotency key.
func IsRetryable(err error) bool {
	var gwErr *GatewayError
	return errors.As(err, &gwErr) && gwErr.IsTemporary()
}
