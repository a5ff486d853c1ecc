package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes. The HTTP layer maps each one to a status.
const (
	EINVALID      = "invalid"          // 400
	EUNAUTHORIZED = "unauthorized"     // 401
	EPAYMENT      = "payment_required" // 402
	EFORBIDDEN    = "forbidden"        // 403
	ENOTFOUND     = "not_found"        // 404
	ECONFLICT     = "conflict"         // 409: duplicate number, locked payment, terminal status
	ETOOLARGE     = "too_large"        // 413
	ERATELIMIT    = "rate_limit"       // 429
	EINTERNAL     = "internal"         // 500: details never reach the client
	ENOTIMPL      = "not_implemented"  // 501
	EUNAVAILABLE  = "unavailable"      // 502: gateway unreachable; outcome unknown
)

const internalMessage = "An internal error occurred. Please try again later."

// Error is an application error. Message is safe to show to callers,
// Op and Err are for logs only.
type Error struct {
	Code    string
	Message string
	Op      string // e.g. "order.create"
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func asError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// ErrorCode returns the code of err, EINTERNAL for foreign errors and ""
// for nil.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	if e, ok := asError(err); ok {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage returns the client-facing message of err. Internal and
// foreign errors collapse to a generic message.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	if e, ok := asError(err); ok && e.Code != EINTERNAL {
		return e.Message
	}
	return internalMessage
}

// ErrorOp returns the operation recorded on err, if any.
func ErrorOp(err error) string {
	if e, ok := asError(err); ok {
		return e.Op
	}
	return ""
}

func newError(code, op, message string, err error) *Error {
	return &Error{Code: code, Op: op, Message: message, Err: err}
}

// Errorf creates a domain error with a formatted message.
func Errorf(code, op, format string, args ...interface{}) error {
	return newError(code, op, fmt.Sprintf(format, args...), nil)
}

// WrapError attaches code, op and message to err. A nil err stays nil.
func WrapError(err error, code, op, message string) error {
	if err == nil {
		return nil
	}
	return newError(code, op, message, err)
}

// NotFound reports a missing resource, e.g. NotFound("order.get", "order", "42").
func NotFound(op, resource, identifier string) error {
	return newError(ENOTFOUND, op, fmt.Sprintf("%s not found: %s", resource, identifier), nil)
}

func Invalid(op, message string) error      { return newError(EINVALID, op, message, nil) }
func Unauthorized(op, message string) error { return newError(EUNAUTHORIZED, op, message, nil) }
func Forbidden(op, message string) error    { return newError(EFORBIDDEN, op, message, nil) }
func Conflict(op, message string) error     { return newError(ECONFLICT, op, message, nil) }

// Internal wraps an unexpected failure. Callers only ever see the generic message.
func Internal(err error, op, message string) error {
	return newError(EINTERNAL, op, message, err)
}

// Unavailable wraps a failure to reach an upstream such as the payment
// gateway. The upstream may or may not have acted, so retries must reuse
// the same idempotency key.
func Unavailable(err error, op, message string) error {
	return newError(EUNAVAILABLE, op, message, err)
}

// ValidationError carries per-field failures keyed by JSON path,
// e.g. "customer.email" or "items[0].quantity".
type ValidationError struct {
	Fields map[string]string
	Op     string
}

func (e *ValidationError) Error() string {
	prefix := ""
	if e.Op != "" {
		prefix = e.Op + ": "
	}
	if len(e.Fields) == 1 {
		for field, msg := range e.Fields {
			return prefix + field + ": " + msg
		}
	}
	return fmt.Sprintf("%svalidation failed for %d fields", prefix, len(e.Fields))
}

// NewValidationError creates a validation error for a single field.
func NewValidationError(op, field, message string) error {
	return &ValidationError{Op: op, Fields: map[string]string{field: message}}
}

// AddFieldError records a field failure on err when it is already a
// ValidationError, and starts a new one otherwise.
func AddFieldError(err error, field, message string) error {
	var ve *ValidationError
	if errors.As(err, &ve) {
		ve.Fields[field] = message
		return ve
	}
	return &ValidationError{Fields: map[string]string{field: message}}
}

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// GetValidationFields returns the field map, or nil for other errors.
func GetValidationFields(err error) map[string]string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Fields
	}
	return nil
}
