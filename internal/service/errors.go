package service

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dukerupert/airshop/internal/billing"
	"github.com/dukerupert/airshop/internal/domain"
)

// Payment gateway errors - translated from *billing.GatewayError
var (
	ErrGatewayUnavailable = domain.Errorf(domain.EUNAVAILABLE, "", "Payment gateway unavailable")
	ErrGatewayNotFound    = domain.Errorf(domain.ENOTFOUND, "", "Payment gateway object not found")
)

// gatewayError translates a billing failure into a domain error. Rejections
// carry the gateway's description; anything else means the outcome is unknown.
func gatewayError(err error, op string) error {
	var gwErr *billing.GatewayError
	if !errors.As(err, &gwErr) {
		return wrapSentinel(ErrGatewayUnavailable, op, err)
	}

	switch gwErr.Kind {
	case billing.KindRejected:
		if gwErr.StatusCode == http.StatusNotFound {
			return wrapSentinel(ErrGatewayNotFound, op, err)
		}
		message := gwErr.Message
		if message == "" {
			message = "request rejected"
		}
		return &domain.Error{Code: domain.EINVALID, Op: op, Message: fmt.Sprintf("Payment gateway: %s", message), Err: err}
	default:
		return wrapSentinel(ErrGatewayUnavailable, op, err)
	}
}

func gatewayErrorKind(err error) string {
	var gwErr *billing.GatewayError
	if errors.As(err, &gwErr) {
		return gwErr.Kind.String()
	}
	return "unknown"
}

// wrapSentinel copies a sentinel's code and message onto a new error that
// records the operation and the cause.
func wrapSentinel(sentinel error, op string, cause error) error {
	var e *domain.Error
	if !errors.As(sentinel, &e) {
		return sentinel
	}
	return &domain.Error{Code: e.Code, Op: op, Message: e.Message, Err: cause}
}
