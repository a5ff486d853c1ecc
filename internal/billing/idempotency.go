package billing

import (
	"fmt"

	"github.com/google/uuid"
)

// idempotencyNamespace scopes derived keys to this application.
var idempotencyNamespace = uuid.MustParse("6f1c2b7e-4a39-5d7e-9f0b-3c1b8e2a6d41")

// PaymentIdempotencyKey derives a stable key for one payment attempt of an
// order. The same order and attempt always yield the same key, so a retry
// after a timeout is deduplicated by the gateway instead of charging twice.
func PaymentIdempotencyKey(orderNumber string, attempt int32) string {
	return uuid.NewSHA1(idempotencyNamespace, []byte(fmt.Sprintf("payment:%s:%d", orderNumber, attempt))).String()
}

// NewIdempotencyKey returns a fresh random key for operations with no
// natural attempt identity, such as refunds.
func NewIdempotencyKey() string {
	return uuid.New().String()
}
