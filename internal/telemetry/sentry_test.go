package telemetry

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dukerupert/airshop/internal/domain"
	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitSentry_Disabled(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	for _, cfg := range []SentryConfig{{}, {Enabled: true}} {
		flush, err := InitSentry(cfg, logger)
		require.NoError(t, err)
		require.NotNil(t, flush)
		assert.False(t, IsEnabled())

		assert.NotPanics(t, func() {
			flush()
			CaptureError(errors.New("boom"))
			CaptureErrorFromContext(context.Background(), errors.New("boom"), nil)
			AddBreadcrumb("payment", "created", nil)
			_, finish := StartSpan(context.Background(), "payment.create", "ORD-1")
			finish()
		})
	}
}

func TestScrubEvent(t *testing.T) {
	event := &sentry.Event{Request: &sentry.Request{
		Headers: map[string]string{
			"Authorization":   "Bearer eyJhbGciOi",
			"Idempotency-Key": "client-key",
			"Content-Type":    "application/json",
		},
		Cookies: "session=abc",
		Data:    `{"customer":{"phone":"+79990001122"}}`,
	}}

	got := scrubEvent(event)

	assert.NotContains(t, got.Request.Headers, "Authorization")
	assert.NotContains(t, got.Request.Headers, "Idempotency-Key")
	assert.Equal(t, "application/json", got.Request.Headers["Content-Type"])
	assert.Empty(t, got.Request.Cookies)
	assert.Empty(t, got.Request.Data)

	assert.Nil(t, scrubEvent(nil))
	assert.NotPanics(t, func() { scrubEvent(&sentry.Event{}) })
}

func TestShouldReport(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"foreign error", errors.New("panic: nil map"), true},
		{"internal", domain.Internal(errors.New("tx aborted"), "order.create", "failed to save order"), true},
		{"gateway unavailable", domain.Unavailable(errors.New("timeout"), "payment.create", "Payment gateway unavailable"), true},
		{"not found", domain.ErrOrderNotFound, false},
		{"conflict", domain.Conflict("order.status", "Order is already canceled"), false},
		{"validation", domain.NewValidationError("order.create", "items", "required"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, shouldReport(tt.err))
		})
	}
}

func TestHTTPTransport_PassesThroughWhenDisabled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	defer srv.Close()

	client := &http.Client{Transport: &HTTPTransport{}}
	resp, err := client.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusTeapot, resp.StatusCode)
}
