// Package telemetry wires error reporting (Sentry) and business metrics
// (Prometheus) for the shop.
package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/airshop/internal/domain"
	"github.com/getsentry/sentry-go"
)

// SentryConfig holds configuration for Sentry error tracking
type SentryConfig struct {
	DSN     string
	Enabled bool

	Environment string
	Release     string

	// SampleRate is the share of errors sent. Zero means 1.0.
	SampleRate float64

	// TracesSampleRate is the share of requests traced. Zero disables tracing.
	TracesSampleRate float64

	Debug bool
}

var enabled bool

const flushTimeout = 2 * time.Second

// headers that must never leave the process: admin tokens and the
// client-chosen payment idempotency key.
var scrubbedHeaders = []string{"Authorization", "Cookie", "Idempotency-Key"}

// InitSentry initializes the Sentry client and returns a flush function for
// shutdown. A disabled or DSN-less config turns every helper into a no-op.
func InitSentry(cfg SentryConfig, logger *slog.Logger) (func(), error) {
	enabled = false

	if !cfg.Enabled {
		logger.Info("Sentry disabled (SENTRY_ENABLED=false)")
		return func() {}, nil
	}
	if cfg.DSN == "" {
		logger.Warn("Sentry DSN not configured, disabling error tracking")
		return func() {}, nil
	}

	sampleRate := cfg.SampleRate
	if sampleRate == 0 {
		sampleRate = 1.0
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      cfg.Environment,
		Release:          cfg.Release,
		SampleRate:       sampleRate,
		TracesSampleRate: cfg.TracesSampleRate,
		EnableTracing:    cfg.TracesSampleRate > 0,
		Debug:            cfg.Debug,
		BeforeSend: func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
			return scrubEvent(event)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Sentry: %w", err)
	}
	enabled = true

	logger.Info("Sentry initialized",
		"environment", cfg.Environment,
		"release", cfg.Release,
		"sample_rate", sampleRate,
		"traces_sample_rate", cfg.TracesSampleRate,
	)

	return func() { sentry.Flush(flushTimeout) }, nil
}

// IsEnabled returns whether Sentry is currently enabled
func IsEnabled() bool {
	return enabled
}

// scrubEvent strips credentials and the request body. Order payloads carry
// customer names, phones and addresses.
func scrubEvent(event *sentry.Event) *sentry.Event {
	if event == nil || event.Request == nil {
		return event
	}
	for _, h := range scrubbedHeaders {
		delete(event.Request.Headers, h)
	}
	event.Request.Cookies = ""
	event.Request.Data = ""
	return event
}

// shouldReport filters out client mistakes. Only failures on our side or the
// gateway's are worth an alert.
func shouldReport(err error) bool {
	if err == nil || domain.IsValidationError(err) {
		return false
	}
	switch domain.ErrorCode(err) {
	case domain.EINTERNAL, domain.EUNAVAILABLE, domain.ENOTIMPL:
		return true
	default:
		return false
	}
}

func capture(hub *sentry.Hub, err error, extras map[string]interface{}) {
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("error.code", domain.ErrorCode(err))
		if op := domain.ErrorOp(err); op != "" {
			scope.SetTag("op", op)
		}
		for key, value := range extras {
			scope.SetExtra(key, value)
		}
		hub.CaptureException(err)
	})
}

// CaptureError reports err on the global hub. Safe to call when disabled.
func CaptureError(err error, extras ...map[string]interface{}) {
	if !IsEnabled() || !shouldReport(err) {
		return
	}
	var ex map[string]interface{}
	if len(extras) > 0 {
		ex = extras[0]
	}
	capture(sentry.CurrentHub(), err, ex)
}

// CaptureErrorFromContext reports err on the request hub, so request and
// admin user context from the middlewares are attached.
func CaptureErrorFromContext(ctx context.Context, err error, extras map[string]interface{}) {
	if !IsEnabled() || !shouldReport(err) {
		return
	}
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	capture(hub, err, extras)
}

// AddBreadcrumb adds a breadcrumb for debugging
func AddBreadcrumb(category, message string, data map[string]interface{}) {
	if !IsEnabled() {
		return
	}

	sentry.AddBreadcrumb(&sentry.Breadcrumb{
		Category: category,
		Message:  message,
		Data:     data,
		Level:    sentry.LevelInfo,
	})
}

// StartSpan starts a performance span and returns its context and finisher.
func StartSpan(ctx context.Context, operation, description string) (context.Context, func()) {
	if !IsEnabled() {
		return ctx, func() {}
	}

	span := sentry.StartSpan(ctx, operation)
	span.Description = description

	return span.Context(), span.Finish
}

// SentryMiddleware gives every request its own hub. Panics are left to
// router.Recovery, which reports through this hub; it must therefore run
// inside this middleware.
func SentryMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !IsEnabled() {
				next.ServeHTTP(w, r)
				return
			}

			hub := sentry.CurrentHub().Clone()
			hub.Scope().SetRequest(r)
			if id := domain.RequestIDFromContext(r.Context()); id != "" {
				hub.Scope().SetTag("request_id", id)
			}

			next.ServeHTTP(w, r.WithContext(sentry.SetHubOnContext(r.Context(), hub)))
		})
	}
}

// UserInfo represents user information for Sentry context
type UserInfo struct {
	ID       string
	Username string
}

// UserContextExtractor is a function that extracts user info from a request context
type UserContextExtractor func(ctx context.Context) *UserInfo

// SentryContextMiddleware tags the request hub with the authenticated admin.
// Apply it after authentication.
func SentryContextMiddleware(userExtractor UserContextExtractor) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !IsEnabled() || userExtractor == nil {
				next.ServeHTTP(w, r)
				return
			}

			hub := sentry.GetHubFromContext(r.Context())
			if hub == nil {
				hub = sentry.CurrentHub().Clone()
			}
			if user := userExtractor(r.Context()); user != nil {
				hub.Scope().SetUser(sentry.User{ID: user.ID, Username: user.Username})
			}

			next.ServeHTTP(w, r.WithContext(sentry.SetHubOnContext(r.Context(), hub)))
		})
	}
}

// HTTPTransport traces outgoing gateway calls as http.client spans.
// A nil Transport means http.DefaultTransport.
type HTTPTransport struct {
	Transport http.RoundTripper
}

func (t *HTTPTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	if !IsEnabled() {
		return base.RoundTrip(req)
	}

	span := sentry.StartSpan(req.Context(), "http.client")
	span.Description = fmt.Sprintf("%s %s%s", req.Method, req.URL.Host, req.URL.Path)
	defer span.Finish()

	resp, err := base.RoundTrip(req)
	if err != nil {
		span.Status = sentry.SpanStatusInternalError
		return nil, err
	}
	span.SetData("http.status_code", resp.StatusCode)
	if resp.StatusCode >= 500 {
		span.Status = sentry.SpanStatusUnavailable
	}

	return resp, nil
}
