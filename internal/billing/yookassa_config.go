package billing

import (
	"errors"
	"net/http"
	"strings"
)

// DefaultAPIURL is the production YooKassa endpoint.
const DefaultAPIURL = "https://api.yookassa.ru/v3"

// YooKassaConfig contains configuration for the YooKassa provider.
type YooKassaConfig struct {
	// ShopID is the merchant shop identifier, used as the Basic auth user.
	ShopID string

	// SecretKey is the API secret (test_... or live_...).
	SecretKey string

	// APIURL overrides the API base URL. Tests point it at httptest.
	// Default: DefaultAPIURL
	APIURL string

	// TimeoutSeconds bounds every HTTP call.
	// Default: 30
	TimeoutSeconds int

	// Currency is the ISO code sent with every amount.
	// Default: RUB
	Currency string

	// VATCode tags receipt lines. 1 means "no VAT" in YooKassa's table.
	// Default: 1
	VATCode int

	// Transport optionally wraps outgoing requests, e.g. for tracing.
	// Default: http.DefaultTransport
	Transport http.RoundTripper
}

// Validate checks that required configuration is present.
func (c *YooKassaConfig) Validate() error {
	if c.ShopID == "" {
		return errors.New("yookassa: shop id is required")
	}
	if c.SecretKey == "" {
		return errors.New("yookassa: secret key is required")
	}
	if c.TimeoutSeconds < 0 {
		return errors.New("yookassa: timeout must not be negative")
	}
	return nil
}

// IsTestMode returns true if using a test shop secret key.
func (c *YooKassaConfig) IsTestMode() bool {
	return strings.HasPrefix(c.SecretKey, "test_")
}

func (c *YooKassaConfig) withDefaults() YooKassaConfig {
	out := *c
	if out.APIURL == "" {
		out.APIURL = DefaultAPIURL
	}
	out.APIURL = strings.TrimRight(out.APIURL, "/")
	if out.TimeoutSeconds == 0 {
		out.TimeoutSeconds = 30
	}
	if out.Currency == "" {
		out.Currency = "RUB"
	}
	if out.VATCode == 0 {
		out.VATCode = 1
	}
	return out
}
