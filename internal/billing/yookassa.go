package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// maxReceiptDescription is the receipt line description limit, in runes.
const maxReceiptDescription = 128

// YooKassaProvider implements Provider against the YooKassa v3 HTTP API.
type YooKassaProvider struct {
	config YooKassaConfig
	client *http.Client
}

// Compile-time check that YooKassaProvider implements Provider.
var _ Provider = (*YooKassaProvider)(nil)

// NewYooKassaProvider creates a new YooKassa billing provider.
func NewYooKassaProvider(config YooKassaConfig) (*YooKassaProvider, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}
	cfg := config.withDefaults()

	return &YooKassaProvider{
		config: cfg,
		client: &http.Client{
			Timeout:   time.Duration(cfg.TimeoutSeconds) * time.Second,
			Transport: cfg.Transport,
		},
	}, nil
}

// =============================================================================
// WIRE TYPES
// =============================================================================

type ykAmount struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

type ykConfirmation struct {
	Type            string `json:"type"`
	ReturnURL       string `json:"return_url,omitempty"`
	ConfirmationURL string `json:"confirmation_url,omitempty"`
}

type ykPaymentMethodData struct {
	Type string `json:"type"`
}

type ykReceiptCustomer struct {
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

type ykReceiptItem struct {
	Description    string   `json:"description"`
	Quantity       string   `json:"quantity"`
	Amount         ykAmount `json:"amount"`
	VATCode        int      `json:"vat_code"`
	PaymentMode    string   `json:"payment_mode"`
	PaymentSubject string   `json:"payment_subject"`
}

type ykReceipt struct {
	Customer ykReceiptCustomer `json:"customer"`
	Items    []ykReceiptItem   `json:"items"`
}

type ykPaymentRequest struct {
	Amount            ykAmount             `json:"amount"`
	Confirmation      ykConfirmation       `json:"confirmation"`
	Capture           bool                 `json:"capture"`
	Description       string               `json:"description"`
	Metadata          map[string]string    `json:"metadata"`
	PaymentMethodData *ykPaymentMethodData `json:"payment_method_data,omitempty"`
	Receipt           *ykReceipt           `json:"receipt,omitempty"`
}

type ykPayment struct {
	ID           string          `json:"id"`
	Status       string          `json:"status"`
	Paid         bool            `json:"paid"`
	Amount       ykAmount        `json:"amount"`
	Confirmation *ykConfirmation `json:"confirmation"`
	CreatedAt    time.Time       `json:"created_at"`
}

type ykRefundRequest struct {
	PaymentID string    `json:"payment_id"`
	Amount    *ykAmount `json:"amount,omitempty"`
}

type ykRefund struct {
	ID        string    `json:"id"`
	PaymentID string    `json:"payment_id"`
	Status    string    `json:"status"`
	Amount    ykAmount  `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}

type ykError struct {
	Type        string `json:"type"`
	Code        string `json:"code"`
	Description string `json:"description"`
	Parameter   string `json:"parameter"`
}

// =============================================================================
// PAYMENTS
// =============================================================================

// CreatePayment creates a captured redirect payment.
func (p *YooKassaProvider) CreatePayment(ctx context.Context, params CreatePaymentParams) (*Payment, error) {
	const op = "payments.create"

	body := ykPaymentRequest{
		Amount: p.amount(params.Amount),
		Confirmation: ykConfirmation{
			Type:      "redirect",
			ReturnURL: params.ReturnURL,
		},
		Capture:     true,
		Description: "Заказ " + params.OrderNumber,
		Metadata:    map[string]string{"order_number": params.OrderNumber},
	}
	if params.PaymentMethod != "" {
		body.PaymentMethodData = &ykPaymentMethodData{Type: params.PaymentMethod}
	}
	if len(params.ReceiptItems) > 0 {
		body.Receipt = p.receipt(params)
	}

	var out ykPayment
	if err := p.do(ctx, op, http.MethodPost, "/payments", params.IdempotencyKey, body, &out); err != nil {
		return nil, err
	}
	if out.ID == "" || out.Confirmation == nil || out.Confirmation.ConfirmationURL == "" {
		return nil, &GatewayError{Kind: KindMalformed, Op: op, Message: "response has no payment id or confirmation url", StatusCode: http.StatusOK}
	}

	return p.toPayment(op, out)
}

// GetPayment retrieves a payment by id.
func (p *YooKassaProvider) GetPayment(ctx context.Context, paymentID string) (*Payment, error) {
	const op = "payments.get"

	var out ykPayment
	if err := p.do(ctx, op, http.MethodGet, "/payments/"+url.PathEscape(paymentID), "", nil, &out); err != nil {
		return nil, err
	}
	return p.toPayment(op, out)
}

// =============================================================================
// REFUNDS
// =============================================================================

// CreateRefund creates a refund. A nil amount refunds in full.
func (p *YooKassaProvider) CreateRefund(ctx context.Context, params RefundParams) (*Refund, error) {
	const op = "refunds.create"

	body := ykRefundRequest{PaymentID: params.PaymentID}
	if params.Amount != nil {
		a := p.amount(*params.Amount)
		body.Amount = &a
	}

	var out ykRefund
	if err := p.do(ctx, op, http.MethodPost, "/refunds", params.IdempotencyKey, body, &out); err != nil {
		return nil, err
	}
	return p.toRefund(op, out)
}

// GetRefund retrieves a refund by id.
func (p *YooKassaProvider) GetRefund(ctx context.Context, refundID string) (*Refund, error) {
	const op = "refunds.get"

	var out ykRefund
	if err := p.do(ctx, op, http.MethodGet, "/refunds/"+url.PathEscape(refundID), "", nil, &out); err != nil {
		return nil, err
	}
	return p.toRefund(op, out)
}

// =============================================================================
// HELPERS
// =============================================================================

func (p *YooKassaProvider) amount(v decimal.Decimal) ykAmount {
	return ykAmount{Value: v.StringFixed(2), Currency: p.config.Currency}
}

func (p *YooKassaProvider) receipt(params CreatePaymentParams) *ykReceipt {
	r := &ykReceipt{
		Customer: ykReceiptCustomer{
			Email: params.CustomerEmail,
			Phone: params.CustomerPhone,
		},
		Items: make([]ykReceiptItem, len(params.ReceiptItems)),
	}
	for i, item := range params.ReceiptItems {
		vat := item.VATCode
		if vat == 0 {
			vat = p.config.VATCode
		}
		subject := item.Subject
		if subject == "" {
			subject = SubjectCommodity
		}
		r.Items[i] = ykReceiptItem{
			Description:    truncateRunes(item.Description, maxReceiptDescription),
			Quantity:       strconv.Itoa(int(item.Quantity)),
			Amount:         p.amount(item.UnitPrice),
			VATCode:        vat,
			PaymentMode:    "full_payment",
			PaymentSubject: subject,
		}
	}
	return r
}

func (p *YooKassaProvider) toPayment(op string, in ykPayment) (*Payment, error) {
	amount, err := decimal.NewFromString(in.Amount.Value)
	if err != nil {
		return nil, &GatewayError{Kind: KindMalformed, Op: op, Message: "invalid amount in response", StatusCode: http.StatusOK, Err: err}
	}
	payment := &Payment{
		ID:        in.ID,
		Status:    in.Status,
		Paid:      in.Paid,
		Amount:    amount,
		Currency:  in.Amount.Currency,
		CreatedAt: in.CreatedAt,
	}
	if in.Confirmation != nil {
		payment.ConfirmationURL = in.Confirmation.ConfirmationURL
	}
	return payment, nil
}

func (p *YooKassaProvider) toRefund(op string, in ykRefund) (*Refund, error) {
	if in.ID == "" {
		return nil, &GatewayError{Kind: KindMalformed, Op: op, Message: "response has no refund id", StatusCode: http.StatusOK}
	}
	amount, err := decimal.NewFromString(in.Amount.Value)
	if err != nil {
		return nil, &GatewayError{Kind: KindMalformed, Op: op, Message: "invalid amount in response", StatusCode: http.StatusOK, Err: err}
	}
	return &Refund{
		ID:        in.ID,
		PaymentID: in.PaymentID,
		Status:    in.Status,
		Amount:    amount,
		CreatedAt: in.CreatedAt,
	}, nil
}

// do performs exactly one HTTP request and decodes a 200 body into out.
func (p *YooKassaProvider) do(ctx context.Context, op, method, path, idempotencyKey string, in, out any) error {
	var reqBody io.Reader
	if in != nil {
		jsonData, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal %s payload: %w", op, err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.config.APIURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(p.config.ShopID, p.config.SecretKey)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if idempotencyKey != "" {
		req.Header.Set("Idempotence-Key", idempotencyKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return &GatewayError{Kind: KindUnavailable, Op: op, Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &GatewayError{Kind: KindUnavailable, Op: op, Message: "failed to read response", StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return p.responseError(op, resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return &GatewayError{Kind: KindMalformed, Op: op, Message: "failed to parse response", StatusCode: resp.StatusCode, Err: err}
	}
	return nil
}

func (p *YooKassaProvider) responseError(op string, status int, body []byte) error {
	var apiErr ykError
	decodeErr := json.Unmarshal(body, &apiErr)

	if status >= 500 {
		msg := apiErr.Description
		if decodeErr != nil || msg == "" {
			msg = http.StatusText(status)
		}
		return &GatewayError{Kind: KindUnavailable, Op: op, Code: apiErr.Code, Message: msg, StatusCode: status}
	}

	if decodeErr != nil {
		return &GatewayError{
			Kind:       KindMalformed,
			Op:         op,
			Message:    "undecodable error response",
			StatusCode: status,
			Err:        errors.Join(decodeErr, fmt.Errorf("body: %.200s", body)),
		}
	}

	msg := apiErr.Description
	if msg == "" {
		msg = "Unknown error"
	}
	return &GatewayError{Kind: KindRejected, Op: op, Code: apiErr.Code, Message: msg, StatusCode: status}
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}
