package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/roll2bowl/partner-api/internal/pkg/env"
)

const defaultRazorpayAPIBaseURL = "https://api.razorpay.com/v1"

// DefaultCurrency for checkout orders. All branch billing is INR.
const DefaultCurrency = "INR"

type RazorpayClient struct {
	KeyID     string
	KeySecret string

	APIBaseURL string

	HTTPClient *http.Client
}

// CheckoutOrder is the gateway-side order backing one checkout attempt.
type CheckoutOrder struct {
	OrderID     string
	AmountPaise int64
	Currency    string
	Receipt     string
	Status      string
}

func NewRazorpayClientFromEnv() *RazorpayClient {
	return &RazorpayClient{
		KeyID:      strings.TrimSpace(env.GetEnv("RAZORPAY_KEY_ID", "")),
		KeySecret:  strings.TrimSpace(env.GetEnv("RAZORPAY_KEY_SECRET", "")),
		APIBaseURL: strings.TrimSpace(env.GetEnv("RAZORPAY_API_BASE_URL", defaultRazorpayAPIBaseURL)),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// CreateOrder creates a gateway order for the given amount (in currency
// units, e.g. rupees) and returns the opaque order id handed to the
// checkout widget.
func (c *RazorpayClient) CreateOrder(ctx context.Context, amount float64, currency, receipt string, notes map[string]string) (*CheckoutOrder, error) {
	if strings.TrimSpace(c.KeyID) == "" || strings.TrimSpace(c.KeySecret) == "" {
		return nil, errors.New("RAZORPAY_KEY_ID/RAZORPAY_KEY_SECRET are not configured")
	}
	if amount <= 0 {
		return nil, errors.New("order amount must be positive")
	}
	if strings.TrimSpace(currency) == "" {
		currency = DefaultCurrency
	}

	// The orders API takes amounts in the currency's smallest unit.
	amountPaise := int64(math.Round(amount * 100))

	payload := map[string]any{
		"amount":   amountPaise,
		"currency": currency,
		"receipt":  receipt,
	}
	if len(notes) > 0 {
		payload["notes"] = notes
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	url := strings.TrimRight(c.APIBaseURL, "/") + "/orders"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.KeyID, c.KeySecret)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("razorpay order creation failed: status=%d body=%s", resp.StatusCode, string(respBody))
	}

	var raw struct {
		ID       string `json:"id"`
		Amount   int64  `json:"amount"`
		Currency string `json:"currency"`
		Receipt  string `json:"receipt"`
		Status   string `json:"status"`
	}
	if err := json.Unmarshal(respBody, &raw); err != nil {
		return nil, err
	}
	if strings.TrimSpace(raw.ID) == "" {
		return nil, errors.New("razorpay order response missing order id")
	}

	return &CheckoutOrder{
		OrderID:     raw.ID,
		AmountPaise: raw.Amount,
		Currency:    raw.Currency,
		Receipt:     raw.Receipt,
		Status:      raw.Status,
	}, nil
}
