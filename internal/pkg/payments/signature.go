package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Receipt is the signed completion callback emitted by the checkout
// widget. It is opaque to callers: forwarded to verification verbatim.
type Receipt struct {
	RazorpayPaymentID string `json:"razorpayPaymentId"`
	RazorpayOrderID   string `json:"razorpayOrderId"`
	RazorpaySignature string `json:"razorpaySignature"`
}

// Complete reports whether all three receipt fields are present.
func (r Receipt) Complete() bool {
	return strings.TrimSpace(r.RazorpayPaymentID) != "" &&
		strings.TrimSpace(r.RazorpayOrderID) != "" &&
		strings.TrimSpace(r.RazorpaySignature) != ""
}

// VerifyCheckoutSignature checks a checkout receipt signature. Razorpay
// signs "order_id|payment_id" with the key secret (HMAC-SHA256, hex).
func VerifyCheckoutSignature(r Receipt, keySecret string) bool {
	secret := strings.TrimSpace(keySecret)
	if secret == "" || !r.Complete() {
		return false
	}

	expected, err := hex.DecodeString(strings.ToLower(strings.TrimSpace(r.RazorpaySignature)))
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strings.TrimSpace(r.RazorpayOrderID) + "|" + strings.TrimSpace(r.RazorpayPaymentID)))
	return hmac.Equal(mac.Sum(nil), expected)
}

// VerifyWebhookSignature checks the X-Razorpay-Signature header of a
// webhook delivery against the raw request body.
func VerifyWebhookSignature(payload []byte, signatureHeader, webhookSecret string) bool {
	sig := strings.TrimSpace(signatureHeader)
	secret := strings.TrimSpace(webhookSecret)
	if sig == "" || secret == "" {
		return false
	}

	decoded, err := hex.DecodeString(strings.ToLower(sig))
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hmac.Equal(mac.Sum(nil), decoded)
}
