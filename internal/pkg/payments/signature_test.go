package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

func signCheckout(orderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyCheckoutSignature(t *testing.T) {
	secret := "top-secret"
	receipt := Receipt{
		RazorpayOrderID:   "order_abc123",
		RazorpayPaymentID: "pay_def456",
	}
	receipt.RazorpaySignature = signCheckout(receipt.RazorpayOrderID, receipt.RazorpayPaymentID, secret)

	if !VerifyCheckoutSignature(receipt, secret) {
		t.Fatalf("expected valid signature to verify")
	}

	tampered := receipt
	tampered.RazorpayPaymentID = "pay_other"
	if VerifyCheckoutSignature(tampered, secret) {
		t.Fatalf("expected tampered payment id to fail verification")
	}

	if VerifyCheckoutSignature(receipt, "wrong-secret") {
		t.Fatalf("expected wrong secret to fail verification")
	}

	bad := receipt
	bad.RazorpaySignature = "not-hex"
	if VerifyCheckoutSignature(bad, secret) {
		t.Fatalf("expected malformed signature to fail verification")
	}
}

func TestVerifyCheckoutSignature_IncompleteReceipt(t *testing.T) {
	secret := "top-secret"
	cases := []Receipt{
		{},
		{RazorpayOrderID: "order_abc"},
		{RazorpayOrderID: "order_abc", RazorpayPaymentID: "pay_def"},
		{RazorpayPaymentID: "pay_def", RazorpaySignature: "deadbeef"},
	}
	for _, r := range cases {
		if VerifyCheckoutSignature(r, secret) {
			t.Fatalf("expected incomplete receipt %+v to fail verification", r)
		}
	}
}

func TestVerifyWebhookSignature(t *testing.T) {
	payload := []byte(`{"event":"payment.captured"}`)
	secret := "webhook-secret"

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	valid := hex.EncodeToString(mac.Sum(nil))

	if !VerifyWebhookSignature(payload, valid, secret) {
		t.Fatalf("expected webhook signature to verify")
	}
	if VerifyWebhookSignature(payload, "deadbeef", secret) {
		t.Fatalf("expected invalid webhook signature to fail")
	}
	if VerifyWebhookSignature(payload, valid, "") {
		t.Fatalf("expected empty secret to fail")
	}
}

func TestReceiptComplete(t *testing.T) {
	full := Receipt{RazorpayPaymentID: "p", RazorpayOrderID: "o", RazorpaySignature: "s"}
	if !full.Complete() {
		t.Fatalf("expected complete receipt")
	}
	if (Receipt{RazorpayPaymentID: "p", RazorpayOrderID: "o"}).Complete() {
		t.Fatalf("expected missing signature to be incomplete")
	}
}
