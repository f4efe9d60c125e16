package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const SignatureHeader = "Stripe-Signature"

const (
	EventCheckoutCompleted      = "checkout.session.completed"
	EventCheckoutAsyncFailed    = "checkout.session.async_payment_failed"
	EventCheckoutAsyncSucceeded = "checkout.session.async_payment_succeeded"
	EventChargeRefunded         = "charge.refunded"
	EventDisputeCreated         = "charge.dispute.created"
)

var (
	ErrMissingSignature = errors.New("missing webhook signature")
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrStaleSignature   = errors.New("webhook timestamp outside tolerance")
	ErrInvalidPayload   = errors.New("invalid webhook payload")
)

// VerifySignature checks a Stripe-Signature header of the form
// "t=<unix>,v1=<hex>[,v1=<hex>...]" against payload. Any v1 value may match.
func VerifySignature(payload []byte, header, secret string, tolerance time.Duration, now time.Time) error {
	if header == "" || secret == "" {
		return ErrMissingSignature
	}

	var timestamp string
	var signatures []string
	for _, part := range strings.Split(header, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch key {
		case "t":
			timestamp = value
		case "v1":
			signatures = append(signatures, value)
		}
	}
	if timestamp == "" || len(signatures) == 0 {
		return ErrInvalidSignature
	}

	unix, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return ErrInvalidSignature
	}
	if tolerance > 0 && now.Sub(time.Unix(unix, 0)) > tolerance {
		return ErrStaleSignature
	}

	expected := []byte(ComputeSignature(payload, timestamp, secret))
	for _, sig := range signatures {
		if hmac.Equal(expected, []byte(sig)) {
			return nil
		}
	}
	return ErrInvalidSignature
}

// ComputeSignature returns hex(HMAC-SHA256(secret, "<timestamp>.<payload>")).
func ComputeSignature(payload []byte, timestamp, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// SignatureHeaderValue builds a header value for payload signed at t.
func SignatureHeaderValue(payload []byte, secret string, t time.Time) string {
	ts := strconv.FormatInt(t.Unix(), 10)
	return fmt.Sprintf("t=%s,v1=%s", ts, ComputeSignature(payload, ts, secret))
}

type Event struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Created int64  `json:"created"`
	Data    struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

type CheckoutSessionObject struct {
	ID              string            `json:"id"`
	PaymentIntent   string            `json:"payment_intent"`
	PaymentStatus   string            `json:"payment_status"`
	AmountTotal     int64             `json:"amount_total"`
	Currency        string            `json:"currency"`
	Metadata        map[string]string `json:"metadata"`
	CustomerEmail   string            `json:"customer_email"`
	CustomerDetails *struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	} `json:"customer_details"`
}

// Email returns the buyer's address, preferring the details collected at checkout.
func (s CheckoutSessionObject) Email() string {
	if s.CustomerDetails != nil && s.CustomerDetails.Email != "" {
		return s.CustomerDetails.Email
	}
	return s.CustomerEmail
}

type ChargeObject struct {
	ID             string `json:"id"`
	PaymentIntent  string `json:"payment_intent"`
	AmountRefunded int64  `json:"amount_refunded"`
	Refunded       bool   `json:"refunded"`
}

type DisputeObject struct {
	ID            string `json:"id"`
	Charge        string `json:"charge"`
	PaymentIntent string `json:"payment_intent"`
	Reason        string `json:"reason"`
}

func ParseEvent(payload []byte) (*Event, error) {
	var event Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if event.ID == "" || event.Type == "" {
		return nil, fmt.Errorf("%w: event id and type are required", ErrInvalidPayload)
	}
	return &event, nil
}

// DecodeObject unmarshals the event's data.object into v.
func (e *Event) DecodeObject(v any) error {
	if len(e.Data.Object) == 0 {
		return fmt.Errorf("%w: event %s has no data.object", ErrInvalidPayload, e.ID)
	}
	if err := json.Unmarshal(e.Data.Object, v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return nil
}
