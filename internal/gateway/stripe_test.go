package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/lshigami/Learnhub/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stripeConfig(base string) *config.Config {
	cfg := &config.Config{}
	cfg.Stripe.APIBase = base
	cfg.Stripe.SecretKey = "sk_test_123"
	return cfg
}

func TestCreateCheckoutSession_RetriesServerErrors(t *testing.T) {
	var calls int32
	keys := map[string]bool{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		keys[r.Header.Get("Idempotency-Key")] = true
		w.Header().Set("Content-Type", "application/json")
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"error":{"type":"api_error","message":"try again"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"id":"cs_1","url":"https://checkout.test/cs_1"}`))
	}))
	defer srv.Close()

	session, err := NewStripeClient(stripeConfig(srv.URL)).CreateCheckoutSession(context.Background(), CheckoutSessionParams{
		UserID: "u1", CourseID: "c1", CourseTitle: "Go", AmountCents: 100, Currency: "usd",
	})
	require.NoError(t, err)
	assert.Equal(t, "cs_1", session.ID)
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
	assert.Len(t, keys, 1)
}

func TestCreateCheckoutSession_ProviderRejects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"type":"invalid_request_error","message":"Invalid currency"}}`))
	}))
	defer srv.Close()

	_, err := NewStripeClient(stripeConfig(srv.URL)).CreateCheckoutSession(context.Background(), CheckoutSessionParams{
		UserID: "u1", CourseID: "c1", CourseTitle: "Go", AmountCents: 100, Currency: "xxx",
	})
	assert.ErrorIs(t, err, ErrProvider)
	assert.Contains(t, err.Error(), "Invalid currency")
}

func TestCreateCheckoutSession_IncompleteResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"cs_1"}`))
	}))
	defer srv.Close()

	_, err := NewStripeClient(stripeConfig(srv.URL)).CreateCheckoutSession(context.Background(), CheckoutSessionParams{UserID: "u1", CourseID: "c1"})
	assert.ErrorIs(t, err, ErrProvider)
}
