// Package gateway talks to the Stripe REST API and decodes its webhook events.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/lshigami/Learnhub/config"
	"github.com/rs/zerolog/log"
)

var ErrProvider = errors.New("payment provider request failed")

type CheckoutSessionParams struct {
	UserID        string
	CourseID      string
	CourseTitle   string
	AmountCents   int64
	Currency      string
	CustomerEmail string
	SuccessURL    string
	CancelURL     string
}

type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// PaymentGateway creates hosted checkout sessions.
type PaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, params CheckoutSessionParams) (*CheckoutSession, error)
}

type stripeErrorBody struct {
	Error struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type stripeClient struct {
	client *resty.Client
}

func NewStripeClient(cfg *config.Config) PaymentGateway {
	client := resty.New().
		SetBaseURL(cfg.Stripe.APIBase).
		SetAuthToken(cfg.Stripe.SecretKey).
		SetTimeout(15 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= 500
		})
	return &stripeClient{client: client}
}

func (c *stripeClient) CreateCheckoutSession(ctx context.Context, params CheckoutSessionParams) (*CheckoutSession, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("success_url", params.SuccessURL)
	form.Set("cancel_url", params.CancelURL)
	form.Set("client_reference_id", params.UserID)
	form.Set("line_items[0][quantity]", "1")
	form.Set("line_items[0][price_data][currency]", params.Currency)
	form.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(params.AmountCents, 10))
	form.Set("line_items[0][price_data][product_data][name]", params.CourseTitle)
	form.Set("metadata[userId]", params.UserID)
	form.Set("metadata[courseId]", params.CourseID)
	form.Set("payment_intent_data[metadata][userId]", params.UserID)
	form.Set("payment_intent_data[metadata][courseId]", params.CourseID)
	if params.CustomerEmail != "" {
		form.Set("customer_email", params.CustomerEmail)
	}

	var session CheckoutSession
	var apiErr stripeErrorBody
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Idempotency-Key", uuid.NewString()).
		SetFormDataFromValues(form).
		SetResult(&session).
		SetError(&apiErr).
		Post("/v1/checkout/sessions")
	if err != nil {
		log.Error().Err(err).Str("courseID", params.CourseID).Msg("CreateCheckoutSession: request failed")
		return nil, fmt.Errorf("%w: %v", ErrProvider, err)
	}
	if resp.IsError() {
		log.Error().
			Int("status", resp.StatusCode()).
			Str("type", apiErr.Error.Type).
			Str("message", apiErr.Error.Message).
			Msg("CreateCheckoutSession: provider rejected request")
		return nil, fmt.Errorf("%w: status %d: %s", ErrProvider, resp.StatusCode(), apiErr.Error.Message)
	}
	if session.ID == "" || session.URL == "" {
		return nil, fmt.Errorf("%w: incomplete checkout session in response", ErrProvider)
	}
	return &session, nil
}
