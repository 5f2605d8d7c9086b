package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/stripe/stripe-go/v79/webhook"
)

// stripe metadata values are capped at 500 characters
const metadataSampleLimit = 450

// Gateway wraps the Stripe checkout and webhook API
type Gateway struct {
	api           *client.API
	webhookSecret string
	baseURL       string
}

// NewGateway creates new Gateway instance.
// baseURL is the public site address used for success/cancel redirects.
func NewGateway(apiKey, webhookSecret, baseURL string) *Gateway {
	api := &client.API{}
	api.Init(apiKey, nil)

	return &Gateway{
		api:           api,
		webhookSecret: webhookSecret,
		baseURL:       baseURL,
	}
}

// CheckoutParams holds order fields carried through the hosted payment flow
type CheckoutParams struct {
	CustomerEmail string
	BookTitle     string
	Author        string
	GradeLevel    string
	TargetGrade   string
	Length        int
	Rush          bool
	SampleText    string
}

// CheckoutSession is created hosted payment session
type CheckoutSession struct {
	ID  string
	URL string
}

// CreateCheckoutSession creates a hosted Stripe checkout session with a
// one-off price selected by report length and rush flag. Order fields travel
// in session metadata and come back on the completion webhook.
func (g *Gateway) CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error) {
	kind := "Standard"
	if params.Rush {
		kind = "Rush"
	}

	sample := params.SampleText
	if len(sample) > metadataSampleLimit {
		sample = sample[:metadataSampleLimit]
	}

	sessionParams := &stripe.CheckoutSessionParams{
		Params: stripe.Params{
			Context: ctx,
			Metadata: map[string]string{
				"bookTitle":   params.BookTitle,
				"author":      params.Author,
				"level":       params.GradeLevel,
				"targetGrade": params.TargetGrade,
				"length":      strconv.Itoa(params.Length),
				"rush":        strconv.FormatBool(params.Rush),
				"sampleText":  sample,
			},
		},
		Mode:          stripe.String(string(stripe.CheckoutSessionModePayment)),
		CustomerEmail: stripe.String(params.CustomerEmail),
		SuccessURL:    stripe.String(g.baseURL + "/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:     stripe.String(g.baseURL + "/"),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(string(stripe.CurrencyUSD)),
					UnitAmount: stripe.Int64(PriceInCents(params.Length, params.Rush)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(fmt.Sprintf("Book Report: %s", params.BookTitle)),
						Description: stripe.String(fmt.Sprintf("%s book report for %q by %s", kind, params.BookTitle, params.Author)),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
	}

	session, err := g.api.CheckoutSessions.New(sessionParams)
	if err != nil {
		return nil, err
	}

	return &CheckoutSession{
		ID:  session.ID,
		URL: session.URL,
	}, nil
}

// CompletedCheckout is the payload of a finished checkout session
type CompletedCheckout struct {
	SessionID     string
	CustomerEmail string
	Metadata      map[string]string
}

// VerifyWebhook checks the event signature against the shared secret and
// returns the completed checkout, or nil for event types this service ignores.
func (g *Gateway) VerifyWebhook(payload []byte, signature string) (*CompletedCheckout, error) {
	// events keep the API version of the account, not of this SDK
	event, err := webhook.ConstructEventWithOptions(payload, signature, g.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, err
	}

	if event.Type != "checkout.session.completed" {
		return nil, nil
	}

	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return nil, err
	}

	return &CompletedCheckout{
		SessionID:     session.ID,
		CustomerEmail: session.CustomerEmail,
		Metadata:      session.Metadata,
	}, nil
}
