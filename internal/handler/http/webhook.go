package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/rushreport/rushreport/internal/models"
	"github.com/rushreport/rushreport/internal/payment"
	"go.uber.org/zap"
)

// WebhookVerifier checks payment webhook signatures
type WebhookVerifier interface {
	VerifyWebhook(payload []byte, signature string) (*payment.CompletedCheckout, error)
}

// OrderService manages order lifecycle
type OrderService interface {
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	FulfillOrder(ctx context.Context, id string) error
	ProcessPendingOrders(ctx context.Context) (int, error)
}

// WebhookHandler represents HTTP handler for payment provider events
type WebhookHandler struct {
	verifier WebhookVerifier
	orders   OrderService
	logger   *zap.Logger
}

// NewWebhookHandler creates new WebhookHandler instance
func NewWebhookHandler(verifier WebhookVerifier, orders OrderService, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		verifier: verifier,
		orders:   orders,
		logger:   logger,
	}
}

// HandleStripeEvent verifies and reacts to a payment completion event.
// A completed checkout creates a pending order; rush orders are fulfilled
// immediately, standard orders wait for the batch loop.
// 200 — event received;
// 400 — missing or invalid signature.
func (wh *WebhookHandler) HandleStripeEvent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			writeError(w, http.StatusBadRequest, "cannot read request body")
			return
		}
		defer r.Body.Close()

		signature := r.Header.Get("Stripe-Signature")
		if signature == "" {
			writeError(w, http.StatusBadRequest, "Missing stripe-signature header")
			return
		}

		checkout, err := wh.verifier.VerifyWebhook(body, signature)
		if err != nil {
			wh.logger.Error("verify webhook", zap.Error(err))
			writeError(w, http.StatusBadRequest, "Webhook handler failed")
			return
		}

		// event type this service does not react to
		if checkout == nil {
			writeJSON(w, http.StatusOK, map[string]bool{"received": true})
			return
		}

		wh.handleCompletedCheckout(r.Context(), checkout)

		writeJSON(w, http.StatusOK, map[string]bool{"received": true})
	}
}

// handleCompletedCheckout turns checkout metadata into a pending order.
// Failures are logged only: the provider has been paid, so the event is
// always acknowledged and operational follow-up is implied.
func (wh *WebhookHandler) handleCompletedCheckout(ctx context.Context, checkout *payment.CompletedCheckout) {
	length, err := strconv.Atoi(checkout.Metadata["length"])
	if err != nil || length <= 0 {
		wh.logger.Error("completed checkout carries invalid length",
			zap.String("session", checkout.SessionID),
			zap.String("length", checkout.Metadata["length"]))
		return
	}
	rush := checkout.Metadata["rush"] == "true"

	order, err := wh.orders.CreateOrder(ctx, &models.Order{
		BookTitle:       checkout.Metadata["bookTitle"],
		Author:          checkout.Metadata["author"],
		GradeLevel:      checkout.Metadata["level"],
		TargetGrade:     checkout.Metadata["targetGrade"],
		Length:          length,
		IsRush:          rush,
		SampleText:      checkout.Metadata["sampleText"],
		CustomerEmail:   checkout.CustomerEmail,
		StripeSessionID: checkout.SessionID,
	})
	if err != nil {
		if errors.Is(err, models.ErrConflictData) {
			// webhook redelivery for a session already recorded
			wh.logger.Info("completed checkout already recorded", zap.String("session", checkout.SessionID))
			return
		}
		wh.logger.Error("create order from checkout", zap.String("session", checkout.SessionID), zap.Error(err))
		return
	}

	if !rush {
		wh.logger.Info("standard order queued for processing", zap.String("order", order.ID))
		return
	}

	if err := wh.orders.FulfillOrder(ctx, order.ID); err != nil {
		wh.logger.Error("fulfill rush order", zap.String("order", order.ID), zap.Error(err))
	}
}
