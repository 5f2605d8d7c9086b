package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rushreport/rushreport/internal/payment"
	"go.uber.org/zap"
)

// CheckoutService creates hosted payment sessions
type CheckoutService interface {
	CreateCheckoutSession(ctx context.Context, params payment.CheckoutParams) (*payment.CheckoutSession, error)
}

// CheckoutHandler represents HTTP handler for checkout-related requests
type CheckoutHandler struct {
	svc    CheckoutService
	logger *zap.Logger
}

// NewCheckoutHandler creates new CheckoutHandler instance
func NewCheckoutHandler(svc CheckoutService, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		svc:    svc,
		logger: logger,
	}
}

type checkoutReq struct {
	BookTitle   string `json:"bookTitle"`
	Author      string `json:"author"`
	Level       string `json:"level"`
	TargetGrade string `json:"targetGrade"`
	Length      int    `json:"length"`
	Rush        bool   `json:"rush"`
	SampleText  string `json:"sampleText"`
	Email       string `json:"email"`
}

type checkoutResp struct {
	Success   bool   `json:"success"`
	URL       string `json:"url"`
	SessionID string `json:"sessionId"`
}

// CreateCheckout creates a hosted payment session and returns its redirect URL
// 200 — session created;
// 400 — missing required fields;
// 500 — payment provider error.
func (ch *CheckoutHandler) CreateCheckout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req checkoutReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		defer r.Body.Close()

		if req.BookTitle == "" || req.Author == "" || req.Level == "" || req.Length <= 0 || req.Email == "" {
			writeError(w, http.StatusBadRequest, "Missing required fields")
			return
		}

		session, err := ch.svc.CreateCheckoutSession(r.Context(), payment.CheckoutParams{
			CustomerEmail: truncate(req.Email, maxEmailLen),
			BookTitle:     truncate(req.BookTitle, maxTitleLen),
			Author:        truncate(req.Author, maxAuthorLen),
			GradeLevel:    req.Level,
			TargetGrade:   req.TargetGrade,
			Length:        req.Length,
			Rush:          req.Rush,
			SampleText:    truncate(req.SampleText, maxSampleLen),
		})
		if err != nil {
			ch.logger.Error("create checkout session", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "Failed to create checkout session. Please try again.")
			return
		}

		writeJSON(w, http.StatusOK, checkoutResp{
			Success:   true,
			URL:       session.URL,
			SessionID: session.ID,
		})
	}
}
