package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rushreport/rushreport/internal/models"
	"go.uber.org/zap"
)

// OrderHandler represents HTTP handler for order-related requests
type OrderHandler struct {
	svc    OrderService
	logger *zap.Logger
	// shared secret guarding the batch fulfillment trigger
	cronAPIKey string
}

// NewOrderHandler creates new OrderHandler instance
func NewOrderHandler(svc OrderService, logger *zap.Logger, cronAPIKey string) *OrderHandler {
	return &OrderHandler{
		svc:        svc,
		logger:     logger,
		cronAPIKey: cronAPIKey,
	}
}

type orderResp struct {
	ID           string `json:"id"`
	BookTitle    string `json:"bookTitle"`
	Author       string `json:"author"`
	Status       string `json:"status"`
	ReportText   string `json:"reportText,omitempty"`
	ErrorMessage string `json:"errorMessage,omitempty"`
	CreatedAt    string `json:"createdAt"`
	CompletedAt  string `json:"completedAt,omitempty"`
}

// GetOrder returns a single order for the post-payment report view
// 200 — order found;
// 404 — no order with this id;
// 500 — internal error.
func (oh *OrderHandler) GetOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			writeError(w, http.StatusBadRequest, "missing order id")
			return
		}

		order, err := oh.svc.GetOrder(r.Context(), id)
		if err != nil {
			if errors.Is(err, models.ErrDataNotFound) {
				writeError(w, http.StatusNotFound, "order not found")
				return
			}
			oh.logger.Error("get order", zap.String("order", id), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		resp := orderResp{
			ID:           order.ID,
			BookTitle:    order.BookTitle,
			Author:       order.Author,
			Status:       order.Status,
			ReportText:   order.ReportText,
			ErrorMessage: order.ErrorMessage,
			CreatedAt:    order.CreatedAt.Format(time.RFC3339),
		}
		if order.CompletedAt != nil {
			resp.CompletedAt = order.CompletedAt.Format(time.RFC3339)
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

type processResp struct {
	Success   bool `json:"success"`
	Processed int  `json:"processed"`
}

// ProcessPending runs one fulfillment batch, for invocation by an external cron
// 200 — batch processed, body carries the processed count;
// 401 — missing or wrong shared secret;
// 500 — batch selection failed.
func (oh *OrderHandler) ProcessPending() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if key := r.Header.Get("X-API-Key"); key == "" || key != oh.cronAPIKey {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		processed, err := oh.svc.ProcessPendingOrders(r.Context())
		if err != nil {
			oh.logger.Error("process pending orders", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "Server Error")
			return
		}

		writeJSON(w, http.StatusOK, processResp{Success: true, Processed: processed})
	}
}
