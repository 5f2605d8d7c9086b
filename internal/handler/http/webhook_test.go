package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/rushreport/rushreport/internal/handler/http/mocks"
	"github.com/rushreport/rushreport/internal/models"
	"github.com/rushreport/rushreport/internal/payment"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func completedCheckout(rush bool) *payment.CompletedCheckout {
	rushStr := "false"
	if rush {
		rushStr = "true"
	}
	return &payment.CompletedCheckout{
		SessionID:     "cs_test_123",
		CustomerEmail: "reader@example.com",
		Metadata: map[string]string{
			"bookTitle": "Dune",
			"author":    "Frank Herbert",
			"level":     "high",
			"length":    "500",
			"rush":      rushStr,
		},
	}
}

func TestWebhookHandler_HandleStripeEvent(t *testing.T) {
	tests := []struct {
		name           string
		signature      string
		setup          func(t *testing.T, ctrl *gomock.Controller) (*mocks.MockWebhookVerifier, *mocks.MockOrderService)
		wantStatusCode int
	}{
		{
			// 200 — standard order created and left for the batch loop
			name:      "standard_order_created",
			signature: "t=1,v1=sig",
			setup: func(t *testing.T, ctrl *gomock.Controller) (*mocks.MockWebhookVerifier, *mocks.MockOrderService) {
				verifier := mocks.NewMockWebhookVerifier(ctrl)
				verifier.EXPECT().VerifyWebhook(gomock.Any(), "t=1,v1=sig").Return(completedCheckout(false), nil)

				orders := mocks.NewMockOrderService(ctrl)
				orders.EXPECT().
					CreateOrder(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ any, order *models.Order) (*models.Order, error) {
						assert.Equal(t, "Dune", order.BookTitle)
						assert.Equal(t, "Frank Herbert", order.Author)
						assert.Equal(t, 500, order.Length)
						assert.False(t, order.IsRush)
						assert.Equal(t, "cs_test_123", order.StripeSessionID)
						assert.Equal(t, "reader@example.com", order.CustomerEmail)
						order.ID = "order-1"
						return order, nil
					})
				orders.EXPECT().FulfillOrder(gomock.Any(), gomock.Any()).Times(0)
				return verifier, orders
			},
			wantStatusCode: http.StatusOK,
		},
		{
			// 200 — rush order fulfilled immediately
			name:      "rush_order_fulfilled_inline",
			signature: "t=1,v1=sig",
			setup: func(t *testing.T, ctrl *gomock.Controller) (*mocks.MockWebhookVerifier, *mocks.MockOrderService) {
				verifier := mocks.NewMockWebhookVerifier(ctrl)
				verifier.EXPECT().VerifyWebhook(gomock.Any(), gomock.Any()).Return(completedCheckout(true), nil)

				orders := mocks.NewMockOrderService(ctrl)
				orders.EXPECT().
					CreateOrder(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ any, order *models.Order) (*models.Order, error) {
						order.ID = "order-2"
						return order, nil
					})
				orders.EXPECT().FulfillOrder(gomock.Any(), "order-2").Return(nil)
				return verifier, orders
			},
			wantStatusCode: http.StatusOK,
		},
		{
			// 200 — webhook redelivery for an already-recorded session
			name:      "duplicate_session_acknowledged",
			signature: "t=1,v1=sig",
			setup: func(t *testing.T, ctrl *gomock.Controller) (*mocks.MockWebhookVerifier, *mocks.MockOrderService) {
				verifier := mocks.NewMockWebhookVerifier(ctrl)
				verifier.EXPECT().VerifyWebhook(gomock.Any(), gomock.Any()).Return(completedCheckout(true), nil)

				orders := mocks.NewMockOrderService(ctrl)
				orders.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).Return(nil, models.ErrConflictData)
				orders.EXPECT().FulfillOrder(gomock.Any(), gomock.Any()).Times(0)
				return verifier, orders
			},
			wantStatusCode: http.StatusOK,
		},
		{
			// 200 — rush fulfillment failure is logged, event still acknowledged
			name:      "rush_fulfillment_failure_acknowledged",
			signature: "t=1,v1=sig",
			setup: func(t *testing.T, ctrl *gomock.Controller) (*mocks.MockWebhookVerifier, *mocks.MockOrderService) {
				verifier := mocks.NewMockWebhookVerifier(ctrl)
				verifier.EXPECT().VerifyWebhook(gomock.Any(), gomock.Any()).Return(completedCheckout(true), nil)

				orders := mocks.NewMockOrderService(ctrl)
				orders.EXPECT().
					CreateOrder(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ any, order *models.Order) (*models.Order, error) {
						order.ID = "order-3"
						return order, nil
					})
				orders.EXPECT().FulfillOrder(gomock.Any(), "order-3").Return(models.ErrGenerationFailed)
				return verifier, orders
			},
			wantStatusCode: http.StatusOK,
		},
		{
			// 200 — event types this service ignores are acknowledged
			name:      "ignored_event_type",
			signature: "t=1,v1=sig",
			setup: func(t *testing.T, ctrl *gomock.Controller) (*mocks.MockWebhookVerifier, *mocks.MockOrderService) {
				verifier := mocks.NewMockWebhookVerifier(ctrl)
				verifier.EXPECT().VerifyWebhook(gomock.Any(), gomock.Any()).Return(nil, nil)

				orders := mocks.NewMockOrderService(ctrl)
				orders.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).Times(0)
				return verifier, orders
			},
			wantStatusCode: http.StatusOK,
		},
		{
			// 400 — missing signature header
			name:      "missing_signature_return_400",
			signature: "",
			setup: func(t *testing.T, ctrl *gomock.Controller) (*mocks.MockWebhookVerifier, *mocks.MockOrderService) {
				verifier := mocks.NewMockWebhookVerifier(ctrl)
				verifier.EXPECT().VerifyWebhook(gomock.Any(), gomock.Any()).Times(0)
				return verifier, mocks.NewMockOrderService(ctrl)
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			// 400 — signature verification failed
			name:      "bad_signature_return_400",
			signature: "t=1,v1=bogus",
			setup: func(t *testing.T, ctrl *gomock.Controller) (*mocks.MockWebhookVerifier, *mocks.MockOrderService) {
				verifier := mocks.NewMockWebhookVerifier(ctrl)
				verifier.EXPECT().VerifyWebhook(gomock.Any(), gomock.Any()).Return(nil, models.ErrInternalError)
				return verifier, mocks.NewMockOrderService(ctrl)
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			// 200 — metadata with broken length is logged, never fulfilled
			name:      "invalid_length_metadata",
			signature: "t=1,v1=sig",
			setup: func(t *testing.T, ctrl *gomock.Controller) (*mocks.MockWebhookVerifier, *mocks.MockOrderService) {
				checkout := completedCheckout(true)
				checkout.Metadata["length"] = "lots"

				verifier := mocks.NewMockWebhookVerifier(ctrl)
				verifier.EXPECT().VerifyWebhook(gomock.Any(), gomock.Any()).Return(checkout, nil)

				orders := mocks.NewMockOrderService(ctrl)
				orders.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).Times(0)
				return verifier, orders
			},
			wantStatusCode: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			verifier, orders := tt.setup(t, ctrl)
			h := NewWebhookHandler(verifier, orders, zap.NewNop()).HandleStripeEvent()

			req := httptest.NewRequest(http.MethodPost, "/api/webhooks/stripe", strings.NewReader(`{"type":"checkout.session.completed"}`))
			if tt.signature != "" {
				req.Header.Set("Stripe-Signature", tt.signature)
			}
			w := httptest.NewRecorder()
			h(w, req)

			res := w.Result()
			defer res.Body.Close()
			assert.Equal(t, tt.wantStatusCode, res.StatusCode)
		})
	}
}
