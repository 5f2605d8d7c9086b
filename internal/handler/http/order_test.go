package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"
	"github.com/rushreport/rushreport/internal/handler/http/mocks"
	"github.com/rushreport/rushreport/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testCronAPIKey = "cron-secret"

func TestOrderHandler_ProcessPending(t *testing.T) {
	tests := []struct {
		name           string
		apiKey         string
		setup          func(t *testing.T, ctrl *gomock.Controller) *mocks.MockOrderService
		wantStatusCode int
		wantProcessed  int
	}{
		{
			// 200 — batch processed, body carries the count
			name:   "valid_request_return_200",
			apiKey: testCronAPIKey,
			setup: func(t *testing.T, ctrl *gomock.Controller) *mocks.MockOrderService {
				svcMock := mocks.NewMockOrderService(ctrl)
				svcMock.EXPECT().ProcessPendingOrders(gomock.Any()).Return(7, nil)
				return svcMock
			},
			wantStatusCode: http.StatusOK,
			wantProcessed:  7,
		},
		{
			// 401 — missing shared secret
			name:   "missing_key_return_401",
			apiKey: "",
			setup: func(t *testing.T, ctrl *gomock.Controller) *mocks.MockOrderService {
				svcMock := mocks.NewMockOrderService(ctrl)
				svcMock.EXPECT().ProcessPendingOrders(gomock.Any()).Times(0)
				return svcMock
			},
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			// 401 — wrong shared secret
			name:   "wrong_key_return_401",
			apiKey: "not-the-secret",
			setup: func(t *testing.T, ctrl *gomock.Controller) *mocks.MockOrderService {
				svcMock := mocks.NewMockOrderService(ctrl)
				svcMock.EXPECT().ProcessPendingOrders(gomock.Any()).Times(0)
				return svcMock
			},
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			// 500 — batch selection failed
			name:   "internal_error_return_500",
			apiKey: testCronAPIKey,
			setup: func(t *testing.T, ctrl *gomock.Controller) *mocks.MockOrderService {
				svcMock := mocks.NewMockOrderService(ctrl)
				svcMock.EXPECT().ProcessPendingOrders(gomock.Any()).Return(0, models.ErrInternalError)
				return svcMock
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			handler := NewOrderHandler(tt.setup(t, ctrl), zap.NewNop(), testCronAPIKey)

			req := httptest.NewRequest(http.MethodPost, "/api/orders/process", nil)
			if tt.apiKey != "" {
				req.Header.Set("X-API-Key", tt.apiKey)
			}
			w := httptest.NewRecorder()
			handler.ProcessPending()(w, req)

			res := w.Result()
			defer res.Body.Close()
			assert.Equal(t, tt.wantStatusCode, res.StatusCode)

			if tt.wantStatusCode == http.StatusOK {
				var got processResp
				require.NoError(t, json.NewDecoder(res.Body).Decode(&got))
				assert.Equal(t, tt.wantProcessed, got.Processed)
			}
		})
	}
}

func TestOrderHandler_GetOrder(t *testing.T) {
	completedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	createdAt := completedAt.Add(-time.Hour)

	tests := []struct {
		name           string
		orderID        string
		setup          func(t *testing.T, ctrl *gomock.Controller) *mocks.MockOrderService
		wantStatusCode int
		wantBody       *orderResp
	}{
		{
			// 200 — order found
			name:    "valid_request_return_200",
			orderID: "abc",
			setup: func(t *testing.T, ctrl *gomock.Controller) *mocks.MockOrderService {
				svcMock := mocks.NewMockOrderService(ctrl)
				svcMock.EXPECT().GetOrder(gomock.Any(), "abc").Return(&models.Order{
					ID:          "abc",
					BookTitle:   "Dune",
					Author:      "Frank Herbert",
					Status:      models.OrderStatusCompleted,
					ReportText:  "the report",
					CreatedAt:   createdAt,
					CompletedAt: &completedAt,
				}, nil)
				return svcMock
			},
			wantStatusCode: http.StatusOK,
			wantBody: &orderResp{
				ID:          "abc",
				BookTitle:   "Dune",
				Author:      "Frank Herbert",
				Status:      models.OrderStatusCompleted,
				ReportText:  "the report",
				CreatedAt:   createdAt.Format(time.RFC3339),
				CompletedAt: completedAt.Format(time.RFC3339),
			},
		},
		{
			// 404 — no order with this id
			name:    "not_found_return_404",
			orderID: "missing",
			setup: func(t *testing.T, ctrl *gomock.Controller) *mocks.MockOrderService {
				svcMock := mocks.NewMockOrderService(ctrl)
				svcMock.EXPECT().GetOrder(gomock.Any(), "missing").Return(nil, models.ErrDataNotFound)
				return svcMock
			},
			wantStatusCode: http.StatusNotFound,
		},
		{
			// 500 — internal error
			name:    "internal_error_return_500",
			orderID: "abc",
			setup: func(t *testing.T, ctrl *gomock.Controller) *mocks.MockOrderService {
				svcMock := mocks.NewMockOrderService(ctrl)
				svcMock.EXPECT().GetOrder(gomock.Any(), "abc").Return(nil, models.ErrInternalError)
				return svcMock
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			handler := NewOrderHandler(tt.setup(t, ctrl), zap.NewNop(), testCronAPIKey)

			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.orderID)
			req := httptest.NewRequest(http.MethodGet, "/api/orders/"+tt.orderID, nil)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			w := httptest.NewRecorder()
			handler.GetOrder()(w, req)

			res := w.Result()
			defer res.Body.Close()
			assert.Equal(t, tt.wantStatusCode, res.StatusCode)

			if tt.wantBody != nil {
				resBody, err := io.ReadAll(res.Body)
				require.NoError(t, err)

				var got orderResp
				require.NoError(t, json.Unmarshal(resBody, &got))

				if diff := cmp.Diff(*tt.wantBody, got); diff != "" {
					t.Errorf("mismatch (-want +got):\n%s", diff)
				}
			}
		})
	}
}
