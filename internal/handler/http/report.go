package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rushreport/rushreport/internal/models"
	"github.com/rushreport/rushreport/internal/service"
	"go.uber.org/zap"
)

// input size caps
const (
	maxTitleLen  = 200
	maxAuthorLen = 100
	maxEmailLen  = 100
	maxSampleLen = 2000
)

// ReportService generates book reports
type ReportService interface {
	Generate(ctx context.Context, params service.GenerateReportParams) (string, error)
}

// ReportNotifier sends the generated report to the customer
type ReportNotifier interface {
	SendReportDelivery(ctx context.Context, customerEmail, bookTitle, reportText string) error
}

// RateLimiter limits requests per caller address
type RateLimiter interface {
	Allow(key string) bool
}

// ReportHandler represents HTTP handler for the synchronous generation path
type ReportHandler struct {
	svc      ReportService
	notifier ReportNotifier
	limiter  RateLimiter
	logger   *zap.Logger
}

// NewReportHandler creates new ReportHandler instance
func NewReportHandler(svc ReportService, notifier ReportNotifier, limiter RateLimiter, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		svc:      svc,
		notifier: notifier,
		limiter:  limiter,
		logger:   logger,
	}
}

type generateReq struct {
	BookTitle   string `json:"bookTitle"`
	Author      string `json:"author"`
	Level       string `json:"level"`
	TargetGrade string `json:"targetGrade"`
	Length      int    `json:"length"`
	Rush        bool   `json:"rush"`
	Realism     bool   `json:"realism"`
	SampleText  string `json:"sampleText"`
	Email       string `json:"email"`
}

type generateResp struct {
	Success bool   `json:"success"`
	Report  string `json:"report"`
}

func truncate(s string, limit int) string {
	if len(s) > limit {
		s = s[:limit]
	}
	return strings.TrimSpace(s)
}

// GenerateReport generates a report synchronously and emails it to the customer
// 200 — report generated;
// 400 — missing required fields;
// 429 — rate limit exceeded;
// 500 — generation or internal error.
func (rh *ReportHandler) GenerateReport() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !rh.limiter.Allow(clientIP(r)) {
			writeError(w, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
			return
		}

		var req generateReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		defer r.Body.Close()

		if req.BookTitle == "" || req.Author == "" || req.Level == "" || req.Length <= 0 || req.Email == "" {
			writeError(w, http.StatusBadRequest, "Missing required fields")
			return
		}

		params := service.GenerateReportParams{
			BookTitle:   truncate(req.BookTitle, maxTitleLen),
			Author:      truncate(req.Author, maxAuthorLen),
			GradeLevel:  req.Level,
			TargetGrade: req.TargetGrade,
			Length:      req.Length,
			Realism:     req.Realism,
			SampleText:  truncate(req.SampleText, maxSampleLen),
		}

		report, err := rh.svc.Generate(r.Context(), params)
		if err != nil {
			if errors.Is(err, models.ErrValidation) {
				writeError(w, http.StatusBadRequest, "Missing required fields")
				return
			}
			rh.logger.Error("generate report", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "Failed to generate report")
			return
		}

		email := truncate(req.Email, maxEmailLen)
		if err := rh.notifier.SendReportDelivery(r.Context(), email, params.BookTitle, report); err != nil {
			// the customer still gets the report in the response body
			rh.logger.Error("send report email", zap.String("email", email), zap.Error(err))
		}

		writeJSON(w, http.StatusOK, generateResp{Success: true, Report: report})
	}
}

// Health reports service liveness
func (rh *ReportHandler) Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status":  "available",
			"message": "Book report generation API is running",
		})
	}
}
