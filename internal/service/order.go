package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rushreport/rushreport/internal/metrics"
	"github.com/rushreport/rushreport/internal/models"
	"go.uber.org/zap"
)

// OrderRepository is interface for interacting with order-related data
type OrderRepository interface {
	// CreateOrder inserts new order to database
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	// GetOrderByID returns order by id
	GetOrderByID(ctx context.Context, id string) (*models.Order, error)
	// GetPendingOrders returns up to limit pending orders, rush first then oldest first
	GetPendingOrders(ctx context.Context, limit int) ([]models.Order, error)
	// ClaimOrder transitions order from pending to processing
	ClaimOrder(ctx context.Context, id string) error
	// CompleteOrder stores report text and completion time
	CompleteOrder(ctx context.Context, id string, reportText string, completedAt time.Time) error
	// FailOrder records failure message
	FailOrder(ctx context.Context, id string, message string) error
}

// ReportGenerator produces book report text for an order
type ReportGenerator interface {
	Generate(ctx context.Context, params GenerateReportParams) (string, error)
}

// Notifier delivers customer mail
type Notifier interface {
	SendOrderConfirmation(ctx context.Context, customerEmail, bookTitle string, isRush bool) error
	SendReportDelivery(ctx context.Context, customerEmail, bookTitle, reportText string) error
}

// OrderService advances orders through the fulfillment pipeline
type OrderService struct {
	repo      OrderRepository
	reports   ReportGenerator
	notifier  Notifier
	logger    *zap.Logger
	batchSize int
}

// NewOrderService creates new OrderService instance
func NewOrderService(repo OrderRepository, reports ReportGenerator, notifier Notifier, logger *zap.Logger, batchSize int) *OrderService {
	return &OrderService{
		repo:      repo,
		reports:   reports,
		notifier:  notifier,
		logger:    logger,
		batchSize: batchSize,
	}
}

// CreateOrder stores a new pending order and sends the confirmation email.
// A confirmation send failure is logged and does not fail order creation.
func (os *OrderService) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	order.Status = models.OrderStatusPending

	order, err := os.repo.CreateOrder(ctx, order)
	if err != nil {
		return nil, err
	}

	if err := os.notifier.SendOrderConfirmation(ctx, order.CustomerEmail, order.BookTitle, order.IsRush); err != nil {
		os.logger.Error("send order confirmation", zap.String("order", order.ID), zap.Error(err))
	}

	return order, nil
}

// GetOrder returns order by id
func (os *OrderService) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	return os.repo.GetOrderByID(ctx, id)
}

// ProcessPendingOrders runs one fulfillment batch: selects pending orders
// rush-first then oldest-first, claims each and generates its report.
// One order's failure never aborts the batch. Returns the number of orders
// attempted, successes and failures alike.
func (os *OrderService) ProcessPendingOrders(ctx context.Context) (int, error) {
	orders, err := os.repo.GetPendingOrders(ctx, os.batchSize)
	if err != nil {
		return 0, err
	}

	processed := 0
	for i := range orders {
		order := &orders[i]

		if err := os.repo.ClaimOrder(ctx, order.ID); err != nil {
			if errors.Is(err, models.ErrOrderNotPending) {
				// another invocation got here first
				os.logger.Debug("order already claimed", zap.String("order", order.ID))
				continue
			}
			os.logger.Error("claim order", zap.String("order", order.ID), zap.Error(err))
			continue
		}

		if err := os.fulfill(ctx, order); err != nil {
			os.logger.Error("fulfill order", zap.String("order", order.ID), zap.Error(err))
		}
		processed++
	}

	return processed, nil
}

// FulfillOrder claims and fulfills a single order immediately.
// Used for rush orders at payment-confirmation time.
func (os *OrderService) FulfillOrder(ctx context.Context, id string) error {
	order, err := os.repo.GetOrderByID(ctx, id)
	if err != nil {
		return err
	}

	if err := os.repo.ClaimOrder(ctx, order.ID); err != nil {
		return err
	}

	return os.fulfill(ctx, order)
}

// fulfill generates the report for a claimed order and records the outcome.
// The order ends either completed with report text and completion time, or
// failed with the captured error message.
func (os *OrderService) fulfill(ctx context.Context, order *models.Order) error {
	start := time.Now()
	report, err := os.reports.Generate(ctx, GenerateReportParams{
		BookTitle:   order.BookTitle,
		Author:      order.Author,
		GradeLevel:  order.GradeLevel,
		TargetGrade: order.TargetGrade,
		Length:      order.Length,
		SampleText:  order.SampleText,
	})
	metrics.GenerationDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		os.markFailed(ctx, order.ID, err)
		return err
	}

	if err := os.repo.CompleteOrder(ctx, order.ID, report, time.Now()); err != nil {
		os.markFailed(ctx, order.ID, err)
		return err
	}
	metrics.OrdersProcessed.WithLabelValues(models.OrderStatusCompleted).Inc()

	// delivery failure never reverts a completed order
	if err := os.notifier.SendReportDelivery(ctx, order.CustomerEmail, order.BookTitle, report); err != nil {
		metrics.DeliveryFailures.Inc()
		os.logger.Error("send report delivery", zap.String("order", order.ID), zap.Error(err))
	}

	return nil
}

func (os *OrderService) markFailed(ctx context.Context, id string, cause error) {
	if err := os.repo.FailOrder(ctx, id, cause.Error()); err != nil {
		os.logger.Error("mark order failed", zap.String("order", id), zap.Error(err))
		return
	}
	metrics.OrdersProcessed.WithLabelValues(models.OrderStatusFailed).Inc()
}
