package worker

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type OrderService interface {
	ProcessPendingOrders(ctx context.Context) (int, error)
}

// OrderProcessor is worker that periodically runs the fulfillment batch
type OrderProcessor struct {
	svc      OrderService
	logger   *zap.Logger
	interval time.Duration
}

// NewOrderProcessor creates new order processor
func NewOrderProcessor(svc OrderService, logger *zap.Logger, interval time.Duration) *OrderProcessor {
	return &OrderProcessor{
		svc:      svc,
		logger:   logger,
		interval: interval,
	}
}

// ProcessOrders runs one batch per tick until the context is canceled
func (op *OrderProcessor) ProcessOrders(ctx context.Context) {
	ticker := time.NewTicker(op.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			op.logger.Debug("order processor is done")
			return
		case <-ticker.C:
			processed, err := op.svc.ProcessPendingOrders(ctx)
			if err != nil {
				op.logger.Error("process pending orders", zap.Error(err))
				continue
			}
			if processed > 0 {
				op.logger.Info("processed pending orders", zap.Int("count", processed))
			}
		}
	}
}
