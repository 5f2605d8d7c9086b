package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type countingService struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (c *countingService) ProcessPendingOrders(context.Context) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return 1, c.err
}

func (c *countingService) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func TestOrderProcessor_ProcessOrders(t *testing.T) {
	svc := &countingService{}
	op := NewOrderProcessor(svc, zap.NewNop(), 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		op.ProcessOrders(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return svc.count() >= 2 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("processor did not stop on context cancel")
	}
}

func TestOrderProcessor_KeepsRunningAfterError(t *testing.T) {
	svc := &countingService{err: assert.AnError}
	op := NewOrderProcessor(svc, zap.NewNop(), 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go op.ProcessOrders(ctx)

	assert.Eventually(t, func() bool { return svc.count() >= 2 }, time.Second, 5*time.Millisecond)
}
