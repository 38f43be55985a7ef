package cron

import (
	"context"
	"fmt"

	"github.com/quickkart/quickkart-backend/internal/orders"
	"github.com/quickkart/quickkart-backend/pkg/logger"
	"github.com/quickkart/quickkart-backend/pkg/metrics"
)

const defaultExpireBatchSize = 100

// OrderTTLJobParams configure the pending order expiry job.
type OrderTTLJobParams struct {
	Logger    *logger.Logger
	Orders    pendingExpirer
	Metrics   *metrics.CronJobMetrics
	BatchSize int
}

type pendingExpirer interface {
	ExpirePending(ctx context.Context, limit int) (*orders.ExpireResult, error)
}

// NewOrderTTLJob builds the job that cancels pending orders whose payment
// window has lapsed.
func NewOrderTTLJob(params OrderTTLJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("orders service required")
	}
	batchSize := params.BatchSize
	if batchSize <= 0 {
		batchSize = defaultExpireBatchSize
	}
	return &orderTTLJob{
		logg:      params.Logger,
		orders:    params.Orders,
		metrics:   params.Metrics,
		batchSize: batchSize,
	}, nil
}

type orderTTLJob struct {
	logg      *logger.Logger
	orders    pendingExpirer
	metrics   *metrics.CronJobMetrics
	batchSize int
}

func (j *orderTTLJob) Name() string { return "order-ttl" }

func (j *orderTTLJob) Run(ctx context.Context) error {
	result, err := j.orders.ExpirePending(ctx, j.batchSize)
	if err != nil {
		return fmt.Errorf("expire pending orders: %w", err)
	}
	if j.metrics != nil {
		j.metrics.AddProcessed(j.Name(), result.Cancelled)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":    result.Cutoff,
		"cancelled": result.Cancelled,
	})
	j.logg.Info(logCtx, "pending order expiry loop complete")
	return nil
}
