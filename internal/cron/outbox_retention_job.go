package cron

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/quickkart/quickkart-backend/pkg/logger"
)

const defaultOutboxRetentionDays = 30

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type publishedCleaner interface {
	DeletePublishedBefore(ctx context.Context, tx *gorm.DB, cutoff time.Time) (int64, error)
}

type dlqCleaner interface {
	DeleteBefore(ctx context.Context, tx *gorm.DB, cutoff time.Time) (int64, error)
}

// OutboxRetentionJobParams configure outbox cleanup.
type OutboxRetentionJobParams struct {
	Logger        *logger.Logger
	DB            txRunner
	Outbox        publishedCleaner
	DLQ           dlqCleaner
	RetentionDays int
}

// NewOutboxRetentionJob builds the job that prunes published outbox rows and
// stale dead-letter entries.
func NewOutboxRetentionJob(params OutboxRetentionJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox repository required")
	}
	if params.DLQ == nil {
		return nil, fmt.Errorf("dlq repository required")
	}
	retention := params.RetentionDays
	if retention <= 0 {
		retention = defaultOutboxRetentionDays
	}
	return &outboxRetentionJob{
		logg:      params.Logger,
		db:        params.DB,
		outbox:    params.Outbox,
		dlq:       params.DLQ,
		retention: retention,
		now:       time.Now,
	}, nil
}

type outboxRetentionJob struct {
	logg      *logger.Logger
	db        txRunner
	outbox    publishedCleaner
	dlq       dlqCleaner
	retention int
	now       func() time.Time
}

func (j *outboxRetentionJob) Name() string { return "outbox-retention" }

func (j *outboxRetentionJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-time.Duration(j.retention) * 24 * time.Hour)
	var errs []error
	if err := j.prunePublished(ctx, cutoff); err != nil {
		errs = append(errs, err)
	}
	if err := j.pruneDLQ(ctx, cutoff); err != nil {
		errs = append(errs, err)
	}
	return multierr.Combine(errs...)
}

func (j *outboxRetentionJob) prunePublished(ctx context.Context, cutoff time.Time) error {
	var deleted int64
	err := j.db.WithTx(ctx, func(tx *gorm.DB) error {
		rows, delErr := j.outbox.DeletePublishedBefore(ctx, tx, cutoff)
		if delErr != nil {
			return delErr
		}
		deleted = rows
		return nil
	})
	if err != nil {
		return fmt.Errorf("outbox retention: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":       cutoff,
		"rows_deleted": deleted,
	})
	j.logg.Info(logCtx, "published outbox cleanup complete")
	return nil
}

func (j *outboxRetentionJob) pruneDLQ(ctx context.Context, cutoff time.Time) error {
	var deleted int64
	err := j.db.WithTx(ctx, func(tx *gorm.DB) error {
		rows, delErr := j.dlq.DeleteBefore(ctx, tx, cutoff)
		if delErr != nil {
			return delErr
		}
		deleted = rows
		return nil
	})
	if err != nil {
		return fmt.Errorf("dlq retention: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":       cutoff,
		"rows_deleted": deleted,
	})
	j.logg.Info(logCtx, "dead letter cleanup complete")
	return nil
}
