package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/roperoapp/ropero-backend/pkg/logger"
	"github.com/roperoapp/ropero-backend/pkg/metrics"
)

const subscriptionExpiryJobName = "subscription-expiry"

type subscriptionExpirer interface {
	ExpireOldSubscriptions(ctx context.Context, now time.Time) (int64, error)
}

// SubscriptionExpiryJobParams configures the expiry sweep cron job.
type SubscriptionExpiryJobParams struct {
	Logger        *logger.Logger
	Subscriptions subscriptionExpirer
	Metrics       *metrics.CronJobMetrics
	Now           func() time.Time
}

// NewSubscriptionExpiryJob builds the scheduled expiry sweep. It runs the same
// idempotent bulk transition the lifecycle manager runs before every create.
func NewSubscriptionExpiryJob(params SubscriptionExpiryJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Subscriptions == nil {
		return nil, fmt.Errorf("subscription service required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &subscriptionExpiryJob{
		logg:          params.Logger,
		subscriptions: params.Subscriptions,
		metrics:       params.Metrics,
		now:           now,
	}, nil
}

type subscriptionExpiryJob struct {
	logg          *logger.Logger
	subscriptions subscriptionExpirer
	metrics       *metrics.CronJobMetrics
	now           func() time.Time
}

func (j *subscriptionExpiryJob) Name() string {
	return subscriptionExpiryJobName
}

func (j *subscriptionExpiryJob) Run(ctx context.Context) error {
	count, err := j.subscriptions.ExpireOldSubscriptions(ctx, j.now().UTC())
	if err != nil {
		return fmt.Errorf("expire subscriptions: %w", err)
	}
	if j.metrics != nil {
		j.metrics.AddExpiredSubscriptions(count)
	}
	j.logg.Info(j.logg.WithField(ctx, "expired", count), "expiry sweep finished")
	return nil
}
