package cron

import (
	"context"
	"errors"
	"testing"
	"time"
)

type stubExpirer struct {
	count int64
	err   error

	gotNow time.Time
}

func (s *stubExpirer) ExpireOldSubscriptions(_ context.Context, now time.Time) (int64, error) {
	s.gotNow = now
	return s.count, s.err
}

func TestSubscriptionExpiryJobRun(t *testing.T) {
	expirer := &stubExpirer{count: 3}
	fixed := time.Date(2026, 6, 1, 12, 0, 0, 0, time.FixedZone("CST", -6*3600))
	job, err := NewSubscriptionExpiryJob(SubscriptionExpiryJobParams{
		Logger:        testLogger(),
		Subscriptions: expirer,
		Now:           func() time.Time { return fixed },
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if job.Name() != "subscription-expiry" {
		t.Fatalf("unexpected job name %q", job.Name())
	}
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if !expirer.gotNow.Equal(fixed.UTC()) {
		t.Fatalf("expected the sweep instant in UTC, got %s", expirer.gotNow)
	}
}

func TestSubscriptionExpiryJobError(t *testing.T) {
	cause := errors.New("store offline")
	job, err := NewSubscriptionExpiryJob(SubscriptionExpiryJobParams{
		Logger:        testLogger(),
		Subscriptions: &stubExpirer{err: cause},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := job.Run(context.Background()); !errors.Is(err, cause) {
		t.Fatalf("expected the cause to propagate, got %v", err)
	}
}

func TestNewSubscriptionExpiryJobValidation(t *testing.T) {
	if _, err := NewSubscriptionExpiryJob(SubscriptionExpiryJobParams{Subscriptions: &stubExpirer{}}); err == nil {
		t.Fatal("expected missing logger to be rejected")
	}
	if _, err := NewSubscriptionExpiryJob(SubscriptionExpiryJobParams{Logger: testLogger()}); err == nil {
		t.Fatal("expected missing service to be rejected")
	}
}
