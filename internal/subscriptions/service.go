package subscriptions

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/roperoapp/ropero-backend/pkg/db"
	"github.com/roperoapp/ropero-backend/pkg/db/models"
	"github.com/roperoapp/ropero-backend/pkg/enums"
	pkgerrors "github.com/roperoapp/ropero-backend/pkg/errors"
)

// activePaidIndex is the partial unique index guarding concurrent creates.
const activePaidIndex = "idx_subscriptions_one_active_paid"

type repository interface {
	Create(ctx context.Context, sub *models.Subscription) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Subscription, error)
	FindActivePaidByUser(ctx context.Context, userID uuid.UUID, now time.Time) (*models.Subscription, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Subscription, error)
	Update(ctx context.Context, sub *models.Subscription) error
	ExpireOlder(ctx context.Context, now time.Time) (int64, error)
}

// Service defines the subscription lifecycle surface.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, input CreateSubscriptionInput, now time.Time) (*models.Subscription, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Subscription, error)
	GetByID(ctx context.Context, id, userID uuid.UUID) (*models.Subscription, error)
	Update(ctx context.Context, id, userID uuid.UUID, patch UpdateSubscriptionInput) (*models.Subscription, error)
	Cancel(ctx context.Context, id, userID uuid.UUID, now time.Time) (*models.Subscription, error)
	ExpireOldSubscriptions(ctx context.Context, now time.Time) (int64, error)
}

// ServiceParams groups dependencies for the subscription service.
type ServiceParams struct {
	Repo repository
}

type service struct {
	repo repository
}

// NewService builds a subscription service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("subscription repo required")
	}
	return &service{repo: params.Repo}, nil
}

// Create expires stale rows, rejects a second live paid subscription, and
// inserts the new row. A lost check-then-insert race surfaces as a unique
// violation on the partial index and is reported as the same Conflict.
func (s *service) Create(ctx context.Context, userID uuid.UUID, input CreateSubscriptionInput, now time.Time) (*models.Subscription, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}

	if _, err := s.repo.ExpireOlder(ctx, now); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "expire stale subscriptions")
	}

	existing, err := s.repo.FindActivePaidByUser(ctx, userID, now)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup active subscription")
	}
	if existing != nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict,
			"user already has an active paid subscription; cancel it first")
	}

	sub := input.toModel(userID)
	if err := s.repo.Create(ctx, sub); err != nil {
		if db.IsUniqueViolation(err, activePaidIndex) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict,
				"user already has an active paid subscription; cancel it first")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert subscription")
	}
	return sub, nil
}

// ListByUser returns the user's full subscription history.
func (s *service) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Subscription, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list subscriptions")
	}
	return rows, nil
}

// GetByID loads a subscription and enforces ownership.
func (s *service) GetByID(ctx context.Context, id, userID uuid.UUID) (*models.Subscription, error) {
	return s.loadOwned(ctx, id, userID)
}

// Update applies a status patch. Terminal states never transition.
func (s *service) Update(ctx context.Context, id, userID uuid.UUID, patch UpdateSubscriptionInput) (*models.Subscription, error) {
	sub, err := s.loadOwned(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if patch.Status == nil {
		return sub, nil
	}

	next := *patch.Status
	if !next.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("invalid subscription status %q", next))
	}
	if next == sub.Status {
		return sub, nil
	}
	if sub.Status.IsTerminal() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("subscription is already %s", sub.Status))
	}

	sub.Status = next
	if err := s.repo.Update(ctx, sub); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update subscription")
	}
	return sub, nil
}

// Cancel marks an activa subscription as cancelada.
func (s *service) Cancel(ctx context.Context, id, userID uuid.UUID, now time.Time) (*models.Subscription, error) {
	sub, err := s.loadOwned(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if sub.Status.IsTerminal() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("subscription is already %s", sub.Status))
	}

	sub.Status = enums.SubscriptionStatusCancelada
	canceledAt := now
	sub.CanceledAt = &canceledAt
	if err := s.repo.Update(ctx, sub); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel subscription")
	}
	return sub, nil
}

// ExpireOldSubscriptions runs the bulk expiry sweep and reports rows changed.
func (s *service) ExpireOldSubscriptions(ctx context.Context, now time.Time) (int64, error) {
	count, err := s.repo.ExpireOlder(ctx, now)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "expire stale subscriptions")
	}
	return count, nil
}

func (s *service) loadOwned(ctx context.Context, id, userID uuid.UUID) (*models.Subscription, error) {
	if id == uuid.Nil || userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "subscription id and user id are required")
	}
	sub, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "subscription not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup subscription")
	}
	if sub.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "subscription belongs to another user")
	}
	return sub, nil
}

func validateCreateInput(input CreateSubscriptionInput) error {
	if !input.Plan.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid subscription plan %q", input.Plan))
	}
	if !input.BillingCycle.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid billing cycle %q", input.BillingCycle))
	}
	if input.PriceCents < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must be zero or positive")
	}
	if input.StartDate.IsZero() || input.EndDate.IsZero() {
		return pkgerrors.New(pkgerrors.CodeValidation, "start and end dates are required")
	}
	if input.EndDate.Before(input.StartDate) {
		return pkgerrors.New(pkgerrors.CodeValidation, "end date must not precede start date")
	}
	if input.ProductsLimit < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "products limit must be at least 1")
	}
	if input.FeaturedProductsLimit < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "featured products limit must be zero or positive")
	}
	return nil
}
