package entitlements

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/roperoapp/ropero-backend/pkg/db/models"
	"github.com/roperoapp/ropero-backend/pkg/enums"
	pkgerrors "github.com/roperoapp/ropero-backend/pkg/errors"
)

// Default basico limits. Users without a qualifying subscription row are on
// this implicit plan; it is never persisted.
const (
	DefaultBasicoProductsLimit         = 10
	DefaultBasicoFeaturedProductsLimit = 1
)

type subscriptionFinder interface {
	FindActiveByUser(ctx context.Context, userID uuid.UUID, now time.Time) (*models.Subscription, error)
}

type productCounter interface {
	CountBySeller(ctx context.Context, sellerID uuid.UUID, statuses []enums.ProductStatus, featuredOnly bool) (int64, error)
}

// EffectivePlan is the plan actually in force for a user at a given instant.
// Subscription is nil when the user is on the implicit default basico plan.
type EffectivePlan struct {
	Plan                  enums.SubscriptionPlan
	Status                enums.SubscriptionStatus
	ProductsLimit         int
	FeaturedProductsLimit int
	AnalyticsEnabled      bool
	Subscription          *models.Subscription
}

// UserLimits reports quota usage against the effective plan. Remaining values
// are not clamped and go negative after a downgrade leaves a seller over quota.
type UserLimits struct {
	Plan                      enums.SubscriptionPlan   `json:"plan"`
	Status                    enums.SubscriptionStatus `json:"status"`
	ProductsLimit             int                      `json:"products_limit"`
	ProductsUsed              int64                    `json:"products_used"`
	ProductsRemaining         int64                    `json:"products_remaining"`
	FeaturedProductsLimit     int                      `json:"featured_products_limit"`
	FeaturedProductsUsed      int64                    `json:"featured_products_used"`
	FeaturedProductsRemaining int64                    `json:"featured_products_remaining"`
	AnalyticsEnabled          bool                     `json:"analytics_enabled"`
}

// Service answers entitlement questions for a user at an explicit instant.
type Service interface {
	ResolveActivePlan(ctx context.Context, userID uuid.UUID, now time.Time) (EffectivePlan, error)
	CanPublishProduct(ctx context.Context, userID uuid.UUID, now time.Time) (bool, error)
	CanFeatureProduct(ctx context.Context, userID uuid.UUID, now time.Time) (bool, error)
	HasAnalyticsAccess(ctx context.Context, userID uuid.UUID, now time.Time) (bool, error)
	GetUserLimits(ctx context.Context, userID uuid.UUID, now time.Time) (UserLimits, error)
}

// ServiceParams groups dependencies for the entitlement service.
type ServiceParams struct {
	Subscriptions subscriptionFinder
	Products      productCounter
}

type service struct {
	subscriptions subscriptionFinder
	products      productCounter
}

// NewService builds an entitlement service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Subscriptions == nil {
		return nil, fmt.Errorf("subscription finder required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("product counter required")
	}
	return &service{
		subscriptions: params.Subscriptions,
		products:      params.Products,
	}, nil
}

// ResolveActivePlan returns the plan in force for the user. The default basico
// fallback lives here and nowhere else.
func (s *service) ResolveActivePlan(ctx context.Context, userID uuid.UUID, now time.Time) (EffectivePlan, error) {
	if userID == uuid.Nil {
		return EffectivePlan{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	sub, err := s.subscriptions.FindActiveByUser(ctx, userID, now)
	if err != nil {
		return EffectivePlan{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup active subscription")
	}
	if sub == nil {
		return EffectivePlan{
			Plan:                  enums.SubscriptionPlanBasico,
			Status:                enums.SubscriptionStatusActiva,
			ProductsLimit:         DefaultBasicoProductsLimit,
			FeaturedProductsLimit: DefaultBasicoFeaturedProductsLimit,
			AnalyticsEnabled:      false,
		}, nil
	}

	return EffectivePlan{
		Plan:                  sub.Plan,
		Status:                sub.Status,
		ProductsLimit:         sub.ProductsLimit,
		FeaturedProductsLimit: sub.FeaturedProductsLimit,
		AnalyticsEnabled:      sub.AnalyticsEnabled,
		Subscription:          sub,
	}, nil
}

// CanPublishProduct reports whether the user is below their listing quota.
func (s *service) CanPublishProduct(ctx context.Context, userID uuid.UUID, now time.Time) (bool, error) {
	plan, err := s.ResolveActivePlan(ctx, userID, now)
	if err != nil {
		return false, err
	}
	used, err := s.countListings(ctx, userID, false)
	if err != nil {
		return false, err
	}
	return used < int64(plan.ProductsLimit), nil
}

// CanFeatureProduct reports whether the user may feature another listing.
func (s *service) CanFeatureProduct(ctx context.Context, userID uuid.UUID, now time.Time) (bool, error) {
	plan, err := s.ResolveActivePlan(ctx, userID, now)
	if err != nil {
		return false, err
	}
	used, err := s.countListings(ctx, userID, true)
	if err != nil {
		return false, err
	}
	return used < int64(plan.FeaturedProductsLimit), nil
}

// HasAnalyticsAccess reports the effective plan's analytics flag.
func (s *service) HasAnalyticsAccess(ctx context.Context, userID uuid.UUID, now time.Time) (bool, error) {
	plan, err := s.ResolveActivePlan(ctx, userID, now)
	if err != nil {
		return false, err
	}
	return plan.AnalyticsEnabled, nil
}

// GetUserLimits reports plan limits, usage, and unclamped remaining capacity.
func (s *service) GetUserLimits(ctx context.Context, userID uuid.UUID, now time.Time) (UserLimits, error) {
	plan, err := s.ResolveActivePlan(ctx, userID, now)
	if err != nil {
		return UserLimits{}, err
	}
	used, err := s.countListings(ctx, userID, false)
	if err != nil {
		return UserLimits{}, err
	}
	featuredUsed, err := s.countListings(ctx, userID, true)
	if err != nil {
		return UserLimits{}, err
	}

	return UserLimits{
		Plan:                      plan.Plan,
		Status:                    plan.Status,
		ProductsLimit:             plan.ProductsLimit,
		ProductsUsed:              used,
		ProductsRemaining:         int64(plan.ProductsLimit) - used,
		FeaturedProductsLimit:     plan.FeaturedProductsLimit,
		FeaturedProductsUsed:      featuredUsed,
		FeaturedProductsRemaining: int64(plan.FeaturedProductsLimit) - featuredUsed,
		AnalyticsEnabled:          plan.AnalyticsEnabled,
	}, nil
}

func (s *service) countListings(ctx context.Context, userID uuid.UUID, featuredOnly bool) (int64, error) {
	count, err := s.products.CountBySeller(ctx, userID, enums.ActiveListingStatuses, featuredOnly)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count seller listings")
	}
	return count, nil
}
