package subscriptions

import (
	"time"

	"github.com/google/uuid"

	"github.com/roperoapp/ropero-backend/pkg/db/models"
	"github.com/roperoapp/ropero-backend/pkg/enums"
)

// CreateSubscriptionInput carries the commercial terms of a new subscription.
type CreateSubscriptionInput struct {
	Plan                  enums.SubscriptionPlan
	BillingCycle          enums.BillingCycle
	PriceCents            int64
	StartDate             time.Time
	EndDate               time.Time
	ProductsLimit         int
	FeaturedProductsLimit int
	AnalyticsEnabled      bool
}

func (in CreateSubscriptionInput) toModel(userID uuid.UUID) *models.Subscription {
	return &models.Subscription{
		ID:                    uuid.New(),
		UserID:                userID,
		Plan:                  in.Plan,
		Status:                enums.SubscriptionStatusActiva,
		BillingCycle:          in.BillingCycle,
		PriceCents:            in.PriceCents,
		StartDate:             in.StartDate,
		EndDate:               in.EndDate,
		ProductsLimit:         in.ProductsLimit,
		FeaturedProductsLimit: in.FeaturedProductsLimit,
		AnalyticsEnabled:      in.AnalyticsEnabled,
	}
}

// UpdateSubscriptionInput patches a subscription. Only the status may change;
// plan, price, and dates are immutable after creation.
type UpdateSubscriptionInput struct {
	Status *enums.SubscriptionStatus
}
