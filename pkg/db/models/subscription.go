package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/roperoapp/ropero-backend/pkg/enums"
)

// Subscription persists one billing period of a user's plan.
type Subscription struct {
	ID           uuid.UUID                `gorm:"column:id;type:uuid;primaryKey"`
	UserID       uuid.UUID                `gorm:"column:user_id;type:uuid;not null;index"`
	Plan         enums.SubscriptionPlan   `gorm:"column:plan;not null"`
	Status       enums.SubscriptionStatus `gorm:"column:status;not null;default:'activa'"`
	BillingCycle enums.BillingCycle       `gorm:"column:billing_cycle;not null;default:'mensual'"`
	PriceCents   int64                    `gorm:"column:price_cents;not null;default:0"`
	StartDate    time.Time                `gorm:"column:start_date;not null"`
	EndDate      time.Time                `gorm:"column:end_date;not null"`

	ProductsLimit         int        `gorm:"column:products_limit;not null"`
	FeaturedProductsLimit int        `gorm:"column:featured_products_limit;not null"`
	AnalyticsEnabled      bool       `gorm:"column:analytics_enabled;not null;default:false"`
	CanceledAt            *time.Time `gorm:"column:canceled_at"`
	CreatedAt             time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt             time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
