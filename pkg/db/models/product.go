package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/roperoapp/ropero-backend/pkg/enums"
	"github.com/roperoapp/ropero-backend/pkg/types"
)

// Product represents a second-hand clothing listing.
type Product struct {
	ID          uuid.UUID              `gorm:"column:id;type:uuid;primaryKey"`
	SellerID    uuid.UUID              `gorm:"column:seller_id;type:uuid;not null;index"`
	Title       string                 `gorm:"column:title;not null"`
	Description *string                `gorm:"column:description"`
	PriceCents  int64                  `gorm:"column:price_cents;not null"`
	Category    enums.ProductCategory  `gorm:"column:category;not null"`
	Size        *string                `gorm:"column:size"`
	Brand       *string                `gorm:"column:brand"`
	Condition   enums.ProductCondition `gorm:"column:condition;not null"`
	Gender      *enums.ProductGender   `gorm:"column:gender"`
	Images      types.StringList       `gorm:"column:images;type:text"`
	Status      enums.ProductStatus    `gorm:"column:status;not null;default:'available';index"`
	IsFeatured  bool                   `gorm:"column:is_featured;not null;default:false"`
	CreatedAt   time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
