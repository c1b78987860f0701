package models

import (
	"time"

	"github.com/google/uuid"
)

// Review captures buyer feedback about a seller.
type Review struct {
	ID         uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	ReviewerID uuid.UUID  `gorm:"column:reviewer_id;type:uuid;not null;index"`
	SellerID   uuid.UUID  `gorm:"column:seller_id;type:uuid;not null;index"`
	ProductID  *uuid.UUID `gorm:"column:product_id;type:uuid"`
	Rating     int        `gorm:"column:rating;not null"`
	Comment    *string    `gorm:"column:comment"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime"`
}
