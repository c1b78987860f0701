package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// User represents the canonical identity entity.
type User struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	Email        string          `gorm:"column:email;type:text;not null;uniqueIndex"`
	PasswordHash string          `gorm:"column:password_hash;not null"`
	FullName     string          `gorm:"column:full_name;not null"`
	Location     *string         `gorm:"column:location"`
	Bio          *string         `gorm:"column:bio"`
	Rating       decimal.Decimal `gorm:"column:rating;type:numeric(3,2);not null;default:0"`
	RatingCount  int             `gorm:"column:rating_count;not null;default:0"`
	IsActive     bool            `gorm:"column:is_active;not null;default:true"`
	LastLoginAt  *time.Time      `gorm:"column:last_login_at"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
