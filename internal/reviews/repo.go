package reviews

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/roperoapp/ropero-backend/internal/repo"
	"github.com/roperoapp/ropero-backend/pkg/db/models"
)

// Repository exposes review persistence operations.
type Repository struct {
	repo.Base
}

// NewRepository constructs a reviews repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{Base: r.Base.WithTx(tx)}
}

// Create inserts a new review row.
func (r *Repository) Create(ctx context.Context, review *models.Review) error {
	return r.DB(ctx).Create(review).Error
}

// ListBySeller returns the reviews left for a seller, newest first.
func (r *Repository) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]models.Review, error) {
	var rows []models.Review
	err := r.DB(ctx).
		Where("seller_id = ?", sellerID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

// SumBySeller returns the rating total and row count for a seller.
func (r *Repository) SumBySeller(ctx context.Context, sellerID uuid.UUID) (int64, int64, error) {
	type aggregate struct {
		Total int64
		Count int64
	}
	var agg aggregate
	err := r.DB(ctx).
		Model(&models.Review{}).
		Select("COALESCE(SUM(rating), 0) AS total, COUNT(*) AS count").
		Where("seller_id = ?", sellerID).
		Scan(&agg).Error
	if err != nil {
		return 0, 0, err
	}
	return agg.Total, agg.Count, nil
}
