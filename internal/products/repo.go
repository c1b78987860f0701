package products

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/roperoapp/ropero-backend/internal/repo"
	"github.com/roperoapp/ropero-backend/pkg/db/models"
	"github.com/roperoapp/ropero-backend/pkg/enums"
)

// Repository exposes listing persistence operations.
type Repository struct {
	repo.Base
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{Base: r.Base.WithTx(tx)}
}

// CountBySeller counts the seller's listings in the given statuses, optionally
// restricted to featured rows. This is the quota-count query the entitlement
// engine consumes.
func (r *Repository) CountBySeller(ctx context.Context, sellerID uuid.UUID, statuses []enums.ProductStatus, featuredOnly bool) (int64, error) {
	qb := r.DB(ctx).
		Model(&models.Product{}).
		Where("seller_id = ?", sellerID)
	if len(statuses) > 0 {
		qb = qb.Where("status IN ?", statuses)
	}
	if featuredOnly {
		qb = qb.Where("is_featured = ?", true)
	}
	var count int64
	if err := qb.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create inserts a new listing row.
func (r *Repository) Create(ctx context.Context, product *models.Product) error {
	return r.DB(ctx).Create(product).Error
}

// FindByID loads a listing by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.DB(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// Update persists the full listing row.
func (r *Repository) Update(ctx context.Context, product *models.Product) error {
	return r.DB(ctx).Save(product).Error
}

// List returns a filtered page of listings plus the total row count.
func (r *Repository) List(ctx context.Context, query ListQuery) ([]models.Product, int64, error) {
	qb := r.DB(ctx).Model(&models.Product{})
	qb = applyFilters(qb, query.Filters)

	var total int64
	if err := qb.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params := query.Pagination.Normalize()
	var rows []models.Product
	err := qb.
		Order("created_at DESC").
		Offset(query.Pagination.Offset()).
		Limit(params.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// ListFeatured returns available featured listings, newest first.
func (r *Repository) ListFeatured(ctx context.Context, limit int) ([]models.Product, error) {
	if limit <= 0 {
		limit = 20
	}
	var rows []models.Product
	err := r.DB(ctx).
		Where("is_featured = ? AND status = ?", true, enums.ProductStatusAvailable).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

// ListBySeller returns every listing a seller owns, newest first.
func (r *Repository) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]models.Product, error) {
	var rows []models.Product
	err := r.DB(ctx).
		Where("seller_id = ?", sellerID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

func applyFilters(qb *gorm.DB, filters ListFilters) *gorm.DB {
	// Public browsing only surfaces purchasable stock.
	qb = qb.Where("status = ?", enums.ProductStatusAvailable)
	if filters.Category != nil {
		qb = qb.Where("category = ?", *filters.Category)
	}
	if filters.Condition != nil {
		qb = qb.Where("condition = ?", *filters.Condition)
	}
	if filters.Gender != nil {
		qb = qb.Where("gender = ?", *filters.Gender)
	}
	if filters.SellerID != nil {
		qb = qb.Where("seller_id = ?", *filters.SellerID)
	}
	if filters.PriceMinCents != nil {
		qb = qb.Where("price_cents >= ?", *filters.PriceMinCents)
	}
	if filters.PriceMaxCents != nil {
		qb = qb.Where("price_cents <= ?", *filters.PriceMaxCents)
	}
	if search := strings.TrimSpace(filters.Query); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		qb = qb.Where("(LOWER(title) LIKE ? OR LOWER(brand) LIKE ?)", pattern, pattern)
	}
	return qb
}
