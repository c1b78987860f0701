package subscriptions

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/roperoapp/ropero-backend/internal/repo"
	"github.com/roperoapp/ropero-backend/pkg/db/models"
	"github.com/roperoapp/ropero-backend/pkg/enums"
)

// Repository exposes subscription persistence operations.
type Repository struct {
	repo.Base
}

// NewRepository constructs a subscriptions repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{Base: r.Base.WithTx(tx)}
}

// Create inserts a new subscription row.
func (r *Repository) Create(ctx context.Context, sub *models.Subscription) error {
	return r.DB(ctx).Create(sub).Error
}

// FindByID loads a subscription by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Subscription, error) {
	var sub models.Subscription
	if err := r.DB(ctx).First(&sub, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

// FindActiveByUser returns the most recently created subscription that is
// activa and not yet past its end date, or nil when none qualifies.
func (r *Repository) FindActiveByUser(ctx context.Context, userID uuid.UUID, now time.Time) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.DB(ctx).
		Where("user_id = ? AND status = ? AND end_date >= ?", userID, enums.SubscriptionStatusActiva, now).
		Order("created_at DESC").
		First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

// FindActivePaidByUser returns the user's live paid subscription, if any.
func (r *Repository) FindActivePaidByUser(ctx context.Context, userID uuid.UUID, now time.Time) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.DB(ctx).
		Where("user_id = ? AND status = ? AND end_date >= ? AND plan <> ?",
			userID, enums.SubscriptionStatusActiva, now, enums.SubscriptionPlanBasico).
		Order("created_at DESC").
		First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

// ListByUser returns every subscription the user ever held, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Subscription, error) {
	var rows []models.Subscription
	err := r.DB(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

// Update persists the full subscription row.
func (r *Repository) Update(ctx context.Context, sub *models.Subscription) error {
	return r.DB(ctx).Save(sub).Error
}

// ExpireOlder bulk-transitions every activa row whose end date has passed to
// expirada. Idempotent: a second run matches no rows.
func (r *Repository) ExpireOlder(ctx context.Context, now time.Time) (int64, error) {
	result := r.DB(ctx).
		Model(&models.Subscription{}).
		Where("status = ? AND end_date < ?", enums.SubscriptionStatusActiva, now).
		Update("status", enums.SubscriptionStatusExpirada)
	return result.RowsAffected, result.Error
}
