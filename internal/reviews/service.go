package reviews

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/roperoapp/ropero-backend/pkg/db/models"
	pkgerrors "github.com/roperoapp/ropero-backend/pkg/errors"
)

type repository interface {
	Create(ctx context.Context, review *models.Review) error
	ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]models.Review, error)
	SumBySeller(ctx context.Context, sellerID uuid.UUID) (int64, int64, error)
}

type userUpdater interface {
	UpdateRating(ctx context.Context, id uuid.UUID, rating decimal.Decimal, count int) error
}

// CreateReviewInput carries the fields of a new review.
type CreateReviewInput struct {
	SellerID  uuid.UUID
	ProductID *uuid.UUID
	Rating    int
	Comment   *string
}

// Service defines the review surface.
type Service interface {
	Create(ctx context.Context, reviewerID uuid.UUID, input CreateReviewInput) (*models.Review, error)
	ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]models.Review, error)
}

// ServiceParams groups dependencies for the review service.
type ServiceParams struct {
	Repo  repository
	Users userUpdater
}

type service struct {
	repo  repository
	users userUpdater
}

// NewService builds a review service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("review repo required")
	}
	if params.Users == nil {
		return nil, fmt.Errorf("user updater required")
	}
	return &service{repo: params.Repo, users: params.Users}, nil
}

// Create persists the review and recomputes the seller's rating aggregate.
func (s *service) Create(ctx context.Context, reviewerID uuid.UUID, input CreateReviewInput) (*models.Review, error) {
	if reviewerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reviewer id is required")
	}
	if input.SellerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "seller id is required")
	}
	if input.Rating < 1 || input.Rating > 5 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}
	if reviewerID == input.SellerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "users cannot review themselves")
	}

	review := &models.Review{
		ID:         uuid.New(),
		ReviewerID: reviewerID,
		SellerID:   input.SellerID,
		ProductID:  input.ProductID,
		Rating:     input.Rating,
		Comment:    input.Comment,
	}
	if err := s.repo.Create(ctx, review); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert review")
	}

	if err := s.refreshSellerRating(ctx, input.SellerID); err != nil {
		return nil, err
	}
	return review, nil
}

// ListBySeller returns the reviews left for a seller.
func (s *service) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]models.Review, error) {
	if sellerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "seller id is required")
	}
	rows, err := s.repo.ListBySeller(ctx, sellerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reviews")
	}
	return rows, nil
}

func (s *service) refreshSellerRating(ctx context.Context, sellerID uuid.UUID) error {
	total, count, err := s.repo.SumBySeller(ctx, sellerID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate seller rating")
	}

	average := decimal.Zero
	if count > 0 {
		average = decimal.NewFromInt(total).
			Div(decimal.NewFromInt(count)).
			Round(2)
	}
	if err := s.users.UpdateRating(ctx, sellerID, average, int(count)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store seller rating")
	}
	return nil
}
