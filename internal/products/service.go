package products

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/roperoapp/ropero-backend/pkg/db"
	"github.com/roperoapp/ropero-backend/pkg/db/models"
	"github.com/roperoapp/ropero-backend/pkg/enums"
	pkgerrors "github.com/roperoapp/ropero-backend/pkg/errors"
	"github.com/roperoapp/ropero-backend/pkg/pagination"
	"github.com/roperoapp/ropero-backend/pkg/types"
)

type repository interface {
	CountBySeller(ctx context.Context, sellerID uuid.UUID, statuses []enums.ProductStatus, featuredOnly bool) (int64, error)
	Create(ctx context.Context, product *models.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	List(ctx context.Context, query ListQuery) ([]models.Product, int64, error)
	ListFeatured(ctx context.Context, limit int) ([]models.Product, error)
	ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]models.Product, error)
}

type entitlementChecker interface {
	CanPublishProduct(ctx context.Context, userID uuid.UUID, now time.Time) (bool, error)
	CanFeatureProduct(ctx context.Context, userID uuid.UUID, now time.Time) (bool, error)
}

// Service defines the catalog surface.
type Service interface {
	Create(ctx context.Context, sellerID uuid.UUID, input CreateProductInput, now time.Time) (*models.Product, error)
	Update(ctx context.Context, id, sellerID uuid.UUID, patch UpdateProductInput, now time.Time) (*models.Product, error)
	Remove(ctx context.Context, id, sellerID uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	List(ctx context.Context, query ListQuery) (*ListResult, error)
	ListFeatured(ctx context.Context, limit int) ([]models.Product, error)
	ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]models.Product, error)
	Categories() []enums.ProductCategory
}

// ServiceParams groups dependencies for the catalog service.
type ServiceParams struct {
	Repo         repository
	Entitlements entitlementChecker
}

type service struct {
	repo         repository
	entitlements entitlementChecker
}

// NewService builds a catalog service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("product repo required")
	}
	if params.Entitlements == nil {
		return nil, fmt.Errorf("entitlement checker required")
	}
	return &service{
		repo:         params.Repo,
		entitlements: params.Entitlements,
	}, nil
}

// Create checks the publish quota (and the feature quota when the listing
// starts featured) before inserting. The quota check is best effort: two
// concurrent publishes can both pass and overshoot by one.
func (s *service) Create(ctx context.Context, sellerID uuid.UUID, input CreateProductInput, now time.Time) (*models.Product, error) {
	if sellerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "seller id is required")
	}
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}

	allowed, err := s.entitlements.CanPublishProduct(ctx, sellerID, now)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			"listing limit reached for the current plan")
	}

	if input.IsFeatured {
		canFeature, err := s.entitlements.CanFeatureProduct(ctx, sellerID, now)
		if err != nil {
			return nil, err
		}
		if !canFeature {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
				"featured listing limit reached for the current plan")
		}
	}

	product := input.toModel(sellerID)
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert product")
	}
	return product, nil
}

// Update patches an owned listing. Featuring a previously unfeatured listing
// re-checks the feature quota; an already featured one does not.
func (s *service) Update(ctx context.Context, id, sellerID uuid.UUID, patch UpdateProductInput, now time.Time) (*models.Product, error) {
	product, err := s.loadOwned(ctx, id, sellerID)
	if err != nil {
		return nil, err
	}

	if patch.IsFeatured != nil && *patch.IsFeatured && !product.IsFeatured {
		canFeature, err := s.entitlements.CanFeatureProduct(ctx, sellerID, now)
		if err != nil {
			return nil, err
		}
		if !canFeature {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
				"featured listing limit reached for the current plan")
		}
	}

	if patch.Status != nil {
		next := *patch.Status
		if !next.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("invalid product status %q", next))
		}
		// Relisting re-occupies quota, so it goes through the same gate
		// as a fresh publish.
		if next.CountsAgainstQuota() && !product.Status.CountsAgainstQuota() {
			allowed, err := s.entitlements.CanPublishProduct(ctx, sellerID, now)
			if err != nil {
				return nil, err
			}
			if !allowed {
				return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
					"listing limit reached for the current plan")
			}
		}
		product.Status = next
	}

	applyPatch(product, patch)

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	return product, nil
}

// Remove takes an owned listing off the catalog. The row is kept with status
// removed so it stops counting against quota.
func (s *service) Remove(ctx context.Context, id, sellerID uuid.UUID) error {
	product, err := s.loadOwned(ctx, id, sellerID)
	if err != nil {
		return err
	}
	if product.Status == enums.ProductStatusRemoved {
		return nil
	}
	product.Status = enums.ProductStatusRemoved
	product.IsFeatured = false
	if err := s.repo.Update(ctx, product); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove product")
	}
	return nil
}

// GetByID loads a single listing.
func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup product")
	}
	return product, nil
}

// List returns a filtered catalog page.
func (s *service) List(ctx context.Context, query ListQuery) (*ListResult, error) {
	rows, total, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return &ListResult{
		Products: rows,
		Meta:     pagination.NewMeta(query.Pagination, total),
	}, nil
}

// ListFeatured returns the featured shelf.
func (s *service) ListFeatured(ctx context.Context, limit int) ([]models.Product, error) {
	rows, err := s.repo.ListFeatured(ctx, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list featured products")
	}
	return rows, nil
}

// ListBySeller returns a seller's own listings, all statuses included.
func (s *service) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]models.Product, error) {
	if sellerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "seller id is required")
	}
	rows, err := s.repo.ListBySeller(ctx, sellerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list seller products")
	}
	return rows, nil
}

// Categories returns the supported catalog categories.
func (s *service) Categories() []enums.ProductCategory {
	return enums.ProductCategories()
}

func (s *service) loadOwned(ctx context.Context, id, sellerID uuid.UUID) (*models.Product, error) {
	if id == uuid.Nil || sellerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id and seller id are required")
	}
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup product")
	}
	if product.SellerID != sellerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "product belongs to another seller")
	}
	return product, nil
}

func applyPatch(product *models.Product, patch UpdateProductInput) {
	if patch.Title != nil {
		product.Title = *patch.Title
	}
	if patch.Description != nil {
		product.Description = patch.Description
	}
	if patch.PriceCents != nil {
		product.PriceCents = *patch.PriceCents
	}
	if patch.Category != nil {
		product.Category = *patch.Category
	}
	if patch.Size != nil {
		product.Size = patch.Size
	}
	if patch.Brand != nil {
		product.Brand = patch.Brand
	}
	if patch.Condition != nil {
		product.Condition = *patch.Condition
	}
	if patch.Gender != nil {
		product.Gender = patch.Gender
	}
	if patch.Images != nil {
		product.Images = types.StringList(patch.Images)
	}
	if patch.IsFeatured != nil {
		product.IsFeatured = *patch.IsFeatured
	}
}

func validateCreateInput(input CreateProductInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if input.PriceCents < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must be zero or positive")
	}
	if !input.Category.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid category %q", input.Category))
	}
	if !input.Condition.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid condition %q", input.Condition))
	}
	if input.Gender != nil && !input.Gender.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid gender %q", *input.Gender))
	}
	return nil
}
