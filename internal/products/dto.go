package products

import (
	"github.com/google/uuid"

	"github.com/roperoapp/ropero-backend/pkg/db/models"
	"github.com/roperoapp/ropero-backend/pkg/enums"
	"github.com/roperoapp/ropero-backend/pkg/pagination"
	"github.com/roperoapp/ropero-backend/pkg/types"
)

// CreateProductInput carries the fields of a new listing.
type CreateProductInput struct {
	Title       string
	Description *string
	PriceCents  int64
	Category    enums.ProductCategory
	Size        *string
	Brand       *string
	Condition   enums.ProductCondition
	Gender      *enums.ProductGender
	Images      []string
	IsFeatured  bool
}

func (in CreateProductInput) toModel(sellerID uuid.UUID) *models.Product {
	return &models.Product{
		ID:          uuid.New(),
		SellerID:    sellerID,
		Title:       in.Title,
		Description: in.Description,
		PriceCents:  in.PriceCents,
		Category:    in.Category,
		Size:        in.Size,
		Brand:       in.Brand,
		Condition:   in.Condition,
		Gender:      in.Gender,
		Images:      types.StringList(in.Images),
		Status:      enums.ProductStatusAvailable,
		IsFeatured:  in.IsFeatured,
	}
}

// UpdateProductInput patches a listing. Nil fields are left untouched.
type UpdateProductInput struct {
	Title       *string
	Description *string
	PriceCents  *int64
	Category    *enums.ProductCategory
	Size        *string
	Brand       *string
	Condition   *enums.ProductCondition
	Gender      *enums.ProductGender
	Images      []string
	Status      *enums.ProductStatus
	IsFeatured  *bool
}

// ListFilters narrows the public catalog listing.
type ListFilters struct {
	Category      *enums.ProductCategory
	Condition     *enums.ProductCondition
	Gender        *enums.ProductGender
	SellerID      *uuid.UUID
	PriceMinCents *int64
	PriceMaxCents *int64
	Query         string
}

// ListQuery bundles filters with pagination.
type ListQuery struct {
	Filters    ListFilters
	Pagination pagination.Params
}

// ListResult is a page of listings plus its pagination metadata.
type ListResult struct {
	Products []models.Product `json:"products"`
	Meta     pagination.Meta  `json:"meta"`
}
