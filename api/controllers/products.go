package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/roperoapp/ropero-backend/api/responses"
	"github.com/roperoapp/ropero-backend/api/validators"
	"github.com/roperoapp/ropero-backend/internal/products"
	"github.com/roperoapp/ropero-backend/pkg/db/models"
	"github.com/roperoapp/ropero-backend/pkg/enums"
	pkgerrors "github.com/roperoapp/ropero-backend/pkg/errors"
	"github.com/roperoapp/ropero-backend/pkg/logger"
	"github.com/roperoapp/ropero-backend/pkg/pagination"
)

type productCreateRequest struct {
	Title       string   `json:"title" validate:"required"`
	Description *string  `json:"description,omitempty"`
	PriceCents  int64    `json:"price_cents" validate:"gte=0"`
	Category    string   `json:"category" validate:"required"`
	Size        *string  `json:"size,omitempty"`
	Brand       *string  `json:"brand,omitempty"`
	Condition   string   `json:"condition" validate:"required"`
	Gender      *string  `json:"gender,omitempty"`
	Images      []string `json:"images,omitempty"`
	IsFeatured  bool     `json:"is_featured"`
}

type productUpdateRequest struct {
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	PriceCents  *int64   `json:"price_cents,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Size        *string  `json:"size,omitempty"`
	Brand       *string  `json:"brand,omitempty"`
	Condition   *string  `json:"condition,omitempty"`
	Gender      *string  `json:"gender,omitempty"`
	Images      []string `json:"images,omitempty"`
	Status      *string  `json:"status,omitempty"`
	IsFeatured  *bool    `json:"is_featured,omitempty"`
}

type productResponse struct {
	ID          uuid.UUID `json:"id"`
	SellerID    uuid.UUID `json:"seller_id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	PriceCents  int64     `json:"price_cents"`
	Category    string    `json:"category"`
	Size        *string   `json:"size,omitempty"`
	Brand       *string   `json:"brand,omitempty"`
	Condition   string    `json:"condition"`
	Gender      *string   `json:"gender,omitempty"`
	Images      []string  `json:"images"`
	Status      string    `json:"status"`
	IsFeatured  bool      `json:"is_featured"`
	CreatedAt   time.Time `json:"created_at"`
}

type productListResponse struct {
	Products []productResponse `json:"products"`
	Meta     pagination.Meta   `json:"meta"`
}

func newProductResponse(product *models.Product) productResponse {
	var gender *string
	if product.Gender != nil {
		value := product.Gender.String()
		gender = &value
	}
	images := []string(product.Images)
	if images == nil {
		images = []string{}
	}
	return productResponse{
		ID:          product.ID,
		SellerID:    product.SellerID,
		Title:       product.Title,
		Description: product.Description,
		PriceCents:  product.PriceCents,
		Category:    product.Category.String(),
		Size:        product.Size,
		Brand:       product.Brand,
		Condition:   product.Condition.String(),
		Gender:      gender,
		Images:      images,
		Status:      product.Status.String(),
		IsFeatured:  product.IsFeatured,
		CreatedAt:   product.CreatedAt,
	}
}

func newProductResponses(rows []models.Product) []productResponse {
	out := make([]productResponse, 0, len(rows))
	for i := range rows {
		out = append(out, newProductResponse(&rows[i]))
	}
	return out
}

func ProductCreate(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sellerID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}

		var payload productCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var gender *enums.ProductGender
		if payload.Gender != nil {
			value := enums.ProductGender(*payload.Gender)
			gender = &value
		}

		product, err := svc.Create(r.Context(), sellerID, products.CreateProductInput{
			Title:       payload.Title,
			Description: payload.Description,
			PriceCents:  payload.PriceCents,
			Category:    enums.ProductCategory(payload.Category),
			Size:        payload.Size,
			Brand:       payload.Brand,
			Condition:   enums.ProductCondition(payload.Condition),
			Gender:      gender,
			Images:      payload.Images,
			IsFeatured:  payload.IsFeatured,
		}, time.Now().UTC())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newProductResponse(product))
	}
}

func ProductUpdate(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sellerID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}
		id, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload productUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		patch := products.UpdateProductInput{
			Title:       payload.Title,
			Description: payload.Description,
			PriceCents:  payload.PriceCents,
			Size:        payload.Size,
			Brand:       payload.Brand,
			Images:      payload.Images,
			IsFeatured:  payload.IsFeatured,
		}
		if payload.Category != nil {
			category := enums.ProductCategory(*payload.Category)
			patch.Category = &category
		}
		if payload.Condition != nil {
			condition := enums.ProductCondition(*payload.Condition)
			patch.Condition = &condition
		}
		if payload.Gender != nil {
			gender := enums.ProductGender(*payload.Gender)
			patch.Gender = &gender
		}
		if payload.Status != nil {
			status := enums.ProductStatus(*payload.Status)
			patch.Status = &status
		}

		product, err := svc.Update(r.Context(), id, sellerID, patch, time.Now().UTC())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newProductResponse(product))
	}
}

func ProductRemove(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sellerID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}
		id, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Remove(r.Context(), id, sellerID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, nil)
	}
}

func ProductGet(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newProductResponse(product))
	}
}

func ProductList(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query, err := parseListQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.List(r.Context(), query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, productListResponse{
			Products: newProductResponses(result.Products),
			Meta:     result.Meta,
		})
	}
}

func ProductListFeatured(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", 20, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.ListFeatured(r.Context(), limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newProductResponses(rows))
	}
}

func ProductListMine(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sellerID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}

		rows, err := svc.ListBySeller(r.Context(), sellerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newProductResponses(rows))
	}
}

func ProductCategories(svc products.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories := svc.Categories()
		out := make([]string, 0, len(categories))
		for _, category := range categories {
			out = append(out, category.String())
		}
		responses.WriteSuccess(w, out)
	}
}

func parseListQuery(r *http.Request) (products.ListQuery, error) {
	var query products.ListQuery

	page, err := validators.ParseQueryInt(r, "page", 1, 1, 1<<20)
	if err != nil {
		return query, err
	}
	limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		return query, err
	}
	query.Pagination = pagination.Params{Page: page, Limit: limit}

	values := r.URL.Query()
	if raw := strings.TrimSpace(values.Get("category")); raw != "" {
		category, err := enums.ParseProductCategory(raw)
		if err != nil {
			return query, invalidQueryParam("category")
		}
		query.Filters.Category = &category
	}
	if raw := strings.TrimSpace(values.Get("condition")); raw != "" {
		condition, err := enums.ParseProductCondition(raw)
		if err != nil {
			return query, invalidQueryParam("condition")
		}
		query.Filters.Condition = &condition
	}
	if raw := strings.TrimSpace(values.Get("gender")); raw != "" {
		gender, err := enums.ParseProductGender(raw)
		if err != nil {
			return query, invalidQueryParam("gender")
		}
		query.Filters.Gender = &gender
	}
	if raw := strings.TrimSpace(values.Get("seller_id")); raw != "" {
		sellerID, err := uuid.Parse(raw)
		if err != nil {
			return query, invalidQueryParam("seller_id")
		}
		query.Filters.SellerID = &sellerID
	}
	minPrice, err := validators.ParseQueryInt64(r, "price_min")
	if err != nil {
		return query, err
	}
	query.Filters.PriceMinCents = minPrice
	maxPrice, err := validators.ParseQueryInt64(r, "price_max")
	if err != nil {
		return query, err
	}
	query.Filters.PriceMaxCents = maxPrice
	query.Filters.Query = strings.TrimSpace(values.Get("q"))

	return query, nil
}

func invalidQueryParam(field string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, "invalid query parameter").WithDetails(map[string]any{"field": field})
}
