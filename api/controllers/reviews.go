package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/roperoapp/ropero-backend/api/responses"
	"github.com/roperoapp/ropero-backend/api/validators"
	"github.com/roperoapp/ropero-backend/internal/reviews"
	"github.com/roperoapp/ropero-backend/pkg/db/models"
	"github.com/roperoapp/ropero-backend/pkg/logger"
)

type reviewCreateRequest struct {
	SellerID  uuid.UUID  `json:"seller_id" validate:"required"`
	ProductID *uuid.UUID `json:"product_id,omitempty"`
	Rating    int        `json:"rating" validate:"required,min=1,max=5"`
	Comment   *string    `json:"comment,omitempty"`
}

type reviewResponse struct {
	ID         uuid.UUID  `json:"id"`
	ReviewerID uuid.UUID  `json:"reviewer_id"`
	SellerID   uuid.UUID  `json:"seller_id"`
	ProductID  *uuid.UUID `json:"product_id,omitempty"`
	Rating     int        `json:"rating"`
	Comment    *string    `json:"comment,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

func newReviewResponse(review *models.Review) reviewResponse {
	return reviewResponse{
		ID:         review.ID,
		ReviewerID: review.ReviewerID,
		SellerID:   review.SellerID,
		ProductID:  review.ProductID,
		Rating:     review.Rating,
		Comment:    review.Comment,
		CreatedAt:  review.CreatedAt,
	}
}

func ReviewCreate(svc reviews.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reviewerID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}

		var payload reviewCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		review, err := svc.Create(r.Context(), reviewerID, reviews.CreateReviewInput{
			SellerID:  payload.SellerID,
			ProductID: payload.ProductID,
			Rating:    payload.Rating,
			Comment:   payload.Comment,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newReviewResponse(review))
	}
}

func ReviewListBySeller(svc reviews.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sellerID, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.ListBySeller(r.Context(), sellerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]reviewResponse, 0, len(rows))
		for i := range rows {
			out = append(out, newReviewResponse(&rows[i]))
		}
		responses.WriteSuccess(w, out)
	}
}
