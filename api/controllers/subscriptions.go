package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/roperoapp/ropero-backend/api/middleware"
	"github.com/roperoapp/ropero-backend/api/responses"
	"github.com/roperoapp/ropero-backend/api/validators"
	"github.com/roperoapp/ropero-backend/internal/entitlements"
	subsvc "github.com/roperoapp/ropero-backend/internal/subscriptions"
	"github.com/roperoapp/ropero-backend/pkg/db/models"
	"github.com/roperoapp/ropero-backend/pkg/enums"
	pkgerrors "github.com/roperoapp/ropero-backend/pkg/errors"
	"github.com/roperoapp/ropero-backend/pkg/logger"
)

type subscriptionCreateRequest struct {
	Plan                  string    `json:"plan" validate:"required"`
	BillingCycle          string    `json:"billing_cycle" validate:"required"`
	PriceCents            int64     `json:"price_cents" validate:"gte=0"`
	StartDate             time.Time `json:"start_date" validate:"required"`
	EndDate               time.Time `json:"end_date" validate:"required"`
	ProductsLimit         int       `json:"products_limit" validate:"required,min=1"`
	FeaturedProductsLimit int       `json:"featured_products_limit" validate:"gte=0"`
	AnalyticsEnabled      bool      `json:"analytics_enabled"`
}

type subscriptionUpdateRequest struct {
	Status *string `json:"status,omitempty"`
}

type subscriptionResponse struct {
	ID                    uuid.UUID  `json:"id"`
	Plan                  string     `json:"plan"`
	Status                string     `json:"status"`
	BillingCycle          string     `json:"billing_cycle"`
	PriceCents            int64      `json:"price_cents"`
	StartDate             time.Time  `json:"start_date"`
	EndDate               time.Time  `json:"end_date"`
	ProductsLimit         int        `json:"products_limit"`
	FeaturedProductsLimit int        `json:"featured_products_limit"`
	AnalyticsEnabled      bool       `json:"analytics_enabled"`
	CanceledAt            *time.Time `json:"canceled_at,omitempty"`
	CreatedAt             time.Time  `json:"created_at"`
}

type effectivePlanResponse struct {
	Plan                  string                `json:"plan"`
	Status                string                `json:"status"`
	ProductsLimit         int                   `json:"products_limit"`
	FeaturedProductsLimit int                   `json:"featured_products_limit"`
	AnalyticsEnabled      bool                  `json:"analytics_enabled"`
	Subscription          *subscriptionResponse `json:"subscription,omitempty"`
}

func newSubscriptionResponse(sub *models.Subscription) subscriptionResponse {
	return subscriptionResponse{
		ID:                    sub.ID,
		Plan:                  sub.Plan.String(),
		Status:                sub.Status.String(),
		BillingCycle:          sub.BillingCycle.String(),
		PriceCents:            sub.PriceCents,
		StartDate:             sub.StartDate,
		EndDate:               sub.EndDate,
		ProductsLimit:         sub.ProductsLimit,
		FeaturedProductsLimit: sub.FeaturedProductsLimit,
		AnalyticsEnabled:      sub.AnalyticsEnabled,
		CanceledAt:            sub.CanceledAt,
		CreatedAt:             sub.CreatedAt,
	}
}

func SubscriptionCreate(svc subsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}

		var payload subscriptionCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sub, err := svc.Create(r.Context(), userID, subsvc.CreateSubscriptionInput{
			Plan:                  enums.SubscriptionPlan(payload.Plan),
			BillingCycle:          enums.BillingCycle(payload.BillingCycle),
			PriceCents:            payload.PriceCents,
			StartDate:             payload.StartDate,
			EndDate:               payload.EndDate,
			ProductsLimit:         payload.ProductsLimit,
			FeaturedProductsLimit: payload.FeaturedProductsLimit,
			AnalyticsEnabled:      payload.AnalyticsEnabled,
		}, time.Now().UTC())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newSubscriptionResponse(sub))
	}
}

func SubscriptionList(svc subsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}

		rows, err := svc.ListByUser(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]subscriptionResponse, 0, len(rows))
		for i := range rows {
			out = append(out, newSubscriptionResponse(&rows[i]))
		}
		responses.WriteSuccess(w, out)
	}
}

func SubscriptionActive(svc entitlements.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}

		plan, err := svc.ResolveActivePlan(r.Context(), userID, time.Now().UTC())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := effectivePlanResponse{
			Plan:                  plan.Plan.String(),
			Status:                plan.Status.String(),
			ProductsLimit:         plan.ProductsLimit,
			FeaturedProductsLimit: plan.FeaturedProductsLimit,
			AnalyticsEnabled:      plan.AnalyticsEnabled,
		}
		if plan.Subscription != nil {
			resp := newSubscriptionResponse(plan.Subscription)
			out.Subscription = &resp
		}
		responses.WriteSuccess(w, out)
	}
}

func SubscriptionLimits(svc entitlements.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}

		limits, err := svc.GetUserLimits(r.Context(), userID, time.Now().UTC())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, limits)
	}
}

func SubscriptionCanPublish(svc entitlements.Service, logg *logger.Logger) http.HandlerFunc {
	return entitlementFlag(svc.CanPublishProduct, "can_publish", logg)
}

func SubscriptionCanFeature(svc entitlements.Service, logg *logger.Logger) http.HandlerFunc {
	return entitlementFlag(svc.CanFeatureProduct, "can_feature", logg)
}

func SubscriptionHasAnalytics(svc entitlements.Service, logg *logger.Logger) http.HandlerFunc {
	return entitlementFlag(svc.HasAnalyticsAccess, "has_analytics", logg)
}

func entitlementFlag(check func(ctx context.Context, userID uuid.UUID, now time.Time) (bool, error), field string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}

		allowed, err := check(r.Context(), userID, time.Now().UTC())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{field: allowed})
	}
}

func SubscriptionGet(svc subsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}
		id, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sub, err := svc.GetByID(r.Context(), id, userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newSubscriptionResponse(sub))
	}
}

func SubscriptionUpdate(svc subsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}
		id, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload subscriptionUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var patch subsvc.UpdateSubscriptionInput
		if payload.Status != nil {
			status := enums.SubscriptionStatus(*payload.Status)
			patch.Status = &status
		}

		sub, err := svc.Update(r.Context(), id, userID, patch)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newSubscriptionResponse(sub))
	}
}

func SubscriptionCancel(svc subsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}
		id, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sub, err := svc.Cancel(r.Context(), id, userID, time.Now().UTC())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newSubscriptionResponse(sub))
	}
}

func requireUser(w http.ResponseWriter, r *http.Request, logg *logger.Logger) (uuid.UUID, bool) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == uuid.Nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
		return uuid.Nil, false
	}
	return userID, true
}

func pathUUID(r *http.Request, key string) (uuid.UUID, error) {
	raw := chi.URLParam(r, key)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid identifier").WithDetails(map[string]any{"field": key})
	}
	return id, nil
}
