package entitlements

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/roperoapp/ropero-backend/pkg/db/models"
	"github.com/roperoapp/ropero-backend/pkg/enums"
	pkgerrors "github.com/roperoapp/ropero-backend/pkg/errors"
)

type stubFinder struct {
	sub *models.Subscription
	err error
}

func (s *stubFinder) FindActiveByUser(context.Context, uuid.UUID, time.Time) (*models.Subscription, error) {
	return s.sub, s.err
}

type stubCounter struct {
	listings int64
	featured int64
	err      error
}

func (s *stubCounter) CountBySeller(_ context.Context, _ uuid.UUID, statuses []enums.ProductStatus, featuredOnly bool) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	if len(statuses) != len(enums.ActiveListingStatuses) {
		return 0, errors.New("unexpected status filter")
	}
	if featuredOnly {
		return s.featured, nil
	}
	return s.listings, nil
}

func newEngine(t *testing.T, finder *stubFinder, counter *stubCounter) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Subscriptions: finder, Products: counter})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return svc
}

func premiumRow(userID uuid.UUID) *models.Subscription {
	return &models.Subscription{
		ID:                    uuid.New(),
		UserID:                userID,
		Plan:                  enums.SubscriptionPlanPremium,
		Status:                enums.SubscriptionStatusActiva,
		ProductsLimit:         50,
		FeaturedProductsLimit: 5,
		AnalyticsEnabled:      true,
	}
}

func TestResolveActivePlanDefaultsToBasico(t *testing.T) {
	svc := newEngine(t, &stubFinder{}, &stubCounter{})

	plan, err := svc.ResolveActivePlan(context.Background(), uuid.New(), time.Now().UTC())
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if plan.Plan != enums.SubscriptionPlanBasico {
		t.Fatalf("expected basico, got %s", plan.Plan)
	}
	if plan.ProductsLimit != DefaultBasicoProductsLimit {
		t.Fatalf("expected products limit %d, got %d", DefaultBasicoProductsLimit, plan.ProductsLimit)
	}
	if plan.FeaturedProductsLimit != DefaultBasicoFeaturedProductsLimit {
		t.Fatalf("expected featured limit %d, got %d", DefaultBasicoFeaturedProductsLimit, plan.FeaturedProductsLimit)
	}
	if plan.AnalyticsEnabled {
		t.Fatal("basico must not grant analytics")
	}
	if plan.Status != enums.SubscriptionStatusActiva {
		t.Fatalf("default plan reports activa, got %s", plan.Status)
	}
	if plan.Subscription != nil {
		t.Fatal("default plan must not carry a persisted row")
	}
}

func TestResolveActivePlanUsesPersistedRow(t *testing.T) {
	userID := uuid.New()
	row := premiumRow(userID)
	svc := newEngine(t, &stubFinder{sub: row}, &stubCounter{})

	plan, err := svc.ResolveActivePlan(context.Background(), userID, time.Now().UTC())
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if plan.Plan != enums.SubscriptionPlanPremium {
		t.Fatalf("expected premium, got %s", plan.Plan)
	}
	if plan.ProductsLimit != 50 || plan.FeaturedProductsLimit != 5 {
		t.Fatalf("expected row limits, got %d/%d", plan.ProductsLimit, plan.FeaturedProductsLimit)
	}
	if !plan.AnalyticsEnabled {
		t.Fatal("expected analytics enabled")
	}
	if plan.Subscription == nil || plan.Subscription.ID != row.ID {
		t.Fatal("expected the persisted row to be carried")
	}
}

func TestCanPublishProductBoundary(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()
	userID := uuid.New()

	cases := []struct {
		name     string
		listings int64
		want     bool
	}{
		{"under limit", DefaultBasicoProductsLimit - 1, true},
		{"at limit", DefaultBasicoProductsLimit, false},
		{"over limit", DefaultBasicoProductsLimit + 3, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := newEngine(t, &stubFinder{}, &stubCounter{listings: tc.listings})
			got, err := svc.CanPublishProduct(ctx, userID, now)
			if err != nil {
				t.Fatalf("expected success, got %v", err)
			}
			if got != tc.want {
				t.Fatalf("CanPublishProduct with %d used = %t, want %t", tc.listings, got, tc.want)
			}
		})
	}
}

func TestCanFeatureProductBoundary(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()
	userID := uuid.New()
	row := premiumRow(userID)

	svc := newEngine(t, &stubFinder{sub: row}, &stubCounter{featured: 4})
	got, err := svc.CanFeatureProduct(ctx, userID, now)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if !got {
		t.Fatal("expected featuring allowed at 4/5")
	}

	svc = newEngine(t, &stubFinder{sub: row}, &stubCounter{featured: 5})
	got, err = svc.CanFeatureProduct(ctx, userID, now)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if got {
		t.Fatal("expected featuring denied at 5/5")
	}
}

func TestHasAnalyticsAccess(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()
	userID := uuid.New()

	svc := newEngine(t, &stubFinder{}, &stubCounter{})
	got, err := svc.HasAnalyticsAccess(ctx, userID, now)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if got {
		t.Fatal("basico must not grant analytics")
	}

	svc = newEngine(t, &stubFinder{sub: premiumRow(userID)}, &stubCounter{})
	got, err = svc.HasAnalyticsAccess(ctx, userID, now)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if !got {
		t.Fatal("premium grants analytics")
	}
}

func TestGetUserLimitsRemainingNotClamped(t *testing.T) {
	// A downgrade can leave a seller over quota; remaining goes negative.
	svc := newEngine(t, &stubFinder{}, &stubCounter{listings: 15, featured: 3})

	limits, err := svc.GetUserLimits(context.Background(), uuid.New(), time.Now().UTC())
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if limits.ProductsRemaining != -5 {
		t.Fatalf("expected remaining -5, got %d", limits.ProductsRemaining)
	}
	if limits.FeaturedProductsRemaining != -2 {
		t.Fatalf("expected featured remaining -2, got %d", limits.FeaturedProductsRemaining)
	}
	if limits.ProductsUsed != 15 || limits.FeaturedProductsUsed != 3 {
		t.Fatalf("unexpected usage %d/%d", limits.ProductsUsed, limits.FeaturedProductsUsed)
	}
	if limits.Plan != enums.SubscriptionPlanBasico {
		t.Fatalf("expected basico, got %s", limits.Plan)
	}
}

func TestEntitlementErrorsPropagate(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()
	boom := errors.New("store offline")

	svc := newEngine(t, &stubFinder{err: boom}, &stubCounter{})
	if _, err := svc.ResolveActivePlan(ctx, uuid.New(), now); !errors.Is(err, boom) {
		t.Fatalf("expected cause to propagate, got %v", err)
	}

	svc = newEngine(t, &stubFinder{}, &stubCounter{err: boom})
	_, err := svc.CanPublishProduct(ctx, uuid.New(), now)
	if !errors.Is(err, boom) {
		t.Fatalf("expected cause to propagate, got %v", err)
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency code, got %v", err)
	}
}

// filteringFinder applies the active-row predicate itself, the way the
// repository query does: status activa and end_date not yet passed.
type filteringFinder struct {
	rows []*models.Subscription
}

func (f *filteringFinder) FindActiveByUser(_ context.Context, userID uuid.UUID, now time.Time) (*models.Subscription, error) {
	for _, row := range f.rows {
		if row.UserID != userID {
			continue
		}
		if row.Status == enums.SubscriptionStatusActiva && !row.EndDate.Before(now) {
			return row, nil
		}
	}
	return nil, nil
}

func TestResolveActivePlanIgnoresLapsedRowBeforeSweep(t *testing.T) {
	userID := uuid.New()
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

	// The billing period ended yesterday but no expiry sweep has marked the
	// row yet; it still reads status activa in storage.
	lapsed := premiumRow(userID)
	lapsed.StartDate = now.AddDate(0, -1, -1)
	lapsed.EndDate = now.AddDate(0, 0, -1)

	svc, err := NewService(ServiceParams{
		Subscriptions: &filteringFinder{rows: []*models.Subscription{lapsed}},
		Products:      &stubCounter{listings: 3},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	plan, err := svc.ResolveActivePlan(context.Background(), userID, now)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if plan.Plan != enums.SubscriptionPlanBasico {
		t.Fatalf("expected the lapsed row to fall back to basico, got %s", plan.Plan)
	}
	if plan.Subscription != nil {
		t.Fatal("expected no persisted row on the effective plan")
	}
	if plan.ProductsLimit != DefaultBasicoProductsLimit || plan.FeaturedProductsLimit != DefaultBasicoFeaturedProductsLimit {
		t.Fatalf("expected default limits, got %d/%d", plan.ProductsLimit, plan.FeaturedProductsLimit)
	}

	// Quota checks see default limits immediately, not the lapsed plan's.
	ok, err := svc.CanPublishProduct(context.Background(), userID, now)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if !ok {
		t.Fatal("expected publishing allowed under the basico limit")
	}

	// One day earlier the same row was still in force.
	plan, err = svc.ResolveActivePlan(context.Background(), userID, now.AddDate(0, 0, -2))
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if plan.Plan != enums.SubscriptionPlanPremium {
		t.Fatalf("expected premium before the period ended, got %s", plan.Plan)
	}
}
