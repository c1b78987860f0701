package reviews

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/roperoapp/ropero-backend/pkg/db/models"
	pkgerrors "github.com/roperoapp/ropero-backend/pkg/errors"
)

type stubRepo struct {
	created []*models.Review

	sumTotal int64
	sumCount int64

	createErr error
	sumErr    error
}

func (s *stubRepo) Create(_ context.Context, review *models.Review) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = append(s.created, review)
	return nil
}

func (s *stubRepo) ListBySeller(context.Context, uuid.UUID) ([]models.Review, error) {
	out := make([]models.Review, 0, len(s.created))
	for _, review := range s.created {
		out = append(out, *review)
	}
	return out, nil
}

func (s *stubRepo) SumBySeller(context.Context, uuid.UUID) (int64, int64, error) {
	if s.sumErr != nil {
		return 0, 0, s.sumErr
	}
	return s.sumTotal, s.sumCount, nil
}

type stubUsers struct {
	sellerID uuid.UUID
	rating   decimal.Decimal
	count    int
	calls    int
	err      error
}

func (s *stubUsers) UpdateRating(_ context.Context, id uuid.UUID, rating decimal.Decimal, count int) error {
	if s.err != nil {
		return s.err
	}
	s.sellerID = id
	s.rating = rating
	s.count = count
	s.calls++
	return nil
}

func newTestService(t *testing.T, repo *stubRepo, users *stubUsers) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Repo: repo, Users: users})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return svc
}

func assertCode(t *testing.T, err error, want pkgerrors.Code) {
	t.Helper()
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected typed error, got %v", err)
	}
	if typed.Code() != want {
		t.Fatalf("expected code %s, got %s (%v)", want, typed.Code(), err)
	}
}

func TestServiceCreateRefreshesSellerRating(t *testing.T) {
	repo := &stubRepo{sumTotal: 9, sumCount: 2}
	users := &stubUsers{}
	svc := newTestService(t, repo, users)
	sellerID := uuid.New()

	review, err := svc.Create(context.Background(), uuid.New(), CreateReviewInput{
		SellerID: sellerID,
		Rating:   5,
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if review.Rating != 5 {
		t.Fatalf("expected rating 5, got %d", review.Rating)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected one insert, got %d", len(repo.created))
	}
	if users.calls != 1 || users.sellerID != sellerID {
		t.Fatal("expected the seller aggregate to be refreshed")
	}
	if users.rating.StringFixed(2) != "4.50" {
		t.Fatalf("expected average 4.50, got %s", users.rating.StringFixed(2))
	}
	if users.count != 2 {
		t.Fatalf("expected count 2, got %d", users.count)
	}
}

func TestServiceCreateAverageRoundsToTwoDecimals(t *testing.T) {
	repo := &stubRepo{sumTotal: 11, sumCount: 3}
	users := &stubUsers{}
	svc := newTestService(t, repo, users)

	_, err := svc.Create(context.Background(), uuid.New(), CreateReviewInput{
		SellerID: uuid.New(),
		Rating:   4,
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if users.rating.StringFixed(2) != "3.67" {
		t.Fatalf("expected average 3.67, got %s", users.rating.StringFixed(2))
	}
}

func TestServiceCreateRejectsSelfReview(t *testing.T) {
	repo := &stubRepo{}
	svc := newTestService(t, repo, &stubUsers{})
	userID := uuid.New()

	_, err := svc.Create(context.Background(), userID, CreateReviewInput{
		SellerID: userID,
		Rating:   5,
	})
	assertCode(t, err, pkgerrors.CodeForbidden)
	if len(repo.created) != 0 {
		t.Fatal("self review must not insert")
	}
}

func TestServiceCreateRatingBounds(t *testing.T) {
	svc := newTestService(t, &stubRepo{}, &stubUsers{})

	for _, rating := range []int{0, -1, 6} {
		_, err := svc.Create(context.Background(), uuid.New(), CreateReviewInput{
			SellerID: uuid.New(),
			Rating:   rating,
		})
		assertCode(t, err, pkgerrors.CodeValidation)
	}

	repo := &stubRepo{sumTotal: 1, sumCount: 1}
	svc = newTestService(t, repo, &stubUsers{})
	if _, err := svc.Create(context.Background(), uuid.New(), CreateReviewInput{
		SellerID: uuid.New(),
		Rating:   1,
	}); err != nil {
		t.Fatalf("rating 1 is valid, got %v", err)
	}
}

func TestServiceCreateAggregateFailure(t *testing.T) {
	repo := &stubRepo{sumErr: errors.New("store offline")}
	svc := newTestService(t, repo, &stubUsers{})

	_, err := svc.Create(context.Background(), uuid.New(), CreateReviewInput{
		SellerID: uuid.New(),
		Rating:   3,
	})
	assertCode(t, err, pkgerrors.CodeDependency)
}

func TestServiceListBySellerValidation(t *testing.T) {
	svc := newTestService(t, &stubRepo{}, &stubUsers{})

	_, err := svc.ListBySeller(context.Background(), uuid.Nil)
	assertCode(t, err, pkgerrors.CodeValidation)
}
