package products

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/roperoapp/ropero-backend/pkg/db/models"
	"github.com/roperoapp/ropero-backend/pkg/enums"
	pkgerrors "github.com/roperoapp/ropero-backend/pkg/errors"
	"github.com/roperoapp/ropero-backend/pkg/pagination"
)

type stubRepo struct {
	byID    map[uuid.UUID]*models.Product
	created []*models.Product
	updated []*models.Product

	listRows  []models.Product
	listTotal int64

	createErr error
	findErr   error
	updateErr error
}

func newStubRepo() *stubRepo {
	return &stubRepo{byID: map[uuid.UUID]*models.Product{}}
}

func (s *stubRepo) CountBySeller(context.Context, uuid.UUID, []enums.ProductStatus, bool) (int64, error) {
	return 0, nil
}

func (s *stubRepo) Create(_ context.Context, product *models.Product) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = append(s.created, product)
	s.byID[product.ID] = product
	return nil
}

func (s *stubRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	product, ok := s.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *product
	return &clone, nil
}

func (s *stubRepo) Update(_ context.Context, product *models.Product) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.updated = append(s.updated, product)
	s.byID[product.ID] = product
	return nil
}

func (s *stubRepo) List(context.Context, ListQuery) ([]models.Product, int64, error) {
	return s.listRows, s.listTotal, nil
}

func (s *stubRepo) ListFeatured(context.Context, int) ([]models.Product, error) {
	return s.listRows, nil
}

func (s *stubRepo) ListBySeller(context.Context, uuid.UUID) ([]models.Product, error) {
	return s.listRows, nil
}

type stubEntitlements struct {
	canPublish bool
	canFeature bool

	publishCalls int
	featureCalls int

	err error
}

func (s *stubEntitlements) CanPublishProduct(context.Context, uuid.UUID, time.Time) (bool, error) {
	s.publishCalls++
	return s.canPublish, s.err
}

func (s *stubEntitlements) CanFeatureProduct(context.Context, uuid.UUID, time.Time) (bool, error) {
	s.featureCalls++
	return s.canFeature, s.err
}

func newTestService(t *testing.T, repo *stubRepo, ent *stubEntitlements) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Repo: repo, Entitlements: ent})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return svc
}

func validCreateInput() CreateProductInput {
	return CreateProductInput{
		Title:      "Chaqueta de mezclilla",
		PriceCents: 45000,
		Category:   enums.ProductCategoryChaquetas,
		Condition:  enums.ProductConditionPocoUso,
		Images:     []string{"https://cdn.example.com/p/1.jpg"},
	}
}

func seedProduct(repo *stubRepo, sellerID uuid.UUID, mutate func(*models.Product)) *models.Product {
	product := validCreateInput().toModel(sellerID)
	if mutate != nil {
		mutate(product)
	}
	repo.byID[product.ID] = product
	return product
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

func TestServiceCreate(t *testing.T) {
	repo := newStubRepo()
	ent := &stubEntitlements{canPublish: true}
	svc := newTestService(t, repo, ent)

	product, err := svc.Create(context.Background(), uuid.New(), validCreateInput(), time.Now().UTC())
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if product.Status != enums.ProductStatusAvailable {
		t.Fatalf("new listing must start available, got %s", product.Status)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected one insert, got %d", len(repo.created))
	}
	if ent.featureCalls != 0 {
		t.Fatal("unfeatured create must not check the feature quota")
	}
}

func TestServiceCreateQuotaDenied(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo, &stubEntitlements{canPublish: false})

	_, err := svc.Create(context.Background(), uuid.New(), validCreateInput(), time.Now().UTC())
	assertCode(t, err, pkgerrors.CodeStateConflict)
	if len(repo.created) != 0 {
		t.Fatal("denied create must not insert")
	}
}

func TestServiceCreateFeaturedChecksBothQuotas(t *testing.T) {
	repo := newStubRepo()
	ent := &stubEntitlements{canPublish: true, canFeature: false}
	svc := newTestService(t, repo, ent)

	input := validCreateInput()
	input.IsFeatured = true
	_, err := svc.Create(context.Background(), uuid.New(), input, time.Now().UTC())
	assertCode(t, err, pkgerrors.CodeStateConflict)
	if ent.publishCalls != 1 || ent.featureCalls != 1 {
		t.Fatalf("expected both quota checks, got %d/%d", ent.publishCalls, ent.featureCalls)
	}

	ent.canFeature = true
	product, err := svc.Create(context.Background(), uuid.New(), input, time.Now().UTC())
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if !product.IsFeatured {
		t.Fatal("expected a featured listing")
	}
}

func TestServiceCreateValidation(t *testing.T) {
	svc := newTestService(t, newStubRepo(), &stubEntitlements{canPublish: true})
	now := time.Now().UTC()
	badGender := enums.ProductGender("unisexo")

	cases := []struct {
		name   string
		mutate func(*CreateProductInput)
	}{
		{"empty title", func(in *CreateProductInput) { in.Title = "   " }},
		{"negative price", func(in *CreateProductInput) { in.PriceCents = -100 }},
		{"invalid category", func(in *CreateProductInput) { in.Category = "muebles" }},
		{"invalid condition", func(in *CreateProductInput) { in.Condition = "roto" }},
		{"invalid gender", func(in *CreateProductInput) { in.Gender = &badGender }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validCreateInput()
			tc.mutate(&input)
			_, err := svc.Create(context.Background(), uuid.New(), input, now)
			assertCode(t, err, pkgerrors.CodeValidation)
		})
	}
}

func TestServiceUpdateFeatureGate(t *testing.T) {
	repo := newStubRepo()
	ent := &stubEntitlements{canFeature: false}
	svc := newTestService(t, repo, ent)
	sellerID := uuid.New()
	product := seedProduct(repo, sellerID, nil)

	featured := true
	_, err := svc.Update(context.Background(), product.ID, sellerID, UpdateProductInput{IsFeatured: &featured}, time.Now().UTC())
	assertCode(t, err, pkgerrors.CodeStateConflict)

	ent.canFeature = true
	got, err := svc.Update(context.Background(), product.ID, sellerID, UpdateProductInput{IsFeatured: &featured}, time.Now().UTC())
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if !got.IsFeatured {
		t.Fatal("expected listing to be featured")
	}
}

func TestServiceUpdateAlreadyFeaturedSkipsQuota(t *testing.T) {
	repo := newStubRepo()
	ent := &stubEntitlements{canFeature: false}
	svc := newTestService(t, repo, ent)
	sellerID := uuid.New()
	product := seedProduct(repo, sellerID, func(p *models.Product) { p.IsFeatured = true })

	featured := true
	title := "Chaqueta vintage"
	got, err := svc.Update(context.Background(), product.ID, sellerID,
		UpdateProductInput{IsFeatured: &featured, Title: &title}, time.Now().UTC())
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if ent.featureCalls != 0 {
		t.Fatal("keeping a listing featured must not re-check quota")
	}
	if got.Title != title {
		t.Fatalf("expected patched title, got %q", got.Title)
	}
}

func TestServiceUpdateRelistGoesThroughPublishGate(t *testing.T) {
	repo := newStubRepo()
	ent := &stubEntitlements{canPublish: false}
	svc := newTestService(t, repo, ent)
	sellerID := uuid.New()
	product := seedProduct(repo, sellerID, func(p *models.Product) { p.Status = enums.ProductStatusSold })

	available := enums.ProductStatusAvailable
	_, err := svc.Update(context.Background(), product.ID, sellerID, UpdateProductInput{Status: &available}, time.Now().UTC())
	assertCode(t, err, pkgerrors.CodeStateConflict)

	ent.canPublish = true
	got, err := svc.Update(context.Background(), product.ID, sellerID, UpdateProductInput{Status: &available}, time.Now().UTC())
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if got.Status != enums.ProductStatusAvailable {
		t.Fatalf("expected available, got %s", got.Status)
	}
}

func TestServiceUpdateStatusWithinQuotaSkipsGate(t *testing.T) {
	repo := newStubRepo()
	ent := &stubEntitlements{}
	svc := newTestService(t, repo, ent)
	sellerID := uuid.New()
	product := seedProduct(repo, sellerID, nil)

	reserved := enums.ProductStatusReserved
	got, err := svc.Update(context.Background(), product.ID, sellerID, UpdateProductInput{Status: &reserved}, time.Now().UTC())
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if got.Status != enums.ProductStatusReserved {
		t.Fatalf("expected reserved, got %s", got.Status)
	}
	if ent.publishCalls != 0 {
		t.Fatal("available to reserved keeps the same quota, no gate expected")
	}
}

func TestServiceUpdateInvalidStatus(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo, &stubEntitlements{})
	sellerID := uuid.New()
	product := seedProduct(repo, sellerID, nil)

	bad := enums.ProductStatus("archivado")
	_, err := svc.Update(context.Background(), product.ID, sellerID, UpdateProductInput{Status: &bad}, time.Now().UTC())
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestServiceOwnership(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo, &stubEntitlements{})
	product := seedProduct(repo, uuid.New(), nil)

	_, err := svc.Update(context.Background(), product.ID, uuid.New(), UpdateProductInput{}, time.Now().UTC())
	assertCode(t, err, pkgerrors.CodeForbidden)

	_, err = svc.Update(context.Background(), uuid.New(), uuid.New(), UpdateProductInput{}, time.Now().UTC())
	assertCode(t, err, pkgerrors.CodeNotFound)
}

func TestServiceRemoveIsIdempotent(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo, &stubEntitlements{})
	sellerID := uuid.New()
	product := seedProduct(repo, sellerID, func(p *models.Product) { p.IsFeatured = true })

	if err := svc.Remove(context.Background(), product.ID, sellerID); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	stored := repo.byID[product.ID]
	if stored.Status != enums.ProductStatusRemoved {
		t.Fatalf("expected removed, got %s", stored.Status)
	}
	if stored.IsFeatured {
		t.Fatal("removal must unfeature the listing")
	}

	if err := svc.Remove(context.Background(), product.ID, sellerID); err != nil {
		t.Fatalf("second removal must be a no-op, got %v", err)
	}
	if len(repo.updated) != 1 {
		t.Fatalf("expected one update, got %d", len(repo.updated))
	}
}

func TestServiceListBuildsMeta(t *testing.T) {
	repo := newStubRepo()
	repo.listRows = []models.Product{*seedProduct(repo, uuid.New(), nil)}
	repo.listTotal = 45
	svc := newTestService(t, repo, &stubEntitlements{})

	result, err := svc.List(context.Background(), ListQuery{
		Pagination: pagination.Params{Page: 2, Limit: 20},
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if result.Meta.Total != 45 || result.Meta.TotalPages != 3 {
		t.Fatalf("unexpected meta %+v", result.Meta)
	}
	if len(result.Products) != 1 {
		t.Fatalf("expected one row, got %d", len(result.Products))
	}
}
