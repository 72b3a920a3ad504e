package service

import (
	"context"
	"testing"

	"namfulgor_backend/internal/batteries/repository"
	"namfulgor_backend/platform/apperr"
	"namfulgor_backend/platform/logger"
)

type fakeBatteryRepo struct {
	updated *repository.PriceUpdate
}

func (f *fakeBatteryRepo) List(ctx context.Context) ([]repository.Battery, error) {
	return nil, nil
}

func (f *fakeBatteryRepo) GetByID(ctx context.Context, id string) (repository.Battery, error) {
	return repository.Battery{ID: id}, nil
}

func (f *fakeBatteryRepo) UpdatePrices(ctx context.Context, update repository.PriceUpdate) (repository.Battery, error) {
	f.updated = &update
	return repository.Battery{
		ID:                   update.ID,
		PriceRegularCents:    update.PriceRegularCents,
		PriceDiscountFXCents: update.PriceDiscountFXCents,
	}, nil
}

func centsPtr(v int64) *int64 { return &v }

func TestUpdatePricesRejectsDiscountAboveRegular(t *testing.T) {
	repo := &fakeBatteryRepo{}
	svc := New(repo, logger.New("development"))

	_, err := svc.UpdatePrices(context.Background(), repository.PriceUpdate{
		ID:                   "fulgor_22fa",
		PriceRegularCents:    10000,
		PriceDiscountFXCents: centsPtr(12000),
	})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if repo.updated != nil {
		t.Fatal("invalid update must not reach the repository")
	}
}

func TestUpdatePricesRejectsNegativePrices(t *testing.T) {
	svc := New(&fakeBatteryRepo{}, logger.New("development"))

	cases := []repository.PriceUpdate{
		{ID: "x", PriceRegularCents: -1},
		{ID: "x", PriceRegularCents: 100, PriceDiscountFXCents: centsPtr(-5)},
	}
	for _, update := range cases {
		if _, err := svc.UpdatePrices(context.Background(), update); !apperr.Is(err, apperr.KindValidation) {
			t.Fatalf("update %+v: expected validation error, got %v", update, err)
		}
	}
}

func TestUpdatePricesAppliesValidChange(t *testing.T) {
	repo := &fakeBatteryRepo{}
	svc := New(repo, logger.New("development"))

	battery, err := svc.UpdatePrices(context.Background(), repository.PriceUpdate{
		ID:                   "fulgor_22fa",
		PriceRegularCents:    10000,
		PriceDiscountFXCents: centsPtr(9000),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if battery.PriceRegularCents != 10000 {
		t.Fatalf("regular = %d, want 10000", battery.PriceRegularCents)
	}
	if repo.updated == nil {
		t.Fatal("repository was not called")
	}
}
