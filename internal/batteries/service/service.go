// Package service implements catalog maintenance rules for batteries.
package service

import (
	"context"

	"namfulgor_backend/internal/batteries/repository"
	"namfulgor_backend/platform/apperr"
	"namfulgor_backend/platform/logger"
)

// Service wraps the battery repository with admin-side validation.
type Service struct {
	repo repository.Repository
	log  *logger.Logger
}

// New creates a new battery service.
func New(repo repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// List returns the whole catalog.
func (s *Service) List(ctx context.Context) ([]repository.Battery, error) {
	return s.repo.List(ctx)
}

// GetByID retrieves one battery.
func (s *Service) GetByID(ctx context.Context, id string) (repository.Battery, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdatePrices validates and applies an admin price change. The
// FX-discounted price may never exceed the regular price.
func (s *Service) UpdatePrices(ctx context.Context, update repository.PriceUpdate) (repository.Battery, error) {
	if update.PriceRegularCents < 0 {
		return repository.Battery{}, apperr.Validation("regular price must be non-negative")
	}
	if update.PriceDiscountFXCents != nil {
		if *update.PriceDiscountFXCents < 0 {
			return repository.Battery{}, apperr.Validation("discounted price must be non-negative")
		}
		if *update.PriceDiscountFXCents > update.PriceRegularCents {
			return repository.Battery{}, apperr.Validation("discounted price cannot exceed regular price")
		}
	}

	battery, err := s.repo.UpdatePrices(ctx, update)
	if err != nil {
		return repository.Battery{}, err
	}

	s.log.WithContext(ctx).Info("battery prices updated",
		"battery_id", battery.ID,
		"price_regular_cents", battery.PriceRegularCents,
	)

	return battery, nil
}
