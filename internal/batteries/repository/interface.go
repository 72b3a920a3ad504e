// Package repository provides data access for the battery catalog.
package repository

import (
	"context"
	"time"
)

// Battery is a sellable battery SKU. The ID is derived deterministically
// from brand and model code by the import pipeline.
type Battery struct {
	ID                   string
	Brand                string
	ModelCode            string
	ItemName             string
	WarrantyMonths       int
	PriceRegularCents    int64
	PriceDiscountFXCents *int64
	Stock                int
	AdditionalData       map[string]interface{}
	UpdatedAt            time.Time
}

// PriceUpdate carries the admin price change for one battery. A nil
// discount clears the FX-discounted price.
type PriceUpdate struct {
	ID                   string
	PriceRegularCents    int64
	PriceDiscountFXCents *int64
}

// Repository is the battery catalog contract for the admin surface.
type Repository interface {
	List(ctx context.Context) ([]Battery, error)
	GetByID(ctx context.Context, id string) (Battery, error)
	UpdatePrices(ctx context.Context, update PriceUpdate) (Battery, error)
}
