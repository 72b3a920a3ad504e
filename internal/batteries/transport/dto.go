// Package transport defines the wire DTOs for the batteries module.
package transport

import (
	"time"

	"namfulgor_backend/internal/batteries/repository"
)

// UpdatePricesRequest is the admin price-change body. Omitting the
// discounted price clears it.
type UpdatePricesRequest struct {
	PriceRegularCents    int64  `json:"priceRegularCents" validate:"gte=0"`
	PriceDiscountFXCents *int64 `json:"priceDiscountFxCents"`
}

// BatteryView renders a catalog row.
type BatteryView struct {
	ID                   string    `json:"id"`
	Brand                string    `json:"brand"`
	ModelCode            string    `json:"modelCode"`
	ItemName             string    `json:"itemName"`
	WarrantyMonths       int       `json:"warrantyMonths"`
	PriceRegularCents    int64     `json:"priceRegularCents"`
	PriceDiscountFXCents *int64    `json:"priceDiscountFxCents,omitempty"`
	Stock                int       `json:"stock"`
	UpdatedAt            time.Time `json:"updatedAt"`
}

// FromBattery maps one repository row.
func FromBattery(b repository.Battery) BatteryView {
	return BatteryView{
		ID:                   b.ID,
		Brand:                b.Brand,
		ModelCode:            b.ModelCode,
		ItemName:             b.ItemName,
		WarrantyMonths:       b.WarrantyMonths,
		PriceRegularCents:    b.PriceRegularCents,
		PriceDiscountFXCents: b.PriceDiscountFXCents,
		Stock:                b.Stock,
		UpdatedAt:            b.UpdatedAt,
	}
}

// FromBatteries maps a catalog listing.
func FromBatteries(batteries []repository.Battery) []BatteryView {
	views := make([]BatteryView, 0, len(batteries))
	for _, b := range batteries {
		views = append(views, FromBattery(b))
	}
	return views
}
