// Package repository provides data access for vehicle fitments and their
// linked battery products.
package repository

import "context"

// Fitment is one vehicle configuration eligible for a set of batteries.
// A nil YearEnd means the range is open-ended ("to present").
type Fitment struct {
	ID            int64
	Make          string
	Model         string
	YearStart     int
	YearEnd       *int
	EngineDetails string
	Notes         string
}

// Battery is a sellable battery SKU as linked to a fitment.
type Battery struct {
	ID                   string
	Brand                string
	ModelCode            string
	ItemName             string
	WarrantyMonths       int
	PriceRegularCents    int64
	PriceDiscountFXCents *int64
	Stock                int
}

// SearchParams drives the staged fitment filter. Make is mandatory and
// matched exactly (case-insensitive); ModelKeywords use OR semantics on
// word boundaries; Year of 0 means "not specified".
type SearchParams struct {
	Make          string
	ModelKeywords []string
	Year          int
	Limit         int
}

// Repository is the read-side contract the resolver depends on.
type Repository interface {
	// ListDistinctMakes returns every canonical make present in the catalog.
	ListDistinctMakes(ctx context.Context) ([]string, error)

	// SearchFitments runs the Stage 1 filter. Make exact, model keywords
	// OR'd, year inside [year_start, year_end] with NULL year_end open.
	SearchFitments(ctx context.Context, params SearchParams) ([]Fitment, error)

	// GetBatteriesForFitment returns the full battery rows linked to one fitment.
	GetBatteriesForFitment(ctx context.Context, fitmentID int64) ([]Battery, error)

	// GetBatteryIDsForFitment returns only the linked battery ids, used to
	// decide whether ambiguous candidates can be merged.
	GetBatteryIDsForFitment(ctx context.Context, fitmentID int64) ([]string, error)
}
