// Package transport defines the wire DTOs for the financing module.
package transport

import "namfulgor_backend/internal/financing/repository"

// ComputePlanRequest asks for an installment plan. Prices travel as
// integer cents, matching the battery price representation.
type ComputePlanRequest struct {
	ProductPriceCents    int64  `json:"productPriceCents" binding:"required" validate:"required,gt=0"`
	UserLevel            string `json:"userLevel" binding:"required" validate:"required,min=1,max=50"`
	PayInForeignCurrency bool   `json:"payInForeignCurrency"`
}

// RuleView renders a stored financing rule.
type RuleView struct {
	Provider            string  `json:"provider"`
	LevelName           string  `json:"levelName"`
	InitialPaymentPct   float64 `json:"initialPaymentPct"`
	Installments        int     `json:"installments"`
	ProviderDiscountPct float64 `json:"providerDiscountPct"`
}

// FromRules maps repository rules onto the response shape.
func FromRules(rules []repository.Rule) []RuleView {
	views := make([]RuleView, 0, len(rules))
	for _, rule := range rules {
		views = append(views, RuleView{
			Provider:            rule.Provider,
			LevelName:           rule.LevelName,
			InitialPaymentPct:   rule.InitialPaymentPct,
			Installments:        rule.Installments,
			ProviderDiscountPct: rule.ProviderDiscountPct,
		})
	}
	return views
}
