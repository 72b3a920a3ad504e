// Package service implements the installment financing calculator.
// All money is int64 cents; every derived quantity is rounded half-up
// to the cent before it feeds the next step, so plan components always
// reconcile exactly.
package service

import (
	"context"
	"math"

	"namfulgor_backend/internal/events"
	"namfulgor_backend/internal/financing/repository"
	"namfulgor_backend/platform/apperr"
	"namfulgor_backend/platform/logger"
)

// Plan is a fully computed installment plan for one tier.
type Plan struct {
	LevelName              string  `json:"levelName"`
	InitialPaymentCents    int64   `json:"initialPaymentCents"`
	Installments           int     `json:"installments"`
	InstallmentAmountCents int64   `json:"installmentAmountCents"`
	TotalPriceCents        int64   `json:"totalPriceCents"`
	DiscountPercent        float64 `json:"discountPercent"`
	DiscountAmountCents    int64   `json:"discountAmountCents"`
}

// Calculator computes plans from stored percentage rules. The provider
// name is fixed per deployment.
type Calculator struct {
	repo     repository.Repository
	provider string
	bus      events.Bus
	log      *logger.Logger
}

// NewCalculator creates a financing calculator bound to one provider.
func NewCalculator(repo repository.Repository, provider string, bus events.Bus, log *logger.Logger) *Calculator {
	return &Calculator{
		repo:     repo,
		provider: provider,
		bus:      bus,
		log:      log,
	}
}

// Provider returns the provider this calculator serves.
func (c *Calculator) Provider() string {
	return c.provider
}

// Compute derives a plan for the given base price and tier.
//
// The discount, when the foreign-currency flag applies, is always taken
// from the original base price first; only then is the initial-payment
// fraction applied to the discounted price. Reversing that order
// changes the result.
func (c *Calculator) Compute(ctx context.Context, basePriceCents int64, levelName string, payInForeignCurrency bool) (Plan, error) {
	if basePriceCents <= 0 {
		return Plan{}, apperr.Validation("product price must be positive")
	}

	rule, err := c.repo.GetRule(ctx, c.provider, levelName)
	if err != nil {
		return Plan{}, err
	}

	var discountCents int64
	var discountPercent float64
	if payInForeignCurrency && rule.ProviderDiscountPct > 0 {
		discountCents = roundHalfUp(float64(basePriceCents) * rule.ProviderDiscountPct)
		discountPercent = rule.ProviderDiscountPct * 100
	}
	effectiveCents := basePriceCents - discountCents

	initialCents := roundHalfUp(float64(effectiveCents) * rule.InitialPaymentPct)
	remainingCents := effectiveCents - initialCents

	installmentCents := remainingCents
	if rule.Installments > 0 {
		installmentCents = roundHalfUp(float64(remainingCents) / float64(rule.Installments))
	}

	plan := Plan{
		LevelName:              rule.LevelName,
		InitialPaymentCents:    initialCents,
		Installments:           rule.Installments,
		InstallmentAmountCents: installmentCents,
		TotalPriceCents:        effectiveCents,
		DiscountPercent:        discountPercent,
		DiscountAmountCents:    discountCents,
	}

	c.log.WithContext(ctx).FinancingEvent(rule.LevelName, basePriceCents, discountCents > 0)
	if c.bus != nil {
		c.bus.Publish(ctx, events.FinancingQuoted{
			BaseEvent:      events.NewBaseEvent(),
			ConversationID: logger.ConversationIDFromContext(ctx),
			Provider:       c.provider,
			LevelName:      rule.LevelName,
			BasePriceCents: basePriceCents,
			DiscountUsed:   discountCents > 0,
		})
	}

	return plan, nil
}

// ListRules exposes the provider's rule set for the admin surface.
func (c *Calculator) ListRules(ctx context.Context) ([]repository.Rule, error) {
	return c.repo.ListRules(ctx, c.provider)
}

// roundHalfUp rounds a positive cent quantity half-up to the nearest
// whole cent. math.Round rounds half away from zero, which is half-up
// for the non-negative amounts this calculator works with.
func roundHalfUp(cents float64) int64 {
	return int64(math.Round(cents))
}
