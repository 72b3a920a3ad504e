// Package repository provides data access for financing rules.
package repository

import "context"

// Rule is one tier's installment terms for one financing provider.
// Fractions are stored as decimals (0.30 means 30%).
type Rule struct {
	ID                  int64
	Provider            string
	LevelName           string
	InitialPaymentPct   float64
	Installments        int
	ProviderDiscountPct float64
}

// Repository is the contract the calculator and the rule loader depend on.
type Repository interface {
	// GetRule fetches the unique rule for (provider, level). The level
	// match is case-insensitive so "nivel 1" finds "Nivel 1".
	GetRule(ctx context.Context, provider, levelName string) (Rule, error)

	// ListRules returns all rules for a provider ordered by level name.
	ListRules(ctx context.Context, provider string) ([]Rule, error)

	// ReplaceProviderRules deletes every rule for the provider and
	// inserts the given set in one transaction.
	ReplaceProviderRules(ctx context.Context, provider string, rules []Rule) error
}
