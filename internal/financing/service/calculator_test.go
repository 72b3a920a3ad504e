package service

import (
	"context"
	"testing"

	"namfulgor_backend/internal/financing/repository"
	"namfulgor_backend/platform/apperr"
	"namfulgor_backend/platform/logger"
)

type fakeRuleRepo struct {
	rules map[string]repository.Rule
}

func (f *fakeRuleRepo) GetRule(ctx context.Context, provider, levelName string) (repository.Rule, error) {
	rule, ok := f.rules[levelName]
	if !ok {
		return repository.Rule{}, apperr.NotFound("no financing rule for this level")
	}
	return rule, nil
}

func (f *fakeRuleRepo) ListRules(ctx context.Context, provider string) ([]repository.Rule, error) {
	var rules []repository.Rule
	for _, rule := range f.rules {
		rules = append(rules, rule)
	}
	return rules, nil
}

func (f *fakeRuleRepo) ReplaceProviderRules(ctx context.Context, provider string, rules []repository.Rule) error {
	return nil
}

func newTestCalculator(rules map[string]repository.Rule) *Calculator {
	return NewCalculator(&fakeRuleRepo{rules: rules}, "Cashea", nil, logger.New("development"))
}

func nivel1() map[string]repository.Rule {
	return map[string]repository.Rule{
		"Nivel 1": {
			Provider:            "Cashea",
			LevelName:           "Nivel 1",
			InitialPaymentPct:   0.30,
			Installments:        3,
			ProviderDiscountPct: 0.10,
		},
	}
}

func TestComputeDiscountBeforeInitialPayment(t *testing.T) {
	calc := newTestCalculator(nivel1())

	// base 100.00, discount 10% of the ORIGINAL price, then 30% initial
	// on the discounted price.
	plan, err := calc.Compute(context.Background(), 10000, "Nivel 1", true)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}

	if plan.DiscountAmountCents != 1000 {
		t.Fatalf("discount = %d cents, want 1000", plan.DiscountAmountCents)
	}
	if plan.TotalPriceCents != 9000 {
		t.Fatalf("effective price = %d cents, want 9000", plan.TotalPriceCents)
	}
	if plan.InitialPaymentCents != 2700 {
		t.Fatalf("initial payment = %d cents, want 2700", plan.InitialPaymentCents)
	}
	if plan.InstallmentAmountCents != 2100 {
		t.Fatalf("installment = %d cents, want 2100", plan.InstallmentAmountCents)
	}
	if plan.DiscountPercent != 10 {
		t.Fatalf("discount percent = %v, want 10", plan.DiscountPercent)
	}
}

func TestComputeNoDiscountInLocalCurrency(t *testing.T) {
	calc := newTestCalculator(nivel1())

	plan, err := calc.Compute(context.Background(), 10000, "Nivel 1", false)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}

	if plan.DiscountAmountCents != 0 {
		t.Fatalf("discount = %d cents, want 0", plan.DiscountAmountCents)
	}
	if plan.TotalPriceCents != 10000 {
		t.Fatalf("effective price = %d cents, want 10000", plan.TotalPriceCents)
	}
	if plan.InitialPaymentCents != 3000 {
		t.Fatalf("initial payment = %d cents, want 3000", plan.InitialPaymentCents)
	}
	if plan.DiscountPercent != 0 {
		t.Fatalf("discount percent = %v, want 0", plan.DiscountPercent)
	}
}

func TestComputeRoundingIsDeterministic(t *testing.T) {
	rules := map[string]repository.Rule{
		"Nivel X": {
			Provider:          "Cashea",
			LevelName:         "Nivel X",
			InitialPaymentPct: 0.0, // remaining equals the full price
			Installments:      3,
		},
	}
	calc := newTestCalculator(rules)

	// 63.01 / 3 = 21.003..., half-up to 21.00, identically every run.
	var first *Plan
	for i := 0; i < 100; i++ {
		plan, err := calc.Compute(context.Background(), 6301, "Nivel X", false)
		if err != nil {
			t.Fatalf("compute: %v", err)
		}
		if plan.InstallmentAmountCents != 2100 {
			t.Fatalf("installment = %d cents, want 2100", plan.InstallmentAmountCents)
		}
		if first == nil {
			first = &plan
		} else if *first != plan {
			t.Fatal("repeated computations must be identical")
		}
	}
}

func TestComputeZeroInstallmentsMeansSingleRemainder(t *testing.T) {
	rules := map[string]repository.Rule{
		"Contado": {
			Provider:          "Cashea",
			LevelName:         "Contado",
			InitialPaymentPct: 0.40,
			Installments:      0,
		},
	}
	calc := newTestCalculator(rules)

	plan, err := calc.Compute(context.Background(), 10000, "Contado", false)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if plan.InitialPaymentCents != 4000 {
		t.Fatalf("initial payment = %d cents, want 4000", plan.InitialPaymentCents)
	}
	// With no installments the full remainder is due as one amount.
	if plan.InstallmentAmountCents != 6000 {
		t.Fatalf("single remainder = %d cents, want 6000", plan.InstallmentAmountCents)
	}
}

func TestComputeUnknownLevelIsNotFound(t *testing.T) {
	calc := newTestCalculator(nivel1())

	_, err := calc.Compute(context.Background(), 10000, "Nivel 99", true)
	if err == nil {
		t.Fatal("expected an error for an unknown level")
	}
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("error kind = %v, want NotFound", apperr.GetKind(err))
	}
}

func TestComputeRejectsNonPositivePrice(t *testing.T) {
	calc := newTestCalculator(nivel1())

	for _, price := range []int64{0, -100} {
		if _, err := calc.Compute(context.Background(), price, "Nivel 1", false); !apperr.Is(err, apperr.KindValidation) {
			t.Fatalf("price %d: expected validation error, got %v", price, err)
		}
	}
}
