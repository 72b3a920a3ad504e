package service

import (
	"fmt"
	"strings"

	"github.com/nyaruka/phonenumbers"

	finsvc "namfulgor_backend/internal/financing/service"
	fitsvc "namfulgor_backend/internal/fitment/service"
)

// renderSearchResult projects a resolution outcome into the flat map the
// model receives as the tool response.
func renderSearchResult(result fitsvc.Result) map[string]any {
	switch typed := result.(type) {
	case fitsvc.Success:
		batteries := make([]map[string]any, 0, len(typed.Batteries))
		for _, b := range typed.Batteries {
			entry := map[string]any{
				"brand":         b.Brand,
				"model":         b.ModelCode,
				"name":          b.ItemName,
				"warranty":      b.Warranty,
				"price_regular": formatCents(b.PriceRegularCents),
				"in_stock":      b.Stock > 0,
			}
			if b.PriceDiscountFXCents != nil {
				entry["price_foreign_currency_discount"] = formatCents(*b.PriceDiscountFXCents)
			}
			batteries = append(batteries, entry)
		}
		return map[string]any{
			"status":    fitsvc.Status(typed),
			"vehicle":   typed.VehicleKey,
			"batteries": batteries,
		}
	case fitsvc.ClarificationNeeded:
		options := make([]any, 0, len(typed.Options))
		for _, option := range typed.Options {
			options = append(options, option)
		}
		return map[string]any{
			"status":  fitsvc.Status(typed),
			"message": typed.Message,
			"options": options,
		}
	case fitsvc.NotFound:
		return map[string]any{
			"status":  fitsvc.Status(typed),
			"message": typed.Message,
		}
	default:
		return map[string]any{"status": "unknown"}
	}
}

// renderPlan flattens a financing plan for the model. Amounts are given
// as formatted dollars so the model never has to do cent arithmetic.
func renderPlan(plan finsvc.Plan) map[string]any {
	out := map[string]any{
		"level":              plan.LevelName,
		"initial_payment":    formatCents(plan.InitialPaymentCents),
		"installments":       plan.Installments,
		"installment_amount": formatCents(plan.InstallmentAmountCents),
		"total_price":        formatCents(plan.TotalPriceCents),
	}
	if plan.DiscountAmountCents > 0 {
		out["discount_percent"] = plan.DiscountPercent
		out["discount_amount"] = formatCents(plan.DiscountAmountCents)
	}
	return out
}

// formatCents renders an int64 cent amount as "$123.45".
func formatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}

// NormalizePhone converts a raw customer phone to E.164, defaulting to
// Venezuelan numbers. Unparseable input is passed through trimmed so the
// handoff payload never loses data.
func NormalizePhone(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	parsed, err := phonenumbers.Parse(raw, "VE")
	if err != nil || !phonenumbers.IsValidNumber(parsed) {
		return raw
	}
	return phonenumbers.Format(parsed, phonenumbers.E164)
}
