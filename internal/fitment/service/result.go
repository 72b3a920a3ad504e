// Package service implements the vehicle-fitment resolution engine: the
// staged matching pipeline that turns a free-text vehicle description
// into a disambiguated set of compatible batteries.
package service

// Result is the closed set of resolution outcomes. The three variants
// are the only implementations; call sites switch over them exhaustively.
type Result interface {
	isResult()
}

// Success carries the resolved vehicle and its compatible batteries.
type Success struct {
	VehicleKey string
	Batteries  []BatteryView
}

// ClarificationNeeded asks the caller to re-prompt the user with a
// choice between candidate vehicles. Not an error.
type ClarificationNeeded struct {
	Message string
	Options []string
}

// NotFound reports that no vehicle (or no inventory) could be resolved.
// An expected, frequent outcome, never surfaced as an error.
type NotFound struct {
	Message string
}

func (Success) isResult()             {}
func (ClarificationNeeded) isResult() {}
func (NotFound) isResult()            {}

// Status returns the wire-level discriminator for a result variant.
func Status(r Result) string {
	switch r.(type) {
	case Success:
		return "success"
	case ClarificationNeeded:
		return "clarification_needed"
	case NotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// BatteryView is the pure projection of a battery row rendered to callers.
type BatteryView struct {
	Brand                string `json:"brand"`
	ModelCode            string `json:"modelCode"`
	ItemName             string `json:"itemName"`
	Warranty             string `json:"warranty"`
	PriceRegularCents    int64  `json:"priceRegularCents"`
	PriceDiscountFXCents *int64 `json:"priceDiscountFxCents,omitempty"`
	Stock                int    `json:"stock"`
}
