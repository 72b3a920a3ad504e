// Package adapters contains thin translation layers between bounded
// contexts so modules only depend on their own interfaces.
package adapters

import (
	"context"

	fitsvc "namfulgor_backend/internal/fitment/service"
	"namfulgor_backend/platform/ai/vehicleparse"
)

// VehicleParseAdapter exposes the Gemini vehicle parser through the
// fitment resolver's QueryParser interface.
type VehicleParseAdapter struct {
	parser *vehicleparse.Parser
}

// NewVehicleParseAdapter wraps a parser for the fitment module.
func NewVehicleParseAdapter(parser *vehicleparse.Parser) *VehicleParseAdapter {
	return &VehicleParseAdapter{parser: parser}
}

// Parse translates the platform-level parse result into the resolver's
// vehicle tuple.
func (a *VehicleParseAdapter) Parse(ctx context.Context, text string) (fitsvc.ParsedVehicle, error) {
	parsed, err := a.parser.Parse(ctx, text)
	if err != nil {
		return fitsvc.ParsedVehicle{}, err
	}
	return fitsvc.ParsedVehicle{
		Make:          parsed.Make,
		Model:         parsed.Model,
		Year:          parsed.Year,
		EngineDetails: parsed.EngineDetails,
	}, nil
}

// NoopVehicleParser is used when AI is disabled: it extracts nothing,
// which pushes the resolver straight to its alias and fuzzy tiers.
type NoopVehicleParser struct{}

// Parse always returns an empty vehicle.
func (NoopVehicleParser) Parse(ctx context.Context, text string) (fitsvc.ParsedVehicle, error) {
	return fitsvc.ParsedVehicle{}, nil
}

var _ fitsvc.QueryParser = (*VehicleParseAdapter)(nil)
var _ fitsvc.QueryParser = NoopVehicleParser{}
