// Package transport defines the wire DTOs for the fitment module.
package transport

import "namfulgor_backend/internal/fitment/service"

// SearchRequest is the body of a vehicle battery search.
type SearchRequest struct {
	Query string `json:"query" binding:"required" validate:"required,min=1,max=500"`
}

// SearchResponse renders a resolution Result. Exactly one of the
// variant-specific field groups is populated, discriminated by Status.
type SearchResponse struct {
	Status     string                `json:"status"`
	VehicleKey string                `json:"vehicleKey,omitempty"`
	Batteries  []service.BatteryView `json:"batteries,omitempty"`
	Message    string                `json:"message,omitempty"`
	Options    []string              `json:"options,omitempty"`
}

// FromResult maps the service sum type onto the response DTO.
func FromResult(result service.Result) SearchResponse {
	switch typed := result.(type) {
	case service.Success:
		return SearchResponse{
			Status:     service.Status(result),
			VehicleKey: typed.VehicleKey,
			Batteries:  typed.Batteries,
		}
	case service.ClarificationNeeded:
		return SearchResponse{
			Status:  service.Status(result),
			Message: typed.Message,
			Options: typed.Options,
		}
	case service.NotFound:
		return SearchResponse{
			Status:  service.Status(result),
			Message: typed.Message,
		}
	default:
		return SearchResponse{Status: service.Status(result)}
	}
}
