// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"namfulgor_backend/platform/events"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Fitment Domain Events
// =============================================================================

// BatterySearchPerformed is published after every vehicle battery lookup,
// regardless of outcome. The search log subscriber persists these for
// catalog-gap analysis.
type BatterySearchPerformed struct {
	BaseEvent
	ConversationID string   `json:"conversationId"`
	Query          string   `json:"query"`
	Make           string   `json:"make,omitempty"`
	Model          string   `json:"model,omitempty"`
	Year           int      `json:"year,omitempty"`
	Status         string   `json:"status"` // "success", "clarification_needed", "not_found"
	VehicleKey     string   `json:"vehicleKey,omitempty"`
	Candidates     []string `json:"candidates,omitempty"`
	BatteryCount   int      `json:"batteryCount"`
}

func (e BatterySearchPerformed) EventName() string { return "fitment.search.performed" }

// =============================================================================
// Financing Domain Events
// =============================================================================

// FinancingQuoted is published when installment options are computed for
// a customer.
type FinancingQuoted struct {
	BaseEvent
	ConversationID string `json:"conversationId"`
	Provider       string `json:"provider"`
	LevelName      string `json:"levelName"`
	BasePriceCents int64  `json:"basePriceCents"`
	DiscountUsed   bool   `json:"discountUsed"`
}

func (e FinancingQuoted) EventName() string { return "financing.quote.computed" }

// =============================================================================
// Chat Domain Events
// =============================================================================

// ConversationRouted is published when the assistant hands a conversation
// off to a human department.
type ConversationRouted struct {
	BaseEvent
	ConversationID string `json:"conversationId"`
	Department     string `json:"department"` // "sales" or "support"
	CustomerName   string `json:"customerName,omitempty"`
	CustomerPhone  string `json:"customerPhone,omitempty"`
	Reason         string `json:"reason,omitempty"`
}

func (e ConversationRouted) EventName() string { return "chat.conversation.routed" }
