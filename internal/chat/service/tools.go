package service

import (
	"context"
	"math"
	"strconv"
	"strings"

	"google.golang.org/genai"

	"namfulgor_backend/internal/events"
)

const (
	toolSearchBatteries   = "search_vehicle_batteries"
	toolFinancingOptions  = "get_financing_options"
	toolRouteToSales      = "route_to_sales"
	toolRouteToSupport    = "route_to_support"
	departmentSales       = "sales"
	departmentSupport     = "support"
	msgRoutedConfirmation = "Listo, un asesor tomará la conversación en un momento."
)

func (a *Agent) toolDeclarations() []*genai.Tool {
	return []*genai.Tool{{
		FunctionDeclarations: []*genai.FunctionDeclaration{
			{
				Name:        toolSearchBatteries,
				Description: "Busca baterías compatibles con el vehículo descrito por el cliente.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"query": {
							Type:        genai.TypeString,
							Description: "Descripción del vehículo tal como la dio el cliente, ej. 'corolla 2012 1.8'.",
						},
					},
					Required: []string{"query"},
				},
			},
			{
				Name:        toolFinancingOptions,
				Description: "Calcula el plan de cuotas Cashea para un precio dado.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"product_price_cents": {
							Type:        genai.TypeInteger,
							Description: "Precio del producto en centavos de dólar.",
						},
						"user_level": {
							Type:        genai.TypeString,
							Description: "Nivel Cashea del cliente, ej. 'Nivel 1'.",
						},
						"pay_in_foreign_currency": {
							Type:        genai.TypeBoolean,
							Description: "Si el cliente pagará la inicial en divisas.",
						},
					},
					Required: []string{"product_price_cents", "user_level"},
				},
			},
			{
				Name:        toolRouteToSales,
				Description: "Transfiere la conversación a un asesor de ventas humano.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"reason": {
							Type:        genai.TypeString,
							Description: "Motivo breve de la transferencia.",
						},
					},
				},
			},
			{
				Name:        toolRouteToSupport,
				Description: "Transfiere la conversación a soporte por reclamos o problemas técnicos.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"reason": {
							Type:        genai.TypeString,
							Description: "Motivo breve de la transferencia.",
						},
					},
				},
			},
		},
	}}
}

// dispatch executes one tool call. Tool failures are returned to the
// model as error payloads so it can apologize in its own words; they
// never abort the loop.
func (a *Agent) dispatch(ctx context.Context, conv Conversation, call *genai.FunctionCall) map[string]any {
	switch call.Name {
	case toolSearchBatteries:
		return a.searchBatteries(ctx, call.Args)
	case toolFinancingOptions:
		return a.financingOptions(ctx, call.Args)
	case toolRouteToSales:
		return a.routeTo(ctx, conv, departmentSales, argString(call.Args, "reason"))
	case toolRouteToSupport:
		return a.routeTo(ctx, conv, departmentSupport, argString(call.Args, "reason"))
	default:
		return map[string]any{"error": "herramienta desconocida: " + call.Name}
	}
}

func (a *Agent) searchBatteries(ctx context.Context, args map[string]any) map[string]any {
	query := argString(args, "query")
	if query == "" {
		return map[string]any{"error": "se requiere la descripción del vehículo"}
	}

	result, err := a.searcher.Resolve(ctx, query)
	if err != nil {
		a.log.WithContext(ctx).Error("battery search tool failed", "error", err)
		return map[string]any{"error": "la búsqueda no está disponible en este momento"}
	}
	return renderSearchResult(result)
}

func (a *Agent) financingOptions(ctx context.Context, args map[string]any) map[string]any {
	priceCents := argInt64(args, "product_price_cents")
	level := argString(args, "user_level")
	if priceCents <= 0 || level == "" {
		return map[string]any{"error": "se requieren el precio y el nivel Cashea"}
	}

	plan, err := a.quoter.Compute(ctx, priceCents, level, argBool(args, "pay_in_foreign_currency"))
	if err != nil {
		a.log.WithContext(ctx).Error("financing tool failed", "error", err)
		return map[string]any{"error": "no se pudo calcular el financiamiento para ese nivel"}
	}
	return renderPlan(plan)
}

// routeTo hands the conversation to a human: pause the bot, move the
// conversation queue and announce the handoff on the bus.
func (a *Agent) routeTo(ctx context.Context, conv Conversation, department, reason string) map[string]any {
	if err := a.pauser.Pause(ctx, conv.ID); err != nil {
		a.log.WithContext(ctx).Error("failed to pause conversation for handoff", "error", err)
	}
	if a.departments != nil {
		if err := a.departments.UpdateConversationDepartment(ctx, conv.ID, department); err != nil {
			a.log.WithContext(ctx).Warn("failed to move conversation department", "error", err)
		}
	}

	if a.bus != nil {
		a.bus.Publish(ctx, events.ConversationRouted{
			BaseEvent:      events.NewBaseEvent(),
			ConversationID: conv.ID,
			Department:     department,
			CustomerName:   conv.CustomerName,
			CustomerPhone:  NormalizePhone(conv.CustomerPhone),
			Reason:         reason,
		})
	}

	return map[string]any{
		"status":     "routed",
		"department": department,
		"message":    msgRoutedConfirmation,
	}
}

func argString(args map[string]any, key string) string {
	if args == nil {
		return ""
	}
	if s, ok := args[key].(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

// argInt64 tolerates the JSON decoder handing numbers over as float64
// and the model occasionally quoting them as strings.
func argInt64(args map[string]any, key string) int64 {
	if args == nil {
		return 0
	}
	switch v := args[key].(type) {
	case float64:
		return int64(math.Round(v))
	case int64:
		return v
	case int:
		return int64(v)
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

func argBool(args map[string]any, key string) bool {
	if args == nil {
		return false
	}
	switch v := args[key].(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(strings.TrimSpace(v), "true")
	default:
		return false
	}
}
