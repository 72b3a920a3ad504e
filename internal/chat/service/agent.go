// Package service implements the conversational agent: a Gemini chat
// loop that exposes the fitment resolver and financing calculator as
// tools and turns their results into customer replies.
package service

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"namfulgor_backend/internal/events"
	finsvc "namfulgor_backend/internal/financing/service"
	fitsvc "namfulgor_backend/internal/fitment/service"
	"namfulgor_backend/platform/config"
	"namfulgor_backend/platform/logger"
)

// FallbackReply is sent whenever the agent cannot produce an answer.
// Failures must never leak stack traces or English into the chat.
const FallbackReply = "Disculpa, estoy presentando inconvenientes técnicos en este momento. " +
	"Un miembro de nuestro equipo te atenderá en breve."

// maxToolRounds bounds how many times the model may call tools before
// it is forced to answer in plain text.
const maxToolRounds = 2

const systemPrompt = `Eres el asistente virtual de una tienda de baterías para vehículos en Venezuela.
Tu trabajo es ayudar al cliente a encontrar la batería correcta para su vehículo
y explicarle las opciones de financiamiento con Cashea.

Reglas:
- Responde siempre en español, de forma breve y amable.
- Para buscar baterías usa la herramienta search_vehicle_batteries con la
  descripción del vehículo tal como la dio el cliente.
- Si la búsqueda pide aclaración, presenta las opciones al cliente y pídele
  que elija una.
- Para cuotas usa get_financing_options con el precio en centavos.
- Los precios están en dólares. Muestra siempre el precio con descuento por
  pago en divisas cuando exista.
- Si el cliente quiere concretar una compra usa route_to_sales. Si tiene un
  reclamo o un problema técnico usa route_to_support.
- Nunca inventes precios, modelos ni disponibilidad.`

// VehicleSearcher resolves free-text vehicle descriptions to batteries.
type VehicleSearcher interface {
	Resolve(ctx context.Context, query string) (fitsvc.Result, error)
}

// FinancingQuoter computes installment plans.
type FinancingQuoter interface {
	Compute(ctx context.Context, basePriceCents int64, levelName string, payInForeignCurrency bool) (finsvc.Plan, error)
}

// Pauser silences the bot for conversations taken over by humans.
type Pauser interface {
	Pause(ctx context.Context, conversationID string) error
	IsPaused(ctx context.Context, conversationID string) (bool, error)
}

// DepartmentMover reassigns a conversation to a human queue on the chat
// platform. Implemented by the Support Board client.
type DepartmentMover interface {
	UpdateConversationDepartment(ctx context.Context, conversationID, department string) error
}

// Conversation identifies the customer turn being answered.
type Conversation struct {
	ID            string
	CustomerName  string
	CustomerPhone string
}

type generateFunc func(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)

// Agent runs the tool-calling conversation loop.
type Agent struct {
	generate    generateFunc
	model       string
	searcher    VehicleSearcher
	quoter      FinancingQuoter
	pauser      Pauser
	departments DepartmentMover
	bus         events.Bus
	log         *logger.Logger
}

// NewAgent builds the agent on a shared genai client.
func NewAgent(
	client *genai.Client,
	cfg config.AIConfig,
	searcher VehicleSearcher,
	quoter FinancingQuoter,
	pauser Pauser,
	departments DepartmentMover,
	bus events.Bus,
	log *logger.Logger,
) *Agent {
	return &Agent{
		generate:    client.Models.GenerateContent,
		model:       cfg.GetGeminiChatModel(),
		searcher:    searcher,
		quoter:      quoter,
		pauser:      pauser,
		departments: departments,
		bus:         bus,
		log:         log,
	}
}

// Reply answers one customer message. The returned text is ready to be
// posted back to the conversation; errors mean the caller should send
// FallbackReply instead.
func (a *Agent) Reply(ctx context.Context, conv Conversation, message string) (string, error) {
	ctx = logger.ContextWithConversationID(ctx, conv.ID)

	contents := []*genai.Content{
		genai.NewContentFromText(message, genai.RoleUser),
	}

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		Tools:             a.toolDeclarations(),
	}

	for round := 0; round <= maxToolRounds; round++ {
		if round == maxToolRounds {
			// Out of tool budget; force a plain-text answer.
			cfg = &genai.GenerateContentConfig{
				SystemInstruction: cfg.SystemInstruction,
			}
		}

		resp, err := a.generate(ctx, a.model, contents, cfg)
		if err != nil {
			return "", fmt.Errorf("chat generation: %w", err)
		}

		calls := resp.FunctionCalls()
		if len(calls) == 0 {
			text := strings.TrimSpace(resp.Text())
			if text == "" {
				return "", fmt.Errorf("chat generation returned no text")
			}
			return text, nil
		}

		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
			return "", fmt.Errorf("chat generation returned calls without content")
		}
		contents = append(contents, resp.Candidates[0].Content)

		parts := make([]*genai.Part, 0, len(calls))
		for _, call := range calls {
			a.log.WithContext(ctx).Debug("tool call", "tool", call.Name)
			parts = append(parts, genai.NewPartFromFunctionResponse(call.Name, a.dispatch(ctx, conv, call)))
		}
		contents = append(contents, genai.NewContentFromParts(parts, genai.RoleUser))
	}

	return "", fmt.Errorf("chat loop ended without a text answer")
}
