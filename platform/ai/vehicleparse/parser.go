// Package vehicleparse extracts structured vehicle descriptions from free
// text using Gemini structured output.
// This is part of the platform layer and contains no business logic.
package vehicleparse

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"namfulgor_backend/platform/config"
	"namfulgor_backend/platform/logger"

	"google.golang.org/genai"
)

// ParsedVehicle is the structured form of a customer's vehicle description.
// Fields the model could not determine are left zero.
type ParsedVehicle struct {
	Make          string `json:"make"`
	Model         string `json:"model"`
	Year          int    `json:"year"`
	EngineDetails string `json:"engine_details"`
}

// Parser turns free-text vehicle descriptions into ParsedVehicle values.
type Parser struct {
	client *genai.Client
	model  string
	log    *logger.Logger
}

// NewParser creates a parser backed by the Gemini API. Returns an error if
// the client cannot be constructed.
func NewParser(ctx context.Context, cfg config.AIConfig, log *logger.Logger) (*Parser, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GetGeminiAPIKey(),
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &Parser{
		client: client,
		model:  cfg.GetGeminiParseModel(),
		log:    log,
	}, nil
}

// NewParserWithClient creates a parser on an existing client so the
// process shares one Gemini connection.
func NewParserWithClient(client *genai.Client, cfg config.AIConfig, log *logger.Logger) *Parser {
	return &Parser{
		client: client,
		model:  cfg.GetGeminiParseModel(),
		log:    log,
	}
}

var vehicleSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"make": {
			Type:        genai.TypeString,
			Description: "Vehicle manufacturer, e.g. 'Toyota'. Empty string if not mentioned.",
		},
		"model": {
			Type:        genai.TypeString,
			Description: "Vehicle model, e.g. 'Corolla'. Empty string if not mentioned.",
		},
		"year": {
			Type:        genai.TypeInteger,
			Description: "Four digit model year. 0 if not mentioned.",
		},
		"engine_details": {
			Type:        genai.TypeString,
			Description: "Engine or trim details, e.g. '4Cil', 'V6', '2.4'. Empty string if not mentioned.",
		},
	},
	Required: []string{"make", "model", "year", "engine_details"},
}

const parseInstruction = `Extract the vehicle described in the user's message.
The message is usually in Spanish and may contain typos, local brand
nicknames and extra chatter. Return only the fields you are confident
about; leave the rest empty. Do not guess a year that is not stated.`

// Parse extracts a vehicle description from free text. A nil error with a
// zero-valued ParsedVehicle means the model found no vehicle information.
func (p *Parser) Parse(ctx context.Context, text string) (ParsedVehicle, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return ParsedVehicle{}, nil
	}

	contents := []*genai.Content{
		genai.NewContentFromText(text, genai.RoleUser),
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.model, contents, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(parseInstruction, genai.RoleUser),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    vehicleSchema,
	})
	if err != nil {
		return ParsedVehicle{}, fmt.Errorf("generate content: %w", err)
	}

	raw := resp.Text()
	if raw == "" {
		return ParsedVehicle{}, nil
	}

	var parsed ParsedVehicle
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		if p.log != nil {
			p.log.Warn("vehicle parse returned malformed JSON", "error", err)
		}
		return ParsedVehicle{}, fmt.Errorf("decode vehicle JSON: %w", err)
	}

	parsed.Make = strings.TrimSpace(parsed.Make)
	parsed.Model = strings.TrimSpace(parsed.Model)
	parsed.EngineDetails = strings.TrimSpace(parsed.EngineDetails)
	if parsed.Year < 1900 || parsed.Year > 2100 {
		parsed.Year = 0
	}

	return parsed, nil
}

// IsEmpty reports whether no vehicle information was extracted.
func (v ParsedVehicle) IsEmpty() bool {
	return v.Make == "" && v.Model == "" && v.Year == 0 && v.EngineDetails == ""
}
