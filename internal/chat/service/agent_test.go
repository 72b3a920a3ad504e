package service

import (
	"context"
	"fmt"
	"testing"

	"google.golang.org/genai"

	finsvc "namfulgor_backend/internal/financing/service"
	fitsvc "namfulgor_backend/internal/fitment/service"
	"namfulgor_backend/platform/logger"
)

type fakeSearcher struct {
	result fitsvc.Result
	err    error
	query  string
}

func (f *fakeSearcher) Resolve(ctx context.Context, query string) (fitsvc.Result, error) {
	f.query = query
	return f.result, f.err
}

type fakeQuoter struct {
	plan finsvc.Plan
	err  error
}

func (f *fakeQuoter) Compute(ctx context.Context, basePriceCents int64, levelName string, fx bool) (finsvc.Plan, error) {
	return f.plan, f.err
}

type fakePauser struct {
	paused map[string]bool
}

func (f *fakePauser) Pause(ctx context.Context, id string) error {
	if f.paused == nil {
		f.paused = make(map[string]bool)
	}
	f.paused[id] = true
	return nil
}

func (f *fakePauser) IsPaused(ctx context.Context, id string) (bool, error) {
	return f.paused[id], nil
}

type fakeMover struct {
	department string
}

func (f *fakeMover) UpdateConversationDepartment(ctx context.Context, id, department string) error {
	f.department = department
	return nil
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{
				Role:  genai.RoleModel,
				Parts: []*genai.Part{{Text: text}},
			},
		}},
	}
}

func callResponse(name string, args map[string]any) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{
				Role:  genai.RoleModel,
				Parts: []*genai.Part{{FunctionCall: &genai.FunctionCall{Name: name, Args: args}}},
			},
		}},
	}
}

func newTestAgent(searcher VehicleSearcher, quoter FinancingQuoter, pauser Pauser, mover DepartmentMover) *Agent {
	return &Agent{
		model:       "test-model",
		searcher:    searcher,
		quoter:      quoter,
		pauser:      pauser,
		departments: mover,
		log:         logger.New("development"),
	}
}

func TestReplyPlainText(t *testing.T) {
	agent := newTestAgent(&fakeSearcher{}, &fakeQuoter{}, &fakePauser{}, nil)
	agent.generate = func(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
		return textResponse("¡Hola! ¿En qué puedo ayudarte?"), nil
	}

	reply, err := agent.Reply(context.Background(), Conversation{ID: "7"}, "hola")
	if err != nil {
		t.Fatalf("Reply: %v", err)
	}
	if reply != "¡Hola! ¿En qué puedo ayudarte?" {
		t.Fatalf("unexpected reply %q", reply)
	}
}

func TestReplyRunsSearchToolThenAnswers(t *testing.T) {
	searcher := &fakeSearcher{result: fitsvc.Success{
		VehicleKey: "Toyota Corolla (2008-2014)",
		Batteries:  []fitsvc.BatteryView{{Brand: "Fulgor", ModelCode: "22FA", PriceRegularCents: 9500}},
	}}
	agent := newTestAgent(searcher, &fakeQuoter{}, &fakePauser{}, nil)

	turn := 0
	agent.generate = func(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
		turn++
		if turn == 1 {
			return callResponse(toolSearchBatteries, map[string]any{"query": "corolla 2012"}), nil
		}
		// The second turn must carry the model turn plus the tool response.
		if len(contents) != 3 {
			return nil, fmt.Errorf("expected 3 contents on second turn, got %d", len(contents))
		}
		return textResponse("Tenemos la Fulgor 22FA para tu Corolla."), nil
	}

	reply, err := agent.Reply(context.Background(), Conversation{ID: "7"}, "batería para corolla 2012")
	if err != nil {
		t.Fatalf("Reply: %v", err)
	}
	if searcher.query != "corolla 2012" {
		t.Fatalf("searcher got query %q", searcher.query)
	}
	if reply != "Tenemos la Fulgor 22FA para tu Corolla." {
		t.Fatalf("unexpected reply %q", reply)
	}
}

func TestReplyForcesTextAfterToolBudget(t *testing.T) {
	agent := newTestAgent(&fakeSearcher{result: fitsvc.NotFound{Message: "nada"}}, &fakeQuoter{}, &fakePauser{}, nil)

	turn := 0
	agent.generate = func(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
		turn++
		if turn <= maxToolRounds {
			if len(cfg.Tools) == 0 {
				return nil, fmt.Errorf("turn %d should still offer tools", turn)
			}
			return callResponse(toolSearchBatteries, map[string]any{"query": "algo"}), nil
		}
		if len(cfg.Tools) != 0 {
			return nil, fmt.Errorf("final turn must not offer tools")
		}
		return textResponse("No encontré tu vehículo, ¿me das más detalles?"), nil
	}

	reply, err := agent.Reply(context.Background(), Conversation{ID: "7"}, "busca algo")
	if err != nil {
		t.Fatalf("Reply: %v", err)
	}
	if turn != maxToolRounds+1 {
		t.Fatalf("expected %d turns, got %d", maxToolRounds+1, turn)
	}
	if reply == "" {
		t.Fatal("expected forced text reply")
	}
}

func TestReplyPropagatesGenerationError(t *testing.T) {
	agent := newTestAgent(&fakeSearcher{}, &fakeQuoter{}, &fakePauser{}, nil)
	agent.generate = func(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
		return nil, fmt.Errorf("quota exceeded")
	}

	if _, err := agent.Reply(context.Background(), Conversation{ID: "7"}, "hola"); err == nil {
		t.Fatal("expected error from failing generation")
	}
}

func TestDispatchRouteToSalesPausesAndMoves(t *testing.T) {
	pauser := &fakePauser{}
	mover := &fakeMover{}
	agent := newTestAgent(&fakeSearcher{}, &fakeQuoter{}, pauser, mover)

	out := agent.dispatch(context.Background(), Conversation{ID: "42", CustomerPhone: "0414 1234567"},
		&genai.FunctionCall{Name: toolRouteToSales, Args: map[string]any{"reason": "quiere comprar"}})

	if out["status"] != "routed" || out["department"] != departmentSales {
		t.Fatalf("unexpected handoff payload %v", out)
	}
	if !pauser.paused["42"] {
		t.Fatal("handoff must pause the conversation")
	}
	if mover.department != departmentSales {
		t.Fatalf("conversation moved to %q, want sales", mover.department)
	}
}

func TestDispatchFinancingToolValidatesArgs(t *testing.T) {
	agent := newTestAgent(&fakeSearcher{}, &fakeQuoter{}, &fakePauser{}, nil)

	out := agent.dispatch(context.Background(), Conversation{},
		&genai.FunctionCall{Name: toolFinancingOptions, Args: map[string]any{"user_level": "Nivel 1"}})
	if _, ok := out["error"]; !ok {
		t.Fatalf("missing price must yield a tool error, got %v", out)
	}
}

func TestDispatchSearchErrorBecomesToolError(t *testing.T) {
	agent := newTestAgent(&fakeSearcher{err: fmt.Errorf("db down")}, &fakeQuoter{}, &fakePauser{}, nil)

	out := agent.dispatch(context.Background(), Conversation{},
		&genai.FunctionCall{Name: toolSearchBatteries, Args: map[string]any{"query": "aveo"}})
	if _, ok := out["error"]; !ok {
		t.Fatalf("search failure must yield a tool error, got %v", out)
	}
}

func TestRenderSearchResultVariants(t *testing.T) {
	discount := int64(8500)
	success := renderSearchResult(fitsvc.Success{
		VehicleKey: "Chevrolet Aveo (2004-2010)",
		Batteries: []fitsvc.BatteryView{{
			Brand:                "Fulgor",
			ModelCode:            "22FA",
			PriceRegularCents:    9500,
			PriceDiscountFXCents: &discount,
			Stock:                3,
		}},
	})
	if success["status"] != "success" {
		t.Fatalf("status = %v", success["status"])
	}
	batteries := success["batteries"].([]map[string]any)
	if batteries[0]["price_regular"] != "$95.00" {
		t.Fatalf("price_regular = %v", batteries[0]["price_regular"])
	}
	if batteries[0]["price_foreign_currency_discount"] != "$85.00" {
		t.Fatalf("discount price = %v", batteries[0]["price_foreign_currency_discount"])
	}
	if batteries[0]["in_stock"] != true {
		t.Fatal("expected in_stock true")
	}

	clarification := renderSearchResult(fitsvc.ClarificationNeeded{
		Message: "elige", Options: []string{"a", "b"},
	})
	if clarification["status"] != "clarification_needed" {
		t.Fatalf("status = %v", clarification["status"])
	}
	if len(clarification["options"].([]any)) != 2 {
		t.Fatal("expected two options")
	}

	notFound := renderSearchResult(fitsvc.NotFound{Message: "nada"})
	if notFound["status"] != "not_found" || notFound["message"] != "nada" {
		t.Fatalf("not found payload %v", notFound)
	}
}

func TestRenderPlanOmitsZeroDiscount(t *testing.T) {
	plain := renderPlan(finsvc.Plan{
		LevelName:              "Nivel 1",
		InitialPaymentCents:    3000,
		Installments:           3,
		InstallmentAmountCents: 2333,
		TotalPriceCents:        10000,
	})
	if _, ok := plain["discount_amount"]; ok {
		t.Fatal("zero discount must be omitted")
	}
	if plain["initial_payment"] != "$30.00" {
		t.Fatalf("initial_payment = %v", plain["initial_payment"])
	}

	discounted := renderPlan(finsvc.Plan{
		LevelName:           "Nivel 1",
		DiscountPercent:     10,
		DiscountAmountCents: 1000,
		TotalPriceCents:     9000,
	})
	if discounted["discount_amount"] != "$10.00" {
		t.Fatalf("discount_amount = %v", discounted["discount_amount"])
	}
}

func TestFormatCents(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{0, "$0.00"},
		{5, "$0.05"},
		{9500, "$95.00"},
		{123456, "$1234.56"},
		{-250, "-$2.50"},
	}
	for _, tc := range cases {
		if got := formatCents(tc.cents); got != tc.want {
			t.Fatalf("formatCents(%d) = %q, want %q", tc.cents, got, tc.want)
		}
	}
}

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"0414-123-4567", "+584141234567"},
		{"+58 414 123 4567", "+584141234567"},
		{"", ""},
		{"no es un teléfono", "no es un teléfono"},
	}
	for _, tc := range cases {
		if got := NormalizePhone(tc.raw); got != tc.want {
			t.Fatalf("NormalizePhone(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestArgInt64Coercions(t *testing.T) {
	args := map[string]any{
		"float":  float64(9500),
		"string": "9500",
		"junk":   "abc",
	}
	if v := argInt64(args, "float"); v != 9500 {
		t.Fatalf("float arg = %d", v)
	}
	if v := argInt64(args, "string"); v != 9500 {
		t.Fatalf("string arg = %d", v)
	}
	if v := argInt64(args, "junk"); v != 0 {
		t.Fatalf("junk arg = %d", v)
	}
	if v := argInt64(args, "missing"); v != 0 {
		t.Fatalf("missing arg = %d", v)
	}
}
