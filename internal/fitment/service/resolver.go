package service

import (
	"context"
	"fmt"
	"strings"

	"namfulgor_backend/internal/events"
	"namfulgor_backend/internal/fitment/domain"
	"namfulgor_backend/internal/fitment/makecache"
	"namfulgor_backend/internal/fitment/repository"
	"namfulgor_backend/platform/apperr"
	"namfulgor_backend/platform/logger"
)

const (
	msgNoVehicle    = "No pude identificar el vehículo que mencionas. ¿Podrías indicarme la marca, el modelo y el año?"
	msgNoBatteries  = "Encontré tu vehículo, pero aún no tenemos baterías registradas para él."
	msgNeedChoice   = "Encontré varias versiones de ese vehículo. ¿Cuál de estas corresponde al tuyo?"
	msgNoCandidates = "No encontré baterías compatibles para ese vehículo. ¿Podrías verificar la marca, el modelo y el año?"
)

// ParsedVehicle is the structured tuple recovered from free text.
// Absent fields are zero-valued.
type ParsedVehicle struct {
	Make          string
	Model         string
	Year          int
	EngineDetails string
}

// QueryParser extracts structured vehicle fields from free text. The
// resolver tolerates total failure: an error is treated as all-null.
type QueryParser interface {
	Parse(ctx context.Context, text string) (ParsedVehicle, error)
}

// Resolver orchestrates the multi-tier matching pipeline. All of its
// repository access is read-only; the only shared mutable state is the
// injected make cache.
type Resolver struct {
	repo      repository.Repository
	parser    QueryParser
	aliases   domain.AliasTable
	makes     *makecache.Cache
	threshold int
	limit     int
	bus       events.Bus
	log       *logger.Logger
}

// NewResolver wires the resolution pipeline. The alias table and fuzzy
// threshold are injected data, not constants, so tests can substitute
// them without patching.
func NewResolver(
	repo repository.Repository,
	parser QueryParser,
	aliases domain.AliasTable,
	makes *makecache.Cache,
	threshold int,
	limit int,
	bus events.Bus,
	log *logger.Logger,
) *Resolver {
	return &Resolver{
		repo:      repo,
		parser:    parser,
		aliases:   aliases,
		makes:     makes,
		threshold: threshold,
		limit:     limit,
		bus:       bus,
		log:       log,
	}
}

// Resolve turns a raw user query into a Result. Repository failures are
// the only condition returned as an error; every matching outcome,
// including total failure to identify a vehicle, is a Result variant.
func (r *Resolver) Resolve(ctx context.Context, rawQuery string) (Result, error) {
	rawQuery = strings.TrimSpace(rawQuery)
	if rawQuery == "" {
		result := NotFound{Message: msgNoVehicle}
		r.publish(ctx, rawQuery, ParsedVehicle{}, result, nil, 0)
		return result, nil
	}

	parsed := r.extract(ctx, rawQuery)
	if parsed.Make == "" {
		// Hard stop: never query the catalog without a make. An
		// unfiltered scan over all fitments is unacceptably imprecise.
		result := NotFound{Message: msgNoVehicle}
		r.publish(ctx, rawQuery, parsed, result, nil, 0)
		return result, nil
	}

	candidates, err := r.repo.SearchFitments(ctx, repository.SearchParams{
		Make:          parsed.Make,
		ModelKeywords: modelKeywords(parsed.Model),
		Year:          parsed.Year,
		Limit:         r.limit,
	})
	if err != nil {
		r.log.WithContext(ctx).DatabaseError("search fitments", err)
		return nil, apperr.Wrap(apperr.KindInternal, "vehicle search failed", err)
	}

	candidates = r.refineByEngine(ctx, candidates, parsed.EngineDetails)

	result, err := r.resolveCandidates(ctx, parsed, candidates)
	if err != nil {
		return nil, err
	}

	r.publish(ctx, rawQuery, parsed, result, candidates, batteryCount(result))
	return result, nil
}

// extract runs Stage 0: parser first, then alias scan, then fuzzy
// recovery against the cached make list. Returns zero-valued fields for
// whatever could not be recovered.
func (r *Resolver) extract(ctx context.Context, rawQuery string) ParsedVehicle {
	parsed, err := r.parser.Parse(ctx, rawQuery)
	if err != nil {
		r.log.WithContext(ctx).Warn("vehicle parser failed, falling back", "error", err)
		parsed = ParsedVehicle{}
	}

	if parsed.Make != "" {
		parsed.Make = r.aliases.Canonical(parsed.Make)
		return parsed
	}

	// Fallback tier 1: alias scan over the raw query, longest alias first.
	if canonical, matched, ok := r.aliases.ScanQuery(rawQuery); ok {
		return r.reparseRemainder(ctx, rawQuery, canonical, matched)
	}

	// Fallback tier 2: fuzzy match against the cached canonical makes.
	makes, err := r.makes.Get(ctx)
	if err != nil {
		r.log.WithContext(ctx).DatabaseError("list distinct makes", err)
		return parsed
	}
	if best, score, ok := domain.BestMake(strings.ToLower(rawQuery), makes, r.threshold); ok {
		r.log.WithContext(ctx).Debug("fuzzy make recovered", "make", best, "score", score)
		return r.reparseRemainder(ctx, rawQuery, best, best)
	}

	return parsed
}

// reparseRemainder strips the matched make tokens from the query and
// re-invokes the parser on the residue to recover model, year and engine
// details. Any of these may legitimately remain absent.
func (r *Resolver) reparseRemainder(ctx context.Context, rawQuery, canonical, matched string) ParsedVehicle {
	result := ParsedVehicle{Make: canonical}

	remainder := domain.StripTokens(rawQuery, matched, canonical)
	if remainder == "" {
		return result
	}

	reparsed, err := r.parser.Parse(ctx, remainder)
	if err != nil {
		r.log.WithContext(ctx).Warn("remainder parse failed", "error", err)
		return result
	}

	result.Model = reparsed.Model
	result.Year = reparsed.Year
	result.EngineDetails = reparsed.EngineDetails
	return result
}

// refineByEngine runs Stage 2: engine keywords filter with AND semantics
// over the candidate's combined descriptive text. The filter is never
// allowed to empty a non-empty candidate set; when it would, the
// pre-filter set is kept and the event is logged as a policy fallback.
func (r *Resolver) refineByEngine(ctx context.Context, candidates []repository.Fitment, engineDetails string) []repository.Fitment {
	if len(candidates) <= 1 {
		return candidates
	}
	keywords := engineKeywords(engineDetails)
	if len(keywords) == 0 {
		return candidates
	}

	refined := make([]repository.Fitment, 0, len(candidates))
	for _, candidate := range candidates {
		haystack := strings.ToLower(candidate.Model + " " + candidate.EngineDetails + " " + candidate.Notes)
		if containsAll(haystack, keywords) {
			refined = append(refined, candidate)
		}
	}

	if len(refined) == 0 {
		r.log.WithContext(ctx).Info("engine filter eliminated all candidates, keeping broader set",
			"engine_details", engineDetails, "candidates", len(candidates))
		return candidates
	}
	return refined
}

func (r *Resolver) resolveCandidates(ctx context.Context, parsed ParsedVehicle, candidates []repository.Fitment) (Result, error) {
	switch len(candidates) {
	case 0:
		return NotFound{Message: msgNoCandidates}, nil
	case 1:
		return r.resolveSingle(ctx, candidates[0])
	default:
		return r.mergeOrClarify(ctx, candidates)
	}
}

func (r *Resolver) resolveSingle(ctx context.Context, fitment repository.Fitment) (Result, error) {
	batteries, err := r.repo.GetBatteriesForFitment(ctx, fitment.ID)
	if err != nil {
		r.log.WithContext(ctx).DatabaseError("get batteries for fitment", err)
		return nil, apperr.Wrap(apperr.KindInternal, "battery lookup failed", err)
	}
	if len(batteries) == 0 {
		return NotFound{Message: msgNoBatteries}, nil
	}

	return Success{
		VehicleKey: VehicleKey(fitment),
		Batteries:  renderBatteries(batteries),
	}, nil
}

// mergeOrClarify decides whether ambiguity actually matters: candidates
// that all map to the identical battery-id set collapse into one merged
// vehicle description; otherwise the user has to pick.
func (r *Resolver) mergeOrClarify(ctx context.Context, candidates []repository.Fitment) (Result, error) {
	idSets := make([][]string, len(candidates))
	for i, candidate := range candidates {
		ids, err := r.repo.GetBatteryIDsForFitment(ctx, candidate.ID)
		if err != nil {
			r.log.WithContext(ctx).DatabaseError("get battery ids for fitment", err)
			return nil, apperr.Wrap(apperr.KindInternal, "battery lookup failed", err)
		}
		idSets[i] = ids
	}

	if allIdentical(idSets) && len(idSets[0]) > 0 {
		merged := mergeFitments(candidates)
		batteries, err := r.repo.GetBatteriesForFitment(ctx, candidates[0].ID)
		if err != nil {
			r.log.WithContext(ctx).DatabaseError("get batteries for fitment", err)
			return nil, apperr.Wrap(apperr.KindInternal, "battery lookup failed", err)
		}
		return Success{
			VehicleKey: merged,
			Batteries:  renderBatteries(batteries),
		}, nil
	}

	options := make([]string, 0, len(candidates))
	seen := make(map[string]struct{})
	for _, candidate := range candidates {
		option := VehicleKey(candidate)
		if _, dup := seen[option]; dup {
			continue
		}
		seen[option] = struct{}{}
		options = append(options, option)
	}

	return ClarificationNeeded{
		Message: msgNeedChoice,
		Options: options,
	}, nil
}

// VehicleKey renders a fitment as a human-readable identifier, e.g.
// "Chevrolet Aveo (2004-2010, 1.6L)".
func VehicleKey(f repository.Fitment) string {
	years := fmt.Sprintf("%d-%s", f.YearStart, yearEndLabel(f.YearEnd))
	if f.EngineDetails != "" {
		return fmt.Sprintf("%s %s (%s, %s)", f.Make, f.Model, years, f.EngineDetails)
	}
	return fmt.Sprintf("%s %s (%s)", f.Make, f.Model, years)
}

// mergeFitments builds the synthetic key for a merged candidate group:
// shared make, all distinct models joined, widest year span.
func mergeFitments(candidates []repository.Fitment) string {
	models := make([]string, 0, len(candidates))
	seen := make(map[string]struct{})
	minStart := candidates[0].YearStart
	maxEnd := candidates[0].YearEnd
	openEnded := candidates[0].YearEnd == nil

	for _, c := range candidates {
		if _, dup := seen[c.Model]; !dup {
			seen[c.Model] = struct{}{}
			models = append(models, c.Model)
		}
		if c.YearStart < minStart {
			minStart = c.YearStart
		}
		if c.YearEnd == nil {
			openEnded = true
		} else if maxEnd != nil && *c.YearEnd > *maxEnd {
			maxEnd = c.YearEnd
		}
	}
	if openEnded {
		maxEnd = nil
	}

	return fmt.Sprintf("%s %s (%d-%s)",
		candidates[0].Make,
		strings.Join(models, " / "),
		minStart,
		yearEndLabel(maxEnd),
	)
}

func yearEndLabel(yearEnd *int) string {
	if yearEnd == nil {
		return "presente"
	}
	return fmt.Sprintf("%d", *yearEnd)
}

func renderBatteries(batteries []repository.Battery) []BatteryView {
	views := make([]BatteryView, 0, len(batteries))
	for _, b := range batteries {
		views = append(views, BatteryView{
			Brand:                b.Brand,
			ModelCode:            b.ModelCode,
			ItemName:             b.ItemName,
			Warranty:             fmt.Sprintf("%d meses", b.WarrantyMonths),
			PriceRegularCents:    b.PriceRegularCents,
			PriceDiscountFXCents: b.PriceDiscountFXCents,
			Stock:                b.Stock,
		})
	}
	return views
}

// modelKeywords splits a parsed model on whitespace and hyphens, keeping
// only tokens longer than one rune.
func modelKeywords(model string) []string {
	fields := strings.FieldsFunc(model, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '-'
	})
	keywords := make([]string, 0, len(fields))
	for _, field := range fields {
		if len([]rune(field)) > 1 {
			keywords = append(keywords, field)
		}
	}
	return keywords
}

func engineKeywords(engineDetails string) []string {
	fields := strings.Fields(strings.ToLower(engineDetails))
	keywords := make([]string, 0, len(fields))
	for _, field := range fields {
		if len([]rune(field)) > 1 {
			keywords = append(keywords, field)
		}
	}
	return keywords
}

func containsAll(haystack string, keywords []string) bool {
	for _, keyword := range keywords {
		if !strings.Contains(haystack, keyword) {
			return false
		}
	}
	return true
}

func allIdentical(sets [][]string) bool {
	first := sets[0]
	for _, set := range sets[1:] {
		if len(set) != len(first) {
			return false
		}
		for i := range set {
			if set[i] != first[i] {
				return false
			}
		}
	}
	return true
}

func batteryCount(result Result) int {
	if success, ok := result.(Success); ok {
		return len(success.Batteries)
	}
	return 0
}

func (r *Resolver) publish(ctx context.Context, query string, parsed ParsedVehicle, result Result, candidates []repository.Fitment, batteries int) {
	status := Status(result)

	vehicleKey := ""
	var options []string
	switch typed := result.(type) {
	case Success:
		vehicleKey = typed.VehicleKey
	case ClarificationNeeded:
		options = typed.Options
	}

	r.log.WithContext(ctx).SearchEvent(query, status, vehicleKey, len(candidates))

	if r.bus == nil {
		return
	}
	r.bus.Publish(ctx, events.BatterySearchPerformed{
		BaseEvent:      events.NewBaseEvent(),
		ConversationID: logger.ConversationIDFromContext(ctx),
		Query:          query,
		Make:           parsed.Make,
		Model:          parsed.Model,
		Year:           parsed.Year,
		Status:         status,
		VehicleKey:     vehicleKey,
		Candidates:     options,
		BatteryCount:   batteries,
	})
}
