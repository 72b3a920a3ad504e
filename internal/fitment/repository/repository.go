package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultSearchLimit = 10

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new fitment repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// ListDistinctMakes returns every canonical make present in the catalog.
func (r *Repo) ListDistinctMakes(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT DISTINCT make FROM vehicle_fitments ORDER BY make ASC`)
	if err != nil {
		return nil, fmt.Errorf("list distinct makes: %w", err)
	}
	defer rows.Close()

	var makes []string
	for rows.Next() {
		var make string
		if err := rows.Scan(&make); err != nil {
			return nil, fmt.Errorf("scan make: %w", err)
		}
		makes = append(makes, make)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate makes: %w", err)
	}

	return makes, nil
}

// SearchFitments runs the Stage 1 staged filter. All conditions combine
// with AND; model keywords OR against each other on word boundaries so
// a keyword like "34" never matches inside "1341100".
func (r *Repo) SearchFitments(ctx context.Context, params SearchParams) ([]Fitment, error) {
	if strings.TrimSpace(params.Make) == "" {
		return nil, fmt.Errorf("search fitments: make is required")
	}

	limit := params.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	var sb strings.Builder
	sb.WriteString(`
		SELECT fitment_id, make, model, year_start, year_end,
		       COALESCE(engine_details, ''), COALESCE(notes, '')
		FROM vehicle_fitments
		WHERE LOWER(make) = LOWER($1)`)

	args := []interface{}{params.Make}

	if len(params.ModelKeywords) > 0 {
		clauses := make([]string, 0, len(params.ModelKeywords))
		for _, keyword := range params.ModelKeywords {
			args = append(args, `\m`+regexpEscape(keyword)+`\M`)
			clauses = append(clauses, fmt.Sprintf("model ~* $%d", len(args)))
		}
		sb.WriteString(" AND (" + strings.Join(clauses, " OR ") + ")")
	}

	if params.Year > 0 {
		args = append(args, params.Year)
		yearArg := len(args)
		sb.WriteString(fmt.Sprintf(" AND year_start <= $%d AND (year_end IS NULL OR year_end >= $%d)", yearArg, yearArg))
	}

	args = append(args, limit)
	sb.WriteString(fmt.Sprintf(" ORDER BY fitment_id ASC LIMIT $%d", len(args)))

	rows, err := r.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("search fitments: %w", err)
	}
	defer rows.Close()

	return scanFitments(rows)
}

// GetBatteriesForFitment returns the full battery rows linked to one fitment.
func (r *Repo) GetBatteriesForFitment(ctx context.Context, fitmentID int64) ([]Battery, error) {
	query := `
		SELECT b.id, b.brand, b.model_code, b.item_name, b.warranty_months,
		       b.price_regular_cents, b.price_discount_fx_cents, b.stock
		FROM batteries b
		JOIN battery_fitments bf ON bf.battery_id = b.id
		WHERE bf.fitment_id = $1
		ORDER BY b.brand ASC, b.model_code ASC`

	rows, err := r.pool.Query(ctx, query, fitmentID)
	if err != nil {
		return nil, fmt.Errorf("get batteries for fitment: %w", err)
	}
	defer rows.Close()

	var batteries []Battery
	for rows.Next() {
		var b Battery
		if err := rows.Scan(
			&b.ID, &b.Brand, &b.ModelCode, &b.ItemName, &b.WarrantyMonths,
			&b.PriceRegularCents, &b.PriceDiscountFXCents, &b.Stock,
		); err != nil {
			return nil, fmt.Errorf("scan battery: %w", err)
		}
		batteries = append(batteries, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate batteries: %w", err)
	}

	return batteries, nil
}

// GetBatteryIDsForFitment returns only the linked battery ids in stable order.
func (r *Repo) GetBatteryIDsForFitment(ctx context.Context, fitmentID int64) ([]string, error) {
	query := `
		SELECT battery_id
		FROM battery_fitments
		WHERE fitment_id = $1
		ORDER BY battery_id ASC`

	rows, err := r.pool.Query(ctx, query, fitmentID)
	if err != nil {
		return nil, fmt.Errorf("get battery ids for fitment: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan battery id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate battery ids: %w", err)
	}

	return ids, nil
}

func scanFitments(rows pgx.Rows) ([]Fitment, error) {
	var results []Fitment
	for rows.Next() {
		var f Fitment
		if err := rows.Scan(
			&f.ID, &f.Make, &f.Model, &f.YearStart, &f.YearEnd,
			&f.EngineDetails, &f.Notes,
		); err != nil {
			return nil, fmt.Errorf("scan fitment: %w", err)
		}
		results = append(results, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate fitments: %w", err)
	}

	return results, nil
}

// regexpEscape quotes regex metacharacters in a model keyword so user
// input never becomes a pattern.
func regexpEscape(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if strings.ContainsRune(`\.+*?()|[]{}^$`, r) {
			sb.WriteRune('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
