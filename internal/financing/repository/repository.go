package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"namfulgor_backend/platform/apperr"
)

const ruleNotFoundMessage = "no financing rule for this level"

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new financing rules repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// GetRule fetches the unique rule for (provider, level), case-insensitive.
func (r *Repo) GetRule(ctx context.Context, provider, levelName string) (Rule, error) {
	query := `
		SELECT id, provider, level_name, initial_payment_pct, installments, provider_discount_pct
		FROM financing_rules
		WHERE LOWER(provider) = LOWER($1) AND LOWER(level_name) = LOWER($2)`

	var rule Rule
	err := r.pool.QueryRow(ctx, query, provider, levelName).Scan(
		&rule.ID, &rule.Provider, &rule.LevelName,
		&rule.InitialPaymentPct, &rule.Installments, &rule.ProviderDiscountPct,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Rule{}, apperr.NotFound(ruleNotFoundMessage)
		}
		return Rule{}, fmt.Errorf("get financing rule: %w", err)
	}

	return rule, nil
}

// ListRules returns all rules for a provider ordered by level name.
func (r *Repo) ListRules(ctx context.Context, provider string) ([]Rule, error) {
	query := `
		SELECT id, provider, level_name, initial_payment_pct, installments, provider_discount_pct
		FROM financing_rules
		WHERE LOWER(provider) = LOWER($1)
		ORDER BY level_name ASC`

	rows, err := r.pool.Query(ctx, query, provider)
	if err != nil {
		return nil, fmt.Errorf("list financing rules: %w", err)
	}
	defer rows.Close()

	var rules []Rule
	for rows.Next() {
		var rule Rule
		if err := rows.Scan(
			&rule.ID, &rule.Provider, &rule.LevelName,
			&rule.InitialPaymentPct, &rule.Installments, &rule.ProviderDiscountPct,
		); err != nil {
			return nil, fmt.Errorf("scan financing rule: %w", err)
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate financing rules: %w", err)
	}

	return rules, nil
}

// ReplaceProviderRules deletes every rule for the provider and inserts
// the given set atomically. Used by the offline loader.
func (r *Repo) ReplaceProviderRules(ctx context.Context, provider string, rules []Rule) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin replace rules: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM financing_rules WHERE LOWER(provider) = LOWER($1)`, provider); err != nil {
		return fmt.Errorf("delete provider rules: %w", err)
	}

	for _, rule := range rules {
		_, err := tx.Exec(ctx, `
			INSERT INTO financing_rules (provider, level_name, initial_payment_pct, installments, provider_discount_pct)
			VALUES ($1, $2, $3, $4, $5)`,
			provider, rule.LevelName, rule.InitialPaymentPct, rule.Installments, rule.ProviderDiscountPct,
		)
		if err != nil {
			return fmt.Errorf("insert rule %q: %w", rule.LevelName, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit replace rules: %w", err)
	}

	return nil
}
