package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"namfulgor_backend/platform/apperr"
)

const batteryNotFoundMessage = "battery not found"

const batteryColumns = `id, brand, model_code, item_name, warranty_months,
	price_regular_cents, price_discount_fx_cents, stock, additional_data, updated_at`

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new battery repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// List returns the whole catalog ordered by brand and model code.
func (r *Repo) List(ctx context.Context) ([]Battery, error) {
	query := `SELECT ` + batteryColumns + ` FROM batteries ORDER BY brand ASC, model_code ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list batteries: %w", err)
	}
	defer rows.Close()

	var batteries []Battery
	for rows.Next() {
		battery, err := scanBattery(rows)
		if err != nil {
			return nil, err
		}
		batteries = append(batteries, battery)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate batteries: %w", err)
	}

	return batteries, nil
}

// GetByID retrieves one battery.
func (r *Repo) GetByID(ctx context.Context, id string) (Battery, error) {
	query := `SELECT ` + batteryColumns + ` FROM batteries WHERE id = $1`

	row := r.pool.QueryRow(ctx, query, id)
	battery, err := scanBattery(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Battery{}, apperr.NotFound(batteryNotFoundMessage)
		}
		return Battery{}, err
	}

	return battery, nil
}

// UpdatePrices sets the regular and FX-discounted prices for a battery.
func (r *Repo) UpdatePrices(ctx context.Context, update PriceUpdate) (Battery, error) {
	query := `
		UPDATE batteries
		SET price_regular_cents = $2, price_discount_fx_cents = $3, updated_at = now()
		WHERE id = $1
		RETURNING ` + batteryColumns

	row := r.pool.QueryRow(ctx, query, update.ID, update.PriceRegularCents, update.PriceDiscountFXCents)
	battery, err := scanBattery(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Battery{}, apperr.NotFound(batteryNotFoundMessage)
		}
		return Battery{}, err
	}

	return battery, nil
}

func scanBattery(row pgx.Row) (Battery, error) {
	var b Battery
	if err := row.Scan(
		&b.ID, &b.Brand, &b.ModelCode, &b.ItemName, &b.WarrantyMonths,
		&b.PriceRegularCents, &b.PriceDiscountFXCents, &b.Stock, &b.AdditionalData, &b.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Battery{}, err
		}
		return Battery{}, fmt.Errorf("scan battery: %w", err)
	}
	return b, nil
}
