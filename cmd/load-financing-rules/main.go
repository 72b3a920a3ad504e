// Command load-financing-rules bulk-replaces one provider's financing
// rules from a CSV file.
//
// Usage:
//
//	load-financing-rules -file rules.csv [-provider Cashea]
//
// The CSV has a header row and the columns
// level_name,initial_payment_pct,installments,provider_discount_pct
// with percentages as decimal fractions (0.30 means 30%).
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"namfulgor_backend/internal/financing/repository"
	"namfulgor_backend/platform/config"
	"namfulgor_backend/platform/db"
	"namfulgor_backend/platform/logger"
)

func main() {
	var (
		file     = flag.String("file", "", "path to the rules CSV file")
		provider = flag.String("provider", "", "financing provider (defaults to FINANCING_PROVIDER)")
	)
	flag.Parse()

	if *file == "" {
		fmt.Fprintln(os.Stderr, "usage: load-financing-rules -file rules.csv [-provider Cashea]")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Env)

	providerName := strings.TrimSpace(*provider)
	if providerName == "" {
		providerName = cfg.GetFinancingProvider()
	}

	rules, err := readRules(*file)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to read rules:", err)
		os.Exit(1)
	}
	if len(rules) == 0 {
		fmt.Fprintln(os.Stderr, "refusing to replace rules with an empty set")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to connect to database:", err)
		os.Exit(1)
	}
	defer pool.Close()

	repo := repository.New(pool)
	if err := repo.ReplaceProviderRules(ctx, providerName, rules); err != nil {
		fmt.Fprintln(os.Stderr, "failed to replace rules:", err)
		os.Exit(1)
	}

	log.Info("financing rules replaced", "provider", providerName, "rules", len(rules))
	for _, rule := range rules {
		fmt.Printf("%s: inicial %.0f%%, %d cuotas, descuento %.0f%%\n",
			rule.LevelName,
			rule.InitialPaymentPct*100,
			rule.Installments,
			rule.ProviderDiscountPct*100,
		)
	}
}

func readRules(path string) ([]repository.Rule, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) < 4 {
		return nil, fmt.Errorf("expected 4 columns, got %d", len(header))
	}

	var rules []repository.Rule
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line+1, err)
		}
		line++

		rule, err := parseRule(record)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rules = append(rules, rule)
	}

	return rules, nil
}

func parseRule(record []string) (repository.Rule, error) {
	if len(record) < 4 {
		return repository.Rule{}, fmt.Errorf("expected 4 columns, got %d", len(record))
	}

	levelName := strings.TrimSpace(record[0])
	if levelName == "" {
		return repository.Rule{}, fmt.Errorf("empty level name")
	}

	initialPct, err := parseFraction(record[1])
	if err != nil {
		return repository.Rule{}, fmt.Errorf("initial_payment_pct: %w", err)
	}

	installments, err := strconv.Atoi(strings.TrimSpace(record[2]))
	if err != nil || installments < 0 {
		return repository.Rule{}, fmt.Errorf("installments must be a non-negative integer")
	}

	discountPct, err := parseFraction(record[3])
	if err != nil {
		return repository.Rule{}, fmt.Errorf("provider_discount_pct: %w", err)
	}

	return repository.Rule{
		LevelName:           levelName,
		InitialPaymentPct:   initialPct,
		Installments:        installments,
		ProviderDiscountPct: discountPct,
	}, nil
}

func parseFraction(raw string) (float64, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, err
	}
	if value < 0 || value > 1 {
		return 0, fmt.Errorf("fraction %v out of range [0, 1]", value)
	}
	return value, nil
}
