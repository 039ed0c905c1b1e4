package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"bolagsbron/pkg/core/valuation"
)

// SaveValuation persists one input/result pair. The three range scalars are
// broken out into columns for querying; everything else lives in JSONB.
// If an email is supplied, the user id is resolved best-effort; a missing
// user never blocks the write.
func (s *Store) SaveValuation(ctx context.Context, email string, in *valuation.FinancialInput, res *valuation.ValuationResult) error {
	var userID *string
	if email != "" {
		if id, err := s.LookupUserIDByEmail(ctx, email); err == nil {
			userID = &id
		} else {
			fmt.Printf("[STORE] User lookup for %s failed (continuing without): %v\n", email, err)
		}
	}

	inputJSON, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to marshal input: %w", err)
	}
	resultJSON, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO valuations (id, user_id, company_name, industry, input_json, result_json, most_likely, min_value, max_value)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		uuid.NewString(), userID, in.CompanyName, in.IndustryTag,
		inputJSON, resultJSON,
		res.ValuationRange.MostLikely, res.ValuationRange.Min, res.ValuationRange.Max,
	)
	if err != nil {
		return fmt.Errorf("failed to save valuation: %w", err)
	}
	return nil
}

// LookupUserIDByEmail resolves a registered user's id.
func (s *Store) LookupUserIDByEmail(ctx context.Context, email string) (string, error) {
	var id string
	err := s.pool.QueryRow(ctx, `SELECT id FROM users WHERE email = $1`, email).Scan(&id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return "", fmt.Errorf("no user registered with email %s", email)
		}
		return "", fmt.Errorf("user lookup failed: %w", err)
	}
	return id, nil
}
