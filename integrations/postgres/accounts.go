package postgres

import (
	"context"
	"fmt"

	"github.com/aqlanhadi/mpx/extractor/common"
)

// GetOrCreateAccount upserts the account identified by the header's CVU. Name and
// CUIT are only overwritten with non-empty values.
func (db *DB) GetOrCreateAccount(ctx context.Context, header common.StatementHeader) (string, error) {
	var id string

	err := db.Pool.QueryRow(ctx, `
		INSERT INTO accounts (cvu, name, cuit)
		VALUES ($1, $2, $3)
		ON CONFLICT (cvu) DO UPDATE
		SET name = CASE WHEN EXCLUDED.name != '' THEN EXCLUDED.name ELSE accounts.name END,
		    cuit = CASE WHEN EXCLUDED.cuit != '' THEN EXCLUDED.cuit ELSE accounts.cuit END,
		    updated_at = NOW()
		RETURNING id
	`, header.CVU, header.Name, header.CUIT).Scan(&id)

	if err != nil {
		return "", fmt.Errorf("failed to upsert account: %w", err)
	}

	return id, nil
}
