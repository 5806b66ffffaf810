package postgres

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/aqlanhadi/mpx/extractor/common"
	"github.com/jackc/pgx/v5"
)

var spaceRegex = regexp.MustCompile(`\s+`)

// normalizeDescription collapses whitespace and uppercases
// Result: "PAGO EN SUPERMERCADO DIA"
func normalizeDescription(description string) string {
	return strings.ToUpper(strings.TrimSpace(spaceRegex.ReplaceAllString(description, " ")))
}

// CreateTransactions bulk inserts transactions for a statement
func (db *DB) CreateTransactions(ctx context.Context, statementID string, transactions []common.Transaction) error {
	if len(transactions) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, tx := range transactions {
		batch.Queue(`
			INSERT INTO transactions (
				statement_id, sequence, date, description, normalized_description, type, value, balance, operation_id
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`,
			statementID, tx.Sequence, tx.Date, tx.Description, normalizeDescription(tx.Description),
			tx.Type(), tx.Value, tx.Balance, tx.OperationID,
		)
	}

	br := db.Pool.SendBatch(ctx, batch)
	defer br.Close()

	for _, tx := range transactions {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("failed to insert transaction %d: %w", tx.Sequence, err)
		}
	}

	return nil
}
