package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aqlanhadi/mpx/extractor/common"
	"github.com/jackc/pgx/v5"
)

// StatementExists checks if a statement already exists using natural key
func (db *DB) StatementExists(ctx context.Context, accountID string, period string) (bool, string, error) {
	var id string
	err := db.Pool.QueryRow(ctx, `
		SELECT id FROM statements
		WHERE account_id = $1 AND period = $2
	`, accountID, period).Scan(&id)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, "", nil
		}
		return false, "", fmt.Errorf("failed to check statement: %w", err)
	}

	return true, id, nil
}

// CreateStatement inserts a new statement
func (db *DB) CreateStatement(ctx context.Context, accountID string, stmt common.Statement) (string, error) {
	var id string

	txStartDate, txEndDate := dateRange(stmt.Transactions)
	summary := stmt.Summary

	err := db.Pool.QueryRow(ctx, `
		INSERT INTO statements (
			account_id, source, period,
			initial_balance, final_balance, calculated_final_balance,
			total_credits, total_debits, total_transactions,
			avg_transaction, max_credit, max_debit,
			transaction_start_date, transaction_end_date
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id
	`,
		accountID, stmt.Source, stmt.Header.Period,
		stmt.Header.InitialBalance, stmt.Header.FinalBalance, stmt.CalculatedFinalBalance,
		summary.TotalCredits, summary.TotalDebits, summary.TotalTransactions,
		summary.AvgTransaction, summary.MaxCredit, summary.MaxDebit,
		txStartDate, txEndDate,
	).Scan(&id)

	if err != nil {
		return "", fmt.Errorf("failed to create statement: %w", err)
	}

	return id, nil
}

// DeleteStatement removes a statement and its transactions (cascade)
func (db *DB) DeleteStatement(ctx context.Context, statementID string) error {
	_, err := db.Pool.Exec(ctx, `DELETE FROM statements WHERE id = $1`, statementID)
	if err != nil {
		return fmt.Errorf("failed to delete statement: %w", err)
	}
	return nil
}

// dateRange returns the earliest and latest transaction dates, nil when there are none.
func dateRange(transactions []common.Transaction) (start, end *time.Time) {
	for _, tx := range transactions {
		date := tx.Date
		if start == nil || date.Before(*start) {
			start = &date
		}
		if end == nil || date.After(*end) {
			end = &date
		}
	}
	return start, end
}
