package postgres

import (
	"context"
	"fmt"
)

const ddl = `
-- Accounts table, one per CVU
CREATE TABLE IF NOT EXISTS accounts (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    cvu VARCHAR(50) NOT NULL,
    name VARCHAR(255) NOT NULL DEFAULT '',
    cuit VARCHAR(20) NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ DEFAULT NOW(),
    updated_at TIMESTAMPTZ DEFAULT NOW(),

    UNIQUE(cvu)
);

-- Statements table with natural key (account_id, period)
CREATE TABLE IF NOT EXISTS statements (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    account_id UUID NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
    source VARCHAR(255) NOT NULL,
    period VARCHAR(100) NOT NULL,
    initial_balance NUMERIC(18,2),
    final_balance NUMERIC(18,2),
    calculated_final_balance NUMERIC(18,2),
    total_credits NUMERIC(18,2) NOT NULL,
    total_debits NUMERIC(18,2) NOT NULL,
    total_transactions INTEGER NOT NULL,
    avg_transaction NUMERIC(18,2) NOT NULL,
    max_credit NUMERIC(18,2) NOT NULL,
    max_debit NUMERIC(18,2) NOT NULL,
    transaction_start_date DATE,
    transaction_end_date DATE,
    created_at TIMESTAMPTZ DEFAULT NOW(),

    -- Natural key for deduplication
    UNIQUE(account_id, period)
);

-- Transactions table
CREATE TABLE IF NOT EXISTS transactions (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    statement_id UUID NOT NULL REFERENCES statements(id) ON DELETE CASCADE,
    sequence INTEGER NOT NULL,
    date DATE NOT NULL,
    description TEXT NOT NULL,
    type VARCHAR(10) NOT NULL,
    value NUMERIC(18,2) NOT NULL,
    balance NUMERIC(18,2) NOT NULL,
    operation_id VARCHAR(64) NOT NULL DEFAULT '',
    -- collapsed and uppercased for matching
    normalized_description TEXT,
    created_at TIMESTAMPTZ DEFAULT NOW(),

    UNIQUE(statement_id, sequence)
);

-- Indexes for common queries
CREATE INDEX IF NOT EXISTS idx_statements_account_id ON statements(account_id);
CREATE INDEX IF NOT EXISTS idx_transactions_statement_id ON transactions(statement_id);
CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions(date);
-- operation ids repeat, so this index is not unique
CREATE INDEX IF NOT EXISTS idx_transactions_operation_id ON transactions(operation_id) WHERE operation_id != '';
`

// EnsureSchema creates tables if they don't exist
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.Pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
