package postgres

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchema_TransactionsTableHasInsertedColumns(t *testing.T) {
	start := strings.Index(ddl, "CREATE TABLE IF NOT EXISTS transactions (")
	require.GreaterOrEqual(t, start, 0)
	end := strings.Index(ddl[start:], ");")
	require.Greater(t, end, 0)
	table := ddl[start : start+end]

	for _, column := range []string{
		"statement_id", "sequence", "date", "description", "normalized_description",
		"type", "value", "balance", "operation_id",
	} {
		assert.Contains(t, table, "\n    "+column+" ", column)
	}
	assert.NotContains(t, ddl, "ALTER TABLE")
}
