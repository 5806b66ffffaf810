package mercadopago

import (
	"testing"
	"time"

	"github.com/aqlanhadi/mpx/extractor/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTransactions_SingleCredit(t *testing.T) {
	cfg := setupTestConfig(t)

	txs, results := parseTransactions([]string{"01-03-2024 Transfer received 123456 $ 1.500,00 $ 10.000,00"}, cfg)

	require.Len(t, txs, 1)
	tx := txs[0]
	assert.Equal(t, 1, tx.Sequence)
	assert.Equal(t, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), tx.Date)
	assert.Equal(t, "Transfer received", tx.Description)
	assert.Equal(t, "123456", tx.OperationID)
	assert.Equal(t, "1500", tx.Value.String())
	assert.Equal(t, "10000", tx.Balance.String())
	assert.Equal(t, common.TypeCredit, tx.Type())

	require.Len(t, results, 1)
	assert.Equal(t, common.LineMatched, results[0].Status)
	assert.Empty(t, results[0].Reason)
}

func TestParseTransactions_Debit(t *testing.T) {
	cfg := setupTestConfig(t)

	txs, _ := parseTransactions([]string{"05-03-2024 Pago en Supermercado Dia 222222222 $ -749,50 $ 9.250,50"}, cfg)

	require.Len(t, txs, 1)
	assert.Equal(t, "Pago en Supermercado Dia", txs[0].Description)
	assert.Equal(t, "-749.5", txs[0].Value.String())
	assert.Equal(t, "9250.5", txs[0].Balance.String())
	assert.Equal(t, common.TypeDebit, txs[0].Type())
}

func TestParseTransactions_TagsUnmatchedLines(t *testing.T) {
	cfg := setupTestConfig(t)

	lines := []string{
		"01-03-2024 First 1 $ 10,00 $ 10,00",
		"02-03-2024 Movement without amount",
		"31-02-2024 Impossible date 2 $ 5,00 $ 15,00",
		"03-03-2024 Second 3 $ -2,50 $ 7,50",
	}
	txs, results := parseTransactions(lines, cfg)

	require.Len(t, txs, 2)
	assert.Equal(t, "First", txs[0].Description)
	assert.Equal(t, 1, txs[0].Sequence)
	assert.Equal(t, "Second", txs[1].Description)
	assert.Equal(t, 2, txs[1].Sequence)

	require.Len(t, results, 4)
	assert.Equal(t, common.LineMatched, results[0].Status)
	assert.Equal(t, common.LineUnmatched, results[1].Status)
	assert.Equal(t, "no transaction pattern", results[1].Reason)
	assert.Equal(t, common.LineUnmatched, results[2].Status)
	assert.Contains(t, results[2].Reason, "31-02-2024")
	assert.Equal(t, common.LineMatched, results[3].Status)
	assert.Equal(t, 4, results[3].Number)
	assert.Equal(t, lines[3], results[3].Text)
}

func TestParseTransactions_UnreadableAmount(t *testing.T) {
	cfg := setupTestConfig(t)

	_, results := parseTransactions([]string{"01-03-2024 Broken 1 $ 1,2,3 $ 10,00"}, cfg)

	require.Len(t, results, 1)
	assert.Equal(t, common.LineUnmatched, results[0].Status)
	assert.Contains(t, results[0].Reason, "value")
}

func TestParseTransactions_Deterministic(t *testing.T) {
	cfg := setupTestConfig(t)
	extractor, err := New()
	require.NoError(t, err)

	lines := extractor.Reassemble(getTestStatementText())

	first, firstResults := parseTransactions(lines, cfg)
	second, secondResults := parseTransactions(lines, cfg)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Sequence, second[i].Sequence)
		assert.True(t, first[i].Date.Equal(second[i].Date))
		assert.Equal(t, first[i].Description, second[i].Description)
		assert.Equal(t, first[i].OperationID, second[i].OperationID)
		assert.True(t, first[i].Value.Equal(second[i].Value))
		assert.True(t, first[i].Balance.Equal(second[i].Balance))
	}
	assert.Equal(t, len(firstResults), len(secondResults))
}

func TestParseTransactions_DuplicateOperationIDsKept(t *testing.T) {
	cfg := setupTestConfig(t)

	txs, _ := parseTransactions([]string{
		"01-03-2024 Refund 999 $ 5,00 $ 5,00",
		"01-03-2024 Refund 999 $ 5,00 $ 10,00",
	}, cfg)

	assert.Len(t, txs, 2)
}

func TestParseTransactions_Empty(t *testing.T) {
	cfg := setupTestConfig(t)

	txs, results := parseTransactions(nil, cfg)

	assert.Empty(t, txs)
	assert.NotNil(t, txs)
	assert.Empty(t, results)
}
