package export

import (
	"bytes"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/aqlanhadi/mpx/config"
	"github.com/aqlanhadi/mpx/extractor/common"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func testStatement() common.Statement {
	date := func(day int) time.Time { return time.Date(2024, time.March, day, 0, 0, 0, 0, time.UTC) }
	transactions := []common.Transaction{
		{Sequence: 1, Date: date(1), Description: "Transferencia recibida Juan Perez", OperationID: "111111111", Value: decimal.RequireFromString("1500"), Balance: decimal.RequireFromString("10000")},
		{Sequence: 2, Date: date(5), Description: "Pago en Supermercado Dia", OperationID: "222222222", Value: decimal.RequireFromString("-749.5"), Balance: decimal.RequireFromString("9250.5")},
		{Sequence: 3, Date: date(10), Description: "Ajuste de saldo", OperationID: "333333333", Value: decimal.Zero, Balance: decimal.RequireFromString("9250.5")},
	}
	return common.Statement{
		Source: "statement",
		Header: common.StatementHeader{
			Name:           "Jane Doe",
			CVU:            "0000003100000000000001",
			InitialBalance: decimal.NewNullDecimal(decimal.RequireFromString("8500")),
		},
		Transactions: transactions,
		Summary:      common.Summarize(transactions),
	}
}

func readBack(t *testing.T, path string) *excelize.File {
	t.Helper()
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func rawRows(t *testing.T, f *excelize.File, sheet string) [][]string {
	t.Helper()
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	return rows
}

func TestPartition(t *testing.T) {
	stmt := testStatement()

	debits, credits, zero := Partition(stmt.Transactions)

	require.Len(t, debits, 1)
	require.Len(t, credits, 1)
	require.Len(t, zero, 1)
	assert.Equal(t, 2, debits[0].Sequence)
	assert.Equal(t, 1, credits[0].Sequence)
	assert.Equal(t, 3, zero[0].Sequence)
	assert.Equal(t, len(stmt.Transactions), len(debits)+len(credits)+len(zero))
}

func TestPartition_KeepsOrder(t *testing.T) {
	transactions := []common.Transaction{
		{Sequence: 1, Value: decimal.NewFromInt(-1)},
		{Sequence: 2, Value: decimal.NewFromInt(5)},
		{Sequence: 3, Value: decimal.NewFromInt(-3)},
		{Sequence: 4, Value: decimal.NewFromInt(-2)},
	}

	debits, credits, zero := Partition(transactions)

	require.Len(t, debits, 3)
	assert.Equal(t, []int{1, 3, 4}, []int{debits[0].Sequence, debits[1].Sequence, debits[2].Sequence})
	assert.Len(t, credits, 1)
	assert.Empty(t, zero)
}

func TestTables_SheetOrder(t *testing.T) {
	tables := Tables(testStatement(), DefaultSheetNames())

	var sheets []string
	for _, table := range tables {
		sheets = append(sheets, table.Sheet)
	}
	assert.Equal(t, []string{"Transactions", "Additions", "Zero Value", "Account Info", "Summary"}, sheets)
}

func TestTables_NoZeroValueSheet(t *testing.T) {
	stmt := testStatement()
	stmt.Transactions = stmt.Transactions[:2]

	tables := Tables(stmt, DefaultSheetNames())

	assert.Len(t, tables, 4)
	for _, table := range tables {
		assert.NotEqual(t, "Zero Value", table.Sheet)
	}
}

func TestTables_AccountInfoOnlyFoundFields(t *testing.T) {
	tables := Tables(testStatement(), DefaultSheetNames())

	account := tables[3]
	assert.Equal(t, []string{"name", "cvu", "initial_balance"}, account.Columns)
	require.Len(t, account.Rows, 1)
	assert.Equal(t, []interface{}{"Jane Doe", "0000003100000000000001", 8500.0}, account.Rows[0])
}

func TestTables_EmptyStatement(t *testing.T) {
	stmt := common.Statement{Summary: common.Summarize(nil)}

	tables := Tables(stmt, DefaultSheetNames())

	require.Len(t, tables, 4)
	assert.Empty(t, tables[0].Rows)
	assert.Empty(t, tables[1].Rows)
	assert.Empty(t, tables[2].Columns)
	assert.Equal(t, []interface{}{0.0, 0.0, 0, 0.0, 0.0, 0.0}, tables[3].Rows[0])
}

func TestSheetNamesFromConfig(t *testing.T) {
	require.NoError(t, config.UseDefaults())
	viper.Set("sheets.credits", "Credits")
	viper.Set("sheets.summary", "")
	t.Cleanup(func() { _ = config.UseDefaults() })

	names := SheetNamesFromConfig()

	assert.Equal(t, "Credits", names.Credits)
	assert.Equal(t, "Transactions", names.Debits)
	assert.Equal(t, "Summary", names.Summary)
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")

	require.NoError(t, WriteFile(path, Tables(testStatement(), DefaultSheetNames())))

	f := readBack(t, path)
	assert.Equal(t, []string{"Transactions", "Additions", "Zero Value", "Account Info", "Summary"}, f.GetSheetList())

	debits := rawRows(t, f, "Transactions")
	require.Len(t, debits, 2)
	assert.Equal(t, []string{"date", "description", "operation_id", "value", "balance"}, debits[0])
	assert.Equal(t, "Pago en Supermercado Dia", debits[1][1])
	assert.Equal(t, "222222222", debits[1][2])
	assert.Equal(t, "-749.5", debits[1][3])
	assert.Equal(t, "9250.5", debits[1][4])

	serial, err := strconv.ParseFloat(debits[1][0], 64)
	require.NoError(t, err)
	date, err := excelize.ExcelDateToTime(serial, false)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-05", date.Format("2006-01-02"))

	credits := rawRows(t, f, "Additions")
	require.Len(t, credits, 2)
	assert.Equal(t, "Transferencia recibida Juan Perez", credits[1][1])
	assert.Equal(t, "1500", credits[1][3])

	zero := rawRows(t, f, "Zero Value")
	require.Len(t, zero, 2)
	assert.Equal(t, "Ajuste de saldo", zero[1][1])

	summary := rawRows(t, f, "Summary")
	require.Len(t, summary, 2)
	assert.Equal(t, []string{"1500", "-749.5", "3", "250.17", "1500", "-749.5"}, summary[1])
}

func TestWriteFile_ColumnWidths(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, WriteFile(path, Tables(testStatement(), DefaultSheetNames())))

	f := readBack(t, path)

	// longest description + 2
	width, err := f.GetColWidth("Additions", "B")
	require.NoError(t, err)
	assert.Equal(t, float64(len("Transferencia recibida Juan Perez")+2), width)

	// header is longer than the value
	width, err = f.GetColWidth("Summary", "C")
	require.NoError(t, err)
	assert.Equal(t, float64(len("total_transactions")+2), width)

	width, err = f.GetColWidth("Transactions", "A")
	require.NoError(t, err)
	assert.Equal(t, float64(dateWidth+2), width)
}

func TestWriteFile_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, WriteFile(path, Tables(testStatement(), DefaultSheetNames())))

	require.NoError(t, WriteFile(path, Tables(common.Statement{Summary: common.Summarize(nil)}, DefaultSheetNames())))

	f := readBack(t, path)
	assert.Equal(t, []string{"Transactions", "Additions", "Account Info", "Summary"}, f.GetSheetList())
}

func TestWriteFile_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "out.xlsx")

	err := WriteFile(path, Tables(testStatement(), DefaultSheetNames()))
	assert.Error(t, err)
}

func TestWriteFile_NoTables(t *testing.T) {
	err := WriteFile(filepath.Join(t.TempDir(), "out.xlsx"), nil)
	assert.Error(t, err)
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, Tables(testStatement(), DefaultSheetNames())))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows := rawRows(t, f, "Account Info")
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Jane Doe", "0000003100000000000001", "8500"}, rows[1])
}

func TestOutputPath(t *testing.T) {
	now := time.Date(2024, time.April, 2, 15, 4, 5, 0, time.Local)

	assert.Equal(t, filepath.Join("output", "output_20240402.xlsx"), OutputPath("output", "output", "20060102", now))
}
