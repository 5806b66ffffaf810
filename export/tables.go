package export

import (
	"github.com/aqlanhadi/mpx/extractor/common"
	"github.com/spf13/viper"
)

// Table is one sheet of the workbook: a header row followed by data rows. Cells hold
// strings, numbers or time.Time values.
type Table struct {
	Sheet   string
	Columns []string
	Rows    [][]interface{}
}

type SheetNames struct {
	Debits    string
	Credits   string
	ZeroValue string
	Account   string
	Summary   string
}

func DefaultSheetNames() SheetNames {
	return SheetNames{
		Debits:    "Transactions",
		Credits:   "Additions",
		ZeroValue: "Zero Value",
		Account:   "Account Info",
		Summary:   "Summary",
	}
}

// SheetNamesFromConfig reads sheets.*, keeping the default for any name left empty.
func SheetNamesFromConfig() SheetNames {
	names := DefaultSheetNames()
	for key, dst := range map[string]*string{
		"sheets.debits":     &names.Debits,
		"sheets.credits":    &names.Credits,
		"sheets.zero_value": &names.ZeroValue,
		"sheets.account":    &names.Account,
		"sheets.summary":    &names.Summary,
	} {
		if v := viper.GetString(key); v != "" {
			*dst = v
		}
	}
	return names
}

var transactionColumns = []string{"date", "description", "operation_id", "value", "balance"}

// Partition splits transactions by the sign of their value, keeping text order.
// Every transaction lands in exactly one of the three slices.
func Partition(transactions []common.Transaction) (debits, credits, zero []common.Transaction) {
	for _, tx := range transactions {
		switch tx.Type() {
		case common.TypeDebit:
			debits = append(debits, tx)
		case common.TypeCredit:
			credits = append(credits, tx)
		default:
			zero = append(zero, tx)
		}
	}
	return debits, credits, zero
}

// Tables lays out a statement as workbook sheets: debits, credits, zero-value movements
// (only when there are any), account info and summary.
func Tables(stmt common.Statement, names SheetNames) []Table {
	debits, credits, zero := Partition(stmt.Transactions)

	tables := []Table{
		transactionTable(names.Debits, debits),
		transactionTable(names.Credits, credits),
	}
	if len(zero) > 0 {
		tables = append(tables, transactionTable(names.ZeroValue, zero))
	}

	return append(tables,
		accountTable(names.Account, stmt.Header),
		summaryTable(names.Summary, stmt.Summary),
	)
}

func transactionTable(sheet string, transactions []common.Transaction) Table {
	rows := make([][]interface{}, 0, len(transactions))
	for _, tx := range transactions {
		rows = append(rows, []interface{}{
			tx.Date,
			tx.Description,
			tx.OperationID,
			tx.Value.InexactFloat64(),
			tx.Balance.InexactFloat64(),
		})
	}
	return Table{Sheet: sheet, Columns: transactionColumns, Rows: rows}
}

// accountTable holds a single row with only the header fields that were found.
func accountTable(sheet string, header common.StatementHeader) Table {
	table := Table{Sheet: sheet}
	var row []interface{}

	add := func(column string, value interface{}) {
		table.Columns = append(table.Columns, column)
		row = append(row, value)
	}

	if header.Name != "" {
		add("name", header.Name)
	}
	if header.CVU != "" {
		add("cvu", header.CVU)
	}
	if header.CUIT != "" {
		add("cuit", header.CUIT)
	}
	if header.Period != "" {
		add("period", header.Period)
	}
	if header.InitialBalance.Valid {
		add("initial_balance", header.InitialBalance.Decimal.InexactFloat64())
	}
	if header.FinalBalance.Valid {
		add("final_balance", header.FinalBalance.Decimal.InexactFloat64())
	}

	if len(row) > 0 {
		table.Rows = [][]interface{}{row}
	}
	return table
}

func summaryTable(sheet string, summary common.Summary) Table {
	return Table{
		Sheet:   sheet,
		Columns: []string{"total_credits", "total_debits", "total_transactions", "avg_transaction", "max_credit", "max_debit"},
		Rows: [][]interface{}{{
			summary.TotalCredits.InexactFloat64(),
			summary.TotalDebits.InexactFloat64(),
			summary.TotalTransactions,
			summary.AvgTransaction.InexactFloat64(),
			summary.MaxCredit.InexactFloat64(),
			summary.MaxDebit.InexactFloat64(),
		}},
	}
}
