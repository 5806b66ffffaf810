package common

import "github.com/shopspring/decimal"

type Summary struct {
	TotalCredits      decimal.Decimal `json:"total_credits"`
	TotalDebits       decimal.Decimal `json:"total_debits"`
	TotalTransactions int             `json:"total_transactions"`
	AvgTransaction    decimal.Decimal `json:"avg_transaction"`
	MaxCredit         decimal.Decimal `json:"max_credit"`
	MaxDebit          decimal.Decimal `json:"max_debit"`
}

// Summarize aggregates the transaction values. Every field of an empty sequence is
// zero, and MaxCredit/MaxDebit stay zero when there are no credits/debits.
// AvgTransaction is rounded to cents.
func Summarize(transactions []Transaction) Summary {
	summary := Summary{
		TotalCredits:   decimal.Zero,
		TotalDebits:    decimal.Zero,
		AvgTransaction: decimal.Zero,
		MaxCredit:      decimal.Zero,
		MaxDebit:       decimal.Zero,
	}
	if len(transactions) == 0 {
		return summary
	}

	total := decimal.Zero
	for _, tx := range transactions {
		total = total.Add(tx.Value)

		switch tx.Type() {
		case TypeCredit:
			summary.TotalCredits = summary.TotalCredits.Add(tx.Value)
			if tx.Value.GreaterThan(summary.MaxCredit) {
				summary.MaxCredit = tx.Value
			}
		case TypeDebit:
			summary.TotalDebits = summary.TotalDebits.Add(tx.Value)
			if tx.Value.LessThan(summary.MaxDebit) {
				summary.MaxDebit = tx.Value
			}
		}
	}

	summary.TotalTransactions = len(transactions)
	summary.AvgTransaction = total.Div(decimal.NewFromInt(int64(len(transactions)))).Round(2)
	return summary
}
