package common

import (
	"time"

	"github.com/shopspring/decimal"
)

type Statement struct {
	Source                 string              `json:"source"`
	Header                 StatementHeader     `json:"header"`
	Transactions           []Transaction       `json:"transactions"`
	Summary                Summary             `json:"summary"`
	CalculatedFinalBalance decimal.NullDecimal `json:"calculated_final_balance"`
	Lines                  []LineResult        `json:"-"`
}

// StatementHeader holds the account fields found above the transaction table.
// An empty string or an invalid NullDecimal means the label was not found.
type StatementHeader struct {
	Name           string              `json:"name,omitempty"`
	CVU            string              `json:"cvu,omitempty"`
	CUIT           string              `json:"cuit,omitempty"`
	Period         string              `json:"period,omitempty"`
	InitialBalance decimal.NullDecimal `json:"initial_balance"`
	FinalBalance   decimal.NullDecimal `json:"final_balance"`
}

// IsEmpty reports whether no header field was recognized.
func (h StatementHeader) IsEmpty() bool {
	return h.Name == "" && h.CVU == "" && h.CUIT == "" && h.Period == "" &&
		!h.InitialBalance.Valid && !h.FinalBalance.Valid
}

type Transaction struct {
	Sequence    int             `json:"sequence"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	OperationID string          `json:"operation_id"`
	Value       decimal.Decimal `json:"value"`
	Balance     decimal.Decimal `json:"balance"`
}

const (
	TypeDebit  = "debit"
	TypeCredit = "credit"
	TypeZero   = "zero"
)

// Type derives the side of the transaction from the sign of its value.
func (t Transaction) Type() string {
	switch {
	case t.Value.IsNegative():
		return TypeDebit
	case t.Value.IsPositive():
		return TypeCredit
	default:
		return TypeZero
	}
}

type LineStatus int

const (
	LineUnmatched LineStatus = iota
	LineMatched
)

func (s LineStatus) String() string {
	if s == LineMatched {
		return "matched"
	}
	return "unmatched"
}

// LineResult records what the parser made of one reassembled candidate line.
type LineResult struct {
	Number       int
	Text         string
	Status       LineStatus
	Transactions []Transaction
	Reason       string
}
