package mercadopago

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/aqlanhadi/mpx/extractor/common"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

type Extractor struct {
	cfg    config
	joiner LineJoiner
}

// New builds an extractor from the statement.MERCADOPAGO configuration.
func New() (*Extractor, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	joiner, err := newJoiner(cfg.Joiner, cfg)
	if err != nil {
		return nil, err
	}

	return &Extractor{cfg: cfg, joiner: joiner}, nil
}

// WithJoiner replaces the line joining strategy.
func (e *Extractor) WithJoiner(joiner LineJoiner) *Extractor {
	return &Extractor{cfg: e.cfg, joiner: joiner}
}

func (e *Extractor) Header(text string) common.StatementHeader {
	return extractHeader(normalizeSpaces(text), e.cfg)
}

func (e *Extractor) Reassemble(text string) []string {
	return e.joiner.Join(strings.Split(normalizeSpaces(text), "\n"))
}

// normalizeSpaces turns no-break spaces into plain ones so \s in the patterns
// matches them.
func normalizeSpaces(text string) string {
	return strings.ReplaceAll(text, "\u00a0", " ")
}

func (e *Extractor) Transactions(lines []string) ([]common.Transaction, []common.LineResult) {
	return parseTransactions(lines, e.cfg)
}

// Extract parses the full statement text.
func (e *Extractor) Extract(path string, text string) common.Statement {
	startTime := time.Now()
	log.Debug().Str("source", path).Msg("starting " + StatementType + " extraction")

	statement := common.Statement{
		Source: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Header: e.Header(text),
	}

	statement.Transactions, statement.Lines = e.Transactions(e.Reassemble(text))
	statement.Summary = common.Summarize(statement.Transactions)

	skipped := logSkipped(statement.Lines)
	logDuplicateOperations(statement.Transactions)
	log.Info().Str("source", statement.Source).Int("rows_captured", len(statement.Transactions)).Int("lines_skipped", skipped).Msg("parsed transactions")

	checkFinalBalance(&statement)

	log.Debug().Dur("elapsed", time.Since(startTime)).Msg(StatementType + " processing time")
	return statement
}

// checkFinalBalance compares initial balance plus movements with the printed final
// balance. A mismatch is only reported.
func checkFinalBalance(statement *common.Statement) {
	initial := statement.Header.InitialBalance
	if !initial.Valid {
		return
	}

	calculated := initial.Decimal
	for _, tx := range statement.Transactions {
		calculated = calculated.Add(tx.Value)
	}
	statement.CalculatedFinalBalance = decimal.NewNullDecimal(calculated)

	final := statement.Header.FinalBalance
	if !final.Valid {
		return
	}
	if calculated.Equal(final.Decimal) {
		log.Debug().Msg("final balance matches")
	} else {
		log.Warn().Str("calculated", calculated.String()).Str("statement", final.Decimal.String()).Msg("final balance mismatch")
	}
}

// Extract parses text with the configured extractor.
func Extract(path string, text string) (common.Statement, error) {
	extractor, err := New()
	if err != nil {
		return common.Statement{}, err
	}
	return extractor.Extract(path, text), nil
}
