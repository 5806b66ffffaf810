package extractor

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aqlanhadi/mpx/extractor/common"
	"github.com/aqlanhadi/mpx/extractor/mercadopago"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

var (
	ErrMissingInput   = errors.New("no input file given")
	ErrSourceRead     = errors.New("cannot read statement")
	ErrNoTransactions = errors.New("no transactions recognized")
	ErrOutputWrite    = errors.New("cannot write output")
)

// Outcome tells a fully parsed statement apart from one where only the header, or
// nothing at all, was recognized.
type Outcome string

const (
	Complete   Outcome = "complete"
	HeaderOnly Outcome = "header_only"
	Empty      Outcome = "empty"
)

func Classify(stmt common.Statement) Outcome {
	switch {
	case len(stmt.Transactions) > 0:
		return Complete
	case !stmt.Header.IsEmpty():
		return HeaderOnly
	default:
		return Empty
	}
}

// CheckOutcome returns ErrNoTransactions unless the statement is Complete.
func CheckOutcome(stmt common.Statement) (Outcome, error) {
	outcome := Classify(stmt)
	if outcome != Complete {
		return outcome, fmt.Errorf("%w: %s (%s)", ErrNoTransactions, stmt.Source, outcome)
	}
	return outcome, nil
}

// Options selects the PDF text engine.
type Options struct {
	Engine     string
	LicenseKey string
}

func OptionsFromConfig() Options {
	return Options{
		Engine:     viper.GetString("pdf.engine"),
		LicenseKey: viper.GetString("pdf.unidoc_license_key"),
	}
}

// ExtractText returns the text of every page of the PDF, pages joined by a line break.
func ExtractText(reader io.Reader, filename string, opts Options) (string, error) {
	engine, err := common.NewEngine(opts.Engine, opts.LicenseKey)
	if err != nil {
		return "", err
	}

	text, err := engine.Extract(reader)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrSourceRead, filename, err)
	}
	return text, nil
}

// ProcessReader extracts the text of a PDF and parses it.
func ProcessReader(reader io.Reader, filename string, opts Options) (common.Statement, error) {
	text, err := ExtractText(reader, filename, opts)
	if err != nil {
		return common.Statement{}, err
	}

	log.Debug().Str("source", filename).Str("engine", opts.Engine).Int("lines", strings.Count(text, "\n")+1).Msg("extracted text")
	return ProcessText(filename, text)
}

// ProcessText parses already extracted statement text.
func ProcessText(filename, text string) (common.Statement, error) {
	return mercadopago.Extract(filename, text)
}

func ProcessFile(path string, opts Options) (common.Statement, error) {
	if path == "" {
		return common.Statement{}, ErrMissingInput
	}

	f, err := os.Open(path)
	if err != nil {
		return common.Statement{}, fmt.Errorf("%w: %w", ErrSourceRead, err)
	}
	defer f.Close()

	log.Info().Str("source", path).Msg("scanning")
	return ProcessReader(f, path, opts)
}

// CreateFinalOutput shapes a statement for JSON output.
func CreateFinalOutput(stmt common.Statement, transactionOnly, statementOnly bool) interface{} {
	if transactionOnly {
		return stmt.Transactions
	}

	output := map[string]interface{}{
		"source":  stmt.Source,
		"outcome": Classify(stmt),
		"header":  stmt.Header,
		"summary": stmt.Summary,
	}
	if stmt.CalculatedFinalBalance.Valid {
		output["calculated_final_balance"] = stmt.CalculatedFinalBalance.Decimal
	}

	if !statementOnly {
		output["transactions"] = stmt.Transactions
	}

	return output
}
