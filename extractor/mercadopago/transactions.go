package mercadopago

import (
	"fmt"
	"strings"

	"github.com/aqlanhadi/mpx/extractor/common"
	"github.com/rs/zerolog/log"
)

// parseTransactions scans every candidate line for transactions. Each line gets a
// LineResult so skipped lines can be counted and inspected; the transactions are
// returned in text order with 1-based sequence numbers.
func parseTransactions(lines []string, cfg config) ([]common.Transaction, []common.LineResult) {
	transactions := []common.Transaction{}
	results := make([]common.LineResult, 0, len(lines))

	for i, line := range lines {
		result := common.LineResult{Number: i + 1, Text: line, Status: common.LineUnmatched}

		matches := cfg.Transaction.FindAllStringSubmatch(line, -1)
		if len(matches) == 0 {
			result.Reason = "no transaction pattern"
			results = append(results, result)
			continue
		}

		var reasons []string
		for _, match := range matches {
			tx, err := parseMatch(match, cfg)
			if err != nil {
				reasons = append(reasons, err.Error())
				continue
			}

			tx.Sequence = len(transactions) + 1
			transactions = append(transactions, tx)
			result.Transactions = append(result.Transactions, tx)
		}

		if len(result.Transactions) > 0 {
			result.Status = common.LineMatched
		}
		result.Reason = strings.Join(reasons, "; ")
		results = append(results, result)
	}

	return transactions, results
}

// match groups: 1=date 2=description 3=operation id 4=value 5=balance
func parseMatch(match []string, cfg config) (common.Transaction, error) {
	date, err := common.ParseDate(cfg.DateFormat, match[1])
	if err != nil {
		return common.Transaction{}, fmt.Errorf("date %q: %w", match[1], err)
	}

	value, err := common.NormalizeAmount(match[4])
	if err != nil {
		return common.Transaction{}, fmt.Errorf("value: %w", err)
	}

	balance, err := common.NormalizeAmount(match[5])
	if err != nil {
		return common.Transaction{}, fmt.Errorf("balance: %w", err)
	}

	return common.Transaction{
		Date:        date,
		Description: strings.TrimSpace(match[2]),
		OperationID: match[3],
		Value:       value,
		Balance:     balance,
	}, nil
}

func logSkipped(results []common.LineResult) int {
	skipped := 0
	for _, result := range results {
		if result.Status == common.LineMatched {
			continue
		}
		skipped++
		log.Debug().Int("line", result.Number).Str("text", result.Text).Str("reason", result.Reason).Msg("skipped candidate line")
	}
	return skipped
}

func logDuplicateOperations(transactions []common.Transaction) {
	seen := make(map[string]int, len(transactions))
	for _, tx := range transactions {
		if first, ok := seen[tx.OperationID]; ok {
			log.Debug().Str("operation_id", tx.OperationID).Int("sequence", tx.Sequence).Int("first_sequence", first).Msg("repeated operation id")
			continue
		}
		seen[tx.OperationID] = tx.Sequence
	}
}
