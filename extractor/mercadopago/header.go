package mercadopago

import (
	"regexp"
	"strings"

	"github.com/aqlanhadi/mpx/extractor/common"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// extractHeader looks up every header label independently. A label that is not
// found leaves its field unset.
func extractHeader(text string, cfg config) common.StatementHeader {
	return common.StatementHeader{
		Name:           firstGroup(cfg.Name, text),
		CVU:            firstGroup(cfg.CVU, text),
		CUIT:           firstGroup(cfg.CUIT, text),
		Period:         firstGroup(cfg.Period, text),
		InitialBalance: balance(cfg.InitialBalance, text, "initial_balance"),
		FinalBalance:   balance(cfg.FinalBalance, text, "final_balance"),
	}
}

func firstGroup(re *regexp.Regexp, text string) string {
	match := re.FindStringSubmatch(text)
	if len(match) < 2 {
		return ""
	}
	return strings.TrimSpace(match[1])
}

func balance(re *regexp.Regexp, text, field string) decimal.NullDecimal {
	raw := firstGroup(re, text)
	if raw == "" {
		return decimal.NullDecimal{}
	}

	amount, err := common.NormalizeAmount(raw)
	if err != nil {
		log.Warn().Err(err).Str("field", field).Msg("ignoring unreadable balance")
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(amount)
}
