package mercadopago

import (
	"fmt"
	"regexp"

	"github.com/spf13/viper"
)

const StatementType = "MERCADOPAGO"

type config struct {
	Name                    *regexp.Regexp
	CVU                     *regexp.Regexp
	CUIT                    *regexp.Regexp
	Period                  *regexp.Regexp
	InitialBalance          *regexp.Regexp
	FinalBalance            *regexp.Regexp
	TransactionStart        *regexp.Regexp
	WrappedTransactionStart *regexp.Regexp
	Transaction             *regexp.Regexp
	DateFormat              string
	Joiner                  string
}

func key(name string) string {
	return "statement." + StatementType + "." + name
}

func loadConfig() (config, error) {
	cfg := config{
		DateFormat: viper.GetString(key("date_format")),
		Joiner:     viper.GetString(key("joiner")),
	}

	patterns := []struct {
		name string
		dst  **regexp.Regexp
	}{
		{"name", &cfg.Name},
		{"cvu", &cfg.CVU},
		{"cuit", &cfg.CUIT},
		{"period", &cfg.Period},
		{"initial_balance", &cfg.InitialBalance},
		{"final_balance", &cfg.FinalBalance},
		{"transaction_start", &cfg.TransactionStart},
		{"wrapped_transaction_start", &cfg.WrappedTransactionStart},
		{"transaction", &cfg.Transaction},
	}

	for _, p := range patterns {
		expr := viper.GetString(key("patterns." + p.name))
		if expr == "" {
			return config{}, fmt.Errorf("%s pattern %q is not configured", StatementType, p.name)
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			return config{}, fmt.Errorf("%s pattern %q: %w", StatementType, p.name, err)
		}
		*p.dst = re
	}

	if cfg.DateFormat == "" {
		return config{}, fmt.Errorf("%s date_format is not configured", StatementType)
	}

	return cfg, nil
}
