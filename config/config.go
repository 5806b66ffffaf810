package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Embedded default configuration. A user file (--config, ./.mpx.yaml or ~/.mpx.yaml)
// is merged on top of it, so it only needs the keys it changes.
const defaultConfigYAML = `
output:
  dir: output
  prefix: output
  date_format: "20060102"
pdf:
  engine: rows
  unidoc_license_key: ""
server:
  port: "8080"
database:
  url: ""
  timeout: 300
sheets:
  debits: Transactions
  credits: Additions
  zero_value: Zero Value
  account: Account Info
  summary: Summary
statement:
  MERCADOPAGO:
    joiner: wrapped
    date_format: "02-01-2006"
    patterns:
      name: '(.+?)\nCVU:'
      cvu: 'CVU: (\d+)'
      cuit: 'CUIT/ CUIL:\s*(\d+)'
      period: 'Periodo:\s*(.+?)\n'
      initial_balance: 'Saldo inicial: \$ (-?[\d.,]+)'
      final_balance: 'Saldo final: \$ (-?[\d.,]+)'
      transaction_start: '^\d{2}-\d{2}-\d{4}'
      wrapped_transaction_start: '^(\d{2}-\d{2}-\d{4})\s+(\d+)'
      transaction: '(\d{2}-\d{2}-\d{4})\s+(.*?)\s+(\d+)\s+\$\s*([-]?[\d.,]+)\s+\$\s*([\d.,]+)'
`

// Init resets the global viper instance to the embedded defaults and merges the
// user configuration over it. An empty cfgFile searches the working and home
// directories for .mpx.{yaml,json,toml}; a missing search result is not an error.
func Init(cfgFile string) error {
	if err := UseDefaults(); err != nil {
		return err
	}

	// .env is optional; variables already set in the environment win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("error loading .env: %w", err)
	}

	user := viper.New()
	if cfgFile != "" {
		user.SetConfigFile(cfgFile)
	} else {
		user.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			user.AddConfigPath(home)
		}
		user.SetConfigName(".mpx")
	}

	if err := user.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}

	if err := viper.MergeConfigMap(user.AllSettings()); err != nil {
		return fmt.Errorf("error merging config file %s: %w", user.ConfigFileUsed(), err)
	}
	return nil
}

// UseDefaults loads only the embedded configuration. Tests call it instead of Init
// so a developer's ~/.mpx.yaml never leaks into them.
func UseDefaults() error {
	viper.Reset()
	viper.SetConfigType("yaml")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadConfig(bytes.NewBufferString(defaultConfigYAML)); err != nil {
		return fmt.Errorf("error loading embedded configuration: %w", err)
	}
	return nil
}
