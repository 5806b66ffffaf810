package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/aqlanhadi/mpx/export"
	"github.com/aqlanhadi/mpx/extractor"
	"github.com/aqlanhadi/mpx/extractor/common"
	"github.com/aqlanhadi/mpx/integrations/gcs"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	extractFile      string
	outputFile       string
	outputDir        string
	jsonOutput       bool
	transactionsOnly bool
	statementOnly    bool
	engineName       string
	uploadTo         string
	allowEmpty       bool
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extracts a statement",
	Long: `Extracts a Mercado Pago statement into an xlsx workbook, or prints it as
JSON with --json.

Examples:
  mpx extract -f marzo.pdf
  mpx extract -f marzo.pdf -o /tmp/marzo.xlsx --upload gs://my-bucket/reports
  mpx extract -f gs://my-bucket/statements/marzo.pdf --json --statement-only`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExtract(cmd.Context(), extractFile)
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringVarP(&extractFile, "file", "f", "", "statement PDF, local path or gs:// URI")
	addExtractFlags(extractCmd)
}

// addExtractFlags registers the output flags shared by the root and extract commands.
func addExtractFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "workbook path (default <output-dir>/<prefix>_<date>.xlsx)")
	cmd.Flags().StringVar(&outputDir, "output-dir", "", "directory for the default workbook path (config output.dir)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "print the statement as JSON instead of writing a workbook")
	cmd.Flags().BoolVar(&transactionsOnly, "transactions-only", false, "with --json, print only the transactions")
	cmd.Flags().BoolVar(&statementOnly, "statement-only", false, "with --json, leave the transactions out")
	cmd.Flags().StringVar(&engineName, "engine", "", "PDF text engine: rows, plain or unipdf (config pdf.engine)")
	cmd.Flags().StringVar(&uploadTo, "upload", "", "upload the workbook to gs://bucket/prefix")
	cmd.Flags().BoolVar(&allowEmpty, "allow-empty", false, "exit 0 when no transactions are recognized")
}

func runExtract(ctx context.Context, input string) error {
	if input == "" {
		return extractor.ErrMissingInput
	}

	opts := extractor.OptionsFromConfig()
	if engineName != "" {
		opts.Engine = engineName
	}

	stmt, err := readStatement(ctx, input, opts)
	if err != nil {
		return err
	}
	return emitStatement(ctx, stmt)
}

// emitStatement writes the workbook (or JSON) even when nothing was recognized, then
// reports a statement without transactions as ErrNoTransactions unless --allow-empty.
func emitStatement(ctx context.Context, stmt common.Statement) error {
	if jsonOutput {
		if err := printJSON(os.Stdout, stmt); err != nil {
			return err
		}
	} else if err := writeWorkbook(ctx, stmt); err != nil {
		return err
	}

	outcome, err := extractor.CheckOutcome(stmt)
	if err != nil && allowEmpty {
		log.Warn().Str("source", stmt.Source).Str("outcome", string(outcome)).Msg("no transactions recognized")
		return nil
	}
	return err
}

func readStatement(ctx context.Context, input string, opts extractor.Options) (common.Statement, error) {
	if !gcs.IsURI(input) {
		return extractor.ProcessFile(input, opts)
	}

	data, err := gcs.Fetch(ctx, input)
	if err != nil {
		return common.Statement{}, fmt.Errorf("%w: %w", extractor.ErrSourceRead, err)
	}
	return extractor.ProcessReader(bytes.NewReader(data), gcs.Filename(input), opts)
}

func printJSON(w io.Writer, stmt common.Statement) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(extractor.CreateFinalOutput(stmt, transactionsOnly, statementOnly)); err != nil {
		return fmt.Errorf("%w: stdout: %w", extractor.ErrOutputWrite, err)
	}
	return nil
}

func writeWorkbook(ctx context.Context, stmt common.Statement) error {
	path := resolveOutputPath(time.Now())

	if err := export.WriteFile(path, export.Tables(stmt, export.SheetNamesFromConfig())); err != nil {
		return fmt.Errorf("%w: %s: %w", extractor.ErrOutputWrite, path, err)
	}
	log.Info().Str("output", path).Int("transactions", len(stmt.Transactions)).Msg("workbook written")

	if uploadTo == "" {
		return nil
	}

	uri, err := gcs.Upload(ctx, uploadTo, path)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", extractor.ErrOutputWrite, uploadTo, err)
	}
	log.Info().Str("uri", uri).Msg("workbook uploaded")
	return nil
}

// resolveOutputPath prefers --output, then --output-dir, then the configured directory.
func resolveOutputPath(now time.Time) string {
	if outputFile != "" {
		return outputFile
	}

	dir := outputDir
	if dir == "" {
		dir = viper.GetString("output.dir")
	}
	return export.OutputPath(dir, viper.GetString("output.prefix"), viper.GetString("output.date_format"), now)
}
