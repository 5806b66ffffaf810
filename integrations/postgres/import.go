package postgres

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aqlanhadi/mpx/extractor"
	"github.com/aqlanhadi/mpx/extractor/common"
	"github.com/rs/zerolog/log"
)

// ImportResult tracks the outcome of an import operation
type ImportResult struct {
	Processed int
	Skipped   int
	Failed    int
	Errors    []string
}

// ImportOptions configures the import behavior
type ImportOptions struct {
	Force   bool              // Replace statements that already exist
	Extract extractor.Options // PDF text engine
}

// validateStatement checks that the natural key (cvu, period) was extracted
func validateStatement(stmt common.Statement) error {
	if stmt.Header.CVU == "" {
		return errors.New("no CVU extracted")
	}
	if stmt.Header.Period == "" {
		return errors.New("no period extracted")
	}
	return nil
}

// ImportFile processes a single PDF file and stores it in the database
// Returns: processed count, skipped count, failed count, error messages
func (db *DB) ImportFile(ctx context.Context, filePath string, opts ImportOptions) (processed int, skipped int, failed int, errs []string) {
	fileName := filepath.Base(filePath)
	fail := func(format string, args ...interface{}) (int, int, int, []string) {
		return 0, 0, 1, []string{fileName + ": " + fmt.Sprintf(format, args...)}
	}

	statement, err := extractor.ProcessFile(filePath, opts.Extract)
	if err != nil {
		return fail("%v", err)
	}
	if len(statement.Transactions) == 0 {
		return fail("no transactions extracted (%s)", extractor.Classify(statement))
	}
	if err := validateStatement(statement); err != nil {
		return fail("%v", err)
	}

	cvu := statement.Header.CVU

	accountID, err := db.GetOrCreateAccount(ctx, statement.Header)
	if err != nil {
		return fail("[%s] account error: %v", cvu, err)
	}

	// natural key: account_id + period
	exists, existingID, err := db.StatementExists(ctx, accountID, statement.Header.Period)
	if err != nil {
		return fail("[%s] check error: %v", cvu, err)
	}

	if exists && !opts.Force {
		log.Info().Str("file", fileName).Str("cvu", cvu).Msg("SKIP (already exists)")
		return 0, 1, 0, nil
	}

	if exists {
		if err := db.DeleteStatement(ctx, existingID); err != nil {
			return fail("[%s] delete error: %v", cvu, err)
		}
	}

	statementID, err := db.CreateStatement(ctx, accountID, statement)
	if err != nil {
		return fail("[%s] statement error: %v", cvu, err)
	}

	if err := db.CreateTransactions(ctx, statementID, statement.Transactions); err != nil {
		// Rollback by deleting the statement
		_ = db.DeleteStatement(ctx, statementID)
		return fail("[%s] transactions error: %v", cvu, err)
	}

	log.Info().Str("file", fileName).Str("cvu", cvu).Int("transactions", len(statement.Transactions)).Msg("OK")
	return 1, 0, 0, nil
}

// isStatementFile reports whether name looks like a statement PDF
func isStatementFile(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".pdf")
}

// statementFiles lists the PDF files directly inside dirPath
func statementFiles(dirPath string) ([]string, error) {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !isStatementFile(e.Name()) {
			continue
		}
		files = append(files, filepath.Join(dirPath, e.Name()))
	}
	return files, nil
}

// ImportDirectory processes all PDF files in a directory
func (db *DB) ImportDirectory(ctx context.Context, dirPath string, opts ImportOptions) (*ImportResult, error) {
	files, err := statementFiles(dirPath)
	if err != nil {
		return nil, err
	}

	log.Info().Str("dir", dirPath).Int("files", len(files)).Msg("scanning")

	result := &ImportResult{}
	for _, filePath := range files {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		processed, skipped, failed, errs := db.ImportFile(ctx, filePath, opts)
		result.add(processed, skipped, failed, errs)

		for _, errMsg := range errs {
			log.Warn().Msg("FAIL " + errMsg)
		}
	}

	return result, nil
}

// Import handles both file and directory imports
func (db *DB) Import(ctx context.Context, path string, opts ImportOptions) (*ImportResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", extractor.ErrSourceRead, err)
	}

	if info.IsDir() {
		return db.ImportDirectory(ctx, path, opts)
	}

	result := &ImportResult{}
	result.add(db.ImportFile(ctx, path, opts))
	return result, nil
}

func (r *ImportResult) add(processed, skipped, failed int, errs []string) {
	r.Processed += processed
	r.Skipped += skipped
	r.Failed += failed
	r.Errors = append(r.Errors, errs...)
}
