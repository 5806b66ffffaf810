package postgres

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aqlanhadi/mpx/extractor/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateStatement(t *testing.T) {
	valid := common.Statement{Header: common.StatementHeader{CVU: "0000003100000000000001", Period: "del 01-03-2024 al 31-03-2024"}}
	assert.NoError(t, validateStatement(valid))

	noCVU := valid
	noCVU.Header.CVU = ""
	assert.EqualError(t, validateStatement(noCVU), "no CVU extracted")

	noPeriod := valid
	noPeriod.Header.Period = ""
	assert.EqualError(t, validateStatement(noPeriod), "no period extracted")
}

func TestIsStatementFile(t *testing.T) {
	assert.True(t, isStatementFile("marzo.pdf"))
	assert.True(t, isStatementFile("MARZO.PDF"))
	assert.False(t, isStatementFile("marzo.csv"))
	assert.False(t, isStatementFile("pdf"))
}

func TestStatementFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.pdf", "b.PDF", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o600))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.pdf"), 0o700))

	files, err := statementFiles(dir)
	require.NoError(t, err)

	assert.Equal(t, []string{filepath.Join(dir, "a.pdf"), filepath.Join(dir, "b.PDF")}, files)
}

func TestStatementFiles_MissingDir(t *testing.T) {
	_, err := statementFiles(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestImportResultAdd(t *testing.T) {
	result := &ImportResult{}
	result.add(1, 0, 0, nil)
	result.add(0, 1, 0, nil)
	result.add(0, 0, 1, []string{"c.pdf: no CVU extracted"})

	assert.Equal(t, 1, result.Processed)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, []string{"c.pdf: no CVU extracted"}, result.Errors)
}

func TestNormalizeDescription(t *testing.T) {
	assert.Equal(t, "PAGO EN SUPERMERCADO DIA", normalizeDescription("  Pago en\tSupermercado   Dia "))
	assert.Equal(t, "", normalizeDescription(""))
}

func TestDateRange(t *testing.T) {
	date := func(day int) time.Time { return time.Date(2024, time.March, day, 0, 0, 0, 0, time.UTC) }

	start, end := dateRange(nil)
	assert.Nil(t, start)
	assert.Nil(t, end)

	start, end = dateRange([]common.Transaction{{Date: date(5)}, {Date: date(1)}, {Date: date(20)}, {Date: date(3)}})
	require.NotNil(t, start)
	require.NotNil(t, end)
	assert.Equal(t, date(1), *start)
	assert.Equal(t, date(20), *end)
}
