package export

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
	"go.uber.org/multierr"
)

const (
	dateFormat = "dd-mm-yyyy"
	// rendered width of dateFormat
	dateWidth = 10
	// excelize rejects wider columns
	maxColumnWidth = 255
)

// WriteFile writes the tables to an xlsx file, replacing any existing file. The
// directory must already exist.
func WriteFile(path string, tables []Table) (err error) {
	f, err := build(tables)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, f.Close()) }()

	if err := f.SaveAs(path); err != nil {
		return err
	}
	log.Debug().Str("path", path).Int("sheets", len(tables)).Msg("workbook written")
	return nil
}

// Write streams the workbook to w.
func Write(w io.Writer, tables []Table) (err error) {
	f, err := build(tables)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, f.Close()) }()

	_, err = f.WriteTo(w)
	return err
}

// OutputPath is the default destination: <dir>/<prefix>_<date>.xlsx with the date
// formatted by layout.
func OutputPath(dir, prefix, layout string, now time.Time) string {
	return filepath.Join(dir, prefix+"_"+now.Format(layout)+".xlsx")
}

func build(tables []Table) (_ *excelize.File, err error) {
	if len(tables) == 0 {
		return nil, fmt.Errorf("no sheets to write")
	}

	f := excelize.NewFile()
	defer func() {
		if err != nil {
			err = multierr.Append(err, f.Close())
		}
	}()

	format := dateFormat
	dateStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &format})
	if err != nil {
		return nil, err
	}

	// the new file starts with a single default sheet, reused for the first table
	if err := f.SetSheetName(f.GetSheetName(0), tables[0].Sheet); err != nil {
		return nil, err
	}

	for i, table := range tables {
		if i > 0 {
			if _, err := f.NewSheet(table.Sheet); err != nil {
				return nil, fmt.Errorf("sheet %q: %w", table.Sheet, err)
			}
		}
		if err := writeTable(f, table, dateStyle); err != nil {
			return nil, fmt.Errorf("sheet %q: %w", table.Sheet, err)
		}
	}

	f.SetActiveSheet(0)
	return f, nil
}

func writeTable(f *excelize.File, table Table, dateStyle int) error {
	if len(table.Columns) == 0 {
		return nil
	}

	header := make([]interface{}, len(table.Columns))
	widths := make([]int, len(table.Columns))
	for i, column := range table.Columns {
		header[i] = column
		widths[i] = utf8.RuneCountInString(column)
	}
	if err := f.SetSheetRow(table.Sheet, "A1", &header); err != nil {
		return err
	}

	for r, row := range table.Rows {
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(table.Sheet, cell, &row); err != nil {
			return err
		}

		for c, value := range row {
			if c >= len(widths) {
				break
			}
			if _, ok := value.(time.Time); ok {
				dateCell, err := excelize.CoordinatesToCellName(c+1, r+2)
				if err != nil {
					return err
				}
				if err := f.SetCellStyle(table.Sheet, dateCell, dateCell, dateStyle); err != nil {
					return err
				}
			}
			if w := renderedWidth(value); w > widths[c] {
				widths[c] = w
			}
		}
	}

	for c, width := range widths {
		name, err := excelize.ColumnNumberToName(c + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(table.Sheet, name, name, float64(min(width+2, maxColumnWidth))); err != nil {
			return err
		}
	}

	log.Debug().Str("sheet", table.Sheet).Int("rows", len(table.Rows)).Msg("sheet written")
	return nil
}

// renderedWidth is the length of the value as the spreadsheet shows it.
func renderedWidth(value interface{}) int {
	switch v := value.(type) {
	case string:
		return utf8.RuneCountInString(v)
	case time.Time:
		return dateWidth
	case float64:
		return len(strconv.FormatFloat(v, 'f', -1, 64))
	case int:
		return len(strconv.Itoa(v))
	case nil:
		return 0
	default:
		return utf8.RuneCountInString(fmt.Sprint(v))
	}
}
