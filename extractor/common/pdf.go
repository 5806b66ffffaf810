package common

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dslipak/pdf"
	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog/log"
)

const (
	EngineRows   = "rows"
	EnginePlain  = "plain"
	EngineUniPDF = "unipdf"
)

var ErrNotPDF = errors.New("not a PDF document")

// Engine extracts the text of a PDF document. Pages are returned in order, joined by
// a line break, with line breaks inside a page preserved.
type Engine interface {
	Extract(reader io.Reader) (string, error)
}

// NewEngine returns the text extraction engine registered under name. The license key
// is only used by the unipdf engine.
func NewEngine(name, licenseKey string) (Engine, error) {
	switch name {
	case "", EngineRows:
		return RowsEngine{}, nil
	case EnginePlain:
		return PlainEngine{}, nil
	case EngineUniPDF:
		return UniPDFEngine{LicenseKey: licenseKey}, nil
	}
	return nil, fmt.Errorf("unknown pdf engine %q", name)
}

// loadDocument reads the whole document into memory so every engine gets a
// seekable reader with a known size, and rejects anything that is not a PDF.
func loadDocument(reader io.Reader) (*bytes.Reader, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}

	if mtype := mimetype.Detect(data); !mtype.Is("application/pdf") {
		return nil, fmt.Errorf("%w: detected %s", ErrNotPDF, mtype.String())
	}

	return bytes.NewReader(data), nil
}

// RowsEngine groups the words of each page into rows by vertical position.
type RowsEngine struct{}

func (RowsEngine) Extract(reader io.Reader) (_ string, err error) {
	doc, err := loadDocument(reader)
	if err != nil {
		return "", err
	}

	// pdf content stream decoding panics on malformed input
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("reading pdf: %v", r)
		}
	}()

	r, err := pdf.NewReader(doc, doc.Size())
	if err != nil {
		return "", err
	}

	numPages := r.NumPage()
	pages := make([]string, 0, numPages)

	for no := 1; no <= numPages; no++ {
		page := r.Page(no)
		if page.V.IsNull() {
			continue
		}

		rows, err := page.GetTextByRow()
		if err != nil {
			log.Warn().Err(err).Int("page", no).Msg("error getting text from page")
			continue
		}

		lines := make([]string, 0, len(rows))
		for _, row := range rows {
			var builder strings.Builder
			for i, text := range row.Content {
				builder.WriteString(text.S)
				if i < len(row.Content)-1 {
					builder.WriteByte(' ')
				}
			}

			if builder.Len() > 0 {
				lines = append(lines, builder.String())
			}
		}

		pages = append(pages, strings.Join(lines, "\n"))
	}

	return strings.Join(pages, "\n"), nil
}
