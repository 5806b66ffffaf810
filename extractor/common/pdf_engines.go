package common

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	lpdf "github.com/ledongthuc/pdf"
	"github.com/rs/zerolog/log"
	"github.com/unidoc/unipdf/v3/common/license"
	unextractor "github.com/unidoc/unipdf/v3/extractor"
	"github.com/unidoc/unipdf/v3/model"
)

// PlainEngine returns the content stream text of each page as laid out by the PDF,
// without regrouping words into rows.
type PlainEngine struct{}

func (PlainEngine) Extract(reader io.Reader) (_ string, err error) {
	doc, err := loadDocument(reader)
	if err != nil {
		return "", err
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("reading pdf: %v", r)
		}
	}()

	r, err := lpdf.NewReader(doc, doc.Size())
	if err != nil {
		return "", err
	}

	pages := make([]string, 0, r.NumPage())
	for no := 1; no <= r.NumPage(); no++ {
		page := r.Page(no)
		if page.V.IsNull() {
			continue
		}

		content, err := page.GetPlainText(nil)
		if err != nil {
			log.Warn().Err(err).Int("page", no).Msg("error getting text from page")
			continue
		}
		// every text object starts on a new line
		pages = append(pages, strings.Trim(content, "\n"))
	}

	return strings.Join(pages, "\n"), nil
}

var (
	setMeteredKey = license.SetMeteredKey
	licenseOnce   sync.Once
	licenseErr    error
)

// SetUniPDFLicense registers the metered key with UniDoc. Only the first call
// reaches UniDoc; later calls return its result.
func SetUniPDFLicense(key string) error {
	if key == "" {
		return errors.New("unipdf engine requires pdf.unidoc_license_key")
	}
	licenseOnce.Do(func() {
		if err := setMeteredKey(key); err != nil {
			licenseErr = fmt.Errorf("unipdf license: %w", err)
		}
	})
	return licenseErr
}

// UniPDFEngine uses UniDoc's layout-aware extractor. It needs a metered license key.
type UniPDFEngine struct {
	LicenseKey string
}

func (e UniPDFEngine) Extract(reader io.Reader) (string, error) {
	if err := SetUniPDFLicense(e.LicenseKey); err != nil {
		return "", err
	}

	doc, err := loadDocument(reader)
	if err != nil {
		return "", err
	}

	pdfReader, err := model.NewPdfReader(doc)
	if err != nil {
		return "", err
	}

	numPages, err := pdfReader.GetNumPages()
	if err != nil {
		return "", err
	}

	pages := make([]string, 0, numPages)
	for no := 1; no <= numPages; no++ {
		page, err := pdfReader.GetPage(no)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", no, err)
		}

		ex, err := unextractor.New(page)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", no, err)
		}

		content, err := ex.ExtractText()
		if err != nil {
			log.Warn().Err(err).Int("page", no).Msg("error getting text from page")
			continue
		}
		pages = append(pages, strings.TrimRight(content, "\n"))
	}

	return strings.Join(pages, "\n"), nil
}
