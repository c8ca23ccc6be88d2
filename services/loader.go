package services

import (
	"errors"
	"fmt"
	"os"

	"patent-insight-backend/internal/logger"
	"patent-insight-backend/models"

	"github.com/ledongthuc/pdf"
)

// ErrFileNotFound signals a missing source file before any store interaction.
var ErrFileNotFound = errors.New("file not found")

// LoadPDF reads a PDF from disk and returns one PageDocument per page.
// Pages whose extraction fails are skipped, not fatal: a partially readable
// patent is still worth indexing.
func LoadPDF(path string) ([]models.PageDocument, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("failed to stat PDF file: %w", err)
	}

	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	var pages []models.PageDocument
	numPages := reader.NumPage()

	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		fonts := make(map[string]*pdf.Font)
		text, err := page.GetPlainText(fonts)
		if err != nil {
			logger.Warn("failed to extract text from page", "path", path, "page", i, "error", err)
			continue
		}

		pages = append(pages, models.PageDocument{
			SourcePath: path,
			Page:       i,
			Text:       text,
		})
	}

	if len(pages) == 0 {
		return nil, fmt.Errorf("no text extracted from %s", path)
	}

	return pages, nil
}
