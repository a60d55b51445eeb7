package textsource

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"strings"

	pdf "github.com/ledongthuc/pdf"

	"github.com/tirepoint/garage-docs/internal/entity"
)

// maxPDFPages caps how many pages contribute text; quotations and invoices
// carry their identity fields up front.
const maxPDFPages = 10

// PDFSource reads a PDF's text layer. When the layer is missing or shorter
// than minTextChars (a scanned PDF), it falls back to OCR if an OCR source
// was provided.
type PDFSource struct {
	logger       *slog.Logger
	ocr          *OCRSource
	minTextChars int
}

func NewPDFSource(ocr *OCRSource, minTextChars int, logger *slog.Logger) *PDFSource {
	if logger == nil {
		logger = slog.Default()
	}
	if minTextChars <= 0 {
		minTextChars = 20
	}
	return &PDFSource{logger: logger, ocr: ocr, minTextChars: minTextChars}
}

func (s *PDFSource) ExtractText(ctx context.Context, path string) (Result, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Result{}, unreadable(path, err)
	}

	text, pages, err := textLayer(content)
	if err != nil {
		s.logger.Warn("pdf text layer unreadable", "path", path, "error", err)
		return s.fallback(ctx, path, err)
	}

	if len(strings.TrimSpace(text)) < s.minTextChars {
		s.logger.Debug("pdf text layer too short, trying ocr", "path", path, "chars", len(text))
		if res, err := s.fallback(ctx, path, nil); err == nil {
			return res, nil
		}
	}

	if strings.TrimSpace(text) == "" {
		return Result{}, unreadable(path, errEmptyText)
	}
	return Result{Text: text, Source: entity.SourceTextLayer, Pages: pages}, nil
}

func (s *PDFSource) fallback(ctx context.Context, path string, cause error) (Result, error) {
	if s.ocr == nil {
		if cause == nil {
			cause = errEmptyText
		}
		return Result{}, unreadable(path, cause)
	}
	return s.ocr.ExtractText(ctx, path)
}

func textLayer(content []byte) (string, int, error) {
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", 0, err
	}

	pages := r.NumPage()
	if pages > maxPDFPages {
		pages = maxPDFPages
	}

	var b strings.Builder
	for i := 1; i <= pages; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(text)
		b.WriteString("\n")
	}
	return b.String(), pages, nil
}
