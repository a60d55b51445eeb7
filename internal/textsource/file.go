package textsource

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/tirepoint/garage-docs/constants"
	"github.com/tirepoint/garage-docs/internal/entity"
)

// FileSource dispatches by file extension to the right adapter: PDF text
// layer (with OCR fallback), image OCR, or plain text.
type FileSource struct {
	logger *slog.Logger
	pdf    *PDFSource
	ocr    *OCRSource
}

func NewFileSource(pdf *PDFSource, ocr *OCRSource, logger *slog.Logger) *FileSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileSource{logger: logger, pdf: pdf, ocr: ocr}
}

func (s *FileSource) ExtractText(ctx context.Context, path string) (Result, error) {
	format := constants.MapExtToFormat(filepath.Ext(path))
	switch format {
	case constants.PDF:
		return s.pdf.ExtractText(ctx, path)
	case constants.IMAGE:
		return s.ocr.ExtractText(ctx, path)
	case constants.TXT:
		content, err := os.ReadFile(path)
		if err != nil {
			return Result{}, unreadable(path, err)
		}
		text := string(content)
		if strings.TrimSpace(text) == "" {
			return Result{}, unreadable(path, errEmptyText)
		}
		return Result{Text: text, Source: entity.SourceTextLayer, Pages: 1}, nil
	default:
		return Result{}, unreadable(path, fmt.Errorf("unsupported file type %q", filepath.Ext(path)))
	}
}
