package textsource

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/tirepoint/garage-docs/internal/entity"
)

var errEmptyText = errors.New("no text produced")

// OCRSource shells out to tesseract for scanned images and image-only PDFs.
type OCRSource struct {
	logger *slog.Logger
	runner Runner
	bin    string
	langs  string
}

func NewOCRSource(bin, langs string, logger *slog.Logger) *OCRSource {
	if logger == nil {
		logger = slog.Default()
	}
	if bin == "" {
		bin = "tesseract"
	}
	if langs == "" {
		langs = "eng"
	}
	return &OCRSource{logger: logger, runner: execRunner{}, bin: bin, langs: langs}
}

// WithRunner swaps the command runner, for tests.
func (s *OCRSource) WithRunner(r Runner) *OCRSource {
	s.runner = r
	return s
}

func (s *OCRSource) ExtractText(ctx context.Context, path string) (Result, error) {
	stdout, _, err := s.runner.Run(ctx, s.bin, path, "stdout", "-l", s.langs)
	if err != nil {
		return Result{}, unreadable(path, err)
	}
	text := string(stdout)
	if strings.TrimSpace(text) == "" {
		return Result{}, unreadable(path, errEmptyText)
	}
	return Result{Text: text, Source: entity.SourceOCR, Pages: 1}, nil
}
