package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/tirepoint/garage-docs/constants"
	"github.com/tirepoint/garage-docs/internal/repository"
)

// Service is a tiny façade over the document repository that produces XLSX
// bytes summarizing extraction runs.
type Service struct {
	docs   repository.DocumentRepository
	logger *slog.Logger
}

func NewService(docs repository.DocumentRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{docs: docs, logger: logger}
}

// exported field columns, in sheet order.
var exportedFields = []constants.FieldKind{
	constants.FieldPlateNumber,
	constants.FieldCustomerName,
	constants.FieldCustomerPhone,
	constants.FieldCustomerEmail,
	constants.FieldVehicleMake,
	constants.FieldVehicleModel,
	constants.FieldServiceDescription,
	constants.FieldAmount,
}

// ExportExtractionsXLSX returns an XLSX workbook (as bytes) listing every
// stored extraction: one row per document with its status, confidence, and
// the commonly reviewed fields.
func (s *Service) ExportExtractionsXLSX(ctx context.Context) ([]byte, error) {
	start := time.Now()

	recs, err := s.docs.ListExtractions(ctx)
	if err != nil {
		return nil, fmt.Errorf("query extractions: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Extractions"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{"Document", "Status", "Confidence", "Text Source"}
	for _, field := range exportedFields {
		headers = append(headers, string(field))
	}
	headers = append(headers, "Extracted At")
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, r := range recs {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, r.SourcePath)
		write(2, string(r.Status))
		write(3, r.Confidence)
		write(4, string(r.Source))
		col := 5
		for _, field := range exportedFields {
			write(col, r.Fields[field])
			col++
		}
		write(col, r.CreatedAt.UTC().Format("2006-01-02 15:04:05"))

		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 60) // path
	_ = f.SetColWidth(sheet, "B", "B", 20) // status
	_ = f.SetColWidth(sheet, "C", "D", 12)
	_ = f.SetColWidth(sheet, "E", "L", 22) // fields
	_ = f.SetColWidth(sheet, "M", "M", 20) // timestamp

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(recs),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
