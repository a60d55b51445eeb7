package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tirepoint/garage-docs/constants"
	"github.com/tirepoint/garage-docs/internal/common"
	"github.com/tirepoint/garage-docs/internal/entity"
	"github.com/tirepoint/garage-docs/internal/validate"
)

// DocumentRepository persists documents and their extraction results.
type DocumentRepository interface {
	Create(ctx context.Context, sourcePath, format string) (*entity.Document, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Document, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status constants.DocStatus, errMsg string) error
	SaveExtraction(ctx context.Context, docID uuid.UUID, res entity.ExtractionResult) error
	ListExtractions(ctx context.Context) ([]entity.ExtractionRecord, error)
}

// extractionPayload is the JSON shape stored for one extraction, validated
// against the schema from the validate package before writing.
type extractionPayload struct {
	Fields     entity.FieldSet   `json:"fields"`
	Confidence int               `json:"confidence"`
	Source     entity.TextSource `json:"source_kind"`
}

func marshalExtraction(res entity.ExtractionResult) ([]byte, error) {
	payload := extractionPayload{
		Fields:     res.Fields,
		Confidence: res.Confidence,
		Source:     res.Source,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, common.WrapError(err, "marshal extraction payload")
	}
	if err := validate.ValidateJSONAgainstSchema(validate.BuildExtractionJSONSchema(), data); err != nil {
		return nil, common.NewAppError("INVALID_EXTRACTION", "extraction payload failed schema validation", err)
	}
	return data, nil
}

// PGDocumentRepository stores documents in Postgres.
type PGDocumentRepository struct {
	pool *pgxpool.Pool
}

func NewPGDocumentRepository(pool *pgxpool.Pool) *PGDocumentRepository {
	return &PGDocumentRepository{pool: pool}
}

func (r *PGDocumentRepository) Create(ctx context.Context, sourcePath, format string) (*entity.Document, error) {
	doc := &entity.Document{
		ID:         uuid.New(),
		SourcePath: sourcePath,
		Format:     format,
		Status:     constants.DocStatusUploaded,
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO documents (id, source_path, format, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		doc.ID, doc.SourcePath, doc.Format, string(doc.Status), doc.CreatedAt, doc.UpdatedAt)
	if err != nil {
		return nil, common.NewAppError("DB_ERROR", "failed to create document", err)
	}
	return doc, nil
}

func (r *PGDocumentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Document, error) {
	var doc entity.Document
	var status string
	err := r.pool.QueryRow(ctx,
		`SELECT id, source_path, format, status, COALESCE(error_message, ''), created_at, updated_at
		 FROM documents WHERE id = $1`, id).
		Scan(&doc.ID, &doc.SourcePath, &doc.Format, &status, &doc.ErrorMessage, &doc.CreatedAt, &doc.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("document %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, common.NewAppError("DB_ERROR", "failed to load document", err)
	}
	doc.Status = constants.DocStatus(status)
	return &doc, nil
}

func (r *PGDocumentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status constants.DocStatus, errMsg string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE documents SET status = $2, error_message = NULLIF($3, ''), updated_at = now()
		 WHERE id = $1`,
		id, string(status), errMsg)
	if err != nil {
		return common.NewAppError("DB_ERROR", "failed to update document status", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("document %s: %w", id, common.ErrNotFound)
	}
	return nil
}

func (r *PGDocumentRepository) SaveExtraction(ctx context.Context, docID uuid.UUID, res entity.ExtractionResult) error {
	data, err := marshalExtraction(res)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx,
		`INSERT INTO extractions (id, document_id, raw_text, payload, confidence, source_kind, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, now())
		 ON CONFLICT (document_id) DO UPDATE
		 SET raw_text = EXCLUDED.raw_text, payload = EXCLUDED.payload,
		     confidence = EXCLUDED.confidence, source_kind = EXCLUDED.source_kind`,
		uuid.New(), docID, res.RawText, data, res.Confidence, string(res.Source))
	if err != nil {
		return common.NewAppError("DB_ERROR", "failed to save extraction", err)
	}
	return nil
}

func (r *PGDocumentRepository) ListExtractions(ctx context.Context) ([]entity.ExtractionRecord, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT e.document_id, d.source_path, d.status, e.payload, e.created_at
		 FROM extractions e
		 JOIN documents d ON d.id = e.document_id
		 ORDER BY e.created_at`)
	if err != nil {
		return nil, common.NewAppError("DB_ERROR", "failed to list extractions", err)
	}
	defer rows.Close()

	var out []entity.ExtractionRecord
	for rows.Next() {
		var rec entity.ExtractionRecord
		var status string
		var payload []byte
		if err := rows.Scan(&rec.DocumentID, &rec.SourcePath, &status, &payload, &rec.CreatedAt); err != nil {
			return nil, common.NewAppError("DB_ERROR", "failed to scan extraction row", err)
		}
		rec.Status = constants.DocStatus(status)
		var p extractionPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, common.NewAppError("DB_ERROR", "failed to decode extraction payload", err)
		}
		rec.Confidence = p.Confidence
		rec.Source = p.Source
		rec.Fields = p.Fields.Values()
		out = append(out, rec)
	}
	return out, rows.Err()
}
