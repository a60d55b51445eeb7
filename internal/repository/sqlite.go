package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/tirepoint/garage-docs/constants"
	"github.com/tirepoint/garage-docs/internal/common"
	"github.com/tirepoint/garage-docs/internal/entity"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS pattern_rules (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	name          TEXT NOT NULL,
	field         TEXT NOT NULL,
	pattern       TEXT NOT NULL,
	capture_group INTEGER NOT NULL DEFAULT 1,
	priority      INTEGER NOT NULL DEFAULT 100,
	enabled       INTEGER NOT NULL DEFAULT 1,
	updated_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS documents (
	id            TEXT PRIMARY KEY,
	source_path   TEXT NOT NULL,
	format        TEXT NOT NULL,
	status        TEXT NOT NULL,
	error_message TEXT,
	created_at    TIMESTAMP NOT NULL,
	updated_at    TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS extractions (
	id          TEXT PRIMARY KEY,
	document_id TEXT NOT NULL UNIQUE REFERENCES documents(id),
	raw_text    TEXT NOT NULL,
	payload     TEXT NOT NULL,
	confidence  INTEGER NOT NULL,
	source_kind TEXT NOT NULL,
	created_at  TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS customers (
	id           TEXT PRIMARY KEY,
	name         TEXT,
	phone_number TEXT,
	email        TEXT,
	address      TEXT,
	updated_at   TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_customers_phone ON customers(phone_number);
CREATE TABLE IF NOT EXISTS vehicles (
	id           TEXT PRIMARY KEY,
	customer_id  TEXT REFERENCES customers(id),
	plate_number TEXT NOT NULL,
	make         TEXT,
	model        TEXT,
	vehicle_type TEXT,
	updated_at   TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_vehicles_plate ON vehicles(plate_number);
`

// LocalStore is the embedded SQLite backend used by the batch CLI when no
// Postgres DSN is configured. It carries the same tables as the shop
// database, including a synced snapshot of customers and vehicles so
// matching works offline.
type LocalStore struct {
	db *sql.DB
}

// OpenLocal opens (and initializes if needed) the SQLite database at path.
func OpenLocal(path string) (*LocalStore, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, common.NewAppError("DB_ERROR", "failed to open local store", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, common.NewAppError("DB_ERROR", "failed to initialize local store schema", err)
	}
	return &LocalStore{db: db}, nil
}

func (s *LocalStore) Close() error { return s.db.Close() }

// SeedRules inserts the given rules when the rules table is empty, so a
// fresh local store starts with a working extraction rule set.
func (s *LocalStore) SeedRules(ctx context.Context, rules []entity.PatternRule) error {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM pattern_rules`).Scan(&n); err != nil {
		return common.NewAppError("DB_ERROR", "failed to count pattern rules", err)
	}
	if n > 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return common.NewAppError("DB_ERROR", "failed to begin seed transaction", err)
	}
	defer func() { _ = tx.Rollback() }()
	for _, r := range rules {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO pattern_rules (name, field, pattern, capture_group, priority, enabled, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			r.Name, string(r.Field), r.Pattern, r.CaptureGroup, r.Priority, boolToInt(r.Enabled), time.Now().UTC()); err != nil {
			return common.NewAppError("DB_ERROR", "failed to seed pattern rule", err)
		}
	}
	return tx.Commit()
}

func (s *LocalStore) ActiveRules(ctx context.Context) ([]entity.PatternRule, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, field, pattern, capture_group, priority, enabled, updated_at
		 FROM pattern_rules
		 WHERE enabled = 1
		 ORDER BY priority, id`)
	if err != nil {
		return nil, common.NewAppError("DB_ERROR", "failed to load pattern rules", err)
	}
	defer rows.Close()

	var out []entity.PatternRule
	for rows.Next() {
		var rule entity.PatternRule
		var field string
		var enabled int
		if err := rows.Scan(&rule.ID, &rule.Name, &field, &rule.Pattern,
			&rule.CaptureGroup, &rule.Priority, &enabled, &rule.UpdatedAt); err != nil {
			return nil, common.NewAppError("DB_ERROR", "failed to scan pattern rule", err)
		}
		rule.Field = constants.FieldKind(field)
		rule.Enabled = enabled != 0
		out = append(out, rule)
	}
	return out, rows.Err()
}

func (s *LocalStore) Create(ctx context.Context, sourcePath, format string) (*entity.Document, error) {
	doc := &entity.Document{
		ID:         uuid.New(),
		SourcePath: sourcePath,
		Format:     format,
		Status:     constants.DocStatusUploaded,
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (id, source_path, format, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		doc.ID.String(), doc.SourcePath, doc.Format, string(doc.Status), doc.CreatedAt, doc.UpdatedAt)
	if err != nil {
		return nil, common.NewAppError("DB_ERROR", "failed to create document", err)
	}
	return doc, nil
}

func (s *LocalStore) GetByID(ctx context.Context, id uuid.UUID) (*entity.Document, error) {
	var doc entity.Document
	var rawID, status string
	var errMsg sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT id, source_path, format, status, error_message, created_at, updated_at
		 FROM documents WHERE id = ?`, id.String()).
		Scan(&rawID, &doc.SourcePath, &doc.Format, &status, &errMsg, &doc.CreatedAt, &doc.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("document %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, common.NewAppError("DB_ERROR", "failed to load document", err)
	}
	doc.ID, err = uuid.Parse(rawID)
	if err != nil {
		return nil, common.NewAppError("DB_ERROR", "corrupt document id", err)
	}
	doc.Status = constants.DocStatus(status)
	doc.ErrorMessage = errMsg.String
	return &doc, nil
}

func (s *LocalStore) UpdateStatus(ctx context.Context, id uuid.UUID, status constants.DocStatus, errMsg string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE documents SET status = ?, error_message = NULLIF(?, ''), updated_at = ? WHERE id = ?`,
		string(status), errMsg, time.Now().UTC(), id.String())
	if err != nil {
		return common.NewAppError("DB_ERROR", "failed to update document status", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("document %s: %w", id, common.ErrNotFound)
	}
	return nil
}

func (s *LocalStore) SaveExtraction(ctx context.Context, docID uuid.UUID, res entity.ExtractionResult) error {
	data, err := marshalExtraction(res)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO extractions (id, document_id, raw_text, payload, confidence, source_kind, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (document_id) DO UPDATE
		 SET raw_text = excluded.raw_text, payload = excluded.payload,
		     confidence = excluded.confidence, source_kind = excluded.source_kind`,
		uuid.NewString(), docID.String(), res.RawText, string(data), res.Confidence, string(res.Source), time.Now().UTC())
	if err != nil {
		return common.NewAppError("DB_ERROR", "failed to save extraction", err)
	}
	return nil
}

func (s *LocalStore) ListExtractions(ctx context.Context) ([]entity.ExtractionRecord, error) {
	rows, err := s.db.QueryContext(ctx,
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
		var rawID, status, payload string
		if err := rows.Scan(&rawID, &rec.SourcePath, &status, &payload, &rec.CreatedAt); err != nil {
			return nil, common.NewAppError("DB_ERROR", "failed to scan extraction row", err)
		}
		rec.DocumentID, err = uuid.Parse(rawID)
		if err != nil {
			return nil, common.NewAppError("DB_ERROR", "corrupt document id", err)
		}
		rec.Status = constants.DocStatus(status)
		var p extractionPayload
		if err := json.Unmarshal([]byte(payload), &p); err != nil {
			return nil, common.NewAppError("DB_ERROR", "failed to decode extraction payload", err)
		}
		rec.Confidence = p.Confidence
		rec.Source = p.Source
		rec.Fields = p.Fields.Values()
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *LocalStore) FindByPlate(ctx context.Context, plate string) (*entity.Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT v.id, v.plate_number, COALESCE(v.make, ''), COALESCE(v.model, ''),
		        COALESCE(v.vehicle_type, ''), v.updated_at,
		        COALESCE(c.name, ''), COALESCE(c.phone_number, ''),
		        COALESCE(c.email, ''), COALESCE(c.address, '')
		 FROM vehicles v
		 LEFT JOIN customers c ON c.id = v.customer_id
		 WHERE v.plate_number = ?`, plate)

	rec := entity.Record{Kind: entity.RecordVehicle, Fields: map[constants.FieldKind]string{}}
	var rawID, plateNo, makeName, model, vtype, name, phone, email, address string
	err := row.Scan(&rawID, &plateNo, &makeName, &model, &vtype, &rec.UpdatedAt,
		&name, &phone, &email, &address)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, common.NewAppError("DB_ERROR", "failed to look up vehicle by plate", err)
	}
	rec.ID, err = uuid.Parse(rawID)
	if err != nil {
		return nil, common.NewAppError("DB_ERROR", "corrupt vehicle id", err)
	}

	setIfPresent(rec.Fields, constants.FieldPlateNumber, plateNo)
	setIfPresent(rec.Fields, constants.FieldVehicleMake, makeName)
	setIfPresent(rec.Fields, constants.FieldVehicleModel, model)
	setIfPresent(rec.Fields, constants.FieldVehicleType, vtype)
	setIfPresent(rec.Fields, constants.FieldCustomerName, name)
	setIfPresent(rec.Fields, constants.FieldCustomerPhone, phone)
	setIfPresent(rec.Fields, constants.FieldCustomerEmail, email)
	setIfPresent(rec.Fields, constants.FieldCustomerAddress, address)
	return &rec, nil
}

func (s *LocalStore) FindByPhone(ctx context.Context, phone string) (*entity.Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, COALESCE(name, ''), phone_number, COALESCE(email, ''),
		        COALESCE(address, ''), updated_at
		 FROM customers
		 WHERE phone_number = ?`, phone)

	rec := entity.Record{Kind: entity.RecordCustomer, Fields: map[constants.FieldKind]string{}}
	var rawID, name, phoneNo, email, address string
	err := row.Scan(&rawID, &name, &phoneNo, &email, &address, &rec.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, common.NewAppError("DB_ERROR", "failed to look up customer by phone", err)
	}
	rec.ID, err = uuid.Parse(rawID)
	if err != nil {
		return nil, common.NewAppError("DB_ERROR", "corrupt customer id", err)
	}

	setIfPresent(rec.Fields, constants.FieldCustomerName, name)
	setIfPresent(rec.Fields, constants.FieldCustomerPhone, phoneNo)
	setIfPresent(rec.Fields, constants.FieldCustomerEmail, email)
	setIfPresent(rec.Fields, constants.FieldCustomerAddress, address)
	return &rec, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
