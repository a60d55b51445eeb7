// Package pipeline coordinates one document's pass through the engine:
// text production, field extraction, scoring, record matching, and
// mismatch reconciliation, with the document status advanced at each stage.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/tirepoint/garage-docs/constants"
	"github.com/tirepoint/garage-docs/internal/entity"
	"github.com/tirepoint/garage-docs/internal/extract"
	"github.com/tirepoint/garage-docs/internal/match"
	"github.com/tirepoint/garage-docs/internal/reconcile"
	"github.com/tirepoint/garage-docs/internal/repository"
	"github.com/tirepoint/garage-docs/internal/score"
	"github.com/tirepoint/garage-docs/internal/textsource"
)

// Result is the outcome of one document run. When Status is
// CONFLICT_DETECTED the caller picks a resolution strategy and calls
// FinalizeResolution; otherwise the document is already terminal.
type Result struct {
	Document   *entity.Document
	Extraction entity.ExtractionResult
	Candidates []entity.MatchCandidate
	Mismatches []entity.Mismatch
	Status     constants.DocStatus
}

// Processor runs the linear per-document sequence. It holds no mutable
// shared state beyond the read-only rule snapshot inside the extractor, so
// any number of documents may be processed by concurrent callers.
type Processor struct {
	logger     *slog.Logger
	source     textsource.Source
	extractor  *extract.Extractor
	scorer     *score.Scorer
	matcher    *match.Matcher
	docs       repository.DocumentRepository
	maxRawText int
}

func NewProcessor(
	logger *slog.Logger,
	source textsource.Source,
	extractor *extract.Extractor,
	scorer *score.Scorer,
	matcher *match.Matcher,
	docs repository.DocumentRepository,
	maxRawText int,
) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if maxRawText <= 0 {
		maxRawText = 10000
	}
	return &Processor{
		logger:     logger,
		source:     source,
		extractor:  extractor,
		scorer:     scorer,
		matcher:    matcher,
		docs:       docs,
		maxRawText: maxRawText,
	}
}

// RunExtraction converts raw text into an immutable ExtractionResult:
// extracted fields plus their confidence score. It never fails; malformed
// text degrades to absent fields and a low score.
func (p *Processor) RunExtraction(rawText string, source entity.TextSource) entity.ExtractionResult {
	fields := p.extractor.Extract(rawText)
	stored := rawText
	if len(stored) > p.maxRawText {
		stored = stored[:p.maxRawText]
	}
	return entity.ExtractionResult{
		RawText:    stored,
		Fields:     fields,
		Confidence: p.scorer.Score(fields),
		Source:     source,
	}
}

// MatchRecords looks up candidate records for the extracted identity fields.
func (p *Processor) MatchRecords(ctx context.Context, fields entity.FieldSet) ([]entity.MatchCandidate, error) {
	cands, err := p.matcher.MatchFields(ctx, fields)
	if err != nil {
		return nil, err
	}
	out := make([]entity.MatchCandidate, len(cands))
	for i, c := range cands {
		out[i] = c.MatchCandidate
	}
	return out, nil
}

// DetectMismatches reports field-level conflicts between extracted values
// and a matched record's stored values.
func (p *Processor) DetectMismatches(fields entity.FieldSet, existing map[constants.FieldKind]string) []entity.Mismatch {
	return reconcile.Detect(fields, existing)
}

// Resolve applies a resolution strategy to the mismatch set.
func (p *Processor) Resolve(
	mismatches []entity.Mismatch,
	strategy entity.ResolutionStrategy,
	mergeChoices map[constants.FieldKind]string,
) (map[constants.FieldKind]string, error) {
	return reconcile.Resolve(mismatches, strategy, mergeChoices)
}

// ProcessDocument runs the full lifecycle for one file. An unreadable
// document moves to FAILED and the error is surfaced; everything after text
// production degrades instead of failing the document.
func (p *Processor) ProcessDocument(ctx context.Context, path string) (*Result, error) {
	format := constants.MapExtToFormat(filepath.Ext(path))
	doc, err := p.docs.Create(ctx, path, format)
	if err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}
	p.logger.Info("document uploaded", "doc_id", doc.ID, "path", path, "format", format)

	text, err := p.source.ExtractText(ctx, path)
	if err != nil {
		// Unreadable documents and runner failures alike park the document
		// in FAILED with the cause recorded.
		p.fail(ctx, doc, err)
		return &Result{Document: doc, Status: constants.DocStatusFailed}, err
	}
	if err := p.advance(ctx, doc, constants.DocStatusTextExtracted); err != nil {
		return nil, err
	}

	res := p.RunExtraction(text.Text, text.Source)
	if err := p.advance(ctx, doc, constants.DocStatusFieldsExtracted); err != nil {
		return nil, err
	}
	if err := p.advance(ctx, doc, constants.DocStatusScored); err != nil {
		return nil, err
	}
	if err := p.docs.SaveExtraction(ctx, doc.ID, res); err != nil {
		p.fail(ctx, doc, err)
		return &Result{Document: doc, Extraction: res, Status: constants.DocStatusFailed}, err
	}
	p.logger.Info("fields extracted",
		"doc_id", doc.ID, "fields", len(res.Fields), "confidence", res.Confidence, "source", res.Source)

	out := &Result{Document: doc, Extraction: res}

	cands, err := p.matcher.MatchFields(ctx, res.Fields)
	if err != nil {
		// Matching errors are call-local: surface them without failing the
		// extraction that already succeeded.
		p.fail(ctx, doc, err)
		out.Status = constants.DocStatusFailed
		return out, err
	}

	if len(cands) == 0 {
		// No identity fields or no existing records: proceed unlinked.
		if err := p.advance(ctx, doc, constants.DocStatusNoConflict); err != nil {
			return nil, err
		}
		if err := p.advance(ctx, doc, constants.DocStatusFinalized); err != nil {
			return nil, err
		}
		out.Status = constants.DocStatusFinalized
		return out, nil
	}

	if err := p.advance(ctx, doc, constants.DocStatusMatchAttempted); err != nil {
		return nil, err
	}
	for _, c := range cands {
		out.Candidates = append(out.Candidates, c.MatchCandidate)
	}

	mismatches := reconcile.Detect(res.Fields, cands[0].Record.Fields)
	if len(mismatches) == 0 {
		if err := p.advance(ctx, doc, constants.DocStatusNoConflict); err != nil {
			return nil, err
		}
		if err := p.advance(ctx, doc, constants.DocStatusFinalized); err != nil {
			return nil, err
		}
		out.Status = constants.DocStatusFinalized
		return out, nil
	}

	out.Mismatches = mismatches
	if err := p.advance(ctx, doc, constants.DocStatusConflictDetected); err != nil {
		return nil, err
	}
	out.Status = constants.DocStatusConflictDetected
	p.logger.Info("conflicts detected", "doc_id", doc.ID, "mismatches", len(mismatches))
	return out, nil
}

// FinalizeResolution applies the chosen strategy to a conflicted document
// and moves it to FINALIZED. Returns the resolved values for the caller to
// overlay onto the full field set.
func (p *Processor) FinalizeResolution(
	ctx context.Context,
	doc *entity.Document,
	mismatches []entity.Mismatch,
	strategy entity.ResolutionStrategy,
	mergeChoices map[constants.FieldKind]string,
) (map[constants.FieldKind]string, error) {
	resolved, err := reconcile.Resolve(mismatches, strategy, mergeChoices)
	if err != nil {
		// Resolution errors (incomplete merge) are fatal to this call only;
		// the document stays in CONFLICT_DETECTED for a retry.
		return nil, err
	}
	if err := p.advance(ctx, doc, constants.DocStatusResolved); err != nil {
		return nil, err
	}
	if err := p.advance(ctx, doc, constants.DocStatusFinalized); err != nil {
		return nil, err
	}
	p.logger.Info("conflicts resolved", "doc_id", doc.ID, "strategy", strategy, "fields", len(resolved))
	return resolved, nil
}

func (p *Processor) advance(ctx context.Context, doc *entity.Document, next constants.DocStatus) error {
	if !doc.Status.CanTransition(next) {
		return fmt.Errorf("illegal status transition %s -> %s for document %s", doc.Status, next, doc.ID)
	}
	if err := p.docs.UpdateStatus(ctx, doc.ID, next, ""); err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	doc.Status = next
	return nil
}

func (p *Processor) fail(ctx context.Context, doc *entity.Document, cause error) {
	p.logger.Error("document failed", "doc_id", doc.ID, "status", doc.Status, "error", cause)
	if err := p.docs.UpdateStatus(ctx, doc.ID, constants.DocStatusFailed, cause.Error()); err != nil {
		p.logger.Error("recording failure status", "doc_id", doc.ID, "error", err)
	}
	doc.Status = constants.DocStatusFailed
}
