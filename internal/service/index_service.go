package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/munirag/munirag/internal/ai"
	"github.com/munirag/munirag/internal/config"
	"github.com/munirag/munirag/internal/model"
	appErr "github.com/munirag/munirag/internal/pkg/errors"
	"github.com/munirag/munirag/internal/repo"
)

// IndexService owns the document lifecycle and keeps the chunk store
// consistent with document content. All multi-statement writes run in
// transactions; individual chunk embedding failures are tolerated and
// reported, not raised.
type IndexService struct {
	db        *sql.DB
	documents *repo.DocumentRepo
	chunks    *repo.ChunkRepo
	embedder  ai.IEmbedder
	chunking  config.ChunkingConfig
}

func NewIndexService(db *sql.DB, documents *repo.DocumentRepo, chunks *repo.ChunkRepo, embedder ai.IEmbedder, chunking config.ChunkingConfig) *IndexService {
	return &IndexService{
		db:        db,
		documents: documents,
		chunks:    chunks,
		embedder:  embedder,
		chunking:  chunking,
	}
}

type DocumentInput struct {
	Title       string `json:"title"`
	Content     string `json:"content"`
	Type        string `json:"type"`
	Category    string `json:"category"`
	DocNumber   string `json:"doc_number"`
	PublishedAt string `json:"published_at"`
	Status      string `json:"status"`
}

// ChunkFailure records one chunk whose embedding could not be generated.
type ChunkFailure struct {
	Index int    `json:"index"`
	Error string `json:"error"`
}

// IndexReport describes the per-chunk outcome of an indexing operation.
// A document can be persisted with fewer chunks than the chunker produced
// when the provider was partially or fully unavailable.
type IndexReport struct {
	ChunksTotal   int            `json:"chunks_total"`
	ChunksIndexed int            `json:"chunks_indexed"`
	Failures      []ChunkFailure `json:"failures,omitempty"`
}

type ReindexReport struct {
	Processed int `json:"processed"`
	Failed    int `json:"failed"`
}

func validateDocumentInput(input *DocumentInput) error {
	if input.Title == "" {
		return fmt.Errorf("%w: title is required", appErr.ErrInvalid)
	}
	if len(input.Title) > 255 {
		return fmt.Errorf("%w: title exceeds 255 characters", appErr.ErrInvalid)
	}
	if input.Content == "" {
		return fmt.Errorf("%w: content is required", appErr.ErrInvalid)
	}
	if !ai.ValidateInput(input.Content) {
		return fmt.Errorf("%w: content is empty or exceeds %d characters", appErr.ErrInvalid, ai.MaxInputChars)
	}
	if !model.ValidDocumentType(input.Type) {
		return fmt.Errorf("%w: type must be one of law, regulation, service, information", appErr.ErrInvalid)
	}
	if input.Category == "" {
		return fmt.Errorf("%w: category is required", appErr.ErrInvalid)
	}
	if input.Status != "" && !model.ValidDocumentStatus(input.Status) {
		return fmt.Errorf("%w: status must be one of active, inactive, archived", appErr.ErrInvalid)
	}
	return nil
}

func (s *IndexService) Create(ctx context.Context, input DocumentInput) (*model.Document, *IndexReport, error) {
	if err := validateDocumentInput(&input); err != nil {
		return nil, nil, err
	}
	now := time.Now()
	doc := &model.Document{
		ID:          newID(),
		Title:       input.Title,
		Content:     input.Content,
		Type:        input.Type,
		Category:    input.Category,
		DocNumber:   input.DocNumber,
		PublishedAt: input.PublishedAt,
		Status:      input.Status,
		Ctime:       now.UnixMilli(),
		Mtime:       now.UnixMilli(),
	}
	if doc.PublishedAt == "" {
		doc.PublishedAt = now.Format("2006-01-02")
	}
	if doc.Status == "" {
		doc.Status = model.DocumentStatusActive
	}
	report := &IndexReport{}
	err := repo.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.documents.WithQueryer(tx).Create(ctx, doc); err != nil {
			return fmt.Errorf("%w: insert document: %v", appErr.ErrPersistence, err)
		}
		rep, err := s.indexContent(ctx, s.chunks.WithQueryer(tx), doc.ID, doc.Content)
		if err != nil {
			return err
		}
		*report = *rep
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	logutil.GetLogger(ctx).Info("document created",
		zap.String("doc_id", doc.ID),
		zap.Int("chunks_total", report.ChunksTotal),
		zap.Int("chunks_indexed", report.ChunksIndexed),
	)
	return doc, report, nil
}

func (s *IndexService) Update(ctx context.Context, docID string, input DocumentInput) (*model.Document, *IndexReport, error) {
	existing, err := s.documents.GetByID(ctx, docID)
	if err != nil {
		return nil, nil, err
	}
	if err := validateDocumentInput(&input); err != nil {
		return nil, nil, err
	}
	doc := &model.Document{
		ID:          docID,
		Title:       input.Title,
		Content:     input.Content,
		Type:        input.Type,
		Category:    input.Category,
		DocNumber:   input.DocNumber,
		PublishedAt: input.PublishedAt,
		Status:      input.Status,
		Ctime:       existing.Ctime,
		Mtime:       time.Now().UnixMilli(),
	}
	if doc.PublishedAt == "" {
		doc.PublishedAt = existing.PublishedAt
	}
	if doc.Status == "" {
		doc.Status = existing.Status
	}
	contentChanged := doc.Content != existing.Content
	report := &IndexReport{}
	err = repo.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.documents.WithQueryer(tx).Update(ctx, doc); err != nil {
			if appErr.IsNotFound(err) {
				return err
			}
			return fmt.Errorf("%w: update document: %v", appErr.ErrPersistence, err)
		}
		if !contentChanged {
			return nil
		}
		chunks := s.chunks.WithQueryer(tx)
		if err := chunks.DeleteByDocument(ctx, docID); err != nil {
			return fmt.Errorf("%w: delete chunks: %v", appErr.ErrPersistence, err)
		}
		rep, err := s.indexContent(ctx, chunks, docID, doc.Content)
		if err != nil {
			return err
		}
		*report = *rep
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return doc, report, nil
}

func (s *IndexService) Delete(ctx context.Context, docID string) error {
	if _, err := s.documents.GetByID(ctx, docID); err != nil {
		return err
	}
	return repo.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.chunks.WithQueryer(tx).DeleteByDocument(ctx, docID); err != nil {
			return fmt.Errorf("%w: delete chunks: %v", appErr.ErrPersistence, err)
		}
		if err := s.documents.WithQueryer(tx).Delete(ctx, docID); err != nil {
			if appErr.IsNotFound(err) {
				return err
			}
			return fmt.Errorf("%w: delete document: %v", appErr.ErrPersistence, err)
		}
		return nil
	})
}

// ReindexAll wipes the chunk store and regenerates chunks for every active
// document. The wipe and each document run in their own transaction so a
// long sweep never holds one transaction over the whole store; failed
// documents are counted and skipped.
func (s *IndexService) ReindexAll(ctx context.Context) (*ReindexReport, error) {
	logger := logutil.GetLogger(ctx)
	err := repo.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		return s.chunks.WithQueryer(tx).DeleteAll(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: clear chunks: %v", appErr.ErrPersistence, err)
	}
	docs, err := s.documents.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list documents: %v", appErr.ErrPersistence, err)
	}
	report := &ReindexReport{}
	for _, doc := range docs {
		err := repo.WithTx(ctx, s.db, func(tx *sql.Tx) error {
			_, err := s.indexContent(ctx, s.chunks.WithQueryer(tx), doc.ID, doc.Content)
			return err
		})
		if err != nil {
			logger.Error("reindex document failed", zap.String("doc_id", doc.ID), zap.Error(err))
			report.Failed++
			continue
		}
		report.Processed++
	}
	logger.Info("reindex completed", zap.Int("processed", report.Processed), zap.Int("failed", report.Failed))
	return report, nil
}

func (s *IndexService) Get(ctx context.Context, docID string) (*model.Document, error) {
	return s.documents.GetByID(ctx, docID)
}

func (s *IndexService) List(ctx context.Context, filter repo.DocumentListFilter) ([]model.Document, error) {
	return s.documents.List(ctx, filter)
}

func (s *IndexService) Stats(ctx context.Context) (*model.DocumentStats, error) {
	return s.documents.Stats(ctx)
}

// indexContent chunks content and inserts one embedded row per chunk
// through q. Embedding failures are logged per chunk and collected into
// the report; chunk insert failures abort the surrounding transaction.
func (s *IndexService) indexContent(ctx context.Context, chunks *repo.ChunkRepo, docID, content string) (*IndexReport, error) {
	parts := ai.SplitText(content, s.chunking.MaxChunkSize, s.chunking.Overlap)
	report := &IndexReport{ChunksTotal: len(parts)}
	logger := logutil.GetLogger(ctx).With(zap.String("doc_id", docID))
	now := time.Now().UnixMilli()
	for i, part := range parts {
		values, err := s.embedder.Embed(ctx, part)
		if err != nil {
			logger.Warn("chunk embedding failed, skipping", zap.Int("chunk_index", i), zap.Error(err))
			report.Failures = append(report.Failures, ChunkFailure{Index: i, Error: err.Error()})
			continue
		}
		chunk := &model.Chunk{
			DocumentID: docID,
			ChunkIndex: i,
			Content:    part,
			Embedding:  values,
			Ctime:      now,
		}
		if err := chunks.Insert(ctx, chunk); err != nil {
			return nil, fmt.Errorf("%w: insert chunk %d: %v", appErr.ErrPersistence, i, err)
		}
		report.ChunksIndexed++
	}
	return report, nil
}
