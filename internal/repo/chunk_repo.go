package repo

import (
	"context"

	"github.com/pgvector/pgvector-go"

	"github.com/munirag/munirag/internal/model"
)

type ChunkRepo struct {
	db Queryer
}

func NewChunkRepo(db Queryer) *ChunkRepo {
	return &ChunkRepo{db: db}
}

func (r *ChunkRepo) WithQueryer(q Queryer) *ChunkRepo {
	return &ChunkRepo{db: q}
}

func (r *ChunkRepo) Insert(ctx context.Context, chunk *model.Chunk) error {
	const query = `
		INSERT INTO chunks (document_id, chunk_index, content, embedding, ctime)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query,
		chunk.DocumentID,
		chunk.ChunkIndex,
		chunk.Content,
		pgvector.NewVector(chunk.Embedding),
		chunk.Ctime,
	)
	return err
}

func (r *ChunkRepo) DeleteByDocument(ctx context.Context, docID string) error {
	const query = `DELETE FROM chunks WHERE document_id = $1`
	_, err := r.db.ExecContext(ctx, query, docID)
	return err
}

func (r *ChunkRepo) DeleteAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM chunks`)
	return err
}

func (r *ChunkRepo) CountByDocument(ctx context.Context, docID string) (int64, error) {
	row := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chunks WHERE document_id = $1`, docID)
	var count int64
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

type RetrievalFilter struct {
	Category string
	Type     string
}

// ListForRetrieval loads every chunk of every active document, joined with
// the document metadata the composer needs. The stored vector column is
// decoded into []float32 here; everything above this layer works with the
// typed form only.
func (r *ChunkRepo) ListForRetrieval(ctx context.Context, filter RetrievalFilter) ([]model.ChunkWithDocument, error) {
	query := `
		SELECT c.id, c.document_id, c.chunk_index, c.content, c.embedding,
			d.title, d.doc_type, d.category, d.doc_number
		FROM chunks c
		JOIN documents d ON c.document_id = d.id
		WHERE d.status = $1
	`
	args := []interface{}{model.DocumentStatusActive}
	if filter.Category != "" {
		args = append(args, filter.Category)
		query += ` AND d.category = $2`
	}
	if filter.Type != "" {
		args = append(args, filter.Type)
		if filter.Category != "" {
			query += ` AND d.doc_type = $3`
		} else {
			query += ` AND d.doc_type = $2`
		}
	}
	query += ` ORDER BY c.document_id, c.chunk_index`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var results []model.ChunkWithDocument
	for rows.Next() {
		var item model.ChunkWithDocument
		var embedding pgvector.Vector
		if err := rows.Scan(&item.ID, &item.DocumentID, &item.ChunkIndex, &item.Content, &embedding,
			&item.DocTitle, &item.DocType, &item.DocCategory, &item.DocNumber); err != nil {
			return nil, err
		}
		item.Embedding = embedding.Slice()
		results = append(results, item)
	}
	return results, rows.Err()
}
