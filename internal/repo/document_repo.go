package repo

import (
	"context"

	"github.com/didi/gendry/builder"

	"github.com/munirag/munirag/internal/model"
	"github.com/munirag/munirag/internal/pkg/dbutil"
	appErr "github.com/munirag/munirag/internal/pkg/errors"
)

var documentFields = []string{"id", "title", "content", "doc_type", "category", "doc_number", "published_at", "status", "ctime", "mtime"}

type DocumentRepo struct {
	db Queryer
}

func NewDocumentRepo(db Queryer) *DocumentRepo {
	return &DocumentRepo{db: db}
}

// WithQueryer returns a copy of the repo bound to q, typically a *sql.Tx.
func (r *DocumentRepo) WithQueryer(q Queryer) *DocumentRepo {
	return &DocumentRepo{db: q}
}

func (r *DocumentRepo) Create(ctx context.Context, doc *model.Document) error {
	data := map[string]interface{}{
		"id":           doc.ID,
		"title":        doc.Title,
		"content":      doc.Content,
		"doc_type":     doc.Type,
		"category":     doc.Category,
		"doc_number":   doc.DocNumber,
		"published_at": doc.PublishedAt,
		"status":       doc.Status,
		"ctime":        doc.Ctime,
		"mtime":        doc.Mtime,
	}
	sqlStr, args, err := builder.BuildInsert("documents", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *DocumentRepo) Update(ctx context.Context, doc *model.Document) error {
	where := map[string]interface{}{
		"id": doc.ID,
	}
	update := map[string]interface{}{
		"title":        doc.Title,
		"content":      doc.Content,
		"doc_type":     doc.Type,
		"category":     doc.Category,
		"doc_number":   doc.DocNumber,
		"published_at": doc.PublishedAt,
		"status":       doc.Status,
		"mtime":        doc.Mtime,
	}
	sqlStr, args, err := builder.BuildUpdate("documents", where, update)
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	result, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return appErr.ErrNotFound
	}
	return nil
}

func (r *DocumentRepo) Delete(ctx context.Context, docID string) error {
	sqlStr, args, err := builder.BuildDelete("documents", map[string]interface{}{"id": docID})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	result, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return appErr.ErrNotFound
	}
	return nil
}

func (r *DocumentRepo) GetByID(ctx context.Context, docID string) (*model.Document, error) {
	where := map[string]interface{}{
		"id": docID,
	}
	sqlStr, args, err := builder.BuildSelect("documents", where, documentFields)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	if !rows.Next() {
		return nil, appErr.ErrNotFound
	}
	var doc model.Document
	if err := scanDocument(rows, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

type DocumentListFilter struct {
	Type     string
	Category string
	Status   string
	Search   string
	Limit    uint
	Offset   uint
}

func (r *DocumentRepo) List(ctx context.Context, filter DocumentListFilter) ([]model.Document, error) {
	where := map[string]interface{}{
		"_orderby": "published_at desc, ctime desc",
	}
	if filter.Type != "" {
		where["doc_type"] = filter.Type
	}
	if filter.Category != "" {
		where["category"] = filter.Category
	}
	if filter.Status != "" {
		where["status"] = filter.Status
	}
	if filter.Search != "" {
		where["_or"] = []map[string]interface{}{
			{"title like": "%" + filter.Search + "%"},
			{"content like": "%" + filter.Search + "%"},
		}
	}
	if filter.Limit > 0 {
		where["_limit"] = []uint{filter.Offset, filter.Limit}
	}
	sqlStr, args, err := builder.BuildSelect("documents", where, documentFields)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	docs := make([]model.Document, 0)
	for rows.Next() {
		var doc model.Document
		if err := scanDocument(rows, &doc); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// ListActive returns id and content of every active document, for reindexing.
func (r *DocumentRepo) ListActive(ctx context.Context) ([]model.Document, error) {
	const query = `SELECT id, content FROM documents WHERE status = $1 ORDER BY ctime`
	rows, err := r.db.QueryContext(ctx, query, model.DocumentStatusActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var docs []model.Document
	for rows.Next() {
		var doc model.Document
		if err := rows.Scan(&doc.ID, &doc.Content); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (r *DocumentRepo) Stats(ctx context.Context) (*model.DocumentStats, error) {
	stats := &model.DocumentStats{
		ByType:     make(map[string]int64),
		ByCategory: make(map[string]int64),
	}
	row := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents WHERE status = $1`, model.DocumentStatusActive)
	if err := row.Scan(&stats.TotalDocuments); err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, `SELECT doc_type, COUNT(*) FROM documents WHERE status = $1 GROUP BY doc_type`, model.DocumentStatusActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var docType string
		var count int64
		if err := rows.Scan(&docType, &count); err != nil {
			return nil, err
		}
		stats.ByType[docType] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	catRows, err := r.db.QueryContext(ctx, `SELECT category, COUNT(*) FROM documents WHERE status = $1 GROUP BY category`, model.DocumentStatusActive)
	if err != nil {
		return nil, err
	}
	defer catRows.Close()
	for catRows.Next() {
		var category string
		var count int64
		if err := catRows.Scan(&category, &count); err != nil {
			return nil, err
		}
		stats.ByCategory[category] = count
	}
	if err := catRows.Err(); err != nil {
		return nil, err
	}
	row = r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chunks`)
	if err := row.Scan(&stats.TotalChunks); err != nil {
		return nil, err
	}
	return stats, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanDocument(rows rowScanner, doc *model.Document) error {
	return rows.Scan(&doc.ID, &doc.Title, &doc.Content, &doc.Type, &doc.Category, &doc.DocNumber, &doc.PublishedAt, &doc.Status, &doc.Ctime, &doc.Mtime)
}
