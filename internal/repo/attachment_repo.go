package repo

import (
	"context"

	"github.com/didi/gendry/builder"

	"github.com/munirag/munirag/internal/pkg/dbutil"
)

type Attachment struct {
	ID         int64  `json:"id"`
	DocumentID string `json:"document_id"`
	FileKey    string `json:"file_key"`
	FileName   string `json:"file_name"`
	Size       int64  `json:"size"`
	Ctime      int64  `json:"ctime"`
}

type AttachmentRepo struct {
	db Queryer
}

func NewAttachmentRepo(db Queryer) *AttachmentRepo {
	return &AttachmentRepo{db: db}
}

func (r *AttachmentRepo) Insert(ctx context.Context, item *Attachment) error {
	data := map[string]interface{}{
		"document_id": item.DocumentID,
		"file_key":    item.FileKey,
		"file_name":   item.FileName,
		"size":        item.Size,
		"ctime":       item.Ctime,
	}
	sqlStr, args, err := builder.BuildInsert("attachments", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *AttachmentRepo) ListByDocument(ctx context.Context, docID string) ([]Attachment, error) {
	where := map[string]interface{}{
		"document_id": docID,
		"_orderby":    "ctime desc",
	}
	sqlStr, args, err := builder.BuildSelect("attachments", where, []string{"id", "document_id", "file_key", "file_name", "size", "ctime"})
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]Attachment, 0)
	for rows.Next() {
		var item Attachment
		if err := rows.Scan(&item.ID, &item.DocumentID, &item.FileKey, &item.FileName, &item.Size, &item.Ctime); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
