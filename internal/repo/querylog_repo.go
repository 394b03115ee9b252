package repo

import (
	"context"
	"encoding/json"

	"github.com/pgvector/pgvector-go"

	"github.com/munirag/munirag/internal/model"
)

type QueryLogRepo struct {
	db Queryer
}

func NewQueryLogRepo(db Queryer) *QueryLogRepo {
	return &QueryLogRepo{db: db}
}

func (r *QueryLogRepo) Insert(ctx context.Context, entry *model.QueryLog) error {
	docIDs, err := json.Marshal(entry.DocumentIDs)
	if err != nil {
		return err
	}
	const query = `
		INSERT INTO query_logs (question, response, query_embedding, document_ids, latency_ms, client_ip, client_agent, ctime)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = r.db.ExecContext(ctx, query,
		entry.Question,
		entry.Response,
		pgvector.NewVector(entry.QueryVector),
		string(docIDs),
		entry.LatencyMs,
		entry.ClientIP,
		entry.ClientAgent,
		entry.Ctime,
	)
	return err
}

func (r *QueryLogRepo) DeleteBefore(ctx context.Context, cutoff int64) (int64, error) {
	const query = `DELETE FROM query_logs WHERE ctime < $1`
	res, err := r.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *QueryLogRepo) ListRecent(ctx context.Context, limit int) ([]model.QueryLog, error) {
	if limit <= 0 {
		limit = 50
	}
	const query = `
		SELECT id, question, response, query_embedding, document_ids, latency_ms, client_ip, client_agent, ctime
		FROM query_logs
		ORDER BY ctime DESC
		LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var entries []model.QueryLog
	for rows.Next() {
		var entry model.QueryLog
		var embedding pgvector.Vector
		var docIDs string
		if err := rows.Scan(&entry.ID, &entry.Question, &entry.Response, &embedding, &docIDs,
			&entry.LatencyMs, &entry.ClientIP, &entry.ClientAgent, &entry.Ctime); err != nil {
			return nil, err
		}
		entry.QueryVector = embedding.Slice()
		if err := json.Unmarshal([]byte(docIDs), &entry.DocumentIDs); err != nil {
			entry.DocumentIDs = nil
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
