package service

import (
	"context"

	"github.com/munirag/munirag/internal/model"
	"github.com/munirag/munirag/internal/rag"
	"github.com/munirag/munirag/internal/repo"
)

type chunkSource struct {
	chunks *repo.ChunkRepo
}

// NewChunkSource adapts the chunk repo to the retriever's source interface.
func NewChunkSource(chunks *repo.ChunkRepo) rag.ChunkSource {
	return chunkSource{chunks: chunks}
}

func (s chunkSource) ListChunks(ctx context.Context, filters rag.Filters) ([]model.ChunkWithDocument, error) {
	return s.chunks.ListForRetrieval(ctx, repo.RetrievalFilter{
		Category: filters.Category,
		Type:     filters.Type,
	})
}
