package rag

import (
	"context"
	"sort"

	"github.com/munirag/munirag/internal/ai"
	"github.com/munirag/munirag/internal/model"
)

// InclusionFloor is the minimum similarity a chunk needs to enter the
// ranked result set at all. It is applied regardless of the configured
// similarity threshold, which is carried only for configuration
// compatibility with older deployments.
const InclusionFloor = 0.30

const defaultMaxResults = 3

type Result struct {
	Chunk      model.ChunkWithDocument
	Similarity float64
}

// ChunkSource abstracts the persisted vector store. Every retrieval
// re-reads it; nothing is cached in between.
type ChunkSource interface {
	ListChunks(ctx context.Context, filters Filters) ([]model.ChunkWithDocument, error)
}

type Filters struct {
	Category string
	Type     string
}

type RetrieverConfig struct {
	MaxResults          int
	SimilarityThreshold float64
}

type Retriever struct {
	source ChunkSource
	cfg    RetrieverConfig
}

func NewRetriever(source ChunkSource, cfg RetrieverConfig) *Retriever {
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = defaultMaxResults
	}
	return &Retriever{source: source, cfg: cfg}
}

// Retrieve scans every stored chunk, scores it against queryVector and
// returns at most MaxResults results ordered by similarity descending.
// Ties keep scan order.
func (r *Retriever) Retrieve(ctx context.Context, queryVector []float32, filters Filters) ([]Result, error) {
	items, err := r.source.ListChunks(ctx, filters)
	if err != nil {
		return nil, err
	}
	results := make([]Result, 0, len(items))
	for _, item := range items {
		score, err := ai.CosineSimilarity(queryVector, item.Embedding)
		if err != nil {
			return nil, err
		}
		if score < InclusionFloor {
			continue
		}
		results = append(results, Result{Chunk: item, Similarity: score})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})
	if len(results) > r.cfg.MaxResults {
		results = results[:r.cfg.MaxResults]
	}
	return results, nil
}
