package service

import (
	"context"
	"fmt"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/munirag/munirag/internal/ai"
	"github.com/munirag/munirag/internal/model"
	appErr "github.com/munirag/munirag/internal/pkg/errors"
	"github.com/munirag/munirag/internal/rag"
	"github.com/munirag/munirag/internal/repo"
)

const (
	msgProviderDown = "Não foi possível processar sua pergunta no momento. Tente novamente em alguns instantes."
	msgNotRelevant  = "Nenhum documento relevante encontrado para sua pergunta."
)

// AnswerService answers citizen questions from indexed documents.
// Infrastructure failures degrade to a rejected answer with guidance
// instead of surfacing as errors; only invalid input is an error.
type AnswerService struct {
	embedder  ai.IEmbedder
	retriever *rag.Retriever
	querylogs *repo.QueryLogRepo
}

func NewAnswerService(embedder ai.IEmbedder, retriever *rag.Retriever, querylogs *repo.QueryLogRepo) *AnswerService {
	return &AnswerService{
		embedder:  embedder,
		retriever: retriever,
		querylogs: querylogs,
	}
}

type AskOptions struct {
	Category string
	Type     string
}

// Caller identifies the requesting client for query logging.
type Caller struct {
	IP        string
	UserAgent string
}

type Evidence struct {
	Title         string  `json:"title"`
	Type          string  `json:"type"`
	Category      string  `json:"category"`
	DocNumber     string  `json:"doc_number,omitempty"`
	SimilarityPct float64 `json:"similarity_pct"`
}

type Answer struct {
	Accepted       bool       `json:"accepted"`
	Response       string     `json:"response,omitempty"`
	Evidence       []Evidence `json:"evidence,omitempty"`
	ConfidencePct  float64    `json:"confidence_pct,omitempty"`
	Message        string     `json:"message,omitempty"`
	Feedback       string     `json:"feedback,omitempty"`
	Suggestions    []string   `json:"suggestions,omitempty"`
	LatencySeconds float64    `json:"latency_seconds"`
}

func (s *AnswerService) Ask(ctx context.Context, question string, opts AskOptions, caller Caller) (*Answer, error) {
	start := time.Now()
	logger := logutil.GetLogger(ctx)
	if !ai.ValidateInput(question) {
		return nil, fmt.Errorf("%w: question is empty or exceeds %d characters", appErr.ErrInvalid, ai.MaxInputChars)
	}
	vector, err := s.embedder.Embed(ctx, question)
	if err != nil {
		logger.Error("question embedding failed", zap.Error(err))
		return degraded(msgProviderDown, start), nil
	}
	results, err := s.retriever.Retrieve(ctx, vector, rag.Filters{
		Category: opts.Category,
		Type:     opts.Type,
	})
	if err != nil {
		logger.Error("retrieval failed", zap.Error(err))
		return degraded(msgProviderDown, start), nil
	}
	if !rag.Accept(results) {
		return &Answer{
			Accepted:       false,
			Message:        msgNotRelevant,
			Feedback:       rag.Feedback(results),
			Suggestions:    rag.Suggestions(),
			LatencySeconds: secondsSince(start),
		}, nil
	}
	answer := &Answer{
		Accepted:       true,
		Response:       rag.Compose(question, results),
		Evidence:       buildEvidence(results),
		ConfidencePct:  rag.Confidence(results),
		LatencySeconds: secondsSince(start),
	}
	s.logQuery(ctx, question, answer, vector, results, caller, start)
	return answer, nil
}

func (s *AnswerService) Suggestions() []string {
	return rag.Suggestions()
}

func degraded(message string, start time.Time) *Answer {
	return &Answer{
		Accepted:       false,
		Message:        message,
		Suggestions:    rag.Suggestions(),
		LatencySeconds: secondsSince(start),
	}
}

func secondsSince(start time.Time) float64 {
	return float64(time.Since(start).Milliseconds()) / 1000
}

func buildEvidence(results []rag.Result) []Evidence {
	// one entry per document, best similarity wins, first-seen order
	idx := make(map[string]int)
	var out []Evidence
	for _, r := range results {
		if at, ok := idx[r.Chunk.DocumentID]; ok {
			pct := r.Similarity * 100
			if pct > out[at].SimilarityPct {
				out[at].SimilarityPct = pct
			}
			continue
		}
		idx[r.Chunk.DocumentID] = len(out)
		out = append(out, Evidence{
			Title:         r.Chunk.DocTitle,
			Type:          r.Chunk.DocType,
			Category:      r.Chunk.DocCategory,
			DocNumber:     r.Chunk.DocNumber,
			SimilarityPct: r.Similarity * 100,
		})
	}
	return out
}

// logQuery persists an accepted answer for analytics. Logging failures
// never affect the answer returned to the caller.
func (s *AnswerService) logQuery(ctx context.Context, question string, answer *Answer, vector []float32, results []rag.Result, caller Caller, start time.Time) {
	if s.querylogs == nil {
		return
	}
	seen := make(map[string]bool)
	var docIDs []string
	for _, r := range results {
		if seen[r.Chunk.DocumentID] {
			continue
		}
		seen[r.Chunk.DocumentID] = true
		docIDs = append(docIDs, r.Chunk.DocumentID)
	}
	entry := &model.QueryLog{
		Question:    question,
		Response:    answer.Response,
		QueryVector: vector,
		DocumentIDs: docIDs,
		LatencyMs:   time.Since(start).Milliseconds(),
		ClientIP:    caller.IP,
		ClientAgent: caller.UserAgent,
		Ctime:       time.Now().UnixMilli(),
	}
	if err := s.querylogs.Insert(ctx, entry); err != nil {
		logutil.GetLogger(ctx).Error("query log insert failed", zap.Error(err))
	}
}
