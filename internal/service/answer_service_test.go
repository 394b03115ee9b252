package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/munirag/munirag/internal/model"
	appErr "github.com/munirag/munirag/internal/pkg/errors"
	"github.com/munirag/munirag/internal/rag"
	"github.com/munirag/munirag/internal/repo"
)

type fakeEmbedder struct {
	vector []float32
	err    error
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return f.vector, f.err
}

func (f *fakeEmbedder) ModelName() string {
	return "fake"
}

type staticSource struct {
	items []model.ChunkWithDocument
	err   error
}

func (s *staticSource) ListChunks(ctx context.Context, filters rag.Filters) ([]model.ChunkWithDocument, error) {
	return s.items, s.err
}

func storedChunk(docID, title, content string, v []float32) model.ChunkWithDocument {
	return model.ChunkWithDocument{
		Chunk:       model.Chunk{DocumentID: docID, Content: content, Embedding: v},
		DocTitle:    title,
		DocType:     model.DocumentTypeLaw,
		DocCategory: "tributos",
	}
}

type execRecorder struct {
	execs int
	err   error
}

type noopResult struct{}

func (noopResult) LastInsertId() (int64, error) { return 0, nil }
func (noopResult) RowsAffected() (int64, error) { return 1, nil }

func (r *execRecorder) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	r.execs++
	if r.err != nil {
		return nil, r.err
	}
	return noopResult{}, nil
}

func (r *execRecorder) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return nil, errors.New("not implemented")
}

func (r *execRecorder) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return nil
}

func newAnswerServiceForTest(embedder *fakeEmbedder, source *staticSource, rec *execRecorder) *AnswerService {
	retriever := rag.NewRetriever(source, rag.RetrieverConfig{MaxResults: 3})
	var logs *repo.QueryLogRepo
	if rec != nil {
		logs = repo.NewQueryLogRepo(rec)
	}
	return NewAnswerService(embedder, retriever, logs)
}

func TestAsk_AcceptedAnswer(t *testing.T) {
	embedder := &fakeEmbedder{vector: []float32{1, 0}}
	source := &staticSource{items: []model.ChunkWithDocument{
		storedChunk("d1", "Código Tributário", "A taxa de lixo é anual.", []float32{1, 0.1}),
		storedChunk("d2", "Decreto de Taxas", "Valores atualizados em 2024.", []float32{1, 0.5}),
	}}
	rec := &execRecorder{}
	svc := newAnswerServiceForTest(embedder, source, rec)

	answer, err := svc.Ask(context.Background(), "qual o valor da taxa de lixo?", AskOptions{}, Caller{IP: "10.0.0.1"})
	require.NoError(t, err)
	require.True(t, answer.Accepted)
	require.Contains(t, answer.Response, "## Resposta para: qual o valor da taxa de lixo?")
	require.Contains(t, answer.Response, "A taxa de lixo é anual.")
	require.NotEmpty(t, answer.Evidence)
	require.Greater(t, answer.ConfidencePct, 0.0)
	require.Empty(t, answer.Message)
	require.Equal(t, 1, rec.execs)
}

func TestAsk_EvidenceOnePerDocument(t *testing.T) {
	embedder := &fakeEmbedder{vector: []float32{1, 0}}
	source := &staticSource{items: []model.ChunkWithDocument{
		storedChunk("d1", "Código Tributário", "trecho um", []float32{1, 0.05}),
		storedChunk("d1", "Código Tributário", "trecho dois", []float32{1, 0.2}),
	}}
	svc := newAnswerServiceForTest(embedder, source, &execRecorder{})

	answer, err := svc.Ask(context.Background(), "pergunta sobre tributos?", AskOptions{}, Caller{})
	require.NoError(t, err)
	require.True(t, answer.Accepted)
	require.Len(t, answer.Evidence, 1)
	require.Equal(t, "Código Tributário", answer.Evidence[0].Title)
}

func TestAsk_RejectedWithFeedback(t *testing.T) {
	embedder := &fakeEmbedder{vector: []float32{1, 0}}
	source := &staticSource{items: []model.ChunkWithDocument{
		storedChunk("d1", "Documento Fraco", "conteúdo", []float32{1, 1.2}),
	}}
	rec := &execRecorder{}
	svc := newAnswerServiceForTest(embedder, source, rec)

	answer, err := svc.Ask(context.Background(), "pergunta fora do escopo?", AskOptions{}, Caller{})
	require.NoError(t, err)
	require.False(t, answer.Accepted)
	require.Equal(t, "Nenhum documento relevante encontrado para sua pergunta.", answer.Message)
	require.Contains(t, answer.Feedback, "baixa relevância")
	require.Len(t, answer.Suggestions, 5)
	require.Empty(t, answer.Response)
	// rejected answers are not logged
	require.Zero(t, rec.execs)
}

func TestAsk_EmptyStoreRejected(t *testing.T) {
	svc := newAnswerServiceForTest(&fakeEmbedder{vector: []float32{1, 0}}, &staticSource{}, nil)

	answer, err := svc.Ask(context.Background(), "alguma pergunta?", AskOptions{}, Caller{})
	require.NoError(t, err)
	require.False(t, answer.Accepted)
	require.Equal(t, "Nenhum documento foi encontrado com similaridade suficiente.", answer.Feedback)
}

func TestAsk_InvalidQuestion(t *testing.T) {
	svc := newAnswerServiceForTest(&fakeEmbedder{}, &staticSource{}, nil)

	_, err := svc.Ask(context.Background(), "   ", AskOptions{}, Caller{})
	require.ErrorIs(t, err, appErr.ErrInvalid)

	_, err = svc.Ask(context.Background(), strings.Repeat("a", 9000), AskOptions{}, Caller{})
	require.ErrorIs(t, err, appErr.ErrInvalid)
}

func TestAsk_EmbedderDownDegrades(t *testing.T) {
	svc := newAnswerServiceForTest(&fakeEmbedder{err: errors.New("provider down")}, &staticSource{}, nil)

	answer, err := svc.Ask(context.Background(), "pergunta válida?", AskOptions{}, Caller{})
	require.NoError(t, err)
	require.False(t, answer.Accepted)
	require.Contains(t, answer.Message, "Não foi possível processar sua pergunta")
	require.Len(t, answer.Suggestions, 5)
}

func TestAsk_RetrievalFailureDegrades(t *testing.T) {
	source := &staticSource{err: errors.New("db gone")}
	svc := newAnswerServiceForTest(&fakeEmbedder{vector: []float32{1, 0}}, source, nil)

	answer, err := svc.Ask(context.Background(), "pergunta válida?", AskOptions{}, Caller{})
	require.NoError(t, err)
	require.False(t, answer.Accepted)
	require.Contains(t, answer.Message, "Não foi possível processar sua pergunta")
}

func TestAsk_QueryLogFailureIgnored(t *testing.T) {
	embedder := &fakeEmbedder{vector: []float32{1, 0}}
	source := &staticSource{items: []model.ChunkWithDocument{
		storedChunk("d1", "Doc", "conteúdo relevante", []float32{1, 0.1}),
	}}
	rec := &execRecorder{err: errors.New("insert failed")}
	svc := newAnswerServiceForTest(embedder, source, rec)

	answer, err := svc.Ask(context.Background(), "pergunta válida?", AskOptions{}, Caller{})
	require.NoError(t, err)
	require.True(t, answer.Accepted)
	require.Equal(t, 1, rec.execs)
}
