package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/munirag/munirag/internal/model"
	appErr "github.com/munirag/munirag/internal/pkg/errors"
	"github.com/munirag/munirag/internal/repo"
	"github.com/munirag/munirag/test/testutil"
)

func sampleDocument(id, title, docType, category string) *model.Document {
	now := time.Now().UnixMilli()
	return &model.Document{
		ID:          id,
		Title:       title,
		Content:     "conteúdo de " + title,
		Type:        docType,
		Category:    category,
		PublishedAt: "2024-01-15",
		Status:      model.DocumentStatusActive,
		Ctime:       now,
		Mtime:       now,
	}
}

func TestDocumentRepo_CreateGetUpdateDelete(t *testing.T) {
	conn, cleanup := testutil.OpenTestDB(t)
	defer cleanup()
	testutil.ResetTables(t, conn)

	ctx := context.Background()
	docs := repo.NewDocumentRepo(conn)

	doc := sampleDocument("doc-1", "Código Tributário", model.DocumentTypeLaw, "tributos")
	doc.DocNumber = "Lei 42/2019"
	require.NoError(t, docs.Create(ctx, doc))

	got, err := docs.GetByID(ctx, "doc-1")
	require.NoError(t, err)
	require.Equal(t, doc.Title, got.Title)
	require.Equal(t, doc.DocNumber, got.DocNumber)
	require.Equal(t, model.DocumentStatusActive, got.Status)

	got.Title = "Código Tributário Municipal"
	got.Mtime = time.Now().UnixMilli()
	require.NoError(t, docs.Update(ctx, got))

	updated, err := docs.GetByID(ctx, "doc-1")
	require.NoError(t, err)
	require.Equal(t, "Código Tributário Municipal", updated.Title)

	require.NoError(t, docs.Delete(ctx, "doc-1"))
	_, err = docs.GetByID(ctx, "doc-1")
	require.ErrorIs(t, err, appErr.ErrNotFound)
}

func TestDocumentRepo_UpdateMissing(t *testing.T) {
	conn, cleanup := testutil.OpenTestDB(t)
	defer cleanup()
	testutil.ResetTables(t, conn)

	docs := repo.NewDocumentRepo(conn)
	missing := sampleDocument("ghost", "Fantasma", model.DocumentTypeLaw, "x")
	require.ErrorIs(t, docs.Update(context.Background(), missing), appErr.ErrNotFound)
	require.ErrorIs(t, docs.Delete(context.Background(), "ghost"), appErr.ErrNotFound)
}

func TestDocumentRepo_ListFilters(t *testing.T) {
	conn, cleanup := testutil.OpenTestDB(t)
	defer cleanup()
	testutil.ResetTables(t, conn)

	ctx := context.Background()
	docs := repo.NewDocumentRepo(conn)

	require.NoError(t, docs.Create(ctx, sampleDocument("d1", "Lei de Posturas", model.DocumentTypeLaw, "posturas")))
	require.NoError(t, docs.Create(ctx, sampleDocument("d2", "Guia de Alvará", model.DocumentTypeService, "licenciamento")))
	inactive := sampleDocument("d3", "Decreto Revogado", model.DocumentTypeRegulation, "posturas")
	inactive.Status = model.DocumentStatusArchived
	require.NoError(t, docs.Create(ctx, inactive))

	byType, err := docs.List(ctx, repo.DocumentListFilter{Type: model.DocumentTypeLaw})
	require.NoError(t, err)
	require.Len(t, byType, 1)
	require.Equal(t, "d1", byType[0].ID)

	byCategory, err := docs.List(ctx, repo.DocumentListFilter{Category: "posturas"})
	require.NoError(t, err)
	require.Len(t, byCategory, 2)

	byStatus, err := docs.List(ctx, repo.DocumentListFilter{Status: model.DocumentStatusArchived})
	require.NoError(t, err)
	require.Len(t, byStatus, 1)
	require.Equal(t, "d3", byStatus[0].ID)

	bySearch, err := docs.List(ctx, repo.DocumentListFilter{Search: "alvará"})
	require.NoError(t, err)
	require.Len(t, bySearch, 1)
	require.Equal(t, "d2", bySearch[0].ID)

	active, err := docs.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 2)
}

func TestDocumentRepo_Stats(t *testing.T) {
	conn, cleanup := testutil.OpenTestDB(t)
	defer cleanup()
	testutil.ResetTables(t, conn)

	ctx := context.Background()
	docs := repo.NewDocumentRepo(conn)
	chunks := repo.NewChunkRepo(conn)

	require.NoError(t, docs.Create(ctx, sampleDocument("d1", "Lei Um", model.DocumentTypeLaw, "tributos")))
	require.NoError(t, docs.Create(ctx, sampleDocument("d2", "Lei Dois", model.DocumentTypeLaw, "posturas")))
	require.NoError(t, docs.Create(ctx, sampleDocument("d3", "Serviço", model.DocumentTypeService, "tributos")))

	embedding := make([]float32, 768)
	embedding[0] = 1
	require.NoError(t, chunks.Insert(ctx, &model.Chunk{
		DocumentID: "d1",
		ChunkIndex: 0,
		Content:    "trecho",
		Embedding:  embedding,
		Ctime:      time.Now().UnixMilli(),
	}))

	stats, err := docs.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(3), stats.TotalDocuments)
	require.Equal(t, int64(2), stats.ByType[model.DocumentTypeLaw])
	require.Equal(t, int64(1), stats.ByType[model.DocumentTypeService])
	require.Equal(t, int64(2), stats.ByCategory["tributos"])
	require.Equal(t, int64(1), stats.TotalChunks)
}
