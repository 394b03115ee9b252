package handler_test

import (
	"context"
	"net/http"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/xxxsen/common/webapi"

	"github.com/munirag/munirag/internal/config"
	"github.com/munirag/munirag/internal/filestore"
	"github.com/munirag/munirag/internal/handler"
	"github.com/munirag/munirag/internal/middleware"
	"github.com/munirag/munirag/internal/pkg/password"
	"github.com/munirag/munirag/internal/rag"
	"github.com/munirag/munirag/internal/repo"
	"github.com/munirag/munirag/internal/service"
	"github.com/munirag/munirag/test/testutil"
)

// stubEmbedder returns one fixed vector for any input so retrieval scores
// are fully deterministic in handler tests.
type stubEmbedder struct {
	vector []float32
}

func (s *stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return s.vector, nil
}

func (s *stubEmbedder) ModelName() string {
	return "stub"
}

func fixedVector() []float32 {
	v := make([]float32, 768)
	v[0] = 1
	return v
}

func setupRouter(t *testing.T) (http.Handler, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	conn, cleanup := testutil.OpenTestDB(t)
	testutil.ResetTables(t, conn)

	docRepo := repo.NewDocumentRepo(conn)
	chunkRepo := repo.NewChunkRepo(conn)
	querylogRepo := repo.NewQueryLogRepo(conn)
	attachmentRepo := repo.NewAttachmentRepo(conn)

	embedder := &stubEmbedder{vector: fixedVector()}
	retriever := rag.NewRetriever(service.NewChunkSource(chunkRepo), rag.RetrieverConfig{MaxResults: 3})
	indexService := service.NewIndexService(conn, docRepo, chunkRepo, embedder, config.ChunkingConfig{MaxChunkSize: 1000, Overlap: 100})
	answerService := service.NewAnswerService(embedder, retriever, querylogRepo)

	tmpDir, err := os.MkdirTemp("", "munirag-files-*")
	require.NoError(t, err)
	store, err := filestore.New(config.FileStoreConfig{
		Type: "local",
		Data: map[string]interface{}{"dir": tmpDir},
	})
	require.NoError(t, err)

	adminHash, err := password.Hash("admin-pass")
	require.NoError(t, err)
	authCfg := config.AuthConfig{
		JWTSecret:         "test-secret",
		TokenTTLHours:     1,
		AdminUser:         "admin",
		AdminPasswordHash: adminHash,
	}

	deps := handler.RouterDeps{
		Auth:        handler.NewAuthHandler(authCfg),
		Ask:         handler.NewAskHandler(answerService),
		Documents:   handler.NewDocumentHandler(indexService),
		Attachments: handler.NewAttachmentHandler(indexService, attachmentRepo, store),
		QueryLogs:   handler.NewQueryLogHandler(querylogRepo),
		JWTSecret:   []byte(authCfg.JWTSecret),
	}

	engine, err := webapi.NewEngine(
		"/api/v1",
		"",
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.RequestID(),
			middleware.CORS(nil),
		),
	)
	require.NoError(t, err)

	return engine, func() {
		cleanup()
		_ = os.RemoveAll(tmpDir)
	}
}
