package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/munirag/munirag/internal/middleware"
)

type RouterDeps struct {
	Auth        *AuthHandler
	Ask         *AskHandler
	Documents   *DocumentHandler
	Attachments *AttachmentHandler
	QueryLogs   *QueryLogHandler
	JWTSecret   []byte
	AskWindow   time.Duration
}

func RegisterRoutes(api *gin.RouterGroup, deps RouterDeps) {
	api.POST("/auth/login", deps.Auth.Login)

	askGroup := api.Group("")
	askGroup.Use(middleware.RateLimit(deps.AskWindow))
	askGroup.POST("/ask", deps.Ask.Ask)

	api.GET("/suggestions", deps.Ask.Suggestions)
	api.GET("/files/:key", deps.Attachments.Get)

	adminGroup := api.Group("")
	adminGroup.Use(middleware.JWTAuth(deps.JWTSecret))
	adminGroup.POST("/documents", deps.Documents.Create)
	adminGroup.GET("/documents", deps.Documents.List)
	adminGroup.GET("/documents/stats", deps.Documents.Stats)
	adminGroup.GET("/documents/:id", deps.Documents.Get)
	adminGroup.PUT("/documents/:id", deps.Documents.Update)
	adminGroup.DELETE("/documents/:id", deps.Documents.Delete)
	adminGroup.POST("/documents/:id/attachments", deps.Attachments.Upload)
	adminGroup.GET("/documents/:id/attachments", deps.Attachments.List)
	adminGroup.GET("/querylogs", deps.QueryLogs.ListRecent)
	adminGroup.POST("/reindex", deps.Documents.Reindex)
}
