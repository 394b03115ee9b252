package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/munirag/munirag/internal/pkg/errcode"
	"github.com/munirag/munirag/internal/pkg/response"
	"github.com/munirag/munirag/internal/repo"
	"github.com/munirag/munirag/internal/service"
)

type DocumentHandler struct {
	index *service.IndexService
}

func NewDocumentHandler(index *service.IndexService) *DocumentHandler {
	return &DocumentHandler{index: index}
}

func (h *DocumentHandler) Create(c *gin.Context) {
	var req service.DocumentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	doc, report, err := h.index.Create(c.Request.Context(), req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"document": doc, "indexing": report})
}

func (h *DocumentHandler) List(c *gin.Context) {
	filter := repo.DocumentListFilter{
		Type:     c.Query("type"),
		Category: c.Query("category"),
		Status:   c.Query("status"),
		Search:   c.Query("q"),
	}
	if value := c.Query("limit"); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			filter.Limit = uint(parsed)
		}
	}
	if value := c.Query("offset"); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			filter.Offset = uint(parsed)
		}
	}
	docs, err := h.index.List(c.Request.Context(), filter)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"documents": docs})
}

func (h *DocumentHandler) Get(c *gin.Context) {
	doc, err := h.index.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"document": doc})
}

func (h *DocumentHandler) Update(c *gin.Context) {
	var req service.DocumentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	doc, report, err := h.index.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"document": doc, "indexing": report})
}

func (h *DocumentHandler) Delete(c *gin.Context) {
	if err := h.index.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"ok": true})
}

func (h *DocumentHandler) Stats(c *gin.Context) {
	stats, err := h.index.Stats(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, stats)
}

func (h *DocumentHandler) Reindex(c *gin.Context) {
	report, err := h.index.ReindexAll(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, report)
}
