package handler

import (
	"crypto/rand"
	"encoding/hex"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/munirag/munirag/internal/filestore"
	"github.com/munirag/munirag/internal/pkg/errcode"
	"github.com/munirag/munirag/internal/pkg/response"
	"github.com/munirag/munirag/internal/repo"
	"github.com/munirag/munirag/internal/service"
)

// AttachmentHandler manages source files attached to documents, for
// example the scanned decree a document's content was transcribed from.
type AttachmentHandler struct {
	index       *service.IndexService
	attachments *repo.AttachmentRepo
	store       filestore.Store
}

func NewAttachmentHandler(index *service.IndexService, attachments *repo.AttachmentRepo, store filestore.Store) *AttachmentHandler {
	return &AttachmentHandler{index: index, attachments: attachments, store: store}
}

type attachmentResponse struct {
	repo.Attachment
	URL string `json:"url"`
}

func (h *AttachmentHandler) Upload(c *gin.Context) {
	docID := c.Param("id")
	if _, err := h.index.Get(c.Request.Context(), docID); err != nil {
		handleError(c, err)
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		response.Error(c, errcode.ErrInvalid, "file is required")
		return
	}
	opened, err := file.Open()
	if err != nil {
		response.Error(c, errcode.ErrInvalid, "failed to open file")
		return
	}
	defer opened.Close()

	key := buildFileKey(file.Filename)
	if err := h.store.Save(c.Request.Context(), key, opened, file.Size); err != nil {
		response.Error(c, errcode.ErrUploadFailed, "failed to store file")
		return
	}
	item := &repo.Attachment{
		DocumentID: docID,
		FileKey:    key,
		FileName:   file.Filename,
		Size:       file.Size,
		Ctime:      time.Now().UnixMilli(),
	}
	if err := h.attachments.Insert(c.Request.Context(), item); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, attachmentResponse{
		Attachment: *item,
		URL:        h.store.URL(key, requestBaseURL(c)),
	})
}

func (h *AttachmentHandler) List(c *gin.Context) {
	docID := c.Param("id")
	if _, err := h.index.Get(c.Request.Context(), docID); err != nil {
		handleError(c, err)
		return
	}
	items, err := h.attachments.ListByDocument(c.Request.Context(), docID)
	if err != nil {
		handleError(c, err)
		return
	}
	out := make([]attachmentResponse, 0, len(items))
	for _, item := range items {
		out = append(out, attachmentResponse{
			Attachment: item,
			URL:        h.store.URL(item.FileKey, requestBaseURL(c)),
		})
	}
	response.Success(c, gin.H{"attachments": out})
}

// Get serves locally stored files. Non-local stores expose files through
// their own public URLs.
func (h *AttachmentHandler) Get(c *gin.Context) {
	if h.store.Type() != "local" {
		c.Status(http.StatusNotFound)
		return
	}
	key := c.Param("key")
	if key == "" || strings.Contains(key, "/") || strings.Contains(key, "\\") {
		c.Status(http.StatusBadRequest)
		return
	}
	file, err := h.store.Open(c.Request.Context(), key)
	if err != nil {
		c.Status(http.StatusNotFound)
		return
	}
	defer file.Close()
	contentType := mime.TypeByExtension(filepath.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Type", contentType)
	_, _ = io.Copy(c.Writer, file)
}

func requestBaseURL(c *gin.Context) string {
	proto := c.GetHeader("X-Forwarded-Proto")
	if proto == "" {
		if c.Request.TLS != nil {
			proto = "https"
		} else {
			proto = "http"
		}
	}
	host := c.GetHeader("X-Forwarded-Host")
	if host == "" {
		host = c.Request.Host
	}
	return proto + "://" + host
}

func buildFileKey(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	base := randomHex(8)
	if ext == "" {
		return base
	}
	return base + ext
}

func randomHex(size int) string {
	if size <= 0 {
		return ""
	}
	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return ""
	}
	return hex.EncodeToString(buf)
}
