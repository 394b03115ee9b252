package handler

import (
	"bytes"

	"github.com/gin-gonic/gin"
	"github.com/yuin/goldmark"

	"github.com/munirag/munirag/internal/pkg/errcode"
	"github.com/munirag/munirag/internal/pkg/response"
	"github.com/munirag/munirag/internal/rag"
	"github.com/munirag/munirag/internal/service"
)

type AskHandler struct {
	answers  *service.AnswerService
	markdown goldmark.Markdown
}

func NewAskHandler(answers *service.AnswerService) *AskHandler {
	return &AskHandler{
		answers:  answers,
		markdown: goldmark.New(),
	}
}

type askRequest struct {
	Question string `json:"question"`
	Category string `json:"category"`
	Type     string `json:"document_type"`
	Format   string `json:"format"`
}

type askResponse struct {
	*service.Answer
	ResponseHTML string `json:"response_html,omitempty"`
}

func (h *AskHandler) Ask(c *gin.Context) {
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	answer, err := h.answers.Ask(c.Request.Context(), req.Question, service.AskOptions{
		Category: req.Category,
		Type:     req.Type,
	}, service.Caller{
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})
	if err != nil {
		handleError(c, err)
		return
	}
	out := askResponse{Answer: answer}
	if req.Format == "html" {
		text := answer.Response
		if !answer.Accepted {
			text = rag.ComposeRejection(answer.Message, answer.Feedback, answer.Suggestions)
		}
		var buf bytes.Buffer
		if err := h.markdown.Convert([]byte(text), &buf); err == nil {
			out.ResponseHTML = buf.String()
		}
	}
	response.Success(c, out)
}

func (h *AskHandler) Suggestions(c *gin.Context) {
	response.Success(c, gin.H{"suggestions": h.answers.Suggestions()})
}
