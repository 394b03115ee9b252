package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/munirag/munirag/internal/config"
	"github.com/munirag/munirag/internal/pkg/errcode"
	"github.com/munirag/munirag/internal/pkg/jwt"
	"github.com/munirag/munirag/internal/pkg/password"
	"github.com/munirag/munirag/internal/pkg/response"
)

// AuthHandler issues admin tokens against the single operator account
// defined in configuration. There is no user registration.
type AuthHandler struct {
	auth config.AuthConfig
}

func NewAuthHandler(auth config.AuthConfig) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type loginRequest struct {
	User     string `json:"user"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	if req.User != h.auth.AdminUser || password.Compare(h.auth.AdminPasswordHash, req.Password) != nil {
		response.Error(c, errcode.ErrUnauthorized, "invalid credentials")
		return
	}
	ttl := time.Duration(h.auth.TokenTTLHours) * time.Hour
	token, err := jwt.GenerateToken(req.User, []byte(h.auth.JWTSecret), ttl)
	if err != nil {
		response.Error(c, errcode.ErrInternal, "failed to issue token")
		return
	}
	response.Success(c, loginResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(ttl).Unix(),
	})
}
