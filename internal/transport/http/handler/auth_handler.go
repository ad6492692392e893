package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lifeflow-backend/internal/core/auth"
	"lifeflow-backend/internal/domain"
	"lifeflow-backend/internal/transport/http/ez"
)

type AuthHandler struct {
	jwt    *auth.JWTer
	rev    auth.Revoker
	cookie auth.CookieOptions
	log    *zap.Logger
}

func NewAuthHandler(j *auth.JWTer, rev auth.Revoker, cookie auth.CookieOptions, l *zap.Logger) *AuthHandler {
	return &AuthHandler{jwt: j, rev: rev, cookie: cookie, log: l}
}

type issueIn struct {
	Email string `json:"email" binding:"required"`
}

func (h *AuthHandler) Mount(g Groups) {
	ez.RegisterAction(g.Public, ez.Action[issueIn, okOut]{
		Method: http.MethodPost, Path: "/jwt", Binder: ez.BindJSON, Handler: h.issue,
	})
	ez.RegisterAction(g.Public, ez.Action[empty, okOut]{
		Method: http.MethodGet, Path: "/logout", Binder: ez.BindNone, Handler: h.logout,
	})
}

func (h *AuthHandler) issue(c *gin.Context, in *issueIn) (okOut, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" {
		return okOut{}, domain.InvalidInput("email is required")
	}
	tok, err := h.jwt.Issue(email)
	if err != nil {
		return okOut{}, domain.Upstream("issue session", err)
	}
	auth.SetSessionCookie(c, tok, h.jwt.TTL, h.cookie)
	return okOut{Success: true}, nil
}

// logout always clears the cookie; a still-valid token is also revoked when
// a revocation list is configured.
func (h *AuthHandler) logout(c *gin.Context, _ *empty) (okOut, error) {
	if tok, err := c.Cookie(auth.CookieName); err == nil && tok != "" && h.rev != nil {
		if claims, err := h.jwt.Parse(tok); err == nil {
			if err := h.rev.Revoke(c.Request.Context(), claims.ID, claims.Remaining()); err != nil {
				h.log.Warn("revoke session", zap.Error(err))
			}
		}
	}
	auth.ClearSessionCookie(c, h.cookie)
	return okOut{Success: true}, nil
}
