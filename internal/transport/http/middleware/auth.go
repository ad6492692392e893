package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lifeflow-backend/internal/core/auth"
	"lifeflow-backend/internal/domain"
	resp "lifeflow-backend/internal/transport/http/response"
)

const (
	keyClaims = "claims"
	keyCaller = "caller"
)

// UserLookup resolves a session email to its stored user.
type UserLookup interface {
	Lookup(ctx context.Context, email string) (*domain.User, error)
}

// RequireAuth accepts requests carrying a valid, unrevoked session cookie.
// A missing cookie is rejected before anything else runs. rev may be nil.
func RequireAuth(j *auth.JWTer, rev auth.Revoker, l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok, err := c.Cookie(auth.CookieName)
		if err != nil || tok == "" {
			abort(c, http.StatusUnauthorized, "missing session")
			return
		}
		claims, err := j.Parse(tok)
		if err != nil {
			msg := "invalid session"
			if errors.Is(err, auth.ErrTokenExpired) {
				msg = "session expired"
			}
			abort(c, http.StatusUnauthorized, msg)
			return
		}
		if rev != nil {
			revoked, err := rev.IsRevoked(c.Request.Context(), claims.ID)
			if err != nil {
				l.Warn("revocation check failed", zap.Error(err))
			} else if revoked {
				abort(c, http.StatusUnauthorized, "session revoked")
				return
			}
		}
		c.Set(keyClaims, claims)
		c.Next()
	}
}

// RequireRole loads the caller on every request and admits only the given
// roles. It must run after RequireAuth.
func RequireRole(users UserLookup, l *zap.Logger, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := CallerEmail(c)
		if email == "" {
			abort(c, http.StatusUnauthorized, "missing session")
			return
		}
		u, err := users.Lookup(c.Request.Context(), email)
		if err != nil {
			if domain.IsNotFound(err) {
				abort(c, http.StatusForbidden, "forbidden")
				return
			}
			if domain.KindOf(err) == domain.KindTimeout || errors.Is(err, context.DeadlineExceeded) {
				l.Warn("role lookup timed out", zap.String("email", email), zap.Error(err))
				abort(c, http.StatusGatewayTimeout, "timeout")
				return
			}
			l.Error("role lookup failed", zap.String("email", email), zap.Error(err))
			abort(c, http.StatusInternalServerError, "")
			return
		}
		if u.Status == domain.StatusBlocked || !hasRole(u.Role, roles) {
			abort(c, http.StatusForbidden, "forbidden")
			return
		}
		c.Set(keyCaller, u)
		c.Next()
	}
}

func hasRole(role string, allowed []string) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

func ClaimsFrom(c *gin.Context) *auth.Claims {
	if v, ok := c.Get(keyClaims); ok {
		if cl, ok := v.(*auth.Claims); ok {
			return cl
		}
	}
	return nil
}

// CallerEmail is the email proven by the session, or "".
func CallerEmail(c *gin.Context) string {
	if cl := ClaimsFrom(c); cl != nil {
		return cl.Email
	}
	return ""
}

// CallerFrom returns the user loaded by RequireRole, if it ran.
func CallerFrom(c *gin.Context) *domain.User {
	if v, ok := c.Get(keyCaller); ok {
		if u, ok := v.(*domain.User); ok {
			return u
		}
	}
	return nil
}

func abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, resp.Error(status, msg))
}
