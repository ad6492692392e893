package auth

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// CookieName is the session cookie carrying the signed token.
const CookieName = "token"

type CookieOptions struct {
	Secure bool
	Domain string
}

// SetSessionCookie writes an HTTP-only cookie usable from a cross-site SPA.
// Browsers drop SameSite=None cookies without Secure, so insecure (local)
// setups fall back to Lax.
func SetSessionCookie(c *gin.Context, token string, ttl time.Duration, o CookieOptions) {
	c.SetSameSite(sameSite(o))
	c.SetCookie(CookieName, token, int(ttl.Seconds()), "/", o.Domain, o.Secure, true)
}

// ClearSessionCookie expires the cookie immediately (Max-Age=0).
func ClearSessionCookie(c *gin.Context, o CookieOptions) {
	c.SetSameSite(sameSite(o))
	c.SetCookie(CookieName, "", -1, "/", o.Domain, o.Secure, true)
}

func sameSite(o CookieOptions) http.SameSite {
	if o.Secure {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}
