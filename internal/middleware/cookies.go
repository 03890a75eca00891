package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

// CookieWriter sets and clears the httpOnly token cookies. Secure +
// SameSite=None in production (cross-origin dashboard), Lax otherwise.
type CookieWriter struct {
	secure           bool
	accessMaxAgeSec  int
	refreshMaxAgeSec int
}

func NewCookieWriter(secure bool, accessMaxAgeSec, refreshMaxAgeSec int) *CookieWriter {
	return &CookieWriter{
		secure:           secure,
		accessMaxAgeSec:  accessMaxAgeSec,
		refreshMaxAgeSec: refreshMaxAgeSec,
	}
}

// SetTokenCookies writes both tokens as httpOnly cookies. Called on login,
// register and refresh so cookie-only browser clients stay rotated.
func (w *CookieWriter) SetTokenCookies(c *gin.Context, accessToken, refreshToken string) {
	c.SetSameSite(w.sameSite())
	c.SetCookie(AccessTokenCookie, accessToken, w.accessMaxAgeSec, "/", "", w.secure, true)
	c.SetCookie(RefreshTokenCookie, refreshToken, w.refreshMaxAgeSec, "/", "", w.secure, true)
}

// ClearTokenCookies removes both token cookies. The signed tokens themselves
// stay valid until expiry; there is no server-side revocation.
func (w *CookieWriter) ClearTokenCookies(c *gin.Context) {
	c.SetSameSite(w.sameSite())
	c.SetCookie(AccessTokenCookie, "", -1, "/", "", w.secure, true)
	c.SetCookie(RefreshTokenCookie, "", -1, "/", "", w.secure, true)
}

func (w *CookieWriter) sameSite() http.SameSite {
	if w.secure {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}
