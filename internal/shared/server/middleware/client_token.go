package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	clientTokenKey    = "clientToken"
	clientTokenCookie = "hr_token"
)

// ClientToken resolves the caller's quota token from the hr_token cookie,
// minting and setting a fresh one when the cookie is absent. The token is an
// opaque random identifier; it carries no identity beyond binding repeat
// requests from the same browser to the same quota bucket.
func ClientToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(clientTokenCookie)
		if err != nil || strings.TrimSpace(token) == "" {
			token = randomHex(16)
			// Session cookie, HttpOnly, SameSite=Lax.
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(clientTokenCookie, token, 0, "/", "", false, true)
		}
		c.Set(clientTokenKey, token)
		c.Next()
	}
}

// ClientTokenFromContext fetches the token stored by ClientToken middleware.
func ClientTokenFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(clientTokenKey)
	if token, ok := val.(string); ok {
		return token
	}
	return ""
}
