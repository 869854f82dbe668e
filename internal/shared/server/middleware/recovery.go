package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"resume-ranker/internal/shared/server/respond"
	"resume-ranker/internal/shared/telemetry"
)

// Recovery converts panics into a 500 with the standard failure envelope.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			telemetry.Error("panic", map[string]any{
				"request_id": RequestIDFromContext(c),
				"method":     c.Request.Method,
				"path":       c.Request.URL.Path,
				"error":      rec,
				"stack":      string(debug.Stack()),
			})
			respond.Error(c, http.StatusInternalServerError, "Unexpected server error")
		}()
		c.Next()
	}
}
