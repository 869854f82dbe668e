package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-ranker/internal/shared/telemetry"
)

// ErrorResponse is the envelope returned on any failure.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// QuotaErrorResponse extends the failure envelope with usage counters.
// Returned on 402 so clients can render remaining quota without a second call.
type QuotaErrorResponse struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	Used      int    `json:"used"`
	Limit     int    `json:"limit"`
	Remaining int    `json:"remaining"`
}

// JSON writes a JSON response with the given status.
func JSON(c *gin.Context, status int, payload interface{}) {
	c.JSON(status, payload)
}

// OK writes a 200 OK JSON response.
func OK(c *gin.Context, payload interface{}) {
	JSON(c, http.StatusOK, payload)
}

// Error sends the failure envelope and aborts the request.
func Error(c *gin.Context, status int, message string) {
	logError(c, status, message)
	c.AbortWithStatusJSON(status, ErrorResponse{Success: false, Error: message})
}

// QuotaError sends the failure envelope with usage counters attached.
func QuotaError(c *gin.Context, status int, message string, used, limit, remaining int) {
	logError(c, status, message)
	c.AbortWithStatusJSON(status, QuotaErrorResponse{
		Success:   false,
		Error:     message,
		Used:      used,
		Limit:     limit,
		Remaining: remaining,
	})
}

func logError(c *gin.Context, status int, message string) {
	fields := map[string]any{
		"status":     status,
		"error":      message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	if token := c.GetString("clientToken"); token != "" {
		fields["client"] = token
	}
	telemetry.Error("http.error", fields)
}
