package usage

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-ranker/internal/shared/server/middleware"
	"resume-ranker/internal/shared/server/respond"
)

// Handler exposes the usage endpoint.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches usage routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/usage", h.getUsage)
}

func (h *Handler) getUsage(c *gin.Context) {
	token := middleware.ClientTokenFromContext(c)
	u, err := h.Svc.Get(c.Request.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			respond.Error(c, http.StatusRequestTimeout, "Request canceled")
		default:
			respond.Error(c, http.StatusInternalServerError, "Failed to fetch usage")
		}
		return
	}

	respond.OK(c, gin.H{
		"used":      u.Used,
		"limit":     u.Limit,
		"remaining": u.Remaining(),
	})
}
