package ranking

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-ranker/internal/llm"
	"resume-ranker/internal/shared/metrics"
	"resume-ranker/internal/shared/server/middleware"
	"resume-ranker/internal/shared/server/respond"
	"resume-ranker/internal/usage"
)

// RankResponse is the success envelope for POST /rank.
type RankResponse struct {
	Success   bool       `json:"success"`
	Results   []Analysis `json:"results"`
	Used      int        `json:"used"`
	Limit     int        `json:"limit"`
	Remaining int        `json:"remaining"`
}

// Handler wires HTTP handlers to the ranking service.
type Handler struct {
	Svc            *Service
	Models         llm.ModelLister
	MaxUploadBytes int64
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, models llm.ModelLister, maxUploadBytes int64) *Handler {
	return &Handler{Svc: svc, Models: models, MaxUploadBytes: maxUploadBytes}
}

// RegisterRoutes attaches ranking routes to the router group. The rank route
// itself is registered separately so the router can rate limit it.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/rankings", h.listRankings)
	rg.GET("/rankings/:id", h.getRanking)
	rg.GET("/models", h.listModels)
}

// Rank handles POST /rank.
func (h *Handler) Rank(c *gin.Context) {
	metrics.IncRankRequests()
	token := middleware.ClientTokenFromContext(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes)

	var files []File
	form, err := c.MultipartForm()
	switch {
	case err == nil:
		files, err = readFiles(form.File["resumes"])
		if err != nil {
			respond.Error(c, http.StatusInternalServerError, "Failed to read uploaded files")
			return
		}
	case isTooLarge(err):
		respond.Error(c, http.StatusRequestEntityTooLarge, "Upload exceeds size limit")
		return
	default:
		// Unparseable bodies carry no files; the service rejects the
		// request in its usual order (quota first, then validation).
	}
	c.Set("resumeCount", len(files))

	out, err := h.Svc.Rank(c.Request.Context(), token, c.PostForm("job_description"), files)
	if err != nil {
		h.rankError(c, out, err)
		return
	}

	respond.OK(c, RankResponse{
		Success:   true,
		Results:   out.Results,
		Used:      out.Usage.Used,
		Limit:     out.Usage.Limit,
		Remaining: out.Usage.Remaining(),
	})
}

func (h *Handler) rankError(c *gin.Context, out Outcome, err error) {
	switch {
	case errors.Is(err, usage.ErrLimitReached):
		respond.QuotaError(c, http.StatusPaymentRequired,
			"Free limit reached. Upgrade to analyze more resumes.",
			out.Usage.Used, out.Usage.Limit, out.Usage.Remaining())
	case errors.Is(err, ErrBatchExceedsQuota):
		respond.QuotaError(c, http.StatusPaymentRequired,
			fmt.Sprintf("Free tier remaining: %d resume(s). Reduce selection or upgrade.", out.Usage.Remaining()),
			out.Usage.Used, out.Usage.Limit, out.Usage.Remaining())
	case errors.Is(err, ErrEmptyJobDescription):
		respond.Error(c, http.StatusBadRequest, "Job description is empty or missing")
	case errors.Is(err, ErrNoFiles):
		respond.Error(c, http.StatusBadRequest, "No resumes uploaded in 'resumes'")
	case errors.Is(err, ErrNoValidFiles):
		respond.Error(c, http.StatusBadRequest, "No valid resume files (allowed: PDF, DOCX, TXT)")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		respond.Error(c, http.StatusRequestTimeout, "Request cancelled")
	default:
		respond.Error(c, http.StatusInternalServerError, "Unexpected server error")
	}
}

func (h *Handler) listRankings(c *gin.Context) {
	token := middleware.ClientTokenFromContext(c)

	limit := 20
	offset := 0
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}

	records, err := h.Svc.History(c.Request.Context(), token, limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "Failed to list rankings")
		return
	}
	respond.OK(c, gin.H{"success": true, "rankings": records})
}

func (h *Handler) getRanking(c *gin.Context) {
	token := middleware.ClientTokenFromContext(c)
	id := c.Param("id")
	if id == "" {
		respond.Error(c, http.StatusBadRequest, "Ranking id is required")
		return
	}

	record, err := h.Svc.HistoryEntry(c.Request.Context(), token, id)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "Ranking not found")
		default:
			respond.Error(c, http.StatusInternalServerError, "Failed to fetch ranking")
		}
		return
	}
	respond.OK(c, gin.H{"success": true, "ranking": record})
}

func (h *Handler) listModels(c *gin.Context) {
	names, err := h.Models.ListModels(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "Failed to list models")
		return
	}
	respond.OK(c, gin.H{"models": names})
}

func readFiles(headers []*multipart.FileHeader) ([]File, error) {
	files := make([]File, 0, len(headers))
	for _, header := range headers {
		part, err := header.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(part)
		part.Close()
		if err != nil {
			return nil, err
		}
		files = append(files, File{Name: header.Filename, Data: data})
	}
	return files, nil
}

func isTooLarge(err error) bool {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return true
	}
	// The multipart reader does not always keep the typed error.
	return err != nil && strings.Contains(err.Error(), "request body too large")
}
