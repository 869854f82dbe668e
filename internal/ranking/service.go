package ranking

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"resume-ranker/internal/extract"
	"resume-ranker/internal/llm"
	"resume-ranker/internal/shared/metrics"
	"resume-ranker/internal/shared/telemetry"
	"resume-ranker/internal/shared/util"
	"resume-ranker/internal/usage"
)

// File is one uploaded resume: the client-supplied name plus raw bytes.
type File struct {
	Name string
	Data []byte
}

// Outcome bundles the ordered results with the usage counters valid at
// response time. Usage is populated on quota rejections too, so handlers can
// include counters in 402 payloads.
type Outcome struct {
	Results []Analysis
	Usage   usage.Usage
}

// Service orchestrates a ranking request end to end: quota, validation,
// extraction, model calls, normalization, history.
type Service struct {
	Usage *usage.Service
	LLM   llm.Client
	Repo  Repo
	Model string
}

// Rank scores a batch of resumes against a job description for one client
// token. Files are processed sequentially in input order and the result list
// preserves that order. The whole batch is admitted or rejected: quota is
// reserved up front for every valid file, so concurrent requests on the same
// token can never oversubscribe the free tier.
func (s *Service) Rank(ctx context.Context, token, jobDescription string, files []File) (Outcome, error) {
	current, err := s.Usage.Get(ctx, token)
	if err != nil {
		return Outcome{}, err
	}
	if current.Used >= current.Limit {
		metrics.IncQuotaRejections()
		telemetry.Info("rank.quota.rejected", map[string]any{
			"client": token,
			"used":   current.Used,
			"limit":  current.Limit,
		})
		return Outcome{Usage: current}, usage.ErrLimitReached
	}

	if strings.TrimSpace(jobDescription) == "" {
		return Outcome{Usage: current}, ErrEmptyJobDescription
	}
	if len(files) == 0 {
		return Outcome{Usage: current}, ErrNoFiles
	}
	valid := filterValid(files)
	if len(valid) == 0 {
		return Outcome{Usage: current}, ErrNoValidFiles
	}

	after, err := s.Usage.Consume(ctx, token, len(valid))
	if err != nil {
		if errors.Is(err, usage.ErrLimitReached) {
			metrics.IncQuotaRejections()
			telemetry.Info("rank.quota.rejected", map[string]any{
				"client":    token,
				"used":      after.Used,
				"limit":     after.Limit,
				"requested": len(valid),
			})
			return Outcome{Usage: after}, ErrBatchExceedsQuota
		}
		return Outcome{Usage: current}, err
	}

	results := make([]Analysis, 0, len(valid))
	for _, file := range valid {
		results = append(results, s.analyzeOne(ctx, jobDescription, file))
		metrics.IncResumesAnalyzed()
	}

	out := Outcome{Results: results, Usage: after}
	s.saveRanking(ctx, token, jobDescription, out)
	telemetry.Info("rank.completed", map[string]any{
		"client":  token,
		"resumes": len(results),
		"used":    after.Used,
		"limit":   after.Limit,
	})
	return out, nil
}

// History returns past rankings for a token, newest first.
func (s *Service) History(ctx context.Context, token string, limit, offset int) ([]Ranking, error) {
	if s.Repo == nil {
		return []Ranking{}, nil
	}
	return s.Repo.ListByToken(ctx, token, limit, offset)
}

// HistoryEntry returns one past ranking, scoped to the owning token.
func (s *Service) HistoryEntry(ctx context.Context, token, id string) (Ranking, error) {
	if s.Repo == nil {
		return Ranking{}, ErrNotFound
	}
	record, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return Ranking{}, err
	}
	if record.ClientToken != token {
		return Ranking{}, ErrNotFound
	}
	return record, nil
}

// analyzeOne scores a single resume. Failures never escape: an unreadable
// file yields the zero-score record and a failed model call or unparsable
// reply yields the neutral fallback record.
func (s *Service) analyzeOne(ctx context.Context, jobDescription string, file File) Analysis {
	name := util.SanitizeFileName(file.Name)

	text, err := extract.Text(ctx, file.Data, name)
	if err != nil || text == "" {
		metrics.IncExtractionFailures()
		fields := map[string]any{"file": name}
		if err != nil {
			fields["error"] = err.Error()
		}
		telemetry.Error("rank.extract.failed", fields)
		result := ParseFailureAnalysis()
		result.FileName = name
		return result
	}

	prompt := llm.BuildPrompt(jobDescription, text, name)
	start := time.Now()
	raw, err := s.LLM.Complete(ctx, prompt)
	metrics.ObserveModelCallDurationMs(metrics.SinceMillis(start))
	if err != nil {
		metrics.IncAnalysisFallbacks()
		telemetry.Error("rank.model.failed", map[string]any{
			"file":  name,
			"error": err.Error(),
		})
		result := FallbackAnalysis()
		result.FileName = name
		return result
	}

	result, err := Normalize(raw)
	if err != nil {
		metrics.IncAnalysisFallbacks()
		telemetry.Error("rank.normalize.failed", map[string]any{
			"file":  name,
			"error": err.Error(),
		})
		result = FallbackAnalysis()
	}
	result.FileName = name
	return result
}

// saveRanking records the run for the history endpoints. Persistence is best
// effort; a failed write never fails the request.
func (s *Service) saveRanking(ctx context.Context, token, jobDescription string, out Outcome) {
	if s.Repo == nil {
		return
	}
	record := Ranking{
		ID:             uuid.NewString(),
		ClientToken:    token,
		JobDescription: jobDescription,
		Results:        out.Results,
		ResumeCount:    len(out.Results),
		Model:          s.Model,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, record); err != nil {
		telemetry.Error("rank.history.save_failed", map[string]any{
			"ranking_id": record.ID,
			"error":      err.Error(),
		})
	}
}

func filterValid(files []File) []File {
	valid := make([]File, 0, len(files))
	for _, file := range files {
		if file.Name == "" || !extract.Allowed(file.Name) {
			continue
		}
		valid = append(valid, file)
	}
	return valid
}
