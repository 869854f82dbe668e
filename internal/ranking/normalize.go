package ranking

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Composite score weights. They sum to 1.0.
const (
	weightSkillsMatch = 0.30
	weightExperience  = 0.25
	weightEducation   = 0.15
	weightATSScore    = 0.20
	weightCareerFit   = 0.10
)

// Normalize parses raw model output into an Analysis. The output is treated
// as untrusted text: sub-scores are coerced and clamped, the composite score
// is always recomputed from the breakdown, and list fields default to empty.
// It returns ErrUnparsable when no JSON object can be recovered from the
// text; callers substitute FallbackAnalysis for that resume.
func Normalize(raw string) (Analysis, error) {
	fields, err := parseObject(raw)
	if err != nil {
		return Analysis{}, err
	}

	// Indexing a missing or nil breakdown yields nil values, which coerce
	// to zero.
	breakdown, _ := fields["breakdown"].(map[string]any)
	b := Breakdown{
		SkillsMatch: clampScore(coerceScore(breakdown["skillsMatch"])),
		Experience:  clampScore(coerceScore(breakdown["experience"])),
		Education:   clampScore(coerceScore(breakdown["education"])),
		ATSScore:    clampScore(coerceScore(breakdown["atsScore"])),
		CareerFit:   clampScore(coerceScore(breakdown["careerFit"])),
	}

	return Analysis{
		OverallScore:   overallScore(b),
		Breakdown:      b,
		Strengths:      stringList(fields["strengths"]),
		Gaps:           stringList(fields["gaps"]),
		Recommendation: coerceRecommendation(fields["recommendation"]),
	}, nil
}

// FallbackAnalysis is the fixed neutral record used when the model call
// fails or its output cannot be parsed. Same shape as a real analysis, so
// callers never special-case a failed one.
func FallbackAnalysis() Analysis {
	return Analysis{
		OverallScore: 50,
		Breakdown: Breakdown{
			SkillsMatch: 50,
			Experience:  50,
			Education:   50,
			ATSScore:    50,
			CareerFit:   50,
		},
		Strengths:      []string{"Analysis unavailable"},
		Gaps:           []string{"Please check resume format or try again later"},
		Recommendation: "Review Manually",
	}
}

// ParseFailureAnalysis is the zero-score record for resumes whose text could
// not be extracted. These never reach the model.
func ParseFailureAnalysis() Analysis {
	return Analysis{
		Strengths:      []string{},
		Gaps:           []string{"Could not parse resume content"},
		Recommendation: "Parsing Failed - Check Format",
	}
}

// parseObject tries a strict JSON parse first, then retries on the largest
// brace-delimited slice of the text. Models tend to wrap JSON in prose or
// markdown fences despite instructions.
func parseObject(raw string) (map[string]any, error) {
	trimmed := strings.TrimSpace(raw)
	var fields map[string]any
	if err := json.Unmarshal([]byte(trimmed), &fields); err == nil && fields != nil {
		return fields, nil
	}
	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start == -1 || end <= start {
		return nil, ErrUnparsable
	}
	fields = nil
	if err := json.Unmarshal([]byte(trimmed[start:end+1]), &fields); err != nil || fields == nil {
		return nil, ErrUnparsable
	}
	return fields, nil
}

// coerceScore turns an arbitrary JSON value into an int score. Missing and
// non-numeric values score zero; fractional values truncate.
func coerceScore(value any) int {
	switch v := value.(type) {
	case float64:
		return int(v)
	case string:
		trimmed := strings.TrimSpace(v)
		if n, err := strconv.Atoi(trimmed); err == nil {
			return n
		}
		if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return int(f)
		}
		return 0
	default:
		return 0
	}
}

func clampScore(value int) int {
	if value < 0 {
		return 0
	}
	if value > 100 {
		return 100
	}
	return value
}

// overallScore is the weighted composite recomputed from the clamped
// breakdown, rounded half-up. The model's own aggregate is never trusted.
func overallScore(b Breakdown) int {
	sum := weightSkillsMatch*float64(b.SkillsMatch) +
		weightExperience*float64(b.Experience) +
		weightEducation*float64(b.Education) +
		weightATSScore*float64(b.ATSScore) +
		weightCareerFit*float64(b.CareerFit)
	return clampScore(int(math.Round(sum)))
}

func stringList(value any) []string {
	items, ok := value.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if str, ok := item.(string); ok {
			out = append(out, str)
		}
	}
	return out
}

func coerceRecommendation(value any) string {
	if str, ok := value.(string); ok && strings.TrimSpace(str) != "" {
		return str
	}
	return "Review Manually"
}
