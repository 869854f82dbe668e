package ranking

import (
	"errors"
	"reflect"
	"testing"
)

func TestNormalizeRecomputesOverallScore(t *testing.T) {
	raw := `{
  "overallScore": 12,
  "breakdown": {"skillsMatch": 80, "experience": 70, "education": 60, "atsScore": 90, "careerFit": 50},
  "strengths": ["solid Go background"],
  "gaps": ["no Kubernetes"],
  "recommendation": "Interview"
}`
	result, err := Normalize(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 0.30*80 + 0.25*70 + 0.15*60 + 0.20*90 + 0.10*50 = 73.5, rounds up.
	if result.OverallScore != 74 {
		t.Fatalf("expected overallScore 74, got %d", result.OverallScore)
	}
	if result.Recommendation != "Interview" {
		t.Fatalf("expected recommendation kept, got %q", result.Recommendation)
	}
	if len(result.Strengths) != 1 || result.Strengths[0] != "solid Go background" {
		t.Fatalf("unexpected strengths: %v", result.Strengths)
	}
}

func TestNormalizeClampsBeforeWeighting(t *testing.T) {
	raw := `{"breakdown": {"skillsMatch": 150, "experience": -20, "education": 60, "atsScore": 90, "careerFit": 50}}`
	result, err := Normalize(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Breakdown.SkillsMatch != 100 {
		t.Fatalf("expected skillsMatch clamped to 100, got %d", result.Breakdown.SkillsMatch)
	}
	if result.Breakdown.Experience != 0 {
		t.Fatalf("expected experience clamped to 0, got %d", result.Breakdown.Experience)
	}
	// 0.30*100 + 0.25*0 + 0.15*60 + 0.20*90 + 0.10*50 = 62
	if result.OverallScore != 62 {
		t.Fatalf("expected overallScore 62 from clamped values, got %d", result.OverallScore)
	}
}

func TestNormalizeCoercesScoreValues(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want int
	}{
		{"numeric string", `{"breakdown": {"skillsMatch": "85"}}`, 85},
		{"fractional string", `{"breakdown": {"skillsMatch": "85.9"}}`, 85},
		{"fraction truncates", `{"breakdown": {"skillsMatch": 85.7}}`, 85},
		{"garbage string", `{"breakdown": {"skillsMatch": "high"}}`, 0},
		{"boolean", `{"breakdown": {"skillsMatch": true}}`, 0},
		{"null", `{"breakdown": {"skillsMatch": null}}`, 0},
		{"missing key", `{"breakdown": {}}`, 0},
		{"breakdown not an object", `{"breakdown": "n/a"}`, 0},
		{"breakdown missing", `{}`, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := Normalize(tc.raw)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.Breakdown.SkillsMatch != tc.want {
				t.Fatalf("expected skillsMatch %d, got %d", tc.want, result.Breakdown.SkillsMatch)
			}
		})
	}
}

func TestNormalizeRecoversFencedJSON(t *testing.T) {
	raw := "```json\n{\"breakdown\": {\"skillsMatch\": 40, \"experience\": 40, \"education\": 40, \"atsScore\": 40, \"careerFit\": 40}, \"recommendation\": \"Reject\"}\n```"
	result, err := Normalize(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.OverallScore != 40 {
		t.Fatalf("expected overallScore 40, got %d", result.OverallScore)
	}
	if result.Recommendation != "Reject" {
		t.Fatalf("expected recommendation Reject, got %q", result.Recommendation)
	}
}

func TestNormalizeRecoversJSONInsideProse(t *testing.T) {
	raw := `Here is the analysis you asked for: {"breakdown": {"skillsMatch": 90}} hope it helps!`
	result, err := Normalize(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Breakdown.SkillsMatch != 90 {
		t.Fatalf("expected skillsMatch 90, got %d", result.Breakdown.SkillsMatch)
	}
}

func TestNormalizeUnparsableOutput(t *testing.T) {
	for _, raw := range []string{
		"I am sorry, I cannot analyze this resume.",
		"",
		"null",
		"[1, 2, 3]",
		"{broken: json",
	} {
		if _, err := Normalize(raw); !errors.Is(err, ErrUnparsable) {
			t.Fatalf("Normalize(%q): expected ErrUnparsable, got %v", raw, err)
		}
	}
}

func TestNormalizeDefaultsListsAndRecommendation(t *testing.T) {
	raw := `{"breakdown": {"skillsMatch": 10}, "strengths": "not a list", "gaps": ["real gap", 42, "another"]}`
	result, err := Normalize(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(result.Strengths, []string{}) {
		t.Fatalf("expected empty strengths, got %#v", result.Strengths)
	}
	if !reflect.DeepEqual(result.Gaps, []string{"real gap", "another"}) {
		t.Fatalf("expected non-string gap entries dropped, got %#v", result.Gaps)
	}
	if result.Recommendation != "Review Manually" {
		t.Fatalf("expected default recommendation, got %q", result.Recommendation)
	}
}

func TestFallbackAnalysisShape(t *testing.T) {
	fb := FallbackAnalysis()
	if fb.OverallScore != 50 {
		t.Fatalf("expected overallScore 50, got %d", fb.OverallScore)
	}
	want := Breakdown{SkillsMatch: 50, Experience: 50, Education: 50, ATSScore: 50, CareerFit: 50}
	if fb.Breakdown != want {
		t.Fatalf("unexpected breakdown: %#v", fb.Breakdown)
	}
	if !reflect.DeepEqual(fb.Strengths, []string{"Analysis unavailable"}) {
		t.Fatalf("unexpected strengths: %#v", fb.Strengths)
	}
	if !reflect.DeepEqual(fb.Gaps, []string{"Please check resume format or try again later"}) {
		t.Fatalf("unexpected gaps: %#v", fb.Gaps)
	}
	if fb.Recommendation != "Review Manually" {
		t.Fatalf("unexpected recommendation: %q", fb.Recommendation)
	}
}

func TestParseFailureAnalysisShape(t *testing.T) {
	pf := ParseFailureAnalysis()
	if pf.OverallScore != 0 || pf.Breakdown != (Breakdown{}) {
		t.Fatalf("expected all-zero scores, got %#v", pf)
	}
	if !reflect.DeepEqual(pf.Strengths, []string{}) {
		t.Fatalf("expected empty strengths, got %#v", pf.Strengths)
	}
	if !reflect.DeepEqual(pf.Gaps, []string{"Could not parse resume content"}) {
		t.Fatalf("unexpected gaps: %#v", pf.Gaps)
	}
	if pf.Recommendation != "Parsing Failed - Check Format" {
		t.Fatalf("unexpected recommendation: %q", pf.Recommendation)
	}
}
