package ranking

import "time"

// Breakdown holds the five 0-100 sub-scores composing a match score.
type Breakdown struct {
	SkillsMatch int `json:"skillsMatch"`
	Experience  int `json:"experience"`
	Education   int `json:"education"`
	ATSScore    int `json:"atsScore"`
	CareerFit   int `json:"careerFit"`
}

// Analysis is the per-resume scoring record returned to clients. The JSON
// field names are a published contract; renaming any of them breaks
// consumers.
type Analysis struct {
	FileName       string    `json:"filename"`
	OverallScore   int       `json:"overallScore"`
	Breakdown      Breakdown `json:"breakdown"`
	Strengths      []string  `json:"strengths"`
	Gaps           []string  `json:"gaps"`
	Recommendation string    `json:"recommendation"`
}

// Ranking is one stored ranking run, owned by the client token that made it.
type Ranking struct {
	ID             string     `json:"id"`
	ClientToken    string     `json:"-"`
	JobDescription string     `json:"jobDescription"`
	Results        []Analysis `json:"results"`
	ResumeCount    int        `json:"resumeCount"`
	Model          string     `json:"model"`
	CreatedAt      time.Time  `json:"createdAt"`
}
