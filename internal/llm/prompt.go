package llm

import (
	_ "embed"
	"strings"
)

//go:embed prompts/rank.txt
var rankPrompt string

// MaxResumeChars bounds how much resume text is sent to the model.
const MaxResumeChars = 4000

// BuildPrompt renders the scoring prompt for one resume.
func BuildPrompt(jobDescription, resumeText, fileName string) string {
	replacer := strings.NewReplacer(
		"{{JOB_DESCRIPTION}}", jobDescription,
		"{{FILENAME}}", fileName,
		"{{RESUME_TEXT}}", truncateRunes(resumeText, MaxResumeChars),
	)
	return replacer.Replace(rankPrompt)
}

func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
