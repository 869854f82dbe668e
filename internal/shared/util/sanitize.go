package util

import "strings"

// SanitizeFileName flattens path separators and traversal sequences out of an
// uploaded file name, falling back to "resume" when nothing usable remains.
func SanitizeFileName(name string) string {
	s := strings.TrimSpace(name)
	s = strings.ReplaceAll(s, "..", "")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.Trim(s, "_ ")
	if s == "" || s == "." {
		return "resume"
	}
	return s
}
