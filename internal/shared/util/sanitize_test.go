package util

import "testing"

func TestSanitizeFileName(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "resume.pdf", "resume.pdf"},
		{"traversal", "../../etc/passwd", "etc_passwd"},
		{"backslashes", `C:\Users\me\cv.docx`, "C:_Users_me_cv.docx"},
		{"spaces", "  my resume.txt  ", "my resume.txt"},
		{"empty", "", "resume"},
		{"only separators", "///", "resume"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := SanitizeFileName(tc.in); got != tc.want {
				t.Fatalf("SanitizeFileName(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
