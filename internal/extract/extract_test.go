package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
)

func makeDocx(t *testing.T, paragraphs []string) []byte {
	t.Helper()
	var body strings.Builder
	for _, p := range paragraphs {
		if p == "" {
			body.WriteString("<w:p/>")
			continue
		}
		fmt.Fprintf(&body, "<w:p><w:r><w:t>%s</w:t></w:r></w:p>", p)
	}
	document := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
		`<w:body>` + body.String() + `</w:body></w:document>`
	rels := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`
	contentTypes := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
		`<Default Extension="xml" ContentType="application/xml"/></Types>`

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range map[string]string{
		"word/document.xml":            document,
		"word/_rels/document.xml.rels": rels,
		"[Content_Types].xml":          contentTypes,
	} {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create zip entry %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("write zip entry %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func TestTextDocxJoinsParagraphs(t *testing.T) {
	data := makeDocx(t, []string{"Go engineer", "5 years of Go and Postgres"})

	got, err := Text(context.Background(), data, "resume.docx")
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	want := "Go engineer\n5 years of Go and Postgres"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestTextDocxSkipsEmptyParagraphs(t *testing.T) {
	data := makeDocx(t, []string{"Top", "", "   ", "Bottom"})

	got, err := Text(context.Background(), data, "resume.docx")
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	want := "Top\nBottom"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestTextDocxCorruptReturnsError(t *testing.T) {
	_, err := Text(context.Background(), []byte("not a zip archive"), "resume.docx")
	if err == nil {
		t.Fatal("expected error for corrupt docx")
	}
}

func TestTextPdfCorruptReturnsError(t *testing.T) {
	_, err := Text(context.Background(), []byte("not a pdf"), "resume.pdf")
	if err == nil {
		t.Fatal("expected error for corrupt pdf")
	}
}

func TestTextTxtReplacesInvalidUTF8(t *testing.T) {
	data := []byte("  hello \xff\xfe world\n")

	got, err := Text(context.Background(), data, "notes.txt")
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	if !strings.Contains(got, "hello") || !strings.Contains(got, "world") {
		t.Fatalf("expected text preserved, got %q", got)
	}
	if !strings.Contains(got, "�") {
		t.Fatalf("expected replacement rune, got %q", got)
	}
	if strings.HasPrefix(got, " ") || strings.HasSuffix(got, "\n") {
		t.Fatalf("expected trimmed output, got %q", got)
	}
}

func TestTextUnsupportedExtension(t *testing.T) {
	_, err := Text(context.Background(), []byte("plain"), "resume.rtf")
	if err == nil {
		t.Fatal("expected error for unsupported extension")
	}
	if !strings.Contains(err.Error(), "unsupported file extension") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAllowed(t *testing.T) {
	cases := []struct {
		name string
		want bool
	}{
		{"cv.pdf", true},
		{"cv.PDF", true},
		{"cv.docx", true},
		{"cv.txt", true},
		{"cv.doc", false},
		{"cv.rtf", false},
		{"noextension", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := Allowed(tc.name); got != tc.want {
			t.Fatalf("Allowed(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}
}
