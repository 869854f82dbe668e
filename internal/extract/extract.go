package extract

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

var allowedExtensions = map[string]struct{}{
	"pdf":  {},
	"docx": {},
	"txt":  {},
}

// Allowed reports whether the file name carries a supported extension.
func Allowed(fileName string) bool {
	_, ok := allowedExtensions[Ext(fileName)]
	return ok
}

// Ext returns the lowercased extension without the dot, or "" when absent.
func Ext(fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	return strings.TrimPrefix(ext, ".")
}

// Text extracts plain text from an in-memory resume payload, dispatching on
// the file extension. Libraries used: github.com/ledongthuc/pdf (PDF) and
// github.com/nguyenthenguyen/docx (DOCX). Corrupt or unsupported input
// returns an error; callers treat an error and an empty result the same way.
func Text(ctx context.Context, data []byte, fileName string) (text string, err error) {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", ctxErr
	}
	// Parser panics on malformed files must not escape the per-file unit.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("extract %s: panic: %v", Ext(fileName), r)
		}
	}()

	switch Ext(fileName) {
	case "pdf":
		return extractPDF(data)
	case "docx":
		return extractDOCX(data)
	case "txt":
		return extractTXT(data)
	default:
		return "", fmt.Errorf("unsupported file extension: %q", Ext(fileName))
	}
}

// extractPDF joins per-page text with newlines. Pages that fail to render
// contribute nothing; only a document-level failure surfaces as an error.
func extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	var buf strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil || pageText == "" {
			continue
		}
		buf.WriteString(pageText)
		buf.WriteString("\n")
	}
	return strings.TrimSpace(buf.String()), nil
}

func extractDOCX(data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty docx data")
	}
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	defer doc.Close()
	return stripDocxXML(doc.Editable().GetContent()), nil
}

func extractTXT(data []byte) (string, error) {
	return strings.TrimSpace(strings.ToValidUTF8(string(data), "�")), nil
}

// stripDocxXML flattens word/document.xml into one line per non-empty
// paragraph.
func stripDocxXML(raw string) string {
	decoder := xml.NewDecoder(strings.NewReader(raw))
	var (
		lines     []string
		paragraph strings.Builder
	)
	flush := func() {
		if text := strings.TrimSpace(paragraph.String()); text != "" {
			lines = append(lines, text)
		}
		paragraph.Reset()
	}
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return raw
		}
		switch t := tok.(type) {
		case xml.CharData:
			paragraph.Write(t)
		case xml.EndElement:
			if t.Name.Local == "p" {
				flush()
			}
		}
	}
	flush()
	return strings.Join(lines, "\n")
}
