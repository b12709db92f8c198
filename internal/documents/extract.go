package documents

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ExtractText pulls plain text from uploaded file bytes so that
// verification agents can score the document. PDF text comes from the
// embedded text layer; markdown and plain text pass through verbatim.
// Formats without a readable text layer (docx, images) return empty
// text rather than an error; such documents can still be stored and
// categorized but will not produce useful verdicts.
func ExtractText(data []byte, kind Kind, contentType string) (string, error) {
	switch kind {
	case KindPDF:
		return extractPDFText(data)
	case KindMarkdown:
		if !isTextContent(contentType) {
			return "", nil
		}
		return string(data), nil
	default:
		return "", nil
	}
}

func extractPDFText(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	reader, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}

	text, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}

	return string(text), nil
}

func isTextContent(contentType string) bool {
	return strings.HasPrefix(contentType, "text/") ||
		strings.HasPrefix(contentType, "application/json") ||
		contentType == ""
}
