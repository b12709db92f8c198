package documents_test

import (
	"errors"
	"testing"

	"github.com/advocate-project/advocate/internal/documents"
)

func TestKindForContentType(t *testing.T) {
	tests := []struct {
		contentType string
		want        documents.Kind
	}{
		{"application/pdf", documents.KindPDF},
		{"application/pdf; charset=binary", documents.KindPDF},
		{"application/vnd.openxmlformats-officedocument.wordprocessingml.document", documents.KindDocx},
		{"application/msword", documents.KindDocx},
		{"text/markdown", documents.KindMarkdown},
		{"text/plain", documents.KindMarkdown},
		{"", documents.KindMarkdown},
	}

	for _, tc := range tests {
		if got := documents.KindForContentType(tc.contentType); got != tc.want {
			t.Errorf("KindForContentType(%q): got %s, want %s", tc.contentType, got, tc.want)
		}
	}
}

func TestParseCategory(t *testing.T) {
	if len(documents.Categories()) != 19 {
		t.Errorf("expected 19 categories, got %d", len(documents.Categories()))
	}

	for _, c := range documents.Categories() {
		got, err := documents.ParseCategory(string(c))
		if err != nil {
			t.Errorf("ParseCategory(%s): %v", c, err)
		}
		if got != c {
			t.Errorf("ParseCategory(%s): got %s", c, got)
		}
	}

	if got, err := documents.ParseCategory(""); err != nil || got != documents.CategoryOther {
		t.Errorf("empty category should default to other, got %s / %v", got, err)
	}

	if _, err := documents.ParseCategory("classified"); !errors.Is(err, documents.ErrInvalidCategory) {
		t.Errorf("expected ErrInvalidCategory, got %v", err)
	}
}

func TestParseStatus(t *testing.T) {
	if _, err := documents.ParseStatus("archived"); !errors.Is(err, documents.ErrInvalidStatus) {
		t.Errorf("expected ErrInvalidStatus, got %v", err)
	}

	draft, err := documents.ParseStatus("draft")
	if err != nil {
		t.Fatalf("ParseStatus(draft): %v", err)
	}
	if draft.Toggle() != documents.StatusFinal {
		t.Errorf("draft toggles to final")
	}
	if documents.StatusFinal.Toggle() != documents.StatusDraft {
		t.Errorf("final toggles to draft")
	}
}

func TestBaseName(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"resume.pdf", "resume"},
		{"resume.v2.pdf", "resume.v2"},
		{"statement", "statement"},
		{"award_letter.docx", "award_letter"},
	}

	for _, tc := range tests {
		if got := documents.BaseName(tc.filename); got != tc.want {
			t.Errorf("BaseName(%q): got %q, want %q", tc.filename, got, tc.want)
		}
	}
}

func TestExtractTextPassthrough(t *testing.T) {
	text, err := documents.ExtractText([]byte("# Summary\ncontent"), documents.KindMarkdown, "text/markdown")
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if text != "# Summary\ncontent" {
		t.Errorf("markdown should pass through verbatim, got %q", text)
	}

	text, err = documents.ExtractText([]byte{0x50, 0x4b, 0x03, 0x04}, documents.KindDocx, "application/msword")
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if text != "" {
		t.Errorf("docx should yield empty text, got %q", text)
	}
}
