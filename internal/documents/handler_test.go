package documents_test

import (
	"bytes"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/advocate-project/advocate/internal/documents"
)

func uploadHeader(t *testing.T, filename, contentType string, data []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Disposition": {fmt.Sprintf(`form-data; name="files"; filename="%s"`, filename)},
		"Content-Type":        {contentType},
	})
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	form, err := multipart.NewReader(&buf, mw.Boundary()).ReadForm(1 << 20)
	if err != nil {
		t.Fatalf("read form: %v", err)
	}
	t.Cleanup(func() { form.RemoveAll() })

	return form.File["files"][0]
}

func TestCommandFromUploadNonPDFHasNilPageCount(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)

	tests := []struct {
		filename    string
		contentType string
		data        []byte
	}{
		{"notes.md", "text/markdown", []byte("# Award citation\n\nNational prize.")},
		{"statement.txt", "text/plain", []byte("Personal statement text.")},
		{
			"letter.docx",
			"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
			[]byte("PK\x03\x04"),
		},
	}

	for _, tc := range tests {
		t.Run(tc.filename, func(t *testing.T) {
			header := uploadHeader(t, tc.filename, tc.contentType, tc.data)

			cmd, err := documents.CommandFromUpload(logger, header, documents.CategoryOther)
			if err != nil {
				t.Fatalf("CommandFromUpload: %v", err)
			}

			if cmd.PageCount != nil {
				t.Errorf("page count: got %d, want nil for non-PDF uploads", *cmd.PageCount)
			}
			if cmd.ContentType != tc.contentType {
				t.Errorf("content type: got %q, want %q", cmd.ContentType, tc.contentType)
			}
		})
	}
}
