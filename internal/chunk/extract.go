package chunk

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	apperrors "github.com/docdex/docdex/internal/errors"
)

// ExtractText parses a stored document into plain text.
//
// Supported formats: .txt and .md (read as UTF-8 text) and .pdf
// (text layer extraction). Any other extension fails with an
// unsupported-format error. A supported document that simply contains
// no text returns an empty string, which downstream chunking treats
// as zero chunks.
func ExtractText(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".txt", ".md":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", apperrors.New(apperrors.ErrCodeDocumentIO,
				fmt.Sprintf("read %s: %v", path, err), err)
		}
		return string(data), nil

	case ".pdf":
		return extractPDF(path)

	default:
		return "", apperrors.UnsupportedFormat(ext)
	}
}

func extractPDF(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", apperrors.New(apperrors.ErrCodeDocumentIO,
			fmt.Sprintf("open pdf %s: %v", path, err), err)
	}
	defer func() { _ = f.Close() }()

	reader, err := r.GetPlainText()
	if err != nil {
		return "", apperrors.New(apperrors.ErrCodeDocumentIO,
			fmt.Sprintf("extract pdf text %s: %v", path, err), err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(reader); err != nil {
		return "", apperrors.New(apperrors.ErrCodeDocumentIO,
			fmt.Sprintf("read pdf text %s: %v", path, err), err)
	}
	return buf.String(), nil
}
