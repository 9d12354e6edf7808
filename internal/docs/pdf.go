// Package docs extracts plain text from uploaded reference documents.
package docs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

var (
	// ErrNoText is returned when a PDF contains no extractable text.
	ErrNoText = errors.New("pdf has no extractable text")

	// ErrMalformed is returned when the input cannot be parsed as a PDF.
	ErrMalformed = errors.New("malformed pdf")
)

// ExtractText returns the text of every page joined by blank lines. Pages
// that fail to decode are skipped.
func ExtractText(r io.ReaderAt, size int64) (text string, err error) {
	// The pdf package panics on some malformed inputs.
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: %v", ErrMalformed, rec)
		}
	}()

	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	var pages []string
	for n := 1; n <= reader.NumPage(); n++ {
		page := reader.Page(n)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		pages = append(pages, strings.TrimSpace(content))
	}

	text = strings.TrimSpace(strings.Join(pages, "\n\n"))
	if text == "" {
		return "", ErrNoText
	}
	return text, nil
}

// ExtractFile opens path and extracts its text.
func ExtractFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", err
	}
	return ExtractText(f, info.Size())
}

// IsPDF reports whether name has a .pdf extension.
func IsPDF(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".pdf")
}
