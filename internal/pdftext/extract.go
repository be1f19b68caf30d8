package pdftext

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gen2brain/go-fitz"
)

// ErrParse is returned when the uploaded bytes cannot be read as a PDF.
var ErrParse = errors.New("cannot parse PDF")

// Extractor pulls plain text out of an uploaded PDF document.
type Extractor interface {
	ExtractText(ctx context.Context, data []byte) (string, error)
}

// FitzExtractor extracts text with MuPDF via go-fitz. It opens documents
// in memory; nothing is written to disk.
type FitzExtractor struct{}

// NewFitzExtractor constructs a FitzExtractor.
func NewFitzExtractor() *FitzExtractor {
	return &FitzExtractor{}
}

var _ Extractor = (*FitzExtractor)(nil)

// ExtractText concatenates the text of every page in order.
func (e *FitzExtractor) ExtractText(ctx context.Context, data []byte) (string, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrParse, err)
	}
	defer doc.Close()

	var sb strings.Builder
	for page := 0; page < doc.NumPage(); page++ {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		text, err := doc.Text(page)
		if err != nil {
			return "", fmt.Errorf("%w: page %d: %v", ErrParse, page+1, err)
		}
		sb.WriteString(text)
	}
	return sb.String(), nil
}
