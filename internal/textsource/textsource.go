// Package textsource turns input files into plain text for the
// extraction pipeline. Text files pass through as-is; PDFs go through
// MuPDF's text layer.
package textsource

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"

	"github.com/ppiankov/lossrun/internal/model"
)

// thinTextLayer marks a PDF whose embedded text layer is too small to
// be the real document content. Scanned PDFs without an OCR layer land
// here.
const thinTextLayer = 40

// Load reads one input file. PDFs are extracted page by page with page
// markers; anything else is read as UTF-8 text with invalid bytes
// replaced. UsedOCR reports a thin PDF text layer; MuPDF surfaces
// embedded OCR layers transparently, so a thin layer usually means the
// scan was never OCRed and the text is unusable.
func Load(path string) (model.Document, error) {
	doc := model.Document{Path: path}

	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		text, err := pdfText(path)
		if err != nil {
			return doc, fmt.Errorf("extract PDF text from %s: %w", path, err)
		}
		doc.Text = text
		doc.UsedOCR = len(strings.TrimSpace(text)) < thinTextLayer
		return doc, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return doc, fmt.Errorf("read %s: %w", path, err)
	}
	doc.Text = strings.ToValidUTF8(string(data), "�")
	return doc, nil
}

func pdfText(path string) (string, error) {
	pdf, err := fitz.New(path)
	if err != nil {
		return "", fmt.Errorf("open PDF: %w", err)
	}
	defer pdf.Close()

	var b strings.Builder
	for page := 0; page < pdf.NumPage(); page++ {
		text, err := pdf.Text(page)
		if err != nil {
			return "", fmt.Errorf("extract page %d: %w", page+1, err)
		}
		fmt.Fprintf(&b, "--- PAGE %d ---\n", page+1)
		b.WriteString(text)
		b.WriteString("\n\n")
	}
	return b.String(), nil
}
