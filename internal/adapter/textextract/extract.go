// Package textextract converts uploaded document bytes into plain text.
//
// It handles PDF, Word and plain-text documents. Unrecognized
// extensions are decoded as UTF-8, retried with invalid-byte
// suppression; a document that yields no text at all fails with
// domain.ErrUnreadableDocument.
package textextract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	fitz "github.com/gen2brain/go-fitz"

	"github.com/fairyhunter13/ai-mock-interviewer/internal/domain"
	"github.com/fairyhunter13/ai-mock-interviewer/pkg/textx"
)

// Extractor implements domain.TextExtractor locally, without an
// extraction server.
type Extractor struct{}

// New constructs an Extractor.
func New() *Extractor { return &Extractor{} }

// Extract returns the plain text of the document. The declared filename
// picks the decoder; when the extension is missing the content type is
// sniffed instead.
func (e *Extractor) Extract(data []byte, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = mimetype.Detect(data).Extension()
	}

	var text string
	var err error
	switch ext {
	case ".pdf":
		text, err = extractPDF(data)
	case ".docx", ".doc":
		text, err = extractDocx(data)
	default:
		text, err = decodeUTF8(data)
	}
	if err != nil {
		// Last resort before failing: decode whatever is decodable.
		if t, derr := decodeUTF8(data); derr == nil && strings.TrimSpace(t) != "" {
			return textx.SanitizeText(t), nil
		}
		return "", fmt.Errorf("op=textextract.Extract file=%s: %w: %v", filename, domain.ErrUnreadableDocument, err)
	}
	text = textx.SanitizeText(text)
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("op=textextract.Extract file=%s: %w", filename, domain.ErrUnreadableDocument)
	}
	return text, nil
}

func extractPDF(data []byte) (string, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer doc.Close()

	var b strings.Builder
	for i := 0; i < doc.NumPage(); i++ {
		page, err := doc.Text(i)
		if err != nil {
			return "", fmt.Errorf("extract page %d: %w", i, err)
		}
		b.WriteString(page)
		b.WriteString("\n")
	}
	return b.String(), nil
}

// extractDocx reads word/document.xml out of the docx zip and joins
// paragraph texts with newlines.
func extractDocx(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("open document.xml: %w", err)
		}
		defer func() { _ = rc.Close() }()
		return docxParagraphs(rc)
	}
	return "", fmt.Errorf("docx has no word/document.xml")
}

func docxParagraphs(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	var b strings.Builder
	inText := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parse document.xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				b.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}
	return b.String(), nil
}

func decodeUTF8(data []byte) (string, error) {
	if utf8.Valid(data) {
		return string(data), nil
	}
	// Retry with invalid-byte suppression.
	return strings.ToValidUTF8(string(data), ""), nil
}
