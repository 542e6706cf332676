package textextract_test

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/ai-mock-interviewer/internal/adapter/textextract"
	"github.com/fairyhunter13/ai-mock-interviewer/internal/domain"
)

func TestExtract_PlainText(t *testing.T) {
	t.Parallel()
	e := textextract.New()
	out, err := e.Extract([]byte("  hello resume  "), "resume.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello resume", out)
}

func TestExtract_InvalidBytesSuppressed(t *testing.T) {
	t.Parallel()
	e := textextract.New()
	out, err := e.Extract([]byte("valid \xff\xfe text"), "notes.txt")
	require.NoError(t, err)
	assert.Equal(t, "valid  text", out)
}

func TestExtract_EmptyDocument(t *testing.T) {
	t.Parallel()
	e := textextract.New()
	_, err := e.Extract([]byte("   \n\t  "), "empty.txt")
	require.ErrorIs(t, err, domain.ErrUnreadableDocument)
}

func TestExtract_Docx(t *testing.T) {
	t.Parallel()
	doc := `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>First paragraph.</w:t></w:r></w:p>
    <w:p><w:r><w:t>Second</w:t></w:r><w:r><w:t> paragraph.</w:t></w:r></w:p>
  </w:body>
</w:document>`

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	fw, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = fw.Write([]byte(doc))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	e := textextract.New()
	out, err := e.Extract(buf.Bytes(), "resume.docx")
	require.NoError(t, err)
	assert.Contains(t, out, "First paragraph.")
	assert.Contains(t, out, "Second paragraph.")
}

func TestExtract_CorruptDocxFallsBackToText(t *testing.T) {
	t.Parallel()
	e := textextract.New()
	// Not a zip at all, but the bytes decode as plain text.
	out, err := e.Extract([]byte("plain content pretending to be docx"), "cv.docx")
	require.NoError(t, err)
	assert.Equal(t, "plain content pretending to be docx", out)
}

func TestExtract_UnknownExtensionDecodesAsText(t *testing.T) {
	t.Parallel()
	e := textextract.New()
	out, err := e.Extract([]byte("some profile text"), "profile")
	require.NoError(t, err)
	assert.Equal(t, "some profile text", out)
}
