package textx_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fairyhunter13/ai-mock-interviewer/pkg/textx"
)

func TestSanitizeText_StripsControlChars(t *testing.T) {
	t.Parallel()
	in := "hello\x00world\n\tok\r\n"
	out := textx.SanitizeText(in)
	assert.Equal(t, "helloworld\n\tok", out)
}

func TestSanitizeText_TrimsSpace(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "abc", textx.SanitizeText("  abc  "))
}

func TestTruncate_RuneSafe(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "héll", textx.Truncate("héllo", 4))
	assert.Equal(t, "héllo", textx.Truncate("héllo", 10))
	assert.Equal(t, "", textx.Truncate("héllo", 0))
}

func TestWordCount(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 0, textx.WordCount("   "))
	assert.Equal(t, 3, textx.WordCount("one  two\nthree"))
}
