// Package ai provides response cleaning and strict decoding for text
// returned by the reasoning service.
package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/fairyhunter13/ai-mock-interviewer/internal/domain"
)

var validate = validator.New()

// ExtractJSON locates the JSON object embedded in free-form model
// output: markdown fences are stripped, then the substring from the
// first '{' to the last '}' is returned.
func ExtractJSON(response string) (string, error) {
	response = removeMarkdownBlocks(response)
	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start == -1 || end == -1 || end < start {
		return "", fmt.Errorf("%w: no JSON object in response", domain.ErrMalformedEvaluation)
	}
	return response[start : end+1], nil
}

// DecodeObject extracts the embedded JSON object and decodes it into v,
// then validates the declared structure. Any field-shape mismatch is a
// parse failure, never a crash; callers route it to their fallback.
func DecodeObject(response string, v any) error {
	payload, err := ExtractJSON(response)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(payload), v); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrMalformedEvaluation, err)
	}
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrMalformedEvaluation, err)
	}
	return nil
}

// removeMarkdownBlocks removes code-fence markers from the response.
func removeMarkdownBlocks(response string) string {
	response = strings.TrimSpace(response)
	response = strings.TrimPrefix(response, "```json")
	response = strings.TrimPrefix(response, "```")
	response = strings.TrimSuffix(response, "```")
	return strings.TrimSpace(response)
}
