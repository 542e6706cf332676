// Package transcribe integrates the external speech-to-text
// collaborator and post-processes its transcripts.
package transcribe

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/xrash/smetrics"

	"github.com/fairyhunter13/ai-mock-interviewer/internal/domain"
)

const nameSimilarityThreshold = 0.75

// Client calls a Whisper-compatible transcription server over HTTP and
// applies the name-correction pass to its output.
type Client struct {
	baseURL string
	hc      *http.Client
}

// New constructs a transcription client.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{baseURL: baseURL, hc: &http.Client{Timeout: timeout}}
}

// Transcribe sends audio bytes with a language hint and a biasing hint
// (the candidate's name), then corrects near-miss spellings of the name.
func (c *Client) Transcribe(ctx domain.Context, audio []byte, language, candidateName string) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("audio", "answer.webm")
	if err != nil {
		return "", fmt.Errorf("op=transcribe: %w", err)
	}
	if _, err := fw.Write(audio); err != nil {
		return "", fmt.Errorf("op=transcribe: %w", err)
	}
	_ = mw.WriteField("language", language)
	_ = mw.WriteField("initial_prompt", fmt.Sprintf(
		"This is a job interview. The candidate's name is %s. Proper nouns and technical terms may appear.", candidateName))
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("op=transcribe: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/transcribe", &buf)
	if err != nil {
		return "", fmt.Errorf("op=transcribe: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.hc.Do(req)
	if err != nil {
		slog.Error("transcription request failed", slog.Any("error", err))
		return "", fmt.Errorf("%w: %v", domain.ErrServiceUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: transcribe status %d", domain.ErrServiceUnavailable, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrServiceUnavailable, err)
	}
	var out struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrServiceUnavailable, err)
	}
	return FixName(strings.TrimSpace(out.Text), candidateName), nil
}

// FixName replaces any transcript word sufficiently similar to the
// candidate's name with the canonical spelling. Similarity follows the
// ratio form 1 - lev2/(len(a)+len(b)) with substitutions costing 2, so
// identical strings score 1.0.
func FixName(text, name string) string {
	if name == "" || text == "" {
		return text
	}
	words := strings.Fields(text)
	for i, w := range words {
		if similarity(strings.ToLower(w), strings.ToLower(name)) > nameSimilarityThreshold {
			words[i] = name
		}
	}
	return strings.Join(words, " ")
}

func similarity(a, b string) float64 {
	if len(a)+len(b) == 0 {
		return 1
	}
	d := smetrics.WagnerFischer(a, b, 1, 1, 2)
	return 1 - float64(d)/float64(len(a)+len(b))
}
