package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"resume-builder/pkg/ai/formatters"
)

// Client calls the internal ai-service chat endpoint.
type Client struct {
	BaseURL         string
	HTTP            *http.Client
	DefaultLanguage string
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = "http://ai-service:8000"
	}
	return &Client{BaseURL: baseURL, HTTP: &http.Client{Timeout: 60 * time.Second}}
}

// UpstreamError is a non-200 answer from the ai-service.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("ai-service returned %d: %s", e.Status, e.Body)
}

func (e *UpstreamError) StatusCode() int { return e.Status }

var ErrNonJSON = errors.New("ai-service returned non-json content")

// Formatter is implemented by every section formatter.
type Formatter interface {
	Format(ctx context.Context, payload map[string]interface{}) (map[string]interface{}, error)
}

func (c *Client) NewSummaryFormatter() Formatter {
	return formatters.NewSummaryFormatter(c, c.DefaultLanguage)
}

func (c *Client) NewExperienceFormatter() Formatter {
	return formatters.NewExperienceFormatter(c, c.DefaultLanguage)
}

func (c *Client) NewProjectsFormatter() Formatter {
	return formatters.NewProjectsFormatter(c, c.DefaultLanguage)
}

// ChatJSON posts input to /v1/chat and decodes the JSON object contained in
// the reply's output. A single attempt is made.
func (c *Client) ChatJSON(ctx context.Context, input string, out interface{}) error {
	b, err := json.Marshal(map[string]interface{}{
		"agent": "auto",
		"input": input,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v1/chat", bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	rb, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	slog.Debug("ai-service chat", "status", resp.StatusCode, "bytes", len(rb), "duration", time.Since(start))

	if resp.StatusCode != http.StatusOK {
		body := string(rb)
		if len(body) > 200 {
			body = body[:200]
		}
		return &UpstreamError{Status: resp.StatusCode, Body: body}
	}

	var chatResp struct {
		Agent  string `json:"agent"`
		Output string `json:"output"`
	}
	if err := json.Unmarshal(rb, &chatResp); err != nil {
		return fmt.Errorf("decode chat response: %w", err)
	}
	return ExtractJSON(chatResp.Output, out)
}

// ExtractJSON decodes s into out, falling back to the outermost {...}
// substring when the model wrapped the object in prose or code fences.
func ExtractJSON(s string, out interface{}) error {
	err := json.Unmarshal([]byte(s), out)
	if err == nil {
		return nil
	}
	start := bytes.IndexByte([]byte(s), '{')
	end := bytes.LastIndexByte([]byte(s), '}')
	if start >= 0 && end > start {
		if err2 := json.Unmarshal([]byte(s[start:end+1]), out); err2 == nil {
			return nil
		}
	}
	return fmt.Errorf("%w: %v", ErrNonJSON, err)
}
