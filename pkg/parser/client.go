// Package parser sends uploaded résumé documents to the third-party parsing
// API and maps its loosely shaped answer onto ResumeData.
package parser

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"time"

	"resume-builder/internal/model"
)

type Document struct {
	Filename    string
	ContentType string
	Data        []byte
}

type Result struct {
	Data       *model.ResumeData
	Confidence float64
	Extracted  map[string]bool
}

// UpstreamError is a non-2xx answer from the parsing API.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("parser api returned %d: %s", e.Status, e.Body)
}

func (e *UpstreamError) StatusCode() int { return e.Status }

type Client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{BaseURL: baseURL, APIKey: apiKey, HTTP: &http.Client{Timeout: 60 * time.Second}}
}

// Parse uploads doc and normalizes the response. The call is not retried.
func (c *Client) Parse(ctx context.Context, doc Document) (*Result, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, doc.Filename))
	h.Set("Content-Type", doc.ContentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(doc.Data); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	rb, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet := string(rb)
		if len(snippet) > 200 {
			snippet = snippet[:200]
		}
		return nil, &UpstreamError{Status: resp.StatusCode, Body: snippet}
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(rb, &raw); err != nil {
		return nil, fmt.Errorf("parser api returned non-json content: %w", err)
	}
	return Normalize(raw), nil
}
