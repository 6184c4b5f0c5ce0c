package ner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// TimeoutAnnotate bounds a single annotation call.
const TimeoutAnnotate = 10 * time.Second

// HTTPAnnotator calls an external NER sidecar (e.g. a spaCy service) over
// HTTP. The sidecar owns the model; this client is stateless.
type HTTPAnnotator struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPAnnotator creates an annotator client for the given base URL.
func NewHTTPAnnotator(baseURL string) *HTTPAnnotator {
	return &HTTPAnnotator{
		baseURL:    baseURL,
		httpClient: &http.Client{},
	}
}

type annotateRequest struct {
	Text string `json:"text"`
}

type annotateResponse struct {
	Entities []Entity `json:"entities"`
}

// Annotate posts the text to the sidecar and returns its entity spans.
func (a *HTTPAnnotator) Annotate(ctx context.Context, text string) ([]Entity, error) {
	ctx, cancel := context.WithTimeout(ctx, TimeoutAnnotate)
	defer cancel()

	body, err := json.Marshal(annotateRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("marshalling annotate request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/annotate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating annotate request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("annotate call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("annotate call: unexpected status %d", resp.StatusCode)
	}

	var parsed annotateResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decoding annotate response: %w", err)
	}
	return parsed.Entities, nil
}
