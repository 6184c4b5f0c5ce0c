// Package llm answers sanitized prompts through pluggable chat providers
// while enforcing placeholder preservation: models only ever see redacted
// text, and replies that drop or mangle placeholder tokens are rejected in
// favor of a deterministic fallback.
package llm

import (
	"context"
	"errors"
	"time"
)

// TimeoutLLMCall bounds every provider call.
const TimeoutLLMCall = 60 * time.Second

var (
	ErrProviderNotAvailable = errors.New("provider not available")
	ErrUnknownProvider      = errors.New("unknown provider")
)

// Provider is the interface all chat providers implement.
type Provider interface {
	// Name returns the provider identifier (e.g. "openai", "ollama").
	Name() string
	// Generate sends a completion request and returns the response.
	Generate(ctx context.Context, req *Request) (*Response, error)
}

// Request represents a chat generation request.
type Request struct {
	Model       string
	Messages    []Message
	Temperature float64
	MaxTokens   int
}

// Message represents a chat message.
type Message struct {
	Role    string // "system", "user", "assistant"
	Content string
}

// Response represents a chat generation response.
type Response struct {
	Content      string
	FinishReason string
	InputTokens  int
	OutputTokens int
	Model        string
}
