package llm

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"

	aegisotel "github.com/Pramodsai29/AegisAI/internal/otel"
)

// Explanation strings attached to an Output, describing how the answer was
// produced.
const (
	ExplainUnavailable  = "llm_unavailable_fallback"
	ExplainSuccess      = "success_json_with_placeholders"
	ExplainRetrySuccess = "success_after_retry"
	ExplainFallback     = "non_json_or_placeholders_missing_fallback"
)

// Output is the result of one placeholder-preserving answer attempt.
type Output struct {
	Answer       string  `json:"answer"`
	Confidence   float64 `json:"confidence"`
	Explanations string  `json:"explanations"`
	FallbackUsed bool    `json:"fallback_used"`
	Raw          string  `json:"raw"`
}

// Client drives a Provider with retry-once semantics and strict placeholder
// preservation. A nil or unavailable provider degrades to echoing the
// sanitized input, which is always safe to return.
type Client struct {
	provider Provider
	model    string
}

// NewClient creates a Client for the given provider and model. provider may
// be nil, in which case every Answer call uses the unavailable fallback.
func NewClient(provider Provider, model string) *Client {
	return &Client{provider: provider, model: model}
}

// ProviderName returns the backing provider's identifier, or "fallback"
// when no provider is configured.
func (c *Client) ProviderName() string {
	if c.provider == nil {
		return "fallback"
	}
	return c.provider.Name()
}

// Answer sends the sanitized text to the model and returns a validated
// answer. The reply must parse as JSON with an "answer" field and must keep
// placeholder tokens intact; one retry with a stronger instruction is
// attempted before falling back.
func (c *Client) Answer(ctx context.Context, sanitized, category string) *Output {
	ctx, span := tracer.Start(ctx, "llm.answer")
	defer span.End()

	out := c.answer(ctx, sanitized, category)
	span.SetAttributes(
		attribute.Bool("llm.fallback_used", out.FallbackUsed),
		attribute.String("llm.explanations", out.Explanations),
	)
	return out
}

func (c *Client) answer(ctx context.Context, sanitized, category string) *Output {
	if c.provider == nil {
		return &Output{
			Answer:       sanitized,
			Confidence:   0.0,
			Explanations: ExplainUnavailable,
			FallbackUsed: true,
		}
	}

	userPrompt := BuildUserPrompt(sanitized, category)

	raw := c.generate(ctx, BuildSystemPrompt(), userPrompt)
	if out := accept(raw, sanitized, 0.9, ExplainSuccess); out != nil {
		return out
	}

	retryRaw := c.generate(ctx, RetrySystemPrompt(), userPrompt)
	if out := accept(retryRaw, sanitized, 0.8, ExplainRetrySuccess); out != nil {
		return out
	}
	if retryRaw != "" {
		raw = retryRaw
	}

	// The raw reply may be non-JSON but is still placeholder-only text as
	// far as we know; the output filter re-checks it before release.
	fallback := raw
	if fallback == "" {
		fallback = sanitized
	}
	return &Output{
		Answer:       fallback,
		Confidence:   0.0,
		Explanations: ExplainFallback,
		FallbackUsed: true,
		Raw:          raw,
	}
}

// generate performs one provider call. Errors are logged and collapse to an
// empty reply; the caller decides whether to retry or fall back.
func (c *Client) generate(ctx context.Context, systemPrompt, userPrompt string) string {
	resp, err := c.provider.Generate(ctx, &Request{
		Model: c.model,
		Messages: []Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
	})
	if err != nil {
		log.Warn().Func(aegisotel.LogTraceFields(ctx)).Err(err).
			Str("provider", c.provider.Name()).Msg("llm generate failed")
		return ""
	}
	return strings.TrimSpace(resp.Content)
}

// accept validates one raw reply; nil means the reply failed validation.
func accept(raw, sanitized string, confidence float64, explanation string) *Output {
	if raw == "" {
		return nil
	}
	answer, ok := ParseAnswer(raw)
	if !ok || !PlaceholdersPreserved(answer, sanitized) {
		return nil
	}
	return &Output{
		Answer:       answer,
		Confidence:   confidence,
		Explanations: explanation,
		Raw:          raw,
	}
}
