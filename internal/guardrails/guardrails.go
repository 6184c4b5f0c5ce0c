// Package guardrails applies an optional safety rewrite to model output
// before the leak check. The rewrite is strictly best effort: any failure,
// empty result, or missing rewriter returns the input unchanged, and the
// downstream leak check remains the real gate.
package guardrails

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/Pramodsai29/AegisAI/internal/llm"
	aegisotel "github.com/Pramodsai29/AegisAI/internal/otel"
)

// Rewriter reviews candidate output text and may return a safer version.
type Rewriter interface {
	Rewrite(ctx context.Context, text string, meta map[string]string) (string, error)
}

// RewriterFunc adapts a plain function to the Rewriter interface.
type RewriterFunc func(ctx context.Context, text string, meta map[string]string) (string, error)

func (f RewriterFunc) Rewrite(ctx context.Context, text string, meta map[string]string) (string, error) {
	return f(ctx, text, meta)
}

// Apply runs text through r when one is configured. The original text is
// returned for nil rewriters, errors, and blank rewrites.
func Apply(ctx context.Context, r Rewriter, text string, meta map[string]string) string {
	if r == nil || text == "" {
		return text
	}
	rewritten, err := r.Rewrite(ctx, text, meta)
	if err != nil {
		log.Warn().Func(aegisotel.LogTraceFields(ctx)).Err(err).
			Msg("guardrails rewrite failed, keeping original text")
		return text
	}
	rewritten = strings.TrimSpace(rewritten)
	if rewritten == "" {
		return text
	}
	return rewritten
}

const rewriteSystemPrompt = "You are a safety filter that reviews and, if needed, " +
	"rewrites the assistant's response to ensure it is privacy-preserving and " +
	"compliant with safety policies. Placeholders of the form [[TYPE_n]] must be " +
	"kept exactly as they appear. Reply with the reviewed response text only."

// LLMRewriter implements Rewriter over a chat provider. Rewrites that drop
// placeholder tokens present in the input are discarded.
type LLMRewriter struct {
	provider llm.Provider
	model    string
}

// NewLLMRewriter creates a rewriter over the given provider and model.
func NewLLMRewriter(provider llm.Provider, model string) *LLMRewriter {
	return &LLMRewriter{provider: provider, model: model}
}

func (r *LLMRewriter) Rewrite(ctx context.Context, text string, meta map[string]string) (string, error) {
	messages := []llm.Message{
		{Role: "system", Content: rewriteSystemPrompt},
		{Role: "assistant", Content: text},
	}
	if len(meta) > 0 {
		var b strings.Builder
		b.WriteString("Context metadata:")
		for k, v := range meta {
			b.WriteString(" ")
			b.WriteString(k)
			b.WriteString("=")
			b.WriteString(v)
		}
		messages = append(messages, llm.Message{Role: "user", Content: b.String()})
	}

	resp, err := r.provider.Generate(ctx, &llm.Request{Model: r.model, Messages: messages})
	if err != nil {
		return "", err
	}
	rewritten := strings.TrimSpace(resp.Content)
	if !llm.PlaceholdersPreserved(rewritten, text) {
		return text, nil
	}
	return rewritten, nil
}
