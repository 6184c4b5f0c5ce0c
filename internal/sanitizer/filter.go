package sanitizer

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/Pramodsai29/AegisAI/internal/guardrails"
	"github.com/Pramodsai29/AegisAI/internal/leak"
	"github.com/Pramodsai29/AegisAI/internal/render"
)

// FilterResult is the outcome of the output gate.
type FilterResult struct {
	SafeText     string
	LeakDetected bool
	Note         string
}

// CheckAndFilter gates candidate model output before release. The optional
// guard-rail rewrite runs first, then the leak check; a detected leak
// replaces the entire text with the fixed refusal message. Clean text has
// its placeholder tokens rendered as generic phrases.
func (s *Sanitizer) CheckAndFilter(ctx context.Context, candidate string, meta map[string]string) FilterResult {
	ctx, span := tracer.Start(ctx, "sanitizer.output_filter")
	defer span.End()

	guarded := guardrails.Apply(ctx, s.rewriter, candidate, meta)

	if s.checker.Check(ctx, guarded) {
		span.SetAttributes(attribute.Bool("leak.detected", true))
		return FilterResult{
			SafeText:     leak.RefusalMessage,
			LeakDetected: true,
			Note:         leak.Note,
		}
	}

	span.SetAttributes(attribute.Bool("leak.detected", false))
	return FilterResult{SafeText: render.GenericTerms(guarded)}
}
