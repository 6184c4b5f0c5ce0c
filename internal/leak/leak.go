// Package leak re-scans generated text for real (non-placeholder) PII
// before a response is released. The check fails closed: when the full
// detection pipeline cannot run, a reduced EMAIL/PHONE scan takes over and
// is biased toward reporting a leak rather than passing unsafe text.
package leak

import (
	"context"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Pramodsai29/AegisAI/internal/detector"
	"github.com/Pramodsai29/AegisAI/internal/entity"
	"github.com/Pramodsai29/AegisAI/internal/fuser"
	"github.com/Pramodsai29/AegisAI/internal/ner"
	aegisotel "github.com/Pramodsai29/AegisAI/internal/otel"
)

var tracer = aegisotel.Tracer("github.com/Pramodsai29/AegisAI/internal/leak")

// RefusalMessage replaces the model output whenever a leak is detected.
// Partial redaction of a leaking response is never attempted.
const RefusalMessage = "We cannot provide this due to sensitive data concerns."

// Note accompanies a refusal in the filter response.
const Note = "sensitive_entity_detected"

// Checker runs the detection pipeline over candidate output text.
type Checker struct {
	set       *detector.Set
	annotator ner.Annotator
}

// NewChecker creates a Checker sharing the sanitize-side detector set.
// A nil annotator falls back to the lazily-initialized process default.
func NewChecker(set *detector.Set, annotator ner.Annotator) *Checker {
	return &Checker{set: set, annotator: annotator}
}

// Check reports whether text contains any detected span that is not itself
// a well-formed placeholder token. A panic anywhere in the full pipeline is
// recovered into the reduced check.
func (c *Checker) Check(ctx context.Context, text string) (leaked bool) {
	ctx, span := tracer.Start(ctx, "leak.check")
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			log.Warn().Func(aegisotel.LogTraceFields(ctx)).Interface("panic", r).
				Msg("leak check failed, falling back to reduced scan")
			leaked = c.reducedCheck(text)
		}
		span.SetAttributes(attribute.Bool("leak.detected", leaked))
	}()

	spans := c.scan(ctx, text)
	for _, sp := range spans {
		if !entity.IsPlaceholder(sp.Text) {
			return true
		}
	}
	return false
}

// scan runs the same fusion pipeline as the input side. Annotator errors
// degrade to pattern-only detection.
func (c *Checker) scan(ctx context.Context, text string) []entity.Span {
	var nerSpans []entity.Span
	ann := c.annotator
	if ann == nil {
		ann = ner.Default()
	}
	if ann != nil {
		if ents, err := ann.Annotate(ctx, text); err == nil {
			nerSpans = ner.Spans(ents)
		} else {
			log.Debug().Func(aegisotel.LogTraceFields(ctx)).Err(err).
				Msg("leak check annotate failed, pattern-only")
		}
	}
	return fuser.Fuse(ctx, nerSpans, c.set.Detect(text), c.set.NameCandidates(text))
}

// reducedCheck scans with the EMAIL and PHONE detectors only, still
// excluding placeholder-shaped matches. Its own failure reports a leak:
// when safety cannot be established, over-refusal beats exposure.
func (c *Checker) reducedCheck(text string) (leaked bool) {
	defer func() {
		if r := recover(); r != nil {
			leaked = true
		}
	}()
	for _, class := range []entity.Class{entity.Email, entity.Phone} {
		for _, sp := range c.set.DetectClass(text, class) {
			if !entity.IsPlaceholder(sp.Text) {
				return true
			}
		}
	}
	return false
}
