// Package sanitizer orchestrates the detection-and-masking engine: it fuses
// NER and pattern-detector spans, assigns reversible placeholders, derives
// context and risk metadata, and re-validates generated output before
// release. Raw sensitive values are only ever referenced by placeholder in
// logs and traces.
package sanitizer

import (
	"context"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Pramodsai29/AegisAI/internal/contextclass"
	"github.com/Pramodsai29/AegisAI/internal/detector"
	"github.com/Pramodsai29/AegisAI/internal/entity"
	"github.com/Pramodsai29/AegisAI/internal/fuser"
	"github.com/Pramodsai29/AegisAI/internal/guardrails"
	"github.com/Pramodsai29/AegisAI/internal/leak"
	"github.com/Pramodsai29/AegisAI/internal/ner"
	aegisotel "github.com/Pramodsai29/AegisAI/internal/otel"
	"github.com/Pramodsai29/AegisAI/internal/risk"
)

var tracer = aegisotel.Tracer("github.com/Pramodsai29/AegisAI/internal/sanitizer")

// Result is the outcome of one sanitize call. Everything in it is scoped to
// the request; nothing may be persisted.
type Result struct {
	Redacted    string
	Entities    []Entity
	Summary     []SummaryRecord
	Context     contextclass.Context
	Risk        int
	Rehydration *Rehydration
}

// Sanitizer holds the detection machinery shared by the input and output
// stages. It is stateless across requests and safe for concurrent use.
type Sanitizer struct {
	set       *detector.Set
	annotator ner.Annotator
	checker   *leak.Checker
	rewriter  guardrails.Rewriter
}

// Option configures a Sanitizer.
type Option func(*Sanitizer)

// WithAnnotator pins the NER annotator instead of resolving the process
// default lazily. Mainly for tests.
func WithAnnotator(a ner.Annotator) Option {
	return func(s *Sanitizer) { s.annotator = a }
}

// WithRewriter sets the optional output guard-rail rewriter.
func WithRewriter(r guardrails.Rewriter) Option {
	return func(s *Sanitizer) { s.rewriter = r }
}

// New creates a Sanitizer over the given detector set.
func New(set *detector.Set, opts ...Option) *Sanitizer {
	s := &Sanitizer{set: set}
	for _, o := range opts {
		o(s)
	}
	s.checker = leak.NewChecker(set, s.annotator)
	return s
}

// resolveAnnotator returns the pinned annotator or the lazily-initialized
// process default. A nil result means pattern-only detection.
func (s *Sanitizer) resolveAnnotator() ner.Annotator {
	if s.annotator != nil {
		return s.annotator
	}
	return ner.Default()
}

// nerSpans runs the statistical recognizer when available. Failures degrade
// to pattern-only detection; they are never fatal.
func (s *Sanitizer) nerSpans(ctx context.Context, text string) []entity.Span {
	ann := s.resolveAnnotator()
	if ann == nil {
		return nil
	}
	ents, err := ann.Annotate(ctx, text)
	if err != nil {
		log.Warn().Func(aegisotel.LogTraceFields(ctx)).Err(err).
			Msg("ner annotate failed, continuing pattern-only")
		return nil
	}
	return ner.Spans(ents)
}

// Sanitize detects PII in text and replaces each span with a reversible
// placeholder token. Counters and the rehydration map are allocated fresh
// for this call.
func (s *Sanitizer) Sanitize(ctx context.Context, text string) *Result {
	ctx, span := tracer.Start(ctx, "sanitizer.sanitize")
	defer span.End()

	nerSpans := s.nerSpans(ctx, text)
	candidates := s.set.Detect(text)
	names := s.set.NameCandidates(text)

	merged := fuser.Fuse(ctx, nerSpans, candidates, names)
	redacted, rehyd, entities, summary := assign(text, merged)

	cc := contextclass.Classify(text)

	res := &Result{
		Redacted:    redacted,
		Entities:    entities,
		Summary:     summary,
		Context:     cc,
		Risk:        scoreEntities(entities, cc.Category),
		Rehydration: rehyd,
	}

	span.SetAttributes(
		attribute.Int("pii.span_count", len(merged)),
		attribute.Int("pii.entity_count", len(entities)),
		attribute.Int("pii.risk", res.Risk),
		attribute.String("pii.context", cc.Category),
	)
	return res
}

// Classes returns the entity classes of a detected entity list, for risk
// recomputation at later pipeline stages.
func Classes(entities []Entity) []entity.Class {
	out := make([]entity.Class, len(entities))
	for i, e := range entities {
		out[i] = e.Class
	}
	return out
}

// scoreEntities computes the weighted risk score, recovering to the
// entity-count heuristic if scoring fails. Risk is derived data and is
// recomputed at every stage; caller-supplied values are ignored.
func scoreEntities(entities []Entity, category string) (score int) {
	defer func() {
		if r := recover(); r != nil {
			log.Warn().Interface("panic", r).Msg("risk scoring failed, using entity-count fallback")
			score = risk.EntityCountFallback(len(entities))
		}
	}()
	return risk.Score(Classes(entities), category)
}
