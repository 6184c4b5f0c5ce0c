// Package fuser merges statistical NER spans and pattern-detector candidates
// into one sorted, non-overlapping span list. Ambiguity between numeric
// classes that share shape is resolved by the reclassification table in
// rules.go, evaluated in the detector chain's fixed priority order.
package fuser

import (
	"context"
	"sort"

	"go.opentelemetry.io/otel/attribute"

	"github.com/Pramodsai29/AegisAI/internal/entity"
	aegisotel "github.com/Pramodsai29/AegisAI/internal/otel"
)

var tracer = aegisotel.Tracer("github.com/Pramodsai29/AegisAI/internal/fuser")

// sensitiveNER is the subset of NER classes that seed the working span list.
var sensitiveNER = map[entity.Class]bool{
	entity.Person:   true,
	entity.Org:      true,
	entity.Location: true,
	entity.Money:    true,
	entity.Date:     true,
	entity.Time:     true,
	entity.Number:   true,
	entity.Group:    true,
}

// Fuse merges NER spans and detector candidates into a disjoint span list.
//
// nerSpans seed the working list (restricted to the sensitive subset);
// patternCandidates must arrive in detector priority order; nameCandidates
// are the capitalized-words fallback, suppressed by any overlap with
// already-accepted spans or with NER PERSON hits. There is no error path:
// the worst case is under- or over-masking, never a failure.
func Fuse(ctx context.Context, nerSpans, patternCandidates, nameCandidates []entity.Span) []entity.Span {
	_, span := tracer.Start(ctx, "fuser.fuse")
	defer span.End()

	accepted := make([]entity.Span, 0, len(nerSpans)+len(patternCandidates))
	var personSpans []entity.Span

	for _, s := range nerSpans {
		if !sensitiveNER[s.Class] {
			continue
		}
		accepted = append(accepted, s)
		if s.Class == entity.Person {
			personSpans = append(personSpans, s)
		}
	}

	for _, cand := range patternCandidates {
		if cand.OverlapsAny(accepted) {
			continue
		}
		out := resolve(cand.Class, cand.Text)
		if !out.accept {
			continue
		}
		cand.Class = out.class
		accepted = append(accepted, cand)
	}

	for _, cand := range nameCandidates {
		if cand.OverlapsAny(accepted) || cand.OverlapsAny(personSpans) {
			continue
		}
		cand.Class = entity.Person
		accepted = append(accepted, cand)
	}

	merged := merge(accepted)

	span.SetAttributes(
		attribute.Int("fuse.ner_spans", len(nerSpans)),
		attribute.Int("fuse.accepted", len(accepted)),
		attribute.Int("fuse.merged", len(merged)),
	)
	return merged
}

// merge sorts spans by start offset, then descending length, and walks left
// to right keeping a span only if it starts at or after the end of the last
// kept span. On overlap the longer span wins; ties keep the earlier-seen
// one. The result is pairwise disjoint and sorted by start.
func merge(spans []entity.Span) []entity.Span {
	if len(spans) == 0 {
		return nil
	}
	sorted := make([]entity.Span, len(spans))
	copy(sorted, spans)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].Len() > sorted[j].Len()
	})

	out := make([]entity.Span, 1, len(sorted))
	out[0] = sorted[0]
	for _, s := range sorted[1:] {
		last := &out[len(out)-1]
		if s.Start >= last.End {
			out = append(out, s)
			continue
		}
		if s.Len() > last.Len() {
			*last = s
		}
	}
	return out
}
