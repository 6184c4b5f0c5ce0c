package sanitizer

import (
	"strings"

	"github.com/Pramodsai29/AegisAI/internal/entity"
)

// SummaryConfidence is the fixed confidence reported for detected entities.
// Per-detector confidence is not propagated yet.
const SummaryConfidence = 0.98

// Entity is one detected entity as exposed to callers: the matched text and
// its class. Duplicate (text, class) pairs are collapsed.
type Entity struct {
	Text  string
	Class entity.Class
}

// SummaryRecord is the per-entity bookkeeping record. Text is the original
// value and must never reach a log sink; it exists so an authorized caller
// can correlate placeholders without the rehydration map.
type SummaryRecord struct {
	Class      entity.Class
	Token      string
	Confidence float64
	Text       string
}

// assign converts a disjoint, sorted span list into the redacted text, the
// rehydration map, and the deduplicated entity summary. Counters are 1-based
// per class and local to this call; the same value occurring twice still
// mints two distinct tokens at their respective positions.
func assign(text string, spans []entity.Span) (string, *Rehydration, []Entity, []SummaryRecord) {
	var b strings.Builder
	b.Grow(len(text))

	rehyd := newRehydration()
	counters := make(map[entity.Class]int)

	type dedupKey struct {
		text  string
		class entity.Class
	}
	firstToken := make(map[dedupKey]string)
	var order []dedupKey

	last := 0
	for _, sp := range spans {
		if sp.Start < last {
			continue
		}
		b.WriteString(text[last:sp.Start])

		counters[sp.Class]++
		token := entity.Token(sp.Class, counters[sp.Class])
		b.WriteString(token)
		rehyd.put(token, sp.Text)

		k := dedupKey{sp.Text, sp.Class}
		if _, seen := firstToken[k]; !seen {
			firstToken[k] = token
			order = append(order, k)
		}
		last = sp.End
	}
	b.WriteString(text[last:])

	entities := make([]Entity, 0, len(order))
	summary := make([]SummaryRecord, 0, len(order))
	for _, k := range order {
		entities = append(entities, Entity{Text: k.text, Class: k.class})
		summary = append(summary, SummaryRecord{
			Class:      k.class,
			Token:      firstToken[k],
			Confidence: SummaryConfidence,
			Text:       k.text,
		})
	}
	return b.String(), rehyd, entities, summary
}
