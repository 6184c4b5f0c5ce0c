// Package ner defines the statistical named-entity recognizer collaborator.
// The engine treats the recognizer as optional: when no annotator is
// available the pipeline degrades to pattern-only detection, never fails.
package ner

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/Pramodsai29/AegisAI/internal/entity"
)

// Entity is one span produced by the statistical recognizer, with the
// model's native label (spaCy-style: PERSON, ORG, GPE, ...).
type Entity struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Label string `json:"label"`
	Text  string `json:"text"`
}

// Annotator produces entity spans for a text.
type Annotator interface {
	Annotate(ctx context.Context, text string) ([]Entity, error)
}

// AnnotatorFunc adapts a function to the Annotator interface.
type AnnotatorFunc func(ctx context.Context, text string) ([]Entity, error)

// Annotate calls f.
func (f AnnotatorFunc) Annotate(ctx context.Context, text string) ([]Entity, error) {
	return f(ctx, text)
}

// labelMap translates the model's native labels to entity classes. Labels
// absent from the map are not considered sensitive and are dropped.
var labelMap = map[string]entity.Class{
	"PERSON":   entity.Person,
	"ORG":      entity.Org,
	"GPE":      entity.Location,
	"LOC":      entity.Location,
	"FAC":      entity.Location,
	"NORP":     entity.Group,
	"DATE":     entity.Date,
	"TIME":     entity.Time,
	"MONEY":    entity.Money,
	"CARDINAL": entity.Number,
	"QUANTITY": entity.Number,
	"ORDINAL":  entity.Number,
}

// MapLabel resolves a model label to an entity class.
func MapLabel(label string) (entity.Class, bool) {
	c, ok := labelMap[label]
	return c, ok
}

// Spans converts annotator output to entity spans, keeping only the
// sensitive subset the fuser seeds with: PERSON, ORG, LOCATION, MONEY,
// DATE, TIME, NUMBER, GROUP.
func Spans(ents []Entity) []entity.Span {
	var out []entity.Span
	for _, e := range ents {
		class, ok := MapLabel(e.Label)
		if !ok {
			continue
		}
		if e.End <= e.Start {
			continue
		}
		out = append(out, entity.Span{Start: e.Start, End: e.End, Class: class, Text: e.Text})
	}
	return out
}

var (
	defaultMu      sync.Mutex
	defaultOnce    = new(sync.Once)
	defaultFactory func() (Annotator, error)
	defaultAnn     Annotator
)

// SetDefaultFactory registers the process-wide annotator constructor. The
// constructor runs at most once per registration, on first use. Swapping in
// a fresh Once keeps a concurrent Default call on the old generation from
// racing the reset. Model loading is a one-time cost; the annotator is
// treated as read-only afterward, so no teardown exists.
func SetDefaultFactory(f func() (Annotator, error)) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultFactory = f
	defaultOnce = new(sync.Once)
	defaultAnn = nil
}

// Default returns the lazily-initialized process-wide annotator, or nil when
// none is configured or initialization failed. A nil annotator means
// pattern-only detection.
func Default() Annotator {
	defaultMu.Lock()
	factory := defaultFactory
	once := defaultOnce
	defaultMu.Unlock()
	if factory == nil {
		return nil
	}
	once.Do(func() {
		ann, err := factory()
		if err != nil {
			log.Warn().Err(err).Msg("ner annotator unavailable, continuing pattern-only")
			return
		}
		defaultMu.Lock()
		// a stale generation must not overwrite a newer registration
		if defaultOnce == once {
			defaultAnn = ann
		}
		defaultMu.Unlock()
	})
	defaultMu.Lock()
	defer defaultMu.Unlock()
	return defaultAnn
}
