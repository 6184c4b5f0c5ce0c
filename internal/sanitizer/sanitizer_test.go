package sanitizer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pramodsai29/AegisAI/internal/detector"
	"github.com/Pramodsai29/AegisAI/internal/entity"
	"github.com/Pramodsai29/AegisAI/internal/ner"
)

// fakeAnnotator returns fixed entities for any text.
func fakeAnnotator(ents ...ner.Entity) ner.Annotator {
	return ner.AnnotatorFunc(func(ctx context.Context, text string) ([]ner.Entity, error) {
		return ents, nil
	})
}

func personAt(text, name string) ner.Entity {
	start := strings.Index(text, name)
	return ner.Entity{Start: start, End: start + len(name), Label: "PERSON", Text: name}
}

func newTestSanitizer(t *testing.T, opts ...Option) *Sanitizer {
	t.Helper()
	return New(detector.MustNewSet(), opts...)
}

func TestSanitize_PersonEmailPhone(t *testing.T) {
	text := "Contact John Doe at john.doe@example.com or call +1 555-123-4567."
	s := newTestSanitizer(t, WithAnnotator(fakeAnnotator(personAt(text, "John Doe"))))

	res := s.Sanitize(context.Background(), text)

	assert.Equal(t, "Contact [[PERSON_1]] at [[EMAIL_1]] or call [[PHONE_1]].", res.Redacted)
	require.Len(t, res.Entities, 3)
	assert.Equal(t, 3, res.Rehydration.Len())
	assert.False(t, res.Rehydration.Destroyed())
}

func TestSanitize_Reversible(t *testing.T) {
	text := "Contact John Doe at john.doe@example.com or call +1 555-123-4567."
	s := newTestSanitizer(t, WithAnnotator(fakeAnnotator(personAt(text, "John Doe"))))

	res := s.Sanitize(context.Background(), text)
	assert.Equal(t, text, res.Rehydration.Apply(res.Redacted))
}

func TestSanitize_RawValuesAbsentFromRedacted(t *testing.T) {
	text := "mail a@b.co, card 4111 1111 1111 1111, ssn 123-45-6789"
	s := newTestSanitizer(t, WithAnnotator(fakeAnnotator()))

	res := s.Sanitize(context.Background(), text)
	for _, e := range res.Entities {
		assert.NotContains(t, res.Redacted, e.Text)
	}
}

func TestSanitize_CountersArePerClassAndPerCall(t *testing.T) {
	text := "a@b.co then c@d.co then 123-45-6789"
	s := newTestSanitizer(t, WithAnnotator(fakeAnnotator()))

	res := s.Sanitize(context.Background(), text)
	assert.Equal(t, "[[EMAIL_1]] then [[EMAIL_2]] then [[SSN_1]]", res.Redacted)

	// a fresh call restarts every counter
	res2 := s.Sanitize(context.Background(), "x@y.co")
	assert.Equal(t, "[[EMAIL_1]]", res2.Redacted)
}

func TestSanitize_DuplicateValueMintsDistinctTokens(t *testing.T) {
	text := "a@b.co and again a@b.co"
	s := newTestSanitizer(t, WithAnnotator(fakeAnnotator()))

	res := s.Sanitize(context.Background(), text)
	assert.Equal(t, "[[EMAIL_1]] and again [[EMAIL_2]]", res.Redacted)

	// both tokens rehydrate to the same value
	m := res.Rehydration.Tokens()
	assert.Equal(t, "a@b.co", m["[[EMAIL_1]]"])
	assert.Equal(t, "a@b.co", m["[[EMAIL_2]]"])

	// the summary is deduplicated by (text, class), keeping the first token
	require.Len(t, res.Summary, 1)
	assert.Equal(t, "[[EMAIL_1]]", res.Summary[0].Token)
	assert.Equal(t, SummaryConfidence, res.Summary[0].Confidence)
}

func TestSanitize_AnnotatorErrorDegradesToPatterns(t *testing.T) {
	failing := ner.AnnotatorFunc(func(ctx context.Context, text string) ([]ner.Entity, error) {
		return nil, errors.New("sidecar down")
	})
	s := newTestSanitizer(t, WithAnnotator(failing))

	res := s.Sanitize(context.Background(), "mail a@b.co now")
	assert.Equal(t, "mail [[EMAIL_1]] now", res.Redacted)
}

func TestSanitize_EmptyInput(t *testing.T) {
	s := newTestSanitizer(t, WithAnnotator(fakeAnnotator()))
	res := s.Sanitize(context.Background(), "")
	assert.Equal(t, "", res.Redacted)
	assert.Empty(t, res.Entities)
	assert.Equal(t, 0, res.Risk)
	assert.Equal(t, "general", res.Context.Category)
}

func TestSanitize_RiskUsesContextCategory(t *testing.T) {
	s := newTestSanitizer(t, WithAnnotator(fakeAnnotator()))

	// email (20) in a personal context (x1.2) = 24
	res := s.Sanitize(context.Background(), "my email is a@b.co")
	assert.Equal(t, "personal", res.Context.Category)
	assert.Equal(t, 24, res.Risk)
}

func TestRehydration_Destroy(t *testing.T) {
	s := newTestSanitizer(t, WithAnnotator(fakeAnnotator()))
	res := s.Sanitize(context.Background(), "a@b.co")

	require.Equal(t, 1, res.Rehydration.Len())
	res.Rehydration.Destroy()

	assert.True(t, res.Rehydration.Destroyed())
	assert.Equal(t, 0, res.Rehydration.Len())
	assert.Empty(t, res.Rehydration.Tokens())
	assert.Equal(t, "[[EMAIL_1]]", res.Rehydration.Apply("[[EMAIL_1]]"), "destroyed map must not restore values")
}

func TestRehydrationFromMap_DestroyClearsCallerMap(t *testing.T) {
	inbound := map[string]string{
		"[[EMAIL_1]]":  "a@b.co",
		"[[PERSON_1]]": "John Doe",
	}

	RehydrationFromMap(inbound).Destroy()

	// the supplied map itself is cleared, not a private copy of it
	assert.Empty(t, inbound)
	assert.Equal(t, "[[EMAIL_1]]", RehydrationFromMap(inbound).Apply("[[EMAIL_1]]"))
}

func TestRehydrationFromMap_NilMap(t *testing.T) {
	r := RehydrationFromMap(nil)
	assert.Equal(t, 0, r.Len())
	r.Destroy()
	assert.True(t, r.Destroyed())
}

func TestRehydration_ApplyLeavesUnknownTokens(t *testing.T) {
	r := RehydrationFromMap(map[string]string{"[[EMAIL_1]]": "a@b.co"})
	got := r.Apply("[[EMAIL_1]] and [[PHONE_9]]")
	assert.Equal(t, "a@b.co and [[PHONE_9]]", got)
}

func TestClasses(t *testing.T) {
	in := []Entity{{Text: "a", Class: entity.Email}, {Text: "b", Class: entity.Person}}
	assert.Equal(t, []entity.Class{entity.Email, entity.Person}, Classes(in))
}
