// Package detector implements the pattern detector set: independent
// regex-based recognizers for structured PII classes. Each recognizer finds
// every match in isolation; cross-class conflict resolution belongs entirely
// to the fuser.
package detector

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Pramodsai29/AegisAI/internal/entity"
)

// Pattern is one compiled recognizer regex bound to an entity class.
type Pattern struct {
	Recognizer string
	Name       string
	Class      entity.Class
	re         *regexp.Regexp
	notAfter   string
	notBefore  string
	deny       map[string]bool
}

// find returns every match of the pattern in text, applying the not_after /
// not_before boundary guards and the deny list. Detectors never fail on
// malformed input; an unmatched pattern simply contributes no spans.
func (p *Pattern) find(text string) []entity.Span {
	idx := p.re.FindAllStringIndex(text, -1)
	if idx == nil {
		return nil
	}
	spans := make([]entity.Span, 0, len(idx))
	for _, m := range idx {
		if p.notAfter != "" && m[0] > 0 && strings.IndexByte(p.notAfter, text[m[0]-1]) >= 0 {
			continue
		}
		if p.notBefore != "" && m[1] < len(text) && strings.IndexByte(p.notBefore, text[m[1]]) >= 0 {
			continue
		}
		val := text[m[0]:m[1]]
		if p.denied(val) {
			continue
		}
		spans = append(spans, entity.Span{Start: m[0], End: m[1], Class: p.Class, Text: val})
	}
	return spans
}

// denied reports whether any whitespace-separated token of val is on the
// recognizer's deny list.
func (p *Pattern) denied(val string) bool {
	if len(p.deny) == 0 {
		return false
	}
	for _, w := range strings.Fields(val) {
		if p.deny[w] {
			return true
		}
	}
	return false
}

// Set holds the compiled recognizers. The numeric/structured chain keeps its
// YAML declaration order, which is the fusion priority order. The PERSON
// name fallback is held separately; it never competes in the chain.
type Set struct {
	chain []Pattern
	names []Pattern
}

// Option configures a Set via the functional options pattern.
type Option func(*setConfig)

type setConfig struct {
	patternFile string
}

// WithPatternFile overlays recognizers from a YAML file on the embedded
// defaults. A missing file is silently skipped.
func WithPatternFile(path string) Option {
	return func(c *setConfig) { c.patternFile = path }
}

// NewSet compiles the embedded default recognizers, optionally overlaid with
// a recognizer file.
func NewSet(opts ...Option) (*Set, error) {
	var cfg setConfig
	for _, o := range opts {
		o(&cfg)
	}

	defaults, err := DefaultRecognizers()
	if err != nil {
		return nil, fmt.Errorf("loading default recognizers: %w", err)
	}

	var overrides []RecognizerConfig
	if cfg.patternFile != "" {
		rf, err := LoadRecognizerFile(cfg.patternFile)
		if err != nil {
			return nil, fmt.Errorf("loading pattern file: %w", err)
		}
		if rf != nil {
			overrides = rf.Recognizers
		}
	}

	compiled, err := compile(MergeRecognizers(defaults, overrides))
	if err != nil {
		return nil, fmt.Errorf("compiling patterns: %w", err)
	}

	s := &Set{}
	for _, p := range compiled {
		if p.Class == entity.Person {
			s.names = append(s.names, p)
		} else {
			s.chain = append(s.chain, p)
		}
	}
	return s, nil
}

// MustNewSet is like NewSet but panics on error. The embedded defaults are
// expected to always compile.
func MustNewSet(opts ...Option) *Set {
	s, err := NewSet(opts...)
	if err != nil {
		panic(fmt.Sprintf("detector.NewSet: %v", err))
	}
	return s
}

// Detect runs the structured recognizer chain over text and returns all
// candidate spans in priority order (recognizer order, then match position).
// Candidates may overlap across classes; the fuser resolves conflicts.
func (s *Set) Detect(text string) []entity.Span {
	var out []entity.Span
	for i := range s.chain {
		out = append(out, s.chain[i].find(text)...)
	}
	return out
}

// DetectClass runs only the recognizers for a single class. Used by the
// reduced leak check, which scans with EMAIL and PHONE alone.
func (s *Set) DetectClass(text string, class entity.Class) []entity.Span {
	var out []entity.Span
	for i := range s.chain {
		if s.chain[i].Class == class {
			out = append(out, s.chain[i].find(text)...)
		}
	}
	return out
}

// NameCandidates runs the capitalized-words fallback and returns candidate
// PERSON spans with the stop-list already applied. Candidates of fewer than
// two word tokens are dropped.
func (s *Set) NameCandidates(text string) []entity.Span {
	var out []entity.Span
	for i := range s.names {
		for _, sp := range s.names[i].find(text) {
			if len(strings.Fields(sp.Text)) < 2 {
				continue
			}
			out = append(out, sp)
		}
	}
	return out
}
