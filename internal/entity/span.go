package entity

// Span is a half-open byte range [Start, End) into the source text, tagged
// with the entity class it was detected as. Spans live for one request only.
type Span struct {
	Start int
	End   int
	Class Class
	Text  string
}

// Len returns the span length in bytes.
func (s Span) Len() int { return s.End - s.Start }

// Overlaps reports whether two spans intersect. Touching spans (one ends
// where the other starts) do not overlap.
func (s Span) Overlaps(o Span) bool {
	return s.Start < o.End && o.Start < s.End
}

// OverlapsAny reports whether s intersects any span in the list.
func (s Span) OverlapsAny(spans []Span) bool {
	for _, o := range spans {
		if s.Overlaps(o) {
			return true
		}
	}
	return false
}
