// Package contextclass derives a coarse topic label for a text from fixed
// keyword vocabularies. The label is advisory risk-weighting metadata; it
// never blocks the pipeline.
package contextclass

import (
	"sort"
	"strings"
)

// Context is the derived, non-authoritative topic metadata.
type Context struct {
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
}

// General is the context returned when no vocabulary keyword matches.
var General = Context{Category: "general", Confidence: 0.5}

type vocabulary struct {
	category string
	words    []string
}

// vocabularies is evaluated in declaration order so tie-breaks are stable.
var vocabularies = []vocabulary{
	{"medical", []string{"diagnosis", "patient", "hospital", "medication", "doctor", "symptom", "clinic"}},
	{"financial", []string{"credit", "debit", "bank", "account", "loan", "salary", "invoice", "card"}},
	{"personal", []string{"address", "phone", "email", "ssn", "passport", "license", "birthday"}},
}

// Classify scores the text against each vocabulary by keyword presence.
// The label is the top category, or the top two hyphen-joined when more
// than one scores above zero. Confidence is the top category's share of
// the total, clamped to [0.55, 0.95].
func Classify(text string) Context {
	t := strings.ToLower(text)

	type scored struct {
		category string
		score    int
	}
	var hits []scored
	total := 0
	for _, v := range vocabularies {
		n := 0
		for _, w := range v.words {
			if strings.Contains(t, w) {
				n++
			}
		}
		if n > 0 {
			hits = append(hits, scored{v.category, n})
			total += n
		}
	}
	if total == 0 {
		return General
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })

	label := hits[0].category
	if len(hits) > 1 {
		label = hits[0].category + "-" + hits[1].category
	}

	conf := float64(hits[0].score) / float64(total)
	if conf > 0.95 {
		conf = 0.95
	}
	if conf < 0.55 {
		conf = 0.55
	}
	return Context{Category: label, Confidence: conf}
}
