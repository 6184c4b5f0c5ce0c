package fuser

import (
	"github.com/Pramodsai29/AegisAI/internal/entity"
)

// numericShape captures the features the disambiguation rules key on.
type numericShape struct {
	digits  int  // count of decimal digits in the matched text
	hasSep  bool // contains a space or hyphen
	hasPlus bool // contains a leading country-code marker
}

func shapeOf(text string) numericShape {
	var s numericShape
	for i := 0; i < len(text); i++ {
		switch c := text[i]; {
		case c >= '0' && c <= '9':
			s.digits++
		case c == ' ' || c == '-':
			s.hasSep = true
		case c == '+':
			s.hasPlus = true
		}
	}
	return s
}

// outcome is the right-hand side of a rule row: either a rejection or an
// acceptance under a (possibly reclassified) entity class.
type outcome struct {
	accept bool
	class  entity.Class
}

func as(c entity.Class) outcome { return outcome{accept: true, class: c} }

var rejected = outcome{}

// row is one entry of the reclassification table: the first row whose
// predicate matches decides the candidate's fate.
type row struct {
	name string
	when func(numericShape) bool
	out  outcome
}

func always(numericShape) bool { return true }

// reclassTable resolves ambiguity between numeric classes that share shape.
// The tie-break policy is deliberate: grouped-with-separator long numbers
// are assumed cards before accounts; exactly-12-digit values are assumed
// Aadhaar before phone; contiguous unseparated digit runs of 9+ are assumed
// accounts. Classes absent from the table are accepted as matched.
var reclassTable = map[entity.Class][]row{
	entity.Card: {
		{"short_or_long_contiguous_is_account", func(s numericShape) bool {
			return (s.digits < 13 || s.digits > 19) && s.digits >= 9 && s.digits <= 18 && !s.hasSep
		}, as(entity.Account)},
		{"outside_card_lengths", func(s numericShape) bool {
			return s.digits < 13 || s.digits > 19
		}, rejected},
		{"sixteen_unseparated_is_account", func(s numericShape) bool {
			return s.digits == 16 && !s.hasSep
		}, as(entity.Account)},
		{"card", always, as(entity.Card)},
	},
	entity.Aadhaar: {
		{"aadhaar_is_twelve_digits", func(s numericShape) bool {
			return s.digits == 12
		}, as(entity.Aadhaar)},
		{"not_aadhaar", always, rejected},
	},
	entity.Phone: {
		{"outside_phone_lengths", func(s numericShape) bool {
			return s.digits < 10 || s.digits > 15
		}, rejected},
		{"twelve_without_plus_is_aadhaar_shaped", func(s numericShape) bool {
			return s.digits == 12 && !s.hasPlus
		}, rejected},
		{"long_contiguous_falls_to_account", func(s numericShape) bool {
			return s.digits >= 12 && !s.hasSep && !s.hasPlus
		}, rejected},
		{"phone", always, as(entity.Phone)},
	},
	entity.Account: {
		{"contiguous_nine_to_eighteen", func(s numericShape) bool {
			return s.digits >= 9 && s.digits <= 18 && !s.hasSep && !s.hasPlus
		}, as(entity.Account)},
		{"not_account", always, rejected},
	},
	entity.GenericID: {
		{"nine_plus_digits_owned_elsewhere", func(s numericShape) bool {
			return s.digits >= 9
		}, rejected},
		{"generic_id", always, as(entity.GenericID)},
	},
}

// resolve applies the reclassification table to a provisionally accepted
// candidate and returns its outcome.
func resolve(class entity.Class, text string) outcome {
	rows, ok := reclassTable[class]
	if !ok {
		return as(class)
	}
	s := shapeOf(text)
	for _, r := range rows {
		if r.when(s) {
			return r.out
		}
	}
	return rejected
}
