// Package render converts placeholder tokens into natural generic phrases
// for the final, user-facing output. Rendering is cosmetic: it never
// restores original values.
package render

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Pramodsai29/AegisAI/internal/entity"
)

var (
	multiSpaceRE   = regexp.MustCompile(`\s+`)
	spaceBeforePct = regexp.MustCompile(`\s+([,.!?])`)
)

// GenericTerms replaces every placeholder token with a readable generic
// phrase. Repeated references to the same token reuse its phrase; distinct
// tokens of the same type advance through the type's phrase sequence.
func GenericTerms(text string) string {
	if text == "" {
		return text
	}

	// ordinal of each distinct token index, per type
	seen := make(map[string]map[int]int)

	out := entity.TokenRE.ReplaceAllStringFunc(text, func(tok string) string {
		m := entity.TokenRE.FindStringSubmatch(tok)
		if m == nil {
			return tok
		}
		prefix := m[1]
		num, err := strconv.Atoi(m[2])
		if err != nil {
			return tok
		}
		if seen[prefix] == nil {
			seen[prefix] = make(map[int]int)
		}
		ordinal, ok := seen[prefix][num]
		if !ok {
			ordinal = len(seen[prefix]) + 1
			seen[prefix][num] = ordinal
		}
		return phrase(prefix, ordinal)
	})

	out = multiSpaceRE.ReplaceAllString(out, " ")
	out = spaceBeforePct.ReplaceAllString(out, "$1")
	return strings.TrimSpace(out)
}

// phrase maps a token type and its ordinal occurrence to a generic phrase.
func phrase(prefix string, ordinal int) string {
	switch prefix {
	case "PERSON":
		switch ordinal {
		case 1:
			return "the person"
		case 2:
			return "the other person"
		case 3:
			return "another person"
		default:
			return "the individual"
		}
	case "EMAIL":
		if ordinal == 1 {
			return "their email"
		}
		return "the email address"
	case "PHONE":
		if ordinal == 1 {
			return "their phone number"
		}
		return "the phone number"
	case "ACC":
		if ordinal == 1 {
			return "their account number"
		}
		return "the account number"
	case "PAN":
		return "the PAN number"
	case "AADHAAR":
		return "the Aadhaar number"
	case "CARD":
		return "the card number"
	case "CURRENCY":
		return "the amount"
	case "IP":
		return "the IP address"
	case "URL":
		return "the URL"
	case "SSN":
		return "the SSN"
	default:
		return "the information"
	}
}
