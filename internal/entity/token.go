package entity

import (
	"fmt"
	"regexp"
)

// TokenRE matches a placeholder token anywhere in text. Group 1 is the
// display prefix, group 2 the 1-based index.
var TokenRE = regexp.MustCompile(`\[\[([A-Z_]+?)_([0-9]+)\]\]`)

// wholeTokenRE anchors TokenRE to the full string.
var wholeTokenRE = regexp.MustCompile(`^\[\[[A-Z_]+?_[0-9]+\]\]$`)

// Token mints the placeholder for the n-th occurrence of a class within one
// sanitize call, e.g. Token(Email, 1) == "[[EMAIL_1]]".
func Token(c Class, n int) string {
	return fmt.Sprintf("[[%s_%d]]", c.Prefix(), n)
}

// IsPlaceholder reports whether s is exactly one well-formed placeholder
// token. Input text that already contains a literal [[CLASS_n]] shape is
// indistinguishable from a minted token; that collision is a known,
// accepted limitation of the wire format.
func IsPlaceholder(s string) bool {
	return wholeTokenRE.MatchString(s)
}
