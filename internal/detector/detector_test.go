package detector

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pramodsai29/AegisAI/internal/entity"
)

func classesOf(spans []entity.Span) []entity.Class {
	out := make([]entity.Class, len(spans))
	for i, s := range spans {
		out[i] = s.Class
	}
	return out
}

func TestDetect_StructuredClasses(t *testing.T) {
	set := MustNewSet()

	tests := []struct {
		name      string
		text      string
		wantClass entity.Class
		wantText  string
	}{
		{"email", "reach me at john.doe@example.com today", entity.Email, "john.doe@example.com"},
		{"pan", "PAN: ABCDE1234F", entity.PAN, "ABCDE1234F"},
		{"ssn", "SSN 123-45-6789 on file", entity.SSN, "123-45-6789"},
		{"ipv4", "server at 192.168.1.100 is up", entity.IP, "192.168.1.100"},
		{"url", "see https://example.com/docs for details", entity.URL, "https://example.com/docs"},
		{"currency_dollar", "paid $450.00 yesterday", entity.Currency, "$450.00"},
		{"currency_inr", "salary Rs. 50000 per month", entity.Currency, "Rs. 50000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spans := set.Detect(tt.text)
			require.NotEmpty(t, spans)
			found := false
			for _, s := range spans {
				if s.Class == tt.wantClass && s.Text == tt.wantText {
					found = true
					assert.Equal(t, tt.wantText, tt.text[s.Start:s.End])
				}
			}
			assert.True(t, found, "want %s span %q in %v", tt.wantClass, tt.wantText, spans)
		})
	}
}

func TestDetect_NoMatches(t *testing.T) {
	set := MustNewSet()
	assert.Empty(t, set.Detect("nothing sensitive here"))
	assert.Empty(t, set.Detect(""))
}

func TestDetect_AccountGuardAfterPlus(t *testing.T) {
	set := MustNewSet()

	// a contiguous digit run directly after '+' is country-code territory,
	// not an account number
	spans := set.DetectClass("+919876543210", entity.Account)
	assert.Empty(t, spans)

	spans = set.DetectClass("account 9876543210123", entity.Account)
	require.Len(t, spans, 1)
	assert.Equal(t, "9876543210123", spans[0].Text)
}

func TestDetect_PhoneGuardBeforeDigit(t *testing.T) {
	set := MustNewSet()

	// a grouped shape must not cut a longer digit run short: no accepted
	// phone span may end immediately before another digit
	text := "call +1 555-123-45678 maybe"
	for _, s := range set.DetectClass(text, entity.Phone) {
		assert.NotEqual(t, "+1 555-123-4567", s.Text)
		if s.End < len(text) {
			c := text[s.End]
			assert.False(t, c >= '0' && c <= '9', "span %q ends before digit %q", s.Text, c)
		}
	}

	// the exact shape still matches when properly delimited
	spans := set.DetectClass("call +1 555-123-4567 now", entity.Phone)
	require.NotEmpty(t, spans)
	assert.Equal(t, "+1 555-123-4567", spans[0].Text)
}

func TestDetectClass_OnlyRequestedClass(t *testing.T) {
	set := MustNewSet()
	spans := set.DetectClass("mail a@b.co and call 555-123-4567", entity.Email)
	require.Len(t, spans, 1)
	assert.Equal(t, entity.Email, spans[0].Class)
}

func TestNameCandidates(t *testing.T) {
	set := MustNewSet()

	// two-word capitalized sequences are candidates
	spans := set.NameCandidates("spoke with Priya Sharma about it")
	require.Len(t, spans, 1)
	assert.Equal(t, "Priya Sharma", spans[0].Text)
	assert.Equal(t, entity.Person, spans[0].Class)

	// single capitalized words are not
	assert.Empty(t, set.NameCandidates("spoke with Priya about it"))

	// stop words suppress the candidate
	assert.Empty(t, set.NameCandidates("near the United States border"))
}

func TestDetect_PriorityOrderStable(t *testing.T) {
	set := MustNewSet()
	text := "pan ABCDE1234F mail a@b.co"
	spans := set.Detect(text)
	require.GreaterOrEqual(t, len(spans), 2)
	// recognizer order, not text order: PAN precedes EMAIL in the chain
	assert.Equal(t, []entity.Class{entity.PAN, entity.Email}, classesOf(spans)[:2])
}

func TestWithPatternFile_Overrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "patterns.yaml")
	yaml := `
recognizers:
  - name: employee_id
    entity: GENERIC_ID
    patterns:
      - name: emp
        regex: '\bEMP-[0-9]{5}\b'
  - name: url
    entity: URL
    enabled: false
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	set, err := NewSet(WithPatternFile(path))
	require.NoError(t, err)

	spans := set.Detect("badge EMP-12345 issued")
	require.Len(t, spans, 1)
	assert.Equal(t, entity.GenericID, spans[0].Class)

	// the disabled override removes the built-in URL recognizer
	assert.Empty(t, set.Detect("see https://example.com now"))
}

func TestWithPatternFile_Missing(t *testing.T) {
	set, err := NewSet(WithPatternFile(filepath.Join(t.TempDir(), "absent.yaml")))
	require.NoError(t, err)
	assert.NotEmpty(t, set.Detect("a@b.co"))
}

func TestNewSet_BadRegexFails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
recognizers:
  - name: broken
    entity: EMAIL
    patterns:
      - name: oops
        regex: '(['
`), 0o600))

	_, err := NewSet(WithPatternFile(path))
	require.Error(t, err)
}
