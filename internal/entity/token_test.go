package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToken_Format(t *testing.T) {
	assert.Equal(t, "[[PERSON_1]]", Token(Person, 1))
	assert.Equal(t, "[[EMAIL_2]]", Token(Email, 2))
	assert.Equal(t, "[[ACC_1]]", Token(Account, 1))
	assert.Equal(t, "[[ID_3]]", Token(GenericID, 3))
	assert.NotEqual(t, "[[GENERIC_ID_1]]", Token(GenericID, 1))
}

func TestIsPlaceholder(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"[[PERSON_1]]", true},
		{"[[EMAIL_12]]", true},
		{"[[ACC_1]]", true},
		{"[[person_1]]", false},
		{"[[PERSON_]]", false},
		{"[PERSON_1]", false},
		{"x [[PERSON_1]]", false},
		{"[[PERSON_1]] y", false},
		{"john.doe@example.com", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsPlaceholder(tt.in), tt.in)
	}
}

func TestTokenRE_RoundTrip(t *testing.T) {
	for _, c := range Classes() {
		tok := Token(c, 7)
		m := TokenRE.FindStringSubmatch(tok)
		require.NotNil(t, m, tok)
		assert.Equal(t, c.Prefix(), m[1])
		assert.Equal(t, "7", m[2])
	}
}
