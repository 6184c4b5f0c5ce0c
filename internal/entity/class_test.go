package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassString_AllClassesNamed(t *testing.T) {
	for _, c := range Classes() {
		assert.NotEqual(t, "UNKNOWN", c.String())
	}
}

func TestClassPrefix(t *testing.T) {
	assert.Equal(t, "ACC", Account.Prefix())
	assert.Equal(t, "ID", GenericID.Prefix())
	assert.Equal(t, "PERSON", Person.Prefix())
	assert.Equal(t, "EMAIL", Email.Prefix())
}

func TestClassWeight(t *testing.T) {
	tests := []struct {
		class Class
		want  int
	}{
		{Email, 20},
		{Phone, 20},
		{GenericID, 25},
		{Person, 15},
		{Org, 10},
		{Location, 10},
		{Money, 18},
		{Date, 6},
		{Time, 4},
		{Number, 5},
		{Group, 8},
		{PAN, DefaultWeight},
		{Aadhaar, DefaultWeight},
		{Card, DefaultWeight},
		{Account, DefaultWeight},
		{SSN, DefaultWeight},
		{IP, DefaultWeight},
		{URL, DefaultWeight},
		{Currency, DefaultWeight},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.class.Weight(), tt.class.String())
	}
}

func TestParseClass(t *testing.T) {
	for _, c := range Classes() {
		got, ok := ParseClass(c.String())
		require.True(t, ok, c.String())
		assert.Equal(t, c, got)

		got, ok = ParseClass(c.Prefix())
		require.True(t, ok, c.Prefix())
		assert.Equal(t, c, got)
	}

	_, ok := ParseClass("NOT_A_CLASS")
	assert.False(t, ok)
}
