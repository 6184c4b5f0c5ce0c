package fuser

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Pramodsai29/AegisAI/internal/entity"
)

func TestShapeOf(t *testing.T) {
	s := shapeOf("+91 98765 43210")
	assert.Equal(t, 12, s.digits)
	assert.True(t, s.hasSep)
	assert.True(t, s.hasPlus)

	s = shapeOf("1234567890123456")
	assert.Equal(t, 16, s.digits)
	assert.False(t, s.hasSep)
	assert.False(t, s.hasPlus)
}

func TestResolve_Card(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		wantAccept bool
		wantClass  entity.Class
	}{
		{"grouped sixteen is card", "4111 1111 1111 1111", true, entity.Card},
		{"hyphen grouped is card", "4111-1111-1111-1111", true, entity.Card},
		{"contiguous sixteen is account", "4111111111111111", true, entity.Account},
		{"contiguous twelve is account", "123456789012", true, entity.Account},
		{"grouped twelve rejected", "1234 5678 9012", false, 0},
		{"nineteen grouped is card", "1234 5678 9012 3456 789", true, entity.Card},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := resolve(entity.Card, tt.text)
			assert.Equal(t, tt.wantAccept, out.accept)
			if tt.wantAccept {
				assert.Equal(t, tt.wantClass, out.class)
			}
		})
	}
}

func TestResolve_Aadhaar(t *testing.T) {
	out := resolve(entity.Aadhaar, "1234 5678 9012")
	assert.True(t, out.accept)
	assert.Equal(t, entity.Aadhaar, out.class)

	out = resolve(entity.Aadhaar, "1234 5678 901")
	assert.False(t, out.accept)

	out = resolve(entity.Aadhaar, "1234 5678 9012 3")
	assert.False(t, out.accept)
}

func TestResolve_Phone(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		wantAccept bool
	}{
		{"us grouped", "+1 555-123-4567", true},
		{"national grouped", "555-123-4567", true},
		{"bare ten digits", "9876543210", true},
		{"twelve with plus", "+919876543210", true},
		{"twelve without plus is aadhaar shaped", "123456789012", false},
		{"long contiguous falls to account", "1234567890123", false},
		{"too short", "123456789", false},
		{"too long", "1234567890123456", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := resolve(entity.Phone, tt.text)
			assert.Equal(t, tt.wantAccept, out.accept)
			if tt.wantAccept {
				assert.Equal(t, entity.Phone, out.class)
			}
		})
	}
}

func TestResolve_Account(t *testing.T) {
	out := resolve(entity.Account, "1234567890123456")
	assert.True(t, out.accept)
	assert.Equal(t, entity.Account, out.class)

	out = resolve(entity.Account, "1234 5678 9012 3456")
	assert.False(t, out.accept)

	out = resolve(entity.Account, "12345678")
	assert.False(t, out.accept)
}

func TestResolve_GenericID(t *testing.T) {
	out := resolve(entity.GenericID, "1234 5678 9012 3456")
	assert.False(t, out.accept, "nine or more digits belong to the numeric chain")

	out = resolve(entity.GenericID, "1234-5678")
	assert.True(t, out.accept)
	assert.Equal(t, entity.GenericID, out.class)
}

func TestResolve_ClassesAbsentFromTableAcceptedAsIs(t *testing.T) {
	for _, c := range []entity.Class{entity.Email, entity.SSN, entity.PAN, entity.IP, entity.URL, entity.Currency} {
		out := resolve(c, "whatever")
		assert.True(t, out.accept, c.String())
		assert.Equal(t, c, out.class, c.String())
	}
}
