package contextclass

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name         string
		text         string
		wantCategory string
	}{
		{"no keywords", "the weather is nice today", "general"},
		{"medical only", "the patient saw a doctor about the symptom", "medical"},
		{"financial only", "transfer from my bank account for the loan", "financial"},
		{"personal only", "my phone and email are on the passport form", "personal"},
		{"medical dominant over financial", "patient diagnosis at the hospital, pay by card", "medical-financial"},
		{"case insensitive", "PATIENT at the HOSPITAL", "medical"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.text)
			assert.Equal(t, tt.wantCategory, got.Category)
		})
	}
}

func TestClassify_GeneralConfidence(t *testing.T) {
	got := Classify("nothing topical here")
	assert.Equal(t, General, got)
	assert.Equal(t, 0.5, got.Confidence)
}

func TestClassify_ConfidenceBounds(t *testing.T) {
	// single-category hits: share is 1.0, clamped down to 0.95
	got := Classify("doctor patient hospital clinic")
	assert.Equal(t, "medical", got.Category)
	assert.Equal(t, 0.95, got.Confidence)

	// near-even split clamps up to 0.55
	got = Classify("doctor with a bank account and loan")
	assert.GreaterOrEqual(t, got.Confidence, 0.55)
	assert.LessOrEqual(t, got.Confidence, 0.95)
}

func TestClassify_TieBreakIsDeclarationOrder(t *testing.T) {
	// one medical hit, one financial hit: medical is declared first
	got := Classify("the doctor sent an invoice")
	assert.Equal(t, "medical-financial", got.Category)
}
