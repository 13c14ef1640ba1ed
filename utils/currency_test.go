package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectCurrency(t *testing.T) {
	tests := []struct {
		name string
		text string
		code string
	}{
		{"rupee symbol", "Total ₹1200", "INR"},
		{"rs prefix", "Total Rs. 1200", "INR"},
		{"dollar", "Total $120", "USD"},
		{"euro word", "120 euro", "EUR"},
		{"pound", "Total £120", "GBP"},
		{"dirham", "120 AED", "AED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			detection := DetectCurrency(tt.text)
			assert.Equal(t, tt.code, detection.Code)
			assert.Greater(t, detection.Confidence, 0.6)
		})
	}
}

func TestDetectCurrencyDefault(t *testing.T) {
	detection := DetectCurrency("Total 1200 Paid 500")

	assert.Equal(t, "INR", detection.Code)
	assert.Empty(t, detection.Symbol)
	assert.Equal(t, 0.6, detection.Confidence)
}
