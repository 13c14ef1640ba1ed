package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUPIHint(t *testing.T) {
	hint := ParseUPIHint("upi://pay?pa=hospital@upi&pn=City%20Hospital&am=700.00&cu=INR")

	require.NotNil(t, hint)
	assert.Equal(t, 700.0, hint.Amount)
	assert.Equal(t, "INR", hint.Currency)
	assert.Equal(t, "City Hospital", hint.Payee)
}

func TestParseUPIHintNoAmount(t *testing.T) {
	hint := ParseUPIHint("upi://pay?pa=hospital@upi&pn=City%20Hospital")

	require.NotNil(t, hint)
	assert.Zero(t, hint.Amount)
	assert.Equal(t, "City Hospital", hint.Payee)
}

func TestParseUPIHintNonUPIPayload(t *testing.T) {
	assert.Nil(t, ParseUPIHint("https://example.com/invoice/123"))
	assert.Nil(t, ParseUPIHint("plain text qr"))
}
