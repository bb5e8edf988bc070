package qr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRequiresMerchantID(t *testing.T) {
	g := NewPaymentGenerator(Config{})

	assert.False(t, g.Configured())

	_, err := g.Generate(10000, "KZT")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestGeneratePayload(t *testing.T) {
	g := NewPaymentGenerator(Config{MerchantID: "m-42", ServiceURL: "https://pay.test.kz/qr"})

	require.True(t, g.Configured())

	payload, err := g.Generate(10000, "KZT")
	require.NoError(t, err)

	assert.NotEmpty(t, payload.Reference)
	assert.Contains(t, payload.QRCode, "https://pay.test.kz/qr")
	assert.Contains(t, payload.QRCode, "merchant=m-42")
	assert.Contains(t, payload.QRCode, "amount=10000.00")
	assert.Contains(t, payload.QRCode, "currency=KZT")
	assert.Contains(t, payload.QRCode, payload.Reference)
}

func TestGenerateUniqueReferences(t *testing.T) {
	g := NewPaymentGenerator(Config{MerchantID: "m-42"})

	first, err := g.Generate(3000, "KZT")
	require.NoError(t, err)
	second, err := g.Generate(3000, "KZT")
	require.NoError(t, err)

	assert.NotEqual(t, first.Reference, second.Reference)
}
