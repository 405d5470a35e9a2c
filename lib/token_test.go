package lib

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRandomToken(t *testing.T) {
	a, err := GenerateRandomToken()
	require.NoError(t, err)
	b, err := GenerateRandomToken()
	require.NoError(t, err)

	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}

func TestGenerateSKU(t *testing.T) {
	sku, err := GenerateSKU("Garden Trowel", 6)
	require.NoError(t, err)

	parts := strings.SplitN(sku, "-", 2)
	require.Len(t, parts, 2)
	assert.Equal(t, "GAR", parts[0])
	assert.Len(t, parts[1], 6)
}

func TestGenerateSKUShortName(t *testing.T) {
	sku, err := GenerateSKU("ab", 4)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(sku, "AB-"))
}

func TestGenerateSKUStripsNonAlphanumerics(t *testing.T) {
	sku, err := GenerateSKU("  *é-light bulb", 6)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(sku, "LIG-"))
}

func TestGenerateSKUFallbackPrefix(t *testing.T) {
	sku, err := GenerateSKU("---", 6)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(sku, "SKU-"))
}
