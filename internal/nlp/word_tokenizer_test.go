package nlp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"featuremine/mining"
)

func TestIsStopword(t *testing.T) {
	assert.True(t, IsStopword("the"))
	assert.True(t, IsStopword("The"))
	assert.False(t, IsStopword("battery"))
}

func TestWordTokenizer_Tokenize(t *testing.T) {
	tok, err := NewWordTokenizer()
	require.NoError(t, err)

	tokens, err := tok.Tokenize("The batteries drained quickly.")
	require.NoError(t, err)
	require.NotEmpty(t, tokens)

	byLemma := make(map[string]mining.Token)
	for _, token := range tokens {
		byLemma[token.Lemma] = token
	}

	the, ok := byLemma["the"]
	require.True(t, ok)
	assert.True(t, the.IsStopword)

	battery, ok := byLemma["battery"]
	require.True(t, ok, "plural should lemmatize to the singular")
	assert.False(t, battery.IsStopword)
	assert.False(t, battery.IsPunct)

	period, ok := byLemma["."]
	require.True(t, ok)
	assert.True(t, period.IsPunct)
}

func TestWordTokenizer_EmptyText(t *testing.T) {
	tok, err := NewWordTokenizer()
	require.NoError(t, err)

	tokens, err := tok.Tokenize("   ")
	require.NoError(t, err)
	assert.Empty(t, tokens)
}
