package mining_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"featuremine/mining"
)

func TestNormalizeText(t *testing.T) {
	assert.Equal(t, "ABC 123", mining.NormalizeText("ＡＢＣ　１２３"), "NFKC folds full-width forms")
	assert.Equal(t, "hello", mining.NormalizeText("  hello \r"))
	assert.Equal(t, "ab", mining.NormalizeText("a\x00b"), "control characters are stripped")
	assert.Equal(t, "a\tb", mining.NormalizeText("a\tb"), "tabs survive")
}
