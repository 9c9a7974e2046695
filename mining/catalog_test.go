package mining_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"featuremine/mining"
)

// TestNormalizeFeatures_SynonymGrouping verifies the id assignment for the
// canonical ["a", ["b", "c"]] input: synonyms share a feature id while
// every literal keeps its own term id.
func TestNormalizeFeatures_SynonymGrouping(t *testing.T) {
	spec, err := mining.NormalizeFeatures([]mining.FeatureEntry{
		mining.Feature("a"),
		mining.Synonyms("b", "c"),
	})
	require.NoError(t, err)

	require.Len(t, spec.Terms, 3)
	assert.Equal(t, mining.FeatureTerm{TermID: 0, FeatureID: 0, Term: "a"}, spec.Terms[0])
	assert.Equal(t, mining.FeatureTerm{TermID: 1, FeatureID: 1, Term: "b"}, spec.Terms[1])
	assert.Equal(t, mining.FeatureTerm{TermID: 2, FeatureID: 1, Term: "c"}, spec.Terms[2])
	assert.Equal(t, 2, spec.FeatureCount())
	assert.Equal(t, []string{"b", "c"}, spec.TermsOf(1))
	assert.Equal(t, "b", spec.Name(1))
}

func TestNormalizeFeatures_UniqueTermIDs(t *testing.T) {
	spec, err := mining.NormalizeFeatures([]mining.FeatureEntry{
		mining.Feature("sound"),
		mining.Feature("battery"),
		mining.Synonyms("screen", "display"),
	})
	require.NoError(t, err)

	seen := make(map[int]bool)
	for _, term := range spec.Terms {
		assert.False(t, seen[term.TermID], "term id %d assigned twice", term.TermID)
		seen[term.TermID] = true
	}
	assert.Equal(t, 3, spec.FeatureCount())
}

func TestNormalizeFeatures_RejectsEmptyEntry(t *testing.T) {
	_, err := mining.NormalizeFeatures([]mining.FeatureEntry{
		mining.Feature("a"),
		{},
	})
	var specErr *mining.InvalidFeatureSpecError
	require.ErrorAs(t, err, &specErr)
}

func TestFeatureEntriesFromJSON(t *testing.T) {
	entries, err := mining.FeatureEntriesFromJSON([]byte(`["sound", "battery", ["screen", "display"]]`))
	require.NoError(t, err)
	spec, err := mining.NormalizeFeatures(entries)
	require.NoError(t, err)

	require.Len(t, spec.Terms, 4)
	assert.Equal(t, 2, spec.Terms[2].FeatureID)
	assert.Equal(t, 2, spec.Terms[3].FeatureID)
	assert.Equal(t, 3, spec.Terms[3].TermID)
}

func TestFeatureEntriesFromJSON_MalformedEntries(t *testing.T) {
	_, err := mining.FeatureEntriesFromJSON([]byte(`["a", 5]`))
	var specErr *mining.InvalidFeatureSpecError
	require.ErrorAs(t, err, &specErr)
	assert.Equal(t, "5", specErr.Entry)
	assert.Empty(t, specErr.Parent)

	_, err = mining.FeatureEntriesFromJSON([]byte(`[["a", 5]]`))
	require.ErrorAs(t, err, &specErr)
	assert.Equal(t, "5", specErr.Entry)
	assert.NotEmpty(t, specErr.Parent)

	_, err = mining.FeatureEntriesFromJSON([]byte(`not json`))
	require.Error(t, err)
}
