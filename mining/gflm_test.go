package mining_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"featuremine/mining"
)

func runFixtureEM(t *testing.T, keepHidden bool) *mining.EMResult {
	t.Helper()
	fx, err := mining.LoadEMFixture("testdata/em_01")
	require.NoError(t, err)
	opts := fx.Options
	opts.KeepHidden = keepHidden
	engine, err := mining.NewEMEngine(fx.Models, opts)
	require.NoError(t, err)
	res, err := engine.Run()
	require.NoError(t, err)
	return res
}

func TestComputeGFLMSection(t *testing.T) {
	res := runFixtureEM(t, false)

	tags, err := mining.ComputeGFLMSection(res, mining.DefaultGFLMOptions())
	require.NoError(t, err)

	// Two features over three sections: six scored pairs in total.
	assert.Len(t, tags.SectionAll, 6)

	// Only the sections that explicitly carry a feature term clear the
	// 0.35 threshold after one iteration: section 1 for feature 0 and
	// section 2 for feature 1.
	require.Len(t, tags.Section, 2)
	assert.Equal(t, 1, tags.Section[0].SectionID)
	assert.Equal(t, 0, tags.Section[0].FeatureID)
	assert.InDelta(t, 0.5294, tags.Section[0].Score, 0.001)
	assert.Equal(t, 2, tags.Section[1].SectionID)
	assert.Equal(t, 1, tags.Section[1].FeatureID)
}

func TestComputeGFLMWord(t *testing.T) {
	res := runFixtureEM(t, true)

	tags, err := mining.ComputeGFLMWord(res, mining.DefaultGFLMOptions())
	require.NoError(t, err)

	assert.Len(t, tags.WordAll, 6)
	require.Len(t, tags.Word, 2)

	// Best word evidence: feature responsibility damped by the background
	// share of the same word, maximized over the section's words.
	assert.Equal(t, mining.GFLMTag{SectionID: 1, FeatureID: 0, Score: tags.Word[0].Score}, tags.Word[0])
	assert.InDelta(t, 0.3737, tags.Word[0].Score, 0.001)
	assert.Equal(t, 2, tags.Word[1].SectionID)
	assert.Equal(t, 1, tags.Word[1].FeatureID)
}

func TestComputeGFLMWord_RequiresHiddenParameters(t *testing.T) {
	res := runFixtureEM(t, false)

	_, err := mining.ComputeGFLMWord(res, mining.DefaultGFLMOptions())
	require.ErrorIs(t, err, mining.ErrNoHiddenParameters)
}

func TestComputeGFLM_Ordering(t *testing.T) {
	res := runFixtureEM(t, true)

	tags, err := mining.ComputeGFLM(res, mining.DefaultGFLMOptions())
	require.NoError(t, err)

	for i := 1; i < len(tags.SectionAll); i++ {
		prev, cur := tags.SectionAll[i-1], tags.SectionAll[i]
		ordered := prev.FeatureID < cur.FeatureID ||
			(prev.FeatureID == cur.FeatureID && prev.SectionID < cur.SectionID)
		assert.True(t, ordered, "tags must be ordered by feature then section")
	}
}

func TestComputeGFLM_ThresholdZeroKeepsEverything(t *testing.T) {
	res := runFixtureEM(t, true)

	tags, err := mining.ComputeGFLM(res, mining.GFLMOptions{})
	require.NoError(t, err)
	assert.Len(t, tags.Section, len(tags.SectionAll))
	assert.Len(t, tags.Word, len(tags.WordAll))
}
