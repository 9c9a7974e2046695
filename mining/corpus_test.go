package mining_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"featuremine/mining"
)

const sampleCorpus = `[t]iPod Review
sound[@]3##The sound is excellent!
battery[@]2[u],sound##battery lasts long, sound is ok
*Another Review
##no annotations here
`

func TestParseCorpus_Sections(t *testing.T) {
	corpus, err := mining.ParseCorpus(strings.NewReader(sampleCorpus), mining.CorpusOptions{})
	require.NoError(t, err)

	require.Len(t, corpus.Sections, 5)
	for i, section := range corpus.Sections {
		assert.Equal(t, i, section.SectionID, "section ids must be corpus-global and strictly increasing")
	}

	assert.Equal(t, mining.Section{DocID: 0, SectionID: 0, Text: "ipod review", IsTitle: true}, corpus.Sections[0])
	assert.Equal(t, 0, corpus.Sections[1].DocID)
	assert.False(t, corpus.Sections[1].IsTitle)
	assert.Equal(t, "the sound is excellent!", corpus.Sections[1].Text)

	// "*" is the alternate title marker and starts a new document.
	assert.Equal(t, mining.Section{DocID: 1, SectionID: 3, Text: "another review", IsTitle: true}, corpus.Sections[3])
	assert.Equal(t, 1, corpus.Sections[4].DocID)
}

func TestParseCorpus_Mentions(t *testing.T) {
	corpus, err := mining.ParseCorpus(strings.NewReader(sampleCorpus), mining.CorpusOptions{})
	require.NoError(t, err)

	require.Len(t, corpus.Mentions, 3)
	assert.Equal(t, mining.ExplicitMention{DocID: 0, SectionID: 1, Feature: "sound", IsExplicit: true}, corpus.Mentions[0])
	// The [@] polarity suffix is discarded and [u] marks the implicit use.
	assert.Equal(t, mining.ExplicitMention{DocID: 0, SectionID: 2, Feature: "battery", IsExplicit: false}, corpus.Mentions[1])
	assert.Equal(t, mining.ExplicitMention{DocID: 0, SectionID: 2, Feature: "sound", IsExplicit: true}, corpus.Mentions[2])

	assert.Equal(t, map[string]int{"sound": 2, "battery": 1}, corpus.FeatureFrequency)
}

func TestParseCorpus_TitleLinesSkipAnnotations(t *testing.T) {
	corpus, err := mining.ParseCorpus(strings.NewReader("sound[t]Great Player\n"), mining.CorpusOptions{})
	require.NoError(t, err)
	assert.Empty(t, corpus.Mentions)
	require.Len(t, corpus.Sections, 1)
	assert.True(t, corpus.Sections[0].IsTitle)
	assert.Equal(t, "great player", corpus.Sections[0].Text)
}

func TestParseCorpus_EmptyAnnotationList(t *testing.T) {
	corpus, err := mining.ParseCorpus(strings.NewReader("##just text\n"), mining.CorpusOptions{})
	require.NoError(t, err)
	assert.Empty(t, corpus.Mentions)
	assert.Equal(t, "just text", corpus.Sections[0].Text)
	// Sections before the first title keep doc id -1.
	assert.Equal(t, -1, corpus.Sections[0].DocID)
}

func TestParseCorpus_MaxSections(t *testing.T) {
	corpus, err := mining.ParseCorpus(strings.NewReader(sampleCorpus), mining.CorpusOptions{MaxSections: 2})
	require.NoError(t, err)
	require.Len(t, corpus.Sections, 2)
	assert.Equal(t, 1, corpus.Sections[1].SectionID)
}

func TestParseCorpus_MalformedBodyLine(t *testing.T) {
	input := "[t]Title\nthis body line has no delimiter\n"
	_, err := mining.ParseCorpus(strings.NewReader(input), mining.CorpusOptions{})

	var lineErr *mining.MalformedLineError
	require.ErrorAs(t, err, &lineErr)
	assert.Equal(t, 2, lineErr.Line)
}

func TestParseCorpusFile_Missing(t *testing.T) {
	_, err := mining.ParseCorpusFile("does/not/exist.final", mining.CorpusOptions{})
	require.Error(t, err)
}
