package mining

import (
	"errors"
	"fmt"
	"log"
	"math"
	"sort"

	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/mat"
)

// Vocabulary assigns a stable integer index to every word observed in the
// corpus. Indices are alphabetical so results are reproducible across runs.
type Vocabulary struct {
	words []string
	index map[string]int
}

// NewVocabulary builds a vocabulary from an unordered word set.
func NewVocabulary(words []string) *Vocabulary {
	sorted := make([]string, len(words))
	copy(sorted, words)
	sort.Strings(sorted)
	index := make(map[string]int, len(sorted))
	for i, w := range sorted {
		index[w] = i
	}
	return &Vocabulary{words: sorted, index: index}
}

// Len returns the vocabulary size.
func (v *Vocabulary) Len() int { return len(v.words) }

// Word returns the word at index i.
func (v *Vocabulary) Word(i int) string { return v.words[i] }

// Index returns the index of word, if present.
func (v *Vocabulary) Index(word string) (int, bool) {
	i, ok := v.index[word]
	return i, ok
}

// Words returns the words in index order. The returned slice is shared and
// must not be mutated.
func (v *Vocabulary) Words() []string { return v.words }

// ExplicitModels holds the sufficient statistics consumed by the EM engine:
// the background word model, the per-feature topic models and the sparse
// section-by-vocabulary count matrix. All of it is computed in a single
// pass and held fixed for the duration of EM.
type ExplicitModels struct {
	Spec  *FeatureSpec
	Vocab *Vocabulary

	// Background is the maximum-likelihood unigram distribution over the
	// whole corpus, indexed by vocabulary position.
	Background []float64

	// Topics is the K x V matrix of TF-IDF-normalized feature models. Each
	// row sums to one.
	Topics *mat.Dense

	// Counts is the S x V word-count matrix, one row per section in
	// SectionID order.
	Counts *sparse.CSR

	// SectionFeatures maps a section id to the feature ids explicitly
	// found in it via term membership.
	SectionFeatures map[int][]int

	// SectionCount is the number of sections S.
	SectionCount int
}

// FeatureCount returns K, the number of feature topics.
func (m *ExplicitModels) FeatureCount() int {
	r, _ := m.Topics.Dims()
	return r
}

// BuildExplicitModels tokenizes every section through the injected
// tokenizer, accumulates corpus-wide and per-feature word statistics and
// computes the background and topic models.
//
// Feature matching is an indexed lookup: each section's distinct tokens are
// probed against a term-to-feature inverted index built once from the spec,
// so a synonym hit costs O(tokens) per section regardless of how many
// features exist. Duplicate synonym hits within one section count once.
//
// A feature that never co-occurs with any section would make the TF-IDF
// normalization degenerate; its topic row falls back to the background
// model and a diagnostic is logged. An entirely empty vocabulary returns
// ErrEmptyVocabulary.
func BuildExplicitModels(corpus *Corpus, spec *FeatureSpec, tok Tokenizer, logger *log.Logger) (*ExplicitModels, error) {
	if corpus == nil || len(corpus.Sections) == 0 {
		return nil, errors.New("mining: corpus has no sections")
	}
	if tok == nil {
		return nil, errors.New("mining: tokenizer is required")
	}
	featureCount := spec.FeatureCount()
	if featureCount == 0 {
		return nil, errors.New("mining: feature spec has no features")
	}

	// Inverted index: term -> feature ids carrying that term.
	termFeatures := make(map[string][]int, len(spec.Terms))
	for _, t := range spec.Terms {
		termFeatures[t.Term] = append(termFeatures[t.Term], t.FeatureID)
	}

	sectionCounts := make([]map[string]int, len(corpus.Sections))
	corpusCounts := make(map[string]int)
	sectionsWith := make(map[string]int) // document frequency
	featureWordCounts := make([]map[string]int, featureCount)
	sectionFeatures := make(map[int][]int)
	totalWords := 0

	for i, section := range corpus.Sections {
		tokens, err := tok.Tokenize(section.Text)
		if err != nil {
			return nil, fmt.Errorf("tokenize section %d: %w", section.SectionID, err)
		}
		counts := make(map[string]int)
		for _, t := range tokens {
			if t.IsStopword || t.IsPunct {
				continue
			}
			counts[t.Lemma]++
			totalWords++
		}
		sectionCounts[i] = counts
		for word, c := range counts {
			corpusCounts[word] += c
			sectionsWith[word]++
		}

		// Explicit feature detection by term membership in the token set.
		// The first synonym hit claims the feature for this section.
		found := make(map[int]bool)
		for word := range counts {
			for _, featureID := range termFeatures[word] {
				if found[featureID] {
					continue
				}
				found[featureID] = true
				sectionFeatures[section.SectionID] = append(sectionFeatures[section.SectionID], featureID)
				if featureWordCounts[featureID] == nil {
					featureWordCounts[featureID] = make(map[string]int)
				}
				// Each distinct section word counts once per feature hit.
				for w := range counts {
					featureWordCounts[featureID][w]++
				}
			}
		}
	}

	if totalWords == 0 {
		return nil, fmt.Errorf("build models: %w", ErrEmptyVocabulary)
	}

	words := make([]string, 0, len(corpusCounts))
	for w := range corpusCounts {
		words = append(words, w)
	}
	vocab := NewVocabulary(words)
	vocabSize := vocab.Len()

	background := make([]float64, vocabSize)
	for j, w := range vocab.Words() {
		background[j] = float64(corpusCounts[w]) / float64(totalWords)
	}

	sectionTotal := float64(len(corpus.Sections))
	topics := mat.NewDense(featureCount, vocabSize, nil)
	for k := 0; k < featureCount; k++ {
		if len(featureWordCounts[k]) == 0 {
			logf(logger, "feature %d (%q) has no explicit mention sections; using background model", k, spec.Name(k))
			topics.SetRow(k, background)
			continue
		}
		row := make([]float64, vocabSize)
		norm := 0.0
		for j, w := range vocab.Words() {
			// log2-scaled term frequency times log2-scaled inverse section
			// frequency, plus the additive smoothing constant of 1.
			tfidf := math.Log2(1+float64(featureWordCounts[k][w]))*
				math.Log2(1+sectionTotal/float64(sectionsWith[w])) + 1
			row[j] = tfidf
			norm += tfidf
		}
		for j := range row {
			row[j] /= norm
		}
		topics.SetRow(k, row)
	}

	dok := sparse.NewDOK(len(corpus.Sections), vocabSize)
	for i, counts := range sectionCounts {
		for w, c := range counts {
			j, ok := vocab.Index(w)
			if !ok {
				continue
			}
			dok.Set(i, j, float64(c))
		}
	}

	for id := range sectionFeatures {
		sort.Ints(sectionFeatures[id])
	}

	return &ExplicitModels{
		Spec:            spec,
		Vocab:           vocab,
		Background:      background,
		Topics:          topics,
		Counts:          dok.ToCSR(),
		SectionFeatures: sectionFeatures,
		SectionCount:    len(corpus.Sections),
	}, nil
}

func logf(logger *log.Logger, format string, args ...any) {
	if logger != nil {
		logger.Printf(format, args...)
	}
}
