package mining

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/mat"
)

// EMFixture is a precomputed reference scenario for regression testing the
// EM engine against an independent implementation: the frozen model inputs,
// the engine options, and the expected arrays with their 0.001 tolerance.
type EMFixture struct {
	Models  *ExplicitModels
	Options EMOptions

	// Expected values after one full Run with the fixture options.
	HPUpdated  [][]float64 // tracked section responsibilities, V x K
	HPBUpdated []float64   // tracked section background responsibilities, V
	Nom        float64
	Denom      float64
	PIUpdated  []float64 // tracked section's updated mixture row, K+1
}

type emFixtureMeta struct {
	MaxIterations  int     `json:"maxIterations"`
	Tolerance      float64 `json:"tolerance"`
	TrackSection   int     `json:"trackSection"`
	TrackComponent int     `json:"trackComponent"`
}

// LoadEMFixture reads a reference fixture directory. The directory holds
// JSON arrays: the model inputs (words, features, counts, background,
// topics, pi_init, meta) and the expected outputs (HP_updated, HPB_Updated,
// NOM, DENOM, PI_updated).
func LoadEMFixture(dir string) (*EMFixture, error) {
	var (
		meta       emFixtureMeta
		words      []string
		features   []string
		counts     [][]float64
		background []float64
		topics     [][]float64
		piInit     [][]float64
	)
	fx := &EMFixture{}
	files := []struct {
		name string
		dst  any
	}{
		{"meta.json", &meta},
		{"words.json", &words},
		{"features.json", &features},
		{"counts.json", &counts},
		{"background.json", &background},
		{"topics.json", &topics},
		{"pi_init.json", &piInit},
		{"HP_updated.json", &fx.HPUpdated},
		{"HPB_Updated.json", &fx.HPBUpdated},
		{"NOM.json", &fx.Nom},
		{"DENOM.json", &fx.Denom},
		{"PI_updated.json", &fx.PIUpdated},
	}
	for _, f := range files {
		data, err := os.ReadFile(filepath.Join(dir, f.name))
		if err != nil {
			return nil, fmt.Errorf("read fixture %s: %w", f.name, err)
		}
		if err := json.Unmarshal(data, f.dst); err != nil {
			return nil, fmt.Errorf("decode fixture %s: %w", f.name, err)
		}
	}

	if !sort.StringsAreSorted(words) {
		return nil, fmt.Errorf("fixture %s: vocabulary is not sorted", dir)
	}
	vocab := NewVocabulary(words)
	vocabSize := vocab.Len()

	entries := make([]FeatureEntry, len(features))
	for i, name := range features {
		entries[i] = Feature(name)
	}
	spec, err := NormalizeFeatures(entries)
	if err != nil {
		return nil, fmt.Errorf("fixture feature list: %w", err)
	}

	if len(topics) != len(features) {
		return nil, fmt.Errorf("fixture topics: got %d rows, want %d", len(topics), len(features))
	}
	topicMat := mat.NewDense(len(topics), vocabSize, nil)
	for k, row := range topics {
		if len(row) != vocabSize {
			return nil, fmt.Errorf("fixture topics row %d: got %d values, want %d", k, len(row), vocabSize)
		}
		topicMat.SetRow(k, row)
	}

	dok := sparse.NewDOK(len(counts), vocabSize)
	for s, row := range counts {
		if len(row) != vocabSize {
			return nil, fmt.Errorf("fixture counts row %d: got %d values, want %d", s, len(row), vocabSize)
		}
		for j, c := range row {
			if c != 0 {
				dok.Set(s, j, c)
			}
		}
	}

	fx.Models = &ExplicitModels{
		Spec:         spec,
		Vocab:        vocab,
		Background:   background,
		Topics:       topicMat,
		Counts:       dok.ToCSR(),
		SectionCount: len(counts),
	}

	initial := mat.NewDense(len(piInit), len(features)+1, nil)
	for s, row := range piInit {
		initial.SetRow(s, row)
	}
	fx.Options = DefaultEMOptions()
	fx.Options.MaxIterations = meta.MaxIterations
	if meta.Tolerance > 0 {
		fx.Options.Tolerance = meta.Tolerance
	}
	fx.Options.TrackSection = meta.TrackSection
	fx.Options.TrackComponent = meta.TrackComponent
	fx.Options.InitialPi = initial
	return fx, nil
}
