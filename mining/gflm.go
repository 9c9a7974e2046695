package mining

import (
	"errors"
	"sort"
)

// GFLMOptions holds the decision thresholds for implicit-mention tagging.
type GFLMOptions struct {
	SectionThreshold float64
	WordThreshold    float64
}

// DefaultGFLMOptions returns the standard thresholds.
func DefaultGFLMOptions() GFLMOptions {
	return GFLMOptions{SectionThreshold: 0.35, WordThreshold: 0.35}
}

// GFLMTag scores one (section, feature) pair for implicit presence.
type GFLMTag struct {
	SectionID int     `json:"sectionId"`
	FeatureID int     `json:"implicitFeatureId"`
	Score     float64 `json:"score"`
}

// GFLMResult carries the section- and word-level tag tables, both the full
// score tables and the thresholded views. Ordering is deterministic:
// feature id, then section id.
type GFLMResult struct {
	Section    []GFLMTag
	SectionAll []GFLMTag
	Word       []GFLMTag
	WordAll    []GFLMTag
}

// ComputeGFLMSection scores every (section, feature) pair with its
// converged mixture weight and keeps pairs at or above the threshold.
func ComputeGFLMSection(res *EMResult, opts GFLMOptions) (*GFLMResult, error) {
	if res == nil || res.Pi == nil {
		return nil, errors.New("mining: EM result is required")
	}
	sections, components := res.Pi.Dims()
	features := components - 1
	out := &GFLMResult{}
	for k := 0; k < features; k++ {
		for s := 0; s < sections; s++ {
			tag := GFLMTag{SectionID: s, FeatureID: k, Score: res.Pi.At(s, k)}
			out.SectionAll = append(out.SectionAll, tag)
			if tag.Score >= opts.SectionThreshold {
				out.Section = append(out.Section, tag)
			}
		}
	}
	return out, nil
}

// ComputeGFLMWord scores each (section, feature) pair with the strongest
// single-word evidence: max over words of the feature responsibility damped
// by how much the background claims that word. Requires an EM run with
// KeepHidden set.
func ComputeGFLMWord(res *EMResult, opts GFLMOptions) (*GFLMResult, error) {
	if res == nil || res.Pi == nil {
		return nil, errors.New("mining: EM result is required")
	}
	if res.HiddenFeatures == nil || res.HiddenBackground == nil {
		return nil, ErrNoHiddenParameters
	}
	sections, _ := res.Pi.Dims()
	out := &GFLMResult{}
	for k, hidden := range res.HiddenFeatures {
		best := make([]float64, sections)
		hidden.DoNonZero(func(s, j int, v float64) {
			score := v * (1 - res.HiddenBackground.At(s, j))
			if score > best[s] {
				best[s] = score
			}
		})
		for s := 0; s < sections; s++ {
			tag := GFLMTag{SectionID: s, FeatureID: k, Score: best[s]}
			out.WordAll = append(out.WordAll, tag)
			if tag.Score >= opts.WordThreshold {
				out.Word = append(out.Word, tag)
			}
		}
	}
	return out, nil
}

// ComputeGFLM runs both the section- and word-level taggers and merges
// their tables into one result.
func ComputeGFLM(res *EMResult, opts GFLMOptions) (*GFLMResult, error) {
	section, err := ComputeGFLMSection(res, opts)
	if err != nil {
		return nil, err
	}
	word, err := ComputeGFLMWord(res, opts)
	if err != nil {
		return nil, err
	}
	out := &GFLMResult{
		Section:    section.Section,
		SectionAll: section.SectionAll,
		Word:       word.Word,
		WordAll:    word.WordAll,
	}
	sortTags(out.Section)
	sortTags(out.SectionAll)
	sortTags(out.Word)
	sortTags(out.WordAll)
	return out, nil
}

func sortTags(tags []GFLMTag) {
	sort.Slice(tags, func(i, j int) bool {
		if tags[i].FeatureID != tags[j].FeatureID {
			return tags[i].FeatureID < tags[j].FeatureID
		}
		return tags[i].SectionID < tags[j].SectionID
	})
}
