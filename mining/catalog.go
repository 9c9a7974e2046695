package mining

import (
	"encoding/json"
	"fmt"
)

// FeatureEntry is one element of a feature list: either a standalone
// feature or a group of synonyms that share a feature id.
type FeatureEntry struct {
	single string
	group  []string
	isOne  bool
}

// Feature declares a standalone feature with its own id.
func Feature(name string) FeatureEntry {
	return FeatureEntry{single: name, isOne: true}
}

// Synonyms declares a group of terms that share one feature id. Each term
// still receives its own unique term id.
func Synonyms(names ...string) FeatureEntry {
	return FeatureEntry{group: names}
}

// NormalizeFeatures converts a feature list into a FeatureSpec. Ids are
// assigned 0-based in input order: each entry consumes one feature id and
// each literal string one term id. Term strings are recorded verbatim; the
// caller is expected to case-normalize them to match tokenizer output.
func NormalizeFeatures(entries []FeatureEntry) (*FeatureSpec, error) {
	spec := &FeatureSpec{}
	termID := 0
	for featureID, entry := range entries {
		if !entry.isOne && entry.group == nil {
			return nil, &InvalidFeatureSpecError{Entry: fmt.Sprintf("#%d", featureID)}
		}
		if entry.isOne {
			spec.Terms = append(spec.Terms, FeatureTerm{
				TermID:    termID,
				FeatureID: featureID,
				Term:      entry.single,
			})
			termID++
			continue
		}
		for _, name := range entry.group {
			spec.Terms = append(spec.Terms, FeatureTerm{
				TermID:    termID,
				FeatureID: featureID,
				Term:      name,
			})
			termID++
		}
	}
	return spec, nil
}

// FeatureEntriesFromJSON decodes the external feature list format: a JSON
// array whose elements are either strings or arrays of strings, e.g.
// ["sound", "battery", ["screen", "display"]]. Anything else yields an
// InvalidFeatureSpecError identifying the offending element.
func FeatureEntriesFromJSON(data []byte) ([]FeatureEntry, error) {
	var raw []any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode feature list: %w", err)
	}
	entries := make([]FeatureEntry, 0, len(raw))
	for _, elem := range raw {
		switch v := elem.(type) {
		case string:
			entries = append(entries, Feature(v))
		case []any:
			names := make([]string, 0, len(v))
			for _, inner := range v {
				s, ok := inner.(string)
				if !ok {
					return nil, &InvalidFeatureSpecError{
						Entry:  fmt.Sprint(inner),
						Parent: fmt.Sprint(v),
					}
				}
				names = append(names, s)
			}
			entries = append(entries, Synonyms(names...))
		default:
			return nil, &InvalidFeatureSpecError{Entry: fmt.Sprint(elem)}
		}
	}
	return entries, nil
}
