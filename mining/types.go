package mining

import "encoding/json"

// Section is a single parsed corpus line. SectionID is a corpus-global,
// strictly increasing sequence; DocID increments on every title line and is
// -1 for any section seen before the first title.
type Section struct {
	DocID     int    `json:"docId"`
	SectionID int    `json:"sectionId"`
	Text      string `json:"text"`
	IsTitle   bool   `json:"title"`
}

// ExplicitMention records one annotated feature occurrence on a body line.
// IsExplicit is false when the annotation carried the implicit-use marker.
type ExplicitMention struct {
	DocID      int    `json:"docId"`
	SectionID  int    `json:"sectionId"`
	Feature    string `json:"feature"`
	IsExplicit bool   `json:"isExplicit"`
}

// Corpus bundles the outputs of a single annotated-file parse.
type Corpus struct {
	Sections []Section
	Mentions []ExplicitMention
	// FeatureFrequency counts how many annotation entries named each
	// feature string across the whole corpus.
	FeatureFrequency map[string]int
}

// FeatureTerm maps one literal feature string to its ids. TermID is unique
// per literal string; FeatureID is shared across the synonyms of a group.
type FeatureTerm struct {
	TermID    int    `json:"featureTermId"`
	FeatureID int    `json:"featureId"`
	Term      string `json:"feature"`
}

// FeatureSpec is the normalized feature/synonym table produced by
// NormalizeFeatures. Feature ids form a dense 0-based range in input order.
type FeatureSpec struct {
	Terms []FeatureTerm
}

// FeatureCount returns the number of distinct feature ids.
func (s *FeatureSpec) FeatureCount() int {
	max := -1
	for _, t := range s.Terms {
		if t.FeatureID > max {
			max = t.FeatureID
		}
	}
	return max + 1
}

// TermsOf returns the literal strings registered for a feature id.
func (s *FeatureSpec) TermsOf(featureID int) []string {
	var out []string
	for _, t := range s.Terms {
		if t.FeatureID == featureID {
			out = append(out, t.Term)
		}
	}
	return out
}

// Name returns a printable label for a feature id: its first term, or "" if
// the id has no terms.
func (s *FeatureSpec) Name(featureID int) string {
	for _, t := range s.Terms {
		if t.FeatureID == featureID {
			return t.Term
		}
	}
	return ""
}

// Config aggregates runtime settings persisted to config.json.
type Config struct {
	// MaxSections bounds how many corpus lines are parsed; 0 means all.
	MaxSections int `json:"maxSections"`
	// TokenizerPath optionally points at a pretrained tokenizer.json file.
	// When empty the built-in word tokenizer is used.
	TokenizerPath string `json:"tokenizerPath"`

	MaxIterations int     `json:"maxIterations"`
	Tolerance     float64 `json:"tolerance"`
	ProbFloor     float64 `json:"probFloor"`

	SectionThreshold float64 `json:"sectionThreshold"`
	WordThreshold    float64 `json:"wordThreshold"`
}

// Clone creates a deep copy of the configuration so callers can mutate safely.
func (c Config) Clone() Config {
	buf, _ := json.Marshal(c)
	var out Config
	_ = json.Unmarshal(buf, &out)
	return out
}

// ApplyDefaults populates zero values with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.MaxIterations <= 0 {
		c.MaxIterations = 50
	}
	if c.Tolerance == 0 {
		c.Tolerance = 1e-6
	}
	if c.SectionThreshold == 0 {
		c.SectionThreshold = 0.35
	}
	if c.WordThreshold == 0 {
		c.WordThreshold = 0.35
	}
}
