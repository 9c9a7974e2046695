package mining

import (
	"errors"
	"fmt"
	"math"

	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/mat"
)

// EMOptions configures an EM run. The zero value is not usable; start from
// DefaultEMOptions.
type EMOptions struct {
	// MaxIterations bounds the E/M alternation.
	MaxIterations int
	// Tolerance stops iteration once the largest absolute change in the
	// mixture matrix across one iteration falls below it.
	Tolerance float64
	// ProbFloor, when positive, lifts zero model probabilities to this
	// value during the E-step. The default of 0 keeps unseen words at
	// probability zero: a (section, word) pair absent from every model
	// contributes nothing rather than raising.
	ProbFloor float64
	// TrackSection selects the section whose per-word responsibilities are
	// exposed for diagnostics and fixture validation.
	TrackSection int
	// TrackComponent selects the component whose numerator is exposed as
	// the tracked scalar, alongside the tracked section's denominator.
	// Components are ordered feature 0..K-1 then background at index K.
	TrackComponent int
	// InitialPi optionally seeds the mixture matrix with a row-stochastic
	// S x (K+1) prior instead of the uniform initialization.
	InitialPi *mat.Dense
	// KeepHidden retains the full hidden parameter matrices of the final
	// E-step, as required by GFLM word tagging. Costs O(nnz * K) memory.
	KeepHidden bool
}

// DefaultEMOptions returns the standard EM configuration.
func DefaultEMOptions() EMOptions {
	return EMOptions{
		MaxIterations: 50,
		Tolerance:     1e-6,
	}
}

type engineState int

const (
	stateBuilt engineState = iota
	stateIterating
	stateConverged
	stateMaxIterations
)

// EMEngine estimates per-section feature mixture weights against fixed
// background and topic models. The engine is single-use and not safe for
// concurrent callers: one corpus, one run, one instance.
type EMEngine struct {
	models *ExplicitModels
	opts   EMOptions
	state  engineState

	sections   int
	features   int
	components int // features + background

	pi *mat.Dense // sections x components, row-stochastic
}

// NewEMEngine validates the options against the models and prepares the
// initial mixture matrix (uniform unless a prior is supplied).
func NewEMEngine(models *ExplicitModels, opts EMOptions) (*EMEngine, error) {
	if models == nil || models.Counts == nil {
		return nil, errors.New("mining: explicit models are required")
	}
	if opts.MaxIterations <= 0 {
		return nil, errors.New("mining: MaxIterations must be positive")
	}
	if opts.Tolerance < 0 {
		return nil, errors.New("mining: Tolerance must not be negative")
	}
	sections, vocab := models.Counts.Dims()
	features := models.FeatureCount()
	components := features + 1
	if vocab != models.Vocab.Len() {
		return nil, errors.New("mining: counts matrix does not match vocabulary")
	}
	if opts.TrackSection < 0 || opts.TrackSection >= sections {
		return nil, fmt.Errorf("mining: tracked section %d out of range", opts.TrackSection)
	}
	if opts.TrackComponent < 0 || opts.TrackComponent >= components {
		return nil, fmt.Errorf("mining: tracked component %d out of range", opts.TrackComponent)
	}

	pi := mat.NewDense(sections, components, nil)
	if opts.InitialPi != nil {
		r, c := opts.InitialPi.Dims()
		if r != sections || c != components {
			return nil, fmt.Errorf("%w: got %dx%d, want %dx%d", ErrInvalidPrior, r, c, sections, components)
		}
		for s := 0; s < sections; s++ {
			sum := 0.0
			for c := 0; c < components; c++ {
				v := opts.InitialPi.At(s, c)
				if v < 0 {
					return nil, fmt.Errorf("%w: negative weight at row %d", ErrInvalidPrior, s)
				}
				sum += v
			}
			if math.Abs(sum-1) > 1e-9 {
				return nil, fmt.Errorf("%w: row %d sums to %g", ErrInvalidPrior, s, sum)
			}
		}
		pi.Copy(opts.InitialPi)
	} else {
		uniform := 1 / float64(components)
		for s := 0; s < sections; s++ {
			for c := 0; c < components; c++ {
				pi.Set(s, c, uniform)
			}
		}
	}

	return &EMEngine{
		models:     models,
		opts:       opts,
		state:      stateBuilt,
		sections:   sections,
		features:   features,
		components: components,
		pi:         pi,
	}, nil
}

// EMResult is the converged output of one EM run plus the tracked
// diagnostics used for golden-value validation.
type EMResult struct {
	// Pi is the final section x (K+1) mixture matrix; every row with any
	// recognized words sums to one.
	Pi *mat.Dense
	// Iterations is the number of completed E/M alternations.
	Iterations int
	// Converged reports whether the tolerance was met before the
	// iteration bound.
	Converged bool

	// TrackedResponsibilities is the tracked section's V x K matrix of
	// feature-component responsibilities from the final E-step; rows for
	// words absent from the section are zero.
	TrackedResponsibilities *mat.Dense
	// TrackedBackground is the tracked section's background
	// responsibility per vocabulary word.
	TrackedBackground []float64
	// Nom and Denom are the tracked (section, component) M-step scalars.
	Nom   float64
	Denom float64

	// HiddenFeatures and HiddenBackground hold the final E-step hidden
	// parameters for all sections (K matrices of S x V plus one S x V),
	// populated only when EMOptions.KeepHidden is set.
	HiddenFeatures   []*sparse.CSR
	HiddenBackground *sparse.CSR
}

// Run alternates E- and M-steps until convergence or the iteration bound.
// It may be called once; subsequent calls return ErrEngineFinished.
func (e *EMEngine) Run() (*EMResult, error) {
	if e.state != stateBuilt {
		return nil, ErrEngineFinished
	}
	e.state = stateIterating

	vocabSize := e.models.Vocab.Len()
	res := &EMResult{
		TrackedResponsibilities: mat.NewDense(vocabSize, e.features, nil),
		TrackedBackground:       make([]float64, vocabSize),
	}

	var hiddenFeatures []*sparse.DOK
	var hiddenBackground *sparse.DOK

	resp := make([]float64, e.components)
	nom := make([]float64, e.components)

	for iter := 0; iter < e.opts.MaxIterations; iter++ {
		if e.opts.KeepHidden {
			hiddenFeatures = make([]*sparse.DOK, e.features)
			for k := range hiddenFeatures {
				hiddenFeatures[k] = sparse.NewDOK(e.sections, vocabSize)
			}
			hiddenBackground = sparse.NewDOK(e.sections, vocabSize)
		}

		delta := 0.0
		for s := 0; s < e.sections; s++ {
			for c := range nom {
				nom[c] = 0
			}
			tracked := s == e.opts.TrackSection
			if tracked {
				res.TrackedResponsibilities.Zero()
				for j := range res.TrackedBackground {
					res.TrackedBackground[j] = 0
				}
			}

			e.models.Counts.DoRowNonZero(s, func(_, j int, count float64) {
				// E-step for one (section, word) pair.
				sum := 0.0
				for k := 0; k < e.features; k++ {
					p := e.floored(e.models.Topics.At(k, j))
					resp[k] = e.pi.At(s, k) * p
					sum += resp[k]
				}
				pb := e.floored(e.models.Background[j])
				resp[e.features] = e.pi.At(s, e.features) * pb
				sum += resp[e.features]

				if sum > 0 {
					for c := range resp {
						resp[c] /= sum
					}
				} else {
					// Word absent from every model: contributes nothing.
					for c := range resp {
						resp[c] = 0
					}
				}

				for c := range resp {
					nom[c] += count * resp[c]
				}
				if tracked {
					for k := 0; k < e.features; k++ {
						res.TrackedResponsibilities.Set(j, k, resp[k])
					}
					res.TrackedBackground[j] = resp[e.features]
				}
				if e.opts.KeepHidden {
					for k := 0; k < e.features; k++ {
						if resp[k] != 0 {
							hiddenFeatures[k].Set(s, j, resp[k])
						}
					}
					if resp[e.features] != 0 {
						hiddenBackground.Set(s, j, resp[e.features])
					}
				}
			})

			// M-step for the section: re-normalize the weighted word mass.
			denom := 0.0
			for _, v := range nom {
				denom += v
			}
			if tracked {
				res.Nom = nom[e.opts.TrackComponent]
				res.Denom = denom
			}
			if denom == 0 {
				// Section with no recognized words keeps its previous row.
				continue
			}
			for c := 0; c < e.components; c++ {
				next := nom[c] / denom
				if d := math.Abs(next - e.pi.At(s, c)); d > delta {
					delta = d
				}
				e.pi.Set(s, c, next)
			}
		}

		res.Iterations = iter + 1
		if delta < e.opts.Tolerance {
			res.Converged = true
			break
		}
	}

	if res.Converged {
		e.state = stateConverged
	} else {
		e.state = stateMaxIterations
	}

	if e.opts.KeepHidden {
		res.HiddenFeatures = make([]*sparse.CSR, e.features)
		for k := range hiddenFeatures {
			res.HiddenFeatures[k] = hiddenFeatures[k].ToCSR()
		}
		res.HiddenBackground = hiddenBackground.ToCSR()
	}

	res.Pi = e.pi
	return res, nil
}

func (e *EMEngine) floored(p float64) float64 {
	if p == 0 && e.opts.ProbFloor > 0 {
		return e.opts.ProbFloor
	}
	return p
}
