package mining

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
)

// Service orchestrates the full mining pipeline: feature normalization,
// corpus parsing, model building, EM estimation and GFLM tagging.
type Service struct {
	tok    Tokenizer
	cfg    Config
	logger *log.Logger
}

// MiningResult bundles every artifact of one pipeline run.
type MiningResult struct {
	Spec   *FeatureSpec
	Corpus *Corpus
	Models *ExplicitModels
	EM     *EMResult
	Tags   *GFLMResult
}

// NewService constructs a service with the given tokenizer and configuration.
func NewService(tok Tokenizer, cfg Config, logger *log.Logger) (*Service, error) {
	if tok == nil {
		return nil, errors.New("mining: tokenizer is required")
	}
	cfg.ApplyDefaults()
	return &Service{tok: tok, cfg: cfg, logger: logger}, nil
}

// Config returns a copy of the current configuration.
func (s *Service) Config() Config {
	return s.cfg.Clone()
}

// Mine parses the annotated corpus, builds the explicit models, runs EM to
// convergence and tags implicit feature mentions. The context is consulted
// between pipeline stages; a single stage is never interrupted.
func (s *Service) Mine(ctx context.Context, corpus io.Reader, entries []FeatureEntry) (*MiningResult, error) {
	spec, err := NormalizeFeatures(entries)
	if err != nil {
		return nil, fmt.Errorf("normalize features: %w", err)
	}

	parsed, err := ParseCorpus(corpus, CorpusOptions{MaxSections: s.cfg.MaxSections})
	if err != nil {
		return nil, fmt.Errorf("parse corpus: %w", err)
	}
	s.logf("parsed %d sections, %d explicit mentions", len(parsed.Sections), len(parsed.Mentions))
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	models, err := BuildExplicitModels(parsed, spec, s.tok, s.logger)
	if err != nil {
		return nil, fmt.Errorf("build models: %w", err)
	}
	s.logf("built models: %d features, %d words", models.FeatureCount(), models.Vocab.Len())
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	opts := DefaultEMOptions()
	opts.MaxIterations = s.cfg.MaxIterations
	opts.Tolerance = s.cfg.Tolerance
	opts.ProbFloor = s.cfg.ProbFloor
	opts.KeepHidden = true
	engine, err := NewEMEngine(models, opts)
	if err != nil {
		return nil, fmt.Errorf("init EM engine: %w", err)
	}
	em, err := engine.Run()
	if err != nil {
		return nil, fmt.Errorf("run EM: %w", err)
	}
	s.logf("EM finished after %d iterations (converged=%v)", em.Iterations, em.Converged)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tags, err := ComputeGFLM(em, GFLMOptions{
		SectionThreshold: s.cfg.SectionThreshold,
		WordThreshold:    s.cfg.WordThreshold,
	})
	if err != nil {
		return nil, fmt.Errorf("tag implicit mentions: %w", err)
	}
	s.logf("tagged %d section-level and %d word-level implicit mentions", len(tags.Section), len(tags.Word))

	return &MiningResult{
		Spec:   spec,
		Corpus: parsed,
		Models: models,
		EM:     em,
		Tags:   tags,
	}, nil
}

func (s *Service) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}
