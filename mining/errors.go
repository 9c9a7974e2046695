package mining

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyVocabulary is returned when model building finds no usable
	// tokens in the entire corpus, leaving nothing to normalize over.
	ErrEmptyVocabulary = errors.New("mining: empty vocabulary")

	// ErrEngineFinished is returned when Run is called on an engine that
	// already iterated to completion. A fresh engine is required to re-run
	// with a different initialization.
	ErrEngineFinished = errors.New("mining: EM engine already finished")

	// ErrInvalidPrior is returned when a supplied initial mixture matrix
	// has wrong dimensions or rows that do not sum to one.
	ErrInvalidPrior = errors.New("mining: invalid initial mixture matrix")

	// ErrNoHiddenParameters is returned by GFLM word tagging when the EM
	// run did not retain its hidden parameter matrices.
	ErrNoHiddenParameters = errors.New("mining: hidden parameters were not retained")
)

// InvalidFeatureSpecError reports a malformed feature/synonym entry. Entry
// holds a printable form of the offending element and Parent the enclosing
// group, if any.
type InvalidFeatureSpecError struct {
	Entry  string
	Parent string
}

func (e *InvalidFeatureSpecError) Error() string {
	if e.Parent != "" {
		return fmt.Sprintf("mining: feature entry %s>%s is not a string or a list of strings", e.Parent, e.Entry)
	}
	return fmt.Sprintf("mining: feature entry %s is not a string or a list of strings", e.Entry)
}

// MalformedLineError reports a body line missing the "##" delimiter. Line is
// the 1-based line number in the input; parsing aborts at that point.
type MalformedLineError struct {
	Line int
}

func (e *MalformedLineError) Error() string {
	return fmt.Sprintf("mining: line %d: body line is missing the \"##\" delimiter", e.Line)
}
