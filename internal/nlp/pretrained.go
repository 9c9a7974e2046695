package nlp

import (
	"fmt"
	"strings"

	"github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"

	"featuremine/mining"
)

// PretrainedTokenizer adapts a tokenizer.json-defined tokenizer to the
// mining.Tokenizer contract, for corpora whose vocabulary should match a
// pretrained model. Tokens are used as their own lemmas; subword
// continuation pieces are dropped so only word-initial tokens feed the
// models.
type PretrainedTokenizer struct {
	tk *tokenizer.Tokenizer
}

// NewPretrainedTokenizer loads the tokenizer definition at path.
func NewPretrainedTokenizer(path string) (*PretrainedTokenizer, error) {
	tk, err := pretrained.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("load tokenizer %s: %w", path, err)
	}
	return &PretrainedTokenizer{tk: tk}, nil
}

// Tokenize encodes text and maps the resulting pieces onto lexical tokens.
func (p *PretrainedTokenizer) Tokenize(text string) ([]mining.Token, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	encoding, err := p.tk.EncodeSingle(text)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	var out []mining.Token
	for _, piece := range encoding.Tokens {
		if strings.HasPrefix(piece, "##") {
			continue
		}
		lower := strings.ToLower(piece)
		out = append(out, mining.Token{
			Lemma:      lower,
			IsStopword: IsStopword(lower),
			IsPunct:    isPunct(piece),
		})
	}
	return out, nil
}
