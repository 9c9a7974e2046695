package nlp

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"
	"github.com/jdkato/prose/v2"

	"featuremine/mining"
)

// WordTokenizer is the default Tokenizer capability: prose word
// segmentation with dictionary lemmatization and the built-in stopword
// list. It satisfies the mining.Tokenizer contract without the core
// depending on either library.
type WordTokenizer struct {
	lemmatizer *golem.Lemmatizer
}

// NewWordTokenizer loads the English lemmatizer dictionary.
func NewWordTokenizer() (*WordTokenizer, error) {
	lemmatizer, err := golem.New(en.New())
	if err != nil {
		return nil, fmt.Errorf("load lemmatizer: %w", err)
	}
	return &WordTokenizer{lemmatizer: lemmatizer}, nil
}

// Tokenize segments text into words and flags stopwords and punctuation.
func (t *WordTokenizer) Tokenize(text string) ([]mining.Token, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	doc, err := prose.NewDocument(text,
		prose.WithSegmentation(false),
		prose.WithTagging(false),
		prose.WithExtraction(false))
	if err != nil {
		return nil, fmt.Errorf("tokenize: %w", err)
	}
	var out []mining.Token
	for _, tok := range doc.Tokens() {
		lower := strings.ToLower(tok.Text)
		out = append(out, mining.Token{
			Lemma:      t.lemmatizer.Lemma(lower),
			IsStopword: IsStopword(lower),
			IsPunct:    isPunct(tok.Text),
		})
	}
	return out, nil
}

func isPunct(s string) bool {
	if s == "" {
		return true
	}
	for _, r := range s {
		if !unicode.IsPunct(r) && !unicode.IsSymbol(r) {
			return false
		}
	}
	return true
}
