package mining

// Token is one normalized lexical token produced by a Tokenizer.
type Token struct {
	// Lemma is the normalized (lemmatized, lowercased) form of the token.
	Lemma string
	// IsStopword marks function words excluded from the models.
	IsStopword bool
	// IsPunct marks punctuation tokens excluded from the models.
	IsPunct bool
}

// Tokenizer is the injected lexical analysis capability. The core never
// assumes a particular tokenizer or lemmatizer identity, only this contract:
// given raw text, return the token sequence with stop-word and punctuation
// flags set.
type Tokenizer interface {
	Tokenize(text string) ([]Token, error)
}
