package nlp

import "strings"

// defaultStopwords is the built-in English function-word list shared by the
// tokenizer implementations.
var defaultStopwords = buildStopwordSet([]string{
	"a", "an", "the", "and", "or", "but", "if", "then", "else", "for",
	"to", "of", "in", "on", "at", "by", "with", "as", "is", "are", "was",
	"were", "be", "been", "being", "am", "it", "its", "this", "that",
	"these", "those", "from", "up", "down", "over", "under", "again",
	"further", "than", "so", "such", "into", "about", "between",
	"through", "during", "before", "after", "above", "below", "out",
	"off", "own", "same", "too", "very", "can", "could", "will", "would",
	"shall", "should", "may", "might", "must", "just", "not", "no",
	"nor", "only", "do", "does", "did", "doing", "have", "has", "had",
	"having", "i", "me", "my", "mine", "we", "us", "our", "ours", "you",
	"your", "yours", "he", "him", "his", "she", "her", "hers", "they",
	"them", "their", "theirs", "what", "which", "who", "whom", "when",
	"where", "why", "how", "all", "any", "both", "each", "few", "more",
	"most", "other", "some", "there", "here", "now",
})

func buildStopwordSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// IsStopword reports whether the lowercased form of word is in the built-in
// stopword list.
func IsStopword(word string) bool {
	_, ok := defaultStopwords[strings.ToLower(word)]
	return ok
}
