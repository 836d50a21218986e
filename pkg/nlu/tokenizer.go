// Package nlu implements the text-to-intent recognition core: tokenization,
// token-set matching, alias canonicalization, and slot extraction.
package nlu

import (
	"strings"
	"unicode"
)

// stopWordFloor is the raw token count above which stop-word filtering kicks
// in. Very short utterances keep every token so that inputs like "the time"
// still carry signal.
const stopWordFloor = 3

// smartPunctReplacer normalizes smart punctuation to its ASCII form before
// splitting so that curly-quote contractions tokenize the same as straight ones.
var smartPunctReplacer = strings.NewReplacer(
	"’", "'",
	"‘", "'",
	"“", "\"",
	"”", "\"",
	"–", "-",
	"—", "-",
)

// contractions maps common contracted forms to their expansions. Applied on
// whole lowercase words after punctuation normalization.
var contractions = map[string]string{
	"what's":  "what is",
	"it's":    "it is",
	"that's":  "that is",
	"i'm":     "i am",
	"don't":   "do not",
	"can't":   "cannot",
	"won't":   "will not",
	"let's":   "let us",
	"there's": "there is",
}

// Tokenize splits text into lowercase tokens. Runs of characters outside the
// permitted set (letters, digits, and a small symbol allowlist) act as
// separators. When filterStopWords is true and the raw token count exceeds
// stopWordFloor, stop words are removed — unless that would remove every
// token, in which case the unfiltered sequence is returned so non-empty input
// never tokenizes to nothing.
func Tokenize(text string, filterStopWords bool) []string {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return nil
	}
	text = smartPunctReplacer.Replace(text)

	raw := strings.FieldsFunc(text, func(r rune) bool {
		return !isTokenRune(r)
	})

	tokens := make([]string, 0, len(raw))
	for _, t := range raw {
		t = strings.Trim(t, "'")
		if t == "" {
			continue
		}
		if exp, ok := contractions[t]; ok {
			tokens = append(tokens, strings.Fields(exp)...)
			continue
		}
		tokens = append(tokens, t)
	}
	if len(tokens) == 0 {
		return nil
	}

	if !filterStopWords || len(tokens) <= stopWordFloor {
		return tokens
	}

	filtered := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if _, stop := stopWords[t]; !stop {
			filtered = append(filtered, t)
		}
	}
	if len(filtered) == 0 {
		return tokens
	}
	return filtered
}

// isTokenRune reports whether r may appear inside a token. The symbol
// allowlist preserves identifiers like "c#", "c++", and "@channel".
func isTokenRune(r rune) bool {
	if unicode.IsLetter(r) || unicode.IsDigit(r) {
		return true
	}
	switch r {
	case '#', '+', '@', '\'':
		return true
	}
	return false
}

// TokenSet builds a membership set from a token sequence.
func TokenSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}
