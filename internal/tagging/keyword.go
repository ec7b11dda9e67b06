package tagging

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var apostrophes = strings.NewReplacer("’", "'", "‘", "'", "ʼ", "'")

// Tokenize lowercases text and splits it on whitespace, trimming any
// leading or trailing characters that are not letters or digits.
// Internal apostrophes are kept so "women's" stays one token.
func Tokenize(text string) []string {
	if text == "" {
		return nil
	}

	text = apostrophes.Replace(norm.NFKC.String(text))
	fields := strings.Fields(strings.ToLower(text))

	tokens := fields[:0]
	for _, f := range fields {
		f = strings.TrimFunc(f, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if f != "" {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// KeywordSet is a set of normalized single-word keywords
type KeywordSet map[string]struct{}

// NewKeywordSet builds a set, normalizing every word the same way Tokenize
// normalizes text
func NewKeywordSet(words []string) KeywordSet {
	set := make(KeywordSet, len(words))
	for _, w := range words {
		for _, tok := range Tokenize(w) {
			set[tok] = struct{}{}
		}
	}
	return set
}

// Contains reports whether token is in the set
func (k KeywordSet) Contains(token string) bool {
	_, ok := k[token]
	return ok
}

// FirstMatch scans tokens in order and returns the index of the first set
// containing the first matching token. When a token is in several sets the
// earliest set wins.
func FirstMatch(tokens []string, sets ...KeywordSet) (set int, word string, ok bool) {
	for _, tok := range tokens {
		for i, s := range sets {
			if s.Contains(tok) {
				return i, tok, true
			}
		}
	}
	return -1, "", false
}
