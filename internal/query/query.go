package query

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultMinLength is the minimum query length, in runes, when none is configured.
const DefaultMinLength = 3

// Term is a single literal search term.
type Term struct {
	Text    string // literal text as typed (after cleaning)
	Pattern string // regex-escaped Text
}

func newTerm(text string) Term {
	return Term{Text: text, Pattern: regexp.QuoteMeta(text)}
}

// Regexp compiles the term for case-insensitive, ungreedy matching.
func (t Term) Regexp() *regexp.Regexp {
	return regexp.MustCompile("(?iU)" + t.Pattern)
}

// Clean replaces every rune that is not a letter, number or symbol with a
// space, then collapses whitespace runs and trims the result. Invalid UTF-8
// becomes a space too.
func Clean(raw string) string {
	mapped := strings.Map(func(r rune) rune {
		if r == utf8.RuneError {
			return ' '
		}
		if unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsSymbol(r) {
			return r
		}
		return ' '
	}, raw)
	return strings.Join(strings.Fields(mapped), " ")
}

// Normalize turns raw user input into search terms. An empty result means no
// search should be performed.
func Normalize(raw string, minLength int) []Term {
	if minLength <= 0 {
		minLength = DefaultMinLength
	}

	cleaned := Clean(raw)
	if utf8.RuneCountInString(cleaned) < minLength {
		return nil
	}

	words := strings.Split(cleaned, " ")
	if len(words) == 1 {
		return []Term{newTerm(words[0])}
	}

	var terms []Term
	for _, w := range words {
		if utf8.RuneCountInString(w) >= minLength {
			terms = append(terms, newTerm(w))
		}
	}
	// Phrase fallback for OCR tokenization that does not follow word boundaries.
	if len(terms) > 1 {
		terms = append(terms, newTerm(cleaned))
	}
	return terms
}
