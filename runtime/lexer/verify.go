package lexer

import (
	"regexp"

	"github.com/dbnlang/dbn/core/diag"
)

var kindPatterns = map[Kind]*regexp.Regexp{
	Word:   regexp.MustCompile(`^[A-Za-z]\w*$`),
	Symbol: regexp.MustCompile(`^[\[\{\}\]\+\-*/\(\)?]$`),
	Number: regexp.MustCompile(`^[0-9]+$`),
}

// Verify checks a single token's text against the pattern for its kind.
func Verify(t Token) error {
	pattern, ok := kindPatterns[t.Kind]
	if !ok {
		return diag.NewInternal(t.Location(), "Unknown token type: %q.", t.Kind.String())
	}
	if !pattern.MatchString(t.Text) {
		return diag.NewInternal(t.Location(), "Token %q doesn't match its type: %q.", t.Text, t.Kind.String())
	}
	return nil
}

// Validate runs Verify over every token and returns the first failure. The
// parser calls it on each token sequence it is about to interpret, including
// block bodies carved out of a larger sequence.
func Validate(tokens []Token) error {
	for _, t := range tokens {
		if err := Verify(t); err != nil {
			return err
		}
	}
	return nil
}
