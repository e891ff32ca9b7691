// Package lexer turns DBN source text into Word, Symbol and Number tokens.
package lexer

import (
	"log/slog"
	"strings"
	"unicode"

	"github.com/dbnlang/dbn/core/logging"
)

// Opt configures Lex.
type Opt func(*Config)

// Config holds lexer configuration.
type Config struct {
	logger *slog.Logger
}

// WithLogger overrides the package-wide logger for one call.
func WithLogger(l *slog.Logger) Opt {
	return func(c *Config) {
		c.logger = l
	}
}

// isWordChar reports whether r belongs to the \w class: ASCII letters, digits
// and underscore.
func isWordChar(r rune) bool {
	return r == '_' ||
		('a' <= r && r <= 'z') ||
		('A' <= r && r <= 'Z') ||
		('0' <= r && r <= '9')
}

// Lex splits source into tokens in source order. It never fails: anything it
// does not recognise becomes a one-character Symbol and is rejected later by
// the parser.
func Lex(source string, opts ...Opt) []Token {
	cfg := &Config{logger: logging.Get()}
	for _, opt := range opts {
		opt(cfg)
	}

	lines := strings.Split(source, "\n")
	var tokens []Token
	for i, line := range lines {
		tokens = lexLine(tokens, i+1, line)
	}

	cfg.logger.Debug("lexed source", "lines", len(lines), "tokens", len(tokens))
	return tokens
}

// lexLine appends the tokens of one line to tokens.
func lexLine(tokens []Token, lineNo int, line string) []Token {
	code := line
	if idx := strings.Index(code, "//"); idx >= 0 {
		code = code[:idx]
	}
	context := strings.TrimRight(line, "\r")

	var pending strings.Builder
	start := 0
	flush := func(next int) {
		if pending.Len() > 0 {
			tokens = append(tokens, newToken(pending.String(), lineNo, start, context))
			pending.Reset()
		}
		start = next
	}

	col := 0
	for _, r := range code {
		switch {
		case unicode.IsSpace(r):
			flush(col + 1)
		case !isWordChar(r):
			flush(col)
			tokens = append(tokens, newToken(string(r), lineNo, col, context))
			start = col + 1
		default:
			pending.WriteRune(r)
		}
		col++
	}
	flush(col)
	return tokens
}

func newToken(text string, line, column int, context string) Token {
	return Token{
		Kind:   classify(text),
		Text:   text,
		Line:   line,
		Column: column,
		Source: context,
	}
}

// classify picks the kind of non-empty token text.
func classify(text string) Kind {
	digits := true
	for _, r := range text {
		if !isWordChar(r) {
			return Symbol
		}
		if r < '0' || r > '9' {
			digits = false
		}
	}
	if digits {
		return Number
	}
	return Word
}
