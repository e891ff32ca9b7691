// Package parser interprets DBN token sequences into a drawing trace.
//
// There is no syntax tree. Statements are executed as they are read: drawing
// statements append to the trace, Set binds variables, Repeat and the
// comparison statements re-parse their blocks immediately, and Command
// captures a block for later invocation.
package parser

import (
	"log/slog"

	"github.com/dbnlang/dbn/core/diag"
	"github.com/dbnlang/dbn/core/invariant"
	"github.com/dbnlang/dbn/runtime/lexer"
	"github.com/dbnlang/dbn/runtime/scope"
	"github.com/dbnlang/dbn/runtime/trace"
)

// statementFunc executes the statement introduced by kw, reading its
// arguments from c, and returns the cursor after the statement.
type statementFunc func(p *Parser, kw lexer.Token, c cursor, sc *scope.Scope) (cursor, error)

// builtins maps keywords to their statements. Filled in init to break the
// initialization cycle through parseCommand, which consults it.
var builtins map[string]statementFunc

func init() {
	builtins = map[string]statementFunc{
		"Paper":      parsePaper,
		"Pen":        parsePen,
		"Line":       parseLine,
		"Set":        parseSet,
		"Repeat":     parseRepeat,
		"Command":    parseCommand,
		"Same":       parseSame,
		"NotSame":    parseNotSame,
		"Smaller":    parseSmaller,
		"NotSmaller": parseNotSmaller,
	}
}

// IsKeyword reports whether name is a built-in statement keyword.
func IsKeyword(name string) bool {
	_, ok := builtins[name]
	return ok
}

// Parser holds the state of one Parse call.
type Parser struct {
	out      trace.Trace
	logger   *slog.Logger
	maxDepth int
	depth    int
}

// Parse interprets tokens and returns the drawing trace. The first invalid
// statement aborts interpretation with a *diag.Diagnostic.
func Parse(tokens []lexer.Token, opts ...Opt) (trace.Trace, error) {
	cfg := newConfig(opts)
	p := &Parser{
		out:      trace.Trace{},
		logger:   cfg.logger,
		maxDepth: cfg.maxDepth,
	}

	if err := p.parseBlock(tokens, cfg.scope); err != nil {
		return nil, err
	}

	p.logger.Debug("parsed program", "tokens", len(tokens), "ops", len(p.out))
	return p.out, nil
}

// parseBlock runs every statement in tokens against sc. It is used for the
// whole program and for each execution of a block, so every token sequence
// is validated before it is interpreted.
func (p *Parser) parseBlock(tokens []lexer.Token, sc *scope.Scope) error {
	if err := lexer.Validate(tokens); err != nil {
		return err
	}

	c := newCursor(tokens)
	for !c.done() {
		before := c.remaining()
		kw, rest, _ := c.next(lexer.Token{})
		var err error
		c, err = p.parseStatement(kw, rest, sc)
		if err != nil {
			return err
		}
		invariant.Invariant(c.remaining() < before, "statement %q must consume tokens", kw.Text)
	}
	return nil
}

// parseStatement dispatches on the leading word: built-ins first, then
// commands bound in scope.
func (p *Parser) parseStatement(kw lexer.Token, c cursor, sc *scope.Scope) (cursor, error) {
	if kw.Kind != lexer.Word {
		return c, diag.NewInput(kw.Location(), "Unexpected token %q.", kw.Text)
	}

	if stmt, ok := builtins[kw.Text]; ok {
		return stmt(p, kw, c, sc)
	}

	binding, ok := sc.Lookup(kw.Text)
	if !ok {
		d := diag.NewInput(kw.Location(), "%q is not a valid keyword.", kw.Text)
		if suggestion := suggestKeyword(kw.Text, sc); suggestion != "" {
			d.WithHint("did you mean %q?", suggestion)
		}
		return c, d
	}

	cmd, ok := binding.Command()
	if !ok {
		return c, diag.NewInput(kw.Location(), "Unexpected variable %q used as a statement.", kw.Text)
	}
	return p.invoke(cmd, kw, c, sc)
}

// emit appends an operation to the trace.
func (p *Parser) emit(op trace.Op) {
	p.out = append(p.out, op)
}

func at(kw lexer.Token) trace.At {
	return trace.At{Loc: kw.Location()}
}
