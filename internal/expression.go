package vuego

import (
	"regexp"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/js"

	"github.com/vuego/compiler/internal/loc"
)

var simpleIdentifierRE = regexp.MustCompile(`^[A-Za-z_$][\w$]*$`)

// IsSimpleIdentifier reports whether content is a bare JS identifier, the
// fast path that needs no parsing and no parens when printed as a ternary
// test.
func IsSimpleIdentifier(content string) bool {
	return simpleIdentifierRE.MatchString(content)
}

// attachParsedExpression attaches a parsed form to a non-static expression
// when identifier prefixing is on. Template expressions stay opaque strings
// as far as the compiler is concerned; the parsed form exists for later
// passes and for early syntax diagnostics. Parse failures are reported and
// compilation continues.
func (p *parser) attachParsedExpression(exp *SimpleExpressionNode, mode expParseMode) {
	if p.options.Flags.Browser || exp.Static || !p.options.PrefixIdentifiers {
		return
	}
	if mode == expParseSkip || strings.TrimSpace(exp.Content) == "" {
		return
	}
	if IsSimpleIdentifier(exp.Content) {
		// fast path
		return
	}

	var wrapped string
	switch mode {
	case expParseStatements:
		// inline statements, pad 1 char so positions stay recoverable
		wrapped = " " + exp.Content + " "
	case expParseParams:
		wrapped = "(" + exp.Content + ")=>{}"
	default:
		// normal expression, wrap with parens
		wrapped = "(" + exp.Content + ")"
	}

	ast, err := js.Parse(parse.NewInputString(wrapped), js.Options{})
	if err != nil {
		l := exp.Loc
		e := loc.NewError(loc.X_INVALID_EXPRESSION, &l)
		e.Message = err.Error()
		p.h.AppendError(e)
		return
	}
	exp.AST = ast
}
