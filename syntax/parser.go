package syntax

import (
	"bufio"

	"aegisc/ast"
	"aegisc/report"
)

// Parser is the parser for an Aegis source file.  It is a recursive descent
// parser: all parsing functions assume that they begin with the parser
// positioned on the first token of their production and must consume all
// tokens (including the last) of their production, leaving the parser on the
// next token.  Parsing functions panic with a *report.CompileError when they
// encounter a syntax error; the panic is recovered at the Parse boundary.
type Parser struct {
	// The absolute and representative paths of the file being parsed.
	absPath, reprPath string

	// The lexer this parser is using to tokenize the source file.
	lexer *Lexer

	// The current token the parser is positioned on.
	tok *Token

	// The number of tokens consumed so far.
	tokenCount int
}

// NewParser creates a new parser for the given file and file reader.
func NewParser(absPath, reprPath string, r *bufio.Reader) *Parser {
	return &Parser{
		absPath:  absPath,
		reprPath: reprPath,
		lexer:    NewLexer(r),
	}
}

// Parse parses the source file and returns the resulting AST.  The returned
// error is the first syntax error encountered, if any.
func (p *Parser) Parse() (file *ast.File, err error) {
	defer func() {
		if x := recover(); x != nil {
			if cerr, ok := x.(*report.CompileError); ok {
				file = nil
				err = cerr
			} else if serr, ok := x.(error); ok {
				file = nil
				err = serr
			} else {
				panic(x)
			}
		}
	}()

	p.next()

	file = p.parseFile()
	return
}

// -----------------------------------------------------------------------------

// next moves the parser forward one token.
func (p *Parser) next() {
	tok, err := p.lexer.NextToken()
	if err != nil {
		panic(err)
	}

	p.tok = tok
	p.tokenCount++
}

// TokenCount returns the number of tokens consumed so far.
func (p *Parser) TokenCount() int {
	return p.tokenCount
}

// got returns whether the parser is on a token of the given kind.
func (p *Parser) got(kind int) bool {
	return p.tok.Kind == kind
}

// gotOneOf returns whether the parser's current token kind is one of the
// given kinds.
func (p *Parser) gotOneOf(kinds ...int) bool {
	for _, kind := range kinds {
		if p.tok.Kind == kind {
			return true
		}
	}

	return false
}

// want asserts that the parser is on a token of the given kind, rejecting the
// token if not.  It returns the matched token and moves the parser forward.
func (p *Parser) want(kind int) *Token {
	if !p.got(kind) {
		// EOF can act as a newline.
		if kind == TOK_NEWLINE && p.got(TOK_EOF) {
			return p.tok
		}

		p.reject()
	}

	tok := p.tok
	p.next()
	return tok
}

// newlines moves the parser forward until a non-newline token is encountered.
func (p *Parser) newlines() {
	for p.got(TOK_NEWLINE) {
		p.next()
	}
}

// -----------------------------------------------------------------------------

// reject raises an unexpected token error on the current token.
func (p *Parser) reject() {
	switch p.tok.Kind {
	case TOK_NEWLINE:
		panic(report.Raise(p.tok.Span, "unexpected newline"))
	case TOK_INDENT:
		panic(report.Raise(p.tok.Span, "unexpected indentation"))
	case TOK_DEDENT:
		panic(report.Raise(p.tok.Span, "unexpected end of block"))
	case TOK_EOF:
		panic(report.Raise(p.tok.Span, "unexpected end of file"))
	default:
		panic(report.Raise(p.tok.Span, "unexpected token: `%s`", p.tok.Value))
	}
}

// rejectWithMsg raises an error on the current token with a specific message.
func (p *Parser) rejectWithMsg(msg string, args ...interface{}) {
	panic(report.Raise(p.tok.Span, msg, args...))
}
