package syntax

import (
	"bufio"
	"io"
	"strings"
	"unicode"

	"aegisc/report"
)

// Lexer is responsible for tokenizing a source file.  Aegis is indentation
// sensitive: in addition to the tokens visible in source text, the lexer
// emits synthetic NEWLINE, INDENT, and DEDENT tokens describing the block
// structure of the file.
type Lexer struct {
	file    *bufio.Reader
	tokBuff *strings.Builder

	line, col           int
	startLine, startCol int

	// The stack of active indentation levels.  The stack always begins with
	// a single zero entry which is never popped.
	indents []int

	// Synthetic tokens queued for emission before the next source token.
	pending []*Token

	// Whether the lexer is positioned at the start of a line and still needs
	// to process the line's indentation.
	atLineStart bool

	// Whether the EOF token (and its preceding dedents) have been queued.
	flushedEOF bool
}

// NewLexer creates a new lexer for the given source file.
func NewLexer(file *bufio.Reader) *Lexer {
	return &Lexer{
		file:        file,
		tokBuff:     &strings.Builder{},
		indents:     []int{0},
		atLineStart: true,
	}
}

// NextToken retrieves the next token from the input file.  If the file has
// ended, this will be an EOF token.
func (l *Lexer) NextToken() (*Token, error) {
	for {
		// Emit any queued synthetic tokens first.
		if len(l.pending) > 0 {
			tok := l.pending[0]
			l.pending = l.pending[1:]
			return tok, nil
		}

		if l.flushedEOF {
			return l.makeSynthetic(TOK_EOF, ""), nil
		}

		if l.atLineStart {
			if err := l.lexIndentation(); err != nil {
				return nil, err
			}

			continue
		}

		c, err := l.peek()
		if err != nil {
			return nil, err
		} else if c == -1 {
			// The file ended without a trailing newline: emit the closing
			// newline before flushing the dedents.
			l.mark()
			l.queueDedentsAndEOF()
			return l.makeSynthetic(TOK_NEWLINE, "\n"), nil
		}

		switch c {
		case ' ', '\t', '\r':
			l.skip()
		case '\n':
			l.mark()
			l.eat()
			l.atLineStart = true
			return l.makeToken(TOK_NEWLINE), nil
		case '#':
			if err := l.lexComment(); err != nil {
				return nil, err
			}
		case '"', '\'':
			return l.lexStringLit(c)
		default:
			if isDecimalDigit(c) {
				return l.lexNumericLit()
			} else if isFirstIdentChar(c) {
				return l.lexIdentOrKeyword()
			} else {
				return l.lexPunctOrOper()
			}
		}
	}
}

// -----------------------------------------------------------------------------

// lexIndentation measures the indentation of the line the lexer is positioned
// at the start of and queues the appropriate INDENT or DEDENT tokens.  Blank
// and comment-only lines produce no tokens at all.
func (l *Lexer) lexIndentation() error {
	l.mark()

	// Measure the leading whitespace: a space is one column of indentation
	// and a tab is four.
	width := 0
	for {
		c, err := l.peek()
		if err != nil {
			return err
		}

		if c == ' ' {
			width++
		} else if c == '\t' {
			width += 4
		} else if c == '\r' {
			// Carriage returns contribute nothing.
		} else {
			break
		}

		l.skip()
	}

	c, err := l.peek()
	if err != nil {
		return err
	}

	switch c {
	case -1:
		l.queueDedentsAndEOF()
		return nil
	case '\n':
		// Blank line: no tokens are emitted and the indentation level is
		// left unchanged.
		l.skip()
		return nil
	case '#':
		if err := l.lexComment(); err != nil {
			return err
		}

		// Consume the newline ending a comment-only line.
		c, err = l.peek()
		if err != nil {
			return err
		} else if c == '\n' {
			l.skip()
			return nil
		} else if c == -1 {
			l.queueDedentsAndEOF()
			return nil
		}
	}

	l.atLineStart = false

	top := l.indents[len(l.indents)-1]
	if width > top {
		l.indents = append(l.indents, width)
		l.pending = append(l.pending, l.makeSynthetic(TOK_INDENT, ""))
	} else if width < top {
		for width < l.indents[len(l.indents)-1] {
			l.indents = l.indents[:len(l.indents)-1]
			l.pending = append(l.pending, l.makeSynthetic(TOK_DEDENT, ""))
		}

		if width != l.indents[len(l.indents)-1] {
			return report.Raise(l.getSpan(), "inconsistent indentation: no enclosing block at this level")
		}
	}

	return nil
}

// queueDedentsAndEOF queues the dedents closing all open blocks followed by
// the EOF token.
func (l *Lexer) queueDedentsAndEOF() {
	for len(l.indents) > 1 {
		l.indents = l.indents[:len(l.indents)-1]
		l.pending = append(l.pending, l.makeSynthetic(TOK_DEDENT, ""))
	}

	l.flushedEOF = true
}

// -----------------------------------------------------------------------------

// symbolPatterns maps symbol strings (patterns) to their punctuation/operator
// token kind.
var symbolPatterns = map[string]int{
	"+":  TOK_PLUS,
	"-":  TOK_MINUS,
	"*":  TOK_STAR,
	"/":  TOK_DIV,
	"%":  TOK_MOD,
	"**": TOK_POW,

	"&":  TOK_BWAND,
	"|":  TOK_BWOR,
	"^":  TOK_BWXOR,
	"~":  TOK_COMPL,
	"<<": TOK_LSHIFT,
	">>": TOK_RSHIFT,

	"==": TOK_EQ,
	"!=": TOK_NEQ,
	"<":  TOK_LT,
	"<=": TOK_LTEQ,
	">":  TOK_GT,
	">=": TOK_GTEQ,

	"=":  TOK_ASSIGN,
	"+=": TOK_PLUSASSIGN,
	"-=": TOK_MINUSASSIGN,
	"*=": TOK_STARASSIGN,
	"/=": TOK_DIVASSIGN,
	"%=": TOK_MODASSIGN,
	"&=": TOK_ANDASSIGN,
	"|=": TOK_ORASSIGN,
	"^=": TOK_XORASSIGN,

	"->": TOK_ARROW,
	"::": TOK_SCOPE,
	"..": TOK_RANGETO,

	"(": TOK_LPAREN,
	")": TOK_RPAREN,
	"[": TOK_LBRACKET,
	"]": TOK_RBRACKET,
	"{": TOK_LBRACE,
	"}": TOK_RBRACE,
	",": TOK_COMMA,
	".": TOK_DOT,
	":": TOK_COLON,
	";": TOK_SEMI,
	"@": TOK_ATSIGN,
}

// lexPunctOrOper lexes a punctuation or operator symbol using longest match.
func (l *Lexer) lexPunctOrOper() (*Token, error) {
	l.mark()
	l.eat()

	kind, ok := symbolPatterns[l.tokBuff.String()]
	if !ok {
		return nil, report.Raise(l.getSpan(), "unknown character: `%s`", l.tokBuff.String())
	}

	for {
		c, err := l.peek()
		if err != nil {
			return nil, err
		}

		if c == -1 {
			break
		}

		if _kind, ok := symbolPatterns[l.tokBuff.String()+string(c)]; ok {
			l.eat()
			kind = _kind
		} else {
			break
		}
	}

	return l.makeToken(kind), nil
}

// -----------------------------------------------------------------------------

// keywordPatterns maps keyword strings (patterns) to their keyword token kind.
var keywordPatterns = map[string]int{
	"func": TOK_FUNC,
	"let":  TOK_LET,
	"var":  TOK_VAR,

	"if":       TOK_IF,
	"elif":     TOK_ELIF,
	"else":     TOK_ELSE,
	"while":    TOK_WHILE,
	"for":      TOK_FOR,
	"in":       TOK_IN,
	"match":    TOK_MATCH,
	"case":     TOK_CASE,
	"break":    TOK_BREAK,
	"continue": TOK_CONTINUE,
	"pass":     TOK_PASS,
	"return":   TOK_RETURN,
	"defer":    TOK_DEFER,

	"try_chain": TOK_TRYCHAIN,
	"primary":   TOK_PRIMARY,
	"secondary": TOK_SECONDARY,
	"fallback":  TOK_FALLBACK,

	"module": TOK_MODULE,
	"import": TOK_IMPORT,
	"from":   TOK_FROM,
	"as":     TOK_AS,

	"struct": TOK_STRUCT,
	"enum":   TOK_ENUM,
	"trait":  TOK_TRAIT,
	"impl":   TOK_IMPL,

	"and": TOK_AND,
	"or":  TOK_OR,
	"not": TOK_NOT,

	"true":  TOK_BOOLLIT,
	"false": TOK_BOOLLIT,

	"i8":     TOK_I8,
	"i16":    TOK_I16,
	"i32":    TOK_I32,
	"i64":    TOK_I64,
	"u8":     TOK_U8,
	"u16":    TOK_U16,
	"u32":    TOK_U32,
	"u64":    TOK_U64,
	"f32":    TOK_F32,
	"f64":    TOK_F64,
	"bool":   TOK_BOOL,
	"char":   TOK_CHAR,
	"string": TOK_STRING,
	"void":   TOK_VOID,
	"ptr":    TOK_PTR,
	"array":  TOK_ARRAY,
	"slice":  TOK_SLICE,
	"tuple":  TOK_TUPLE,
	"status": TOK_STATUS,
	"handle": TOK_HANDLE,
	"result": TOK_RESULT,
}

// lexIdentOrKeyword lexes an identifier or a keyword.
func (l *Lexer) lexIdentOrKeyword() (*Token, error) {
	l.mark()
	l.eat()

	for {
		c, err := l.peek()
		if err != nil {
			return nil, err
		} else if !isFirstIdentChar(c) && !isDecimalDigit(c) {
			break
		}

		l.eat()
	}

	var kind int
	if _kind, ok := keywordPatterns[l.tokBuff.String()]; ok {
		kind = _kind
	} else {
		kind = TOK_IDENT
	}

	return l.makeToken(kind), nil
}

// -----------------------------------------------------------------------------

// lexNumericLit lexes a numeric literal (int lit or float lit).  Underscores
// may be used as digit separators and are dropped from the token value.
func (l *Lexer) lexNumericLit() (*Token, error) {
	l.mark()
	c, _ := l.eat()

	// Determine the base of the literal.
	base := 10
	mustHaveDigit := false
	if c == '0' {
		c, err := l.peek()
		if err != nil {
			return nil, err
		}

		switch c {
		case 'x', 'X':
			base = 16
			l.eat()
			mustHaveDigit = true
		case 'b', 'B':
			base = 2
			l.eat()
			mustHaveDigit = true
		}
	}

	// Floating-point data.
	var isFloat, hasExp, expectSign bool

numLexLoop:
	for {
		c, err := l.peek()
		if err != nil {
			return nil, err
		} else if c == -1 {
			break
		} else if c == '_' {
			// Skip all _ that occur in the literal.
			l.skip()
			continue
		}

		switch base {
		case 2:
			if c == '0' || c == '1' {
				l.eat()
			} else {
				break numLexLoop
			}
		case 16:
			if isHexDigit(c) {
				l.eat()
			} else {
				break numLexLoop
			}
		default:
			switch c {
			case '.':
				if mustHaveDigit || isFloat {
					break numLexLoop
				}

				l.eat()

				isFloat = true
				mustHaveDigit = true
				continue
			case 'e', 'E':
				if mustHaveDigit || hasExp {
					break numLexLoop
				}

				l.eat()

				isFloat = true
				hasExp = true
				expectSign = true
				mustHaveDigit = true
				continue
			case '+', '-':
				if mustHaveDigit || !expectSign {
					break numLexLoop
				}

				l.eat()

				expectSign = false
				continue
			default:
				if isDecimalDigit(c) {
					l.eat()
					expectSign = false
				} else {
					break numLexLoop
				}
			}
		}

		mustHaveDigit = false
	}

	// Ensure that the literal is not malformed.
	if mustHaveDigit {
		return nil, report.Raise(l.getSpan(), "incomplete numeric literal")
	}

	if isFloat {
		return l.makeToken(TOK_FLOATLIT), nil
	}

	return l.makeToken(TOK_INTLIT), nil
}

// -----------------------------------------------------------------------------

// lexStringLit lexes a string literal enclosed in the given quote character.
// Escape sequences are translated so that the token value holds the literal's
// actual contents.
func (l *Lexer) lexStringLit(quote rune) (*Token, error) {
	l.mark()
	l.skip()

	for {
		c, err := l.peek()
		if err != nil {
			return nil, err
		}

		switch c {
		case -1, '\n':
			return nil, report.Raise(l.getSpan(), "unterminated string literal")
		case quote:
			l.skip()
			return l.makeToken(TOK_STRINGLIT), nil
		case '\\':
			l.skip()

			c, err = l.skip()
			if err != nil {
				return nil, err
			}

			switch c {
			case -1:
				return nil, report.Raise(l.getSpan(), "unterminated string literal")
			case 'n':
				l.tokBuff.WriteRune('\n')
			case 't':
				l.tokBuff.WriteRune('\t')
			case 'r':
				l.tokBuff.WriteRune('\r')
			case '0':
				l.tokBuff.WriteRune(0)
			case '\\', '\'', '"':
				l.tokBuff.WriteRune(c)
			default:
				return nil, report.Raise(l.getSpan(), "unknown escape sequence: `\\%c`", c)
			}
		default:
			l.eat()
		}
	}
}

// -----------------------------------------------------------------------------

// lexComment consumes a line or block comment.  Comments produce no tokens.
func (l *Lexer) lexComment() error {
	l.mark()
	l.skip()

	// Count the leading `#` run to distinguish `###` block comments from
	// line comments.
	runLen := 1
	for {
		c, err := l.peek()
		if err != nil {
			return err
		} else if c != '#' {
			break
		}

		l.skip()
		runLen++
	}

	if runLen >= 3 {
		// Block comment: consume until a closing `###` run.
		closeRun := 0
		for {
			c, err := l.skip()
			if err != nil {
				return err
			}

			if c == -1 {
				return report.Raise(l.getSpan(), "unterminated block comment")
			} else if c == '#' {
				closeRun++
				if closeRun == 3 {
					return nil
				}
			} else {
				closeRun = 0
			}
		}
	}

	// Line comment: consume until the end of the line, leaving the newline
	// for the main lexing loop.
	for {
		c, err := l.peek()
		if err != nil {
			return err
		} else if c == -1 || c == '\n' {
			return nil
		}

		l.skip()
	}
}

// -----------------------------------------------------------------------------

// mark sets the lexer's stored start line and column to its current position.
func (l *Lexer) mark() {
	l.startLine = l.line
	l.startCol = l.col
}

// makeToken produces a new token of the given kind from the lexer's state and
// resets the lexer to begin building the next token.
func (l *Lexer) makeToken(kind int) *Token {
	value := l.tokBuff.String()
	l.tokBuff.Reset()

	return &Token{
		Kind:  kind,
		Value: value,
		Span:  l.getSpan(),
	}
}

// makeSynthetic produces a new zero-width synthetic token at the lexer's
// current position.
func (l *Lexer) makeSynthetic(kind int, value string) *Token {
	return &Token{
		Kind:  kind,
		Value: value,
		Span: &report.TextSpan{
			StartLine: l.line,
			StartCol:  l.col,
			EndLine:   l.line,
			EndCol:    l.col,
		},
	}
}

// getSpan calculates a text span based on the lexer's current state.
func (l *Lexer) getSpan() *report.TextSpan {
	return &report.TextSpan{
		StartLine: l.startLine,
		StartCol:  l.startCol,
		EndLine:   l.line,
		EndCol:    l.col,
	}
}

// -----------------------------------------------------------------------------

// eat moves the lexer forward one rune and writes the rune to the token
// buffer.  If the lexer encounters an EOF, -1 is returned as the rune value.
func (l *Lexer) eat() (rune, error) {
	c, _, err := l.file.ReadRune()
	if err != nil {
		if err == io.EOF {
			return -1, nil
		}

		return 0, err
	}

	l.updatePos(c)
	l.tokBuff.WriteRune(c)

	return c, nil
}

// skip moves the lexer forward one rune but does not write the rune to the
// token buffer.  If the lexer encounters an EOF, -1 is returned as the rune
// value.
func (l *Lexer) skip() (rune, error) {
	c, _, err := l.file.ReadRune()
	if err != nil {
		if err == io.EOF {
			return -1, nil
		}

		return 0, err
	}

	l.updatePos(c)

	return c, nil
}

// peek returns the next rune in the file without moving the lexer forward or
// writing the rune to the token buffer.  If the lexer encounters an EOF, -1
// is returned as the rune value.
func (l *Lexer) peek() (rune, error) {
	c, _, err := l.file.ReadRune()
	if err != nil {
		if err == io.EOF {
			return -1, nil
		}

		return 0, err
	}

	if err = l.file.UnreadRune(); err != nil {
		return 0, err
	}

	return c, nil
}

// updatePos updates the lexer's position based on the input character.
func (l *Lexer) updatePos(c rune) {
	switch c {
	case '\n':
		l.line++
		l.col = 0
	case '\t':
		l.col += 4
	default:
		l.col++
	}
}

// -----------------------------------------------------------------------------

// isDecimalDigit returns whether c is a decimal digit.
func isDecimalDigit(c rune) bool {
	return '0' <= c && c <= '9'
}

// isHexDigit returns whether c is a hexadecimal digit.
func isHexDigit(c rune) bool {
	return isDecimalDigit(c) || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

// isFirstIdentChar returns whether c could be the first rune of an
// identifier.
func isFirstIdentChar(c rune) bool {
	return unicode.IsLetter(c) || c == '_'
}
