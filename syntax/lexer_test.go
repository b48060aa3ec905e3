package syntax

import (
	"bufio"
	"strings"
	"testing"
)

// lexAll tokenizes the given source text, returning all tokens up to and
// including the EOF token.
func lexAll(t *testing.T, src string) []*Token {
	t.Helper()

	l := NewLexer(bufio.NewReader(strings.NewReader(src)))

	var toks []*Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			t.Fatalf("unexpected lex error: %s", err)
		}

		toks = append(toks, tok)
		if tok.Kind == TOK_EOF {
			return toks
		}
	}
}

// kindsOf extracts the token kinds from a token slice.
func kindsOf(toks []*Token) []int {
	kinds := make([]int, len(toks))
	for i, tok := range toks {
		kinds[i] = tok.Kind
	}

	return kinds
}

func TestIndentDedentBalance(t *testing.T) {
	src := "func main():\n" +
		"    if x:\n" +
		"        pass\n" +
		"    pass\n"

	indents, dedents := 0, 0
	for _, tok := range lexAll(t, src) {
		switch tok.Kind {
		case TOK_INDENT:
			indents++
		case TOK_DEDENT:
			dedents++
		}
	}

	if indents != 2 || dedents != 2 {
		t.Errorf("expected 2 INDENTs and 2 DEDENTs, got %d and %d", indents, dedents)
	}
}

func TestDedentToUnknownLevel(t *testing.T) {
	src := "if x:\n" +
		"        pass\n" +
		"      pass\n"

	l := NewLexer(bufio.NewReader(strings.NewReader(src)))
	for i := 0; i < 100; i++ {
		tok, err := l.NextToken()
		if err != nil {
			return
		}

		if tok.Kind == TOK_EOF {
			t.Fatal("expected an indentation error, got EOF")
		}
	}

	t.Fatal("lexer failed to terminate")
}

func TestBlankAndCommentLinesEmitNothing(t *testing.T) {
	src := "let x = 1\n" +
		"\n" +
		"    # indented comment-only line\n" +
		"let y = 2\n"

	for _, tok := range lexAll(t, src) {
		if tok.Kind == TOK_INDENT || tok.Kind == TOK_DEDENT {
			t.Fatal("blank or comment-only line changed the indentation level")
		}
	}
}

func TestBlockComment(t *testing.T) {
	src := "let x = ### inline\nblock comment ### 5\n"

	toks := kindsOf(lexAll(t, src))
	want := []int{TOK_LET, TOK_IDENT, TOK_ASSIGN, TOK_INTLIT, TOK_NEWLINE, TOK_EOF}

	if len(toks) != len(want) {
		t.Fatalf("expected %d tokens, got %d", len(want), len(toks))
	}

	for i, kind := range want {
		if toks[i] != kind {
			t.Errorf("token %d: expected kind %d, got %d", i, kind, toks[i])
		}
	}
}

func TestLongestMatchOperators(t *testing.T) {
	toks := lexAll(t, "a << 2 >= b ** c != d\n")

	want := []int{
		TOK_IDENT, TOK_LSHIFT, TOK_INTLIT, TOK_GTEQ, TOK_IDENT,
		TOK_POW, TOK_IDENT, TOK_NEQ, TOK_IDENT, TOK_NEWLINE, TOK_EOF,
	}

	kinds := kindsOf(toks)
	if len(kinds) != len(want) {
		t.Fatalf("expected %d tokens, got %d", len(want), len(kinds))
	}

	for i, kind := range want {
		if kinds[i] != kind {
			t.Errorf("token %d: expected kind %d, got %d", i, kind, kinds[i])
		}
	}
}

func TestCompoundAssignOperators(t *testing.T) {
	toks := lexAll(t, "x += 1\ny <<= 2\n")

	// `<<=` is not an operator: it lexes as `<<` followed by `=`.
	want := []int{
		TOK_IDENT, TOK_PLUSASSIGN, TOK_INTLIT, TOK_NEWLINE,
		TOK_IDENT, TOK_LSHIFT, TOK_ASSIGN, TOK_INTLIT, TOK_NEWLINE, TOK_EOF,
	}

	kinds := kindsOf(toks)
	for i, kind := range want {
		if i >= len(kinds) || kinds[i] != kind {
			t.Fatalf("token %d: expected kind %d", i, kind)
		}
	}
}

func TestNumericLiterals(t *testing.T) {
	cases := []struct {
		src  string
		kind int
	}{
		{"42", TOK_INTLIT},
		{"0xFF_F0", TOK_INTLIT},
		{"0b1010", TOK_INTLIT},
		{"1_000_000", TOK_INTLIT},
		{"3.14", TOK_FLOATLIT},
		{"1e5", TOK_FLOATLIT},
		{"2.5e-3", TOK_FLOATLIT},
	}

	for _, c := range cases {
		toks := lexAll(t, c.src+"\n")
		if toks[0].Kind != c.kind {
			t.Errorf("`%s`: expected kind %d, got %d", c.src, c.kind, toks[0].Kind)
		}
	}
}

func TestStringEscapes(t *testing.T) {
	toks := lexAll(t, `let s = "a\n\tb\\"`+"\n")

	var lit *Token
	for _, tok := range toks {
		if tok.Kind == TOK_STRINGLIT {
			lit = tok
			break
		}
	}

	if lit == nil {
		t.Fatal("no string literal token produced")
	}

	if lit.Value != "a\n\tb\\" {
		t.Errorf("expected escapes to be translated, got %q", lit.Value)
	}
}

func TestUnterminatedString(t *testing.T) {
	l := NewLexer(bufio.NewReader(strings.NewReader("let s = \"oops\n")))

	for i := 0; i < 10; i++ {
		tok, err := l.NextToken()
		if err != nil {
			return
		}

		if tok.Kind == TOK_EOF {
			t.Fatal("expected an unterminated string error, got EOF")
		}
	}
}

func TestKeywordsAndBooleans(t *testing.T) {
	toks := lexAll(t, "try_chain true false status\n")

	want := []int{TOK_TRYCHAIN, TOK_BOOLLIT, TOK_BOOLLIT, TOK_STATUS, TOK_NEWLINE, TOK_EOF}
	kinds := kindsOf(toks)

	for i, kind := range want {
		if kinds[i] != kind {
			t.Errorf("token %d: expected kind %d, got %d", i, kind, kinds[i])
		}
	}

	if toks[1].Value != "true" || toks[2].Value != "false" {
		t.Error("boolean literal values not preserved")
	}
}
