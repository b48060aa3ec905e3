package syntax

import (
	"bufio"
	"strconv"
	"strings"
	"testing"

	"aegisc/ast"
)

// parseSrc parses the given source text into a file AST.
func parseSrc(t *testing.T, src string) *ast.File {
	t.Helper()

	p := NewParser("test.ae", "test.ae", bufio.NewReader(strings.NewReader(src)))
	file, err := p.Parse()
	if err != nil {
		t.Fatalf("unexpected parse error: %s", err)
	}

	return file
}

// parseExprSrc parses a single expression by wrapping it in a function body.
func parseExprSrc(t *testing.T, exprSrc string) ast.Expr {
	t.Helper()

	file := parseSrc(t, "func main():\n    let x = "+exprSrc+"\n")

	fd, ok := file.Defs[0].(*ast.FuncDef)
	if !ok {
		t.Fatal("expected a function definition")
	}

	vd, ok := fd.Body.Stmts[0].(*ast.VarDecl)
	if !ok {
		t.Fatal("expected a variable declaration")
	}

	return vd.Initializer
}

// evalIntExpr evaluates a constant integer expression tree.
func evalIntExpr(t *testing.T, expr ast.Expr) int64 {
	t.Helper()

	switch v := expr.(type) {
	case *ast.Literal:
		n, err := strconv.ParseInt(v.Value, 0, 64)
		if err != nil {
			t.Fatalf("bad integer literal: %s", v.Value)
		}

		return n
	case *ast.BinaryOp:
		lhs, rhs := evalIntExpr(t, v.Lhs), evalIntExpr(t, v.Rhs)

		switch v.Op.Kind {
		case TOK_PLUS:
			return lhs + rhs
		case TOK_MINUS:
			return lhs - rhs
		case TOK_STAR:
			return lhs * rhs
		case TOK_DIV:
			return lhs / rhs
		case TOK_MOD:
			return lhs % rhs
		case TOK_POW:
			result := int64(1)
			for i := int64(0); i < rhs; i++ {
				result *= lhs
			}
			return result
		case TOK_LSHIFT:
			return lhs << uint(rhs)
		case TOK_RSHIFT:
			return lhs >> uint(rhs)
		case TOK_BWAND:
			return lhs & rhs
		case TOK_BWOR:
			return lhs | rhs
		case TOK_BWXOR:
			return lhs ^ rhs
		}
	case *ast.UnaryOp:
		if v.Op.Kind == TOK_MINUS {
			return -evalIntExpr(t, v.Operand)
		}
	}

	t.Fatalf("unexpected expression node %T", expr)
	return 0
}

func TestArithmeticPrecedence(t *testing.T) {
	if v := evalIntExpr(t, parseExprSrc(t, "2 + 3 * 4")); v != 14 {
		t.Errorf("2 + 3 * 4: expected 14, got %d", v)
	}

	if v := evalIntExpr(t, parseExprSrc(t, "(2 + 3) * 4")); v != 20 {
		t.Errorf("(2 + 3) * 4: expected 20, got %d", v)
	}

	if v := evalIntExpr(t, parseExprSrc(t, "1 | 2 ^ 3 & 2")); v != 3 {
		t.Errorf("1 | 2 ^ 3 & 2: expected 3, got %d", v)
	}

	if v := evalIntExpr(t, parseExprSrc(t, "1 + 2 << 3")); v != 24 {
		t.Errorf("1 + 2 << 3: expected 24, got %d", v)
	}
}

func TestPowerIsLeftAssociative(t *testing.T) {
	expr := parseExprSrc(t, "2 ** 3 ** 2")

	root, ok := expr.(*ast.BinaryOp)
	if !ok || root.Op.Kind != TOK_POW {
		t.Fatal("expected a `**` application at the root")
	}

	// Left-associative grouping is ((2 ** 3) ** 2).
	if _, ok := root.Lhs.(*ast.BinaryOp); !ok {
		t.Fatal("expected `**` to group to the left")
	}

	if v := evalIntExpr(t, expr); v != 64 {
		t.Errorf("2 ** 3 ** 2: expected 64, got %d", v)
	}
}

func TestPostfixTrailers(t *testing.T) {
	expr := parseExprSrc(t, "a.b.c(1, 2)[0]")

	index, ok := expr.(*ast.Index)
	if !ok {
		t.Fatal("expected an index expression at the root")
	}

	call, ok := index.Root.(*ast.Call)
	if !ok || len(call.Args) != 2 {
		t.Fatal("expected a two-argument call below the index")
	}

	member, ok := call.Func.(*ast.Member)
	if !ok || member.MemberName != "c" {
		t.Fatal("expected a member access below the call")
	}
}

func TestIfElifElse(t *testing.T) {
	src := "func classify(n: i32) -> i32:\n" +
		"    if n < 0:\n" +
		"        return -1\n" +
		"    elif n == 0:\n" +
		"        return 0\n" +
		"    else:\n" +
		"        return 1\n"

	file := parseSrc(t, src)
	fd := file.Defs[0].(*ast.FuncDef)

	ifStmt, ok := fd.Body.Stmts[0].(*ast.IfStmt)
	if !ok {
		t.Fatal("expected an if statement")
	}

	if len(ifStmt.Branches) != 2 {
		t.Errorf("expected 2 conditional branches, got %d", len(ifStmt.Branches))
	}

	if ifStmt.ElseBlock == nil {
		t.Error("expected an else block")
	}
}

func TestStructAndEnumDefs(t *testing.T) {
	src := "struct Point:\n" +
		"    x: i32\n" +
		"    y: i32\n" +
		"\n" +
		"enum Color:\n" +
		"    Red\n" +
		"    Green = 5\n" +
		"    Blue\n"

	file := parseSrc(t, src)

	sd, ok := file.Defs[0].(*ast.StructDef)
	if !ok || len(sd.Fields) != 2 {
		t.Fatal("expected a two-field struct definition")
	}

	ed, ok := file.Defs[1].(*ast.EnumDef)
	if !ok || len(ed.Variants) != 3 {
		t.Fatal("expected a three-variant enum definition")
	}

	if ed.Variants[0].Value != 0 || ed.Variants[1].Value != 5 || ed.Variants[2].Value != 6 {
		t.Errorf("bad variant values: %d, %d, %d",
			ed.Variants[0].Value, ed.Variants[1].Value, ed.Variants[2].Value)
	}
}

func TestDecorators(t *testing.T) {
	src := "@safety_level(mode: SAFE)\n" +
		"module demo.app\n" +
		"\n" +
		"@unsafe\n" +
		"@hook(event: \"process_start\")\n" +
		"func handler():\n" +
		"    pass\n"

	file := parseSrc(t, src)

	if len(file.Decorators) != 1 || file.Decorators[0].Name != "safety_level" {
		t.Fatal("expected one file-level decorator")
	}

	if mode, ok := file.Decorators[0].GetArg("mode"); !ok || mode != "SAFE" {
		t.Errorf("expected mode arg SAFE, got %q", mode)
	}

	fd := file.Defs[0].(*ast.FuncDef)
	if len(fd.Decorators) != 2 {
		t.Fatalf("expected two function decorators, got %d", len(fd.Decorators))
	}

	if event, ok := fd.Decorators[1].GetArg("event"); !ok || event != "process_start" {
		t.Errorf("expected event arg process_start, got %q", event)
	}
}

func TestTryChain(t *testing.T) {
	src := "func risky():\n" +
		"    try_chain:\n" +
		"        primary:\n" +
		"            pass\n" +
		"        secondary:\n" +
		"            pass\n" +
		"        fallback:\n" +
		"            pass\n"

	file := parseSrc(t, src)
	fd := file.Defs[0].(*ast.FuncDef)

	tc, ok := fd.Body.Stmts[0].(*ast.TryChainStmt)
	if !ok {
		t.Fatal("expected a try_chain statement")
	}

	if tc.Primary == nil || tc.Secondary == nil || tc.Fallback == nil {
		t.Error("expected all three try_chain blocks")
	}
}

func TestMatchStmt(t *testing.T) {
	src := "func describe(n: i32):\n" +
		"    match n:\n" +
		"        case 0:\n" +
		"            pass\n" +
		"        case _:\n" +
		"            pass\n"

	file := parseSrc(t, src)
	fd := file.Defs[0].(*ast.FuncDef)

	ms, ok := fd.Body.Stmts[0].(*ast.MatchStmt)
	if !ok || len(ms.Cases) != 2 {
		t.Fatal("expected a two-case match statement")
	}
}

func TestCompoundAssignment(t *testing.T) {
	src := "func bump():\n" +
		"    x += 2\n"

	file := parseSrc(t, src)
	fd := file.Defs[0].(*ast.FuncDef)

	asn, ok := fd.Body.Stmts[0].(*ast.Assignment)
	if !ok {
		t.Fatal("expected an assignment statement")
	}

	if asn.CompoundOp != TOK_PLUS {
		t.Errorf("expected compound op TOK_PLUS, got %d", asn.CompoundOp)
	}
}

func TestParseErrorReturned(t *testing.T) {
	p := NewParser("test.ae", "test.ae", bufio.NewReader(strings.NewReader("func (:\n")))
	if _, err := p.Parse(); err == nil {
		t.Error("expected a parse error")
	}
}

func TestDecoratorsOnlyApplyToFunctions(t *testing.T) {
	for _, src := range []string{
		"@unsafe\nstruct Point:\n    x: i32\n",
		"@unsafe\nenum Color:\n    Red\n",
	} {
		p := NewParser("test.ae", "test.ae", bufio.NewReader(strings.NewReader(src)))
		if _, err := p.Parse(); err == nil {
			t.Errorf("expected a parse error for a decorated non-function definition")
		}
	}
}
