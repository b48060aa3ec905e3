package syntax

import (
	"aegisc/ast"
)

// binOpPrecs maps binary operator token kinds to their precedence level.
// Higher levels bind tighter.  All binary operators, including `**`, are
// left-associative.
var binOpPrecs = map[int]int{
	TOK_OR:  1,
	TOK_AND: 2,

	TOK_EQ:  3,
	TOK_NEQ: 3,

	TOK_LT:   4,
	TOK_GT:   4,
	TOK_LTEQ: 4,
	TOK_GTEQ: 4,

	TOK_BWOR:  5,
	TOK_BWXOR: 6,
	TOK_BWAND: 7,

	TOK_LSHIFT: 8,
	TOK_RSHIFT: 8,

	TOK_PLUS:  9,
	TOK_MINUS: 9,

	TOK_STAR: 10,
	TOK_DIV:  10,
	TOK_MOD:  10,

	TOK_POW: 11,
}

// expr_list = expr {',' expr}
func (p *Parser) parseExprList() []ast.Expr {
	exprs := []ast.Expr{p.parseExpr()}

	for p.got(TOK_COMMA) {
		p.next()
		exprs = append(exprs, p.parseExpr())
	}

	return exprs
}

// expr = bin_op_expr
func (p *Parser) parseExpr() ast.Expr {
	return p.parseBinOpExpr(1)
}

// bin_op_expr = unary_expr {BINOP unary_expr}
//
// parseBinOpExpr performs precedence climbing over the binary operator
// table.  Operators below minPrec are left for the enclosing call.
func (p *Parser) parseBinOpExpr(minPrec int) ast.Expr {
	lhs := p.parseUnaryExpr()

	for {
		prec, ok := binOpPrecs[p.tok.Kind]
		if !ok || prec < minPrec {
			break
		}

		opTok := p.tok
		p.next()

		rhs := p.parseBinOpExpr(prec + 1)

		lhs = &ast.BinaryOp{
			ExprBase: ast.ExprBase{ASTBase: ast.NewASTBaseOver(lhs.Span(), rhs.Span())},
			Op: ast.Oper{
				Kind: opTok.Kind,
				Name: opTok.Value,
				Span: opTok.Span,
			},
			Lhs: lhs,
			Rhs: rhs,
		}
	}

	return lhs
}

// unary_expr = ('-' | 'not' | '~') unary_expr | atom_expr
func (p *Parser) parseUnaryExpr() ast.Expr {
	if p.gotOneOf(TOK_MINUS, TOK_NOT, TOK_COMPL) {
		opTok := p.tok
		p.next()

		operand := p.parseUnaryExpr()

		return &ast.UnaryOp{
			ExprBase: ast.ExprBase{ASTBase: ast.NewASTBaseOver(opTok.Span, operand.Span())},
			Op: ast.Oper{
				Kind: opTok.Kind,
				Name: opTok.Value,
				Span: opTok.Span,
			},
			Operand: operand,
		}
	}

	return p.parseAtomExpr()
}

// -----------------------------------------------------------------------------

// atom_expr = atom {trailer}
// trailer = '(' [expr_list] ')' | '.' 'IDENT' | '[' expr ']'
func (p *Parser) parseAtomExpr() ast.Expr {
	expr := p.parseAtom()

	for {
		switch p.tok.Kind {
		case TOK_LPAREN:
			p.next()

			var args []ast.Expr
			if !p.got(TOK_RPAREN) {
				args = p.parseExprList()
			}

			endTok := p.want(TOK_RPAREN)

			expr = &ast.Call{
				ExprBase: ast.ExprBase{ASTBase: ast.NewASTBaseOver(expr.Span(), endTok.Span)},
				Func:     expr,
				Args:     args,
			}
		case TOK_DOT:
			p.next()
			nameTok := p.want(TOK_IDENT)

			expr = &ast.Member{
				ExprBase:   ast.ExprBase{ASTBase: ast.NewASTBaseOver(expr.Span(), nameTok.Span)},
				Root:       expr,
				MemberName: nameTok.Value,
				MemberSpan: nameTok.Span,
			}
		case TOK_LBRACKET:
			p.next()
			subscript := p.parseExpr()
			endTok := p.want(TOK_RBRACKET)

			expr = &ast.Index{
				ExprBase:  ast.ExprBase{ASTBase: ast.NewASTBaseOver(expr.Span(), endTok.Span)},
				Root:      expr,
				Subscript: subscript,
			}
		default:
			return expr
		}
	}
}

// atom = 'INTLIT' | 'FLOATLIT' | 'STRINGLIT' | 'BOOLLIT' | 'IDENT'
//   | paren_expr | array_lit
func (p *Parser) parseAtom() ast.Expr {
	startTok := p.tok

	switch p.tok.Kind {
	case TOK_INTLIT, TOK_FLOATLIT, TOK_STRINGLIT, TOK_BOOLLIT:
		p.next()

		return &ast.Literal{
			ExprBase: ast.ExprBase{ASTBase: ast.NewASTBaseOn(startTok.Span)},
			Kind:     startTok.Kind,
			Value:    startTok.Value,
		}
	case TOK_IDENT:
		p.next()

		return &ast.Identifier{
			ExprBase: ast.ExprBase{ASTBase: ast.NewASTBaseOn(startTok.Span)},
			Name:     startTok.Value,
		}
	case TOK_LPAREN:
		return p.parseParenExpr()
	case TOK_LBRACKET:
		return p.parseArrayLit()
	}

	p.reject()
	return nil
}

// paren_expr = '(' expr [{',' expr}] ')'
//
// A parenthesized expression containing commas is a tuple literal.
func (p *Parser) parseParenExpr() ast.Expr {
	startTok := p.want(TOK_LPAREN)

	expr := p.parseExpr()

	if p.got(TOK_COMMA) {
		exprs := []ast.Expr{expr}
		for p.got(TOK_COMMA) {
			p.next()
			exprs = append(exprs, p.parseExpr())
		}

		endTok := p.want(TOK_RPAREN)

		return &ast.TupleLit{
			ExprBase: ast.ExprBase{ASTBase: ast.NewASTBaseOver(startTok.Span, endTok.Span)},
			Exprs:    exprs,
		}
	}

	p.want(TOK_RPAREN)
	return expr
}

// array_lit = '[' [expr_list] ']'
func (p *Parser) parseArrayLit() ast.Expr {
	startTok := p.want(TOK_LBRACKET)

	var elems []ast.Expr
	if !p.got(TOK_RBRACKET) {
		elems = p.parseExprList()
	}

	endTok := p.want(TOK_RBRACKET)

	return &ast.ArrayLit{
		ExprBase: ast.ExprBase{ASTBase: ast.NewASTBaseOver(startTok.Span, endTok.Span)},
		Elems:    elems,
	}
}
