package syntax

import (
	"aegisc/ast"
)

// block = ':' NEWLINE INDENT stmt {stmt} DEDENT
func (p *Parser) parseBlock() *ast.Block {
	startTok := p.want(TOK_COLON)
	p.want(TOK_NEWLINE)
	p.want(TOK_INDENT)

	block := &ast.Block{
		ASTBase: ast.NewASTBaseOn(startTok.Span),
	}

	for {
		p.newlines()

		if p.got(TOK_DEDENT) {
			p.next()
			break
		} else if p.got(TOK_EOF) {
			break
		}

		block.Stmts = append(block.Stmts, p.parseStmt())
	}

	if len(block.Stmts) == 0 {
		p.rejectWithMsg("block cannot be empty")
	}

	return block
}

// stmt = var_decl | if_stmt | while_stmt | for_stmt | match_stmt
//   | try_chain_stmt | return_stmt | keyword_stmt | defer_stmt
//   | assignment | expr_stmt
func (p *Parser) parseStmt() ast.Statement {
	switch p.tok.Kind {
	case TOK_LET, TOK_VAR:
		return p.parseVarDecl()
	case TOK_IF:
		return p.parseIfStmt()
	case TOK_WHILE:
		return p.parseWhileStmt()
	case TOK_FOR:
		return p.parseForStmt()
	case TOK_MATCH:
		return p.parseMatchStmt()
	case TOK_TRYCHAIN:
		return p.parseTryChainStmt()
	case TOK_RETURN:
		return p.parseReturnStmt()
	case TOK_BREAK, TOK_CONTINUE, TOK_PASS:
		tok := p.tok
		p.next()
		p.want(TOK_NEWLINE)

		return &ast.KeywordStmt{
			StmtBase: ast.StmtBase{ASTBase: ast.NewASTBaseOn(tok.Span)},
			Kind:     tok.Kind,
		}
	case TOK_DEFER:
		return p.parseDeferStmt()
	default:
		return p.parseExprStmt()
	}
}

// -----------------------------------------------------------------------------

// var_decl = ('let' | 'var') 'IDENT' [':' type_label] ['=' expr] NEWLINE
func (p *Parser) parseVarDecl() ast.Statement {
	startTok := p.tok
	p.next()

	nameTok := p.want(TOK_IDENT)

	var typeLabel ast.TypeExpr
	if p.got(TOK_COLON) {
		p.next()
		typeLabel = p.parseTypeLabel()
	}

	var init ast.Expr
	if p.got(TOK_ASSIGN) {
		p.next()
		init = p.parseExpr()
	}

	if typeLabel == nil && init == nil {
		p.rejectWithMsg("variable declaration must have a type label or an initializer")
	}

	p.want(TOK_NEWLINE)

	return &ast.VarDecl{
		StmtBase:    ast.StmtBase{ASTBase: ast.NewASTBaseOver(startTok.Span, nameTok.Span)},
		Mutable:     startTok.Kind == TOK_VAR,
		Name:        nameTok.Value,
		NameSpan:    nameTok.Span,
		TypeLabel:   typeLabel,
		Initializer: init,
	}
}

// -----------------------------------------------------------------------------

// if_stmt = 'if' expr block {'elif' expr block} ['else' block]
func (p *Parser) parseIfStmt() ast.Statement {
	startTok := p.want(TOK_IF)

	cond := p.parseExpr()
	body := p.parseBlock()

	stmt := &ast.IfStmt{
		StmtBase: ast.StmtBase{ASTBase: ast.NewASTBaseOn(startTok.Span)},
		Branches: []ast.CondBranch{{Cond: cond, Body: body}},
	}

	for p.got(TOK_ELIF) {
		p.next()

		cond = p.parseExpr()
		body = p.parseBlock()

		stmt.Branches = append(stmt.Branches, ast.CondBranch{Cond: cond, Body: body})
	}

	if p.got(TOK_ELSE) {
		p.next()
		stmt.ElseBlock = p.parseBlock()
	}

	return stmt
}

// while_stmt = 'while' expr block
func (p *Parser) parseWhileStmt() ast.Statement {
	startTok := p.want(TOK_WHILE)

	cond := p.parseExpr()
	body := p.parseBlock()

	return &ast.WhileStmt{
		StmtBase: ast.StmtBase{ASTBase: ast.NewASTBaseOn(startTok.Span)},
		Cond:     cond,
		Body:     body,
	}
}

// for_stmt = 'for' 'IDENT' 'in' expr block
func (p *Parser) parseForStmt() ast.Statement {
	startTok := p.want(TOK_FOR)
	varTok := p.want(TOK_IDENT)
	p.want(TOK_IN)

	iterable := p.parseExpr()
	body := p.parseBlock()

	return &ast.ForStmt{
		StmtBase: ast.StmtBase{ASTBase: ast.NewASTBaseOver(startTok.Span, varTok.Span)},
		VarName:  varTok.Value,
		VarSpan:  varTok.Span,
		Iterable: iterable,
		Body:     body,
	}
}

// match_stmt = 'match' expr ':' NEWLINE INDENT case {case} DEDENT
// case = 'case' expr block
func (p *Parser) parseMatchStmt() ast.Statement {
	startTok := p.want(TOK_MATCH)

	subject := p.parseExpr()

	p.want(TOK_COLON)
	p.want(TOK_NEWLINE)
	p.want(TOK_INDENT)

	var cases []ast.MatchCase
	for {
		p.newlines()

		if p.got(TOK_DEDENT) {
			p.next()
			break
		}

		p.want(TOK_CASE)
		pattern := p.parseExpr()
		body := p.parseBlock()

		cases = append(cases, ast.MatchCase{Pattern: pattern, Body: body})
	}

	if len(cases) == 0 {
		p.rejectWithMsg("match statement must have at least one case")
	}

	return &ast.MatchStmt{
		StmtBase: ast.StmtBase{ASTBase: ast.NewASTBaseOn(startTok.Span)},
		Subject:  subject,
		Cases:    cases,
	}
}

// try_chain_stmt = 'try_chain' ':' NEWLINE INDENT
//     'primary' block ['secondary' block] ['fallback' block] DEDENT
func (p *Parser) parseTryChainStmt() ast.Statement {
	startTok := p.want(TOK_TRYCHAIN)

	p.want(TOK_COLON)
	p.want(TOK_NEWLINE)
	p.want(TOK_INDENT)

	p.newlines()
	p.want(TOK_PRIMARY)

	stmt := &ast.TryChainStmt{
		StmtBase: ast.StmtBase{ASTBase: ast.NewASTBaseOn(startTok.Span)},
		Primary:  p.parseBlock(),
	}

	p.newlines()
	if p.got(TOK_SECONDARY) {
		p.next()
		stmt.Secondary = p.parseBlock()
		p.newlines()
	}

	if p.got(TOK_FALLBACK) {
		p.next()
		stmt.Fallback = p.parseBlock()
		p.newlines()
	}

	p.want(TOK_DEDENT)
	return stmt
}

// -----------------------------------------------------------------------------

// return_stmt = 'return' [expr] NEWLINE
func (p *Parser) parseReturnStmt() ast.Statement {
	startTok := p.want(TOK_RETURN)

	var value ast.Expr
	if !p.got(TOK_NEWLINE) && !p.got(TOK_EOF) {
		value = p.parseExpr()
	}

	p.want(TOK_NEWLINE)

	return &ast.ReturnStmt{
		StmtBase: ast.StmtBase{ASTBase: ast.NewASTBaseOn(startTok.Span)},
		Value:    value,
	}
}

// defer_stmt = 'defer' expr NEWLINE
func (p *Parser) parseDeferStmt() ast.Statement {
	startTok := p.want(TOK_DEFER)

	call := p.parseExpr()
	p.want(TOK_NEWLINE)

	return &ast.DeferStmt{
		StmtBase: ast.StmtBase{ASTBase: ast.NewASTBaseOver(startTok.Span, call.Span())},
		Call:     call,
	}
}

// -----------------------------------------------------------------------------

// compoundAssignOps maps compound assignment token kinds to the token kind of
// the binary operator they apply.
var compoundAssignOps = map[int]int{
	TOK_PLUSASSIGN:  TOK_PLUS,
	TOK_MINUSASSIGN: TOK_MINUS,
	TOK_STARASSIGN:  TOK_STAR,
	TOK_DIVASSIGN:   TOK_DIV,
	TOK_MODASSIGN:   TOK_MOD,
	TOK_ANDASSIGN:   TOK_BWAND,
	TOK_ORASSIGN:    TOK_BWOR,
	TOK_XORASSIGN:   TOK_BWXOR,
}

// expr_stmt = expr [('=' | compound_op) expr] NEWLINE
func (p *Parser) parseExprStmt() ast.Statement {
	expr := p.parseExpr()

	if p.got(TOK_ASSIGN) {
		opTok := p.tok
		p.next()

		rhs := p.parseExpr()
		p.want(TOK_NEWLINE)

		return &ast.Assignment{
			StmtBase:   ast.StmtBase{ASTBase: ast.NewASTBaseOver(expr.Span(), rhs.Span())},
			LHS:        expr,
			CompoundOp: -1,
			OpSpan:     opTok.Span,
			RHS:        rhs,
		}
	}

	if op, ok := compoundAssignOps[p.tok.Kind]; ok {
		opTok := p.tok
		p.next()

		rhs := p.parseExpr()
		p.want(TOK_NEWLINE)

		return &ast.Assignment{
			StmtBase:   ast.StmtBase{ASTBase: ast.NewASTBaseOver(expr.Span(), rhs.Span())},
			LHS:        expr,
			CompoundOp: op,
			OpSpan:     opTok.Span,
			RHS:        rhs,
		}
	}

	p.want(TOK_NEWLINE)

	return &ast.ExprStmt{
		StmtBase: ast.StmtBase{ASTBase: ast.NewASTBaseOn(expr.Span())},
		Expr:     expr,
	}
}
