package syntax

import (
	"aegisc/ast"
)

// primTypeKinds is the set of token kinds which are primitive type keywords.
var primTypeKinds = map[int]struct{}{
	TOK_I8:     {},
	TOK_I16:    {},
	TOK_I32:    {},
	TOK_I64:    {},
	TOK_U8:     {},
	TOK_U16:    {},
	TOK_U32:    {},
	TOK_U64:    {},
	TOK_F32:    {},
	TOK_F64:    {},
	TOK_BOOL:   {},
	TOK_CHAR:   {},
	TOK_STRING: {},
	TOK_VOID:   {},
	TOK_STATUS: {},
	TOK_HANDLE: {},
}

// type_label = prim_type | 'IDENT'
//   | 'ptr' ['[' type_label ']']
//   | ('array' | 'slice' | 'result') '[' type_label ']'
//   | 'tuple' '[' type_label {',' type_label} ']'
func (p *Parser) parseTypeLabel() ast.TypeExpr {
	startTok := p.tok

	if _, ok := primTypeKinds[startTok.Kind]; ok {
		p.next()

		return &ast.PrimTypeExpr{
			TypeExprBase: ast.TypeExprBase{ASTBase: ast.NewASTBaseOn(startTok.Span)},
			Kind:         startTok.Kind,
		}
	}

	switch startTok.Kind {
	case TOK_IDENT:
		p.next()

		return &ast.NamedTypeExpr{
			TypeExprBase: ast.TypeExprBase{ASTBase: ast.NewASTBaseOn(startTok.Span)},
			Name:         startTok.Value,
		}
	case TOK_PTR:
		p.next()

		// A bare `ptr` is a pointer to untyped memory.
		var elem ast.TypeExpr
		if p.got(TOK_LBRACKET) {
			p.next()
			elem = p.parseTypeLabel()
			p.want(TOK_RBRACKET)
		}

		return &ast.PointerTypeExpr{
			TypeExprBase: ast.TypeExprBase{ASTBase: ast.NewASTBaseOn(startTok.Span)},
			Elem:         elem,
		}
	case TOK_ARRAY, TOK_SLICE, TOK_RESULT:
		p.next()
		p.want(TOK_LBRACKET)
		elem := p.parseTypeLabel()
		endTok := p.want(TOK_RBRACKET)

		base := ast.TypeExprBase{ASTBase: ast.NewASTBaseOver(startTok.Span, endTok.Span)}
		switch startTok.Kind {
		case TOK_ARRAY:
			return &ast.ArrayTypeExpr{TypeExprBase: base, Elem: elem}
		case TOK_SLICE:
			return &ast.SliceTypeExpr{TypeExprBase: base, Elem: elem}
		default:
			return &ast.ResultTypeExpr{TypeExprBase: base, Elem: elem}
		}
	case TOK_TUPLE:
		p.next()
		p.want(TOK_LBRACKET)

		elems := []ast.TypeExpr{p.parseTypeLabel()}
		for p.got(TOK_COMMA) {
			p.next()
			elems = append(elems, p.parseTypeLabel())
		}

		endTok := p.want(TOK_RBRACKET)

		return &ast.TupleTypeExpr{
			TypeExprBase: ast.TypeExprBase{ASTBase: ast.NewASTBaseOver(startTok.Span, endTok.Span)},
			Elems:        elems,
		}
	}

	p.reject()
	return nil
}
