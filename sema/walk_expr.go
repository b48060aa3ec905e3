package sema

import (
	"aegisc/ast"
	"aegisc/syntax"
	"aegisc/types"
)

// walkExpr checks a single expression and records its type.
func (w *Walker) walkExpr(expr ast.Expr) *types.Type {
	switch e := expr.(type) {
	case *ast.Literal:
		return w.setType(e, literalType(e))
	case *ast.Identifier:
		return w.setType(e, w.walkIdentifier(e))
	case *ast.BinaryOp:
		return w.setType(e, w.walkBinaryOp(e))
	case *ast.UnaryOp:
		return w.setType(e, w.walkUnaryOp(e))
	case *ast.Call:
		return w.setType(e, w.walkCall(e))
	case *ast.Member:
		return w.setType(e, w.walkMember(e))
	case *ast.Index:
		return w.setType(e, w.walkIndex(e))
	case *ast.ArrayLit:
		return w.setType(e, w.walkArrayLit(e))
	case *ast.TupleLit:
		elems := make([]*types.Type, len(e.Exprs))
		for i, sub := range e.Exprs {
			elems[i] = w.walkExpr(sub)
		}

		return w.setType(e, types.NewTuple(elems...))
	}

	return w.setType(expr, types.UnknownType)
}

// literalType determines the type of a literal from its token kind.  Integer
// literals default to i32 and float literals to f64.
func literalType(lit *ast.Literal) *types.Type {
	switch lit.Kind {
	case syntax.TOK_INTLIT:
		return types.I32Type
	case syntax.TOK_FLOATLIT:
		return types.F64Type
	case syntax.TOK_STRINGLIT:
		return types.StringType
	case syntax.TOK_BOOLLIT:
		return types.BoolType
	}

	return types.UnknownType
}

// walkIdentifier resolves an identifier to a variable or function symbol.
func (w *Walker) walkIdentifier(id *ast.Identifier) *types.Type {
	if sym, ok := w.lookupVar(id.Name); ok {
		return sym.Type
	}

	if sym, ok := w.lookupFunc(id.Name); ok {
		return sym.Type
	}

	w.error(id.Span(), "undefined symbol: `%s`", id.Name)
	return types.ErrorType
}

// -----------------------------------------------------------------------------

// walkBinaryOp checks a binary operator application.
func (w *Walker) walkBinaryOp(bop *ast.BinaryOp) *types.Type {
	lhs := w.walkExpr(bop.Lhs)
	rhs := w.walkExpr(bop.Rhs)

	if lhs.Kind == types.KindError || rhs.Kind == types.KindError {
		return types.ErrorType
	}

	switch bop.Op.Kind {
	case syntax.TOK_AND, syntax.TOK_OR:
		if !types.AssignableTo(lhs, types.BoolType) || !types.AssignableTo(rhs, types.BoolType) {
			w.error(bop.Op.Span, "operands of `%s` must be bools", bop.Op.Name)
		}

		return types.BoolType
	case syntax.TOK_EQ, syntax.TOK_NEQ, syntax.TOK_LT, syntax.TOK_GT, syntax.TOK_LTEQ, syntax.TOK_GTEQ:
		if !types.AssignableTo(lhs, rhs) && !types.AssignableTo(rhs, lhs) {
			w.error(bop.Op.Span,
				"cannot compare values of types `%s` and `%s`", lhs.Repr(), rhs.Repr())
		}

		return types.BoolType
	case syntax.TOK_BWAND, syntax.TOK_BWOR, syntax.TOK_BWXOR, syntax.TOK_LSHIFT, syntax.TOK_RSHIFT:
		if !lhs.IsInteger() || !rhs.IsInteger() {
			w.error(bop.Op.Span, "operands of `%s` must be integers", bop.Op.Name)
			return types.ErrorType
		}

		// Bitwise results take the left operand's type.
		return lhs
	default:
		return w.walkArithOp(bop, lhs, rhs)
	}
}

// walkArithOp checks an arithmetic operator application.
func (w *Walker) walkArithOp(bop *ast.BinaryOp, lhs, rhs *types.Type) *types.Type {
	if lhs.Kind == types.KindUnknown || rhs.Kind == types.KindUnknown {
		return types.UnknownType
	}

	if !lhs.IsNumeric() || !rhs.IsNumeric() {
		w.error(bop.Op.Span,
			"operator `%s` is not defined for types `%s` and `%s`",
			bop.Op.Name, lhs.Repr(), rhs.Repr())
		return types.ErrorType
	}

	if types.Equal(lhs, rhs) {
		return lhs
	}

	// Mixed numeric operands widen toward whichever side can hold the other.
	if types.AssignableTo(lhs, rhs) {
		return rhs
	}
	if types.AssignableTo(rhs, lhs) {
		return lhs
	}

	// Incompatible numeric mixes fall back to i32.
	return types.I32Type
}

// walkUnaryOp checks a unary operator application.
func (w *Walker) walkUnaryOp(uop *ast.UnaryOp) *types.Type {
	operand := w.walkExpr(uop.Operand)
	if operand.Kind == types.KindError {
		return types.ErrorType
	}

	switch uop.Op.Kind {
	case syntax.TOK_MINUS:
		if !operand.IsNumeric() && operand.Kind != types.KindUnknown {
			w.error(uop.Op.Span, "operand of `-` must be numeric, not `%s`", operand.Repr())
			return types.ErrorType
		}

		return operand
	case syntax.TOK_NOT:
		if !types.AssignableTo(operand, types.BoolType) {
			w.error(uop.Op.Span, "operand of `not` must be a bool, not `%s`", operand.Repr())
		}

		return types.BoolType
	case syntax.TOK_COMPL:
		if !operand.IsInteger() && operand.Kind != types.KindUnknown {
			w.error(uop.Op.Span, "operand of `~` must be an integer, not `%s`", operand.Repr())
			return types.ErrorType
		}

		return operand
	}

	return types.UnknownType
}

// -----------------------------------------------------------------------------

// walkCall checks a function call.
func (w *Walker) walkCall(call *ast.Call) *types.Type {
	argTypes := make([]*types.Type, len(call.Args))
	for i, arg := range call.Args {
		argTypes[i] = w.walkExpr(arg)
	}

	// Calls through member chains reach symbols outside this file (eg.
	// system modules); they are not resolvable here and check loosely.
	if id, ok := call.Func.(*ast.Identifier); ok {
		sym, ok := w.lookupFunc(id.Name)
		if !ok {
			if _, isVar := w.lookupVar(id.Name); !isVar {
				w.error(id.Span(), "undefined function: `%s`", id.Name)
				return types.ErrorType
			}

			w.error(id.Span(), "`%s` is not a function", id.Name)
			return types.ErrorType
		}

		w.setType(id, sym.Type)
		return w.checkCallArgs(call, sym, argTypes)
	}

	w.walkExpr(call.Func)
	return types.UnknownType
}

// checkCallArgs checks a call's arguments against a function symbol's
// signature and yields the call's result type.
func (w *Walker) checkCallArgs(call *ast.Call, sym *Symbol, argTypes []*types.Type) *types.Type {
	params := sym.Type.Params

	// Builtins with generic (unknown-typed) parameters accept any argument
	// list: eg. `range(10)` and `range(0, 10)` are both valid.
	if sym.Builtin {
		for i, param := range params {
			if i >= len(argTypes) || param.Kind == types.KindUnknown {
				continue
			}

			if !types.AssignableTo(argTypes[i], param) {
				w.error(call.Args[i].Span(),
					"cannot pass value of type `%s` for parameter of type `%s`",
					argTypes[i].Repr(), param.Repr())
			}
		}

		return sym.Type.Return
	}

	if len(argTypes) != len(params) {
		w.error(call.Span(),
			"function `%s` takes %d arguments but %d were given",
			sym.Name, len(params), len(argTypes))
		return sym.Type.Return
	}

	for i, param := range params {
		if !types.AssignableTo(argTypes[i], param) {
			w.error(call.Args[i].Span(),
				"cannot pass value of type `%s` for parameter of type `%s`",
				argTypes[i].Repr(), param.Repr())
		}
	}

	return sym.Type.Return
}

// -----------------------------------------------------------------------------

// walkMember checks a member access expression.
func (w *Walker) walkMember(m *ast.Member) *types.Type {
	// An enum name followed by a variant is a constant of the enum type.
	if id, ok := m.Root.(*ast.Identifier); ok {
		if en, ok := w.lookupEnum(id.Name); ok {
			w.setType(id, en.typ)

			if _, ok := en.variants[m.MemberName]; !ok {
				w.error(m.MemberSpan, "enum `%s` has no variant `%s`", id.Name, m.MemberName)
				return types.ErrorType
			}

			return en.typ
		}

		// An unresolvable root names a system module (eg. `kernel32`):
		// member access off it reaches symbols outside this file.
		if _, isVar := w.lookupVar(id.Name); !isVar {
			if _, isFunc := w.lookupFunc(id.Name); !isFunc {
				w.setType(id, types.UnknownType)
				return types.UnknownType
			}
		}
	}

	rootType := w.walkExpr(m.Root)

	if rootType.Kind == types.KindStruct {
		for _, field := range rootType.Fields {
			if field.Name == m.MemberName {
				return field.Type
			}
		}

		w.error(m.MemberSpan, "struct `%s` has no field `%s`", rootType.Name, m.MemberName)
		return types.ErrorType
	}

	// Member access off non-struct values reaches module-level symbols that
	// are not resolvable within a single file: check loosely.
	return types.UnknownType
}

// walkIndex checks an index expression.
func (w *Walker) walkIndex(idx *ast.Index) *types.Type {
	rootType := w.walkExpr(idx.Root)
	subType := w.walkExpr(idx.Subscript)

	if !subType.IsInteger() && subType.Kind != types.KindUnknown && subType.Kind != types.KindError {
		w.error(idx.Subscript.Span(), "index must be an integer, not `%s`", subType.Repr())
	}

	switch rootType.Kind {
	case types.KindArray, types.KindSlice:
		return rootType.Elem
	case types.KindString:
		return types.CharType
	case types.KindPointer:
		return rootType.Elem
	}

	return types.UnknownType
}

// walkArrayLit checks an array literal.  The element type is taken from the
// first element; all the rest must be assignable to it.
func (w *Walker) walkArrayLit(al *ast.ArrayLit) *types.Type {
	if len(al.Elems) == 0 {
		return types.NewArray(types.UnknownType)
	}

	elemType := w.walkExpr(al.Elems[0])
	for _, elem := range al.Elems[1:] {
		et := w.walkExpr(elem)
		if !types.AssignableTo(et, elemType) {
			w.error(elem.Span(),
				"array element of type `%s` does not match element type `%s`",
				et.Repr(), elemType.Repr())
		}
	}

	return types.NewArray(elemType)
}
