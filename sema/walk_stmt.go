package sema

import (
	"aegisc/ast"
	"aegisc/syntax"
	"aegisc/types"
)

// walkBlock checks all the statements of a block in a fresh scope frame.
func (w *Walker) walkBlock(block *ast.Block) {
	w.pushScope()
	defer w.popScope()

	for _, stmt := range block.Stmts {
		w.walkStmt(stmt)
	}
}

// walkStmt checks a single statement.
func (w *Walker) walkStmt(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.VarDecl:
		w.walkVarDecl(s)
	case *ast.Assignment:
		w.walkAssignment(s)
	case *ast.IfStmt:
		for _, branch := range s.Branches {
			w.walkCond(branch.Cond)
			w.walkBlock(branch.Body)
		}

		if s.ElseBlock != nil {
			w.walkBlock(s.ElseBlock)
		}
	case *ast.WhileStmt:
		w.walkCond(s.Cond)

		w.loopDepth++
		w.walkBlock(s.Body)
		w.loopDepth--
	case *ast.ForStmt:
		w.walkForStmt(s)
	case *ast.MatchStmt:
		w.walkMatchStmt(s)
	case *ast.TryChainStmt:
		w.walkBlock(s.Primary)
		if s.Secondary != nil {
			w.walkBlock(s.Secondary)
		}
		if s.Fallback != nil {
			w.walkBlock(s.Fallback)
		}
	case *ast.ReturnStmt:
		w.walkReturnStmt(s)
	case *ast.KeywordStmt:
		if s.Kind != syntax.TOK_PASS && w.loopDepth == 0 {
			w.error(s.Span(), "break and continue may only be used inside a loop")
		}
	case *ast.DeferStmt:
		if _, ok := s.Call.(*ast.Call); !ok {
			w.error(s.Call.Span(), "defer requires a function call")
		}

		w.walkExpr(s.Call)
	case *ast.ExprStmt:
		w.walkExpr(s.Expr)
	}
}

// walkCond checks a loop or branch condition, which must be a bool.
func (w *Walker) walkCond(cond ast.Expr) {
	condType := w.walkExpr(cond)
	if !types.AssignableTo(condType, types.BoolType) {
		w.error(cond.Span(), "condition must be a bool, not `%s`", condType.Repr())
	}
}

// -----------------------------------------------------------------------------

// walkVarDecl checks a variable declaration and defines the variable.
func (w *Walker) walkVarDecl(vd *ast.VarDecl) {
	var declared *types.Type
	if vd.TypeLabel != nil {
		declared = w.resolveTypeLabel(vd.TypeLabel)
	}

	if vd.Initializer != nil {
		initType := w.walkExpr(vd.Initializer)

		if declared == nil {
			declared = initType
		} else if !types.AssignableTo(initType, declared) {
			w.error(vd.Initializer.Span(),
				"cannot assign value of type `%s` to variable of type `%s`",
				initType.Repr(), declared.Repr())
		}
	}

	w.setType(vd, declared)
	w.defineVar(&Symbol{
		Name:    vd.Name,
		Type:    declared,
		Mutable: vd.Mutable,
		DefSpan: vd.NameSpan,
	})
}

// walkAssignment checks an assignment statement.
func (w *Walker) walkAssignment(asn *ast.Assignment) {
	lhsType := w.walkExpr(asn.LHS)
	rhsType := w.walkExpr(asn.RHS)

	switch lhs := asn.LHS.(type) {
	case *ast.Identifier:
		if sym, ok := w.lookupVar(lhs.Name); ok && !sym.Mutable {
			w.error(lhs.Span(), "cannot assign to immutable variable `%s`", lhs.Name)
		}
	case *ast.Member, *ast.Index:
		// Assignable locations.
	default:
		w.error(asn.LHS.Span(), "left side of assignment is not assignable")
		return
	}

	if asn.CompoundOp != -1 && !lhsType.IsNumeric() &&
		lhsType.Kind != types.KindUnknown && lhsType.Kind != types.KindError {
		w.error(asn.OpSpan, "compound assignment requires a numeric operand, not `%s`", lhsType.Repr())
	}

	if !types.AssignableTo(rhsType, lhsType) {
		w.error(asn.RHS.Span(),
			"cannot assign value of type `%s` to location of type `%s`",
			rhsType.Repr(), lhsType.Repr())
	}
}

// -----------------------------------------------------------------------------

// walkForStmt checks a for loop, defining the loop variable in the loop's
// scope.
func (w *Walker) walkForStmt(fs *ast.ForStmt) {
	iterType := w.walkExpr(fs.Iterable)

	// The loop variable's type is the iterable's element type.  Only arrays
	// and slices are iterable.
	var varType *types.Type
	switch iterType.Kind {
	case types.KindArray, types.KindSlice:
		varType = iterType.Elem
	case types.KindUnknown, types.KindError:
		varType = types.UnknownType
	default:
		w.error(fs.Iterable.Span(),
			"for loop requires an array or slice iterable, not `%s`", iterType.Repr())
		varType = types.UnknownType
	}

	w.pushScope()
	defer w.popScope()

	w.defineVar(&Symbol{
		Name:    fs.VarName,
		Type:    varType,
		DefSpan: fs.VarSpan,
	})

	w.loopDepth++

	// The body shares the frame holding the loop variable.
	for _, stmt := range fs.Body.Stmts {
		w.walkStmt(stmt)
	}

	w.loopDepth--
}

// walkMatchStmt checks a match statement.
func (w *Walker) walkMatchStmt(ms *ast.MatchStmt) {
	subjectType := w.walkExpr(ms.Subject)

	for _, mc := range ms.Cases {
		// A lone `_` is the wildcard pattern and matches anything.
		if id, ok := mc.Pattern.(*ast.Identifier); !ok || id.Name != "_" {
			patternType := w.walkExpr(mc.Pattern)
			if !types.AssignableTo(patternType, subjectType) &&
				!types.AssignableTo(subjectType, patternType) {
				w.error(mc.Pattern.Span(),
					"case pattern of type `%s` cannot match subject of type `%s`",
					patternType.Repr(), subjectType.Repr())
			}
		}

		w.walkBlock(mc.Body)
	}
}

// walkReturnStmt checks a return statement against the enclosing function's
// return type.
func (w *Walker) walkReturnStmt(rs *ast.ReturnStmt) {
	if rs.Value == nil {
		if w.enclosingReturn.Kind != types.KindVoid {
			w.error(rs.Span(), "missing return value in function returning `%s`", w.enclosingReturn.Repr())
		}

		return
	}

	valueType := w.walkExpr(rs.Value)

	if w.enclosingReturn.Kind == types.KindVoid {
		w.error(rs.Value.Span(), "unexpected return value in function returning nothing")
		return
	}

	if !types.AssignableTo(valueType, w.enclosingReturn) {
		w.error(rs.Value.Span(),
			"cannot return value of type `%s` from function returning `%s`",
			valueType.Repr(), w.enclosingReturn.Repr())
	}
}
