package codegen

import (
	"aegisc/ast"
	"aegisc/syntax"
	"aegisc/types"

	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/value"
)

// genBlock generates all the statements of a block in a fresh local scope.
// Statements after a terminator are unreachable and dropped.
func (g *Generator) genBlock(block *ast.Block) {
	g.pushScope()
	defer g.popScope()

	for _, stmt := range block.Stmts {
		if g.block.Term != nil {
			break
		}

		g.genStmt(stmt)
	}
}

// genStmt generates a single statement.
func (g *Generator) genStmt(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.VarDecl:
		g.genVarDecl(s)
	case *ast.Assignment:
		g.genAssignment(s)
	case *ast.IfStmt:
		g.genIfStmt(s)
	case *ast.WhileStmt:
		g.genWhileStmt(s)
	case *ast.ForStmt:
		// for loops are not lowered yet: the iterable is still evaluated
		// for its side effects
		g.genExpr(s.Iterable)
	case *ast.MatchStmt:
		g.genMatchStmt(s)
	case *ast.TryChainStmt:
		// try chains are checked but never lowered
	case *ast.ReturnStmt:
		g.genReturnStmt(s)
	case *ast.KeywordStmt:
		g.genKeywordStmt(s)
	case *ast.DeferStmt:
		if call, ok := s.Call.(*ast.Call); ok {
			g.deferred = append(g.deferred, call)
		}
	case *ast.ExprStmt:
		val := g.genExpr(s.Expr)

		// a read_line whose result is discarded would leak: release it
		if call, ok := s.Expr.(*ast.Call); ok && val != nil {
			if id, ok := call.Func.(*ast.Identifier); ok && id.Name == "read_line" {
				g.block.NewCall(g.rt("string_free"), val)
			}
		}
	}
}

// -----------------------------------------------------------------------------

// genVarDecl generates a variable declaration as an alloca in the current
// block plus a store of the initializer if one is present.
func (g *Generator) genVarDecl(vd *ast.VarDecl) {
	semType := g.typeOf(vd)
	slot := g.block.NewAlloca(g.convType(semType))

	if vd.Initializer != nil {
		initVal := g.genExpr(vd.Initializer)
		initVal = g.convert(initVal, g.typeOf(vd.Initializer), semType)
		g.block.NewStore(initVal, slot)
	}

	g.defineLocal(vd.Name, slot, semType, true)
}

// genAssignment generates an assignment statement.  Member and index
// locations are not lowered yet: the operands are evaluated and the store is
// dropped.
func (g *Generator) genAssignment(asn *ast.Assignment) {
	id, ok := asn.LHS.(*ast.Identifier)
	if !ok {
		g.genExpr(asn.LHS)
		g.genExpr(asn.RHS)
		return
	}

	ident, ok := g.lookup(id.Name)
	if !ok || !ident.InMemory {
		g.genExpr(asn.RHS)
		return
	}

	rhsVal := g.genExpr(asn.RHS)
	rhsVal = g.convert(rhsVal, g.typeOf(asn.RHS), ident.Typ)

	if asn.CompoundOp != -1 {
		lhsVal := g.block.NewLoad(g.convType(ident.Typ), ident.Val)
		rhsVal = g.genArithInstr(asn.CompoundOp, lhsVal, rhsVal, ident.Typ)
	}

	g.block.NewStore(rhsVal, ident.Val)
}

// -----------------------------------------------------------------------------

// genIfStmt generates an if statement.  All branches share a single end
// block; branches that already terminated get no extra jump.
func (g *Generator) genIfStmt(s *ast.IfStmt) {
	endBlock := g.appendBlock()

	for i, branch := range s.Branches {
		condVal := g.genExpr(branch.Cond)

		thenBlock := g.appendBlock()

		// the last branch of an else-less chain falls through to the end
		elseBlock := endBlock
		if i < len(s.Branches)-1 || s.ElseBlock != nil {
			elseBlock = g.appendBlock()
		}

		g.block.NewCondBr(condVal, thenBlock, elseBlock)

		g.block = thenBlock
		g.genBlock(branch.Body)
		if g.block.Term == nil {
			g.block.NewBr(endBlock)
		}

		g.block = elseBlock
	}

	if s.ElseBlock != nil {
		g.genBlock(s.ElseBlock)
		if g.block.Term == nil {
			g.block.NewBr(endBlock)
		}

		g.block = endBlock
	}
}

// genWhileStmt generates a while loop.  The condition is re-evaluated in its
// own header block on every iteration.
func (g *Generator) genWhileStmt(s *ast.WhileStmt) {
	headerBlock := g.appendBlock()
	g.block.NewBr(headerBlock)

	g.block = headerBlock
	condVal := g.genExpr(s.Cond)

	bodyBlock := g.appendBlock()
	endBlock := g.appendBlock()
	g.block.NewCondBr(condVal, bodyBlock, endBlock)

	g.loopHeaders = append(g.loopHeaders, headerBlock)
	g.loopExits = append(g.loopExits, endBlock)

	g.block = bodyBlock
	g.genBlock(s.Body)
	if g.block.Term == nil {
		g.block.NewBr(headerBlock)
	}

	g.loopHeaders = g.loopHeaders[:len(g.loopHeaders)-1]
	g.loopExits = g.loopExits[:len(g.loopExits)-1]

	g.block = endBlock
}

// genMatchStmt generates a match statement as a chain of equality tests.
func (g *Generator) genMatchStmt(s *ast.MatchStmt) {
	subjectType := g.typeOf(s.Subject)
	subjectVal := g.genExpr(s.Subject)

	endBlock := g.appendBlock()

	for _, mc := range s.Cases {
		// a wildcard case matches unconditionally, like an else
		if id, ok := mc.Pattern.(*ast.Identifier); ok && id.Name == "_" {
			g.genBlock(mc.Body)
			if g.block.Term == nil {
				g.block.NewBr(endBlock)
			}

			// any cases after the wildcard are unreachable
			g.block = g.appendBlock()
			continue
		}

		patternVal := g.genExpr(mc.Pattern)
		patternVal = g.convert(patternVal, g.typeOf(mc.Pattern), subjectType)

		var condVal value.Value
		if subjectType.IsFloat() {
			condVal = g.block.NewFCmp(enum.FPredOEQ, subjectVal, patternVal)
		} else {
			condVal = g.block.NewICmp(enum.IPredEQ, subjectVal, patternVal)
		}

		caseBlock := g.appendBlock()
		nextBlock := g.appendBlock()
		g.block.NewCondBr(condVal, caseBlock, nextBlock)

		g.block = caseBlock
		g.genBlock(mc.Body)
		if g.block.Term == nil {
			g.block.NewBr(endBlock)
		}

		g.block = nextBlock
	}

	if g.block.Term == nil {
		g.block.NewBr(endBlock)
	}

	g.block = endBlock
}

// genReturnStmt generates a return, running deferred calls first.
func (g *Generator) genReturnStmt(s *ast.ReturnStmt) {
	g.genDeferred()

	if s.Value == nil || g.enclosingReturn.Kind == types.KindVoid {
		g.block.NewRet(nil)
		return
	}

	retVal := g.genExpr(s.Value)
	retVal = g.convert(retVal, g.typeOf(s.Value), g.enclosingReturn)
	g.block.NewRet(retVal)
}

// genKeywordStmt generates break and continue as jumps to the enclosing
// loop's exit and header blocks.
func (g *Generator) genKeywordStmt(s *ast.KeywordStmt) {
	switch s.Kind {
	case syntax.TOK_BREAK:
		if len(g.loopExits) > 0 {
			g.block.NewBr(g.loopExits[len(g.loopExits)-1])
		}
	case syntax.TOK_CONTINUE:
		if len(g.loopHeaders) > 0 {
			g.block.NewBr(g.loopHeaders[len(g.loopHeaders)-1])
		}
	}
}
