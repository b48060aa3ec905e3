package codegen

import (
	"fmt"
	"strconv"

	"aegisc/ast"
	"aegisc/sema"
	"aegisc/syntax"
	"aegisc/types"

	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	lltypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// genExpr generates an expression in the current block.  Expressions that are
// not lowered yet degrade to zero values of their annotated type.
func (g *Generator) genExpr(expr ast.Expr) value.Value {
	switch v := expr.(type) {
	case *ast.Literal:
		return g.genLiteral(v)
	case *ast.Identifier:
		return g.genIdentifier(v)
	case *ast.BinaryOp:
		return g.genBinaryOp(v)
	case *ast.UnaryOp:
		return g.genUnaryOp(v)
	case *ast.Call:
		return g.genCall(v)
	case *ast.Member:
		return g.genMember(v)
	}

	// index expressions and array and tuple literals are not lowered yet
	return g.zeroValue(g.typeOf(expr))
}

// genIdentifier generates an identifier reference, loading alloca-backed
// values.
func (g *Generator) genIdentifier(id *ast.Identifier) value.Value {
	ident, ok := g.lookup(id.Name)
	if !ok {
		// the built-in status constants fold to their numeric values
		if code, ok := sema.StatusCodes[id.Name]; ok {
			return constant.NewInt(lltypes.I32, code)
		}

		return g.zeroValue(g.typeOf(id))
	}

	if ident.InMemory {
		return g.block.NewLoad(g.convType(ident.Typ), ident.Val)
	}

	return ident.Val
}

// -----------------------------------------------------------------------------

// genLiteral generates a literal constant.
func (g *Generator) genLiteral(lit *ast.Literal) value.Value {
	semType := g.typeOf(lit)

	switch lit.Kind {
	case syntax.TOK_INTLIT:
		// base 0 handles the 0x and 0b prefixes; the lexer already dropped
		// any digit separators.  Should always succeed.
		x, _ := strconv.ParseInt(lit.Value, 0, 64)
		return constant.NewInt(g.convType(semType).(*lltypes.IntType), x)
	case syntax.TOK_FLOATLIT:
		x, _ := strconv.ParseFloat(lit.Value, 64)
		return constant.NewFloat(g.convType(semType).(*lltypes.FloatType), x)
	case syntax.TOK_BOOLLIT:
		return constant.NewBool(lit.Value == "true")
	case syntax.TOK_STRINGLIT:
		return g.genStringLit(lit.Value)
	}

	return g.zeroValue(semType)
}

// genStringLit generates a string literal as a runtime string built over an
// interned payload.
func (g *Generator) genStringLit(val string) value.Value {
	payload := g.internString(val)
	return g.block.NewCall(g.rt("string_new"),
		payload, constant.NewInt(lltypes.I64, int64(len(val))))
}

// internString interns a string's payload bytes as a private null-terminated
// global and yields an i8 pointer to its first byte.  Payloads are deduped
// by content.
func (g *Generator) internString(val string) value.Value {
	glob, ok := g.internedStrings[val]
	if !ok {
		glob = g.mod.NewGlobalDef(fmt.Sprintf("str.%d", g.globalCounter),
			constant.NewCharArrayFromString(val+"\x00"))
		g.globalCounter++

		glob.Linkage = enum.LinkagePrivate
		glob.UnnamedAddr = enum.UnnamedAddrUnnamedAddr
		glob.Immutable = true

		g.internedStrings[val] = glob
	}

	zero := constant.NewInt(lltypes.I32, 0)
	return g.block.NewGetElementPtr(glob.ContentType, glob, zero, zero)
}

// -----------------------------------------------------------------------------

// genBinaryOp generates a binary operator application.
func (g *Generator) genBinaryOp(bop *ast.BinaryOp) value.Value {
	resType := g.typeOf(bop)
	lhsType := g.typeOf(bop.Lhs)
	rhsType := g.typeOf(bop.Rhs)

	lhsVal := g.genExpr(bop.Lhs)
	rhsVal := g.genExpr(bop.Rhs)

	switch bop.Op.Kind {
	case syntax.TOK_AND:
		return g.block.NewAnd(lhsVal, rhsVal)
	case syntax.TOK_OR:
		return g.block.NewOr(lhsVal, rhsVal)
	case syntax.TOK_EQ, syntax.TOK_NEQ, syntax.TOK_LT, syntax.TOK_GT,
		syntax.TOK_LTEQ, syntax.TOK_GTEQ:

		return g.genComparison(bop.Op.Kind, lhsVal, rhsVal, lhsType, rhsType)
	case syntax.TOK_BWAND:
		return g.block.NewAnd(lhsVal, g.convert(rhsVal, rhsType, lhsType))
	case syntax.TOK_BWOR:
		return g.block.NewOr(lhsVal, g.convert(rhsVal, rhsType, lhsType))
	case syntax.TOK_BWXOR:
		return g.block.NewXor(lhsVal, g.convert(rhsVal, rhsType, lhsType))
	case syntax.TOK_LSHIFT:
		return g.block.NewShl(lhsVal, g.convert(rhsVal, rhsType, lhsType))
	case syntax.TOK_RSHIFT:
		rhsVal = g.convert(rhsVal, rhsType, lhsType)
		if lhsType.IsSigned() {
			return g.block.NewAShr(lhsVal, rhsVal)
		}

		return g.block.NewLShr(lhsVal, rhsVal)
	}

	lhsVal = g.convert(lhsVal, lhsType, resType)
	rhsVal = g.convert(rhsVal, rhsType, resType)
	return g.genArithInstr(bop.Op.Kind, lhsVal, rhsVal, resType)
}

// genArithInstr selects the arithmetic instruction for an operator applied to
// operands of a single semantic type.
func (g *Generator) genArithInstr(opKind int, lhsVal, rhsVal value.Value, typ *types.Type) value.Value {
	useFloat := typ.IsFloat() || isFloatValue(lhsVal)

	switch opKind {
	case syntax.TOK_PLUS:
		if useFloat {
			return g.block.NewFAdd(lhsVal, rhsVal)
		}

		return g.block.NewAdd(lhsVal, rhsVal)
	case syntax.TOK_MINUS:
		if useFloat {
			return g.block.NewFSub(lhsVal, rhsVal)
		}

		return g.block.NewSub(lhsVal, rhsVal)
	case syntax.TOK_STAR:
		if useFloat {
			return g.block.NewFMul(lhsVal, rhsVal)
		}

		return g.block.NewMul(lhsVal, rhsVal)
	case syntax.TOK_DIV:
		if useFloat {
			return g.block.NewFDiv(lhsVal, rhsVal)
		}

		if typ.IsSigned() {
			return g.block.NewSDiv(lhsVal, rhsVal)
		}

		return g.block.NewUDiv(lhsVal, rhsVal)
	case syntax.TOK_MOD:
		if useFloat {
			return g.block.NewFRem(lhsVal, rhsVal)
		}

		if typ.IsSigned() {
			return g.block.NewSRem(lhsVal, rhsVal)
		}

		return g.block.NewURem(lhsVal, rhsVal)
	case syntax.TOK_POW:
		return g.genPow(lhsVal, rhsVal, typ)

	// bitwise compound assignments also route through here
	case syntax.TOK_BWAND:
		return g.block.NewAnd(lhsVal, rhsVal)
	case syntax.TOK_BWOR:
		return g.block.NewOr(lhsVal, rhsVal)
	case syntax.TOK_BWXOR:
		return g.block.NewXor(lhsVal, rhsVal)
	}

	return g.zeroValue(typ)
}

// intPreds and floatPreds map comparison operators to their predicates.
var (
	signedPreds = map[int]enum.IPred{
		syntax.TOK_EQ: enum.IPredEQ, syntax.TOK_NEQ: enum.IPredNE,
		syntax.TOK_LT: enum.IPredSLT, syntax.TOK_GT: enum.IPredSGT,
		syntax.TOK_LTEQ: enum.IPredSLE, syntax.TOK_GTEQ: enum.IPredSGE,
	}
	unsignedPreds = map[int]enum.IPred{
		syntax.TOK_EQ: enum.IPredEQ, syntax.TOK_NEQ: enum.IPredNE,
		syntax.TOK_LT: enum.IPredULT, syntax.TOK_GT: enum.IPredUGT,
		syntax.TOK_LTEQ: enum.IPredULE, syntax.TOK_GTEQ: enum.IPredUGE,
	}
	floatPreds = map[int]enum.FPred{
		syntax.TOK_EQ: enum.FPredOEQ, syntax.TOK_NEQ: enum.FPredONE,
		syntax.TOK_LT: enum.FPredOLT, syntax.TOK_GT: enum.FPredOGT,
		syntax.TOK_LTEQ: enum.FPredOLE, syntax.TOK_GTEQ: enum.FPredOGE,
	}
)

// genComparison generates a comparison after widening the operands to a
// common type.
func (g *Generator) genComparison(opKind int, lhsVal, rhsVal value.Value, lhsType, rhsType *types.Type) value.Value {
	// widen toward whichever side can hold the other
	common := lhsType
	if types.AssignableTo(lhsType, rhsType) {
		common = rhsType
	}

	lhsVal = g.convert(lhsVal, lhsType, common)
	rhsVal = g.convert(rhsVal, rhsType, common)

	if common.IsFloat() || isFloatValue(lhsVal) {
		return g.block.NewFCmp(floatPreds[opKind], lhsVal, rhsVal)
	}

	if common.IsInteger() && !common.IsSigned() {
		return g.block.NewICmp(unsignedPreds[opKind], lhsVal, rhsVal)
	}

	return g.block.NewICmp(signedPreds[opKind], lhsVal, rhsVal)
}

// genPow generates exponentiation through the float pow intrinsic, converting
// integer operands through f64 and back.
func (g *Generator) genPow(lhsVal, rhsVal value.Value, typ *types.Type) value.Value {
	x := g.convert(lhsVal, typ, types.F64Type)
	y := g.convert(rhsVal, typ, types.F64Type)
	r := g.block.NewCall(g.getPowFunc(), x, y)

	return g.convert(r, types.F64Type, typ)
}

// genUnaryOp generates a unary operator application.
func (g *Generator) genUnaryOp(uop *ast.UnaryOp) value.Value {
	operandType := g.typeOf(uop.Operand)
	operandVal := g.genExpr(uop.Operand)

	switch uop.Op.Kind {
	case syntax.TOK_MINUS:
		if operandType.IsFloat() || isFloatValue(operandVal) {
			return g.block.NewFNeg(operandVal)
		}

		// -int => 0 - int
		if intType, ok := operandVal.Type().(*lltypes.IntType); ok {
			return g.block.NewSub(constant.NewInt(intType, 0), operandVal)
		}
	case syntax.TOK_NOT:
		return g.block.NewXor(operandVal, constant.NewBool(true))
	case syntax.TOK_COMPL:
		if intType, ok := operandVal.Type().(*lltypes.IntType); ok {
			return g.block.NewXor(operandVal, constant.NewInt(intType, -1))
		}
	}

	return g.zeroValue(g.typeOf(uop))
}

// -----------------------------------------------------------------------------

// genMember generates a member access.  Enum variant references become their
// constant values; everything else is not lowered yet.
func (g *Generator) genMember(m *ast.Member) value.Value {
	if id, ok := m.Root.(*ast.Identifier); ok {
		if variants, ok := g.enumVariants[id.Name]; ok {
			if val, ok := variants[m.MemberName]; ok {
				return constant.NewInt(lltypes.I32, val)
			}
		}
	}

	return g.zeroValue(g.typeOf(m))
}

// -----------------------------------------------------------------------------

// convert inserts a conversion between two semantic types if their
// representations differ.  Assumes the checker has already validated the
// conversion.
func (g *Generator) convert(v value.Value, from, to *types.Type) value.Value {
	if from == nil || to == nil || types.Equal(from, to) {
		return v
	}

	switch {
	case from.IsInteger() && to.IsInteger():
		fromBits, toBits := from.Bits(), to.Bits()
		switch {
		case fromBits == toBits:
			return v
		case fromBits > toBits:
			return g.block.NewTrunc(v, g.convType(to))
		case from.IsSigned():
			return g.block.NewSExt(v, g.convType(to))
		default:
			return g.block.NewZExt(v, g.convType(to))
		}
	case from.IsInteger() && to.IsFloat():
		if from.IsSigned() {
			return g.block.NewSIToFP(v, g.convType(to))
		}

		return g.block.NewUIToFP(v, g.convType(to))
	case from.IsFloat() && to.IsFloat():
		if from.Kind == types.KindF32 && to.Kind == types.KindF64 {
			return g.block.NewFPExt(v, lltypes.Double)
		}
		if from.Kind == types.KindF64 && to.Kind == types.KindF32 {
			return g.block.NewFPTrunc(v, lltypes.Float)
		}
	case from.IsFloat() && to.IsInteger():
		if to.IsSigned() {
			return g.block.NewFPToSI(v, g.convType(to))
		}

		return g.block.NewFPToUI(v, g.convType(to))
	}

	return v
}

// zeroValue yields the zero constant of a semantic type.  Unlowered and
// unresolvable expressions degrade to these placeholders.
func (g *Generator) zeroValue(typ *types.Type) value.Value {
	llType := g.convType(typ)

	switch t := llType.(type) {
	case *lltypes.IntType:
		return constant.NewInt(t, 0)
	case *lltypes.FloatType:
		return constant.NewFloat(t, 0)
	case *lltypes.PointerType:
		return constant.NewNull(t)
	case *lltypes.VoidType:
		return nil
	}

	return constant.NewZeroInitializer(llType)
}

// isFloatValue reports whether an LLVM value has a floating point type.
// Used as a fallback when the annotation for an operand is missing.
func isFloatValue(v value.Value) bool {
	_, ok := v.Type().(*lltypes.FloatType)
	return ok
}
