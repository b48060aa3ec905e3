package codegen

import (
	"aegisc/ast"
	"aegisc/types"

	"github.com/llir/llvm/ir/constant"
	lltypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// genCall generates a function call.  Calls through member chains reach
// symbols outside this file and are not lowered: they degrade to zero values
// after their arguments are evaluated.
func (g *Generator) genCall(call *ast.Call) value.Value {
	id, ok := call.Func.(*ast.Identifier)
	if !ok {
		for _, arg := range call.Args {
			g.genExpr(arg)
		}

		return g.zeroValue(g.typeOf(call))
	}

	if llFunc, ok := g.funcs[id.Name]; ok {
		fnType := g.funcTypes[id.Name]

		args := make([]value.Value, len(call.Args))
		for i, arg := range call.Args {
			args[i] = g.genExpr(arg)
			if i < len(fnType.Params) {
				args[i] = g.convert(args[i], g.typeOf(arg), fnType.Params[i])
			}
		}

		return g.block.NewCall(llFunc, args...)
	}

	return g.genBuiltinCall(id.Name, call)
}

// genBuiltinCall lowers a pseudo-builtin call onto the runtime ABI.
func (g *Generator) genBuiltinCall(name string, call *ast.Call) value.Value {
	switch name {
	case "print", "println", "log":
		return g.genPrintCall(name, call)
	case "read_line":
		return g.block.NewCall(g.rt("read_line"))
	case "len":
		if len(call.Args) == 1 && g.typeOf(call.Args[0]).Kind == types.KindString {
			length := g.block.NewCall(g.rt("string_length"), g.genExpr(call.Args[0]))
			return g.block.NewTrunc(length, lltypes.I32)
		}
	case "alloc":
		if len(call.Args) == 1 {
			size := g.convert(g.genExpr(call.Args[0]), g.typeOf(call.Args[0]), types.U64Type)
			return g.block.NewCall(g.rt("alloc"), size)
		}
	case "free":
		if len(call.Args) == 1 {
			ptr := g.genExpr(call.Args[0])
			if !ptr.Type().Equal(lltypes.I8Ptr) {
				ptr = g.block.NewBitCast(ptr, lltypes.I8Ptr)
			}

			g.block.NewCall(g.rt("free"), ptr)
			return nil
		}
	case "sleep":
		if len(call.Args) == 1 {
			ms := g.convert(g.genExpr(call.Args[0]), g.typeOf(call.Args[0]), types.U32Type)
			g.block.NewCall(g.rt("sleep"), ms)
			return nil
		}
	case "timestamp_ms":
		return g.block.NewCall(g.rt("timestamp_ms"))
	case "status_string":
		if len(call.Args) == 1 {
			code := g.convert(g.genExpr(call.Args[0]), g.typeOf(call.Args[0]), types.StatusType)
			return g.block.NewCall(g.rt("status_string"), code)
		}
	}

	// range only appears in for loop headers, which are not lowered yet;
	// anything else unresolvable degrades the same way
	for _, arg := range call.Args {
		g.genExpr(arg)
	}

	return g.zeroValue(g.typeOf(call))
}

// genPrintCall lowers print, println, and log.  String arguments go through
// the runtime's console functions; numeric arguments are formatted through
// the C compatibility layer.
func (g *Generator) genPrintCall(name string, call *ast.Call) value.Value {
	if len(call.Args) != 1 {
		return nil
	}

	argType := g.typeOf(call.Args[0])
	argVal := g.genExpr(call.Args[0])

	if argType.Kind == types.KindString {
		g.block.NewCall(g.rt(name), argVal)
		return nil
	}

	// non-string values format through printf
	format := "%lld"
	switch {
	case argType.IsFloat():
		format = "%f"
		argVal = g.convert(argVal, argType, types.F64Type)
	case argType.Kind == types.KindBool:
		argVal = g.block.NewZExt(argVal, lltypes.I64)
	case argType.IsInteger():
		argVal = g.convert(argVal, argType, types.I64Type)
	default:
		argVal = constant.NewInt(lltypes.I64, 0)
	}

	if name == "println" {
		format += "\n"
	}

	g.block.NewCall(g.rtFuncs["printf"], g.internString(format), argVal)
	return nil
}
