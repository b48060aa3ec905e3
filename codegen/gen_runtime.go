package codegen

import (
	"github.com/llir/llvm/ir"
	lltypes "github.com/llir/llvm/ir/types"

	"aegisc/common"
)

// declareRuntime declares the full Aegis runtime ABI.  Every generated module
// carries the complete declaration set regardless of which functions it
// calls: declarations are free and the linker discards unused ones.  All
// runtime symbols share the common.RuntimePrefix prefix.
func (g *Generator) declareRuntime() {
	// the runtime aggregate types are opaque to generated code
	strTyp := lltypes.NewStruct()
	strTyp.Opaque = true
	g.stringType = g.mod.NewTypeDef(common.RuntimePrefix+"string_t", strTyp)

	arrTyp := lltypes.NewStruct()
	arrTyp.Opaque = true
	g.arrayType = g.mod.NewTypeDef(common.RuntimePrefix+"array_t", arrTyp)

	sliceTyp := lltypes.NewStruct()
	sliceTyp.Opaque = true
	g.sliceType = g.mod.NewTypeDef(common.RuntimePrefix+"slice_t", sliceTyp)

	strPtr := lltypes.NewPointer(g.stringType)
	arrPtr := lltypes.NewPointer(g.arrayType)
	slicePtr := lltypes.NewPointer(g.sliceType)

	decl := func(name string, ret lltypes.Type, params ...*ir.Param) *ir.Func {
		f := g.mod.NewFunc(common.RuntimePrefix+name, ret, params...)
		g.rtFuncs[f.Name()] = f
		return f
	}

	// lifecycle
	decl("runtime_init", lltypes.Void)
	decl("runtime_cleanup", lltypes.Void)
	decl("runtime_version", lltypes.I8Ptr)

	// memory management
	decl("alloc", lltypes.I8Ptr, ir.NewParam("size", lltypes.I64))
	decl("free", lltypes.Void, ir.NewParam("ptr", lltypes.I8Ptr))
	decl("realloc", lltypes.I8Ptr,
		ir.NewParam("ptr", lltypes.I8Ptr), ir.NewParam("size", lltypes.I64))
	decl("ref_inc", lltypes.Void, ir.NewParam("ptr", lltypes.I8Ptr))
	decl("ref_dec", lltypes.Void, ir.NewParam("ptr", lltypes.I8Ptr))

	// strings
	decl("string_new", strPtr,
		ir.NewParam("data", lltypes.I8Ptr), ir.NewParam("len", lltypes.I64))
	decl("string_with_capacity", strPtr, ir.NewParam("cap", lltypes.I64))
	decl("string_free", lltypes.Void, ir.NewParam("str", strPtr))
	decl("string_concat", strPtr,
		ir.NewParam("a", strPtr), ir.NewParam("b", strPtr))
	decl("string_length", lltypes.I64, ir.NewParam("str", strPtr))
	decl("string_compare", lltypes.I32,
		ir.NewParam("a", strPtr), ir.NewParam("b", strPtr))

	// console I/O
	decl("print", lltypes.Void, ir.NewParam("str", strPtr))
	decl("println", lltypes.Void, ir.NewParam("str", strPtr))
	decl("log", lltypes.Void, ir.NewParam("str", strPtr))
	decl("read_line", strPtr)

	// arrays and slices
	decl("array_new", arrPtr,
		ir.NewParam("elem_size", lltypes.I64), ir.NewParam("len", lltypes.I64))
	decl("array_free", lltypes.Void, ir.NewParam("arr", arrPtr))
	decl("array_get", lltypes.I8Ptr,
		ir.NewParam("arr", arrPtr), ir.NewParam("index", lltypes.I64))
	decl("array_set", lltypes.Void,
		ir.NewParam("arr", arrPtr), ir.NewParam("index", lltypes.I64),
		ir.NewParam("value", lltypes.I8Ptr))

	// a slice wraps a view (start, length) over a backing array
	decl("slice_new", slicePtr,
		ir.NewParam("arr", arrPtr), ir.NewParam("start", lltypes.I64),
		ir.NewParam("len", lltypes.I64))
	decl("slice_free", lltypes.Void, ir.NewParam("slice", slicePtr))

	// utilities
	decl("sleep", lltypes.Void, ir.NewParam("ms", lltypes.I32))
	decl("timestamp_ms", lltypes.I64)
	decl("status_string", strPtr, ir.NewParam("code", lltypes.I32))

	// C compatibility layer
	cdecl := func(name string, ret lltypes.Type, params ...*ir.Param) *ir.Func {
		f := g.mod.NewFunc(name, ret, params...)
		g.rtFuncs[name] = f
		return f
	}

	printf := cdecl("printf", lltypes.I32, ir.NewParam("format", lltypes.I8Ptr))
	printf.Sig.Variadic = true
	cdecl("malloc", lltypes.I8Ptr, ir.NewParam("size", lltypes.I64))
	cdecl("free", lltypes.Void, ir.NewParam("ptr", lltypes.I8Ptr))
}

// rt returns the declared runtime function with the given unprefixed name.
func (g *Generator) rt(name string) *ir.Func {
	return g.rtFuncs[common.RuntimePrefix+name]
}

// getPowFunc declares the float exponentiation intrinsic on first use.
func (g *Generator) getPowFunc() *ir.Func {
	if g.powFunc == nil {
		g.powFunc = g.mod.NewFunc("llvm.pow.f64", lltypes.Double,
			ir.NewParam("x", lltypes.Double), ir.NewParam("y", lltypes.Double))
	}

	return g.powFunc
}
