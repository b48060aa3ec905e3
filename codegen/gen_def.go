package codegen

import (
	"aegisc/ast"
	"aegisc/types"

	"github.com/llir/llvm/ir"
	lltypes "github.com/llir/llvm/ir/types"
)

// genStructDef defines a named LLVM struct type for a struct definition.
func (g *Generator) genStructDef(sd *ast.StructDef) {
	semType := g.typeOf(sd)
	if semType.Kind != types.KindStruct {
		return
	}

	fields := make([]lltypes.Type, len(semType.Fields))
	for i, field := range semType.Fields {
		fields[i] = g.convType(field.Type)
	}

	g.structTypes[sd.Name] = g.mod.NewTypeDef(sd.Name, lltypes.NewStruct(fields...))
}

// genEnumDef defines an enum's named type and records its variant table.
func (g *Generator) genEnumDef(ed *ast.EnumDef) {
	g.structTypes[ed.Name] = g.mod.NewTypeDef(ed.Name, lltypes.I32)

	variants := make(map[string]int64)
	for _, variant := range ed.Variants {
		variants[variant.Name] = variant.Value
	}

	g.enumVariants[ed.Name] = variants
}

// -----------------------------------------------------------------------------

// registerFunc declares a function from its signature without generating its
// body so bodies can call functions defined later in the file.
func (g *Generator) registerFunc(fd *ast.FuncDef) {
	fnType := g.typeOf(fd)
	if fnType.Kind != types.KindFunc {
		return
	}

	params := make([]*ir.Param, len(fd.Params))
	for i, param := range fd.Params {
		params[i] = ir.NewParam(param.Name, g.convType(fnType.Params[i]))
	}

	g.funcs[fd.Name] = g.mod.NewFunc(fd.Name, g.convType(fnType.Return), params...)
	g.funcTypes[fd.Name] = fnType
}

// genFuncDef generates a function's body.
func (g *Generator) genFuncDef(fd *ast.FuncDef) {
	llFunc, ok := g.funcs[fd.Name]
	if !ok {
		return
	}

	fnType := g.funcTypes[fd.Name]

	// reset the per-function state
	g.enclosingFunc = llFunc
	g.enclosingReturn = fnType.Return
	g.deferred = nil
	g.loopHeaders = nil
	g.loopExits = nil

	g.block = llFunc.NewBlock("entry")

	g.pushScope()
	defer g.popScope()

	// parameters bind directly to their LLVM values
	for i, param := range fd.Params {
		g.defineLocal(param.Name, llFunc.Params[i], fnType.Params[i], false)
	}

	// the entry point brings the runtime up before anything else runs
	if fd.Name == "main" {
		g.block.NewCall(g.rt("runtime_init"))
	}

	g.genBlock(fd.Body)

	// fall off the end of the body
	if g.block.Term == nil {
		g.genDeferred()

		if fnType.Return.Kind == types.KindVoid {
			g.block.NewRet(nil)
		} else {
			g.block.NewRet(g.zeroValue(fnType.Return))
		}
	}
}

// genDeferred generates the enclosing function's deferred calls in reverse
// order.  Called before every return.
func (g *Generator) genDeferred() {
	for i := len(g.deferred) - 1; i >= 0; i-- {
		g.genCall(g.deferred[i])
	}
}
