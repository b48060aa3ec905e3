package codegen

import (
	"fmt"

	"aegisc/ast"
	"aegisc/common"
	"aegisc/types"

	"github.com/llir/llvm/ir"
	lltypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// LLVMIdent is the type used for LLVM identifiers.  It stores the value, its
// semantic type, and whether the value lives in stack memory and has to be
// loaded explicitly to be used.  Parameters bind directly to their LLVM
// values; declared variables are alloca-backed.
type LLVMIdent struct {
	Val      value.Value
	Typ      *types.Type
	InMemory bool
}

// Generator is responsible for converting a checked Aegis file into an LLVM
// module.
type Generator struct {
	// file is the source file being converted.
	file *ast.File

	// typeMap is the expression type annotation table produced by checking.
	typeMap map[ast.ASTNode]*types.Type

	// mod is the LLVM module being generated.
	mod *ir.Module

	// rtFuncs is the table of runtime ABI functions by name.
	rtFuncs map[string]*ir.Func

	// funcs is the table of user-defined functions by name.
	funcs map[string]*ir.Func

	// funcTypes stores the semantic signature of each user-defined function.
	funcTypes map[string]*types.Type

	// structTypes is a table of the named LLVM types defined in the module.
	structTypes map[string]lltypes.Type

	// enumVariants maps enum names to their variant value tables.
	enumVariants map[string]map[string]int64

	// stringType is the opaque runtime string type.
	stringType lltypes.Type

	// arrayType and sliceType are the opaque runtime aggregate types.
	arrayType lltypes.Type
	sliceType lltypes.Type

	// internedStrings caches the payload globals of interned string literals
	// by content.
	internedStrings map[string]*ir.Global

	// globalCounter is a counter used to name anonymous globals such as
	// those for interned strings.
	globalCounter int

	// powFunc is the float exponentiation intrinsic, declared on first use.
	powFunc *ir.Func

	// enclosingFunc is the function enclosing the block being compiled.
	enclosingFunc *ir.Func

	// enclosingReturn is the enclosing function's semantic return type.
	enclosingReturn *types.Type

	// block stores the current block being generated.
	block *ir.Block

	// localScopes is the stack of local scopes used during generation.
	localScopes []map[string]LLVMIdent

	// loopHeaders and loopExits are the branch targets of `continue` and
	// `break` for the enclosing loops.
	loopHeaders []*ir.Block
	loopExits   []*ir.Block

	// deferred collects the calls deferred so far in the enclosing function.
	// They are generated in reverse order before every return.
	deferred []*ast.Call
}

// NewGenerator creates a new generator for a checked file.
func NewGenerator(file *ast.File, typeMap map[ast.ASTNode]*types.Type) *Generator {
	return &Generator{
		file:            file,
		typeMap:         typeMap,
		mod:             ir.NewModule(),
		rtFuncs:         make(map[string]*ir.Func),
		funcs:           make(map[string]*ir.Func),
		funcTypes:       make(map[string]*types.Type),
		structTypes:     make(map[string]lltypes.Type),
		enumVariants:    make(map[string]map[string]int64),
		internedStrings: make(map[string]*ir.Global),
	}
}

// Generate runs the main generation algorithm for the source file.  The file
// is assumed to have checked without errors: generation always succeeds, and
// malformed or unresolvable expressions degrade to zero values.
func (g *Generator) Generate() *ir.Module {
	g.mod.SourceFilename = g.file.ReprPath
	g.mod.TargetTriple = common.TargetTriple

	g.declareRuntime()

	// define all the named types before any signatures can refer to them
	for _, def := range g.file.Defs {
		switch d := def.(type) {
		case *ast.StructDef:
			g.genStructDef(d)
		case *ast.EnumDef:
			g.genEnumDef(d)
		}
	}

	// register all function signatures so bodies can call in any order
	for _, def := range g.file.Defs {
		if fd, ok := def.(*ast.FuncDef); ok {
			g.registerFunc(fd)
		}
	}

	for _, def := range g.file.Defs {
		if fd, ok := def.(*ast.FuncDef); ok {
			g.genFuncDef(fd)
		}
	}

	return g.mod
}

// EmitText renders the generated module as LLVM assembly text.
func (g *Generator) EmitText() string {
	return fmt.Sprintf("; ModuleID = '%s'\n%s", g.file.ReprPath, g.mod.String())
}

// -----------------------------------------------------------------------------

// typeOf looks up a node's semantic type in the annotation table.
func (g *Generator) typeOf(node ast.ASTNode) *types.Type {
	if typ, ok := g.typeMap[node]; ok {
		return typ
	}

	return types.UnknownType
}

// pushScope pushes a new local scope onto the scope stack.
func (g *Generator) pushScope() {
	g.localScopes = append(g.localScopes, make(map[string]LLVMIdent))
}

// popScope pops a local scope off of the local scope stack.
func (g *Generator) popScope() {
	g.localScopes = g.localScopes[:len(g.localScopes)-1]
}

// defineLocal defines a local identifier in the current scope.
func (g *Generator) defineLocal(name string, val value.Value, typ *types.Type, inMemory bool) {
	g.localScopes[len(g.localScopes)-1][name] = LLVMIdent{val, typ, inMemory}
}

// lookup looks up a local identifier.  Scopes are searched in reverse order
// to implement shadowing.
func (g *Generator) lookup(name string) (LLVMIdent, bool) {
	for i := len(g.localScopes) - 1; i >= 0; i-- {
		if ident, ok := g.localScopes[i][name]; ok {
			return ident, true
		}
	}

	return LLVMIdent{}, false
}

// appendBlock adds a new basic block to the current function.  It does *not*
// set the current block to this new block.
func (g *Generator) appendBlock() *ir.Block {
	return g.enclosingFunc.NewBlock(fmt.Sprintf("bb%d", len(g.enclosingFunc.Blocks)))
}
