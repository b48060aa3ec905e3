package sema

import (
	"aegisc/ast"
	"aegisc/report"
	"aegisc/types"
)

// Walker is responsible for semantic analysis of a parsed source file: name
// resolution and type checking.  Checking is two-pass: all top-level
// definitions are declared before any function body is checked, so functions
// may refer to definitions occurring later in the file.
//
// Errors are accumulated rather than raised: one bad statement should not
// hide the errors in the statements after it.
type Walker struct {
	file *ast.File

	// The stack of local scope frames.  The first frame is the file's root
	// scope holding all top-level definitions and builtins.
	frames []*scopeFrame

	// typeMap records the checked type of every expression node, keyed by
	// node pointer identity.
	typeMap map[ast.ASTNode]*types.Type

	// The accumulated semantic errors.
	errors []*report.CompileError

	// The return type of the function currently being checked.
	enclosingReturn *types.Type

	// The current loop nesting depth: used to validate break and continue.
	loopDepth int
}

// scopeFrame is a single frame of the scope stack.  Each kind of symbol gets
// its own table so that, eg., a struct and a variable with the same name do
// not collide.
type scopeFrame struct {
	vars    map[string]*Symbol
	funcs   map[string]*Symbol
	structs map[string]*types.Type
	enums   map[string]*enumInfo
}

// enumInfo records an enum type together with its variant values.
type enumInfo struct {
	typ      *types.Type
	variants map[string]int64
}

// Symbol represents a single named value or function.
type Symbol struct {
	// The name of the symbol.
	Name string

	// The type of the symbol.  For functions, this is a function type.
	Type *types.Type

	// Whether the symbol can be assigned to.
	Mutable bool

	// Whether the symbol is a compiler builtin.  Builtin functions are
	// checked loosely: unknown-typed parameters skip argument checking.
	Builtin bool

	// The span where the symbol is defined.  Nil for builtins.
	DefSpan *report.TextSpan
}

// NewWalker creates a new walker for the given source file.
func NewWalker(file *ast.File) *Walker {
	w := &Walker{
		file:    file,
		typeMap: make(map[ast.ASTNode]*types.Type),
	}

	// The root frame is pre-seeded with the builtins and the status code
	// constants.
	root := newScopeFrame()
	for name, sym := range builtinFuncs() {
		root.funcs[name] = sym
	}

	for name := range StatusCodes {
		root.vars[name] = &Symbol{
			Name:    name,
			Type:    types.StatusType,
			Builtin: true,
		}
	}

	w.frames = []*scopeFrame{root}
	return w
}

// Walk performs the full two-pass semantic analysis of the file.
func (w *Walker) Walk() {
	// Pass one: declare all top-level definitions.
	for _, def := range w.file.Defs {
		w.declareDef(def)
	}

	// Pass two: check all function bodies.
	for _, def := range w.file.Defs {
		if fd, ok := def.(*ast.FuncDef); ok {
			w.walkFuncBody(fd)
		}
	}
}

// Errors returns the accumulated semantic errors.
func (w *Walker) Errors() []*report.CompileError {
	return w.errors
}

// TypeOf returns the checked type of the given node.  It returns the unknown
// type for nodes that were never assigned one.
func (w *Walker) TypeOf(node ast.ASTNode) *types.Type {
	if typ, ok := w.typeMap[node]; ok {
		return typ
	}

	return types.UnknownType
}

// TypeMap exposes the expression type table for the code generator.
func (w *Walker) TypeMap() map[ast.ASTNode]*types.Type {
	return w.typeMap
}

// -----------------------------------------------------------------------------

func newScopeFrame() *scopeFrame {
	return &scopeFrame{
		vars:    make(map[string]*Symbol),
		funcs:   make(map[string]*Symbol),
		structs: make(map[string]*types.Type),
		enums:   make(map[string]*enumInfo),
	}
}

// pushScope pushes a new scope frame onto the scope stack.
func (w *Walker) pushScope() {
	w.frames = append(w.frames, newScopeFrame())
}

// popScope pops the top scope frame off the scope stack.
func (w *Walker) popScope() {
	w.frames = w.frames[:len(w.frames)-1]
}

// currentScope returns the top scope frame.
func (w *Walker) currentScope() *scopeFrame {
	return w.frames[len(w.frames)-1]
}

// defineVar defines a variable in the current scope frame.
func (w *Walker) defineVar(sym *Symbol) {
	scope := w.currentScope()
	if _, ok := scope.vars[sym.Name]; ok {
		w.error(sym.DefSpan, "multiple symbols named `%s` declared in scope", sym.Name)
		return
	}

	scope.vars[sym.Name] = sym
}

// lookupVar finds a variable by name, searching scopes innermost first.
func (w *Walker) lookupVar(name string) (*Symbol, bool) {
	for i := len(w.frames) - 1; i >= 0; i-- {
		if sym, ok := w.frames[i].vars[name]; ok {
			return sym, true
		}
	}

	return nil, false
}

// lookupFunc finds a function by name, searching scopes innermost first.
func (w *Walker) lookupFunc(name string) (*Symbol, bool) {
	for i := len(w.frames) - 1; i >= 0; i-- {
		if sym, ok := w.frames[i].funcs[name]; ok {
			return sym, true
		}
	}

	return nil, false
}

// lookupStruct finds a struct type by name.
func (w *Walker) lookupStruct(name string) (*types.Type, bool) {
	for i := len(w.frames) - 1; i >= 0; i-- {
		if st, ok := w.frames[i].structs[name]; ok {
			return st, true
		}
	}

	return nil, false
}

// lookupEnum finds an enum by name.
func (w *Walker) lookupEnum(name string) (*enumInfo, bool) {
	for i := len(w.frames) - 1; i >= 0; i-- {
		if en, ok := w.frames[i].enums[name]; ok {
			return en, true
		}
	}

	return nil, false
}

// -----------------------------------------------------------------------------

// error records a new semantic error.
func (w *Walker) error(span *report.TextSpan, msg string, args ...interface{}) {
	w.errors = append(w.errors, report.Raise(span, msg, args...))
}

// setType records the checked type of a node and returns it.
func (w *Walker) setType(node ast.ASTNode, typ *types.Type) *types.Type {
	w.typeMap[node] = typ
	return typ
}
