package ast

import "aegisc/report"

// ModuleDecl represents a `module a.b.c` declaration.
type ModuleDecl struct {
	ASTBase

	// The dotted path components of the module name.
	Path []string
}

// ImportStmt represents an `import a.b [as x]` statement.
type ImportStmt struct {
	StmtBase

	// The dotted path components of the imported module.
	Path []string

	// The optional alias for the imported module.
	Alias string
}

// FromImportStmt represents a `from a.b import x, y` statement.
type FromImportStmt struct {
	StmtBase

	// The dotted path components of the source module.
	Path []string

	// The names being imported from the module.
	Names []string
}

// -----------------------------------------------------------------------------

// FuncDef represents a function definition.
type FuncDef struct {
	ASTBase

	// The decorators applied to the function.
	Decorators []*Decorator

	// The name of the function.
	Name string

	// The span of the function's name.
	NameSpan *report.TextSpan

	// The parameters of the function in order of declaration.
	Params []FuncParam

	// The return type label of the function.  This is nil if the function
	// returns nothing.
	ReturnType TypeExpr

	// The body of the function.
	Body *Block
}

// FuncParam is a single named function parameter.
type FuncParam struct {
	// The name of the parameter.
	Name string

	// The span of the parameter's name.
	NameSpan *report.TextSpan

	// The type label of the parameter.
	Type TypeExpr
}

// -----------------------------------------------------------------------------

// StructDef represents a struct definition.
type StructDef struct {
	ASTBase

	// The name of the struct.
	Name string

	// The span of the struct's name.
	NameSpan *report.TextSpan

	// The fields of the struct in order of declaration.
	Fields []StructField
}

// StructField is a single named struct field.
type StructField struct {
	// The name of the field.
	Name string

	// The span of the field's name.
	NameSpan *report.TextSpan

	// The type label of the field.
	Type TypeExpr
}

// EnumDef represents an enum definition.
type EnumDef struct {
	ASTBase

	// The name of the enum.
	Name string

	// The span of the enum's name.
	NameSpan *report.TextSpan

	// The variants of the enum in order of declaration.
	Variants []EnumVariant
}

// EnumVariant is a single enum variant with its resolved integer value.
type EnumVariant struct {
	// The name of the variant.
	Name string

	// The span of the variant's name.
	NameSpan *report.TextSpan

	// The integer value of the variant.  Variants without an explicit
	// initializer receive the previous value plus one, starting from zero.
	Value int64
}
