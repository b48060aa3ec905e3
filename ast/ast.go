package ast

import "aegisc/report"

// The abstract interface for all AST nodes.
type ASTNode interface {
	// The text span of the AST.
	Span() *report.TextSpan
}

// A utility base struct for all AST nodes.
type ASTBase struct {
	// The span over which the AST node occurs.
	span *report.TextSpan
}

// NewASTBaseOn creates a new AST base with the given span.
func NewASTBaseOn(span *report.TextSpan) ASTBase {
	return ASTBase{span: span}
}

// NewASTBaseOver creates a new AST base spanning over two spans.
func NewASTBaseOver(start, end *report.TextSpan) ASTBase {
	return ASTBase{span: report.NewSpanOver(start, end)}
}

func (ab ASTBase) Span() *report.TextSpan {
	return ab.span
}

// -----------------------------------------------------------------------------

// Expr is the interface implemented by all expression nodes.
type Expr interface {
	ASTNode

	exprNode()
}

// ExprBase is the base struct for all expression nodes.
type ExprBase struct {
	ASTBase
}

func (eb ExprBase) exprNode() {}

// Statement is the interface implemented by all statement nodes.
type Statement interface {
	ASTNode

	stmtNode()
}

// StmtBase is the base struct for all statement nodes.
type StmtBase struct {
	ASTBase
}

func (sb StmtBase) stmtNode() {}

// TypeExpr is the interface implemented by all type label nodes.
type TypeExpr interface {
	ASTNode

	typeExprNode()
}

// TypeExprBase is the base struct for all type label nodes.
type TypeExprBase struct {
	ASTBase
}

func (tb TypeExprBase) typeExprNode() {}

// -----------------------------------------------------------------------------

// File represents a single parsed Aegis source file.
type File struct {
	// The absolute path to the source file.
	AbsPath string

	// The representative path of the source file: the path as it should be
	// displayed to the user in error messages.
	ReprPath string

	// The file-level decorators occurring before the module declaration.
	Decorators []*Decorator

	// The module declaration of the file, if any.
	Module *ModuleDecl

	// The import statements of the file.
	Imports []Statement

	// The top-level definitions of the file.
	Defs []ASTNode
}

// Decorator represents a single `@name(...)` decorator.
type Decorator struct {
	ASTBase

	// The name of the decorator without the leading `@`.
	Name string

	// The arguments to the decorator in order of occurrence.
	Args []DecoratorArg
}

// DecoratorArg is a single named decorator argument of the form `name: value`.
type DecoratorArg struct {
	// The argument name.
	Name string

	// The raw string value of the argument.  For identifier values, this is
	// the identifier itself; for string literal values, the literal contents.
	Value string

	// The span of the argument value.
	ValueSpan *report.TextSpan
}

// GetArg returns the value of the named decorator argument if it exists.
func (d *Decorator) GetArg(name string) (string, bool) {
	for _, arg := range d.Args {
		if arg.Name == name {
			return arg.Value, true
		}
	}

	return "", false
}

// HasDecorator returns whether the given decorator list contains a decorator
// with the given name.
func HasDecorator(decors []*Decorator, name string) bool {
	for _, decor := range decors {
		if decor.Name == name {
			return true
		}
	}

	return false
}
