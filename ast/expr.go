package ast

import "aegisc/report"

// Oper is an operator used in the AST.
type Oper struct {
	// The token kind of the operator.
	Kind int

	// The name of the operator as it appears in source text.
	Name string

	// The span of the operator token.
	Span *report.TextSpan
}

// BinaryOp represents a binary operator application.
type BinaryOp struct {
	ExprBase

	// The operator being applied.
	Op Oper

	// The operands.
	Lhs, Rhs Expr
}

// UnaryOp represents a unary operator application.
type UnaryOp struct {
	ExprBase

	// The operator being applied.
	Op Oper

	// The operand.
	Operand Expr
}

// -----------------------------------------------------------------------------

// Call is a function call expression.
type Call struct {
	ExprBase

	// The function expression being called.
	Func Expr

	// The arguments to the call.
	Args []Expr
}

// Member represents a member access expression (x.f).
type Member struct {
	ExprBase

	// The root expression from which the member is being accessed.
	Root Expr

	// The name of the member being accessed.
	MemberName string

	// The span of the member's name.
	MemberSpan *report.TextSpan
}

// Index represents an index expression (x[i]).
type Index struct {
	ExprBase

	// The expression being indexed into.
	Root Expr

	// The subscript expression.
	Subscript Expr
}

// -----------------------------------------------------------------------------

// Identifier represents a named value.
type Identifier struct {
	ExprBase

	// The name of the identifier.
	Name string
}

// Literal represents a single literal value.
type Literal struct {
	ExprBase

	// The token kind of the literal.
	Kind int

	// The string value of the literal.
	Value string
}

// ArrayLit represents an array literal ([a, b, c]).
type ArrayLit struct {
	ExprBase

	// The element expressions of the literal.
	Elems []Expr
}

// TupleLit represents a tuple literal ((a, b)).
type TupleLit struct {
	ExprBase

	// The component expressions of the literal.
	Exprs []Expr
}
