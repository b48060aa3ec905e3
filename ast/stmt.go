package ast

import "aegisc/report"

// Block represents an indented block of statements.
type Block struct {
	ASTBase

	// The statements comprising the block.
	Stmts []Statement
}

// -----------------------------------------------------------------------------

// VarDecl represents a `let` or `var` variable declaration.
type VarDecl struct {
	StmtBase

	// Whether the variable was declared with `var` (mutable) as opposed to
	// `let` (immutable).
	Mutable bool

	// The name of the variable.
	Name string

	// The span of the variable's name.
	NameSpan *report.TextSpan

	// The optional explicit type label of the variable.
	TypeLabel TypeExpr

	// The initializer of the variable.
	Initializer Expr
}

// Assignment represents an assignment statement, possibly compound.
type Assignment struct {
	StmtBase

	// The LHS expression being assigned to.
	LHS Expr

	// The token kind of the compound operator if the assignment is compound:
	// eg. the kind of `+` for `+=`.  This is -1 for plain assignment.
	CompoundOp int

	// The span of the assignment operator.
	OpSpan *report.TextSpan

	// The RHS expression being assigned.
	RHS Expr
}

// -----------------------------------------------------------------------------

// IfStmt represents an if/elif/else statement.
type IfStmt struct {
	StmtBase

	// The conditional branches of the statement: the if branch followed by
	// all elif branches in order.
	Branches []CondBranch

	// The optional else block.
	ElseBlock *Block
}

// CondBranch is a single conditional branch of an if statement.
type CondBranch struct {
	// The branch condition.
	Cond Expr

	// The branch body.
	Body *Block
}

// WhileStmt represents a while loop.
type WhileStmt struct {
	StmtBase

	// The loop condition.
	Cond Expr

	// The loop body.
	Body *Block
}

// ForStmt represents a `for x in iterable` loop.
type ForStmt struct {
	StmtBase

	// The name of the loop variable.
	VarName string

	// The span of the loop variable's name.
	VarSpan *report.TextSpan

	// The expression being iterated over.
	Iterable Expr

	// The loop body.
	Body *Block
}

// MatchStmt represents a match statement.
type MatchStmt struct {
	StmtBase

	// The expression being matched on.
	Subject Expr

	// The cases of the match statement in order of declaration.
	Cases []MatchCase
}

// MatchCase is a single case of a match statement.
type MatchCase struct {
	// The pattern expression of the case.  A lone `_` identifier is the
	// wildcard pattern.
	Pattern Expr

	// The case body.
	Body *Block
}

// TryChainStmt represents a try_chain statement.  The primary block is
// required; the secondary and fallback blocks are optional.
type TryChainStmt struct {
	StmtBase

	Primary   *Block
	Secondary *Block
	Fallback  *Block
}

// -----------------------------------------------------------------------------

// ReturnStmt represents a return statement.
type ReturnStmt struct {
	StmtBase

	// The value being returned.  This is nil for a bare `return`.
	Value Expr
}

// KeywordStmt represents a single keyword statement: `break`, `continue`, or
// `pass`.
type KeywordStmt struct {
	StmtBase

	// The token kind of the keyword.
	Kind int
}

// DeferStmt represents a defer statement.
type DeferStmt struct {
	StmtBase

	// The call being deferred.
	Call Expr
}

// ExprStmt represents an expression used as a statement.
type ExprStmt struct {
	StmtBase

	// The wrapped expression.
	Expr Expr
}
