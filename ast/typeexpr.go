package ast

// PrimTypeExpr represents a primitive type label: eg. `i32` or `status`.
type PrimTypeExpr struct {
	TypeExprBase

	// The token kind of the primitive type keyword.
	Kind int
}

// NamedTypeExpr represents a type label referring to a user-defined type by
// name: eg. a struct or enum name.
type NamedTypeExpr struct {
	TypeExprBase

	// The name of the type.
	Name string
}

// PointerTypeExpr represents a raw pointer type label.  The element type is
// optional: a bare `ptr` is a pointer to untyped memory.
type PointerTypeExpr struct {
	TypeExprBase

	// The optional element type label.
	Elem TypeExpr
}

// ArrayTypeExpr represents an array type label: `array[T]`.
type ArrayTypeExpr struct {
	TypeExprBase

	// The element type label.
	Elem TypeExpr
}

// SliceTypeExpr represents a slice type label: `slice[T]`.
type SliceTypeExpr struct {
	TypeExprBase

	// The element type label.
	Elem TypeExpr
}

// ResultTypeExpr represents a result type label: `result[T]`.
type ResultTypeExpr struct {
	TypeExprBase

	// The wrapped value type label.
	Elem TypeExpr
}

// TupleTypeExpr represents a tuple type label: `tuple[T1, T2]`.
type TupleTypeExpr struct {
	TypeExprBase

	// The component type labels.
	Elems []TypeExpr
}
