package types

import (
	"fmt"
	"strings"
)

// Enumeration of the different kinds of Aegis types.
const (
	KindI8 = iota
	KindI16
	KindI32
	KindI64
	KindU8
	KindU16
	KindU32
	KindU64
	KindF32
	KindF64
	KindBool
	KindChar
	KindString
	KindVoid

	// Status is the language's status code type.  It is layout-compatible
	// with i32 and assignable in both directions.
	KindStatus

	// Handle is the language's OS handle type.  It is layout-compatible with
	// u64 and assignable in both directions.
	KindHandle

	KindPointer
	KindArray
	KindSlice
	KindTuple
	KindResult
	KindFunc
	KindStruct
	KindEnum
	KindTrait

	// Unknown is the type given to expressions whose type could not be
	// determined but which should not produce further errors.
	KindUnknown

	// Error is the type given to expressions which already failed checking.
	KindError
)

// Type represents an Aegis data type.  Types are modeled as a single tagged
// union struct rather than an interface hierarchy: the kind field determines
// which of the other fields are meaningful.
type Type struct {
	// The kind of the type.  This must be one of the enumerated type kinds.
	Kind int

	// The element type for pointer, array, slice, and result types.
	Elem *Type

	// The component types of a tuple type.
	Elems []*Type

	// The parameter types of a function type.
	Params []*Type

	// The return type of a function type.
	Return *Type

	// The name of a struct, enum, or trait type.  Named types compare by
	// name: two struct types are equal exactly when their names are equal.
	Name string

	// The fields of a struct type in declaration order.
	Fields []Field
}

// Field is a single named field of a struct type.
type Field struct {
	Name string
	Type *Type
}

// -----------------------------------------------------------------------------

// The shared singleton instances of all the primitive types.
var (
	I8Type      = &Type{Kind: KindI8}
	I16Type     = &Type{Kind: KindI16}
	I32Type     = &Type{Kind: KindI32}
	I64Type     = &Type{Kind: KindI64}
	U8Type      = &Type{Kind: KindU8}
	U16Type     = &Type{Kind: KindU16}
	U32Type     = &Type{Kind: KindU32}
	U64Type     = &Type{Kind: KindU64}
	F32Type     = &Type{Kind: KindF32}
	F64Type     = &Type{Kind: KindF64}
	BoolType    = &Type{Kind: KindBool}
	CharType    = &Type{Kind: KindChar}
	StringType  = &Type{Kind: KindString}
	VoidType    = &Type{Kind: KindVoid}
	StatusType  = &Type{Kind: KindStatus}
	HandleType  = &Type{Kind: KindHandle}
	UnknownType = &Type{Kind: KindUnknown}
	ErrorType   = &Type{Kind: KindError}
)

// NewPointer returns a new pointer type to the given element type.
func NewPointer(elem *Type) *Type {
	return &Type{Kind: KindPointer, Elem: elem}
}

// NewArray returns a new array type of the given element type.
func NewArray(elem *Type) *Type {
	return &Type{Kind: KindArray, Elem: elem}
}

// NewSlice returns a new slice type of the given element type.
func NewSlice(elem *Type) *Type {
	return &Type{Kind: KindSlice, Elem: elem}
}

// NewTuple returns a new tuple type of the given component types.
func NewTuple(elems ...*Type) *Type {
	return &Type{Kind: KindTuple, Elems: elems}
}

// NewResult returns a new result type wrapping the given value type.
func NewResult(elem *Type) *Type {
	return &Type{Kind: KindResult, Elem: elem}
}

// NewFunc returns a new function type.
func NewFunc(params []*Type, ret *Type) *Type {
	return &Type{Kind: KindFunc, Params: params, Return: ret}
}

// -----------------------------------------------------------------------------

// IsInteger returns whether t is an integral type.  The status and handle
// types count as integral since they are layout-compatible with i32 and u64.
func (t *Type) IsInteger() bool {
	return t.Kind <= KindU64 || t.Kind == KindStatus || t.Kind == KindHandle
}

// IsFloat returns whether t is a floating-point type.
func (t *Type) IsFloat() bool {
	return t.Kind == KindF32 || t.Kind == KindF64
}

// IsNumeric returns whether t is a numeric type.
func (t *Type) IsNumeric() bool {
	return t.IsInteger() || t.IsFloat()
}

// IsSigned returns whether t is a signed integral type.
func (t *Type) IsSigned() bool {
	return t.Kind <= KindI64 || t.Kind == KindStatus
}

// Bits returns the bit width of a numeric type.  It returns 0 for
// non-numeric types.
func (t *Type) Bits() int {
	switch t.Kind {
	case KindI8, KindU8:
		return 8
	case KindI16, KindU16:
		return 16
	case KindI32, KindU32, KindStatus, KindF32:
		return 32
	case KindI64, KindU64, KindHandle, KindF64:
		return 64
	}

	return 0
}

// -----------------------------------------------------------------------------

// Equal returns whether two types are equal.  Equality is structural for all
// composite types except structs, enums, and traits, which compare by name.
func Equal(a, b *Type) bool {
	if a.Kind != b.Kind {
		return false
	}

	switch a.Kind {
	case KindPointer, KindArray, KindSlice, KindResult:
		return Equal(a.Elem, b.Elem)
	case KindTuple:
		if len(a.Elems) != len(b.Elems) {
			return false
		}

		for i, elem := range a.Elems {
			if !Equal(elem, b.Elems[i]) {
				return false
			}
		}

		return true
	case KindFunc:
		if len(a.Params) != len(b.Params) || !Equal(a.Return, b.Return) {
			return false
		}

		for i, param := range a.Params {
			if !Equal(param, b.Params[i]) {
				return false
			}
		}

		return true
	case KindStruct, KindEnum, KindTrait:
		return a.Name == b.Name
	}

	return true
}

// AssignableTo returns whether a value of type src can be assigned to a
// location of type dst.  Assignability is equality plus a small set of
// implicit conversions:
//
//   - integer widening between integers of the same signedness,
//   - any integer to any floating-point type,
//   - status and i32 in both directions,
//   - handle and u64 in both directions.
func AssignableTo(src, dst *Type) bool {
	// Error and unknown types are assignable to everything so that one bad
	// expression doesn't cascade into a wall of secondary errors.
	if src.Kind == KindError || src.Kind == KindUnknown ||
		dst.Kind == KindError || dst.Kind == KindUnknown {
		return true
	}

	if Equal(src, dst) {
		return true
	}

	// The status and handle aliases.
	if src.Kind == KindStatus && dst.Kind == KindI32 ||
		src.Kind == KindI32 && dst.Kind == KindStatus {
		return true
	}

	if src.Kind == KindHandle && dst.Kind == KindU64 ||
		src.Kind == KindU64 && dst.Kind == KindHandle {
		return true
	}

	// Integer widening preserves signedness.
	if src.IsInteger() && dst.IsInteger() {
		return src.IsSigned() == dst.IsSigned() && src.Bits() <= dst.Bits()
	}

	// Any integer may be assigned to any float.
	if src.IsInteger() && dst.IsFloat() {
		return true
	}

	return false
}

// -----------------------------------------------------------------------------

// reprNames maps primitive type kinds to their source-level names.
var reprNames = map[int]string{
	KindI8:      "i8",
	KindI16:     "i16",
	KindI32:     "i32",
	KindI64:     "i64",
	KindU8:      "u8",
	KindU16:     "u16",
	KindU32:     "u32",
	KindU64:     "u64",
	KindF32:     "f32",
	KindF64:     "f64",
	KindBool:    "bool",
	KindChar:    "char",
	KindString:  "string",
	KindVoid:    "void",
	KindStatus:  "status",
	KindHandle:  "handle",
	KindUnknown: "<unknown>",
	KindError:   "<error>",
}

// Repr returns the string representation of a type as it would be written in
// Aegis source text.
func (t *Type) Repr() string {
	if name, ok := reprNames[t.Kind]; ok {
		return name
	}

	switch t.Kind {
	case KindPointer:
		return "ptr[" + t.Elem.Repr() + "]"
	case KindArray:
		return "array[" + t.Elem.Repr() + "]"
	case KindSlice:
		return "slice[" + t.Elem.Repr() + "]"
	case KindResult:
		return "result[" + t.Elem.Repr() + "]"
	case KindTuple:
		elems := make([]string, len(t.Elems))
		for i, elem := range t.Elems {
			elems[i] = elem.Repr()
		}

		return "(" + strings.Join(elems, ", ") + ")"
	case KindFunc:
		params := make([]string, len(t.Params))
		for i, param := range t.Params {
			params[i] = param.Repr()
		}

		return fmt.Sprintf("func(%s) -> %s", strings.Join(params, ", "), t.Return.Repr())
	case KindStruct, KindEnum, KindTrait:
		return t.Name
	}

	return "<invalid>"
}
