package types

import "testing"

func TestIntegerWidening(t *testing.T) {
	if !AssignableTo(I8Type, I64Type) {
		t.Error("expected i8 to be assignable to i64")
	}

	if !AssignableTo(U16Type, U32Type) {
		t.Error("expected u16 to be assignable to u32")
	}

	if AssignableTo(I64Type, I8Type) {
		t.Error("expected i64 not to be assignable to i8")
	}

	if AssignableTo(I32Type, U64Type) {
		t.Error("expected i32 not to be assignable to u64 (signedness mismatch)")
	}
}

func TestIntToFloat(t *testing.T) {
	if !AssignableTo(I32Type, F64Type) {
		t.Error("expected i32 to be assignable to f64")
	}

	if !AssignableTo(U8Type, F32Type) {
		t.Error("expected u8 to be assignable to f32")
	}

	if AssignableTo(F32Type, I32Type) {
		t.Error("expected f32 not to be assignable to i32")
	}
}

func TestStatusAndHandleAliases(t *testing.T) {
	if !AssignableTo(StatusType, I32Type) || !AssignableTo(I32Type, StatusType) {
		t.Error("expected status and i32 to be mutually assignable")
	}

	if !AssignableTo(HandleType, U64Type) || !AssignableTo(U64Type, HandleType) {
		t.Error("expected handle and u64 to be mutually assignable")
	}

	if AssignableTo(StatusType, I16Type) {
		t.Error("expected status not to be assignable to i16")
	}
}

func TestNamedTypeEquality(t *testing.T) {
	a := &Type{Kind: KindStruct, Name: "Point", Fields: []Field{{"x", I32Type}}}
	b := &Type{Kind: KindStruct, Name: "Point"}
	c := &Type{Kind: KindStruct, Name: "Vector"}

	if !Equal(a, b) {
		t.Error("expected struct types with the same name to be equal")
	}

	if Equal(a, c) {
		t.Error("expected struct types with different names to be unequal")
	}
}

func TestCompositeEquality(t *testing.T) {
	if !Equal(NewPointer(I8Type), NewPointer(I8Type)) {
		t.Error("expected identical pointer types to be equal")
	}

	if Equal(NewPointer(I8Type), NewPointer(I16Type)) {
		t.Error("expected pointer types with different elements to be unequal")
	}

	if !Equal(NewTuple(I32Type, BoolType), NewTuple(I32Type, BoolType)) {
		t.Error("expected identical tuple types to be equal")
	}
}

func TestRepr(t *testing.T) {
	if r := NewPointer(U8Type).Repr(); r != "ptr[u8]" {
		t.Errorf("expected `ptr[u8]`, got `%s`", r)
	}

	if r := NewFunc([]*Type{I32Type, I32Type}, StatusType).Repr(); r != "func(i32, i32) -> status" {
		t.Errorf("expected `func(i32, i32) -> status`, got `%s`", r)
	}
}
