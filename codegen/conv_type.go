package codegen

import (
	"aegisc/types"

	lltypes "github.com/llir/llvm/ir/types"
)

// convType converts a semantic type to its LLVM representation.  Signedness
// is erased: it only drives instruction selection.  The `status` and `handle`
// aliases share the representation of their underlying integers.
func (g *Generator) convType(typ *types.Type) lltypes.Type {
	switch typ.Kind {
	case types.KindI8, types.KindU8, types.KindChar:
		return lltypes.I8
	case types.KindI16, types.KindU16:
		return lltypes.I16
	case types.KindI32, types.KindU32, types.KindStatus:
		return lltypes.I32
	case types.KindI64, types.KindU64, types.KindHandle:
		return lltypes.I64
	case types.KindF32:
		return lltypes.Float
	case types.KindF64:
		return lltypes.Double
	case types.KindBool:
		return lltypes.I1
	case types.KindVoid:
		return lltypes.Void
	case types.KindString:
		return lltypes.NewPointer(g.stringType)
	case types.KindPointer:
		if typ.Elem.Kind == types.KindVoid {
			return lltypes.I8Ptr
		}

		return lltypes.NewPointer(g.convType(typ.Elem))
	case types.KindArray:
		return lltypes.NewPointer(g.arrayType)
	case types.KindSlice:
		return lltypes.NewPointer(g.sliceType)
	case types.KindResult:
		// a result is a status code paired with a payload
		if typ.Elem.Kind == types.KindVoid {
			return lltypes.NewStruct(lltypes.I32)
		}

		return lltypes.NewStruct(lltypes.I32, g.convType(typ.Elem))
	case types.KindTuple:
		elems := make([]lltypes.Type, len(typ.Elems))
		for i, elem := range typ.Elems {
			elems[i] = g.convType(elem)
		}

		return lltypes.NewStruct(elems...)
	case types.KindFunc:
		params := make([]lltypes.Type, len(typ.Params))
		for i, param := range typ.Params {
			params[i] = g.convType(param)
		}

		return lltypes.NewPointer(lltypes.NewFunc(g.convType(typ.Return), params...))
	case types.KindStruct:
		if llTyp, ok := g.structTypes[typ.Name]; ok {
			return llTyp
		}
	case types.KindEnum:
		return lltypes.I32
	}

	// unknown and error types only reach codegen behind zero-value
	// placeholders, which are generated as i32
	return lltypes.I32
}
