package sema

import "aegisc/types"

// StatusCodes maps the built-in status constants to their numeric values.
// These constants are pre-seeded into every file's root scope with the
// status type.
var StatusCodes = map[string]int64{
	"SUCCESS":           0,
	"GENERIC_ERROR":     1,
	"ACCESS_DENIED":     2,
	"TIMEOUT":           3,
	"NOT_FOUND":         4,
	"INVALID_PARAMETER": 5,
}

// builtinFuncs returns the function symbols pre-seeded into every file's
// root scope.  Parameters of the unknown type are generic: arguments bound
// to them are not checked.
func builtinFuncs() map[string]*Symbol {
	generic := []*types.Type{types.UnknownType}

	return map[string]*Symbol{
		"print":     builtinFunc("print", generic, types.VoidType),
		"println":   builtinFunc("println", generic, types.VoidType),
		"log":       builtinFunc("log", generic, types.VoidType),
		"read_line": builtinFunc("read_line", nil, types.StringType),
		"len":       builtinFunc("len", generic, types.I32Type),
		"alloc":     builtinFunc("alloc", generic, types.NewPointer(types.VoidType)),
		"free":      builtinFunc("free", generic, types.VoidType),
		"sleep":     builtinFunc("sleep", generic, types.VoidType),
		"range":     builtinFunc("range", generic, types.NewSlice(types.I32Type)),

		"timestamp_ms":  builtinFunc("timestamp_ms", nil, types.U64Type),
		"status_string": builtinFunc("status_string", []*types.Type{types.StatusType}, types.StringType),
	}
}

func builtinFunc(name string, params []*types.Type, ret *types.Type) *Symbol {
	return &Symbol{
		Name:    name,
		Type:    types.NewFunc(params, ret),
		Builtin: true,
	}
}
