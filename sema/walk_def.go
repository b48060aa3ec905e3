package sema

import (
	"aegisc/ast"
	"aegisc/syntax"
	"aegisc/types"
)

// declareDef declares a top-level definition in the root scope without
// checking any bodies.
func (w *Walker) declareDef(def ast.ASTNode) {
	switch d := def.(type) {
	case *ast.FuncDef:
		w.declareFunc(d)
	case *ast.StructDef:
		w.declareStruct(d)
	case *ast.EnumDef:
		w.declareEnum(d)
	}
}

// declareFunc resolves a function's signature and declares it.
func (w *Walker) declareFunc(fd *ast.FuncDef) {
	params := make([]*types.Type, len(fd.Params))
	for i, param := range fd.Params {
		params[i] = w.resolveTypeLabel(param.Type)
	}

	ret := types.VoidType
	if fd.ReturnType != nil {
		ret = w.resolveTypeLabel(fd.ReturnType)
	}

	root := w.frames[0]
	if _, ok := root.funcs[fd.Name]; ok {
		w.error(fd.NameSpan, "multiple functions named `%s` declared in file", fd.Name)
		return
	}

	fnType := types.NewFunc(params, ret)
	root.funcs[fd.Name] = &Symbol{
		Name:    fd.Name,
		Type:    fnType,
		DefSpan: fd.NameSpan,
	}

	// The definition node itself is annotated so later phases can recover
	// the resolved signature without re-resolving type labels.
	w.setType(fd, fnType)
}

// declareStruct resolves a struct's field types and declares it.
func (w *Walker) declareStruct(sd *ast.StructDef) {
	root := w.frames[0]
	if _, ok := root.structs[sd.Name]; ok {
		w.error(sd.NameSpan, "multiple types named `%s` declared in file", sd.Name)
		return
	}

	st := &types.Type{Kind: types.KindStruct, Name: sd.Name}
	for _, field := range sd.Fields {
		st.Fields = append(st.Fields, types.Field{
			Name: field.Name,
			Type: w.resolveTypeLabel(field.Type),
		})
	}

	root.structs[sd.Name] = st
	w.setType(sd, st)
}

// declareEnum declares an enum type and its variant table.
func (w *Walker) declareEnum(ed *ast.EnumDef) {
	root := w.frames[0]
	if _, ok := root.enums[ed.Name]; ok {
		w.error(ed.NameSpan, "multiple types named `%s` declared in file", ed.Name)
		return
	}

	en := &enumInfo{
		typ:      &types.Type{Kind: types.KindEnum, Name: ed.Name},
		variants: make(map[string]int64),
	}

	for _, variant := range ed.Variants {
		if _, ok := en.variants[variant.Name]; ok {
			w.error(variant.NameSpan, "multiple variants named `%s` in enum `%s`", variant.Name, ed.Name)
			continue
		}

		en.variants[variant.Name] = variant.Value
	}

	root.enums[ed.Name] = en
	w.setType(ed, en.typ)
}

// -----------------------------------------------------------------------------

// walkFuncBody checks the body of a function against its declared signature.
func (w *Walker) walkFuncBody(fd *ast.FuncDef) {
	sym, ok := w.lookupFunc(fd.Name)
	if !ok {
		// Declaration failed: nothing sensible to check against.
		return
	}

	w.enclosingReturn = sym.Type.Return

	w.pushScope()
	defer w.popScope()

	for i, param := range fd.Params {
		w.defineVar(&Symbol{
			Name:    param.Name,
			Type:    sym.Type.Params[i],
			Mutable: true,
			DefSpan: param.NameSpan,
		})
	}

	w.walkBlock(fd.Body)
}

// -----------------------------------------------------------------------------

// primTypes maps primitive type keyword token kinds to their types.
var primTypes = map[int]*types.Type{
	syntax.TOK_I8:     types.I8Type,
	syntax.TOK_I16:    types.I16Type,
	syntax.TOK_I32:    types.I32Type,
	syntax.TOK_I64:    types.I64Type,
	syntax.TOK_U8:     types.U8Type,
	syntax.TOK_U16:    types.U16Type,
	syntax.TOK_U32:    types.U32Type,
	syntax.TOK_U64:    types.U64Type,
	syntax.TOK_F32:    types.F32Type,
	syntax.TOK_F64:    types.F64Type,
	syntax.TOK_BOOL:   types.BoolType,
	syntax.TOK_CHAR:   types.CharType,
	syntax.TOK_STRING: types.StringType,
	syntax.TOK_VOID:   types.VoidType,
	syntax.TOK_STATUS: types.StatusType,
	syntax.TOK_HANDLE: types.HandleType,
}

// resolveTypeLabel converts a type label AST into a semantic type.
func (w *Walker) resolveTypeLabel(label ast.TypeExpr) *types.Type {
	switch l := label.(type) {
	case *ast.PrimTypeExpr:
		if typ, ok := primTypes[l.Kind]; ok {
			return typ
		}
	case *ast.NamedTypeExpr:
		if st, ok := w.lookupStruct(l.Name); ok {
			return st
		}

		if en, ok := w.lookupEnum(l.Name); ok {
			return en.typ
		}

		w.error(l.Span(), "unknown type: `%s`", l.Name)
		return types.ErrorType
	case *ast.PointerTypeExpr:
		if l.Elem == nil {
			return types.NewPointer(types.VoidType)
		}

		return types.NewPointer(w.resolveTypeLabel(l.Elem))
	case *ast.ArrayTypeExpr:
		return types.NewArray(w.resolveTypeLabel(l.Elem))
	case *ast.SliceTypeExpr:
		return types.NewSlice(w.resolveTypeLabel(l.Elem))
	case *ast.ResultTypeExpr:
		return types.NewResult(w.resolveTypeLabel(l.Elem))
	case *ast.TupleTypeExpr:
		elems := make([]*types.Type, len(l.Elems))
		for i, elem := range l.Elems {
			elems[i] = w.resolveTypeLabel(elem)
		}

		return types.NewTuple(elems...)
	}

	w.error(label.Span(), "invalid type label")
	return types.ErrorType
}
