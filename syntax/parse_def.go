package syntax

import (
	"aegisc/ast"
	"aegisc/report"
	"strconv"
)

// file = {NEWLINE} {decorator} [module_decl] {import_stmt} {definition}
func (p *Parser) parseFile() *ast.File {
	file := &ast.File{
		AbsPath:  p.absPath,
		ReprPath: p.reprPath,
	}

	// Decorators collected but not yet bound to a definition.
	var pendingDecors []*ast.Decorator

	for {
		p.newlines()

		switch p.tok.Kind {
		case TOK_EOF:
			if len(pendingDecors) > 0 {
				// Trailing decorators bind to nothing: treat them as file
				// decorators only if no definitions have been parsed yet.
				if len(file.Defs) == 0 {
					file.Decorators = append(file.Decorators, pendingDecors...)
				} else {
					p.rejectWithMsg("decorator is not applied to anything")
				}
			}

			return file
		case TOK_ATSIGN:
			pendingDecors = append(pendingDecors, p.parseDecorator())
		case TOK_MODULE:
			if file.Module != nil {
				p.rejectWithMsg("multiple module declarations in file")
			}

			// Decorators occurring before the module declaration are file
			// decorators.
			file.Decorators = append(file.Decorators, pendingDecors...)
			pendingDecors = nil

			file.Module = p.parseModuleDecl()
		case TOK_IMPORT, TOK_FROM:
			if len(pendingDecors) > 0 {
				p.rejectWithMsg("decorators cannot be applied to import statements")
			}

			file.Imports = append(file.Imports, p.parseImportStmt())
		case TOK_FUNC:
			file.Defs = append(file.Defs, p.parseFuncDef(pendingDecors))
			pendingDecors = nil
		case TOK_STRUCT:
			// Decorators can only be applied to functions.
			if len(pendingDecors) > 0 {
				p.rejectWithMsg("decorators can only be applied to functions")
			}

			file.Defs = append(file.Defs, p.parseStructDef())
		case TOK_ENUM:
			if len(pendingDecors) > 0 {
				p.rejectWithMsg("decorators can only be applied to functions")
			}

			file.Defs = append(file.Defs, p.parseEnumDef())
		default:
			p.reject()
		}
	}
}

// -----------------------------------------------------------------------------

// decorator = '@' 'IDENT' ['(' decor_arg {',' decor_arg} ')'] NEWLINE
// decor_arg = 'IDENT' ':' ('IDENT' | 'STRINGLIT' | 'INTLIT')
func (p *Parser) parseDecorator() *ast.Decorator {
	startTok := p.want(TOK_ATSIGN)
	nameTok := p.want(TOK_IDENT)

	decor := &ast.Decorator{
		ASTBase: ast.NewASTBaseOver(startTok.Span, nameTok.Span),
		Name:    nameTok.Value,
	}

	if p.got(TOK_LPAREN) {
		p.next()

		for {
			argName := p.want(TOK_IDENT)
			p.want(TOK_COLON)

			if !p.gotOneOf(TOK_IDENT, TOK_STRINGLIT, TOK_INTLIT) {
				p.reject()
			}

			valueTok := p.tok
			p.next()

			decor.Args = append(decor.Args, ast.DecoratorArg{
				Name:      argName.Value,
				Value:     valueTok.Value,
				ValueSpan: valueTok.Span,
			})

			if p.got(TOK_COMMA) {
				p.next()
			} else {
				break
			}
		}

		endTok := p.want(TOK_RPAREN)
		decor.ASTBase = ast.NewASTBaseOver(startTok.Span, endTok.Span)
	}

	p.want(TOK_NEWLINE)
	return decor
}

// module_decl = 'module' dotted_name NEWLINE
func (p *Parser) parseModuleDecl() *ast.ModuleDecl {
	startTok := p.want(TOK_MODULE)
	path, endSpan := p.parseDottedName()
	p.want(TOK_NEWLINE)

	return &ast.ModuleDecl{
		ASTBase: ast.NewASTBaseOver(startTok.Span, endSpan),
		Path:    path,
	}
}

// import_stmt = 'import' dotted_name ['as' 'IDENT'] NEWLINE
//   | 'from' dotted_name 'import' 'IDENT' {',' 'IDENT'} NEWLINE
func (p *Parser) parseImportStmt() ast.Statement {
	if p.got(TOK_IMPORT) {
		startTok := p.tok
		p.next()

		path, endSpan := p.parseDottedName()

		alias := ""
		if p.got(TOK_AS) {
			p.next()
			aliasTok := p.want(TOK_IDENT)
			alias = aliasTok.Value
			endSpan = aliasTok.Span
		}

		p.want(TOK_NEWLINE)

		return &ast.ImportStmt{
			StmtBase: ast.StmtBase{ASTBase: ast.NewASTBaseOver(startTok.Span, endSpan)},
			Path:     path,
			Alias:    alias,
		}
	}

	startTok := p.want(TOK_FROM)
	path, _ := p.parseDottedName()
	p.want(TOK_IMPORT)

	var names []string
	var endSpan *report.TextSpan
	for {
		nameTok := p.want(TOK_IDENT)
		names = append(names, nameTok.Value)
		endSpan = nameTok.Span

		if p.got(TOK_COMMA) {
			p.next()
		} else {
			break
		}
	}

	p.want(TOK_NEWLINE)

	return &ast.FromImportStmt{
		StmtBase: ast.StmtBase{ASTBase: ast.NewASTBaseOver(startTok.Span, endSpan)},
		Path:     path,
		Names:    names,
	}
}

// dotted_name = 'IDENT' {'.' 'IDENT'}
func (p *Parser) parseDottedName() ([]string, *report.TextSpan) {
	nameTok := p.want(TOK_IDENT)
	path := []string{nameTok.Value}
	endSpan := nameTok.Span

	for p.got(TOK_DOT) {
		p.next()
		nameTok = p.want(TOK_IDENT)
		path = append(path, nameTok.Value)
		endSpan = nameTok.Span
	}

	return path, endSpan
}

// -----------------------------------------------------------------------------

// func_def = 'func' 'IDENT' '(' [param {',' param}] ')' ['->' type_label] block
// param = 'IDENT' ':' type_label
func (p *Parser) parseFuncDef(decors []*ast.Decorator) *ast.FuncDef {
	startTok := p.want(TOK_FUNC)
	nameTok := p.want(TOK_IDENT)

	p.want(TOK_LPAREN)

	var params []ast.FuncParam
	if !p.got(TOK_RPAREN) {
		for {
			paramName := p.want(TOK_IDENT)
			p.want(TOK_COLON)
			paramType := p.parseTypeLabel()

			params = append(params, ast.FuncParam{
				Name:     paramName.Value,
				NameSpan: paramName.Span,
				Type:     paramType,
			})

			if p.got(TOK_COMMA) {
				p.next()
			} else {
				break
			}
		}
	}

	p.want(TOK_RPAREN)

	var returnType ast.TypeExpr
	if p.got(TOK_ARROW) {
		p.next()
		returnType = p.parseTypeLabel()
	}

	body := p.parseBlock()

	return &ast.FuncDef{
		ASTBase:    ast.NewASTBaseOver(startTok.Span, nameTok.Span),
		Decorators: decors,
		Name:       nameTok.Value,
		NameSpan:   nameTok.Span,
		Params:     params,
		ReturnType: returnType,
		Body:       body,
	}
}

// struct_def = 'struct' 'IDENT' ':' NEWLINE INDENT field {field} DEDENT
// field = 'IDENT' ':' type_label NEWLINE
func (p *Parser) parseStructDef() *ast.StructDef {
	startTok := p.want(TOK_STRUCT)
	nameTok := p.want(TOK_IDENT)

	p.want(TOK_COLON)
	p.want(TOK_NEWLINE)
	p.want(TOK_INDENT)

	var fields []ast.StructField
	for {
		p.newlines()

		if p.got(TOK_DEDENT) {
			p.next()
			break
		}

		fieldName := p.want(TOK_IDENT)
		p.want(TOK_COLON)
		fieldType := p.parseTypeLabel()
		p.want(TOK_NEWLINE)

		fields = append(fields, ast.StructField{
			Name:     fieldName.Value,
			NameSpan: fieldName.Span,
			Type:     fieldType,
		})
	}

	if len(fields) == 0 {
		p.rejectWithMsg("struct must have at least one field")
	}

	return &ast.StructDef{
		ASTBase:  ast.NewASTBaseOver(startTok.Span, nameTok.Span),
		Name:     nameTok.Value,
		NameSpan: nameTok.Span,
		Fields:   fields,
	}
}

// enum_def = 'enum' 'IDENT' ':' NEWLINE INDENT variant {variant} DEDENT
// variant = 'IDENT' ['=' 'INTLIT'] NEWLINE
func (p *Parser) parseEnumDef() *ast.EnumDef {
	startTok := p.want(TOK_ENUM)
	nameTok := p.want(TOK_IDENT)

	p.want(TOK_COLON)
	p.want(TOK_NEWLINE)
	p.want(TOK_INDENT)

	var variants []ast.EnumVariant
	nextValue := int64(0)
	for {
		p.newlines()

		if p.got(TOK_DEDENT) {
			p.next()
			break
		}

		variantName := p.want(TOK_IDENT)

		value := nextValue
		if p.got(TOK_ASSIGN) {
			p.next()
			valueTok := p.want(TOK_INTLIT)

			parsed, err := strconv.ParseInt(valueTok.Value, 0, 64)
			if err != nil {
				panic(report.Raise(valueTok.Span, "invalid enum variant value: `%s`", valueTok.Value))
			}

			value = parsed
		}
		nextValue = value + 1

		p.want(TOK_NEWLINE)

		variants = append(variants, ast.EnumVariant{
			Name:     variantName.Value,
			NameSpan: variantName.Span,
			Value:    value,
		})
	}

	if len(variants) == 0 {
		p.rejectWithMsg("enum must have at least one variant")
	}

	return &ast.EnumDef{
		ASTBase:  ast.NewASTBaseOver(startTok.Span, nameTok.Span),
		Name:     nameTok.Value,
		NameSpan: nameTok.Span,
		Variants: variants,
	}
}
