package syntax

import "aegisc/report"

// Token represents a single lexical token.
type Token struct {
	// The kind of the token.  This must be one of the enumerated token kinds.
	Kind int

	// The string value of the token.
	Value string

	// The text span over which the token exists.  This may not directly
	// correspond to its value: eg. the value of a string token has the
	// leading quotes trimmed off for convenience.
	Span *report.TextSpan
}

// Enumeration of token kinds.
const (
	TOK_FUNC = iota
	TOK_LET
	TOK_VAR

	TOK_IF
	TOK_ELIF
	TOK_ELSE
	TOK_WHILE
	TOK_FOR
	TOK_IN
	TOK_MATCH
	TOK_CASE
	TOK_BREAK
	TOK_CONTINUE
	TOK_PASS
	TOK_RETURN
	TOK_DEFER

	TOK_TRYCHAIN
	TOK_PRIMARY
	TOK_SECONDARY
	TOK_FALLBACK

	TOK_MODULE
	TOK_IMPORT
	TOK_FROM
	TOK_AS

	TOK_STRUCT
	TOK_ENUM
	TOK_TRAIT
	TOK_IMPL

	TOK_AND
	TOK_OR
	TOK_NOT

	TOK_I8
	TOK_I16
	TOK_I32
	TOK_I64
	TOK_U8
	TOK_U16
	TOK_U32
	TOK_U64
	TOK_F32
	TOK_F64
	TOK_BOOL
	TOK_CHAR
	TOK_STRING
	TOK_VOID
	TOK_PTR
	TOK_ARRAY
	TOK_SLICE
	TOK_TUPLE
	TOK_STATUS
	TOK_HANDLE
	TOK_RESULT

	TOK_PLUS
	TOK_MINUS
	TOK_STAR
	TOK_DIV
	TOK_MOD
	TOK_POW

	TOK_EQ
	TOK_NEQ
	TOK_LT
	TOK_GT
	TOK_LTEQ
	TOK_GTEQ

	TOK_BWAND
	TOK_BWOR
	TOK_BWXOR
	TOK_COMPL
	TOK_LSHIFT
	TOK_RSHIFT

	TOK_ASSIGN
	TOK_PLUSASSIGN
	TOK_MINUSASSIGN
	TOK_STARASSIGN
	TOK_DIVASSIGN
	TOK_MODASSIGN
	TOK_ANDASSIGN
	TOK_ORASSIGN
	TOK_XORASSIGN

	TOK_ARROW
	TOK_SCOPE
	TOK_RANGETO

	TOK_LPAREN
	TOK_RPAREN
	TOK_LBRACKET
	TOK_RBRACKET
	TOK_LBRACE
	TOK_RBRACE
	TOK_COMMA
	TOK_DOT
	TOK_COLON
	TOK_SEMI
	TOK_ATSIGN

	TOK_IDENT
	TOK_INTLIT
	TOK_FLOATLIT
	TOK_STRINGLIT
	TOK_BOOLLIT

	TOK_NEWLINE
	TOK_INDENT
	TOK_DEDENT
	TOK_EOF
)
