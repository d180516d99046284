// Package token defines the token types produced by the lexer.
package token

import (
	"fmt"

	"github.com/BHAWESHBHASKAR/Fluent.is/internal/span"
)

// Kind represents the type of a token.
type Kind int

const (
	// Special tokens
	ILLEGAL Kind = iota
	EOF
	NEWLINE

	// Literals. STRING lexemes keep their surrounding quotes and raw escape
	// sequences; the tree builder resolves them.
	IDENT  // identifiers: x, total, GET_LENGTH
	INT    // integer literals: 123
	FLOAT  // float literals: 3.14
	STRING // string literals: "hello\n"
	TRUE   // TRUE
	FALSE  // FALSE
	NULL   // NULL

	// Operators
	ASSIGN // =
	PLUS   // +
	MINUS  // -
	STAR   // *
	SLASH  // /

	EQ  // ==
	NEQ // !=
	LT  // <
	LTE // <=
	GT  // >
	GTE // >=

	AND // AND
	OR  // OR
	NOT // NOT

	// Delimiters
	LPAREN   // (
	RPAREN   // )
	LBRACKET // [
	RBRACKET // ]
	LBRACE   // {
	RBRACE   // }
	COMMA    // ,
	COLON    // :

	// Statement keywords
	KW_DECLARE
	KW_AS
	KW_SET
	KW_TO
	KW_PRINT
	KW_IF
	KW_THEN
	KW_ELSE
	KW_END
	KW_WHILE
	KW_DO
	KW_FOREACH
	KW_IN
	KW_FUNCTION
	KW_RETURNS
	KW_RETURN
	KW_BREAK

	// Type keywords
	KW_INTEGER
	KW_FLOAT
	KW_STRING
	KW_BOOLEAN
	KW_NULLTYPE
	KW_LIST
	KW_MAP
	KW_OF
)

var kindNames = map[Kind]string{
	ILLEGAL: "ILLEGAL",
	EOF:     "EOF",
	NEWLINE: "NEWLINE",

	IDENT:  "IDENT",
	INT:    "INT",
	FLOAT:  "FLOAT",
	STRING: "STRING",
	TRUE:   "TRUE",
	FALSE:  "FALSE",
	NULL:   "NULL",

	ASSIGN: "=",
	PLUS:   "+",
	MINUS:  "-",
	STAR:   "*",
	SLASH:  "/",
	EQ:     "==",
	NEQ:    "!=",
	LT:     "<",
	LTE:    "<=",
	GT:     ">",
	GTE:    ">=",
	AND:    "AND",
	OR:     "OR",
	NOT:    "NOT",

	LPAREN:   "(",
	RPAREN:   ")",
	LBRACKET: "[",
	RBRACKET: "]",
	LBRACE:   "{",
	RBRACE:   "}",
	COMMA:    ",",
	COLON:    ":",

	KW_DECLARE:  "declare",
	KW_AS:       "as",
	KW_SET:      "set",
	KW_TO:       "to",
	KW_PRINT:    "print",
	KW_IF:       "if",
	KW_THEN:     "then",
	KW_ELSE:     "else",
	KW_END:      "end",
	KW_WHILE:    "while",
	KW_DO:       "do",
	KW_FOREACH:  "foreach",
	KW_IN:       "in",
	KW_FUNCTION: "function",
	KW_RETURNS:  "returns",
	KW_RETURN:   "return",
	KW_BREAK:    "break",

	KW_INTEGER:  "INTEGER",
	KW_FLOAT:    "FLOAT",
	KW_STRING:   "STRING",
	KW_BOOLEAN:  "BOOLEAN",
	KW_NULLTYPE: "NULLTYPE",
	KW_LIST:     "LIST",
	KW_MAP:      "MAP",
	KW_OF:       "OF",
}

// String returns the human-readable name for a token kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsKeyword returns true if the kind is a statement or type keyword.
func (k Kind) IsKeyword() bool {
	return k >= KW_DECLARE && k <= KW_OF
}

// IsTypeKeyword returns true if the kind starts a type annotation.
func (k Kind) IsTypeKeyword() bool {
	return k >= KW_INTEGER && k <= KW_MAP
}

// Statement keywords are lowercase; word operators, literal words and type
// names are uppercase, matching the Fluent surface syntax.
var keywords = map[string]Kind{
	"declare":  KW_DECLARE,
	"as":       KW_AS,
	"set":      KW_SET,
	"to":       KW_TO,
	"print":    KW_PRINT,
	"if":       KW_IF,
	"then":     KW_THEN,
	"else":     KW_ELSE,
	"end":      KW_END,
	"while":    KW_WHILE,
	"do":       KW_DO,
	"foreach":  KW_FOREACH,
	"in":       KW_IN,
	"function": KW_FUNCTION,
	"returns":  KW_RETURNS,
	"return":   KW_RETURN,
	"break":    KW_BREAK,

	"AND": AND,
	"OR":  OR,
	"NOT": NOT,

	"TRUE":  TRUE,
	"FALSE": FALSE,
	"NULL":  NULL,

	"INTEGER":  KW_INTEGER,
	"FLOAT":    KW_FLOAT,
	"STRING":   KW_STRING,
	"BOOLEAN":  KW_BOOLEAN,
	"NULLTYPE": KW_NULLTYPE,
	"LIST":     KW_LIST,
	"MAP":      KW_MAP,
	"OF":       KW_OF,
	"TO":       KW_TO,
}

// LookupIdent returns the keyword Kind for ident, or IDENT if it is not a keyword.
func LookupIdent(ident string) Kind {
	if kind, ok := keywords[ident]; ok {
		return kind
	}
	return IDENT
}

// Token represents a lexical token with its kind, text, and source location.
type Token struct {
	Kind   Kind      `json:"kind"`
	Lexeme string    `json:"lexeme"`
	Span   span.Span `json:"span"`
}

// String returns a human-readable representation of the token.
func (t Token) String() string {
	return fmt.Sprintf("%s %q %s", t.Kind, t.Lexeme, t.Span.Start)
}
