// Package ast defines the abstract syntax tree for Fluent.
//
// Nodes are built once by the tree builder and are read-only afterwards.
// Ownership is strictly hierarchical: a parent owns its children, there are
// no back-references and no sharing.
package ast

import (
	"fmt"

	"github.com/BHAWESHBHASKAR/Fluent.is/internal/span"
)

// ============================================================
// Node interfaces
// ============================================================

// Node is the interface implemented by all AST nodes.
type Node interface {
	nodeNode()
	GetSpan() span.Span
}

// Expr is the interface for expression nodes.
type Expr interface {
	Node
	exprNode()
}

// Stmt is the interface for statement nodes.
type Stmt interface {
	Node
	stmtNode()
}

// ============================================================
// Base types (embedded to provide common fields)
// ============================================================

// NodeBase provides the common Span field for all AST nodes.
type NodeBase struct {
	Span span.Span
}

func (n NodeBase) nodeNode()          {}
func (n NodeBase) GetSpan() span.Span { return n.Span }

// ExprBase is embedded by all expression nodes.
type ExprBase struct{ NodeBase }

func (ExprBase) exprNode() {}

// StmtBase is embedded by all statement nodes.
type StmtBase struct{ NodeBase }

func (StmtBase) stmtNode() {}

// ============================================================
// Program (top-level AST root)
// ============================================================

// Program represents an entire source file.
type Program struct {
	NodeBase
	Statements []Stmt
}

// ============================================================
// Operator kinds
// ============================================================

// BinOpKind is the closed set of binary operators. Target-language operator
// spellings are resolved in the code generator, never here.
type BinOpKind int

const (
	ADD BinOpKind = iota
	SUB
	MUL
	DIV
	EQ
	NEQ
	LT
	LTE
	GT
	GTE
	AND
	OR
)

var binOpNames = [...]string{
	ADD: "+", SUB: "-", MUL: "*", DIV: "/",
	EQ: "==", NEQ: "!=", LT: "<", LTE: "<=", GT: ">", GTE: ">=",
	AND: "AND", OR: "OR",
}

func (k BinOpKind) String() string {
	if int(k) < len(binOpNames) {
		return binOpNames[k]
	}
	return fmt.Sprintf("BinOpKind(%d)", int(k))
}

// UnOpKind is the closed set of unary operators.
type UnOpKind int

const (
	NEG UnOpKind = iota
	NOT
)

func (k UnOpKind) String() string {
	switch k {
	case NEG:
		return "-"
	case NOT:
		return "NOT"
	default:
		return fmt.Sprintf("UnOpKind(%d)", int(k))
	}
}

// ============================================================
// Types
// ============================================================

// ScalarKind is the closed set of scalar type names.
type ScalarKind int

const (
	INTEGER ScalarKind = iota
	FLOAT
	STRING
	BOOLEAN
	NULLTYPE
)

var scalarNames = [...]string{
	INTEGER: "INTEGER", FLOAT: "FLOAT", STRING: "STRING",
	BOOLEAN: "BOOLEAN", NULLTYPE: "NULLTYPE",
}

func (k ScalarKind) String() string {
	if int(k) < len(scalarNames) {
		return scalarNames[k]
	}
	return fmt.Sprintf("ScalarKind(%d)", int(k))
}

// Type is a structural type annotation. Two ScalarType{INTEGER} values are
// interchangeable; types carry no identity.
type Type interface {
	typeNode()
	String() string
}

// ScalarType is one of the five scalar types.
type ScalarType struct {
	Kind ScalarKind
}

func (ScalarType) typeNode()        {}
func (t ScalarType) String() string { return t.Kind.String() }

// ListType is a homogeneous list type: LIST OF element.
type ListType struct {
	Elem Type
}

func (ListType) typeNode()        {}
func (t ListType) String() string { return "LIST OF " + t.Elem.String() }

// MapType is a map type: MAP OF key TO value.
type MapType struct {
	Key   Type
	Value Type
}

func (MapType) typeNode() {}
func (t MapType) String() string {
	return "MAP OF " + t.Key.String() + " TO " + t.Value.String()
}

// ============================================================
// Expressions
// ============================================================

// Identifier represents a variable reference.
type Identifier struct {
	ExprBase
	Name string
}

// IntLiteral represents an integer literal.
type IntLiteral struct {
	ExprBase
	Value int64
}

// FloatLiteral represents a floating-point literal.
type FloatLiteral struct {
	ExprBase
	Value float64
}

// StringLiteral represents a string literal with escapes already resolved.
type StringLiteral struct {
	ExprBase
	Value string
}

// BoolLiteral represents TRUE or FALSE.
type BoolLiteral struct {
	ExprBase
	Value bool
}

// NullLiteral represents NULL.
type NullLiteral struct {
	ExprBase
}

// BinaryOp represents a binary operation: a + b, x == y, p AND q.
type BinaryOp struct {
	ExprBase
	Op    BinOpKind
	Left  Expr
	Right Expr
}

// UnaryOp represents a unary operation: -x, NOT x.
type UnaryOp struct {
	ExprBase
	Op      UnOpKind
	Operand Expr
}

// FunctionCall represents a call: F(a, b). The callee may be a builtin
// resolved through the stdlib mapping table or a user-defined function;
// the two share one namespace.
type FunctionCall struct {
	ExprBase
	Name string
	Args []Expr
}

// ListLiteral represents a list literal: [a, b, c].
type ListLiteral struct {
	ExprBase
	Elements []Expr
}

// MapEntry is a single key/value pair of a MapLiteral.
type MapEntry struct {
	Key   Expr
	Value Expr
}

// MapLiteral represents a map literal: { k: v, ... } with entry order preserved.
type MapLiteral struct {
	ExprBase
	Entries []MapEntry
}

// ============================================================
// Statements
// ============================================================

// VariableDeclaration represents: declare name as type [ = init ].
type VariableDeclaration struct {
	StmtBase
	Name string
	Type Type
	Init Expr // nil if no initializer; codegen synthesizes a type default
}

// Assignment represents: set name to value.
type Assignment struct {
	StmtBase
	Name  string
	Value Expr
}

// PrintStatement represents: print expr.
type PrintStatement struct {
	StmtBase
	Expr Expr
}

// ExpressionStatement wraps a call used for its effect.
type ExpressionStatement struct {
	StmtBase
	Call *FunctionCall
}

// IfStatement represents: if cond then ... [ else ... ] end.
// Else is nil when the clause is absent; a present-but-empty else branch is
// a non-nil empty slice.
type IfStatement struct {
	StmtBase
	Cond Expr
	Then []Stmt
	Else []Stmt
}

// WhileStatement represents: while cond do ... end.
type WhileStatement struct {
	StmtBase
	Cond Expr
	Body []Stmt
}

// ForeachStatement represents: foreach var in iterable do ... end.
// Mutating the iterable inside the body is undefined behavior, as in the
// target language.
type ForeachStatement struct {
	StmtBase
	Var      string
	Iterable Expr
	Body     []Stmt
}

// Parameter is a single function parameter. Owned by its FunctionDefinition.
type Parameter struct {
	Span span.Span
	Name string
	Type Type
}

// FunctionDefinition represents: function name(params) [returns type] ... end.
// ReturnType is never nil: the builder defaults it to ScalarType{NULLTYPE}.
type FunctionDefinition struct {
	StmtBase
	Name       string
	Params     []Parameter
	ReturnType Type
	Body       []Stmt
}

// ReturnStatement represents: return [ expr ].
type ReturnStatement struct {
	StmtBase
	Expr Expr // nil for a bare return
}

// BreakStatement represents: break.
type BreakStatement struct {
	StmtBase
}
