// Package build constructs the AST from the concrete parse tree.
//
// All surface-syntax quirk absorption lives here: variadic block reductions
// are normalized to flat statement slices, optional clauses become explicit
// absent markers, literals are materialized from raw lexemes, and unary
// negation of a numeric literal is folded into one negative literal. Any
// parse-tree shape the builder does not recognize is a hard BuildError;
// malformed input never becomes a partial or guessed AST.
package build

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/BHAWESHBHASKAR/Fluent.is/internal/ast"
	"github.com/BHAWESHBHASKAR/Fluent.is/internal/parsetree"
	"github.com/BHAWESHBHASKAR/Fluent.is/internal/span"
	"github.com/BHAWESHBHASKAR/Fluent.is/internal/token"
)

// BuildError reports a parse-tree shape the builder could not turn into AST.
type BuildError struct {
	Rule string    // offending grammar rule
	Msg  string    // description of the unexpected shape
	Span span.Span // source location, when known
}

func (e *BuildError) Error() string {
	if e.Span.IsZero() {
		return fmt.Sprintf("build error in rule %q: %s", e.Rule, e.Msg)
	}
	return fmt.Sprintf("build error in rule %q at %s: %s", e.Rule, e.Span.Start, e.Msg)
}

func errf(rule string, s span.Span, format string, args ...interface{}) *BuildError {
	return &BuildError{Rule: rule, Msg: fmt.Sprintf(format, args...), Span: s}
}

// Builder transforms a concrete parse tree into an AST. A Builder carries
// only its logger; it retains no state across Build calls.
type Builder struct {
	log zerolog.Logger
}

// New creates a Builder. Pass zerolog.Nop() when tracing is not wanted.
func New(log zerolog.Logger) *Builder {
	return &Builder{log: log}
}

// Build consumes the parse tree rooted at the "start" rule and returns the
// Program node.
func (b *Builder) Build(root *parsetree.Tree) (*ast.Program, error) {
	if root == nil || root.Rule != "start" {
		rule := "<nil>"
		if root != nil {
			rule = root.Rule
		}
		return nil, errf("start", span.Span{}, "expected root rule \"start\", got %q", rule)
	}

	prog := &ast.Program{NodeBase: ast.NodeBase{Span: root.GetSpan()}}
	stmts, err := b.buildStatements(root.Children)
	if err != nil {
		return nil, err
	}
	prog.Statements = stmts
	b.log.Debug().Int("statements", len(prog.Statements)).Msg("built program")
	return prog, nil
}

// buildStatements normalizes any number of statement reductions into one
// flat ordered slice. The result is never nil.
func (b *Builder) buildStatements(nodes []parsetree.Node) ([]ast.Stmt, error) {
	stmts := make([]ast.Stmt, 0, len(nodes))
	for _, n := range nodes {
		stmt, err := b.buildStatement(n)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

func (b *Builder) buildStatement(n parsetree.Node) (ast.Stmt, error) {
	t, ok := n.(*parsetree.Tree)
	if !ok {
		return nil, errf("statement", n.GetSpan(), "expected a rule node, got token %s", n.(parsetree.Leaf).Token.Kind)
	}
	b.log.Trace().Str("rule", t.Rule).Msg("building statement")

	switch t.Rule {
	case "variable_declaration":
		return b.buildVariableDeclaration(t)
	case "assignment":
		return b.buildAssignment(t)
	case "print_statement":
		return b.buildPrintStatement(t)
	case "function_call_statement":
		return b.buildFunctionCallStatement(t)
	case "if_statement":
		return b.buildIfStatement(t)
	case "while_statement":
		return b.buildWhileStatement(t)
	case "foreach_statement":
		return b.buildForeachStatement(t)
	case "function_definition":
		return b.buildFunctionDefinition(t)
	case "return_statement":
		return b.buildReturnStatement(t)
	case "break_statement":
		return &ast.BreakStatement{StmtBase: stmtBase(t)}, nil
	default:
		return nil, errf(t.Rule, t.GetSpan(), "rule is not a statement")
	}
}

// buildVariableDeclaration handles: IDENT type [initializer]
func (b *Builder) buildVariableDeclaration(t *parsetree.Tree) (ast.Stmt, error) {
	if len(t.Children) != 2 && len(t.Children) != 3 {
		return nil, errf(t.Rule, t.GetSpan(), "expected 2 or 3 children, got %d", len(t.Children))
	}
	name, err := identLexeme(t.Rule, t.Children[0])
	if err != nil {
		return nil, err
	}
	typ, err := b.buildType(t.Children[1])
	if err != nil {
		return nil, err
	}
	decl := &ast.VariableDeclaration{StmtBase: stmtBase(t), Name: name, Type: typ}
	if len(t.Children) == 3 {
		init, err := b.buildExpr(t.Children[2])
		if err != nil {
			return nil, err
		}
		decl.Init = init
	}
	return decl, nil
}

func (b *Builder) buildAssignment(t *parsetree.Tree) (ast.Stmt, error) {
	if len(t.Children) != 2 {
		return nil, errf(t.Rule, t.GetSpan(), "expected 2 children, got %d", len(t.Children))
	}
	name, err := identLexeme(t.Rule, t.Children[0])
	if err != nil {
		return nil, err
	}
	value, err := b.buildExpr(t.Children[1])
	if err != nil {
		return nil, err
	}
	return &ast.Assignment{StmtBase: stmtBase(t), Name: name, Value: value}, nil
}

func (b *Builder) buildPrintStatement(t *parsetree.Tree) (ast.Stmt, error) {
	if len(t.Children) != 1 {
		return nil, errf(t.Rule, t.GetSpan(), "expected 1 child, got %d", len(t.Children))
	}
	expr, err := b.buildExpr(t.Children[0])
	if err != nil {
		return nil, err
	}
	return &ast.PrintStatement{StmtBase: stmtBase(t), Expr: expr}, nil
}

func (b *Builder) buildFunctionCallStatement(t *parsetree.Tree) (ast.Stmt, error) {
	if len(t.Children) != 1 {
		return nil, errf(t.Rule, t.GetSpan(), "expected 1 child, got %d", len(t.Children))
	}
	expr, err := b.buildExpr(t.Children[0])
	if err != nil {
		return nil, err
	}
	call, ok := expr.(*ast.FunctionCall)
	if !ok {
		return nil, errf(t.Rule, t.GetSpan(), "expected a function call, got %T", expr)
	}
	return &ast.ExpressionStatement{StmtBase: stmtBase(t), Call: call}, nil
}

// buildIfStatement handles: cond block [block]. An absent else clause stays
// nil in the AST; a present-but-empty else becomes an empty non-nil slice.
func (b *Builder) buildIfStatement(t *parsetree.Tree) (ast.Stmt, error) {
	if len(t.Children) != 2 && len(t.Children) != 3 {
		return nil, errf(t.Rule, t.GetSpan(), "expected 2 or 3 children, got %d", len(t.Children))
	}
	cond, err := b.buildExpr(t.Children[0])
	if err != nil {
		return nil, err
	}
	then, err := b.buildBlock(t.Rule, t.Children[1])
	if err != nil {
		return nil, err
	}
	stmt := &ast.IfStatement{StmtBase: stmtBase(t), Cond: cond, Then: then}
	if len(t.Children) == 3 {
		els, err := b.buildBlock(t.Rule, t.Children[2])
		if err != nil {
			return nil, err
		}
		stmt.Else = els
	}
	return stmt, nil
}

func (b *Builder) buildWhileStatement(t *parsetree.Tree) (ast.Stmt, error) {
	if len(t.Children) != 2 {
		return nil, errf(t.Rule, t.GetSpan(), "expected 2 children, got %d", len(t.Children))
	}
	cond, err := b.buildExpr(t.Children[0])
	if err != nil {
		return nil, err
	}
	body, err := b.buildBlock(t.Rule, t.Children[1])
	if err != nil {
		return nil, err
	}
	return &ast.WhileStatement{StmtBase: stmtBase(t), Cond: cond, Body: body}, nil
}

func (b *Builder) buildForeachStatement(t *parsetree.Tree) (ast.Stmt, error) {
	if len(t.Children) != 3 {
		return nil, errf(t.Rule, t.GetSpan(), "expected 3 children, got %d", len(t.Children))
	}
	name, err := identLexeme(t.Rule, t.Children[0])
	if err != nil {
		return nil, err
	}
	iterable, err := b.buildExpr(t.Children[1])
	if err != nil {
		return nil, err
	}
	body, err := b.buildBlock(t.Rule, t.Children[2])
	if err != nil {
		return nil, err
	}
	return &ast.ForeachStatement{StmtBase: stmtBase(t), Var: name, Iterable: iterable, Body: body}, nil
}

// buildFunctionDefinition handles: IDENT parameters [type] block.
// A missing return type annotation defaults to NULLTYPE.
func (b *Builder) buildFunctionDefinition(t *parsetree.Tree) (ast.Stmt, error) {
	if len(t.Children) != 3 && len(t.Children) != 4 {
		return nil, errf(t.Rule, t.GetSpan(), "expected 3 or 4 children, got %d", len(t.Children))
	}
	name, err := identLexeme(t.Rule, t.Children[0])
	if err != nil {
		return nil, err
	}
	params, err := b.buildParameters(t.Children[1])
	if err != nil {
		return nil, err
	}

	def := &ast.FunctionDefinition{
		StmtBase:   stmtBase(t),
		Name:       name,
		Params:     params,
		ReturnType: ast.ScalarType{Kind: ast.NULLTYPE},
	}

	bodyIdx := 2
	if len(t.Children) == 4 {
		typ, err := b.buildType(t.Children[2])
		if err != nil {
			return nil, err
		}
		def.ReturnType = typ
		bodyIdx = 3
	}
	body, err := b.buildBlock(t.Rule, t.Children[bodyIdx])
	if err != nil {
		return nil, err
	}
	def.Body = body
	return def, nil
}

// buildParameters normalizes the parameters rule into one flat ordered list,
// never a nested list of lists.
func (b *Builder) buildParameters(n parsetree.Node) ([]ast.Parameter, error) {
	t, ok := n.(*parsetree.Tree)
	if !ok || t.Rule != "parameters" {
		return nil, errf("parameters", n.GetSpan(), "expected a parameters node")
	}
	params := make([]ast.Parameter, 0, len(t.Children))
	for _, c := range t.Children {
		pt, ok := c.(*parsetree.Tree)
		if !ok || pt.Rule != "parameter" || len(pt.Children) != 2 {
			return nil, errf("parameter", c.GetSpan(), "malformed parameter node")
		}
		name, err := identLexeme("parameter", pt.Children[0])
		if err != nil {
			return nil, err
		}
		typ, err := b.buildType(pt.Children[1])
		if err != nil {
			return nil, err
		}
		params = append(params, ast.Parameter{Span: pt.GetSpan(), Name: name, Type: typ})
	}
	return params, nil
}

func (b *Builder) buildReturnStatement(t *parsetree.Tree) (ast.Stmt, error) {
	switch len(t.Children) {
	case 0:
		return &ast.ReturnStatement{StmtBase: stmtBase(t)}, nil
	case 1:
		expr, err := b.buildExpr(t.Children[0])
		if err != nil {
			return nil, err
		}
		return &ast.ReturnStatement{StmtBase: stmtBase(t), Expr: expr}, nil
	default:
		return nil, errf(t.Rule, t.GetSpan(), "expected 0 or 1 children, got %d", len(t.Children))
	}
}

// buildBlock normalizes a block reduction into a flat statement slice.
// The result is non-nil even for an empty block.
func (b *Builder) buildBlock(parentRule string, n parsetree.Node) ([]ast.Stmt, error) {
	t, ok := n.(*parsetree.Tree)
	if !ok || t.Rule != "block" {
		return nil, errf(parentRule, n.GetSpan(), "expected a block node")
	}
	return b.buildStatements(t.Children)
}

// ============================================================
// Types
// ============================================================

func (b *Builder) buildType(n parsetree.Node) (ast.Type, error) {
	t, ok := n.(*parsetree.Tree)
	if !ok {
		return nil, errf("type", n.GetSpan(), "expected a type node")
	}
	switch t.Rule {
	case "basetype_integer":
		return ast.ScalarType{Kind: ast.INTEGER}, nil
	case "basetype_float":
		return ast.ScalarType{Kind: ast.FLOAT}, nil
	case "basetype_string":
		return ast.ScalarType{Kind: ast.STRING}, nil
	case "basetype_boolean":
		return ast.ScalarType{Kind: ast.BOOLEAN}, nil
	case "basetype_nulltype":
		return ast.ScalarType{Kind: ast.NULLTYPE}, nil
	case "list_type":
		if len(t.Children) != 1 {
			return nil, errf(t.Rule, t.GetSpan(), "expected 1 child, got %d", len(t.Children))
		}
		elem, err := b.buildType(t.Children[0])
		if err != nil {
			return nil, err
		}
		return ast.ListType{Elem: elem}, nil
	case "map_type":
		if len(t.Children) != 2 {
			return nil, errf(t.Rule, t.GetSpan(), "expected 2 children, got %d", len(t.Children))
		}
		key, err := b.buildType(t.Children[0])
		if err != nil {
			return nil, err
		}
		value, err := b.buildType(t.Children[1])
		if err != nil {
			return nil, err
		}
		return ast.MapType{Key: key, Value: value}, nil
	default:
		return nil, errf(t.Rule, t.GetSpan(), "rule is not a type")
	}
}

// ============================================================
// Expressions
// ============================================================

var binOps = map[token.Kind]ast.BinOpKind{
	token.PLUS:  ast.ADD,
	token.MINUS: ast.SUB,
	token.STAR:  ast.MUL,
	token.SLASH: ast.DIV,
	token.EQ:    ast.EQ,
	token.NEQ:   ast.NEQ,
	token.LT:    ast.LT,
	token.LTE:   ast.LTE,
	token.GT:    ast.GT,
	token.GTE:   ast.GTE,
	token.AND:   ast.AND,
	token.OR:    ast.OR,
}

func (b *Builder) buildExpr(n parsetree.Node) (ast.Expr, error) {
	switch v := n.(type) {
	case parsetree.Leaf:
		return b.buildAtom(v)
	case *parsetree.Tree:
		switch v.Rule {
		case "logical_or", "logical_and", "comparison", "arith_expr", "term":
			return b.buildBinaryOp(v)
		case "factor":
			return b.buildUnaryOp(v)
		case "function_call":
			return b.buildFunctionCall(v)
		case "list_literal":
			return b.buildListLiteral(v)
		case "map_literal":
			return b.buildMapLiteral(v)
		default:
			return nil, errf(v.Rule, v.GetSpan(), "rule is not an expression")
		}
	default:
		return nil, errf("expression", n.GetSpan(), "unexpected parse-tree node %T", n)
	}
}

func (b *Builder) buildBinaryOp(t *parsetree.Tree) (ast.Expr, error) {
	if len(t.Children) != 3 {
		return nil, errf(t.Rule, t.GetSpan(), "expected 3 children, got %d", len(t.Children))
	}
	opLeaf, ok := t.Children[1].(parsetree.Leaf)
	if !ok {
		return nil, errf(t.Rule, t.GetSpan(), "expected an operator token")
	}
	op, ok := binOps[opLeaf.Token.Kind]
	if !ok {
		return nil, errf(t.Rule, opLeaf.Token.Span, "unknown binary operator %q", opLeaf.Token.Lexeme)
	}
	left, err := b.buildExpr(t.Children[0])
	if err != nil {
		return nil, err
	}
	right, err := b.buildExpr(t.Children[2])
	if err != nil {
		return nil, err
	}
	return &ast.BinaryOp{ExprBase: exprBase(t), Op: op, Left: left, Right: right}, nil
}

// buildUnaryOp handles the factor rule. Negation of a numeric literal is
// folded into a single negative literal here; this is the only node-level
// rewrite in the pipeline.
func (b *Builder) buildUnaryOp(t *parsetree.Tree) (ast.Expr, error) {
	if len(t.Children) != 2 {
		return nil, errf(t.Rule, t.GetSpan(), "expected 2 children, got %d", len(t.Children))
	}
	opLeaf, ok := t.Children[0].(parsetree.Leaf)
	if !ok {
		return nil, errf(t.Rule, t.GetSpan(), "expected an operator token")
	}
	operand, err := b.buildExpr(t.Children[1])
	if err != nil {
		return nil, err
	}

	switch opLeaf.Token.Kind {
	case token.MINUS:
		switch lit := operand.(type) {
		case *ast.IntLiteral:
			return &ast.IntLiteral{ExprBase: exprBase(t), Value: -lit.Value}, nil
		case *ast.FloatLiteral:
			return &ast.FloatLiteral{ExprBase: exprBase(t), Value: -lit.Value}, nil
		}
		return &ast.UnaryOp{ExprBase: exprBase(t), Op: ast.NEG, Operand: operand}, nil
	case token.NOT:
		return &ast.UnaryOp{ExprBase: exprBase(t), Op: ast.NOT, Operand: operand}, nil
	default:
		return nil, errf(t.Rule, opLeaf.Token.Span, "unknown unary operator %q", opLeaf.Token.Lexeme)
	}
}

// buildFunctionCall handles: IDENT arguments. Argument lists are always
// flat ordered slices.
func (b *Builder) buildFunctionCall(t *parsetree.Tree) (ast.Expr, error) {
	if len(t.Children) != 2 {
		return nil, errf(t.Rule, t.GetSpan(), "expected 2 children, got %d", len(t.Children))
	}
	name, err := identLexeme(t.Rule, t.Children[0])
	if err != nil {
		return nil, err
	}
	argsTree, ok := t.Children[1].(*parsetree.Tree)
	if !ok || argsTree.Rule != "arguments" {
		return nil, errf(t.Rule, t.Children[1].GetSpan(), "expected an arguments node")
	}
	args := make([]ast.Expr, 0, len(argsTree.Children))
	for _, c := range argsTree.Children {
		arg, err := b.buildExpr(c)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	return &ast.FunctionCall{ExprBase: exprBase(t), Name: name, Args: args}, nil
}

func (b *Builder) buildListLiteral(t *parsetree.Tree) (ast.Expr, error) {
	elements := make([]ast.Expr, 0, len(t.Children))
	for _, c := range t.Children {
		el, err := b.buildExpr(c)
		if err != nil {
			return nil, err
		}
		elements = append(elements, el)
	}
	return &ast.ListLiteral{ExprBase: exprBase(t), Elements: elements}, nil
}

func (b *Builder) buildMapLiteral(t *parsetree.Tree) (ast.Expr, error) {
	entries := make([]ast.MapEntry, 0, len(t.Children))
	for _, c := range t.Children {
		et, ok := c.(*parsetree.Tree)
		if !ok || et.Rule != "map_entry" || len(et.Children) != 2 {
			return nil, errf("map_entry", c.GetSpan(), "malformed map entry")
		}
		key, err := b.buildExpr(et.Children[0])
		if err != nil {
			return nil, err
		}
		value, err := b.buildExpr(et.Children[1])
		if err != nil {
			return nil, err
		}
		entries = append(entries, ast.MapEntry{Key: key, Value: value})
	}
	return &ast.MapLiteral{ExprBase: exprBase(t), Entries: entries}, nil
}

// ============================================================
// Literal materialization
// ============================================================

func (b *Builder) buildAtom(l parsetree.Leaf) (ast.Expr, error) {
	tok := l.Token
	base := ast.ExprBase{NodeBase: ast.NodeBase{Span: tok.Span}}

	switch tok.Kind {
	case token.INT:
		v, err := strconv.ParseInt(tok.Lexeme, 10, 64)
		if err != nil {
			return nil, errf("NUMBER", tok.Span, "cannot parse integer literal %q: %v", tok.Lexeme, err)
		}
		return &ast.IntLiteral{ExprBase: base, Value: v}, nil
	case token.FLOAT:
		v, err := strconv.ParseFloat(tok.Lexeme, 64)
		if err != nil {
			return nil, errf("FLOAT_NUMBER", tok.Span, "cannot parse float literal %q: %v", tok.Lexeme, err)
		}
		return &ast.FloatLiteral{ExprBase: base, Value: v}, nil
	case token.STRING:
		v, err := resolveString(tok.Lexeme, tok.Span)
		if err != nil {
			return nil, err
		}
		return &ast.StringLiteral{ExprBase: base, Value: v}, nil
	case token.TRUE:
		return &ast.BoolLiteral{ExprBase: base, Value: true}, nil
	case token.FALSE:
		return &ast.BoolLiteral{ExprBase: base, Value: false}, nil
	case token.NULL:
		return &ast.NullLiteral{ExprBase: base}, nil
	case token.IDENT:
		return &ast.Identifier{ExprBase: base, Name: tok.Lexeme}, nil
	default:
		return nil, errf("atom", tok.Span, "token %s is not an expression atom", tok.Kind)
	}
}

// escapes is the closed table of recognized string escape sequences.
// Escapes are resolved here, by lookup — never by evaluating the literal
// text as code.
var escapes = map[byte]byte{
	'n':  '\n',
	't':  '\t',
	'r':  '\r',
	'"':  '"',
	'\\': '\\',
}

// resolveString strips the surrounding quotes from a raw string lexeme and
// resolves its escape sequences.
func resolveString(raw string, s span.Span) (string, error) {
	if len(raw) < 2 || raw[0] != '"' || raw[len(raw)-1] != '"' {
		return "", errf("STRING_LITERAL", s, "malformed string literal %q", raw)
	}
	body := raw[1 : len(raw)-1]
	if !strings.ContainsRune(body, '\\') {
		return body, nil
	}

	var sb strings.Builder
	sb.Grow(len(body))
	for i := 0; i < len(body); i++ {
		ch := body[i]
		if ch != '\\' {
			sb.WriteByte(ch)
			continue
		}
		i++
		if i >= len(body) {
			return "", errf("STRING_LITERAL", s, "dangling backslash in string literal")
		}
		resolved, ok := escapes[body[i]]
		if !ok {
			return "", errf("STRING_LITERAL", s, "unknown escape sequence \\%c", body[i])
		}
		sb.WriteByte(resolved)
	}
	return sb.String(), nil
}

// ============================================================
// Small helpers
// ============================================================

// identLexeme extracts an IDENT token's lexeme from a parse-tree child.
func identLexeme(rule string, n parsetree.Node) (string, error) {
	l, ok := n.(parsetree.Leaf)
	if !ok || l.Token.Kind != token.IDENT {
		return "", errf(rule, n.GetSpan(), "expected an identifier token")
	}
	return l.Token.Lexeme, nil
}

func stmtBase(t *parsetree.Tree) ast.StmtBase {
	return ast.StmtBase{NodeBase: ast.NodeBase{Span: t.GetSpan()}}
}

func exprBase(t *parsetree.Tree) ast.ExprBase {
	return ast.ExprBase{NodeBase: ast.NodeBase{Span: t.GetSpan()}}
}
