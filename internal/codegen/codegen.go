// Package codegen emits Python source from the AST.
//
// The generator is a pure structural recursion: the only state carried
// across the walk is the current indentation depth and the output buffer.
// There is no symbol table and no semantic analysis. Generation rules are
// keyed on node types alone; variable names never influence the shape of
// the emitted code.
package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/BHAWESHBHASKAR/Fluent.is/internal/ast"
	"github.com/BHAWESHBHASKAR/Fluent.is/internal/pymap"
)

const indentUnit = "    "

// CodegenError reports an AST node the generator has no rule for, or a
// builtin call whose argument count matches no rule in the mapping table.
type CodegenError struct {
	NodeType string // Go type name of the unhandled node, when relevant
	Builtin  string // builtin name, for arity failures
	Argc     int    // argument count supplied, for arity failures
	Msg      string
}

func (e *CodegenError) Error() string {
	return "codegen error: " + e.Msg
}

func nodeErr(node ast.Node) *CodegenError {
	typeName := fmt.Sprintf("%T", node)
	return &CodegenError{
		NodeType: typeName,
		Msg:      fmt.Sprintf("no generation rule for node type %s", typeName),
	}
}

func arityErr(b *pymap.Builtin, argc int) *CodegenError {
	return &CodegenError{
		Builtin: b.Name(),
		Argc:    argc,
		Msg: fmt.Sprintf("builtin %s called with %d arguments, expects %s",
			b.Name(), argc, b.Arities()),
	}
}

// Generator emits Python for one program at a time. A Generator is reusable
// but not safe for concurrent use; Generate resets all per-run state.
type Generator struct {
	indent int
	out    strings.Builder
	log    zerolog.Logger
}

// New creates a Generator. Pass zerolog.Nop() when tracing is not wanted.
func New(log zerolog.Logger) *Generator {
	return &Generator{log: log}
}

// Generate walks the program and returns the complete Python source text.
// Output is deterministic: the same AST always yields byte-identical text.
func (g *Generator) Generate(prog *ast.Program) (string, error) {
	g.indent = 0
	g.out.Reset()

	for _, stmt := range prog.Statements {
		if err := g.genStatement(stmt); err != nil {
			return "", err
		}
	}
	g.log.Debug().Int("bytes", g.out.Len()).Msg("generated python source")
	return g.out.String(), nil
}

// writeLine emits one line at the current indentation depth.
func (g *Generator) writeLine(text string) {
	for i := 0; i < g.indent; i++ {
		g.out.WriteString(indentUnit)
	}
	g.out.WriteString(text)
	g.out.WriteByte('\n')
}

// genBlock emits a statement sequence at depth+1. Empty blocks emit a
// single pass so the generated Python stays well-formed.
func (g *Generator) genBlock(stmts []ast.Stmt) error {
	g.indent++
	defer func() { g.indent-- }()

	if len(stmts) == 0 {
		g.writeLine("pass")
		return nil
	}
	for _, stmt := range stmts {
		if err := g.genStatement(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) genStatement(stmt ast.Stmt) error {
	switch s := stmt.(type) {
	case *ast.VariableDeclaration:
		return g.genVariableDeclaration(s)

	case *ast.Assignment:
		value, err := g.genExpr(s.Value)
		if err != nil {
			return err
		}
		g.writeLine(s.Name + " = " + value)
		return nil

	case *ast.PrintStatement:
		expr, err := g.genExpr(s.Expr)
		if err != nil {
			return err
		}
		g.writeLine("print(" + expr + ")")
		return nil

	case *ast.ExpressionStatement:
		call, err := g.genExpr(s.Call)
		if err != nil {
			return err
		}
		g.writeLine(call)
		return nil

	case *ast.IfStatement:
		return g.genIfStatement(s)

	case *ast.WhileStatement:
		cond, err := g.genExpr(s.Cond)
		if err != nil {
			return err
		}
		g.writeLine("while " + cond + ":")
		return g.genBlock(s.Body)

	case *ast.ForeachStatement:
		iterable, err := g.genExpr(s.Iterable)
		if err != nil {
			return err
		}
		g.writeLine("for " + s.Var + " in " + iterable + ":")
		return g.genBlock(s.Body)

	case *ast.FunctionDefinition:
		return g.genFunctionDefinition(s)

	case *ast.ReturnStatement:
		if s.Expr == nil {
			g.writeLine("return")
			return nil
		}
		expr, err := g.genExpr(s.Expr)
		if err != nil {
			return err
		}
		g.writeLine("return " + expr)
		return nil

	case *ast.BreakStatement:
		g.writeLine("break")
		return nil

	default:
		return nodeErr(stmt)
	}
}

// genVariableDeclaration emits `name = init` when an initializer is present,
// otherwise `name = <type default>`.
func (g *Generator) genVariableDeclaration(s *ast.VariableDeclaration) error {
	var value string
	if s.Init != nil {
		v, err := g.genExpr(s.Init)
		if err != nil {
			return err
		}
		value = v
	} else {
		v, err := defaultValue(s.Type)
		if err != nil {
			return err
		}
		value = v
	}
	g.writeLine(s.Name + " = " + value)
	return nil
}

func (g *Generator) genIfStatement(s *ast.IfStatement) error {
	cond, err := g.genExpr(s.Cond)
	if err != nil {
		return err
	}
	g.writeLine("if " + cond + ":")
	if err := g.genBlock(s.Then); err != nil {
		return err
	}
	if s.Else != nil {
		g.writeLine("else:")
		if err := g.genBlock(s.Else); err != nil {
			return err
		}
	}
	return nil
}

// genFunctionDefinition emits a def header with positional parameters in
// declared order, followed by the body and a trailing blank line.
func (g *Generator) genFunctionDefinition(s *ast.FunctionDefinition) error {
	names := make([]string, len(s.Params))
	for i, p := range s.Params {
		names[i] = p.Name
	}
	g.writeLine("def " + s.Name + "(" + strings.Join(names, ", ") + "):")
	if err := g.genBlock(s.Body); err != nil {
		return err
	}
	g.out.WriteByte('\n')
	return nil
}

// defaultValue maps a type annotation to the Python literal an
// uninitialized declaration assigns. Total over all type variants.
func defaultValue(t ast.Type) (string, error) {
	switch tt := t.(type) {
	case ast.ScalarType:
		switch tt.Kind {
		case ast.INTEGER:
			return "0", nil
		case ast.FLOAT:
			return "0.0", nil
		case ast.STRING:
			return `""`, nil
		case ast.BOOLEAN:
			return "False", nil
		case ast.NULLTYPE:
			return "None", nil
		}
	case ast.ListType:
		return "[]", nil
	case ast.MapType:
		return "{}", nil
	}
	return "", &CodegenError{
		NodeType: fmt.Sprintf("%T", t),
		Msg:      fmt.Sprintf("no default value for type %v", t),
	}
}

// pyBinOps maps each binary operator kind to its Python spelling. Total
// over the closed operator enumeration.
var pyBinOps = map[ast.BinOpKind]string{
	ast.ADD: "+", ast.SUB: "-", ast.MUL: "*", ast.DIV: "/",
	ast.EQ: "==", ast.NEQ: "!=",
	ast.LT: "<", ast.LTE: "<=", ast.GT: ">", ast.GTE: ">=",
	ast.AND: "and", ast.OR: "or",
}

func (g *Generator) genExpr(expr ast.Expr) (string, error) {
	switch e := expr.(type) {
	case *ast.Identifier:
		return e.Name, nil
	case *ast.IntLiteral:
		return strconv.FormatInt(e.Value, 10), nil
	case *ast.FloatLiteral:
		return pyFloat(e.Value), nil
	case *ast.StringLiteral:
		return pyQuote(e.Value), nil
	case *ast.BoolLiteral:
		if e.Value {
			return "True", nil
		}
		return "False", nil
	case *ast.NullLiteral:
		return "None", nil

	case *ast.BinaryOp:
		return g.genBinaryOp(e)

	case *ast.UnaryOp:
		operand, err := g.genExpr(e.Operand)
		if err != nil {
			return "", err
		}
		switch e.Op {
		case ast.NEG:
			return "(-" + operand + ")", nil
		case ast.NOT:
			// "not" is a keyword and needs the separating space.
			return "(not " + operand + ")", nil
		}
		return "", nodeErr(e)

	case *ast.FunctionCall:
		return g.genFunctionCall(e)

	case *ast.ListLiteral:
		parts := make([]string, len(e.Elements))
		for i, el := range e.Elements {
			p, err := g.genExpr(el)
			if err != nil {
				return "", err
			}
			parts[i] = p
		}
		return "[" + strings.Join(parts, ", ") + "]", nil

	case *ast.MapLiteral:
		parts := make([]string, len(e.Entries))
		for i, entry := range e.Entries {
			k, err := g.genExpr(entry.Key)
			if err != nil {
				return "", err
			}
			v, err := g.genExpr(entry.Value)
			if err != nil {
				return "", err
			}
			parts[i] = k + ": " + v
		}
		return "{" + strings.Join(parts, ", ") + "}", nil

	default:
		return "", nodeErr(expr)
	}
}

// genBinaryOp parenthesizes unconditionally so the emitted code is
// precedence-safe without consulting Python's precedence table.
func (g *Generator) genBinaryOp(e *ast.BinaryOp) (string, error) {
	op, ok := pyBinOps[e.Op]
	if !ok {
		return "", &CodegenError{
			NodeType: fmt.Sprintf("%T", e),
			Msg:      fmt.Sprintf("no operator mapping for %v", e.Op),
		}
	}
	left, err := g.genExpr(e.Left)
	if err != nil {
		return "", err
	}
	right, err := g.genExpr(e.Right)
	if err != nil {
		return "", err
	}
	return "(" + left + " " + op + " " + right + ")", nil
}

// genFunctionCall renders the arguments first, then routes the call through
// the builtin mapping table. Names the table does not know are user-defined
// functions and keep their spelling and call shape.
func (g *Generator) genFunctionCall(e *ast.FunctionCall) (string, error) {
	args := make([]string, len(e.Args))
	for i, a := range e.Args {
		rendered, err := g.genExpr(a)
		if err != nil {
			return "", err
		}
		args[i] = rendered
	}

	if builtin, ok := pymap.Lookup(e.Name); ok {
		if !builtin.Accepts(len(args)) {
			return "", arityErr(builtin, len(args))
		}
		g.log.Trace().Str("builtin", e.Name).Int("argc", len(args)).Msg("mapped builtin call")
		return builtin.Render(args), nil
	}
	return e.Name + "(" + strings.Join(args, ", ") + ")", nil
}

// pyQuote renders a resolved string value as a Python string literal. Go's
// quoting rules for the escapes the source language admits coincide with
// Python's.
func pyQuote(s string) string {
	return strconv.Quote(s)
}

// pyFloat renders a float so it reads back as a Python float: integral
// values keep an explicit ".0".
func pyFloat(v float64) string {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
