// Package compile is the front door of the transpiler: one call takes
// Fluent source text and returns Python source text.
//
// Each call runs the full pipeline (lex, parse, build, generate) with no
// state shared between invocations, so Compile is safe to call concurrently.
// The three failure stages stay distinguishable through errors.As:
// diag.Diagnostics for syntax errors, *build.BuildError for parse-tree
// shapes the builder rejects, *codegen.CodegenError for generation failures.
package compile

import (
	"github.com/rs/zerolog"

	"github.com/BHAWESHBHASKAR/Fluent.is/internal/ast"
	"github.com/BHAWESHBHASKAR/Fluent.is/internal/build"
	"github.com/BHAWESHBHASKAR/Fluent.is/internal/codegen"
	"github.com/BHAWESHBHASKAR/Fluent.is/internal/lexer"
	"github.com/BHAWESHBHASKAR/Fluent.is/internal/parser"
	"github.com/BHAWESHBHASKAR/Fluent.is/internal/parsetree"
)

// Options configures one compilation. The zero value compiles silently.
type Options struct {
	// Logger receives per-stage trace output. Replaces any notion of a
	// process-wide debug flag: tracing is scoped to the invocation.
	Logger zerolog.Logger
}

// Compile translates Fluent source text into Python source text.
// The filename is used in diagnostics only.
func Compile(source, filename string, opts Options) (string, error) {
	prog, err := BuildAST(source, filename, opts)
	if err != nil {
		return "", err
	}
	return codegen.New(opts.Logger).Generate(prog)
}

// BuildAST runs the front half of the pipeline and returns the AST.
func BuildAST(source, filename string, opts Options) (*ast.Program, error) {
	tree, err := Parse(source, filename)
	if err != nil {
		return nil, err
	}
	return build.New(opts.Logger).Build(tree)
}

// Parse runs the lexer and parser and returns the concrete parse tree.
func Parse(source, filename string) (*parsetree.Tree, error) {
	tokens, diags := lexer.New(source, filename).Tokenize()
	if diags.HasErrors() {
		return nil, diags
	}
	tree, diags := parser.New(tokens).ParseProgram()
	if diags.HasErrors() {
		return nil, diags
	}
	return tree, nil
}
