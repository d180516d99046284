// Package parsetree defines the concrete parse tree produced by the parser.
//
// Interior nodes are named after grammar productions; leaves are the tokens
// the productions matched. The tree is the raw, grammar-shaped input of the
// tree builder — no normalization has happened yet.
package parsetree

import (
	"fmt"
	"strings"

	"github.com/BHAWESHBHASKAR/Fluent.is/internal/span"
	"github.com/BHAWESHBHASKAR/Fluent.is/internal/token"
)

// Node is either a *Tree (rule reduction) or a Leaf (matched token).
type Node interface {
	GetSpan() span.Span
	treeNode()
}

// Tree is a rule reduction with its ordered children.
type Tree struct {
	Rule     string
	Children []Node
}

func (t *Tree) treeNode() {}

// GetSpan returns the union of the children's spans.
func (t *Tree) GetSpan() span.Span {
	var s span.Span
	for _, c := range t.Children {
		s = s.Union(c.GetSpan())
	}
	return s
}

// Add appends children and returns the tree, for fluent construction.
func (t *Tree) Add(children ...Node) *Tree {
	t.Children = append(t.Children, children...)
	return t
}

// New creates a rule node.
func New(rule string, children ...Node) *Tree {
	return &Tree{Rule: rule, Children: children}
}

// Leaf wraps a matched token as a parse-tree child.
type Leaf struct {
	Token token.Token
}

func (l Leaf) treeNode() {}

func (l Leaf) GetSpan() span.Span { return l.Token.Span }

// Lex creates a leaf from a token.
func Lex(tok token.Token) Leaf {
	return Leaf{Token: tok}
}

// Pretty renders the tree in an indented one-rule-per-line form, useful in
// the CLI and in test failure output.
func Pretty(n Node) string {
	var sb strings.Builder
	pretty(&sb, n, 0)
	return sb.String()
}

func pretty(sb *strings.Builder, n Node, depth int) {
	indent := strings.Repeat("  ", depth)
	switch v := n.(type) {
	case *Tree:
		fmt.Fprintf(sb, "%s%s\n", indent, v.Rule)
		for _, c := range v.Children {
			pretty(sb, c, depth+1)
		}
	case Leaf:
		fmt.Fprintf(sb, "%s%s %q\n", indent, v.Token.Kind, v.Token.Lexeme)
	}
}
