package ast

import (
	"github.com/BHAWESHBHASKAR/Fluent.is/internal/span"
)

// NodeToMap converts an AST node to a map suitable for JSON serialization.
// This produces a tagged-union structure: every node has a "kind" field.
func NodeToMap(node Node) map[string]interface{} {
	if node == nil {
		return nil
	}

	switch n := node.(type) {
	case *Program:
		return m("Program", n.Span, "statements", stmtSlice(n.Statements))

	// ---- Expressions ----
	case *Identifier:
		return m("Identifier", n.Span, "name", n.Name)
	case *IntLiteral:
		return m("IntLiteral", n.Span, "value", n.Value)
	case *FloatLiteral:
		return m("FloatLiteral", n.Span, "value", n.Value)
	case *StringLiteral:
		return m("StringLiteral", n.Span, "value", n.Value)
	case *BoolLiteral:
		return m("BoolLiteral", n.Span, "value", n.Value)
	case *NullLiteral:
		return m("NullLiteral", n.Span)
	case *UnaryOp:
		return m("UnaryOp", n.Span, "op", n.Op.String(), "operand", NodeToMap(n.Operand))
	case *BinaryOp:
		return m("BinaryOp", n.Span,
			"op", n.Op.String(),
			"left", NodeToMap(n.Left),
			"right", NodeToMap(n.Right))
	case *FunctionCall:
		return m("FunctionCall", n.Span,
			"name", n.Name,
			"args", exprSlice(n.Args))
	case *ListLiteral:
		return m("ListLiteral", n.Span, "elements", exprSlice(n.Elements))
	case *MapLiteral:
		entries := make([]interface{}, len(n.Entries))
		for i, e := range n.Entries {
			entries[i] = map[string]interface{}{
				"key":   NodeToMap(e.Key),
				"value": NodeToMap(e.Value),
			}
		}
		return m("MapLiteral", n.Span, "entries", entries)

	// ---- Statements ----
	case *VariableDeclaration:
		result := m("VariableDeclaration", n.Span, "name", n.Name, "type", typeToMap(n.Type))
		if n.Init != nil {
			result["init"] = NodeToMap(n.Init)
		}
		return result
	case *Assignment:
		return m("Assignment", n.Span, "name", n.Name, "value", NodeToMap(n.Value))
	case *PrintStatement:
		return m("PrintStatement", n.Span, "expr", NodeToMap(n.Expr))
	case *ExpressionStatement:
		return m("ExpressionStatement", n.Span, "call", NodeToMap(n.Call))
	case *IfStatement:
		result := m("IfStatement", n.Span,
			"cond", NodeToMap(n.Cond),
			"then", stmtSlice(n.Then))
		if n.Else != nil {
			result["else"] = stmtSlice(n.Else)
		}
		return result
	case *WhileStatement:
		return m("WhileStatement", n.Span,
			"cond", NodeToMap(n.Cond),
			"body", stmtSlice(n.Body))
	case *ForeachStatement:
		return m("ForeachStatement", n.Span,
			"var", n.Var,
			"iterable", NodeToMap(n.Iterable),
			"body", stmtSlice(n.Body))
	case *FunctionDefinition:
		params := make([]interface{}, len(n.Params))
		for i, p := range n.Params {
			params[i] = map[string]interface{}{
				"name": p.Name,
				"type": typeToMap(p.Type),
			}
		}
		return m("FunctionDefinition", n.Span,
			"name", n.Name,
			"params", params,
			"returnType", typeToMap(n.ReturnType),
			"body", stmtSlice(n.Body))
	case *ReturnStatement:
		result := m("ReturnStatement", n.Span)
		if n.Expr != nil {
			result["expr"] = NodeToMap(n.Expr)
		}
		return result
	case *BreakStatement:
		return m("BreakStatement", n.Span)

	default:
		return map[string]interface{}{"kind": "Unknown"}
	}
}

// typeToMap converts a type annotation to a tagged map.
func typeToMap(t Type) map[string]interface{} {
	switch tt := t.(type) {
	case ScalarType:
		return map[string]interface{}{"kind": "ScalarType", "name": tt.Kind.String()}
	case ListType:
		return map[string]interface{}{"kind": "ListType", "elem": typeToMap(tt.Elem)}
	case MapType:
		return map[string]interface{}{
			"kind":  "MapType",
			"key":   typeToMap(tt.Key),
			"value": typeToMap(tt.Value),
		}
	default:
		return nil
	}
}

// ---- helpers ----

// m builds a map with kind, span, and extra key-value pairs.
func m(kind string, s span.Span, kvs ...interface{}) map[string]interface{} {
	result := map[string]interface{}{
		"kind": kind,
		"span": spanToMap(s),
	}
	for i := 0; i+1 < len(kvs); i += 2 {
		key := kvs[i].(string)
		result[key] = kvs[i+1]
	}
	return result
}

func spanToMap(s span.Span) map[string]interface{} {
	return map[string]interface{}{
		"start": map[string]interface{}{
			"offset": s.Start.Offset,
			"line":   s.Start.Line,
			"column": s.Start.Column,
		},
		"end": map[string]interface{}{
			"offset": s.End.Offset,
			"line":   s.End.Line,
			"column": s.End.Column,
		},
	}
}

func stmtSlice(stmts []Stmt) []interface{} {
	result := make([]interface{}, len(stmts))
	for i, s := range stmts {
		result[i] = NodeToMap(s)
	}
	return result
}

func exprSlice(exprs []Expr) []interface{} {
	result := make([]interface{}, len(exprs))
	for i, e := range exprs {
		result[i] = NodeToMap(e)
	}
	return result
}
