// Package parser implements the syntax analysis for Fluent.
//
// It is a recursive-descent parser that produces a concrete parse tree whose
// interior nodes are named after grammar productions. It performs no
// normalization: collapsing optional clauses, materializing literals and
// folding constants are the tree builder's job.
package parser

import (
	"fmt"

	"github.com/BHAWESHBHASKAR/Fluent.is/internal/diag"
	"github.com/BHAWESHBHASKAR/Fluent.is/internal/parsetree"
	"github.com/BHAWESHBHASKAR/Fluent.is/internal/span"
	"github.com/BHAWESHBHASKAR/Fluent.is/internal/token"
)

// Parser performs syntax analysis on a stream of tokens.
type Parser struct {
	tokens []token.Token
	pos    int
	diags  diag.Diagnostics
}

// New creates a new parser from a token slice.
func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens, pos: 0}
}

// ParseProgram parses the entire input and returns the concrete parse tree
// rooted at the "start" rule, plus any diagnostics.
func (p *Parser) ParseProgram() (*parsetree.Tree, diag.Diagnostics) {
	root := parsetree.New("start")

	p.skipSep()
	for !p.isAtEnd() {
		stmt := p.parseStatement()
		if stmt != nil {
			root.Add(stmt)
		}
		p.skipSep()
	}

	return root, p.diags
}

// ---- navigation helpers ----

func (p *Parser) peek() token.Token {
	if p.pos >= len(p.tokens) {
		return token.Token{Kind: token.EOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) peekKind() token.Kind {
	return p.peek().Kind
}

func (p *Parser) peekKindAt(offset int) token.Kind {
	if p.pos+offset >= len(p.tokens) {
		return token.EOF
	}
	return p.tokens[p.pos+offset].Kind
}

func (p *Parser) advance() token.Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *Parser) check(kind token.Kind) bool {
	return p.peekKind() == kind
}

func (p *Parser) match(kinds ...token.Kind) bool {
	for _, k := range kinds {
		if p.check(k) {
			return true
		}
	}
	return false
}

func (p *Parser) expect(kind token.Kind) (token.Token, bool) {
	if p.check(kind) {
		return p.advance(), true
	}
	tok := p.peek()
	p.error("E2001", tok.Span, fmt.Sprintf("expected '%s', got '%s'", kind, tok.Kind))
	return tok, false
}

func (p *Parser) isAtEnd() bool {
	return p.peekKind() == token.EOF
}

// skipSep skips NEWLINE tokens (statement separators).
func (p *Parser) skipSep() {
	for p.check(token.NEWLINE) {
		p.advance()
	}
}

func (p *Parser) error(code string, s span.Span, msg string) {
	p.diags = append(p.diags, diag.Errorf(code, s, "%s", msg))
}

// synchronize skips tokens until a likely statement boundary.
func (p *Parser) synchronize() {
	for !p.isAtEnd() {
		if p.check(token.NEWLINE) {
			p.advance()
			return
		}
		if p.match(token.KW_END, token.KW_ELSE) {
			return
		}
		if p.match(token.KW_DECLARE, token.KW_SET, token.KW_PRINT, token.KW_IF,
			token.KW_WHILE, token.KW_FOREACH, token.KW_FUNCTION,
			token.KW_RETURN, token.KW_BREAK) {
			return
		}
		p.advance()
	}
}

// ============================================================
// Statement parsing
// ============================================================

func (p *Parser) parseStatement() *parsetree.Tree {
	switch p.peekKind() {
	case token.KW_DECLARE:
		return p.parseVariableDeclaration()
	case token.KW_SET:
		return p.parseAssignment()
	case token.KW_PRINT:
		return p.parsePrintStatement()
	case token.KW_IF:
		return p.parseIfStatement()
	case token.KW_WHILE:
		return p.parseWhileStatement()
	case token.KW_FOREACH:
		return p.parseForeachStatement()
	case token.KW_FUNCTION:
		return p.parseFunctionDefinition()
	case token.KW_RETURN:
		return p.parseReturnStatement()
	case token.KW_BREAK:
		p.advance()
		return parsetree.New("break_statement")
	case token.IDENT:
		// Only a call can stand alone as a statement.
		if p.peekKindAt(1) == token.LPAREN {
			call := p.parseFunctionCall()
			return parsetree.New("function_call_statement", call)
		}
		tok := p.peek()
		p.error("E2002", tok.Span, fmt.Sprintf("unexpected identifier '%s'; did you mean 'set %s to ...'?", tok.Lexeme, tok.Lexeme))
		p.synchronize()
		return nil
	default:
		tok := p.peek()
		p.error("E2002", tok.Span, fmt.Sprintf("unexpected token: '%s'", tok.Kind))
		p.synchronize()
		return nil
	}
}

// parseVariableDeclaration parses: declare IDENT as type [ = expr ]
func (p *Parser) parseVariableDeclaration() *parsetree.Tree {
	p.advance() // consume 'declare'

	nameTok, ok := p.expect(token.IDENT)
	if !ok {
		p.synchronize()
		return nil
	}
	if _, ok := p.expect(token.KW_AS); !ok {
		p.synchronize()
		return nil
	}
	typ := p.parseType()
	if typ == nil {
		p.synchronize()
		return nil
	}

	node := parsetree.New("variable_declaration", parsetree.Lex(nameTok), typ)
	if p.check(token.ASSIGN) {
		p.advance()
		if init := p.parseExpr(); init != nil {
			node.Add(init)
		}
	}
	return node
}

// parseAssignment parses: set IDENT to expr
func (p *Parser) parseAssignment() *parsetree.Tree {
	p.advance() // consume 'set'

	nameTok, ok := p.expect(token.IDENT)
	if !ok {
		p.synchronize()
		return nil
	}
	if _, ok := p.expect(token.KW_TO); !ok {
		p.synchronize()
		return nil
	}
	value := p.parseExpr()
	if value == nil {
		p.synchronize()
		return nil
	}
	return parsetree.New("assignment", parsetree.Lex(nameTok), value)
}

// parsePrintStatement parses: print expr
func (p *Parser) parsePrintStatement() *parsetree.Tree {
	p.advance() // consume 'print'

	expr := p.parseExpr()
	if expr == nil {
		p.synchronize()
		return nil
	}
	return parsetree.New("print_statement", expr)
}

// parseIfStatement parses: if expr then block [ else block ] end
func (p *Parser) parseIfStatement() *parsetree.Tree {
	p.advance() // consume 'if'

	cond := p.parseExpr()
	if cond == nil {
		p.synchronize()
		return nil
	}
	if _, ok := p.expect(token.KW_THEN); !ok {
		p.synchronize()
		return nil
	}

	node := parsetree.New("if_statement", cond)
	node.Add(p.parseBlock(token.KW_ELSE, token.KW_END))
	if p.check(token.KW_ELSE) {
		p.advance()
		node.Add(p.parseBlock(token.KW_END))
	}
	p.expect(token.KW_END)
	return node
}

// parseWhileStatement parses: while expr do block end
func (p *Parser) parseWhileStatement() *parsetree.Tree {
	p.advance() // consume 'while'

	cond := p.parseExpr()
	if cond == nil {
		p.synchronize()
		return nil
	}
	if _, ok := p.expect(token.KW_DO); !ok {
		p.synchronize()
		return nil
	}
	body := p.parseBlock(token.KW_END)
	p.expect(token.KW_END)
	return parsetree.New("while_statement", cond, body)
}

// parseForeachStatement parses: foreach IDENT in expr do block end
func (p *Parser) parseForeachStatement() *parsetree.Tree {
	p.advance() // consume 'foreach'

	nameTok, ok := p.expect(token.IDENT)
	if !ok {
		p.synchronize()
		return nil
	}
	if _, ok := p.expect(token.KW_IN); !ok {
		p.synchronize()
		return nil
	}
	iterable := p.parseExpr()
	if iterable == nil {
		p.synchronize()
		return nil
	}
	if _, ok := p.expect(token.KW_DO); !ok {
		p.synchronize()
		return nil
	}
	body := p.parseBlock(token.KW_END)
	p.expect(token.KW_END)
	return parsetree.New("foreach_statement", parsetree.Lex(nameTok), iterable, body)
}

// parseFunctionDefinition parses:
//
//	function IDENT ( [params] ) [ returns type ] block end
func (p *Parser) parseFunctionDefinition() *parsetree.Tree {
	p.advance() // consume 'function'

	nameTok, ok := p.expect(token.IDENT)
	if !ok {
		p.synchronize()
		return nil
	}
	params := p.parseParameters()

	node := parsetree.New("function_definition", parsetree.Lex(nameTok), params)
	if p.check(token.KW_RETURNS) {
		p.advance()
		if typ := p.parseType(); typ != nil {
			node.Add(typ)
		}
	}
	node.Add(p.parseBlock(token.KW_END))
	p.expect(token.KW_END)
	return node
}

// parseParameters parses: ( parameter { , parameter } )
func (p *Parser) parseParameters() *parsetree.Tree {
	params := parsetree.New("parameters")

	if _, ok := p.expect(token.LPAREN); !ok {
		return params
	}
	p.skipSep()
	if !p.check(token.RPAREN) {
		if param := p.parseParameter(); param != nil {
			params.Add(param)
		}
		for p.check(token.COMMA) {
			p.advance()
			p.skipSep()
			if param := p.parseParameter(); param != nil {
				params.Add(param)
			}
		}
	}
	p.skipSep()
	p.expect(token.RPAREN)
	return params
}

// parseParameter parses: IDENT as type
func (p *Parser) parseParameter() *parsetree.Tree {
	nameTok, ok := p.expect(token.IDENT)
	if !ok {
		return nil
	}
	if _, ok := p.expect(token.KW_AS); !ok {
		return nil
	}
	typ := p.parseType()
	if typ == nil {
		return nil
	}
	return parsetree.New("parameter", parsetree.Lex(nameTok), typ)
}

// parseReturnStatement parses: return [ expr ]
func (p *Parser) parseReturnStatement() *parsetree.Tree {
	p.advance() // consume 'return'

	node := parsetree.New("return_statement")
	if !p.match(token.NEWLINE, token.EOF, token.KW_END, token.KW_ELSE) {
		if expr := p.parseExpr(); expr != nil {
			node.Add(expr)
		}
	}
	return node
}

// parseBlock parses statements until one of the stop keywords. The stop
// token is not consumed.
func (p *Parser) parseBlock(stops ...token.Kind) *parsetree.Tree {
	block := parsetree.New("block")

	p.skipSep()
	for !p.isAtEnd() && !p.match(stops...) {
		stmt := p.parseStatement()
		if stmt != nil {
			block.Add(stmt)
		}
		p.skipSep()
	}
	return block
}

// ============================================================
// Type parsing
// ============================================================

// parseType parses: basetype | LIST OF type | MAP OF type TO type
func (p *Parser) parseType() *parsetree.Tree {
	tok := p.peek()
	switch tok.Kind {
	case token.KW_INTEGER:
		p.advance()
		return parsetree.New("basetype_integer", parsetree.Lex(tok))
	case token.KW_FLOAT:
		p.advance()
		return parsetree.New("basetype_float", parsetree.Lex(tok))
	case token.KW_STRING:
		p.advance()
		return parsetree.New("basetype_string", parsetree.Lex(tok))
	case token.KW_BOOLEAN:
		p.advance()
		return parsetree.New("basetype_boolean", parsetree.Lex(tok))
	case token.KW_NULLTYPE:
		p.advance()
		return parsetree.New("basetype_nulltype", parsetree.Lex(tok))
	case token.KW_LIST:
		p.advance()
		if _, ok := p.expect(token.KW_OF); !ok {
			return nil
		}
		elem := p.parseType()
		if elem == nil {
			return nil
		}
		return parsetree.New("list_type", elem)
	case token.KW_MAP:
		p.advance()
		if _, ok := p.expect(token.KW_OF); !ok {
			return nil
		}
		key := p.parseType()
		if key == nil {
			return nil
		}
		if _, ok := p.expect(token.KW_TO); !ok {
			return nil
		}
		value := p.parseType()
		if value == nil {
			return nil
		}
		return parsetree.New("map_type", key, value)
	default:
		p.error("E2003", tok.Span, fmt.Sprintf("expected a type, got '%s'", tok.Kind))
		return nil
	}
}

// ============================================================
// Expression parsing (precedence cascade)
// ============================================================

// parseExpr parses a full expression: OR has the lowest precedence.
func (p *Parser) parseExpr() parsetree.Node {
	return p.parseLogicalOr()
}

// parseLogicalOr parses: logical_and { OR logical_and }
func (p *Parser) parseLogicalOr() parsetree.Node {
	left := p.parseLogicalAnd()
	if left == nil {
		return nil
	}
	for p.check(token.OR) {
		op := p.advance()
		p.skipSep()
		right := p.parseLogicalAnd()
		if right == nil {
			return left
		}
		left = parsetree.New("logical_or", left, parsetree.Lex(op), right)
	}
	return left
}

// parseLogicalAnd parses: comparison { AND comparison }
func (p *Parser) parseLogicalAnd() parsetree.Node {
	left := p.parseComparison()
	if left == nil {
		return nil
	}
	for p.check(token.AND) {
		op := p.advance()
		p.skipSep()
		right := p.parseComparison()
		if right == nil {
			return left
		}
		left = parsetree.New("logical_and", left, parsetree.Lex(op), right)
	}
	return left
}

// parseComparison parses: arith_expr { (==|!=|<|<=|>|>=) arith_expr }
func (p *Parser) parseComparison() parsetree.Node {
	left := p.parseArith()
	if left == nil {
		return nil
	}
	for p.match(token.EQ, token.NEQ, token.LT, token.LTE, token.GT, token.GTE) {
		op := p.advance()
		p.skipSep()
		right := p.parseArith()
		if right == nil {
			return left
		}
		left = parsetree.New("comparison", left, parsetree.Lex(op), right)
	}
	return left
}

// parseArith parses: term { (+|-) term }
func (p *Parser) parseArith() parsetree.Node {
	left := p.parseTerm()
	if left == nil {
		return nil
	}
	for p.match(token.PLUS, token.MINUS) {
		op := p.advance()
		p.skipSep()
		right := p.parseTerm()
		if right == nil {
			return left
		}
		left = parsetree.New("arith_expr", left, parsetree.Lex(op), right)
	}
	return left
}

// parseTerm parses: factor { (*|/) factor }
func (p *Parser) parseTerm() parsetree.Node {
	left := p.parseFactor()
	if left == nil {
		return nil
	}
	for p.match(token.STAR, token.SLASH) {
		op := p.advance()
		p.skipSep()
		right := p.parseFactor()
		if right == nil {
			return left
		}
		left = parsetree.New("term", left, parsetree.Lex(op), right)
	}
	return left
}

// parseFactor parses: (-|NOT) factor | atom
func (p *Parser) parseFactor() parsetree.Node {
	if p.match(token.MINUS, token.NOT) {
		op := p.advance()
		p.skipSep()
		operand := p.parseFactor()
		if operand == nil {
			return nil
		}
		return parsetree.New("factor", parsetree.Lex(op), operand)
	}
	return p.parseAtom()
}

// parseAtom parses literals, identifiers, calls, collection literals, and
// grouped expressions.
func (p *Parser) parseAtom() parsetree.Node {
	tok := p.peek()

	switch tok.Kind {
	case token.INT, token.FLOAT, token.STRING, token.TRUE, token.FALSE, token.NULL:
		p.advance()
		return parsetree.Lex(tok)

	case token.IDENT:
		if p.peekKindAt(1) == token.LPAREN {
			return p.parseFunctionCall()
		}
		p.advance()
		return parsetree.Lex(tok)

	case token.LPAREN:
		p.advance()
		p.skipSep()
		expr := p.parseExpr()
		p.skipSep()
		p.expect(token.RPAREN)
		return expr

	case token.LBRACKET:
		return p.parseListLiteral()

	case token.LBRACE:
		return p.parseMapLiteral()

	default:
		p.error("E2004", tok.Span, fmt.Sprintf("expected an expression, got '%s'", tok.Kind))
		return nil
	}
}

// parseFunctionCall parses: IDENT ( [ expr { , expr } ] )
func (p *Parser) parseFunctionCall() *parsetree.Tree {
	nameTok := p.advance() // consume IDENT
	p.advance()            // consume '('

	args := parsetree.New("arguments")
	p.skipSep()
	if !p.check(token.RPAREN) {
		if arg := p.parseExpr(); arg != nil {
			args.Add(arg)
		}
		for p.check(token.COMMA) {
			p.advance()
			p.skipSep()
			if arg := p.parseExpr(); arg != nil {
				args.Add(arg)
			}
		}
	}
	p.skipSep()
	p.expect(token.RPAREN)

	return parsetree.New("function_call", parsetree.Lex(nameTok), args)
}

// parseListLiteral parses: [ expr { , expr } ]
func (p *Parser) parseListLiteral() *parsetree.Tree {
	p.advance() // consume '['
	node := parsetree.New("list_literal")

	p.skipSep()
	if !p.check(token.RBRACKET) {
		if el := p.parseExpr(); el != nil {
			node.Add(el)
		}
		for p.check(token.COMMA) {
			p.advance()
			p.skipSep()
			if p.check(token.RBRACKET) {
				break // trailing comma
			}
			if el := p.parseExpr(); el != nil {
				node.Add(el)
			}
		}
	}
	p.skipSep()
	p.expect(token.RBRACKET)
	return node
}

// parseMapLiteral parses: { map_entry { , map_entry } }
func (p *Parser) parseMapLiteral() *parsetree.Tree {
	p.advance() // consume '{'
	node := parsetree.New("map_literal")

	p.skipSep()
	if !p.check(token.RBRACE) {
		if entry := p.parseMapEntry(); entry != nil {
			node.Add(entry)
		}
		for p.check(token.COMMA) {
			p.advance()
			p.skipSep()
			if p.check(token.RBRACE) {
				break // trailing comma
			}
			if entry := p.parseMapEntry(); entry != nil {
				node.Add(entry)
			}
		}
	}
	p.skipSep()
	p.expect(token.RBRACE)
	return node
}

// parseMapEntry parses: expr : expr
func (p *Parser) parseMapEntry() *parsetree.Tree {
	key := p.parseExpr()
	if key == nil {
		return nil
	}
	if _, ok := p.expect(token.COLON); !ok {
		return nil
	}
	p.skipSep()
	value := p.parseExpr()
	if value == nil {
		return nil
	}
	return parsetree.New("map_entry", key, value)
}
