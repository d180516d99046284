package lexer

import (
	"testing"

	"github.com/BHAWESHBHASKAR/Fluent.is/internal/token"
)

func tokenize(t *testing.T, source string) []token.Token {
	t.Helper()
	tokens, diags := New(source, "test.is").Tokenize()
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	return tokens
}

func checkKinds(t *testing.T, tokens []token.Token, expected []token.Kind) {
	t.Helper()
	if len(tokens) != len(expected) {
		t.Fatalf("expected %d tokens, got %d", len(expected), len(tokens))
	}
	for i, exp := range expected {
		if tokens[i].Kind != exp {
			t.Errorf("token[%d]: expected %s, got %s (%q)", i, exp, tokens[i].Kind, tokens[i].Lexeme)
		}
	}
}

func TestTokenizeDeclaration(t *testing.T) {
	tokens := tokenize(t, `declare x as INTEGER = 5`)
	checkKinds(t, tokens, []token.Kind{
		token.KW_DECLARE, token.IDENT, token.KW_AS, token.KW_INTEGER,
		token.ASSIGN, token.INT, token.EOF,
	})
}

func TestTokenizeKeywords(t *testing.T) {
	source := `declare as set to print if then else end while do foreach in function returns return break`
	tokens := tokenize(t, source)
	checkKinds(t, tokens, []token.Kind{
		token.KW_DECLARE, token.KW_AS, token.KW_SET, token.KW_TO, token.KW_PRINT,
		token.KW_IF, token.KW_THEN, token.KW_ELSE, token.KW_END,
		token.KW_WHILE, token.KW_DO, token.KW_FOREACH, token.KW_IN,
		token.KW_FUNCTION, token.KW_RETURNS, token.KW_RETURN, token.KW_BREAK,
		token.EOF,
	})
}

func TestTokenizeTypeKeywords(t *testing.T) {
	source := `INTEGER FLOAT STRING BOOLEAN NULLTYPE LIST MAP OF TO`
	tokens := tokenize(t, source)
	checkKinds(t, tokens, []token.Kind{
		token.KW_INTEGER, token.KW_FLOAT, token.KW_STRING, token.KW_BOOLEAN,
		token.KW_NULLTYPE, token.KW_LIST, token.KW_MAP, token.KW_OF, token.KW_TO,
		token.EOF,
	})
}

func TestTokenizeWordOperators(t *testing.T) {
	tokens := tokenize(t, `AND OR NOT TRUE FALSE NULL`)
	checkKinds(t, tokens, []token.Kind{
		token.AND, token.OR, token.NOT,
		token.TRUE, token.FALSE, token.NULL,
		token.EOF,
	})
}

func TestTokenizeOperators(t *testing.T) {
	tokens := tokenize(t, `= == != < <= > >= + - * /`)
	checkKinds(t, tokens, []token.Kind{
		token.ASSIGN, token.EQ, token.NEQ,
		token.LT, token.LTE, token.GT, token.GTE,
		token.PLUS, token.MINUS, token.STAR, token.SLASH,
		token.EOF,
	})
}

func TestTokenizeDelimiters(t *testing.T) {
	tokens := tokenize(t, `( ) [ ] { } , :`)
	checkKinds(t, tokens, []token.Kind{
		token.LPAREN, token.RPAREN, token.LBRACKET, token.RBRACKET,
		token.LBRACE, token.RBRACE, token.COMMA, token.COLON,
		token.EOF,
	})
}

func TestTokenizeStringKeepsRawLexeme(t *testing.T) {
	tokens := tokenize(t, `"line1\nline2"`)
	if tokens[0].Kind != token.STRING {
		t.Fatalf("expected STRING, got %s", tokens[0].Kind)
	}
	// The lexeme keeps the quotes and the raw escape; resolution is the
	// tree builder's job.
	if tokens[0].Lexeme != `"line1\nline2"` {
		t.Errorf("expected raw lexeme with quotes, got %q", tokens[0].Lexeme)
	}
}

func TestTokenizeEscapedQuoteDoesNotTerminate(t *testing.T) {
	tokens := tokenize(t, `"say \"hi\"" 7`)
	checkKinds(t, tokens, []token.Kind{token.STRING, token.INT, token.EOF})
	if tokens[0].Lexeme != `"say \"hi\""` {
		t.Errorf("unexpected string lexeme %q", tokens[0].Lexeme)
	}
}

func TestTokenizeNumbers(t *testing.T) {
	tokens := tokenize(t, `42 3.14 0 10.0`)
	checkKinds(t, tokens, []token.Kind{
		token.INT, token.FLOAT, token.INT, token.FLOAT, token.EOF,
	})
	if tokens[1].Lexeme != "3.14" {
		t.Errorf("expected lexeme 3.14, got %q", tokens[1].Lexeme)
	}
}

func TestTokenizeComments(t *testing.T) {
	source := "declare x as INTEGER # the counter\n# full-line comment\nprint x"
	tokens := tokenize(t, source)
	checkKinds(t, tokens, []token.Kind{
		token.KW_DECLARE, token.IDENT, token.KW_AS, token.KW_INTEGER, token.NEWLINE,
		token.NEWLINE,
		token.KW_PRINT, token.IDENT, token.EOF,
	})
}

func TestTokenizeNewlines(t *testing.T) {
	tokens := tokenize(t, "print 1\nprint 2\n")
	checkKinds(t, tokens, []token.Kind{
		token.KW_PRINT, token.INT, token.NEWLINE,
		token.KW_PRINT, token.INT, token.NEWLINE,
		token.EOF,
	})
}

func TestTokenizeBuiltinNameIsIdent(t *testing.T) {
	tokens := tokenize(t, `GET_LENGTH(xs)`)
	checkKinds(t, tokens, []token.Kind{
		token.IDENT, token.LPAREN, token.IDENT, token.RPAREN, token.EOF,
	})
	if tokens[0].Lexeme != "GET_LENGTH" {
		t.Errorf("expected GET_LENGTH, got %q", tokens[0].Lexeme)
	}
}

func TestTokenizeUnterminatedString(t *testing.T) {
	_, diags := New("\"oops\nprint 1", "test.is").Tokenize()
	if !diags.HasErrors() {
		t.Fatal("expected a diagnostic for unterminated string")
	}
	if diags[0].Code != "E1001" {
		t.Errorf("expected E1001, got %s", diags[0].Code)
	}
}

func TestTokenizeUnexpectedCharacter(t *testing.T) {
	tokens, diags := New("declare x @ INTEGER", "test.is").Tokenize()
	if !diags.HasErrors() {
		t.Fatal("expected a diagnostic for unexpected character")
	}
	if diags[0].Code != "E1003" {
		t.Errorf("expected E1003, got %s", diags[0].Code)
	}
	found := false
	for _, tok := range tokens {
		if tok.Kind == token.ILLEGAL {
			found = true
		}
	}
	if !found {
		t.Error("expected an ILLEGAL token in the stream")
	}
}

func TestTokenizeBareBang(t *testing.T) {
	_, diags := New("!x", "test.is").Tokenize()
	if !diags.HasErrors() {
		t.Fatal("expected a diagnostic for bare '!'")
	}
}

func TestTokenizeSpans(t *testing.T) {
	tokens := tokenize(t, "print 42")
	if tokens[0].Span.Start.Line != 1 || tokens[0].Span.Start.Column != 1 {
		t.Errorf("print span: got %d:%d", tokens[0].Span.Start.Line, tokens[0].Span.Start.Column)
	}
	if tokens[1].Span.Start.Column != 7 {
		t.Errorf("42 column: expected 7, got %d", tokens[1].Span.Start.Column)
	}
}
