package parser

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestLexerBasicTokens(t *testing.T) {
	tests := []struct {
		name  string
		input string
		types []TokenType
	}{
		{
			name:  "open directive",
			input: "2014-05-01 open Assets:Checking USD",
			types: []TokenType{DATE, OPEN, ACCOUNT, IDENT, EOF},
		},
		{
			name:  "transaction header",
			input: `2014-05-05 * "Cafe Mogador" "Lamb tagine" #dining ^trip`,
			types: []TokenType{DATE, ASTERISK, STRING, STRING, TAG, LINK, EOF},
		},
		{
			name:  "posting with cost and price",
			input: "  Assets:Brokerage 10 HOOL {518.73 USD} @ 520.00 USD",
			types: []TokenType{ACCOUNT, NUMBER, IDENT, LBRACE, NUMBER, IDENT, RBRACE, AT, NUMBER, IDENT, EOF},
		},
		{
			name:  "total cost and total price",
			input: "  Assets:A 10 HOOL {{5187.30 USD}} @@ 5200.00 USD",
			types: []TokenType{ACCOUNT, NUMBER, IDENT, LDBRACE, NUMBER, IDENT, RDBRACE, ATAT, NUMBER, IDENT, EOF},
		},
		{
			name:  "negative amount",
			input: "  Liabilities:CreditCard -37.45 USD",
			types: []TokenType{ACCOUNT, MINUS, NUMBER, IDENT, EOF},
		},
		{
			name:  "expression amount",
			input: "  Expenses:Food (40.00/3) USD",
			types: []TokenType{ACCOUNT, LPAREN, NUMBER, SLASH, NUMBER, RPAREN, IDENT, EOF},
		},
		{
			name:  "newlines are tokens",
			input: "option \"a\" \"b\"\n\ninclude \"x.beancount\"",
			types: []TokenType{OPTION, STRING, STRING, NEWLINE, NEWLINE, INCLUDE, STRING, EOF},
		},
		{
			name:  "comment token",
			input: "2014-01-01 open Assets:A ; opening balance",
			types: []TokenType{DATE, OPEN, ACCOUNT, COMMENT, EOF},
		},
		{
			name:  "metadata key",
			input: "  invoice: \"INV-001\"",
			types: []TokenType{IDENT, COLON, STRING, EOF},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			lexer := NewLexer([]byte(test.input), "test.beancount")
			tokens := lexer.ScanAll()

			var types []TokenType
			for _, tok := range tokens {
				types = append(types, tok.Type)
			}

			assert.Equal(t, test.types, types)
		})
	}
}

func TestLexerNumbers(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"123", "123"},
		{"123.45", "123.45"},
		{"1,000.00", "1,000.00"},
		{"1,234,567.89", "1,234,567.89"},
		{"0.00000001", "0.00000001"},
	}

	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			lexer := NewLexer([]byte(test.input), "")
			tokens := lexer.ScanAll()

			assert.Equal(t, NUMBER, tokens[0].Type)
			assert.Equal(t, test.want, tokens[0].String([]byte(test.input)))
		})
	}
}

func TestLexerCommaNotSwallowed(t *testing.T) {
	// The comma in a currency list is a separator, not part of a number.
	lexer := NewLexer([]byte("1, 2"), "")
	tokens := lexer.ScanAll()

	var types []TokenType
	for _, tok := range tokens {
		types = append(types, tok.Type)
	}
	assert.Equal(t, []TokenType{NUMBER, COMMA, NUMBER, EOF}, types)
}

func TestLexerDateVsNumber(t *testing.T) {
	lexer := NewLexer([]byte("2014-05-01 2014.50"), "")
	tokens := lexer.ScanAll()

	assert.Equal(t, DATE, tokens[0].Type)
	assert.Equal(t, NUMBER, tokens[1].Type)
}

func TestLexerUnicodeAccounts(t *testing.T) {
	input := "Assets:Bank:Курс"
	lexer := NewLexer([]byte(input), "")
	tokens := lexer.ScanAll()

	assert.Equal(t, ACCOUNT, tokens[0].Type)
	assert.Equal(t, input, tokens[0].String([]byte(input)))
}

func TestLexerPositions(t *testing.T) {
	input := "option \"a\" \"b\"\n2014-01-01 open Assets:A"
	lexer := NewLexer([]byte(input), "")
	tokens := lexer.ScanAll()

	// option on line 1, column 1
	assert.Equal(t, 1, tokens[0].Line)
	assert.Equal(t, 1, tokens[0].Column)

	// date on line 2, column 1
	date := tokens[4]
	assert.Equal(t, DATE, date.Type)
	assert.Equal(t, 2, date.Line)
	assert.Equal(t, 1, date.Column)
}

func TestLexerStringEscapes(t *testing.T) {
	input := `"a \"quoted\" word"`
	lexer := NewLexer([]byte(input), "")
	tokens := lexer.ScanAll()

	assert.Equal(t, STRING, tokens[0].Type)
	assert.Equal(t, input, tokens[0].String([]byte(input)))
	assert.Equal(t, EOF, tokens[1].Type)
}

func TestLexerNeverFails(t *testing.T) {
	// Arbitrary garbage still produces a token stream ending in EOF.
	inputs := []string{
		"\x00\x01\x02",
		"%%%%",
		"2014-05-05 ??? what",
		"{{{{}}}}",
	}

	for _, input := range inputs {
		lexer := NewLexer([]byte(input), "")
		tokens := lexer.ScanAll()
		assert.True(t, len(tokens) > 0)
		assert.Equal(t, EOF, tokens[len(tokens)-1].Type)
	}
}

func FuzzLexer(f *testing.F) {
	f.Add("2014-05-01 open Assets:Checking USD\n")
	f.Add("2014-05-05 * \"Payee\" \"Narration\"\n  Assets:A 1.00 USD\n  Assets:B\n")
	f.Add("; comment\noption \"title\" \"x\"\n")

	f.Fuzz(func(t *testing.T, input string) {
		lexer := NewLexer([]byte(input), "fuzz")
		tokens := lexer.ScanAll()

		if len(tokens) == 0 {
			t.Fatal("no tokens")
		}
		if tokens[len(tokens)-1].Type != EOF {
			t.Fatal("missing EOF token")
		}
		for _, tok := range tokens {
			if tok.Start > tok.End || tok.End > len(input) {
				t.Fatalf("token span out of bounds: %+v", tok)
			}
		}
	})
}
