package parser

import (
	"strconv"
	"strings"

	"github.com/matze/beancount-language-server/ast"
)

// Helper parsing methods used across directive parsers.
// These implement the common patterns in Beancount syntax.

// parseDate parses a DATE token and converts it to *ast.Date.
func (p *Parser) parseDate() (*ast.Date, error) {
	tok := p.expect(DATE, "expected date")
	if tok.Type == ILLEGAL {
		return nil, p.errorAtToken(p.peek(), "expected date")
	}

	var date ast.Date
	if err := date.Capture([]string{tok.String(p.source)}); err != nil {
		return nil, p.errorAtToken(tok, "invalid date: %v", err)
	}

	return &date, nil
}

// parseAccount parses an ACCOUNT token and converts it to ast.Account.
// The account name is interned; the token span is returned so callers can
// index the account's exact location.
func (p *Parser) parseAccount() (ast.Account, ast.Span, error) {
	tok := p.expect(ACCOUNT, "expected account")
	if tok.Type == ILLEGAL {
		actualTok := p.peek()
		return "", ast.Span{}, p.errorAtToken(actualTok, "expected account but got %s %q", actualTok.Type, actualTok.String(p.source))
	}

	// Intern account name for memory efficiency
	accountStr := p.interner.InternBytes(tok.Bytes(p.source))

	var account ast.Account
	if err := account.Capture([]string{accountStr}); err != nil {
		return "", ast.Span{}, p.errorAtToken(tok, "invalid account: %v", err)
	}

	return account, ast.Span{Start: tok.Start, End: tok.End}, nil
}

// parseAmount parses an amount: NUMBER CURRENCY or EXPRESSION CURRENCY
//
// Supports arithmetic expressions in amounts:
//
//	100.50 USD           → simple amount (fast path)
//	-50.00 USD           → negative number (preserves formatting)
//	(40.00/3) USD        → expression evaluated at parse time
//	40.00/3 + 5 USD      → expression with operators
//
// Expressions are evaluated at parse time and stored as decimal strings.
func (p *Parser) parseAmount() (*ast.Amount, error) {
	amt, err := p.parseAmountValue()
	if err != nil {
		return nil, err
	}

	// Parse currency (same for both simple and expression amounts)
	currTok := p.expect(IDENT, "expected currency")
	if currTok.Type == ILLEGAL {
		return nil, p.errorAtToken(p.peek(), "expected currency")
	}

	amt.Currency = p.interner.InternBytes(currTok.Bytes(p.source))
	return amt, nil
}

// parseAmountOptionalCurrency parses an amount whose currency may be omitted
// (it will be inferred downstream). Currency is empty when absent.
func (p *Parser) parseAmountOptionalCurrency() (*ast.Amount, error) {
	amt, err := p.parseAmountValue()
	if err != nil {
		return nil, err
	}

	if p.check(IDENT) {
		currTok := p.advance()
		amt.Currency = p.interner.InternBytes(currTok.Bytes(p.source))
	}

	return amt, nil
}

// parseAmountValue parses just the numeric part of an amount.
func (p *Parser) parseAmountValue() (*ast.Amount, error) {
	startPos := p.peek().Start

	// Special case: simple negative number (MINUS + NUMBER + non-operator).
	// Preserve original formatting instead of evaluating as expression.
	if p.check(MINUS) && p.peekAhead(1).Type == NUMBER {
		tokenAfterNumber := p.peekAhead(2)
		isSimpleNegative := tokenAfterNumber.Type != PLUS &&
			tokenAfterNumber.Type != MINUS &&
			tokenAfterNumber.Type != ASTERISK &&
			tokenAfterNumber.Type != SLASH

		if isSimpleNegative {
			minusTok := p.advance()
			numTok := p.advance()
			return &ast.Amount{
				Value: minusTok.String(p.source) + numTok.String(p.source),
				Span:  ast.Span{Start: minusTok.Start, End: numTok.End},
			}, nil
		}
	}

	if p.isExpressionStart() {
		result, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		return &ast.Amount{
			Value: result.String(),
			Span:  ast.Span{Start: startPos, End: p.prevContentEnd()},
		}, nil
	}

	// Fast path: simple positive number
	numTok := p.expect(NUMBER, "expected number")
	if numTok.Type == ILLEGAL {
		return nil, p.errorAtToken(p.peek(), "expected number")
	}
	return &ast.Amount{
		Value: numTok.String(p.source),
		Span:  ast.Span{Start: numTok.Start, End: numTok.End},
	}, nil
}

// parseCost parses a cost specification: { [*] [AMOUNT] [, DATE] [, LABEL] }
// Double braces {{...}} specify a total cost instead of a per-unit cost.
func (p *Parser) parseCost() (*ast.Cost, error) {
	closer := RBRACE
	lbrace := p.peek()
	switch lbrace.Type {
	case LBRACE:
		p.advance()
	case LDBRACE:
		p.advance()
		closer = RDBRACE
	default:
		return nil, p.error("expected '{'")
	}
	startPos := lbrace.Start

	cost := &ast.Cost{IsTotal: closer == RDBRACE}

	// Merge cost {*}
	if p.match(ASTERISK) {
		cost.IsMerge = true
		rbrace := p.consume(closer, "expected '}'")
		if rbrace.Type == ILLEGAL {
			return nil, p.error("expected '}'")
		}
		cost.Span = ast.Span{Start: startPos, End: rbrace.End}
		return cost, nil
	}

	// Empty cost {}
	if p.check(closer) {
		rbrace := p.advance()
		cost.Span = ast.Span{Start: startPos, End: rbrace.End}
		return cost, nil
	}

	// Amount if present (including expressions starting with LPAREN or MINUS)
	if p.check(NUMBER) || p.check(LPAREN) || p.check(MINUS) {
		amt, err := p.parseAmount()
		if err != nil {
			return nil, err
		}
		cost.Amount = amt
	}

	// Optional date
	if p.match(COMMA) {
		if p.check(DATE) {
			date, err := p.parseDate()
			if err != nil {
				return nil, err
			}
			cost.Date = date
		}
	}

	// Optional label
	if p.match(COMMA) {
		if p.check(STRING) {
			labelTok := p.advance()
			cost.Label = p.unquoteString(labelTok.String(p.source))
		}
	}

	rbrace := p.consume(closer, "expected '}'")
	if rbrace.Type == ILLEGAL {
		return nil, p.error("expected '}'")
	}
	cost.Span = ast.Span{Start: startPos, End: rbrace.End}
	return cost, nil
}

// parseString parses a STRING token and unquotes it. The token span is
// returned alongside the value.
func (p *Parser) parseString() (string, ast.Span, error) {
	tok := p.expect(STRING, "expected string")
	if tok.Type == ILLEGAL {
		return "", ast.Span{}, p.errorAtToken(p.peek(), "expected string")
	}

	return p.unquoteString(tok.String(p.source)), ast.Span{Start: tok.Start, End: tok.End}, nil
}

// parseIdent parses an IDENT token.
func (p *Parser) parseIdent() (string, error) {
	tok := p.expect(IDENT, "expected identifier")
	if tok.Type == ILLEGAL {
		return "", p.errorAtToken(p.peek(), "expected identifier")
	}

	return p.interner.InternBytes(tok.Bytes(p.source)), nil
}

// parseTag parses a TAG token and returns the tag without the # prefix.
func (p *Parser) parseTag() (ast.Tag, error) {
	tok := p.expect(TAG, "expected tag")
	if tok.Type == ILLEGAL {
		return "", p.errorAtToken(p.peek(), "expected tag")
	}

	var tag ast.Tag
	if err := tag.Capture([]string{tok.String(p.source)}); err != nil {
		return "", p.errorAtToken(tok, "invalid tag: %v", err)
	}

	return tag, nil
}

// parseLink parses a LINK token and returns the link without the ^ prefix.
func (p *Parser) parseLink() (ast.Link, error) {
	tok := p.expect(LINK, "expected link")
	if tok.Type == ILLEGAL {
		return "", p.errorAtToken(p.peek(), "expected link")
	}

	var link ast.Link
	if err := link.Capture([]string{tok.String(p.source)}); err != nil {
		return "", p.errorAtToken(tok, "invalid link: %v", err)
	}

	return link, nil
}

// finishLine consumes an optional trailing comment and the line's NEWLINE.
// Reports an error when unexpected tokens remain on the line.
func (p *Parser) finishLine() error {
	if p.check(COMMENT) {
		p.advance()
	}

	if p.isAtEnd() {
		return nil
	}

	if p.check(NEWLINE) {
		p.advance()
		return nil
	}

	tok := p.peek()
	return p.errorAtToken(tok, "unexpected %s %q before end of line", tok.Type, tok.String(p.source))
}

// parseIndentedMetadata parses metadata entries (indented "key: value" lines)
// following a directive line. Metadata keys can be identifiers or keywords
// ("price:", "export:", ...). Stops before the first indented line that is not
// metadata and before any blank or column-1 line.
func (p *Parser) parseIndentedMetadata() []*ast.Metadata {
	var metadata []*ast.Metadata

	for !p.isAtEnd() {
		tok := p.peek()

		// Blank line or column-1 line ends the block.
		if tok.Type == NEWLINE || tok.Column <= 1 {
			break
		}

		// Indented comment lines inside a metadata block are skipped.
		if tok.Type == COMMENT {
			p.advance()
			if p.check(NEWLINE) {
				p.advance()
			}
			continue
		}

		isMetadataKey := (tok.Type == IDENT || p.isKeyword(tok.Type)) &&
			p.peekAhead(1).Type == COLON

		if !isMetadataKey {
			break
		}

		keyTok := p.advance() // consume key
		colon := p.advance()  // consume ':'

		// Read rest of line as value; re-quoting is the formatter's job.
		value := p.unquoteString(p.parseRestOfLine(colon.End))

		metadata = append(metadata, &ast.Metadata{
			Key:   keyTok.String(p.source),
			Value: value,
		})

		if err := p.finishLine(); err != nil {
			// Tolerate trailing junk on metadata lines.
			p.skipRestOfLine()
		}
	}

	return metadata
}

// isKeyword returns true if the token type is a directive keyword.
func (p *Parser) isKeyword(typ TokenType) bool {
	switch typ {
	case TXN, BALANCE, OPEN, CLOSE, COMMODITY, PAD, NOTE, DOCUMENT,
		PRICE, EVENT, CUSTOM, OPTION, INCLUDE, PLUGIN,
		PUSHTAG, POPTAG, PUSHMETA, POPMETA:
		return true
	default:
		return false
	}
}

// parseRestOfLine reads all tokens until end of line (or an inline comment)
// and returns them as a string. prevEnd should be the end offset of the
// previously consumed token so literal spacing between tokens is kept.
func (p *Parser) parseRestOfLine(prevEnd int) string {
	var buf strings.Builder
	lastEnd := prevEnd

	for !p.isAtEnd() && !p.check(NEWLINE) && !p.check(COMMENT) {
		tok := p.advance()

		if gap := tok.Start - lastEnd; gap > 0 {
			buf.Write(p.source[lastEnd:tok.Start])
		}

		buf.WriteString(tok.String(p.source))
		lastEnd = tok.End
	}

	return strings.TrimSpace(buf.String())
}

// unquoteString removes surrounding quotes from a string.
func (p *Parser) unquoteString(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		unquoted, err := strconv.Unquote(s)
		if err == nil {
			return unquoted
		}
		return s[1 : len(s)-1]
	}
	return s
}

// Helper methods for token navigation

func (p *Parser) peek() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: EOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) peekAhead(n int) Token {
	pos := p.pos + n
	if pos >= len(p.tokens) {
		return Token{Type: EOF}
	}
	return p.tokens[pos]
}

func (p *Parser) previous() Token {
	if p.pos == 0 {
		return Token{Type: ILLEGAL}
	}
	return p.tokens[p.pos-1]
}

func (p *Parser) isAtEnd() bool {
	return p.peek().Type == EOF
}

func (p *Parser) check(typ TokenType) bool {
	return p.peek().Type == typ
}

func (p *Parser) match(types ...TokenType) bool {
	for _, typ := range types {
		if p.check(typ) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) advance() Token {
	if !p.isAtEnd() {
		p.pos++
	}
	return p.previous()
}

// consume advances over a token of the given type, or returns an ILLEGAL
// token without advancing when the next token does not match.
func (p *Parser) consume(typ TokenType, message string) Token {
	if p.check(typ) {
		return p.advance()
	}
	return Token{Type: ILLEGAL}
}

func (p *Parser) expect(typ TokenType, message string) Token {
	return p.consume(typ, message)
}

// Error helpers

func (p *Parser) errorAtToken(tok Token, format string, args ...interface{}) error {
	return newErrorf(tokenPosition(tok, p.filename), format, args...)
}

func (p *Parser) error(format string, args ...interface{}) error {
	return p.errorAtToken(p.peek(), format, args...)
}

// tokenPosition extracts position information from a token.
func tokenPosition(tok Token, filename string) ast.Position {
	return ast.Position{
		Filename: filename,
		Offset:   tok.Start,
		Line:     tok.Line,
		Column:   tok.Column,
	}
}
