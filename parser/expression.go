package parser

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Arithmetic expressions in amounts are evaluated at parse time with exact
// decimal arithmetic, so "(40.00/3)" never loses precision to binary floats.

// isExpressionStart reports whether the upcoming tokens form an arithmetic
// expression rather than a plain number.
func (p *Parser) isExpressionStart() bool {
	switch p.peek().Type {
	case LPAREN:
		return true
	case MINUS, PLUS:
		// A signed number only counts as an expression when an operator
		// follows it; the plain signed case is handled by the caller.
		return p.peekAhead(1).Type == NUMBER || p.peekAhead(1).Type == LPAREN
	case NUMBER:
		switch p.peekAhead(1).Type {
		case PLUS, MINUS, ASTERISK, SLASH:
			return true
		}
	}
	return false
}

// parseExpression parses and evaluates: term (('+'|'-') term)*
func (p *Parser) parseExpression() (decimal.Decimal, error) {
	left, err := p.parseTerm()
	if err != nil {
		return decimal.Zero, err
	}

	for p.check(PLUS) || p.check(MINUS) {
		op := p.advance()

		right, err := p.parseTerm()
		if err != nil {
			return decimal.Zero, err
		}

		if op.Type == PLUS {
			left = left.Add(right)
		} else {
			left = left.Sub(right)
		}
	}

	return left, nil
}

// parseTerm parses and evaluates: unary (('*'|'/') unary)*
func (p *Parser) parseTerm() (decimal.Decimal, error) {
	left, err := p.parseUnary()
	if err != nil {
		return decimal.Zero, err
	}

	for p.check(ASTERISK) || p.check(SLASH) {
		op := p.advance()

		right, err := p.parseUnary()
		if err != nil {
			return decimal.Zero, err
		}

		if op.Type == ASTERISK {
			left = left.Mul(right)
		} else {
			if right.IsZero() {
				return decimal.Zero, p.errorAtToken(op, "division by zero in amount expression")
			}
			left = left.Div(right)
		}
	}

	return left, nil
}

// parseUnary parses and evaluates: ('-'|'+') unary | primary
func (p *Parser) parseUnary() (decimal.Decimal, error) {
	if p.match(MINUS) {
		val, err := p.parseUnary()
		if err != nil {
			return decimal.Zero, err
		}
		return val.Neg(), nil
	}

	if p.match(PLUS) {
		return p.parseUnary()
	}

	return p.parsePrimary()
}

// parsePrimary parses and evaluates: NUMBER | '(' expression ')'
func (p *Parser) parsePrimary() (decimal.Decimal, error) {
	if p.match(LPAREN) {
		val, err := p.parseExpression()
		if err != nil {
			return decimal.Zero, err
		}

		if rparen := p.consume(RPAREN, "expected ')'"); rparen.Type == ILLEGAL {
			return decimal.Zero, p.error("expected ')' in amount expression")
		}

		return val, nil
	}

	tok := p.expect(NUMBER, "expected number")
	if tok.Type == ILLEGAL {
		actual := p.peek()
		return decimal.Zero, p.errorAtToken(actual, "expected number in amount expression but got %s %q", actual.Type, actual.String(p.source))
	}

	val, err := decimal.NewFromString(strings.ReplaceAll(tok.String(p.source), ",", ""))
	if err != nil {
		return decimal.Zero, p.errorAtToken(tok, "invalid number %q", tok.String(p.source))
	}

	return val, nil
}
