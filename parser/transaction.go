package parser

import (
	"github.com/matze/beancount-language-server/ast"
)

// parseTransaction parses a transaction header and its indented block of
// postings and metadata:
//
//	DATE FLAG [PAYEE] [NARRATION] [#TAG|^LINK]...
//	  [KEY: VALUE]...
//	  [FLAG] ACCOUNT [AMOUNT] [COST] [@|@@ PRICE]
//	    [KEY: VALUE]...
//
// A bad posting line drops only that posting: the error is recorded, the line
// is skipped, and the rest of the transaction is kept.
func (p *Parser) parseTransaction(pos ast.Position, date *ast.Date) (*ast.Transaction, error) {
	txn := &ast.Transaction{
		Pos:  pos,
		Date: date,
	}

	// Flag: 'txn' keyword, '*', '!', or absent when the header jumps straight
	// to its strings.
	switch p.peek().Type {
	case TXN:
		p.advance()
		txn.Flag = "txn"
	case ASTERISK:
		p.advance()
		txn.Flag = "*"
	case EXCLAIM:
		p.advance()
		txn.Flag = "!"
	case STRING:
		txn.Flag = "txn"
	default:
		tok := p.peek()
		return nil, p.errorAtToken(tok, "expected transaction flag but got %s %q", tok.Type, tok.String(p.source))
	}

	// One string is a narration; two strings are payee then narration.
	if p.check(STRING) {
		first, firstSpan, err := p.parseString()
		if err != nil {
			return nil, err
		}

		if p.check(STRING) {
			second, secondSpan, err := p.parseString()
			if err != nil {
				return nil, err
			}
			txn.Payee = first
			txn.PayeeSpan = firstSpan
			txn.Narration = second
			txn.NarrationSpan = secondSpan
		} else {
			txn.Narration = first
			txn.NarrationSpan = firstSpan
		}
	}

	// Tags and links may be interleaved after the strings
	for p.check(TAG) || p.check(LINK) {
		if p.check(TAG) {
			tag, err := p.parseTag()
			if err != nil {
				return nil, err
			}
			txn.Tags = append(txn.Tags, tag)
		} else {
			link, err := p.parseLink()
			if err != nil {
				return nil, err
			}
			txn.Links = append(txn.Links, link)
		}
	}

	if err := p.finishLine(); err != nil {
		return nil, err
	}

	p.parseTransactionBody(txn)

	txn.Rng = ast.Span{Start: pos.Offset, End: p.prevContentEnd()}
	return txn, nil
}

// parseTransactionBody consumes the indented block following a transaction
// header. Metadata lines before the first posting belong to the transaction;
// afterwards they belong to the most recent posting.
func (p *Parser) parseTransactionBody(txn *ast.Transaction) {
	var lastPosting *ast.Posting

	for !p.isAtEnd() {
		tok := p.peek()

		// Blank line or column-1 line ends the transaction block.
		if tok.Type == NEWLINE || tok.Column <= 1 {
			return
		}

		if tok.Type == COMMENT {
			p.advance()
			if p.check(NEWLINE) {
				p.advance()
			}
			continue
		}

		// Metadata line: KEY ':' VALUE
		if (tok.Type == IDENT || p.isKeyword(tok.Type)) && p.peekAhead(1).Type == COLON {
			keyTok := p.advance()
			colon := p.advance()
			value := p.unquoteString(p.parseRestOfLine(colon.End))

			meta := &ast.Metadata{Key: keyTok.String(p.source), Value: value}
			if lastPosting != nil {
				lastPosting.AddMetadata(meta)
				lastPosting.Rng.End = p.prevContentEnd()
			} else {
				txn.AddMetadata(meta)
			}

			if err := p.finishLine(); err != nil {
				p.skipRestOfLine()
			}
			continue
		}

		posting, err := p.parsePosting()
		if err != nil {
			perr, ok := err.(*ParseError)
			if !ok {
				perr = newErrorf(tokenPosition(tok, p.filename), "%v", err)
			}
			p.errors = append(p.errors, perr)
			p.skipRestOfLine()
			continue
		}

		txn.Postings = append(txn.Postings, posting)
		lastPosting = posting
	}
}

// parsePosting parses a single posting line.
func (p *Parser) parsePosting() (*ast.Posting, error) {
	start := p.peek()
	posting := &ast.Posting{
		Pos: tokenPosition(start, p.filename),
	}

	// Optional per-posting flag
	switch start.Type {
	case ASTERISK:
		p.advance()
		posting.Flag = "*"
	case EXCLAIM:
		p.advance()
		posting.Flag = "!"
	}

	account, accountSpan, err := p.parseAccount()
	if err != nil {
		return nil, err
	}
	posting.Account = account
	posting.AccountSpan = accountSpan

	// Optional amount. An amount starts with a number, a sign, or a
	// parenthesized expression; anything else leaves the amount inferred.
	if p.check(NUMBER) || p.check(MINUS) || p.check(PLUS) || p.check(LPAREN) {
		amount, err := p.parseAmountOptionalCurrency()
		if err != nil {
			return nil, err
		}
		posting.Amount = amount
	}

	// Optional cost specification
	if p.check(LBRACE) || p.check(LDBRACE) {
		cost, err := p.parseCost()
		if err != nil {
			return nil, err
		}
		posting.Cost = cost
	}

	// Optional price annotation
	if p.check(AT) || p.check(ATAT) {
		posting.PriceTotal = p.peek().Type == ATAT
		p.advance()

		// An annotation with no amount is tolerated while a line is being
		// typed; the price stays nil.
		if p.check(NUMBER) || p.check(MINUS) || p.check(PLUS) || p.check(LPAREN) {
			price, err := p.parseAmountOptionalCurrency()
			if err != nil {
				return nil, err
			}
			posting.Price = price
		} else if p.check(IDENT) {
			// Currency-only price annotation: "@ USD"
			currency, err := p.parseIdent()
			if err != nil {
				return nil, err
			}
			posting.Price = &ast.Amount{Currency: currency}
		}
	}

	if err := p.finishLine(); err != nil {
		return nil, err
	}

	posting.Rng = ast.Span{Start: start.Start, End: p.prevContentEnd()}
	return posting, nil
}
