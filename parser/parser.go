// Package parser implements a tolerant recursive-descent parser for Beancount
// ledger files.
//
// Parsing is total: any byte sequence produces a directive list. Malformed
// lines become ast.Invalid directives carrying their raw text, and the parser
// resumes at the next line that can start a top-level element, so one bad
// region never hides the rest of the file. This is what makes the parser
// usable while a file is being edited.
package parser

import (
	"github.com/matze/beancount-language-server/ast"
)

// Parser consumes the token stream produced by the Lexer and builds an
// ast.File. Directives are appended in source order.
type Parser struct {
	source   []byte
	filename string
	tokens   []Token
	pos      int
	interner *Interner
	errors   []*ParseError
}

// ParseBytes parses a complete file. It never fails; syntax problems are
// reported through the returned error list and as ast.Invalid directives.
func ParseBytes(data []byte) (*ast.File, []*ParseError) {
	return ParseBytesWithFilename("", data)
}

// ParseBytesWithFilename parses a complete file, attributing positions to the
// given filename.
func ParseBytesWithFilename(filename string, data []byte) (*ast.File, []*ParseError) {
	lexer := NewLexer(data, filename)
	tokens := lexer.ScanAll()

	p := &Parser{
		source:   data,
		filename: filename,
		tokens:   tokens,
		interner: lexer.Interner(),
	}

	return p.parseFile(), p.errors
}

// ParseString parses a complete file from a string.
func ParseString(str string) (*ast.File, []*ParseError) {
	return ParseBytes([]byte(str))
}

// parseFile is the top-level loop. Every iteration consumes at least one
// token, so parsing terminates for any input.
func (p *Parser) parseFile() *ast.File {
	file := &ast.File{}

	for !p.isAtEnd() {
		tok := p.peek()

		switch tok.Type {
		case NEWLINE, COMMENT:
			p.advance()

		case DATE:
			file.Directives = append(file.Directives, p.parseDated())

		case OPTION:
			p.parseOption(file)

		case INCLUDE:
			p.parseInclude(file)

		case PLUGIN:
			p.parsePlugin(file)

		case PUSHTAG:
			p.parsePushtag(file)

		case POPTAG:
			p.parsePoptag(file)

		case PUSHMETA:
			p.parsePushmeta(file)

		case POPMETA:
			p.parsePopmeta(file)

		case ASTERISK:
			// Org-mode section headers ("* Expenses") start at column 1.
			// They are comments as far as the ledger grammar is concerned.
			if tok.Column <= 1 {
				p.skipRestOfLine()
				continue
			}
			file.Directives = append(file.Directives, p.invalidLine(tok, "unexpected '*'"))

		default:
			file.Directives = append(file.Directives, p.invalidLine(tok, "unexpected %s %q at top level", tok.Type, tok.String(p.source)))
		}
	}

	return file
}

// parseDated dispatches a date-prefixed directive to its parser. Any error
// converts the whole block into an ast.Invalid directive.
func (p *Parser) parseDated() ast.Directive {
	start := p.peek()
	pos := tokenPosition(start, p.filename)

	date, err := p.parseDate()
	if err != nil {
		return p.recoverInvalid(start, err)
	}

	var d ast.Directive

	switch p.peek().Type {
	case OPEN:
		d, err = p.parseOpen(pos, date)
	case CLOSE:
		d, err = p.parseClose(pos, date)
	case BALANCE:
		d, err = p.parseBalance(pos, date)
	case COMMODITY:
		d, err = p.parseCommodity(pos, date)
	case PAD:
		d, err = p.parsePad(pos, date)
	case NOTE:
		d, err = p.parseNote(pos, date)
	case DOCUMENT:
		d, err = p.parseDocument(pos, date)
	case PRICE:
		d, err = p.parsePrice(pos, date)
	case EVENT:
		d, err = p.parseEvent(pos, date)
	case CUSTOM:
		d, err = p.parseCustom(pos, date)
	case TXN, ASTERISK, EXCLAIM, STRING:
		d, err = p.parseTransaction(pos, date)
	default:
		tok := p.peek()
		err = p.errorAtToken(tok, "unknown directive %q", tok.String(p.source))
	}

	if err != nil {
		return p.recoverInvalid(start, err)
	}

	return d
}

// recoverInvalid records the error, skips to the next line that can start a
// top-level element, and wraps the skipped region in an ast.Invalid directive.
// Indented lines following the bad line belong to its block and are consumed
// with it.
func (p *Parser) recoverInvalid(start Token, err error) *ast.Invalid {
	perr, ok := err.(*ParseError)
	if !ok {
		perr = newErrorf(tokenPosition(start, p.filename), "%v", err)
	}
	p.errors = append(p.errors, perr)

	end := p.syncToNextLine()
	if end < start.End {
		end = start.End
	}

	span := ast.Span{Start: start.Start, End: end}
	perr.Span = span

	return &ast.Invalid{
		Pos:     tokenPosition(start, p.filename),
		Rng:     span,
		Raw:     span.Text(p.source),
		Message: perr.Message,
	}
}

// invalidLine consumes one unrecognized line and returns it as an Invalid
// directive. Used for top-level lines that fit no rule at all.
func (p *Parser) invalidLine(start Token, format string, args ...interface{}) *ast.Invalid {
	perr := newErrorf(tokenPosition(start, p.filename), format, args...)
	p.errors = append(p.errors, perr)

	end := p.skipRestOfLine()
	if end < start.End {
		end = start.End
	}

	span := ast.Span{Start: start.Start, End: end}
	perr.Span = span

	return &ast.Invalid{
		Pos:     tokenPosition(start, p.filename),
		Rng:     span,
		Raw:     span.Text(p.source),
		Message: perr.Message,
	}
}

// syncToNextLine advances past the current block: it consumes tokens through
// the end of the current line and any following indented continuation lines,
// stopping before the next column-1 line. Returns the end offset of the last
// content token consumed.
func (p *Parser) syncToNextLine() int {
	end := p.prevContentEnd()

	for !p.isAtEnd() {
		tok := p.peek()

		if tok.Type == NEWLINE {
			p.advance()
			next := p.peek()
			// A column-1 token (or blank line, or EOF) ends the bad block.
			if next.Type == EOF || next.Type == NEWLINE || next.Column <= 1 {
				return end
			}
			continue
		}

		end = tok.End
		p.advance()
	}

	return end
}

// skipRestOfLine consumes tokens up to and including the next NEWLINE.
// Returns the end offset of the last content token consumed.
func (p *Parser) skipRestOfLine() int {
	end := p.prevContentEnd()

	for !p.isAtEnd() {
		tok := p.advance()
		if tok.Type == NEWLINE {
			break
		}
		end = tok.End
	}

	return end
}

// prevContentEnd returns the end offset of the most recently consumed
// non-newline token, or 0 when nothing has been consumed yet.
func (p *Parser) prevContentEnd() int {
	for i := p.pos - 1; i >= 0; i-- {
		if p.tokens[i].Type != NEWLINE {
			return p.tokens[i].End
		}
	}
	return 0
}
