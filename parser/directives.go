package parser

import (
	"github.com/matze/beancount-language-server/ast"
)

// Dated directive parsers. Each is entered with the keyword token as the
// current token; the date has already been consumed by parseDated.

// parseOpen parses: DATE open ACCOUNT [CURRENCY[,CURRENCY...]] [BOOKING]
func (p *Parser) parseOpen(pos ast.Position, date *ast.Date) (*ast.Open, error) {
	p.advance() // consume 'open'

	account, accountSpan, err := p.parseAccount()
	if err != nil {
		return nil, err
	}

	open := &ast.Open{
		Pos:         pos,
		Date:        date,
		Account:     account,
		AccountSpan: accountSpan,
	}

	// Optional constraint currencies separated by commas
	for p.check(IDENT) {
		currency, err := p.parseIdent()
		if err != nil {
			return nil, err
		}
		open.ConstraintCurrencies = append(open.ConstraintCurrencies, currency)

		if !p.match(COMMA) {
			break
		}
	}

	// Optional booking method
	if p.check(STRING) {
		method, _, err := p.parseString()
		if err != nil {
			return nil, err
		}
		open.BookingMethod = method
	}

	if err := p.finishLine(); err != nil {
		return nil, err
	}

	open.AddMetadata(p.parseIndentedMetadata()...)
	open.Rng = ast.Span{Start: pos.Offset, End: p.prevContentEnd()}
	return open, nil
}

// parseClose parses: DATE close ACCOUNT
func (p *Parser) parseClose(pos ast.Position, date *ast.Date) (*ast.Close, error) {
	p.advance() // consume 'close'

	account, _, err := p.parseAccount()
	if err != nil {
		return nil, err
	}

	if err := p.finishLine(); err != nil {
		return nil, err
	}

	close := &ast.Close{
		Pos:     pos,
		Date:    date,
		Account: account,
	}

	close.AddMetadata(p.parseIndentedMetadata()...)
	close.Rng = ast.Span{Start: pos.Offset, End: p.prevContentEnd()}
	return close, nil
}

// parseBalance parses: DATE balance ACCOUNT AMOUNT
func (p *Parser) parseBalance(pos ast.Position, date *ast.Date) (*ast.Balance, error) {
	p.advance() // consume 'balance'

	account, _, err := p.parseAccount()
	if err != nil {
		return nil, err
	}

	amount, err := p.parseAmount()
	if err != nil {
		return nil, err
	}

	if err := p.finishLine(); err != nil {
		return nil, err
	}

	balance := &ast.Balance{
		Pos:     pos,
		Date:    date,
		Account: account,
		Amount:  amount,
	}

	balance.AddMetadata(p.parseIndentedMetadata()...)
	balance.Rng = ast.Span{Start: pos.Offset, End: p.prevContentEnd()}
	return balance, nil
}

// parseCommodity parses: DATE commodity CURRENCY
func (p *Parser) parseCommodity(pos ast.Position, date *ast.Date) (*ast.Commodity, error) {
	p.advance() // consume 'commodity'

	currency, err := p.parseIdent()
	if err != nil {
		return nil, err
	}

	if err := p.finishLine(); err != nil {
		return nil, err
	}

	commodity := &ast.Commodity{
		Pos:      pos,
		Date:     date,
		Currency: currency,
	}

	commodity.AddMetadata(p.parseIndentedMetadata()...)
	commodity.Rng = ast.Span{Start: pos.Offset, End: p.prevContentEnd()}
	return commodity, nil
}

// parsePad parses: DATE pad ACCOUNT ACCOUNT
func (p *Parser) parsePad(pos ast.Position, date *ast.Date) (*ast.Pad, error) {
	p.advance() // consume 'pad'

	account, _, err := p.parseAccount()
	if err != nil {
		return nil, err
	}

	accountPad, _, err := p.parseAccount()
	if err != nil {
		return nil, err
	}

	if err := p.finishLine(); err != nil {
		return nil, err
	}

	pad := &ast.Pad{
		Pos:        pos,
		Date:       date,
		Account:    account,
		AccountPad: accountPad,
	}

	pad.AddMetadata(p.parseIndentedMetadata()...)
	pad.Rng = ast.Span{Start: pos.Offset, End: p.prevContentEnd()}
	return pad, nil
}

// parseNote parses: DATE note ACCOUNT STRING
func (p *Parser) parseNote(pos ast.Position, date *ast.Date) (*ast.Note, error) {
	p.advance() // consume 'note'

	account, _, err := p.parseAccount()
	if err != nil {
		return nil, err
	}

	description, _, err := p.parseString()
	if err != nil {
		return nil, err
	}

	if err := p.finishLine(); err != nil {
		return nil, err
	}

	note := &ast.Note{
		Pos:         pos,
		Date:        date,
		Account:     account,
		Description: description,
	}

	note.AddMetadata(p.parseIndentedMetadata()...)
	note.Rng = ast.Span{Start: pos.Offset, End: p.prevContentEnd()}
	return note, nil
}

// parseDocument parses: DATE document ACCOUNT STRING
func (p *Parser) parseDocument(pos ast.Position, date *ast.Date) (*ast.Document, error) {
	p.advance() // consume 'document'

	account, _, err := p.parseAccount()
	if err != nil {
		return nil, err
	}

	path, _, err := p.parseString()
	if err != nil {
		return nil, err
	}

	if err := p.finishLine(); err != nil {
		return nil, err
	}

	document := &ast.Document{
		Pos:            pos,
		Date:           date,
		Account:        account,
		PathToDocument: path,
	}

	document.AddMetadata(p.parseIndentedMetadata()...)
	document.Rng = ast.Span{Start: pos.Offset, End: p.prevContentEnd()}
	return document, nil
}

// parsePrice parses: DATE price CURRENCY AMOUNT
func (p *Parser) parsePrice(pos ast.Position, date *ast.Date) (*ast.Price, error) {
	p.advance() // consume 'price'

	commodity, err := p.parseIdent()
	if err != nil {
		return nil, err
	}

	amount, err := p.parseAmount()
	if err != nil {
		return nil, err
	}

	if err := p.finishLine(); err != nil {
		return nil, err
	}

	price := &ast.Price{
		Pos:       pos,
		Date:      date,
		Commodity: commodity,
		Amount:    amount,
	}

	price.AddMetadata(p.parseIndentedMetadata()...)
	price.Rng = ast.Span{Start: pos.Offset, End: p.prevContentEnd()}
	return price, nil
}

// parseEvent parses: DATE event STRING STRING
func (p *Parser) parseEvent(pos ast.Position, date *ast.Date) (*ast.Event, error) {
	p.advance() // consume 'event'

	name, _, err := p.parseString()
	if err != nil {
		return nil, err
	}

	value, _, err := p.parseString()
	if err != nil {
		return nil, err
	}

	if err := p.finishLine(); err != nil {
		return nil, err
	}

	event := &ast.Event{
		Pos:   pos,
		Date:  date,
		Name:  name,
		Value: value,
	}

	event.AddMetadata(p.parseIndentedMetadata()...)
	event.Rng = ast.Span{Start: pos.Offset, End: p.prevContentEnd()}
	return event, nil
}

// parseCustom parses: DATE custom STRING VALUES...
//
// The values after the type string are kept as raw source text so that the
// formatter reproduces them verbatim. Custom values have no fixed grammar.
func (p *Parser) parseCustom(pos ast.Position, date *ast.Date) (*ast.Custom, error) {
	p.advance() // consume 'custom'

	typ, typSpan, err := p.parseString()
	if err != nil {
		return nil, err
	}

	values := p.parseRestOfLine(typSpan.End)

	if err := p.finishLine(); err != nil {
		return nil, err
	}

	custom := &ast.Custom{
		Pos:    pos,
		Date:   date,
		Type:   typ,
		Values: values,
	}

	custom.AddMetadata(p.parseIndentedMetadata()...)
	custom.Rng = ast.Span{Start: pos.Offset, End: p.prevContentEnd()}
	return custom, nil
}

// Undated top-level elements. These append to the File directly; any error
// turns the line into an Invalid directive so parsing stays total.

// parseOption parses: option STRING STRING
func (p *Parser) parseOption(file *ast.File) {
	start := p.advance() // consume 'option'
	pos := tokenPosition(start, p.filename)

	name, _, err := p.parseString()
	if err != nil {
		file.Directives = append(file.Directives, p.recoverInvalid(start, err))
		return
	}

	value, _, err := p.parseString()
	if err != nil {
		file.Directives = append(file.Directives, p.recoverInvalid(start, err))
		return
	}

	if err := p.finishLine(); err != nil {
		file.Directives = append(file.Directives, p.recoverInvalid(start, err))
		return
	}

	file.Options = append(file.Options, &ast.Option{Pos: pos, Name: name, Value: value})
}

// parseInclude parses: include STRING
func (p *Parser) parseInclude(file *ast.File) {
	start := p.advance() // consume 'include'
	pos := tokenPosition(start, p.filename)

	filename, _, err := p.parseString()
	if err != nil {
		file.Directives = append(file.Directives, p.recoverInvalid(start, err))
		return
	}

	if err := p.finishLine(); err != nil {
		file.Directives = append(file.Directives, p.recoverInvalid(start, err))
		return
	}

	file.Includes = append(file.Includes, &ast.Include{Pos: pos, Filename: filename})
}

// parsePlugin parses: plugin STRING [STRING]
func (p *Parser) parsePlugin(file *ast.File) {
	start := p.advance() // consume 'plugin'
	pos := tokenPosition(start, p.filename)

	name, _, err := p.parseString()
	if err != nil {
		file.Directives = append(file.Directives, p.recoverInvalid(start, err))
		return
	}

	plugin := &ast.Plugin{Pos: pos, Name: name}

	if p.check(STRING) {
		config, _, err := p.parseString()
		if err != nil {
			file.Directives = append(file.Directives, p.recoverInvalid(start, err))
			return
		}
		plugin.Config = config
	}

	if err := p.finishLine(); err != nil {
		file.Directives = append(file.Directives, p.recoverInvalid(start, err))
		return
	}

	file.Plugins = append(file.Plugins, plugin)
}

// parsePushtag parses: pushtag #TAG
func (p *Parser) parsePushtag(file *ast.File) {
	start := p.advance() // consume 'pushtag'
	pos := tokenPosition(start, p.filename)

	tag, err := p.parseTag()
	if err != nil {
		file.Directives = append(file.Directives, p.recoverInvalid(start, err))
		return
	}

	if err := p.finishLine(); err != nil {
		file.Directives = append(file.Directives, p.recoverInvalid(start, err))
		return
	}

	file.Pushtags = append(file.Pushtags, &ast.Pushtag{Pos: pos, Tag: tag})
}

// parsePoptag parses: poptag #TAG
func (p *Parser) parsePoptag(file *ast.File) {
	start := p.advance() // consume 'poptag'
	pos := tokenPosition(start, p.filename)

	tag, err := p.parseTag()
	if err != nil {
		file.Directives = append(file.Directives, p.recoverInvalid(start, err))
		return
	}

	if err := p.finishLine(); err != nil {
		file.Directives = append(file.Directives, p.recoverInvalid(start, err))
		return
	}

	file.Poptags = append(file.Poptags, &ast.Poptag{Pos: pos, Tag: tag})
}

// parsePushmeta parses: pushmeta KEY: VALUE
func (p *Parser) parsePushmeta(file *ast.File) {
	start := p.advance() // consume 'pushmeta'
	pos := tokenPosition(start, p.filename)

	keyTok := p.peek()
	if keyTok.Type != IDENT && !p.isKeyword(keyTok.Type) {
		err := p.errorAtToken(keyTok, "expected metadata key")
		file.Directives = append(file.Directives, p.recoverInvalid(start, err))
		return
	}
	p.advance()

	colon := p.consume(COLON, "expected ':'")
	if colon.Type == ILLEGAL {
		err := p.error("expected ':' after metadata key")
		file.Directives = append(file.Directives, p.recoverInvalid(start, err))
		return
	}

	value := p.unquoteString(p.parseRestOfLine(colon.End))

	if err := p.finishLine(); err != nil {
		file.Directives = append(file.Directives, p.recoverInvalid(start, err))
		return
	}

	file.Pushmetas = append(file.Pushmetas, &ast.Pushmeta{
		Pos:   pos,
		Key:   keyTok.String(p.source),
		Value: value,
	})
}

// parsePopmeta parses: popmeta KEY:
func (p *Parser) parsePopmeta(file *ast.File) {
	start := p.advance() // consume 'popmeta'
	pos := tokenPosition(start, p.filename)

	keyTok := p.peek()
	if keyTok.Type != IDENT && !p.isKeyword(keyTok.Type) {
		err := p.errorAtToken(keyTok, "expected metadata key")
		file.Directives = append(file.Directives, p.recoverInvalid(start, err))
		return
	}
	p.advance()

	if colon := p.consume(COLON, "expected ':'"); colon.Type == ILLEGAL {
		err := p.error("expected ':' after metadata key")
		file.Directives = append(file.Directives, p.recoverInvalid(start, err))
		return
	}

	if err := p.finishLine(); err != nil {
		file.Directives = append(file.Directives, p.recoverInvalid(start, err))
		return
	}

	file.Popmetas = append(file.Popmetas, &ast.Popmeta{
		Pos: pos,
		Key: keyTok.String(p.source),
	})
}
