package workspace

import (
	"strings"

	"golang.org/x/exp/slices"

	"github.com/matze/beancount-language-server/ast"
)

// Location identifies a source region in a workspace file.
type Location struct {
	URI  string
	Span ast.Span
}

// Index is the workspace symbol index. It tracks, per file, the account
// names, payees, and currencies that appear in the file, plus the sites that
// count as commodity declarations.
//
// Updates are exact: re-indexing a file first retracts everything the old
// version contributed, so symbols never leak between versions. Invalid
// directives contribute nothing.
//
// Index is not safe for concurrent use; the Workspace serializes access.
type Index struct {
	files map[string]*fileSymbols
}

// fileSymbols holds the symbols one file contributes.
type fileSymbols struct {
	accounts   map[string]struct{}
	payees     map[string]struct{}
	currencies map[string]struct{}

	// commodityDecls are the sites that declare a commodity: commodity
	// directives, the quoted commodity of a price directive, and the
	// constraint currencies of an open directive.
	commodityDecls []commodityDecl
}

type commodityDecl struct {
	name   string
	offset int
	span   ast.Span
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{
		files: make(map[string]*fileSymbols),
	}
}

// Update replaces the symbols contributed by uri with those extracted from
// file.
func (ix *Index) Update(uri string, file *ast.File) {
	symbols := &fileSymbols{
		accounts:   make(map[string]struct{}),
		payees:     make(map[string]struct{}),
		currencies: make(map[string]struct{}),
	}

	for _, directive := range file.Directives {
		symbols.extract(directive)
	}

	ix.files[uri] = symbols
}

// Retract removes everything uri contributed to the index.
func (ix *Index) Retract(uri string) {
	delete(ix.files, uri)
}

func (s *fileSymbols) extract(directive ast.Directive) {
	switch d := directive.(type) {
	case *ast.Open:
		s.accounts[string(d.Account)] = struct{}{}
		for _, currency := range d.ConstraintCurrencies {
			s.declare(currency, d.Position().Offset, d.Span())
		}

	case *ast.Close:
		s.accounts[string(d.Account)] = struct{}{}

	case *ast.Balance:
		s.accounts[string(d.Account)] = struct{}{}
		s.amount(d.Amount)

	case *ast.Pad:
		s.accounts[string(d.Account)] = struct{}{}
		s.accounts[string(d.AccountPad)] = struct{}{}

	case *ast.Note:
		s.accounts[string(d.Account)] = struct{}{}

	case *ast.Document:
		s.accounts[string(d.Account)] = struct{}{}

	case *ast.Commodity:
		s.declare(d.Currency, d.Position().Offset, d.Span())

	case *ast.Price:
		s.declare(d.Commodity, d.Position().Offset, d.Span())
		s.amount(d.Amount)

	case *ast.Transaction:
		if d.Payee != "" {
			s.payees[d.Payee] = struct{}{}
		}
		for _, posting := range d.Postings {
			s.accounts[string(posting.Account)] = struct{}{}
			s.amount(posting.Amount)
			s.amount(posting.Price)
			if posting.Cost != nil {
				s.amount(posting.Cost.Amount)
			}
		}
	}
}

// declare records a commodity declaration site. Declarations also count as
// plain currency occurrences for completion.
func (s *fileSymbols) declare(name string, offset int, span ast.Span) {
	if name == "" {
		return
	}
	s.currencies[name] = struct{}{}
	s.commodityDecls = append(s.commodityDecls, commodityDecl{
		name:   name,
		offset: offset,
		span:   span,
	})
}

func (s *fileSymbols) amount(a *ast.Amount) {
	if a != nil && a.Currency != "" {
		s.currencies[a.Currency] = struct{}{}
	}
}

// Accounts returns all account names in the workspace that start with prefix,
// sorted lexicographically. Matching is case-sensitive; an empty prefix
// returns every account.
func (ix *Index) Accounts(prefix string) []string {
	return ix.collect(prefix, func(s *fileSymbols) map[string]struct{} {
		return s.accounts
	})
}

// Payees returns all payees in the workspace, sorted lexicographically.
func (ix *Index) Payees() []string {
	return ix.collect("", func(s *fileSymbols) map[string]struct{} {
		return s.payees
	})
}

// Currencies returns all currencies in the workspace that start with prefix,
// sorted lexicographically.
func (ix *Index) Currencies(prefix string) []string {
	return ix.collect(prefix, func(s *fileSymbols) map[string]struct{} {
		return s.currencies
	})
}

func (ix *Index) collect(prefix string, pick func(*fileSymbols) map[string]struct{}) []string {
	seen := make(map[string]struct{})
	for _, symbols := range ix.files {
		for name := range pick(symbols) {
			if strings.HasPrefix(name, prefix) {
				seen[name] = struct{}{}
			}
		}
	}

	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

// CommodityDefinition resolves the definition site of a commodity. When a
// commodity is declared in several places, the site with the lowest URI, then
// the lowest offset, wins, so the result is stable across edit order.
func (ix *Index) CommodityDefinition(name string) (Location, bool) {
	var best Location
	bestOffset := 0
	found := false

	uris := make([]string, 0, len(ix.files))
	for uri := range ix.files {
		uris = append(uris, uri)
	}
	slices.Sort(uris)

	for _, uri := range uris {
		for _, decl := range ix.files[uri].commodityDecls {
			if decl.name != name {
				continue
			}
			if !found || decl.offset < bestOffset {
				best = Location{URI: uri, Span: decl.span}
				bestOffset = decl.offset
				found = true
			}
		}
		if found {
			// Lower URIs win; no later file can beat this one.
			return best, true
		}
	}

	return best, found
}
