// Package ast declares the types used to represent syntax trees for Beancount
// ledger files.
//
// The types model the structure of Beancount directives, transactions, and the
// other top-level elements of a ledger file. An AST is produced by the parser
// package; directives appear in source order, which consumers such as the
// formatter rely on. A File may contain Invalid directives for regions the
// parser could not understand; consumers must skip them, never fail on them.
package ast

import (
	"golang.org/x/exp/slices"
)

// Directives is a slice of Directive that implements sort.Interface.
type Directives []Directive

func (d Directives) Len() int           { return len(d) }
func (d Directives) Swap(i, j int)      { d[i], d[j] = d[j], d[i] }
func (d Directives) Less(i, j int) bool { return compareDirectives(d[i], d[j]) < 0 }

// compareDirectives compares two directives by their date, then by type
// priority. Directives without a date (Invalid entries) compare by source
// position so that sorting stays total for malformed input.
func compareDirectives(a, b Directive) int {
	da, db := a.date(), b.date()

	if da == nil || db == nil {
		return comparePositions(a.Position(), b.Position())
	}

	if da.Before(db.Time) {
		return -1
	} else if da.After(db.Time) {
		return 1
	}

	// Same date - compare by type priority
	aPriority := directiveTypePriority(a)
	bPriority := directiveTypePriority(b)
	if aPriority < bPriority {
		return -1
	} else if aPriority > bPriority {
		return 1
	}

	return 0
}

func comparePositions(a, b Position) int {
	if a.Offset < b.Offset {
		return -1
	}
	if a.Offset > b.Offset {
		return 1
	}
	return 0
}

// directiveTypePriority returns the processing priority for a directive type.
// Lower numbers are processed first.
func directiveTypePriority(d Directive) int {
	switch d.(type) {
	case *Open:
		return 0 // Accounts must be opened before use
	case *Close:
		return 1
	default:
		return 2
	}
}

// File represents a parsed Beancount file containing directives, options,
// includes, and other top-level elements. Directives are kept in source order.
type File struct {
	Directives Directives
	Options    []*Option
	Includes   []*Include
	Plugins    []*Plugin
	Pushtags   []*Pushtag
	Poptags    []*Poptag
	Pushmetas  []*Pushmeta
	Popmetas   []*Popmeta
}

// WithMetadata is an interface for AST nodes that can have metadata attached.
type WithMetadata interface {
	AddMetadata(...*Metadata)
}

// withMetadata is an embeddable struct that implements WithMetadata.
type withMetadata struct {
	Metadata []*Metadata
}

func (w *withMetadata) AddMetadata(m ...*Metadata) {
	w.Metadata = append(w.Metadata, m...)
}

// Directive is the interface implemented by all Beancount directive types,
// including Invalid. The union is closed: consumers type-switch over the
// concrete types declared in this package.
type Directive interface {
	WithMetadata

	// Position reports where the directive starts in the source file.
	Position() Position

	// Span reports the source range the directive covers. For transactions
	// this extends through the last posting (and its metadata).
	Span() Span

	date() *Date
	Directive() string
}

// isSorted checks if directives are already sorted by date.
func isSorted(d Directives) bool {
	for i := 1; i < len(d); i++ {
		if d.Less(i, i-1) {
			return false
		}
	}
	return true
}

// SortDirectives sorts all directives by their parsed date.
//
// The parser leaves directives in source order; call this explicitly when
// date order is wanted instead.
func SortDirectives(file *File) {
	// Skip sorting if already sorted (common case for well-maintained files)
	if isSorted(file.Directives) {
		return
	}

	slices.SortFunc(file.Directives, compareDirectives)
}
