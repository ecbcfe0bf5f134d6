package ast

// Option sets a configuration parameter that affects how the ledger is
// processed or displayed.
//
// Example:
//
//	option "title" "Personal Ledger of John Doe"
//	option "operating_currency" "USD"
type Option struct {
	Pos   Position
	Name  string
	Value string
}

// Include imports directives from another Beancount file, allowing a ledger to
// be split across multiple files. The path can be absolute or relative to the
// file containing the include directive.
//
// Example:
//
//	include "accounts.beancount"
//	include "transactions/2014-expenses.beancount"
type Include struct {
	Pos      Position
	Filename string
}

// Plugin loads a processing plugin. The engine records plugins but does not
// run them.
//
// Example:
//
//	plugin "beancount.plugins.auto_accounts"
type Plugin struct {
	Pos    Position
	Name   string
	Config string
}

// Pushtag pushes a tag onto the tag stack, causing all subsequent transactions
// in the file to receive this tag until a corresponding poptag.
//
// Example:
//
//	pushtag #trip-europe
type Pushtag struct {
	Pos Position
	Tag Tag
}

// Poptag removes a tag from the tag stack.
type Poptag struct {
	Pos Position
	Tag Tag
}

// Pushmeta pushes a metadata key-value pair onto the metadata stack, applied
// to all subsequent directives until a corresponding popmeta.
//
// Example:
//
//	pushmeta location: "New York, NY"
type Pushmeta struct {
	Pos   Position
	Key   string
	Value string
}

// Popmeta removes a metadata key from the metadata stack.
type Popmeta struct {
	Pos Position
	Key string
}
