package ast

// Commodity declares a commodity or currency that can be used in the ledger.
// This directive is optional but documents which currencies and commodities
// are expected, and is the canonical definition site that go-to-definition
// resolves to.
//
// Example:
//
//	2014-01-01 commodity USD
//	  name: "US Dollar"
//	  asset-class: "cash"
type Commodity struct {
	Pos      Position
	Rng      Span
	Date     *Date
	Currency string

	withMetadata
}

var _ Directive = &Commodity{}

func (c *Commodity) Position() Position { return c.Pos }
func (c *Commodity) Span() Span         { return c.Rng }
func (c *Commodity) date() *Date        { return c.Date }
func (c *Commodity) Directive() string  { return "commodity" }

// Open declares the opening of an account at a specific date, marking the
// beginning of its lifetime in the ledger. Optional constraint currencies
// restrict what the account may hold, and a booking method (STRICT, NONE,
// AVERAGE, FIFO, LIFO) may be given.
//
// Example:
//
//	2014-05-01 open Assets:US:BofA:Checking USD
//	2014-05-01 open Assets:Investments:Brokerage USD,EUR "FIFO"
type Open struct {
	Pos                  Position
	Rng                  Span
	Date                 *Date
	Account              Account
	AccountSpan          Span // Span of the account token itself
	ConstraintCurrencies []string
	BookingMethod        string

	withMetadata
}

var _ Directive = &Open{}

func (o *Open) Position() Position { return o.Pos }
func (o *Open) Span() Span         { return o.Rng }
func (o *Open) date() *Date        { return o.Date }
func (o *Open) Directive() string  { return "open" }

// Close declares the closing of an account at a specific date, marking the end
// of its lifetime in the ledger.
//
// Example:
//
//	2015-09-23 close Assets:US:BofA:Checking
type Close struct {
	Pos     Position
	Rng     Span
	Date    *Date
	Account Account

	withMetadata
}

var _ Directive = &Close{}

func (c *Close) Position() Position { return c.Pos }
func (c *Close) Span() Span         { return c.Rng }
func (c *Close) date() *Date        { return c.Date }
func (c *Close) Directive() string  { return "close" }

// Balance asserts that an account should have a specific balance at the
// beginning of a given date. The engine extracts the account and currency as
// symbols; it does not verify the asserted amount.
//
// Example:
//
//	2014-08-09 balance Assets:US:BofA:Checking 562.00 USD
type Balance struct {
	Pos     Position
	Rng     Span
	Date    *Date
	Account Account
	Amount  *Amount

	withMetadata
}

var _ Directive = &Balance{}

func (b *Balance) Position() Position { return b.Pos }
func (b *Balance) Span() Span         { return b.Rng }
func (b *Balance) date() *Date        { return b.Date }
func (b *Balance) Directive() string  { return "balance" }

// Pad automatically inserts a transaction to bring an account to a specific
// balance determined by the next balance assertion.
//
// Example:
//
//	2014-01-01 pad Assets:US:BofA:Checking Equity:Opening-Balances
type Pad struct {
	Pos        Position
	Rng        Span
	Date       *Date
	Account    Account
	AccountPad Account

	withMetadata
}

var _ Directive = &Pad{}

func (p *Pad) Position() Position { return p.Pos }
func (p *Pad) Span() Span         { return p.Rng }
func (p *Pad) date() *Date        { return p.Date }
func (p *Pad) Directive() string  { return "pad" }

// Note attaches a dated comment to an account.
//
// Example:
//
//	2014-07-09 note Assets:US:BofA:Checking "Called bank about pending direct deposit"
type Note struct {
	Pos         Position
	Rng         Span
	Date        *Date
	Account     Account
	Description string

	withMetadata
}

var _ Directive = &Note{}

func (n *Note) Position() Position { return n.Pos }
func (n *Note) Span() Span         { return n.Rng }
func (n *Note) date() *Date        { return n.Date }
func (n *Note) Directive() string  { return "note" }

// Document associates an external file (receipt, invoice, statement) with an
// account at a specific date.
//
// Example:
//
//	2014-07-09 document Assets:US:BofA:Checking "/documents/bank-statements/2014-07.pdf"
type Document struct {
	Pos            Position
	Rng            Span
	Date           *Date
	Account        Account
	PathToDocument string

	withMetadata
}

var _ Directive = &Document{}

func (d *Document) Position() Position { return d.Pos }
func (d *Document) Span() Span         { return d.Rng }
func (d *Document) date() *Date        { return d.Date }
func (d *Document) Directive() string  { return "document" }

// Price declares the price of a commodity in terms of another currency at a
// specific date. A price line also declares the quoted commodity for
// definition lookups when no commodity directive exists.
//
// Example:
//
//	2014-07-09 price USD 1.08 CAD
//	2015-04-30 price HOOL 582.26 USD
type Price struct {
	Pos       Position
	Rng       Span
	Date      *Date
	Commodity string
	Amount    *Amount

	withMetadata
}

var _ Directive = &Price{}

func (p *Price) Position() Position { return p.Pos }
func (p *Price) Span() Span         { return p.Rng }
func (p *Price) date() *Date        { return p.Date }
func (p *Price) Directive() string  { return "price" }

// Event records a named event with a value at a specific date.
//
// Example:
//
//	2014-07-09 event "location" "New York, USA"
type Event struct {
	Pos   Position
	Rng   Span
	Date  *Date
	Name  string
	Value string

	withMetadata
}

var _ Directive = &Event{}

func (e *Event) Position() Position { return e.Pos }
func (e *Event) Span() Span         { return e.Rng }
func (e *Event) date() *Date        { return e.Date }
func (e *Event) Directive() string  { return "event" }

// Custom is a prototype directive for plugin development, allowing arbitrary
// typed values after the directive name. The values are kept as raw source
// text; the engine extracts no symbols from them.
//
// Example:
//
//	2014-07-09 custom "budget" "..." TRUE 45.30 USD
type Custom struct {
	Pos    Position
	Rng    Span
	Date   *Date
	Type   string
	Values string // Raw source text of the values, reproduced verbatim

	withMetadata
}

var _ Directive = &Custom{}

func (c *Custom) Position() Position { return c.Pos }
func (c *Custom) Span() Span         { return c.Rng }
func (c *Custom) date() *Date        { return c.Date }
func (c *Custom) Directive() string  { return "custom" }

// Invalid represents a line or block the parser could not understand. The raw
// source text is preserved so the formatter can reproduce it verbatim, and the
// message explains the failure. Symbol extraction skips Invalid directives;
// no consumer may fail on one.
type Invalid struct {
	Pos     Position
	Rng     Span
	Raw     string
	Message string

	withMetadata
}

var _ Directive = &Invalid{}

func (i *Invalid) Position() Position { return i.Pos }
func (i *Invalid) Span() Span         { return i.Rng }
func (i *Invalid) date() *Date        { return nil }
func (i *Invalid) Directive() string  { return "invalid" }
