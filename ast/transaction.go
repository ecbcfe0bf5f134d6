package ast

// Transaction records a financial transaction with a date, flag, optional
// payee, narration, and a list of postings. The flag indicates transaction
// status: '*' for cleared transactions, '!' for pending ones, or 'P' for
// automatically generated padding transactions. Tags and links categorize and
// connect related transactions.
//
// Example:
//
//	2014-05-05 * "Cafe Mogador" "Lamb tagine with wine"
//	  Liabilities:CreditCard:CapitalOne         -37.45 USD
//	  Expenses:Food:Restaurant
type Transaction struct {
	Pos           Position
	Rng           Span
	Date          *Date
	Flag          string
	Payee         string
	PayeeSpan     Span // Span of the quoted payee string, zero when absent
	Narration     string
	NarrationSpan Span
	Links         []Link
	Tags          []Tag

	withMetadata

	Postings []*Posting
}

var _ Directive = &Transaction{}

func (t *Transaction) Position() Position { return t.Pos }
func (t *Transaction) Span() Span         { return t.Rng }
func (t *Transaction) date() *Date        { return t.Date }
func (t *Transaction) Directive() string  { return "transaction" }

// Posting represents a single leg of a transaction, specifying an account and
// optional amount, cost, and price. A posting may omit its amount entirely; the
// ledger convention is that the missing amount is inferred, so Amount is nil
// and that is valid.
//
// Example postings within transactions:
//
//	Assets:Investments:Brokerage    10 HOOL {518.73 USD}  ; Purchase with cost
//	Assets:Investments:Cash        200 EUR @ 1.35 USD     ; Conversion with price
//	Expenses:Groceries              45.60 USD             ; Simple posting
//	Assets:Checking                                       ; Inferred amount
type Posting struct {
	Pos         Position
	Rng         Span
	Flag        string
	Account     Account
	AccountSpan Span // Span of the account token itself
	Amount      *Amount
	Cost        *Cost
	PriceTotal  bool // true for @@ (total price), false for @ (unit price)
	Price       *Amount

	withMetadata
}
