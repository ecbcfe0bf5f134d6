package workspace

import (
	"context"
	"testing"

	"github.com/alecthomas/assert/v2"
)

const mainURI = "file:///ledger/main.beancount"

func TestOpenParsesDocument(t *testing.T) {
	w := New()
	doc := w.Open(context.Background(), mainURI, 1, "2014-01-01 open Assets:Checking\n")

	assert.Equal(t, int32(1), doc.Version)
	assert.Equal(t, 1, len(doc.File.Directives))
	assert.Equal(t, 0, len(doc.Errors))
}

func TestChangeAppliesEdits(t *testing.T) {
	w := New()
	ctx := context.Background()
	w.Open(ctx, mainURI, 1, "2014-01-01 open Assets:Checking\n")

	doc, applied := w.Change(ctx, mainURI, 2, []Edit{
		{Text: "2014-01-01 open Assets:Savings\n"},
	})

	assert.True(t, applied)
	assert.Equal(t, int32(2), doc.Version)
	assert.Equal(t, []string{"Assets:Savings"}, w.index.Accounts(""))
}

func TestChangeDropsStaleVersions(t *testing.T) {
	w := New()
	ctx := context.Background()
	w.Open(ctx, mainURI, 5, "2014-01-01 open Assets:Checking\n")

	// Same version and older versions are dropped without any effect.
	for _, version := range []int32{5, 4, 1} {
		doc, applied := w.Change(ctx, mainURI, version, []Edit{{Text: "garbage"}})
		assert.False(t, applied)
		assert.Equal(t, int32(5), doc.Version)
	}

	current, ok := w.Document(mainURI)
	assert.True(t, ok)
	assert.Equal(t, "2014-01-01 open Assets:Checking\n", current.Text)
}

func TestChangeUnknownDocumentDropped(t *testing.T) {
	w := New()
	doc, applied := w.Change(context.Background(), "file:///nope.beancount", 1, []Edit{{Text: "x"}})
	assert.False(t, applied)
	assert.Zero(t, doc)
}

func TestDocumentsAreImmutable(t *testing.T) {
	w := New()
	ctx := context.Background()

	before := w.Open(ctx, mainURI, 1, "2014-01-01 open Assets:Checking\n")
	w.Change(ctx, mainURI, 2, []Edit{{Text: "2014-01-01 open Assets:Savings\n"}})

	// The snapshot taken before the change still reads the old state.
	assert.Equal(t, "2014-01-01 open Assets:Checking\n", before.Text)
	assert.Equal(t, int32(1), before.Version)
}

func TestCloseRetractsSymbols(t *testing.T) {
	w := New()
	ctx := context.Background()
	w.Open(ctx, mainURI, 1, "2014-01-01 open Assets:Checking\n")

	w.Close(mainURI)

	_, ok := w.Document(mainURI)
	assert.False(t, ok)
	assert.Equal(t, 0, len(w.index.Accounts("")))
}

func TestIndexRetractionIsExact(t *testing.T) {
	w := New()
	ctx := context.Background()
	otherURI := "file:///ledger/other.beancount"

	// The same account opened in two files survives closing one of them.
	w.Open(ctx, mainURI, 1, "2014-01-01 open Assets:Checking\n")
	w.Open(ctx, otherURI, 1, "2015-01-01 open Assets:Checking\n2015-01-01 open Assets:Cash\n")

	w.Close(mainURI)

	assert.Equal(t, []string{"Assets:Cash", "Assets:Checking"}, w.index.Accounts(""))

	w.Close(otherURI)
	assert.Equal(t, 0, len(w.index.Accounts("")))
}

func TestIndexUpdateReplacesOldSymbols(t *testing.T) {
	w := New()
	ctx := context.Background()

	w.Open(ctx, mainURI, 1, `2014-05-05 * "Grocery Co" "Weekly shop"
  Assets:Cash -10.00 USD
  Expenses:Food
`)
	assert.Equal(t, []string{"Grocery Co"}, w.index.Payees())

	// Renaming the payee must not leave the old name behind.
	w.Change(ctx, mainURI, 2, []Edit{{Text: `2014-05-05 * "Corner Store" "Weekly shop"
  Assets:Cash -10.00 USD
  Expenses:Food
`}})

	assert.Equal(t, []string{"Corner Store"}, w.index.Payees())
	assert.Equal(t, []string{"USD"}, w.index.Currencies(""))
}

func TestAddFromDiskDoesNotShadowOpenDocument(t *testing.T) {
	w := New()
	ctx := context.Background()

	opened := w.Open(ctx, mainURI, 3, "2014-01-01 open Assets:Checking\n")
	fromDisk := w.AddFromDisk(ctx, mainURI, "2014-01-01 open Assets:Stale\n")

	// The client's overlay wins over the disk copy.
	assert.Equal(t, opened.Text, fromDisk.Text)

	current, _ := w.Document(mainURI)
	assert.Equal(t, int32(3), current.Version)
	assert.Equal(t, []string{"Assets:Checking"}, w.index.Accounts(""))
}

func TestOpenReplacesDiskDocument(t *testing.T) {
	w := New()
	ctx := context.Background()

	w.AddFromDisk(ctx, mainURI, "2014-01-01 open Assets:Disk\n")
	w.Open(ctx, mainURI, 1, "2014-01-01 open Assets:Opened\n")

	assert.Equal(t, []string{"Assets:Opened"}, w.index.Accounts(""))
}

func TestDiagnostics(t *testing.T) {
	w := New()
	ctx := context.Background()

	w.Open(ctx, mainURI, 1, "2014-01-01 open Assets:Checking\n2014-01-02 opeX What\n")

	diags, ok := w.Diagnostics(mainURI)
	assert.True(t, ok)
	assert.Equal(t, 1, len(diags))
	assert.Equal(t, uint32(1), diags[0].Range.Start.Line)
	// Parse errors are warnings; the rest of the file still works.
	assert.Equal(t, SeverityWarning, diags[0].Severity)

	// A clean document yields an empty, non-nil slice.
	w.Change(ctx, mainURI, 2, []Edit{{Text: "2014-01-01 open Assets:Checking\n"}})
	diags, ok = w.Diagnostics(mainURI)
	assert.True(t, ok)
	assert.True(t, diags != nil)
	assert.Equal(t, 0, len(diags))
}

func TestExternalDiagnosticsForwarded(t *testing.T) {
	w := New()
	ctx := context.Background()

	w.Open(ctx, mainURI, 1, "2014-01-01 open Assets:Checking\n")

	w.SetExternalDiagnostics(mainURI, []Diagnostic{
		{
			Range:    Range{Start: Position{Line: 0, Character: 11}, End: Position{Line: 0, Character: 15}},
			Severity: SeverityError,
			Message:  "account has no transactions",
		},
		{
			// End before start: dropped during validation.
			Range:    Range{Start: Position{Line: 3, Character: 5}, End: Position{Line: 1, Character: 0}},
			Severity: SeverityError,
			Message:  "bogus",
		},
	})

	diags, ok := w.Diagnostics(mainURI)
	assert.True(t, ok)
	assert.Equal(t, 1, len(diags))
	assert.Equal(t, SeverityError, diags[0].Severity)
	assert.Equal(t, "account has no transactions", diags[0].Message)

	// Replacing with an empty set clears them.
	w.SetExternalDiagnostics(mainURI, nil)
	diags, _ = w.Diagnostics(mainURI)
	assert.Equal(t, 0, len(diags))
}

func TestCloseDropsExternalDiagnostics(t *testing.T) {
	w := New()
	ctx := context.Background()

	w.Open(ctx, mainURI, 1, "2014-01-01 open Assets:Checking\n")
	w.SetExternalDiagnostics(mainURI, []Diagnostic{
		{Severity: SeverityError, Message: "stale"},
	})

	w.Close(mainURI)
	w.Open(ctx, mainURI, 1, "2014-01-01 open Assets:Checking\n")

	diags, ok := w.Diagnostics(mainURI)
	assert.True(t, ok)
	assert.Equal(t, 0, len(diags))
}

func TestFormatQuery(t *testing.T) {
	w := New()
	ctx := context.Background()

	w.Open(ctx, mainURI, 1, "2014-05-05 * \"Dinner\"\n      Assets:Cash -10.00 USD\n  Expenses:Food\n")

	formatted, ok := w.Format(mainURI)
	assert.True(t, ok)
	assert.Contains(t, formatted, "\n  Assets:Cash")

	_, ok = w.Format("file:///missing.beancount")
	assert.False(t, ok)
}
