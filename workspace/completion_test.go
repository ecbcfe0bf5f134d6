package workspace

import (
	"context"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func testWorkspace(t *testing.T) *Workspace {
	t.Helper()

	w := New()
	w.Open(context.Background(), mainURI, 1, `2014-01-01 open Assets:Checking USD
2014-01-01 open Assets:Cash
2014-01-01 open Expenses:Food:Restaurant
2014-01-01 commodity EUR

2014-05-05 * "Grocery Co" "Weekly shop"
  Assets:Cash -10.00 USD
  Expenses:Food:Restaurant

2014-05-06 * "Cafe Mogador" "Dinner"
  Assets:Cash -20.00 EUR
  Expenses:Food:Restaurant
`)
	return w
}

// cursorPos finds the position right after the first occurrence of marker.
func cursorPos(text, marker string) Position {
	idx := strings.Index(text, marker)
	return PositionForOffset(text, idx+len(marker))
}

func TestCompleteAccountsOnPostingLine(t *testing.T) {
	w := testWorkspace(t)
	doc, _ := w.Document(mainURI)

	items := w.Complete(mainURI, cursorPos(doc.Text, "  Assets:Ca"))

	labels := labelsOf(items)
	assert.Equal(t, []string{"Assets:Cash"}, labels)
	assert.Equal(t, CompletionAccount, items[0].Kind)
}

func TestCompleteAccountPrefixIsCaseSensitive(t *testing.T) {
	w := testWorkspace(t)

	// Completion offers every known account for an "Assets:" prefix.
	doc, _ := w.Document(mainURI)
	items := w.Complete(mainURI, cursorPos(doc.Text, "  Assets:"))
	assert.Equal(t, []string{"Assets:Cash", "Assets:Checking"}, labelsOf(items))
}

func TestCompleteAccountsAfterOpenKeyword(t *testing.T) {
	w := testWorkspace(t)
	doc, _ := w.Document(mainURI)

	items := w.Complete(mainURI, cursorPos(doc.Text, "2014-01-01 open Assets:Check"))
	assert.Equal(t, []string{"Assets:Checking"}, labelsOf(items))
}

func TestCompletePayeeInsideFirstString(t *testing.T) {
	w := testWorkspace(t)
	doc, _ := w.Document(mainURI)

	items := w.Complete(mainURI, cursorPos(doc.Text, `2014-05-05 * "Gro`))
	assert.Equal(t, []string{"Grocery Co"}, labelsOf(items))
	assert.Equal(t, CompletionPayee, items[0].Kind)

	// Empty prefix lists every payee.
	items = w.Complete(mainURI, cursorPos(doc.Text, `2014-05-05 * "`))
	assert.Equal(t, []string{"Cafe Mogador", "Grocery Co"}, labelsOf(items))
}

func TestCompleteNoPayeeInSecondString(t *testing.T) {
	w := testWorkspace(t)
	doc, _ := w.Document(mainURI)

	// Inside the narration string (third quote on the line).
	items := w.Complete(mainURI, cursorPos(doc.Text, `"Grocery Co" "Week`))
	assert.Equal(t, 0, len(items))
}

func TestCompleteCurrencyAfterNumber(t *testing.T) {
	w := testWorkspace(t)
	doc, _ := w.Document(mainURI)

	items := w.Complete(mainURI, cursorPos(doc.Text, "-10.00 US"))
	assert.Equal(t, []string{"USD"}, labelsOf(items))
	assert.Equal(t, CompletionCurrency, items[0].Kind)

	items = w.Complete(mainURI, cursorPos(doc.Text, "-20.00 "))
	assert.Equal(t, []string{"EUR", "USD"}, labelsOf(items))
}

func TestCompleteNothingAtTopLevel(t *testing.T) {
	w := testWorkspace(t)
	doc, _ := w.Document(mainURI)

	items := w.Complete(mainURI, cursorPos(doc.Text, "2014-01-01 commodity"))
	assert.Equal(t, 0, len(items))
}

func TestCompleteUnknownDocument(t *testing.T) {
	w := New()
	assert.Equal(t, 0, len(w.Complete("file:///missing.beancount", Position{})))
}

func labelsOf(items []CompletionItem) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Label
	}
	return out
}
