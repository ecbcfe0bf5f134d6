package workspace

import (
	"strings"
)

// CompletionKind classifies a completion item.
type CompletionKind int

const (
	CompletionAccount CompletionKind = iota
	CompletionPayee
	CompletionCurrency
)

// CompletionItem is one completion candidate.
type CompletionItem struct {
	Label string
	Kind  CompletionKind
}

// Complete returns completion candidates for a cursor position. The context
// decides what is offered:
//
//   - inside the first quoted string of a transaction header: payees
//   - right after a number: currencies
//   - an account-shaped word on an indented line, or after a directive
//     keyword that takes an account: accounts matching the typed prefix
//
// Anywhere else the result is empty. Matching is case-sensitive and results
// are sorted lexicographically.
func (w *Workspace) Complete(uri string, pos Position) []CompletionItem {
	w.mu.RLock()
	defer w.mu.RUnlock()

	doc, ok := w.docs[uri]
	if !ok {
		return nil
	}

	offset := OffsetForPosition(doc.Text, pos)
	lineStart := strings.LastIndexByte(doc.Text[:offset], '\n') + 1
	before := doc.Text[lineStart:offset]

	if prefix, ok := payeeContext(before); ok {
		return items(filterPrefix(w.index.Payees(), prefix), CompletionPayee)
	}

	word, beforeWord := splitCurrentWord(before)

	if endsWithDigit(beforeWord) {
		return items(w.index.Currencies(word), CompletionCurrency)
	}

	if accountContext(before, word, beforeWord) {
		return items(w.index.Accounts(word), CompletionAccount)
	}

	return nil
}

// payeeContext reports whether the cursor sits inside the first quoted string
// of a transaction header line, and returns the text typed so far inside it.
func payeeContext(before string) (string, bool) {
	if !startsWithDate(before) {
		return "", false
	}

	quotes := strings.Count(before, `"`)
	if quotes != 1 {
		return "", false
	}

	return before[strings.IndexByte(before, '"')+1:], true
}

// accountContext reports whether the cursor position calls for account
// completion: the current word on an indented line, or the operand of a
// directive keyword that takes an account.
func accountContext(before, word, beforeWord string) bool {
	indented := strings.HasPrefix(before, " ") || strings.HasPrefix(before, "\t")

	if indented {
		// Posting or metadata position. A word with a lowercase start is
		// a metadata key, not an account.
		if word == "" {
			return true
		}
		return word[0] >= 'A' && word[0] <= 'Z'
	}

	// "2014-01-01 open Assets:..." and friends.
	fields := strings.Fields(beforeWord)
	if len(fields) == 0 {
		return false
	}
	switch fields[len(fields)-1] {
	case "open", "close", "pad", "balance", "note", "document":
		return true
	}
	return false
}

// splitCurrentWord splits the text before the cursor into the word being
// typed and everything before it.
func splitCurrentWord(before string) (word, rest string) {
	idx := strings.LastIndexAny(before, " \t")
	return before[idx+1:], before[:idx+1]
}

func endsWithDigit(s string) bool {
	s = strings.TrimRight(s, " \t")
	return s != "" && s[len(s)-1] >= '0' && s[len(s)-1] <= '9'
}

func startsWithDate(s string) bool {
	if len(s) < 10 {
		return false
	}
	for i, ch := range []byte(s[:10]) {
		if i == 4 || i == 7 {
			if ch != '-' {
				return false
			}
		} else if ch < '0' || ch > '9' {
			return false
		}
	}
	return true
}

func filterPrefix(names []string, prefix string) []string {
	if prefix == "" {
		return names
	}
	out := names[:0:0]
	for _, name := range names {
		if strings.HasPrefix(name, prefix) {
			out = append(out, name)
		}
	}
	return out
}

func items(labels []string, kind CompletionKind) []CompletionItem {
	out := make([]CompletionItem, len(labels))
	for i, label := range labels {
		out[i] = CompletionItem{Label: label, Kind: kind}
	}
	return out
}
