package workspace

import (
	"github.com/matze/beancount-language-server/ast"
)

// Severity grades a diagnostic, mirroring the protocol's scale.
type Severity int

const (
	SeverityError Severity = iota + 1
	SeverityWarning
	SeverityInformation
	SeverityHint
)

// Diagnostic is one problem reported for a document.
type Diagnostic struct {
	Range    Range
	Severity Severity
	Message  string
}

// SetExternalDiagnostics stores diagnostics produced by an external checker,
// such as a ledger validation tool, for later publication alongside the
// engine's own. The records are forwarded untouched except that malformed
// ranges (end before start) are dropped.
func (w *Workspace) SetExternalDiagnostics(uri string, diags []Diagnostic) {
	kept := make([]Diagnostic, 0, len(diags))
	for _, diag := range diags {
		if !wellFormed(diag.Range) {
			w.log.Warningf("dropping external diagnostic with malformed range for %s", uri)
			continue
		}
		kept = append(kept, diag)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.external[uri] = kept
}

func wellFormed(r Range) bool {
	if r.End.Line != r.Start.Line {
		return r.End.Line > r.Start.Line
	}
	return r.End.Character >= r.Start.Character
}

// Diagnostics returns the diagnostics of a document: its parse errors,
// surfaced as warnings since the engine keeps operating on the rest of the
// file, followed by any external diagnostics. A document that is clean on
// both counts returns an empty, non-nil slice so publishing it clears
// earlier diagnostics on the client.
func (w *Workspace) Diagnostics(uri string) ([]Diagnostic, bool) {
	w.mu.RLock()
	doc, ok := w.docs[uri]
	external := w.external[uri]
	w.mu.RUnlock()

	if !ok {
		return nil, false
	}

	out := make([]Diagnostic, 0, len(doc.Errors)+len(external))
	for _, err := range doc.Errors {
		span := err.Span
		if span.IsZero() {
			span = ast.Span{Start: err.Pos.Offset, End: err.Pos.Offset}
		}

		out = append(out, Diagnostic{
			Range:    RangeForSpan(doc.Text, span),
			Severity: SeverityWarning,
			Message:  err.Message,
		})
	}

	return append(out, external...), true
}
