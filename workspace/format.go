package workspace

import (
	"github.com/matze/beancount-language-server/formatter"
)

// Format returns the formatted text of a document. The document's existing
// parse is reused; regions that failed to parse come through verbatim.
func (w *Workspace) Format(uri string, opts ...formatter.Option) (string, bool) {
	w.mu.RLock()
	doc, ok := w.docs[uri]
	w.mu.RUnlock()

	if !ok {
		return "", false
	}

	return formatter.New(opts...).Format([]byte(doc.Text), doc.File), true
}
