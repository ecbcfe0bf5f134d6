// Package workspace implements the document store and symbol index behind the
// language server. It owns the authoritative text of every open file, keeps a
// parsed representation per file, and answers the queries that back
// completion, formatting, and go-to-definition.
package workspace

import (
	"context"
	"sync"

	"github.com/tliron/commonlog"

	"github.com/matze/beancount-language-server/ast"
	"github.com/matze/beancount-language-server/parser"
	"github.com/matze/beancount-language-server/telemetry"
)

// Document is one file known to the workspace. Documents are immutable;
// every change produces a new Document, so a caller holding one can read it
// without locking.
type Document struct {
	URI     string
	Text    string
	Version int32
	File    *ast.File
	Errors  []*parser.ParseError

	// FromDisk marks documents loaded through include resolution rather
	// than opened by the client. Disk documents carry version -1.
	FromDisk bool
}

// Workspace is the document store. All exported methods are safe for
// concurrent use; one write lock serializes edits against queries.
type Workspace struct {
	mu       sync.RWMutex
	docs     map[string]*Document
	external map[string][]Diagnostic
	index    *Index
	log      commonlog.Logger
}

// New creates an empty workspace.
func New() *Workspace {
	return &Workspace{
		docs:     make(map[string]*Document),
		external: make(map[string][]Diagnostic),
		index:    NewIndex(),
		log:      commonlog.GetLogger("workspace"),
	}
}

// Open registers a document with the text and version supplied by the client.
// Opening replaces any disk-loaded copy of the same file.
func (w *Workspace) Open(ctx context.Context, uri string, version int32, text string) *Document {
	doc := w.parse(ctx, uri, version, text, false)

	w.mu.Lock()
	defer w.mu.Unlock()

	w.docs[uri] = doc
	w.index.Update(uri, doc.File)
	return doc
}

// Change applies incremental edits to an open document. Edits whose version
// is not newer than the stored one are stale reorderings from the transport
// and are dropped; the second return value reports whether the change was
// applied. Changes to unknown documents are dropped the same way.
func (w *Workspace) Change(ctx context.Context, uri string, version int32, edits []Edit) (*Document, bool) {
	w.mu.RLock()
	current, ok := w.docs[uri]
	w.mu.RUnlock()

	if !ok {
		w.log.Warningf("change for unknown document %s dropped", uri)
		return nil, false
	}

	if !current.FromDisk && version <= current.Version {
		w.log.Debugf("stale change for %s dropped (version %d <= %d)", uri, version, current.Version)
		return current, false
	}

	text := applyEdits(current.Text, edits)
	doc := w.parse(ctx, uri, version, text, false)

	w.mu.Lock()
	defer w.mu.Unlock()

	// Re-check under the write lock; another change may have won the race.
	latest, ok := w.docs[uri]
	if !ok {
		return nil, false
	}
	if !latest.FromDisk && version <= latest.Version {
		return latest, false
	}

	w.docs[uri] = doc
	w.index.Update(uri, doc.File)
	return doc, true
}

// Close removes a document and retracts its symbols from the index.
func (w *Workspace) Close(uri string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	delete(w.docs, uri)
	delete(w.external, uri)
	w.index.Retract(uri)
}

// AddFromDisk registers a document loaded from disk, typically through
// include resolution. A document already opened by the client is left alone:
// the client's overlay is the truth.
func (w *Workspace) AddFromDisk(ctx context.Context, uri string, text string) *Document {
	w.mu.RLock()
	current, ok := w.docs[uri]
	w.mu.RUnlock()

	if ok && !current.FromDisk {
		return current
	}

	doc := w.parse(ctx, uri, -1, text, true)

	w.mu.Lock()
	defer w.mu.Unlock()

	if latest, ok := w.docs[uri]; ok && !latest.FromDisk {
		return latest
	}

	w.docs[uri] = doc
	w.index.Update(uri, doc.File)
	return doc
}

// Document returns the current state of a document.
func (w *Workspace) Document(uri string) (*Document, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	doc, ok := w.docs[uri]
	return doc, ok
}

// Documents returns the current state of every document.
func (w *Workspace) Documents() []*Document {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make([]*Document, 0, len(w.docs))
	for _, doc := range w.docs {
		out = append(out, doc)
	}
	return out
}

func (w *Workspace) parse(ctx context.Context, uri string, version int32, text string, fromDisk bool) *Document {
	timer := telemetry.StartTimer(ctx, "workspace.parse")
	file, errs := parser.ParseBytesWithFilename(uri, []byte(text))
	timer.Stop()

	telemetry.FromContext(ctx).Count("workspace.parse_errors", int64(len(errs)))

	return &Document{
		URI:      uri,
		Text:     text,
		Version:  version,
		File:     file,
		Errors:   errs,
		FromDisk: fromDisk,
	}
}
