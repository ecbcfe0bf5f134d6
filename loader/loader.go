// Package loader pulls a ledger's include graph into the workspace. Beancount
// files reference each other with include directives; symbols from included
// files must be visible in completion and definition queries even when the
// client never opens them. The loader reads those files from disk, registers
// them with the workspace, and watches them for outside changes.
package loader

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/tliron/commonlog"

	"github.com/matze/beancount-language-server/workspace"
)

// Loader resolves includes and mirrors disk changes into the workspace.
type Loader struct {
	ws      *workspace.Workspace
	watcher *fsnotify.Watcher
	log     commonlog.Logger

	mu      sync.Mutex
	watched map[string]bool // paths currently watched
	closed  bool
}

// New creates a loader for the given workspace and starts its watch loop.
func New(ws *workspace.Workspace) (*Loader, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}

	l := &Loader{
		ws:      ws,
		watcher: watcher,
		log:     commonlog.GetLogger("loader"),
		watched: make(map[string]bool),
	}

	go l.watchLoop()

	return l, nil
}

// Close stops the watch loop.
func (l *Loader) Close() error {
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()

	return l.watcher.Close()
}

// LoadRoot loads a ledger's main file from disk and pulls in its include
// graph. Clients configure this for setups where the file being edited is
// itself an include and the symbols live elsewhere in the tree.
func (l *Loader) LoadRoot(ctx context.Context, path string) error {
	path = filepath.Clean(path)

	doc, err := l.loadFile(ctx, URIForPath(path), path)
	if err != nil {
		return fmt.Errorf("loading root ledger %s: %w", path, err)
	}

	l.LoadIncludes(ctx, doc)
	return nil
}

// LoadIncludes loads every file the given document includes, recursively,
// into the workspace. Files already opened by the client are left alone.
// Missing or unreadable includes are logged and skipped; one broken include
// must not hide the others.
func (l *Loader) LoadIncludes(ctx context.Context, doc *workspace.Document) {
	visited := map[string]bool{doc.URI: true}
	l.loadIncludes(ctx, doc, visited)
}

func (l *Loader) loadIncludes(ctx context.Context, doc *workspace.Document, visited map[string]bool) {
	base, err := PathForURI(doc.URI)
	if err != nil {
		l.log.Warningf("cannot resolve includes of %s: %v", doc.URI, err)
		return
	}
	dir := filepath.Dir(base)

	for _, include := range doc.File.Includes {
		path := include.Filename
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		path = filepath.Clean(path)

		uri := URIForPath(path)
		if visited[uri] {
			continue
		}
		visited[uri] = true

		included, err := l.loadFile(ctx, uri, path)
		if err != nil {
			l.log.Warningf("include %q from %s: %v", include.Filename, doc.URI, err)
			continue
		}

		l.loadIncludes(ctx, included, visited)
	}
}

// loadFile reads one file from disk into the workspace and starts watching
// it. A document already opened by the client is returned as-is.
func (l *Loader) loadFile(ctx context.Context, uri, path string) (*workspace.Document, error) {
	if doc, ok := l.ws.Document(uri); ok && !doc.FromDisk {
		return doc, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	doc := l.ws.AddFromDisk(ctx, uri, string(data))
	l.watch(path)

	return doc, nil
}

func (l *Loader) watch(path string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed || l.watched[path] {
		return
	}

	if err := l.watcher.Add(path); err != nil {
		l.log.Warningf("watching %s: %v", path, err)
		return
	}
	l.watched[path] = true
}

// watchLoop reacts to disk changes of loaded files. Reloads reuse
// AddFromDisk, so a file the client has since opened is never clobbered.
func (l *Loader) watchLoop() {
	for {
		select {
		case event, ok := <-l.watcher.Events:
			if !ok {
				return
			}
			l.handleEvent(event)

		case err, ok := <-l.watcher.Errors:
			if !ok {
				return
			}
			l.log.Errorf("file watcher: %v", err)
		}
	}
}

func (l *Loader) handleEvent(event fsnotify.Event) {
	uri := URIForPath(event.Name)

	switch {
	case event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Create):
		data, err := os.ReadFile(event.Name)
		if err != nil {
			l.log.Warningf("reloading %s: %v", event.Name, err)
			return
		}

		l.log.Debugf("reloading %s after disk change", event.Name)
		l.ws.AddFromDisk(context.Background(), uri, string(data))

	case event.Op.Has(fsnotify.Remove) || event.Op.Has(fsnotify.Rename):
		// Keep the last known content; a removed include usually comes
		// back (editors rename-and-replace on save). The watch itself is
		// gone, so re-add it if the file reappears.
		l.mu.Lock()
		delete(l.watched, event.Name)
		l.mu.Unlock()

		if _, err := os.Stat(event.Name); err == nil {
			l.watch(event.Name)
		}
	}
}

// PathForURI converts a file:// URI to a filesystem path.
func PathForURI(uri string) (string, error) {
	parsed, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("parsing URI %q: %w", uri, err)
	}
	if parsed.Scheme != "file" {
		return "", fmt.Errorf("unsupported URI scheme %q", parsed.Scheme)
	}

	path := parsed.Path
	if path == "" {
		path = parsed.Opaque
	}

	return filepath.FromSlash(path), nil
}

// URIForPath converts a filesystem path to a file:// URI.
func URIForPath(path string) string {
	path = filepath.ToSlash(path)
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	u := url.URL{Scheme: "file", Path: path}
	return u.String()
}
