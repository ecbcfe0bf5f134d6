package loader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/matze/beancount-language-server/workspace"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadIncludes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "accounts.beancount", "2014-01-01 open Assets:Checking USD\n")
	writeFile(t, dir, "prices.beancount", "2014-07-09 price USD 1.08 CAD\n")

	ws := workspace.New()
	l, err := New(ws)
	assert.NoError(t, err)
	defer l.Close()

	mainPath := filepath.Join(dir, "main.beancount")
	mainURI := URIForPath(mainPath)
	doc := ws.Open(context.Background(), mainURI, 1,
		"include \"accounts.beancount\"\ninclude \"prices.beancount\"\n")

	l.LoadIncludes(context.Background(), doc)

	_, found := ws.Document(URIForPath(filepath.Join(dir, "accounts.beancount")))
	assert.True(t, found)
	_, found = ws.Document(URIForPath(filepath.Join(dir, "prices.beancount")))
	assert.True(t, found)
}

func TestLoadRoot(t *testing.T) {
	dir := t.TempDir()
	rootPath := writeFile(t, dir, "main.beancount",
		"include \"accounts.beancount\"\n2014-01-01 open Equity:Opening-Balances\n")
	writeFile(t, dir, "accounts.beancount", "2014-01-01 open Assets:Checking\n")

	ws := workspace.New()
	l, err := New(ws)
	assert.NoError(t, err)
	defer l.Close()

	assert.NoError(t, l.LoadRoot(context.Background(), rootPath))

	root, found := ws.Document(URIForPath(rootPath))
	assert.True(t, found)
	assert.True(t, root.FromDisk)

	_, found = ws.Document(URIForPath(filepath.Join(dir, "accounts.beancount")))
	assert.True(t, found)

	assert.Error(t, l.LoadRoot(context.Background(), filepath.Join(dir, "nope.beancount")))
}

func TestLoadIncludesRecursive(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.beancount", "include \"b.beancount\"\n2014-01-01 open Assets:A\n")
	writeFile(t, dir, "b.beancount", "2014-01-01 open Assets:B\n")

	ws := workspace.New()
	l, err := New(ws)
	assert.NoError(t, err)
	defer l.Close()

	mainURI := URIForPath(filepath.Join(dir, "main.beancount"))
	doc := ws.Open(context.Background(), mainURI, 1, "include \"a.beancount\"\n")

	l.LoadIncludes(context.Background(), doc)

	_, found := ws.Document(URIForPath(filepath.Join(dir, "b.beancount")))
	assert.True(t, found)
}

func TestLoadIncludesCycle(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.beancount", "include \"b.beancount\"\n")
	writeFile(t, dir, "b.beancount", "include \"a.beancount\"\n")

	ws := workspace.New()
	l, err := New(ws)
	assert.NoError(t, err)
	defer l.Close()

	mainURI := URIForPath(filepath.Join(dir, "a.beancount"))
	doc := ws.Open(context.Background(), mainURI, 1, "include \"b.beancount\"\n")

	// Must terminate despite the include cycle.
	l.LoadIncludes(context.Background(), doc)

	_, found := ws.Document(URIForPath(filepath.Join(dir, "b.beancount")))
	assert.True(t, found)
}

func TestLoadIncludesMissingFile(t *testing.T) {
	dir := t.TempDir()

	ws := workspace.New()
	l, err := New(ws)
	assert.NoError(t, err)
	defer l.Close()

	mainURI := URIForPath(filepath.Join(dir, "main.beancount"))
	doc := ws.Open(context.Background(), mainURI, 1,
		"include \"missing.beancount\"\ninclude \"also-missing.beancount\"\n")

	// Broken includes are skipped, not fatal.
	l.LoadIncludes(context.Background(), doc)

	assert.Equal(t, 1, len(ws.Documents()))
}

func TestLoadIncludesDoesNotShadowOpenDocuments(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "accounts.beancount", "2014-01-01 open Assets:OnDisk\n")

	ws := workspace.New()
	l, err := New(ws)
	assert.NoError(t, err)
	defer l.Close()

	// The client already has the included file open with unsaved edits.
	includedURI := URIForPath(path)
	ws.Open(context.Background(), includedURI, 7, "2014-01-01 open Assets:InEditor\n")

	mainURI := URIForPath(filepath.Join(dir, "main.beancount"))
	doc := ws.Open(context.Background(), mainURI, 1, "include \"accounts.beancount\"\n")
	l.LoadIncludes(context.Background(), doc)

	current, _ := ws.Document(includedURI)
	assert.Equal(t, int32(7), current.Version)
	assert.Contains(t, current.Text, "Assets:InEditor")
}

func TestURIPathRoundTrip(t *testing.T) {
	tests := []string{
		"/ledger/main.beancount",
		"/path with spaces/file.beancount",
	}

	for _, path := range tests {
		t.Run(path, func(t *testing.T) {
			uri := URIForPath(path)
			back, err := PathForURI(uri)
			assert.NoError(t, err)
			assert.Equal(t, path, back)
		})
	}
}

func TestPathForURIRejectsOtherSchemes(t *testing.T) {
	_, err := PathForURI("https://example.com/x.beancount")
	assert.Error(t, err)
}
