// Package lsp exposes the workspace engine over the Language Server Protocol.
// It adapts protocol requests to workspace queries and owns nothing itself:
// all state lives in the workspace and the loader.
package lsp

import (
	"context"

	"github.com/tliron/commonlog"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"github.com/matze/beancount-language-server/formatter"
	"github.com/matze/beancount-language-server/loader"
	"github.com/matze/beancount-language-server/telemetry"
	"github.com/matze/beancount-language-server/workspace"
)

const serverName = "beancount-language-server"

// Config is the server configuration clients pass as initialization options.
type Config struct {
	// JournalFile points at the ledger's main file. When set, the server
	// loads it and its include graph up front, so symbols from the whole
	// ledger are available even when only a leaf file is open.
	JournalFile string `json:"journal_file"`

	// CurrencyColumn forces the column currencies are aligned to when
	// formatting. Zero computes the column from each file's content.
	CurrencyColumn int `json:"currency_column"`
}

// Server wires protocol handlers to the workspace.
type Server struct {
	handler   *protocol.Handler
	ws        *workspace.Workspace
	loader    *loader.Loader
	config    Config
	collector *telemetry.Memory
	log       commonlog.Logger
	version   string
}

// NewServer creates a language server ready to run on a transport. A non-empty
// root path seeds the journal file setting; initialization options sent by the
// client take precedence.
func NewServer(version, root string) (*server.Server, error) {
	ws := workspace.New()

	ld, err := loader.New(ws)
	if err != nil {
		return nil, err
	}

	ls := &Server{
		ws:        ws,
		loader:    ld,
		config:    Config{JournalFile: root},
		collector: telemetry.NewMemory(),
		log:       commonlog.GetLogger(serverName),
		version:   version,
	}

	ls.handler = &protocol.Handler{
		Initialize:             ls.initialize,
		Initialized:            ls.initialized,
		Shutdown:               ls.shutdown,
		TextDocumentDidOpen:    ls.textDocumentDidOpen,
		TextDocumentDidChange:  ls.textDocumentDidChange,
		TextDocumentDidSave:    ls.textDocumentDidSave,
		TextDocumentDidClose:   ls.textDocumentDidClose,
		TextDocumentCompletion: ls.textDocumentCompletion,
		TextDocumentFormatting: ls.textDocumentFormatting,
		TextDocumentDefinition: ls.textDocumentDefinition,
	}

	return server.NewServer(ls.handler, serverName, false), nil
}

// ctx returns the context handlers run workspace operations under.
func (s *Server) ctx() context.Context {
	return telemetry.WithCollector(context.Background(), s.collector)
}

// formatterOptions derives formatter options from the configuration.
func (s *Server) formatterOptions() []formatter.Option {
	var opts []formatter.Option
	if s.config.CurrencyColumn > 0 {
		opts = append(opts, formatter.WithCurrencyColumn(s.config.CurrencyColumn))
	}
	return opts
}
