package lsp

import (
	"encoding/json"
	"fmt"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/matze/beancount-language-server/workspace"
)

func (s *Server) initialize(context *glsp.Context, params *protocol.InitializeParams) (any, error) {
	if params.InitializationOptions != nil {
		raw, err := json.Marshal(params.InitializationOptions)
		if err == nil {
			if err := json.Unmarshal(raw, &s.config); err != nil {
				s.log.Warningf("ignoring malformed initialization options: %v", err)
			}
		}
	}

	syncKind := protocol.TextDocumentSyncKindIncremental

	capabilities := s.handler.CreateServerCapabilities()
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: &protocol.True,
		Change:    &syncKind,
		Save:      &protocol.SaveOptions{IncludeText: &protocol.False},
	}
	capabilities.CompletionProvider = &protocol.CompletionOptions{
		TriggerCharacters: []string{":", "\""},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    serverName,
			Version: &s.version,
		},
	}, nil
}

func (s *Server) initialized(context *glsp.Context, params *protocol.InitializedParams) error {
	s.log.Info("client initialized")

	if s.config.JournalFile != "" {
		if err := s.loader.LoadRoot(s.ctx(), s.config.JournalFile); err != nil {
			s.log.Warningf("%v", err)
		}
	}

	return nil
}

func (s *Server) shutdown(context *glsp.Context) error {
	return s.loader.Close()
}

func (s *Server) textDocumentDidOpen(context *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	ctx := s.ctx()

	doc := s.ws.Open(ctx, params.TextDocument.URI, params.TextDocument.Version, params.TextDocument.Text)
	s.loader.LoadIncludes(ctx, doc)
	s.publishDiagnostics(context, doc.URI)

	return nil
}

func (s *Server) textDocumentDidChange(context *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	uri := params.TextDocument.URI

	edits := make([]workspace.Edit, 0, len(params.ContentChanges))
	for _, raw := range params.ContentChanges {
		switch change := raw.(type) {
		case protocol.TextDocumentContentChangeEvent:
			edits = append(edits, workspace.Edit{
				Range: fromProtocolRange(change.Range),
				Text:  change.Text,
			})
		case protocol.TextDocumentContentChangeEventWhole:
			edits = append(edits, workspace.Edit{Text: change.Text})
		default:
			return fmt.Errorf("unexpected change event type %T", raw)
		}
	}

	ctx := s.ctx()
	doc, applied := s.ws.Change(ctx, uri, params.TextDocument.Version, edits)
	if !applied {
		// Stale or unknown; the stored state is still authoritative.
		return nil
	}

	s.loader.LoadIncludes(ctx, doc)
	s.publishDiagnostics(context, uri)

	return nil
}

func (s *Server) textDocumentDidSave(context *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	// Saving changes nothing in the overlay, but included files may have
	// appeared on disk since the last load.
	if doc, ok := s.ws.Document(params.TextDocument.URI); ok {
		s.loader.LoadIncludes(s.ctx(), doc)
	}
	return nil
}

func (s *Server) textDocumentDidClose(context *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.ws.Close(params.TextDocument.URI)

	// Clear any diagnostics the client still shows for this file.
	context.Notify("textDocument/publishDiagnostics", protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})

	return nil
}

func (s *Server) textDocumentCompletion(context *glsp.Context, params *protocol.CompletionParams) (any, error) {
	items := s.ws.Complete(params.TextDocument.URI, fromProtocolPosition(params.Position))
	if len(items) == 0 {
		return nil, nil
	}

	out := make([]protocol.CompletionItem, len(items))
	for i, item := range items {
		kind := completionKind(item.Kind)
		out[i] = protocol.CompletionItem{
			Label: item.Label,
			Kind:  &kind,
		}
	}

	return out, nil
}

func (s *Server) textDocumentFormatting(context *glsp.Context, params *protocol.DocumentFormattingParams) ([]protocol.TextEdit, error) {
	uri := params.TextDocument.URI

	doc, ok := s.ws.Document(uri)
	if !ok {
		return nil, nil
	}

	formatted, ok := s.ws.Format(uri, s.formatterOptions()...)
	if !ok || formatted == doc.Text {
		return nil, nil
	}

	// One whole-document edit; the client computes the minimal change.
	return []protocol.TextEdit{{
		Range: protocol.Range{
			Start: protocol.Position{Line: 0, Character: 0},
			End:   toProtocolPosition(workspace.PositionForOffset(doc.Text, len(doc.Text))),
		},
		NewText: formatted,
	}}, nil
}

func (s *Server) textDocumentDefinition(context *glsp.Context, params *protocol.DefinitionParams) (any, error) {
	loc, ok := s.ws.Definition(params.TextDocument.URI, fromProtocolPosition(params.Position))
	if !ok {
		return nil, nil
	}

	target, ok := s.ws.Document(loc.URI)
	if !ok {
		return nil, nil
	}

	return protocol.Location{
		URI:   loc.URI,
		Range: toProtocolRange(workspace.RangeForSpan(target.Text, loc.Span)),
	}, nil
}

// publishDiagnostics pushes the current diagnostics of a document to the
// client. An empty list is published too; it clears stale squiggles.
func (s *Server) publishDiagnostics(context *glsp.Context, uri string) {
	diags, ok := s.ws.Diagnostics(uri)
	if !ok {
		return
	}

	source := serverName

	out := make([]protocol.Diagnostic, len(diags))
	for i, diag := range diags {
		severity := diagnosticSeverity(diag.Severity)
		out[i] = protocol.Diagnostic{
			Range:    toProtocolRange(diag.Range),
			Severity: &severity,
			Source:   &source,
			Message:  diag.Message,
		}
	}

	context.Notify("textDocument/publishDiagnostics", protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: out,
	})
}
