package lsp

import (
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/matze/beancount-language-server/workspace"
)

func fromProtocolPosition(pos protocol.Position) workspace.Position {
	return workspace.Position{Line: pos.Line, Character: pos.Character}
}

func toProtocolPosition(pos workspace.Position) protocol.Position {
	return protocol.Position{Line: pos.Line, Character: pos.Character}
}

func fromProtocolRange(rng *protocol.Range) *workspace.Range {
	if rng == nil {
		return nil
	}
	return &workspace.Range{
		Start: fromProtocolPosition(rng.Start),
		End:   fromProtocolPosition(rng.End),
	}
}

func toProtocolRange(rng workspace.Range) protocol.Range {
	return protocol.Range{
		Start: toProtocolPosition(rng.Start),
		End:   toProtocolPosition(rng.End),
	}
}

func diagnosticSeverity(severity workspace.Severity) protocol.DiagnosticSeverity {
	switch severity {
	case workspace.SeverityWarning:
		return protocol.DiagnosticSeverityWarning
	case workspace.SeverityInformation:
		return protocol.DiagnosticSeverityInformation
	case workspace.SeverityHint:
		return protocol.DiagnosticSeverityHint
	default:
		return protocol.DiagnosticSeverityError
	}
}

func completionKind(kind workspace.CompletionKind) protocol.CompletionItemKind {
	switch kind {
	case workspace.CompletionPayee:
		return protocol.CompletionItemKindText
	case workspace.CompletionCurrency:
		return protocol.CompletionItemKindUnit
	default:
		return protocol.CompletionItemKindVariable
	}
}
