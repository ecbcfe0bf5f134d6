package workspace

import (
	"strings"
	"unicode/utf8"

	"github.com/matze/beancount-language-server/ast"
)

// Position is a zero-indexed document position. Character counts UTF-16 code
// units, matching the Language Server Protocol's default position encoding.
// All byte-offset conversion happens here so the rest of the engine works in
// byte offsets only.
type Position struct {
	Line      uint32
	Character uint32
}

// Range is a half-open position range.
type Range struct {
	Start Position
	End   Position
}

// Edit is one incremental document change. A nil Range replaces the whole
// document.
type Edit struct {
	Range *Range
	Text  string
}

// OffsetForPosition converts a protocol position to a byte offset in text.
// Positions past the end of a line clamp to the line end; lines past the end
// of the document clamp to the document end.
func OffsetForPosition(text string, pos Position) int {
	offset := 0
	for line := uint32(0); line < pos.Line; line++ {
		next := strings.IndexByte(text[offset:], '\n')
		if next < 0 {
			return len(text)
		}
		offset += next + 1
	}

	// Walk the line rune by rune, counting UTF-16 code units.
	units := uint32(0)
	for offset < len(text) && units < pos.Character {
		r, size := utf8.DecodeRuneInString(text[offset:])
		if r == '\n' {
			break
		}

		if r > 0xFFFF {
			units += 2
		} else {
			units++
		}
		offset += size
	}

	return offset
}

// PositionForOffset converts a byte offset in text to a protocol position.
func PositionForOffset(text string, offset int) Position {
	if offset > len(text) {
		offset = len(text)
	}
	if offset < 0 {
		offset = 0
	}

	lineStart := 0
	line := uint32(0)
	for {
		next := strings.IndexByte(text[lineStart:], '\n')
		if next < 0 || lineStart+next >= offset {
			break
		}
		lineStart += next + 1
		line++
	}

	units := uint32(0)
	for i := lineStart; i < offset; {
		r, size := utf8.DecodeRuneInString(text[i:])
		if r > 0xFFFF {
			units += 2
		} else {
			units++
		}
		i += size
	}

	return Position{Line: line, Character: units}
}

// RangeForSpan converts a byte span to a protocol range.
func RangeForSpan(text string, span ast.Span) Range {
	return Range{
		Start: PositionForOffset(text, span.Start),
		End:   PositionForOffset(text, span.End),
	}
}

// applyEdits applies incremental edits to text in order. Each edit's range
// refers to the text produced by the previous edits, which is how LSP content
// changes are specified.
func applyEdits(text string, edits []Edit) string {
	for _, edit := range edits {
		if edit.Range == nil {
			text = edit.Text
			continue
		}

		start := OffsetForPosition(text, edit.Range.Start)
		end := OffsetForPosition(text, edit.Range.End)
		if end < start {
			start, end = end, start
		}

		text = text[:start] + edit.Text + text[end:]
	}

	return text
}
