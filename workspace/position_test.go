package workspace

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestOffsetForPosition(t *testing.T) {
	text := "abc\ndef\nghi"

	tests := []struct {
		name string
		pos  Position
		want int
	}{
		{"start", Position{0, 0}, 0},
		{"mid first line", Position{0, 2}, 2},
		{"line end clamps", Position{0, 99}, 3},
		{"second line", Position{1, 1}, 5},
		{"last line", Position{2, 3}, 11},
		{"line past end clamps", Position{9, 0}, 11},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, OffsetForPosition(text, test.pos))
		})
	}
}

func TestPositionOffsetUTF16(t *testing.T) {
	// "é" is 2 bytes, 1 UTF-16 unit. "𝄞" is 4 bytes, 2 UTF-16 units.
	text := "é𝄞x"

	assert.Equal(t, 0, OffsetForPosition(text, Position{0, 0}))
	assert.Equal(t, 2, OffsetForPosition(text, Position{0, 1}))
	assert.Equal(t, 6, OffsetForPosition(text, Position{0, 3}))
	assert.Equal(t, 7, OffsetForPosition(text, Position{0, 4}))

	assert.Equal(t, Position{0, 1}, PositionForOffset(text, 2))
	assert.Equal(t, Position{0, 3}, PositionForOffset(text, 6))
	assert.Equal(t, Position{0, 4}, PositionForOffset(text, 7))
}

func TestPositionForOffsetLines(t *testing.T) {
	text := "abc\ndef\n"

	assert.Equal(t, Position{0, 3}, PositionForOffset(text, 3))
	assert.Equal(t, Position{1, 0}, PositionForOffset(text, 4))
	assert.Equal(t, Position{2, 0}, PositionForOffset(text, 8))
	assert.Equal(t, Position{2, 0}, PositionForOffset(text, 999))
}

func TestApplyEdits(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		edits []Edit
		want  string
	}{
		{
			name:  "full replacement",
			text:  "old",
			edits: []Edit{{Text: "new"}},
			want:  "new",
		},
		{
			name: "insertion",
			text: "ac",
			edits: []Edit{{
				Range: &Range{Start: Position{0, 1}, End: Position{0, 1}},
				Text:  "b",
			}},
			want: "abc",
		},
		{
			name: "deletion",
			text: "abc",
			edits: []Edit{{
				Range: &Range{Start: Position{0, 1}, End: Position{0, 2}},
				Text:  "",
			}},
			want: "ac",
		},
		{
			name: "sequential edits see previous result",
			text: "ab",
			edits: []Edit{
				{Range: &Range{Start: Position{0, 2}, End: Position{0, 2}}, Text: "c"},
				{Range: &Range{Start: Position{0, 3}, End: Position{0, 3}}, Text: "d"},
			},
			want: "abcd",
		},
		{
			name: "multiline replacement",
			text: "one\ntwo\nthree",
			edits: []Edit{{
				Range: &Range{Start: Position{0, 3}, End: Position{2, 0}},
				Text:  " ",
			}},
			want: "one three",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, applyEdits(test.text, test.edits))
		})
	}
}
