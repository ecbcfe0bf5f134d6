package ast

import (
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
)

func date(t *testing.T, value string) *Date {
	t.Helper()

	var d Date
	assert.NoError(t, d.Capture([]string{value}))
	return &d
}

func TestAccountCapture(t *testing.T) {
	tests := []struct {
		name    string
		account string
		fail    bool
	}{
		{"simple", "Assets:Checking", false},
		{"deep", "Assets:US:BofA:Checking", false},
		{"digits and hyphens", "Equity:Opening-Balances", false},
		{"unicode segment", "Assets:Bank:Курс", false},
		{"single segment", "Assets", true},
		{"bad category", "Banana:Checking", true},
		{"lowercase segment", "Assets:checking", true},
		{"empty segment", "Assets::Checking", true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var a Account
			err := a.Capture([]string{test.account})
			if test.fail {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, Account(test.account), a)
			}
		})
	}
}

func TestDateCapture(t *testing.T) {
	var d Date
	assert.NoError(t, d.Capture([]string{"2014-05-01"}))
	assert.Equal(t, time.May, d.Month())

	assert.Error(t, d.Capture([]string{"2014-13-01"}))
	assert.Error(t, d.Capture([]string{"not-a-date"}))
}

func TestDateIsZeroNilSafe(t *testing.T) {
	var d *Date
	assert.True(t, d.IsZero())
	assert.False(t, date(t, "2014-05-01").IsZero())
}

func TestTagLinkCapture(t *testing.T) {
	var tag Tag
	assert.NoError(t, tag.Capture([]string{"#trip-europe"}))
	assert.Equal(t, Tag("trip-europe"), tag)

	var link Link
	assert.NoError(t, link.Capture([]string{"^invoice-42"}))
	assert.Equal(t, Link("invoice-42"), link)
}

func TestCostHelpers(t *testing.T) {
	assert.False(t, (*Cost)(nil).IsEmpty())
	assert.True(t, (&Cost{}).IsEmpty())
	assert.False(t, (&Cost{IsMerge: true}).IsEmpty())
	assert.True(t, (&Cost{IsMerge: true}).IsMergeCost())
	assert.False(t, (&Cost{Amount: &Amount{Value: "1"}}).IsEmpty())
}

func TestSpanContains(t *testing.T) {
	span := Span{Start: 4, End: 10}

	assert.True(t, span.Contains(4))
	assert.True(t, span.Contains(9))
	assert.False(t, span.Contains(10))
	assert.False(t, span.Contains(3))
}

func TestSortDirectivesByDate(t *testing.T) {
	file := &File{
		Directives: Directives{
			&Open{Date: date(t, "2014-03-01"), Account: "Assets:C"},
			&Open{Date: date(t, "2014-01-01"), Account: "Assets:A"},
			&Open{Date: date(t, "2014-02-01"), Account: "Assets:B"},
		},
	}

	SortDirectives(file)

	assert.Equal(t, Account("Assets:A"), file.Directives[0].(*Open).Account)
	assert.Equal(t, Account("Assets:B"), file.Directives[1].(*Open).Account)
	assert.Equal(t, Account("Assets:C"), file.Directives[2].(*Open).Account)
}

func TestSortDirectivesSameDatePriority(t *testing.T) {
	// On the same date an open sorts before a close, which sorts before
	// everything else.
	d := date(t, "2014-01-01")
	file := &File{
		Directives: Directives{
			&Balance{Date: d, Account: "Assets:A"},
			&Close{Date: d, Account: "Assets:A"},
			&Open{Date: d, Account: "Assets:A"},
		},
	}

	SortDirectives(file)

	assert.Equal(t, "open", file.Directives[0].Directive())
	assert.Equal(t, "close", file.Directives[1].Directive())
	assert.Equal(t, "balance", file.Directives[2].Directive())
}

func TestSortDirectivesInvalidByPosition(t *testing.T) {
	// Invalid directives have no date; they sort by source position and
	// never panic the comparison.
	file := &File{
		Directives: Directives{
			&Open{Pos: Position{Offset: 50}, Date: date(t, "2014-01-01"), Account: "Assets:A"},
			&Invalid{Pos: Position{Offset: 10}, Raw: "junk"},
		},
	}

	SortDirectives(file)

	assert.Equal(t, "invalid", file.Directives[0].Directive())
}
