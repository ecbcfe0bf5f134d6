// Package formatter implements whole-file formatting for Beancount ledgers.
//
// Formatting is conservative: it normalizes posting indentation, aligns amounts
// so that all currencies start in the same column, and trims trailing
// whitespace. Everything else, including comments, blank lines, section
// headers, and regions the parser could not understand, is reproduced
// verbatim. Formatting the output again yields the same text.
package formatter

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/matze/beancount-language-server/ast"
	"github.com/matze/beancount-language-server/parser"
)

// Formatter formats Beancount source text.
type Formatter struct {
	currencyColumn int // 1-indexed column where currencies start; 0 = computed
	indent         int // posting indentation in spaces
}

// Option configures a Formatter.
type Option func(*Formatter)

// WithCurrencyColumn forces the column at which currencies are aligned instead
// of computing it from the file's content. Lines that do not fit keep a single
// space before the amount.
func WithCurrencyColumn(col int) Option {
	return func(f *Formatter) {
		f.currencyColumn = col
	}
}

// WithIndent sets the posting indentation width. The default is two spaces.
func WithIndent(indent int) Option {
	return func(f *Formatter) {
		f.indent = indent
	}
}

// New creates a Formatter with the given options.
func New(opts ...Option) *Formatter {
	f := &Formatter{
		indent: 2,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// FormatBytes parses and formats source text in one step. Formatting never
// fails: unparseable regions pass through verbatim.
func (f *Formatter) FormatBytes(source []byte) string {
	file, _ := parser.ParseBytes(source)
	return f.Format(source, file)
}

// Format formats source text using its parsed representation. The file must
// have been parsed from exactly this source.
func (f *Formatter) Format(source []byte, file *ast.File) string {
	if len(source) == 0 {
		return ""
	}

	doc := newDocument(source)

	// Lines inside Invalid regions are reproduced byte for byte. Touching
	// text the parser did not understand risks destroying it.
	verbatim := make(map[int]bool)
	for _, directive := range file.Directives {
		invalid, ok := directive.(*ast.Invalid)
		if !ok {
			continue
		}
		for line := invalid.Pos.Line; line <= doc.lineOf(invalid.Rng.End); line++ {
			verbatim[line] = true
		}
	}

	rewrites := f.collectRewrites(doc, file)

	currencyColumn := f.currencyColumn
	if currencyColumn <= 0 {
		currencyColumn = computeCurrencyColumn(rewrites)
	}

	var out strings.Builder
	out.Grow(len(source) + 64)

	for i, line := range doc.lines {
		lineNo := i + 1

		switch {
		case verbatim[lineNo]:
			out.WriteString(line)
		case rewrites[lineNo] != nil:
			out.WriteString(rewrites[lineNo].render(currencyColumn))
		default:
			out.WriteString(strings.TrimRight(line, " \t\r"))
		}

		if i < len(doc.lines)-1 {
			out.WriteByte('\n')
		}
	}

	result := out.String()
	if !strings.HasSuffix(result, "\n") {
		result += "\n"
	}

	return result
}

// rewrite is a single line rebuilt by the formatter: a normalized prefix, an
// optional amount value to align, and the verbatim rest of the line.
type rewrite struct {
	prefix string
	value  string // amount value text, empty when the line has no amount
	rest   string // text after the value (currency, cost, price, comment)
}

func (r *rewrite) render(currencyColumn int) string {
	if r.value == "" {
		if r.rest == "" {
			return r.prefix
		}
		return r.prefix + " " + r.rest
	}

	pad := currencyColumn - 2 - runewidth.StringWidth(r.prefix) - runewidth.StringWidth(r.value)
	if pad < 1 {
		pad = 1
	}

	line := r.prefix + strings.Repeat(" ", pad) + r.value
	if r.rest != "" {
		line += " " + r.rest
	}
	return line
}

// computeCurrencyColumn picks the smallest column at which every amount's
// currency can start with at least one space on each side of the value.
func computeCurrencyColumn(rewrites map[int]*rewrite) int {
	max := 0
	for _, r := range rewrites {
		if r.value == "" {
			continue
		}
		w := runewidth.StringWidth(r.prefix) + runewidth.StringWidth(r.value)
		if w > max {
			max = w
		}
	}
	return max + 3
}

// collectRewrites walks the parsed file and records how each posting, balance,
// and price line should be rebuilt.
func (f *Formatter) collectRewrites(doc *document, file *ast.File) map[int]*rewrite {
	rewrites := make(map[int]*rewrite)

	for _, directive := range file.Directives {
		switch d := directive.(type) {
		case *ast.Transaction:
			for _, posting := range d.Postings {
				if r := f.postingRewrite(doc, posting); r != nil {
					rewrites[posting.Pos.Line] = r
				}
			}

		case *ast.Balance:
			if r := doc.amountRewrite(d.Pos, d.Amount); r != nil {
				rewrites[d.Pos.Line] = r
			}

		case *ast.Price:
			if r := doc.amountRewrite(d.Pos, d.Amount); r != nil {
				rewrites[d.Pos.Line] = r
			}
		}
	}

	return rewrites
}

// postingRewrite rebuilds a posting line: fixed indentation, optional flag,
// account, then the amount and whatever follows it.
func (f *Formatter) postingRewrite(doc *document, posting *ast.Posting) *rewrite {
	line := doc.line(posting.Pos.Line)
	if line == "" {
		return nil
	}

	prefix := strings.Repeat(" ", f.indent)
	if posting.Flag != "" {
		prefix += posting.Flag + " "
	}
	prefix += string(posting.Account)

	if posting.Amount == nil || posting.Amount.Span.IsZero() {
		rest := doc.textAfter(posting.Pos.Line, posting.AccountSpan.End)
		return &rewrite{prefix: prefix, rest: rest}
	}

	return &rewrite{
		prefix: prefix,
		value:  doc.spanText(posting.Amount.Span),
		rest:   doc.textAfter(posting.Pos.Line, posting.Amount.Span.End),
	}
}

// document provides line-based access to source text.
type document struct {
	lines      []string
	lineStarts []int // byte offset of each line start
}

func newDocument(source []byte) *document {
	lines := strings.Split(string(source), "\n")

	starts := make([]int, len(lines))
	offset := 0
	for i, line := range lines {
		starts[i] = offset
		offset += len(line) + 1
	}

	return &document{lines: lines, lineStarts: starts}
}

// line returns the text of a 1-indexed line, without its newline.
func (d *document) line(n int) string {
	if n < 1 || n > len(d.lines) {
		return ""
	}
	return d.lines[n-1]
}

// lineOf returns the 1-indexed line containing the given byte offset.
func (d *document) lineOf(offset int) int {
	lo, hi := 0, len(d.lineStarts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if d.lineStarts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo + 1
}

// spanText returns the source text covered by a span, assuming it does not
// cross a line boundary.
func (d *document) spanText(span ast.Span) string {
	line := d.lineOf(span.Start)
	text := d.line(line)
	start := span.Start - d.lineStarts[line-1]
	end := span.End - d.lineStarts[line-1]
	if start < 0 || end > len(text) || start > end {
		return ""
	}
	return text[start:end]
}

// textAfter returns the trimmed text on the given line after a byte offset.
func (d *document) textAfter(lineNo, offset int) string {
	text := d.line(lineNo)
	col := offset - d.lineStarts[lineNo-1]
	if col < 0 || col > len(text) {
		return ""
	}
	return strings.TrimSpace(text[col:])
}

// amountRewrite rebuilds a dated directive line that carries an amount, such
// as balance or price. The text before the amount is kept with its internal
// spacing collapsed to single spaces.
func (d *document) amountRewrite(pos ast.Position, amount *ast.Amount) *rewrite {
	if amount == nil || amount.Span.IsZero() {
		return nil
	}

	line := d.line(pos.Line)
	if line == "" {
		return nil
	}

	start := amount.Span.Start - d.lineStarts[pos.Line-1]
	if start < 0 || start > len(line) {
		return nil
	}

	prefix := strings.Join(strings.Fields(line[:start]), " ")

	return &rewrite{
		prefix: prefix,
		value:  d.spanText(amount.Span),
		rest:   d.textAfter(pos.Line, amount.Span.End),
	}
}
