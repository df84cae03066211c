// Package tabular formats fixed-width rows for template output.
//
// A Table is a list of column specs. Templates reach it either through the
// render context or by building one inline:
//
//	{{ $t := tabular "name:20" "size:8:right" "status:10::status" }}
//	{{ $t.Header }}
//	{{ range .Files }}{{ $t.Row .Name .Size .Status }}
//	{{ end }}
//
// Column specs are name:width:align:truncate:style. Empty fields take the
// defaults (flexible width, left aligned, cut at the end, unstyled). A column
// with a style wraps each cell in [style]...[/style] markup, which the tag
// pass resolves later.
package tabular

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/arthur-debert/outfit/pkg/columns"
	"github.com/arthur-debert/outfit/pkg/errors"
)

// DefaultSeparator goes between cells.
const DefaultSeparator = "  "

// Column describes one column of a table. Width 0 makes the column flexible:
// it shares whatever the fixed columns leave of the table width.
type Column struct {
	Name     string
	Width    int
	Align    columns.Align
	Truncate columns.Truncation
	Style    string
}

// ParseColumn parses a name:width:align:truncate:style spec.
func ParseColumn(spec string) (Column, error) {
	parts := strings.Split(spec, ":")
	if len(parts) > 5 {
		return Column{}, errors.Newf(errors.ErrInvalidInput, "column spec %q has too many fields", spec)
	}
	col := Column{Name: parts[0]}
	if len(parts) > 1 && parts[1] != "" {
		w, err := strconv.Atoi(parts[1])
		if err != nil || w < 0 {
			return Column{}, errors.Newf(errors.ErrInvalidInput, "column spec %q: invalid width %q", spec, parts[1])
		}
		col.Width = w
	}
	if len(parts) > 2 {
		a, err := columns.ParseAlign(parts[2])
		if err != nil {
			return Column{}, errors.Wrapf(err, errors.ErrInvalidInput, "column spec %q", spec)
		}
		col.Align = a
	}
	if len(parts) > 3 {
		tr, err := columns.ParseTruncation(parts[3])
		if err != nil {
			return Column{}, errors.Wrapf(err, errors.ErrInvalidInput, "column spec %q", spec)
		}
		col.Truncate = tr
	}
	if len(parts) > 4 {
		col.Style = parts[4]
	}
	return col, nil
}

// Table lays out rows of cells.
type Table struct {
	Columns   []Column
	Separator string
	// Width is the total width flexible columns are sized against.
	Width int
}

// New returns a table with the default separator and an 80 column width.
func New(cols ...Column) *Table {
	return &Table{Columns: cols, Separator: DefaultSeparator, Width: 80}
}

// Parse builds a table from column specs.
func Parse(specs ...string) (*Table, error) {
	cols := make([]Column, 0, len(specs))
	for _, spec := range specs {
		col, err := ParseColumn(spec)
		if err != nil {
			return nil, err
		}
		cols = append(cols, col)
	}
	return New(cols...), nil
}

// WithWidth returns a copy of the table sized against width.
func (t *Table) WithWidth(width int) *Table {
	c := *t
	c.Width = width
	return &c
}

// widths resolves flexible columns. Each gets an equal share of what is
// left, never less than one column.
func (t *Table) widths() []int {
	out := make([]int, len(t.Columns))
	fixed, flex := 0, 0
	for i, c := range t.Columns {
		out[i] = c.Width
		if c.Width == 0 {
			flex++
		}
		fixed += c.Width
	}
	if flex == 0 {
		return out
	}
	fixed += columns.DisplayWidth(t.Separator) * (len(t.Columns) - 1)
	share := (t.Width - fixed) / flex
	if share < 1 {
		share = 1
	}
	for i := range out {
		if out[i] == 0 {
			out[i] = share
		}
	}
	return out
}

// Row formats values as one line. Missing values are empty cells and extra
// values are dropped.
func (t *Table) Row(values ...interface{}) string {
	widths := t.widths()
	cells := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		var v string
		if i < len(values) && values[i] != nil {
			v = fmt.Sprint(values[i])
		}
		cell := columns.Fit(v, widths[i], c.Align, c.Truncate)
		if c.Style != "" {
			cell = "[" + c.Style + "]" + cell + "[/" + c.Style + "]"
		}
		cells[i] = cell
	}
	return strings.TrimRight(strings.Join(cells, t.Separator), " ")
}

// Header formats the column names as a row.
func (t *Table) Header() string {
	names := make([]interface{}, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	plain := *t
	plain.Columns = make([]Column, len(t.Columns))
	for i, c := range t.Columns {
		c.Style = ""
		plain.Columns[i] = c
	}
	return plain.Row(names...)
}

// Rule returns a line of ch spanning the table.
func (t *Table) Rule(ch string) string {
	if ch == "" {
		ch = "-"
	}
	total := 0
	for _, w := range t.widths() {
		total += w
	}
	total += columns.DisplayWidth(t.Separator) * (len(t.Columns) - 1)
	if total <= 0 {
		return ""
	}
	return strings.Repeat(ch, total)
}
