// Package report renders field records as a fixed-width, left-aligned
// text table.
package report

import (
	"io"
	"strings"
	"unicode/utf8"

	"github.com/sgoodwin/xsearch/internal/extract"
)

// DefaultPadding is the spacing appended to every column beyond its
// widest cell.
const DefaultPadding = 3

// Render writes the records as aligned columns. The header row is the
// first record's keys in insertion order; a record lacking one of those
// keys renders as an empty cell. Embedded newlines in data values are
// escaped to the literal two characters `\n` before widths are computed.
// No records means no output at all.
func Render(w io.Writer, records []*extract.Record, padding int) error {
	if len(records) == 0 {
		return nil
	}
	if padding < 0 {
		padding = DefaultPadding
	}

	header := records[0].Keys()
	rows := make([][]string, 0, len(records)+1)
	rows = append(rows, header)
	for _, rec := range records {
		row := make([]string, len(header))
		for i, key := range header {
			v, _ := rec.Get(key)
			row[i] = strings.ReplaceAll(v, "\n", `\n`)
		}
		rows = append(rows, row)
	}

	widths := make([]int, len(header))
	for _, row := range rows {
		for i, cell := range row {
			if n := utf8.RuneCountInString(cell); n > widths[i] {
				widths[i] = n
			}
		}
	}

	var b strings.Builder
	for _, row := range rows {
		for i, cell := range row {
			b.WriteString(cell)
			for pad := widths[i] + padding - utf8.RuneCountInString(cell); pad > 0; pad-- {
				b.WriteByte(' ')
			}
		}
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}
