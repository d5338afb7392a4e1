package renderer

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/etnz/networth"
	"github.com/etnz/networth/date"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// ConditionalBlock let you fully write a block and decide at the end to print it or not.
// If the block function returns true, the content is printed to w, otherwise it is discarded.
func ConditionalBlock(w io.Writer, block func(io.Writer) bool) {
	bw := &bytes.Buffer{}
	if block(bw) {
		io.Copy(w, bw)
	}
}

// newTable returns a table with header, every column but the first aligned right.
func newTable(header ...any) table.Writer {
	t := table.NewWriter()
	t.AppendHeader(table.Row(header))
	t.Style().Format.Header = text.FormatDefault
	configs := make([]table.ColumnConfig, 0, len(header))
	for i := 2; i <= len(header); i++ {
		configs = append(configs, table.ColumnConfig{Number: i, Align: text.AlignRight, AlignHeader: text.AlignRight})
	}
	t.SetColumnConfigs(configs)
	return t
}

// monthLabel names a row of a monthly series: the month, or the date itself for the
// opening and current rows.
func monthLabel(d date.Date, init, current bool) string {
	switch {
	case init:
		return "Init " + d.String()
	case current:
		return d.String() + " (today)"
	default:
		return date.NewRange(d, date.Monthly).Identifier()
	}
}

// partial marks an amount that leaves some investments out.
func partial(m networth.Money, missing []string) string {
	if len(missing) > 0 {
		return m.String() + " *"
	}
	return m.String()
}

// writeMissing writes the footnote of partial amounts, if any.
func writeMissing(w io.Writer, missing map[string][]string, order []string) {
	ConditionalBlock(w, func(w io.Writer) bool {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "\\* missing prices:")
		fmt.Fprintln(w)
		n := 0
		for _, label := range order {
			if symbols := missing[label]; len(symbols) > 0 {
				fmt.Fprintf(w, "- %s: %s\n", label, strings.Join(symbols, ", "))
				n++
			}
		}
		return n > 0
	})
}
