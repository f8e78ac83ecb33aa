// Package report renders comparison results for people and for files.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/TFMV/sheetdiff/pkg/core"
	"github.com/fatih/color"
)

// Console prints the human summary of a comparison.
type Console struct {
	out     io.Writer
	verbose bool
	warn    *color.Color
}

// NewConsole creates a console printing to out. Verbose adds the
// per-column breakdown of modified cells.
func NewConsole(out io.Writer, verbose bool) *Console {
	return &Console{
		out:     out,
		verbose: verbose,
		warn:    color.New(color.FgYellow),
	}
}

// Columns prints the columns a table was loaded with.
func (c *Console) Columns(t *core.Table) {
	fmt.Fprintf(c.out, "Columns in %s: %s\n", core.BaseName(t.Source), strings.Join(t.Columns, ", "))
}

// Summary prints the row counts of a result followed by its warnings.
func (c *Console) Summary(sourceA, sourceB string, result *core.DiffResult) {
	s := result.Summary
	fmt.Fprintf(c.out, "Rows only in %s: %d\n", core.BaseName(sourceA), s.Deleted)
	fmt.Fprintf(c.out, "Rows only in %s: %d\n", core.BaseName(sourceB), s.Added)
	fmt.Fprintf(c.out, "Rows with modified data: %d\n", s.Modified)

	if c.verbose && len(s.Columns) > 0 {
		columns := make([]string, 0, len(s.Columns))
		for col := range s.Columns {
			columns = append(columns, col)
		}
		sort.Strings(columns)
		fmt.Fprintln(c.out, "Modified cells by column:")
		for _, col := range columns {
			fmt.Fprintf(c.out, "  %s: %d\n", col, s.Columns[col])
		}
	}

	for _, w := range result.Warnings {
		c.Warn(w)
	}
}

// Warn prints a warning line.
func (c *Console) Warn(msg string) {
	c.warn.Fprintf(c.out, "[warn] %s\n", msg)
}

// Written prints where the full detail was written.
func (c *Console) Written(path string) {
	fmt.Fprintf(c.out, "Full detail written to %s\n", path)
}
