// Package render formats search results for the terminal.
package render

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
)

// noMatches is printed instead of an empty table.
const noMatches = "No matching rows found."

// Table writes rows as an aligned text table with a header row.
//
// Header names are printed exactly as stored, without the case folding
// tablewriter applies by default. An empty row set prints a "no results"
// message so the user can tell an empty table from a failed command.
func Table(w io.Writer, columns []string, rows [][]string) {
	if len(rows) == 0 {
		fmt.Fprintln(w, noMatches)
		return
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader(columns)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.AppendBulk(rows)
	table.Render()
}
