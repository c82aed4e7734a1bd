package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-sif/showframe"
)

// RowSource supplies Rows to Show, in order. It is satisfied by *showframe.Result.
type RowSource interface {
	ForEachRow(fn showframe.MapOperation) error
}

// errEnoughRows stops iteration once enough rows have been gathered
type errEnoughRows struct{}

func (errEnoughRows) Error() string { return "enough rows" }

// Show writes the first rows of a RowSource to w, as a table
func Show(w io.Writer, schema showframe.Schema, rows RowSource, opts ...Option) error {
	o := NewOptions(opts...)
	names := schema.ColumnNames()
	types := schema.ColumnTypes()

	header := make([]string, len(names))
	for i, name := range names {
		header[i] = truncateCell(metaCharacters.Replace(name), o.Truncate)
	}
	// gather one more row than requested, to learn whether there is more data
	cells := [][]string{}
	err := rows.ForEachRow(func(row showframe.Row) error {
		if len(cells) > o.NumRows {
			return errEnoughRows{}
		}
		line := make([]string, len(names))
		for i, name := range names {
			cell, err := formatCell(row, name, types[i])
			if err != nil {
				return err
			}
			line[i] = truncateCell(cell, o.Truncate)
		}
		cells = append(cells, line)
		return nil
	})
	if _, ok := err.(errEnoughRows); err != nil && !ok {
		return err
	}
	hasMoreData := len(cells) > o.NumRows
	if hasMoreData {
		cells = cells[:o.NumRows]
	}

	var sb strings.Builder
	if o.Vertical {
		writeVertical(&sb, header, cells)
	} else {
		writeTable(&sb, header, cells, o.Truncate > 0)
	}
	if o.Vertical && len(cells) == 0 {
		sb.WriteString("(0 rows)\n")
	} else if hasMoreData {
		rowsString := "rows"
		if o.NumRows == 1 {
			rowsString = "row"
		}
		fmt.Fprintf(&sb, "only showing top %d %s\n", o.NumRows, rowsString)
	}
	_, err = io.WriteString(w, sb.String())
	return err
}

func writeTable(sb *strings.Builder, header []string, cells [][]string, alignRight bool) {
	colWidths := make([]int, len(header))
	for i := range colWidths {
		colWidths[i] = minimumColWidth
	}
	for _, line := range append([][]string{header}, cells...) {
		for i, cell := range line {
			if w := displayWidth(cell); w > colWidths[i] {
				colWidths[i] = w
			}
		}
	}
	var sep strings.Builder
	sep.WriteByte('+')
	for _, w := range colWidths {
		sep.WriteString(strings.Repeat("-", w))
		sep.WriteByte('+')
	}
	sep.WriteByte('\n')

	writeLine := func(line []string) {
		sb.WriteByte('|')
		for i, cell := range line {
			if alignRight {
				sb.WriteString(padLeft(cell, colWidths[i]))
			} else {
				sb.WriteString(padRight(cell, colWidths[i], " "))
			}
			sb.WriteByte('|')
		}
		sb.WriteByte('\n')
	}
	sb.WriteString(sep.String())
	writeLine(header)
	sb.WriteString(sep.String())
	for _, line := range cells {
		writeLine(line)
	}
	sb.WriteString(sep.String())
}

func writeVertical(sb *strings.Builder, header []string, cells [][]string) {
	nameWidth := minimumColWidth
	for _, name := range header {
		if w := displayWidth(name); w > nameWidth {
			nameWidth = w
		}
	}
	dataWidth := minimumColWidth
	for _, line := range cells {
		for _, cell := range line {
			if w := displayWidth(cell); w > dataWidth {
				dataWidth = w
			}
		}
	}
	for i, line := range cells {
		// 5 accounts for the separators surrounding names and data
		sb.WriteString(padRight(fmt.Sprintf("-RECORD %d", i), nameWidth+dataWidth+5, "-"))
		sb.WriteByte('\n')
		for j, cell := range line {
			fmt.Fprintf(sb, " %s | %s \n", padRight(header[j], nameWidth, " "), padRight(cell, dataWidth, " "))
		}
	}
}
