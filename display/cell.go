package display

import (
	"strings"

	"github.com/go-sif/showframe"
	"golang.org/x/text/width"
)

var metaCharacters = strings.NewReplacer(
	"\n", "\\n",
	"\r", "\\r",
	"\t", "\\t",
	"\f", "\\f",
	"\b", "\\b",
	"\v", "\\v",
	"\a", "\\a",
)

// formatCell renders a single value of a Row
func formatCell(row showframe.Row, colName string, colType showframe.ColumnType) (string, error) {
	if row.IsNil(colName) {
		return "null", nil
	}
	v, err := row.Get(colName)
	if err != nil {
		return "", err
	}
	if v == nil {
		return "null", nil
	}
	return metaCharacters.Replace(colType.ToString(v)), nil
}

// truncateCell shortens a cell to at most truncate characters. An ellipsis is
// only used when at least 4 characters may be kept.
func truncateCell(cell string, truncate int) string {
	runes := []rune(cell)
	if truncate <= 0 || len(runes) <= truncate {
		return cell
	}
	if truncate < 4 {
		return string(runes[:truncate])
	}
	return string(runes[:truncate-3]) + "..."
}

// displayWidth is the number of terminal cells a string occupies. East Asian wide and fullwidth runes count as 2.
func displayWidth(s string) int {
	w := 0
	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			w += 2
		default:
			w++
		}
	}
	return w
}

func padLeft(s string, w int) string {
	if pad := w - displayWidth(s); pad > 0 {
		return strings.Repeat(" ", pad) + s
	}
	return s
}

func padRight(s string, w int, fill string) string {
	if pad := w - displayWidth(s); pad > 0 {
		return s + strings.Repeat(fill, pad)
	}
	return s
}
