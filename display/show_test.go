package display

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/go-sif/showframe"
	"github.com/go-sif/showframe/datasource/literal"
	"github.com/go-sif/showframe/internal/dataframe"
	"github.com/go-sif/showframe/operations/transform"
	"github.com/go-sif/showframe/operations/util"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, data [][]interface{}, columns []string, ops ...*showframe.DataFrameOperation) (*showframe.Result, showframe.Schema) {
	df, err := literal.CreateDataFrame(data, columns, nil)
	require.Nil(t, err)
	frame, err := df.To(append(ops, util.Collect(0))...)
	require.Nil(t, err)
	res, err := dataframe.ExecuteDataFrame(context.Background(), frame, nil)
	require.Nil(t, err)
	return res, frame.GetSchema()
}

func show(t *testing.T, data [][]interface{}, columns []string, opts ...Option) string {
	res, schema := collect(t, data, columns)
	var buff bytes.Buffer
	require.Nil(t, Show(&buff, schema, res, opts...))
	return buff.String()
}

func TestShowTable(t *testing.T) {
	out := show(t, [][]interface{}{{1, "Alice"}, {2, "Bob"}}, []string{"id", "name"})
	require.Equal(t, strings.Join([]string{
		"+---+-----+",
		"| id| name|",
		"+---+-----+",
		"|  1|Alice|",
		"|  2|  Bob|",
		"+---+-----+",
		"",
	}, "\n"), out)
}

func TestShowNulls(t *testing.T) {
	out := show(t, [][]interface{}{{1, nil}, {nil, "x"}}, []string{"a", "b"})
	require.Equal(t, strings.Join([]string{
		"+----+----+",
		"|   a|   b|",
		"+----+----+",
		"|   1|null|",
		"|null|   x|",
		"+----+----+",
		"",
	}, "\n"), out)
}

func TestShowTruncate(t *testing.T) {
	long := "abcdefghijklmnopqrstuvwxy"
	out := show(t, [][]interface{}{{long}}, []string{"s"})
	require.Equal(t, strings.Join([]string{
		"+" + strings.Repeat("-", 20) + "+",
		"|" + strings.Repeat(" ", 19) + "s|",
		"+" + strings.Repeat("-", 20) + "+",
		"|abcdefghijklmnopq...|",
		"+" + strings.Repeat("-", 20) + "+",
		"",
	}, "\n"), out)

	out = show(t, [][]interface{}{{long}}, []string{"s"}, WithoutTruncation())
	require.Equal(t, strings.Join([]string{
		"+" + strings.Repeat("-", 25) + "+",
		"|s" + strings.Repeat(" ", 24) + "|",
		"+" + strings.Repeat("-", 25) + "+",
		"|" + long + "|",
		"+" + strings.Repeat("-", 25) + "+",
		"",
	}, "\n"), out)

	// very short truncation drops the ellipsis
	out = show(t, [][]interface{}{{"abcdef"}}, []string{"s"}, WithTruncate(2))
	require.Contains(t, out, "| ab|")
}

func TestShowFooter(t *testing.T) {
	out := show(t, [][]interface{}{{1}, {2}, {3}}, []string{"n"}, WithNumRows(2))
	require.Equal(t, strings.Join([]string{
		"+---+",
		"|  n|",
		"+---+",
		"|  1|",
		"|  2|",
		"+---+",
		"only showing top 2 rows",
		"",
	}, "\n"), out)

	out = show(t, [][]interface{}{{1}, {2}}, []string{"n"}, WithNumRows(1))
	require.True(t, strings.HasSuffix(out, "only showing top 1 row\n"))

	out = show(t, [][]interface{}{{1}, {2}}, []string{"n"}, WithNumRows(2))
	require.NotContains(t, out, "only showing")
}

func TestShowVertical(t *testing.T) {
	out := show(t, [][]interface{}{{1, "Alice"}, {2, "Bob"}}, []string{"id", "name"}, WithVertical())
	require.Equal(t, strings.Join([]string{
		"-RECORD 0-----",
		" id   | 1     ",
		" name | Alice ",
		"-RECORD 1-----",
		" id   | 2     ",
		" name | Bob   ",
		"",
	}, "\n"), out)
}

func TestShowVerticalEmpty(t *testing.T) {
	res, schema := collect(t, [][]interface{}{{1}}, []string{"n"}, transform.Filter(func(row showframe.Row) (bool, error) {
		return false, nil
	}))
	var buff bytes.Buffer
	require.Nil(t, Show(&buff, schema, res, WithVertical()))
	require.Equal(t, "(0 rows)\n", buff.String())
}

func TestShowWideRunes(t *testing.T) {
	out := show(t, [][]interface{}{{"日本"}}, []string{"c"})
	require.Equal(t, strings.Join([]string{
		"+----+",
		"|   c|",
		"+----+",
		"|日本|",
		"+----+",
		"",
	}, "\n"), out)
}

func TestShowEscapesMetaCharacters(t *testing.T) {
	out := show(t, [][]interface{}{{"a\nb"}}, []string{"s"})
	require.Contains(t, out, "|a\\nb|")
}

func TestPrintSchema(t *testing.T) {
	df, err := literal.CreateDataFrame([][]interface{}{{1, "Alice", 1.5}}, []string{"id", "name"}, nil)
	require.Nil(t, err)
	var buff bytes.Buffer
	require.Nil(t, PrintSchema(&buff, df.GetSchema()))
	require.Equal(t, "root\n |-- id: long (nullable = true)\n |-- name: string (nullable = true)\n |-- _3: double (nullable = true)\n\n", buff.String())
	require.Equal(t, "[id: long, name: string, _3: double]", DescribeSchema(df.GetSchema()))
}
