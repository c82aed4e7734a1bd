package jsonl

import (
	"testing"
	"time"

	"github.com/go-sif/showframe"
	"github.com/go-sif/showframe/datasource/memory"
	"github.com/go-sif/showframe/schema"
	"github.com/stretchr/testify/require"
)

func loadAll(t *testing.T, df showframe.DataFrame, parser showframe.DataSourceParser) []showframe.OperablePartition {
	pm, err := df.GetDataSource().Analyze()
	require.Nil(t, err, "Analyze err should be null")
	parts := []showframe.OperablePartition{}
	for pm.HasNext() {
		pl := pm.Next()
		ps, err := pl.Load(parser, df.GetSchema())
		require.Nil(t, err)
		for ps.HasNextPartition() {
			part, err := ps.NextPartition()
			require.Nil(t, err)
			parts = append(parts, part)
		}
	}
	require.False(t, pm.HasNext())
	return parts
}

func TestJSONLDatasourceParser(t *testing.T) {
	schema := schema.CreateSchema()
	schema.CreateColumn("name", &showframe.VarStringColumnType{})
	schema.CreateColumn("meta.index", &showframe.Int8ColumnType{})
	schema.CreateColumn("meta.first", &showframe.VarStringColumnType{})
	schema.CreateColumn("meta.last", &showframe.VarStringColumnType{})

	parser := CreateParser(&ParserConf{
		PartitionSize: 128,
	})
	data := [][]byte{
		[]byte("{\"name\": \"Sean\", \"meta\": { \"index\": 1, \"first\": \"Sean\", \"last\": \"McIntyre\"}}\n{\"name\": \"Chris\", \"meta\": { \"index\": 3, \"first\": \"Chris\", \"last\": \"Dickson\"}}"),
		[]byte("{\"name\": \"Phil\", \"meta\": { \"index\": 2, \"first\": \"Phil\"}}\n{\"name\": \"Fahd\", \"meta\": { \"index\": 4, \"first\": \"Fahd\", \"last\": null}}"),
	}
	df := memory.CreateDataFrame(data, parser, schema)
	parts := loadAll(t, df, parser)
	totalRows := 0
	for _, part := range parts {
		totalRows += part.GetNumRows()
	}
	require.Equal(t, 4, totalRows)

	first := parts[0].GetRow(0)
	name, err := first.GetVarString("name")
	require.Nil(t, err)
	require.Equal(t, "Sean", name)
	idx, err := first.GetInt8("meta.index")
	require.Nil(t, err)
	require.EqualValues(t, 1, idx)

	// missing and null values are nil
	require.True(t, parts[1].GetRow(0).IsNil("meta.last"))
	require.True(t, parts[1].GetRow(1).IsNil("meta.last"))
	require.False(t, parts[1].GetRow(1).IsNil("meta.first"))
}

func TestJSONLPartitionSize(t *testing.T) {
	schema := schema.CreateSchema()
	schema.CreateColumn("id", &showframe.Int64ColumnType{})
	parser := CreateParser(&ParserConf{PartitionSize: 2})
	data := [][]byte{[]byte("{\"id\": 1}\n{\"id\": 2}\n\n{\"id\": 3}\n")}
	parts := loadAll(t, memory.CreateDataFrame(data, parser, schema), parser)
	require.Len(t, parts, 2)
	require.Equal(t, 2, parts[0].GetNumRows())
	require.Equal(t, 1, parts[1].GetNumRows())
	v, err := parts[1].GetRow(0).GetInt64("id")
	require.Nil(t, err)
	require.EqualValues(t, 3, v)
}

func TestJSONLTypes(t *testing.T) {
	schema := schema.CreateSchema()
	schema.CreateColumn("ok", &showframe.BoolColumnType{})
	schema.CreateColumn("score", &showframe.Float64ColumnType{})
	schema.CreateColumn("when", &showframe.TimeColumnType{})
	schema.CreateColumn("blob", &showframe.VarBytesColumnType{})
	parser := CreateParser(nil)
	data := [][]byte{[]byte(`{"ok": true, "score": 1.5, "when": "2020-01-02T03:04:05Z", "blob": "AQI="}`)}
	parts := loadAll(t, memory.CreateDataFrame(data, parser, schema), parser)
	row := parts[0].GetRow(0)
	ok, err := row.GetBool("ok")
	require.Nil(t, err)
	require.True(t, ok)
	score, err := row.GetFloat64("score")
	require.Nil(t, err)
	require.Equal(t, 1.5, score)
	when, err := row.GetTime("when")
	require.Nil(t, err)
	require.True(t, when.Equal(time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)))
	blob, err := row.GetVarBytes("blob")
	require.Nil(t, err)
	require.Equal(t, []byte{1, 2}, blob)
}

func TestJSONLTypeMismatch(t *testing.T) {
	schema := schema.CreateSchema()
	schema.CreateColumn("id", &showframe.Int64ColumnType{})
	parser := CreateParser(nil)
	df := memory.CreateDataFrame([][]byte{[]byte(`{"id": "one"}`)}, parser, schema)
	pm, err := df.GetDataSource().Analyze()
	require.Nil(t, err)
	ps, err := pm.Next().Load(parser, schema)
	require.Nil(t, err)
	_, err = ps.NextPartition()
	require.NotNil(t, err)
}

func TestJSONLParserKeepsCallerConf(t *testing.T) {
	conf := &ParserConf{}
	parser := CreateParser(conf)
	require.Equal(t, 128, parser.PartitionSize())
	require.Equal(t, 0, conf.PartitionSize)
	require.Equal(t, 0, conf.MaxBufferSize)
}
