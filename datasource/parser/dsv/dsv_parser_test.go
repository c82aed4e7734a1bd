package dsv

import (
	"bytes"
	"testing"
	"time"

	"github.com/go-sif/showframe"
	"github.com/go-sif/showframe/datasource/memory"
	"github.com/go-sif/showframe/errors"
	"github.com/go-sif/showframe/schema"
	"github.com/stretchr/testify/require"
)

func loadAll(t *testing.T, parser *Parser, s showframe.Schema, data ...[]byte) ([]showframe.OperablePartition, error) {
	df := memory.CreateDataFrame(data, parser, s)
	pm, err := df.GetDataSource().Analyze()
	require.Nil(t, err)
	parts := []showframe.OperablePartition{}
	for pm.HasNext() {
		it, err := pm.Next().Load(parser, s)
		require.Nil(t, err)
		for it.HasNextPartition() {
			part, err := it.NextPartition()
			if _, ok := err.(errors.NoMorePartitionsError); ok {
				break
			} else if err != nil {
				return nil, err
			}
			parts = append(parts, part)
		}
	}
	return parts, nil
}

func TestDSVDatasourceParser(t *testing.T) {
	s := schema.CreateSchema()
	s.CreateColumn("code", &showframe.StringColumnType{Length: 3})
	s.CreateColumn("passengers", &showframe.Int8ColumnType{})
	s.CreateColumn("duration", &showframe.Int64ColumnType{})
	s.CreateColumn("distance", &showframe.Float32ColumnType{})
	s.CreateColumn("pickup", &showframe.TimeColumnType{Format: "2006-01-02 15:04:05"})
	s.CreateColumn("shared", &showframe.BoolColumnType{})
	s.CreateColumn("type", &showframe.VarStringColumnType{})

	parser, err := CreateParser(&ParserConf{
		PartitionSize: 2,
		HeaderLines:   1,
		NilValue:      "null",
		Comment:       '#',
	})
	require.Nil(t, err)
	var buff bytes.Buffer
	buff.WriteString("code,passengers,duration,distance,pickup,shared,type\n")
	buff.WriteString("CMT,1,382,1.5,2013-01-01 15:11:48,false,CASH\n")
	buff.WriteString("# skipped\n")
	buff.WriteString("VTS,null,,0.25,2013-01-06 00:18:35,true,CRD\n")
	buff.WriteString("DDS,5,1234,10,2013-01-07 21:10:00,1,null\n")
	parts, err := loadAll(t, parser, s, buff.Bytes())
	require.Nil(t, err)
	require.Len(t, parts, 2)
	require.Equal(t, 2, parts[0].GetNumRows())
	require.Equal(t, 1, parts[1].GetNumRows())

	row := parts[0].GetRow(1)
	require.True(t, row.IsNil("passengers"))
	require.True(t, row.IsNil("duration"))
	distance, err := row.GetFloat32("distance")
	require.Nil(t, err)
	require.Equal(t, float32(0.25), distance)
	pickup, err := row.GetTime("pickup")
	require.Nil(t, err)
	require.Equal(t, time.Date(2013, 1, 6, 0, 18, 35, 0, time.UTC), pickup)
	shared, err := row.GetBool("shared")
	require.Nil(t, err)
	require.True(t, shared)

	row = parts[1].GetRow(0)
	code, err := row.GetString("code")
	require.Nil(t, err)
	require.Equal(t, "DDS", code)
	require.True(t, row.IsNil("type"))
}

func TestDSVParseErrors(t *testing.T) {
	s := schema.CreateSchema()
	s.CreateColumn("n", &showframe.Int8ColumnType{})
	s.CreateColumn("name", &showframe.VarStringColumnType{})
	parser, err := CreateParser(nil)
	require.Nil(t, err)

	// out of range
	_, err = loadAll(t, parser, s, []byte("1,a\n300,b\n"))
	require.ErrorContains(t, err, "Line 2")
	// wrong number of fields
	_, err = loadAll(t, parser, s, []byte("1,a,extra\n"))
	require.NotNil(t, err)

	_, err = CreateParser(&ParserConf{Comment: ','})
	require.NotNil(t, err)
}

func TestDSVParserKeepsCallerConf(t *testing.T) {
	conf := &ParserConf{}
	parser, err := CreateParser(conf)
	require.Nil(t, err)
	require.Equal(t, 128, parser.PartitionSize())
	require.Equal(t, 0, conf.PartitionSize)
	require.Equal(t, rune(0), conf.Delimiter)
}
