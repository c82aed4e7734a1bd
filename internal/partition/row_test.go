package partition

import (
	"math"
	"testing"
	"time"

	"github.com/go-sif/showframe"
	errors "github.com/go-sif/showframe/errors"
	"github.com/go-sif/showframe/schema"
	"github.com/stretchr/testify/require"
)

func createTestRow(t *testing.T, cols map[string]showframe.ColumnType, order ...string) *rowImpl {
	schema := schema.CreateSchema()
	for _, name := range order {
		_, err := schema.CreateColumn(name, cols[name])
		require.Nil(t, err)
	}
	return &rowImpl{
		schema:            schema,
		data:              make([]byte, schema.Size()),
		meta:              newMeta(schema.NumColumns()),
		varData:           make(map[string]interface{}),
		serializedVarData: make(map[string][]byte),
	}
}

func TestGetSetInt64(t *testing.T) {
	row := createTestRow(t, map[string]showframe.ColumnType{"col1": &showframe.Int64ColumnType{}}, "col1")
	require.Nil(t, row.SetInt64("col1", math.MinInt64))
	data, err := row.GetInt64("col1")
	require.Nil(t, err)
	require.Equal(t, int64(math.MinInt64), data)
}

func TestGetSetInt8(t *testing.T) {
	row := createTestRow(t, map[string]showframe.ColumnType{"col1": &showframe.Int8ColumnType{}}, "col1")
	for i := math.MinInt8; i <= math.MaxInt8; i++ {
		require.Nil(t, row.SetInt8("col1", int8(i)))
		v, err := row.GetInt8("col1")
		require.Nil(t, err)
		require.Equal(t, int8(i), v)
	}
}

func TestGetSetFloats(t *testing.T) {
	row := createTestRow(t, map[string]showframe.ColumnType{
		"f32": &showframe.Float32ColumnType{},
		"f64": &showframe.Float64ColumnType{},
	}, "f32", "f64")
	require.Nil(t, row.SetFloat32("f32", 1.5))
	require.Nil(t, row.SetFloat64("f64", -2.25))
	f32, err := row.GetFloat32("f32")
	require.Nil(t, err)
	require.Equal(t, float32(1.5), f32)
	f64, err := row.GetFloat64("f64")
	require.Nil(t, err)
	require.Equal(t, -2.25, f64)
}

func TestTime(t *testing.T) {
	row := createTestRow(t, map[string]showframe.ColumnType{"col1": &showframe.TimeColumnType{}}, "col1")
	v := time.Now()
	err := row.SetTime("col1", v)
	require.Nil(t, err)
	v2, err := row.GetTime("col1")
	require.Nil(t, err)
	require.EqualValues(t, v.UnixNano(), v2.UnixNano())
	require.Equal(t, time.UTC, v2.Location())
}

func TestFixedString(t *testing.T) {
	row := createTestRow(t, map[string]showframe.ColumnType{"col1": &showframe.StringColumnType{Length: 4}}, "col1")
	require.Nil(t, row.SetString("col1", "abcd"))
	require.Nil(t, row.SetString("col1", "ab"))
	v, err := row.GetString("col1")
	require.Nil(t, err)
	require.Equal(t, "ab", v)
	require.NotNil(t, row.SetString("col1", "abcde"))
}

func TestSetNil(t *testing.T) {
	row := createTestRow(t, map[string]showframe.ColumnType{
		"col1": &showframe.Int32ColumnType{},
		"col2": &showframe.VarStringColumnType{},
	}, "col1", "col2")
	require.True(t, row.IsNil("col1"))
	require.Nil(t, row.SetInt32("col1", 5))
	require.Nil(t, row.SetVarString("col2", "x"))
	require.False(t, row.IsNil("col1"))
	require.False(t, row.IsNil("col2"))
	require.Nil(t, row.SetNil("col1"))
	require.Nil(t, row.SetNil("col2"))
	require.True(t, row.IsNil("col1"))
	require.True(t, row.IsNil("col2"))
	_, err := row.GetInt32("col1")
	require.IsType(t, errors.NilValueError{}, err)
	v, err := row.Get("col2")
	require.Nil(t, v)
	require.IsType(t, errors.NilValueError{}, err)
	require.False(t, row.IsNil("missing"))
}

func TestTypeMismatch(t *testing.T) {
	row := createTestRow(t, map[string]showframe.ColumnType{
		"col1": &showframe.Int8ColumnType{},
		"col2": &showframe.VarStringColumnType{},
	}, "col1", "col2")
	require.NotNil(t, row.SetInt64("col1", 1))
	require.NotNil(t, row.SetInt8("col2", 1))
	require.NotNil(t, row.SetVarString("col1", "x"))
}

func TestDeserialization(t *testing.T) {
	// When a partition is transferred over a network, variable-length data is deserialized on-demand on the other side.
	row := createTestRow(t, map[string]showframe.ColumnType{"hello": &showframe.VarStringColumnType{}}, "hello")
	row.meta[0] = 0
	row.serializedVarData["hello"] = []byte("world")
	val, err := row.GetVarString("hello")
	require.Nil(t, err)
	require.Equal(t, "world", val)
	_, stillSerialized := row.serializedVarData["hello"]
	require.False(t, stillSerialized)
}

func TestVarBytesRoundTrip(t *testing.T) {
	row := createTestRow(t, map[string]showframe.ColumnType{"b": &showframe.VarBytesColumnType{}}, "b")
	require.Nil(t, row.SetVarBytes("b", []byte{0x01, 0xff}))
	ser, err := row.GetColData("b")
	require.Nil(t, err)
	row.serializedVarData["b"] = ser
	delete(row.varData, "b")
	val, err := row.GetVarBytes("b")
	require.Nil(t, err)
	require.Equal(t, []byte{0x01, 0xff}, val)
}

func TestRowToString(t *testing.T) {
	row := createTestRow(t, map[string]showframe.ColumnType{
		"id":   &showframe.Int64ColumnType{},
		"name": &showframe.VarStringColumnType{},
	}, "id", "name")
	require.Nil(t, row.SetInt64("id", 1))
	require.Equal(t, `{"id": 1,"name": null,}`, row.ToString())
}
