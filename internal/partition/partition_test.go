package partition

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/go-sif/showframe"
	errors "github.com/go-sif/showframe/errors"
	"github.com/go-sif/showframe/schema"
	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/require"
)

func createPartitionTestSchema() showframe.Schema {
	schema := schema.CreateSchema()
	schema.CreateColumn("col1", &showframe.Int8ColumnType{})
	return schema
}

func appendInt8Rows(t *testing.T, part *partitionImpl, n int) {
	tempRow := CreateTempRow()
	for i := 0; i < n; i++ {
		row, err := part.AppendEmptyRowData(tempRow)
		require.Nil(t, err)
		require.Nil(t, row.SetInt8("col1", int8(i)))
	}
}

func TestCreatePartitionImpl(t *testing.T) {
	schema := createPartitionTestSchema()
	part := createPartitionImpl(4, 4, schema, schema)
	require.Equal(t, part.GetMaxRows(), 4)
	require.Equal(t, part.GetNumRows(), 0)
	require.Nil(t, part.CanInsertRowData(make([]byte, 1), make([]byte, 1)))
	require.NotNil(t, part.CanInsertRowData(make([]byte, 18), make([]byte, 1))) // rows are padded to at least 16bytes
	require.NotEmpty(t, part.ID())
}

func TestAppendRowData(t *testing.T) {
	schema := createPartitionTestSchema()
	part := createPartitionImpl(4, 4, schema, schema)
	require.Equal(t, part.GetNumRows(), 0)
	err := part.AppendRowData([]byte{1}, []byte{0}, make(map[string]interface{}), make(map[string][]byte))
	require.Nil(t, err)
	require.Equal(t, part.GetNumRows(), 1)
	val, err := part.GetRow(0).GetInt8("col1")
	require.Nil(t, err)
	require.Equal(t, val, int8(1))
	err = part.AppendRowData([]byte{2}, []byte{0}, make(map[string]interface{}), make(map[string][]byte))
	require.Nil(t, err)
	require.Equal(t, part.GetNumRows(), 2)
	val, err = part.GetRow(1).GetInt8("col1")
	require.Nil(t, err)
	require.Equal(t, val, int8(2))
}

func TestEmptyRowIsNil(t *testing.T) {
	schema := createPartitionTestSchema()
	schema.CreateColumn("col2", &showframe.VarStringColumnType{})
	part := createPartitionImpl(4, 4, schema, schema)
	row, err := part.AppendEmptyRowData(CreateTempRow())
	require.Nil(t, err)
	require.True(t, row.IsNil("col1"))
	require.True(t, row.IsNil("col2"))
	_, err = row.GetInt8("col1")
	require.IsType(t, errors.NilValueError{}, err)
	_, err = row.GetVarString("col2")
	require.IsType(t, errors.NilValueError{}, err)
}

func TestPartitionFullError(t *testing.T) {
	schema := createPartitionTestSchema()
	part := createPartitionImpl(1, 1, schema, schema)
	err := part.AppendRowData([]byte{1}, []byte{0}, make(map[string]interface{}), make(map[string][]byte))
	require.Nil(t, err)
	require.Equal(t, part.GetNumRows(), 1)
	// attempt to append row again
	err = part.AppendRowData([]byte{1}, []byte{0}, make(map[string]interface{}), make(map[string][]byte))
	require.NotNil(t, err)
	_, ok := err.(errors.PartitionFullError)
	require.True(t, ok)
	_, err = part.AppendEmptyRowData(CreateTempRow())
	require.IsType(t, errors.PartitionFullError{}, err)
}

func TestIncompatibleRowError(t *testing.T) {
	schema := createPartitionTestSchema()
	part := createPartitionImpl(1, 1, schema, schema)
	// because of padding, we have to actually append more than 16 bytes
	r := make([]byte, 17)
	err := part.AppendRowData(r, []byte{0}, make(map[string]interface{}), make(map[string][]byte))
	require.NotNil(t, err)
	_, ok := err.(errors.IncompatibleRowError)
	require.True(t, ok)
}

func TestTruncateRowData(t *testing.T) {
	schema := createPartitionTestSchema()
	part := createPartitionImpl(8, 8, schema, schema)
	appendInt8Rows(t, part, 4)
	part.TruncateRowData(2)
	require.Equal(t, 2, part.GetNumRows())
	row, err := part.AppendEmptyRowData(CreateTempRow())
	require.Nil(t, err)
	require.True(t, row.IsNil("col1"))
	val, err := part.GetRow(1).GetInt8("col1")
	require.Nil(t, err)
	require.Equal(t, int8(1), val)
}

func TestMapRows(t *testing.T) {
	schema := createPartitionTestSchema()
	part := createPartitionImpl(4, 4, schema, schema)
	appendInt8Rows(t, part, 4)
	sum := 0
	_, err := part.MapRows(func(row showframe.Row) error {
		val, err := row.GetInt8("col1")
		sum += int(val)
		return err
	})
	require.Nil(t, err)
	require.Equal(t, sum, 6)
}

func TestMapRowsWithErrors(t *testing.T) {
	schema := createPartitionTestSchema()
	part := createPartitionImpl(8, 8, schema, schema)
	appendInt8Rows(t, part, 8)
	result, err := part.MapRows(func(row showframe.Row) error {
		val, err := row.GetInt8("col1")
		if err != nil {
			return err
		}
		if val%3 == 1 {
			return fmt.Errorf("bad row %d", val)
		}
		return row.SetInt8("col1", val*2)
	})
	require.NotNil(t, err)
	merr, ok := err.(*multierror.Error)
	require.True(t, ok)
	require.Len(t, merr.Errors, 3) // 1, 4, 7
	require.Equal(t, 5, result.GetNumRows())
	expected := []int8{0, 4, 6, 10, 12}
	for i, e := range expected {
		val, err := result.GetRow(i).GetInt8("col1")
		require.Nil(t, err)
		require.Equal(t, e, val)
	}
}

func TestFilterRows(t *testing.T) {
	schema := createPartitionTestSchema()
	part := createPartitionImpl(8, 8, schema, schema)
	appendInt8Rows(t, part, 8)
	result, err := part.FilterRows(func(row showframe.Row) (bool, error) {
		val, err := row.GetInt8("col1")
		return val%2 == 0, err
	})
	require.Nil(t, err)
	require.Equal(t, 4, result.GetNumRows())
	val, err := result.GetRow(3).GetInt8("col1")
	require.Nil(t, err)
	require.Equal(t, int8(6), val)
}

func TestSerialization(t *testing.T) {
	schema := createPartitionTestSchema()
	schema.CreateColumn("col2", &showframe.VarStringColumnType{})
	var part showframe.OperablePartition
	part = createPartitionImpl(8, 2, schema, schema)
	tempRow := CreateTempRow()
	for i := 0; i < 8; i++ {
		// serialize and deserialize
		buff, err := ToBytes(part)
		require.Nil(t, err)
		part, err = FromBytes(buff, schema, schema)
		require.Nil(t, err)
		// add values
		row, err := part.AppendEmptyRowData(tempRow)
		require.Nil(t, err)
		err = row.SetInt8("col1", int8(i))
		require.Nil(t, err)
		if i%4 == 3 {
			continue // leave col2 nil
		}
		err = row.SetVarString("col2", "Hello World")
		require.Nil(t, err)
	}
	id := part.ID()
	buff, err := ToBytes(part)
	require.Nil(t, err)
	part, err = FromBytes(buff, schema, schema)
	require.Nil(t, err)
	require.Equal(t, id, part.ID())
	require.Equal(t, 8, part.GetNumRows())
	for i := 0; i < 8; i++ {
		val1, err := part.GetRow(i).GetInt8("col1")
		require.Nil(t, err)
		require.Equal(t, val1, int8(i))
		if i%4 == 3 {
			require.True(t, part.GetRow(i).IsNil("col2"))
			continue
		}
		val2, err := part.GetRow(i).GetVarString("col2")
		require.Nil(t, err)
		require.Equal(t, val2, "Hello World")
	}
}

func TestSerializationEmptyString(t *testing.T) {
	schema := createPartitionTestSchema()
	schema.CreateColumn("col2", &showframe.VarStringColumnType{})
	part := createPartitionImpl(2, 2, schema, schema)
	row, err := part.AppendEmptyRowData(CreateTempRow())
	require.Nil(t, err)
	require.Nil(t, row.SetVarString("col2", ""))
	buff, err := ToBytes(part)
	require.Nil(t, err)
	deser, err := FromBytes(buff, schema, schema)
	require.Nil(t, err)
	require.False(t, deser.GetRow(0).IsNil("col2"))
	val, err := deser.GetRow(0).GetVarString("col2")
	require.Nil(t, err)
	require.Equal(t, "", val)
	require.True(t, deser.GetRow(0).IsNil("col1"))
}

func TestFromBytesIncompatibleSchema(t *testing.T) {
	schema := createPartitionTestSchema()
	part := createPartitionImpl(2, 2, schema, schema)
	appendInt8Rows(t, part, 2)
	buff, err := ToBytes(part)
	require.Nil(t, err)
	other := schema.Clone()
	other.CreateColumn("col2", &showframe.Int64ColumnType{})
	_, err = FromBytes(buff, other, other)
	require.IsType(t, errors.IncompatibleRowError{}, err)
}

func TestCompressors(t *testing.T) {
	schema := createPartitionTestSchema()
	schema.CreateColumn("col2", &showframe.VarStringColumnType{})
	part := createPartitionImpl(16, 2, schema, schema)
	tempRow := CreateTempRow()
	for i := 0; i < 16; i++ {
		row, err := part.AppendEmptyRowData(tempRow)
		require.Nil(t, err)
		require.Nil(t, row.SetInt8("col1", int8(i)))
		require.Nil(t, row.SetVarString("col2", fmt.Sprintf("row %d", i)))
	}
	for _, name := range []string{"lz4", "zstd"} {
		compressor, err := NewPartitionCompressor(name)
		require.Nil(t, err)
		buff := new(bytes.Buffer)
		require.Nil(t, compressor.Compress(buff, part))
		deser, err := compressor.Decompress(buff, schema, schema)
		require.Nil(t, err)
		require.Equal(t, 16, deser.GetNumRows())
		for i := 0; i < 16; i++ {
			val, err := deser.GetRow(i).GetVarString("col2")
			require.Nil(t, err)
			require.Equal(t, fmt.Sprintf("row %d", i), val)
		}
		require.Nil(t, compressor.Close())
	}
	_, err := NewPartitionCompressor("gzip")
	require.NotNil(t, err)
}

func TestRepackShrink(t *testing.T) {
	schema := createPartitionTestSchema()
	schema.CreateColumn("col2", &showframe.Float64ColumnType{})
	schema.CreateColumn("col3", &showframe.VarStringColumnType{})
	part := createPartitionImpl(8, 8, schema, schema)
	tempRow := CreateTempRow()
	for i := 0; i < 8; i++ {
		row, err := part.AppendEmptyRowData(tempRow)
		require.Nil(t, err)
		row.SetInt8("col1", int8(i))
		row.SetFloat64("col2", float64(i+1))
		row.SetVarString("col3", "Hello World")
	}
	newSchema := schema.Clone()
	newSchema.RemoveColumn("col1")
	newSchema = newSchema.Repack()
	newPart, err := part.Repack(newSchema)
	require.Nil(t, err)
	require.Equal(t, part.GetNumRows(), newPart.GetNumRows())
	require.Equal(t, part.GetMaxRows(), newPart.GetMaxRows())
	require.False(t, newPart.GetSchema().HasColumn("col1"))
	for i := 0; i < 8; i++ {
		origRow := part.GetRow(i)
		newRow := newPart.GetRow(i)
		val2, err := origRow.GetFloat64("col2")
		require.Nil(t, err)
		newVal2, err := newRow.GetFloat64("col2")
		require.Nil(t, err)
		require.Equal(t, val2, newVal2)
		val3, err := origRow.GetVarString("col3")
		require.Nil(t, err)
		newVal3, err := newRow.GetVarString("col3")
		require.Nil(t, err)
		require.Equal(t, val3, newVal3)
	}
}

func TestRepackGrow(t *testing.T) {
	schema := createPartitionTestSchema()
	schema.CreateColumn("col2", &showframe.Float64ColumnType{})
	part := createPartitionImpl(8, 8, schema, schema)
	tempRow := CreateTempRow()
	for i := 0; i < 8; i++ {
		row, err := part.AppendEmptyRowData(tempRow)
		require.Nil(t, err)
		row.SetInt8("col1", int8(i))
		row.SetFloat64("col2", float64(i+1))
	}
	newSchema := schema.Clone()
	newSchema.CreateColumn("col4", &showframe.Int32ColumnType{})
	newSchema.CreateColumn("col5", &showframe.VarStringColumnType{})
	newPart, err := part.Repack(newSchema)
	require.Nil(t, err)
	require.Equal(t, part.GetNumRows(), newPart.GetNumRows())
	for i := 0; i < 8; i++ {
		newRow := newPart.GetRow(i)
		newVal2, err := newRow.GetFloat64("col2")
		require.Nil(t, err)
		require.Equal(t, float64(i+1), newVal2)
		require.True(t, newRow.IsNil("col4"))
		require.True(t, newRow.IsNil("col5"))
		require.Nil(t, newRow.SetInt32("col4", int32(i)))
		v, err := newRow.GetInt32("col4")
		require.Nil(t, err)
		require.Equal(t, int32(i), v)
	}
}

func TestGrow(t *testing.T) {
	schema := createPartitionTestSchema()
	schema.CreateColumn("col2", &showframe.Float64ColumnType{})
	schema.CreateColumn("col3", &showframe.VarStringColumnType{})
	part := createPartitionImpl(8, defaultCapacity, schema, schema)
	require.Equal(t, defaultCapacity, part.capacity)
	require.Equal(t, part.capacity, len(part.varRowData))
	require.Equal(t, part.capacity, len(part.rowMeta)/schema.NumColumns())
	require.Equal(t, part.capacity, len(part.rows)/schema.Size())
	tempRow := CreateTempRow()
	for i := 0; i < defaultCapacity+1; i++ {
		row, err := part.AppendEmptyRowData(tempRow)
		require.Nil(t, err)
		row.SetInt8("col1", int8(i))
		row.SetFloat64("col2", float64(i+1))
		row.SetVarString("col3", "Hello World")
	}
	require.Equal(t, defaultCapacity+1, part.numRows)
	require.Equal(t, defaultCapacity*2, part.capacity)
	require.Equal(t, part.capacity, len(part.varRowData))
	require.Equal(t, part.capacity, len(part.serializedVarRowData))
	require.Equal(t, part.capacity, len(part.rowMeta)/schema.NumColumns())
	require.Equal(t, part.capacity, len(part.rows)/schema.Size())
	for i := 0; i < defaultCapacity+1; i++ {
		row := part.GetRow(i)
		col1, err := row.GetInt8("col1")
		require.Nil(t, err)
		require.Equal(t, int8(i), col1)
		col2, err := row.GetFloat64("col2")
		require.Nil(t, err)
		require.Equal(t, float64(i+1), col2)
		col3, err := row.GetVarString("col3")
		require.Nil(t, err)
		require.Equal(t, "Hello World", col3)
	}
}

func TestWidestSchemaLeavesRoomForNewColumns(t *testing.T) {
	current := createPartitionTestSchema()
	widest := current.Clone()
	widest.CreateColumn("added", &showframe.Int64ColumnType{})
	part := createPartitionImpl(4, 4, widest, current)
	appendInt8Rows(t, part, 2)
	part.UpdateCurrentSchema(widest)
	row := part.GetRow(1)
	require.True(t, row.IsNil("added"))
	require.Nil(t, row.SetInt64("added", 42))
	val, err := part.GetRow(1).GetInt64("added")
	require.Nil(t, err)
	require.Equal(t, int64(42), val)
	col1, err := part.GetRow(1).GetInt8("col1")
	require.Nil(t, err)
	require.Equal(t, int8(1), col1)
}

func TestRepackWithLayout(t *testing.T) {
	schema := createPartitionTestSchema()
	schema.CreateColumn("col2", &showframe.VarStringColumnType{})
	part := createPartitionImpl(4, 4, schema, schema)
	tempRow := CreateTempRow()
	for i := 0; i < 3; i++ {
		row, err := part.AppendEmptyRowData(tempRow)
		require.Nil(t, err)
		require.Nil(t, row.SetInt8("col1", int8(i)))
		require.Nil(t, row.SetVarString("col2", "x"))
	}
	widest := schema.Clone()
	widest.CreateColumn("col3", &showframe.Float64ColumnType{})
	widest.CreateColumn("col4", &showframe.Int64ColumnType{})
	widened, err := RepackWithLayout(part, widest, schema)
	require.Nil(t, err)
	require.Equal(t, 3, widened.GetNumRows())
	require.Equal(t, schema, widened.GetSchema())
	// the next stage adds a column, which must fit into the existing layout
	widened.UpdateCurrentSchema(widest)
	for i := 0; i < 3; i++ {
		row := widened.GetRow(i)
		require.True(t, row.IsNil("col4"))
		require.Nil(t, row.SetInt64("col4", int64(i*10)))
		v, err := row.GetInt8("col1")
		require.Nil(t, err)
		require.Equal(t, int8(i), v)
		s, err := row.GetVarString("col2")
		require.Nil(t, err)
		require.Equal(t, "x", s)
	}
}
