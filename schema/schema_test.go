package schema

import (
	"testing"

	"github.com/go-sif/showframe"
	"github.com/stretchr/testify/require"
)

func TestSchemaEqualityBasic(t *testing.T) {
	schema1 := CreateSchema()
	_, err := schema1.CreateColumn("col1", &showframe.Int64ColumnType{})
	require.Nil(t, err)
	_, err = schema1.CreateColumn("col2", &showframe.VarStringColumnType{})
	require.Nil(t, err)
	_, err = schema1.CreateColumn("col3", &showframe.StringColumnType{Length: 12})
	require.Nil(t, err)

	schema2 := CreateSchema()
	_, err = schema2.CreateColumn("col1", &showframe.Int64ColumnType{})
	require.Nil(t, err)
	_, err = schema2.CreateColumn("col2", &showframe.VarStringColumnType{})
	require.Nil(t, err)
	_, err = schema2.CreateColumn("col3", &showframe.StringColumnType{Length: 12})
	require.Nil(t, err)

	require.Nil(t, schema1.Equals(schema2))
}

func TestSchemaEqualityDifferentLength(t *testing.T) {
	schema1 := CreateSchema()
	_, err := schema1.CreateColumn("col1", &showframe.Int64ColumnType{})
	require.Nil(t, err)
	_, err = schema1.CreateColumn("col2", &showframe.StringColumnType{Length: 12})
	require.Nil(t, err)

	schema2 := CreateSchema()
	_, err = schema2.CreateColumn("col1", &showframe.Int64ColumnType{})
	require.Nil(t, err)
	_, err = schema2.CreateColumn("col2", &showframe.StringColumnType{Length: 13})
	require.Nil(t, err)

	// both rows pad to 32 bytes, so only the type check can tell them apart
	require.NotNil(t, schema1.Equals(schema2))
}

func TestSchemaEqualityOrder(t *testing.T) {
	schema1 := CreateSchema()
	_, err := schema1.CreateColumn("col1", &showframe.Int64ColumnType{})
	require.Nil(t, err)
	_, err = schema1.CreateColumn("col2", &showframe.Int32ColumnType{})
	require.Nil(t, err)
	_, err = schema1.CreateColumn("col3", &showframe.VarStringColumnType{})
	require.Nil(t, err)

	schema2 := CreateSchema()
	_, err = schema2.CreateColumn("col1", &showframe.Int64ColumnType{})
	require.Nil(t, err)
	_, err = schema2.CreateColumn("col3", &showframe.VarStringColumnType{})
	require.Nil(t, err)
	_, err = schema2.CreateColumn("col2", &showframe.Int32ColumnType{})
	require.Nil(t, err)

	require.NotNil(t, schema1.Equals(schema2))
}

func TestColumnNamesInIndexOrder(t *testing.T) {
	s := CreateSchema()
	_, err := s.CreateColumn("id", &showframe.Int64ColumnType{})
	require.Nil(t, err)
	_, err = s.CreateColumn("name", &showframe.VarStringColumnType{})
	require.Nil(t, err)
	_, err = s.CreateColumn("score", &showframe.Float64ColumnType{})
	require.Nil(t, err)
	require.Equal(t, []string{"id", "name", "score"}, s.ColumnNames())
	require.Equal(t, 16, s.RowWidth())
	require.Equal(t, 32, s.Size())

	visited := []string{}
	err = s.ForEachColumn(func(name string, col showframe.Column) error {
		visited = append(visited, name)
		return nil
	})
	require.Nil(t, err)
	require.Equal(t, []string{"id", "name", "score"}, visited)
}

func TestCreateDuplicateColumn(t *testing.T) {
	s := CreateSchema()
	_, err := s.CreateColumn("id", &showframe.Int64ColumnType{})
	require.Nil(t, err)
	_, err = s.CreateColumn("id", &showframe.Int32ColumnType{})
	require.NotNil(t, err)
}

func TestRemoveAndRepack(t *testing.T) {
	s := CreateSchema()
	_, err := s.CreateColumn("a", &showframe.Int64ColumnType{})
	require.Nil(t, err)
	_, err = s.CreateColumn("b", &showframe.Int32ColumnType{})
	require.Nil(t, err)
	_, err = s.CreateColumn("c", &showframe.Int8ColumnType{})
	require.Nil(t, err)

	_, err = s.RemoveColumn("a")
	require.Nil(t, err)
	require.True(t, s.IsMarkedForRemoval("a"))
	require.Equal(t, 1, s.NumRemovedColumns())
	_, err = s.RemoveColumn("missing")
	require.NotNil(t, err)

	repacked := s.Repack()
	require.Equal(t, []string{"b", "c"}, repacked.ColumnNames())
	require.Equal(t, 0, repacked.NumRemovedColumns())
	offset, err := repacked.GetOffset("c")
	require.Nil(t, err)
	require.Equal(t, 4, offset.Start())
	require.Equal(t, 1, offset.Index())
}

func TestRenameColumn(t *testing.T) {
	s := CreateSchema()
	_, err := s.CreateColumn("a", &showframe.Int64ColumnType{})
	require.Nil(t, err)
	_, err = s.CreateColumn("b", &showframe.Int64ColumnType{})
	require.Nil(t, err)

	_, err = s.RenameColumn("a", "b")
	require.NotNil(t, err)
	_, err = s.RenameColumn("a", "z")
	require.Nil(t, err)
	require.Equal(t, []string{"z", "b"}, s.ColumnNames())

	_, err = s.RemoveColumn("b")
	require.Nil(t, err)
	_, err = s.RenameColumn("b", "c")
	require.NotNil(t, err)
}

func TestCloneIsIndependent(t *testing.T) {
	s := CreateSchema()
	_, err := s.CreateColumn("a", &showframe.Int64ColumnType{})
	require.Nil(t, err)
	clone := s.Clone()
	_, err = clone.CreateColumn("b", &showframe.Int64ColumnType{})
	require.Nil(t, err)
	require.Equal(t, 1, s.NumColumns())
	require.Equal(t, 2, clone.NumColumns())
}
