package schema

import (
	"fmt"
	"reflect"

	"github.com/go-sif/showframe"
)

// column describes the byte offsets of the start
// and end of a field in a Row.
type column struct {
	idx     int
	start   int
	colType showframe.ColumnType
}

// Clone returns a copy of this Column
func (c *column) Clone() showframe.Column {
	return &column{c.idx, c.start, c.colType}
}

// Index returns the index of this Column within a Schema
func (c *column) Index() int {
	return c.idx
}

// SetIndex modifies the index of this Column within a Schema
func (c *column) SetIndex(newIndex int) {
	c.idx = newIndex
}

// Start returns the Start position of this Column within a Row
func (c *column) Start() int {
	return c.start
}

// Type returns the ColumnType of this Column
func (c *column) Type() showframe.ColumnType {
	return c.colType
}

// schema is a mapping from column names to byte offsets
// within a Row. It allows one to obtain offsets by name,
// define new columns, remove columns, etc.
type schema struct {
	schema   map[string]showframe.Column
	toRemove map[string]bool
	size     int
}

// CreateSchema is a factory for Schemas
func CreateSchema() showframe.Schema {
	return &schema{
		schema:   make(map[string]showframe.Column),
		toRemove: make(map[string]bool),
		size:     0,
	}
}

// Equals returns nil iff this and another Schema are equivalent, and an error describing the first difference otherwise
func (s *schema) Equals(otherSchema showframe.Schema) error {
	if s.Size() != otherSchema.Size() {
		return fmt.Errorf("Schemas have unequal sizes")
	}
	if s.NumFixedLengthColumns() != otherSchema.NumFixedLengthColumns() {
		return fmt.Errorf("Schemas have unequal numbers of fixed-length columns")
	}
	if s.NumVariableLengthColumns() != otherSchema.NumVariableLengthColumns() {
		return fmt.Errorf("Schemas have unequal numbers of variable-length columns")
	}
	return s.ForEachColumn(func(name string, offset showframe.Column) error {
		otherOffset, err := otherSchema.GetOffset(name)
		if err != nil {
			return err
		}
		if offset.Start() != otherOffset.Start() {
			return fmt.Errorf("Column %s offsets do not match", name)
		}
		if offset.Index() != otherOffset.Index() {
			return fmt.Errorf("Column %s indices do not match", name)
		}
		if reflect.TypeOf(offset.Type()) != reflect.TypeOf(otherOffset.Type()) {
			return fmt.Errorf("Column %s types do not match", name)
		}
		if offset.Type().Size() != otherOffset.Type().Size() {
			return fmt.Errorf("Column %s type fields do not match", name)
		}
		return nil
	})
}

// Clone returns a copy of this Schema
func (s *schema) Clone() showframe.Schema {
	newSchema := make(map[string]showframe.Column)
	for k, v := range s.schema {
		newSchema[k] = v.Clone()
	}
	newRemoved := make(map[string]bool)
	for k, v := range s.toRemove {
		newRemoved[k] = v
	}
	return &schema{schema: newSchema, size: s.size, toRemove: newRemoved}
}

// RowWidth returns the current byte size of a Row respecting this Schema, without padding
func (s *schema) RowWidth() int {
	return s.size
}

// Size returns the current byte size of a Row respecting this Schema, padded so rows fit neatly into 64 bit chunks
func (s *schema) Size() int {
	if s.size < 16 {
		return 16
	} else if s.size < 32 {
		return 32
	} else if s.size < 64 {
		return 64
	} else if s.size%64 != 0 {
		return ((s.size / 64) + 1) * 64
	} else {
		return s.size
	}
}

// NumColumns returns the number of columns (fixed-length and variable-length) in this Schema
func (s *schema) NumColumns() int {
	return len(s.schema)
}

// NumFixedLengthColumns returns the number of fixed-length columns in this Schema
func (s *schema) NumFixedLengthColumns() int {
	i := 0
	for _, col := range s.schema {
		if !showframe.IsVariableLength(col.Type()) {
			i++
		}
	}
	return i
}

// NumVariableLengthColumns returns the number of variable-length columns in this Schema
func (s *schema) NumVariableLengthColumns() int {
	return len(s.schema) - s.NumFixedLengthColumns()
}

// NumRemovedColumns returns the number of removed columns in this Schema
func (s *schema) NumRemovedColumns() int {
	return len(s.toRemove)
}

// Repack optimizes the memory layout of the Schema, removing any gaps in fixed-length data
// and dropping columns which have been marked for removal.
func (s *schema) Repack() (newSchema showframe.Schema) {
	newSchema = CreateSchema()
	// re-insert into fresh schema in original index order
	for _, name := range s.ColumnNames() {
		if s.toRemove[name] {
			continue
		}
		newSchema, _ = newSchema.CreateColumn(name, s.schema[name].Type())
	}
	return
}

// GetOffset returns the byte offset of a particular column within a row.
func (s *schema) GetOffset(colName string) (offset showframe.Column, err error) {
	offset, ok := s.schema[colName]
	if !ok {
		err = fmt.Errorf("Schema does not contain column with name %s", colName)
	}
	return
}

// HasColumn returns true iff this schema contains a column with the given name
func (s *schema) HasColumn(colName string) bool {
	_, ok := s.schema[colName]
	return ok
}

// CreateColumn defines a new column within the Schema
func (s *schema) CreateColumn(colName string, columnType showframe.ColumnType) (newSchema showframe.Schema, err error) {
	if _, containsOffset := s.schema[colName]; containsOffset {
		return nil, fmt.Errorf("Schema already contains column with name %s", colName)
	}
	if columnType == nil {
		return nil, fmt.Errorf("Column %s must have a type", colName)
	}
	if !showframe.IsVariableLength(columnType) {
		s.schema[colName] = &column{len(s.schema), s.size, columnType}
		s.size += columnType.Size()
	} else {
		s.schema[colName] = &column{len(s.schema), 0, columnType}
	}
	return s, nil
}

// RenameColumn renames a column within the Schema
func (s *schema) RenameColumn(oldName string, newName string) (newSchema showframe.Schema, err error) {
	if s.IsMarkedForRemoval(oldName) {
		return nil, fmt.Errorf("Cannot rename removed column %s", oldName)
	}
	if _, err = s.GetOffset(oldName); err != nil {
		return nil, err
	}
	if oldName == newName {
		return s, nil
	}
	if s.HasColumn(newName) {
		return nil, fmt.Errorf("Cannot rename column %s to %s, because %s already exists", oldName, newName, newName)
	}
	s.schema[newName] = s.schema[oldName]
	delete(s.schema, oldName)
	return s, nil
}

// RemoveColumn marks a column for removal from the Schema, at a convenient time
// This does not alter the schema, other than to mark the column for later removal
func (s *schema) RemoveColumn(colName string) (showframe.Schema, error) {
	if _, ok := s.schema[colName]; !ok {
		return nil, fmt.Errorf("Cannot remove column %s because it does not exist", colName)
	}
	s.toRemove[colName] = true
	return s, nil
}

// IsMarkedForRemoval returns true iff the given column has been marked for removal
func (s *schema) IsMarkedForRemoval(colName string) bool {
	return s.toRemove[colName]
}

// ColumnNames returns the names in the schema, in index order
func (s *schema) ColumnNames() []string {
	names := make([]string, len(s.schema))
	for k, v := range s.schema {
		names[v.Index()] = k
	}
	return names
}

// ColumnTypes returns the types in the schema, in index order
func (s *schema) ColumnTypes() []showframe.ColumnType {
	types := make([]showframe.ColumnType, len(s.schema))
	for _, v := range s.schema {
		types[v.Index()] = v.Type()
	}
	return types
}

// ForEachColumn iterates over the columns in this Schema, in index order
func (s *schema) ForEachColumn(fn func(name string, col showframe.Column) error) error {
	for _, name := range s.ColumnNames() {
		if err := fn(name, s.schema[name]); err != nil {
			return err
		}
	}
	return nil
}
