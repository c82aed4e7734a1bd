package partition

import (
	"github.com/go-sif/showframe"
	errors "github.com/go-sif/showframe/errors"
)

// CreateBuildablePartition creates a new Partition containing an empty byte array and a schema
func CreateBuildablePartition(maxRows int, widestSchema showframe.Schema, currentSchema showframe.Schema) showframe.BuildablePartition {
	return createPartitionImpl(maxRows, defaultCapacity, widestSchema, currentSchema)
}

// CanInsertRowData checks if a Row can be inserted into this Partition
func (p *partitionImpl) CanInsertRowData(row []byte, meta []byte) error {
	if len(row) > p.widestSchema.Size() || len(meta) > p.widestSchema.NumColumns() {
		return errors.IncompatibleRowError{}
	} else if p.numRows >= p.maxRows {
		return errors.PartitionFullError{}
	}
	return nil
}

// AppendEmptyRowData is a convenient way to add an empty Row to the end of this Partition, returning the Row so that Row methods can be used to populate it
func (p *partitionImpl) AppendEmptyRowData(tempRow showframe.Row) (showframe.Row, error) {
	if p.numRows >= p.maxRows {
		return nil, errors.PartitionFullError{}
	}
	if p.numRows >= p.capacity {
		p.grow()
	}
	p.numRows++
	row, ok := tempRow.(*rowImpl)
	if !ok {
		row = &rowImpl{}
	}
	return p.getRow(row, p.numRows-1), nil
}

// AppendRowData adds a Row to the end of this Partition, if it isn't full and if the Row fits within the schema
func (p *partitionImpl) AppendRowData(row []byte, meta []byte, varData map[string]interface{}, serializedVarRowData map[string][]byte) error {
	if err := p.CanInsertRowData(row, meta); err != nil {
		return err
	}
	if p.numRows >= p.capacity {
		p.grow()
	}
	copy(p.GetRowData(p.numRows), row)
	copy(p.GetRowMeta(p.numRows), meta)
	p.varRowData[p.numRows] = varData
	p.serializedVarRowData[p.numRows] = serializedVarRowData
	p.numRows++
	return nil
}

// TruncateRowData drops numRows rows from the end of the Partition
func (p *partitionImpl) TruncateRowData(numRows int) {
	if numRows > p.numRows {
		numRows = p.numRows
	}
	start := p.numRows - numRows
	end := p.numRows
	rowWidth := p.widestSchema.Size()
	numCols := p.widestSchema.NumColumns()
	// zero out row data
	for i := start * rowWidth; i < end*rowWidth; i++ {
		p.rows[i] = 0
	}
	for i := start * numCols; i < end*numCols; i++ {
		p.rowMeta[i] = colValueIsNilFlag
	}
	for i := start; i < end; i++ {
		p.varRowData[i] = nil
		p.serializedVarRowData[i] = nil
	}
	p.numRows = start
}

// ForEachRow runs a MapOperation on each row in this Partition, erroring immediately if an error occurs
func (p *partitionImpl) ForEachRow(fn showframe.MapOperation) error {
	row := &rowImpl{}
	for i := 0; i < p.GetNumRows(); i++ {
		if err := fn(p.getRow(row, i)); err != nil {
			return err
		}
	}
	return nil
}
