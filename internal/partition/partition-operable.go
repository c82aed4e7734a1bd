package partition

import (
	"fmt"

	"github.com/go-sif/showframe"
	"github.com/hashicorp/go-multierror"
)

// CreateOperablePartition creates a new Partition containing an empty byte array and a schema
func CreateOperablePartition(maxRows int, widestSchema showframe.Schema, currentSchema showframe.Schema) showframe.OperablePartition {
	return createPartitionImpl(maxRows, defaultCapacity, widestSchema, currentSchema)
}

// UpdateCurrentSchema updates the Schema of this Partition
func (p *partitionImpl) UpdateCurrentSchema(currentSchema showframe.Schema) {
	p.currentSchema = currentSchema
}

// MapRows runs a MapOperation on each row in this Partition, manipulating them in-place. Will fall back to creating a fresh partition if row errors occur.
func (p *partitionImpl) MapRows(fn showframe.MapOperation) (showframe.OperablePartition, error) {
	inPlace := true // start by attempting to manipulate rows in-place
	result := p
	var multierr *multierror.Error
	row := &rowImpl{}
	for i := 0; i < p.GetNumRows(); i++ {
		err := fn(p.getRow(row, i))
		if err != nil {
			multierr = multierror.Append(multierr, err)
			if inPlace {
				// switch into creating a new Partition, carrying over every row processed so far
				inPlace = false
				result = createPartitionImpl(p.maxRows, p.capacity, p.widestSchema, p.currentSchema)
				for j := 0; j < i; j++ {
					err := result.AppendRowData(p.GetRowData(j), p.GetRowMeta(j), p.GetVarRowData(j), p.GetSerializedVarRowData(j))
					if err != nil {
						return nil, err
					}
				}
			}
		} else if !inPlace {
			err := result.AppendRowData(p.GetRowData(i), p.GetRowMeta(i), p.GetVarRowData(i), p.GetSerializedVarRowData(i))
			if err != nil {
				return nil, err
			}
		}
	}
	return result, multierr.ErrorOrNil()
}

// FilterRows filters the Rows in the current Partition, creating a new one
func (p *partitionImpl) FilterRows(fn showframe.FilterOperation) (showframe.OperablePartition, error) {
	var multierr *multierror.Error
	result := createPartitionImpl(p.maxRows, p.capacity, p.widestSchema, p.currentSchema)
	row := &rowImpl{}
	for i := 0; i < p.GetNumRows(); i++ {
		shouldKeep, err := fn(p.getRow(row, i))
		if err != nil {
			multierr = multierror.Append(multierr, err)
			continue
		}
		if shouldKeep {
			// the result cannot fill up, since it is never larger than this Partition
			err := result.AppendRowData(p.GetRowData(i), p.GetRowMeta(i), p.GetVarRowData(i), p.GetSerializedVarRowData(i))
			if err != nil {
				return nil, err
			}
		}
	}
	return result, multierr.ErrorOrNil()
}

// Repack repacks a Partition according to a new Schema
func (p *partitionImpl) Repack(newSchema showframe.Schema) (showframe.OperablePartition, error) {
	return p.RepackWithLayout(newSchema, newSchema)
}

// RepackWithLayout repacks a Partition into the memory layout of widestSchema, so that
// columns added later on still fit, while rows are addressed using currentSchema
func (p *partitionImpl) RepackWithLayout(widestSchema showframe.Schema, currentSchema showframe.Schema) (showframe.OperablePartition, error) {
	part := createPartitionImpl(p.maxRows, p.numRows, widestSchema, currentSchema)
	row := &rowImpl{}
	for i := 0; i < p.GetNumRows(); i++ {
		p.getRow(row, i)
		newRow, err := row.Repack(widestSchema, currentSchema)
		if err != nil {
			return nil, err
		}
		err = part.AppendRowData(newRow.data, newRow.meta, newRow.varData, newRow.serializedVarData)
		if err != nil {
			return nil, err
		}
	}
	return part, nil
}

// RepackWithLayout repacks any OperablePartition created by this package into a new memory layout
func RepackWithLayout(part showframe.OperablePartition, widestSchema showframe.Schema, currentSchema showframe.Schema) (showframe.OperablePartition, error) {
	p, ok := part.(*partitionImpl)
	if !ok {
		return nil, fmt.Errorf("Cannot repack Partition of type %T", part)
	}
	return p.RepackWithLayout(widestSchema, currentSchema)
}
