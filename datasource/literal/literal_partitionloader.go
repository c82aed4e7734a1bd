package literal

import (
	"encoding/binary"
	"fmt"

	"github.com/go-sif/showframe"
	"github.com/go-sif/showframe/datasource"
)

// PartitionLoader loads a single chunk of literal rows as a Partition
type PartitionLoader struct {
	idx    int
	source *DataSource
}

// ToString returns a string representation of this PartitionLoader
func (pl *PartitionLoader) ToString() string {
	return fmt.Sprintf("Literal loader index: %d", pl.idx)
}

// Load builds a Partition from this PartitionLoader's chunk of rows, leaving room for widestInitialSchema
func (pl *PartitionLoader) Load(parser showframe.DataSourceParser, widestInitialSchema showframe.Schema) (showframe.PartitionIterator, error) {
	rows := pl.source.chunk(pl.idx)
	s := pl.source.schema
	names := s.ColumnNames()
	types := s.ColumnTypes()
	part := datasource.CreateBuildablePartition(pl.source.conf.PartitionSize, widestInitialSchema, s)
	tempRow := datasource.CreateTempRow()
	for _, values := range rows {
		row, err := part.AppendEmptyRowData(tempRow)
		if err != nil {
			return nil, err
		}
		for c, v := range values {
			if err := setValue(row, names[c], types[c], v); err != nil {
				return nil, err
			}
		}
	}
	op, ok := part.(showframe.OperablePartition)
	if !ok {
		return nil, fmt.Errorf("Partition of type %T is not operable", part)
	}
	return &partitionIterator{next: op}, nil
}

// GobEncode serializes a PartitionLoader as its chunk index
func (pl *PartitionLoader) GobEncode() ([]byte, error) {
	buff := make([]byte, 4)
	binary.LittleEndian.PutUint32(buff, uint32(pl.idx))
	return buff, nil
}

// GobDecode deserializes a PartitionLoader
func (pl *PartitionLoader) GobDecode(in []byte) error {
	if len(in) != 4 {
		return fmt.Errorf("Serialized literal PartitionLoader must be 4 bytes, got %d", len(in))
	}
	idx := int(binary.LittleEndian.Uint32(in))
	if pl.source != nil && idx >= pl.source.NumPartitions() {
		return fmt.Errorf("Literal PartitionLoader index %d is out of range", idx)
	}
	pl.idx = idx
	return nil
}
