package partition

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/go-sif/showframe"
	errors "github.com/go-sif/showframe/errors"
)

// serialization layout (all integers little-endian uint32):
//
//	id length, id, maxRows, numRows, row width, column count,
//	fixed-width row data, row metadata,
//	then for every row and every non-nil variable-length column (in index order):
//	value length, serialized value

// ToBytes serializes a Partition to a byte slice, so that it can be sent to another node
func ToBytes(part showframe.Partition) ([]byte, error) {
	p, ok := part.(*partitionImpl)
	if !ok {
		return nil, fmt.Errorf("Cannot serialize Partition of type %T", part)
	}
	return p.ToBytes()
}

// ToBytes serializes this Partition to a byte slice
func (p *partitionImpl) ToBytes() ([]byte, error) {
	buff := new(bytes.Buffer)
	rowWidth := p.widestSchema.Size()
	numCols := p.widestSchema.NumColumns()
	putUint32(buff, uint32(len(p.id)))
	buff.WriteString(p.id)
	putUint32(buff, uint32(p.maxRows))
	putUint32(buff, uint32(p.numRows))
	putUint32(buff, uint32(rowWidth))
	putUint32(buff, uint32(numCols))
	varCols := varColumns(p.currentSchema)
	row := &rowImpl{}
	// flag missing variable-length values as nil, so the metadata alone describes which values follow
	for i := 0; i < p.numRows; i++ {
		p.getRow(row, i)
		for name, col := range varCols {
			if row.IsNil(name) {
				row.meta[col.Index()] |= colValueIsNilFlag
			}
		}
	}
	buff.Write(p.rows[:p.numRows*rowWidth])
	buff.Write(p.rowMeta[:p.numRows*numCols])
	names := p.currentSchema.ColumnNames()
	for i := 0; i < p.numRows; i++ {
		p.getRow(row, i)
		for _, name := range names {
			col, ok := varCols[name]
			if !ok || row.meta[col.Index()]&colValueIsNilFlag > 0 {
				continue
			}
			ser, err := row.GetColData(name)
			if err != nil {
				return nil, fmt.Errorf("Unable to serialize column %s of row %d in partition %s: %w", name, i, p.id, err)
			}
			putUint32(buff, uint32(len(ser)))
			buff.Write(ser)
		}
	}
	return buff.Bytes(), nil
}

// FromBytes deserializes a Partition produced by ToBytes. Variable-length values are
// deserialized lazily, on first access.
func FromBytes(data []byte, widestSchema showframe.Schema, currentSchema showframe.Schema) (showframe.OperablePartition, error) {
	r := bytes.NewReader(data)
	idLen, err := getUint32(r)
	if err != nil {
		return nil, err
	}
	id := make([]byte, idLen)
	if _, err = io.ReadFull(r, id); err != nil {
		return nil, err
	}
	header := make([]uint32, 4)
	for i := range header {
		if header[i], err = getUint32(r); err != nil {
			return nil, err
		}
	}
	maxRows, numRows, rowWidth, numCols := int(header[0]), int(header[1]), int(header[2]), int(header[3])
	if rowWidth != widestSchema.Size() || numCols != widestSchema.NumColumns() {
		return nil, errors.IncompatibleRowError{}
	}
	if numRows > maxRows {
		return nil, errors.PartitionFullError{}
	}
	part := createPartitionImpl(maxRows, numRows, widestSchema, currentSchema)
	part.id = string(id)
	if _, err = io.ReadFull(r, part.rows[:numRows*rowWidth]); err != nil {
		return nil, err
	}
	if _, err = io.ReadFull(r, part.rowMeta[:numRows*numCols]); err != nil {
		return nil, err
	}
	part.numRows = numRows
	varCols := varColumns(currentSchema)
	names := currentSchema.ColumnNames()
	row := &rowImpl{}
	for i := 0; i < numRows; i++ {
		part.getRow(row, i)
		for _, name := range names {
			col, ok := varCols[name]
			if !ok || row.meta[col.Index()]&colValueIsNilFlag > 0 {
				continue
			}
			size, err := getUint32(r)
			if err != nil {
				return nil, err
			}
			ser := make([]byte, size)
			if _, err = io.ReadFull(r, ser); err != nil {
				return nil, err
			}
			row.serializedVarData[name] = ser
		}
	}
	if r.Len() != 0 {
		return nil, fmt.Errorf("Found %d unexpected trailing bytes while deserializing partition %s", r.Len(), part.id)
	}
	return part, nil
}

// varColumns indexes the variable-length columns of a Schema by name
func varColumns(schema showframe.Schema) map[string]showframe.Column {
	cols := make(map[string]showframe.Column)
	schema.ForEachColumn(func(name string, col showframe.Column) error {
		if showframe.IsVariableLength(col.Type()) {
			cols[name] = col
		}
		return nil
	})
	return cols
}

func putUint32(buff *bytes.Buffer, v uint32) {
	var scratch [4]byte
	binary.LittleEndian.PutUint32(scratch[:], v)
	buff.Write(scratch[:])
}

func getUint32(r io.Reader) (uint32, error) {
	var scratch [4]byte
	if _, err := io.ReadFull(r, scratch[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(scratch[:]), nil
}
