package partition

import (
	"github.com/go-sif/showframe"
	"github.com/go-sif/showframe/logging"
	uuid "github.com/gofrs/uuid"
)

const defaultCapacity = 2

// partitionImpl is showframe's internal implementation of Partition.
// Fixed-width data for every row lives in a single byte slice, sized
// according to the widest Schema the Partition will see before it is
// repacked. Variable-length data lives in per-row maps.
type partitionImpl struct {
	id                   string
	maxRows              int
	numRows              int
	capacity             int
	rows                 []byte
	varRowData           []map[string]interface{}
	serializedVarRowData []map[string][]byte // for receiving serialized data from another node
	rowMeta              []byte
	widestSchema         showframe.Schema
	currentSchema        showframe.Schema
}

// createPartitionImpl creates a new Partition containing an empty byte array and a schema
func createPartitionImpl(maxRows int, initialCapacity int, widestSchema showframe.Schema, currentSchema showframe.Schema) *partitionImpl {
	id, err := uuid.NewV4()
	if err != nil {
		log := logging.WithComponent("partition")
		log.Fatal().Err(err).Msg("failed to generate UUID for Partition")
	}
	if initialCapacity > maxRows {
		initialCapacity = maxRows
	}
	if initialCapacity < 0 {
		initialCapacity = 0
	}
	return &partitionImpl{
		id:                   id.String(),
		maxRows:              maxRows,
		numRows:              0,
		capacity:             initialCapacity,
		rows:                 make([]byte, initialCapacity*widestSchema.Size()),
		varRowData:           make([]map[string]interface{}, initialCapacity),
		serializedVarRowData: make([]map[string][]byte, initialCapacity),
		rowMeta:              newMeta(initialCapacity * widestSchema.NumColumns()),
		widestSchema:         widestSchema,
		currentSchema:        currentSchema,
	}
}

// newMeta allocates row metadata in which every column starts out nil
func newMeta(size int) []byte {
	meta := make([]byte, size)
	for i := range meta {
		meta[i] = colValueIsNilFlag
	}
	return meta
}

// ID retrieves the ID of this Partition
func (p *partitionImpl) ID() string {
	return p.id
}

// GetMaxRows retrieves the maximum number of rows in this Partition
func (p *partitionImpl) GetMaxRows() int {
	return p.maxRows
}

// GetNumRows retrieves the number of rows in this Partition
func (p *partitionImpl) GetNumRows() int {
	return p.numRows
}

// GetSchema retrieves the current Schema of this Partition
func (p *partitionImpl) GetSchema() showframe.Schema {
	return p.currentSchema
}

// GetWidestSchema retrieves the Schema which determines the memory layout of this Partition
func (p *partitionImpl) GetWidestSchema() showframe.Schema {
	return p.widestSchema
}

// GetRowMeta retrieves specific row metadata from this Partition
func (p *partitionImpl) GetRowMeta(rowNum int) []byte {
	numCols := p.widestSchema.NumColumns()
	return p.rowMeta[rowNum*numCols : (rowNum+1)*numCols]
}

// GetRowData retrieves the fixed-width data of a specific row from this Partition
func (p *partitionImpl) GetRowData(rowNum int) []byte {
	rowWidth := p.widestSchema.Size()
	return p.rows[rowNum*rowWidth : (rowNum+1)*rowWidth]
}

// GetVarRowData retrieves the variable-length data of a specific row from this Partition
func (p *partitionImpl) GetVarRowData(rowNum int) map[string]interface{} {
	if p.varRowData[rowNum] == nil {
		p.varRowData[rowNum] = make(map[string]interface{})
	}
	return p.varRowData[rowNum]
}

// GetSerializedVarRowData retrieves the serialized variable-length data of a specific row from this Partition
func (p *partitionImpl) GetSerializedVarRowData(rowNum int) map[string][]byte {
	if p.serializedVarRowData[rowNum] == nil {
		p.serializedVarRowData[rowNum] = make(map[string][]byte)
	}
	return p.serializedVarRowData[rowNum]
}

// getRow populates a reusable row with a specific row from this Partition, without allocation
func (p *partitionImpl) getRow(row *rowImpl, rowNum int) showframe.Row {
	row.partID = p.id
	row.meta = p.GetRowMeta(rowNum)
	row.data = p.GetRowData(rowNum)
	row.varData = p.GetVarRowData(rowNum)
	row.serializedVarData = p.GetSerializedVarRowData(rowNum)
	row.schema = p.currentSchema
	return row
}

// GetRow retrieves a specific row from this Partition
func (p *partitionImpl) GetRow(rowNum int) showframe.Row {
	return p.getRow(&rowImpl{}, rowNum)
}

// grow doubles the capacity of this Partition, up to maxRows
func (p *partitionImpl) grow() {
	newCapacity := p.capacity * 2
	if newCapacity == 0 {
		newCapacity = defaultCapacity
	}
	if newCapacity > p.maxRows {
		newCapacity = p.maxRows
	}
	rows := make([]byte, newCapacity*p.widestSchema.Size())
	copy(rows, p.rows)
	p.rows = rows
	meta := newMeta(newCapacity * p.widestSchema.NumColumns())
	copy(meta, p.rowMeta)
	p.rowMeta = meta
	varRowData := make([]map[string]interface{}, newCapacity)
	copy(varRowData, p.varRowData)
	p.varRowData = varRowData
	serializedVarRowData := make([]map[string][]byte, newCapacity)
	copy(serializedVarRowData, p.serializedVarRowData)
	p.serializedVarRowData = serializedVarRowData
	p.capacity = newCapacity
}
