package dsv

import (
	"encoding/csv"
	"fmt"
	"io"
	"sync"

	"github.com/go-sif/showframe"
	"github.com/go-sif/showframe/datasource"
	"github.com/go-sif/showframe/errors"
)

type dsvPartitionIterator struct {
	parser              *Parser
	reader              *csv.Reader
	hasNext             bool
	source              showframe.DataSource
	schema              showframe.Schema
	widestInitialSchema showframe.Schema
	lock                sync.Mutex
	endListeners        []func()
}

// OnEnd registers a listener which fires when this iterator runs out of Partitions
func (dsvi *dsvPartitionIterator) OnEnd(onEnd func()) {
	dsvi.lock.Lock()
	defer dsvi.lock.Unlock()
	dsvi.endListeners = append(dsvi.endListeners, onEnd)
}

// HasNextPartition returns true iff this PartitionIterator can produce another Partition
func (dsvi *dsvPartitionIterator) HasNextPartition() bool {
	dsvi.lock.Lock()
	defer dsvi.lock.Unlock()
	return dsvi.hasNext
}

// NextPartition returns the next Partition if one is available, or an error
func (dsvi *dsvPartitionIterator) NextPartition() (showframe.OperablePartition, error) {
	dsvi.lock.Lock()
	defer dsvi.lock.Unlock()
	if !dsvi.hasNext {
		return nil, errors.NoMorePartitionsError{}
	}
	colNames := dsvi.schema.ColumnNames()
	colTypes := dsvi.schema.ColumnTypes()
	part := datasource.CreateBuildablePartition(dsvi.parser.PartitionSize(), dsvi.widestInitialSchema, dsvi.schema)
	tempRow := datasource.CreateTempRow()
	for part.GetNumRows() < part.GetMaxRows() {
		rowStrings, err := dsvi.reader.Read()
		if err == io.EOF {
			dsvi.hasNext = false
			for _, l := range dsvi.endListeners {
				l()
			}
			dsvi.endListeners = []func(){}
			break
		} else if err != nil {
			return nil, err
		}
		row, err := part.AppendEmptyRowData(tempRow)
		if err != nil {
			return nil, err
		}
		if err = scanRow(dsvi.parser.conf, colNames, colTypes, rowStrings, row); err != nil {
			line, _ := dsvi.reader.FieldPos(0)
			return nil, fmt.Errorf("Line %d: %w", line, err)
		}
	}
	op, ok := part.(showframe.OperablePartition)
	if !ok {
		return nil, fmt.Errorf("Partition of type %T is not operable", part)
	}
	return op, nil
}
