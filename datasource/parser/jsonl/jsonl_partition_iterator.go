package jsonl

import (
	"bufio"
	"fmt"
	"strings"
	"sync"

	"github.com/go-sif/showframe"
	"github.com/go-sif/showframe/datasource"
	"github.com/go-sif/showframe/errors"
	"github.com/go-sif/showframe/logging"
	"github.com/tidwall/gjson"
)

type jsonlFilePartitionIterator struct {
	parser              *Parser
	scanner             *bufio.Scanner
	hasNext             bool
	lineNum             int
	source              showframe.DataSource
	schema              showframe.Schema
	widestInitialSchema showframe.Schema
	lock                sync.Mutex
	endListeners        []func()
}

// OnEnd registers a listener which fires when this iterator runs out of Partitions
func (jsonli *jsonlFilePartitionIterator) OnEnd(onEnd func()) {
	jsonli.lock.Lock()
	defer jsonli.lock.Unlock()
	jsonli.endListeners = append(jsonli.endListeners, onEnd)
}

// HasNextPartition returns true iff this PartitionIterator can produce another Partition
func (jsonli *jsonlFilePartitionIterator) HasNextPartition() bool {
	jsonli.lock.Lock()
	defer jsonli.lock.Unlock()
	return jsonli.hasNext
}

// NextPartition returns the next Partition if one is available, or an error
func (jsonli *jsonlFilePartitionIterator) NextPartition() (showframe.OperablePartition, error) {
	jsonli.lock.Lock()
	defer jsonli.lock.Unlock()
	if !jsonli.hasNext {
		return nil, errors.NoMorePartitionsError{}
	}
	colNames := jsonli.schema.ColumnNames()
	colTypes := jsonli.schema.ColumnTypes()
	part := datasource.CreateBuildablePartition(jsonli.parser.PartitionSize(), jsonli.widestInitialSchema, jsonli.schema)
	tempRow := datasource.CreateTempRow()
	for part.GetNumRows() < part.GetMaxRows() {
		if !jsonli.scanner.Scan() {
			if err := jsonli.scanner.Err(); err != nil {
				return nil, err
			}
			jsonli.end()
			break
		}
		jsonli.lineNum++
		rowString := jsonli.scanner.Text()
		if strings.TrimSpace(rowString) == "" {
			continue
		}
		if !gjson.Valid(rowString) {
			return nil, fmt.Errorf("Line %d is not valid JSON", jsonli.lineNum)
		}
		row, err := part.AppendEmptyRowData(tempRow)
		if err != nil {
			return nil, err
		}
		if err = ParseJSONRow(colNames, colTypes, gjson.Parse(rowString), row); err != nil {
			log := logging.WithComponent("jsonl")
			log.Debug().Int("line", jsonli.lineNum).Str("row", rowString).Msg("unable to parse line")
			return nil, fmt.Errorf("Line %d: %w", jsonli.lineNum, err)
		}
	}
	op, ok := part.(showframe.OperablePartition)
	if !ok {
		return nil, fmt.Errorf("Partition of type %T is not operable", part)
	}
	return op, nil
}

// end marks this iterator as exhausted and notifies listeners. Must be called with the lock held.
func (jsonli *jsonlFilePartitionIterator) end() {
	jsonli.hasNext = false
	for _, l := range jsonli.endListeners {
		l()
	}
	jsonli.endListeners = []func(){}
}
