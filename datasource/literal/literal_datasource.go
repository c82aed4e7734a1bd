package literal

import (
	"fmt"

	"github.com/go-sif/showframe"
	"github.com/go-sif/showframe/datasource"
	"github.com/go-sif/showframe/errors"
	"github.com/go-sif/showframe/schema"
)

// DefaultPartitionSize is the number of rows placed in each Partition, unless configured otherwise
const DefaultPartitionSize = 128

// Conf configures a literal DataSource
type Conf struct {
	PartitionSize int // The maximum number of rows per Partition. Defaults to 128.
}

// DataSource holds literal rows, already converted to the types of an inferred Schema
type DataSource struct {
	rows   [][]interface{}
	schema showframe.Schema
	conf   *Conf
}

// CreateDataFrame builds a DataFrame from literal rows. Missing column names are
// generated as _1, _2, etc. and column types are inferred from the first non-nil
// value of each column.
func CreateDataFrame(data [][]interface{}, columns []string, conf *Conf) (showframe.DataFrame, error) {
	source, err := CreateDataSource(data, columns, conf)
	if err != nil {
		return nil, err
	}
	return datasource.CreateDataFrame(source, nil, source.schema), nil
}

// CreateDataSource validates literal rows and infers their Schema
func CreateDataSource(data [][]interface{}, columns []string, conf *Conf) (*DataSource, error) {
	c := Conf{}
	if conf != nil {
		c = *conf
	}
	conf = &c
	if conf.PartitionSize == 0 {
		conf.PartitionSize = DefaultPartitionSize
	} else if conf.PartitionSize < 0 {
		return nil, fmt.Errorf("PartitionSize must be positive, was %d", conf.PartitionSize)
	}
	if len(data) == 0 {
		return nil, errors.SchemaInferenceError{Column: "*", Reason: "cannot infer schema from an empty dataset"}
	}
	numCols := len(data[0])
	for i, row := range data {
		if len(row) != numCols {
			return nil, errors.ColumnCountError{Row: i, Expected: numCols, Actual: len(row)}
		}
	}
	if len(columns) > numCols {
		return nil, errors.ColumnCountError{Row: -1, Expected: numCols, Actual: len(columns)}
	}
	names := make([]string, numCols)
	copy(names, columns)
	for i := len(columns); i < numCols; i++ {
		names[i] = fmt.Sprintf("_%d", i+1)
	}

	s := schema.CreateSchema()
	converted := make([][]interface{}, len(data))
	for i := range converted {
		converted[i] = make([]interface{}, numCols)
	}
	for c, name := range names {
		var colType showframe.ColumnType
		for _, row := range data {
			if row[c] == nil {
				continue
			}
			t, err := inferType(name, row[c])
			if err != nil {
				return nil, err
			}
			colType = t
			break
		}
		if colType == nil {
			return nil, errors.SchemaInferenceError{Column: name, Reason: "every value is nil"}
		}
		for r, row := range data {
			v, err := convertValue(name, colType, row[c])
			if err != nil {
				return nil, fmt.Errorf("Row %d: %w", r, err)
			}
			converted[r][c] = v
		}
		if _, err := s.CreateColumn(name, colType); err != nil {
			return nil, err
		}
	}
	return &DataSource{rows: converted, schema: s, conf: conf}, nil
}

// Schema returns the inferred Schema of this DataSource
func (ds *DataSource) Schema() showframe.Schema {
	return ds.schema
}

// NumPartitions returns the number of PartitionLoaders this DataSource will produce
func (ds *DataSource) NumPartitions() int {
	return (len(ds.rows) + ds.conf.PartitionSize - 1) / ds.conf.PartitionSize
}

// Analyze returns a PartitionMap, describing how the source data will be divided into Partitions
func (ds *DataSource) Analyze() (showframe.PartitionMap, error) {
	return &PartitionMap{source: ds}, nil
}

// DeserializeLoader creates a PartitionLoader for this DataSource from a serialized representation
func (ds *DataSource) DeserializeLoader(bytes []byte) (showframe.PartitionLoader, error) {
	pl := &PartitionLoader{source: ds}
	if err := pl.GobDecode(bytes); err != nil {
		return nil, err
	}
	return pl, nil
}

// chunk returns the rows belonging to a particular Partition
func (ds *DataSource) chunk(idx int) [][]interface{} {
	start := idx * ds.conf.PartitionSize
	end := start + ds.conf.PartitionSize
	if end > len(ds.rows) {
		end = len(ds.rows)
	}
	return ds.rows[start:end]
}
