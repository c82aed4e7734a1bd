package memory

import (
	"github.com/go-sif/showframe"
	"github.com/go-sif/showframe/datasource"
)

// DataSource is a set of in-memory buffers, each containing raw data
// which will be parsed and manipulated according to a DataFrame
type DataSource struct {
	data   [][]byte
	schema showframe.Schema
}

// CreateDataFrame is a factory for DataSources. Each buffer is loaded by its own PartitionLoader.
func CreateDataFrame(data [][]byte, parser showframe.DataSourceParser, schema showframe.Schema) showframe.DataFrame {
	source := &DataSource{data, schema}
	return datasource.CreateDataFrame(source, parser, schema)
}

// Analyze returns a PartitionMap, describing how the source data will be divided into Partitions
func (fs *DataSource) Analyze() (showframe.PartitionMap, error) {
	return &PartitionMap{
		source: fs,
	}, nil
}

// DeserializeLoader creates a PartitionLoader for this DataSource from a serialized representation
func (fs *DataSource) DeserializeLoader(bytes []byte) (showframe.PartitionLoader, error) {
	pl := PartitionLoader{idx: 0, source: fs}
	err := pl.GobDecode(bytes)
	if err != nil {
		return nil, err
	}
	return &pl, nil
}
