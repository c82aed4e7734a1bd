package datasource

import (
	"github.com/go-sif/showframe"
	"github.com/go-sif/showframe/internal/dataframe"
	"github.com/go-sif/showframe/internal/partition"
)

// CreateDataFrame produces a fresh DataFrame (useful for the implementation of DataSources)
func CreateDataFrame(source showframe.DataSource, parser showframe.DataSourceParser, schema showframe.Schema) showframe.DataFrame {
	return dataframe.CreateDataFrame(source, parser, schema)
}

// CreateBuildablePartition creates a new Partition containing an empty byte array and a schema, leaving
// room for the columns of widestSchema. Useful for the implementation of DataSourceParsers.
func CreateBuildablePartition(maxRows int, widestSchema showframe.Schema, currentSchema showframe.Schema) showframe.BuildablePartition {
	return partition.CreateBuildablePartition(maxRows, widestSchema, currentSchema)
}

// CreateTempRow builds an empty row struct which cannot be used until passed to AppendEmptyRowData
func CreateTempRow() showframe.Row {
	return partition.CreateTempRow()
}
