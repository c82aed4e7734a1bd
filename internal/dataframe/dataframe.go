package dataframe

import (
	"fmt"

	"github.com/go-sif/showframe"
)

// A dataFrameImpl implements DataFrame internally for showframe
type dataFrameImpl struct {
	parent   *dataFrameImpl             // the parent DataFrame. Nil if this is the root.
	task     showframe.Task             // the task represented by this DataFrame, executed to produce the next one
	taskType showframe.TaskType         // a unique name for the type of task this DataFrame represents
	source   showframe.DataSource       // the source of the data
	parser   showframe.DataSourceParser // the parser for the source data
	schema   showframe.Schema           // the schema of the data at this task. Includes columns which have been removed, until a repack.
}

// CreateDataFrame is a factory for DataFrames. This function is not intended to be used directly,
// as DataFrames are returned by DataSource packages.
func CreateDataFrame(source showframe.DataSource, parser showframe.DataSourceParser, schema showframe.Schema) showframe.DataFrame {
	return &dataFrameImpl{
		parent:   nil,
		task:     &noOpTask{},
		taskType: showframe.ExtractTaskType,
		source:   source,
		parser:   parser,
		schema:   schema,
	}
}

// GetSchema returns the Schema of a DataFrame
func (df *dataFrameImpl) GetSchema() showframe.Schema {
	return df.schema
}

// GetDataSource returns the DataSource of a DataFrame
func (df *dataFrameImpl) GetDataSource() showframe.DataSource {
	return df.source
}

// GetParser returns the DataSourceParser of a DataFrame
func (df *dataFrameImpl) GetParser() showframe.DataSourceParser {
	return df.parser
}

// To is a "functional operations" factory method for DataFrames,
// chaining operations onto the current one(s).
func (df *dataFrameImpl) To(ops ...*showframe.DataFrameOperation) (showframe.DataFrame, error) {
	next := df
	for _, op := range ops {
		if next.isTerminal() {
			return nil, fmt.Errorf("No tasks can follow a %s", next.taskType)
		}
		result, err := op.Do(next)
		if err != nil {
			return nil, err
		}
		next = &dataFrameImpl{
			parent:   next,
			source:   df.source,
			task:     result.Task,
			taskType: op.TaskType,
			parser:   df.parser,
			schema:   result.DataSchema,
		}
	}
	return next, nil
}

// isTerminal returns true iff no tasks may follow this one
func (df *dataFrameImpl) isTerminal() bool {
	return df.taskType == showframe.CollectTaskType || df.taskType == showframe.AccumulateTaskType
}
