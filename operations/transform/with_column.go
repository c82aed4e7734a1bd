package transform

import "github.com/go-sif/showframe"

// addColumnTask is a task that does nothing, as new columns start out nil
type addColumnTask struct{}

// RunWorker for addColumnTask does nothing
func (s *addColumnTask) RunWorker(previous showframe.OperablePartition) ([]showframe.OperablePartition, error) {
	return []showframe.OperablePartition{previous}, nil
}

// AddColumn declares that a new (empty) column with a
// specific type and name should be available to the
// next Task of the DataFrame pipeline
func AddColumn(colName string, colType showframe.ColumnType) *showframe.DataFrameOperation {
	return &showframe.DataFrameOperation{
		TaskType: showframe.WithColumnTaskType,
		Do: func(d showframe.DataFrame) (*showframe.DataFrameOperationResult, error) {
			newSchema, err := d.GetSchema().Clone().CreateColumn(colName, colType)
			if err != nil {
				return nil, err
			}
			return &showframe.DataFrameOperationResult{
				Task:       &addColumnTask{},
				DataSchema: newSchema,
			}, nil
		},
	}
}
