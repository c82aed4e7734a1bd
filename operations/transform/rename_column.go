package transform

import (
	"github.com/go-sif/showframe"
)

// renameColumnTask is a task that does nothing
type renameColumnTask struct{}

// RunWorker for renameColumnTask does nothing
func (s *renameColumnTask) RunWorker(previous showframe.OperablePartition) ([]showframe.OperablePartition, error) {
	return []showframe.OperablePartition{previous}, nil
}

// RenameColumn renames an existing column
func RenameColumn(oldName string, newName string) *showframe.DataFrameOperation {
	return &showframe.DataFrameOperation{
		TaskType: showframe.RenameColumnTaskType,
		Do: func(d showframe.DataFrame) (*showframe.DataFrameOperationResult, error) {
			newSchema, err := d.GetSchema().Clone().RenameColumn(oldName, newName)
			if err != nil {
				return nil, err
			}
			return &showframe.DataFrameOperationResult{
				Task:       &renameColumnTask{},
				DataSchema: newSchema,
			}, nil
		},
	}
}
