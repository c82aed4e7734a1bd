package transform

import "github.com/go-sif/showframe"

type repackTask struct {
	newSchema showframe.Schema
}

func (s *repackTask) RunWorker(previous showframe.OperablePartition) ([]showframe.OperablePartition, error) {
	part, err := previous.Repack(s.newSchema)
	if err != nil {
		return nil, err
	}
	return []showframe.OperablePartition{part}, nil
}

// Repack rearranges memory layout of rows to respect a new schema,
// dropping removed columns. A Repack ends the current stage of execution.
func Repack() *showframe.DataFrameOperation {
	return &showframe.DataFrameOperation{
		TaskType: showframe.RepackTaskType,
		Do: func(d showframe.DataFrame) (*showframe.DataFrameOperationResult, error) {
			nextTask := &repackTask{d.GetSchema().Repack()}
			return &showframe.DataFrameOperationResult{
				Task:       nextTask,
				DataSchema: nextTask.newSchema,
			}, nil
		},
	}
}
