package transform

import (
	"github.com/go-sif/showframe"
	iutil "github.com/go-sif/showframe/internal/util"
)

type filterTask struct {
	fn showframe.FilterOperation
}

func (s *filterTask) RunWorker(previous showframe.OperablePartition) ([]showframe.OperablePartition, error) {
	result, err := previous.FilterRows(s.fn)
	if result == nil {
		return nil, err
	}
	return []showframe.OperablePartition{result}, err
}

// Filter filters Rows out of a Partition, creating a new one
func Filter(fn showframe.FilterOperation) *showframe.DataFrameOperation {
	return &showframe.DataFrameOperation{
		TaskType: showframe.FilterTaskType,
		Do: func(d showframe.DataFrame) (*showframe.DataFrameOperationResult, error) {
			return &showframe.DataFrameOperationResult{
				Task:       &filterTask{fn: iutil.SafeFilterOperation(fn)},
				DataSchema: d.GetSchema().Clone(),
			}, nil
		},
	}
}
