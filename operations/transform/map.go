package transform

import (
	"github.com/go-sif/showframe"
	iutil "github.com/go-sif/showframe/internal/util"
)

type mapTask struct {
	fn showframe.MapOperation
}

func (s *mapTask) RunWorker(previous showframe.OperablePartition) ([]showframe.OperablePartition, error) {
	next, err := previous.MapRows(s.fn)
	if next == nil {
		return nil, err
	}
	// row errors still produce a Partition, containing the rows which succeeded
	return []showframe.OperablePartition{next}, err
}

// Map transforms a Row in-place
func Map(fn showframe.MapOperation) *showframe.DataFrameOperation {
	return &showframe.DataFrameOperation{
		TaskType: showframe.MapTaskType,
		Do: func(d showframe.DataFrame) (*showframe.DataFrameOperationResult, error) {
			return &showframe.DataFrameOperationResult{
				Task:       &mapTask{fn: iutil.SafeMapOperation(fn)},
				DataSchema: d.GetSchema().Clone(),
			}, nil
		},
	}
}
