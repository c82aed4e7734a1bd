package util

import (
	"fmt"

	"github.com/go-sif/showframe"
)

type accumulateTask struct {
	facc showframe.AccumulatorFactory
}

func (s *accumulateTask) RunWorker(previous showframe.OperablePartition) ([]showframe.OperablePartition, error) {
	return []showframe.OperablePartition{previous}, nil
}

func (s *accumulateTask) GetAccumulatorFactory() showframe.AccumulatorFactory {
	return s.facc
}

// Accumulate combines rows using a user-provided data structure. One Accumulator
// is produced per PartitionLoader, and these are merged in PartitionLoader order.
// This ends a DataFrame's tasks.
func Accumulate(facc showframe.AccumulatorFactory) *showframe.DataFrameOperation {
	return &showframe.DataFrameOperation{
		TaskType: showframe.AccumulateTaskType,
		Do: func(d showframe.DataFrame) (*showframe.DataFrameOperationResult, error) {
			if facc == nil {
				return nil, fmt.Errorf("Accumulate() requires an AccumulatorFactory")
			}
			return &showframe.DataFrameOperationResult{
				Task:       &accumulateTask{facc: facc},
				DataSchema: d.GetSchema().Clone(),
			}, nil
		},
	}
}
