package util

import (
	"fmt"

	"github.com/go-sif/showframe"
)

type collectTask struct {
	collectionLimit int
}

func (s *collectTask) RunWorker(previous showframe.OperablePartition) ([]showframe.OperablePartition, error) {
	// do nothing
	return []showframe.OperablePartition{previous}, nil
}

func (s *collectTask) GetCollectionLimit() int {
	return s.collectionLimit
}

// Collect declares that data should be returned to the caller
// upon completion of the previous stage, in source order. At most
// collectionLimit Partitions are collected (0 means no limit).
// This also signals the end of a DataFrame's tasks.
func Collect(collectionLimit int) *showframe.DataFrameOperation {
	return &showframe.DataFrameOperation{
		TaskType: showframe.CollectTaskType,
		Do: func(d showframe.DataFrame) (*showframe.DataFrameOperationResult, error) {
			if collectionLimit < 0 {
				return nil, fmt.Errorf("Collection limit must not be negative")
			}
			return &showframe.DataFrameOperationResult{
				Task:       &collectTask{collectionLimit},
				DataSchema: d.GetSchema().Clone(),
			}, nil
		},
	}
}
