package dataframe

import (
	"github.com/go-sif/showframe"
)

// noOpTask is a task that does nothing
type noOpTask struct{}

// RunWorker for noOpTask does nothing
func (s *noOpTask) RunWorker(previous showframe.OperablePartition) ([]showframe.OperablePartition, error) {
	return []showframe.OperablePartition{previous}, nil
}

// collectionTask is implemented by the task which ends a DataFrame with a Collect
type collectionTask interface {
	GetCollectionLimit() int
}

// accumulationTask is implemented by the task which ends a DataFrame with an Accumulate
type accumulationTask interface {
	GetAccumulatorFactory() showframe.AccumulatorFactory
}
