package showframe

import "time"

// RuntimeStatistics facilitates the retrieval of statistics about a finished or running pipeline
type RuntimeStatistics interface {
	// GetStartTime returns the start time of the pipeline
	GetStartTime() time.Time
	// GetRuntime returns the running time of the pipeline
	GetRuntime() time.Duration
	// GetNumRowsProcessed returns the number of Rows which have been processed so far, counted by stage
	GetNumRowsProcessed() []int64
	// GetNumPartitionsProcessed returns the number of Partitions which have been processed so far, counted by stage
	GetNumPartitionsProcessed() []int64
}
