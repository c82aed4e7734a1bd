package showframe

// AccumulatorFactory is a function that produces a fresh Accumulator
type AccumulatorFactory func() Accumulator

// DataFrameOperationResult is the result of a DataFrameOperation
type DataFrameOperationResult struct {
	Task       Task
	DataSchema Schema
}

// A DataFrameOperation is a generic DataFrame transform, returning a Task that performs the "work" and a (potentially) altered Schema.
type DataFrameOperation struct {
	TaskType TaskType
	Do       func(df DataFrame) (*DataFrameOperationResult, error)
}

// MapOperation - A generic function for manipulating Rows in-place
type MapOperation func(row Row) error

// FilterOperation - A generic function for determining whether or not a Row should be retained
type FilterOperation func(row Row) (bool, error)
