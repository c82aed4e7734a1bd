package errors

import (
	"fmt"
)

// NilValueError occurs when a value in a Row is null
type NilValueError struct{ Name string }

// Error returns a textual representation of this NilValueError
func (e NilValueError) Error() string {
	return fmt.Sprintf("Value for column %s is nil", e.Name)
}

// IncompatibleRowError occurs when a Row's width does not match an expected Schema
type IncompatibleRowError struct{}

// Error returns a textual representation of this IncompatibleRowError
func (e IncompatibleRowError) Error() string {
	return "Row width is not compatible with Schema"
}

// PartitionFullError occurs when a Partition has reached its max size an a new Row insertion is attempted
type PartitionFullError struct{}

// Error returns a textual representation of this PartitionFullError
func (e PartitionFullError) Error() string {
	return "Partition is full"
}

// NoMorePartitionsError occurs when there are no more partitions in a PartitionIterator
type NoMorePartitionsError struct{}

// Error returns a textual representation of this NoMorePartitionsError
func (e NoMorePartitionsError) Error() string {
	return "No more partitions"
}

// ColumnCountError occurs when literal rows do not match the expected number of columns
type ColumnCountError struct {
	Row      int // index of the offending row, or -1 if the column names are at fault
	Expected int
	Actual   int
}

// Error returns a textual representation of this ColumnCountError
func (e ColumnCountError) Error() string {
	if e.Row < 0 {
		return fmt.Sprintf("%d column names were supplied for rows with %d values", e.Actual, e.Expected)
	}
	return fmt.Sprintf("Row %d has %d values, expected %d", e.Row, e.Actual, e.Expected)
}

// SchemaInferenceError occurs when the type of a column cannot be determined from literal data
type SchemaInferenceError struct {
	Column string
	Reason string
}

// Error returns a textual representation of this SchemaInferenceError
func (e SchemaInferenceError) Error() string {
	return fmt.Sprintf("Unable to infer type of column %s: %s", e.Column, e.Reason)
}
