package util

import (
	"fmt"

	"github.com/go-sif/showframe"
)

// SafeMapOperation wraps a MapOperation such that panics are recovered and nice error messages are constructed
func SafeMapOperation(mapOp showframe.MapOperation) (safeMapOp showframe.MapOperation) {
	return func(row showframe.Row) (err error) {
		defer func() {
			if r := recover(); r != nil {
				if anErr, ok := r.(error); ok {
					err = fmt.Errorf("Map Panic: %w\nRow: %s\n%s", anErr, row.ToString(), GetTrace())
				} else {
					err = fmt.Errorf("Map Panic: %v\nRow: %s\n%s", r, row.ToString(), GetTrace())
				}
			} else if err != nil {
				err = fmt.Errorf("Map Error: %w\nRow: %s", err, row.ToString())
			}
		}()
		err = mapOp(row)
		return
	}
}

// SafeFilterOperation wraps a FilterOperation such that panics are recovered and nice error messages are constructed
func SafeFilterOperation(filterOp showframe.FilterOperation) (safeFilterOp showframe.FilterOperation) {
	return func(row showframe.Row) (shouldKeep bool, err error) {
		defer func() {
			if r := recover(); r != nil {
				if anErr, ok := r.(error); ok {
					err = fmt.Errorf("Filter Panic: %w\nRow: %s\n%s", anErr, row.ToString(), GetTrace())
				} else {
					err = fmt.Errorf("Filter Panic: %v\nRow: %s\n%s", r, row.ToString(), GetTrace())
				}
			} else if err != nil {
				err = fmt.Errorf("Filter Error: %w\nRow: %s", err, row.ToString())
			}
		}()
		shouldKeep, err = filterOp(row)
		return
	}
}

// SafeAccumulateOperation wraps an Accumulator's Accumulate method such that panics are recovered
func SafeAccumulateOperation(acc showframe.Accumulator) (safeAccumulateOp showframe.MapOperation) {
	return func(row showframe.Row) (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("Accumulate Panic: %v\nRow: %s\n%s", r, row.ToString(), GetTrace())
			} else if err != nil {
				err = fmt.Errorf("Accumulate Error: %w\nRow: %s", err, row.ToString())
			}
		}()
		err = acc.Accumulate(row)
		return
	}
}
