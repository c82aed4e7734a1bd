package accumulators

import (
	"encoding/binary"
	"fmt"

	"github.com/go-sif/showframe"
)

// Counter returns a new Count Accumulator which counts every row. Frame.Count is built on it.
func Counter() showframe.Accumulator {
	return new(Count)
}

// NonNullCounter returns a factory for Count Accumulators which only count rows
// where the given column holds a value
func NonNullCounter(colName string) showframe.AccumulatorFactory {
	return func() showframe.Accumulator {
		return &Count{column: colName}
	}
}

// Count counts rows, or the non-nil values of a single column when column is set
type Count struct {
	count   uint64
	column  string
	checked bool
}

// GetCount returns the row count from this Accumulator
func (a *Count) GetCount() uint64 {
	return a.count
}

// Column returns the counted column, or "" when every row is counted
func (a *Count) Column() string {
	return a.column
}

// Accumulate adds a row to this Accumulator
func (a *Count) Accumulate(row showframe.Row) error {
	if a.column != "" {
		// IsNil reports false for unknown columns, so the name is checked against the first row's schema
		if !a.checked {
			if _, err := row.Schema().GetOffset(a.column); err != nil {
				return err
			}
			a.checked = true
		}
		if row.IsNil(a.column) {
			return nil
		}
	}
	a.count++
	return nil
}

// Merge merges another Accumulator into this one
func (a *Count) Merge(o showframe.Accumulator) error {
	ca, ok := o.(*Count)
	if !ok {
		return fmt.Errorf("incoming accumulator is not a Count accumulator")
	}
	if ca.column != a.column {
		return fmt.Errorf("cannot merge a count of column %q into a count of column %q", ca.column, a.column)
	}
	a.count += ca.count
	return nil
}

// ToBytes serializes this Accumulator as a little-endian count followed by the column name
func (a *Count) ToBytes() ([]byte, error) {
	buff := make([]byte, 8+len(a.column))
	binary.LittleEndian.PutUint64(buff, a.count)
	copy(buff[8:], a.column)
	return buff, nil
}

// FromBytes produce a new Accumulator from serialized data
func (a *Count) FromBytes(buff []byte) (showframe.Accumulator, error) {
	if len(buff) < 8 {
		return nil, fmt.Errorf("serialized Count accumulator must be at least 8 bytes, got %d", len(buff))
	}
	return &Count{
		count:  binary.LittleEndian.Uint64(buff[:8]),
		column: string(buff[8:]),
	}, nil
}
