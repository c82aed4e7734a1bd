package showframe

// Result is the outcome of executing a DataFrame
type Result struct {
	Collected   []CollectedPartition // collected Partitions, in the order their rows were produced by the DataSource. Nil unless the DataFrame ends in a Collect.
	Accumulated Accumulator          // the merged Accumulator. Nil unless the DataFrame ends in an Accumulate.
	Stats       RuntimeStatistics
}

// NumRows returns the total number of collected Rows
func (r *Result) NumRows() int {
	total := 0
	for _, part := range r.Collected {
		total += part.GetNumRows()
	}
	return total
}

// ForEachRow iterates over every collected Row, in order
func (r *Result) ForEachRow(fn MapOperation) error {
	for _, part := range r.Collected {
		if err := part.ForEachRow(fn); err != nil {
			return err
		}
	}
	return nil
}
