package literal

import (
	"github.com/go-sif/showframe"
)

// PartitionMap is an iterator producing a sequence of PartitionLoaders, one per chunk of rows
type PartitionMap struct {
	idx    int
	source *DataSource
}

// HasNext returns true iff there is another PartitionLoader remaining
func (pm *PartitionMap) HasNext() bool {
	return pm.idx < pm.source.NumPartitions()
}

// Next returns the next PartitionLoader
func (pm *PartitionMap) Next() showframe.PartitionLoader {
	result := &PartitionLoader{idx: pm.idx, source: pm.source}
	pm.idx++
	return result
}
