package literal

import (
	"sync"

	"github.com/go-sif/showframe"
	"github.com/go-sif/showframe/errors"
)

// partitionIterator produces the single Partition built by a PartitionLoader
type partitionIterator struct {
	lock         sync.Mutex
	next         showframe.OperablePartition
	endListeners []func()
}

// OnEnd registers a listener which fires when this iterator runs out of Partitions
func (pi *partitionIterator) OnEnd(onEnd func()) {
	pi.lock.Lock()
	defer pi.lock.Unlock()
	pi.endListeners = append(pi.endListeners, onEnd)
}

// HasNextPartition returns true iff this PartitionIterator can produce another Partition
func (pi *partitionIterator) HasNextPartition() bool {
	pi.lock.Lock()
	defer pi.lock.Unlock()
	return pi.next != nil
}

// NextPartition returns the next Partition if one is available, or an error
func (pi *partitionIterator) NextPartition() (showframe.OperablePartition, error) {
	pi.lock.Lock()
	defer pi.lock.Unlock()
	if pi.next == nil {
		return nil, errors.NoMorePartitionsError{}
	}
	part := pi.next
	pi.next = nil
	for _, l := range pi.endListeners {
		l()
	}
	pi.endListeners = nil
	return part, nil
}
