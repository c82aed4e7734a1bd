package showframe

// PartitionIterator is a generalized interface for iterating over Partitions, regardless of where they come from
type PartitionIterator interface {
	HasNextPartition() bool
	NextPartition() (OperablePartition, error)
	OnEnd(onEnd func())
}
