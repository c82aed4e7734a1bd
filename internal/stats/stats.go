package stats

import (
	"sync"
	"time"
)

// RunStatistics contains statistics about a running pipeline. It is safe for concurrent use.
type RunStatistics struct {
	lock                sync.Mutex
	started             bool
	finished            bool
	startTime           time.Time
	totalRuntime        time.Duration
	rowsProcessed       []int64
	partitionsProcessed []int64
	stageRuntimes       []time.Duration // cumulative time spent processing partitions in each stage
}

// Snapshot is a serializable copy of RunStatistics
type Snapshot struct {
	StartTime           time.Time
	TotalRuntime        time.Duration
	RowsProcessed       []int64
	PartitionsProcessed []int64
	StageRuntimes       []time.Duration
}

// Start triggers statistics tracking, if it hasn't been started already
func (rs *RunStatistics) Start(numStages int) {
	rs.lock.Lock()
	defer rs.lock.Unlock()
	if !rs.started {
		rs.started = true
		rs.startTime = time.Now()
		rs.rowsProcessed = make([]int64, numStages)
		rs.partitionsProcessed = make([]int64, numStages)
		rs.stageRuntimes = make([]time.Duration, numStages)
	}
}

// Finish completes statistics tracking
func (rs *RunStatistics) Finish() {
	rs.lock.Lock()
	defer rs.lock.Unlock()
	rs.totalRuntime = time.Since(rs.startTime)
	rs.finished = true
}

// EndPartition tracks the end of the processing of a partition within a stage
func (rs *RunStatistics) EndPartition(sidx int, numRows int, runtime time.Duration) {
	rs.lock.Lock()
	defer rs.lock.Unlock()
	rs.rowsProcessed[sidx] += int64(numRows)
	rs.partitionsProcessed[sidx]++
	rs.stageRuntimes[sidx] += runtime
}

// Merge adds the counts from a Snapshot (typically produced by another node) to these statistics
func (rs *RunStatistics) Merge(s *Snapshot) {
	rs.lock.Lock()
	defer rs.lock.Unlock()
	for i := 0; i < len(rs.rowsProcessed) && i < len(s.RowsProcessed); i++ {
		rs.rowsProcessed[i] += s.RowsProcessed[i]
		rs.partitionsProcessed[i] += s.PartitionsProcessed[i]
		rs.stageRuntimes[i] += s.StageRuntimes[i]
	}
}

// Snapshot produces a serializable copy of these statistics
func (rs *RunStatistics) Snapshot() *Snapshot {
	rs.lock.Lock()
	defer rs.lock.Unlock()
	return &Snapshot{
		StartTime:           rs.startTime,
		TotalRuntime:        rs.totalRuntime,
		RowsProcessed:       append([]int64(nil), rs.rowsProcessed...),
		PartitionsProcessed: append([]int64(nil), rs.partitionsProcessed...),
		StageRuntimes:       append([]time.Duration(nil), rs.stageRuntimes...),
	}
}

// GetStartTime returns the start time of the pipeline
func (rs *RunStatistics) GetStartTime() time.Time {
	rs.lock.Lock()
	defer rs.lock.Unlock()
	return rs.startTime
}

// GetRuntime returns the running time of the pipeline
func (rs *RunStatistics) GetRuntime() time.Duration {
	rs.lock.Lock()
	defer rs.lock.Unlock()
	if rs.finished {
		return rs.totalRuntime
	}
	return time.Since(rs.startTime)
}

// GetNumRowsProcessed returns the number of Rows which have been processed so far, counted by stage
func (rs *RunStatistics) GetNumRowsProcessed() []int64 {
	rs.lock.Lock()
	defer rs.lock.Unlock()
	return append([]int64(nil), rs.rowsProcessed...)
}

// GetNumPartitionsProcessed returns the number of Partitions which have been processed so far, counted by stage
func (rs *RunStatistics) GetNumPartitionsProcessed() []int64 {
	rs.lock.Lock()
	defer rs.lock.Unlock()
	return append([]int64(nil), rs.partitionsProcessed...)
}

// GetStageRuntimes returns the cumulative partition processing time of each stage
func (rs *RunStatistics) GetStageRuntimes() []time.Duration {
	rs.lock.Lock()
	defer rs.lock.Unlock()
	return append([]time.Duration(nil), rs.stageRuntimes...)
}
