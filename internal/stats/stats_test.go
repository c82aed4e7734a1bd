package stats

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRunStatistics(t *testing.T) {
	rs := &RunStatistics{}
	rs.Start(2)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rs.EndPartition(0, 10, time.Millisecond)
			rs.EndPartition(1, 5, time.Millisecond)
		}()
	}
	wg.Wait()
	rs.Finish()
	require.Equal(t, []int64{80, 40}, rs.GetNumRowsProcessed())
	require.Equal(t, []int64{8, 8}, rs.GetNumPartitionsProcessed())
	require.Equal(t, rs.GetRuntime(), rs.GetRuntime())
	require.Equal(t, 8*time.Millisecond, rs.GetStageRuntimes()[0])
}

func TestMergeSnapshot(t *testing.T) {
	worker := &RunStatistics{}
	worker.Start(1)
	worker.EndPartition(0, 3, time.Millisecond)
	coordinator := &RunStatistics{}
	coordinator.Start(1)
	coordinator.Merge(worker.Snapshot())
	coordinator.Merge(worker.Snapshot())
	require.Equal(t, []int64{6}, coordinator.GetNumRowsProcessed())
	require.Equal(t, []int64{2}, coordinator.GetNumPartitionsProcessed())
}
