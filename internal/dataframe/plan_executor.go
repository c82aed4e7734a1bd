package dataframe

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"time"

	"github.com/go-sif/showframe"
	"github.com/go-sif/showframe/errors"
	"github.com/go-sif/showframe/internal/partition"
	"github.com/go-sif/showframe/internal/stats"
	iutil "github.com/go-sif/showframe/internal/util"
	"github.com/go-sif/showframe/logging"
	uuid "github.com/gofrs/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// PlanExecutorConfig configures the execution of a Plan
type PlanExecutorConfig struct {
	NumWorkers      int  // maximum number of PartitionLoaders processed concurrently. Defaults to the number of CPUs.
	IgnoreRowErrors bool // if true, rows which produce errors are logged and dropped instead of failing the run
}

// LoaderResult is the output produced from a single PartitionLoader
type LoaderResult struct {
	Index       int                           // the index of the PartitionLoader which produced this result
	Partitions  []showframe.OperablePartition // collected Partitions, in the order they were produced
	Accumulator showframe.Accumulator         // the Accumulator for this PartitionLoader, if the Plan ends in an Accumulate
}

// PlanExecutor executes a Plan against a set of PartitionLoaders
type PlanExecutor struct {
	id           string
	plan         *Plan
	conf         *PlanExecutorConfig
	statsTracker *stats.RunStatistics
}

// CreatePlanExecutor is a factory for PlanExecutors
func CreatePlanExecutor(plan *Plan, conf *PlanExecutorConfig, statsTracker *stats.RunStatistics) (*PlanExecutor, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("failed to generate UUID: %w", err)
	}
	// defaults are filled in on a copy, so the caller's config is never modified
	c := PlanExecutorConfig{}
	if conf != nil {
		c = *conf
	}
	conf = &c
	if conf.NumWorkers <= 0 {
		conf.NumWorkers = runtime.NumCPU()
	}
	if statsTracker == nil {
		statsTracker = &stats.RunStatistics{}
	}
	statsTracker.Start(plan.Size())
	return &PlanExecutor{
		id:           id.String(),
		plan:         plan,
		conf:         conf,
		statsTracker: statsTracker,
	}, nil
}

// ID returns the ID of this PlanExecutor
func (pe *PlanExecutor) ID() string {
	return pe.id
}

// Stats returns the statistics tracked by this PlanExecutor
func (pe *PlanExecutor) Stats() *stats.RunStatistics {
	return pe.statsTracker
}

// Execute runs every Stage of the Plan against each PartitionLoader, processing up to
// NumWorkers PartitionLoaders concurrently. Results are returned in the same order as loaders.
func (pe *PlanExecutor) Execute(ctx context.Context, loaders []IndexedPartitionLoader) ([]*LoaderResult, error) {
	log := logging.WithComponent("executor")
	log.Debug().Str("executor", pe.id).Int("loaders", len(loaders)).Int("stages", pe.plan.Size()).Msg("starting execution")
	results := make([]*LoaderResult, len(loaders))
	sem := semaphore.NewWeighted(int64(pe.conf.NumWorkers))
	g, gctx := errgroup.WithContext(ctx)
	for i, loader := range loaders {
		if err := sem.Acquire(gctx, 1); err != nil {
			break
		}
		g.Go(func() error {
			defer sem.Release(1)
			res, err := pe.executeLoader(gctx, loader)
			if err != nil {
				return fmt.Errorf("Error processing partition loader %s: %w", loader.Loader.ToString(), err)
			}
			results[i] = res
			return nil
		})
	}
	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		return nil, err
	}
	log.Debug().Str("executor", pe.id).Dur("runtime", pe.statsTracker.GetRuntime()).Msg("finished execution")
	return results, nil
}

// executeLoader streams every Partition produced by a single PartitionLoader through all Stages
func (pe *PlanExecutor) executeLoader(ctx context.Context, loader IndexedPartitionLoader) (*LoaderResult, error) {
	lastStage := pe.plan.LastStage()
	result := &LoaderResult{Index: loader.Index}
	if lastStage.EndsInAccumulate() {
		result.Accumulator = lastStage.AccumulatorFactory()()
	}
	it, err := loader.Loader.Load(pe.plan.Parser(), pe.plan.GetStage(0).WidestInitialSchema())
	if err != nil {
		return nil, err
	}
	limit := lastStage.GetCollectionLimit()
	for it.HasNextPartition() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		// any single loader contributes at most limit partitions to the first limit partitions overall
		if limit > 0 && len(result.Partitions) >= limit {
			break
		}
		part, err := it.NextPartition()
		if _, ok := err.(errors.NoMorePartitionsError); ok {
			break
		} else if err != nil {
			return nil, err
		}
		parts, err := pe.executeStages(part)
		if err != nil {
			return nil, err
		}
		for _, p := range parts {
			if result.Accumulator != nil {
				if err := pe.accumulate(result.Accumulator, p); err != nil {
					return nil, err
				}
			} else if lastStage.EndsInCollect() {
				// collected partitions are always compacted, so that they can be described by the outgoing schema alone
				collected, err := p.Repack(lastStage.OutgoingSchema())
				if err != nil {
					return nil, err
				}
				result.Partitions = append(result.Partitions, collected)
			}
		}
	}
	if limit > 0 && len(result.Partitions) > limit {
		result.Partitions = result.Partitions[:limit]
	}
	return result, nil
}

// executeStages runs a single Partition through every Stage, repacking between Stages
func (pe *PlanExecutor) executeStages(part showframe.OperablePartition) ([]showframe.OperablePartition, error) {
	parts := []showframe.OperablePartition{part}
	for sidx := 0; sidx < pe.plan.Size(); sidx++ {
		stage := pe.plan.GetStage(sidx)
		next := make([]showframe.OperablePartition, 0, len(parts))
		for _, p := range parts {
			start := time.Now()
			if sidx > 0 && stage.WidestInitialSchema().Equals(stage.IncomingSchema()) != nil {
				widened, err := partition.RepackWithLayout(p, stage.WidestInitialSchema(), stage.IncomingSchema())
				if err != nil {
					return nil, err
				}
				p = widened
			}
			out, err := stage.WorkerExecute(p, pe.conf.IgnoreRowErrors)
			if err != nil {
				return nil, err
			}
			numRows := 0
			for _, o := range out {
				numRows += o.GetNumRows()
			}
			pe.statsTracker.EndPartition(sidx, numRows, time.Since(start))
			next = append(next, out...)
		}
		parts = next
	}
	return parts, nil
}

// accumulate feeds every row of a Partition into an Accumulator
func (pe *PlanExecutor) accumulate(acc showframe.Accumulator, part showframe.OperablePartition) error {
	safeAccumulate := iutil.SafeAccumulateOperation(acc)
	return part.ForEachRow(func(row showframe.Row) error {
		err := safeAccumulate(row)
		if err != nil && pe.conf.IgnoreRowErrors {
			log := logging.WithComponent("executor")
			log.Warn().Err(err).Msg("ignoring accumulation error")
			return nil
		}
		return err
	})
}

// MergeResults combines per-loader results into a single Result, ordered by loader index
func MergeResults(plan *Plan, results []*LoaderResult, statsTracker showframe.RuntimeStatistics) (*showframe.Result, error) {
	ordered := make([]*LoaderResult, len(results))
	copy(ordered, results)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Index < ordered[j].Index
	})
	lastStage := plan.LastStage()
	res := &showframe.Result{Stats: statsTracker}
	if lastStage.EndsInAccumulate() {
		res.Accumulated = lastStage.AccumulatorFactory()()
		for _, r := range ordered {
			if r.Accumulator == nil {
				continue
			}
			if err := res.Accumulated.Merge(r.Accumulator); err != nil {
				return nil, err
			}
		}
		return res, nil
	}
	if !lastStage.EndsInCollect() {
		return res, nil
	}
	res.Collected = []showframe.CollectedPartition{}
	limit := lastStage.GetCollectionLimit()
	for _, r := range ordered {
		for _, p := range r.Partitions {
			if limit > 0 && len(res.Collected) >= limit {
				return res, nil
			}
			res.Collected = append(res.Collected, p)
		}
	}
	return res, nil
}

// ExecuteDataFrame optimizes and executes a DataFrame locally
func ExecuteDataFrame(ctx context.Context, df showframe.DataFrame, conf *PlanExecutorConfig) (*showframe.Result, error) {
	plan, err := Optimize(df)
	if err != nil {
		return nil, err
	}
	loaders, err := plan.AnalyzeSource()
	if err != nil {
		return nil, err
	}
	executor, err := CreatePlanExecutor(plan, conf, nil)
	if err != nil {
		return nil, err
	}
	results, err := executor.Execute(ctx, loaders)
	if err != nil {
		return nil, err
	}
	executor.Stats().Finish()
	return MergeResults(plan, results, executor.Stats())
}
