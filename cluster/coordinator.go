package cluster

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"sync"

	"github.com/go-sif/showframe"
	"github.com/go-sif/showframe/internal/dataframe"
	"github.com/go-sif/showframe/internal/partition"
	"github.com/go-sif/showframe/internal/rpc"
	"github.com/go-sif/showframe/internal/stats"
	"github.com/go-sif/showframe/logging"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// coordinator is a Coordinator node which has lifecycle methods
type coordinator struct {
	opts          *NodeOptions
	lifecycleLock sync.Mutex
	server        *grpc.Server
	clusterServer *clusterServer
	frame         showframe.DataFrame
	ready         chan struct{}
	startErr      error
	readyOnce     sync.Once
	stopped       bool
}

func createCoordinator(opts *NodeOptions) (*coordinator, error) {
	if err := ensureDefaultNodeOptionsValues(opts); err != nil {
		return nil, err
	}
	return &coordinator{
		opts:          opts,
		clusterServer: createClusterServer(),
		ready:         make(chan struct{}),
	}, nil
}

// IsCoordinator returns true for coordinators
func (c *coordinator) IsCoordinator() bool {
	return true
}

func (c *coordinator) markReady(err error) {
	c.readyOnce.Do(func() {
		c.startErr = err
		close(c.ready)
	})
}

// Start the Coordinator - blocking unless run in a goroutine
func (c *coordinator) Start(frame showframe.DataFrame) error {
	if frame == nil {
		err := fmt.Errorf("DataFrame cannot be nil")
		c.markReady(err)
		return err
	}
	c.frame = frame
	lis, err := net.Listen("tcp", c.opts.connectionString())
	if err != nil {
		err = fmt.Errorf("failed to listen: %w", err)
		c.markReady(err)
		return err
	}
	c.lifecycleLock.Lock()
	if c.stopped {
		c.lifecycleLock.Unlock()
		lis.Close()
		return nil
	}
	c.server = grpc.NewServer()
	rpc.RegisterClusterServiceServer(c.server, c.clusterServer)
	server := c.server
	c.lifecycleLock.Unlock()
	// we're done bootstrapping
	c.markReady(nil)
	log := logging.WithComponent("coordinator")
	log.Info().Str("address", c.opts.connectionString()).Msg("starting showframe coordinator")
	if err := server.Serve(lis); err != nil {
		return fmt.Errorf("failed to serve: %w", err)
	}
	return nil
}

// GracefulStop the Coordinator, waiting for RPCs to finish
func (c *coordinator) GracefulStop() error {
	c.markReady(fmt.Errorf("coordinator stopped"))
	c.lifecycleLock.Lock()
	defer c.lifecycleLock.Unlock()
	c.stopped = true
	if c.server != nil {
		c.server.GracefulStop()
		c.server = nil
	}
	return nil
}

// Stop the Coordinator immediately
func (c *coordinator) Stop() error {
	c.markReady(fmt.Errorf("coordinator stopped"))
	c.lifecycleLock.Lock()
	defer c.lifecycleLock.Unlock()
	c.stopped = true
	if c.server != nil {
		c.server.Stop()
		c.server = nil
	}
	return nil
}

// workerHandle bundles a registered worker with its client
type workerHandle struct {
	desc      *workerDescriptor
	client    *rpc.WorkerServiceClient
	loaders   []rpc.LoaderAssignment
	snapshot  *stats.Snapshot
}

// Run a DataFrame Plan within this cluster
func (c *coordinator) Run(ctx context.Context) (*showframe.Result, error) {
	select {
	case <-c.ready:
		if c.startErr != nil {
			return nil, c.startErr
		}
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	log := logging.WithComponent("coordinator")

	waitCtx, cancel := context.WithTimeout(ctx, c.opts.WorkerJoinTimeout)
	defer cancel()
	log.Info().Int("workers", c.opts.NumWorkers).Msg("waiting for workers to connect")
	if err := c.clusterServer.waitForWorkers(waitCtx, c.opts.NumWorkers); err != nil {
		return nil, err
	}
	workers := c.clusterServer.Workers()
	conns, err := dialWorkers(workers)
	if err != nil {
		return nil, err
	}
	handles := make([]*workerHandle, len(workers))
	for i, w := range workers {
		handles[i] = &workerHandle{desc: w, client: rpc.NewWorkerServiceClient(conns[i])}
	}
	// the job is done, one way or another, once Run returns
	defer func() {
		c.stopWorkers(handles)
		if err := closeGRPCConnections(conns); err != nil {
			log.Warn().Err(err).Msg("failed to close worker connections")
		}
	}()

	plan, err := dataframe.Optimize(c.frame)
	if err != nil {
		return nil, err
	}
	loaders, err := plan.AnalyzeSource()
	if err != nil {
		return nil, err
	}
	for _, l := range loaders {
		buff, err := l.Loader.GobEncode()
		if err != nil {
			return nil, fmt.Errorf("could not serialize partition loader %s: %w", l.Loader.ToString(), err)
		}
		h := handles[l.Index%len(handles)]
		log.Debug().Str("loader", l.Loader.ToString()).Str("worker", h.desc.ID).Msg("assigning partition loader")
		h.loaders = append(h.loaders, rpc.LoaderAssignment{Index: l.Index, Loader: buff})
	}

	log.Info().Int("loaders", len(loaders)).Int("stages", plan.Size()).Msg("running job")
	statsTracker := &stats.RunStatistics{}
	statsTracker.Start(plan.Size())
	var resultsLock sync.Mutex
	results := make([]*dataframe.LoaderResult, 0, len(loaders))
	g, gctx := errgroup.WithContext(ctx)
	for _, h := range handles {
		g.Go(func() error {
			res, err := c.runOnWorker(gctx, plan, h)
			if err != nil {
				return fmt.Errorf("worker %s: %w", h.desc.ID, err)
			}
			resultsLock.Lock()
			defer resultsLock.Unlock()
			results = append(results, res...)
			statsTracker.Merge(h.snapshot)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	statsTracker.Finish()
	log.Info().Dur("runtime", statsTracker.GetRuntime()).Msg("finished job")
	return dataframe.MergeResults(plan, results, statsTracker)
}

// runOnWorker assigns loaders to a worker, executes them, and fetches the results
func (c *coordinator) runOnWorker(ctx context.Context, plan *dataframe.Plan, h *workerHandle) ([]*dataframe.LoaderResult, error) {
	req, err := rpc.LoaderAssignmentsToMessage(h.loaders)
	if err != nil {
		return nil, err
	}
	rctx, cancel := context.WithTimeout(ctx, c.opts.RPCTimeout)
	_, err = h.client.AssignLoaders(rctx, req)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("unable to assign partition loaders: %w", err)
	}
	// execution is unbounded in time, so only the job context applies
	statsMsg, err := h.client.Execute(ctx, &emptypb.Empty{})
	if err != nil {
		return nil, fmt.Errorf("execution failed: %w", err)
	}
	h.snapshot = rpc.StatsFromMessage(statsMsg)
	stream, err := h.client.FetchResults(ctx, wrapperspb.String(c.opts.Compression))
	if err != nil {
		return nil, err
	}
	compressor, err := partition.NewPartitionCompressor(c.opts.Compression)
	if err != nil {
		return nil, err
	}
	defer compressor.Close()
	lastStage := plan.LastStage()
	outgoing := plan.OutgoingSchema()
	byIndex := make(map[int]*dataframe.LoaderResult)
	for {
		msg, err := stream.Recv()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}
		frame, err := rpc.ResultFrameFromMessage(msg)
		if err != nil {
			return nil, err
		}
		res, ok := byIndex[frame.Index]
		if !ok {
			res = &dataframe.LoaderResult{Index: frame.Index}
			byIndex[frame.Index] = res
		}
		switch frame.Kind {
		case rpc.PartitionResult:
			part, err := compressor.Decompress(bytes.NewReader(frame.Payload), outgoing, outgoing)
			if err != nil {
				return nil, err
			}
			res.Partitions = append(res.Partitions, part)
		case rpc.AccumulatorResult:
			if !lastStage.EndsInAccumulate() {
				return nil, fmt.Errorf("received an accumulator for a DataFrame which does not end in an accumulation")
			}
			acc, err := lastStage.AccumulatorFactory()().FromBytes(frame.Payload)
			if err != nil {
				return nil, err
			}
			res.Accumulator = acc
		}
	}
	results := make([]*dataframe.LoaderResult, 0, len(byIndex))
	for _, res := range byIndex {
		results = append(results, res)
	}
	return results, nil
}

// stopWorkers asks every worker to shut down, logging failures since workers may already be gone
func (c *coordinator) stopWorkers(handles []*workerHandle) {
	log := logging.WithComponent("coordinator")
	var wg sync.WaitGroup
	for _, h := range handles {
		wg.Add(1)
		go func(h *workerHandle) {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), c.opts.RPCTimeout)
			defer cancel()
			log.Debug().Str("worker", h.desc.ID).Msg("stopping worker")
			if _, err := h.client.Stop(ctx, &emptypb.Empty{}); err != nil {
				log.Warn().Str("worker", h.desc.ID).Err(err).Msg("unable to stop worker")
			}
		}(h)
	}
	wg.Wait()
}
