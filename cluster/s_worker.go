package cluster

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/go-sif/showframe/internal/dataframe"
	"github.com/go-sif/showframe/internal/partition"
	"github.com/go-sif/showframe/internal/rpc"
	"github.com/go-sif/showframe/internal/stats"
	"github.com/go-sif/showframe/logging"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// workerServer runs on each worker, executing the Plan against the PartitionLoaders assigned by the coordinator
type workerServer struct {
	lock          sync.Mutex
	w             *worker
	plan          *dataframe.Plan
	clusterClient *rpc.ClusterServiceClient
	loaders       []dataframe.IndexedPartitionLoader
	results       []*dataframe.LoaderResult
	executed      bool
}

func createWorkerServer(w *worker, plan *dataframe.Plan, clusterClient *rpc.ClusterServiceClient) *workerServer {
	return &workerServer{w: w, plan: plan, clusterClient: clusterClient}
}

// AssignLoaders deserializes PartitionLoaders sent by the coordinator
func (s *workerServer) AssignLoaders(ctx context.Context, req *structpb.ListValue) (*emptypb.Empty, error) {
	assignments, err := rpc.LoaderAssignmentsFromMessage(req)
	if err != nil {
		return nil, err
	}
	loaders := make([]dataframe.IndexedPartitionLoader, 0, len(assignments))
	for _, a := range assignments {
		loader, err := s.plan.Source().DeserializeLoader(a.Loader)
		if err != nil {
			return nil, fmt.Errorf("Unable to deserialize partition loader %d: %w", a.Index, err)
		}
		loaders = append(loaders, dataframe.IndexedPartitionLoader{Index: a.Index, Loader: loader})
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	s.loaders = append(s.loaders, loaders...)
	log := logging.WithComponent("worker")
	log.Debug().Str("worker", s.w.id).Int("loaders", len(loaders)).Msg("assigned partition loaders")
	return &emptypb.Empty{}, nil
}

// Execute runs the Plan against every assigned PartitionLoader
func (s *workerServer) Execute(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.executed {
		return nil, fmt.Errorf("Worker %s has already executed its partition loaders", s.w.id)
	}
	statsTracker := &stats.RunStatistics{}
	executor, err := dataframe.CreatePlanExecutor(s.plan, &dataframe.PlanExecutorConfig{
		NumWorkers:      s.w.opts.NumExecutors,
		IgnoreRowErrors: s.w.opts.IgnoreRowErrors,
	}, statsTracker)
	if err != nil {
		return nil, err
	}
	results, err := executor.Execute(ctx, s.loaders)
	if err != nil {
		s.report(ctx, logging.ErrorLevel, fmt.Sprintf("execution failed: %v", err))
		return nil, err
	}
	statsTracker.Finish()
	s.results = results
	s.executed = true
	s.report(ctx, logging.InfoLevel, fmt.Sprintf("processed %d partition loaders in %s", len(s.loaders), statsTracker.GetRuntime()))
	return rpc.StatsToMessage(statsTracker.Snapshot())
}

// FetchResults streams the results of Execute back to the coordinator
func (s *workerServer) FetchResults(req *wrapperspb.StringValue, stream rpc.WorkerServiceFetchResultsServer) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if !s.executed {
		return fmt.Errorf("Worker %s has not executed its partition loaders", s.w.id)
	}
	compressor, err := partition.NewPartitionCompressor(req.GetValue())
	if err != nil {
		return err
	}
	defer compressor.Close()
	for _, res := range s.results {
		if res.Accumulator != nil {
			payload, err := res.Accumulator.ToBytes()
			if err != nil {
				return err
			}
			frame := &rpc.ResultFrame{Index: res.Index, Kind: rpc.AccumulatorResult, Payload: payload}
			if err := stream.Send(frame.ToMessage()); err != nil {
				return err
			}
			continue
		}
		for _, part := range res.Partitions {
			var buff bytes.Buffer
			if err := compressor.Compress(&buff, part); err != nil {
				return err
			}
			frame := &rpc.ResultFrame{Index: res.Index, Kind: rpc.PartitionResult, Payload: buff.Bytes()}
			if err := stream.Send(frame.ToMessage()); err != nil {
				return err
			}
		}
	}
	return nil
}

// Stop shuts the worker down once the current RPC has returned
func (s *workerServer) Stop(ctx context.Context, req *emptypb.Empty) (*emptypb.Empty, error) {
	log := logging.WithComponent("worker")
	log.Info().Str("worker", s.w.id).Msg("stopping worker")
	go s.w.GracefulStop()
	return &emptypb.Empty{}, nil
}

// report relays a log message to the coordinator, falling back to the local log
func (s *workerServer) report(ctx context.Context, level int, message string) {
	msg := &rpc.LogMessage{Source: s.w.id, Level: level, Message: message}
	req, err := msg.ToMessage()
	if err == nil {
		rctx, cancel := context.WithTimeout(ctx, s.w.opts.RPCTimeout)
		defer cancel()
		_, err = s.clusterClient.Log(rctx, req)
	}
	if err != nil {
		log := logging.WithComponent("worker")
		log.WithLevel(logging.ToZerologLevel(level)).Str("worker", s.w.id).Err(err).Msg(message)
	}
}
