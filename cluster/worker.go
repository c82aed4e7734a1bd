package cluster

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/go-sif/showframe"
	"github.com/go-sif/showframe/internal/dataframe"
	"github.com/go-sif/showframe/internal/rpc"
	"github.com/go-sif/showframe/logging"
	uuid "github.com/gofrs/uuid"
	"google.golang.org/grpc"
)

type worker struct {
	id            string
	opts          *NodeOptions
	lifecycleLock sync.Mutex
	server        *grpc.Server
	done          chan struct{}
	stopOnce      sync.Once
}

// createWorker is a factory for Workers
func createWorker(opts *NodeOptions) (*worker, error) {
	if err := ensureDefaultNodeOptionsValues(opts); err != nil {
		return nil, err
	}
	id, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("failed to generate UUID: %w", err)
	}
	return &worker{id: id.String(), opts: opts, done: make(chan struct{})}, nil
}

// ID returns the ID of this worker
func (w *worker) ID() string {
	return w.id
}

// IsCoordinator returns true for coordinators
func (w *worker) IsCoordinator() bool {
	return false
}

// Start the worker - will block the current thread
func (w *worker) Start(frame showframe.DataFrame) error {
	defer w.markDone()
	if frame == nil {
		return fmt.Errorf("DataFrame cannot be nil")
	}
	plan, err := dataframe.Optimize(frame)
	if err != nil {
		return err
	}
	conn, err := dial(w.opts.coordinatorConnectionString())
	if err != nil {
		return err
	}
	defer conn.Close()
	clusterClient := rpc.NewClusterServiceClient(conn)
	lis, err := net.Listen("tcp", w.opts.connectionString())
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	w.lifecycleLock.Lock()
	select {
	case <-w.done:
		// stopped before we started serving
		w.lifecycleLock.Unlock()
		lis.Close()
		return nil
	default:
	}
	w.server = grpc.NewServer()
	rpc.RegisterWorkerServiceServer(w.server, createWorkerServer(w, plan, clusterClient))
	server := w.server
	w.lifecycleLock.Unlock()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.Serve(lis)
	}()
	// register with the coordinator once we are serving
	if err := w.registerWithCoordinator(clusterClient); err != nil {
		w.Stop()
		<-serveErr
		return err
	}
	log := logging.WithComponent("worker")
	log.Info().Str("worker", w.id).Str("address", w.opts.connectionString()).Msg("worker registered with coordinator")
	if err := <-serveErr; err != nil {
		return fmt.Errorf("failed to serve: %w", err)
	}
	return nil
}

// registerWithCoordinator retries registration at one second intervals, since the coordinator may not be up yet
func (w *worker) registerWithCoordinator(clusterClient *rpc.ClusterServiceClient) error {
	req, err := (&rpc.Registration{ID: w.id, Port: w.opts.Port}).ToMessage()
	if err != nil {
		return err
	}
	log := logging.WithComponent("worker")
	for retries := 0; ; retries++ {
		ctx, cancel := context.WithTimeout(context.Background(), w.opts.RPCTimeout)
		_, err = clusterClient.RegisterWorker(ctx, req)
		cancel()
		if err == nil {
			return nil
		}
		if retries >= w.opts.WorkerJoinRetries {
			return fmt.Errorf("unable to register with coordinator at %s: %w", w.opts.coordinatorConnectionString(), err)
		}
		log.Debug().Str("worker", w.id).Err(err).Msg("retrying registration")
		select {
		case <-w.done:
			return fmt.Errorf("worker %s stopped before registering", w.id)
		case <-time.After(time.Second):
		}
	}
}

func (w *worker) markDone() {
	w.stopOnce.Do(func() {
		close(w.done)
	})
}

// GracefulStop the worker, waiting for RPCs to finish
func (w *worker) GracefulStop() error {
	w.lifecycleLock.Lock()
	server := w.server
	w.server = nil
	w.lifecycleLock.Unlock()
	if server != nil {
		server.GracefulStop()
	}
	w.markDone()
	return nil
}

// Stop the worker immediately
func (w *worker) Stop() error {
	w.lifecycleLock.Lock()
	server := w.server
	w.server = nil
	w.lifecycleLock.Unlock()
	if server != nil {
		server.Stop()
	}
	w.markDone()
	return nil
}

// Run blocks until the worker is shut down, since the coordinator drives execution
func (w *worker) Run(ctx context.Context) (*showframe.Result, error) {
	select {
	case <-w.done:
		return nil, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
