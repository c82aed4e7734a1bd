package cluster

import (
	"context"
	"fmt"
	"net"
	"sort"
	"sync"
	"time"

	"github.com/go-sif/showframe/internal/rpc"
	"github.com/go-sif/showframe/logging"
	"google.golang.org/grpc/peer"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// clusterServer runs on the coordinator, tracking registered workers and relaying their logs
type clusterServer struct {
	lock    sync.Mutex
	workers map[string]*workerDescriptor
	order   []string
	joined  chan struct{}
}

// createClusterServer creates a new cluster server
func createClusterServer() *clusterServer {
	return &clusterServer{
		workers: make(map[string]*workerDescriptor),
		joined:  make(chan struct{}, 1),
	}
}

// RegisterWorker registers new workers with the cluster
func (s *clusterServer) RegisterWorker(ctx context.Context, req *structpb.Struct) (*wrapperspb.Int64Value, error) {
	reg, err := rpc.RegistrationFromMessage(req)
	if err != nil {
		return nil, err
	}
	p, ok := peer.FromContext(ctx)
	if !ok {
		return nil, fmt.Errorf("Unable to fetch peer data for connecting worker %s", reg.ID)
	}
	tcpAddr, ok := p.Addr.(*net.TCPAddr)
	if !ok {
		return nil, fmt.Errorf("Connecting worker %s is not using TCP", reg.ID)
	}
	s.lock.Lock()
	if _, exists := s.workers[reg.ID]; exists {
		s.lock.Unlock()
		return nil, fmt.Errorf("Worker %s is already registered", reg.ID)
	}
	w := &workerDescriptor{ID: reg.ID, Host: tcpAddr.IP.String(), Port: reg.Port}
	s.workers[reg.ID] = w
	s.order = append(s.order, reg.ID)
	s.lock.Unlock()
	select {
	case s.joined <- struct{}{}:
	default:
	}
	log := logging.WithComponent("coordinator")
	log.Info().Str("worker", w.ID).Str("address", w.connectionString()).Msg("registered worker")
	return wrapperspb.Int64(time.Now().Unix()), nil
}

// Log records messages coming from workers
func (s *clusterServer) Log(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	msg := rpc.LogMessageFromMessage(req)
	log := logging.WithComponent("worker")
	log.WithLevel(logging.ToZerologLevel(msg.Level)).Str("source", msg.Source).Msg(msg.Message)
	return &emptypb.Empty{}, nil
}

// NumberOfWorkers returns the current worker count
func (s *clusterServer) NumberOfWorkers() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return len(s.workers)
}

// Workers retrieves the connected workers, in registration order
func (s *clusterServer) Workers() []*workerDescriptor {
	s.lock.Lock()
	defer s.lock.Unlock()
	result := make([]*workerDescriptor, 0, len(s.order))
	for _, id := range s.order {
		result = append(result, s.workers[id])
	}
	// registration order is arbitrary, so assign loaders to workers in a stable order
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].connectionString() < result[j].connectionString()
	})
	return result
}

func (s *clusterServer) waitForWorkers(ctx context.Context, numWorkers int) error {
	for s.NumberOfWorkers() < numWorkers {
		select {
		case <-ctx.Done():
			return fmt.Errorf("%d of %d workers joined: %w", s.NumberOfWorkers(), numWorkers, ctx.Err())
		case <-s.joined:
		case <-time.After(100 * time.Millisecond):
		}
	}
	return nil
}
