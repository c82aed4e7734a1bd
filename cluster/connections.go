package cluster

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// workerDescriptor identifies a registered worker
type workerDescriptor struct {
	ID   string
	Host string
	Port int
}

func (w *workerDescriptor) connectionString() string {
	return fmt.Sprintf("%s:%d", w.Host, w.Port)
}

func dial(target string) (*grpc.ClientConn, error) {
	conn, err := grpc.NewClient(target, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("fail to dial %s: %w", target, err)
	}
	return conn, nil
}

func dialWorkers(workers []*workerDescriptor) ([]*grpc.ClientConn, error) {
	conns := make([]*grpc.ClientConn, 0, len(workers))
	for _, w := range workers {
		conn, err := dial(w.connectionString())
		if err != nil {
			closeGRPCConnections(conns)
			return nil, err
		}
		conns = append(conns, conn)
	}
	return conns, nil
}

func closeGRPCConnections(conns []*grpc.ClientConn) error {
	var result *multierror.Error
	for _, conn := range conns {
		if err := conn.Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}
