package cluster

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/go-sif/showframe"
	"github.com/go-sif/showframe/internal/partition"
)

// NodeRole describes the intended role of a Node
type NodeRole = string

const (
	// Coordinator indicates that a node should coordinate work
	//   e.g. CreateNodeInRole(Coordinator, &NodeOptions{...})
	Coordinator NodeRole = "coordinator"
	// Worker indicates that a node should perform work
	//   e.g. CreateNodeInRole(Worker, &NodeOptions{...})
	Worker NodeRole = "worker"
	// NodeTypeEnvVar is the environment variable from which CreateNode derives a NodeRole
	NodeTypeEnvVar = "SHOWFRAME_NODE_TYPE"
	// DefaultPort is the port Nodes bind to unless configured otherwise
	DefaultPort = 1643
)

// Node is a member of a showframe cluster, either coordinating or performing work.
// Nodes present several methods to control their lifecycle.
type Node interface {
	IsCoordinator() bool
	Start(showframe.DataFrame) error                     // Start serves RPCs, blocking until the Node is stopped
	GracefulStop() error                                 // GracefulStop stops the Node, waiting for RPCs to finish
	Stop() error                                         // Stop stops the Node immediately
	Run(ctx context.Context) (*showframe.Result, error) // Run executes the DataFrame. Workers block until they are stopped, and return a nil Result.
}

// NodeOptions are options for a Node, configuring elements of a showframe cluster
type NodeOptions struct {
	Port              int           // port for this Node to bind to
	Host              string        // hostname for this Node to bind to
	CoordinatorPort   int           // port for the Coordinator Node (potentially identical to Port if this is the Coordinator)
	CoordinatorHost   string        // [REQUIRED] hostname of the Coordinator Node (potentially identical to Host if this is the Coordinator)
	NumWorkers        int           // [REQUIRED] the number of Workers to wait for before running the job
	NumExecutors      int           // the number of PartitionLoaders each Worker processes concurrently
	WorkerJoinTimeout time.Duration // how long the Coordinator should wait for Workers to join
	WorkerJoinRetries int           // how many times a Worker should retry connecting to the Coordinator (at one second intervals)
	RPCTimeout        time.Duration // timeout for short RPC calls
	Compression       string        // algorithm used to compress Partitions sent to the Coordinator: lz4 or zstd
	IgnoreRowErrors   bool          // iff true, log row transformation errors instead of crashing immediately
}

// CloneNodeOptions makes a copy of a NodeOptions
func CloneNodeOptions(opts *NodeOptions) *NodeOptions {
	clone := *opts
	return &clone
}

func ensureDefaultNodeOptionsValues(opts *NodeOptions) error {
	if opts.NumWorkers <= 0 {
		return fmt.Errorf("NodeOptions.NumWorkers must be greater than 0")
	}
	if len(opts.CoordinatorHost) == 0 {
		return fmt.Errorf("NodeOptions.CoordinatorHost must be the address of the showframe Coordinator")
	}
	if opts.Port == 0 {
		opts.Port = DefaultPort
	}
	if len(opts.Host) == 0 {
		opts.Host = "0.0.0.0"
	}
	if opts.CoordinatorPort == 0 {
		opts.CoordinatorPort = DefaultPort
	}
	if opts.NumExecutors <= 0 {
		opts.NumExecutors = runtime.NumCPU()
	}
	if opts.RPCTimeout == 0 {
		opts.RPCTimeout = 5 * time.Second
	}
	if opts.WorkerJoinTimeout == 0 {
		opts.WorkerJoinTimeout = 5 * time.Second
	}
	if opts.WorkerJoinRetries == 0 {
		opts.WorkerJoinRetries = 5
	}
	if len(opts.Compression) == 0 {
		opts.Compression = "lz4"
	}
	// fail early on an unknown compression algorithm
	compressor, err := partition.NewPartitionCompressor(opts.Compression)
	if err != nil {
		return err
	}
	return compressor.Close()
}

// connectionString returns the connection string for this node
func (o *NodeOptions) connectionString() string {
	return fmt.Sprintf("%s:%d", o.Host, o.Port)
}

// coordinatorConnectionString returns the connection string for the coordinator
func (o *NodeOptions) coordinatorConnectionString() string {
	return fmt.Sprintf("%s:%d", o.CoordinatorHost, o.CoordinatorPort)
}

// CreateNodeInRole creates a showframe node in a specific role (Coordinator or Worker)
func CreateNodeInRole(role NodeRole, opts *NodeOptions) (Node, error) {
	switch role {
	case Coordinator:
		return createCoordinator(opts)
	case Worker:
		return createWorker(opts)
	default:
		return nil, fmt.Errorf("%s is an unknown NodeRole", role)
	}
}

// CreateNode creates a showframe node, deriving its role from $SHOWFRAME_NODE_TYPE
func CreateNode(opts *NodeOptions) (Node, error) {
	role := os.Getenv(NodeTypeEnvVar)
	if len(role) == 0 {
		return nil, fmt.Errorf("$%s is not set - must be \"%s\" or \"%s\"", NodeTypeEnvVar, Coordinator, Worker)
	}
	switch role {
	case Coordinator, Worker:
		return CreateNodeInRole(role, opts)
	default:
		return nil, fmt.Errorf("$%s=\"%s\" is an unknown NodeRole", NodeTypeEnvVar, role)
	}
}
