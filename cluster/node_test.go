package cluster

import (
	"context"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNodeOptionsDefaults(t *testing.T) {
	opts := &NodeOptions{CoordinatorHost: "localhost", NumWorkers: 2}
	require.Nil(t, ensureDefaultNodeOptionsValues(opts))
	require.Equal(t, DefaultPort, opts.Port)
	require.Equal(t, DefaultPort, opts.CoordinatorPort)
	require.Equal(t, "0.0.0.0", opts.Host)
	require.Equal(t, runtime.NumCPU(), opts.NumExecutors)
	require.Equal(t, 5*time.Second, opts.RPCTimeout)
	require.Equal(t, 5*time.Second, opts.WorkerJoinTimeout)
	require.Equal(t, 5, opts.WorkerJoinRetries)
	require.Equal(t, "lz4", opts.Compression)
	require.Equal(t, "0.0.0.0:1643", opts.connectionString())
	require.Equal(t, "localhost:1643", opts.coordinatorConnectionString())
}

func TestNodeOptionsValidation(t *testing.T) {
	require.NotNil(t, ensureDefaultNodeOptionsValues(&NodeOptions{CoordinatorHost: "localhost"}))
	require.NotNil(t, ensureDefaultNodeOptionsValues(&NodeOptions{NumWorkers: 1}))
	require.NotNil(t, ensureDefaultNodeOptionsValues(&NodeOptions{CoordinatorHost: "localhost", NumWorkers: 1, Compression: "gzip"}))
	require.Nil(t, ensureDefaultNodeOptionsValues(&NodeOptions{CoordinatorHost: "localhost", NumWorkers: 1, Compression: "zstd"}))
}

func TestCloneNodeOptions(t *testing.T) {
	opts := &NodeOptions{Port: 1, CoordinatorHost: "localhost"}
	clone := CloneNodeOptions(opts)
	clone.Port = 2
	require.Equal(t, 1, opts.Port)
	require.Equal(t, "localhost", clone.CoordinatorHost)
}

func TestCreateNode(t *testing.T) {
	opts := func() *NodeOptions {
		return &NodeOptions{CoordinatorHost: "localhost", NumWorkers: 1}
	}
	t.Setenv(NodeTypeEnvVar, "")
	_, err := CreateNode(opts())
	require.NotNil(t, err)

	t.Setenv(NodeTypeEnvVar, "janitor")
	_, err = CreateNode(opts())
	require.NotNil(t, err)

	t.Setenv(NodeTypeEnvVar, Coordinator)
	node, err := CreateNode(opts())
	require.Nil(t, err)
	require.True(t, node.IsCoordinator())

	t.Setenv(NodeTypeEnvVar, Worker)
	node, err = CreateNode(opts())
	require.Nil(t, err)
	require.False(t, node.IsCoordinator())

	_, err = CreateNodeInRole("janitor", opts())
	require.NotNil(t, err)
}

func TestStartNilFrame(t *testing.T) {
	node, err := CreateNodeInRole(Coordinator, &NodeOptions{CoordinatorHost: "localhost", NumWorkers: 1})
	require.Nil(t, err)
	require.NotNil(t, node.Start(nil))
	// Run reports why the coordinator never became ready
	_, err = node.Run(context.Background())
	require.NotNil(t, err)
}
