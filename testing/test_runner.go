// Package testing runs DataFrames on a localhost cluster, for use in tests
package testing

import (
	"context"
	"fmt"

	"github.com/go-sif/showframe"
	"github.com/go-sif/showframe/cluster"
	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"
)

// DefaultBasePort is the coordinator port used when NodeOptions.Port is unset. Workers bind to the following ports.
const DefaultBasePort = 8080

// LocalRunFrame runs a DataFrame on a localhost test cluster with a certain number of workers
func LocalRunFrame(ctx context.Context, frame showframe.DataFrame, opts *cluster.NodeOptions, numWorkers int) (*showframe.Result, error) {
	if numWorkers <= 0 {
		return nil, fmt.Errorf("a local cluster needs at least one worker")
	}
	copts := cluster.CloneNodeOptions(opts)
	if copts.Port == 0 {
		copts.Port = DefaultBasePort
	}
	copts.Host = "127.0.0.1"
	copts.CoordinatorPort = copts.Port
	copts.CoordinatorHost = "127.0.0.1"
	copts.NumWorkers = numWorkers

	nodes := make([]cluster.Node, 0, numWorkers+1)
	coordinator, err := cluster.CreateNodeInRole(cluster.Coordinator, copts)
	if err != nil {
		return nil, err
	}
	nodes = append(nodes, coordinator)
	for i := 1; i <= numWorkers; i++ {
		wopts := cluster.CloneNodeOptions(copts)
		wopts.Port = copts.Port + i
		worker, err := cluster.CreateNodeInRole(cluster.Worker, wopts)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, worker)
	}

	var g errgroup.Group
	for _, node := range nodes {
		g.Go(func() error {
			return node.Start(frame)
		})
	}
	for _, node := range nodes[1:] {
		// workers block in Run until they are stopped
		g.Go(func() error {
			_, err := node.Run(ctx)
			return err
		})
	}
	result, runErr := coordinator.Run(ctx)
	for _, node := range nodes {
		node.GracefulStop()
	}
	var errs *multierror.Error
	if runErr != nil {
		errs = multierror.Append(errs, runErr)
	}
	if err := g.Wait(); err != nil {
		errs = multierror.Append(errs, err)
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	return result, nil
}
