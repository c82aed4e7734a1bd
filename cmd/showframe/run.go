package main

import (
	"context"
	"fmt"
	"io"

	"github.com/go-sif/showframe/cluster"
	"github.com/go-sif/showframe/config"
	"github.com/go-sif/showframe/display"
	"github.com/go-sif/showframe/logging"
	"github.com/go-sif/showframe/operations/util"
	"github.com/go-sif/showframe/session"
)

// rows is the data shown by the command
var rows = [][]interface{}{
	{1, "Alice"},
	{2, "Bob"},
}

// run obtains a session, builds the DataFrame and prints it to out
func run(ctx context.Context, cfg *config.Config, out io.Writer) error {
	s, err := cfg.SessionBuilder().GetOrCreate()
	if err != nil {
		return fmt.Errorf("unable to start session: %w", err)
	}
	defer s.Stop()
	frame, err := s.CreateDataFrame(rows, "id", "name")
	if err != nil {
		return err
	}
	log := logging.WithComponent("showframe")
	log.Debug().Stringer("frame", frame).Msg("created DataFrame")
	if cfg.Clustered() {
		return runClustered(ctx, cfg, frame, out)
	}
	return frame.ShowTo(ctx, out, cfg.DisplayOptions()...)
}

// runClustered runs the Frame as a cluster node. Only the coordinator prints the result.
func runClustered(ctx context.Context, cfg *config.Config, frame *session.Frame, out io.Writer) error {
	df, err := frame.DataFrame().To(util.Collect(0))
	if err != nil {
		return err
	}
	node, err := cluster.CreateNodeInRole(cfg.NodeType, cfg.NodeOptions())
	if err != nil {
		return err
	}
	startErr := make(chan error, 1)
	go func() {
		startErr <- node.Start(df)
	}()
	res, runErr := node.Run(ctx)
	node.GracefulStop()
	if err := <-startErr; err != nil && runErr == nil {
		runErr = err
	}
	if runErr != nil {
		return runErr
	}
	if !node.IsCoordinator() {
		return nil
	}
	return display.Show(out, frame.Schema(), res, cfg.DisplayOptions()...)
}
