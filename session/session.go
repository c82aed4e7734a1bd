package session

import (
	"context"
	"fmt"

	"github.com/go-sif/showframe"
	"github.com/go-sif/showframe/datasource/literal"
	"github.com/go-sif/showframe/datasource/memory"
	"github.com/go-sif/showframe/datasource/parser/dsv"
	"github.com/go-sif/showframe/datasource/parser/jsonl"
	"github.com/go-sif/showframe/internal/dataframe"
	"github.com/go-sif/showframe/logging"
)

// Session executes DataFrames on a local pool of workers
type Session struct {
	appName         string
	master          string
	numWorkers      int
	partitionSize   int
	ignoreRowErrors bool
	conf            map[string]string
}

// AppName returns the application name of this Session
func (s *Session) AppName() string {
	return s.appName
}

// Master returns the master URL of this Session
func (s *Session) Master() string {
	return s.master
}

// NumWorkers returns the maximum number of PartitionLoaders this Session processes concurrently
func (s *Session) NumWorkers() int {
	return s.numWorkers
}

// Conf returns the value of a configuration option
func (s *Session) Conf(key string) (string, bool) {
	v, ok := s.conf[key]
	return v, ok
}

// CreateDataFrame builds a Frame from literal rows. Column types are inferred from
// the data, and missing column names are generated as _1, _2, etc.
func (s *Session) CreateDataFrame(data [][]interface{}, columns ...string) (*Frame, error) {
	df, err := literal.CreateDataFrame(data, columns, &literal.Conf{PartitionSize: s.partitionSize})
	if err != nil {
		return nil, err
	}
	return s.Wrap(df), nil
}

// ReadJSONLines builds a Frame from buffers of JSON lines. Each buffer is loaded
// independently, and column names are gjson paths into each document.
func (s *Session) ReadJSONLines(schema showframe.Schema, data ...[]byte) (*Frame, error) {
	if schema == nil || schema.NumColumns() == 0 {
		return nil, fmt.Errorf("ReadJSONLines requires a Schema with at least one column")
	}
	parser := jsonl.CreateParser(&jsonl.ParserConf{PartitionSize: s.partitionSize})
	return s.Wrap(memory.CreateDataFrame(data, parser, schema)), nil
}

// ReadDelimited builds a Frame from buffers of delimiter-separated values, such as CSV.
// Fields are assigned to columns by position. A nil conf reads comma-separated values
// without a header. conf.PartitionSize defaults to the Session's partition size.
func (s *Session) ReadDelimited(schema showframe.Schema, conf *dsv.ParserConf, data ...[]byte) (*Frame, error) {
	if schema == nil || schema.NumColumns() == 0 {
		return nil, fmt.Errorf("ReadDelimited requires a Schema with at least one column")
	}
	pconf := dsv.ParserConf{}
	if conf != nil {
		pconf = *conf
	}
	if pconf.PartitionSize == 0 {
		pconf.PartitionSize = s.partitionSize
	}
	parser, err := dsv.CreateParser(&pconf)
	if err != nil {
		return nil, err
	}
	return s.Wrap(memory.CreateDataFrame(data, parser, schema)), nil
}

// Wrap binds any DataFrame to this Session
func (s *Session) Wrap(df showframe.DataFrame) *Frame {
	return &Frame{session: s, df: df}
}

// Run executes a DataFrame, which must end in a Collect or Accumulate
func (s *Session) Run(ctx context.Context, df showframe.DataFrame) (*showframe.Result, error) {
	log := logging.WithComponent("session")
	res, err := dataframe.ExecuteDataFrame(ctx, df, &dataframe.PlanExecutorConfig{
		NumWorkers:      s.numWorkers,
		IgnoreRowErrors: s.ignoreRowErrors,
	})
	if err != nil {
		return nil, err
	}
	log.Debug().
		Str("app", s.appName).
		Dur("runtime", res.Stats.GetRuntime()).
		Ints64("rows", res.Stats.GetNumRowsProcessed()).
		Msg("finished run")
	return res, nil
}

// Stop clears the active Session, so that the next GetOrCreate builds a new one
func (s *Session) Stop() {
	activeLock.Lock()
	defer activeLock.Unlock()
	if active == s {
		active = nil
	}
}
