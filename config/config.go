// Package config reads showframe settings from SHOWFRAME_* environment variables,
// optionally seeded from .env files
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"time"

	"github.com/go-sif/showframe/cluster"
	"github.com/go-sif/showframe/display"
	"github.com/go-sif/showframe/logging"
	"github.com/go-sif/showframe/session"
	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

// Config holds every setting of the showframe command
type Config struct {
	AppName         string `env:"SHOWFRAME_APP_NAME,default=showframe"`
	Master          string `env:"SHOWFRAME_MASTER,default=local"`
	PartitionSize   int    `env:"SHOWFRAME_PARTITION_SIZE,default=128"`
	IgnoreRowErrors bool   `env:"SHOWFRAME_IGNORE_ROW_ERRORS"`

	LogLevel   string `env:"SHOWFRAME_LOG_LEVEL,default=warn"`
	LogConsole bool   `env:"SHOWFRAME_LOG_CONSOLE,default=true"`

	ShowRows     int  `env:"SHOWFRAME_SHOW_ROWS,default=20"`
	ShowTruncate int  `env:"SHOWFRAME_SHOW_TRUNCATE,default=20"`
	ShowVertical bool `env:"SHOWFRAME_SHOW_VERTICAL"`

	// cluster settings only apply when NodeType is set
	NodeType          string        `env:"SHOWFRAME_NODE_TYPE"`
	Host              string        `env:"SHOWFRAME_HOST"`
	Port              int           `env:"SHOWFRAME_PORT"`
	CoordinatorHost   string        `env:"SHOWFRAME_COORDINATOR_HOST,default=127.0.0.1"`
	CoordinatorPort   int           `env:"SHOWFRAME_COORDINATOR_PORT"`
	NumWorkers        int           `env:"SHOWFRAME_NUM_WORKERS,default=1"`
	Compression       string        `env:"SHOWFRAME_COMPRESSION,default=lz4"`
	WorkerJoinTimeout time.Duration `env:"SHOWFRAME_WORKER_JOIN_TIMEOUT,default=30s"`
	RPCTimeout        time.Duration `env:"SHOWFRAME_RPC_TIMEOUT,default=5s"`
}

// Load reads the given .env files, if they exist, and then decodes the environment.
// Variables which are already set are never overridden by a .env file.
func Load(envFiles ...string) (*Config, error) {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("unable to load %s: %w", f, err)
		}
	}
	cfg := &Config{}
	if err := envdecode.StrictDecode(cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings which cannot be expressed through defaults
func (c *Config) Validate() error {
	if c.PartitionSize <= 0 {
		return fmt.Errorf("SHOWFRAME_PARTITION_SIZE must be positive, got %d", c.PartitionSize)
	}
	if c.ShowRows < 0 {
		return fmt.Errorf("SHOWFRAME_SHOW_ROWS must not be negative, got %d", c.ShowRows)
	}
	switch c.NodeType {
	case "", cluster.Coordinator, cluster.Worker:
	default:
		return fmt.Errorf("SHOWFRAME_NODE_TYPE must be %q or %q, got %q", cluster.Coordinator, cluster.Worker, c.NodeType)
	}
	return nil
}

// Clustered returns true iff the command should run as a cluster node
func (c *Config) Clustered() bool {
	return len(c.NodeType) > 0
}

// Logging returns the base logger configuration
func (c *Config) Logging() logging.Config {
	return logging.Config{Level: c.LogLevel, App: c.AppName, Console: c.LogConsole}
}

// SessionBuilder returns a builder for the Session described by this Config
func (c *Config) SessionBuilder() *session.SessionBuilder {
	return session.Builder().
		AppName(c.AppName).
		Master(c.Master).
		Config(session.PartitionSizeKey, strconv.Itoa(c.PartitionSize)).
		Config(session.IgnoreRowErrorsKey, strconv.FormatBool(c.IgnoreRowErrors))
}

// NodeOptions returns the options for a cluster node
func (c *Config) NodeOptions() *cluster.NodeOptions {
	return &cluster.NodeOptions{
		Host:              c.Host,
		Port:              c.Port,
		CoordinatorHost:   c.CoordinatorHost,
		CoordinatorPort:   c.CoordinatorPort,
		NumWorkers:        c.NumWorkers,
		Compression:       c.Compression,
		WorkerJoinTimeout: c.WorkerJoinTimeout,
		RPCTimeout:        c.RPCTimeout,
		IgnoreRowErrors:   c.IgnoreRowErrors,
	}
}

// DisplayOptions returns the options for printing a table
func (c *Config) DisplayOptions() []display.Option {
	opts := []display.Option{display.WithNumRows(c.ShowRows)}
	if c.ShowTruncate > 0 {
		opts = append(opts, display.WithTruncate(c.ShowTruncate))
	} else {
		opts = append(opts, display.WithoutTruncation())
	}
	if c.ShowVertical {
		opts = append(opts, display.WithVertical())
	}
	return opts
}
