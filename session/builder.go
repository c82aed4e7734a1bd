package session

import (
	"fmt"
	"regexp"
	"runtime"
	"strconv"
	"sync"

	"github.com/go-sif/showframe/datasource/literal"
	"github.com/go-sif/showframe/logging"
)

const (
	// PartitionSizeKey configures the number of rows per Partition for literal DataFrames
	PartitionSizeKey = "showframe.partition.size"
	// IgnoreRowErrorsKey configures whether row errors are logged and dropped rather than failing a run
	IgnoreRowErrorsKey = "showframe.ignoreRowErrors"
	// DefaultMaster runs DataFrames on a single local worker
	DefaultMaster = "local"
	// DefaultAppName is used when no application name is configured
	DefaultAppName = "showframe"
)

var (
	activeLock sync.Mutex
	active     *Session
	masterExp  = regexp.MustCompile(`^local(?:\[(\*|[0-9]+)\])?$`)
)

// SessionBuilder configures a Session
type SessionBuilder struct {
	appName string
	master  string
	conf    map[string]string
}

// Builder returns a fresh SessionBuilder
func Builder() *SessionBuilder {
	return &SessionBuilder{conf: make(map[string]string)}
}

// AppName sets the application name, which is attached to log entries
func (b *SessionBuilder) AppName(name string) *SessionBuilder {
	b.appName = name
	return b
}

// Master sets where DataFrames are executed: local, local[N] or local[*]
func (b *SessionBuilder) Master(master string) *SessionBuilder {
	b.master = master
	return b
}

// Config sets a configuration option
func (b *SessionBuilder) Config(key string, value string) *SessionBuilder {
	b.conf[key] = value
	return b
}

func (b *SessionBuilder) isEmpty() bool {
	return b.appName == "" && b.master == "" && len(b.conf) == 0
}

// GetOrCreate returns the active Session if there is one, and otherwise creates it from this SessionBuilder's options
func (b *SessionBuilder) GetOrCreate() (*Session, error) {
	activeLock.Lock()
	defer activeLock.Unlock()
	log := logging.WithComponent("session")
	if active != nil {
		if !b.isEmpty() {
			log.Warn().Str("app", active.appName).Msg("using an existing session; new options are ignored")
		}
		return active, nil
	}
	s, err := b.build()
	if err != nil {
		return nil, err
	}
	log.Info().
		Str("app", s.appName).
		Str("master", s.master).
		Int("workers", s.numWorkers).
		Msg("created session")
	active = s
	return s, nil
}

func (b *SessionBuilder) build() (*Session, error) {
	s := &Session{
		appName:       b.appName,
		master:        b.master,
		partitionSize: literal.DefaultPartitionSize,
		conf:          make(map[string]string, len(b.conf)),
	}
	if s.appName == "" {
		s.appName = DefaultAppName
	}
	if s.master == "" {
		s.master = DefaultMaster
	}
	numWorkers, err := parseMaster(s.master)
	if err != nil {
		return nil, err
	}
	s.numWorkers = numWorkers
	for k, v := range b.conf {
		s.conf[k] = v
	}
	if v, ok := s.conf[PartitionSizeKey]; ok {
		size, err := strconv.Atoi(v)
		if err != nil || size <= 0 {
			return nil, fmt.Errorf("%s must be a positive integer, was %q", PartitionSizeKey, v)
		}
		s.partitionSize = size
	}
	if v, ok := s.conf[IgnoreRowErrorsKey]; ok {
		ignore, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("%s must be a boolean, was %q", IgnoreRowErrorsKey, v)
		}
		s.ignoreRowErrors = ignore
	}
	return s, nil
}

// parseMaster returns the number of workers described by a master URL
func parseMaster(master string) (int, error) {
	m := masterExp.FindStringSubmatch(master)
	if m == nil {
		return 0, fmt.Errorf("Unsupported master %q: expected local, local[N] or local[*]", master)
	}
	switch m[1] {
	case "":
		return 1, nil
	case "*":
		return runtime.NumCPU(), nil
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("Unsupported master %q: number of workers must be positive", master)
	}
	return n, nil
}

// Active returns the active Session, or nil if there isn't one
func Active() *Session {
	activeLock.Lock()
	defer activeLock.Unlock()
	return active
}
