package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-sif/showframe/display"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, kv := range os.Environ() {
		for i := 0; i < len(kv); i++ {
			if kv[i] == '=' {
				if name := kv[:i]; len(name) > 10 && name[:10] == "SHOWFRAME_" {
					t.Setenv(name, "")
					os.Unsetenv(name)
				}
				break
			}
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load()
	require.Nil(t, err)
	require.Equal(t, "showframe", cfg.AppName)
	require.Equal(t, "local", cfg.Master)
	require.Equal(t, 128, cfg.PartitionSize)
	require.Equal(t, 20, cfg.ShowRows)
	require.Equal(t, 20, cfg.ShowTruncate)
	require.False(t, cfg.Clustered())
	require.Equal(t, 30*time.Second, cfg.WorkerJoinTimeout)
	opts := display.NewOptions(cfg.DisplayOptions()...)
	require.Equal(t, 20, opts.NumRows)
	require.Equal(t, 20, opts.Truncate)
	require.False(t, opts.Vertical)
}

func TestLoadEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("SHOWFRAME_MASTER", "local[4]")
	t.Setenv("SHOWFRAME_NODE_TYPE", "worker")
	t.Setenv("SHOWFRAME_PORT", "9000")
	t.Setenv("SHOWFRAME_SHOW_TRUNCATE", "0")
	t.Setenv("SHOWFRAME_SHOW_VERTICAL", "true")
	cfg, err := Load()
	require.Nil(t, err)
	require.Equal(t, "local[4]", cfg.Master)
	require.True(t, cfg.Clustered())
	nopts := cfg.NodeOptions()
	require.Equal(t, 9000, nopts.Port)
	require.Equal(t, "127.0.0.1", nopts.CoordinatorHost)
	require.Equal(t, "lz4", nopts.Compression)
	opts := display.NewOptions(cfg.DisplayOptions()...)
	require.Equal(t, 0, opts.Truncate)
	require.True(t, opts.Vertical)
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.Nil(t, os.WriteFile(envFile, []byte("SHOWFRAME_APP_NAME=fromfile\nSHOWFRAME_MASTER=local[2]\n"), 0o600))
	// set variables win over the file
	t.Setenv("SHOWFRAME_MASTER", "local[3]")
	cfg, err := Load(envFile, filepath.Join(dir, "missing.env"))
	t.Cleanup(func() { os.Unsetenv("SHOWFRAME_APP_NAME") })
	require.Nil(t, err)
	require.Equal(t, "fromfile", cfg.AppName)
	require.Equal(t, "local[3]", cfg.Master)
}

func TestLoadInvalid(t *testing.T) {
	clearEnv(t)
	t.Setenv("SHOWFRAME_NODE_TYPE", "janitor")
	_, err := Load()
	require.NotNil(t, err)

	clearEnv(t)
	t.Setenv("SHOWFRAME_PARTITION_SIZE", "0")
	_, err = Load()
	require.NotNil(t, err)

	clearEnv(t)
	t.Setenv("SHOWFRAME_PORT", "not-a-port")
	_, err = Load()
	require.NotNil(t, err)
}

func TestLoadMalformedValues(t *testing.T) {
	for name, value := range map[string]string{
		"SHOWFRAME_SHOW_ROWS":         "twenty",
		"SHOWFRAME_RPC_TIMEOUT":       "soon",
		"SHOWFRAME_SHOW_VERTICAL":     "sideways",
		"SHOWFRAME_PORT":              "not-a-port",
		"SHOWFRAME_PARTITION_SIZE":    "1.5",
		"SHOWFRAME_IGNORE_ROW_ERRORS": "maybe",
	} {
		clearEnv(t)
		t.Setenv(name, value)
		cfg, err := Load()
		require.NotNil(t, err, name)
		require.Nil(t, cfg, name)
	}
}

func TestSessionBuilder(t *testing.T) {
	clearEnv(t)
	t.Setenv("SHOWFRAME_MASTER", "local[2]")
	cfg, err := Load()
	require.Nil(t, err)
	s, err := cfg.SessionBuilder().GetOrCreate()
	require.Nil(t, err)
	defer s.Stop()
	require.Equal(t, 2, s.NumWorkers())
}
