package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestToZerologLevel(t *testing.T) {
	require.Equal(t, zerolog.TraceLevel, ToZerologLevel(TraceLevel))
	require.Equal(t, zerolog.InfoLevel, ToZerologLevel(InfoLevel))
	require.Equal(t, zerolog.FatalLevel, ToZerologLevel(FatalLevel))
	require.Equal(t, "WARN", LogLevelToString(WarnLevel))
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	Reset(Config{Level: "info", Output: &buf, App: "test"})
	defer Reset(Config{})
	log := WithComponent("executor")
	log.Info().Msg("hello")
	log.Debug().Msg("hidden")
	out := buf.String()
	require.Contains(t, out, `"component":"executor"`)
	require.Contains(t, out, `"app":"test"`)
	require.Contains(t, out, "hello")
	require.NotContains(t, out, "hidden")
}
