package logx_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcodd23/go-pgasync/pkg/logx"
)

type loggerConfig struct {
	env   string
	level string
}

func (c loggerConfig) GetServiceName() string { return "pgasync-test" }
func (c loggerConfig) GetVersion() string     { return "1.0.0" }
func (c loggerConfig) GetEnvironment() string { return c.env }
func (c loggerConfig) GetLogLevel() string    { return c.level }

func setup(t *testing.T, cfg loggerConfig) (logx.Logger, *bytes.Buffer) {
	t.Helper()

	var buf bytes.Buffer
	l := logx.SetupLoggerWithWriter(cfg, &buf)

	t.Cleanup(func() {
		logx.SetLogger(nil)
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	})

	return l, &buf
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))

	return line
}

func TestSetupLogger_JSONInDeployedEnvironments(t *testing.T) {
	l, buf := setup(t, loggerConfig{env: "PROD", level: "debug"})
	assert.Same(t, l, logx.GetLogger())

	l.LogError(context.Background(), "query failed", errors.New("boom"))

	line := decodeLine(t, buf)
	assert.Equal(t, "query failed", line["message"])
	assert.Equal(t, "ERROR", line["severity"])
	assert.Equal(t, "boom", line["error"])
	assert.Equal(t, "pgasync-test", line["service"])
	assert.Equal(t, map[string]any{"environment": "PROD", "version": "1.0.0"}, line["serviceContext"])
}

func TestSetupLogger_DebugFields(t *testing.T) {
	l, buf := setup(t, loggerConfig{env: "DEV", level: "debug"})

	l.LogDebugWithFields(context.Background(), "query sent", map[string]any{"sql": "SELECT $1", "statement": "s_auto_1"})

	line := decodeLine(t, buf)
	assert.Equal(t, "DEBUG", line["severity"])
	assert.Equal(t, "SELECT $1", line["sql"])
	assert.Equal(t, "s_auto_1", line["statement"])
}

func TestSetupLogger_LevelFiltersDebug(t *testing.T) {
	l, buf := setup(t, loggerConfig{env: "STAGE", level: "info"})

	l.LogDebug(context.Background(), "hidden")
	assert.Zero(t, buf.Len())

	l.LogInfo(context.Background(), "shown")
	assert.Equal(t, "shown", decodeLine(t, buf)["message"])
}

func TestSetupLogger_ConsoleInLocalEnvironment(t *testing.T) {
	l, buf := setup(t, loggerConfig{env: "local", level: "info"})

	l.LogWarning(context.Background(), "slow drain")

	out := buf.String()
	assert.True(t, strings.Contains(out, "slow drain"))
	assert.False(t, strings.HasPrefix(strings.TrimSpace(out), "{"))
}

func TestGetLogger_DefaultBeforeSetup(t *testing.T) {
	logx.SetLogger(nil)

	_, ok := logx.GetLogger().(*logx.DefaultLogger)
	assert.True(t, ok)
}
