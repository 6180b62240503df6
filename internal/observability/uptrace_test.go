package observability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/football-etl/internal/config"
	"github.com/riskibarqy/football-etl/internal/platform/logging"
)

func TestInitUptrace_Disabled(t *testing.T) {
	cfg := config.Config{
		UptraceEnabled: false,
		ServiceName:    "football-etl",
		ServiceVersion: "dev",
		AppEnv:         config.EnvDev,
	}

	shutdown, err := InitUptrace(cfg, logging.NewNop())
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}

func TestInitPyroscope_Disabled(t *testing.T) {
	stop, err := InitPyroscope(config.Config{PyroscopeEnabled: false}, logging.NewNop())
	require.NoError(t, err)
	require.NoError(t, stop())
}

func TestPyroscopeConfig_DefaultsAppName(t *testing.T) {
	t.Parallel()

	cfg := config.Config{
		ServiceName:            "football-etl",
		ServiceVersion:         "1.4.0",
		AppEnv:                 config.EnvProd,
		DBDriver:               "postgres",
		PyroscopeServerAddress: "http://pyroscope:4040",
		PyroscopeUploadRate:    15 * time.Second,
	}

	got := pyroscopeConfig(cfg)
	assert.Equal(t, "football-etl", got.ApplicationName)
	assert.Equal(t, "postgres", got.Tags["db_driver"])
	assert.Equal(t, "1.4.0", got.Tags["version"])
	assert.Equal(t, 15*time.Second, got.UploadRate)

	cfg.PyroscopeAppName = "football-etl.sync"
	assert.Equal(t, "football-etl.sync", pyroscopeConfig(cfg).ApplicationName)
}
