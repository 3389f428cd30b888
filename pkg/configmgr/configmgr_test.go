package configmgr_test

import (
	"os"
	"testing"
	"time"

	"github.com/marcodd23/go-pgasync/pkg/configmgr"
	"github.com/marcodd23/go-pgasync/pkg/dbx"
	"github.com/marcodd23/go-pgasync/pkg/errorx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Shared configuration content
var configContent = `
name: "TestApp"
environment: "development"
version: "latest"
logging:
  level: "debug"
database:
  host: localhost
  port: 5432
  name: app
  user: postgres
  password: password
  sslMode: disable
  applicationName: test-app
  connectTimeout: 5s
  isLocalEnv: true
statements:
  namePrefix: "stmt_"
  logQueries: true
`

type TestConfiguration struct {
	configmgr.BaseConfig `mapstructure:",squash"`
}

func createTestConfigFile(t *testing.T, content string) string {
	file, err := os.CreateTemp("", "config-*.yaml")
	if err != nil {
		t.Fatalf("Failed to create temp config file: %v", err)
	}
	defer file.Close()

	_, err = file.WriteString(content)
	if err != nil {
		t.Fatalf("Failed to write to temp config file: %v", err)
	}

	return file.Name()
}

func TestLoadConfigFromFile(t *testing.T) {
	configFilePath := createTestConfigFile(t, configContent)
	defer os.Remove(configFilePath)

	var cfg TestConfiguration
	err := configmgr.ReadConfiguration(configFilePath, &cfg)
	require.NoError(t, err)
	assert.Equal(t, "TestApp", cfg.GetServiceName())
	assert.Equal(t, "development", cfg.GetEnvironment())
	assert.True(t, cfg.IsLocalEnvironment())
	assert.Equal(t, "debug", cfg.GetLogLevel())

	db := cfg.GetDatabaseConfig()
	require.NotNil(t, db)
	assert.Equal(t, "localhost", db.Host)
	assert.Equal(t, int32(5432), db.Port)
	assert.Equal(t, "app", db.DBName)
	assert.Equal(t, "postgres", db.User)
	assert.Equal(t, "disable", db.SSLMode)
	assert.Equal(t, 5*time.Second, db.ConnectTimeout)
	assert.True(t, db.IsLocalEnv)

	stmts := cfg.GetStatementsConfig()
	assert.Equal(t, "stmt_", stmts.NamePrefix)
	assert.True(t, stmts.LogQueries)
}

func TestEnvVariableOverridesConfig(t *testing.T) {
	configFilePath := createTestConfigFile(t, configContent)
	defer os.Remove(configFilePath)

	// Set environment variable to override database port
	t.Setenv("DATABASE_PORT", "6543")

	var cfg TestConfiguration
	err := configmgr.ReadConfiguration(configFilePath, &cfg)
	require.NoError(t, err)
	assert.Equal(t, int32(6543), cfg.GetDatabaseConfig().Port) // Expecting overridden value
	assert.Equal(t, "app", cfg.GetDatabaseConfig().DBName)
}

func TestInvalidConfigIsRejected(t *testing.T) {
	configFilePath := createTestConfigFile(t, `
name: "TestApp"
logging:
  level: "verbose"
database:
  host: localhost
  name: app
  user: postgres
  password: password
`)
	defer os.Remove(configFilePath)

	var cfg TestConfiguration
	err := configmgr.ReadConfiguration(configFilePath, &cfg)
	require.Error(t, err)

	var cfgErr *errorx.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, err.Error(), "Level")
}

func TestMissingDatabaseSectionIsRejected(t *testing.T) {
	configFilePath := createTestConfigFile(t, `
name: "TestApp"
`)
	defer os.Remove(configFilePath)

	var cfg TestConfiguration
	err := configmgr.ReadConfiguration(configFilePath, &cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Database")
}

func TestStatementsDefaults(t *testing.T) {
	cfg := configmgr.BaseConfig{}

	assert.Equal(t, "info", cfg.GetLogLevel())
	assert.Equal(t, dbx.DefaultStatementNamePrefix, cfg.GetStatementsConfig().NamePrefix)
	assert.False(t, cfg.GetStatementsConfig().LogQueries)
	assert.Len(t, cfg.SessionOptions(), 1)
}

func TestInvalidStatementPrefixIsRejected(t *testing.T) {
	configFilePath := createTestConfigFile(t, `
name: "TestApp"
database:
  host: localhost
  name: app
  user: postgres
  password: password
statements:
  namePrefix: "1st-stmt"
`)
	defer os.Remove(configFilePath)

	var cfg TestConfiguration
	err := configmgr.ReadConfiguration(configFilePath, &cfg)

	var cfgErr *errorx.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, err.Error(), "stmtprefix")
}
