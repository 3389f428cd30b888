package configmgr

import (
	"github.com/marcodd23/go-pgasync/pkg/dbx"
)

// Config - config interface.
type Config interface {
	GetServiceName() string
	GetVersion() string
	GetEnvironment() string
	GetLogLevel() string
	GetLoggingConfig() *LoggingConfig
	GetDatabaseConfig() *dbx.ConnConfig
	GetStatementsConfig() *StatementsConfig
	IsLocalEnvironment() bool
}

// BaseConfig - app config struct.
// This struct represents the base configuration for the application and is expected to be in the following YAML format:
/*
name: "TestApp"
environment: "development"
version: "1.0"
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
  namePrefix: "s_auto_"
  logQueries: true
*/
type BaseConfig struct {
	Name        string            `mapstructure:"name" validate:"required"`
	Environment string            `mapstructure:"environment"`
	Version     string            `mapstructure:"version"`
	Logging     *LoggingConfig    `mapstructure:"logging"`
	Database    *dbx.ConnConfig   `mapstructure:"database" validate:"required"`
	Statements  *StatementsConfig `mapstructure:"statements"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
}

// StatementsConfig - prepared statement settings.
type StatementsConfig struct {
	// NamePrefix is prepended to the generated statement names (default dbx.DefaultStatementNamePrefix).
	NamePrefix string `mapstructure:"namePrefix" validate:"omitempty,max=32,stmtprefix"`
	// LogQueries logs every asynchronous execute at debug level.
	LogQueries bool `mapstructure:"logQueries"`
}

func (cfg BaseConfig) GetServiceName() string {
	return cfg.Name
}

func (cfg BaseConfig) GetVersion() string {
	return cfg.Version
}

func (cfg BaseConfig) GetEnvironment() string {
	return cfg.Environment
}

func (cfg BaseConfig) IsLocalEnvironment() bool {
	return checkIfLocalEnv(cfg.Environment)
}

func (cfg BaseConfig) GetLoggingConfig() *LoggingConfig {
	return cfg.Logging
}

// GetLogLevel - the configured log level, "info" when the logging section is missing.
func (cfg BaseConfig) GetLogLevel() string {
	if cfg.Logging == nil || cfg.Logging.Level == "" {
		return "info"
	}

	return cfg.Logging.Level
}

func (cfg BaseConfig) GetDatabaseConfig() *dbx.ConnConfig {
	return cfg.Database
}

// GetStatementsConfig - never nil, defaults are returned when the section is missing.
func (cfg BaseConfig) GetStatementsConfig() *StatementsConfig {
	if cfg.Statements == nil {
		return &StatementsConfig{NamePrefix: dbx.DefaultStatementNamePrefix}
	}

	return cfg.Statements
}

// SessionOptions - translate the statements section into dbx session options.
func (cfg BaseConfig) SessionOptions() []dbx.SessionOption {
	stmtCfg := cfg.GetStatementsConfig()

	opts := []dbx.SessionOption{
		dbx.WithStatementNamer(dbx.NewSequentialNamer(stmtCfg.NamePrefix)),
	}

	if stmtCfg.LogQueries {
		opts = append(opts, dbx.WithExecutorOptions(dbx.WithObserver(dbx.LoggingObserver{})))
	}

	return opts
}
