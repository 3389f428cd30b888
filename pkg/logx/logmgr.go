//nolint:gochecknoglobals
package logx

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
)

// ServiceContext - service metadata attached to every log line.
type ServiceContext struct {
	Environment string `json:"environment"`
	Version     string `json:"version"`
}

// LoggerConfig - the subset of the application configuration the logger needs.
type LoggerConfig interface {
	GetServiceName() string
	GetVersion() string
	GetEnvironment() string
	GetLogLevel() string
}

// Logger - logger interface.
type Logger interface {
	// LogInfo logs a message at Info level.
	LogInfo(ctx context.Context, msg string)
	// LogDebug logs a message at Debug level.
	LogDebug(ctx context.Context, msg string)
	// LogDebugWithFields logs a message at Debug level with structured fields.
	LogDebugWithFields(ctx context.Context, msg string, fields map[string]any)
	// LogWarning logs a message at Warning level.
	LogWarning(ctx context.Context, msg string, errs ...error)
	// LogError logs a message at Error level.
	LogError(ctx context.Context, msg string, errs ...error)
	// LogPanic logs a message at Panic level then panics.
	LogPanic(ctx context.Context, msg string, errs ...error)
	// LogFatal logs a message at Fatal Level.
	// The logger then calls os.Exit(1), even if logging at FatalLevel is
	// disabled.
	LogFatal(ctx context.Context, msg string, errs ...error)

	GetLogger() interface{}
}

var logger Logger

// DefaultLogger - Logger implementation backed by the standard library logger.
// Used until SetupLogger is called.
type DefaultLogger struct{}

// GetLogger - returns an instance of the Logger.
// If called before SetupLogger the DefaultLogger will be returned.
func GetLogger() Logger {
	if logger == nil {
		return &DefaultLogger{}
	}

	return logger
}

// SetLogger - replace the global logger (tests use it to capture output).
func SetLogger(l Logger) {
	logger = l
}

func withErrs(msg string, errs []error) string {
	for _, err := range errs {
		if err != nil {
			msg = fmt.Sprintf("%s error=%q", msg, err.Error())
		}
	}

	return msg
}

// LogInfo prints the message.
func (nl *DefaultLogger) LogInfo(ctx context.Context, msg string) {
	log.Println("INFO " + msg)
}

// LogDebug prints the message.
func (nl *DefaultLogger) LogDebug(ctx context.Context, msg string) {
	log.Println("DEBUG " + msg)
}

// LogDebugWithFields prints the message followed by the fields sorted by key.
func (nl *DefaultLogger) LogDebugWithFields(ctx context.Context, msg string, fields map[string]any) {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString("DEBUG " + msg)
	for _, k := range keys {
		sb.WriteString(fmt.Sprintf(" %s=%v", k, fields[k]))
	}

	log.Println(sb.String())
}

// LogWarning prints the message.
func (nl *DefaultLogger) LogWarning(ctx context.Context, msg string, errs ...error) {
	log.Println("WARN " + withErrs(msg, errs))
}

// LogError prints the message.
func (nl *DefaultLogger) LogError(ctx context.Context, msg string, errs ...error) {
	log.Println("ERROR " + withErrs(msg, errs))
}

// LogPanic prints the message then panics.
func (nl *DefaultLogger) LogPanic(ctx context.Context, msg string, errs ...error) {
	log.Panicln("PANIC " + withErrs(msg, errs))
}

// LogFatal prints the message then exits.
func (nl *DefaultLogger) LogFatal(ctx context.Context, msg string, errs ...error) {
	log.Fatalln("FATAL " + withErrs(msg, errs))
}

// GetLogger noop.
func (nl *DefaultLogger) GetLogger() interface{} { return nil }
