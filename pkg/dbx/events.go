package dbx

import (
	"context"
	"time"

	"github.com/marcodd23/go-pgasync/pkg/logx"
)

// QueryObserver receives a notification for every query sent to the server.
//
// elapsed is nil when the duration is not known yet, which is always the case for asynchronous
// executes. statementName is empty for queries that do not run through a prepared statement.
// Observers must not block and cannot influence the control flow of the caller.
type QueryObserver interface {
	OnQuery(ctx context.Context, query Query, elapsed *time.Duration, statementName string)
}

// ObserverFunc adapts a function to the QueryObserver interface.
type ObserverFunc func(ctx context.Context, query Query, elapsed *time.Duration, statementName string)

// OnQuery calls f.
func (f ObserverFunc) OnQuery(ctx context.Context, query Query, elapsed *time.Duration, statementName string) {
	f(ctx, query, elapsed, statementName)
}

// NopObserver discards every notification.
type NopObserver struct{}

// OnQuery noop.
func (NopObserver) OnQuery(context.Context, Query, *time.Duration, string) {}

// MultiObserver fans a notification out to several observers, in order.
type MultiObserver []QueryObserver

// OnQuery - QueryObserver implementation.
func (m MultiObserver) OnQuery(ctx context.Context, query Query, elapsed *time.Duration, statementName string) {
	for _, o := range m {
		if o != nil {
			o.OnQuery(ctx, query, elapsed, statementName)
		}
	}
}

// LoggingObserver writes a debug log line for every query through logx.
type LoggingObserver struct{}

// OnQuery - QueryObserver implementation.
func (LoggingObserver) OnQuery(ctx context.Context, query Query, elapsed *time.Duration, statementName string) {
	fields := map[string]any{
		"sql":    query.SQL,
		"params": query.Params,
	}

	if statementName != "" {
		fields["statement"] = statementName
	}

	if elapsed != nil {
		fields["elapsedMs"] = float64(*elapsed) / float64(time.Millisecond)
	}

	logx.GetLogger().LogDebugWithFields(ctx, "query sent", fields)
}
