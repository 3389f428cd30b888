package dbx

import (
	"context"
)

// AsyncExecutor sends executes of prepared statements without waiting for their results.
//
// Every call to Execute leaves one outstanding command on the connection, represented by the
// returned AsyncQuery. The caller must drain it (AsyncQuery.Result) before executing anything
// else on the same connection. The executor takes no lock: sharing a connection between
// goroutines requires external synchronization.
type AsyncExecutor struct {
	conn     AsyncConn
	preparer ParamPreparer
	observer QueryObserver
	builder  ResultBuilder
}

// ExecutorOption customizes an AsyncExecutor.
type ExecutorOption func(*AsyncExecutor)

// WithParamPreparer sets the parameter preparation strategy. Defaults to DefaultParamPreparer.
func WithParamPreparer(preparer ParamPreparer) ExecutorOption {
	return func(e *AsyncExecutor) {
		if preparer != nil {
			e.preparer = preparer
		}
	}
}

// WithObserver sets the instrumentation sink. Defaults to NopObserver.
func WithObserver(observer QueryObserver) ExecutorOption {
	return func(e *AsyncExecutor) {
		if observer != nil {
			e.observer = observer
		}
	}
}

// WithResultBuilder sets the strategy handed to every AsyncQuery. Defaults to TextResultBuilder.
func WithResultBuilder(builder ResultBuilder) ExecutorOption {
	return func(e *AsyncExecutor) {
		if builder != nil {
			e.builder = builder
		}
	}
}

// NewAsyncExecutor creates an AsyncExecutor sending on conn.
func NewAsyncExecutor(conn AsyncConn, opts ...ExecutorOption) *AsyncExecutor {
	e := &AsyncExecutor{
		conn:     conn,
		preparer: DefaultParamPreparer{},
		observer: NopObserver{},
		builder:  TextResultBuilder{},
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Execute is ExecuteArgs with variadic parameters.
func (e *AsyncExecutor) Execute(ctx context.Context, stmt *PreparedStatement, params ...any) (*AsyncQuery, error) {
	return e.ExecuteArgs(ctx, stmt, params)
}

// ExecuteArgs prepares stmt if needed, then sends an execute command for it with params.
//
// Behavior:
//   - The statement is prepared first (see PreparedStatement.EnsurePrepared); a prepare failure is
//     returned unchanged.
//   - The params are run through the ParamPreparer.
//   - The execute command is sent; the call does not wait for the server to run it.
//   - The observer is notified with no elapsed time, then a new AsyncQuery is returned.
//
// Errors:
//   - *PrepareFailedError from the prepare step.
//   - *ExecuteFailedError when the params cannot be prepared or the execute cannot be sent.
//     Nothing is retried.
func (e *AsyncExecutor) ExecuteArgs(ctx context.Context, stmt *PreparedStatement, params []any) (*AsyncQuery, error) {
	name, err := stmt.EnsurePrepared(ctx)
	if err != nil {
		return nil, err
	}

	prepared, err := e.preparer.PrepareParams(params)
	if err != nil {
		return nil, NewExecuteFailedError(name, NewQuery(stmt.SQL(), params), err.Error(), err)
	}

	query := NewQuery(stmt.SQL(), prepared)

	if err := e.conn.SendExecute(ctx, name, prepared); err != nil {
		return nil, NewExecuteFailedError(name, query, e.conn.LastError(), err)
	}

	e.observer.OnQuery(ctx, query, nil, name)

	return newAsyncQuery(e.conn, e.builder, query, name), nil
}
