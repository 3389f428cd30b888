package dbx

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/marcodd23/go-pgasync/pkg/logx"
)

// AsyncQuery is the handle of one in-flight asynchronous execute.
//
// It borrows the connection the execute was sent on: no other command may be sent on that
// connection until Result has been called, even when the caller is not interested in the rows.
// A handle is single use.
type AsyncQuery struct {
	id            uuid.UUID
	conn          AsyncConn
	query         Query
	statementName string
	builder       ResultBuilder
	consumed      bool
}

func newAsyncQuery(conn AsyncConn, builder ResultBuilder, query Query, statementName string) *AsyncQuery {
	return &AsyncQuery{
		id:            uuid.New(),
		conn:          conn,
		query:         query,
		statementName: statementName,
		builder:       builder,
	}
}

// ID returns the handle identifier, used to correlate log lines.
func (aq *AsyncQuery) ID() uuid.UUID {
	return aq.id
}

// Query returns the query the handle was created for.
func (aq *AsyncQuery) Query() Query {
	return aq.query
}

// StatementName returns the prepared statement the execute referenced.
func (aq *AsyncQuery) StatementName() string {
	return aq.statementName
}

// Consumed reports whether Result has already been called.
func (aq *AsyncQuery) Consumed() bool {
	return aq.consumed
}

// Result blocks until the server result of the execute is available and materializes it.
//
// A call whose ctx is done before the result is read leaves the handle unconsumed, so Result may
// be called again with another context.
//
// Errors:
//   - ErrResultConsumed if Result already returned a result or a failure.
//   - *QueryFailedError if the result cannot be fetched or the server reports an error.
//   - any error returned by the ResultBuilder.
func (aq *AsyncQuery) Result(ctx context.Context) (*Result, error) {
	if aq.consumed {
		return nil, ErrResultConsumed
	}

	aq.consumed = true

	raw, err := aq.conn.FetchResult(ctx)
	if err != nil && ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		aq.consumed = false
		return nil, NewQueryFailedError(aq.statementName, aq.query, err.Error(), err)
	}

	if err != nil || raw == nil {
		logx.GetLogger().LogError(ctx, fmt.Sprintf("asynchronous query %s: no result for statement '%s'", aq.id, aq.statementName), err)
		return nil, NewQueryFailedError(aq.statementName, aq.query, aq.conn.LastError(), err)
	}

	if raw.Failed() {
		return nil, NewQueryFailedError(aq.statementName, aq.query, raw.ErrorText(), raw.Err)
	}

	res, err := aq.builder.Build(ctx, aq.query, raw)
	if err != nil {
		return nil, fmt.Errorf("asynchronous query %s: building result: %w", aq.id, err)
	}

	res.StatementName = aq.statementName

	return res, nil
}
