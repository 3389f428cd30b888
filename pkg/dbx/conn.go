package dbx

import (
	"context"
)

// AsyncConn defines the contract of a single database connection able to run one asynchronous
// command at a time.
//
// The protocol implemented on top of it is strictly sequential: every successful Send* call leaves
// exactly one outstanding command on the connection, and that command must be drained with
// FetchResult before the next Send* call. Implementations must reject a send issued while a
// previous command is still undrained with ErrConnBusy instead of interleaving the two.
//
// AsyncConn is not safe for concurrent use. Callers sharing one connection between goroutines
// must serialize access themselves (a mutex or a single owner goroutine).
//
// Methods:
//   - SendPrepare: sends a "prepare" command registering sql under name. A nil error means the
//     command was accepted by the transport, not that the server accepted the statement.
//   - SendExecute: sends an "execute" command for the prepared statement name with params.
//   - FetchResult: blocks until the result of the outstanding command is available. A nil
//     RawResult with an error means no result could be obtained at all. A server-side failure
//     is reported through RawResult.Err. When ctx is already done the error wraps ctx.Err() and
//     the result stays pending.
//   - LastError: text of the last transport level error, empty if none.
//   - IsBusy: reports whether a command is outstanding.
type AsyncConn interface {
	SendPrepare(ctx context.Context, name, sql string) error
	SendExecute(ctx context.Context, name string, params []any) error
	FetchResult(ctx context.Context) (*RawResult, error)
	LastError() string
	IsBusy() bool
}
