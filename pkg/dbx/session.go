package dbx

import (
	"context"
)

// StatementCache keeps the prepared statements of one connection keyed by their SQL template.
//
// Entries are created lazily and are never prepared by the cache itself. Like the connection it
// belongs to, the cache is not safe for concurrent use.
type StatementCache struct {
	conn  AsyncConn
	namer StatementNamer
	stmts map[string]*PreparedStatement
}

// NewStatementCache creates an empty cache for conn.
func NewStatementCache(conn AsyncConn, namer StatementNamer) *StatementCache {
	return &StatementCache{
		conn:  conn,
		namer: namer,
		stmts: make(map[string]*PreparedStatement),
	}
}

// Get returns the statement for sql, creating an unprepared one on first use.
func (c *StatementCache) Get(sql string) *PreparedStatement {
	if stmt, ok := c.stmts[sql]; ok {
		return stmt
	}

	stmt := NewPreparedStatement(c.conn, c.namer, sql)
	c.stmts[sql] = stmt

	return stmt
}

// Forget drops the client side entry for sql. The server side statement, if any, stays allocated
// until the connection is closed; its name is never reused.
func (c *StatementCache) Forget(sql string) {
	delete(c.stmts, sql)
}

// Len returns the number of cached statements.
func (c *StatementCache) Len() int {
	return len(c.stmts)
}

// AsyncPreparedStatement binds a cached PreparedStatement to the executor of its session.
type AsyncPreparedStatement struct {
	stmt     *PreparedStatement
	executor *AsyncExecutor
}

// Statement returns the underlying PreparedStatement.
func (a *AsyncPreparedStatement) Statement() *PreparedStatement {
	return a.stmt
}

// Execute sends an asynchronous execute of the statement with params.
func (a *AsyncPreparedStatement) Execute(ctx context.Context, params ...any) (*AsyncQuery, error) {
	return a.executor.ExecuteArgs(ctx, a.stmt, params)
}

// ExecuteArgs sends an asynchronous execute of the statement with params.
func (a *AsyncPreparedStatement) ExecuteArgs(ctx context.Context, params []any) (*AsyncQuery, error) {
	return a.executor.ExecuteArgs(ctx, a.stmt, params)
}

// Session groups everything that belongs to one connection: the connection itself, the namer
// that keeps statement names unique on it, the statement cache and the executor.
type Session struct {
	conn     AsyncConn
	cache    *StatementCache
	executor *AsyncExecutor
}

// SessionOption customizes a Session.
type SessionOption func(*sessionOptions)

type sessionOptions struct {
	namer        StatementNamer
	executorOpts []ExecutorOption
}

// WithStatementNamer sets the namer of the session. Defaults to NewSequentialNamer(DefaultStatementNamePrefix).
func WithStatementNamer(namer StatementNamer) SessionOption {
	return func(o *sessionOptions) {
		o.namer = namer
	}
}

// WithExecutorOptions forwards options to the session executor.
func WithExecutorOptions(opts ...ExecutorOption) SessionOption {
	return func(o *sessionOptions) {
		o.executorOpts = append(o.executorOpts, opts...)
	}
}

// NewSession creates a Session over conn.
func NewSession(conn AsyncConn, opts ...SessionOption) *Session {
	o := &sessionOptions{}
	for _, opt := range opts {
		opt(o)
	}

	if o.namer == nil {
		o.namer = NewSequentialNamer(DefaultStatementNamePrefix)
	}

	return &Session{
		conn:     conn,
		cache:    NewStatementCache(conn, o.namer),
		executor: NewAsyncExecutor(conn, o.executorOpts...),
	}
}

// Conn returns the session connection.
func (s *Session) Conn() AsyncConn {
	return s.conn
}

// Statements returns the session statement cache.
func (s *Session) Statements() *StatementCache {
	return s.cache
}

// Executor returns the session executor.
func (s *Session) Executor() *AsyncExecutor {
	return s.executor
}

// AsyncPrepareStatement returns the asynchronous statement for sql. Calls with the same sql
// return statements sharing one PreparedStatement, so it is prepared once per session.
func (s *Session) AsyncPrepareStatement(sql string) *AsyncPreparedStatement {
	return &AsyncPreparedStatement{stmt: s.cache.Get(sql), executor: s.executor}
}

// Execute prepares sql through the cache (if needed) and sends an asynchronous execute.
func (s *Session) Execute(ctx context.Context, sql string, params ...any) (*AsyncQuery, error) {
	return s.executor.ExecuteArgs(ctx, s.cache.Get(sql), params)
}
