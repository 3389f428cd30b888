package dbx

import (
	"context"
	"fmt"
)

type stmtState int

const (
	stmtUnprepared stmtState = iota
	stmtPreparing
	stmtPrepared
)

// String - readable state, used in log lines.
func (s stmtState) String() string {
	switch s {
	case stmtUnprepared:
		return "unprepared"
	case stmtPreparing:
		return "preparing"
	case stmtPrepared:
		return "prepared"
	default:
		return fmt.Sprintf("stmtState(%d)", int(s))
	}
}

// PreparedStatement represents a statement lazily prepared on the server of one connection.
//
// The statement is prepared at most once: the first successful EnsurePrepared registers the SQL under
// a generated name and every later call returns that name without touching the network. The name
// moves from absent to present exactly once and never changes afterwards.
//
// A PreparedStatement is owned by a single connection (usually through a StatementCache) and is
// not safe for concurrent use.
//
// Fields:
//   - template: the SQL text as supplied by the caller, with '?' or $n placeholders.
//   - sql: the SQL text rewritten into the wire placeholder syntax, set on the first prepare attempt.
//   - name: the server side statement name, valid only in the prepared state.
type PreparedStatement struct {
	conn     AsyncConn
	namer    StatementNamer
	template string
	sql      string
	name     string
	state    stmtState
}

// NewPreparedStatement creates a new, still unprepared, statement bound to conn.
//
// Arguments:
//   - conn: The connection the statement is prepared on.
//   - namer: The source of statement names. It must be shared by every statement of conn.
//   - sql: The SQL template.
//
// Returns:
//   - *PreparedStatement: the statement, in the unprepared state.
func NewPreparedStatement(conn AsyncConn, namer StatementNamer, sql string) *PreparedStatement {
	return &PreparedStatement{
		conn:     conn,
		namer:    namer,
		template: sql,
		sql:      sql,
		state:    stmtUnprepared,
	}
}

// Template returns the SQL as supplied by the caller.
func (p *PreparedStatement) Template() string {
	return p.template
}

// SQL returns the SQL text sent to the server. Before the first prepare attempt it equals Template.
func (p *PreparedStatement) SQL() string {
	return p.sql
}

// Name returns the statement name and true once the statement is prepared.
func (p *PreparedStatement) Name() (string, bool) {
	if p.state != stmtPrepared {
		return "", false
	}

	return p.name, true
}

// IsPrepared reports whether the statement has been prepared on the server.
func (p *PreparedStatement) IsPrepared() bool {
	return p.state == stmtPrepared
}

// EnsurePrepared prepares the statement on the server if needed and returns its name.
//
// Behavior:
//   - If the statement is already prepared the cached name is returned, no command is sent.
//   - Otherwise a new name is generated, the template is rewritten into $n placeholders, and a
//     prepare command is sent. The call then blocks until the server acknowledges the prepare:
//     the protocol does not allow an execute to reference a statement that is not confirmed yet.
//
// Errors:
//   - *PrepareFailedError when the prepare cannot be sent, when no acknowledgment can be fetched,
//     or when the server rejects the statement. The server error text is preferred over the
//     transport error text. The statement stays unprepared and the call may be retried.
func (p *PreparedStatement) EnsurePrepared(ctx context.Context) (string, error) {
	if p.state == stmtPrepared {
		return p.name, nil
	}

	if p.state == stmtPreparing {
		return "", NewPrepareFailedError("", NewQuery(p.sql, nil), "statement is already being prepared", ErrConnBusy)
	}

	p.state = stmtPreparing

	name, err := p.prepare(ctx)
	if err != nil {
		p.state = stmtUnprepared
		return "", err
	}

	p.name = name
	p.state = stmtPrepared

	return name, nil
}

func (p *PreparedStatement) prepare(ctx context.Context) (string, error) {
	name := p.namer.NextStatementName()

	p.sql = RewritePlaceholders(p.template)

	if err := p.conn.SendPrepare(ctx, name, p.sql); err != nil {
		return "", NewPrepareFailedError(name, NewQuery(p.sql, nil), p.conn.LastError(), err)
	}

	raw, err := p.conn.FetchResult(ctx)
	if err != nil || raw == nil {
		return "", NewPrepareFailedError(name, NewQuery(p.sql, nil), p.conn.LastError(), err)
	}

	if raw.Failed() {
		return "", NewPrepareFailedError(name, NewQuery(p.sql, nil), raw.ErrorText(), raw.Err)
	}

	return name, nil
}
