package dbx_test

import (
	"context"
	"errors"
	"time"

	"github.com/marcodd23/go-pgasync/pkg/dbx"
)

// MockCall - one command received by MockConn.
type MockCall struct {
	Kind   string // "prepare", "execute" or "fetch"
	Name   string
	SQL    string
	Params []any
}

// MockConn - scriptable dbx.AsyncConn recording every call.
type MockConn struct {
	calls   []MockCall
	lastErr string
	pending bool

	prepareFunc func(name, sql string) error
	executeFunc func(name string, params []any) error
	fetchFunc   func(last MockCall) (*dbx.RawResult, error)
}

func (m *MockConn) SendPrepare(_ context.Context, name, sql string) error {
	m.calls = append(m.calls, MockCall{Kind: "prepare", Name: name, SQL: sql})

	if m.pending {
		m.lastErr = dbx.ErrConnBusy.Error()
		return dbx.ErrConnBusy
	}

	if m.prepareFunc != nil {
		if err := m.prepareFunc(name, sql); err != nil {
			m.lastErr = err.Error()
			return err
		}
	}

	m.pending = true

	return nil
}

func (m *MockConn) SendExecute(_ context.Context, name string, params []any) error {
	m.calls = append(m.calls, MockCall{Kind: "execute", Name: name, Params: params})

	if m.pending {
		m.lastErr = dbx.ErrConnBusy.Error()
		return dbx.ErrConnBusy
	}

	if m.executeFunc != nil {
		if err := m.executeFunc(name, params); err != nil {
			m.lastErr = err.Error()
			return err
		}
	}

	m.pending = true

	return nil
}

func (m *MockConn) FetchResult(ctx context.Context) (*dbx.RawResult, error) {
	var last MockCall
	for i := len(m.calls) - 1; i >= 0; i-- {
		if m.calls[i].Kind != "fetch" {
			last = m.calls[i]
			break
		}
	}

	m.calls = append(m.calls, MockCall{Kind: "fetch"})

	if !m.pending {
		return nil, dbx.ErrNoPendingResult
	}

	if err := ctx.Err(); err != nil {
		m.lastErr = err.Error()
		return nil, err
	}

	m.pending = false

	if m.fetchFunc != nil {
		return m.fetchFunc(last)
	}

	return &dbx.RawResult{CommandTag: "OK"}, nil
}

func (m *MockConn) LastError() string {
	return m.lastErr
}

func (m *MockConn) IsBusy() bool {
	return m.pending
}

func (m *MockConn) count(kind string) int {
	n := 0
	for _, c := range m.calls {
		if c.Kind == kind {
			n++
		}
	}

	return n
}

func (m *MockConn) kinds() []string {
	kinds := make([]string, len(m.calls))
	for i, c := range m.calls {
		kinds[i] = c.Kind
	}

	return kinds
}

// QueryEvent - one notification received by RecordingObserver.
type QueryEvent struct {
	Query         dbx.Query
	Elapsed       *time.Duration
	StatementName string
}

// RecordingObserver - dbx.QueryObserver keeping every notification.
type RecordingObserver struct {
	events []QueryEvent
}

func (r *RecordingObserver) OnQuery(_ context.Context, query dbx.Query, elapsed *time.Duration, statementName string) {
	r.events = append(r.events, QueryEvent{Query: query, Elapsed: elapsed, StatementName: statementName})
}

var errSocket = errors.New("write: broken pipe")
