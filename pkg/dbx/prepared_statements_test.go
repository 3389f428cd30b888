package dbx_test

import (
	"context"
	"errors"
	"testing"

	"github.com/marcodd23/go-pgasync/pkg/dbx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsurePrepared_PreparesOnce(t *testing.T) {
	ctx := context.Background()
	conn := &MockConn{}
	stmt := dbx.NewPreparedStatement(conn, dbx.NewSequentialNamer(""), "SELECT * FROM t WHERE id = ?")

	_, ok := stmt.Name()
	require.False(t, ok)

	first, err := stmt.EnsurePrepared(ctx)
	require.NoError(t, err)
	require.Equal(t, "s_auto_1", first)

	for i := 0; i < 5; i++ {
		name, err := stmt.EnsurePrepared(ctx)
		require.NoError(t, err)
		require.Equal(t, first, name)
	}

	assert.Equal(t, 1, conn.count("prepare"))
	assert.Equal(t, 1, conn.count("fetch"))
	assert.Equal(t, "SELECT * FROM t WHERE id = $1", conn.calls[0].SQL)
	assert.Equal(t, "SELECT * FROM t WHERE id = $1", stmt.SQL())
	assert.Equal(t, "SELECT * FROM t WHERE id = ?", stmt.Template())

	name, ok := stmt.Name()
	assert.True(t, ok)
	assert.Equal(t, first, name)
	assert.True(t, stmt.IsPrepared())
}

func TestEnsurePrepared_SendFailure(t *testing.T) {
	ctx := context.Background()
	conn := &MockConn{
		prepareFunc: func(name, sql string) error { return errSocket },
	}
	stmt := dbx.NewPreparedStatement(conn, dbx.NewSequentialNamer(""), "SELECT 1")

	name, err := stmt.EnsurePrepared(ctx)
	require.Error(t, err)
	require.Empty(t, name)

	var prepErr *dbx.PrepareFailedError
	require.ErrorAs(t, err, &prepErr)
	assert.Equal(t, "s_auto_1", prepErr.StatementName)
	assert.Equal(t, "SELECT 1", prepErr.Query.SQL)
	assert.Empty(t, prepErr.Query.Params)
	assert.Equal(t, errSocket.Error(), prepErr.Message)
	assert.True(t, errors.Is(err, errSocket))

	_, ok := stmt.Name()
	assert.False(t, ok)
	assert.False(t, stmt.IsPrepared())
	assert.Equal(t, 0, conn.count("fetch"))
}

func TestEnsurePrepared_ServerErrorPreferred(t *testing.T) {
	ctx := context.Background()
	conn := &MockConn{
		lastErr: "generic transport text",
		fetchFunc: func(last MockCall) (*dbx.RawResult, error) {
			return &dbx.RawResult{Err: errors.New(`ERROR: relation "t" does not exist (SQLSTATE 42P01)`)}, nil
		},
	}
	stmt := dbx.NewPreparedStatement(conn, dbx.NewSequentialNamer(""), "SELECT * FROM t")

	_, err := stmt.EnsurePrepared(ctx)
	require.Error(t, err)

	var prepErr *dbx.PrepareFailedError
	require.ErrorAs(t, err, &prepErr)
	assert.Equal(t, `ERROR: relation "t" does not exist (SQLSTATE 42P01)`, prepErr.Message)
	assert.NotContains(t, err.Error(), "generic transport text")

	_, ok := stmt.Name()
	assert.False(t, ok)
}

func TestEnsurePrepared_NoAcknowledgment(t *testing.T) {
	ctx := context.Background()
	conn := &MockConn{
		fetchFunc: func(last MockCall) (*dbx.RawResult, error) {
			return nil, nil
		},
	}
	conn.lastErr = "server closed the connection unexpectedly"
	stmt := dbx.NewPreparedStatement(conn, dbx.NewSequentialNamer(""), "SELECT 1")

	_, err := stmt.EnsurePrepared(ctx)

	var prepErr *dbx.PrepareFailedError
	require.ErrorAs(t, err, &prepErr)
	assert.Equal(t, "server closed the connection unexpectedly", prepErr.Message)
}

func TestEnsurePrepared_RetryAfterFailureUsesFreshName(t *testing.T) {
	ctx := context.Background()
	fail := true
	conn := &MockConn{
		prepareFunc: func(name, sql string) error {
			if fail {
				return errSocket
			}
			return nil
		},
	}
	stmt := dbx.NewPreparedStatement(conn, dbx.NewSequentialNamer(""), "SELECT ?")

	_, err := stmt.EnsurePrepared(ctx)
	require.Error(t, err)

	fail = false
	name, err := stmt.EnsurePrepared(ctx)
	require.NoError(t, err)
	assert.Equal(t, "s_auto_2", name)
	assert.Equal(t, "SELECT $1", stmt.SQL())
}

func TestStatementsShareNamer(t *testing.T) {
	ctx := context.Background()
	conn := &MockConn{}
	namer := dbx.NewSequentialNamer("")

	a := dbx.NewPreparedStatement(conn, namer, "SELECT 1")
	b := dbx.NewPreparedStatement(conn, namer, "SELECT 2")

	nameA, err := a.EnsurePrepared(ctx)
	require.NoError(t, err)
	nameB, err := b.EnsurePrepared(ctx)
	require.NoError(t, err)

	assert.NotEqual(t, nameA, nameB)
}
