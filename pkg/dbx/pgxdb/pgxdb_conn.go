package pgxdb

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/marcodd23/go-pgasync/pkg/dbx"
)

//###################################
//#    Conn - dbx.AsyncConn          #
//###################################

// Conn - PostgreSQL asynchronous connection.
// It implements dbx.AsyncConn on top of a single pgconn.PgConn.
//
// Execute commands are written to the socket by SendExecute and their results are read by
// FetchResult, so the server runs the statement while the caller does other work. Prepare
// commands are acknowledged synchronously by pgconn; the acknowledgment is kept as the pending
// result until FetchResult collects it, so the contract stays one send / one fetch.
//
// At most one command may be pending: any send issued while a result is undrained fails with
// dbx.ErrConnBusy. Conn is not safe for concurrent use.
//
// The context given to SendExecute stays bound to the execute until its result is read:
// cancelling it aborts a blocked FetchResult and closes the connection. The context given to
// FetchResult is only checked before reading; when it is already done the result stays pending
// and can be fetched again.
type Conn struct {
	pgConn     *pgconn.PgConn
	typeMap    *pgtype.Map
	statements map[string]*pgconn.StatementDescription

	pendingPrepare *dbx.RawResult
	pendingReader  *pgconn.ResultReader

	lastErr string
}

// Ensure pgxdb.Conn implements dbx.AsyncConn interface
var _ dbx.AsyncConn = (*Conn)(nil)

// NewConn wraps an established pgconn connection.
func NewConn(pgConn *pgconn.PgConn) *Conn {
	return &Conn{
		pgConn:     pgConn,
		typeMap:    pgtype.NewMap(),
		statements: make(map[string]*pgconn.StatementDescription),
	}
}

// PgConn - returns the underlying pgconn connection.
func (c *Conn) PgConn() *pgconn.PgConn {
	return c.pgConn
}

// TypeMap - returns the pgtype map used to encode parameters.
func (c *Conn) TypeMap() *pgtype.Map {
	return c.typeMap
}

// IsBusy - dbx.AsyncConn implementation.
func (c *Conn) IsBusy() bool {
	if c.pendingPrepare != nil || c.pendingReader != nil {
		return true
	}

	return c.pgConn != nil && c.pgConn.IsBusy()
}

// LastError - dbx.AsyncConn implementation.
func (c *Conn) LastError() string {
	return c.lastErr
}

// SendPrepare - dbx.AsyncConn implementation.
//
// A statement rejected by the server is not a send failure: the error is stored in the pending
// result and reported by FetchResult.
func (c *Conn) SendPrepare(ctx context.Context, name, sql string) error {
	if err := c.checkIdle(); err != nil {
		return err
	}

	sd, err := c.pgConn.Prepare(ctx, name, sql, nil)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			c.pendingPrepare = &dbx.RawResult{Err: pgErr}
			return nil
		}

		return c.fail(err)
	}

	c.statements[name] = sd
	c.pendingPrepare = &dbx.RawResult{Fields: convertFields(sd.Fields), CommandTag: "PREPARE"}

	return nil
}

// SendExecute - dbx.AsyncConn implementation.
//
// Parameters are encoded in text format using the parameter types the server reported when the
// statement was prepared.
func (c *Conn) SendExecute(ctx context.Context, name string, params []any) error {
	if err := c.checkIdle(); err != nil {
		return err
	}

	values, err := c.encodeParams(name, params)
	if err != nil {
		return c.fail(err)
	}

	// pgconn reports a done context or a failed write through the reader, not as a return value.
	if err := ctx.Err(); err != nil {
		return c.fail(err)
	}

	rr := c.pgConn.ExecPrepared(ctx, name, values, nil, nil)

	// A failed flush closes the connection before ExecPrepared returns.
	if c.pgConn.IsClosed() {
		_, err := rr.Close()
		if err == nil {
			err = errors.New("connection closed while sending execute")
		}

		return c.fail(err)
	}

	c.pendingReader = rr

	return nil
}

// FetchResult - dbx.AsyncConn implementation.
//
// A prepare acknowledgment is already in memory and is returned whatever the state of ctx.
func (c *Conn) FetchResult(ctx context.Context) (*dbx.RawResult, error) {
	if c.pendingPrepare != nil {
		res := c.pendingPrepare
		c.pendingPrepare = nil

		return res, nil
	}

	if c.pendingReader == nil {
		return nil, c.fail(dbx.ErrNoPendingResult)
	}

	if err := ctx.Err(); err != nil {
		return nil, c.fail(err)
	}

	rr := c.pendingReader
	c.pendingReader = nil

	res := rr.Read()

	raw := &dbx.RawResult{
		Fields:     convertFields(res.FieldDescriptions),
		Rows:       res.Rows,
		CommandTag: res.CommandTag.String(),
	}

	if res.Err != nil {
		var pgErr *pgconn.PgError
		if !errors.As(res.Err, &pgErr) {
			return nil, c.fail(res.Err)
		}

		raw.Err = pgErr
	}

	return raw, nil
}

// Close - closes the underlying connection. Pending results are discarded.
func (c *Conn) Close(ctx context.Context) error {
	c.pendingPrepare = nil
	c.pendingReader = nil

	if c.pgConn == nil {
		return nil
	}

	return c.pgConn.Close(ctx)
}

func (c *Conn) checkIdle() error {
	if c.IsBusy() {
		return c.fail(dbx.ErrConnBusy)
	}

	if c.pgConn == nil || c.pgConn.IsClosed() {
		return c.fail(errors.New("connection is closed"))
	}

	return nil
}

func (c *Conn) fail(err error) error {
	c.lastErr = err.Error()
	return err
}

func (c *Conn) encodeParams(name string, params []any) ([][]byte, error) {
	sd, ok := c.statements[name]
	if !ok {
		return nil, fmt.Errorf("%w '%s'", dbx.ErrUnknownStatement, name)
	}

	if len(sd.ParamOIDs) != len(params) {
		return nil, fmt.Errorf("statement '%s' expects %d parameters, %d given", name, len(sd.ParamOIDs), len(params))
	}

	values := make([][]byte, len(params))
	for i, param := range params {
		buf, err := c.typeMap.Encode(sd.ParamOIDs[i], pgtype.TextFormatCode, param, nil)
		if err != nil {
			return nil, fmt.Errorf("encoding parameter $%d of statement '%s': %w", i+1, name, err)
		}

		values[i] = buf
	}

	return values, nil
}

func convertFields(fds []pgconn.FieldDescription) []dbx.FieldDescription {
	fields := make([]dbx.FieldDescription, len(fds))
	for i, fd := range fds {
		fields[i] = dbx.FieldDescription{
			Name:        fd.Name,
			DataTypeOID: fd.DataTypeOID,
			Format:      fd.Format,
		}
	}

	return fields
}
