package dbx

import (
	"errors"
	"fmt"
)

var (
	// ErrConnBusy is returned by an AsyncConn when a command is sent while the result of the
	// previous one has not been drained yet.
	ErrConnBusy = errors.New("connection busy: previous asynchronous command not drained")

	// ErrNoPendingResult is returned by FetchResult when no command is outstanding.
	ErrNoPendingResult = errors.New("no pending asynchronous result on connection")

	// ErrResultConsumed is returned when the result of an AsyncQuery is requested twice.
	ErrResultConsumed = errors.New("asynchronous query result already consumed")

	// ErrUnknownStatement is returned when executing a statement name the connection never prepared.
	ErrUnknownStatement = errors.New("unknown prepared statement")
)

// statementError is the common part of the errors produced at the protocol boundary.
type statementError struct {
	StatementName string
	Query         Query
	Message       string
	err           error
}

func (se *statementError) format(kind string) string {
	msg := fmt.Sprintf("%s '%s' (%s)", kind, se.StatementName, se.Query.SQL)
	if se.Message != "" {
		msg = fmt.Sprintf("%s: %s", msg, se.Message)
	}

	if se.err != nil && se.err.Error() != se.Message {
		return fmt.Errorf("%s: %w", msg, se.err).Error()
	}

	return msg
}

// PrepareFailedError - the prepare command could not be sent, or the server did not acknowledge it.
type PrepareFailedError struct {
	statementError
}

// NewPrepareFailedError - PrepareFailedError constructor.
func NewPrepareFailedError(statementName string, query Query, message string, err error) *PrepareFailedError {
	return &PrepareFailedError{statementError{StatementName: statementName, Query: query, Message: message, err: err}}
}

// Error - return the error string.
func (e *PrepareFailedError) Error() string {
	return e.format("prepare of statement")
}

// Unwrap - return the transport error, if any.
func (e *PrepareFailedError) Unwrap() error {
	return e.err
}

// ExecuteFailedError - the execute command could not be sent.
//
// A sent execute that later fails on the server is not reported with this error; that failure
// surfaces as QueryFailedError when the AsyncQuery result is drained.
type ExecuteFailedError struct {
	statementError
}

// NewExecuteFailedError - ExecuteFailedError constructor.
func NewExecuteFailedError(statementName string, query Query, message string, err error) *ExecuteFailedError {
	return &ExecuteFailedError{statementError{StatementName: statementName, Query: query, Message: message, err: err}}
}

// Error - return the error string.
func (e *ExecuteFailedError) Error() string {
	return e.format("execute of statement")
}

// Unwrap - return the transport error, if any.
func (e *ExecuteFailedError) Unwrap() error {
	return e.err
}

// QueryFailedError - the server reported an error for an executed statement.
type QueryFailedError struct {
	statementError
}

// NewQueryFailedError - QueryFailedError constructor.
func NewQueryFailedError(statementName string, query Query, message string, err error) *QueryFailedError {
	return &QueryFailedError{statementError{StatementName: statementName, Query: query, Message: message, err: err}}
}

// Error - return the error string.
func (e *QueryFailedError) Error() string {
	return e.format("asynchronous query of statement")
}

// Unwrap - return the underlying error, if any.
func (e *QueryFailedError) Unwrap() error {
	return e.err
}
