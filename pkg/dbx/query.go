package dbx

import (
	"fmt"

	"github.com/goccy/go-json"
)

// Query is an immutable pair of SQL text and the positional parameters bound to it.
//
// A Query is what gets attached to instrumentation events and to the errors returned by the
// prepared statement machinery. It is never re-sent to the server: execute commands reference
// the prepared statement by name.
type Query struct {
	SQL    string
	Params []any
}

// NewQuery creates a new Query. The params slice is copied so later mutations made by the caller
// are not reflected in the Query.
func NewQuery(sql string, params []any) Query {
	cp := make([]any, len(params))
	copy(cp, params)

	return Query{SQL: sql, Params: cp}
}

// String renders the query for log lines and error messages.
func (q Query) String() string {
	if len(q.Params) == 0 {
		return q.SQL
	}

	return fmt.Sprintf("%s %v", q.SQL, q.Params)
}

// MarshalJSON encodes the query as {"sql": ..., "params": [...]}.
func (q Query) MarshalJSON() ([]byte, error) {
	params := q.Params
	if params == nil {
		params = []any{}
	}

	return json.Marshal(struct {
		SQL    string `json:"sql"`
		Params []any  `json:"params"`
	}{SQL: q.SQL, Params: params})
}
