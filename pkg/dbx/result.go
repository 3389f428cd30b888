package dbx

import (
	"context"
	"strconv"
	"strings"
)

// FieldDescription describes one column of a raw result.
type FieldDescription struct {
	Name        string
	DataTypeOID uint32
	Format      int16
}

// RawResult is the undecoded result of one asynchronous command as returned by AsyncConn.FetchResult.
//
// Err holds a server-side error (for example a syntax error reported for a prepare). Transport
// failures are never stored here: they are returned as the error of FetchResult.
type RawResult struct {
	Fields     []FieldDescription
	Rows       [][][]byte
	CommandTag string
	Err        error
}

// Failed reports whether the server rejected the command.
func (r *RawResult) Failed() bool {
	return r != nil && r.Err != nil
}

// ErrorText returns the server error message, or an empty string.
func (r *RawResult) ErrorText() string {
	if !r.Failed() {
		return ""
	}

	return r.Err.Error()
}

// RowsAffected parses the trailing count of the command tag ("INSERT 0 3" -> 3).
func (r *RawResult) RowsAffected() int64 {
	if r == nil || r.CommandTag == "" {
		return 0
	}

	words := strings.Fields(r.CommandTag)
	n, err := strconv.ParseInt(words[len(words)-1], 10, 64)
	if err != nil {
		return 0
	}

	return n
}

// Row is one decoded row keyed by column name.
type Row map[string]any

// Result is a materialized asynchronous query result.
type Result struct {
	Query         Query
	StatementName string
	Columns       []string
	Rows          []Row
	CommandTag    string
	RowsAffected  int64
}

// ResultBuilder turns a RawResult into a Result. The executor never inspects it; it is handed
// unmodified to every AsyncQuery it creates.
type ResultBuilder interface {
	Build(ctx context.Context, query Query, raw *RawResult) (*Result, error)
}

// ResultBuilderFunc adapts a function to the ResultBuilder interface.
type ResultBuilderFunc func(ctx context.Context, query Query, raw *RawResult) (*Result, error)

// Build calls f.
func (f ResultBuilderFunc) Build(ctx context.Context, query Query, raw *RawResult) (*Result, error) {
	return f(ctx, query, raw)
}

// TextResultBuilder materializes every value as its text representation (NULL as nil).
// It is the fallback used when no typed builder is configured.
type TextResultBuilder struct{}

// Build - ResultBuilder implementation.
func (TextResultBuilder) Build(_ context.Context, query Query, raw *RawResult) (*Result, error) {
	return BuildResult(query, raw, func(_ FieldDescription, value []byte) (any, error) {
		return string(value), nil
	})
}

// BuildResult assembles a Result from raw, decoding every non-NULL value with decode.
func BuildResult(query Query, raw *RawResult, decode func(field FieldDescription, value []byte) (any, error)) (*Result, error) {
	res := &Result{
		Query:        query,
		CommandTag:   raw.CommandTag,
		RowsAffected: raw.RowsAffected(),
	}

	res.Columns = make([]string, len(raw.Fields))
	for i, fd := range raw.Fields {
		res.Columns[i] = fd.Name
	}

	res.Rows = make([]Row, 0, len(raw.Rows))
	for _, values := range raw.Rows {
		row := make(Row, len(values))

		for i, value := range values {
			if i >= len(raw.Fields) {
				break
			}

			if value == nil {
				row[raw.Fields[i].Name] = nil
				continue
			}

			decoded, err := decode(raw.Fields[i], value)
			if err != nil {
				return nil, err
			}

			row[raw.Fields[i].Name] = decoded
		}

		res.Rows = append(res.Rows, row)
	}

	return res, nil
}
