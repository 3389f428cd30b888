package dbx

import (
	"strconv"

	"go.uber.org/atomic"
)

// DefaultStatementNamePrefix is the prefix of generated statement names.
const DefaultStatementNamePrefix = "s_auto_"

// StatementNamer generates server-side prepared statement names.
//
// A name returned by NextStatementName must never be returned again for the lifetime of the
// connection(s) the namer serves.
type StatementNamer interface {
	NextStatementName() string
}

// SequentialNamer produces prefix1, prefix2, ... from a monotonic counter. It is safe for concurrent use.
type SequentialNamer struct {
	prefix  string
	counter *atomic.Uint64
}

// NewSequentialNamer creates a SequentialNamer. An empty prefix falls back to DefaultStatementNamePrefix.
func NewSequentialNamer(prefix string) *SequentialNamer {
	if prefix == "" {
		prefix = DefaultStatementNamePrefix
	}

	return &SequentialNamer{prefix: prefix, counter: atomic.NewUint64(0)}
}

// NextStatementName - StatementNamer implementation.
func (n *SequentialNamer) NextStatementName() string {
	return n.prefix + strconv.FormatUint(n.counter.Inc(), 10)
}
