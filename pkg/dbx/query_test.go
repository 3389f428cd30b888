package dbx_test

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/marcodd23/go-pgasync/pkg/dbx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQuery_CopiesParams(t *testing.T) {
	params := []any{1, "a"}
	q := dbx.NewQuery("SELECT $1, $2", params)
	params[0] = 99

	assert.Equal(t, []any{1, "a"}, q.Params)
	assert.Equal(t, "SELECT $1, $2 [1 a]", q.String())
	assert.Equal(t, "SELECT 1", dbx.NewQuery("SELECT 1", nil).String())
}

func TestQuery_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(dbx.NewQuery("SELECT $1", []any{7}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"sql":"SELECT $1","params":[7]}`, string(data))

	data, err = json.Marshal(dbx.Query{SQL: "SELECT 1"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"sql":"SELECT 1","params":[]}`, string(data))
}
