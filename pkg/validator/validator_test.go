package validator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcodd23/go-pgasync/pkg/dbx"
	"github.com/marcodd23/go-pgasync/pkg/validator"
)

func TestValidate_ConnConfig(t *testing.T) {
	v := validator.NewValidator()
	assert.Same(t, v, validator.NewValidator())

	valid := dbx.ConnConfig{Host: "localhost", Port: 5432, DBName: "test-db", User: "u", Password: "p"}
	require.NoError(t, v.Validate(valid))

	err := v.Validate(dbx.ConnConfig{Port: 70000, DBName: "test-db", User: "u", Password: "p"})

	var valErr *validator.ValidationError
	require.ErrorAs(t, err, &valErr)

	tags := map[string]string{}
	for _, e := range valErr.GetErrorsDetails() {
		tags[e.FailedField] = e.Tag
	}

	assert.Equal(t, "required", tags["ConnConfig.Host"])
	assert.Equal(t, "lte", tags["ConnConfig.Port"])
	assert.Contains(t, err.Error(), `"failedField":"ConnConfig.Host"`)
}

type statementsSection struct {
	NamePrefix string `validate:"omitempty,stmtprefix"`
}

func TestValidate_StatementPrefix(t *testing.T) {
	v := validator.NewValidator()

	for _, prefix := range []string{"", "s_auto_", "App1_", "_x"} {
		assert.NoError(t, v.Validate(statementsSection{NamePrefix: prefix}), prefix)
	}

	for _, prefix := range []string{"1st", "my-stmt", "a b", `s"`} {
		err := v.Validate(statementsSection{NamePrefix: prefix})

		var valErr *validator.ValidationError
		require.ErrorAs(t, err, &valErr, prefix)
		assert.Equal(t, validator.StatementPrefixTag, valErr.GetErrorsDetails()[0].Tag)
	}
}
