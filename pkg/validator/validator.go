//nolint:gochecknoglobals
package validator

import (
	"errors"
	"regexp"
	"sync"

	"github.com/go-playground/validator/v10"
)

// StatementPrefixTag - validation tag accepting a prefix for server side statement names.
const StatementPrefixTag = "stmtprefix"

// statement names are unquoted identifiers; the generated counter is appended to the prefix.
var statementPrefixPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Validator - struct validation for configuration sections.
type Validator struct {
	validate *validator.Validate
}

var (
	validatorInstance *Validator
	validatorOnce     sync.Once
)

// NewValidator - returns the shared Validator, with the custom tags registered.
func NewValidator() *Validator {
	validatorOnce.Do(func() {
		validate := validator.New()
		_ = validate.RegisterValidation(StatementPrefixTag, func(fl validator.FieldLevel) bool {
			return statementPrefixPattern.MatchString(fl.Field().String())
		})

		validatorInstance = &Validator{validate: validate}
	})

	return validatorInstance
}

// ValidateStruct - apply validation and return one entry per failed rule.
// Nested struct pointers are validated too, nil ones are skipped.
func (v *Validator) ValidateStruct(str interface{}) []*ValidationErrorResponse {
	err := v.validate.Struct(str)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []*ValidationErrorResponse{{FailedField: "", Tag: "invalid", Value: err.Error()}}
	}

	failures := make([]*ValidationErrorResponse, 0, len(validationErrors))
	for _, fe := range validationErrors {
		failures = append(failures, &ValidationErrorResponse{
			FailedField: fe.StructNamespace(),
			Tag:         fe.Tag(),
			Value:       fe.Param(),
		})
	}

	return failures
}

// Validate - apply validation and fold the failures into a *ValidationError, nil when valid.
func (v *Validator) Validate(str interface{}) error {
	if failures := v.ValidateStruct(str); len(failures) > 0 {
		return NewValidationError(failures)
	}

	return nil
}
