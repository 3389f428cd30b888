package errorx

import (
	"fmt"
)

// GENERAL ERROR:

// GeneralError - General App Error.
type GeneralError struct {
	message string
	err     error
}

// NewGeneralError - GeneralError constructor.
func NewGeneralError(msg string, args ...any) *GeneralError {
	return &GeneralError{message: fmt.Sprintf(msg, args...), err: nil}
}

// NewGeneralErrorWrapper - GeneralError constructor for wrapper of another error.
func NewGeneralErrorWrapper(err error, msg string, args ...any) *GeneralError {
	return &GeneralError{message: fmt.Sprintf(msg, args...), err: err}
}

// Error - return the error string.
func (ge *GeneralError) Error() string {
	return render(ge.message, ge.err)
}

// Unwrap - return the wrapped error.
func (ge *GeneralError) Unwrap() error {
	return ge.err
}

// DATABASE ERROR

// DatabaseError - connection level database error.
type DatabaseError struct {
	message string
	err     error
}

// NewDatabaseError - DatabaseError constructor.
func NewDatabaseError(msg string, args ...any) *DatabaseError {
	return &DatabaseError{message: fmt.Sprintf(msg, args...), err: nil}
}

// NewDatabaseErrorWrapper - DatabaseError constructor for wrapper of another error.
func NewDatabaseErrorWrapper(err error, msg string, args ...any) *DatabaseError {
	return &DatabaseError{message: fmt.Sprintf(msg, args...), err: err}
}

// Error - return the error string.
func (de *DatabaseError) Error() string {
	return render(de.message, de.err)
}

// Unwrap - return the wrapped error.
func (de *DatabaseError) Unwrap() error {
	return de.err
}

// CONFIG ERROR

// ConfigError - invalid or unreadable configuration.
type ConfigError struct {
	message string
	err     error
}

// NewConfigError - ConfigError constructor.
func NewConfigError(msg string, args ...any) *ConfigError {
	return &ConfigError{message: fmt.Sprintf(msg, args...), err: nil}
}

// NewConfigErrorWrapper - ConfigError constructor for wrapper of another error.
func NewConfigErrorWrapper(err error, msg string, args ...any) *ConfigError {
	return &ConfigError{message: fmt.Sprintf(msg, args...), err: err}
}

// Error - return the error string.
func (ce *ConfigError) Error() string {
	return render(ce.message, ce.err)
}

// Unwrap - return the wrapped error.
func (ce *ConfigError) Unwrap() error {
	return ce.err
}

func render(message string, err error) string {
	if err != nil {
		return fmt.Errorf("%s: %w", message, err).Error()
	}

	return message
}
