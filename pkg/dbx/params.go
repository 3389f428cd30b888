package dbx

import (
	"database/sql/driver"
	"fmt"
	"reflect"
)

// ParamPreparer converts caller supplied parameters into values the AsyncConn can put on the wire.
type ParamPreparer interface {
	PrepareParams(params []any) ([]any, error)
}

// ParamPreparerFunc adapts a function to the ParamPreparer interface.
type ParamPreparerFunc func(params []any) ([]any, error)

// PrepareParams calls f.
func (f ParamPreparerFunc) PrepareParams(params []any) ([]any, error) {
	return f(params)
}

// DefaultParamPreparer resolves driver.Valuer implementations and pointers, leaving the final
// encoding to the connection.
//
//   - driver.Valuer values are replaced by the result of Value().
//   - pointers are dereferenced, nil pointers become nil.
//   - func, chan and unsafe.Pointer values are rejected.
type DefaultParamPreparer struct{}

// PrepareParams - ParamPreparer implementation.
func (DefaultParamPreparer) PrepareParams(params []any) ([]any, error) {
	prepared := make([]any, len(params))

	for i, param := range params {
		value, err := prepareParam(param)
		if err != nil {
			return nil, fmt.Errorf("parameter $%d: %w", i+1, err)
		}

		prepared[i] = value
	}

	return prepared, nil
}

func prepareParam(param any) (any, error) {
	if param == nil {
		return nil, nil
	}

	if valuer, ok := param.(driver.Valuer); ok {
		rv := reflect.ValueOf(param)
		if rv.Kind() == reflect.Ptr && rv.IsNil() {
			return nil, nil
		}

		value, err := valuer.Value()
		if err != nil {
			return nil, err
		}

		return value, nil
	}

	rv := reflect.ValueOf(param)

	switch rv.Kind() {
	case reflect.Ptr:
		if rv.IsNil() {
			return nil, nil
		}

		return prepareParam(rv.Elem().Interface())
	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return nil, fmt.Errorf("unsupported parameter type %T", param)
	default:
		return param, nil
	}
}
