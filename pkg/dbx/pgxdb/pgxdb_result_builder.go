package pgxdb

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/marcodd23/go-pgasync/pkg/dbx"
)

// TypedResultBuilder - dbx.ResultBuilder decoding values into Go types with pgtype.
//
// Values of a type unknown to the map are returned as strings.
type TypedResultBuilder struct {
	typeMap *pgtype.Map
}

// Ensure pgxdb.TypedResultBuilder implements dbx.ResultBuilder interface
var _ dbx.ResultBuilder = (*TypedResultBuilder)(nil)

// NewTypedResultBuilder - TypedResultBuilder constructor. A nil map uses pgtype.NewMap().
func NewTypedResultBuilder(typeMap *pgtype.Map) *TypedResultBuilder {
	if typeMap == nil {
		typeMap = pgtype.NewMap()
	}

	return &TypedResultBuilder{typeMap: typeMap}
}

// Build - dbx.ResultBuilder implementation.
func (b *TypedResultBuilder) Build(_ context.Context, query dbx.Query, raw *dbx.RawResult) (*dbx.Result, error) {
	return dbx.BuildResult(query, raw, func(field dbx.FieldDescription, value []byte) (any, error) {
		t, ok := b.typeMap.TypeForOID(field.DataTypeOID)
		if !ok {
			return string(value), nil
		}

		return t.Codec.DecodeValue(b.typeMap, field.DataTypeOID, field.Format, value)
	})
}
