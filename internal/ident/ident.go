// Package ident converts external string identifiers to storage ids and back.
package ident

import (
	"github.com/gofrs/uuid/v5"

	"github.com/and161185/agenda/internal/errs"
)

// Parse converts an external identifier into a storage id.
// Malformed input and the nil UUID fail with an INVALID_ID error.
func Parse(s string) (uuid.UUID, error) {
	id, err := uuid.FromString(s)
	if err != nil {
		return uuid.Nil, errs.InvalidID(s, err)
	}
	if id == uuid.Nil {
		return uuid.Nil, errs.InvalidID(s, nil)
	}
	return id, nil
}

// ParseAny accepts a string or an already-typed id, as found in untyped input.
func ParseAny(v any) (uuid.UUID, error) {
	switch t := v.(type) {
	case string:
		return Parse(t)
	case uuid.UUID:
		if t == uuid.Nil {
			return uuid.Nil, errs.InvalidID(t.String(), nil)
		}
		return t, nil
	default:
		return uuid.Nil, errs.InvalidID("", nil)
	}
}

// String renders a storage id in its external form.
func String(id uuid.UUID) string { return id.String() }

// New assigns a fresh storage id.
func New() (uuid.UUID, error) { return uuid.NewV4() }
