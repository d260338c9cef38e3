package model

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

// Opt is an optional, clearable patch value.
// Set=false leaves the field untouched; Set=true with a nil Value clears it.
type Opt[T any] struct {
	Set   bool
	Value *T
}

// Put returns an Opt replacing the field with v.
func Put[T any](v T) Opt[T] { return Opt[T]{Set: true, Value: &v} }

// Clear returns an Opt resetting the field to null.
func Clear[T any]() Opt[T] { return Opt[T]{Set: true} }

// Or returns the patched value when set, otherwise cur.
func (o Opt[T]) Or(cur *T) *T {
	if o.Set {
		return o.Value
	}
	return cur
}

// UserPatch lists the user fields an update may change. Nil means untouched.
type UserPatch struct {
	Name      *string
	Email     *string
	Password  *string
	UpdatedAt time.Time
}

// CategoryPatch lists the category fields an update may change.
type CategoryPatch struct {
	Name        *string
	Color       *string
	Description Opt[string]
	OwnerUserID *uuid.UUID
	UpdatedAt   time.Time
}

// EventPatch lists the event fields an update may change.
type EventPatch struct {
	Title           *string
	Description     Opt[string]
	StartAt         *time.Time
	EndAt           Opt[time.Time]
	Location        Opt[string]
	OwnerUserID     *uuid.UUID
	CategoryID      Opt[uuid.UUID]
	Recurrence      Opt[Recurrence]
	ReminderMinutes Opt[int]
	UpdatedAt       time.Time
}
