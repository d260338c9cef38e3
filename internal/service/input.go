package service

import (
	"errors"
	"math"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/agenda/internal/errs"
	"github.com/and161185/agenda/internal/ident"
	"github.com/and161185/agenda/internal/model"
	"github.com/and161185/agenda/internal/validate"
)

// text returns the value of a checked text field, nil when absent.
func text(in validate.Input, name string) *string {
	s, ok := validate.TextOf(in, name)
	if !ok {
		return nil
	}
	return &s
}

// optText maps a supplied optional text field onto a patch value; "" clears.
func optText(in validate.Input, name string) model.Opt[string] {
	if !validate.Supplied(in, name) {
		return model.Opt[string]{}
	}
	if !validate.Present(in, name) {
		return model.Clear[string]()
	}
	s, _ := validate.TextOf(in, name)
	return model.Put(s)
}

// stamp returns a checked timestamp field, nil when absent.
func stamp(in validate.Input, name string) *time.Time {
	if !validate.Present(in, name) {
		return nil
	}
	t, ok := validate.TimeOf(in[name])
	if !ok {
		return nil
	}
	t = t.UTC()
	return &t
}

// notNull rejects an update that supplies null or "" for a required field.
func notNull(in validate.Input, names ...string) error {
	for _, name := range names {
		if validate.Supplied(in, name) && !validate.Present(in, name) {
			return errs.Validation("field '%s' cannot be empty", name)
		}
	}
	return nil
}

// ref parses an identifier-shaped field, nil when absent.
func ref(in validate.Input, name string) (*uuid.UUID, error) {
	if !validate.Present(in, name) {
		return nil, nil
	}
	id, err := ident.ParseAny(in[name])
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// optRef maps a supplied optional reference onto a patch value.
func optRef(in validate.Input, name string) (model.Opt[uuid.UUID], error) {
	if !validate.Supplied(in, name) {
		return model.Opt[uuid.UUID]{}, nil
	}
	id, err := ref(in, name)
	if err != nil {
		return model.Opt[uuid.UUID]{}, err
	}
	return model.Opt[uuid.UUID]{Set: true, Value: id}, nil
}

// recurrence checks the recurrence field against the known values.
func recurrence(in validate.Input) (model.Opt[model.Recurrence], error) {
	if !validate.Supplied(in, "recurrence") {
		return model.Opt[model.Recurrence]{}, nil
	}
	s := text(in, "recurrence")
	if s == nil || *s == "" {
		return model.Clear[model.Recurrence](), nil
	}
	r := model.Recurrence(*s)
	if !r.Valid() {
		return model.Opt[model.Recurrence]{}, errs.Validation("field 'recurrence' must be one of none, daily, weekly, monthly, yearly")
	}
	return model.Put(r), nil
}

// reminder checks reminderMinutes is a non-negative whole number.
func reminder(in validate.Input) (model.Opt[int], error) {
	if !validate.Supplied(in, "reminderMinutes") {
		return model.Opt[int]{}, nil
	}
	if !validate.Present(in, "reminderMinutes") {
		return model.Clear[int](), nil
	}
	f, ok := validate.NumberOf(in["reminderMinutes"])
	if !ok || f != math.Trunc(f) {
		return model.Opt[int]{}, errs.Validation("field 'reminderMinutes' must be a whole number")
	}
	if f < 0 {
		return model.Opt[int]{}, errs.Validation("field 'reminderMinutes' must not be negative")
	}
	if f > math.MaxInt32 {
		return model.Opt[int]{}, errs.Validation("field 'reminderMinutes' is too large")
	}
	return model.Put(int(f)), nil
}

// checkSpan enforces end >= start.
func checkSpan(start time.Time, end *time.Time) error {
	if end != nil && end.Before(start) {
		return errs.Validation("endAt must not be before startAt")
	}
	return nil
}

// missing turns a storage not-found into a named NOT_FOUND failure.
func missing(err error, entity string) error {
	if errors.Is(err, errs.ErrNotFound) {
		return errs.NotFound(entity)
	}
	return err
}

// check runs the presence and type checks of a create.
func check(in validate.Input, schema validate.Schema, required ...string) error {
	if err := validate.Required(in, required...); err != nil {
		return err
	}
	return validate.Types(in, schema)
}
