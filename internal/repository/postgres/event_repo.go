package postgres

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/and161185/agenda/internal/ident"
	"github.com/and161185/agenda/internal/model"
)

const eventCols = `id, title, description, start_at, end_at, location, owner_user_id, category_id, recurrence, reminder_minutes, created_at, updated_at`

// overlap matches events whose interval intersects [$1, $2]: starting inside,
// ending inside, or spanning the whole window.
const overlap = `
((start_at >= $1 AND start_at <= $2)
 OR (end_at >= $1 AND end_at <= $2)
 OR (start_at <= $1 AND end_at >= $2))`

// EventRepo implements EventRepository using PostgreSQL.
type EventRepo struct{ src source }

// NewEventRepo constructs an event repository.
func NewEventRepo(db *DB) *EventRepo { return &EventRepo{src: db} }

// Create inserts a new event row, assigning its ID.
func (r *EventRepo) Create(ctx context.Context, e *model.Event) error {
	q, err := r.src.querier()
	if err != nil {
		return err
	}
	id, err := ident.New()
	if err != nil {
		return err
	}
	const ins = `
INSERT INTO events (id, title, description, start_at, end_at, location, owner_user_id, category_id, recurrence, reminder_minutes, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err = q.Exec(ctx, ins,
		id, e.Title, e.Description, e.StartAt, e.EndAt, e.Location,
		e.OwnerUserID, e.CategoryID, recurrenceArg(e.Recurrence), e.ReminderMinutes,
		e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return err
	}
	e.ID = id
	return nil
}

// GetByID selects an event by ID.
func (r *EventRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	q, err := r.src.querier()
	if err != nil {
		return nil, err
	}
	const sel = `SELECT ` + eventCols + ` FROM events WHERE id=$1`
	return scanEvent(q.QueryRow(ctx, sel, id))
}

// ListByOwner returns the owner's events by start time.
func (r *EventRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Event, error) {
	const sel = `SELECT ` + eventCols + ` FROM events WHERE owner_user_id=$1 ORDER BY start_at ASC`
	return r.list(ctx, sel, ownerID)
}

// ListByDateRange returns events intersecting [from, to] by start time.
func (r *EventRepo) ListByDateRange(ctx context.Context, from, to time.Time, ownerID *uuid.UUID) ([]model.Event, error) {
	const sel = `SELECT ` + eventCols + ` FROM events WHERE ` + overlap
	if ownerID != nil {
		return r.list(ctx, sel+` AND owner_user_id=$3 ORDER BY start_at ASC`, from, to, *ownerID)
	}
	return r.list(ctx, sel+` ORDER BY start_at ASC`, from, to)
}

// ListByCategory returns events in a category by start time.
func (r *EventRepo) ListByCategory(ctx context.Context, categoryID uuid.UUID, ownerID *uuid.UUID) ([]model.Event, error) {
	const sel = `SELECT ` + eventCols + ` FROM events WHERE category_id=$1`
	if ownerID != nil {
		return r.list(ctx, sel+` AND owner_user_id=$2 ORDER BY start_at ASC`, categoryID, *ownerID)
	}
	return r.list(ctx, sel+` ORDER BY start_at ASC`, categoryID)
}

// Update sets the supplied columns and returns the updated row.
func (r *EventRepo) Update(ctx context.Context, id uuid.UUID, p model.EventPatch) (*model.Event, error) {
	q, err := r.src.querier()
	if err != nil {
		return nil, err
	}
	var s setList
	if p.Title != nil {
		s.add("title", *p.Title)
	}
	if p.Description.Set {
		s.add("description", p.Description.Value)
	}
	if p.StartAt != nil {
		s.add("start_at", *p.StartAt)
	}
	if p.EndAt.Set {
		s.add("end_at", p.EndAt.Value)
	}
	if p.Location.Set {
		s.add("location", p.Location.Value)
	}
	if p.OwnerUserID != nil {
		s.add("owner_user_id", *p.OwnerUserID)
	}
	if p.CategoryID.Set {
		s.add("category_id", p.CategoryID.Value)
	}
	if p.Recurrence.Set {
		s.add("recurrence", recurrenceArg(p.Recurrence.Value))
	}
	if p.ReminderMinutes.Set {
		s.add("reminder_minutes", p.ReminderMinutes.Value)
	}
	s.add("updated_at", p.UpdatedAt)

	sql, args := s.update("events", id, eventCols)
	return scanEvent(q.QueryRow(ctx, sql, args...))
}

// Delete removes an event row.
func (r *EventRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.src, "events", id)
}

func (r *EventRepo) list(ctx context.Context, sql string, args ...any) ([]model.Event, error) {
	q, err := r.src.querier()
	if err != nil {
		return nil, err
	}
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func scanEvent(row pgx.Row) (*model.Event, error) {
	var (
		e   model.Event
		rec *string
	)
	err := row.Scan(
		&e.ID, &e.Title, &e.Description, &e.StartAt, &e.EndAt, &e.Location,
		&e.OwnerUserID, &e.CategoryID, &rec, &e.ReminderMinutes,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, notFoundOr(err)
	}
	if rec != nil {
		r := model.Recurrence(*rec)
		e.Recurrence = &r
	}
	return &e, nil
}

func recurrenceArg(r *model.Recurrence) *string {
	if r == nil {
		return nil
	}
	s := string(*r)
	return &s
}
