package repository

import (
	"context"
	"time"

	"github.com/and161185/agenda/internal/model"
	"github.com/gofrs/uuid/v5"
)

// EventRepository provides CRUD and range access for events.
// All list methods order by start time ascending.
type EventRepository interface {
	// Create inserts a new event and assigns e.ID.
	Create(ctx context.Context, e *model.Event) error
	// GetByID loads an event by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Event, error)
	// ListByOwner returns the owner's events.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Event, error)
	// ListByDateRange returns events intersecting [from, to], optionally narrowed to an owner.
	ListByDateRange(ctx context.Context, from, to time.Time, ownerID *uuid.UUID) ([]model.Event, error)
	// ListByCategory returns events of a category, optionally narrowed to an owner.
	ListByCategory(ctx context.Context, categoryID uuid.UUID, ownerID *uuid.UUID) ([]model.Event, error)
	// Update applies the supplied fields and returns the updated row.
	Update(ctx context.Context, id uuid.UUID, p model.EventPatch) (*model.Event, error)
	// Delete removes an event.
	Delete(ctx context.Context, id uuid.UUID) error
}
