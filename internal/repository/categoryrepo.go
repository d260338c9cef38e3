package repository

import (
	"context"

	"github.com/and161185/agenda/internal/model"
	"github.com/gofrs/uuid/v5"
)

// CategoryRepository provides CRUD access for categories.
type CategoryRepository interface {
	// Create inserts a new category and assigns c.ID.
	Create(ctx context.Context, c *model.Category) error
	// GetByID loads a category by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Category, error)
	// ListByOwner returns the owner's categories ordered by creation time.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Category, error)
	// Update applies the supplied fields and returns the updated row.
	Update(ctx context.Context, id uuid.UUID, p model.CategoryPatch) (*model.Category, error)
	// Delete removes a category.
	Delete(ctx context.Context, id uuid.UUID) error
}
